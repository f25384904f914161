package consumer

import (
	"encoding/json"
	e "errors"
	"fmt"

	"github.com/mini-maxit/runner/internal/logger"
	"github.com/mini-maxit/runner/internal/rabbitmq/channel"
	"github.com/mini-maxit/runner/internal/rabbitmq/responder"
	"github.com/mini-maxit/runner/internal/scheduler"
	"github.com/mini-maxit/runner/pkg/constants"
	"github.com/mini-maxit/runner/pkg/errors"
	"github.com/mini-maxit/runner/pkg/languages"
	"github.com/mini-maxit/runner/pkg/messages"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Consumer interface {
	// Listen declares the worker queue and handles deliveries until the channel closes.
	Listen() error
	// ProcessMessage handles a single delivery.
	ProcessMessage(msg amqp.Delivery)
}

type consumer struct {
	channel           channel.Channel
	workerQueueName   string
	responseQueueName string
	scheduler         scheduler.Scheduler
	responder         responder.Responder
	logger            *zap.SugaredLogger
}

func NewConsumer(
	ch channel.Channel,
	workerQueueName string,
	responseQueueName string,
	scheduler scheduler.Scheduler,
	responder responder.Responder,
) Consumer {
	return &consumer{
		channel:           ch,
		workerQueueName:   workerQueueName,
		responseQueueName: responseQueueName,
		scheduler:         scheduler,
		responder:         responder,
		logger:            logger.NewNamedLogger("consumer"),
	}
}

func (c *consumer) Listen() error {
	c.logger.Infof("Declaring queue %s", c.workerQueueName)

	args := amqp.Table{"x-max-priority": constants.RabbitMQMaxPriority}
	if _, err := c.channel.QueueDeclare(c.workerQueueName, true, false, false, false, args); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", c.workerQueueName, err)
	}

	msgs, err := c.channel.Consume(c.workerQueueName, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume messages from queue %s: %w", c.workerQueueName, err)
	}

	c.logger.Infof("Listening for messages on queue %s", c.workerQueueName)
	for msg := range msgs {
		c.ProcessMessage(msg)
	}

	c.logger.Info("Delivery channel closed, stopping consumer")
	return nil
}

// replyQueue is the delivery's ReplyTo, or the configured response queue when the sender set none.
func (c *consumer) replyQueue(msg amqp.Delivery) string {
	if msg.ReplyTo != "" {
		return msg.ReplyTo
	}
	return c.responseQueueName
}

func (c *consumer) ProcessMessage(msg amqp.Delivery) {
	replyTo := c.replyQueue(msg)

	var queueMessage messages.QueueMessage
	if err := json.Unmarshal(msg.Body, &queueMessage); err != nil {
		c.logger.Errorf("Failed to unmarshal message: %s", err)
		c.responder.PublishErrorToResponseQueue(queueMessage.Type, msg.CorrelationId, replyTo, err)
		return
	}

	switch queueMessage.Type {
	case constants.QueueMessageTypeTask:
		c.logger.Infof("Received task message [MsgID: %s]", queueMessage.MessageID)
		c.handleTaskMessage(queueMessage, replyTo)
	case constants.QueueMessageTypeStatus:
		c.logger.Infof("Received status message [MsgID: %s]", queueMessage.MessageID)
		c.handleStatusMessage(queueMessage, replyTo)
	case constants.QueueMessageTypeHandshake:
		c.logger.Infof("Received handshake message [MsgID: %s]", queueMessage.MessageID)
		c.handleHandshakeMessage(queueMessage, replyTo)
	default:
		c.logger.Errorf("Unknown message type: %s", queueMessage.Type)
		c.responder.PublishErrorToResponseQueue(
			queueMessage.Type,
			queueMessage.MessageID,
			replyTo,
			errors.ErrUnknownMessageType,
		)
	}
}

// requeueTask puts a task back on the worker queue above the default priority so it is
// picked up before newer submissions once a worker frees up. ReplyTo is kept.
func (c *consumer) requeueTask(queueMessage messages.QueueMessage, replyTo string) error {
	body, err := json.Marshal(queueMessage)
	if err != nil {
		return err
	}

	return c.responder.Publish(c.workerQueueName, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: queueMessage.MessageID,
		ReplyTo:       replyTo,
		Body:          body,
		Priority:      constants.RabbitMQRequeuePriority,
	})
}

func (c *consumer) handleTaskMessage(queueMessage messages.QueueMessage, replyTo string) {
	var sub messages.Submission
	if err := json.Unmarshal(queueMessage.Payload, &sub); err != nil {
		c.logger.Errorf("Failed to unmarshal task payload [MsgID: %s]: %s", queueMessage.MessageID, err)
		c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, replyTo, err)
		return
	}

	err := c.scheduler.ProcessTask(queueMessage.MessageID, replyTo, &sub)
	if err == nil {
		return
	}

	if e.Is(err, errors.ErrFailedToGetFreeWorker) {
		c.logger.Warnf("All workers busy, requeueing [MsgID: %s]", queueMessage.MessageID)
		if requeueErr := c.requeueTask(queueMessage, replyTo); requeueErr != nil {
			c.logger.Errorf("Failed to requeue task [MsgID: %s]: %s", queueMessage.MessageID, requeueErr)
			c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, replyTo, requeueErr)
		}
		return
	}

	c.logger.Errorf("Failed to process task [MsgID: %s]: %s", queueMessage.MessageID, err)
	c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, replyTo, err)
}

func (c *consumer) handleStatusMessage(queueMessage messages.QueueMessage, replyTo string) {
	status := c.scheduler.GetWorkersStatus()

	err := c.responder.PublishSuccessStatusRespond(queueMessage.Type, queueMessage.MessageID, replyTo, status)
	if err != nil {
		c.logger.Errorf("Failed to publish status message: %s", err)
		c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, replyTo, err)
	}
}

func (c *consumer) handleHandshakeMessage(queueMessage messages.QueueMessage, replyTo string) {
	err := c.responder.PublishSuccessHandshakeRespond(
		queueMessage.Type,
		queueMessage.MessageID,
		replyTo,
		languages.GetSupportedLanguagesSpec(),
	)
	if err != nil {
		c.logger.Errorf("Failed to publish supported languages: %s", err)
		c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, replyTo, err)
	}
}
