package responder

import (
	"encoding/json"
	"sync"

	"github.com/mini-maxit/runner/internal/logger"
	"github.com/mini-maxit/runner/internal/rabbitmq/channel"
	"github.com/mini-maxit/runner/pkg/errors"
	"github.com/mini-maxit/runner/pkg/messages"
	"github.com/mini-maxit/runner/pkg/solution"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Responder interface {
	// Publish sends msg to queueName on the default exchange. Publishes from any goroutine are
	// serialized onto the single AMQP channel.
	Publish(queueName string, msg amqp.Publishing) error
	PublishErrorToResponseQueue(messageType, messageID, responseQueue string, err error)
	PublishSuccessHandshakeRespond(
		messageType, messageID, responseQueue string,
		languageSpecs []messages.LanguageSpec,
	) error
	PublishSuccessStatusRespond(
		messageType, messageID, responseQueue string,
		status messages.ResponseWorkerStatusPayload,
	) error
	PublishPayloadTaskRespond(
		messageType, messageID, responseQueue string,
		verdict solution.Verdict,
	) error
	// Close stops accepting publishes and waits for queued ones to be sent.
	Close() error
}

type publishRequest struct {
	queueName string
	msg       amqp.Publishing
	result    chan error
}

type responder struct {
	logger      *zap.SugaredLogger
	channel     channel.Channel
	publishChan chan publishRequest
	done        chan struct{}
	mu          sync.RWMutex
	closed      bool
}

func NewResponder(ch channel.Channel, publishChanSize int) Responder {
	r := &responder{
		logger:      logger.NewNamedLogger("responder"),
		channel:     ch,
		publishChan: make(chan publishRequest, publishChanSize),
		done:        make(chan struct{}),
	}
	go r.publishLoop()
	return r
}

func (r *responder) publishLoop() {
	defer close(r.done)
	for req := range r.publishChan {
		req.result <- r.channel.Publish("", req.queueName, false, false, req.msg)
	}
}

func (r *responder) Publish(queueName string, msg amqp.Publishing) error {
	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return errors.ErrResponderClosed
	}
	req := publishRequest{queueName: queueName, msg: msg, result: make(chan error, 1)}
	r.publishChan <- req
	r.mu.RUnlock()

	return <-req.result
}

func (r *responder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.publishChan)
	r.mu.Unlock()

	<-r.done
	return nil
}

func (r *responder) PublishErrorToResponseQueue(messageType, messageID, responseQueue string, err error) {
	payload, jsonErr := json.Marshal(map[string]string{"error": err.Error()})
	if jsonErr != nil {
		r.logger.Errorf("Failed to marshal error payload: %s", jsonErr)
		return
	}

	if pubErr := r.publishResponse(messageType, messageID, responseQueue, false, payload); pubErr != nil {
		r.logger.Errorf("Failed to publish error message [MsgID: %s]: %s", messageID, pubErr)
		return
	}

	r.logger.Infof("Published error message to %s [MsgID: %s]", responseQueue, messageID)
}

func (r *responder) PublishSuccessHandshakeRespond(
	messageType, messageID, responseQueue string,
	languageSpecs []messages.LanguageSpec,
) error {
	payload, err := json.Marshal(messages.ResponseHandshakePayload{Languages: languageSpecs})
	if err != nil {
		return err
	}
	return r.publishResponse(messageType, messageID, responseQueue, true, payload)
}

func (r *responder) PublishSuccessStatusRespond(
	messageType, messageID, responseQueue string,
	status messages.ResponseWorkerStatusPayload,
) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return r.publishResponse(messageType, messageID, responseQueue, true, payload)
}

func (r *responder) PublishPayloadTaskRespond(
	messageType, messageID, responseQueue string,
	verdict solution.Verdict,
) error {
	payload, err := json.Marshal(verdict)
	if err != nil {
		return err
	}
	return r.publishResponse(messageType, messageID, responseQueue, true, payload)
}

func (r *responder) publishResponse(messageType, messageID, responseQueue string, ok bool, payload []byte) error {
	body, err := json.Marshal(messages.ResponseQueueMessage{
		Type:      messageType,
		MessageID: messageID,
		Ok:        ok,
		Payload:   payload,
	})
	if err != nil {
		return err
	}

	return r.Publish(responseQueue, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: messageID,
		Body:          body,
	})
}
