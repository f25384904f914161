package rabbitmq

import (
	"time"

	"github.com/mini-maxit/runner/internal/config"
	"github.com/mini-maxit/runner/internal/logger"
	"github.com/mini-maxit/runner/pkg/constants"
	amqp "github.com/rabbitmq/amqp091-go"
)

// NewRabbitMqConnection dials the broker, retrying with a linear backoff while it is still
// starting up. It is fatal when every attempt fails.
func NewRabbitMqConnection(cfg *config.Config) *amqp.Connection {
	logger := logger.NewNamedLogger("rabbitmq")

	var (
		conn *amqp.Connection
		err  error
	)
	for attempt := 1; attempt <= constants.RabbitMQReconnectTries; attempt++ {
		conn, err = amqp.Dial(cfg.RabbitMQURL)
		if err == nil {
			logger.Info("Connected to RabbitMQ")
			return conn
		}
		logger.Warnf("Failed to connect to RabbitMQ (attempt %d/%d): %s",
			attempt, constants.RabbitMQReconnectTries, err)
		time.Sleep(time.Duration(attempt) * time.Second)
	}

	logger.Fatalf("Giving up on RabbitMQ after %d attempts: %s", constants.RabbitMQReconnectTries, err)
	return nil
}

func NewRabbitMQChannel(conn *amqp.Connection) *amqp.Channel {
	logger := logger.NewNamedLogger("rabbitmq")

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatalf("Failed to open RabbitMQ channel: %s", err)
	}
	return ch
}
