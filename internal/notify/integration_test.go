//go:build integration

package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"
)

type AMQPBridgeIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *AMQPBridgeIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *AMQPBridgeIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestAMQPBridgeIntegrationSuite(t *testing.T) {
	suite.Run(t, new(AMQPBridgeIntegrationSuite))
}

func (s *AMQPBridgeIntegrationSuite) TestBridge_Connection() {
	cfg := AMQPConfig{
		URL:        s.amqpURL,
		Exchange:   "test-exchange",
		RoutingKey: "test-routing-key",
		QueueName:  "test-queue",
	}

	bridge, err := NewAMQPBridge(cfg, s.logger)
	s.NoError(err)
	s.NotNil(bridge)

	err = bridge.Close()
	s.NoError(err)
}

func (s *AMQPBridgeIntegrationSuite) TestBridge_PublishesChangeSignal() {
	cfg := AMQPConfig{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-signal",
		RoutingKey: "test-routing-key-signal",
		QueueName:  "test-queue-signal",
	}

	bridge, err := NewAMQPBridge(cfg, s.logger)
	s.Require().NoError(err)
	defer bridge.Close()

	before := time.Now().UTC().Add(-time.Second)
	bridge.Notify(s.ctx)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)
	s.Equal("application/json", msg.ContentType)
	s.Equal(uint8(amqp.Transient), msg.DeliveryMode)

	var received ChangeMessage
	err = json.Unmarshal(msg.Body, &received)
	s.NoError(err)
	s.True(received.ChangedAt.After(before))
}

func (s *AMQPBridgeIntegrationSuite) TestBridge_SignalCarriesNoRecordData() {
	cfg := AMQPConfig{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-shape",
		RoutingKey: "test-routing-key-shape",
		QueueName:  "test-queue-shape",
	}

	bridge, err := NewAMQPBridge(cfg, s.logger)
	s.Require().NoError(err)
	defer bridge.Close()

	bridge.Notify(s.ctx)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	var payload map[string]any
	err = json.Unmarshal(msg.Body, &payload)
	s.NoError(err)
	s.Len(payload, 1)
	s.Contains(payload, "changed_at")
}

func (s *AMQPBridgeIntegrationSuite) consumeMessage(cfg AMQPConfig) *amqp.Delivery {
	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	msgs, err := ch.Consume(cfg.QueueName, "", true, false, false, false, nil)
	s.Require().NoError(err)

	select {
	case msg := <-msgs:
		return &msg
	case <-time.After(5 * time.Second):
		s.Fail("Timeout waiting for message")
		return nil
	}
}
