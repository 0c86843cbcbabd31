package queue

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

type NATSQueue struct {
	conn *nats.Conn
	log  *zap.Logger
}

func NewNATSQueue(url string, log *zap.Logger) (MessageQueue, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Info("Successfully connected to NATS", zap.String("url", url))
	return &NATSQueue{conn: nc, log: log}, nil
}

func (q *NATSQueue) Publish(topic string, data []byte) error {
	return q.conn.Publish(topic, data)
}

func (q *NATSQueue) Subscribe(topic, group string, handler func(data []byte) error) error {
	// A queue subscription handles one message at a time per member,
	// which keeps per-subscriber ordering for the telemetry writer.
	_, err := q.conn.QueueSubscribe(topic, group, func(msg *nats.Msg) {
		if err := handler(msg.Data); err != nil {
			q.log.Error("Error processing message",
				zap.String("topic", topic),
				zap.String("group", group),
				zap.Error(err),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("nats: subscribe %s: %w", topic, err)
	}

	q.log.Info("Subscribed to NATS topic", zap.String("topic", topic), zap.String("group", group))
	return nil
}

func (q *NATSQueue) Close() error {
	q.conn.Close()
	return nil
}
