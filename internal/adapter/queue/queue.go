package queue

// MessageQueue is the broker boundary for both the telemetry and alert
// topics. Subscribe binds a handler under a consumer group: messages on
// a topic are load-balanced across group members, and delivery within
// one member is serialized.
type MessageQueue interface {
	Publish(topic string, data []byte) error
	Subscribe(topic, group string, handler func(data []byte) error) error
	Close() error
}
