package broadcast

import (
	"context"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaConfig holds the optional event stream settings.
type KafkaConfig struct {
	// Brokers is a comma-separated list of broker addresses. Empty disables the sink.
	Brokers string `mapstructure:"brokers" default:""`
	// Topic receives every published event.
	Topic string `mapstructure:"topic" default:"token-events"`
}

// BrokerList splits Brokers.
func (c KafkaConfig) BrokerList() []string {
	var out []string
	for _, b := range strings.Split(c.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink mirrors published events to a Kafka topic, keyed by event name.
// Writes are asynchronous and failures are only logged.
type KafkaSink struct {
	writer messageWriter
	logger *zap.Logger
}

// NewKafkaSink creates an asynchronous producer.
func NewKafkaSink(cfg KafkaConfig, logger *zap.Logger) *KafkaSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.BrokerList()...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warn("Failed to deliver events to kafka", zap.Int("messages", len(messages)), zap.Error(err))
			}
		},
	}
	return &KafkaSink{writer: w, logger: logger}
}

// Publish implements Sink.
func (s *KafkaSink) Publish(event string, payload []byte) {
	err := s.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(event),
		Value: payload,
		Time:  time.Now(),
	})
	if err != nil {
		s.logger.Warn("Failed to enqueue event for kafka", zap.String("event", event), zap.Error(err))
	}
}

// Close flushes pending messages.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
