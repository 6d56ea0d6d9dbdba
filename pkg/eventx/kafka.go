package eventx

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/proconsultancy/backend/pkg/logx"
)

// KafkaPublisher publica eventos de dominio a un tópico Kafka
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher crea un publisher. username/password vacíos desactivan SASL.
func NewKafkaPublisher(broker, topic, username, password string, writeTimeout time.Duration) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: writeTimeout,
	}

	if username != "" {
		writer.Transport = &kafka.Transport{
			SASL: plain.Mechanism{
				Username: username,
				Password: password,
			},
			TLS: &tls.Config{},
		}
	}

	return &KafkaPublisher{writer: writer}
}

// Publish escribe el evento al tópico. Un broker caído no debe tumbar la
// operación de negocio: el error se loguea y se devuelve para que el caller
// decida, pero los services lo tratan como best-effort.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if p == nil || p.writer == nil {
		return nil
	}

	value, err := event.Marshal()
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(event.EntityCode),
		Value: value,
		Time:  event.OccurredAt,
	})
	if err != nil {
		logx.WithFields(logx.Fields{
			"type":        event.Type,
			"entity_code": event.EntityCode,
		}).Errorf("Failed to publish event: %v", err)
	}
	return err
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
