package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/Restobar-api/internal/application/sales"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/jhoicas/Restobar-api/pkg/logger"
)

// EventTypeSaleClosed tipo del sobre publicado al cerrar una cuenta.
const EventTypeSaleClosed = "SaleClosed"

var (
	_ sales.SaleEventPublisher = (*KafkaPublisher)(nil)
	_ sales.SaleEventPublisher = (*LogPublisher)(nil)
)

// Envelope sobre común de los eventos publicados.
type Envelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	Payload   *entity.SaleEvent `json:"payload"`
	Timestamp time.Time         `json:"timestamp"`
}

// messageWriter lo que se usa de kafka.Writer; permite sustituirlo en tests.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publica los eventos de venta en un tópico, con la orden como clave
// para que los eventos de una misma cuenta caigan en la misma partición.
type KafkaPublisher struct {
	w   messageWriter
	log *logger.Logger
	now func() time.Time
}

// NewKafkaPublisher crea el writer hacia los brokers dados.
func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no hay brokers configurados")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka: tópico vacío")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
	return newKafkaPublisher(w, log), nil
}

func newKafkaPublisher(w messageWriter, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{w: w, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Publish serializa el evento dentro del sobre y lo escribe.
func (p *KafkaPublisher) Publish(ctx context.Context, ev *entity.SaleEvent) error {
	if ev == nil {
		return fmt.Errorf("kafka: evento nil")
	}
	body, err := json.Marshal(Envelope{
		EventID:   uuid.New().String(),
		EventType: EventTypeSaleClosed,
		Payload:   ev,
		Timestamp: p.now(),
	})
	if err != nil {
		return fmt.Errorf("kafka: serializar evento: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.OrderID),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeSaleClosed)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: publicar evento %s: %w", ev.ID, err)
	}
	p.log.Debug().Str("order_id", ev.OrderID).Str("sale_event_id", ev.ID).Msg("evento de venta publicado")
	return nil
}

// Close libera el writer.
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// LogPublisher se usa cuando no hay brokers: solo deja constancia en el log.
type LogPublisher struct {
	log *logger.Logger
}

// NewLogPublisher crea el publicador de respaldo.
func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

// Publish registra el evento.
func (p *LogPublisher) Publish(_ context.Context, ev *entity.SaleEvent) error {
	p.log.Info().
		Str("order_id", ev.OrderID).
		Str("sale_event_id", ev.ID).
		Str("total", ev.Total.String()).
		Str("payment_method", ev.PaymentMethod).
		Int("lines", len(ev.Lines)).
		Msg("venta cerrada")
	return nil
}
