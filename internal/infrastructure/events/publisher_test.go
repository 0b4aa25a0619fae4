package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/jhoicas/Restobar-api/pkg/logger"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func sampleEvent() *entity.SaleEvent {
	return &entity.SaleEvent{
		ID:            "ev-1",
		OrderID:       "order-1",
		Total:         decimal.NewFromInt(24000),
		PaymentMethod: entity.PaymentCash,
		Lines: []entity.SaleEventLine{
			{ProductID: "p-1", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(12000), Amount: decimal.NewFromInt(24000)},
		},
	}
}

func TestKafkaPublisher_ClaveEsLaOrden(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, logger.Nop())
	p.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "order-1", string(w.msgs[0].Key))

	var env Envelope
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &env))
	assert.Equal(t, EventTypeSaleClosed, env.EventType)
	assert.NotEmpty(t, env.EventID)
	require.NotNil(t, env.Payload)
	assert.Equal(t, "ev-1", env.Payload.ID)
	assert.True(t, env.Payload.Total.Equal(decimal.NewFromInt(24000)))
	require.Len(t, env.Payload.Lines, 1)
}

func TestKafkaPublisher_PropagaErrorDelWriter(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker caído")}
	p := newKafkaPublisher(w, logger.Nop())

	err := p.Publish(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker caído")
}

func TestNewKafkaPublisher_SinBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "sales", logger.Nop())
	assert.Error(t, err)
	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "", logger.Nop())
	assert.Error(t, err)
}

func TestLogPublisher_RegistraVenta(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(logger.NewWithWriter(&buf, "info"))

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	assert.Contains(t, buf.String(), `"order_id":"order-1"`)
	assert.Contains(t, buf.String(), "venta cerrada")
}
