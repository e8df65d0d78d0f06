package messaging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ordenes-api/internal/domain/entity"
	"github.com/jhoicas/ordenes-api/internal/infrastructure/messaging"
	"github.com/jhoicas/ordenes-api/pkg/config"
)

const testTopic = "apparel-shop-queue"

func sampleOrder() entity.Order {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return entity.Order{
		ID:         "o-1",
		UserID:     "u-1",
		Status:     entity.OrderStatusProcessing,
		TotalPrice: decimal.RequireFromString("15.00"),
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
		Lines: []entity.OrderLine{{
			ID: "l-1", OrderID: "o-1", ProductID: "p-1", Quantity: 3,
			UnitPrice: decimal.RequireFromString("5.00"), Price: decimal.RequireFromString("15.00"),
		}},
	}
}

func decode(t *testing.T, b []byte) messaging.OrderMessage {
	t.Helper()
	var m messaging.OrderMessage
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

// ──────────────────────────────────────────────────────────────────────────────
// Payload
// ──────────────────────────────────────────────────────────────────────────────

func TestEncode_OrdenCompleta(t *testing.T) {
	key, value, err := messaging.Encode(sampleOrder())
	require.NoError(t, err)
	assert.Equal(t, "o-1", string(key))

	m := decode(t, value)
	assert.Equal(t, "PROCESSING", m.Status)
	assert.Equal(t, "u-1", m.UserID)
	assert.Equal(t, int64(1), m.Version)
	assert.True(t, m.TotalPrice.Equal(decimal.RequireFromString("15")))
	require.Len(t, m.Products, 1)
	assert.Equal(t, "p-1", m.Products[0].ID)
	assert.Equal(t, 3, m.Products[0].Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// sarama
// ──────────────────────────────────────────────────────────────────────────────

func TestSaramaNotifier_Publica(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != testTopic {
			return errors.New("topic incorrecto: " + msg.Topic)
		}
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "o-1" {
			return errors.New("clave incorrecta: " + string(key))
		}
		return nil
	})

	n := messaging.NewSaramaNotifierWithProducer(producer, testTopic, zerolog.Nop())
	require.NoError(t, n.NotifyStatusChange(context.Background(), sampleOrder()))
	require.NoError(t, n.Close())
}

func TestSaramaNotifier_Error(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	n := messaging.NewSaramaNotifierWithProducer(producer, testTopic, zerolog.Nop())
	err := n.NotifyStatusChange(context.Background(), sampleOrder())
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, n.Close())
}

// ──────────────────────────────────────────────────────────────────────────────
// kafka-go
// ──────────────────────────────────────────────────────────────────────────────

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessage(_ context.Context, msg kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msg)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaGoNotifier_Publica(t *testing.T) {
	w := &fakeWriter{}
	n := messaging.NewKafkaGoNotifierWithWriter(w, testTopic, zerolog.Nop())

	require.NoError(t, n.NotifyStatusChange(context.Background(), sampleOrder()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "o-1", string(w.msgs[0].Key))
	assert.Equal(t, "PROCESSING", decode(t, w.msgs[0].Value).Status)

	require.NoError(t, n.Close())
	assert.True(t, w.closed)
}

func TestKafkaGoNotifier_Error(t *testing.T) {
	boom := errors.New("broker caído")
	n := messaging.NewKafkaGoNotifierWithWriter(&fakeWriter{err: boom}, testTopic, zerolog.Nop())
	assert.ErrorIs(t, n.NotifyStatusChange(context.Background(), sampleOrder()), boom)
}

// ──────────────────────────────────────────────────────────────────────────────
// log y factory
// ──────────────────────────────────────────────────────────────────────────────

func TestLogNotifier_EscribeLinea(t *testing.T) {
	var buf bytes.Buffer
	n := messaging.NewLogNotifier(testTopic, zerolog.New(&buf))

	require.NoError(t, n.NotifyStatusChange(context.Background(), sampleOrder()))

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, testTopic, line["topic"])
	payload, ok := line["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "o-1", payload["id"])
}

func TestNew_PorDefectoLog(t *testing.T) {
	n, err := messaging.New(config.NotifierConfig{Driver: config.NotifierLog, Topic: testTopic}, nil, zerolog.Nop())
	require.NoError(t, err)
	_, ok := n.(*messaging.LogNotifier)
	assert.True(t, ok)

	_, err = messaging.New(config.NotifierConfig{Driver: "rabbit"}, nil, zerolog.Nop())
	assert.Error(t, err)
}
