package mq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/constante/apiserver/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loopback struct {
	mu       sync.Mutex
	messages map[string][]Message
	closed   bool
}

func (l *loopback) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.messages == nil {
		l.messages = make(map[string][]Message)
	}
	id := fmt.Sprintf("%s-%d", channel, len(l.messages[channel]))
	l.messages[channel] = append(l.messages[channel], Message{ID: id, Data: data, Attributes: attrs})
	return id, nil
}

func (l *loopback) Subscribe(ctx context.Context, channel string, handler Handler) error {
	l.mu.Lock()
	pending := append([]Message(nil), l.messages[channel]...)
	l.mu.Unlock()
	for _, msg := range pending {
		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (l *loopback) Close() error {
	l.closed = true
	return nil
}

func TestMQ_DelegatesToBackend(t *testing.T) {
	backend := &loopback{}
	q := New(backend)
	ctx := context.Background()

	id, err := q.Publish(ctx, "events", []byte(`{"type":"habit.created"}`), map[string]string{"type": "habit.created"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	var got []Message
	err = q.Subscribe(ctx, "events", func(_ context.Context, msg Message) error {
		got = append(got, msg)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "habit.created", got[0].Attributes["type"])

	boom := errors.New("boom")
	err = q.Subscribe(ctx, "events", func(context.Context, Message) error { return boom })
	assert.ErrorIs(t, err, boom)

	require.NoError(t, q.Close())
	assert.True(t, backend.closed)
}

func TestOpen(t *testing.T) {
	q, err := Open(context.Background(), config.MQConfig{Backend: config.MQBackendNone})
	require.NoError(t, err)
	assert.Nil(t, q)

	_, err = Open(context.Background(), config.MQConfig{Backend: "kafka"})
	assert.ErrorContains(t, err, "unknown mq backend")

	_, err = Open(context.Background(), config.MQConfig{Backend: config.MQBackendRabbitMQ})
	assert.ErrorContains(t, err, "rabbitmq url is required")

	_, err = Open(context.Background(), config.MQConfig{Backend: config.MQBackendPubSub})
	assert.ErrorContains(t, err, "project id is required")
}

func TestHeadersToAttributes(t *testing.T) {
	assert.Nil(t, headersToAttributes(nil))

	attrs := headersToAttributes(amqp.Table{
		"type":  "record.created",
		"raw":   []byte("bytes"),
		"count": int32(3),
	})
	assert.Equal(t, map[string]string{
		"type":  "record.created",
		"raw":   "bytes",
		"count": "3",
	}, attrs)
}
