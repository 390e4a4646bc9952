package handlers

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPaymentHubDeliversToWatchersOnly(t *testing.T) {
	hub := NewPaymentHub()
	paid, other := uuid.New(), uuid.New()

	a, b, c := &recordingConn{}, &recordingConn{}, &recordingConn{}
	hub.register(paid, a)
	hub.register(paid, b)
	hub.register(other, c)

	hub.PaymentCompleted(paid)

	assert.Len(t, a.messages(), 1)
	assert.Len(t, b.messages(), 1)
	assert.Empty(t, c.messages())
	assert.JSONEq(t, `{"type":"payment_completed","submissionId":"`+paid.String()+`"}`, a.messages()[0])
}

func TestPaymentHubUnregister(t *testing.T) {
	hub := NewPaymentHub()
	id := uuid.New()
	conn := &recordingConn{}

	unwatch := hub.Watch(id, conn)
	assert.Equal(t, 1, hub.watchers(id))
	unwatch()
	assert.Equal(t, 0, hub.watchers(id))

	hub.PaymentCompleted(id)
	assert.Empty(t, conn.messages())
}

func TestPaymentHubSurvivesWriteErrors(t *testing.T) {
	hub := NewPaymentHub()
	id := uuid.New()
	broken := &recordingConn{err: errors.New("closed")}
	healthy := &recordingConn{}
	hub.register(id, broken)
	hub.register(id, healthy)

	assert.NotPanics(t, func() { hub.PaymentCompleted(id) })
	assert.Len(t, healthy.messages(), 1)
}

type recordingConn struct {
	mu   sync.Mutex
	msgs []string
	err  error
}

func (c *recordingConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, string(data))
	return c.err
}

func (c *recordingConn) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.msgs...)
}
