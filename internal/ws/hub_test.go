package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	fail     bool
	closed   bool
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broken pipe")
	}
	f.messages = append(f.messages, data)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) received() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.messages...)
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func TestHubScopesByCompany(t *testing.T) {
	c := qt.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	companyA, companyB := uuid.New(), uuid.New()
	connA, connB := &fakeConn{}, &fakeConn{}
	hub.Register(&Client{Conn: connA, UserID: uuid.New(), CompanyID: companyA})
	hub.Register(&Client{Conn: connB, UserID: uuid.New(), CompanyID: companyB})

	hub.Publish(companyA, Event{Type: EventStockUpdate, Action: "adjusted", Message: "stok berubah"})

	c.Assert(waitFor(func() bool { return len(connA.received()) == 1 }), qt.IsTrue)
	c.Assert(connB.received(), qt.HasLen, 0)

	var got Event
	c.Assert(json.Unmarshal(connA.received()[0], &got), qt.IsNil)
	c.Assert(got.Type, qt.Equals, EventStockUpdate)
	c.Assert(got.Message, qt.Equals, "stok berubah")
}

func TestHubDropsFailingClients(t *testing.T) {
	c := qt.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	company := uuid.New()
	conn := &fakeConn{fail: true}
	hub.Register(&Client{Conn: conn, UserID: uuid.New(), CompanyID: company})
	hub.Publish(company, Event{Type: EventTransactionCreated})

	c.Assert(waitFor(conn.isClosed), qt.IsTrue)
}

func TestHubClosesClientsOnShutdown(t *testing.T) {
	c := qt.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zerolog.Nop())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	conn := &fakeConn{}
	hub.Register(&Client{Conn: conn, CompanyID: uuid.New()})
	cancel()
	<-done

	c.Assert(conn.isClosed(), qt.IsTrue)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestHubDoesNotBlockAfterShutdown(t *testing.T) {
	c := qt.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zerolog.Nop())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	conn := &fakeConn{}
	client := &Client{Conn: conn, CompanyID: uuid.New()}
	returned := make(chan struct{})
	go func() {
		hub.Register(client)
		hub.Unregister(client)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		c.Fatal("Register/Unregister blocked after Run returned")
	}
	c.Assert(conn.isClosed(), qt.IsTrue)
}
