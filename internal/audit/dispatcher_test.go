package audit

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type memoryStore struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (m *memoryStore) Log(ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("db down")
	}
	m.events = append(m.events, ev)
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestDispatcher_DeliversBeforeClose(t *testing.T) {
	store := &memoryStore{}
	d := NewDispatcher(store, quietLogger())

	for i := 0; i < 10; i++ {
		d.Dispatch(Event{OwnerID: 1, Action: "booking_created"})
	}
	d.Close()

	assert.Len(t, store.events, 10)

	// dispatch after close is a no-op
	d.Dispatch(Event{Action: "late"})
	d.Close()
	assert.Len(t, store.events, 10)
}

func TestDispatcher_StoreFailureIsSwallowed(t *testing.T) {
	store := &memoryStore{fail: true}
	d := NewDispatcher(store, quietLogger())

	assert.NotPanics(t, func() {
		d.Dispatch(Event{Action: "booking_created"})
		d.Close()
	})
}
