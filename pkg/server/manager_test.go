package server

import (
	"errors"
	"testing"
	"time"
)

func TestManagerCreateAndGet(t *testing.T) {
	m := NewManager(nil, 0, nil)

	s, err := m.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := m.Get(s.ID()); got != s {
		t.Errorf("Get returned %v", got)
	}
	if m.Len() != 1 {
		t.Errorf("len = %d", m.Len())
	}
	if m.Get("nope") != nil {
		t.Error("unknown id should return nil")
	}
}

func TestManagerRemoveClosesSession(t *testing.T) {
	m := NewManager(nil, 0, nil)

	s, err := m.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	m.Remove(s.ID())

	if !s.IsClosed() {
		t.Error("removed session should be closed")
	}
	if m.Len() != 0 {
		t.Errorf("len = %d", m.Len())
	}

	// Unknown ids are a no-op
	m.Remove("nope")
}

func TestManagerMaxSessions(t *testing.T) {
	m := NewManager(nil, 2, nil)

	if _, err := m.Create(); err != nil {
		t.Fatalf("create 1: %v", err)
	}
	s2, err := m.Create()
	if err != nil {
		t.Fatalf("create 2: %v", err)
	}
	if _, err := m.Create(); !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("create 3: err = %v", err)
	}

	// Freed capacity is reusable
	m.Remove(s2.ID())
	if _, err := m.Create(); err != nil {
		t.Fatalf("create after remove: %v", err)
	}
}

func TestManagerEvictIdle(t *testing.T) {
	cfg := DefaultSessionConfig()
	cfg.IdleTimeout = 10 * time.Millisecond
	m := NewManager(cfg, 0, nil)

	idle, err := m.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	idle.lastActive.Store(time.Now().Add(-time.Second).UnixNano())

	fresh, err := m.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	m.evictIdle()

	if m.Get(idle.ID()) != nil {
		t.Error("idle session should have been evicted")
	}
	if !idle.IsClosed() {
		t.Error("evicted session should be closed")
	}
	if m.Get(fresh.ID()) != fresh {
		t.Error("active session should survive eviction")
	}
}

func TestManagerCloseAll(t *testing.T) {
	m := NewManager(nil, 0, nil)

	var all []*Session
	for i := 0; i < 3; i++ {
		s, err := m.Create()
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		all = append(all, s)
	}

	m.CloseAll()

	if m.Len() != 0 {
		t.Errorf("len = %d", m.Len())
	}
	for _, s := range all {
		if !s.IsClosed() {
			t.Errorf("session %s not closed", s.ID())
		}
	}
}
