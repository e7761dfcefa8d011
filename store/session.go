package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/bitmark-inc/hormone-health/form"
)

const sessionLogPrefix = "session"

var ErrSessionNotFound = errors.New("form session not found")

// SessionStore keeps the form controller of every open form session.
// Sessions live in memory only and are dropped after being idle for the TTL.
type SessionStore interface {
	Create(c *form.Controller) string
	Get(id string) (*form.Controller, error)
	Delete(id string) error
	Sweep(now time.Time) int
	Len() int
}

type sessionEntry struct {
	controller *form.Controller
	lastSeen   time.Time
}

type memorySessionStore struct {
	sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*sessionEntry
}

// NewMemorySessionStore returns a store evicting sessions idle longer than ttl.
// A non-positive ttl keeps sessions until they are deleted.
func NewMemorySessionStore(ttl time.Duration) SessionStore {
	return &memorySessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: map[string]*sessionEntry{},
	}
}

func (m *memorySessionStore) Create(c *form.Controller) string {
	id := uuid.New().String()

	m.Lock()
	defer m.Unlock()

	m.sessions[id] = &sessionEntry{
		controller: c,
		lastSeen:   m.now(),
	}
	return id
}

func (m *memorySessionStore) Get(id string) (*form.Controller, error) {
	m.Lock()
	defer m.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	e.lastSeen = m.now()
	return e.controller, nil
}

func (m *memorySessionStore) Delete(id string) error {
	m.Lock()
	defer m.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}

	delete(m.sessions, id)
	return nil
}

// Sweep removes sessions idle since before now-ttl and returns how many
func (m *memorySessionStore) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}

	m.Lock()
	defer m.Unlock()

	removed := 0
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		log.WithField("prefix", sessionLogPrefix).Infof("evicted %d idle form sessions", removed)
	}
	return removed
}

func (m *memorySessionStore) Len() int {
	m.Lock()
	defer m.Unlock()

	return len(m.sessions)
}
