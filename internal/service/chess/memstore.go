package chess

import (
	"sort"
	"strings"
	"sync"
	"time"

	corechess "github.com/park285/chessboard/internal/chess"
	"github.com/park285/chessboard/internal/controller"
)

// session is one live game. mu serialises every command on it.
type session struct {
	mu sync.Mutex

	id        string
	label     string
	ctrl      *controller.Controller
	autoReply bool
	human     corechess.Color
	startedAt time.Time
	updatedAt time.Time
}

// SessionStore holds live sessions. Sessions are package-private, so every
// implementation lives in this package.
type SessionStore interface {
	Insert(s *session) error
	Get(id string) (*session, bool)
	Delete(id string) bool
	List() []*session
	Len() int
}

// memstore keeps sessions in process memory only.
type memstore struct {
	mu          sync.RWMutex
	maxSessions int
	sessions    map[string]*session
}

// NewMemoryStore holds at most maxSessions sessions; 0 means unbounded.
func NewMemoryStore(maxSessions int) SessionStore {
	if maxSessions < 0 {
		maxSessions = 0
	}
	return &memstore{
		maxSessions: maxSessions,
		sessions:    make(map[string]*session),
	}
}

func (m *memstore) Insert(s *session) error {
	if s == nil || strings.TrimSpace(s.id) == "" {
		return ErrSessionNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[s.id]; exists {
		return ErrDuplicateSession
	}
	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return ErrSessionLimit
	}
	m.sessions[s.id] = s
	return nil
}

func (m *memstore) Get(id string) (*session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[strings.TrimSpace(id)]
	return s, ok && s != nil
}

func (m *memstore) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	id = strings.TrimSpace(id)
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// List returns sessions oldest first.
func (m *memstore) List() []*session {
	m.mu.RLock()
	items := make([]*session, 0, len(m.sessions))
	for _, s := range m.sessions {
		items = append(items, s)
	}
	m.mu.RUnlock()
	sort.Slice(items, func(i, j int) bool {
		if !items[i].startedAt.Equal(items[j].startedAt) {
			return items[i].startedAt.Before(items[j].startedAt)
		}
		return items[i].id < items[j].id
	})
	return items
}

func (m *memstore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
