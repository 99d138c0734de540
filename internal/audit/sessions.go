package audit

import "sync"

// SessionStore keeps the last Session per caller key.
type SessionStore interface {
	Get(key string) (Session, bool)
	Put(key string, s Session)
	Delete(key string)
}

// MemorySessions is an in-process SessionStore.
type MemorySessions struct {
	mu       sync.Mutex
	sessions map[string]Session
}

// NewMemorySessions constructs an empty store.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string]Session)}
}

func (m *MemorySessions) Get(key string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key]
	return s, ok
}

func (m *MemorySessions) Put(key string, s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = s
}

func (m *MemorySessions) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}
