package state

import "sync"

type memoryStore[T any] struct {
	mu       sync.Mutex
	sessions map[int64]T
}

// NewMemoryStore constructs an in-memory Store. Sessions do not survive a restart.
func NewMemoryStore[T any]() Store[T] {
	return &memoryStore[T]{sessions: make(map[int64]T)}
}

func (m *memoryStore[T]) Get(userID int64) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	return s, ok
}

func (m *memoryStore[T]) Put(userID int64, session T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = session
}

func (m *memoryStore[T]) Delete(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

func (m *memoryStore[T]) Update(userID int64, fn func(cur T, ok bool) (T, bool)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.sessions[userID]
	next, keep := fn(cur, ok)
	if !keep {
		delete(m.sessions, userID)
		return nil
	}
	m.sessions[userID] = next
	return nil
}

func (m *memoryStore[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
