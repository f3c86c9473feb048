package activity

import "sync"

type memoryList struct {
	mu    sync.Mutex
	lists map[string][]string
}

// NewMemory returns a Log kept in process memory, used when no Redis is configured.
func NewMemory(limit int) *Log {
	return newLog(&memoryList{lists: make(map[string][]string)}, limit)
}

func (m *memoryList) push(key string, value []byte, limit int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := append([]string{string(value)}, m.lists[key]...)
	if len(list) > limit {
		list = list[:limit]
	}
	m.lists[key] = list
	return nil
}

func (m *memoryList) recent(key string, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.lists[key]
	if len(list) > limit {
		list = list[:limit]
	}
	return append([]string(nil), list...), nil
}

func (m *memoryList) close() error {
	return nil
}
