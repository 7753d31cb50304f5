package wallet

import (
	"encoding/json"
	"sync"
)

// subscribers fans provider events out to registered handlers.
type subscribers struct {
	mu     sync.RWMutex
	nextID int
	byName map[string]map[int]func(json.RawMessage)
}

func newSubscribers() *subscribers {
	return &subscribers{byName: make(map[string]map[int]func(json.RawMessage))}
}

func (s *subscribers) add(event string, fn func(json.RawMessage)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	if s.byName[event] == nil {
		s.byName[event] = make(map[int]func(json.RawMessage))
	}
	s.byName[event][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.byName[event], id)
			s.mu.Unlock()
		})
	}
}

func (s *subscribers) emit(event string, payload json.RawMessage) {
	s.mu.RLock()
	handlers := make([]func(json.RawMessage), 0, len(s.byName[event]))
	for _, fn := range s.byName[event] {
		handlers = append(handlers, fn)
	}
	s.mu.RUnlock()

	for _, fn := range handlers {
		fn(payload)
	}
}
