package emo

import "sync"

// Sessions holds one Builder per position.
type Sessions struct {
	suggester Suggester
	cfg       BuilderConfig

	mu       sync.Mutex
	builders map[int]*Builder
}

func NewSessions(s Suggester, cfg BuilderConfig) *Sessions {
	return &Sessions{suggester: s, cfg: cfg, builders: make(map[int]*Builder)}
}

// For returns the builder of positionID, creating it on first use.
func (s *Sessions) For(positionID int) *Builder {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.builders[positionID]
	if !ok {
		b = NewBuilder(positionID, s.suggester, s.cfg)
		s.builders[positionID] = b
	}
	return b
}

// Peek returns the builder of positionID without creating one.
func (s *Sessions) Peek(positionID int) (*Builder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.builders[positionID]
	return b, ok
}

// Len is the number of open sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.builders)
}

// Close forgets the session of positionID and cancels its in-flight call.
func (s *Sessions) Close(positionID int) {
	s.mu.Lock()
	b, ok := s.builders[positionID]
	delete(s.builders, positionID)
	s.mu.Unlock()
	if ok {
		b.close()
	}
}
