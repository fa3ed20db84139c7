package cart

import "sync"

// Store holds one cart per session. It replaces the browser-held ambient
// cart state with an explicit lifecycle: created on first touch, dropped on
// sign-out or checkout success.
type Store struct {
	mu     sync.Mutex
	pricer Pricer
	carts  map[string]*Cart
}

func NewStore(pricer Pricer) *Store {
	return &Store{
		pricer: pricer,
		carts:  make(map[string]*Cart),
	}
}

// Get returns the session's cart, creating it if needed.
func (s *Store) Get(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		c = New(s.pricer)
		s.carts[sessionID] = c
	}
	return c
}

// Drop discards the session's cart.
func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}
