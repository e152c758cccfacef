package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Poupe902/Checkout-Bahia/internal/model"
)

// Session is one browser's checkout. The mutex serializes every state
// transition, which is also what enforces at-most-one submission in
// flight per session.
type Session struct {
	ID uuid.UUID

	mu    sync.Mutex
	State model.CheckoutState
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewStore() *Store {
	return &Store{sessions: map[uuid.UUID]*Session{}}
}

func (st *Store) Create() *Session {
	sess := &Session{
		ID:    uuid.New(),
		State: model.NewCheckoutState(),
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[sess.ID] = sess

	return sess
}

func (st *Store) Get(id uuid.UUID) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	sess, ok := st.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return sess, nil
}
