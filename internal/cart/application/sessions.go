package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmehra2102/pizzeria-ordering/internal/cart/domain"
)

var ErrSessionNotFound = errors.New("cart session not found")

type session struct {
	mu       sync.Mutex
	cart     *domain.Cart
	lastSeen time.Time
}

// SessionStore holds one cart per customer session. Access to a cart is
// serialised by WithCart; idle sessions are evicted by Run.
type SessionStore struct {
	log    *slog.Logger
	policy domain.ComboPolicy
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessionStore(log *slog.Logger, policy domain.ComboPolicy, ttl time.Duration) *SessionStore {
	return &SessionStore{
		log:      log,
		policy:   policy,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

func (s *SessionStore) Open() string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &session{cart: domain.NewCart(s.policy), lastSeen: s.now()}
	return id
}

// WithCart runs fn with exclusive access to the session's cart.
func (s *SessionStore) WithCart(id string, fn func(c *domain.Cart) error) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		sess.lastSeen = s.now()
	}
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.cart)
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the ttl. Sessions in use are
// skipped.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	n := 0
	for id, sess := range s.sessions {
		if !sess.lastSeen.Before(cutoff) || !sess.mu.TryLock() {
			continue
		}
		delete(s.sessions, id)
		sess.mu.Unlock()
		n++
	}
	return n
}

func (s *SessionStore) Run(ctx context.Context) error {
	every := s.ttl / 2
	if every < time.Second {
		every = time.Second
	}
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("cart sweeper stopping")
			return nil
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				s.log.Info("evicted idle carts", "count", n, "active", s.Len())
			}
		}
	}
}
