package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/i474232898/weather-portal/internal/nav"
	"github.com/i474232898/weather-portal/internal/storage"
)

// ErrEmptyCredentials is returned by Login when token or email is empty.
var ErrEmptyCredentials = errors.New("session: token and email must be non-empty")

// Status is the tri-state view of authentication. Unknown means storage has
// not been read yet and must not be confused with Unauthenticated.
type Status int

const (
	StatusUnknown Status = iota
	StatusUnauthenticated
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Session is the client-held authentication record. Token and Email are
// non-empty exactly when Status is StatusAuthenticated.
type Session struct {
	Status Status
	Email  string
	Token  string
}

// Authenticated reports whether the session carries a usable token.
func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

// Store is the single source of truth for one browser's session. It bridges
// the in-memory state and the browser's persistent storage.
type Store struct {
	storage storage.Storage

	mu      sync.RWMutex
	current Session

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Session)
}

// NewStore creates a Store in the Unknown state backed by st.
func NewStore(st storage.Storage) *Store {
	return &Store{
		storage: st,
		subs:    make(map[int]func(Session)),
	}
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Initialize restores the session from storage. Both keys must be present
// and non-empty; partial state is discarded. Read failures count as absence.
func (s *Store) Initialize(ctx context.Context) {
	token := s.read(ctx, storage.KeyToken)
	email := s.read(ctx, storage.KeyEmail)

	if token != "" && email != "" {
		s.set(Session{Status: StatusAuthenticated, Email: email, Token: token})
		return
	}
	s.set(Session{Status: StatusUnauthenticated})
}

// Login persists token and email, marks the session authenticated and
// directs navigate to the weather view. Storage write failures are logged
// only; the in-memory transition happens regardless.
func (s *Store) Login(ctx context.Context, token, email string, navigate nav.Navigate) error {
	if token == "" || email == "" {
		return ErrEmptyCredentials
	}

	if err := s.storage.Set(ctx, storage.KeyToken, token); err != nil {
		log.Printf("ERROR: session: persist %s: %v", storage.KeyToken, err)
	}
	if err := s.storage.Set(ctx, storage.KeyEmail, email); err != nil {
		log.Printf("ERROR: session: persist %s: %v", storage.KeyEmail, err)
	}

	s.set(Session{Status: StatusAuthenticated, Email: email, Token: token})

	if navigate != nil {
		navigate(nav.Directive{To: nav.Weather})
	}
	return nil
}

// Logout removes the persisted keys, clears the session and directs navigate
// to the sign-in view. It always succeeds from the caller's point of view.
func (s *Store) Logout(ctx context.Context, navigate nav.Navigate) {
	if err := s.storage.Remove(ctx, storage.KeyToken); err != nil {
		log.Printf("ERROR: session: remove %s: %v", storage.KeyToken, err)
	}
	if err := s.storage.Remove(ctx, storage.KeyEmail); err != nil {
		log.Printf("ERROR: session: remove %s: %v", storage.KeyEmail, err)
	}

	s.set(Session{Status: StatusUnauthenticated})

	if navigate != nil {
		navigate(nav.Directive{To: nav.SignIn})
	}
}

// Subscribe registers fn to be called with the new session after every
// transition. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Session)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) read(ctx context.Context, key string) string {
	v, ok, err := s.storage.Get(ctx, key)
	if err != nil {
		log.Printf("ERROR: session: read %s: %v", key, err)
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

// set replaces the whole session at once and notifies subscribers outside
// the state lock.
func (s *Store) set(next Session) {
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	s.subMu.Lock()
	fns := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}
