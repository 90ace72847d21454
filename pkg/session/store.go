package session

import (
	"context"
	"errors"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"github.com/fadedpez/neobank/internal/logging"
	"github.com/fadedpez/neobank/internal/types"
	"github.com/fadedpez/neobank/pkg/entities"
	"github.com/fadedpez/neobank/pkg/storage"
)

// CredentialKey is the durable storage key holding the bearer credential
const CredentialKey = "neobank_token"

// EventKind describes a session transition
type EventKind int

const (
	EventEstablished EventKind = iota
	EventCleared
	EventExpired
	EventIdentityUpdated
)

func (k EventKind) String() string {
	switch k {
	case EventEstablished:
		return "established"
	case EventCleared:
		return "cleared"
	case EventExpired:
		return "expired"
	case EventIdentityUpdated:
		return "identity_updated"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after every session transition
type Event struct {
	Kind     EventKind
	Identity entities.Identity
}

// Session is the authenticated player
type Session struct {
	Credential string
	Identity   entities.Identity
}

// Hydrator resolves a stored credential into an identity without
// touching the store
type Hydrator interface {
	Hydrate(ctx context.Context, credential string) (entities.Identity, error)
}

type subscriber struct {
	id uint64
	fn func(Event)
}

// Store owns the single authenticated session and its durable credential
type Store struct {
	storage storage.Storage
	clock   clockwork.Clock
	logger  *logging.Logger

	mu      sync.RWMutex
	current *Session

	subsMu sync.Mutex
	subs   []subscriber
	nextID uint64
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the clock used for credential expiry checks
func WithClock(clock clockwork.Clock) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithLogger overrides the logger
func WithLogger(logger *logging.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a Store backed by st
func NewStore(st storage.Storage, opts ...Option) *Store {
	s := &Store{
		storage: st,
		clock:   clockwork.NewRealClock(),
		logger:  logging.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads a persisted credential and hydrates it. Any failure leaves
// the store without a session and the credential removed; nothing is
// surfaced beyond the false return.
func (s *Store) Restore(ctx context.Context, hydrator Hydrator) bool {
	credential, err := s.storage.Get(ctx, CredentialKey)
	if errors.Is(err, storage.ErrNotFound) {
		return false
	}
	if err != nil {
		s.logger.Warn("Failed to read stored credential: %v", err)
		return false
	}

	if credential == "" || s.credentialExpired(credential) {
		s.logger.Info("Stored credential is expired, discarding")
		s.discard(ctx)
		return false
	}

	identity, err := hydrator.Hydrate(ctx, credential)
	if err != nil {
		s.logger.Info("Stored credential rejected, discarding: %v", err)
		s.discard(ctx)
		return false
	}

	s.mu.Lock()
	s.current = &Session{Credential: credential, Identity: identity}
	s.mu.Unlock()

	s.logger.Info("Restored session for %s (%s)", identity.CharacterName, identity.AccountNumber)
	s.publish(Event{Kind: EventEstablished, Identity: identity})
	return true
}

// Establish stores a new session in memory and durable storage
func (s *Store) Establish(ctx context.Context, credential string, identity entities.Identity) error {
	if credential == "" {
		return types.NewClientError(types.ErrValidation, "credential is required")
	}
	if err := s.storage.Set(ctx, CredentialKey, credential); err != nil {
		return types.WrapError(types.ErrStorageError, "failed to persist credential", err)
	}

	s.mu.Lock()
	s.current = &Session{Credential: credential, Identity: identity}
	s.mu.Unlock()

	s.publish(Event{Kind: EventEstablished, Identity: identity})
	return nil
}

// Clear ends the session. Calling it without a session is a no-op apart
// from removing any stray stored credential.
func (s *Store) Clear(ctx context.Context) error {
	previous, ok := s.take("")
	err := s.storage.Delete(ctx, CredentialKey)
	if ok {
		s.publish(Event{Kind: EventCleared, Identity: previous.Identity})
	}
	if err != nil {
		return types.WrapError(types.ErrStorageError, "failed to remove credential", err)
	}
	return nil
}

// Expire ends the session because the backend rejected credential. A
// rejection for a credential that is no longer current is ignored, so a
// late response cannot log out a newer session.
func (s *Store) Expire(ctx context.Context, credential string) {
	previous, ok := s.take(credential)
	if !ok {
		return
	}
	if err := s.storage.Delete(ctx, CredentialKey); err != nil {
		s.logger.Warn("Failed to remove expired credential: %v", err)
	}
	s.logger.Info("Session expired for %s", previous.Identity.AccountNumber)
	s.publish(Event{Kind: EventExpired, Identity: previous.Identity})
}

// Credential returns the bearer credential for an authenticated call
func (s *Store) Credential() (string, error) {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()

	if current == nil {
		return "", types.NewClientError(types.ErrNotAuthenticated, "Please login")
	}
	if s.credentialExpired(current.Credential) {
		s.Expire(context.Background(), current.Credential)
		return "", types.NewSessionExpired(0)
	}
	return current.Credential, nil
}

// Identity returns a copy of the current identity
func (s *Store) Identity() (entities.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return entities.Identity{}, false
	}
	return s.current.Identity, true
}

// Authenticated reports whether a session is present
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// UpdateBalance overwrites the cached balance with a server-reported value
func (s *Store) UpdateBalance(balance decimal.Decimal) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	s.current.Identity.Balance = balance
	identity := s.current.Identity
	s.mu.Unlock()

	s.publish(Event{Kind: EventIdentityUpdated, Identity: identity})
}

// UpdateIdentity replaces the cached identity after a fresh account fetch.
// Identities for a different account are ignored.
func (s *Store) UpdateIdentity(identity entities.Identity) {
	s.mu.Lock()
	if s.current == nil || s.current.Identity.AccountNumber != identity.AccountNumber {
		s.mu.Unlock()
		return
	}
	s.current.Identity = identity
	s.mu.Unlock()

	s.publish(Event{Kind: EventIdentityUpdated, Identity: identity})
}

// Subscribe registers fn for session events and returns its cancel func
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// take removes the current session. When credential is non-empty the
// session is only removed if it still holds that credential.
func (s *Store) take(credential string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, false
	}
	if credential != "" && s.current.Credential != credential {
		return nil, false
	}
	previous := s.current
	s.current = nil
	return previous, true
}

func (s *Store) discard(ctx context.Context) {
	if err := s.storage.Delete(ctx, CredentialKey); err != nil {
		s.logger.Warn("Failed to remove stored credential: %v", err)
	}
}

// credentialExpired reports whether credential is a JWT whose exp claim
// has passed. Opaque or unparsable credentials are left for the server
// to judge.
func (s *Store) credentialExpired(credential string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !s.clock.Now().Before(exp.Time)
}

func (s *Store) publish(event Event) {
	s.subsMu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subsMu.Unlock()

	for _, sub := range subs {
		sub.fn(event)
	}
}
