package controller

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/fadedpez/neobank/internal/logging"
	"github.com/fadedpez/neobank/internal/types"
	"github.com/fadedpez/neobank/pkg/entities"
	"github.com/fadedpez/neobank/pkg/notify"
	"github.com/fadedpez/neobank/pkg/session"
)

const (
	// DefaultSearchDebounce delays a transaction search until typing pauses
	DefaultSearchDebounce = 500 * time.Millisecond

	// DefaultTransactionLimit is the size of the recent transactions list
	DefaultTransactionLimit = 10
)

// State is a snapshot of what the view shows
type State struct {
	Authenticated bool
	Identity      entities.Identity
	Transactions  []entities.Transaction
	SearchQuery   string

	// LoginName pre-fills the login form after registration
	LoginName string

	Admin AdminState
}

// AdminState holds the lists shown on the admin console
type AdminState struct {
	UserQuery   string
	Users       []entities.Identity
	APIKeys     []entities.APIKey
	CasinoGames []entities.CasinoGameConfig
	Factions    []entities.FactionSummary
	AuditLogs   []entities.AuditLog
}

// Dependencies are the components the controller composes
type Dependencies struct {
	Gateway    Gateway
	Session    Session
	Wagers     Wagers
	Spinner    Spinner
	Notifier   Notifier
	Statistics Statistics // optional
}

// Option configures a Controller
type Option func(*Controller)

// WithClock overrides the clock driving the search debounce
func WithClock(clock clockwork.Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithLogger overrides the logger
func WithLogger(logger *logging.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithSearchDebounce overrides DefaultSearchDebounce
func WithSearchDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithTransactionLimit overrides DefaultTransactionLimit
func WithTransactionLimit(limit int) Option {
	return func(c *Controller) {
		if limit > 0 {
			c.limit = limit
		}
	}
}

// Controller answers user actions. Every action catches its own failure
// and turns it into a toast; nothing is returned to the caller beyond
// whether the action succeeded.
type Controller struct {
	gateway  Gateway
	session  Session
	wagers   Wagers
	spinner  Spinner
	notifier Notifier
	stats    Statistics

	clock    clockwork.Clock
	logger   *logging.Logger
	debounce time.Duration
	limit    int

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	state       State
	searchTimer clockwork.Timer
	searchSeq   uint64

	subsMu sync.Mutex
	subs   []subscriber
	nextID uint64

	unsubscribe func()
}

type subscriber struct {
	id uint64
	fn func()
}

// New creates a Controller and subscribes it to session transitions
func New(deps Dependencies, opts ...Option) *Controller {
	c := &Controller{
		gateway:  deps.Gateway,
		session:  deps.Session,
		wagers:   deps.Wagers,
		spinner:  deps.Spinner,
		notifier: deps.Notifier,
		stats:    deps.Statistics,
		clock:    clockwork.NewRealClock(),
		logger:   logging.Default,
		debounce: DefaultSearchDebounce,
		limit:    DefaultTransactionLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.unsubscribe = c.session.Subscribe(c.onSessionEvent)
	return c
}

// Close stops pending searches and detaches from the session store
func (c *Controller) Close() {
	c.mu.Lock()
	if c.searchTimer != nil {
		c.searchTimer.Stop()
		c.searchTimer = nil
	}
	c.mu.Unlock()

	c.cancel()
	c.unsubscribe()
}

// State returns a copy of the current view state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state
	st.Transactions = append([]entities.Transaction(nil), c.state.Transactions...)
	st.Admin.Users = append([]entities.Identity(nil), c.state.Admin.Users...)
	st.Admin.APIKeys = append([]entities.APIKey(nil), c.state.Admin.APIKeys...)
	st.Admin.CasinoGames = append([]entities.CasinoGameConfig(nil), c.state.Admin.CasinoGames...)
	st.Admin.Factions = append([]entities.FactionSummary(nil), c.state.Admin.Factions...)
	st.Admin.AuditLogs = append([]entities.AuditLog(nil), c.state.Admin.AuditLogs...)

	if identity, ok := c.session.Identity(); ok {
		st.Authenticated = true
		st.Identity = identity
	}
	return st
}

// Subscribe registers fn to be called after the view state changes
func (c *Controller) Subscribe(fn func()) func() {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()

	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber{id: id, fn: fn})

	return func() {
		c.subsMu.Lock()
		defer c.subsMu.Unlock()
		for i, sub := range c.subs {
			if sub.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// update mutates the state under the lock and notifies subscribers. The
// gateway and session are never called while the lock is held.
func (c *Controller) update(fn func(st *State)) {
	c.mu.Lock()
	fn(&c.state)
	c.mu.Unlock()
	c.changed()
}

func (c *Controller) changed() {
	c.subsMu.Lock()
	subs := make([]subscriber, len(c.subs))
	copy(subs, c.subs)
	c.subsMu.Unlock()

	for _, sub := range subs {
		sub.fn()
	}
}

func (c *Controller) onSessionEvent(event session.Event) {
	switch event.Kind {
	case session.EventExpired:
		c.resetView()
		c.notifier.PublishCategory(types.SessionExpiredMessage, notify.Error, notify.CategorySession)
	case session.EventCleared:
		c.resetView()
	default:
		c.changed()
	}
}

func (c *Controller) resetView() {
	c.mu.Lock()
	if c.searchTimer != nil {
		c.searchTimer.Stop()
		c.searchTimer = nil
	}
	c.searchSeq++
	loginName := c.state.LoginName
	c.state = State{LoginName: loginName}
	c.mu.Unlock()
	c.changed()
}

func (c *Controller) succeed(message string) {
	c.notifier.Publish(message, notify.Success)
}

// fail converts err into an error toast. Session expiry is announced by
// the session subscription, so it is not toasted twice.
func (c *Controller) fail(action string, err error, fallback string) {
	if types.Is(err, types.ErrSessionExpired) {
		c.logger.Debug("[VIEW] %s stopped by expired session", action)
		return
	}
	c.logger.Warn("[VIEW] %s failed: %v", action, err)
	c.notifier.Publish(types.MessageOf(err, fallback), notify.Error)
}

func (c *Controller) invalid(action, message string) {
	c.fail(action, types.NewClientError(types.ErrValidation, message), message)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
