package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/fadedpez/neobank/internal/config"
	"github.com/fadedpez/neobank/internal/logging"
	"github.com/fadedpez/neobank/pkg/controller"
	"github.com/fadedpez/neobank/pkg/gateway"
	"github.com/fadedpez/neobank/pkg/notify"
	"github.com/fadedpez/neobank/pkg/services/statistics"
	"github.com/fadedpez/neobank/pkg/spin"
	"github.com/fadedpez/neobank/pkg/wager"
)

// Actions is the view controller as driven by the console
type Actions interface {
	State() controller.State
	Start(ctx context.Context) bool
	Login(ctx context.Context, characterName, password string) bool
	Register(ctx context.Context, characterName, password, faction string) bool
	Logout(ctx context.Context) bool
	Refresh(ctx context.Context) bool
	LoadTransactions(ctx context.Context, limit int) bool
	Search(ctx context.Context, query string)
	Transfer(ctx context.Context, toAccount string, amount decimal.Decimal, memo string) bool
	Bet(gameID string) (wager.Spec, bool)
	IncreaseBet(gameID string) (int64, bool)
	DecreaseBet(gameID string) (int64, bool)
	SetBet(gameID string, amount int64) (int64, bool)
	Spin(ctx context.Context, gameID string) *spin.Round
	Stats(ctx context.Context, recent int) (*statistics.Summary, bool)
	GameStats(ctx context.Context, gameID string, recent int) (*statistics.GameSummary, bool)
	UpdateProfile(ctx context.Context, faction, profilePicture string) bool
	ChangePassword(ctx context.Context, currentPassword, newPassword, confirmPassword string) bool

	SearchUsers(ctx context.Context, query string) bool
	AdjustBalance(ctx context.Context, accountNumber string, amount decimal.Decimal, reason string) bool
	ToggleAdmin(ctx context.Context, accountNumber string) bool
	LoadAPIKeys(ctx context.Context) bool
	CreateAPIKey(ctx context.Context, description string) bool
	RevokeAPIKey(ctx context.Context, id int64) bool
	LoadCasinoConfigs(ctx context.Context) bool
	UpdateCasinoConfig(ctx context.Context, gameName string, update gateway.CasinoConfigUpdate) bool
	LoadFactions(ctx context.Context) bool
	CreateFaction(ctx context.Context, name, description string) bool
	AddFactionCredits(ctx context.Context, faction string, amount decimal.Decimal, reason string) bool
	ExportUsers(ctx context.Context, dir string) (string, bool)
	LoadAuditLogs(ctx context.Context, limit, offset int) bool
}

// Machine is a slot machine the console can watch
type Machine interface {
	Game() config.GameConfig
	Subscribe(fn func(spin.Event)) func()
}

// Toasts is the notification queue the console prints from
type Toasts interface {
	Subscribe(fn func(notify.Change)) func()
}

// Option configures a Console
type Option func(*Console)

// WithMachines registers the machines whose rounds are rendered
func WithMachines(machines ...Machine) Option {
	return func(c *Console) {
		c.machines = append(c.machines, machines...)
	}
}

// WithToasts prints every toast as it appears
func WithToasts(toasts Toasts) Option {
	return func(c *Console) {
		c.toasts = toasts
	}
}

// WithAnimation redraws provisional frames in place while a round spins
func WithAnimation(enabled bool) Option {
	return func(c *Console) {
		c.animate = enabled
	}
}

// WithExportDir sets the default directory for user exports
func WithExportDir(dir string) Option {
	return func(c *Console) {
		c.exportDir = dir
	}
}

// WithLogger overrides the logger
func WithLogger(logger *logging.Logger) Option {
	return func(c *Console) {
		c.logger = logger
	}
}

// Console is a line-oriented terminal front end
type Console struct {
	actions   Actions
	in        io.Reader
	machines  []Machine
	toasts    Toasts
	animate   bool
	exportDir string
	logger    *logging.Logger

	outMu sync.Mutex
	out   io.Writer

	cancels []func()
}

// New creates a Console reading commands from in and writing to out
func New(actions Actions, in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		actions:   actions,
		in:        in,
		out:       out,
		exportDir: ".",
		logger:    logging.Default,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run restores the session and processes commands until quit, end of
// input or ctx cancellation
func (c *Console) Run(ctx context.Context) error {
	c.attach()
	defer c.detach()

	c.println("NeoBank terminal. Type 'help' for commands.")
	if c.actions.Start(ctx) {
		c.showAccount()
	} else {
		c.println("Please login.")
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	c.prompt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				return nil
			}
			if quit := c.handleLine(ctx, line); quit {
				return nil
			}
			c.prompt()
		}
	}
}

func (c *Console) attach() {
	if c.toasts != nil {
		c.cancels = append(c.cancels, c.toasts.Subscribe(c.onToast))
	}
	for _, m := range c.machines {
		game := m.Game()
		c.cancels = append(c.cancels, m.Subscribe(func(event spin.Event) {
			c.onSpinEvent(game, event)
		}))
	}
}

func (c *Console) detach() {
	for _, cancel := range c.cancels {
		cancel()
	}
	c.cancels = nil
}

func (c *Console) onToast(change notify.Change) {
	if change.Type != notify.Added {
		return
	}
	c.println(formatToast(change.Toast))
}

func (c *Console) onSpinEvent(game config.GameConfig, event spin.Event) {
	switch {
	case event.Provisional:
		if c.animate && game.Rows == 1 {
			c.printf("\r%s ", formatBoard(event.Board))
		}
	case event.Status == spin.Animating:
		c.printf("%s spinning...\n", game.Name)
	case event.Status == spin.Failed:
		c.printf("\n%s\n%s\n", game.Name, formatBoard(event.Board))
	}
}

func (c *Console) watchRound(game config.GameConfig, round *spin.Round) {
	go func() {
		result, err := round.Wait(context.Background())
		if err != nil || result == nil {
			return
		}
		c.printf("\n%s\n", formatResult(game, result))
	}()
}

func (c *Console) prompt() {
	c.printf("> ")
}

func (c *Console) println(s string) {
	c.printf("%s\n", s)
}

func (c *Console) printf(format string, args ...interface{}) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) game(id string) (config.GameConfig, bool) {
	for _, m := range c.machines {
		if g := m.Game(); g.ID == id {
			return g, true
		}
	}
	return config.GameConfig{}, false
}

func splitArgs(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}
