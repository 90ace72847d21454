package controller

import (
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fadedpez/neobank/internal/types"
	"github.com/fadedpez/neobank/pkg/entities"
	"github.com/fadedpez/neobank/pkg/services/statistics"
	"github.com/fadedpez/neobank/pkg/spin"
	"github.com/fadedpez/neobank/pkg/wager"
)

// MinPasswordLength is checked locally before a password change is sent
const MinPasswordLength = 8

// ProfileEmojis are the avatars a player may pick
var ProfileEmojis = []string{"😎", "🤖", "👾", "🦾", "💀", "🔥", "⚡", "💎", "🌟", "🎮", "🎯", "🚀", "🔫", "💊", "🌀", "👁️"}

// Start restores a persisted session. A stale credential simply leaves
// the player at the login prompt.
func (c *Controller) Start(ctx context.Context) bool {
	if !c.session.Restore(ctx, c.gateway) {
		c.changed()
		return false
	}
	c.reloadTransactions(ctx)
	return true
}

// Login authenticates and establishes the session
func (c *Controller) Login(ctx context.Context, characterName, password string) bool {
	result, err := c.gateway.Login(ctx, characterName, password)
	if err != nil {
		c.fail("login", err, "Login failed")
		return false
	}
	if err := c.session.Establish(ctx, result.Token, result.Identity); err != nil {
		c.fail("login", err, "Login failed")
		return false
	}
	c.update(func(st *State) {
		st.LoginName = ""
	})

	c.succeed("Access granted")
	c.reloadTransactions(ctx)
	return true
}

// Register creates an account. It never logs in; the login form is
// pre-filled with the new name instead.
func (c *Controller) Register(ctx context.Context, characterName, password, faction string) bool {
	if err := c.gateway.Register(ctx, characterName, password, faction); err != nil {
		c.fail("register", err, "Registration failed")
		return false
	}
	c.update(func(st *State) {
		st.LoginName = characterName
	})
	c.succeed("Account created! Please login.")
	return true
}

// Logout ends the session
func (c *Controller) Logout(ctx context.Context) bool {
	if err := c.session.Clear(ctx); err != nil {
		c.fail("logout", err, "Logout failed")
		return false
	}
	c.succeed("Disconnected")
	return true
}

// Refresh reloads the account and the transaction list
func (c *Controller) Refresh(ctx context.Context) bool {
	identity, err := c.gateway.Account(ctx)
	if err != nil {
		c.fail("refresh", err, "Failed to load account")
		return false
	}
	c.session.UpdateIdentity(identity)
	c.reloadTransactions(ctx)
	return true
}

// BackgroundRefresh is the periodic account reload. Failures are logged
// and never shown.
func (c *Controller) BackgroundRefresh(ctx context.Context) error {
	if !c.session.Authenticated() {
		return nil
	}
	identity, err := c.gateway.Account(ctx)
	if err != nil {
		if !types.Is(err, types.ErrSessionExpired) {
			c.logger.Warn("[VIEW] Background refresh failed: %v", err)
		}
		return nil
	}
	c.session.UpdateIdentity(identity)
	c.reloadTransactions(ctx)
	return nil
}

// LoadTransactions replaces the list with the most recent limit entries
// and clears any search
func (c *Controller) LoadTransactions(ctx context.Context, limit int) bool {
	if limit <= 0 {
		limit = c.limit
	}
	c.cancelSearch("")
	transactions, err := c.gateway.Transactions(ctx, limit)
	if err != nil {
		c.logger.Warn("[VIEW] Failed to load transactions: %v", err)
		return false
	}
	c.update(func(st *State) {
		st.Transactions = transactions
	})
	return true
}

// reloadTransactions refreshes the list for the current search, or the
// recent list when none is active. Failures only reach the log.
func (c *Controller) reloadTransactions(ctx context.Context) {
	c.mu.Lock()
	query := strings.TrimSpace(c.state.SearchQuery)
	seq := c.searchSeq
	c.mu.Unlock()

	var (
		transactions []entities.Transaction
		err          error
	)
	if query == "" {
		transactions, err = c.gateway.Transactions(ctx, c.limit)
	} else {
		transactions, err = c.gateway.SearchTransactions(ctx, query)
	}
	if err != nil {
		c.logger.Warn("[VIEW] Failed to reload transactions: %v", err)
		return
	}

	c.mu.Lock()
	stale := seq != c.searchSeq
	if !stale {
		c.state.Transactions = transactions
	}
	c.mu.Unlock()
	if !stale {
		c.changed()
	}
}

// Search filters transactions by query once typing pauses for the
// debounce interval. Each call supersedes the previous one. A blank
// query restores the recent list immediately.
func (c *Controller) Search(ctx context.Context, query string) {
	seq := c.cancelSearch(query)

	if isBlank(query) {
		c.reloadTransactions(ctx)
		return
	}

	timer := c.clock.AfterFunc(c.debounce, func() {
		c.runSearch(seq, strings.TrimSpace(query))
	})

	c.mu.Lock()
	if c.searchSeq == seq {
		c.searchTimer = timer
	} else {
		timer.Stop()
	}
	c.mu.Unlock()
}

// cancelSearch stops a pending search, records query and returns the new
// search generation
func (c *Controller) cancelSearch(query string) uint64 {
	c.mu.Lock()
	if c.searchTimer != nil {
		c.searchTimer.Stop()
		c.searchTimer = nil
	}
	c.searchSeq++
	c.state.SearchQuery = query
	seq := c.searchSeq
	c.mu.Unlock()
	return seq
}

func (c *Controller) runSearch(seq uint64, query string) {
	transactions, err := c.gateway.SearchTransactions(c.ctx, query)

	c.mu.Lock()
	if seq != c.searchSeq {
		c.mu.Unlock()
		return
	}
	c.searchTimer = nil
	if err == nil {
		c.state.Transactions = transactions
	}
	c.mu.Unlock()

	if err != nil {
		if c.ctx.Err() == nil {
			c.fail("search", err, "Search failed")
		}
		return
	}
	c.changed()
}

// Transfer sends amount to another account
func (c *Controller) Transfer(ctx context.Context, toAccount string, amount decimal.Decimal, memo string) bool {
	result, err := c.gateway.Transfer(ctx, strings.TrimSpace(toAccount), amount, memo)
	if err != nil {
		c.fail("transfer", err, "Transfer failed")
		return false
	}
	c.session.UpdateBalance(result.NewBalance)
	c.succeed("Transfer successful")
	c.reloadTransactions(ctx)
	return true
}

// IncreaseBet raises the wager of gameID by one step
func (c *Controller) IncreaseBet(gameID string) (int64, bool) {
	return c.bet("increase bet", func() (int64, error) { return c.wagers.Increase(gameID) })
}

// DecreaseBet lowers the wager of gameID by one step
func (c *Controller) DecreaseBet(gameID string) (int64, bool) {
	return c.bet("decrease bet", func() (int64, error) { return c.wagers.Decrease(gameID) })
}

// SetBet sets the wager of gameID, snapped to the game's bounds
func (c *Controller) SetBet(gameID string, amount int64) (int64, bool) {
	return c.bet("set bet", func() (int64, error) { return c.wagers.Set(gameID, amount) })
}

// Bet returns the wager state of gameID
func (c *Controller) Bet(gameID string) (wager.Spec, bool) {
	spec, err := c.wagers.Spec(gameID)
	if err != nil {
		c.fail("bet", err, "Unknown game")
		return wager.Spec{}, false
	}
	return spec, true
}

func (c *Controller) bet(action string, fn func() (int64, error)) (int64, bool) {
	amount, err := fn()
	if err != nil {
		c.fail(action, err, "Unknown game")
		return 0, false
	}
	c.changed()
	return amount, true
}

// Spin starts a round of gameID. It returns nil when no round started:
// either the request failed or a round is already in flight.
func (c *Controller) Spin(ctx context.Context, gameID string) *spin.Round {
	round, err := c.spinner.Spin(ctx, gameID)
	if err != nil {
		c.fail("spin", err, spin.FailedMessage)
		return nil
	}
	return round
}

// UpdateProfile changes faction and avatar
func (c *Controller) UpdateProfile(ctx context.Context, faction, profilePicture string) bool {
	if profilePicture != "" && !slices.Contains(ProfileEmojis, profilePicture) {
		c.invalid("update profile", "Invalid profile picture")
		return false
	}

	updated, err := c.gateway.UpdateProfile(ctx, faction, profilePicture)
	if err != nil {
		c.fail("update profile", err, "Failed to update profile")
		return false
	}

	if updated != nil {
		c.session.UpdateIdentity(*updated)
	} else if identity, ok := c.session.Identity(); ok {
		identity.Faction = faction
		identity.ProfilePicture = profilePicture
		c.session.UpdateIdentity(identity)
	}
	c.succeed("Profile updated successfully")
	return true
}

// ChangePassword checks the new password locally before sending it
func (c *Controller) ChangePassword(ctx context.Context, currentPassword, newPassword, confirmPassword string) bool {
	if newPassword != confirmPassword {
		c.invalid("change password", "New passwords do not match")
		return false
	}
	if len(newPassword) < MinPasswordLength {
		c.invalid("change password", "Password must be at least 8 characters")
		return false
	}

	if err := c.gateway.ChangePassword(ctx, currentPassword, newPassword); err != nil {
		c.fail("change password", err, "Failed to change password")
		return false
	}
	c.succeed("Password changed successfully")
	return true
}

// Stats summarizes the rounds recorded for the current player
func (c *Controller) Stats(ctx context.Context, recent int) (*statistics.Summary, bool) {
	if c.stats == nil {
		return nil, false
	}
	identity, ok := c.session.Identity()
	if !ok {
		c.invalid("stats", "Please login")
		return nil, false
	}
	summary, err := c.stats.Summary(ctx, identity.AccountNumber, recent)
	if err != nil {
		c.fail("stats", err, "Failed to load statistics")
		return nil, false
	}
	return summary, true
}

// GameStats summarizes the recorded rounds of one game
func (c *Controller) GameStats(ctx context.Context, gameID string, recent int) (*statistics.GameSummary, bool) {
	if c.stats == nil {
		return nil, false
	}
	identity, ok := c.session.Identity()
	if !ok {
		c.invalid("stats", "Please login")
		return nil, false
	}
	summary, err := c.stats.Game(ctx, identity.AccountNumber, gameID, recent)
	if err != nil {
		c.fail("stats", err, "Failed to load statistics")
		return nil, false
	}
	return summary, true
}
