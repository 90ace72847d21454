package controller

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fadedpez/neobank/internal/types"
	"github.com/fadedpez/neobank/pkg/gateway"
)

// DefaultAuditLogLimit is the page size of the audit log
const DefaultAuditLogLimit = 100

// SearchUsers lists the users matching query. A blank query clears the list.
func (c *Controller) SearchUsers(ctx context.Context, query string) bool {
	c.update(func(st *State) {
		st.Admin.UserQuery = query
	})
	if isBlank(query) {
		c.update(func(st *State) {
			st.Admin.Users = nil
		})
		return true
	}
	return c.reloadUsers(ctx)
}

// reloadUsers repeats the last user search. Failures only reach the log.
func (c *Controller) reloadUsers(ctx context.Context) bool {
	c.mu.Lock()
	query := strings.TrimSpace(c.state.Admin.UserQuery)
	c.mu.Unlock()
	if query == "" {
		return true
	}

	users, err := c.gateway.SearchUsers(ctx, query)
	if err != nil {
		c.logger.Warn("[VIEW] User search failed: %v", err)
		return false
	}
	c.update(func(st *State) {
		st.Admin.Users = users
	})
	return true
}

// AdjustBalance credits or debits a player's account
func (c *Controller) AdjustBalance(ctx context.Context, accountNumber string, amount decimal.Decimal, reason string) bool {
	if _, err := c.gateway.AdjustBalance(ctx, accountNumber, amount, reason); err != nil {
		c.fail("adjust balance", err, "Adjustment failed")
		return false
	}
	c.succeed("Balance adjusted successfully")
	c.reloadUsers(ctx)
	return true
}

// ToggleAdmin grants or revokes admin status. Toggling oneself is refused
// before any request is made.
func (c *Controller) ToggleAdmin(ctx context.Context, accountNumber string) bool {
	if identity, ok := c.session.Identity(); ok && identity.AccountNumber == accountNumber {
		c.invalid("toggle admin", "Cannot modify your own admin status")
		return false
	}

	_, message, err := c.gateway.ToggleAdmin(ctx, accountNumber)
	if err != nil {
		c.fail("toggle admin", err, "Failed to update admin status")
		c.reloadUsers(ctx)
		return false
	}
	c.succeed("✓ " + message)
	c.reloadUsers(ctx)
	return true
}

// LoadAPIKeys refreshes the API key list
func (c *Controller) LoadAPIKeys(ctx context.Context) bool {
	keys, err := c.gateway.APIKeys(ctx)
	if err != nil {
		c.logger.Warn("[VIEW] Failed to load API keys: %v", err)
		return false
	}
	c.update(func(st *State) {
		st.Admin.APIKeys = keys
	})
	return true
}

// CreateAPIKey issues a key. An empty description cancels the action.
func (c *Controller) CreateAPIKey(ctx context.Context, description string) bool {
	if isBlank(description) {
		return false
	}
	if _, err := c.gateway.CreateAPIKey(ctx, description); err != nil {
		c.fail("create API key", err, "Failed to create API key")
		return false
	}
	c.succeed("API key created")
	c.LoadAPIKeys(ctx)
	return true
}

// RevokeAPIKey deactivates a key
func (c *Controller) RevokeAPIKey(ctx context.Context, id int64) bool {
	if err := c.gateway.RevokeAPIKey(ctx, id); err != nil {
		c.fail("revoke API key", err, "Failed to revoke API key")
		return false
	}
	c.succeed("API key revoked")
	c.LoadAPIKeys(ctx)
	return true
}

// LoadCasinoConfigs refreshes the server-side game switchboard
func (c *Controller) LoadCasinoConfigs(ctx context.Context) bool {
	games, err := c.gateway.CasinoConfigs(ctx)
	if err != nil {
		c.logger.Warn("[VIEW] Failed to load casino games: %v", err)
		return false
	}
	c.update(func(st *State) {
		st.Admin.CasinoGames = games
	})
	return true
}

// UpdateCasinoConfig changes a game's enabled flag or payout percentage
func (c *Controller) UpdateCasinoConfig(ctx context.Context, gameName string, update gateway.CasinoConfigUpdate) bool {
	updated, err := c.gateway.UpdateCasinoConfig(ctx, gameName, update)
	if err != nil {
		c.fail("update game config", err, "Failed to update game config")
		return false
	}
	c.update(func(st *State) {
		for i := range st.Admin.CasinoGames {
			if st.Admin.CasinoGames[i].GameName == updated.GameName {
				st.Admin.CasinoGames[i] = updated
			}
		}
	})
	c.succeed("Game configuration updated")
	return true
}

// LoadFactions refreshes the faction list
func (c *Controller) LoadFactions(ctx context.Context) bool {
	factions, err := c.gateway.Factions(ctx)
	if err != nil {
		c.fail("load factions", err, "Failed to load factions")
		return false
	}
	c.update(func(st *State) {
		st.Admin.Factions = factions
	})
	c.succeed("Factions loaded")
	return true
}

// AddFactionCredits credits every member of faction
func (c *Controller) AddFactionCredits(ctx context.Context, faction string, amount decimal.Decimal, reason string) bool {
	credit, err := c.gateway.AddFactionCredits(ctx, faction, amount, reason)
	if err != nil {
		c.fail("add faction credits", err, "Failed to add credits")
		return false
	}
	c.succeed(fmt.Sprintf("Added ¤%s to %d users in %s", amount.String(), credit.UsersAffected, faction))
	c.LoadFactions(ctx)
	return true
}

// CreateFaction adds a faction
func (c *Controller) CreateFaction(ctx context.Context, name, description string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		c.invalid("create faction", "Faction name is required")
		return false
	}
	if err := c.gateway.CreateFaction(ctx, name, strings.TrimSpace(description)); err != nil {
		c.fail("create faction", err, "Failed to create faction")
		return false
	}
	c.succeed(fmt.Sprintf("Faction %q created successfully!", name))
	c.LoadFactions(ctx)
	return true
}

// ExportUsers writes the user CSV into dir and returns the file path
func (c *Controller) ExportUsers(ctx context.Context, dir string) (string, bool) {
	data, err := c.gateway.ExportUsers(ctx)
	if err != nil {
		c.fail("export users", err, "Failed to export users")
		return "", false
	}

	path := filepath.Join(dir, fmt.Sprintf("users_export_%s.csv", c.clock.Now().Format("2006-01-02")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		c.fail("export users", types.WrapError(types.ErrStorageError, "Failed to export users", err), "Failed to export users")
		return "", false
	}
	c.logger.Info("[VIEW] Exported users to %s", path)
	c.succeed("Export downloaded")
	return path, true
}

// LoadAuditLogs refreshes one page of the audit log
func (c *Controller) LoadAuditLogs(ctx context.Context, limit, offset int) bool {
	if limit <= 0 {
		limit = DefaultAuditLogLimit
	}
	logs, err := c.gateway.AuditLogs(ctx, limit, offset)
	if err != nil {
		c.fail("load audit logs", err, "Failed to load audit logs")
		return false
	}
	c.update(func(st *State) {
		st.Admin.AuditLogs = logs
	})
	return true
}
