package console

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fadedpez/neobank/pkg/controller"
	"github.com/fadedpez/neobank/pkg/gateway"
)

const recentRounds = 5

// handleLine runs one command and reports whether the console should exit
func (c *Console) handleLine(ctx context.Context, line string) bool {
	name, args := splitArgs(line)
	if name == "" {
		return false
	}

	cmd, ok := lookupCommand(name)
	if !ok {
		c.printf("Unknown command: %s\n", name)
		return false
	}
	if cmd.Admin && !c.actions.State().Identity.IsAdmin {
		c.println("Admin access required")
		return false
	}

	switch cmd.Name {
	case "help":
		c.handleHelp()
	case "quit":
		return true
	case "login":
		if c.needArgs(cmd, args, 2) {
			if c.actions.Login(ctx, args[0], args[1]) {
				c.showAccount()
			}
		}
	case "register":
		if c.needArgs(cmd, args, 2) {
			faction := ""
			if len(args) > 2 {
				faction = strings.Join(args[2:], " ")
			}
			c.actions.Register(ctx, args[0], args[1], faction)
		}
	case "logout":
		c.actions.Logout(ctx)
	case "account":
		if c.actions.Refresh(ctx) {
			c.showAccount()
		}
	case "history":
		c.handleHistory(ctx, cmd, args)
	case "search":
		c.actions.Search(ctx, strings.Join(args, " "))
	case "transfer":
		c.handleTransfer(ctx, cmd, args)
	case "games":
		c.handleGames()
	case "bet":
		c.handleBet(cmd, args)
	case "spin":
		c.handleSpin(ctx, cmd, args)
	case "stats":
		c.handleStats(ctx, args)
	case "profile":
		if c.needArgs(cmd, args, 1) {
			avatar := ""
			if len(args) > 1 {
				avatar = args[1]
			}
			c.actions.UpdateProfile(ctx, args[0], avatar)
		}
	case "avatars":
		c.println(strings.Join(controller.ProfileEmojis, " "))
	case "password":
		if c.needArgs(cmd, args, 3) {
			c.actions.ChangePassword(ctx, args[0], args[1], args[2])
		}
	default:
		c.handleAdmin(ctx, cmd, args)
	}
	return false
}

func (c *Console) handleAdmin(ctx context.Context, cmd Command, args []string) {
	switch cmd.Name {
	case "users":
		if c.needArgs(cmd, args, 1) && c.actions.SearchUsers(ctx, strings.Join(args, " ")) {
			c.println(formatUsers(c.actions.State().Admin.Users))
		}
	case "adjust":
		if !c.needArgs(cmd, args, 3) {
			return
		}
		if amount, ok := c.parseAmount(args[1]); ok {
			c.actions.AdjustBalance(ctx, args[0], amount, strings.Join(args[2:], " "))
		}
	case "toggle-admin":
		if c.needArgs(cmd, args, 1) {
			c.actions.ToggleAdmin(ctx, args[0])
		}
	case "apikeys":
		if c.actions.LoadAPIKeys(ctx) {
			c.println(formatAPIKeys(c.actions.State().Admin.APIKeys))
		}
	case "apikey-create":
		if c.needArgs(cmd, args, 1) && c.actions.CreateAPIKey(ctx, strings.Join(args, " ")) {
			c.println(formatAPIKeys(c.actions.State().Admin.APIKeys))
		}
	case "apikey-revoke":
		if !c.needArgs(cmd, args, 1) {
			return
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			c.printf("Invalid key id: %s\n", args[0])
			return
		}
		c.actions.RevokeAPIKey(ctx, id)
	case "casino":
		if c.actions.LoadCasinoConfigs(ctx) {
			c.println(formatCasinoGames(c.actions.State().Admin.CasinoGames))
		}
	case "casino-set":
		c.handleCasinoSet(ctx, cmd, args)
	case "factions":
		if c.actions.LoadFactions(ctx) {
			c.println(formatFactions(c.actions.State().Admin.Factions))
		}
	case "faction-create":
		if c.needArgs(cmd, args, 1) {
			c.actions.CreateFaction(ctx, args[0], strings.Join(args[1:], " "))
		}
	case "faction-credit":
		if !c.needArgs(cmd, args, 2) {
			return
		}
		if amount, ok := c.parseAmount(args[1]); ok {
			c.actions.AddFactionCredits(ctx, args[0], amount, strings.Join(args[2:], " "))
		}
	case "export":
		dir := c.exportDir
		if len(args) > 0 {
			dir = args[0]
		}
		if path, ok := c.actions.ExportUsers(ctx, dir); ok {
			c.printf("Saved %s\n", path)
		}
	case "audit":
		limit, offset := 0, 0
		if len(args) > 0 {
			limit, _ = strconv.Atoi(args[0])
		}
		if len(args) > 1 {
			offset, _ = strconv.Atoi(args[1])
		}
		if c.actions.LoadAuditLogs(ctx, limit, offset) {
			c.println(formatAuditLogs(c.actions.State().Admin.AuditLogs))
		}
	}
}

func (c *Console) handleHelp() {
	isAdmin := c.actions.State().Identity.IsAdmin
	for _, cmd := range Commands {
		if cmd.Admin && !isAdmin {
			continue
		}
		c.printf("  %-40s %s\n", cmd.Usage, cmd.Description)
	}
}

func (c *Console) handleHistory(ctx context.Context, cmd Command, args []string) {
	limit := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			c.printf("Usage: %s\n", cmd.Usage)
			return
		}
		limit = n
	}
	if c.actions.LoadTransactions(ctx, limit) {
		c.println(formatTransactions(c.actions.State()))
	}
}

func (c *Console) handleTransfer(ctx context.Context, cmd Command, args []string) {
	if !c.needArgs(cmd, args, 2) {
		return
	}
	amount, ok := c.parseAmount(args[1])
	if !ok {
		return
	}
	if c.actions.Transfer(ctx, args[0], amount, strings.Join(args[2:], " ")) {
		c.printf("Balance: %s\n", formatBalance(c.actions.State().Identity.Balance))
	}
}

func (c *Console) handleGames() {
	for _, m := range c.machines {
		game := m.Game()
		if spec, ok := c.actions.Bet(game.ID); ok {
			c.println(formatGame(game, spec))
		}
	}
}

func (c *Console) handleBet(cmd Command, args []string) {
	if !c.needArgs(cmd, args, 2) {
		return
	}
	gameID := args[0]

	var (
		amount int64
		ok     bool
	)
	switch strings.ToLower(args[1]) {
	case "up", "+":
		amount, ok = c.actions.IncreaseBet(gameID)
	case "down", "-":
		amount, ok = c.actions.DecreaseBet(gameID)
	default:
		n, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			c.printf("Usage: %s\n", cmd.Usage)
			return
		}
		amount, ok = c.actions.SetBet(gameID, n)
	}
	if ok {
		c.printf("%s bet: ¤%d\n", gameID, amount)
	}
}

func (c *Console) handleSpin(ctx context.Context, cmd Command, args []string) {
	if !c.needArgs(cmd, args, 1) {
		return
	}
	game, ok := c.game(args[0])
	if !ok {
		c.printf("Unknown game: %s\n", args[0])
		return
	}
	round := c.actions.Spin(ctx, game.ID)
	if round == nil {
		return
	}
	c.watchRound(game, round)
}

func (c *Console) handleStats(ctx context.Context, args []string) {
	if len(args) > 0 {
		if summary, ok := c.actions.GameStats(ctx, args[0], recentRounds); ok {
			c.println(formatGameSummary(summary))
		}
		return
	}
	if summary, ok := c.actions.Stats(ctx, 0); ok {
		c.println(formatSummary(summary))
	}
}

func (c *Console) handleCasinoSet(ctx context.Context, cmd Command, args []string) {
	if !c.needArgs(cmd, args, 2) {
		return
	}

	var update gateway.CasinoConfigUpdate
	switch strings.ToLower(args[1]) {
	case "on", "off":
		enabled := strings.ToLower(args[1]) == "on"
		update.IsEnabled = &enabled
	case "payout":
		if !c.needArgs(cmd, args, 3) {
			return
		}
		pct, ok := c.parseAmount(args[2])
		if !ok {
			return
		}
		update.PayoutPercentage = &pct
	default:
		c.printf("Usage: %s\n", cmd.Usage)
		return
	}

	if c.actions.UpdateCasinoConfig(ctx, args[0], update) {
		c.println(formatCasinoGames(c.actions.State().Admin.CasinoGames))
	}
}

func (c *Console) showAccount() {
	state := c.actions.State()
	if !state.Authenticated {
		return
	}
	c.println(formatIdentity(state.Identity))
	c.println(formatTransactions(state))
}

func (c *Console) needArgs(cmd Command, args []string, n int) bool {
	if len(args) < n {
		c.printf("Usage: %s\n", cmd.Usage)
		return false
	}
	return true
}

func (c *Console) parseAmount(s string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(strings.TrimPrefix(s, "¤"))
	if err != nil {
		c.printf("Invalid amount: %s\n", s)
		return decimal.Decimal{}, false
	}
	return amount, true
}
