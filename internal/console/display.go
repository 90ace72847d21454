package console

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fadedpez/neobank/internal/config"
	"github.com/fadedpez/neobank/pkg/controller"
	"github.com/fadedpez/neobank/pkg/entities"
	"github.com/fadedpez/neobank/pkg/notify"
	"github.com/fadedpez/neobank/pkg/services/statistics"
	"github.com/fadedpez/neobank/pkg/wager"
)

const timestampLayout = "2006-01-02 15:04"

var printer = message.NewPrinter(language.English)

func formatBalance(amount decimal.Decimal) string {
	return printer.Sprintf("¤%.2f", amount.Round(2).InexactFloat64())
}

func formatIdentity(identity entities.Identity) string {
	avatar := identity.ProfilePicture
	if avatar == "" {
		avatar = "👤"
	}
	role := ""
	if identity.IsAdmin {
		role = " [admin]"
	}
	return fmt.Sprintf("%s %s (%s) %s%s\nBalance: %s",
		avatar, identity.CharacterName, identity.AccountNumber, identity.Faction, role, formatBalance(identity.Balance))
}

func formatTransaction(tx entities.Transaction, account string) string {
	sign, counterparty := "+", tx.FromName
	if counterparty == "" {
		counterparty = tx.FromAccount
	}
	if tx.Outgoing(account) {
		sign, counterparty = "-", tx.ToName
		if counterparty == "" {
			counterparty = tx.ToAccount
		}
	}
	line := fmt.Sprintf("%s  %s%s  %-20s %s",
		tx.Timestamp.Local().Format(timestampLayout), sign, formatBalance(tx.Amount), counterparty, tx.Type)
	if tx.Memo != "" {
		line += "  \"" + tx.Memo + "\""
	}
	return line
}

func formatTransactions(state controller.State) string {
	if len(state.Transactions) == 0 {
		if state.SearchQuery != "" {
			return fmt.Sprintf("No transactions match %q", state.SearchQuery)
		}
		return "No transactions yet"
	}
	lines := make([]string, 0, len(state.Transactions))
	for _, tx := range state.Transactions {
		lines = append(lines, formatTransaction(tx, state.Identity.AccountNumber))
	}
	return strings.Join(lines, "\n")
}

func formatBoard(board entities.Board) string {
	lines := make([]string, len(board))
	for i, row := range board {
		cells := make([]string, len(row))
		for j, symbol := range row {
			if symbol == "" {
				symbol = "··"
			}
			cells[j] = symbol
		}
		lines[i] = "| " + strings.Join(cells, " | ") + " |"
	}
	return strings.Join(lines, "\n")
}

func formatResult(game config.GameConfig, result *entities.SpinResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", game.Name, formatBoard(result.Board))
	if result.Won() {
		fmt.Fprintf(&b, "WIN %s", formatBalance(result.WinAmount))
		if result.WinMultiplier.IsPositive() {
			fmt.Fprintf(&b, " (x%s)", result.WinMultiplier.String())
		}
		b.WriteString("\n")
	}
	if len(result.WinningLines) > 0 {
		lines := make([]string, len(result.WinningLines))
		for i, l := range result.WinningLines {
			lines[i] = fmt.Sprint(l)
		}
		fmt.Fprintf(&b, "Winning lines: %s\n", strings.Join(lines, ", "))
	}
	if result.ScatterCount > 0 {
		fmt.Fprintf(&b, "Scatters: %d", result.ScatterCount)
		if result.BonusSpins > 0 {
			fmt.Fprintf(&b, ", bonus spins: %d", result.BonusSpins)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Balance: %s", formatBalance(result.NewBalance))
	return b.String()
}

func formatGame(game config.GameConfig, spec wager.Spec) string {
	return fmt.Sprintf("%-10s %-20s bet ¤%d  (¤%d-¤%d, step %d)",
		game.ID, game.Name, spec.Amount, spec.Min, spec.Max, spec.Step)
}

func formatToast(toast notify.Toast) string {
	if toast.Kind == notify.Error {
		return "[✗] " + toast.Message
	}
	return "[✓] " + toast.Message
}

func formatSummary(summary *statistics.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rounds: %d  Wagered: ¤%d  Won: %s  Net: %s\n",
		summary.TotalRounds, summary.TotalWagered, formatBalance(summary.TotalWon), formatBalance(summary.NetProfit))
	for _, game := range summary.Games {
		b.WriteString(formatGameSummary(game))
		b.WriteString("\n")
	}
	if summary.BestGame != "" {
		fmt.Fprintf(&b, "Best game: %s", summary.BestGame)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatGameSummary(game *statistics.GameSummary) string {
	line := fmt.Sprintf("%-20s played %d  wins %d  failed %d  win rate %.1f%%  net %s",
		game.Name, game.RoundsPlayed, game.Wins, game.Failures, game.WinRate, formatBalance(game.NetProfit))
	if game.BiggestWin.IsPositive() {
		line += "  best " + formatBalance(game.BiggestWin)
	}
	for _, round := range game.RecentRounds {
		if round.Status == entities.RoundFailed {
			line += fmt.Sprintf("\n  %s  ¤%d  failed: %s", round.SettledAt.Local().Format(timestampLayout), round.Wager, round.Error)
			continue
		}
		line += fmt.Sprintf("\n  %s  ¤%d  won %s", round.SettledAt.Local().Format(timestampLayout), round.Wager, formatBalance(round.WinAmount))
	}
	return line
}

func formatUsers(users []entities.Identity) string {
	if len(users) == 0 {
		return "No users found"
	}
	lines := make([]string, len(users))
	for i, u := range users {
		admin := ""
		if u.IsAdmin {
			admin = " [admin]"
		}
		lines[i] = fmt.Sprintf("%s  %-20s %-12s %s%s", u.AccountNumber, u.CharacterName, u.Faction, formatBalance(u.Balance), admin)
	}
	return strings.Join(lines, "\n")
}

func formatAPIKeys(keys []entities.APIKey) string {
	if len(keys) == 0 {
		return "No API keys"
	}
	lines := make([]string, len(keys))
	for i, k := range keys {
		status := "active"
		if !k.IsActive {
			status = "revoked"
		}
		lines[i] = fmt.Sprintf("#%d  %s  %s  (%s, by %s)", k.ID, k.Value, k.Description, status, k.CreatedBy)
	}
	return strings.Join(lines, "\n")
}

func formatCasinoGames(games []entities.CasinoGameConfig) string {
	if len(games) == 0 {
		return "No casino games"
	}
	lines := make([]string, len(games))
	for i, g := range games {
		state := "enabled"
		if !g.IsEnabled {
			state = "disabled"
		}
		lines[i] = fmt.Sprintf("%-20s %-8s payout %s%%", g.GameName, state, g.PayoutPercentage.String())
	}
	return strings.Join(lines, "\n")
}

func formatFactions(factions []entities.FactionSummary) string {
	if len(factions) == 0 {
		return "No factions"
	}
	lines := make([]string, len(factions))
	for i, f := range factions {
		lines[i] = fmt.Sprintf("%-20s %4d members  %s", f.Faction, f.UserCount, formatBalance(f.TotalBalance))
	}
	return strings.Join(lines, "\n")
}

func formatAuditLogs(logs []entities.AuditLog) string {
	if len(logs) == 0 {
		return "No audit entries"
	}
	lines := make([]string, len(logs))
	for i, l := range logs {
		lines[i] = fmt.Sprintf("%s  %-12s %-20s %s %s", l.Timestamp.Local().Format(timestampLayout), l.Admin, l.Action, l.Target, l.Details)
	}
	return strings.Join(lines, "\n")
}
