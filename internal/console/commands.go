package console

// Command describes one console command
type Command struct {
	Name        string
	Usage       string
	Description string
	Admin       bool
}

// Commands defines every command the console understands
var Commands = []Command{
	{Name: "help", Usage: "help", Description: "List commands"},
	{Name: "login", Usage: "login NAME PASSWORD", Description: "Log in"},
	{Name: "register", Usage: "register NAME PASSWORD [FACTION]", Description: "Create an account"},
	{Name: "logout", Usage: "logout", Description: "Log out"},
	{Name: "account", Usage: "account", Description: "Reload the account and show the balance"},
	{Name: "history", Usage: "history [LIMIT]", Description: "Show recent transactions"},
	{Name: "search", Usage: "search [QUERY]", Description: "Search transactions; empty query shows recent ones"},
	{Name: "transfer", Usage: "transfer ACCOUNT AMOUNT [MEMO]", Description: "Send credits to another account"},
	{Name: "games", Usage: "games", Description: "List slot machines and current bets"},
	{Name: "bet", Usage: "bet GAME up|down|AMOUNT", Description: "Change the bet of a game"},
	{Name: "spin", Usage: "spin GAME", Description: "Spin a slot machine"},
	{Name: "stats", Usage: "stats [GAME]", Description: "Show local round statistics"},
	{Name: "profile", Usage: "profile FACTION [AVATAR]", Description: "Update faction and avatar"},
	{Name: "avatars", Usage: "avatars", Description: "List available avatars"},
	{Name: "password", Usage: "password CURRENT NEW CONFIRM", Description: "Change password"},
	{Name: "users", Usage: "users QUERY", Description: "Search users", Admin: true},
	{Name: "adjust", Usage: "adjust ACCOUNT AMOUNT REASON", Description: "Adjust a user's balance", Admin: true},
	{Name: "toggle-admin", Usage: "toggle-admin ACCOUNT", Description: "Grant or revoke admin status", Admin: true},
	{Name: "apikeys", Usage: "apikeys", Description: "List API keys", Admin: true},
	{Name: "apikey-create", Usage: "apikey-create DESCRIPTION", Description: "Issue an API key", Admin: true},
	{Name: "apikey-revoke", Usage: "apikey-revoke ID", Description: "Revoke an API key", Admin: true},
	{Name: "casino", Usage: "casino", Description: "Show server-side game settings", Admin: true},
	{Name: "casino-set", Usage: "casino-set GAME on|off|payout PERCENT", Description: "Change server-side game settings", Admin: true},
	{Name: "factions", Usage: "factions", Description: "List factions", Admin: true},
	{Name: "faction-create", Usage: "faction-create NAME [DESCRIPTION]", Description: "Create a faction", Admin: true},
	{Name: "faction-credit", Usage: "faction-credit FACTION AMOUNT [REASON]", Description: "Credit every member of a faction", Admin: true},
	{Name: "export", Usage: "export [DIR]", Description: "Export users as CSV", Admin: true},
	{Name: "audit", Usage: "audit [LIMIT] [OFFSET]", Description: "Show the admin audit log", Admin: true},
	{Name: "quit", Usage: "quit", Description: "Exit"},
}

func lookupCommand(name string) (Command, bool) {
	for _, cmd := range Commands {
		if cmd.Name == name {
			return cmd, true
		}
	}
	return Command{}, false
}
