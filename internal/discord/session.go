package discord

import (
	"github.com/bwmarrin/discordgo"
)

// SessionHandler defines the Discord operations the relay needs
type SessionHandler interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordSession implements SessionHandler using discordgo.Session
type DiscordSession struct {
	*discordgo.Session
}

// NewSession creates a new DiscordSession. Webhook execution is
// authorized by the webhook token, so no bot token is needed.
func NewSession() (*DiscordSession, error) {
	s, err := discordgo.New("")
	if err != nil {
		return nil, err
	}
	return &DiscordSession{Session: s}, nil
}

// Ensure DiscordSession implements SessionHandler
var _ SessionHandler = (*DiscordSession)(nil)

// WebhookExecute implements SessionHandler
func (s *DiscordSession) WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	return s.Session.WebhookExecute(webhookID, token, wait, data, options...)
}
