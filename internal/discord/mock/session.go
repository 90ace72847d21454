package mock

import (
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
)

// SessionHandler is a mock implementation of discord.SessionHandler
type SessionHandler struct {
	mock.Mock
}

// WebhookExecute implements discord.SessionHandler
func (s *SessionHandler) WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := s.Called(webhookID, token, wait, data)
	if msg := args.Get(0); msg != nil {
		return msg.(*discordgo.Message), args.Error(1)
	}
	return nil, args.Error(1)
}
