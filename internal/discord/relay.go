package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/fadedpez/neobank/internal/config"
	"github.com/fadedpez/neobank/internal/logging"
	"github.com/fadedpez/neobank/internal/types"
	"github.com/fadedpez/neobank/pkg/notify"
)

// KindEmoji maps toast kinds to the emoji prefixed to relayed messages
var KindEmoji = map[notify.Kind]string{
	notify.Success: "💰",
	notify.Error:   "⚠️",
}

// KindColor maps toast kinds to embed colors
var KindColor = map[notify.Kind]int{
	notify.Success: 0x00ff9f,
	notify.Error:   0xff2a6d,
}

const defaultUsername = "NeoBank"

// Relay forwards selected toasts to a Discord webhook
type Relay struct {
	session    SessionHandler
	webhookID  string
	token      string
	username   string
	categories map[string]bool
	logger     *logging.Logger
}

// RelayOption configures a Relay
type RelayOption func(*Relay)

// WithCategories replaces the set of relayed toast categories
func WithCategories(categories ...string) RelayOption {
	return func(r *Relay) {
		r.categories = make(map[string]bool, len(categories))
		for _, c := range categories {
			r.categories[c] = true
		}
	}
}

// WithUsername overrides the name the webhook posts as
func WithUsername(name string) RelayOption {
	return func(r *Relay) {
		r.username = name
	}
}

// WithLogger overrides the relay logger
func WithLogger(logger *logging.Logger) RelayOption {
	return func(r *Relay) {
		r.logger = logger
	}
}

// NewRelay creates a relay for the configured webhook. By default only
// win toasts are forwarded.
func NewRelay(session SessionHandler, cfg config.DiscordConfig, opts ...RelayOption) *Relay {
	r := &Relay{
		session:    session,
		webhookID:  cfg.WebhookID,
		token:      cfg.WebhookToken,
		username:   defaultUsername,
		categories: map[string]bool{notify.CategoryWin: true},
		logger:     logging.Default,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ notify.Sink = (*Relay)(nil)

// Deliver implements notify.Sink
func (r *Relay) Deliver(ctx context.Context, toast notify.Toast) error {
	if !r.categories[toast.Category] {
		return nil
	}

	_, err := r.session.WebhookExecute(r.webhookID, r.token, false, NewWebhookParams(r.username, toast), discordgo.WithContext(ctx))
	if err != nil {
		return types.WrapError(types.ErrRemoteFailure, "Discord relay failed", err)
	}
	r.logger.Debug("[DISCORD] Relayed toast %s", toast.ID)
	return nil
}

// NewWebhookParams renders a toast as a webhook message
func NewWebhookParams(username string, toast notify.Toast) *discordgo.WebhookParams {
	emoji := KindEmoji[toast.Kind]
	if emoji == "" {
		emoji = "📣"
	}
	return &discordgo.WebhookParams{
		Username: username,
		Embeds: []*discordgo.MessageEmbed{
			{
				Description: fmt.Sprintf("%s %s", emoji, toast.Message),
				Color:       KindColor[toast.Kind],
				Timestamp:   toast.CreatedAt.UTC().Format(time.RFC3339),
			},
		},
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
}
