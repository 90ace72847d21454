package discord

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fadedpez/neobank/internal/config"
	discordmock "github.com/fadedpez/neobank/internal/discord/mock"
	"github.com/fadedpez/neobank/internal/logging"
	"github.com/fadedpez/neobank/internal/types"
	"github.com/fadedpez/neobank/pkg/notify"
)

type RelayTestSuite struct {
	suite.Suite
	session *discordmock.SessionHandler
	relay   *Relay
	ctx     context.Context
}

func TestRelaySuite(t *testing.T) {
	suite.Run(t, new(RelayTestSuite))
}

func (s *RelayTestSuite) SetupTest() {
	s.session = &discordmock.SessionHandler{}
	s.session.Test(s.T())
	s.relay = NewRelay(s.session, config.DiscordConfig{WebhookID: "123", WebhookToken: "secret"}, WithLogger(logging.Discard))
	s.ctx = context.Background()
}

func (s *RelayTestSuite) TearDownTest() {
	s.session.AssertExpectations(s.T())
}

func (s *RelayTestSuite) TestDeliverWin() {
	// Setup
	toast := notify.Toast{ID: "t1", Message: "You won ¤250!", Kind: notify.Success, Category: notify.CategoryWin, CreatedAt: time.Now()}
	s.session.On("WebhookExecute", "123", "secret", false, mock.MatchedBy(func(p *discordgo.WebhookParams) bool {
		return p.Username == "NeoBank" && len(p.Embeds) == 1 && p.Embeds[0].Description == "💰 You won ¤250!"
	})).Return(nil, nil).Once()

	// Execute
	err := s.relay.Deliver(s.ctx, toast)

	// Assert
	s.NoError(err)
}

func (s *RelayTestSuite) TestDeliverSkipsOtherCategories() {
	// Execute
	err := s.relay.Deliver(s.ctx, notify.Toast{ID: "t2", Message: "Access granted", Kind: notify.Success})

	// Assert
	s.NoError(err)
	s.session.AssertNotCalled(s.T(), "WebhookExecute", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *RelayTestSuite) TestDeliverWrapsFailure() {
	// Setup
	s.session.On("WebhookExecute", "123", "secret", false, mock.Anything).Return(nil, errors.New("429 rate limited")).Once()

	// Execute
	err := s.relay.Deliver(s.ctx, notify.Toast{ID: "t3", Message: "You won ¤10!", Kind: notify.Success, Category: notify.CategoryWin})

	// Assert
	s.True(types.Is(err, types.ErrRemoteFailure))
	s.ErrorContains(err, "429 rate limited")
}

func (s *RelayTestSuite) TestWithCategories() {
	// Setup
	relay := NewRelay(s.session, config.DiscordConfig{WebhookID: "123", WebhookToken: "secret"},
		WithCategories(notify.CategorySession), WithUsername("Night City"), WithLogger(logging.Discard))
	s.session.On("WebhookExecute", "123", "secret", false, mock.MatchedBy(func(p *discordgo.WebhookParams) bool {
		return p.Username == "Night City"
	})).Return(nil, nil).Once()

	// Execute
	errWin := relay.Deliver(s.ctx, notify.Toast{Message: "You won ¤10!", Kind: notify.Success, Category: notify.CategoryWin})
	errSession := relay.Deliver(s.ctx, notify.Toast{Message: types.SessionExpiredMessage, Kind: notify.Error, Category: notify.CategorySession})

	// Assert
	s.NoError(errWin)
	s.NoError(errSession)
}

func (s *RelayTestSuite) TestNewWebhookParams() {
	testCases := []struct {
		name     string
		kind     notify.Kind
		expected string
		color    int
	}{
		{"success", notify.Success, "💰 hello", 0x00ff9f},
		{"error", notify.Error, "⚠️ hello", 0xff2a6d},
		{"unknown kind", notify.Kind("info"), "📣 hello", 0},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			params := NewWebhookParams("NeoBank", notify.Toast{Message: "hello", Kind: tc.kind})

			s.Require().Len(params.Embeds, 1)
			s.Equal(tc.expected, params.Embeds[0].Description)
			s.Equal(tc.color, params.Embeds[0].Color)
			s.NotNil(params.AllowedMentions, "Relayed text must never ping")
		})
	}
}
