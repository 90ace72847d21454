package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fadedpez/neobank/internal/types"
)

func (s *ClientTestSuite) TestAdjustBalance() {
	// Setup
	s.creds.On("Credential").Return("admin-token", nil).Once()
	s.router.Post("/api/admin/users/{account}/adjust-balance", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("NC-1111-2222", chi.URLParam(r, "account"))
		var body map[string]interface{}
		s.NoError(json.NewDecoder(r.Body).Decode(&body))
		s.Equal("bonus", body["reason"])
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":     "Balance adjusted successfully",
			"transaction": map[string]interface{}{"id": 99, "amount": -25, "type": "admin_adjustment"},
		})
	})

	// Execute
	tx, err := s.client.AdjustBalance(s.ctx, "NC-1111-2222", decimal.NewFromInt(-25), "bonus")

	// Assert
	s.Require().NoError(err)
	s.Equal(int64(99), tx.ID)
	s.True(decimal.NewFromInt(-25).Equal(tx.Amount))
}

func (s *ClientTestSuite) TestAdjustBalanceRequiresReason() {
	_, err := s.client.AdjustBalance(s.ctx, "NC-1", decimal.NewFromInt(10), " ")

	s.True(types.Is(err, types.ErrValidation))
	s.Zero(s.requests.Load())
}

func (s *ClientTestSuite) TestToggleAdminForbidden() {
	// Setup
	s.creds.On("Credential").Return("admin-token", nil).Once()
	s.router.Post("/api/admin/users/{account}/toggle-admin", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Cannot modify your own admin status"})
	})

	// Execute
	_, _, err := s.client.ToggleAdmin(s.ctx, "NC-1")

	// Assert
	s.True(types.Is(err, types.ErrRemoteFailure))
	s.Equal("Cannot modify your own admin status", types.MessageOf(err, ""))
}

func (s *ClientTestSuite) TestAPIKeyLifecycle() {
	// Setup
	s.creds.On("Credential").Return("admin-token", nil).Times(3)
	s.router.Get("/api/admin/api-keys", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"api_keys": []map[string]interface{}{{"id": 3, "key_value": "nb_abc", "is_active": true, "last_used": nil}},
		})
	})
	s.router.Post("/api/admin/api-keys", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "API key created",
			"api_key": map[string]interface{}{"id": 4, "key_value": "nb_new", "description": "casino bot", "is_active": true},
		})
	})
	s.router.Delete("/api/admin/api-keys/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("4", chi.URLParam(r, "id"))
		writeJSON(w, http.StatusOK, map[string]string{"message": "API key revoked"})
	})

	// Execute
	keys, err := s.client.APIKeys(s.ctx)
	s.Require().NoError(err)
	created, err := s.client.CreateAPIKey(s.ctx, "casino bot")
	s.Require().NoError(err)
	err = s.client.RevokeAPIKey(s.ctx, created.ID)

	// Assert
	s.Require().NoError(err)
	s.Require().Len(keys, 1)
	s.True(keys[0].LastUsed.IsZero())
	s.Equal("nb_new", created.Value)
}

func (s *ClientTestSuite) TestUpdateCasinoConfig() {
	// Setup
	s.creds.On("Credential").Return("admin-token", nil).Once()
	s.router.Put("/api/admin/casino/config/{game}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		s.NoError(json.NewDecoder(r.Body).Decode(&body))
		s.Equal(false, body["is_enabled"])
		_, hasPayout := body["payout_percentage"]
		s.False(hasPayout, "Unset fields must not be sent")
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Casino configuration updated",
			"config":  map[string]interface{}{"game_name": chi.URLParam(r, "game"), "is_enabled": false, "payout_percentage": 95},
		})
	})
	disabled := false

	// Execute
	cfg, err := s.client.UpdateCasinoConfig(s.ctx, "glitch_grid", CasinoConfigUpdate{IsEnabled: &disabled})

	// Assert
	s.Require().NoError(err)
	s.Equal("glitch_grid", cfg.GameName)
	s.False(cfg.IsEnabled)
}

func (s *ClientTestSuite) TestUpdateCasinoConfigPayoutRange() {
	payout := decimal.NewFromInt(120)

	_, err := s.client.UpdateCasinoConfig(s.ctx, "glitch_grid", CasinoConfigUpdate{PayoutPercentage: &payout})

	s.True(types.Is(err, types.ErrValidation))
	s.Zero(s.requests.Load())
}

func (s *ClientTestSuite) TestFactions() {
	// Setup
	s.creds.On("Credential").Return("admin-token", nil).Twice()
	s.router.Get("/api/admin/factions/list", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"factions": []map[string]interface{}{{"faction": "Chrome Syndicate", "user_count": 4, "total_balance": 8000.25}},
		})
	})
	s.router.Post("/api/admin/factions/{faction}/add-credits", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":        "Added ¤50 to 4 users",
			"affected_users": 4,
			"faction":        chi.URLParam(r, "faction"),
		})
	})

	// Execute
	factions, err := s.client.Factions(s.ctx)
	s.Require().NoError(err)
	credit, err := s.client.AddFactionCredits(s.ctx, "Chrome Syndicate", decimal.NewFromInt(50), "payday")

	// Assert
	s.Require().NoError(err)
	s.Require().Len(factions, 1)
	s.Equal(4, factions[0].UserCount)
	s.Equal(4, credit.UsersAffected)
	s.Equal("Chrome Syndicate", credit.Faction)
}

func (s *ClientTestSuite) TestExportUsers() {
	// Setup
	s.creds.On("Credential").Return("admin-token", nil).Once()
	s.router.Get("/api/admin/users/export", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("Character Name,Account Number\nVex,NC-1\n"))
	})

	// Execute
	data, err := s.client.ExportUsers(s.ctx)

	// Assert
	s.Require().NoError(err)
	s.Equal("Character Name,Account Number\nVex,NC-1\n", string(data))
}

func (s *ClientTestSuite) TestAuditLogs() {
	// Setup
	s.creds.On("Credential").Return("admin-token", nil).Once()
	s.router.Get("/api/admin/audit-logs", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("20", r.URL.Query().Get("limit"))
		s.Equal("40", r.URL.Query().Get("offset"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"logs":  []map[string]interface{}{{"id": 1, "admin": "Root", "action": "FACTION_CREDITS", "target": nil}},
			"limit": 20, "offset": 40,
		})
	})

	// Execute
	logs, err := s.client.AuditLogs(s.ctx, 20, 40)

	// Assert
	s.Require().NoError(err)
	s.Require().Len(logs, 1)
	s.Equal("FACTION_CREDITS", logs[0].Action)
	s.Empty(logs[0].Target)
}
