package history

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fadedpez/neobank/internal/logging"
	"github.com/fadedpez/neobank/pkg/entities"
)

// MockBaseRepository is a mock implementation of the Repository interface for testing
type MockBaseRepository struct {
	mock.Mock
}

// SaveRound implements Repository
func (m *MockBaseRepository) SaveRound(ctx context.Context, round *entities.RoundRecord) error {
	args := m.Called(ctx, round)
	return args.Error(0)
}

// Rounds implements Repository
func (m *MockBaseRepository) Rounds(ctx context.Context, accountNumber, gameID string, limit int) ([]*entities.RoundRecord, error) {
	args := m.Called(ctx, accountNumber, gameID, limit)
	return args.Get(0).([]*entities.RoundRecord), args.Error(1)
}

// Statistics implements Repository
func (m *MockBaseRepository) Statistics(ctx context.Context, accountNumber, gameID string) (*entities.GameStatistics, error) {
	args := m.Called(ctx, accountNumber, gameID)
	return args.Get(0).(*entities.GameStatistics), args.Error(1)
}

// Prune implements Repository
func (m *MockBaseRepository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// Close implements Repository
func (m *MockBaseRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

// fakeElasticsearch records the documents written to it
type fakeElasticsearch struct {
	mu          sync.Mutex
	indexExists bool
	created     bool
	docs        map[string]ESRound
	deleteQuery string
	failIndex   bool
}

func (f *fakeElasticsearch) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Elastic-Product", "Elasticsearch")
			w.Header().Set("Content-Type", "application/json")
			next.ServeHTTP(w, req)
		})
	})
	r.Head("/{index}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if !f.indexExists {
			w.WriteHeader(http.StatusNotFound)
		}
	})
	r.Put("/{index}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.created = true
		f.indexExists = true
		w.Write([]byte(`{"acknowledged":true,"index":"` + chi.URLParam(req, "index") + `"}`))
	})
	r.Put("/{index}/_doc/{id}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failIndex {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"unavailable"}`))
			return
		}
		var doc ESRound
		if err := json.NewDecoder(req.Body).Decode(&doc); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.docs[chi.URLParam(req, "id")] = doc
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"result":"created"}`))
	})
	r.Post("/{index}/_delete_by_query", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var body map[string]interface{}
		json.NewDecoder(req.Body).Decode(&body)
		data, _ := json.Marshal(body)
		f.deleteQuery = string(data)
		w.Write([]byte(`{"deleted":3}`))
	})
	return r
}

type ElasticsearchTestSuite struct {
	suite.Suite
	fake   *fakeElasticsearch
	server *httptest.Server
	base   *MockBaseRepository
	repo   *ElasticsearchRepository
	ctx    context.Context
}

func TestElasticsearchSuite(t *testing.T) {
	suite.Run(t, new(ElasticsearchTestSuite))
}

func (s *ElasticsearchTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.fake = &fakeElasticsearch{docs: make(map[string]ESRound)}
	s.server = httptest.NewServer(s.fake.handler())
	s.base = &MockBaseRepository{}

	repo, err := NewElasticsearchRepository(s.ctx, s.base, &ElasticsearchConfig{URL: s.server.URL, IndexPrefix: "test"}, logging.Discard)
	s.Require().NoError(err)
	s.repo = repo
}

func (s *ElasticsearchTestSuite) TearDownTest() {
	s.server.Close()
	s.base.AssertExpectations(s.T())
}

func (s *ElasticsearchTestSuite) TestCreatesIndex() {
	s.True(s.fake.created)
	s.Equal("test_rounds", s.repo.Index())
}

func (s *ElasticsearchTestSuite) TestExistingIndexIsKept() {
	// Setup
	s.fake.created = false

	// Execute
	_, err := NewElasticsearchRepository(s.ctx, s.base, &ElasticsearchConfig{URL: s.server.URL, IndexPrefix: "test"}, logging.Discard)

	// Assert
	s.Require().NoError(err)
	s.False(s.fake.created)
}

func (s *ElasticsearchTestSuite) TestSaveRoundIndexes() {
	// Setup
	round := &entities.RoundRecord{
		ID:            "round-1",
		GameID:        "glitch",
		AccountNumber: "NC-1234-5678",
		Wager:         10,
		Status:        entities.RoundSettled,
		WinAmount:     decimal.NewFromInt(250),
		NewBalance:    decimal.NewFromInt(1240),
		Board:         entities.Board{{"A", "B"}, {"C", "D"}},
		SettledAt:     time.Date(2077, 3, 14, 20, 0, 0, 0, time.UTC),
	}
	s.base.On("SaveRound", s.ctx, round).Return(nil).Once()

	// Execute
	err := s.repo.SaveRound(s.ctx, round)

	// Assert
	s.Require().NoError(err)
	doc, ok := s.fake.docs["round-1"]
	s.Require().True(ok)
	s.Equal("NC-1234-5678", doc.AccountNumber)
	s.True(doc.Won)
	s.Equal([]string{"A", "B", "C", "D"}, doc.Symbols)
	s.True(decimal.NewFromInt(250).Equal(doc.WinAmount))
}

func (s *ElasticsearchTestSuite) TestSaveRoundIndexFailure() {
	// Setup
	s.fake.failIndex = true
	round := &entities.RoundRecord{ID: "round-2", GameID: "glitch"}
	s.base.On("SaveRound", s.ctx, round).Return(nil).Once()

	// Execute
	err := s.repo.SaveRound(s.ctx, round)

	// Assert
	s.Error(err)
	s.Empty(s.fake.docs)
}

func (s *ElasticsearchTestSuite) TestReadsDelegate() {
	// Setup
	stats := &entities.GameStatistics{GameID: "glitch", RoundsPlayed: 3}
	s.base.On("Statistics", s.ctx, "NC-1", "glitch").Return(stats, nil).Once()
	s.base.On("Rounds", s.ctx, "NC-1", "glitch", 5).Return([]*entities.RoundRecord{}, nil).Once()

	// Execute
	gotStats, err := s.repo.Statistics(s.ctx, "NC-1", "glitch")
	s.Require().NoError(err)
	rounds, err := s.repo.Rounds(s.ctx, "NC-1", "glitch", 5)

	// Assert
	s.Require().NoError(err)
	s.Equal(stats, gotStats)
	s.Empty(rounds)
}

func (s *ElasticsearchTestSuite) TestPrune() {
	// Setup
	cutoff := time.Date(2077, 2, 12, 0, 0, 0, 0, time.UTC)
	s.base.On("Prune", s.ctx, cutoff).Return(int64(2), nil).Once()

	// Execute
	removed, err := s.repo.Prune(s.ctx, cutoff)

	// Assert
	s.Require().NoError(err)
	s.Equal(int64(2), removed, "Base repository count is authoritative")
	s.Contains(s.fake.deleteQuery, "2077-02-12T00:00:00Z")
}

func (s *ElasticsearchTestSuite) TestClose() {
	s.base.On("Close").Return(nil).Once()

	s.NoError(s.repo.Close())
}
