package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/fadedpez/neobank/internal/logging"
	"github.com/fadedpez/neobank/pkg/entities"
)

// ElasticsearchConfig holds configuration options for the Elasticsearch repository
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
	Transport   http.RoundTripper // Optional, for tests
}

// ElasticsearchRepository indexes every round into Elasticsearch on top
// of a base repository. Reads are served by the base repository.
type ElasticsearchRepository struct {
	baseRepo Repository
	client   *elasticsearch.Client
	index    string
	logger   *logging.Logger
}

// NewElasticsearchRepository creates the repository and its index
func NewElasticsearchRepository(ctx context.Context, baseRepo Repository, config *ElasticsearchConfig, logger *logging.Logger) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
		Transport: config.Transport,
	}

	// Add authentication if provided
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	prefix := config.IndexPrefix
	if prefix == "" {
		prefix = "neobank"
	}
	if logger == nil {
		logger = logging.Default
	}

	repo := &ElasticsearchRepository{
		baseRepo: baseRepo,
		client:   client,
		index:    prefix + "_rounds",
		logger:   logger,
	}

	if err := repo.initIndex(ctx); err != nil {
		return nil, fmt.Errorf("error initializing index: %w", err)
	}
	return repo, nil
}

// initIndex creates the rounds index if it doesn't exist
func (r *ElasticsearchRepository) initIndex(ctx context.Context) error {
	res, err := r.client.Indices.Exists([]string{r.index}, r.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error checking if round index exists: %w", err)
	}
	res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		return nil
	}

	res, err = r.client.Indices.Create(
		r.index,
		r.client.Indices.Create.WithBody(bytes.NewReader([]byte(roundMapping))),
		r.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("error creating round index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating round index: %s", res.String())
	}
	r.logger.Info("[HISTORY] Created Elasticsearch index %s", r.index)
	return nil
}

// SaveRound stores the round in the base repository, then indexes it
func (r *ElasticsearchRepository) SaveRound(ctx context.Context, round *entities.RoundRecord) error {
	if err := r.baseRepo.SaveRound(ctx, round); err != nil {
		return fmt.Errorf("error saving round to base repository: %w", err)
	}
	return r.IndexRound(ctx, round)
}

// IndexRound writes the round document, keyed by round id
func (r *ElasticsearchRepository) IndexRound(ctx context.Context, round *entities.RoundRecord) error {
	jsonData, err := json.Marshal(newESRound(round))
	if err != nil {
		return fmt.Errorf("error marshaling round: %w", err)
	}

	res, err := r.client.Index(
		r.index,
		bytes.NewReader(jsonData),
		r.client.Index.WithDocumentID(round.ID),
		r.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("error indexing round: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing round: %s", res.String())
	}
	return nil
}

// Rounds delegates to the base repository
func (r *ElasticsearchRepository) Rounds(ctx context.Context, accountNumber, gameID string, limit int) ([]*entities.RoundRecord, error) {
	return r.baseRepo.Rounds(ctx, accountNumber, gameID, limit)
}

// Statistics delegates to the base repository
func (r *ElasticsearchRepository) Statistics(ctx context.Context, accountNumber, gameID string) (*entities.GameStatistics, error) {
	return r.baseRepo.Statistics(ctx, accountNumber, gameID)
}

// Prune prunes the base repository and then the index. Index failures are
// logged; the base repository stays authoritative.
func (r *ElasticsearchRepository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	removed, err := r.baseRepo.Prune(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	deleted, err := r.pruneIndex(ctx, cutoff)
	if err != nil {
		r.logger.Warn("[HISTORY] Failed to prune index %s: %v", r.index, err)
	} else if deleted > 0 {
		r.logger.Info("[HISTORY] Pruned %d documents from %s", deleted, r.index)
	}
	return removed, nil
}

func (r *ElasticsearchRepository) pruneIndex(ctx context.Context, cutoff time.Time) (int64, error) {
	query := fmt.Sprintf(`{
		"query": {
			"range": { "settled_at": { "lt": "%s" } }
		}
	}`, cutoff.UTC().Format(time.RFC3339Nano))

	res, err := r.client.DeleteByQuery(
		[]string{r.index},
		bytes.NewReader([]byte(query)),
		r.client.DeleteByQuery.WithContext(ctx),
	)
	if err != nil {
		return 0, fmt.Errorf("error deleting rounds: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("error deleting rounds: %s", res.String())
	}

	var result struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("error parsing delete response: %w", err)
	}
	return result.Deleted, nil
}

// Close closes the base repository
func (r *ElasticsearchRepository) Close() error {
	return r.baseRepo.Close()
}

// Index returns the name of the rounds index
func (r *ElasticsearchRepository) Index() string {
	return r.index
}
