package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/fadedpez/neobank/pkg/db/migrations"
	"github.com/fadedpez/neobank/pkg/entities"
)

const roundColumns = `id, game_id, account_number, wager, status, win_amount, new_balance, board, error, started_at, settled_at`

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := migrations.Migrate(db, migrations.SetHistory); err != nil {
		db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveRound stores a round
func (r *SQLiteRepository) SaveRound(ctx context.Context, round *entities.RoundRecord) error {
	var board sql.NullString
	if len(round.Board) > 0 {
		data, err := json.Marshal(round.Board)
		if err != nil {
			return fmt.Errorf("error marshaling board: %w", err)
		}
		board = sql.NullString{String: string(data), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rounds (`+roundColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		round.ID,
		round.GameID,
		round.AccountNumber,
		round.Wager,
		string(round.Status),
		round.WinAmount.String(),
		round.NewBalance.String(),
		board,
		round.Error,
		round.StartedAt.UTC(),
		round.SettledAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("error saving round: %w", err)
	}
	return nil
}

// Rounds returns recent rounds, newest first
func (r *SQLiteRepository) Rounds(ctx context.Context, accountNumber, gameID string, limit int) ([]*entities.RoundRecord, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds
		WHERE account_number = ? AND game_id = ?
		ORDER BY settled_at DESC, rowid DESC`
	args := []interface{}{accountNumber, gameID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.query(ctx, query, args...)
}

// Statistics aggregates stored rounds
func (r *SQLiteRepository) Statistics(ctx context.Context, accountNumber, gameID string) (*entities.GameStatistics, error) {
	rounds, err := r.query(ctx, `SELECT `+roundColumns+` FROM rounds
		WHERE account_number = ? AND game_id = ?`, accountNumber, gameID)
	if err != nil {
		return nil, err
	}

	stats := &entities.GameStatistics{
		GameID:        gameID,
		AccountNumber: accountNumber,
	}
	for _, round := range rounds {
		accumulate(stats, round)
	}
	return stats, nil
}

// Prune deletes rounds settled before cutoff
func (r *SQLiteRepository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rounds WHERE settled_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("error pruning rounds: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...interface{}) ([]*entities.RoundRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying rounds: %w", err)
	}
	defer rows.Close()

	results := []*entities.RoundRecord{}
	for rows.Next() {
		var (
			round     entities.RoundRecord
			status    string
			winAmount string
			balance   string
			board     sql.NullString
			errMsg    sql.NullString
		)
		if err := rows.Scan(
			&round.ID,
			&round.GameID,
			&round.AccountNumber,
			&round.Wager,
			&status,
			&winAmount,
			&balance,
			&board,
			&errMsg,
			&round.StartedAt,
			&round.SettledAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning round: %w", err)
		}

		round.Status = entities.RoundStatus(status)
		round.Error = errMsg.String
		if round.WinAmount, err = decimal.NewFromString(winAmount); err != nil {
			return nil, fmt.Errorf("error parsing win amount of round %s: %w", round.ID, err)
		}
		if round.NewBalance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("error parsing balance of round %s: %w", round.ID, err)
		}
		if board.Valid {
			if err := json.Unmarshal([]byte(board.String), &round.Board); err != nil {
				return nil, fmt.Errorf("error parsing board of round %s: %w", round.ID, err)
			}
		}
		results = append(results, &round)
	}
	return results, rows.Err()
}
