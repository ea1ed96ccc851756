package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-client/internal/domain"
)

// HistoryRepository stores completed attempts as JSONB rows in quiz_attempts.
type HistoryRepository struct {
	pool *pgxpool.Pool
}

func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

func (r *HistoryRepository) Save(ctx context.Context, attempt domain.Attempt) error {
	raw, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("marshal attempt: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO quiz_attempts (id, user_id, category, sub_domain, correct, total, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, correct = EXCLUDED.correct, total = EXCLUDED.total`,
		attempt.ID, attempt.UserID, attempt.Category, attempt.SubDomain,
		attempt.Correct, attempt.Total, raw, attempt.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return nil
}

// List returns attempts newest first. An empty userID lists every user;
// limit <= 0 means no limit.
func (r *HistoryRepository) List(ctx context.Context, userID string, limit int) ([]domain.Attempt, error) {
	query := `SELECT data FROM quiz_attempts WHERE ($1 = '' OR user_id = $1) ORDER BY created_at DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.Attempt
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		var attempt domain.Attempt
		if err := json.Unmarshal(raw, &attempt); err != nil {
			return nil, fmt.Errorf("unmarshal attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}
	return attempts, rows.Err()
}
