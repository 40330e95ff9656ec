package repository

import (
	"context"

	"telegram_chess/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ArchiveRepository persists finished games.
type ArchiveRepository struct {
	db *pgxpool.Pool
}

func NewArchiveRepository(db *pgxpool.Pool) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

func (r *ArchiveRepository) Create(ctx context.Context, rec *domain.GameRecord) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO games (session_id, first_id, second_id, winner_id, outcome, reason, moves)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		rec.SessionID,
		rec.FirstID,
		rec.SecondID,
		rec.WinnerID,
		rec.Outcome,
		rec.Reason,
		rec.Moves,
	).Scan(&rec.ID, &rec.CreatedAt)
}

// ListByPlayer returns the most recent archived games a player took
// part in, newest first.
func (r *ArchiveRepository) ListByPlayer(ctx context.Context, playerID int64, limit int) ([]*domain.GameRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, session_id, first_id, second_id, winner_id, outcome, reason, moves, created_at
		 FROM games
		 WHERE first_id = $1 OR second_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.GameRecord
	for rows.Next() {
		rec := &domain.GameRecord{}
		if err := rows.Scan(
			&rec.ID,
			&rec.SessionID,
			&rec.FirstID,
			&rec.SecondID,
			&rec.WinnerID,
			&rec.Outcome,
			&rec.Reason,
			&rec.Moves,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
