package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuthEvent is one row of the append-only authentication audit trail.
type AuthEvent struct {
	ID         string
	EventType  string
	UserID     string
	Success    bool
	Similarity *float64
	Detail     string
	CreatedAt  time.Time
}

// AuditRepository persists authentication events.
type AuditRepository interface {
	Append(ctx context.Context, event *AuthEvent) error
	ListByUser(ctx context.Context, userID string, limit int) ([]AuthEvent, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository returns a Postgres-backed implementation.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Append(ctx context.Context, event *AuthEvent) error {
	const query = `
        INSERT INTO auth_events (id, event_type, user_id, success, similarity, detail)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		event.ID,
		event.EventType,
		event.UserID,
		event.Success,
		event.Similarity,
		event.Detail,
	).Scan(&event.CreatedAt)
}

func (r *auditRepository) ListByUser(ctx context.Context, userID string, limit int) ([]AuthEvent, error) {
	const query = `
        SELECT id, event_type, user_id, success, similarity, detail, created_at
        FROM auth_events WHERE user_id=$1
        ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []AuthEvent
	for rows.Next() {
		var event AuthEvent
		if err := rows.Scan(
			&event.ID,
			&event.EventType,
			&event.UserID,
			&event.Success,
			&event.Similarity,
			&event.Detail,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, event)
	}
	return results, rows.Err()
}
