package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/sportsball/go/internal/models"
	"github.com/mcdev12/sportsball/go/internal/sqlutil"
	"github.com/sqlc-dev/pqtype"
)

// Repository stores roster events in the roster_outbox table
type Repository struct {
	db sqlutil.DBTX
}

func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

// InsertEvent writes an unsent event
func (r *Repository) InsertEvent(ctx context.Context, e *models.RosterEvent) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO roster_outbox (id, team_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.TeamID, string(e.EventType),
		pqtype.NullRawMessage{RawMessage: e.Payload, Valid: len(e.Payload) > 0},
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert %s outbox event: %w", e.EventType, err)
	}
	return nil
}

// FetchUnsent returns up to limit unsent events in insertion order. A limit of
// 0 fetches all of them. The row locks only last until the fetching unit of
// work commits, before anything is published, so two workers can pick up the
// same event. Delivery is at least once; JetStream drops the duplicate by
// message id.
func (r *Repository) FetchUnsent(ctx context.Context, limit int) ([]models.RosterEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, team_id, event_type, payload, created_at
		FROM roster_outbox
		WHERE sent_at IS NULL
		ORDER BY created_at, id
		LIMIT NULLIF($1::int, 0)
		FOR UPDATE SKIP LOCKED`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var events []models.RosterEvent
	for rows.Next() {
		var (
			e         models.RosterEvent
			eventType string
			payload   pqtype.NullRawMessage
		)
		if err := rows.Scan(&e.ID, &e.TeamID, &eventType, &payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		e.EventType = models.RosterEventType(eventType)
		if payload.Valid {
			e.Payload = payload.RawMessage
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	return events, nil
}

// MarkSent stamps the events as delivered
func (r *Repository) MarkSent(ctx context.Context, ids []uuid.UUID, sentAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `
		UPDATE roster_outbox SET sent_at = $2
		WHERE id = ANY($1::uuid[])`,
		ids, sentAt,
	)
	if err != nil {
		return fmt.Errorf("failed to mark outbox events as sent: %w", err)
	}
	return nil
}
