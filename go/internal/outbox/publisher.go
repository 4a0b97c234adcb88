package outbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcdev12/sportsball/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Publisher delivers a committed roster event to subscribers
type Publisher interface {
	Publish(ctx context.Context, event models.RosterEvent) error
}

// LogPublisher writes events to the log. Used when no broker is configured.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(ctx context.Context, event models.RosterEvent) error {
	log.Info().
		Str("event_id", event.ID.String()).
		Str("event_type", string(event.EventType)).
		Str("team_id", event.TeamID.String()).
		RawJSON("payload", event.Payload).
		Msg("publishing event")
	return nil
}

// MultiPublisher fans an event out to every publisher. It tries all of them
// and fails if any failed, so a retry may redeliver to the ones that succeeded.
type MultiPublisher struct {
	publishers []Publisher
}

func NewMultiPublisher(publishers ...Publisher) *MultiPublisher {
	return &MultiPublisher{publishers: publishers}
}

func (m *MultiPublisher) Publish(ctx context.Context, event models.RosterEvent) error {
	var errs []error
	for i, p := range m.publishers {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("publisher %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
