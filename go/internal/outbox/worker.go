// Package outbox relays roster events from the outbox table to publishers.
// Events are written in the same unit of work as the roster change that
// produced them, so a crash between commit and publish delays delivery but
// never loses an event. Delivery is at least once.
package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/sportsball/go/internal/models"
	"github.com/mcdev12/sportsball/go/internal/store"
	"github.com/rs/zerolog/log"
)

type Config struct {
	PollInterval time.Duration `yaml:"poll_interval" env:"OUTBOX_POLL_INTERVAL"`
	BatchSize    int           `yaml:"batch_size" env:"OUTBOX_BATCH_SIZE"`
	MaxRetries   int           `yaml:"max_retries" env:"OUTBOX_MAX_RETRIES"`
	RetryDelay   time.Duration `yaml:"retry_delay" env:"OUTBOX_RETRY_DELAY"`
}

func DefaultConfig() Config {
	return Config{
		PollInterval: 5 * time.Second,
		BatchSize:    100,
		MaxRetries:   3,
		RetryDelay:   time.Second,
	}
}

type Worker struct {
	uow       store.UnitOfWork
	publisher Publisher
	config    Config
	clock     clockwork.Clock

	wake chan struct{}

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewWorker(uow store.UnitOfWork, publisher Publisher, cfg Config, clock clockwork.Clock) *Worker {
	return &Worker{
		uow:       uow,
		publisher: publisher,
		config:    cfg,
		clock:     clock,
		wake:      make(chan struct{}, 1),
	}
}

func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker already running")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run(ctx)

	log.Info().
		Dur("poll_interval", w.config.PollInterval).
		Int("batch_size", w.config.BatchSize).
		Msg("outbox worker started")
	return nil
}

func (w *Worker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker not running")
	}
	w.running = false
	close(w.stopChan)
	w.mu.Unlock()

	w.wg.Wait()

	log.Info().Msg("outbox worker stopped")
	return nil
}

// Wake asks the worker to poll now instead of waiting for the next tick
func (w *Worker) Wake() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := w.clock.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	// Process immediately on start
	w.process(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.Chan():
			w.process(ctx)
		case <-w.wake:
			w.process(ctx)
		}
	}
}

func (w *Worker) process(ctx context.Context) {
	if _, err := w.ProcessOnce(ctx); err != nil {
		log.Error().Err(err).Msg("failed to process outbox")
	}
}

// ProcessOnce publishes one batch of unsent events and marks the delivered
// ones sent. Events that fail every retry stay unsent for the next pass.
// Publishing happens outside any unit of work, so a crash between publish
// and MarkSent republishes the batch.
func (w *Worker) ProcessOnce(ctx context.Context) (int, error) {
	var batch []models.RosterEvent
	err := w.uow.Atomically(ctx, func(ctx context.Context, r store.Repos) error {
		var err error
		batch, err = r.Outbox.FetchUnsent(ctx, w.config.BatchSize)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch unsent events: %w", err)
	}
	if len(batch) == 0 {
		return 0, nil
	}

	log.Debug().Int("count", len(batch)).Msg("processing outbox events")

	var sent []uuid.UUID
	for _, event := range batch {
		if err := w.publishWithRetry(ctx, event); err != nil {
			log.Error().
				Err(err).
				Str("event_id", event.ID.String()).
				Str("event_type", string(event.EventType)).
				Msg("failed to publish event")
			continue
		}
		sent = append(sent, event.ID)
	}

	if len(sent) > 0 {
		err := w.uow.Atomically(ctx, func(ctx context.Context, r store.Repos) error {
			return r.Outbox.MarkSent(ctx, sent, w.clock.Now().UTC())
		})
		if err != nil {
			return 0, fmt.Errorf("failed to mark events as sent: %w", err)
		}
	}

	log.Info().
		Int("total", len(batch)).
		Int("successful", len(sent)).
		Msg("processed outbox events")
	return len(sent), nil
}

func (w *Worker) publishWithRetry(ctx context.Context, event models.RosterEvent) error {
	var lastErr error

	for attempt := 0; attempt <= w.config.MaxRetries; attempt++ {
		if attempt > 0 && w.config.RetryDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-w.clock.After(w.config.RetryDelay * time.Duration(attempt)):
			}
		}

		if err := w.publisher.Publish(ctx, event); err != nil {
			lastErr = err
			log.Warn().
				Err(err).
				Str("event_id", event.ID.String()).
				Int("attempt", attempt+1).
				Msg("failed to publish event, retrying")
			continue
		}
		return nil
	}

	return fmt.Errorf("failed after %d attempts: %w", w.config.MaxRetries+1, lastErr)
}
