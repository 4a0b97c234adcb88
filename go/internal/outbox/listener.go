package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type ListenerConfig struct {
	DatabaseURL   string        `yaml:"-"`                                                 // Postgres DSN for LISTEN/NOTIFY
	NotifyChannel string        `yaml:"notify_channel" env:"OUTBOX_NOTIFY_CHANNEL"`        // Channel name to LISTEN on
	PingInterval  time.Duration `yaml:"ping_interval" env:"OUTBOX_LISTENER_PING_INTERVAL"` // How often to check the listener connection
}

func DefaultListenerConfig() ListenerConfig {
	return ListenerConfig{
		NotifyChannel: "roster_outbox_events",
		PingInterval:  90 * time.Second,
	}
}

// Waker is poked whenever a new outbox row is announced. *Worker satisfies it.
type Waker interface {
	Wake()
}

// Listener turns Postgres NOTIFY on the outbox channel into worker wakeups so
// events go out without waiting for the next poll
type Listener struct {
	listener *pq.Listener
	waker    Waker
	clock    clockwork.Clock
	cfg      ListenerConfig
}

func NewListener(cfg ListenerConfig, waker Waker, clock clockwork.Clock) (*Listener, error) {
	l := pq.NewListener(
		cfg.DatabaseURL,
		10*time.Second,
		time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Error().Err(err).Msg("listener event")
			}
		},
	)
	if err := l.Listen(cfg.NotifyChannel); err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("failed to listen to channel: %w", err)
	}

	log.Info().
		Str("channel", cfg.NotifyChannel).
		Msg("listening for notifications")

	return &Listener{listener: l, waker: waker, clock: clock, cfg: cfg}, nil
}

// Start blocks until ctx is done, waking the worker on every notification
func (l *Listener) Start(ctx context.Context) error {
	log.Info().
		Str("channel", l.cfg.NotifyChannel).
		Dur("ping_interval", l.cfg.PingInterval).
		Msg("listener started")

	err := relay(ctx, l.listener.Notify, l.waker, l.clock, l.cfg.PingInterval, l.listener.Ping)
	if closeErr := l.Stop(); closeErr != nil {
		log.Error().Err(closeErr).Msg("failed to close listener")
	}
	return err
}

func (l *Listener) Stop() error {
	return l.listener.Close()
}

// relay wakes the worker for each notification. A nil notification means the
// connection was re-established and notifications may have been missed, so
// it wakes the worker as well.
func relay(ctx context.Context, notify <-chan *pq.Notification, waker Waker, clock clockwork.Clock, pingInterval time.Duration, ping func() error) error {
	pingTicker := clock.NewTicker(pingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("listener shutting down")
			return nil
		case note, ok := <-notify:
			if !ok {
				return fmt.Errorf("notification channel closed")
			}
			if note != nil {
				log.Debug().Str("event_id", note.Extra).Msg("outbox notification")
			}
			waker.Wake()
		case <-pingTicker.Chan():
			if err := ping(); err != nil {
				log.Error().Err(err).Msg("failed to ping listener")
			}
		}
	}
}
