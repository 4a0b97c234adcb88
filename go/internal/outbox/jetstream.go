package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/mcdev12/sportsball/go/internal/events"
	"github.com/mcdev12/sportsball/go/internal/models"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

type JetStreamConfig struct {
	URL             string        `yaml:"url" env:"NATS_URL"`
	StreamName      string        `yaml:"stream_name" env:"NATS_STREAM"`
	SubjectPrefix   string        `yaml:"subject_prefix" env:"NATS_SUBJECT_PREFIX"`
	MaxReconnects   int           `yaml:"max_reconnects" env:"NATS_MAX_RECONNECTS"`
	ReconnectWait   time.Duration `yaml:"reconnect_wait" env:"NATS_RECONNECT_WAIT"`
	MaxAge          time.Duration `yaml:"max_age" env:"NATS_MAX_AGE"`
	Replicas        int           `yaml:"replicas" env:"NATS_REPLICAS"`
	DuplicateWindow time.Duration `yaml:"duplicate_window" env:"NATS_DUPLICATE_WINDOW"`
}

func DefaultJetStreamConfig() JetStreamConfig {
	return JetStreamConfig{
		URL:             nats.DefaultURL,
		StreamName:      "ROSTER_EVENTS",
		SubjectPrefix:   "roster.events",
		MaxReconnects:   -1, // Infinite
		ReconnectWait:   2 * time.Second,
		MaxAge:          7 * 24 * time.Hour,
		Replicas:        1,
		DuplicateWindow: 2 * time.Hour,
	}
}

// JetStreamPublisher publishes roster events to a NATS JetStream stream.
// The outbox event id is the message id so redeliveries are deduplicated.
type JetStreamPublisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	config JetStreamConfig
}

func NewJetStreamPublisher(ctx context.Context, cfg JetStreamConfig) (*JetStreamPublisher, error) {
	opts := []nats.Option{
		nats.Name("sportsball-outbox"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	p := &JetStreamPublisher{nc: nc, js: js, config: cfg}
	if err := p.ensureStream(ctx); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream: %w", err)
	}
	return p, nil
}

func (p *JetStreamPublisher) ensureStream(ctx context.Context) error {
	sc := jetstream.StreamConfig{
		Name:        p.config.StreamName,
		Description: "Roster events relayed from the outbox",
		Subjects:    []string{p.config.SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      p.config.MaxAge,
		Storage:     jetstream.FileStorage,
		Replicas:    p.config.Replicas,
		Duplicates:  p.config.DuplicateWindow,
	}

	stream, err := p.js.CreateOrUpdateStream(ctx, sc)
	if err != nil {
		return fmt.Errorf("create or update stream: %w", err)
	}
	log.Info().
		Str("stream", stream.CachedInfo().Config.Name).
		Msg("JetStream stream ready")
	return nil
}

func (p *JetStreamPublisher) Publish(ctx context.Context, event models.RosterEvent) error {
	data, err := events.Encode(event)
	if err != nil {
		return err
	}

	subject := Subject(p.config.SubjectPrefix, event)
	ack, err := p.js.PublishMsg(ctx, &nats.Msg{
		Subject: subject,
		Data:    data,
		Header: nats.Header{
			"Event-Type": []string{string(event.EventType)},
			"Team-ID":    []string{event.TeamID.String()},
			"Event-ID":   []string{event.ID.String()},
		},
	},
		jetstream.WithMsgID(event.ID.String()),
		jetstream.WithExpectStream(p.config.StreamName),
	)
	if err != nil {
		return fmt.Errorf("publish to JetStream: %w", err)
	}

	log.Debug().
		Str("subject", subject).
		Str("event_id", event.ID.String()).
		Uint64("sequence", ack.Sequence).
		Str("stream", ack.Stream).
		Msg("published to JetStream")
	return nil
}

func (p *JetStreamPublisher) Close() error {
	if p.nc != nil {
		p.nc.Close()
	}
	return nil
}

// Subject is <prefix>.<team id>.<event type>, so consumers can filter per team
func Subject(prefix string, event models.RosterEvent) string {
	return fmt.Sprintf("%s.%s.%s", prefix, event.TeamID, event.EventType)
}
