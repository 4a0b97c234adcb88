package main

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/sportsball/go/internal/auth"
	"github.com/mcdev12/sportsball/go/internal/gateway"
	"github.com/mcdev12/sportsball/go/internal/outbox"
	"github.com/mcdev12/sportsball/go/internal/roster"
	"github.com/mcdev12/sportsball/go/internal/store"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Roster   *roster.Coordinator
	Tokens   *auth.Issuer
	Gateway  *gateway.ConnectionManager
	Worker   *outbox.Worker
	Listener *outbox.Listener // nil unless storage is postgres

	closers []func() error
}

func setupServices(ctx context.Context, cfg *Config, uow store.UnitOfWork) (*Services, error) {
	// Wire up dependency injection chain
	// Store → Coordinator → API, Store → Outbox worker → Publishers
	clock := clockwork.NewRealClock()

	tokens, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, clock)
	if err != nil {
		return nil, err
	}
	coordinator := roster.NewCoordinator(uow, auth.NewHasher(cfg.Auth.BcryptCost), tokens, clock, cfg.Roster)

	services := &Services{
		Roster:  coordinator,
		Tokens:  tokens,
		Gateway: gateway.NewConnectionManager(gateway.DefaultConnectionConfig()),
	}

	publishers := []outbox.Publisher{outbox.NewLogPublisher(), services.Gateway}
	if cfg.NATS.Enabled {
		js, err := outbox.NewJetStreamPublisher(ctx, cfg.NATS.JetStreamConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create JetStream publisher: %w", err)
		}
		publishers = append(publishers, js)
		services.closers = append(services.closers, js.Close)
	}
	services.Worker = outbox.NewWorker(uow, outbox.NewMultiPublisher(publishers...), cfg.Outbox, clock)

	if cfg.Storage.Driver == driverPostgres {
		listenerCfg := cfg.Listener
		listenerCfg.DatabaseURL = cfg.Database.DSN()
		listener, err := outbox.NewListener(listenerCfg, services.Worker, clock)
		if err != nil {
			services.Close()
			return nil, fmt.Errorf("failed to create outbox listener: %w", err)
		}
		services.Listener = listener
	}

	return services, nil
}

// Close releases external connections
func (s *Services) Close() {
	for _, c := range s.closers {
		if err := c(); err != nil {
			log.Error().Err(err).Msg("failed to close service")
		}
	}
}
