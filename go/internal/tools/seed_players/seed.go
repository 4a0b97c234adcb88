package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/sportsball/go/internal/models"
	"github.com/mcdev12/sportsball/go/internal/player"
	"github.com/mcdev12/sportsball/go/internal/store"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// record is one entry of the seed file. JSON input parses as YAML too.
type record struct {
	Name           string   `yaml:"name"`
	Gender         string   `yaml:"gender"`
	Position       string   `yaml:"position"`
	Species        string   `yaml:"species"`
	IsSupernatural *bool    `yaml:"isSupernatural"`
	HeightCm       *float64 `yaml:"heightCm"`
	WeightKg       *float64 `yaml:"weightKg"`
	Yards          *float64 `yaml:"yards"`
	Touchdowns     *float64 `yaml:"touchdowns"`
	Interceptions  *float64 `yaml:"interceptions"`
}

func (r record) request() player.CreatePlayerRequest {
	return player.CreatePlayerRequest{
		Name:           r.Name,
		Gender:         r.Gender,
		Position:       r.Position,
		Species:        r.Species,
		IsSupernatural: r.IsSupernatural,
		HeightCm:       r.HeightCm,
		WeightKg:       r.WeightKg,
		Yards:          r.Yards,
		Touchdowns:     r.Touchdowns,
		Interceptions:  r.Interceptions,
	}
}

func loadPlayers(r io.Reader) ([]player.CreatePlayerRequest, error) {
	var records []record
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode players: %w", err)
	}
	reqs := make([]player.CreatePlayerRequest, len(records))
	for i, rec := range records {
		reqs[i] = rec.request()
	}
	return reqs, nil
}

type result struct {
	Total, Inserted, Errors int
	Created                 []models.Player
}

// seed creates each player in its own unit of work so one bad entry does not
// hold back the rest. Fantasy points are computed on the way in.
func seed(ctx context.Context, uow store.UnitOfWork, clock clockwork.Clock, reqs []player.CreatePlayerRequest) result {
	res := result{Total: len(reqs)}
	for i, req := range reqs {
		var created *models.Player
		err := uow.Atomically(ctx, func(ctx context.Context, r store.Repos) error {
			var err error
			created, err = player.NewApp(r.Players, clock).CreatePlayer(ctx, req)
			return err
		})
		if err != nil {
			log.Error().Err(err).Int("index", i).Str("name", req.Name).Msg("failed to seed player")
			res.Errors++
			continue
		}
		res.Inserted++
		res.Created = append(res.Created, *created)
	}
	return res
}
