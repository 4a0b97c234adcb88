package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/sportsball/go/internal/dbconfig"
	"github.com/mcdev12/sportsball/go/internal/store/postgres"
)

func main() {
	path := flag.String("file", "go/internal/assets/players.yaml", "YAML or JSON list of players")
	flag.Parse()
	ctx := context.Background()

	// 1) Load players
	f, err := os.Open(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", *path, err)
		os.Exit(1)
	}
	records, err := loadPlayers(f)
	_ = f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse %s: %v\n", *path, err)
		os.Exit(1)
	}

	// 2) Connect to DB
	cfg, err := dbconfig.NewConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "database config: %v\n", err)
		os.Exit(1)
	}
	st, err := postgres.NewStore(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	// 3) Seed players
	res := seed(ctx, st, clockwork.NewRealClock(), records)
	fmt.Printf(
		"Players seed: total=%d inserted=%d errors=%d\n",
		res.Total, res.Inserted, res.Errors,
	)
	if res.Errors > 0 {
		os.Exit(1)
	}
}
