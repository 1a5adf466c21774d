package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/red445992/Code2Convert-HackForBusiness2/internal/api"
	"github.com/red445992/Code2Convert-HackForBusiness2/internal/auth"
	"github.com/red445992/Code2Convert-HackForBusiness2/internal/catalog"
	"github.com/red445992/Code2Convert-HackForBusiness2/internal/config"
	"github.com/red445992/Code2Convert-HackForBusiness2/internal/database"
	"github.com/red445992/Code2Convert-HackForBusiness2/internal/ledger"
	"github.com/red445992/Code2Convert-HackForBusiness2/internal/migrations"
	"github.com/red445992/Code2Convert-HackForBusiness2/internal/seed"
)

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to connect to database")
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		log.Fatal().Err(err).Msg("unable to migrate database")
	}
	if seeded, err := seed.CommonProducts(db); err != nil {
		log.Fatal().Err(err).Msg("unable to seed product catalog")
	} else if seeded > 0 {
		log.Info().Int("count", seeded).Msg("seeded common product catalog")
	}

	cat := catalog.New(db)
	led := ledger.New(ledger.NewSQLStore(db), ledger.WithLocation(cfg.StatsLocation))
	handler := api.New(cat, led, auth.NewManager(cfg.Secret), log.Logger)

	log.Info().Str("port", cfg.HTTPPort).Msg("shoptracker server starting")
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
