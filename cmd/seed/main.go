// Command seed loads challenges from a JSON file into the database.
// Records carry their own ids, so re-running a seed file replaces
// rather than duplicates.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/techquest/techquest-backend/internal/config"
	"github.com/techquest/techquest-backend/internal/database"
	"github.com/techquest/techquest-backend/internal/logger"
	"github.com/techquest/techquest-backend/internal/model"
	"github.com/techquest/techquest-backend/internal/repository"
)

func main() {
	var file string
	flag.StringVar(&file, "file", "seed/challenges.json", "Path to the challenge seed file")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	raw, err := os.ReadFile(file)
	if err != nil {
		log.Fatal().Err(err).Str("file", file).Msg("Failed to read seed file")
	}

	var challenges []model.Challenge
	if err := json.Unmarshal(raw, &challenges); err != nil {
		log.Fatal().Err(err).Msg("Invalid seed file")
	}

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	repo := repository.NewChallengeRepository(pool)

	seeded := 0
	for i := range challenges {
		c := &challenges[i]
		if c.ID == "" || c.Title == "" || !model.ValidLevel(string(c.Level)) {
			log.Warn().Str("id", c.ID).Str("title", c.Title).Msg("Skipping malformed record")
			continue
		}
		if c.Status == "" {
			c.Status = model.ChallengeStatusApproved
		}
		if c.Type == "" {
			c.Type = model.ChallengeTypeExplanation
		}
		if c.Concepts == nil {
			c.Concepts = []string{}
		}
		if err := repo.Upsert(ctx, c); err != nil {
			log.Error().Err(err).Str("id", c.ID).Msg("Upsert failed")
			continue
		}
		seeded++
	}

	fmt.Printf("Seeded %d of %d challenges\n", seeded, len(challenges))
}
