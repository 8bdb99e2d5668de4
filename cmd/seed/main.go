// Command seed loads the sample lawyer directory from a YAML file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/Quick-Genius/Apna-Lawyer/internal/config"
	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
	"github.com/Quick-Genius/Apna-Lawyer/internal/platform/database"
	"github.com/Quick-Genius/Apna-Lawyer/internal/repository"
)

type seedFile struct {
	Lawyers []seedLawyer `yaml:"lawyers"`
}

type seedLawyer struct {
	Name            string   `yaml:"name"`
	Specialization  string   `yaml:"specialization"`
	ExperienceYears int      `yaml:"experience_years"`
	Languages       []string `yaml:"languages"`
	Location        string   `yaml:"location"`
	PricingType     string   `yaml:"pricing_type"`
	HourlyRate      *float64 `yaml:"hourly_rate"`
	Rating          float64  `yaml:"rating"`
	Bio             string   `yaml:"bio"`
	Verified        bool     `yaml:"verified"`
}

func main() {
	file := flag.String("file", "configs/lawyers.yaml", "lawyer seed file")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}

	if err := run(context.Background(), cfg, *file); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}

func run(ctx context.Context, cfg *config.Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file failed: %w", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("decode seed file failed: %w", err)
	}

	db, err := database.New(ctx, cfg.Database.Driver, cfg.DatabaseDSN())
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}

	repo := repository.NewLawyerRepository(db)
	existing, err := repo.List(ctx, repository.LawyerFilter{})
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, l := range existing {
		known[strings.ToLower(l.Name)] = true
	}

	created := 0
	for _, s := range seed.Lawyers {
		if known[strings.ToLower(s.Name)] {
			log.Info().Str("name", s.Name).Msg("lawyer exists, skipped")
			continue
		}
		lawyer := &model.Lawyer{
			Name:            s.Name,
			Specialization:  s.Specialization,
			ExperienceYears: s.ExperienceYears,
			Location:        s.Location,
			PricingType:     s.PricingType,
			HourlyRate:      s.HourlyRate,
			Rating:          s.Rating,
			Bio:             s.Bio,
			IsVerified:      s.Verified,
		}
		if err := repo.Save(ctx, lawyer, s.Languages); err != nil {
			return err
		}
		known[strings.ToLower(s.Name)] = true
		created++
	}
	log.Info().Int("created", created).Int("total", len(seed.Lawyers)).Msg("seed finished")
	return nil
}
