// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command seed loads or wipes the development data set.
//
// # Usage
//
//	go run ./cmd/seed -import [-dir data/dev]
//	go run ./cmd/seed -delete
//
// The data directory holds tours.json, users.json and reviews.json. Every
// record carries its own id so references between the files resolve. Import
// and delete each run in a single transaction.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/trailhead/internal/platform/constants"
	"github.com/taibuivan/trailhead/internal/platform/database/schema"
	"github.com/taibuivan/trailhead/internal/platform/postgres"
	"github.com/taibuivan/trailhead/internal/platform/resource"
	"github.com/taibuivan/trailhead/internal/platform/sec"
	"github.com/taibuivan/trailhead/internal/tours/review"
	"github.com/taibuivan/trailhead/internal/tours/tour"
	"github.com/taibuivan/trailhead/internal/users/auth"
)

// seedConfig is the subset of the API environment the seeder needs.
type seedConfig struct {
	DatabaseURL  string `env:"DATABASE_URL,required,notEmpty"`
	PasswordCost int    `env:"SEED_PASSWORD_COST" envDefault:"10"`
}

// devUser is a users.json record. Passwords are stored in clear in the data
// files and hashed on import.
type devUser struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Photo    string       `json:"photo"`
	Role     sec.UserRole `json:"role"`
	Password string       `json:"password"`
}

// Seeder writes the development data set.
type Seeder struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
	dir    string
	cost   int
}

func main() {
	importData := flag.Bool("import", false, "import the development data set")
	deleteData := flag.Bool("delete", false, "delete all tours, users, reviews and bookings")
	dir := flag.String("dir", filepath.Join("data", "dev"), "directory holding the JSON data files")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).
		With(slog.String(constants.FieldApp, "trailhead-seed"))

	if *importData == *deleteData {
		log.Error("seed_usage", slog.String("hint", "pass exactly one of -import or -delete"))
		os.Exit(2)
	}

	var cfg seedConfig
	if err := env.Parse(&cfg); err != nil {
		log.Error("seed_config_failed", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("seed_connect_failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	seeder := &Seeder{pool: pool, logger: log, dir: *dir, cost: cfg.PasswordCost}

	if *importData {
		err = seeder.Import(ctx)
	} else {
		err = seeder.Delete(ctx)
	}
	if err != nil {
		log.Error("seed_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

/*
Import loads users, tours and reviews and recomputes the tour ratings.

Description: Users go first so that guides and review authors exist. Tours
are prepared and validated the same way the API does on create.
*/
func (seeder *Seeder) Import(context context.Context) error {
	var users []devUser
	var tours []tour.Tour
	var reviews []review.Review

	if err := seeder.read("users.json", &users); err != nil {
		return err
	}
	if err := seeder.read("tours.json", &tours); err != nil {
		return err
	}
	if err := seeder.read("reviews.json", &reviews); err != nil {
		return err
	}

	err := postgres.InTx(context, seeder.pool, func(tx pgx.Tx) error {
		accounts := auth.NewUserRepository(tx)
		for _, record := range users {
			hash, err := sec.HashPassword(record.Password, seeder.cost)
			if err != nil {
				return err
			}
			user := &auth.User{
				ID:           record.ID,
				Name:         record.Name,
				Email:        record.Email,
				Photo:        record.Photo,
				Role:         record.Role,
				PasswordHash: hash,
			}
			if user.Photo == "" {
				user.Photo = auth.DefaultPhoto
			}
			if err := accounts.Create(context, user); err != nil {
				return fmt.Errorf("seed_user_%s_failed: %w", record.Email, err)
			}
		}

		catalogue := tour.NewCatalogue(tx)
		for index := range tours {
			entry := &tours[index]
			if err := entry.Prepare(); err != nil {
				return err
			}
			if err := entry.Validate(); err != nil {
				return fmt.Errorf("seed_tour_%q_invalid: %w", entry.Name, err)
			}
			if _, err := catalogue.Create(context, entry); err != nil {
				return fmt.Errorf("seed_tour_%q_failed: %w", entry.Name, err)
			}
		}

		store := resource.NewStore[review.Review](tx, schema.Reviews)
		rated := map[string]bool{}
		for index := range reviews {
			entry := &reviews[index]
			if err := entry.Prepare(); err != nil {
				return err
			}
			if _, err := store.Create(context, entry); err != nil {
				return fmt.Errorf("seed_review_%s_failed: %w", entry.ID, err)
			}
			rated[entry.Tour.ID] = true
		}

		for tourID := range rated {
			if err := review.Recalculate(context, tx, tourID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	seeder.logger.Info("seed_imported",
		slog.Int("users", len(users)),
		slog.Int("tours", len(tours)),
		slog.Int("reviews", len(reviews)),
	)
	return nil
}

// Delete removes every booking, review, tour and user.
func (seeder *Seeder) Delete(context context.Context) error {
	// Children before parents.
	tables := []string{"bookings", "reviews", "tours", "users"}

	return postgres.InTx(context, seeder.pool, func(tx pgx.Tx) error {
		for _, table := range tables {
			tag, err := tx.Exec(context, "DELETE FROM "+table)
			if err != nil {
				return fmt.Errorf("seed_delete_%s_failed: %w", table, err)
			}
			seeder.logger.Info("seed_deleted", slog.String("table", table), slog.Int64("rows", tag.RowsAffected()))
		}
		return nil
	})
}

// read decodes one JSON data file into target.
func (seeder *Seeder) read(name string, target any) error {
	raw, err := os.ReadFile(filepath.Join(seeder.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("seed_file_missing: %s", filepath.Join(seeder.dir, name))
		}
		return fmt.Errorf("seed_read_failed: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("seed_decode_%s_failed: %w", name, err)
	}
	return nil
}
