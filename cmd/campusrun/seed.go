package main

import (
	"context"
	"fmt"

	"campusrun/internal/db"
	"campusrun/internal/seed"
	"campusrun/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with demo users and requests",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		userRepo := store.NewUserRepository(pool)
		requestRepo := store.NewRequestRepository(pool)
		archiveRepo := store.NewArchiveRepository(pool)

		logrus.Info("Seeding demo users...")
		if err := seed.SeedDemoUsers(ctx, userRepo); err != nil {
			return fmt.Errorf("failed to seed demo users: %w", err)
		}

		logrus.Info("Seeding demo requests...")
		if err := seed.SeedDemoRequests(ctx, requestRepo); err != nil {
			return fmt.Errorf("failed to seed demo requests: %w", err)
		}

		logrus.Info("Seeding demo archive...")
		if err := seed.SeedDemoArchive(ctx, archiveRepo); err != nil {
			return fmt.Errorf("failed to seed demo archive: %w", err)
		}

		logrus.Info("Seed data created successfully")

		return nil
	},
}
