package main

import (
	"context"
	"log"
	"os"

	"greensteps/internal/container"
	"greensteps/internal/datastore"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	vs, err := env.EnvsRequired(
		"JWT_SECRET",
		"DB_DSN",
	)
	if err != nil {
		log.Fatal(err)
	}

	injector := container.New(vs)

	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "create missing tables and indexes",
				Action: func(c *cli.Context) error {
					db, err := do.Invoke[*bun.DB](injector)
					if err != nil {
						return err
					}

					return migrate(c.Context, db)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func migrate(ctx context.Context, db *bun.DB) error {
	steps := []func(context.Context, *bun.DB) error{
		datastore.CreateTableUser,
		datastore.CreateTableAction,
		datastore.CreateTableActionLog,
		datastore.CreateTablePointTransaction,
		datastore.CreateTableChallenge,
		datastore.CreateTableTeam,
		datastore.CreateTableNotification,
		datastore.CreateTableUserBadge,
	}

	for _, step := range steps {
		if err := step(ctx, db); err != nil {
			return err
		}
	}

	log.Println("migration complete")
	return nil
}
