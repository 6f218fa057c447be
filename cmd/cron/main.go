package main

import (
	"context"
	"log"
	"os"

	"greensteps/internal/container"
	"greensteps/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const DEFAULT_DAILY_TIP_SCHEDULE = "0 9 * * *"

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
		Name: "cronjob",
		Commands: []*cli.Command{
			commandCronjob(injector),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandCronjob(injector *do.Injector) *cli.Command {
	return &cli.Command{
		Name: "cron",
		Action: func(c *cli.Context) error {
			logger, err := do.Invoke[*zap.Logger](injector)
			if err != nil {
				return err
			}

			serviceChallenge, err := do.Invoke[*services.ServiceChallenge](injector)
			if err != nil {
				return err
			}

			serviceLeaderboard, err := do.Invoke[*services.ServiceLeaderboard](injector)
			if err != nil {
				return err
			}

			serviceTips, err := do.Invoke[*services.ServiceTips](injector)
			if err != nil {
				return err
			}

			tipSchedule := os.Getenv("CRONJOB_TIME_DAILY_TIP")
			if tipSchedule == "" {
				tipSchedule = DEFAULT_DAILY_TIP_SCHEDULE
			}

			cronRunner := cron.New()

			if _, err := cronRunner.AddFunc("*/10 * * * *", func() {
				if err := serviceChallenge.ExpireEnded(context.Background()); err != nil {
					logger.Error("challenge expiry sweep failed", zap.Error(err))
				}
			}); err != nil {
				return err
			}

			if _, err := cronRunner.AddFunc("@hourly", func() {
				if err := serviceLeaderboard.Rebuild(context.Background()); err != nil {
					logger.Error("leaderboard rebuild failed", zap.Error(err))
				}
			}); err != nil {
				return err
			}

			if _, err := cronRunner.AddFunc(tipSchedule, func() {
				if err := serviceTips.BroadcastDailyTip(context.Background()); err != nil {
					logger.Error("daily tip broadcast failed", zap.Error(err))
				}
			}); err != nil {
				return err
			}

			// populate the boards on boot so reads don't wait an hour
			if err := serviceLeaderboard.Rebuild(context.Background()); err != nil {
				logger.Error("initial leaderboard rebuild failed", zap.Error(err))
			}

			logger.Info("cron started", zap.String("daily_tip", tipSchedule))
			cronRunner.Run()
			return nil
		},
	}
}
