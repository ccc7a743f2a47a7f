package main

import (
	"os"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/vzorr/musta-website/services"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	var ctx *context.Context
	if os.Getenv("DB_DRIVER") == "postgres" {
		ctx, err = context.NewCtx(
			&services.PostgresService{},
			&services.RedisService{},
			&services.MinIOService{},
			&services.AbuseService{},
			&services.RateLimitService{},
			&services.EmailService{},
			&services.LookupService{},
			&services.SubmissionService{},
			&services.GdprService{},
			&services.MonitoringService{},

			&services.HttpService{},
		)
	} else {
		ctx, err = context.NewCtx(
			&services.SqliteService{},
			&services.RedisService{},
			&services.MinIOService{},
			&services.AbuseService{},
			&services.RateLimitService{},
			&services.EmailService{},
			&services.LookupService{},
			&services.SubmissionService{},
			&services.GdprService{},
			&services.MonitoringService{},

			&services.HttpService{},
		)
	}
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
