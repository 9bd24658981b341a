package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/api"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/logging"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()

	if prefix := config.GetString(c, "SSM_PARAMETER_PATH", ""); prefix != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := config.LoadSSMParameters(ctx, prefix, c)
		cancel()
		if err != nil {
			fmt.Printf("Error loading SSM parameters: %s\n", errs.FullError(err))
			os.Exit(1)
		}
	}

	_, logCloser := logging.Setup(c)
	defer logCloser.Close()

	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	currentDB := database.New(db)

	// Test database connection
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	err = currentDB.Ping(pingCtx)
	cancelPing()
	if err != nil {
		log.Fatal().Err(err).Msg("error testing database connection")
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("generating models and query helpers")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("model generation failed")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("generating column mismatch report")
		report, err := models.ColumnMismatchReport(db)
		if err != nil {
			log.Fatal().Err(err).Msg("column report failed")
		}
		report.Log()
		return
	}

	if config.GetBool(c, "AUTO_MIGRATE", false) {
		if err := currentDB.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("auto migration failed")
		}
		log.Info().Msg("database migrated")
	}

	if config.GetBool(c, "SEED_DATABASE", false) {
		if err := currentDB.Seed(context.Background(), database.DefaultSeedOptions()); err != nil {
			log.Fatal().Err(err).Msg("seeding failed")
		}
		log.Info().Msg("database seeded")
		return
	}

	if config.GetBool(c, "BACKUP_MEDIA", false) {
		runMediaBackup(c, currentDB)
		return
	}

	opts := []api.RouterOption{api.WithConfig(c)}

	if notifier := services.NewContactNotifier(c); notifier.Enabled() {
		opts = append(opts, api.WithNotifier(notifier))
	}

	if redisURL := config.GetString(c, "REDIS_URL", ""); redisURL != "" {
		redisOpts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		rdb := redis.NewClient(redisOpts)
		defer rdb.Close()
		limit := config.GetInt(c, "RATE_LIMIT_PER_MINUTE", 5)
		limiter := api.NewRateLimiter(rdb, limit, time.Minute)
		if err := limiter.TrustProxies(config.GetList(c, "TRUSTED_PROXIES")...); err != nil {
			log.Fatal().Str("error", errs.FullError(err)).Msg("invalid TRUSTED_PROXIES")
		}
		opts = append(opts, api.WithRateLimiter(limiter))
		log.Info().Int("perMinute", limit).Msg("rate limiting enabled")
	} else {
		log.Warn().Msg("REDIS_URL is not set, comment and contact endpoints are not rate limited")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Err(fatalErr).Msg("closing server")

	server.ShutdownGracefully(30 * time.Second)
}

func runMediaBackup(c map[string]string, db database.Database) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(config.GetInt(c, "MEDIA_BACKUP_TIMEOUT_MINUTES", 30))*time.Minute)
	defer cancel()

	backup, err := services.NewMediaBackup(ctx, c)
	if err != nil {
		log.Fatal().Str("error", errs.FullError(err)).Msg("media backup is not configured")
	}
	count, err := backup.Run(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Int("uploaded", count).Msg("media backup failed")
	}
	log.Info().Int("uploaded", count).Msg("media backup complete")
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
