package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-storefront/internal/common"
	"github.com/noah-isme/backend-storefront/internal/config"
	"github.com/noah-isme/backend-storefront/internal/obs"
	"github.com/noah-isme/backend-storefront/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("component", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     redisOpts.Addr,
			Password: redisOpts.Password,
			DB:       redisOpts.DB,
		},
		asynq.Config{
			Concurrency: cfg.AsynqConcurrency,
			Queues:      map[string]int{tasks.QueueDefault: 1},
			Logger:      asynqLogger{logger},
		},
	)

	handler := tasks.EmailHandler{
		// Swap for a real transport once the mail provider is chosen.
		Sender: common.NopEmailSender{},
		Logger: logger,
	}

	logger.Info().Int("concurrency", cfg.AsynqConcurrency).Msg("worker starting")
	if err := srv.Start(handler.Mux()); err != nil {
		logger.Fatal().Err(err).Msg("start worker")
	}

	<-ctx.Done()
	srv.Shutdown()
	logger.Info().Msg("worker shutdown complete")
}

// asynqLogger adapts zerolog to the asynq.Logger interface.
type asynqLogger struct {
	logger zerolog.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.logger.Debug().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.logger.Info().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.logger.Warn().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.logger.Error().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.logger.Fatal().Msg(fmt.Sprint(args...)) }
