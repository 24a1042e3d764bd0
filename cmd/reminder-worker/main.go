package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/appointment"
	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/config"
	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/db"
	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/notification"
	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/officer"
	redisclient "github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/redis"
	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/reminder"
)

const sweepLockKey = "sweep:reminders"

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "reminder-worker").Logger()
	log.Info().Msg("reminder-worker starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}

	log.Info().
		Str("env", cfg.Env).
		Dur("sweep_interval", cfg.SweepInterval).
		Dur("dispatch_interval", cfg.DispatchInterval).
		Msg("running reminder worker")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN, cfg.PgMaxConns)
	cancelPg()
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	log.Info().Msg("connected to Postgres")

	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisPoolSize)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("error closing redis")
		}
	}()
	log.Info().Msg("connected to Redis")

	apptRepo := appointment.NewPgRepository(pgPool)
	officerRepo := officer.NewPgRepository(pgPool)
	store := notification.NewPgStore(pgPool)

	sweeper := reminder.NewSweeper(apptRepo, officerRepo, store, cfg.OverdueGrace, log)
	dispatcher := notification.NewDispatcher(store, notification.NewLogSenders(log), log)

	// The sweep guard lock lives as long as a run may take; overlapping runs
	// (slow DB, long pass) are skipped, not queued.
	sweepLocker := redisclient.NewRedisLocker(rdb, cfg.SweepInterval)

	go dispatchLoop(rootCtx, dispatcher, cfg.DispatchInterval, log)

	runSweep(rootCtx, sweeper, sweepLocker, log)

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Info().Msg("shutdown signal received, stopping reminder worker")
			return
		case <-ticker.C:
			runSweep(rootCtx, sweeper, sweepLocker, log)
		}
	}
}

func runSweep(ctx context.Context, sweeper *reminder.Sweeper, locker redisclient.Locker, log zerolog.Logger) {
	start := time.Now()

	err := locker.WithLock(ctx, sweepLockKey, func(lockCtx context.Context) error {
		return sweeper.Run(lockCtx)
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			log.Warn().Msg("previous sweep still running, skipping this tick")
			return
		}
		log.Error().Err(err).Msg("sweep run error")
		return
	}

	log.Info().Dur("took", time.Since(start)).Msg("sweep run complete")
}

func dispatchLoop(ctx context.Context, dispatcher *notification.Dispatcher, interval time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
			if err := dispatcher.DispatchDue(runCtx); err != nil {
				log.Error().Err(err).Msg("dispatch run error")
			}
			cancel()
		}
	}
}
