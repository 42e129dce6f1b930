package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/audit"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/availability"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/booking"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/config"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/logging"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/redis"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/rules"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.LogLevel, cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	store, closeStore, err := InitStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var rdb *goredis.Client
	if cfg.ReminderMode == "redis" || cfg.NotifyStream {
		rdb, err = redis.NewClient(ctx, cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer rdb.Close()
	}

	transport, err := InitTransport(cfg)
	if err != nil {
		return err
	}
	notifier, router, err := InitNotifier(cfg, rdb, transport)
	if err != nil {
		return err
	}
	reminders, runReminders := InitReminders(cfg, rdb, notifier)

	recorder := audit.NewStoreRecorder(store)
	svc := Services{
		Store:        store,
		Rules:        rules.NewService(store, recorder),
		Availability: availability.NewService(store, cfg.Location, cfg.SlotIncrement),
		Bookings: booking.NewService(store, notifier, reminders, recorder,
			booking.WithReminderLead(cfg.ReminderLead)),
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if err := RegisterRoutes(r, cfg.JWTSecret, svc); err != nil {
		return err
	}

	server := &http.Server{Addr: cfg.ServerAddress, Handler: r}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("address", cfg.ServerAddress).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return runReminders(ctx)
	})
	if router != nil {
		g.Go(func() error {
			return router.Run(ctx)
		})
	}
	return g.Wait()
}
