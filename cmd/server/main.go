package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"registrar/internal/authtoken"
	"registrar/internal/platform/config"
	"registrar/internal/platform/httpserver"
	"registrar/internal/platform/logger"
	platformredis "registrar/internal/platform/redis"
	"registrar/internal/registration/handler"
	regmetrics "registrar/internal/registration/metrics"
	"registrar/internal/registration/notifier"
	"registrar/internal/registration/service"
	configstore "registrar/internal/registration/store/config"
	regstore "registrar/internal/registration/store/registration"
	httptransport "registrar/internal/transport/http"
	id "registrar/pkg/domain"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the registration service.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registrations, configs, cleanup, err := buildStores(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize stores", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	events, err := buildNotifier(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize notifier", "error", err)
		os.Exit(1)
	}

	svc := service.New(registrations, configs,
		service.WithLogger(log),
		service.WithNotifier(events),
		service.WithMetrics(regmetrics.New()),
	)

	if cfg.AdminAccount != "" {
		admin, err := id.ParseAccountID(cfg.AdminAccount)
		if err != nil {
			log.Error("invalid REGISTRAR_ADMIN_ACCOUNT", "error", err)
			os.Exit(1)
		}
		if err := svc.Bootstrap(ctx, admin, cfg.Deadline, cfg.DeadlineEnforced); err != nil {
			log.Error("failed to bootstrap configuration", "error", err)
			os.Exit(1)
		}
	}

	tokens := authtoken.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	router := httptransport.NewRouter(handler.New(svc, log, tokens))
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting registrar", "addr", cfg.Addr, "store", cfg.StoreBackend)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		// Drain buffered events after the server has stopped accepting work.
		return events.Close()
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// buildStores constructs the configured persistence backend. The returned
// cleanup releases the backing connection, if any.
func buildStores(ctx context.Context, cfg config.Config) (service.RegistrationStore, service.ConfigStore, func(), error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return regstore.NewPostgres(db), configstore.NewPostgres(db), func() { db.Close() }, nil
	case config.StoreRedis:
		client, err := platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		return regstore.NewRedis(client.Client), configstore.NewRedis(client.Client), func() { client.Close() }, nil
	default:
		return regstore.NewInMemory(), configstore.NewInMemory(), func() {}, nil
	}
}

// buildNotifier selects Kafka when brokers are configured and falls back to
// the structured log otherwise.
func buildNotifier(ctx context.Context, cfg config.Config, log *slog.Logger) (*notifier.Publisher, error) {
	var sink notifier.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := notifier.NewKafka(ctx, cfg.KafkaBrokers, cfg.KafkaTopic,
			notifier.WithTopicBootstrap(1, 1))
		if err != nil {
			return nil, err
		}
		sink = kafka
	} else {
		sink = notifier.NewLogging(log)
	}

	opts := []notifier.PublisherOption{notifier.WithPublisherLogger(log)}
	if cfg.NotifierBuffer > 0 {
		opts = append(opts, notifier.WithAsyncBuffer(cfg.NotifierBuffer))
	}
	return notifier.NewPublisher(sink, opts...), nil
}
