package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/backend"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/cache"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/config"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/dashboard"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/draft"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/events"
	h "github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/http"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/logger"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/masterdata"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/nota"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/ordering"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/payment"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/report"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/session"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/validation"
)

// stores groups everything that lives in redis, or in memory without it.
type stores struct {
	sessions  session.Store
	endpoints backend.EndpointStore
	cache     cache.MasterDataCache
	wizards   draft.Store[ordering.Wizard]
	payments  draft.Store[payment.State]
	close     func() error
}

func newStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.RedisAddr == "" {
		slog.Info("REDIS_ADDR not set, using in-memory stores")
		return &stores{
			sessions:  session.NewMemoryStore(),
			endpoints: backend.NewMemoryEndpointStore(cfg.BackendURL),
			cache:     cache.NewMemoryCache(cfg.MasterDataTTL),
			wizards:   draft.NewMemoryStore[ordering.Wizard](),
			payments:  draft.NewMemoryStore[payment.State](),
			close:     func() error { return nil },
		}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	endpoints := backend.NewRedisEndpointStore(client)
	if cfg.BackendURL != "" {
		if err := endpoints.Set(ctx, cfg.BackendURL); err != nil {
			slog.Warn("ignoring BACKEND_URL", "err", err)
		}
	}
	return &stores{
		sessions:  session.NewRedisStore(client, cfg.SessionTimeout),
		endpoints: endpoints,
		cache:     cache.NewRedisCache(client, cfg.MasterDataTTL),
		wizards:   draft.NewRedisStore[ordering.Wizard](client, "wizard", cfg.SessionTimeout),
		payments:  draft.NewRedisStore[payment.State](client, "payment", cfg.SessionTimeout),
		close:     client.Close,
	}, nil
}

func main() {
	cfg := config.Load()
	slog.SetDefault(logger.New(os.Stdout, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := newStores(ctx, cfg)
	if err != nil {
		slog.Error("failed to connect to redis", "addr", cfg.RedisAddr, "err", err)
		os.Exit(1)
	}
	defer st.close()

	client := backend.NewClient(st.endpoints, cfg.BackendTimeout)
	masterData := masterdata.NewService(st.endpoints, client, st.cache)
	sessions := session.NewManager(st.sessions, client, cfg.SessionTimeout)
	tokens := session.NewTokens(cfg.SessionSecret, cfg.TokenMaxAge)

	sweeper, err := session.NewSweeper(sessions, cfg.SessionCheckInterval)
	if err != nil {
		slog.Error("failed to schedule session sweep", "err", err)
		os.Exit(1)
	}
	sweeper.Start()

	var publisher events.Publisher = events.Nop{}
	outboxDone := make(chan struct{})
	if len(cfg.KafkaBrokers) > 0 {
		outbox := events.NewOutbox(events.NewKafkaWriter(cfg.KafkaTopic, cfg.KafkaBrokers...), 1024)
		publisher = outbox
		go func() {
			outbox.Run(ctx)
			close(outboxDone)
		}()
		slog.Info("publishing activity events", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		close(outboxDone)
	}

	handlers := h.Handlers{
		Auth:       h.NewAuthHandler(sessions, tokens, cfg.CookieSecure),
		Config:     h.NewConfigHandler(st.endpoints, client, sessions, masterData),
		Dashboard:  h.NewDashboardHandler(dashboard.NewService(client), masterData),
		Orders:     h.NewOrderHandler(st.wizards, masterData, ordering.NewSubmitter(client, publisher)),
		Payments:   h.NewPaymentHandler(st.payments, payment.NewSearcher(client, cfg.SearchDebounce), payment.NewService(client, publisher), cfg.MaxRequestBodySize),
		Validation: h.NewValidationHandler(validation.NewService(client, publisher)),
		Reports:    h.NewReportHandler(report.NewService(client)),
		Nota:       h.NewNotaHandler(nota.NewService(client)),
	}
	router := h.NewRouter(h.RouterConfig{
		RequestTimeout:     cfg.RequestTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		Sessions:           sessions,
		Tokens:             tokens,
		Endpoints:          st.endpoints,
	}, h.Routes(handlers))

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("portal starting", "app", config.AppName, "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "err", err)
	}
	sweeper.Stop()
	<-outboxDone

	slog.Info("server exited")
}
