package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/therapyai/caseload/docs"
	"github.com/therapyai/caseload/internal/api"
	"github.com/therapyai/caseload/internal/api/metrics"
	"github.com/therapyai/caseload/internal/core/assistant"
	"github.com/therapyai/caseload/internal/core/domain"
	"github.com/therapyai/caseload/internal/core/ports"
	"github.com/therapyai/caseload/internal/core/service"
	"github.com/therapyai/caseload/internal/infrastructure/config"
	"github.com/therapyai/caseload/internal/infrastructure/db"
	"github.com/therapyai/caseload/internal/infrastructure/queue"
	"github.com/therapyai/caseload/internal/infrastructure/realtime"
	"github.com/therapyai/caseload/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	store ports.Store

	tables     *service.Tables
	guard      *service.Guard
	seeder     *service.Seeder
	auth       *service.AuthService
	users      *service.UserService
	therapists *service.TherapistService
	children   *service.ChildService
	chats      *service.ChatService
	hub        *realtime.Hub
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logger.Get()

	store, err := db.Open(ctx, cfg.Store, logger.Component("store"))
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	store = db.NewObserved(store, metrics.ObserveStore, logger.Component("store"))

	tables := service.NewTables(store, cfg.Store.KeyPrefix)
	guard := service.NewGuard(tables)
	responder := assistant.NewResponder(nil)
	hub := realtime.NewHub(func(delta int) { metrics.ChatSubscribers.Add(float64(delta)) }, logger.Component("realtime"))

	return &app{
		cfg:        cfg,
		log:        log,
		store:      store,
		tables:     tables,
		guard:      guard,
		seeder:     service.NewSeeder(tables, logger.Component("seed")),
		auth:       service.NewAuthService(tables, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth")),
		users:      service.NewUserService(tables, logger.Component("users")),
		therapists: service.NewTherapistService(tables, logger.Component("therapists")),
		children:   service.NewChildService(tables, guard, responder, logger.Component("children")),
		chats:      service.NewChatService(tables, guard, responder, countingPublisher{next: hub}, logger.Component("chat")),
		hub:        hub,
	}, nil
}

// Serve seeds the store if configured, starts the reply workers and runs the
// HTTP server until ctx is cancelled.
func (a *app) Serve(ctx context.Context) error {
	if a.cfg.SeedOnStart {
		if _, err := a.seeder.SeedIfEmpty(ctx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	dispatcher := queue.NewDispatcher(a.cfg.Assistant.Workers, a.cfg.Assistant.ReplyDelay, a.chats, queue.Hooks{
		QueueDepth: func(workerID string, depth int) {
			metrics.ReplyQueueDepth.WithLabelValues(workerID).Set(float64(depth))
		},
		Processed: metrics.ObserveReply,
	}, logger.Component("dispatcher"))
	dispatcher.Start(ctx)
	a.chats.SetScheduler(dispatcher)

	router := api.NewRouter(api.Deps{
		Log:          logger.Component("http"),
		JWTSecret:    a.cfg.JWTSecret,
		Store:        a.store,
		StoreBackend: a.cfg.Store.Backend,
		Guard:        a.guard,
		Auth:         a.auth,
		Users:        a.users,
		Therapists:   a.therapists,
		Children:     a.children,
		Chats:        a.chats,
		Feed:         a.hub,
	})

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	a.log.Info().
		Str("addr", srv.Addr).
		Str("env", a.cfg.Env).
		Str("store", a.cfg.Store.Backend).
		Int("workers", a.cfg.Assistant.Workers).
		Msg("server listening")
	return runServer(ctx, srv)
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn().Err(err).Msg("closing store")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// countingPublisher records appended messages before fanning them out.
type countingPublisher struct {
	next ports.ChatPublisher
}

func (p countingPublisher) Publish(childID string, msg domain.ChatMessage) {
	metrics.ChatMessagesTotal.WithLabelValues(string(msg.From)).Inc()
	p.next.Publish(childID, msg)
}
