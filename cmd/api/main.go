package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/tripventure/flightdraft/internal/api"
	"github.com/tripventure/flightdraft/internal/auth"
	"github.com/tripventure/flightdraft/internal/ports"
	"github.com/tripventure/flightdraft/internal/repository"
	"github.com/tripventure/flightdraft/internal/service"
	"github.com/tripventure/flightdraft/internal/store"
	"github.com/tripventure/flightdraft/internal/utils"
	"github.com/tripventure/flightdraft/pkg/catalog"
	"github.com/tripventure/flightdraft/pkg/config"
	"github.com/tripventure/flightdraft/pkg/health"
	"github.com/tripventure/flightdraft/pkg/notify"
	"github.com/tripventure/flightdraft/pkg/orderapi"
)

type App struct {
	config    *config.Config
	server    *http.Server
	db        *pgxpool.Pool
	redis     *redis.Client
	publisher *notify.Publisher
}

func NewApp(cfg *config.Config) *App {
	return &App{
		config: cfg,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	draftStore, err := a.setupStore(ctx)
	if err != nil {
		return fmt.Errorf("store setup failed: %w", err)
	}

	services := a.setupServices(draftStore)
	router := a.setupRouter(services)

	a.server = &http.Server{
		Addr:         a.config.Server.Address,
		Handler:      router,
		WriteTimeout: a.config.Server.WriteTimeout,
		ReadTimeout:  a.config.Server.ReadTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}

	return nil
}

func (a *App) setupStore(ctx context.Context) (ports.DraftStore, error) {
	switch a.config.Store.Backend {
	case "postgres":
		poolConfig, err := pgxpool.ParseConfig(a.config.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to parse database config: %w", err)
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		a.db = pool
		return repository.NewDraftRepository(pool), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     a.config.Redis.Addr,
			Password: a.config.Redis.Password,
			DB:       a.config.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		a.redis = client
		return store.NewRedisStore(client, a.config.Store.DraftTTL), nil
	default:
		return store.NewMemoryStore(), nil
	}
}

type Services struct {
	DraftService      ports.DraftService
	SubmissionService ports.SubmissionService
	TokenVerifier     ports.TokenVerifier
}

func (a *App) setupServices(draftStore ports.DraftStore) Services {
	catalogClient := catalog.NewClient(
		catalog.WithBaseURL(a.config.Catalog.BaseURL),
	)
	orderClient := orderapi.NewClient(
		orderapi.WithBaseURL(a.config.OrderAPI.BaseURL),
	)
	verifier := auth.NewVerifier(a.config.Auth.JWTSecret)

	var events ports.EventPublisher = notify.NopPublisher{}
	if a.config.AMQP.URL != "" {
		publisher, err := notify.NewPublisher(a.config.AMQP.URL)
		if err != nil {
			log.Printf("event publisher disabled: %v", err)
		} else {
			a.publisher = publisher
			events = publisher
		}
	}

	drafts := service.NewDraftService(draftStore, catalogClient)

	return Services{
		DraftService:      drafts,
		SubmissionService: service.NewSubmissionService(drafts, draftStore, orderClient, verifier, events),
		TokenVerifier:     verifier,
	}
}

func (a *App) setupRouter(services Services) http.Handler {
	router := http.NewServeMux()
	const versionPrefix = "/v1"

	drafts := services.DraftService
	verifier := services.TokenVerifier

	jsonOnly := func(next http.HandlerFunc) http.HandlerFunc {
		return utils.AllowedContentTypes(next, "application/json")
	}

	router.HandleFunc("GET "+versionPrefix+"/health", health.HealthGet())

	router.HandleFunc("GET "+versionPrefix+"/draft", api.DraftHandler(drafts, verifier))
	router.HandleFunc("DELETE "+versionPrefix+"/draft", api.DraftHandler(drafts, verifier))
	router.HandleFunc("PUT "+versionPrefix+"/draft/trip", jsonOnly(api.TripHandler(drafts, verifier)))
	router.HandleFunc("POST "+versionPrefix+"/draft/legs/{direction}/fare", jsonOnly(api.FareHandler(drafts, verifier)))
	router.HandleFunc("PUT "+versionPrefix+"/draft/legs/{direction}/extras", jsonOnly(api.ExtrasHandler(drafts, verifier)))
	router.HandleFunc("POST "+versionPrefix+"/draft/legs/{direction}/seats/toggle", jsonOnly(api.SeatToggleHandler(drafts, verifier)))
	router.HandleFunc("DELETE "+versionPrefix+"/draft/legs/{direction}/seats", api.SeatsClearHandler(drafts, verifier))
	router.HandleFunc("PUT "+versionPrefix+"/draft/passenger", jsonOnly(api.PassengerHandler(drafts, verifier)))
	router.HandleFunc("PUT "+versionPrefix+"/draft/contact", jsonOnly(api.ContactHandler(drafts, verifier)))
	router.HandleFunc("GET "+versionPrefix+"/draft/quote", api.QuoteHandler(drafts, verifier))
	router.HandleFunc("POST "+versionPrefix+"/draft/submit", api.SubmitHandler(services.SubmissionService, verifier))

	return router
}

func (a *App) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Printf("Starting server on %s (draft store: %s)", a.server.Addr, a.config.Store.Backend)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-shutdown:
		log.Println("Starting graceful shutdown")
		return a.Shutdown(ctx)
	case <-ctx.Done():
		return a.Shutdown(ctx)
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
	if a.publisher != nil {
		a.publisher.Close()
	}

	return nil
}

func main() {
	ctx := context.Background()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app := NewApp(cfg)
	if err := app.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
