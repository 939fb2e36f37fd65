package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"connectrpc.com/connect"
	boardv1 "github.com/KrishPatel1605/AI-magine-Board-Web/pkg/board/v1"
	"github.com/KrishPatel1605/AI-magine-Board-Web/pkg/board/v1/boardv1connect"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/board"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/config"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/entitlement"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/handler"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/identity"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/logging"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/metrics"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/model"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/payment"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/repository"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/sessionstore"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/solver"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/validator"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: logging.Format(cfg.LogFormat),
		Output: os.Stdout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := pgxpool.New(ctx, cfg.DBURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Ping database to verify connection
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("connected to database")

	if err := runMigrations(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Outbound calls are bounded by the request context only.
	httpClient := &http.Client{}

	identityClient := identity.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, httpClient, logger)
	entitlementRepo := repository.NewEntitlementRepository(pool)
	checker := entitlement.NewChecker(entitlementRepo, time.Now, logger).
		WithObserver(func(plan model.Plan, queryFailed bool) {
			m.PlanChecks.WithLabelValues(string(plan), strconv.FormatBool(queryFailed)).Inc()
		})
	gateway := payment.NewRazorpayGateway(payment.DefaultRazorpayURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, httpClient)
	initiator := payment.NewInitiator(gateway, entitlementRepo, payment.DefaultProduct, time.Now, logger)
	gemini := solver.NewGeminiSolver(solver.DefaultBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, httpClient)

	sessions := sessionstore.NewSessionManager(cfg.TabIdleTimeout)

	schemaSet, err := boardv1.SchemaSet()
	if err != nil {
		return fmt.Errorf("failed to load API schema: %w", err)
	}
	requestValidator, err := validator.NewSchemaValidator(schemaSet, boardv1.SchemaPath)
	if err != nil {
		return fmt.Errorf("failed to create request validator: %w", err)
	}

	controller := board.NewController(identityClient, sessionstore.New(sessions), checker, initiator, gemini, board.Options{
		RequirePremium:   cfg.RequirePremium,
		OAuthRedirectURL: cfg.PublicURL + "/",
		CanvasWidth:      cfg.CanvasWidth,
		CanvasHeight:     cfg.CanvasHeight,
		Logger:           logger,
		Metrics:          m,
	})
	defer controller.Close()

	janitor := board.NewJanitor(board.JanitorConfig{
		Interval:    cfg.JanitorInterval,
		IdleTimeout: cfg.TabIdleTimeout,
	}, controller)
	janitor.Start(ctx)
	defer janitor.Stop()

	// Create HTTP server with Connect
	mux := http.NewServeMux()
	interceptors := connect.WithInterceptors(
		handler.NewLoggingInterceptor(logger.With("component", "rpc")),
		handler.NewTabInterceptor(sessions),
		handler.NewValidationInterceptor(requestValidator),
	)
	path, connectHandler := boardv1connect.NewBoardServiceHandler(handler.NewBoardHandler(controller), interceptors)
	mux.Handle(path, connectHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Add health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("board service listening", "addr", addr, "public_url", cfg.PublicURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	if _, err := pool.Exec(ctx, repository.Migration); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}

	logger.Info("database migrations completed successfully")
	return nil
}
