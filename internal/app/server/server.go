package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peopleops/internal/domain/audit"
	"peopleops/internal/domain/auth"
	"peopleops/internal/domain/entitlement"
	"peopleops/internal/domain/notifications"
	"peopleops/internal/domain/offboarding"
	"peopleops/internal/domain/recruitment"
	"peopleops/internal/platform/config"
	"peopleops/internal/platform/db"
	"peopleops/internal/platform/email"
	"peopleops/internal/platform/jobs"
	"peopleops/internal/platform/metrics"
	audithandler "peopleops/internal/transport/http/handlers/audit"
	authhandler "peopleops/internal/transport/http/handlers/auth"
	leavehandler "peopleops/internal/transport/http/handlers/leave"
	notificationshandler "peopleops/internal/transport/http/handlers/notifications"
	offboardinghandler "peopleops/internal/transport/http/handlers/offboarding"
	payrollcfghandler "peopleops/internal/transport/http/handlers/payrollcfg"
	recruitmenthandler "peopleops/internal/transport/http/handlers/recruitment"
	"peopleops/internal/transport/http/api"
	"peopleops/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	Jobs    *jobs.Service
	Metrics *metrics.Collector

	cancel context.CancelFunc
}

// New connects, migrates, seeds and wires the router. Callers own the
// returned App and must Close it.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	collector := metrics.New()
	authStore := auth.NewStore(pool)
	auditSvc := audit.New(pool)
	notifySvc := notifications.New(&notifications.Store{DB: pool}, email.New(cfg), cfg.EmailFrom)
	entitlementSvc := entitlement.NewService(&entitlement.Store{DB: pool})
	offboardingSvc := offboarding.NewService(&offboarding.Store{DB: pool})
	recruitmentSvc := recruitment.NewService(pool)

	jobsCtx, cancel := context.WithCancel(context.Background())
	jobsSvc := jobs.New(pool, cfg, collector)
	jobsSvc.Start(jobsCtx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.With(middleware.RequirePermission(auth.PermSystemAdmin, authStore)).
			Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
				api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
			})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, cfg).RegisterRoutes(r)
		payrollcfghandler.NewHandler(pool, authStore, auditSvc, notifySvc).RegisterRoutes(r)
		leavehandler.NewHandler(pool, entitlementSvc, authStore, auditSvc, notifySvc, jobsSvc).RegisterRoutes(r)
		offboardinghandler.NewHandler(offboardingSvc, authStore, auditSvc, notifySvc, cfg.CertificateDir).RegisterRoutes(r)
		recruitmenthandler.NewHandler(recruitmentSvc, authStore, auditSvc, notifySvc).RegisterRoutes(r)
		notificationshandler.NewHandler(notifySvc).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc, authStore).RegisterRoutes(r)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusNotFound, "not_found", "resource not found", middleware.GetRequestID(r.Context()))
	})

	return &App{
		Config:  cfg,
		DB:      pool,
		Router:  router,
		Jobs:    jobsSvc,
		Metrics: collector,
		cancel:  cancel,
	}, nil
}

func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

func Run() {
	cfg := config.Load()

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	log.Printf("peopleops server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
