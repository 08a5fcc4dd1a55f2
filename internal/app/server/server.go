package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crewpay/internal/domain/audit"
	"crewpay/internal/domain/auth"
	"crewpay/internal/domain/earnings"
	"crewpay/internal/domain/jobs"
	"crewpay/internal/domain/payouts"
	"crewpay/internal/domain/roster"
	"crewpay/internal/domain/sales"
	"crewpay/internal/platform/config"
	"crewpay/internal/platform/db"
	audithandler "crewpay/internal/transport/http/handlers/audit"
	authhandler "crewpay/internal/transport/http/handlers/auth"
	jobshandler "crewpay/internal/transport/http/handlers/jobs"
	moneyhandler "crewpay/internal/transport/http/handlers/money"
	payoutshandler "crewpay/internal/transport/http/handlers/payouts"
	reportshandler "crewpay/internal/transport/http/handlers/reports"
	rosterhandler "crewpay/internal/transport/http/handlers/roster"
	saleshandler "crewpay/internal/transport/http/handlers/sales"
	"crewpay/internal/transport/http/middleware"
	"crewpay/internal/transport/http/shared"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			pool.Close()
			return nil, err
		}
	}

	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	payoutsStore := payouts.NewStore(pool)
	if err := seedPayPeriod(ctx, payoutsStore, cfg); err != nil {
		pool.Close()
		return nil, err
	}

	app := &App{Config: cfg, DB: pool}
	app.Router = app.buildRouter()
	return app, nil
}

func (a *App) Close() {
	a.DB.Close()
}

func (a *App) buildRouter() http.Handler {
	cfg := a.Config
	pool := a.DB

	auditor := audit.New(pool)
	rosterStore := roster.NewStore(pool)
	salesStore := sales.NewStore(pool)
	jobsStore := jobs.NewStore(pool)
	payoutsService := payouts.NewService(payouts.NewStore(pool))
	authStore := auth.NewStore(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
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

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, cfg.JWTSecret).RegisterRoutes(r)
		rosterhandler.NewHandler(rosterStore, auditor).RegisterRoutes(r)
		saleshandler.NewHandler(salesStore, auditor).RegisterRoutes(r)
		jobshandler.NewHandler(jobsStore, salesStore, auditor).RegisterRoutes(r)
		moneyhandler.NewHandler(rosterStore, salesStore, jobsStore, payoutsService, auditor).RegisterRoutes(r)
		payoutshandler.NewHandler(payoutsService, auditor).RegisterRoutes(r)
		reportshandler.NewHandler(rosterStore, salesStore, jobsStore, payoutsService).RegisterRoutes(r)
		audithandler.NewHandler(auditor).RegisterRoutes(r)
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	return router
}

func Run() {
	cfg := config.Load()

	ctx := context.Background()
	app, err := New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	log.Printf("crewpay server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// seedPayPeriod makes sure the singleton anchor row exists before the first
// request. PAY_PERIOD_SEED_START backdates it for imported books.
func seedPayPeriod(ctx context.Context, store *payouts.Store, cfg config.Config) error {
	start := earnings.DayStart(time.Now())
	if cfg.PayPeriodSeedStart != "" {
		parsed, err := shared.ParseDate(cfg.PayPeriodSeedStart)
		if err != nil {
			return err
		}
		start = earnings.DayStart(parsed)
	}
	return store.SeedPeriod(ctx, start)
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
