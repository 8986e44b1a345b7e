package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"

	"officehr/internal/domain/audit"
	"officehr/internal/domain/auth"
	"officehr/internal/domain/circular"
	"officehr/internal/domain/employee"
	"officehr/internal/domain/leave"
	"officehr/internal/domain/payroll"
	"officehr/internal/platform/config"
	"officehr/internal/platform/crypto"
	"officehr/internal/platform/db"
	"officehr/internal/platform/docstore"
	"officehr/internal/platform/email"
	"officehr/internal/platform/metrics"
	"officehr/internal/transport/http/api"
	audithandler "officehr/internal/transport/http/handlers/audit"
	authhandler "officehr/internal/transport/http/handlers/auth"
	circularhandler "officehr/internal/transport/http/handlers/circulars"
	employeehandler "officehr/internal/transport/http/handlers/employees"
	leavehandler "officehr/internal/transport/http/handlers/leaves"
	payrollhandler "officehr/internal/transport/http/handlers/payroll"
	"officehr/internal/transport/http/middleware"
)

// Stores is the persistence backend the services run on.
type Stores struct {
	Users     auth.StoreAPI
	Employees employee.StoreAPI
	Leaves    leave.StoreAPI
	Payrolls  payroll.StoreAPI
	Circulars circular.StoreAPI
	Audit     audit.StoreAPI
	Ping      func(ctx context.Context) error
	Close     func(ctx context.Context) error
}

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.Collector
	Router  http.Handler
	stores  Stores
}

// NewLogger returns a JSON logger whose keys follow the ECS schema used by
// the request logger.
func NewLogger(cfg config.Config) *slog.Logger {
	schema := httplog.SchemaECS.Concise(cfg.Environment != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: schema.ReplaceAttr,
	})).With(
		slog.String("app", "officehr"),
		slog.String("env", cfg.Environment),
	)
}

// New connects the configured store, applies migrations and the admin seed,
// and builds the router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := NewLogger(cfg)
	slog.SetDefault(logger)

	stores, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app, err := NewWithStores(cfg, logger, stores)
	if err != nil {
		_ = stores.Close(context.Background())
		return nil, err
	}
	users := auth.NewService(stores.Users, cfg.JWTSecret, cfg.TokenTTL)
	if err := db.Seed(ctx, users, cfg); err != nil {
		_ = stores.Close(context.Background())
		return nil, fmt.Errorf("seed failed: %w", err)
	}
	return app, nil
}

func openStores(ctx context.Context, cfg config.Config) (Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		client, err := docstore.Connect(ctx, cfg)
		if err != nil {
			return Stores{}, fmt.Errorf("mongo connect failed: %w", err)
		}
		if err := client.EnsureIndexes(ctx); err != nil {
			_ = client.Close(context.Background())
			return Stores{}, fmt.Errorf("mongo indexes failed: %w", err)
		}
		return Stores{
			Users:     auth.NewMongoStore(client.DB.Collection(docstore.CollectionUsers)),
			Employees: employee.NewMongoStore(client.DB.Collection(docstore.CollectionEmployees)),
			Leaves:    leave.NewMongoStore(client.DB.Collection(docstore.CollectionLeaves)),
			Payrolls:  payroll.NewMongoStore(client.DB.Collection(docstore.CollectionPayrolls)),
			Circulars: circular.NewMongoStore(client.DB.Collection(docstore.CollectionCirculars)),
			Audit:     audit.NewMongoStore(client.DB.Collection(docstore.CollectionAudit)),
			Ping:      client.Ping,
			Close:     client.Close,
		}, nil
	default:
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return Stores{}, fmt.Errorf("db connect failed: %w", err)
		}
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool); err != nil {
				pool.Close()
				return Stores{}, fmt.Errorf("migrations failed: %w", err)
			}
		}
		return Stores{
			Users:     auth.NewStore(pool),
			Employees: employee.NewStore(pool),
			Leaves:    leave.NewStore(pool),
			Payrolls:  payroll.NewStore(pool),
			Circulars: circular.NewStore(pool),
			Audit:     audit.NewStore(pool),
			Ping:      pool.Ping,
			Close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil
	}
}

// NewWithStores wires services and handlers over an already opened backend.
func NewWithStores(cfg config.Config, logger *slog.Logger, stores Stores) (*App, error) {
	collector := metrics.New()
	auditSvc := audit.New(stores.Audit)
	users := auth.NewService(stores.Users, cfg.JWTSecret, cfg.TokenTTL)
	employees := employee.NewService(stores.Employees)
	leaves := leave.NewService(stores.Leaves, employees)
	mailer := email.New(cfg)
	payrolls := payroll.NewService(stores.Payrolls, employees, leaves, mailer)
	circulars := circular.NewService(stores.Circulars, employees, mailer, cfg.OrgName)

	if cfg.ArchivePayslips {
		sealer, err := crypto.New(cfg.PayslipKey)
		if err != nil {
			return nil, err
		}
		payrolls.WithArchive(&payroll.Archiver{Dir: cfg.PayslipDir, Sealer: sealer})
	}

	payslip := payroll.PayslipOptions{OrgName: cfg.OrgName, OrgAddress: cfg.OrgAddress, CurrencyPrefix: cfg.CurrencyPrefix}
	var loginLimit func(http.Handler) http.Handler
	if cfg.LoginRateLimit > 0 {
		loginLimit = middleware.RateLimit(cfg.LoginRateLimit, cfg.LoginRateWindow, middleware.EmailOrIPKey)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestLogger(logger, cfg.SlogLevel()))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Total-Count", "Content-Disposition"},
		MaxAge:           300,
	}))
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusNotFound, "not_found", "route not found", middleware.GetRequestID(r.Context()))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", middleware.GetRequestID(r.Context()))
	})

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if stores.Ping != nil {
			if err := stores.Ping(ctx); err != nil {
				http.Error(w, "store not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(users, auditSvc, cfg.Environment == "production", loginLimit).RegisterRoutes(r)
		employeehandler.NewHandler(employees, auditSvc).RegisterRoutes(r)
		leavehandler.NewHandler(leaves, auditSvc).RegisterRoutes(r)
		payrollhandler.NewHandler(payrolls, auditSvc, collector, payslip, cfg.EmailFrom).RegisterRoutes(r)
		circularhandler.NewHandler(circulars, auditSvc, collector, cfg.EmailFrom).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc).RegisterRoutes(r)
	})

	return &App{Config: cfg, Logger: logger, Metrics: collector, Router: router, stores: stores}, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("officehr server listening", "addr", a.Config.Addr, "store", a.Config.StoreDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	a.Logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (a *App) Close(ctx context.Context) error {
	if a.stores.Close == nil {
		return nil
	}
	return a.stores.Close(ctx)
}
