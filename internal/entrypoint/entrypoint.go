package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/locallibrary/internal/audit"
	"github.com/mrlokans/locallibrary/internal/config"
	"github.com/mrlokans/locallibrary/internal/database"
	auditrepo "github.com/mrlokans/locallibrary/internal/database/audit"
	"github.com/mrlokans/locallibrary/internal/database/bookinstances"
	"github.com/mrlokans/locallibrary/internal/database/books"
	"github.com/mrlokans/locallibrary/internal/database/genres"
	http_controllers "github.com/mrlokans/locallibrary/internal/http"
	"github.com/mrlokans/locallibrary/internal/middleware"
	"github.com/mrlokans/locallibrary/internal/scheduler"
	"github.com/mrlokans/locallibrary/internal/tasks"
)

const (
	integrityJobName = "catalog_integrity_check"

	// Audit events are purged daily at 03:30.
	auditCleanupSchedule = "30 3 * * *"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router http.Handler, cfg *config.Config, log *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		log.Info("shutting down server", zap.Stringer("signal", sig), zap.Duration("timeout", timeout))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Background work stops before the server so queued tasks finish first.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("server exiting")
	return nil
}

// OpenDatabase opens and migrates the catalog database.
func OpenDatabase(cfg *config.Config) (*database.Database, error) {
	return database.NewDatabase(cfg.Database.Path, database.WithLogLevel(cfg.Database.LogLevel))
}

// Run wires the catalog site together and serves it until a shutdown signal.
func Run(cfg *config.Config, log *zap.Logger, version string) error {
	log.Info("starting Local Library", zap.String("version", version))

	db, err := OpenDatabase(cfg)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()

	routerCfg := http_controllers.RouterConfig{
		Logger:        log,
		Database:      db,
		Genres:        genres.NewRepository(db.DB),
		BookInstances: bookinstances.NewRepository(db.DB),
		Books:         books.NewRepository(db.DB, books.ParseLocale(cfg.Catalog.CollationLocale)),
		SecureCookies: cfg.Sessions.SecureCookies,
		TemplatesPath: cfg.UI.TemplatesPath,
		StaticPath:    cfg.UI.StaticPath,
		Version:       version,
	}

	var auditService *audit.Service
	if cfg.Audit.Enabled {
		auditService = audit.NewService(auditrepo.NewRepository(db.DB), log)
		routerCfg.Audit = auditService
	}

	if cfg.Sessions.Enabled {
		sqlDB, err := db.DB.DB()
		if err != nil {
			return fmt.Errorf("get SQL DB for sessions: %w", err)
		}
		routerCfg.SessionManager, err = middleware.NewSessionManager(sqlDB, cfg.Sessions)
		if err != nil {
			return fmt.Errorf("initialize session manager: %w", err)
		}
	}

	if cfg.CSRF.Enabled {
		secret, generated, err := middleware.ResolveCSRFSecret(cfg.CSRF.Secret)
		if err != nil {
			return fmt.Errorf("generate CSRF secret: %w", err)
		}
		if generated {
			log.Warn("generated a CSRF secret for this process, set CSRF_SECRET to keep forms valid across restarts")
		}
		routerCfg.CSRFSecret = secret
	}

	var (
		taskClient    *tasks.Client
		taskCtxCancel context.CancelFunc
		maintenance   *scheduler.MaintenanceScheduler
	)
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, taskConfig(cfg), log)
		if err != nil {
			return fmt.Errorf("initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Error("error closing task client", zap.Error(err))
			}
		}()

		queues := []backlite.Queue{tasks.NewCatalogIntegrityQueue(db, log)}
		var jobs []scheduler.Job
		if cfg.Integrity.Enabled {
			jobs = append(jobs, integrityJob(cfg))
		}
		if auditService != nil {
			queues = append(queues, tasks.NewCleanupAuditEventsQueue(auditService, log))
			jobs = append(jobs, scheduler.Job{
				Name:     "cleanup_audit_events",
				Schedule: auditCleanupSchedule,
				Task:     tasks.CleanupAuditEventsTask{RetentionDays: cfg.Audit.RetentionDays},
			})
		}
		taskClient.Register(queues...)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		maintenance = scheduler.NewMaintenanceScheduler(taskClient, log)
		if err := maintenance.Start(taskCtx, jobs...); err != nil {
			taskCtxCancel()
			return fmt.Errorf("start scheduler: %w", err)
		}
		routerCfg.Maintenance = maintenance
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		if auditService != nil {
			auditService.Wait()
		}
	}

	return Serve(router, cfg, log, onShutdown)
}

// Seed loads the sample catalog into the configured database.
func Seed(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	db, err := OpenDatabase(cfg)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close()

	if err := db.Seed(ctx); err != nil {
		return err
	}
	log.Info("sample catalog loaded", zap.String("database", cfg.Database.Path))
	return nil
}

// CheckIntegrity reports dangling references in the configured database
// without modifying it.
func CheckIntegrity(ctx context.Context, cfg *config.Config) (database.IntegrityReport, error) {
	db, err := OpenDatabase(cfg)
	if err != nil {
		return database.IntegrityReport{}, fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close()

	return db.CheckIntegrity(ctx)
}

// EnqueueIntegrityCheck queues an integrity check for the server's task
// workers instead of scanning in this process.
func EnqueueIntegrityCheck(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if !cfg.Tasks.Enabled {
		return errors.New("task queue is disabled")
	}

	db, err := OpenDatabase(cfg)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close()

	taskClient, err := tasks.NewClient(cfg.Database.Path, taskConfig(cfg), log)
	if err != nil {
		return fmt.Errorf("initialize task queue: %w", err)
	}
	defer taskClient.Close()
	taskClient.Register(tasks.NewCatalogIntegrityQueue(db, log))

	maintenance := scheduler.NewMaintenanceScheduler(taskClient, log)
	if err := maintenance.Start(ctx, integrityJob(cfg)); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer maintenance.Stop()

	if err := maintenance.RunNow(ctx, integrityJobName); err != nil {
		return err
	}
	log.Info("integrity check queued", zap.String("tasks_database", tasks.TasksDBPath(cfg.Database.Path)))
	return nil
}

func taskConfig(cfg *config.Config) tasks.Config {
	return tasks.Config{
		Workers:         cfg.Tasks.Workers,
		ReleaseAfter:    cfg.Tasks.ReleaseAfter,
		CleanupInterval: cfg.Tasks.CleanupInterval,
	}
}

func integrityJob(cfg *config.Config) scheduler.Job {
	return scheduler.Job{
		Name:     integrityJobName,
		Schedule: cfg.Integrity.Schedule,
		Task:     tasks.CatalogIntegrityTask{},
	}
}
