package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/spool-tracker/internal/handler"
	"github.com/noah-isme/spool-tracker/internal/repository"
	"github.com/noah-isme/spool-tracker/internal/service"
	"github.com/noah-isme/spool-tracker/pkg/cache"
	"github.com/noah-isme/spool-tracker/pkg/catalog"
	"github.com/noah-isme/spool-tracker/pkg/config"
	"github.com/noah-isme/spool-tracker/pkg/database"
	"github.com/noah-isme/spool-tracker/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logr, err := logger.New(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer logr.Sync() //nolint:errcheck

		return serve(cmd.Context(), cfg, logr)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrateOnStart {
		migrations, err := database.Migrations()
		if err != nil {
			return err
		}
		if _, err := database.Migrate(ctx, db, migrations, logr); err != nil {
			return err
		}
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis, cfg.Cache.Enabled)
	if err != nil {
		return err
	}

	types, err := catalog.Load(cfg.Catalog.File)
	if err != nil {
		return err
	}
	logr.Info("spool type catalog loaded", zap.String("version", types.Version()), zap.Int("types", len(types.All())))

	spoolRepo := repository.NewSpoolRepository(db)
	manufacturerRepo := repository.NewManufacturerRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, "spool:", logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, redisClient != nil)
	auditSvc := service.NewAuditService(auditRepo, metricsSvc, service.AuditConfig{
		Async:      cfg.Audit.Async,
		Workers:    cfg.Audit.Workers,
		BufferSize: cfg.Audit.BufferSize,
		ListLimit:  cfg.Audit.ListLimit,
	}, logr)
	validate := service.NewValidator(types)

	scanSvc := service.NewScanService(spoolRepo, auditSvc, cacheSvc, metricsSvc, logr)
	spoolSvc := service.NewSpoolService(spoolRepo, manufacturerRepo, types, auditSvc, cacheSvc, validate, logr)
	manufacturerSvc := service.NewManufacturerService(manufacturerRepo, cacheSvc, validate, logr)
	exportSvc := service.NewExportService(spoolRepo, types, nil, logr)
	authSvc := service.NewAuthService(service.AuthConfig{
		AccessTokenSecret: cfg.Auth.JWTSecret,
		DeviceKeyHash:     cfg.Auth.DeviceKeyHash,
	}, logr)

	router := newRouter(routes{
		cfg:        cfg,
		logger:     logr,
		auth:       authSvc,
		metrics:    metricsSvc,
		spools:     handler.NewSpoolHandler(spoolSvc, exportSvc),
		scans:      handler.NewScanHandler(scanSvc, cfg.Scan.InvalidUID, logr).WithErrorDetails(cfg.Env != config.EnvProduction),
		audit:      handler.NewAuditHandler(auditSvc),
		references: handler.NewReferenceHandler(manufacturerSvc, types),
		ops:        handler.NewMetricsHandler(metricsSvc, db),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	auditSvc.Start(ctx)
	// Drain after the server stops so in-flight scans can still enqueue.
	defer auditSvc.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logr.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
