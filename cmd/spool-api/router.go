package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/spool-tracker/api/swagger"
	"github.com/noah-isme/spool-tracker/internal/handler"
	"github.com/noah-isme/spool-tracker/internal/middleware"
	"github.com/noah-isme/spool-tracker/internal/models"
	"github.com/noah-isme/spool-tracker/internal/service"
	"github.com/noah-isme/spool-tracker/pkg/config"
	"github.com/noah-isme/spool-tracker/pkg/logger"
	corsmiddleware "github.com/noah-isme/spool-tracker/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/spool-tracker/pkg/middleware/requestid"
)

type authProvider interface {
	middleware.TokenValidator
	middleware.DeviceKeyVerifier
}

// routes bundles everything the HTTP layer needs.
type routes struct {
	cfg        *config.Config
	logger     *zap.Logger
	auth       authProvider
	metrics    *service.MetricsService
	spools     *handler.SpoolHandler
	scans      *handler.ScanHandler
	audit      *handler.AuditHandler
	references *handler.ReferenceHandler
	ops        *handler.MetricsHandler
}

func newRouter(rt routes) *gin.Engine {
	cfg := rt.cfg
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(rt.logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(rt.metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", rt.ops.Health)
	r.GET("/ready", rt.ops.Ready)
	r.GET("/metrics", rt.ops.Prometheus)
	r.GET("/metrics/summary", rt.ops.Summary)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Readers call the bare path with query parameters only.
	r.GET("/weight", middleware.DeviceKey(rt.auth), middleware.OptionalJWT(rt.auth), rt.scans.Weight)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Authenticate(rt.auth, cfg.Auth.Required))

	spools := api.Group("/spools")
	spools.GET("", rt.spools.List)
	spools.POST("", rt.spools.Create)
	spools.GET("/export", rt.spools.Export)
	spools.GET("/by-code/:code", rt.spools.ByCode)
	spools.GET("/by-rfid/:tag", rt.spools.ByRFID)
	spools.GET("/:id", rt.spools.Get)
	spools.PUT("/:id", rt.spools.Update)
	spools.POST("/:id/usage", rt.spools.RecordUsage)
	if cfg.Auth.Required {
		spools.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), rt.spools.Delete)
	} else {
		spools.DELETE("/:id", rt.spools.Delete)
	}

	api.GET("/spool-types", rt.references.ListSpoolTypes)
	api.GET("/manufacturers", rt.references.ListManufacturers)
	api.POST("/manufacturers", rt.references.CreateManufacturer)
	api.GET("/audit-logs", rt.audit.List)

	return r
}
