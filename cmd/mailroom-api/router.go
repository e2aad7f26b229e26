package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/campus-mailroom/mailroom-api/api/swagger"
	"github.com/campus-mailroom/mailroom-api/internal/middleware"
	"github.com/campus-mailroom/mailroom-api/pkg/config"
	"github.com/campus-mailroom/mailroom-api/pkg/logger"
	corsmiddleware "github.com/campus-mailroom/mailroom-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campus-mailroom/mailroom-api/pkg/middleware/requestid"
)

func newRouter(cfg *config.Config, a *app, logr *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(a.metrics))

	r.GET("/health", a.ops.Health)
	r.GET("/ready", a.ops.Ready)
	r.GET("/metrics", a.ops.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	gate := func(c *gin.Context) { c.Next() }
	if cfg.Admin.GateEnabled && a.auth != nil {
		gate = middleware.AdminGate(a.auth, true)
	}

	api := r.Group(cfg.APIPrefix)

	if a.authH != nil {
		api.POST("/auth/login", a.authH.Login)
	}
	api.GET("/admin/panels", gate, a.admin.Panels)

	packages := api.Group("/packages")
	packages.GET("", a.packages.List)
	packages.POST("", a.packages.Create)
	packages.GET("/summary", a.packages.Summary)
	packages.GET("/export", a.packages.Export)
	packages.GET("/:id", a.packages.Get)
	packages.PUT("/:id", a.packages.Update)
	packages.DELETE("/:id", a.packages.Delete)
	packages.POST("/:id/check-in", a.packages.CheckIn)
	packages.POST("/:id/check-out", a.packages.CheckOut)

	users := api.Group("/users")
	users.GET("", a.users.List)
	users.POST("", gate, a.users.Create)
	users.GET("/:id", a.users.Get)
	users.PUT("/:id", gate, a.users.Update)
	users.DELETE("/:id", gate, a.users.Delete)
	users.GET("/:id/orders", a.users.Orders)

	categories := api.Group("/spend-categories")
	categories.GET("", a.categories.List)
	categories.POST("", gate, a.categories.Create)
	categories.PUT("/:id", gate, a.categories.Update)
	categories.DELETE("/:id", gate, a.categories.Delete)

	professors := api.Group("/professors")
	professors.GET("", a.professors.List)
	professors.POST("", gate, a.professors.Create)
	professors.PUT("/:id", gate, a.professors.Update)
	professors.DELETE("/:id", gate, a.professors.Delete)

	orders := api.Group("/orders")
	orders.GET("", a.orders.List)
	orders.POST("", a.orders.Create)
	orders.GET("/:id", a.orders.Get)
	orders.PUT("/:id", a.orders.Update)
	orders.DELETE("/:id", a.orders.Delete)
	orders.POST("/:id/receipts", a.orders.UploadReceipt)
	orders.GET("/:id/receipts/:index/url", a.orders.ReceiptURL)
	api.GET("/receipts/:token", a.orders.DownloadReceipt)

	return r
}
