package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jackhellowin/portfolio-api/internal/middleware"
	"github.com/jackhellowin/portfolio-api/pkg/logger"
	"github.com/jackhellowin/portfolio-api/pkg/response"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.RequestID(), logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS(svc.cfg.Server.AllowedOrigins))
	r.Use(svc.httpMetrics.Middleware())

	r.GET("/health", svc.healthHandler.CheckHealth)
	r.GET("/metrics", svc.metricsHandler.Metrics)

	adminOnly := middleware.AdminRequired(svc.authService)
	audit := middleware.AuditLog(svc.systemLogs)

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", svc.loginLimiter.Middleware(), svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
			auth.POST("/logout", svc.authHandler.Logout)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(svc.authService))
		{
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)
		}

		// Portfolio content (read public, write admin only)
		api.GET("/works", svc.workHandler.List)
		api.GET("/works/:id", svc.workHandler.GetByID)
		api.GET("/skills", svc.skillHandler.List)
		api.GET("/skills/:id", svc.skillHandler.GetByID)
		api.GET("/social-media", svc.socialHandler.List)
		api.GET("/social-media/:id", svc.socialHandler.GetByID)
		api.GET("/self-content", svc.selfHandler.Get)

		content := api.Group("", adminOnly, audit)
		{
			content.POST("/works", svc.workHandler.Create)
			content.PUT("/works/:id", svc.workHandler.Update)
			content.DELETE("/works/:id", svc.workHandler.Delete)

			content.POST("/skills", svc.skillHandler.Create)
			content.PUT("/skills/:id", svc.skillHandler.Update)
			content.DELETE("/skills/:id", svc.skillHandler.Delete)

			content.POST("/social-media", svc.socialHandler.Create)
			content.PUT("/social-media/:id", svc.socialHandler.Update)
			content.DELETE("/social-media/:id", svc.socialHandler.Delete)

			content.POST("/self-content", svc.selfHandler.Save)
			content.PUT("/self-content", svc.selfHandler.Update)
		}

		// Admin routes
		admin := api.Group("/admin", adminOnly, audit)
		{
			admin.GET("/users", svc.userHandler.List)
			admin.POST("/users", svc.userHandler.Create)
			admin.DELETE("/users/:id", svc.userHandler.Delete)
			admin.POST("/users/:id/revoke-sessions", svc.userHandler.RevokeSessions)

			admin.GET("/system-logs", svc.logHandler.List)
			admin.GET("/system-logs/modules", svc.logHandler.GetModules)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Resource not found")
	})
}
