package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/superae99/salesmap-backend/config"
	"github.com/superae99/salesmap-backend/internal/app/controller"
	"github.com/superae99/salesmap-backend/internal/middleware"
	"github.com/superae99/salesmap-backend/internal/websocket"
)

const serverVersion = "1.0.0"

type Router struct {
	authController       *controller.AuthController
	datasetController    *controller.DatasetController
	editController       *controller.EditController
	historyController    *controller.HistoryController
	preferenceController *controller.PreferenceController
	authMiddleware       *middleware.AuthMiddleware
	hub                  *websocket.Hub
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	datasetController *controller.DatasetController,
	editController *controller.EditController,
	historyController *controller.HistoryController,
	preferenceController *controller.PreferenceController,
	authMiddleware *middleware.AuthMiddleware,
	hub *websocket.Hub,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		datasetController:    datasetController,
		editController:       editController,
		historyController:    historyController,
		preferenceController: preferenceController,
		authMiddleware:       authMiddleware,
		hub:                  hub,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"message":   "SALESMAP API is running",
			"version":   serverVersion,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Live edit feed. Token may arrive as a query parameter because the
	// browser WebSocket API cannot set an Authorization header.
	router.GET("/ws", r.authMiddleware.OptionalAuthenticate(), func(c *gin.Context) {
		websocket.ServeWS(r.hub, c.Writer, c.Request, middleware.OperatorID(c))
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
		}

		data := v1.Group("/data")
		{
			data.GET("", r.datasetController.GetData)
			data.GET("/filters", r.datasetController.GetFilters)
			data.GET("/filtered", r.datasetController.GetFiltered)
			data.POST("/refresh",
				r.authMiddleware.Authenticate(),
				r.datasetController.Refresh,
			)
		}

		v1.POST("/update-salesperson",
			r.authMiddleware.Authenticate(),
			r.editController.UpdateSalesperson,
		)
		v1.PUT("/update-salesperson",
			r.authMiddleware.Authenticate(),
			r.editController.UpdateSalesperson,
		)

		history := v1.Group("/edit-history")
		history.Use(r.authMiddleware.Authenticate())
		{
			history.GET("", r.historyController.GetHistory)
			history.GET("/export", r.historyController.ExportHistory)
		}

		preferences := v1.Group("/preferences")
		preferences.Use(r.authMiddleware.Authenticate())
		{
			preferences.GET("", r.preferenceController.GetPreferences)
			preferences.PUT("", r.preferenceController.SavePreferences)
			preferences.DELETE("", r.preferenceController.DeletePreferences)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
