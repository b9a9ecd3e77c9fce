// internal/api/router.go
package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/labordacousins/scriptbreakdown/internal/di"
	"github.com/labordacousins/scriptbreakdown/internal/services"
)

// SetupRouter wires the HTTP routes against services from the DI container.
// Services are only fetched here, never created.
func SetupRouter() (*gin.Engine, error) {
	container := di.GetContainer()

	breakdownService, ok := container.Get("breakdown").(*services.BreakdownService)
	if !ok {
		return nil, fmt.Errorf("breakdown service not initialized")
	}

	progressService, ok := container.Get("progress").(*services.ProgressService)
	if !ok {
		return nil, fmt.Errorf("progress service not initialized")
	}

	handler := NewHandler(breakdownService, progressService)

	r := gin.Default()
	r.Use(corsMiddleware())

	r.GET("/ws/progress/:task_id", handler.ProgressWebSocket)

	api := r.Group("/api")
	{
		api.GET("/health", handler.Health)

		breakdowns := api.Group("/breakdowns")
		{
			breakdowns.POST("", handler.CreateBreakdown)
			breakdowns.GET("", handler.ListBreakdowns)
			breakdowns.GET("/:id", handler.GetBreakdown)
			breakdowns.DELETE("/:id", handler.DeleteBreakdown)
		}

		api.GET("/progress/:task_id", handler.SubscribeProgress)
	}

	return r, nil
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
