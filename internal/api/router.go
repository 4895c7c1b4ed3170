package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "queuewise/docs"
	"queuewise/internal/handlers"
)

// SetupAPIRoutes
// @title			queuewise
// @version		1.0
// @description	Queue management with explicit rule checks, dry runs and an event log.
// @BasePath		/
func (s *Server) SetupAPIRoutes(queueHandler *handlers.QueueHandler) {
	r := s.engine

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	queues := r.Group("/queues")
	{
		queues.GET("", queueHandler.ListQueues)
		queues.POST("", queueHandler.CreateQueue)
		queues.POST("/:id/join", queueHandler.JoinQueue)
		queues.PATCH("/:id/serve", queueHandler.ServeNext)
		queues.PATCH("/:id/skip/:entry_id", queueHandler.SkipEntry)
		queues.PATCH("/:id/skip", queueHandler.SkipNext)
		queues.GET("/:id/status", queueHandler.GetStatus)
		queues.GET("/:id/summary", queueHandler.GetSummary)
		queues.GET("/:id/preview", queueHandler.PreviewNextAction)
		queues.PATCH("/:id/pause", queueHandler.PauseQueue)
		queues.PATCH("/:id/resume", queueHandler.ResumeQueue)
		queues.GET("/:id/events", queueHandler.ListEvents)
	}
}
