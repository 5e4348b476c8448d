package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/snapmeal/jobs-be/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies, verifier TokenVerifier) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint (no auth)
	start := time.Now()
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"uptime":    time.Since(start).Seconds(),
			"message":   "OK",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	// Initialize job handler
	jobHandler := handler.NewJobHandler(deps)

	// API v1 routes (authenticated)
	v1 := r.Group("/api/v1")
	v1.Use(AuthMiddleware(verifier, deps.Logger))
	{
		jobs := v1.Group("/jobs")
		{
			// POST /api/v1/jobs - Queue a new job
			jobs.POST("", jobHandler.QueueJob)

			// GET /api/v1/jobs/:job_id - Get job status
			jobs.GET("/:job_id", jobHandler.GetJob)
		}
	}

	return r
}
