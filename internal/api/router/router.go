package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/upskillhq/skillmatch/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "skillmatch-api-service",
		})
	})

	taskHandler := handler.NewTaskHandler(deps)
	snapshotHandler := handler.NewSnapshotHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// POST /api/v1/recompute - Run one processor batch
		v1.POST("/recompute", taskHandler.ProcessTasks)

		tasks := v1.Group("/tasks")
		{
			// POST /api/v1/tasks - Enqueue a recompute task
			tasks.POST("", taskHandler.EnqueueTask)

			// GET /api/v1/tasks - List pending tasks in queue order
			tasks.GET("", taskHandler.ListTasks)
		}

		snapshots := v1.Group("/companies/:company_id/snapshots")
		{
			// GET .../snapshots/organization - Company-wide rollup
			snapshots.GET("/organization", snapshotHandler.GetOrganizationSnapshot)

			// GET .../snapshots/departments/:department - Department rollup
			snapshots.GET("/departments/:department", snapshotHandler.GetDepartmentSnapshot)

			// GET .../snapshots/employees/:employee_id - Employee match
			snapshots.GET("/employees/:employee_id", snapshotHandler.GetEmployeeSnapshot)
		}
	}

	return r
}
