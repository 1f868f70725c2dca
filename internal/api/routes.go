package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/alexanderramin/velo/internal/service"
)

// NewRouter builds the HTTP API over the services. now supplies the clock for
// defaulted dates and week advancement.
func NewRouter(svc *service.Services, logger zerolog.Logger, now func() time.Time) *gin.Engine {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))
	SetupRoutes(router, svc, now)
	return router
}

func SetupRoutes(router *gin.Engine, svc *service.Services, now func() time.Time) {
	programs := NewProgramHandler(svc.Programs, svc.Workouts, now)
	rider := NewRiderHandler(svc, now)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/profile", rider.GetProfile)
		v1.PUT("/profile/ftp", rider.SetFTP)
		v1.PUT("/profile/weight", rider.SetWeight)

		v1.GET("/fitness", rider.Fitness)
		v1.GET("/fitness/risk", rider.Risk)
		v1.GET("/fitness/trend", rider.Trend)
		v1.GET("/fitness/power-profile", rider.PowerProfile)

		v1.POST("/activities/sync", rider.Sync)
		v1.GET("/activities", rider.ListActivities)

		v1.POST("/feedback", rider.AddFeedback)
		v1.GET("/feedback", rider.ListFeedback)

		programGroup := v1.Group("/programs")
		{
			programGroup.POST("", programs.Create)
			programGroup.GET("", programs.List)
			programGroup.GET("/:id", programs.Get)
			programGroup.DELETE("/:id", programs.Delete)
			programGroup.POST("/:id/pause", programs.Pause)
			programGroup.POST("/:id/resume", programs.Resume)
			programGroup.POST("/:id/cancel", programs.Cancel)
			programGroup.POST("/:id/advance", programs.Advance)
			programGroup.GET("/:id/weeks/:n", programs.GetWeek)
			programGroup.POST("/:id/weeks/:n/plan", programs.PlanWeek)
		}

		v1.POST("/slots/:id/generate", programs.GenerateSlot)
	}
}
