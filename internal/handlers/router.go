package handlers

import (
	"log/slog"

	"github.com/SAP-F-2025/training-service/internal/jobs"
	"github.com/SAP-F-2025/training-service/internal/services"
	"github.com/SAP-F-2025/training-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	triggerHandler     *TriggerHandler
	leaderboardHandler *LeaderboardHandler
}

func NewHandlerManager(
	triggers *jobs.Triggers,
	queue jobs.Queue,
	rankingService services.RankingService,
	validator *utils.Validator,
	logger *slog.Logger,
) *HandlerManager {
	return &HandlerManager{
		triggerHandler:     NewTriggerHandler(triggers, queue, validator, logger),
		leaderboardHandler: NewLeaderboardHandler(rankingService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		triggers := v1.Group("/triggers")
		{
			triggers.POST("/assessment-submitted", hm.triggerHandler.AssessmentSubmitted)
			triggers.POST("/batch-completed", hm.triggerHandler.BatchCompleted)
			triggers.POST("/user-activity", hm.triggerHandler.UserActivity)
			triggers.POST("/daily-tick", hm.triggerHandler.DailyTick)
			triggers.POST("/bulk-notification", hm.triggerHandler.BulkNotification)
		}

		v1.GET("/leaderboard", hm.leaderboardHandler.GetLeaderboard)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "training-service",
		})
	})
}
