package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SAP-F-2025/training-service/internal/services"
	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	BaseHandler
	rankingService services.RankingService
}

func NewLeaderboardHandler(rankingService services.RankingService, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		BaseHandler:    NewBaseHandler(logger),
		rankingService: rankingService,
	}
}

// GetLeaderboard returns the current top-ranked candidates
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.rankingService.Leaderboard(c.Request.Context())
	if err != nil {
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to load leaderboard", err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Leaderboard",
		Data:    entries,
	})
}
