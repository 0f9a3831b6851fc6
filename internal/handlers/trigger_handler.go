package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SAP-F-2025/training-service/internal/jobs"
	"github.com/SAP-F-2025/training-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// TriggerHandler exposes the domain events that start background work.
// Each endpoint only enqueues; the accepted response says the job is
// queued, not that it ran.
type TriggerHandler struct {
	BaseHandler
	triggers  *jobs.Triggers
	queue     jobs.Queue
	validator *utils.Validator
}

type AssessmentSubmittedRequest struct {
	ResultID uint `json:"result_id" validate:"required"`
}

type BatchCompletedRequest struct {
	BatchID uint `json:"batch_id" validate:"required"`
}

type UserActivityRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type BulkNotificationRequest struct {
	Addresses []string `json:"addresses" validate:"required,min=1"`
	Subject   string   `json:"subject" validate:"required"`
	Body      string   `json:"body"`
}

func NewTriggerHandler(triggers *jobs.Triggers, queue jobs.Queue, validator *utils.Validator, logger *slog.Logger) *TriggerHandler {
	return &TriggerHandler{
		BaseHandler: NewBaseHandler(logger),
		triggers:    triggers,
		queue:       queue,
		validator:   validator,
	}
}

// AssessmentSubmitted starts the grading pipeline for a submitted result
func (h *TriggerHandler) AssessmentSubmitted(c *gin.Context) {
	var req AssessmentSubmittedRequest
	if !h.bind(c, &req) {
		return
	}

	h.LogRequest(c, "Assessment submitted trigger", "result_id", req.ResultID)

	if err := h.triggers.OnAssessmentSubmitted(c.Request.Context(), req.ResultID); err != nil {
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to enqueue grading", err)
		return
	}

	c.JSON(http.StatusAccepted, SuccessResponse{Message: "Grading queued"})
}

// BatchCompleted queues a statistics recompute for the batch
func (h *TriggerHandler) BatchCompleted(c *gin.Context) {
	var req BatchCompletedRequest
	if !h.bind(c, &req) {
		return
	}

	h.LogRequest(c, "Batch completed trigger", "batch_id", req.BatchID)

	if err := h.triggers.OnBatchCompleted(c.Request.Context(), req.BatchID); err != nil {
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to enqueue batch statistics", err)
		return
	}

	c.JSON(http.StatusAccepted, SuccessResponse{Message: "Batch statistics queued"})
}

// UserActivity queues a streak recalculation after new activity
func (h *TriggerHandler) UserActivity(c *gin.Context) {
	var req UserActivityRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.triggers.OnUserActivity(c.Request.Context(), req.UserID); err != nil {
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to enqueue streak recalculation", err)
		return
	}

	c.JSON(http.StatusAccepted, SuccessResponse{Message: "Streak recalculation queued"})
}

// DailyTick queues the daily maintenance batch
func (h *TriggerHandler) DailyTick(c *gin.Context) {
	h.LogRequest(c, "Daily tick trigger")

	if err := h.triggers.OnDailyTick(c.Request.Context()); err != nil {
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to enqueue daily jobs", err)
		return
	}

	c.JSON(http.StatusAccepted, SuccessResponse{Message: "Daily jobs queued"})
}

// BulkNotification queues one notification job per recipient
func (h *TriggerHandler) BulkNotification(c *gin.Context) {
	var req BulkNotificationRequest
	if !h.bind(c, &req) {
		return
	}

	h.LogRequest(c, "Bulk notification trigger", "recipients", len(req.Addresses))

	if err := h.queue.EnqueueNow(c.Request.Context(), jobs.KindSendBulkNotification, jobs.SendBulkNotificationPayload{
		Addresses: req.Addresses,
		Subject:   req.Subject,
		Body:      req.Body,
	}); err != nil {
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to enqueue bulk notification", err)
		return
	}

	c.JSON(http.StatusAccepted, SuccessResponse{Message: "Bulk notification queued"})
}

func (h *TriggerHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}

	if err := h.validator.Validate(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return false
	}

	return true
}
