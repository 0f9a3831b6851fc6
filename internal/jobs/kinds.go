package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

// Kind identifies a unit of background work. The set is closed: the
// orchestrator dispatches with an exhaustive switch, so an unrecognized
// kind is a bug in the producer, not a soft error.
type Kind string

const (
	KindGradeAssessment      Kind = "grade_assessment"
	KindEvaluateAchievements Kind = "evaluate_achievements"
	KindRecalculateProgress  Kind = "recalculate_progress"
	KindRecalculateStreak    Kind = "recalculate_streak"
	KindRecomputeRankings    Kind = "recompute_rankings"
	KindRecomputeBatchStats  Kind = "recompute_batch_stats"
	KindSendNotification     Kind = "send_notification"
	KindSendBulkNotification Kind = "send_bulk_notification"
	KindGenerateDailyReport  Kind = "generate_daily_report"
	KindCleanupActivities    Kind = "cleanup_activities"
)

// Job is the wire envelope handed to the execution runtime. Delivery is
// at-least-once; every handler behind a Kind must tolerate replays.
type Job struct {
	ID         string          `json:"id"`
	Kind       Kind            `json:"kind"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
	NotBefore  *time.Time      `json:"not_before,omitempty"`
}

// ===== TYPED PAYLOADS =====

type GradeAssessmentPayload struct {
	ResultID uint `json:"result_id" validate:"required"`
}

type EvaluateAchievementsPayload struct {
	UserID string `json:"user_id" validate:"required"`
}

type RecalculateProgressPayload struct {
	UserID string `json:"user_id" validate:"required"`
}

type RecalculateStreakPayload struct {
	UserID string `json:"user_id" validate:"required"`
}

type RecomputeBatchStatsPayload struct {
	BatchID uint `json:"batch_id" validate:"required"`
}

type SendNotificationPayload struct {
	Address string `json:"address" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body"`
}

type SendBulkNotificationPayload struct {
	Addresses []string `json:"addresses" validate:"required,min=1"`
	Subject   string   `json:"subject" validate:"required"`
	Body      string   `json:"body"`
}

type CleanupActivitiesPayload struct {
	RetentionDays int `json:"retention_days" validate:"required,min=1"`
}

// NewJob wraps a payload into a wire envelope with a fresh job ID.
func NewJob(kind Kind, payload interface{}) (*Job, error) {
	job := &Job{
		ID:         watermill.NewUUID(),
		Kind:       kind,
		EnqueuedAt: time.Now(),
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload for job kind %s: %w", kind, err)
		}
		job.Payload = data
	}

	return job, nil
}

// DecodePayload unmarshals the envelope payload into dest.
func (j *Job) DecodePayload(dest interface{}) error {
	if len(j.Payload) == 0 {
		return fmt.Errorf("job %s (%s) has no payload", j.ID, j.Kind)
	}
	if err := json.Unmarshal(j.Payload, dest); err != nil {
		return fmt.Errorf("malformed payload for job %s (%s): %w", j.ID, j.Kind, err)
	}
	return nil
}
