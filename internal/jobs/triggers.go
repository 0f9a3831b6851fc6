package jobs

import (
	"context"
	"log/slog"
	"time"
)

// Triggers translates domain events into jobs. Producers call these
// instead of touching the queue directly, so the event-to-job mapping
// lives in one place.
type Triggers struct {
	queue         Queue
	retentionDays int
	logger        *slog.Logger
}

// NewTriggers wires the queue and the activity retention window the daily
// cleanup jobs carry.
func NewTriggers(queue Queue, retentionDays int, logger *slog.Logger) *Triggers {
	return &Triggers{queue: queue, retentionDays: retentionDays, logger: logger}
}

// OnAssessmentSubmitted starts the grading pipeline for a submitted
// result. Achievement evaluation and progress recalculation follow as
// separate jobs once the grade lands.
func (t *Triggers) OnAssessmentSubmitted(ctx context.Context, resultID uint) error {
	t.logger.Info("Assessment submitted", "result_id", resultID)
	return t.queue.EnqueueNow(ctx, KindGradeAssessment, GradeAssessmentPayload{
		ResultID: resultID,
	})
}

// OnBatchCompleted refreshes the batch's aggregate statistics.
func (t *Triggers) OnBatchCompleted(ctx context.Context, batchID uint) error {
	t.logger.Info("Batch completed", "batch_id", batchID)
	return t.queue.EnqueueNow(ctx, KindRecomputeBatchStats, RecomputeBatchStatsPayload{
		BatchID: batchID,
	})
}

// OnUserActivity refreshes the user's study streak after new activity is
// recorded.
func (t *Triggers) OnUserActivity(ctx context.Context, userID string) error {
	return t.queue.EnqueueNow(ctx, KindRecalculateStreak, RecalculateStreakPayload{
		UserID: userID,
	})
}

// OnDailyTick runs the periodic maintenance batch: leaderboard refresh,
// the daily statistics report, and activity log pruning. The enqueues are
// independent; a failure on one does not stop the others.
func (t *Triggers) OnDailyTick(ctx context.Context) error {
	t.logger.Info("Daily tick")

	var firstErr error
	for _, daily := range t.dailyJobs() {
		if err := t.queue.EnqueueNow(ctx, daily.kind, daily.payload); err != nil {
			t.logger.Error("Failed to enqueue daily job", "job_kind", daily.kind, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// ScheduleDailyTick parks the maintenance batch in the schedule set so it
// releases at the given time instead of running immediately.
func (t *Triggers) ScheduleDailyTick(ctx context.Context, at time.Time) error {
	for _, daily := range t.dailyJobs() {
		if err := t.queue.ScheduleAt(ctx, daily.kind, daily.payload, at); err != nil {
			return err
		}
	}
	return nil
}

type dailyJob struct {
	kind    Kind
	payload interface{}
}

// dailyJobs is the maintenance batch. Cleanup carries the configured
// retention window so operators can tune it without a redeploy of the
// consumers.
func (t *Triggers) dailyJobs() []dailyJob {
	return []dailyJob{
		{kind: KindRecomputeRankings},
		{kind: KindGenerateDailyReport},
		{kind: KindCleanupActivities, payload: CleanupActivitiesPayload{
			RetentionDays: t.retentionDays,
		}},
	}
}
