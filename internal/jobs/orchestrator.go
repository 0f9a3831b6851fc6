package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/training-service/internal/repositories"
	"github.com/SAP-F-2025/training-service/internal/services"
)

// ErrUnknownKind marks a job whose kind this build does not handle. It is
// a producer bug: the job retries up to the runtime limit and then
// dead-letters, where the log context identifies the offender.
var ErrUnknownKind = errors.New("unknown job kind")

// defaultActivityRetentionDays bounds the activity log when the cleanup
// payload does not say otherwise.
const defaultActivityRetentionDays = 180

// Orchestrator routes delivered jobs to their engines and owns the fan-out
// between pipeline stages. Stages are separate jobs on purpose: a retried
// stage never re-runs the committed stages before it.
type Orchestrator struct {
	grading       services.GradingService
	achievements  services.AchievementService
	progress      services.ProgressService
	streaks       services.StreakService
	rankings      services.RankingService
	batchStats    services.BatchStatsService
	notifications services.NotificationService
	reports       services.ReportService
	repo          repositories.Repository
	queue         Queue
	logger        *slog.Logger
}

type OrchestratorConfig struct {
	Grading       services.GradingService
	Achievements  services.AchievementService
	Progress      services.ProgressService
	Streaks       services.StreakService
	Rankings      services.RankingService
	BatchStats    services.BatchStatsService
	Notifications services.NotificationService
	Reports       services.ReportService
	Repo          repositories.Repository
	Queue         Queue
	Logger        *slog.Logger
}

func NewOrchestrator(config OrchestratorConfig) *Orchestrator {
	return &Orchestrator{
		grading:       config.Grading,
		achievements:  config.Achievements,
		progress:      config.Progress,
		streaks:       config.Streaks,
		rankings:      config.Rankings,
		batchStats:    config.BatchStats,
		notifications: config.Notifications,
		reports:       config.Reports,
		repo:          config.Repo,
		queue:         config.Queue,
		logger:        config.Logger,
	}
}

// Handle executes one delivered job. A nil return acknowledges the
// message; a non-nil return hands it back to the runtime's retry policy.
// Expected "nothing to do" conditions (entity gone, precondition no longer
// holds) are acknowledged, not retried, so superseded jobs cannot loop
// forever.
func (o *Orchestrator) Handle(ctx context.Context, job *Job) error {
	logger := o.logger.With("job_id", job.ID, "job_kind", job.Kind)
	logger.Info("Job running")

	err := o.dispatch(ctx, job)
	if err == nil {
		logger.Info("Job completed")
		return nil
	}

	if services.IsNoOp(err) {
		logger.Warn("Job is a no-op, acknowledging", "reason", err.Error())
		return nil
	}

	logger.Error("Job failed", "error", err)
	return err
}

func (o *Orchestrator) dispatch(ctx context.Context, job *Job) error {
	switch job.Kind {
	case KindGradeAssessment:
		return o.handleGradeAssessment(ctx, job)
	case KindEvaluateAchievements:
		return o.handleEvaluateAchievements(ctx, job)
	case KindRecalculateProgress:
		return o.handleRecalculateProgress(ctx, job)
	case KindRecalculateStreak:
		return o.handleRecalculateStreak(ctx, job)
	case KindRecomputeRankings:
		return o.rankings.RecomputeRankings(ctx)
	case KindRecomputeBatchStats:
		return o.handleRecomputeBatchStats(ctx, job)
	case KindSendNotification:
		return o.handleSendNotification(ctx, job)
	case KindSendBulkNotification:
		return o.handleSendBulkNotification(ctx, job)
	case KindGenerateDailyReport:
		_, err := o.reports.GenerateDailyReport(ctx, time.Now())
		return err
	case KindCleanupActivities:
		return o.handleCleanupActivities(ctx, job)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, job.Kind)
	}
}

// handleGradeAssessment grades the result and, once the grade is
// committed, enqueues achievement evaluation for the same user. The next
// stage reads the graded state from the store, so it must not be enqueued
// before the grading transaction lands.
//
// A replay that finds the result already graded still performs the
// fan-out: the previous delivery may have failed between the grading
// commit and the enqueue, and skipping it would lose the rest of the
// pipeline.
func (o *Orchestrator) handleGradeAssessment(ctx context.Context, job *Job) error {
	var payload GradeAssessmentPayload
	if err := job.DecodePayload(&payload); err != nil {
		return err
	}

	var userID string
	result, err := o.grading.GradeResult(ctx, payload.ResultID)
	switch {
	case err == nil:
		userID = result.UserID
	case errors.Is(err, services.ErrAlreadyGraded):
		existing, getErr := o.repo.Result().GetByID(ctx, payload.ResultID)
		if getErr != nil {
			if repositories.IsNotFoundError(getErr) {
				return services.ErrResultNotFound
			}
			return fmt.Errorf("failed to reload graded result: %w", getErr)
		}
		userID = existing.UserID
	default:
		return err
	}

	if err := o.queue.EnqueueNow(ctx, KindEvaluateAchievements, EvaluateAchievementsPayload{
		UserID: userID,
	}); err != nil {
		// The grade is committed; failing here makes the runtime redeliver,
		// and the already-graded branch above repeats the fan-out.
		return fmt.Errorf("failed to enqueue achievement evaluation: %w", err)
	}

	return nil
}

// handleEvaluateAchievements awards achievements, fans out one
// notification job per award, and queues the progress recalculation that
// closes the assessment-submitted pipeline.
func (o *Orchestrator) handleEvaluateAchievements(ctx context.Context, job *Job) error {
	var payload EvaluateAchievementsPayload
	if err := job.DecodePayload(&payload); err != nil {
		return err
	}

	awarded, err := o.achievements.EvaluateUser(ctx, payload.UserID)
	if err != nil {
		return err
	}

	for _, achievement := range awarded {
		if err := o.queue.EnqueueNow(ctx, KindSendNotification, SendNotificationPayload{
			Address: payload.UserID,
			Subject: fmt.Sprintf("Achievement unlocked: %s", achievement.Name),
			Body:    achievement.Description,
		}); err != nil {
			// Notifications are best-effort and must not roll back the
			// awards that triggered them.
			o.logger.Error("Failed to enqueue achievement notification",
				"user_id", payload.UserID,
				"achievement_id", achievement.ID,
				"error", err)
		}
	}

	return o.queue.EnqueueNow(ctx, KindRecalculateProgress, RecalculateProgressPayload{
		UserID: payload.UserID,
	})
}

func (o *Orchestrator) handleRecalculateProgress(ctx context.Context, job *Job) error {
	var payload RecalculateProgressPayload
	if err := job.DecodePayload(&payload); err != nil {
		return err
	}

	return o.progress.RecalculateProgress(ctx, payload.UserID)
}

func (o *Orchestrator) handleRecalculateStreak(ctx context.Context, job *Job) error {
	var payload RecalculateStreakPayload
	if err := job.DecodePayload(&payload); err != nil {
		return err
	}

	_, err := o.streaks.RecalculateStreak(ctx, payload.UserID, time.Now())
	return err
}

func (o *Orchestrator) handleRecomputeBatchStats(ctx context.Context, job *Job) error {
	var payload RecomputeBatchStatsPayload
	if err := job.DecodePayload(&payload); err != nil {
		return err
	}

	_, err := o.batchStats.RecomputeBatchStats(ctx, payload.BatchID)
	return err
}

func (o *Orchestrator) handleSendNotification(ctx context.Context, job *Job) error {
	var payload SendNotificationPayload
	if err := job.DecodePayload(&payload); err != nil {
		return err
	}

	return o.notifications.Send(ctx, payload.Address, payload.Subject, payload.Body)
}

// handleSendBulkNotification fans a bulk request out into one independent
// send job per address, so one failing recipient never blocks the rest.
func (o *Orchestrator) handleSendBulkNotification(ctx context.Context, job *Job) error {
	var payload SendBulkNotificationPayload
	if err := job.DecodePayload(&payload); err != nil {
		return err
	}

	for _, address := range payload.Addresses {
		if err := o.queue.EnqueueNow(ctx, KindSendNotification, SendNotificationPayload{
			Address: address,
			Subject: payload.Subject,
			Body:    payload.Body,
		}); err != nil {
			return fmt.Errorf("failed to fan out notification to %s: %w", address, err)
		}
	}

	return nil
}

func (o *Orchestrator) handleCleanupActivities(ctx context.Context, job *Job) error {
	payload := CleanupActivitiesPayload{RetentionDays: defaultActivityRetentionDays}
	if len(job.Payload) > 0 {
		if err := job.DecodePayload(&payload); err != nil {
			return err
		}
	}
	if payload.RetentionDays <= 0 {
		payload.RetentionDays = defaultActivityRetentionDays
	}

	cutoff := time.Now().AddDate(0, 0, -payload.RetentionDays)
	deleted, err := o.repo.Activity().DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune activity log: %w", err)
	}

	o.logger.Info("Activity log pruned",
		"cutoff", cutoff.Format(time.DateOnly),
		"deleted", deleted)

	return nil
}
