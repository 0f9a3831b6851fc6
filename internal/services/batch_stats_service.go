package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
)

// BatchStatsService recomputes a batch's aggregate fields. Dropped
// enrollments are excluded everywhere, and all three fields commit as one
// logical update so readers never see a half-refreshed batch.
type BatchStatsService interface {
	RecomputeBatchStats(ctx context.Context, batchID uint) (*repositories.BatchStats, error)
}

type batchStatsService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewBatchStatsService(repo repositories.Repository, logger *slog.Logger) BatchStatsService {
	return &batchStatsService{
		repo:   repo,
		logger: logger,
	}
}

func (s *batchStatsService) RecomputeBatchStats(ctx context.Context, batchID uint) (*repositories.BatchStats, error) {
	batch, err := s.repo.Batch().GetByIDWithEnrollments(ctx, batchID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}

	var completed int
	userIDs := make([]string, 0, len(batch.Enrollments))
	for _, enrollment := range batch.Enrollments {
		if enrollment.Status == models.EnrollmentDropped {
			continue
		}
		userIDs = append(userIDs, enrollment.UserID)
		if enrollment.Status == models.EnrollmentCompleted {
			completed++
		}
	}

	stats := repositories.BatchStats{
		CurrentEnrollment: len(userIDs),
	}
	if len(userIDs) > 0 {
		stats.CompletionRate = float64(completed) / float64(len(userIDs)) * 100
	}

	averageScore, err := s.averageGradedScore(ctx, batchID, userIDs)
	if err != nil {
		return nil, err
	}
	stats.AverageScore = averageScore

	if err := s.repo.Batch().UpdateStats(ctx, batchID, stats); err != nil {
		return nil, fmt.Errorf("failed to update batch stats: %w", err)
	}

	s.logger.Info("Batch statistics recomputed",
		"batch_id", batchID,
		"current_enrollment", stats.CurrentEnrollment,
		"completion_rate", stats.CompletionRate,
		"average_score", stats.AverageScore)

	return &stats, nil
}

// averageGradedScore averages the graded percentage over the batch's
// assessments restricted to the non-dropped enrollment set. Zero when there
// is nothing to average.
func (s *batchStatsService) averageGradedScore(ctx context.Context, batchID uint, userIDs []string) (float64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	assessments, err := s.repo.Assessment().GetByBatch(ctx, batchID)
	if err != nil {
		return 0, fmt.Errorf("failed to get batch assessments: %w", err)
	}
	if len(assessments) == 0 {
		return 0, nil
	}

	assessmentIDs := make([]uint, len(assessments))
	for i, assessment := range assessments {
		assessmentIDs[i] = assessment.ID
	}

	results, err := s.repo.Result().GetGradedForAssessments(ctx, assessmentIDs, userIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to get graded results: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}

	var sum float64
	for _, result := range results {
		sum += result.Percentage
	}

	return sum / float64(len(results)), nil
}
