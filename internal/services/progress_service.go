package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
)

// ProgressService derives a candidate's current level and confidence from
// their graded history. Runs after achievement evaluation in the
// assessment-submitted pipeline.
type ProgressService interface {
	RecalculateProgress(ctx context.Context, userID string) error
}

type progressService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewProgressService(repo repositories.Repository, logger *slog.Logger) ProgressService {
	return &progressService{
		repo:   repo,
		logger: logger,
	}
}

func (s *progressService) RecalculateProgress(ctx context.Context, userID string) error {
	if _, err := s.repo.Profile().GetByUser(ctx, userID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to get candidate profile: %w", err)
	}

	results, err := s.repo.Result().GetGradedByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get graded results: %w", err)
	}

	level, confidence := deriveProgress(results)

	if err := s.repo.Profile().UpdateProgress(ctx, userID, level, confidence); err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}

	s.logger.Info("Candidate progress recalculated",
		"user_id", userID,
		"level", level,
		"confidence", confidence,
		"graded_results", len(results))

	return nil
}

// deriveProgress maps graded history onto a skill level (by average
// percentage) and a confidence in [0,1] (pass rate).
func deriveProgress(results []*models.AssessmentResult) (models.SkillLevel, float64) {
	if len(results) == 0 {
		return models.LevelBeginner, 0
	}

	var sum float64
	passed := 0
	for _, result := range results {
		sum += result.Percentage
		if result.IsPassed {
			passed++
		}
	}
	average := sum / float64(len(results))
	confidence := float64(passed) / float64(len(results))

	switch {
	case average >= 85:
		return models.LevelExpert, confidence
	case average >= 70:
		return models.LevelAdvanced, confidence
	case average >= 50:
		return models.LevelIntermediate, confidence
	default:
		return models.LevelBeginner, confidence
	}
}
