package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
)

const (
	// Score achievements unlock at this graded percentage.
	scoreAchievementMinPercentage = 95.0
	// Streak achievements unlock at this many consecutive study days.
	streakAchievementMinDays = 7
)

// AchievementService decides which active achievements a candidate newly
// qualifies for and awards them exactly once. Concurrent evaluations of the
// same user are resolved by the conditional insert on the (user,
// achievement) unique index, not by any in-process locking.
type AchievementService interface {
	EvaluateUser(ctx context.Context, userID string) ([]*models.Achievement, error)
}

type achievementService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewAchievementService(repo repositories.Repository, logger *slog.Logger) AchievementService {
	return &achievementService{
		repo:   repo,
		logger: logger,
	}
}

// EvaluateUser returns the achievements awarded by this invocation.
// Achievements another evaluation inserted concurrently are skipped
// silently and not returned.
func (s *achievementService) EvaluateUser(ctx context.Context, userID string) ([]*models.Achievement, error) {
	profile, err := s.repo.Profile().GetByUser(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get candidate profile: %w", err)
	}

	achievements, err := s.repo.Achievement().GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active achievements: %w", err)
	}

	existing, err := s.repo.Achievement().GetUserAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user achievements: %w", err)
	}
	earned := make(map[uint]struct{}, len(existing))
	for _, ua := range existing {
		earned[ua.AchievementID] = struct{}{}
	}

	var awarded []*models.Achievement
	for _, achievement := range achievements {
		if _, ok := earned[achievement.ID]; ok {
			continue
		}

		qualifies, err := s.qualifies(ctx, profile, achievement)
		if err != nil {
			return awarded, err
		}
		if !qualifies {
			continue
		}

		// The award fact and its point credit commit together: a credit
		// failure rolls the insert back, so a retry can award again instead
		// of seeing a credited-nothing achievement.
		var inserted bool
		err = s.repo.WithTx(ctx, func(txRepo repositories.Repository) error {
			var txErr error
			inserted, txErr = txRepo.Achievement().InsertUserAchievementIfAbsent(ctx, userID, achievement.ID, time.Now())
			if txErr != nil {
				return fmt.Errorf("failed to insert user achievement: %w", txErr)
			}
			if !inserted {
				return nil
			}
			if txErr := txRepo.Profile().AddSkillPoints(ctx, userID, achievement.PointsAwarded); txErr != nil {
				return fmt.Errorf("failed to credit skill points: %w", txErr)
			}
			return nil
		})
		if err != nil {
			return awarded, err
		}
		if !inserted {
			// A concurrent evaluation already awarded it; that run also
			// credited the points.
			s.logger.Info("Achievement already awarded concurrently, skipping",
				"user_id", userID,
				"achievement_id", achievement.ID)
			continue
		}

		s.logger.Info("Achievement awarded",
			"user_id", userID,
			"achievement_id", achievement.ID,
			"achievement_type", achievement.Type,
			"points", achievement.PointsAwarded)

		awarded = append(awarded, achievement)
	}

	return awarded, nil
}

func (s *achievementService) qualifies(ctx context.Context, profile *models.CandidateProfile, achievement *models.Achievement) (bool, error) {
	switch achievement.Type {
	case models.AchievementScore:
		results, err := s.repo.Result().GetGradedByUser(ctx, profile.UserID)
		if err != nil {
			return false, fmt.Errorf("failed to get graded results: %w", err)
		}
		for _, result := range results {
			if result.Percentage >= scoreAchievementMinPercentage {
				return true, nil
			}
		}
		return false, nil

	case models.AchievementStreak:
		return profile.StudyStreak >= streakAchievementMinDays, nil

	case models.AchievementCompletion:
		has, err := s.repo.Result().HasGraded(ctx, profile.UserID)
		if err != nil {
			return false, fmt.Errorf("failed to check graded results: %w", err)
		}
		return has, nil

	default:
		// Forward-compatible default-deny for achievement types this
		// version does not know about.
		s.logger.Warn("Unknown achievement type, skipping",
			"achievement_id", achievement.ID,
			"achievement_type", achievement.Type)
		return false, nil
	}
}
