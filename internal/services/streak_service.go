package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/training-service/internal/repositories"
)

// streakLookback bounds how much of the activity log a streak recompute
// reads. Anything older cannot extend a streak that reaches today.
const streakLookback = 365 * 24 * time.Hour

// ComputeStreak returns the number of consecutive calendar days ending at
// "now" on which at least one activity occurred. It is a pure function so
// tests control the clock.
func ComputeStreak(activities []time.Time, now time.Time) int {
	if len(activities) == 0 {
		return 0
	}

	days := make(map[string]struct{}, len(activities))
	for _, at := range activities {
		days[at.In(now.Location()).Format("2006-01-02")] = struct{}{}
	}

	streak := 0
	for {
		cursor := now.AddDate(0, 0, -streak).Format("2006-01-02")
		if _, ok := days[cursor]; !ok {
			break
		}
		streak++
	}

	return streak
}

// StreakService recomputes a candidate's study streak from the activity log
// and persists it on the profile.
type StreakService interface {
	RecalculateStreak(ctx context.Context, userID string, now time.Time) (int, error)
}

type streakService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewStreakService(repo repositories.Repository, logger *slog.Logger) StreakService {
	return &streakService{
		repo:   repo,
		logger: logger,
	}
}

func (s *streakService) RecalculateStreak(ctx context.Context, userID string, now time.Time) (int, error) {
	if _, err := s.repo.Profile().GetByUser(ctx, userID); err != nil {
		if repositories.IsNotFoundError(err) {
			return 0, ErrProfileNotFound
		}
		return 0, fmt.Errorf("failed to get candidate profile: %w", err)
	}

	activities, err := s.repo.Activity().GetByUserSince(ctx, userID, now.Add(-streakLookback))
	if err != nil {
		return 0, fmt.Errorf("failed to get user activities: %w", err)
	}

	timestamps := make([]time.Time, len(activities))
	for i, activity := range activities {
		timestamps[i] = activity.CreatedAt
	}

	streak := ComputeStreak(timestamps, now)

	if err := s.repo.Profile().UpdateStreak(ctx, userID, streak); err != nil {
		return 0, fmt.Errorf("failed to update study streak: %w", err)
	}

	s.logger.Info("Study streak recalculated",
		"user_id", userID,
		"streak", streak,
		"activities", len(activities))

	return streak, nil
}
