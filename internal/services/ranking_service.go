package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/training-service/internal/cache"
	"github.com/SAP-F-2025/training-service/internal/repositories"
)

const (
	leaderboardCacheKey = "leaderboard:top"
	leaderboardCacheTTL = 15 * time.Minute
	leaderboardSize     = 100
)

// RankingService performs a full-snapshot recompute of candidate ranks.
// Ranks are dense and strictly sequential: equal skill points get adjacent
// distinct ranks, ties broken by ascending user ID so runs are
// reproducible. The run reflects whatever snapshot the store returned;
// point-earning writes landing mid-run surface in the next recompute.
type RankingService interface {
	RecomputeRankings(ctx context.Context) error
	Leaderboard(ctx context.Context) ([]LeaderboardEntry, error)
}

// LeaderboardEntry is the cached dashboard view of one ranked profile.
type LeaderboardEntry struct {
	UserID      string `json:"user_id"`
	Rank        int    `json:"rank"`
	SkillPoints int    `json:"skill_points"`
}

type rankingService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger *slog.Logger
}

func NewRankingService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger) RankingService {
	return &rankingService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
	}
}

func (s *rankingService) RecomputeRankings(ctx context.Context) error {
	started := time.Now()

	profiles, err := s.repo.Profile().GetAllRanked(ctx)
	if err != nil {
		return fmt.Errorf("failed to load candidate profiles: %w", err)
	}

	leaderboard := make([]LeaderboardEntry, 0, min(len(profiles), leaderboardSize))

	for position, profile := range profiles {
		rank := position + 1
		if profile.Rank == nil || *profile.Rank != rank {
			if err := s.repo.Profile().UpdateRank(ctx, profile.UserID, rank); err != nil {
				return fmt.Errorf("failed to update rank for user %s: %w", profile.UserID, err)
			}
		}

		if rank <= leaderboardSize {
			leaderboard = append(leaderboard, LeaderboardEntry{
				UserID:      profile.UserID,
				Rank:        rank,
				SkillPoints: profile.SkillPoints,
			})
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, leaderboardCacheKey, leaderboard, leaderboardCacheTTL); err != nil {
			// Cache refresh is best-effort; the ranking itself committed.
			s.logger.Warn("Failed to refresh leaderboard cache", "error", err)
		}
	}

	s.logger.Info("Rankings recomputed",
		"profiles", len(profiles),
		"duration", time.Since(started).String())

	return nil
}

// Leaderboard serves the cached top slice, rebuilding it from the store on
// a miss. The store fallback reads persisted ranks, so a cold cache still
// returns whatever the last recompute committed.
func (s *rankingService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	if s.cache != nil {
		var cached []LeaderboardEntry
		err := s.cache.Get(ctx, leaderboardCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Leaderboard cache read failed", "error", err)
		}
	}

	profiles, err := s.repo.Profile().GetAllRanked(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate profiles: %w", err)
	}

	leaderboard := make([]LeaderboardEntry, 0, min(len(profiles), leaderboardSize))
	for position, profile := range profiles {
		if position >= leaderboardSize {
			break
		}
		leaderboard = append(leaderboard, LeaderboardEntry{
			UserID:      profile.UserID,
			Rank:        position + 1,
			SkillPoints: profile.SkillPoints,
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, leaderboardCacheKey, leaderboard, leaderboardCacheTTL); err != nil {
			s.logger.Warn("Failed to refresh leaderboard cache", "error", err)
		}
	}

	return leaderboard, nil
}
