package postgres

import (
	"context"
	"time"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
	"gorm.io/gorm"
)

type ProfilePostgreSQL struct {
	db *gorm.DB
}

func NewProfilePostgreSQL(db *gorm.DB) repositories.ProfileRepository {
	return &ProfilePostgreSQL{db: db}
}

func (p ProfilePostgreSQL) GetByUser(ctx context.Context, userID string) (*models.CandidateProfile, error) {
	var profile models.CandidateProfile
	if err := p.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return nil, err
	}

	return &profile, nil
}

func (p ProfilePostgreSQL) Save(ctx context.Context, profile *models.CandidateProfile) error {
	return p.db.WithContext(ctx).Save(profile).Error
}

func (p ProfilePostgreSQL) GetAllRanked(ctx context.Context) ([]*models.CandidateProfile, error) {
	var profiles []*models.CandidateProfile
	if err := p.db.WithContext(ctx).
		Order("skill_points DESC, user_id ASC").
		Find(&profiles).Error; err != nil {
		return nil, err
	}

	return profiles, nil
}

func (p ProfilePostgreSQL) UpdateRank(ctx context.Context, userID string, rank int) error {
	return p.db.WithContext(ctx).
		Model(&models.CandidateProfile{}).
		Where("user_id = ?", userID).
		Update("rank", rank).Error
}

// AddSkillPoints increments skill_points in the database so concurrent
// awards never lose an update.
func (p ProfilePostgreSQL) AddSkillPoints(ctx context.Context, userID string, points int) error {
	return p.db.WithContext(ctx).
		Model(&models.CandidateProfile{}).
		Where("user_id = ?", userID).
		Update("skill_points", gorm.Expr("skill_points + ?", points)).Error
}

func (p ProfilePostgreSQL) UpdateStreak(ctx context.Context, userID string, streak int) error {
	return p.db.WithContext(ctx).
		Model(&models.CandidateProfile{}).
		Where("user_id = ?", userID).
		Update("study_streak", streak).Error
}

func (p ProfilePostgreSQL) UpdateProgress(ctx context.Context, userID string, level models.SkillLevel, confidence float64) error {
	return p.db.WithContext(ctx).
		Model(&models.CandidateProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"current_level":    level,
			"confidence_level": confidence,
		}).Error
}

type ActivityPostgreSQL struct {
	db *gorm.DB
}

func NewActivityPostgreSQL(db *gorm.DB) repositories.ActivityRepository {
	return &ActivityPostgreSQL{db: db}
}

func (a ActivityPostgreSQL) GetByUserSince(ctx context.Context, userID string, since time.Time) ([]*models.UserActivity, error) {
	var activities []*models.UserActivity
	if err := a.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		Find(&activities).Error; err != nil {
		return nil, err
	}

	return activities, nil
}

func (a ActivityPostgreSQL) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := a.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.UserActivity{})

	return res.RowsAffected, res.Error
}
