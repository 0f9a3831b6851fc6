package postgres

import (
	"context"
	"time"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementPostgreSQL struct {
	db *gorm.DB
}

func NewAchievementPostgreSQL(db *gorm.DB) repositories.AchievementRepository {
	return &AchievementPostgreSQL{db: db}
}

func (a AchievementPostgreSQL) GetActive(ctx context.Context) ([]*models.Achievement, error) {
	var achievements []*models.Achievement
	if err := a.db.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&achievements).Error; err != nil {
		return nil, err
	}

	return achievements, nil
}

func (a AchievementPostgreSQL) GetUserAchievements(ctx context.Context, userID string) ([]*models.UserAchievement, error) {
	var userAchievements []*models.UserAchievement
	if err := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&userAchievements).Error; err != nil {
		return nil, err
	}

	return userAchievements, nil
}

// InsertUserAchievementIfAbsent relies on the composite unique index on
// (user_id, achievement_id): ON CONFLICT DO NOTHING makes the insert a
// conditional write, so two concurrent evaluations cannot both land.
func (a AchievementPostgreSQL) InsertUserAchievementIfAbsent(ctx context.Context, userID string, achievementID uint, earnedAt time.Time) (bool, error) {
	userAchievement := models.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		EarnedAt:      earnedAt,
	}

	res := a.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).
		Create(&userAchievement)
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}
