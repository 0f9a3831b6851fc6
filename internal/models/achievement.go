package models

import "time"

type AchievementType string

const (
	AchievementScore      AchievementType = "score"
	AchievementStreak     AchievementType = "streak"
	AchievementCompletion AchievementType = "completion"
)

// Achievement is an immutable definition; the job core only reads it.
type Achievement struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Type          AchievementType `json:"type" gorm:"not null;index"`
	Name          string          `json:"name" gorm:"not null;size:100"`
	Description   string          `json:"description" gorm:"size:500"`
	IsActive      bool            `json:"is_active" gorm:"default:true;index"`
	PointsAwarded int             `json:"points_awarded" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
}

// UserAchievement is created exactly once per (user, achievement) pair.
// The composite unique index is the concurrency control point for the
// evaluator: a conditional insert against it either lands or is skipped.
type UserAchievement struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_user_achievement"`
	AchievementID uint      `json:"achievement_id" gorm:"not null;uniqueIndex:idx_user_achievement"`
	EarnedAt      time.Time `json:"earned_at" gorm:"not null"`

	// Relations
	Achievement Achievement `json:"achievement" gorm:"foreignKey:AchievementID"`
}

func (Achievement) TableName() string {
	return "achievements"
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
