package models

import (
	"time"

	"gorm.io/datatypes"
)

type SkillLevel string

const (
	LevelBeginner     SkillLevel = "beginner"
	LevelIntermediate SkillLevel = "intermediate"
	LevelAdvanced     SkillLevel = "advanced"
	LevelExpert       SkillLevel = "expert"
)

// CandidateProfile aggregates everything the dashboards show about a
// candidate. Rank is assigned by the ranking job, SkillPoints by the
// achievement evaluator, StudyStreak by the streak job, and
// CurrentLevel/ConfidenceLevel by the progress recalculation.
type CandidateProfile struct {
	UserID          string     `json:"user_id" gorm:"primaryKey;size:255"`
	SkillPoints     int        `json:"skill_points" gorm:"not null;default:0;index"`
	Rank            *int       `json:"rank" gorm:"index"` // nil until the first ranking run
	CurrentLevel    SkillLevel `json:"current_level" gorm:"default:beginner"`
	ConfidenceLevel float64    `json:"confidence_level" gorm:"default:0"` // 0..1
	StudyStreak     int        `json:"study_streak" gorm:"default:0"`

	StrongSubjects   datatypes.JSON `json:"strong_subjects" gorm:"type:jsonb"`   // []string
	ImprovementAreas datatypes.JSON `json:"improvement_areas" gorm:"type:jsonb"` // []string

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserActivity is an append-only log row; the streak job only reads it.
type UserActivity struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;size:255;index"`
	Kind      string    `json:"kind" gorm:"size:50"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (CandidateProfile) TableName() string {
	return "candidate_profiles"
}

func (UserActivity) TableName() string {
	return "user_activities"
}
