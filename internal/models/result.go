package models

import (
	"time"

	"gorm.io/datatypes"
)

type ResultStatus string

const (
	ResultSubmitted ResultStatus = "Submitted"
	ResultGraded    ResultStatus = "Graded"
)

// AssessmentResult is a student's submitted assessment. Status only moves
// forward (Submitted -> Graded); the grading job is the sole writer of the
// score fields.
type AssessmentResult struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	AssessmentID uint         `json:"assessment_id" gorm:"not null;index"`
	UserID       string       `json:"user_id" gorm:"not null;size:255;index"`
	Status       ResultStatus `json:"status" gorm:"default:Submitted;index"`

	Score       float64    `json:"score"`
	Percentage  float64    `json:"percentage"`
	IsPassed    bool       `json:"is_passed"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Assessment Assessment `json:"assessment" gorm:"foreignKey:AssessmentID"`
	Answers    []Answer   `json:"answers" gorm:"foreignKey:ResultID"`
}

// Answer is owned by its AssessmentResult and only mutated during grading.
type Answer struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	ResultID   uint `json:"result_id" gorm:"not null;index"`
	QuestionID uint `json:"question_id" gorm:"not null;index"`
	Position   int  `json:"position" gorm:"default:0"`

	// Selected option IDs as a JSON array; order is not significant.
	SelectedOptions datatypes.JSON `json:"selected_options" gorm:"type:jsonb"`

	IsCorrect     *bool   `json:"is_correct"` // nil until graded, stays nil for subjective types
	PointsAwarded float64 `json:"points_awarded"`
}

func (AssessmentResult) TableName() string {
	return "assessment_results"
}

func (Answer) TableName() string {
	return "answers"
}
