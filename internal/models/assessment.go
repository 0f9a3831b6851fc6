package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionShortAnswer    QuestionType = "short_answer"
	QuestionEssay          QuestionType = "essay"
)

// IsObjective reports whether answers of this type can be auto-graded
// against a fixed answer key.
func (t QuestionType) IsObjective() bool {
	return t == QuestionMultipleChoice || t == QuestionTrueFalse
}

type Assessment struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	Title        string  `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	BatchID      *uint   `json:"batch_id" gorm:"index"`
	PassingScore float64 `json:"passing_score" gorm:"not null" validate:"min=0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Questions []Question `json:"questions" gorm:"foreignKey:AssessmentID"`
}

type Question struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	AssessmentID uint         `json:"assessment_id" gorm:"not null;index"`
	Type         QuestionType `json:"type" gorm:"not null"`
	Text         string       `json:"text" gorm:"type:text"`
	Points       float64      `json:"points" gorm:"not null" validate:"min=0"`
	Order        int          `json:"order" gorm:"column:question_order;default:0"`

	// Answer key for objective types, stored as a JSON array of option IDs.
	// Empty for essay/short-answer questions.
	CorrectAnswers datatypes.JSON `json:"correct_answers" gorm:"type:jsonb"`
}

func (Assessment) TableName() string {
	return "assessments"
}

func (Question) TableName() string {
	return "questions"
}
