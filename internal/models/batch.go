package models

import "time"

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "Active"
	EnrollmentCompleted EnrollmentStatus = "Completed"
	EnrollmentDropped   EnrollmentStatus = "Dropped"
)

// Batch aggregate fields (CompletionRate, AverageScore, CurrentEnrollment)
// are recomputed as one logical update by the batch statistics job.
type Batch struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;size:200"`

	CompletionRate    float64 `json:"completion_rate" gorm:"default:0"`
	AverageScore      float64 `json:"average_score" gorm:"default:0"`
	CurrentEnrollment int     `json:"current_enrollment" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Enrollments []Enrollment `json:"enrollments" gorm:"foreignKey:BatchID"`
	Assessments []Assessment `json:"assessments" gorm:"foreignKey:BatchID"`
}

// Enrollment is read-only input to batch aggregation.
type Enrollment struct {
	ID      uint             `json:"id" gorm:"primaryKey"`
	BatchID uint             `json:"batch_id" gorm:"not null;index"`
	UserID  string           `json:"user_id" gorm:"not null;size:255;index"`
	Status  EnrollmentStatus `json:"status" gorm:"default:Active;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Batch) TableName() string {
	return "batches"
}

func (Enrollment) TableName() string {
	return "enrollments"
}
