package postgres

import (
	"context"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
	"gorm.io/gorm"
)

type AssessmentPostgreSQL struct {
	db *gorm.DB
}

func NewAssessmentPostgreSQL(db *gorm.DB) repositories.AssessmentRepository {
	return &AssessmentPostgreSQL{db: db}
}

func (a AssessmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Assessment, error) {
	var assessment models.Assessment
	if err := a.db.WithContext(ctx).First(&assessment, id).Error; err != nil {
		return nil, err
	}

	return &assessment, nil
}

func (a AssessmentPostgreSQL) GetByBatch(ctx context.Context, batchID uint) ([]*models.Assessment, error) {
	var assessments []*models.Assessment
	if err := a.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Find(&assessments).Error; err != nil {
		return nil, err
	}

	return assessments, nil
}

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q QuestionPostgreSQL) GetByAssessment(ctx context.Context, assessmentID uint) ([]*models.Question, error) {
	var questions []*models.Question
	if err := q.db.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("question_order ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}
