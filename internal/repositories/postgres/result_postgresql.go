package postgres

import (
	"context"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
	"gorm.io/gorm"
)

type ResultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{db: db}
}

func (r ResultPostgreSQL) GetByID(ctx context.Context, id uint) (*models.AssessmentResult, error) {
	var result models.AssessmentResult
	if err := r.db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r ResultPostgreSQL) GetByIDWithAnswers(ctx context.Context, id uint) (*models.AssessmentResult, error) {
	var result models.AssessmentResult
	if err := r.db.WithContext(ctx).
		Preload("Assessment").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.position ASC")
		}).
		First(&result, id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r ResultPostgreSQL) Update(ctx context.Context, result *models.AssessmentResult) error {
	return r.db.WithContext(ctx).
		Omit("Assessment", "Answers").
		Save(result).Error
}

func (r ResultPostgreSQL) UpdateAnswers(ctx context.Context, answers []*models.Answer) error {
	for _, answer := range answers {
		if err := r.db.WithContext(ctx).
			Model(&models.Answer{}).
			Where("id = ?", answer.ID).
			Updates(map[string]interface{}{
				"is_correct":     answer.IsCorrect,
				"points_awarded": answer.PointsAwarded,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r ResultPostgreSQL) GetGradedByUser(ctx context.Context, userID string) ([]*models.AssessmentResult, error) {
	var results []*models.AssessmentResult
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.ResultGraded).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r ResultPostgreSQL) HasGraded(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AssessmentResult{}).
		Where("user_id = ? AND status = ?", userID, models.ResultGraded).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r ResultPostgreSQL) GetGradedForAssessments(ctx context.Context, assessmentIDs []uint, userIDs []string) ([]*models.AssessmentResult, error) {
	if len(assessmentIDs) == 0 || len(userIDs) == 0 {
		return nil, nil
	}

	var results []*models.AssessmentResult
	if err := r.db.WithContext(ctx).
		Where("assessment_id IN ? AND user_id IN ? AND status = ?",
			assessmentIDs, userIDs, models.ResultGraded).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}
