package postgres

import (
	"context"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
	"gorm.io/gorm"
)

type BatchPostgreSQL struct {
	db *gorm.DB
}

func NewBatchPostgreSQL(db *gorm.DB) repositories.BatchRepository {
	return &BatchPostgreSQL{db: db}
}

func (b BatchPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Batch, error) {
	var batch models.Batch
	if err := b.db.WithContext(ctx).First(&batch, id).Error; err != nil {
		return nil, err
	}

	return &batch, nil
}

func (b BatchPostgreSQL) GetByIDWithEnrollments(ctx context.Context, id uint) (*models.Batch, error) {
	var batch models.Batch
	if err := b.db.WithContext(ctx).
		Preload("Enrollments").
		First(&batch, id).Error; err != nil {
		return nil, err
	}

	return &batch, nil
}

func (b BatchPostgreSQL) GetAll(ctx context.Context) ([]*models.Batch, error) {
	var batches []*models.Batch
	if err := b.db.WithContext(ctx).
		Order("id ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}

	return batches, nil
}

func (b BatchPostgreSQL) UpdateStats(ctx context.Context, id uint, stats repositories.BatchStats) error {
	return b.db.WithContext(ctx).
		Model(&models.Batch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"completion_rate":    stats.CompletionRate,
			"average_score":      stats.AverageScore,
			"current_enrollment": stats.CurrentEnrollment,
		}).Error
}
