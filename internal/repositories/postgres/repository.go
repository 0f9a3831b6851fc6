package postgres

import (
	"context"

	"github.com/SAP-F-2025/training-service/internal/repositories"
	"gorm.io/gorm"
)

type postgresRepository struct {
	db *gorm.DB

	result      repositories.ResultRepository
	question    repositories.QuestionRepository
	assessment  repositories.AssessmentRepository
	profile     repositories.ProfileRepository
	achievement repositories.AchievementRepository
	batch       repositories.BatchRepository
	activity    repositories.ActivityRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &postgresRepository{
		db:          db,
		result:      NewResultPostgreSQL(db),
		question:    NewQuestionPostgreSQL(db),
		assessment:  NewAssessmentPostgreSQL(db),
		profile:     NewProfilePostgreSQL(db),
		achievement: NewAchievementPostgreSQL(db),
		batch:       NewBatchPostgreSQL(db),
		activity:    NewActivityPostgreSQL(db),
	}
}

func (r *postgresRepository) Result() repositories.ResultRepository           { return r.result }
func (r *postgresRepository) Question() repositories.QuestionRepository      { return r.question }
func (r *postgresRepository) Assessment() repositories.AssessmentRepository  { return r.assessment }
func (r *postgresRepository) Profile() repositories.ProfileRepository        { return r.profile }
func (r *postgresRepository) Achievement() repositories.AchievementRepository { return r.achievement }
func (r *postgresRepository) Batch() repositories.BatchRepository            { return r.batch }
func (r *postgresRepository) Activity() repositories.ActivityRepository      { return r.activity }

func (r *postgresRepository) WithTx(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
