package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/training-service/internal/models"
)

// Repository is the aggregate store surface the job engines run against.
// Each job execution is stateless apart from what it reads and writes here.
type Repository interface {
	Result() ResultRepository
	Question() QuestionRepository
	Assessment() AssessmentRepository
	Profile() ProfileRepository
	Achievement() AchievementRepository
	Batch() BatchRepository
	Activity() ActivityRepository

	// WithTx runs fn against a Repository bound to a single transaction.
	// A non-nil error from fn rolls everything back.
	WithTx(ctx context.Context, fn func(Repository) error) error
}

// ResultRepository covers assessment result reads and the grading writes.
type ResultRepository interface {
	GetByID(ctx context.Context, id uint) (*models.AssessmentResult, error)
	GetByIDWithAnswers(ctx context.Context, id uint) (*models.AssessmentResult, error)
	Update(ctx context.Context, result *models.AssessmentResult) error
	UpdateAnswers(ctx context.Context, answers []*models.Answer) error

	GetGradedByUser(ctx context.Context, userID string) ([]*models.AssessmentResult, error)
	HasGraded(ctx context.Context, userID string) (bool, error)
	GetGradedForAssessments(ctx context.Context, assessmentIDs []uint, userIDs []string) ([]*models.AssessmentResult, error)
}

type QuestionRepository interface {
	GetByAssessment(ctx context.Context, assessmentID uint) ([]*models.Question, error)
}

type AssessmentRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Assessment, error)
	GetByBatch(ctx context.Context, batchID uint) ([]*models.Assessment, error)
}

// ProfileRepository exposes narrow column-level writes so concurrent jobs
// touching different fields of the same profile do not clobber each other.
type ProfileRepository interface {
	GetByUser(ctx context.Context, userID string) (*models.CandidateProfile, error)
	Save(ctx context.Context, profile *models.CandidateProfile) error

	// GetAllRanked returns every profile ordered by skill points descending,
	// ties broken by ascending user ID.
	GetAllRanked(ctx context.Context) ([]*models.CandidateProfile, error)
	UpdateRank(ctx context.Context, userID string, rank int) error
	AddSkillPoints(ctx context.Context, userID string, points int) error
	UpdateStreak(ctx context.Context, userID string, streak int) error
	UpdateProgress(ctx context.Context, userID string, level models.SkillLevel, confidence float64) error
}

type AchievementRepository interface {
	GetActive(ctx context.Context) ([]*models.Achievement, error)
	GetUserAchievements(ctx context.Context, userID string) ([]*models.UserAchievement, error)

	// InsertUserAchievementIfAbsent conditionally creates the (user,
	// achievement) fact. It reports false without error when the pair
	// already exists; the caller treats that as a benign concurrent award.
	InsertUserAchievementIfAbsent(ctx context.Context, userID string, achievementID uint, earnedAt time.Time) (bool, error)
}

type BatchRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Batch, error)
	GetByIDWithEnrollments(ctx context.Context, id uint) (*models.Batch, error)
	GetAll(ctx context.Context) ([]*models.Batch, error)

	// UpdateStats writes all aggregate fields as one logical update.
	UpdateStats(ctx context.Context, id uint, stats BatchStats) error
}

type ActivityRepository interface {
	GetByUserSince(ctx context.Context, userID string, since time.Time) ([]*models.UserActivity, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ===== SHARED STRUCTS =====

type BatchStats struct {
	CompletionRate    float64 `json:"completion_rate"`
	AverageScore      float64 `json:"average_score"`
	CurrentEnrollment int     `json:"current_enrollment"`
}
