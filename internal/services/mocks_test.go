package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockResultRepository is a mock implementation of ResultRepository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) GetByID(ctx context.Context, id uint) (*models.AssessmentResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssessmentResult), args.Error(1)
}

func (m *MockResultRepository) GetByIDWithAnswers(ctx context.Context, id uint) (*models.AssessmentResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssessmentResult), args.Error(1)
}

func (m *MockResultRepository) Update(ctx context.Context, result *models.AssessmentResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) UpdateAnswers(ctx context.Context, answers []*models.Answer) error {
	args := m.Called(ctx, answers)
	return args.Error(0)
}

func (m *MockResultRepository) GetGradedByUser(ctx context.Context, userID string) ([]*models.AssessmentResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AssessmentResult), args.Error(1)
}

func (m *MockResultRepository) HasGraded(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockResultRepository) GetGradedForAssessments(ctx context.Context, assessmentIDs []uint, userIDs []string) ([]*models.AssessmentResult, error) {
	args := m.Called(ctx, assessmentIDs, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AssessmentResult), args.Error(1)
}

// MockQuestionRepository is a mock implementation of QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) GetByAssessment(ctx context.Context, assessmentID uint) ([]*models.Question, error) {
	args := m.Called(ctx, assessmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Question), args.Error(1)
}

// MockAssessmentRepository is a mock implementation of AssessmentRepository
type MockAssessmentRepository struct {
	mock.Mock
}

func (m *MockAssessmentRepository) GetByID(ctx context.Context, id uint) (*models.Assessment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) GetByBatch(ctx context.Context, batchID uint) ([]*models.Assessment, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Assessment), args.Error(1)
}

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByUser(ctx context.Context, userID string) (*models.CandidateProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CandidateProfile), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, profile *models.CandidateProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetAllRanked(ctx context.Context) ([]*models.CandidateProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CandidateProfile), args.Error(1)
}

func (m *MockProfileRepository) UpdateRank(ctx context.Context, userID string, rank int) error {
	args := m.Called(ctx, userID, rank)
	return args.Error(0)
}

func (m *MockProfileRepository) AddSkillPoints(ctx context.Context, userID string, points int) error {
	args := m.Called(ctx, userID, points)
	return args.Error(0)
}

func (m *MockProfileRepository) UpdateStreak(ctx context.Context, userID string, streak int) error {
	args := m.Called(ctx, userID, streak)
	return args.Error(0)
}

func (m *MockProfileRepository) UpdateProgress(ctx context.Context, userID string, level models.SkillLevel, confidence float64) error {
	args := m.Called(ctx, userID, level, confidence)
	return args.Error(0)
}

// MockAchievementRepository is a mock implementation of AchievementRepository
type MockAchievementRepository struct {
	mock.Mock
}

func (m *MockAchievementRepository) GetActive(ctx context.Context) ([]*models.Achievement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Achievement), args.Error(1)
}

func (m *MockAchievementRepository) GetUserAchievements(ctx context.Context, userID string) ([]*models.UserAchievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserAchievement), args.Error(1)
}

func (m *MockAchievementRepository) InsertUserAchievementIfAbsent(ctx context.Context, userID string, achievementID uint, earnedAt time.Time) (bool, error) {
	args := m.Called(ctx, userID, achievementID, earnedAt)
	return args.Bool(0), args.Error(1)
}

// MockBatchRepository is a mock implementation of BatchRepository
type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) GetByID(ctx context.Context, id uint) (*models.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Batch), args.Error(1)
}

func (m *MockBatchRepository) GetByIDWithEnrollments(ctx context.Context, id uint) (*models.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Batch), args.Error(1)
}

func (m *MockBatchRepository) GetAll(ctx context.Context) ([]*models.Batch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Batch), args.Error(1)
}

func (m *MockBatchRepository) UpdateStats(ctx context.Context, id uint, stats repositories.BatchStats) error {
	args := m.Called(ctx, id, stats)
	return args.Error(0)
}

// MockActivityRepository is a mock implementation of ActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) GetByUserSince(ctx context.Context, userID string, since time.Time) ([]*models.UserActivity, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserActivity), args.Error(1)
}

func (m *MockActivityRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockRepository is a mock implementation of the aggregate Repository.
// WithTx runs the callback against the same mocks and counts invocations,
// which is enough to verify the writes a service groups into one
// transaction.
type MockRepository struct {
	resultRepo      *MockResultRepository
	questionRepo    *MockQuestionRepository
	assessmentRepo  *MockAssessmentRepository
	profileRepo     *MockProfileRepository
	achievementRepo *MockAchievementRepository
	batchRepo       *MockBatchRepository
	activityRepo    *MockActivityRepository
	withTxCalls     int
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		resultRepo:      &MockResultRepository{},
		questionRepo:    &MockQuestionRepository{},
		assessmentRepo:  &MockAssessmentRepository{},
		profileRepo:     &MockProfileRepository{},
		achievementRepo: &MockAchievementRepository{},
		batchRepo:       &MockBatchRepository{},
		activityRepo:    &MockActivityRepository{},
	}
}

func (m *MockRepository) Result() repositories.ResultRepository           { return m.resultRepo }
func (m *MockRepository) Question() repositories.QuestionRepository       { return m.questionRepo }
func (m *MockRepository) Assessment() repositories.AssessmentRepository   { return m.assessmentRepo }
func (m *MockRepository) Profile() repositories.ProfileRepository         { return m.profileRepo }
func (m *MockRepository) Achievement() repositories.AchievementRepository { return m.achievementRepo }
func (m *MockRepository) Batch() repositories.BatchRepository             { return m.batchRepo }
func (m *MockRepository) Activity() repositories.ActivityRepository       { return m.activityRepo }

func (m *MockRepository) WithTx(ctx context.Context, fn func(repositories.Repository) error) error {
	m.withTxCalls++
	return fn(m)
}
