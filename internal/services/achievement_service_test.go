package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestAchievementService_EvaluateUser(t *testing.T) {
	streakAchievement := &models.Achievement{
		ID: 1, Type: models.AchievementStreak, Name: "Week Warrior", IsActive: true, PointsAwarded: 50,
	}
	scoreAchievement := &models.Achievement{
		ID: 2, Type: models.AchievementScore, Name: "Top Scorer", IsActive: true, PointsAwarded: 100,
	}

	t.Run("awards qualifying achievement and credits points", func(t *testing.T) {
		mockRepo := newMockRepository()

		mockRepo.profileRepo.On("GetByUser", mock.Anything, "user-1").
			Return(&models.CandidateProfile{UserID: "user-1", StudyStreak: 10}, nil)
		mockRepo.achievementRepo.On("GetActive", mock.Anything).
			Return([]*models.Achievement{streakAchievement}, nil)
		mockRepo.achievementRepo.On("GetUserAchievements", mock.Anything, "user-1").
			Return([]*models.UserAchievement{}, nil)
		mockRepo.achievementRepo.On("InsertUserAchievementIfAbsent", mock.Anything, "user-1", uint(1), mock.Anything).
			Return(true, nil)
		mockRepo.profileRepo.On("AddSkillPoints", mock.Anything, "user-1", 50).Return(nil)

		service := NewAchievementService(mockRepo, testLogger())
		awarded, err := service.EvaluateUser(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Len(t, awarded, 1)
		assert.Equal(t, "Week Warrior", awarded[0].Name)
		// The insert and the point credit share one transaction.
		assert.Equal(t, 1, mockRepo.withTxCalls)
		mockRepo.achievementRepo.AssertExpectations(t)
		mockRepo.profileRepo.AssertExpectations(t)
	})

	t.Run("credit failure fails the award so a retry re-awards", func(t *testing.T) {
		mockRepo := newMockRepository()

		mockRepo.profileRepo.On("GetByUser", mock.Anything, "user-1").
			Return(&models.CandidateProfile{UserID: "user-1", StudyStreak: 10}, nil)
		mockRepo.achievementRepo.On("GetActive", mock.Anything).
			Return([]*models.Achievement{streakAchievement}, nil)
		mockRepo.achievementRepo.On("GetUserAchievements", mock.Anything, "user-1").
			Return([]*models.UserAchievement{}, nil)
		mockRepo.achievementRepo.On("InsertUserAchievementIfAbsent", mock.Anything, "user-1", uint(1), mock.Anything).
			Return(true, nil)
		mockRepo.profileRepo.On("AddSkillPoints", mock.Anything, "user-1", 50).
			Return(errors.New("connection reset"))

		service := NewAchievementService(mockRepo, testLogger())
		awarded, err := service.EvaluateUser(context.Background(), "user-1")

		// The transaction rolls the insert back with the failed credit, so
		// the award is not reported and the caller retries the whole job.
		assert.Error(t, err)
		assert.Empty(t, awarded)
		assert.Equal(t, 1, mockRepo.withTxCalls)
	})

	t.Run("below threshold awards nothing", func(t *testing.T) {
		mockRepo := newMockRepository()

		mockRepo.profileRepo.On("GetByUser", mock.Anything, "user-1").
			Return(&models.CandidateProfile{UserID: "user-1", StudyStreak: 3}, nil)
		mockRepo.achievementRepo.On("GetActive", mock.Anything).
			Return([]*models.Achievement{streakAchievement}, nil)
		mockRepo.achievementRepo.On("GetUserAchievements", mock.Anything, "user-1").
			Return([]*models.UserAchievement{}, nil)

		service := NewAchievementService(mockRepo, testLogger())
		awarded, err := service.EvaluateUser(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Empty(t, awarded)
		mockRepo.achievementRepo.AssertNotCalled(t, "InsertUserAchievementIfAbsent",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("already earned achievement is not re-awarded", func(t *testing.T) {
		mockRepo := newMockRepository()

		mockRepo.profileRepo.On("GetByUser", mock.Anything, "user-1").
			Return(&models.CandidateProfile{UserID: "user-1", StudyStreak: 10}, nil)
		mockRepo.achievementRepo.On("GetActive", mock.Anything).
			Return([]*models.Achievement{streakAchievement}, nil)
		mockRepo.achievementRepo.On("GetUserAchievements", mock.Anything, "user-1").
			Return([]*models.UserAchievement{{UserID: "user-1", AchievementID: 1}}, nil)

		service := NewAchievementService(mockRepo, testLogger())
		awarded, err := service.EvaluateUser(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Empty(t, awarded)
		mockRepo.achievementRepo.AssertNotCalled(t, "InsertUserAchievementIfAbsent",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("concurrent award loses the insert race silently", func(t *testing.T) {
		mockRepo := newMockRepository()

		mockRepo.profileRepo.On("GetByUser", mock.Anything, "user-1").
			Return(&models.CandidateProfile{UserID: "user-1", StudyStreak: 10}, nil)
		mockRepo.achievementRepo.On("GetActive", mock.Anything).
			Return([]*models.Achievement{streakAchievement}, nil)
		mockRepo.achievementRepo.On("GetUserAchievements", mock.Anything, "user-1").
			Return([]*models.UserAchievement{}, nil)
		// Another evaluation won the conditional insert.
		mockRepo.achievementRepo.On("InsertUserAchievementIfAbsent", mock.Anything, "user-1", uint(1), mock.Anything).
			Return(false, nil)

		service := NewAchievementService(mockRepo, testLogger())
		awarded, err := service.EvaluateUser(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Empty(t, awarded)
		// The winner credited the points; this run must not double-credit.
		mockRepo.profileRepo.AssertNotCalled(t, "AddSkillPoints",
			mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("score achievement checks graded history", func(t *testing.T) {
		mockRepo := newMockRepository()

		mockRepo.profileRepo.On("GetByUser", mock.Anything, "user-1").
			Return(&models.CandidateProfile{UserID: "user-1"}, nil)
		mockRepo.achievementRepo.On("GetActive", mock.Anything).
			Return([]*models.Achievement{scoreAchievement}, nil)
		mockRepo.achievementRepo.On("GetUserAchievements", mock.Anything, "user-1").
			Return([]*models.UserAchievement{}, nil)
		mockRepo.resultRepo.On("GetGradedByUser", mock.Anything, "user-1").
			Return([]*models.AssessmentResult{
				{UserID: "user-1", Status: models.ResultGraded, Percentage: 96},
			}, nil)
		mockRepo.achievementRepo.On("InsertUserAchievementIfAbsent", mock.Anything, "user-1", uint(2), mock.Anything).
			Return(true, nil)
		mockRepo.profileRepo.On("AddSkillPoints", mock.Anything, "user-1", 100).Return(nil)

		service := NewAchievementService(mockRepo, testLogger())
		awarded, err := service.EvaluateUser(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Len(t, awarded, 1)
		assert.Equal(t, "Top Scorer", awarded[0].Name)
	})

	t.Run("unknown achievement type is skipped", func(t *testing.T) {
		mockRepo := newMockRepository()

		mockRepo.profileRepo.On("GetByUser", mock.Anything, "user-1").
			Return(&models.CandidateProfile{UserID: "user-1", StudyStreak: 100}, nil)
		mockRepo.achievementRepo.On("GetActive", mock.Anything).
			Return([]*models.Achievement{
				{ID: 9, Type: "mystery", Name: "Future Thing", IsActive: true, PointsAwarded: 10},
			}, nil)
		mockRepo.achievementRepo.On("GetUserAchievements", mock.Anything, "user-1").
			Return([]*models.UserAchievement{}, nil)

		service := NewAchievementService(mockRepo, testLogger())
		awarded, err := service.EvaluateUser(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Empty(t, awarded)
	})

	t.Run("missing profile is a no-op", func(t *testing.T) {
		mockRepo := newMockRepository()
		mockRepo.profileRepo.On("GetByUser", mock.Anything, "ghost").
			Return(nil, gorm.ErrRecordNotFound)

		service := NewAchievementService(mockRepo, testLogger())
		_, err := service.EvaluateUser(context.Background(), "ghost")

		assert.ErrorIs(t, err, ErrProfileNotFound)
		assert.True(t, IsNoOp(err))
	})
}
