package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
)

// GradingService auto-grades the objective answers of a submitted
// assessment result. Re-delivery of the grading job is safe: a result that
// is no longer in Submitted state is left untouched.
type GradingService interface {
	GradeResult(ctx context.Context, resultID uint) (*models.AssessmentResult, error)
}

type gradingService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewGradingService(repo repositories.Repository, logger *slog.Logger) GradingService {
	return &gradingService{
		repo:   repo,
		logger: logger,
	}
}

func (s *gradingService) GradeResult(ctx context.Context, resultID uint) (*models.AssessmentResult, error) {
	s.logger.Info("Grading assessment result", "result_id", resultID)

	result, err := s.repo.Result().GetByIDWithAnswers(ctx, resultID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get assessment result: %w", err)
	}

	// Idempotency guard: status is monotonic, Submitted -> Graded only.
	if result.Status != models.ResultSubmitted {
		s.logger.Info("Result not in submitted state, skipping grading",
			"result_id", resultID,
			"status", result.Status)
		return nil, ErrAlreadyGraded
	}

	questions, err := s.repo.Question().GetByAssessment(ctx, result.AssessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment questions: %w", err)
	}

	questionsByID := make(map[uint]*models.Question, len(questions))
	totalPossible := 0.0
	for _, q := range questions {
		questionsByID[q.ID] = q
		totalPossible += q.Points
	}

	var score float64
	graded := make([]*models.Answer, 0, len(result.Answers))

	for i := range result.Answers {
		answer := &result.Answers[i]
		question, ok := questionsByID[answer.QuestionID]
		if !ok {
			return nil, fmt.Errorf("%w: question %d for result %d", ErrQuestionNotFound, answer.QuestionID, resultID)
		}

		// Subjective questions keep their nil IsCorrect and are scored
		// manually outside this core.
		if !question.Type.IsObjective() {
			continue
		}

		correct := equalOptionSets(
			models.JSONStrings(answer.SelectedOptions),
			models.JSONStrings(question.CorrectAnswers),
		)
		answer.IsCorrect = &correct
		if correct {
			answer.PointsAwarded = question.Points
		} else {
			answer.PointsAwarded = 0
		}

		score += answer.PointsAwarded
		graded = append(graded, answer)
	}

	result.Score = score
	result.IsPassed = score >= result.Assessment.PassingScore
	result.Status = models.ResultGraded
	if totalPossible > 0 {
		result.Percentage = score / totalPossible * 100
	} else {
		result.Percentage = 0
	}
	if result.CompletedAt == nil {
		now := time.Now()
		result.CompletedAt = &now
	}

	// All-or-nothing: answers and the result row commit together, so a
	// redelivered job never observes a half-graded result.
	err = s.repo.WithTx(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Result().UpdateAnswers(ctx, graded); err != nil {
			return fmt.Errorf("failed to update answers: %w", err)
		}
		if err := txRepo.Result().Update(ctx, result); err != nil {
			return fmt.Errorf("failed to update result: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Assessment result graded",
		"result_id", resultID,
		"user_id", result.UserID,
		"score", result.Score,
		"percentage", result.Percentage,
		"passed", result.IsPassed)

	return result, nil
}

// equalOptionSets compares two option lists as sets; selection order does
// not matter and duplicates collapse.
func equalOptionSets(selected, correct []string) bool {
	if len(correct) == 0 {
		return len(selected) == 0
	}

	want := make(map[string]struct{}, len(correct))
	for _, option := range correct {
		want[option] = struct{}{}
	}

	got := make(map[string]struct{}, len(selected))
	for _, option := range selected {
		if _, ok := want[option]; !ok {
			return false
		}
		got[option] = struct{}{}
	}

	return len(got) == len(want)
}
