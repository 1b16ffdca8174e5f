package service

import (
	"fmt"

	"github.com/elvinbay/sinaq/internal/grading"
	"github.com/elvinbay/sinaq/internal/model"
	"github.com/elvinbay/sinaq/internal/repository"
	"github.com/rs/zerolog/log"
)

// ScoreService aggregates per-answer points into attempt totals.
type ScoreService interface {
	// ScoreAttempt grades every answered question of the attempt's exam,
	// persists the per-answer grading and sets the attempt's Score and
	// TotalScore fields. The attempt row itself is not persisted; callers
	// save it together with their own status transition. Re-running over
	// the same answers yields the same totals.
	ScoreAttempt(attempt *model.Attempt) error
	// RecomputeAttemptTotals re-sums the attempt's totals from the grading
	// fields already stored on its answers, without re-invoking the
	// grader. Used after a manual re-grade mutated one answer directly.
	RecomputeAttemptTotals(attempt *model.Attempt) error
}

type scoreService struct {
	examRepo   repository.ExamRepository
	answerRepo repository.AnswerRepository
	grader     *grading.Grader
}

func NewScoreService(examRepo repository.ExamRepository, answerRepo repository.AnswerRepository, grader *grading.Grader) ScoreService {
	return &scoreService{examRepo: examRepo, answerRepo: answerRepo, grader: grader}
}

func (s *scoreService) ScoreAttempt(attempt *model.Attempt) error {
	exam, err := s.examRepo.FindByIDWithQuestions(attempt.ExamID)
	if err != nil {
		return fmt.Errorf("failed to load exam %d for scoring: %w", attempt.ExamID, err)
	}
	answers, err := s.answerRepo.FindByAttempt(attempt.ID)
	if err != nil {
		return fmt.Errorf("failed to load answers for attempt %d: %w", attempt.ID, err)
	}
	answerByQuestion := make(map[uint]*model.Answer, len(answers))
	for i := range answers {
		answerByQuestion[answers[i].QuestionID] = &answers[i]
	}

	score, totalScore := 0, 0
	for _, question := range examQuestions(exam) {
		totalScore += question.MaxPoints
		answer, ok := answerByQuestion[question.ID]
		if !ok {
			// unanswered: counts toward the total only
			continue
		}
		correct, points := s.grader.Grade(question, answer)
		if err := s.answerRepo.UpdateGrading(answer.ID, correct, points); err != nil {
			return fmt.Errorf("failed to persist grading for answer %d: %w", answer.ID, err)
		}
		score += points
	}

	attempt.Score = &score
	attempt.TotalScore = &totalScore
	log.Info().
		Uint("attemptID", attempt.ID).
		Int("score", score).
		Int("totalScore", totalScore).
		Msg("Attempt scored")
	return nil
}

func (s *scoreService) RecomputeAttemptTotals(attempt *model.Attempt) error {
	exam, err := s.examRepo.FindByIDWithQuestions(attempt.ExamID)
	if err != nil {
		return fmt.Errorf("failed to load exam %d for recompute: %w", attempt.ExamID, err)
	}
	answers, err := s.answerRepo.FindByAttempt(attempt.ID)
	if err != nil {
		return fmt.Errorf("failed to load answers for attempt %d: %w", attempt.ID, err)
	}

	totalScore := 0
	for _, question := range examQuestions(exam) {
		totalScore += question.MaxPoints
	}
	score := 0
	for _, answer := range answers {
		score += answer.AwardedPoints
	}

	attempt.Score = &score
	attempt.TotalScore = &totalScore
	return nil
}

// examQuestions walks every question container of the exam exactly once:
// the standalone list, then each topic's list.
func examQuestions(exam *model.Exam) []*model.Question {
	var questions []*model.Question
	for i := range exam.Questions {
		questions = append(questions, &exam.Questions[i])
	}
	for t := range exam.Topics {
		for i := range exam.Topics[t].Questions {
			questions = append(questions, &exam.Topics[t].Questions[i])
		}
	}
	return questions
}
