package service

import (
	"errors"
	"fmt"

	"github.com/elvinbay/sinaq/internal/dto"
	"github.com/elvinbay/sinaq/internal/model"
	"github.com/elvinbay/sinaq/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

var ErrAttemptNotCompleted = errors.New("attempt is not completed")

// RegradeService applies a teacher's manual grading override to one answer,
// recomputes the attempt totals from the stored grading fields and re-runs
// the award pass for the exam. Re-running awards is safe: students already
// paid are skipped and a newly top-ranked student only fills a gap.
type RegradeService interface {
	OverrideAnswer(answerID uint, req dto.RegradeAnswerDTO) (*dto.AttemptResponseDTO, error)
}

type regradeService struct {
	answerRepo   repository.AnswerRepository
	attemptRepo  repository.AttemptRepository
	scoreService ScoreService
	awardService AwardService
}

func NewRegradeService(
	answerRepo repository.AnswerRepository,
	attemptRepo repository.AttemptRepository,
	scoreService ScoreService,
	awardService AwardService,
) RegradeService {
	return &regradeService{
		answerRepo:   answerRepo,
		attemptRepo:  attemptRepo,
		scoreService: scoreService,
		awardService: awardService,
	}
}

func (s *regradeService) OverrideAnswer(answerID uint, req dto.RegradeAnswerDTO) (*dto.AttemptResponseDTO, error) {
	answer, err := s.answerRepo.FindByID(answerID)
	if err != nil {
		return nil, fmt.Errorf("answer not found with ID %d: %w", answerID, err)
	}
	attempt, err := s.attemptRepo.FindByID(answer.AttemptID)
	if err != nil {
		return nil, fmt.Errorf("attempt not found with ID %d: %w", answer.AttemptID, err)
	}
	if attempt.Status != model.AttemptCompleted {
		return nil, ErrAttemptNotCompleted
	}

	points := req.AwardedPoints
	if points < 0 {
		points = 0
	}
	if points > answer.Question.MaxPoints {
		points = answer.Question.MaxPoints
	}
	if err := s.answerRepo.UpdateGrading(answer.ID, req.IsCorrect, points); err != nil {
		return nil, fmt.Errorf("failed to persist grading override for answer %d: %w", answer.ID, err)
	}

	if err := s.scoreService.RecomputeAttemptTotals(attempt); err != nil {
		return nil, err
	}
	if err := s.attemptRepo.Update(attempt); err != nil {
		return nil, fmt.Errorf("failed to persist recomputed attempt %d: %w", attempt.ID, err)
	}
	log.Info().
		Uint("answerID", answer.ID).
		Uint("attemptID", attempt.ID).
		Int("points", points).
		Msg("Answer re-graded")

	if err := s.awardService.AwardExam(attempt.ExamID); err != nil {
		log.Error().Err(err).Uint("examID", attempt.ExamID).Msg("Award pass after re-grade failed")
	}

	var resp dto.AttemptResponseDTO
	copier.Copy(&resp, attempt)
	return &resp, nil
}
