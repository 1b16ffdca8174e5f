package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/elvinbay/sinaq/internal/dto"
	"github.com/elvinbay/sinaq/internal/model"
	"github.com/elvinbay/sinaq/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

var (
	ErrExamNotPublished     = errors.New("exam is not published")
	ErrAttemptNotInProgress = errors.New("attempt is not in progress")
	ErrAttemptExpired       = errors.New("attempt has expired")
	ErrNotAttemptOwner      = errors.New("attempt belongs to another student")
	ErrQuestionNotInExam    = errors.New("question does not belong to the attempt's exam")
)

// AttemptService owns the attempt lifecycle: start, answer, submit. A
// successful submit grades the attempt and kicks off an award pass for its
// exam.
type AttemptService interface {
	StartAttempt(examID uint, req dto.StartAttemptDTO) (*dto.AttemptResponseDTO, error)
	SaveAnswer(attemptID uint, req dto.SaveAnswerDTO) error
	SubmitAttempt(attemptID uint, req dto.SubmitAttemptDTO) (*dto.AttemptResponseDTO, error)
	GetStudentAttempts(studentID uint) ([]dto.AttemptSummaryDTO, error)
}

type attemptService struct {
	examRepo     repository.ExamRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.AttemptRepository
	answerRepo   repository.AnswerRepository
	scoreService ScoreService
	awardService AwardService
	now          func() time.Time
}

func NewAttemptService(
	examRepo repository.ExamRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	scoreService ScoreService,
	awardService AwardService,
	now func() time.Time,
) AttemptService {
	if now == nil {
		now = time.Now
	}
	return &attemptService{
		examRepo:     examRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		answerRepo:   answerRepo,
		scoreService: scoreService,
		awardService: awardService,
		now:          now,
	}
}

func (s *attemptService) StartAttempt(examID uint, req dto.StartAttemptDTO) (*dto.AttemptResponseDTO, error) {
	exam, err := s.examRepo.FindByID(examID)
	if err != nil {
		return nil, fmt.Errorf("exam not found with ID %d: %w", examID, err)
	}
	if exam.PublishedAt == nil {
		return nil, ErrExamNotPublished
	}

	startedAt := s.now()
	attempt := model.Attempt{
		ExamID:    examID,
		StudentID: req.StudentID,
		Status:    model.AttemptInProgress,
		StartedAt: startedAt,
		ExpiresAt: startedAt.Add(time.Duration(exam.DurationMinutes) * time.Minute),
	}
	if err := s.attemptRepo.Create(&attempt); err != nil {
		log.Error().Err(err).Uint("examID", examID).Uint("studentID", req.StudentID).Msg("Failed to create attempt")
		return nil, fmt.Errorf("failed to start attempt: %w", err)
	}

	var resp dto.AttemptResponseDTO
	copier.Copy(&resp, &attempt)
	return &resp, nil
}

func (s *attemptService) SaveAnswer(attemptID uint, req dto.SaveAnswerDTO) error {
	attempt, err := s.loadOwnedAttempt(attemptID, req.StudentID)
	if err != nil {
		return err
	}
	if attempt.Status != model.AttemptInProgress {
		return ErrAttemptNotInProgress
	}
	if expired, err := s.timeOutIfExpired(attempt); err != nil {
		return err
	} else if expired {
		return ErrAttemptExpired
	}

	question, err := s.questionRepo.FindByID(req.QuestionID)
	if err != nil {
		return fmt.Errorf("question not found with ID %d: %w", req.QuestionID, err)
	}
	if question.ExamID != attempt.ExamID {
		return ErrQuestionNotInExam
	}

	answer := model.Answer{
		AttemptID:  attempt.ID,
		QuestionID: question.ID,
		OptionID:   req.OptionID,
		FreeText:   req.FreeText,
	}
	if err := s.answerRepo.Upsert(&answer); err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}
	return nil
}

func (s *attemptService) SubmitAttempt(attemptID uint, req dto.SubmitAttemptDTO) (*dto.AttemptResponseDTO, error) {
	attempt, err := s.loadOwnedAttempt(attemptID, req.StudentID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, ErrAttemptNotInProgress
	}
	if expired, err := s.timeOutIfExpired(attempt); err != nil {
		return nil, err
	} else if expired {
		return nil, ErrAttemptExpired
	}

	if err := s.scoreService.ScoreAttempt(attempt); err != nil {
		return nil, err
	}
	submittedAt := s.now()
	attempt.SubmittedAt = &submittedAt
	attempt.Status = model.AttemptCompleted
	if err := s.attemptRepo.Update(attempt); err != nil {
		return nil, fmt.Errorf("failed to persist submitted attempt %d: %w", attempt.ID, err)
	}

	// Award processing is best effort: the submission already succeeded,
	// and a failed pass is retried by the next trigger.
	if err := s.awardService.AwardExam(attempt.ExamID); err != nil {
		log.Error().Err(err).Uint("examID", attempt.ExamID).Msg("Award pass after submission failed")
	}

	detailed, err := s.attemptRepo.FindByIDWithAnswers(attempt.ID)
	if err != nil {
		log.Warn().Err(err).Uint("attemptID", attempt.ID).Msg("Failed to reload attempt after submission, returning partial response")
		detailed = attempt
	}
	var resp dto.AttemptResponseDTO
	copier.Copy(&resp, detailed)
	return &resp, nil
}

func (s *attemptService) GetStudentAttempts(studentID uint) ([]dto.AttemptSummaryDTO, error) {
	attempts, err := s.attemptRepo.FindByStudent(studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attempts for student %d: %w", studentID, err)
	}
	var dtos []dto.AttemptSummaryDTO
	copier.Copy(&dtos, &attempts)
	return dtos, nil
}

func (s *attemptService) loadOwnedAttempt(attemptID, studentID uint) (*model.Attempt, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		return nil, fmt.Errorf("attempt not found with ID %d: %w", attemptID, err)
	}
	if attempt.StudentID != studentID {
		return nil, ErrNotAttemptOwner
	}
	return attempt, nil
}

// timeOutIfExpired flips an in-progress attempt past its deadline into
// TIMED_OUT, a terminal state.
func (s *attemptService) timeOutIfExpired(attempt *model.Attempt) (bool, error) {
	if !s.now().After(attempt.ExpiresAt) {
		return false, nil
	}
	attempt.Status = model.AttemptTimedOut
	if err := s.attemptRepo.Update(attempt); err != nil {
		return false, fmt.Errorf("failed to time out attempt %d: %w", attempt.ID, err)
	}
	log.Info().Uint("attemptID", attempt.ID).Msg("Attempt timed out")
	return true, nil
}
