package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/elvinbay/sinaq/internal/dto"
	"github.com/elvinbay/sinaq/internal/model"
	"github.com/elvinbay/sinaq/internal/repository"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

var ErrExamAlreadyPublished = errors.New("exam is already published")

// ExamService covers teacher-side authoring: create an exam with its
// standalone and topic-grouped questions, then publish it. Questions are
// immutable after publish in the normal flow.
type ExamService interface {
	CreateExam(req dto.ExamCreateDTO) (*dto.ExamResponseDTO, error)
	PublishExam(examID uint) (*dto.ExamResponseDTO, error)
	GetExam(examID uint) (*dto.ExamResponseDTO, error)
}

type examService struct {
	examRepo repository.ExamRepository
	now      func() time.Time
}

func NewExamService(examRepo repository.ExamRepository, now func() time.Time) ExamService {
	if now == nil {
		now = time.Now
	}
	return &examService{examRepo: examRepo, now: now}
}

func (s *examService) CreateExam(req dto.ExamCreateDTO) (*dto.ExamResponseDTO, error) {
	if len(req.Questions) == 0 && len(req.Topics) == 0 {
		return nil, fmt.Errorf("exam must contain at least one question")
	}

	exam := model.Exam{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
	}
	for _, qDto := range req.Questions {
		question, err := buildQuestion(qDto)
		if err != nil {
			return nil, err
		}
		exam.Questions = append(exam.Questions, *question)
	}
	for i, tDto := range req.Topics {
		topic := model.Topic{Title: tDto.Title, Order: i}
		for _, qDto := range tDto.Questions {
			question, err := buildQuestion(qDto)
			if err != nil {
				return nil, err
			}
			topic.Questions = append(topic.Questions, *question)
		}
		exam.Topics = append(exam.Topics, topic)
	}

	if err := s.examRepo.Create(&exam); err != nil {
		log.Error().Err(err).Msg("Failed to create exam")
		return nil, fmt.Errorf("database error creating exam: %w", err)
	}
	return s.GetExam(exam.ID)
}

func (s *examService) PublishExam(examID uint) (*dto.ExamResponseDTO, error) {
	exam, err := s.examRepo.FindByID(examID)
	if err != nil {
		return nil, fmt.Errorf("exam not found with ID %d: %w", examID, err)
	}
	if exam.PublishedAt != nil {
		return nil, ErrExamAlreadyPublished
	}
	publishedAt := s.now()
	exam.PublishedAt = &publishedAt
	if err := s.examRepo.Update(exam); err != nil {
		return nil, fmt.Errorf("failed to publish exam %d: %w", examID, err)
	}
	log.Info().Uint("examID", examID).Time("publishedAt", publishedAt).Msg("Exam published")
	return s.GetExam(examID)
}

func (s *examService) GetExam(examID uint) (*dto.ExamResponseDTO, error) {
	exam, err := s.examRepo.FindByIDWithQuestions(examID)
	if err != nil {
		return nil, fmt.Errorf("exam not found with ID %d: %w", examID, err)
	}
	var resp dto.ExamResponseDTO
	if err := copier.Copy(&resp, exam); err != nil {
		return nil, fmt.Errorf("error preparing exam response: %w", err)
	}
	return &resp, nil
}

// buildQuestion turns an authoring DTO into a question with pre-generated
// option ids, so a multiple-choice correct reference can point at its
// option before anything is persisted.
func buildQuestion(qDto dto.QuestionCreateDTO) (*model.Question, error) {
	question := model.Question{
		Text:      qDto.Text,
		Kind:      model.QuestionKind(qDto.Kind),
		MaxPoints: qDto.MaxPoints,
	}
	switch question.Kind {
	case model.KindMultipleChoice:
		if len(qDto.Options) < 2 {
			return nil, fmt.Errorf("question %q needs at least two options", qDto.Text)
		}
		if qDto.CorrectOptionIndex == nil {
			return nil, fmt.Errorf("question %q is missing correct_option_index", qDto.Text)
		}
		idx := *qDto.CorrectOptionIndex
		if idx < 0 || idx >= len(qDto.Options) {
			return nil, fmt.Errorf("correct_option_index %d out of range for question %q", idx, qDto.Text)
		}
		for i, oDto := range qDto.Options {
			question.Options = append(question.Options, model.Option{
				ID:    uuid.NewString(),
				Text:  oDto.Text,
				Order: i,
			})
		}
		question.CorrectAnswerRef = question.Options[idx].ID
	case model.KindOpenEnded:
		if qDto.ModelAnswerText == "" {
			return nil, fmt.Errorf("question %q is missing model_answer_text", qDto.Text)
		}
		question.ModelAnswerText = qDto.ModelAnswerText
	default:
		return nil, fmt.Errorf("unsupported question kind %q", qDto.Kind)
	}
	return &question, nil
}
