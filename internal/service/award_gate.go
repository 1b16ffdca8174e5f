package service

import (
	"fmt"
	"time"

	"github.com/elvinbay/sinaq/internal/model"
	"github.com/elvinbay/sinaq/internal/repository"
	"github.com/rs/zerolog/log"
)

// GateReason explains why an exam is or is not eligible for award
// processing. Every non-eligible reason is a no-op outcome, not an error.
type GateReason string

const (
	GateEligible          GateReason = "eligible"
	GateNotPublished      GateReason = "not_published"
	GateDelayNotElapsed   GateReason = "delay_not_elapsed"
	GateIncompleteGrading GateReason = "incomplete_grading"
)

// AwardGate decides whether an exam may be award-processed right now:
// the exam must be published, the configured delay must have elapsed, and
// if the exam has open-ended questions every completed attempt must carry
// an answer row for each of them.
type AwardGate interface {
	Check(examID uint) (GateReason, error)
}

type awardGate struct {
	examRepo     repository.ExamRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.AttemptRepository
	answerRepo   repository.AnswerRepository
	delay        time.Duration
	now          func() time.Time
}

func NewAwardGate(
	examRepo repository.ExamRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	delay time.Duration,
	now func() time.Time,
) AwardGate {
	if now == nil {
		now = time.Now
	}
	return &awardGate{
		examRepo:     examRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		answerRepo:   answerRepo,
		delay:        delay,
		now:          now,
	}
}

func (g *awardGate) Check(examID uint) (GateReason, error) {
	publishedAt, err := g.examRepo.PublishInfo(examID)
	if err != nil {
		return "", fmt.Errorf("failed to load publish info for exam %d: %w", examID, err)
	}
	if publishedAt == nil {
		return GateNotPublished, nil
	}
	if g.now().Sub(*publishedAt) < g.delay {
		return GateDelayNotElapsed, nil
	}

	questions, err := g.questionRepo.FindByExamID(examID)
	if err != nil {
		return "", fmt.Errorf("failed to load questions for exam %d: %w", examID, err)
	}
	var openEnded []uint
	for _, q := range questions {
		if q.Kind == model.KindOpenEnded {
			openEnded = append(openEnded, q.ID)
		}
	}
	if len(openEnded) == 0 {
		return GateEligible, nil
	}

	attempts, err := g.attemptRepo.FindCompletedByExam(examID)
	if err != nil {
		return "", fmt.Errorf("failed to load completed attempts for exam %d: %w", examID, err)
	}
	for _, attempt := range attempts {
		answers, err := g.answerRepo.FindByAttempt(attempt.ID)
		if err != nil {
			return "", fmt.Errorf("failed to load answers for attempt %d: %w", attempt.ID, err)
		}
		answered := make(map[uint]struct{}, len(answers))
		for _, a := range answers {
			answered[a.QuestionID] = struct{}{}
		}
		for _, qid := range openEnded {
			if _, ok := answered[qid]; !ok {
				log.Info().
					Uint("examID", examID).
					Uint("attemptID", attempt.ID).
					Uint("questionID", qid).
					Msg("Award deferred: open-ended answer missing")
				return GateIncompleteGrading, nil
			}
		}
	}
	return GateEligible, nil
}
