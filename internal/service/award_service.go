package service

import (
	"errors"
	"fmt"

	"github.com/elvinbay/sinaq/internal/model"
	"github.com/elvinbay/sinaq/internal/repository"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AwardReport summarizes what a student-facing sweep granted.
type AwardReport struct {
	NewAwards   int
	TotalAmount decimal.Decimal
}

// AwardService distributes the prize pool to the top-ranked students of an
// exam. It guarantees at most one award per (student, exam) pair no matter
// how often or from how many call sites it runs: submission completion,
// manual re-grade and the login sweep all funnel through AwardExam.
type AwardService interface {
	AwardExam(examID uint) error
	CheckAndAwardForStudent(studentID uint) (*AwardReport, error)
}

type awardService struct {
	gate        AwardGate
	attemptRepo repository.AttemptRepository
	awardRepo   repository.PrizeAwardRepository
	pool        PrizePool
}

func NewAwardService(
	gate AwardGate,
	attemptRepo repository.AttemptRepository,
	awardRepo repository.PrizeAwardRepository,
	pool PrizePool,
) AwardService {
	return &awardService{gate: gate, attemptRepo: attemptRepo, awardRepo: awardRepo, pool: pool}
}

// AwardExam runs one idempotent award pass over the exam. Already-paid
// students are skipped; a lost insert race counts as already paid. Partial
// progress is safe to leave behind, re-invocation only fills the gaps.
func (s *awardService) AwardExam(examID uint) error {
	count, err := s.awardRepo.CountByExam(examID)
	if err != nil {
		return fmt.Errorf("failed to count prize awards for exam %d: %w", examID, err)
	}
	if count >= int64(s.pool.Positions()) {
		return nil
	}

	reason, err := s.gate.Check(examID)
	if err != nil {
		return err
	}
	if reason != GateEligible {
		log.Info().Uint("examID", examID).Str("reason", string(reason)).Msg("Exam not eligible for awards")
		return nil
	}

	attempts, err := s.attemptRepo.FindCompletedByExam(examID)
	if err != nil {
		return fmt.Errorf("failed to load completed attempts for exam %d: %w", examID, err)
	}
	if len(attempts) == 0 {
		return nil
	}

	for _, group := range RankAttempts(attempts) {
		if group.StartPosition > s.pool.Positions() {
			break
		}
		_, perStudent := s.pool.GroupPayout(group.StartPosition, len(group.Attempts))
		for _, attempt := range group.Attempts {
			if err := s.awardStudent(attempt.StudentID, examID, group.StartPosition, perStudent); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *awardService) awardStudent(studentID, examID uint, position int, amount decimal.Decimal) error {
	existing, err := s.awardRepo.FindByStudentAndExam(studentID, examID)
	if err != nil {
		return fmt.Errorf("failed to look up prize award for student %d exam %d: %w", studentID, examID, err)
	}
	if existing != nil {
		return nil
	}

	// Final re-check right before the write narrows the race window; the
	// unique index on (student_id, exam_id) closes it entirely.
	existing, err = s.awardRepo.FindByStudentAndExam(studentID, examID)
	if err != nil {
		return fmt.Errorf("failed to re-check prize award for student %d exam %d: %w", studentID, examID, err)
	}
	if existing != nil {
		return nil
	}

	award := &model.PrizeAward{
		StudentID:       studentID,
		ExamID:          examID,
		PositionAwarded: position,
		Amount:          amount,
		Source:          model.PrizeAwardSource,
	}
	if err := s.awardRepo.CreateWithBalance(award); err != nil {
		if errors.Is(err, repository.ErrDuplicateAward) {
			log.Info().Uint("studentID", studentID).Uint("examID", examID).Msg("Prize award lost insert race, treating as already paid")
			return nil
		}
		return fmt.Errorf("failed to grant prize award to student %d for exam %d: %w", studentID, examID, err)
	}

	log.Info().
		Uint("studentID", studentID).
		Uint("examID", examID).
		Int("position", position).
		Str("amount", amount.String()).
		Msg("Prize awarded")
	return nil
}

// CheckAndAwardForStudent sweeps every exam the student has completed and
// runs the award pass for those not yet paid to them. It reports how many
// new prizes the sweep produced for this student and their total value, and
// is cheap enough to invoke on every login.
func (s *awardService) CheckAndAwardForStudent(studentID uint) (*AwardReport, error) {
	before, err := s.awardRepo.ListByStudent(studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prize awards for student %d: %w", studentID, err)
	}
	known := make(map[uint]struct{}, len(before))
	for _, a := range before {
		known[a.ID] = struct{}{}
	}

	examIDs, err := s.attemptRepo.DistinctCompletedExamIDs(studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed exams for student %d: %w", studentID, err)
	}
	for _, examID := range examIDs {
		existing, err := s.awardRepo.FindByStudentAndExam(studentID, examID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up prize award for student %d exam %d: %w", studentID, examID, err)
		}
		if existing != nil {
			continue
		}
		reason, err := s.gate.Check(examID)
		if err != nil {
			return nil, err
		}
		if reason != GateEligible {
			continue
		}
		if err := s.AwardExam(examID); err != nil {
			return nil, err
		}
	}

	after, err := s.awardRepo.ListByStudent(studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prize awards for student %d: %w", studentID, err)
	}
	report := &AwardReport{TotalAmount: decimal.Zero}
	for _, a := range after {
		if _, ok := known[a.ID]; ok {
			continue
		}
		report.NewAwards++
		report.TotalAmount = report.TotalAmount.Add(a.Amount)
	}
	return report, nil
}
