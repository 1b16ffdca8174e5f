package service

import (
	"fmt"
	"time"

	"github.com/elvinbay/sinaq/internal/model"
	"github.com/elvinbay/sinaq/internal/repository"
	"github.com/shopspring/decimal"
)

// In-memory fakes satisfying the repository interfaces.

type fakeExamRepo struct {
	exams map[uint]*model.Exam
}

func newFakeExamRepo() *fakeExamRepo {
	return &fakeExamRepo{exams: map[uint]*model.Exam{}}
}

func (r *fakeExamRepo) Create(exam *model.Exam) error {
	if exam.ID == 0 {
		exam.ID = uint(len(r.exams) + 1)
	}
	r.exams[exam.ID] = exam
	return nil
}

func (r *fakeExamRepo) Update(exam *model.Exam) error {
	r.exams[exam.ID] = exam
	return nil
}

func (r *fakeExamRepo) FindByID(id uint) (*model.Exam, error) {
	exam, ok := r.exams[id]
	if !ok {
		return nil, fmt.Errorf("exam %d not found", id)
	}
	return exam, nil
}

func (r *fakeExamRepo) FindByIDWithQuestions(id uint) (*model.Exam, error) {
	return r.FindByID(id)
}

func (r *fakeExamRepo) PublishInfo(id uint) (*time.Time, error) {
	exam, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	return exam.PublishedAt, nil
}

type fakeQuestionRepo struct {
	questions []model.Question
}

func (r *fakeQuestionRepo) FindByID(id uint) (*model.Question, error) {
	for i := range r.questions {
		if r.questions[i].ID == id {
			return &r.questions[i], nil
		}
	}
	return nil, fmt.Errorf("question %d not found", id)
}

func (r *fakeQuestionRepo) FindByExamID(examID uint) ([]model.Question, error) {
	var out []model.Question
	for _, q := range r.questions {
		if q.ExamID == examID {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeAttemptRepo struct {
	attempts map[uint]*model.Attempt
	seq      uint
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{attempts: map[uint]*model.Attempt{}}
}

func (r *fakeAttemptRepo) Create(attempt *model.Attempt) error {
	r.seq++
	attempt.ID = r.seq
	copy := *attempt
	r.attempts[attempt.ID] = &copy
	return nil
}

func (r *fakeAttemptRepo) Update(attempt *model.Attempt) error {
	copy := *attempt
	r.attempts[attempt.ID] = &copy
	return nil
}

func (r *fakeAttemptRepo) FindByID(id uint) (*model.Attempt, error) {
	attempt, ok := r.attempts[id]
	if !ok {
		return nil, fmt.Errorf("attempt %d not found", id)
	}
	copy := *attempt
	return &copy, nil
}

func (r *fakeAttemptRepo) FindByIDWithAnswers(id uint) (*model.Attempt, error) {
	return r.FindByID(id)
}

func (r *fakeAttemptRepo) FindCompletedByExam(examID uint) ([]model.Attempt, error) {
	var out []model.Attempt
	for _, a := range r.attempts {
		if a.ExamID == examID && a.Status == model.AttemptCompleted {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAttemptRepo) FindByStudent(studentID uint) ([]model.Attempt, error) {
	var out []model.Attempt
	for _, a := range r.attempts {
		if a.StudentID == studentID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAttemptRepo) DistinctCompletedExamIDs(studentID uint) ([]uint, error) {
	seen := map[uint]struct{}{}
	var out []uint
	for _, a := range r.attempts {
		if a.StudentID != studentID || a.Status != model.AttemptCompleted {
			continue
		}
		if _, ok := seen[a.ExamID]; ok {
			continue
		}
		seen[a.ExamID] = struct{}{}
		out = append(out, a.ExamID)
	}
	return out, nil
}

type fakeAnswerRepo struct {
	answers map[uint]*model.Answer
	seq     uint
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{answers: map[uint]*model.Answer{}}
}

func (r *fakeAnswerRepo) Upsert(answer *model.Answer) error {
	for _, existing := range r.answers {
		if existing.AttemptID == answer.AttemptID && existing.QuestionID == answer.QuestionID {
			existing.OptionID = answer.OptionID
			existing.FreeText = answer.FreeText
			answer.ID = existing.ID
			return nil
		}
	}
	r.seq++
	answer.ID = r.seq
	copy := *answer
	r.answers[answer.ID] = &copy
	return nil
}

func (r *fakeAnswerRepo) FindByID(id uint) (*model.Answer, error) {
	answer, ok := r.answers[id]
	if !ok {
		return nil, fmt.Errorf("answer %d not found", id)
	}
	copy := *answer
	return &copy, nil
}

func (r *fakeAnswerRepo) FindByAttempt(attemptID uint) ([]model.Answer, error) {
	var out []model.Answer
	for _, a := range r.answers {
		if a.AttemptID == attemptID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAnswerRepo) UpdateGrading(answerID uint, isCorrect bool, points int) error {
	answer, ok := r.answers[answerID]
	if !ok {
		return fmt.Errorf("answer %d not found", answerID)
	}
	answer.IsCorrect = isCorrect
	answer.AwardedPoints = points
	return nil
}

type fakeAwardRepo struct {
	awards   []model.PrizeAward
	balances map[uint]decimal.Decimal
	seq      uint
	// duplicateNextCreate simulates losing an insert race: the next
	// CreateWithBalance fails with ErrDuplicateAward without writing.
	duplicateNextCreate bool
}

func newFakeAwardRepo() *fakeAwardRepo {
	return &fakeAwardRepo{balances: map[uint]decimal.Decimal{}}
}

func (r *fakeAwardRepo) CountByExam(examID uint) (int64, error) {
	var count int64
	for _, a := range r.awards {
		if a.ExamID == examID {
			count++
		}
	}
	return count, nil
}

func (r *fakeAwardRepo) FindByStudentAndExam(studentID, examID uint) (*model.PrizeAward, error) {
	for i := range r.awards {
		if r.awards[i].StudentID == studentID && r.awards[i].ExamID == examID {
			copy := r.awards[i]
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *fakeAwardRepo) ListByStudent(studentID uint) ([]model.PrizeAward, error) {
	var out []model.PrizeAward
	for _, a := range r.awards {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAwardRepo) CreateWithBalance(award *model.PrizeAward) error {
	if r.duplicateNextCreate {
		r.duplicateNextCreate = false
		return repository.ErrDuplicateAward
	}
	for _, existing := range r.awards {
		if existing.StudentID == award.StudentID && existing.ExamID == award.ExamID {
			return repository.ErrDuplicateAward
		}
	}
	r.seq++
	award.ID = r.seq
	award.CreatedAt = time.Now()
	r.awards = append(r.awards, *award)
	balance, ok := r.balances[award.StudentID]
	if !ok {
		balance = decimal.Zero
	}
	r.balances[award.StudentID] = balance.Add(award.Amount)
	return nil
}

// stubGate lets coordinator tests pin the gate outcome.
type stubGate struct {
	reason GateReason
	calls  int
}

func (g *stubGate) Check(examID uint) (GateReason, error) {
	g.calls++
	return g.reason, nil
}
