package repository

import (
	"github.com/elvinbay/sinaq/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(attempt *model.Attempt) error
	Update(attempt *model.Attempt) error
	FindByID(id uint) (*model.Attempt, error)
	FindByIDWithAnswers(id uint) (*model.Attempt, error)
	// FindCompletedByExam returns all completed attempts for one exam with
	// the student preloaded, earliest submission first.
	FindCompletedByExam(examID uint) ([]model.Attempt, error)
	FindByStudent(studentID uint) ([]model.Attempt, error)
	// DistinctCompletedExamIDs lists every exam the student has at least
	// one completed attempt for.
	DistinctCompletedExamIDs(studentID uint) ([]uint, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *model.Attempt) error {
	return r.db.Create(attempt).Error
}

func (r *attemptRepository) Update(attempt *model.Attempt) error {
	return r.db.Save(attempt).Error
}

func (r *attemptRepository) FindByID(id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	if err := r.db.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByIDWithAnswers(id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.db.
		Preload("Answers").
		Preload("Answers.Question").
		Preload("Answers.Question.Options", orderOptions).
		First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindCompletedByExam(examID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.
		Preload("Student").
		Where("exam_id = ? AND status = ?", examID, model.AttemptCompleted).
		Order("submitted_at ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) FindByStudent(studentID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.
		Where("student_id = ?", studentID).
		Order("started_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) DistinctCompletedExamIDs(studentID uint) ([]uint, error) {
	var examIDs []uint
	err := r.db.Model(&model.Attempt{}).
		Distinct("exam_id").
		Where("student_id = ? AND status = ?", studentID, model.AttemptCompleted).
		Pluck("exam_id", &examIDs).Error
	return examIDs, err
}
