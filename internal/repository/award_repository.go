package repository

import (
	"errors"
	"fmt"

	"github.com/elvinbay/sinaq/internal/model"
	"gorm.io/gorm"
)

// ErrDuplicateAward signals that a prize award already exists for the same
// (student, exam) pair. Callers treat it as "already paid", never as failure.
var ErrDuplicateAward = errors.New("prize award already exists for this student and exam")

type PrizeAwardRepository interface {
	CountByExam(examID uint) (int64, error)
	// FindByStudentAndExam returns (nil, nil) when no award exists.
	FindByStudentAndExam(studentID, examID uint) (*model.PrizeAward, error)
	ListByStudent(studentID uint) ([]model.PrizeAward, error)
	// CreateWithBalance inserts the award row and credits the student's
	// balance inside one transaction. A unique-index violation on
	// (student_id, exam_id) rolls the credit back and surfaces as
	// ErrDuplicateAward.
	CreateWithBalance(award *model.PrizeAward) error
}

type prizeAwardRepository struct {
	db *gorm.DB
}

func NewPrizeAwardRepository(db *gorm.DB) PrizeAwardRepository {
	return &prizeAwardRepository{db: db}
}

func (r *prizeAwardRepository) CountByExam(examID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.PrizeAward{}).Where("exam_id = ?", examID).Count(&count).Error
	return count, err
}

func (r *prizeAwardRepository) FindByStudentAndExam(studentID, examID uint) (*model.PrizeAward, error) {
	var award model.PrizeAward
	err := r.db.Where("student_id = ? AND exam_id = ?", studentID, examID).First(&award).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &award, nil
}

func (r *prizeAwardRepository) ListByStudent(studentID uint) ([]model.PrizeAward, error) {
	var awards []model.PrizeAward
	err := r.db.Where("student_id = ?", studentID).Order("created_at DESC").Find(&awards).Error
	return awards, err
}

func (r *prizeAwardRepository) CreateWithBalance(award *model.PrizeAward) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(award).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateAward
			}
			return fmt.Errorf("failed to create prize award: %w", err)
		}
		err := tx.Model(&model.User{}).
			Where("id = ?", award.StudentID).
			UpdateColumn("balance", gorm.Expr("balance + ?", award.Amount)).Error
		if err != nil {
			return fmt.Errorf("failed to credit balance for student %d: %w", award.StudentID, err)
		}
		return nil
	})
}
