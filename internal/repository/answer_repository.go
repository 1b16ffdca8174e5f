package repository

import (
	"github.com/elvinbay/sinaq/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository interface {
	// Upsert writes the answer content, overwriting any previous answer for
	// the same (attempt, question) pair instead of duplicating it.
	Upsert(answer *model.Answer) error
	FindByID(id uint) (*model.Answer, error)
	FindByAttempt(attemptID uint) ([]model.Answer, error)
	UpdateGrading(answerID uint, isCorrect bool, points int) error
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Upsert(answer *model.Answer) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"option_id", "free_text", "updated_at"}),
	}).Create(answer).Error
}

func (r *answerRepository) FindByID(id uint) (*model.Answer, error) {
	var answer model.Answer
	if err := r.db.Preload("Question").Preload("Question.Options", orderOptions).First(&answer, id).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) FindByAttempt(attemptID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.Where("attempt_id = ?", attemptID).Find(&answers).Error
	return answers, err
}

func (r *answerRepository) UpdateGrading(answerID uint, isCorrect bool, points int) error {
	return r.db.Model(&model.Answer{}).
		Where("id = ?", answerID).
		Updates(map[string]interface{}{"is_correct": isCorrect, "awarded_points": points}).Error
}
