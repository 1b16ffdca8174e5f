package repository

import (
	"time"

	"github.com/elvinbay/sinaq/internal/model"
	"gorm.io/gorm"
)

type ExamRepository interface {
	Create(exam *model.Exam) error
	Update(exam *model.Exam) error
	FindByID(id uint) (*model.Exam, error)
	// FindByIDWithQuestions loads the exam with its standalone questions,
	// topics and topic questions, options ordered by position.
	FindByIDWithQuestions(id uint) (*model.Exam, error)
	// PublishInfo returns the publish timestamp, nil when unpublished.
	PublishInfo(id uint) (*time.Time, error)
}

type examRepository struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) Create(exam *model.Exam) error {
	// GORM creates associated topics, questions and options in one go.
	return r.db.Create(exam).Error
}

func (r *examRepository) Update(exam *model.Exam) error {
	return r.db.Save(exam).Error
}

func (r *examRepository) FindByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	if err := r.db.First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) FindByIDWithQuestions(id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.
		Preload("Questions", "topic_id IS NULL").
		Preload("Questions.Options", orderOptions).
		Preload("Topics", func(db *gorm.DB) *gorm.DB {
			return db.Order("topics.position ASC")
		}).
		Preload("Topics.Questions").
		Preload("Topics.Questions.Options", orderOptions).
		First(&exam, id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) PublishInfo(id uint) (*time.Time, error) {
	var exam model.Exam
	if err := r.db.Select("id", "published_at").First(&exam, id).Error; err != nil {
		return nil, err
	}
	return exam.PublishedAt, nil
}

func orderOptions(db *gorm.DB) *gorm.DB {
	return db.Order("options.position ASC")
}
