package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple_choice"
	KindOpenEnded      QuestionKind = "open_ended"
)

type Question struct {
	ID        uint         `gorm:"primarykey" json:"id"`
	ExamID    uint         `json:"exam_id" gorm:"not null;index"`
	TopicID   *uint        `json:"topic_id,omitempty" gorm:"index"`
	Text      string       `json:"text" gorm:"type:text;not null"`
	Kind      QuestionKind `json:"kind" gorm:"not null"`
	MaxPoints int          `json:"max_points" gorm:"not null"`
	// CorrectAnswerRef is either an option id (uuid) or, for legacy data,
	// a zero-based index into the order-sorted option list. Callers sniff
	// the format by length; see grading.Grader.
	CorrectAnswerRef string `json:"correct_answer_ref,omitempty"`
	// ModelAnswerText is the reference answer for open-ended questions.
	ModelAnswerText string         `json:"model_answer_text,omitempty" gorm:"type:text"`
	Options         []Option       `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

type Option struct {
	ID         string         `gorm:"primarykey;type:uuid" json:"id"`
	QuestionID uint           `json:"question_id" gorm:"not null;index"`
	Text       string         `json:"text" gorm:"type:text;not null"`
	Order      int            `json:"order" gorm:"column:position;not null;default:0"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (o *Option) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
