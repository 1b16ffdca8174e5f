package model

import (
	"time"

	"gorm.io/gorm"
)

// Answer holds one student response inside one attempt. The composite unique
// index guarantees at most one row per (attempt, question); later saves
// overwrite in place.
type Answer struct {
	ID         uint     `gorm:"primarykey" json:"id"`
	AttemptID  uint     `json:"attempt_id" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`
	QuestionID uint     `json:"question_id" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`
	Question   Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	// OptionID is set for multiple-choice answers, FreeText for open-ended.
	OptionID *string `json:"option_id,omitempty" gorm:"type:uuid"`
	FreeText *string `json:"free_text,omitempty" gorm:"type:text"`
	// Grading fields; content above is immutable after submission, these
	// two stay mutable for re-grading.
	IsCorrect     bool           `json:"is_correct" gorm:"not null;default:false"`
	AwardedPoints int            `json:"awarded_points" gorm:"not null;default:0"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
