package model

import (
	"time"

	"gorm.io/gorm"
)

type Exam struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description,omitempty"`
	// DurationMinutes bounds an attempt; expiresAt = startedAt + duration.
	DurationMinutes int `json:"duration_minutes" gorm:"not null;default:60"`
	// PublishedAt is set once when the teacher publishes. The award gate
	// only opens after a configured delay past this timestamp.
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	Topics      []Topic        `json:"topics,omitempty" gorm:"foreignKey:ExamID"`
	Questions   []Question     `json:"questions,omitempty" gorm:"foreignKey:ExamID"` // standalone only (TopicID null)
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Topic groups a subset of an exam's questions under a heading. Standalone
// questions hang directly off the exam instead.
type Topic struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ExamID    uint           `json:"exam_id" gorm:"not null;index"`
	Title     string         `json:"title" gorm:"not null"`
	Order     int            `json:"order" gorm:"column:position;not null;default:0"`
	Questions []Question     `json:"questions,omitempty" gorm:"foreignKey:TopicID"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
