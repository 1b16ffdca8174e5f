package model

import (
	"time"

	"gorm.io/gorm"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptTimedOut   AttemptStatus = "timed_out"
)

// Terminal reports whether no further transition is allowed out of s.
func (s AttemptStatus) Terminal() bool {
	return s == AttemptCompleted || s == AttemptTimedOut
}

type Attempt struct {
	ID          uint          `gorm:"primarykey" json:"id"`
	ExamID      uint          `json:"exam_id" gorm:"not null;index"`
	Exam        Exam          `json:"exam,omitempty" gorm:"foreignKey:ExamID"`
	StudentID   uint          `json:"student_id" gorm:"not null;index"`
	Student     User          `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Status      AttemptStatus `json:"status" gorm:"not null;default:'in_progress'"`
	StartedAt   time.Time     `json:"started_at" gorm:"not null"`
	ExpiresAt   time.Time     `json:"expires_at" gorm:"not null"`
	SubmittedAt *time.Time    `json:"submitted_at,omitempty"`
	// Score and TotalScore are nil until grading runs. TotalScore is fixed
	// by the exam's question set, not by how many questions were answered.
	Score      *int           `json:"score,omitempty"`
	TotalScore *int           `json:"total_score,omitempty"`
	Answers    []Answer       `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
