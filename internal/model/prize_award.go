package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PrizeAwardSource marks prize rows apart from ordinary payment records.
const PrizeAwardSource = "exam_prize"

// PrizeAward records that a student was paid prize money for one exam. The
// unique index on (student_id, exam_id) is the idempotency backstop: a
// second insert for the same pair fails at the storage layer no matter how
// many callers race. Rows are never updated or deleted.
type PrizeAward struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	StudentID       uint            `json:"student_id" gorm:"not null;uniqueIndex:idx_award_student_exam"`
	ExamID          uint            `json:"exam_id" gorm:"not null;uniqueIndex:idx_award_student_exam;index"`
	PositionAwarded int             `json:"position_awarded" gorm:"not null"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:numeric(12,6);not null"`
	Source          string          `json:"source" gorm:"not null;default:'exam_prize'"`
	CreatedAt       time.Time       `json:"created_at"`
}
