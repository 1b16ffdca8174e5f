package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type OptionResponseDTO struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

type QuestionResponseDTO struct {
	ID        uint                `json:"id"`
	TopicID   *uint               `json:"topic_id,omitempty"`
	Text      string              `json:"text"`
	Kind      string              `json:"kind"`
	MaxPoints int                 `json:"max_points"`
	Options   []OptionResponseDTO `json:"options,omitempty"`
}

type TopicResponseDTO struct {
	ID        uint                  `json:"id"`
	Title     string                `json:"title"`
	Order     int                   `json:"order"`
	Questions []QuestionResponseDTO `json:"questions,omitempty"`
}

type ExamResponseDTO struct {
	ID              uint                  `json:"id"`
	Title           string                `json:"title"`
	Description     string                `json:"description,omitempty"`
	DurationMinutes int                   `json:"duration_minutes"`
	PublishedAt     *time.Time            `json:"published_at,omitempty"`
	Questions       []QuestionResponseDTO `json:"questions,omitempty"`
	Topics          []TopicResponseDTO    `json:"topics,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

type AnswerResponseDTO struct {
	ID            uint    `json:"id"`
	QuestionID    uint    `json:"question_id"`
	OptionID      *string `json:"option_id,omitempty"`
	FreeText      *string `json:"free_text,omitempty"`
	IsCorrect     bool    `json:"is_correct"`
	AwardedPoints int     `json:"awarded_points"`
}

type AttemptResponseDTO struct {
	ID          uint                `json:"id"`
	ExamID      uint                `json:"exam_id"`
	StudentID   uint                `json:"student_id"`
	Status      string              `json:"status"`
	StartedAt   time.Time           `json:"started_at"`
	ExpiresAt   time.Time           `json:"expires_at"`
	SubmittedAt *time.Time          `json:"submitted_at,omitempty"`
	Score       *int                `json:"score,omitempty"`
	TotalScore  *int                `json:"total_score,omitempty"`
	Answers     []AnswerResponseDTO `json:"answers,omitempty"`
}

type AttemptSummaryDTO struct {
	ID          uint       `json:"id"`
	ExamID      uint       `json:"exam_id"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	Score       *int       `json:"score,omitempty"`
	TotalScore  *int       `json:"total_score,omitempty"`
}

type PrizeAwardResponseDTO struct {
	ExamID          uint            `json:"exam_id"`
	PositionAwarded int             `json:"position_awarded"`
	Amount          decimal.Decimal `json:"amount"`
	CreatedAt       time.Time       `json:"created_at"`
}

// AwardSweepResponseDTO reports what a login sweep granted.
type AwardSweepResponseDTO struct {
	NewAwards   int             `json:"new_awards"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type BalanceResponseDTO struct {
	StudentID uint            `json:"student_id"`
	Balance   decimal.Decimal `json:"balance"`
}
