package dto

// OptionCreateDTO is one choice of a multiple-choice question; order follows
// the slice index.
type OptionCreateDTO struct {
	Text string `json:"text" binding:"required"`
}

type QuestionCreateDTO struct {
	Text      string `json:"text" binding:"required"`
	Kind      string `json:"kind" binding:"required,oneof=multiple_choice open_ended"`
	MaxPoints int    `json:"max_points" binding:"required,gt=0"`

	// For kind="multiple_choice"
	Options            []OptionCreateDTO `json:"options,omitempty" binding:"omitempty,dive"`
	CorrectOptionIndex *int              `json:"correct_option_index,omitempty"`

	// For kind="open_ended"
	ModelAnswerText string `json:"model_answer_text,omitempty"`
}

type TopicCreateDTO struct {
	Title     string              `json:"title" binding:"required"`
	Questions []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

// ExamCreateDTO creates an exam with standalone questions and/or
// topic-grouped questions in one request.
type ExamCreateDTO struct {
	Title           string              `json:"title" binding:"required"`
	Description     string              `json:"description,omitempty"`
	DurationMinutes int                 `json:"duration_minutes" binding:"required,gt=0"`
	Questions       []QuestionCreateDTO `json:"questions,omitempty" binding:"omitempty,dive"`
	Topics          []TopicCreateDTO    `json:"topics,omitempty" binding:"omitempty,dive"`
}

// StartAttemptDTO identifies the student starting an exam. Authentication
// lives outside this service; callers pass the resolved student id.
type StartAttemptDTO struct {
	StudentID uint `json:"student_id" binding:"required"`
}

type SaveAnswerDTO struct {
	StudentID  uint    `json:"student_id" binding:"required"`
	QuestionID uint    `json:"question_id" binding:"required"`
	OptionID   *string `json:"option_id,omitempty"`
	FreeText   *string `json:"free_text,omitempty"`
}

type SubmitAttemptDTO struct {
	StudentID uint `json:"student_id" binding:"required"`
}

// RegradeAnswerDTO is a teacher's manual override of one answer's grading.
type RegradeAnswerDTO struct {
	IsCorrect     bool `json:"is_correct"`
	AwardedPoints int  `json:"awarded_points" binding:"min=0"`
}
