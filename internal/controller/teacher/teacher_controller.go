package teacher

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/elvinbay/sinaq/internal/dto"
	"github.com/elvinbay/sinaq/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type TeacherController struct {
	examService    service.ExamService
	regradeService service.RegradeService
	awardService   service.AwardService
}

func NewTeacherController(
	examService service.ExamService,
	regradeService service.RegradeService,
	awardService service.AwardService,
) *TeacherController {
	return &TeacherController{
		examService:    examService,
		regradeService: regradeService,
		awardService:   awardService,
	}
}

// CreateExam godoc
// @Summary Create an exam with its questions
// @Description Creates an exam with standalone and topic-grouped questions. Multiple-choice questions reference their correct option by index at creation time.
// @Tags Teacher
// @Accept json
// @Produce json
// @Param body body dto.ExamCreateDTO true "Exam definition"
// @Success 201 {object} dto.ExamResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /teacher/exams [post]
func (c *TeacherController) CreateExam(ctx *gin.Context) {
	var req dto.ExamCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	exam, err := c.examService.CreateExam(req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, exam)
}

// PublishExam godoc
// @Summary Publish an exam
// @Description Sets the publish timestamp. Prize processing unlocks a configured delay after this moment.
// @Tags Teacher
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} dto.ExamResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Already published"
// @Router /teacher/exams/{exam_id}/publish [post]
func (c *TeacherController) PublishExam(ctx *gin.Context) {
	examID, ok := pathID(ctx, "exam_id")
	if !ok {
		return
	}
	exam, err := c.examService.PublishExam(examID)
	if err != nil {
		if errors.Is(err, service.ErrExamAlreadyPublished) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
			return
		}
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, exam)
}

// GetExam godoc
// @Summary Get an exam with all questions
// @Tags Teacher
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} dto.ExamResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /teacher/exams/{exam_id} [get]
func (c *TeacherController) GetExam(ctx *gin.Context) {
	examID, ok := pathID(ctx, "exam_id")
	if !ok {
		return
	}
	exam, err := c.examService.GetExam(examID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, exam)
}

// RegradeAnswer godoc
// @Summary Manually override one answer's grading
// @Description Sets is_correct and awarded_points on a completed attempt's answer, recomputes the attempt totals and re-runs prize processing for the exam.
// @Tags Teacher
// @Accept json
// @Produce json
// @Param answer_id path int true "Answer ID"
// @Param body body dto.RegradeAnswerDTO true "Grading override"
// @Success 200 {object} dto.AttemptResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Attempt not completed"
// @Router /teacher/answers/{answer_id}/grade [put]
func (c *TeacherController) RegradeAnswer(ctx *gin.Context) {
	answerID, ok := pathID(ctx, "answer_id")
	if !ok {
		return
	}
	var req dto.RegradeAnswerDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	attempt, err := c.regradeService.OverrideAnswer(answerID, req)
	if err != nil {
		if errors.Is(err, service.ErrAttemptNotCompleted) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
			return
		}
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, attempt)
}

// TriggerAwards godoc
// @Summary Run the prize award pass for an exam
// @Description Idempotent; skips students already paid and is a no-op while the exam is ineligible.
// @Tags Teacher
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 204
// @Failure 500 {object} dto.ErrorResponse
// @Router /teacher/exams/{exam_id}/award [post]
func (c *TeacherController) TriggerAwards(ctx *gin.Context) {
	examID, ok := pathID(ctx, "exam_id")
	if !ok {
		return
	}
	if err := c.awardService.AwardExam(examID); err != nil {
		log.Error().Err(err).Uint("examID", examID).Msg("Manual award pass failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.Status(http.StatusNoContent)
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}
