package student

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/elvinbay/sinaq/internal/dto"
	"github.com/elvinbay/sinaq/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type StudentController struct {
	attemptService service.AttemptService
	awardService   service.AwardService
	walletService  service.WalletService
}

func NewStudentController(
	attemptService service.AttemptService,
	awardService service.AwardService,
	walletService service.WalletService,
) *StudentController {
	return &StudentController{
		attemptService: attemptService,
		awardService:   awardService,
		walletService:  walletService,
	}
}

// StartAttempt godoc
// @Summary Start an exam attempt
// @Description Creates an in-progress attempt for a published exam. The attempt expires after the exam's duration.
// @Tags Student
// @Accept json
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param body body dto.StartAttemptDTO true "Student starting the attempt"
// @Success 201 {object} dto.AttemptResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /exams/{exam_id}/attempts [post]
func (c *StudentController) StartAttempt(ctx *gin.Context) {
	examID, ok := pathID(ctx, "exam_id")
	if !ok {
		return
	}
	var req dto.StartAttemptDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	attempt, err := c.attemptService.StartAttempt(examID, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, attempt)
}

// SaveAnswer godoc
// @Summary Save or overwrite an answer
// @Description Upserts the student's answer for one question of an in-progress attempt.
// @Tags Student
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param body body dto.SaveAnswerDTO true "Answer content"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Attempt not in progress or expired"
// @Router /attempts/{attempt_id}/answers [put]
func (c *StudentController) SaveAnswer(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}
	var req dto.SaveAnswerDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.attemptService.SaveAnswer(attemptID, req); err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// SubmitAttempt godoc
// @Summary Submit an attempt for grading
// @Description Grades all saved answers, marks the attempt completed and triggers prize processing for the exam.
// @Tags Student
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param body body dto.SubmitAttemptDTO true "Student submitting"
// @Success 200 {object} dto.AttemptResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Attempt not in progress or expired"
// @Router /attempts/{attempt_id}/submit [post]
func (c *StudentController) SubmitAttempt(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}
	var req dto.SubmitAttemptDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	result, err := c.attemptService.SubmitAttempt(attemptID, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetMyAttempts godoc
// @Summary List a student's attempts
// @Tags Student
// @Produce json
// @Param student_id path int true "Student ID"
// @Success 200 {array} dto.AttemptSummaryDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /students/{student_id}/attempts [get]
func (c *StudentController) GetMyAttempts(ctx *gin.Context) {
	studentID, ok := pathID(ctx, "student_id")
	if !ok {
		return
	}
	attempts, err := c.attemptService.GetStudentAttempts(studentID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// AwardSweep godoc
// @Summary Check the student's completed exams for newly eligible prizes
// @Description Invoked on login; grants any awards that became eligible since the last check. Safe to call repeatedly.
// @Tags Student
// @Produce json
// @Param student_id path int true "Student ID"
// @Success 200 {object} dto.AwardSweepResponseDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /students/{student_id}/award-sweep [post]
func (c *StudentController) AwardSweep(ctx *gin.Context) {
	studentID, ok := pathID(ctx, "student_id")
	if !ok {
		return
	}
	report, err := c.awardService.CheckAndAwardForStudent(studentID)
	if err != nil {
		log.Error().Err(err).Uint("studentID", studentID).Msg("Award sweep failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to process awards", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, dto.AwardSweepResponseDTO{NewAwards: report.NewAwards, TotalAmount: report.TotalAmount})
}

// GetBalance godoc
// @Summary Get a student's balance
// @Tags Student
// @Produce json
// @Param student_id path int true "Student ID"
// @Success 200 {object} dto.BalanceResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{student_id}/balance [get]
func (c *StudentController) GetBalance(ctx *gin.Context) {
	studentID, ok := pathID(ctx, "student_id")
	if !ok {
		return
	}
	balance, err := c.walletService.GetBalance(studentID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, balance)
}

// GetPrizeAwards godoc
// @Summary List a student's prize awards
// @Tags Student
// @Produce json
// @Param student_id path int true "Student ID"
// @Success 200 {array} dto.PrizeAwardResponseDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /students/{student_id}/prize-awards [get]
func (c *StudentController) GetPrizeAwards(ctx *gin.Context) {
	studentID, ok := pathID(ctx, "student_id")
	if !ok {
		return
	}
	awards, err := c.walletService.ListPrizeAwards(studentID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, awards)
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

func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExamNotPublished),
		errors.Is(err, service.ErrQuestionNotInExam):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrAttemptNotInProgress),
		errors.Is(err, service.ErrAttemptExpired):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrNotAttemptOwner):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Msg("Unhandled service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: err.Error()})
	}
}
