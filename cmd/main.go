package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/elvinbay/sinaq/config"
	"github.com/elvinbay/sinaq/database"
	_ "github.com/elvinbay/sinaq/docs" // Swagger docs
	studentctrl "github.com/elvinbay/sinaq/internal/controller/student"
	teacherctrl "github.com/elvinbay/sinaq/internal/controller/teacher"
	"github.com/elvinbay/sinaq/internal/grading"
	"github.com/elvinbay/sinaq/internal/logger"
	"github.com/elvinbay/sinaq/internal/model"
	"github.com/elvinbay/sinaq/internal/repository"
	"github.com/elvinbay/sinaq/internal/service"
)

// @title Sinaq Exam & Prize API
// @version 1.0
// @description Exam attempts with automatic grading and idempotent top-3 prize distribution.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewExamRepository,
			repository.NewQuestionRepository,
			repository.NewAttemptRepository,
			repository.NewAnswerRepository,
			repository.NewPrizeAwardRepository,
			repository.NewUserRepository,
		),

		fx.Provide(
			func(cfg *config.Config) *grading.Grader {
				return grading.NewGrader(grading.Config{
					SimilarityThreshold: cfg.Grading.SimilarityThreshold,
					MinTokenLength:      cfg.Grading.MinTokenLength,
				})
			},
			func(cfg *config.Config) service.PrizePool {
				return service.NewPrizePool(cfg.Awards.PrizeTable)
			},
			func(
				cfg *config.Config,
				examRepo repository.ExamRepository,
				questionRepo repository.QuestionRepository,
				attemptRepo repository.AttemptRepository,
				answerRepo repository.AnswerRepository,
			) service.AwardGate {
				return service.NewAwardGate(examRepo, questionRepo, attemptRepo, answerRepo, cfg.Awards.Delay, time.Now)
			},
			service.NewScoreService,
			service.NewAwardService,
			func(
				examRepo repository.ExamRepository,
				questionRepo repository.QuestionRepository,
				attemptRepo repository.AttemptRepository,
				answerRepo repository.AnswerRepository,
				scoreService service.ScoreService,
				awardService service.AwardService,
			) service.AttemptService {
				return service.NewAttemptService(examRepo, questionRepo, attemptRepo, answerRepo, scoreService, awardService, time.Now)
			},
			service.NewRegradeService,
			func(examRepo repository.ExamRepository) service.ExamService {
				return service.NewExamService(examRepo, time.Now)
			},
			service.NewWalletService,
		),

		fx.Provide(
			studentctrl.NewStudentController,
			teacherctrl.NewTeacherController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	studentCtrl *studentctrl.StudentController,
	teacherCtrl *teacherctrl.TeacherController,
) {
	api := router.Group("/api/v1")
	{
		api.POST("/exams/:exam_id/attempts", studentCtrl.StartAttempt)
		api.PUT("/attempts/:attempt_id/answers", studentCtrl.SaveAnswer)
		api.POST("/attempts/:attempt_id/submit", studentCtrl.SubmitAttempt)
		api.GET("/students/:student_id/attempts", studentCtrl.GetMyAttempts)
		api.POST("/students/:student_id/award-sweep", studentCtrl.AwardSweep)
		api.GET("/students/:student_id/balance", studentCtrl.GetBalance)
		api.GET("/students/:student_id/prize-awards", studentCtrl.GetPrizeAwards)

		teacherGroup := api.Group("/teacher")
		teacherGroup.POST("/exams", teacherCtrl.CreateExam)
		teacherGroup.GET("/exams/:exam_id", teacherCtrl.GetExam)
		teacherGroup.POST("/exams/:exam_id/publish", teacherCtrl.PublishExam)
		teacherGroup.POST("/exams/:exam_id/award", teacherCtrl.TriggerAwards)
		teacherGroup.PUT("/answers/:answer_id/grade", teacherCtrl.RegradeAnswer)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Sinaq API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Exam{},
		&model.Topic{},
		&model.Question{},
		&model.Option{},
		&model.Attempt{},
		&model.Answer{},
		&model.PrizeAward{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
