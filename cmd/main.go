package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prehire/interview-api/config"
	"github.com/prehire/interview-api/database"
	"github.com/prehire/interview-api/internal/controller"
	"github.com/prehire/interview-api/internal/logger"
	"github.com/prehire/interview-api/internal/model"
	"github.com/prehire/interview-api/internal/repository"
	"github.com/prehire/interview-api/internal/service"
	"github.com/prehire/interview-api/internal/session"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title AI Interview Platform API
// @version 1.0
// @description API for AI-assisted technical interviews: candidate registration with resume parsing, a resumable timed interview session, and AI evaluation of the answers.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
			NewSessionStore,
			session.NewManager,
		),

		// Repositories layer
		fx.Provide(
			repository.NewCandidateRepository,
		),

		// Services layer
		fx.Provide(
			service.NewGeminiScorer,
			service.NewEvaluationService,
			service.NewInterviewService,
			service.NewCandidateService,
			service.NewResumeParserService,
		),

		// API controllers layer
		fx.Provide(
			controller.NewCandidateController,
			controller.NewInterviewController,
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

func NewSessionStore(cfg *config.Config) (*session.Store, error) {
	return session.NewStore(cfg.Interview.SessionDir)
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Route gin's request log through zerolog.
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

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	manager *session.Manager,
	candidateCtrl *controller.CandidateController,
	interviewCtrl *controller.InterviewController,
) {
	api := router.Group("/api/v1")
	{
		candidates := api.Group("/candidates")
		candidates.POST("", candidateCtrl.CreateCandidate)
		candidates.GET("", candidateCtrl.GetAllCandidates)
		candidates.GET("/:id", candidateCtrl.GetCandidate)
		candidates.POST("/:id/results", candidateCtrl.AttachResult)

		api.POST("/resume/parse", candidateCtrl.ParseResume)

		interviews := api.Group("/interviews/:candidate_id")
		interviews.GET("", interviewCtrl.GetState)
		interviews.POST("/start", interviewCtrl.Start)
		interviews.POST("/resume", interviewCtrl.Resume)
		interviews.POST("/restart", interviewCtrl.Restart)
		interviews.POST("/answers", interviewCtrl.SubmitAnswer)
		interviews.PUT("/draft", interviewCtrl.SaveDraft)
		interviews.POST("/fullscreen-exit", interviewCtrl.FullscreenExit)
		interviews.POST("/unload", interviewCtrl.Unload)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Interview API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			// Flush active interview sessions before the listener goes away.
			manager.Shutdown()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := db.AutoMigrate(&model.Candidate{}); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
