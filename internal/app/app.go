package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mgtu_lab_backend/internal/config"
	"mgtu_lab_backend/internal/repository"
	"mgtu_lab_backend/internal/server"
	"mgtu_lab_backend/internal/service"
	"mgtu_lab_backend/pkg/database"
	"mgtu_lab_backend/pkg/logger"
	"mgtu_lab_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	DB     *gorm.DB

	tcp   *server.TCPServer
	media *server.MediaServer
}

type repositories struct {
	student  *repository.StudentRepository
	labWork  *repository.LabWorkRepository
	question *repository.QuestionRepository
	result   *repository.ResultRepository
	image    *repository.ImageRepository
}

type services struct {
	auth  *service.AuthService
	quiz  *service.QuizService
	labs  *service.LabService
	image *service.ImageService
}

func initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		student:  repository.NewStudentRepository(db),
		labWork:  repository.NewLabWorkRepository(db),
		question: repository.NewQuestionRepository(db),
		result:   repository.NewResultRepository(db),
		image:    repository.NewImageRepository(db),
	}
}

func initServices(repos *repositories, cfg *config.Config) *services {
	provider := service.NewStorageProvider(cfg)
	return &services{
		auth:  service.NewAuthService(repos.student),
		quiz:  service.NewQuizService(repos.labWork, repos.question, repos.result, repos.student, cfg.Static.PublicURL),
		labs:  service.NewLabService(repos.labWork, repos.result),
		image: service.NewImageService(repos.image, provider),
	}
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	repos := initRepositories(db)
	svcs := initServices(repos, cfg)

	monitoring.Init()

	registry := server.NewConnectionRegistry()
	dispatcher := server.NewDispatcher(svcs.auth, svcs.quiz, svcs.labs, svcs.image)

	return &App{
		Config: cfg,
		DB:     db,
		tcp:    server.NewTCPServer(cfg.TCPAddr(), dispatcher, registry),
		media:  server.NewMediaServer(cfg),
	}
}

func (a *App) Run() {
	a.media.Start()
	if err := a.tcp.Start(); err != nil {
		logger.Log.Fatal("Failed to start TCP server", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	a.tcp.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.media.Shutdown(ctx); err != nil {
		logger.Log.Error("static media server shutdown failed", zap.Error(err))
	}

	log.Println("Server exiting")
}
