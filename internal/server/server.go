package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskmarket/internal/config"
	"taskmarket/internal/handler"
	"taskmarket/internal/middleware"
	"taskmarket/internal/migration"
	"taskmarket/internal/repository"
	"taskmarket/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("❌ failed to access DB handle: %w", err)
	}
	if err := migration.Run(sqlDB); err != nil {
		return nil, fmt.Errorf("❌ failed to run migrations: %w", err)
	}
	log.Println("✅ Database schema up to date")

	store, err := storage.New(cfg.UploadDir, cfg.UploadURLPrefix, cfg.MaxUploadBytes)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to init attachment storage: %w", err)
	}

	// Setup Gin
	r := gin.Default()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	intentRepo := repository.NewIntentRepository(db)
	replyRepo := repository.NewReplyRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo)
	taskHandler := handler.NewTaskHandler(taskRepo, store)
	intentHandler := handler.NewIntentHandler(intentRepo, taskRepo)
	replyHandler := handler.NewReplyHandler(replyRepo, taskRepo, store)
	reviewHandler := handler.NewReviewHandler(reviewRepo, taskRepo)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/tasks", taskHandler.List)
	r.GET("/tasks/:id", taskHandler.GetByID)
	r.GET("/tasks/:id/replies", replyHandler.ListByTask)
	r.GET("/tasks/:id/replies/history", replyHandler.HistoryByTask)
	r.GET("/tasks/:id/intents", intentHandler.ListByTask)
	// Anonymous callers get {"hasIntent": false}, not a 401.
	r.GET("/tasks/:id/intent", middleware.OptionalJWTAuthMiddleware(cfg.JWTSecret), intentHandler.Check)
	r.GET("/users/:id/rating", reviewHandler.Rating)
	r.Static(cfg.UploadURLPrefix, cfg.UploadDir)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		authorized.GET("/me", userHandler.Me)

		// Task routes
		authorized.POST("/tasks", taskHandler.Create)
		authorized.GET("/my-tasks", taskHandler.ListMine)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.POST("/tasks/:id/toggle-completed", taskHandler.ToggleCompleted)

		// Intent routes
		authorized.POST("/tasks/:id/intent", intentHandler.Toggle)

		// Reply routes
		authorized.POST("/replies", replyHandler.Submit)
		authorized.POST("/replies/:id/accept", replyHandler.Accept)
		authorized.POST("/replies/:id/reject", replyHandler.Reject)

		// Review routes
		authorized.POST("/reviews", reviewHandler.Submit)
	}
	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
