package server

import (
	"net/http"
	"time"

	"reclamation-portal/internal/config"
	"reclamation-portal/internal/handler"
	"reclamation-portal/internal/middleware"
	"reclamation-portal/internal/models"
	"reclamation-portal/internal/notifier"
	"reclamation-portal/internal/repository"
	"reclamation-portal/internal/service"
	"reclamation-portal/internal/upload"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Server struct {
	router   *gin.Engine
	db       *sqlx.DB
	cfg      *config.Config
	logger   *zap.Logger
	notifier notifier.Notifier
}

func NewServer(db *sqlx.DB, cfg *config.Config, logger *zap.Logger, n notifier.Notifier) (*Server, error) {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{
		router:   router,
		db:       db,
		cfg:      cfg,
		logger:   logger,
		notifier: n,
	}

	if err := s.setupRoutes(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	// Repositories
	userRepo := repository.NewUserRepository(s.db, s.logger)
	recRepo := repository.NewReclamationRepository(s.db, s.logger)

	// Services
	tokenService := service.NewTokenService(s.cfg.JWT.Secret, time.Duration(s.cfg.JWT.ExpiryHours)*time.Hour)
	authService := service.NewAuthService(userRepo, tokenService, service.NewDevIdentityProvider(), s.logger)
	recService := service.NewReclamationService(recRepo, userRepo, s.notifier, s.logger)
	userService := service.NewUserService(userRepo, recRepo, s.logger)

	uploadValidator, err := upload.NewValidator(
		s.cfg.Uploads.Dir,
		s.cfg.Uploads.PublicPrefix,
		s.cfg.Uploads.MaxSizeBytes,
		s.logger,
	)
	if err != nil {
		return err
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService, s.logger)
	recHandler := handler.NewReclamationHandler(recService, uploadValidator, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Stored attachments are served from the public uploads path.
	s.router.Static(s.cfg.Uploads.PublicPrefix, uploadValidator.Dir())

	// Authentication routes
	authGroup := s.router.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/callback", authHandler.Callback)

	authenticated := middleware.Authenticate(tokenService, userRepo, s.logger)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	// Worker routes
	reclamations := s.router.Group("/reclamations")
	reclamations.Use(authenticated)
	{
		reclamations.GET("/me", recHandler.GetMine)
		reclamations.POST("", recHandler.Create)
	}

	// Administrative routes
	admin := s.router.Group("/admin")
	admin.Use(authenticated, adminOnly)
	{
		admin.GET("/reclamations", recHandler.GetAll)
		admin.GET("/reclamations/stats", recHandler.GetStats)
		admin.PATCH("/reclamations/:id/status", recHandler.UpdateStatus)

		admin.GET("/users", userHandler.GetAll)
		admin.GET("/users/stats/overview", userHandler.GetOverview)
		admin.GET("/users/:id", userHandler.GetByID)
		admin.POST("/users", userHandler.Create)
		admin.PUT("/users/:id", userHandler.Update)
		admin.DELETE("/users/:id", userHandler.Delete)
	}

	return nil
}

func (s *Server) Run(addr string) {
	s.logger.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.logger.Fatal("Server failed to start", zap.Error(err))
	}
}
