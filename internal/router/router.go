package router

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/campusnet-app/backend/internal/fanout"
	"github.com/campusnet-app/backend/internal/handlers"
	"github.com/campusnet-app/backend/internal/middleware"
	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/internal/repositories"
	"github.com/campusnet-app/backend/internal/services"
	"github.com/campusnet-app/backend/pkg/config"
)

// SetupMiddleware configures global middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
}

// SetupRoutes wires repositories, services and handlers, and registers all
// routes.
func SetupRoutes(e *echo.Echo, db *config.DB, broker *fanout.Broker, cfg *config.Config) {
	if err := db.Postgres.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Block{},
		&models.Mark{},
		&models.Comment{},
		&models.Notification{},
		&models.Group{},
		&models.GroupMember{},
		&models.Event{},
		&models.EventRSVP{},
		&models.Report{},
		&models.Faculty{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to run database migrations")
	}

	mongoDB := db.Mongo.Database(cfg.MongoDB)

	// repositories
	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(db.Postgres)
	blockRepo := repositories.NewPostgresBlockRepository(db.Postgres)
	markRepo := repositories.NewPostgresMarkRepository(db.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(db.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(db.Postgres)
	groupRepo := repositories.NewPostgresGroupRepository(db.Postgres)
	eventRepo := repositories.NewPostgresEventRepository(db.Postgres)
	reportRepo := repositories.NewPostgresReportRepository(db.Postgres)
	facultyRepo := repositories.NewPostgresFacultyRepository(db.Postgres)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	messageRepo := repositories.NewMongoMessageRepository(mongoDB)

	// services
	notifier := services.NewNotifier(notificationRepo, userRepo, broker)
	graphSvc := services.NewGraphService(followRepo, blockRepo, userRepo, notifier)
	engagementSvc := services.NewEngagementService(markRepo, postRepo, commentRepo, notifier)
	conversationSvc := services.NewConversationService(messageRepo)

	// handlers
	authHandler := handlers.NewAuthHandler(userRepo, facultyRepo, cfg.JWTSecret)
	userHandler := handlers.NewUserHandler(userRepo)
	followHandler := handlers.NewFollowHandler(graphSvc, followRepo, blockRepo)
	postHandler := handlers.NewPostHandler(postRepo, userRepo, markRepo, commentRepo)
	feedHandler := handlers.NewFeedHandler(postRepo, graphSvc, postHandler)
	engagementHandler := handlers.NewEngagementHandler(engagementSvc, markRepo, postRepo, postHandler)
	commentHandler := handlers.NewCommentHandler(engagementSvc, commentRepo, userRepo)
	messageHandler := handlers.NewMessageHandler(messageRepo, userRepo, blockRepo, conversationSvc, notifier, broker)
	groupHandler := handlers.NewGroupHandler(groupRepo, userRepo, notifier)
	eventHandler := handlers.NewEventHandler(eventRepo, userRepo, notifier)
	facultyHandler := handlers.NewFacultyHandler(facultyRepo, userRepo)
	reportHandler := handlers.NewReportHandler(reportRepo, postRepo)
	adminHandler := handlers.NewAdminHandler(reportRepo, postRepo, userRepo, commentRepo, groupRepo, eventRepo, notifier)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	wsHandler := handlers.NewWSHandler(broker, cfg.JWTSecret)

	handlers.RegisterHealthRoutes(e)
	wsHandler.RegisterWSRoutes(e)

	api := e.Group("/api/v1")
	authHandler.RegisterAuthRoutes(api.Group("/auth"))

	protected := api.Group("", middleware.JWTAuthMiddleware(cfg.JWTSecret))
	userHandler.RegisterUserRoutes(protected)
	followHandler.RegisterFollowRoutes(protected)
	postHandler.RegisterPostRoutes(protected)
	feedHandler.RegisterFeedRoutes(protected)
	engagementHandler.RegisterEngagementRoutes(protected)
	commentHandler.RegisterCommentRoutes(protected)
	messageHandler.RegisterMessageRoutes(protected)
	groupHandler.RegisterGroupRoutes(protected)
	eventHandler.RegisterEventRoutes(protected)
	facultyHandler.RegisterFacultyRoutes(protected)
	reportHandler.RegisterReportRoutes(protected)
	notificationHandler.RegisterNotificationRoutes(protected)

	admin := protected.Group("/admin", middleware.AdminOnly())
	adminHandler.RegisterAdminRoutes(admin)
}
