package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "lsb-music/internal/app"
	"lsb-music/internal/bootstrap"
	"lsb-music/internal/cache"
	"lsb-music/internal/exporter"
	"lsb-music/internal/platform/rabbitmq"
	"lsb-music/internal/repository"
	"lsb-music/internal/transport/http/handler"
	"lsb-music/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	sessionRepo := repository.NewSessionRepository(app.MySQL)
	catalogueRepo := repository.NewCatalogueRepository(app.MySQL)
	catalogueCache := cache.NewCatalogueCache(
		app.Redis,
		time.Duration(app.Config.Redis.CatalogueTTLSeconds)*time.Second,
	)
	eventPublisher := rabbitmq.NewSessionEventPublisher(app.MQConn, app.Config.RabbitMQ.SessionEventQueue)

	sessionService := appsvc.NewSessionService(sessionRepo, eventPublisher)
	catalogueService := appsvc.NewCatalogueService(catalogueRepo, catalogueCache)
	playlistExporter := exporter.NewPlaylistExporter(
		catalogueService,
		app.Config.Export.Path,
		app.Config.Export.MusicRoot,
	)

	authHandler := handler.NewAuthHandler(
		app.Config.Auth.AccessPasswordHash,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	sessionHandler := handler.NewSessionHandler(sessionService)
	catalogueHandler := handler.NewCatalogueHandler(catalogueService)
	exportHandler := handler.NewExportHandler(sessionService, playlistExporter)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/login", authHandler.Login)

	sessionGroup := v1.Group("/sessions")
	sessionGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	sessionGroup.PUT("", sessionHandler.Save)
	sessionGroup.GET("", sessionHandler.List)
	sessionGroup.GET("/:id", sessionHandler.Get)
	sessionGroup.DELETE("/:id", sessionHandler.Delete)
	sessionGroup.POST("/:id/export", exportHandler.Export)

	catalogueGroup := v1.Group("/catalogue")
	catalogueGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	catalogueGroup.GET("/exercises", catalogueHandler.ListExercises)
	catalogueGroup.GET("/exercises/:id", catalogueHandler.GetExercise)
	catalogueGroup.GET("/exercises/:id/songs", catalogueHandler.SongsForExercise)
	catalogueGroup.GET("/songs/:ref", catalogueHandler.GetSong)
	catalogueGroup.GET("/search", catalogueHandler.SearchBySong)

	return router
}
