package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"lsb-music/internal/config"
	"lsb-music/internal/exporter"
	"lsb-music/internal/model"
	mysqlClient "lsb-music/internal/platform/mysql"
	rabbitmqClient "lsb-music/internal/platform/rabbitmq"
	redisClient "lsb-music/internal/platform/redis"
	"lsb-music/internal/repository"
	"lsb-music/internal/worker"
)

type App struct {
	Config       *config.Config
	MySQL        *gorm.DB
	Redis        *redis.Client
	MQConn       *amqp.Connection
	ExportWorker *worker.ExportWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(
		&model.Session{},
		&model.SessionEntry{},
		&model.Exercise{},
		&model.Song{},
		&model.ExerciseSongMapping{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	sessionRepo := repository.NewSessionRepository(mysqlDB)
	catalogueRepo := repository.NewCatalogueRepository(mysqlDB)
	playlistExporter := exporter.NewPlaylistExporter(catalogueRepo, cfg.Export.Path, cfg.Export.MusicRoot)
	exportWorker := worker.NewExportWorker(mqConn, sessionRepo, playlistExporter, cfg.RabbitMQ.SessionEventQueue)
	if err := exportWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start export worker failed: %w", err)
	}

	return &App{
		Config:       cfg,
		MySQL:        mysqlDB,
		Redis:        redisCli,
		MQConn:       mqConn,
		ExportWorker: exportWorker,
		StartedAt:    time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.ExportWorker != nil {
		a.ExportWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
