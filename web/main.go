package main

import (
	"encoding/base64"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"shiftsync.com/shiftsync/config"
	"shiftsync.com/shiftsync/core"
	v1 "shiftsync.com/shiftsync/graph/v1"
	"shiftsync.com/shiftsync/infrastructure/communication"
	"shiftsync.com/shiftsync/infrastructure/filesystem"
	"shiftsync.com/shiftsync/sync"
	"shiftsync.com/shiftsync/web/handlers"
	"shiftsync.com/shiftsync/web/middlewares"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	db, err := core.ConnectDB(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	if err := core.AutoMigrate(db); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	store := sync.NewGormStore(db)

	tokens := v1.NewClientCredentialsTokenProvider(
		cfg.Graph.TenantID,
		cfg.Graph.ClientID,
		cfg.Graph.ClientSecret)
	graph := v1.NewGraphClient(cfg.Graph.BaseURL, tokens)

	var files filesystem.FileStore
	if cfg.Uploads.Bucket != "" {
		files = filesystem.NewS3FileStore(cfg.Uploads.Bucket)
	} else {
		files = filesystem.NewLocalFileStore(cfg.Uploads.LocalDir)
	}

	syncService := sync.NewSyncService(store, graph, cfg.Graph.GroupNames, logger)
	if cfg.Slack.Token != "" {
		syncService.Notifier = communication.NewSlack(cfg.Slack.Token, communication.SlackOption{
			InfoChannelID:  cfg.Slack.InfoChannel,
			ErrorChannelID: cfg.Slack.ErrorChannel,
		})
	}

	importService := sync.NewImportService(store, sync.ExcelParser{}, files, logger)

	dispatcher := sync.NewDispatcher(4, 64, logger)
	defer dispatcher.Close()

	jwtSecret, err := base64.StdEncoding.DecodeString(cfg.Server.JWTSecret)
	if err != nil {
		logger.Fatal("decode jwt secret", zap.Error(err))
	}

	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	protected := r.Group("/api/v1")
	protected.Use(middlewares.Authentication(jwtSecret))
	handlers.Register(protected, &handlers.Endpoint{
		Store:      store,
		Sync:       syncService,
		Imports:    importService,
		Dispatcher: dispatcher,
		Files:      files,
		Logger:     logger,
	})

	if err := r.Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
