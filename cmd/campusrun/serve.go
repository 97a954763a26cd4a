package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusrun/internal/db"
	"campusrun/internal/delivery"
	"campusrun/internal/notify"
	"campusrun/internal/server"
	"campusrun/internal/session"
	"campusrun/internal/storage"
	"campusrun/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	s3Client := s3.NewFromConfig(awsConfig)

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := session.Connect(ctx, config.RedisURL)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	userRepo := store.NewUserRepository(pool)
	requestRepo := store.NewRequestRepository(pool)
	archiveRepo := store.NewArchiveRepository(pool)
	messageRepo := store.NewMessageRepository(pool)

	sessions := session.New(redisClient, time.Duration(config.SessionMaxAgeSec)*time.Second)
	photos := storage.NewPhotoStorage(s3Client, config.PhotoBucketName, config.PhotoBaseURL)

	engine := delivery.NewEngine(requestRepo)
	aggregator := delivery.NewAggregator(requestRepo, archiveRepo)
	dispatcher := notify.NewLogDispatcher(logger)

	srv, err := server.New(
		config,
		logger,
		sessions,
		userRepo,
		messageRepo,
		photos,
		engine,
		aggregator,
		dispatcher,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
