package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiaoqingming18/qm-chat-server/internal/auth"
	"github.com/xiaoqingming18/qm-chat-server/internal/config"
	"github.com/xiaoqingming18/qm-chat-server/internal/logger"
	"github.com/xiaoqingming18/qm-chat-server/internal/realtime"
	"github.com/xiaoqingming18/qm-chat-server/internal/repository"
	"github.com/xiaoqingming18/qm-chat-server/internal/service"
	httpTransport "github.com/xiaoqingming18/qm-chat-server/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)
	log := logger.Module("main")

	db, err := initDatabase(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	// Repositories
	roomRepo := repository.NewChatroomRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	directory := service.NewDirectoryService(roomRepo, userRepo)
	history := service.NewHistoryService(msgRepo, userRepo)

	// Real-time core
	registry := realtime.NewRegistry()
	broadcaster := realtime.NewBroadcaster(registry, logger.Module("broadcaster"))
	gateway := realtime.NewGateway(registry, broadcaster, history, cfg.StoreTimeout, logger.Module("gateway"))

	verifier := auth.NewVerifier(cfg.JWTSecret)

	server := httpTransport.NewServer(
		directory,
		history,
		registry,
		broadcaster,
		gateway,
		verifier,
		httpTransport.ServerConfig{
			Address:        cfg.Addr,
			SendBufferSize: cfg.SendBufferSize,
		},
		logger.Module("http"),
	)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("db", cfg.DatabasePath).Msg("chat server starting")
		if err := server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("shutdown complete")
}

func initDatabase(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	db.Exec("PRAGMA journal_mode=WAL")

	err = db.AutoMigrate(
		&repository.ChatroomModel{},
		&repository.MembershipModel{},
		&repository.MessageModel{},
		&repository.UserModel{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
