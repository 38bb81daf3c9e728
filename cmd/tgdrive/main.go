package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tgdrive/internal/auth"
	"tgdrive/internal/bot"
	"tgdrive/internal/config"
	"tgdrive/internal/domain/services"
	"tgdrive/internal/events"
	"tgdrive/internal/handler"
	"tgdrive/internal/repository/store"
	authSvc "tgdrive/internal/service/auth"
	"tgdrive/internal/service/drive"
	"tgdrive/internal/session"
	"tgdrive/internal/telegram"
)

// shutdownGrace bounds how long in-flight intents may run after a signal.
// Handlers waiting on a prompt would otherwise hold shutdown for InputTimeout.
const shutdownGrace = 15 * time.Second

func main() {
	// Load .env file (silently ignore if it doesn't exist)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("tgdrive stopped with error", "error", err)
	}
	_ = logCloser.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("tgdrive starting",
		"environment", cfg.Environment,
		"table_prefix", cfg.TablePrefix,
		"worker_limit", cfg.WorkerLimit,
		"page_size", cfg.PageSize,
	)

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.EnsureSchema(ctx); err != nil {
		return err
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close event publisher", "error", err)
		}
	}()

	adapter, err := telegram.New(cfg.BotToken, cfg.StorageChat, cfg.PollTimeout, logger)
	if err != nil {
		return err
	}

	authorizer := authSvc.NewOwnerBasedAuthorizer(st.Folders, st.Files)
	accountService := drive.NewAccountService(st.Users, st.Folders, st.TxManager, publisher, logger)
	folderService := drive.NewFolderService(st.Users, st.Folders, st.TxManager, authorizer, publisher, logger)
	fileService := drive.NewFileService(st.Users, st.Folders, st.Files, adapter, authorizer, publisher, logger)
	treeService := drive.NewTreeService(st.Folders, st.Files, logger)

	inputs := session.NewInputRegistry()
	b := bot.New(accountService, folderService, fileService, inputs, adapter, cfg.PageSize, cfg.InputTimeout, logger)
	dispatcher := bot.NewDispatcher(b, inputs, cfg.WorkerLimit, logger)

	if cfg.OpsAddr != "" {
		stopOps, err := startOps(ctx, cfg, treeService, st.Ping, logger)
		if err != nil {
			return err
		}
		defer stopOps()
	}

	adapter.Poll(ctx, dispatcher)

	logger.Info("shutting down", "pending_prompts", inputs.Pending())
	done := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownGrace):
		logger.Warn("in-flight intents still running at shutdown", "pending_prompts", inputs.Pending())
	}
	return nil
}

// startOps serves the operator API in the background and returns its shutdown func
func startOps(
	ctx context.Context,
	cfg *config.Config,
	treeService services.TreeService,
	ping handler.Pinger,
	logger *slog.Logger,
) (func(), error) {
	verifier, err := auth.NewJWTVerifier(ctx, cfg.OpsJWKSURL, logger)
	if err != nil {
		return nil, err
	}

	router := handler.NewRouter(
		handler.NewHealthHandler(ping, logger),
		handler.NewTreeHandler(treeService, logger),
		verifier,
		cfg.OpsCORSOrigins,
		logger,
	)

	server := &http.Server{
		Addr:         cfg.OpsAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("ops server starting", "addr", cfg.OpsAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ops server failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("ops server shutdown failed", "error", err)
		}
		_ = verifier.Close()
	}, nil
}
