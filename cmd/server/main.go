package main

import (
	"Arquivista/internal/config"
	"Arquivista/internal/handlers"
	"Arquivista/internal/repo"
	"Arquivista/internal/service"
	"Arquivista/internal/storage"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	newLogger := zap.NewProduction
	if cfg.IsDevelopment() {
		newLogger = zap.NewDevelopment
	}
	logger, err := newLogger()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	if err := cfg.Validate(); err != nil {
		sugar.Fatalw("invalid configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	st, err := storage.NewManager(cfg.UploadDir)
	if err != nil {
		sugar.Fatalw("failed to prepare upload folder", "dir", cfg.UploadDir, "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	sessionRepo := repo.NewSessionRepository(gormDB)
	archiveRepo := repo.NewArchiveRepository(gormDB)

	userService := service.NewUserService(userRepo)
	sessionService := service.NewSessionService(sessionRepo, cfg.SessionTTL)
	fileService := service.NewFileService(st, archiveRepo, sugar)

	// протухшие сессии с прошлого запуска
	if n, err := sessionService.CleanupExpired(ctx); err != nil {
		sugar.Warnw("failed to clean expired sessions", "error", err)
	} else if n > 0 {
		sugar.Infow("Expired sessions removed", "count", n)
	}

	h := handlers.NewHandler(userService, sessionService, fileService, sugar, cfg)

	srv := &http.Server{
		Addr:         cfg.BaseURL,
		Handler:      h.Router,
		ErrorLog:     zap.NewStdLog(logger),
		ReadTimeout:  60 * time.Second, // большие загрузки
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"AppEnv", cfg.AppEnv,
		"Database", repo.Dialect(cfg.DatabaseDSN),
		"UploadDir", st.Root(),
		"UploadMaxMB", cfg.UploadMaxMB,
		"SessionTTL", cfg.SessionTTL,
	)

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		sugar.Fatalw("Failed to listen", "addr", srv.Addr, "error", err)
	}

	sugar.Infow("Starting server", "addr", ln.Addr().String())
	if err := serve(ctx, srv, ln, sugar); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
	sugar.Infow("Server stopped")
}

// serve обслуживает ln до отмены ctx, затем ждёт завершения активных
// запросов (не дольше shutdownTimeout).
func serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *zap.SugaredLogger) error {
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Infow("Shutting down, waiting for in-flight requests", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
