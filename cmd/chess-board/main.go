package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/park285/chessboard/internal/chessbuilder"
	appcfg "github.com/park285/chessboard/internal/config"
	"github.com/park285/chessboard/internal/obslog"
)

const pruneInterval = time.Minute

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	deps, err := chessbuilder.New(cfg, logger)
	if err != nil {
		logger.Fatal("chess init error", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go pruneLoop(ctx, deps, logger)

	logger.Info("chess_board_start",
		zap.String("addr", cfg.ListenAddr),
		zap.Int("max_sessions", cfg.MaxSessions),
		zap.Duration("session_ttl", cfg.SessionTTL()),
		zap.Bool("auto_reply", cfg.AutoReply),
	)
	if err := deps.HTTP.ListenAndServe(ctx, cfg.ListenAddr); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("http server error", zap.Error(err))
	}
	logger.Info("chess_board_stop")
}

func pruneLoop(ctx context.Context, deps *chessbuilder.Deps, logger *zap.Logger) {
	t := time.NewTicker(pruneInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := deps.Service.PruneExpired(now); n > 0 {
				logger.Info("sessions_pruned", zap.Int("count", n), zap.Int("active", deps.Service.ActiveSessions()))
			}
		}
	}
}
