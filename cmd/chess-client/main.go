package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/park285/chessboard/internal/adapter/chesspresenter"
	"github.com/park285/chessboard/internal/console"
	"github.com/park285/chessboard/internal/httpapi"
	"github.com/park285/chessboard/internal/msgcat"
	"github.com/park285/chessboard/internal/obslog"
	"github.com/park285/chessboard/pkg/chessdto"
)

func main() {
	addr := flag.String("addr", "http://127.0.0.1:8080", "chess-board server base URL")
	session := flag.String("session", "", "attach to an existing session id")
	auto := flag.Bool("vs-random", false, "let the server answer every move")
	side := flag.String("side", "white", "your side against the random opponent")
	fen := flag.String("fen", "", "start from this position")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	retry := flag.Int("retry", 3, "attempts for idempotent requests")
	messages := flag.String("messages", os.Getenv("CHESS_MESSAGES_DIR"), "message override directory")
	flag.Parse()

	if os.Getenv("LOG_TO_CONSOLE") == "" {
		os.Setenv("LOG_TO_CONSOLE", "false")
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	catalog, err := msgcat.New(*messages)
	if err != nil {
		log.Fatalf("messages: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := httpapi.NewClient(*addr, httpapi.WithClientTimeout(*timeout), httpapi.WithRetry(*retry))
	con := console.New(client, chesspresenter.NewFormatter(catalog), os.Stdout, logger)

	if *session != "" {
		err = con.Attach(ctx, *session)
	} else {
		err = con.Start(ctx, chessdto.StartSessionRequest{AutoReply: auto, PlayAs: *side, FEN: *fen})
	}
	if err != nil {
		logger.Error("session open failed", zap.Error(err))
		log.Fatalf("open session: %v", err)
	}

	if err := con.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		logger.Error("console stopped", zap.Error(err), zap.String("session_id", con.SessionID()))
		log.Fatalf("%v", err)
	}
}
