package chessbuilder

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/park285/chessboard/internal/adapter/chesspresenter"
	"github.com/park285/chessboard/internal/config"
	"github.com/park285/chessboard/internal/httpapi"
	"github.com/park285/chessboard/internal/msgcat"
	svcchess "github.com/park285/chessboard/internal/service/chess"
)

type Deps struct {
	Service   *svcchess.Service
	Store     svcchess.SessionStore
	Renderer  svcchess.BoardRenderer
	Catalog   *msgcat.Catalog
	Formatter *chesspresenter.Formatter
	HTTP      *httpapi.Server
}

func New(cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	store := svcchess.NewMemoryStore(cfg.MaxSessions)
	renderer := svcchess.NewPNGBoardRenderer(cfg.BoardSquarePx)
	svcCfg := svcchess.Config{
		SessionTTL: cfg.SessionTTL(),
		AutoReply:  cfg.AutoReply,
		RandomSeed: cfg.RandomSeed,
	}
	service, err := svcchess.NewService(store, renderer, svcCfg, logger.Named("chess"))
	if err != nil {
		return nil, err
	}

	formatter := chesspresenter.NewFormatter(catalog)
	return &Deps{
		Service:   service,
		Store:     store,
		Renderer:  renderer,
		Catalog:   catalog,
		Formatter: formatter,
		HTTP:      httpapi.NewServer(service, logger.Named("http"), httpapi.WithFormatter(formatter)),
	}, nil
}
