package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/chessboard/internal/adapter/chesspresenter"
	corechess "github.com/park285/chessboard/internal/chess"
	svc "github.com/park285/chessboard/internal/service/chess"
	"github.com/park285/chessboard/pkg/chessdto"
)

const (
	sessionsPrefix = "/api/sessions"
	defaultTimeout = 10 * time.Second
	maxBodySize    = 16 << 10
)

// Server exposes the session service over HTTP.
type Server struct {
	svc     *svc.Service
	fmt     *chesspresenter.Formatter
	logger  *zap.Logger
	timeout time.Duration
	srv     *fasthttp.Server
}

type Option func(*Server)

func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithFormatter sets the text renderer behind GET /api/sessions/{id}/text.
func WithFormatter(f *chesspresenter.Formatter) Option {
	return func(s *Server) {
		if f != nil {
			s.fmt = f
		}
	}
}

func NewServer(service *svc.Service, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{svc: service, fmt: chesspresenter.NewFormatter(nil), logger: logger, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(s)
	}
	s.srv = &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "chessboard",
		ReadTimeout:        s.timeout,
		WriteTimeout:       s.timeout,
		MaxRequestBodySize: maxBodySize,
	}
	return s
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(ln) }()
	s.logger.Info("http_listen", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.srv.ShutdownWithContext(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// Handler routes requests and logs one http_request event per call.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(rc *fasthttp.RequestCtx) {
		start := time.Now()
		s.route(rc)
		s.logger.Info("http_request",
			zap.String("method", string(rc.Method())),
			zap.String("path", string(rc.Path())),
			zap.Int("status", rc.Response.StatusCode()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

func (s *Server) route(rc *fasthttp.RequestCtx) {
	path := strings.TrimRight(string(rc.Path()), "/")
	method := string(rc.Method())

	if path == "/healthz" {
		if method != fasthttp.MethodGet {
			methodNotAllowed(rc)
			return
		}
		writeJSON(rc, fasthttp.StatusOK, chessdto.HealthResponse{Status: "ok", Sessions: s.svc.ActiveSessions()})
		return
	}

	if path == sessionsPrefix {
		if method != fasthttp.MethodPost {
			methodNotAllowed(rc)
			return
		}
		s.handleStart(rc)
		return
	}

	rest, ok := strings.CutPrefix(path, sessionsPrefix+"/")
	if !ok || rest == "" {
		writeError(rc, fasthttp.StatusNotFound, chessdto.DomainError{Code: "not_found", Message: "no such route"})
		return
	}
	id, action, _ := strings.Cut(rest, "/")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	switch {
	case action == "" && method == fasthttp.MethodGet:
		s.respondState(rc, func() (*svc.SessionState, error) { return s.svc.Status(ctx, id) })
	case action == "" && method == fasthttp.MethodDelete:
		if err := s.svc.End(ctx, id); err != nil {
			s.writeDomainError(rc, err)
			return
		}
		rc.SetStatusCode(fasthttp.StatusNoContent)
	case action == "board.png" && method == fasthttp.MethodGet:
		img, err := s.svc.RenderBoard(ctx, id)
		if err != nil {
			s.writeDomainError(rc, err)
			return
		}
		rc.SetContentType("image/png")
		rc.Response.Header.Set("Cache-Control", "no-store")
		rc.SetStatusCode(fasthttp.StatusOK)
		rc.SetBody(img)
	case action == "text" && method == fasthttp.MethodGet:
		state, err := s.svc.Status(ctx, id)
		if err != nil {
			s.writeDomainError(rc, err)
			return
		}
		rc.SetContentType("text/plain; charset=utf-8")
		rc.SetStatusCode(fasthttp.StatusOK)
		rc.SetBodyString(s.fmt.Text(chesspresenter.ToDTOState(state)))
	case method != fasthttp.MethodPost:
		methodNotAllowed(rc)
	case action == "tap":
		var req chessdto.TapRequest
		if !decodeBody(rc, &req) {
			return
		}
		s.respondState(rc, func() (*svc.SessionState, error) { return s.svc.Tap(ctx, id, req.Square) })
	case action == "flip":
		s.respondState(rc, func() (*svc.SessionState, error) { return s.svc.Flip(ctx, id) })
	case action == "undo":
		s.respondState(rc, func() (*svc.SessionState, error) { return s.svc.Undo(ctx, id) })
	case action == "reset":
		s.respondState(rc, func() (*svc.SessionState, error) { return s.svc.Reset(ctx, id) })
	case action == "random":
		s.respondState(rc, func() (*svc.SessionState, error) { return s.svc.RandomMove(ctx, id) })
	case action == "promotion":
		var req chessdto.PromotionRequest
		if !decodeBody(rc, &req) {
			return
		}
		s.respondState(rc, func() (*svc.SessionState, error) { return s.svc.SetPromotion(ctx, id, req.Piece) })
	default:
		writeError(rc, fasthttp.StatusNotFound, chessdto.DomainError{Code: "not_found", Message: "unknown action " + action})
	}
}

func (s *Server) handleStart(rc *fasthttp.RequestCtx) {
	var req chessdto.StartSessionRequest
	if len(rc.PostBody()) > 0 && !decodeBody(rc, &req) {
		return
	}
	opts := svc.StartOptions{AutoReply: req.AutoReply, FEN: req.FEN}
	switch strings.ToLower(strings.TrimSpace(req.PlayAs)) {
	case "", "white", "w":
		opts.PlayAs = corechess.White
	case "black", "b":
		opts.PlayAs = corechess.Black
	default:
		writeError(rc, fasthttp.StatusBadRequest, chessdto.DomainError{Code: chessdto.CodeBadRequest, Message: "playAs must be white or black"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	state, err := s.svc.StartSession(ctx, opts)
	if err != nil {
		s.writeDomainError(rc, err)
		return
	}
	writeJSON(rc, fasthttp.StatusCreated, chesspresenter.ToDTOState(state))
}

func (s *Server) respondState(rc *fasthttp.RequestCtx, fn func() (*svc.SessionState, error)) {
	state, err := fn()
	if err != nil {
		s.writeDomainError(rc, err)
		return
	}
	writeJSON(rc, fasthttp.StatusOK, chesspresenter.ToDTOState(state))
}

func (s *Server) writeDomainError(rc *fasthttp.RequestCtx, err error) {
	de := chesspresenter.ToDomainError(err)
	status := statusFor(de.Code)
	if status >= fasthttp.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err), zap.String("path", string(rc.Path())))
	} else if errors.Is(err, svc.ErrInvalidSquare) || errors.Is(err, svc.ErrInvalidPromotion) {
		s.logger.Debug("move_rejected", zap.Error(err))
	}
	writeError(rc, status, de)
}

func statusFor(code string) int {
	switch code {
	case chessdto.CodeSessionNotFound:
		return fasthttp.StatusNotFound
	case chessdto.CodeSessionLimit:
		return fasthttp.StatusTooManyRequests
	case chessdto.CodeInvalidSquare, chessdto.CodeInvalidPromotion, chessdto.CodeInvalidFEN, chessdto.CodeBadRequest:
		return fasthttp.StatusBadRequest
	case chessdto.CodeUndoNotAvailable, chessdto.CodeNoMoveAvailable:
		return fasthttp.StatusConflict
	default:
		return fasthttp.StatusInternalServerError
	}
}

func decodeBody(rc *fasthttp.RequestCtx, out any) bool {
	if err := json.Unmarshal(rc.PostBody(), out); err != nil {
		writeError(rc, fasthttp.StatusBadRequest, chessdto.DomainError{Code: chessdto.CodeBadRequest, Message: "invalid json body"})
		return false
	}
	return true
}

func methodNotAllowed(rc *fasthttp.RequestCtx) {
	writeError(rc, fasthttp.StatusMethodNotAllowed, chessdto.DomainError{Code: "method_not_allowed", Message: "method not allowed"})
}

func writeError(rc *fasthttp.RequestCtx, status int, de chessdto.DomainError) {
	writeJSON(rc, status, de)
}

func writeJSON(rc *fasthttp.RequestCtx, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		rc.SetStatusCode(fasthttp.StatusInternalServerError)
		rc.SetBodyString(`{"code":"internal","message":"encode response"}`)
		return
	}
	rc.SetContentType("application/json")
	rc.SetStatusCode(status)
	rc.SetBody(payload)
}
