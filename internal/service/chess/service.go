package chess

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
	"go.uber.org/zap"

	corechess "github.com/park285/chessboard/internal/chess"
	"github.com/park285/chessboard/internal/controller"
)

var (
	ErrSessionNotFound   = errors.New("chess session not found")
	ErrDuplicateSession  = errors.New("chess session already exists")
	ErrSessionLimit      = errors.New("too many chess sessions")
	ErrInvalidSquare     = errors.New("invalid square")
	ErrInvalidPromotion  = errors.New("invalid promotion piece")
	ErrUndoNotAvailable  = errors.New("no moves available to undo")
	ErrNoMoveAvailable   = errors.New("no legal move available")
	ErrRendererMissing   = errors.New("board renderer not configured")
	ErrSessionStoreEmpty = errors.New("session store not configured")
)

const (
	defaultSessionTTL = time.Hour
	labelWords        = 2
)

type Config struct {
	SessionTTL time.Duration
	// AutoReply is the default for sessions that do not choose.
	AutoReply  bool
	RandomSeed int64
}

type Service struct {
	store    SessionStore
	renderer BoardRenderer
	selector corechess.MoveSelector
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

type StartOptions struct {
	// AutoReply overrides Config.AutoReply when set.
	AutoReply *bool
	// PlayAs is the human side in auto-reply sessions.
	PlayAs corechess.Color
	// FEN starts from a custom position instead of the initial one.
	FEN string
}

type SessionState struct {
	SessionID string
	Label     string
	AutoReply bool
	PlayAs    corechess.Color
	Snapshot  controller.Snapshot
	TapResult string
	// Reply is the opponent's answer in auto-reply sessions, if one was
	// played during this command.
	Reply     *corechess.Move
	StartedAt time.Time
	UpdatedAt time.Time
}

func NewService(store SessionStore, renderer BoardRenderer, cfg Config, logger *zap.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("board renderer is required")
	}
	if cfg.SessionTTL < 0 {
		return nil, fmt.Errorf("session TTL must not be negative")
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		renderer: renderer,
		selector: corechess.NewRandomSelector(cfg.RandomSeed),
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// SetMoveSelector replaces the strategy used for random moves and
// auto-replies in sessions created afterwards.
func (s *Service) SetMoveSelector(sel corechess.MoveSelector) {
	if sel != nil {
		s.selector = sel
	}
}

func (s *Service) StartSession(ctx context.Context, opts StartOptions) (*SessionState, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}

	game := corechess.NewGame()
	if fen := strings.TrimSpace(opts.FEN); fen != "" {
		g, err := corechess.NewGameFromFEN(fen)
		if err != nil {
			return nil, err
		}
		game = g
	}

	autoReply := s.cfg.AutoReply
	if opts.AutoReply != nil {
		autoReply = *opts.AutoReply
	}

	id := uuid.NewString()
	now := s.now()
	sess := &session{
		id:        id,
		label:     petname.Generate(labelWords, "-"),
		ctrl:      controller.New(game, s.selector, s.logger.With(zap.String("session_id", id))),
		autoReply: autoReply,
		human:     opts.PlayAs,
		startedAt: now,
		updatedAt: now,
	}
	if autoReply && opts.PlayAs == corechess.Black {
		sess.ctrl.Flip()
	}
	if err := s.store.Insert(sess); err != nil {
		return nil, err
	}

	s.logger.Info("session_start",
		zap.String("session_id", id),
		zap.String("label", sess.label),
		zap.Bool("auto_reply", autoReply),
		zap.String("play_as", opts.PlayAs.String()),
	)

	var state *SessionState
	err := s.withSession(ctx, id, func(sess *session) error {
		reply := s.autoReply(sess)
		state = s.stateFrom(sess)
		state.Reply = reply
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (s *Service) Status(ctx context.Context, id string) (*SessionState, error) {
	var state *SessionState
	err := s.withSession(ctx, id, func(sess *session) error {
		state = s.stateFrom(sess)
		return nil
	})
	return state, err
}

// Tap forwards one square press. In auto-reply sessions a completed human
// move is answered immediately.
func (s *Service) Tap(ctx context.Context, id, square string) (*SessionState, error) {
	sq, err := corechess.ParseSquare(square)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSquare, square)
	}
	var state *SessionState
	err = s.withSession(ctx, id, func(sess *session) error {
		result := sess.ctrl.Tap(sq)
		var reply *corechess.Move
		if result == controller.Moved {
			s.logMove(sess, "tap")
			reply = s.autoReply(sess)
		}
		state = s.stateFrom(sess)
		state.TapResult = result.String()
		state.Reply = reply
		return nil
	})
	return state, err
}

func (s *Service) Flip(ctx context.Context, id string) (*SessionState, error) {
	var state *SessionState
	err := s.withSession(ctx, id, func(sess *session) error {
		sess.ctrl.Flip()
		state = s.stateFrom(sess)
		return nil
	})
	return state, err
}

// Undo takes back one ply, or in auto-reply sessions enough plies to hand
// the move back to the human. An opponent move that opened the game is
// never taken back on its own.
func (s *Service) Undo(ctx context.Context, id string) (*SessionState, error) {
	var state *SessionState
	err := s.withSession(ctx, id, func(sess *session) error {
		if sess.autoReply && sess.ctrl.Turn() == sess.human && len(sess.ctrl.History()) < 2 {
			return ErrUndoNotAvailable
		}
		m, ok := sess.ctrl.Undo()
		if !ok {
			return ErrUndoNotAvailable
		}
		if sess.autoReply && sess.ctrl.Turn() != sess.human && len(sess.ctrl.History()) > 0 {
			m, _ = sess.ctrl.Undo()
		}
		s.logger.Info("undo",
			zap.String("session_id", sess.id),
			zap.String("san", m.SAN),
			zap.Int("plies", len(sess.ctrl.History())),
		)
		state = s.stateFrom(sess)
		return nil
	})
	return state, err
}

func (s *Service) Reset(ctx context.Context, id string) (*SessionState, error) {
	var state *SessionState
	err := s.withSession(ctx, id, func(sess *session) error {
		sess.ctrl.Reset()
		if sess.autoReply && sess.human == corechess.Black {
			sess.ctrl.Flip()
		}
		s.logger.Info("reset", zap.String("session_id", sess.id))
		reply := s.autoReply(sess)
		state = s.stateFrom(sess)
		state.Reply = reply
		return nil
	})
	return state, err
}

// RandomMove plays a uniformly chosen legal move for the side to move.
func (s *Service) RandomMove(ctx context.Context, id string) (*SessionState, error) {
	var state *SessionState
	err := s.withSession(ctx, id, func(sess *session) error {
		if _, ok := sess.ctrl.RandomMove(); !ok {
			return ErrNoMoveAvailable
		}
		s.logMove(sess, "random")
		reply := s.autoReply(sess)
		state = s.stateFrom(sess)
		state.Reply = reply
		return nil
	})
	return state, err
}

// SetPromotion accepts q, r, b, n or the full piece name.
func (s *Service) SetPromotion(ctx context.Context, id, piece string) (*SessionState, error) {
	pt, ok := corechess.ParsePieceType(piece)
	if !ok || !pt.IsPromotable() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPromotion, piece)
	}
	var state *SessionState
	err := s.withSession(ctx, id, func(sess *session) error {
		if err := sess.ctrl.SetPromotion(pt); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPromotion, err)
		}
		state = s.stateFrom(sess)
		return nil
	})
	return state, err
}

// End discards the session.
func (s *Service) End(ctx context.Context, id string) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	if !s.store.Delete(id) {
		return ErrSessionNotFound
	}
	s.logger.Info("session_end", zap.String("session_id", id))
	return nil
}

func (s *Service) RenderBoard(ctx context.Context, id string) ([]byte, error) {
	var (
		snap  controller.Snapshot
		label string
	)
	err := s.withSession(ctx, id, func(sess *session) error {
		snap = sess.ctrl.Snapshot()
		label = sess.label
		return nil
	})
	if err != nil {
		return nil, err
	}
	img, err := s.renderer.RenderPNG(ctx, snap, RenderOptions{HUDHeader: label})
	if err != nil {
		s.logger.Warn("failed to render chess board", zap.Error(err), zap.String("session_id", id))
		return nil, err
	}
	return img, nil
}

// PruneExpired drops sessions idle for longer than the TTL and reports
// how many were removed.
func (s *Service) PruneExpired(now time.Time) int {
	removed := 0
	for _, sess := range s.store.List() {
		sess.mu.Lock()
		expired := s.expired(sess, now)
		sess.mu.Unlock()
		if expired && s.store.Delete(sess.id) {
			removed++
			s.logger.Info("session_expired", zap.String("session_id", sess.id))
		}
	}
	return removed
}

// ActiveSessions counts live sessions.
func (s *Service) ActiveSessions() int { return s.store.Len() }

func (s *Service) ensureReady() error {
	switch {
	case s.store == nil:
		return ErrSessionStoreEmpty
	case s.renderer == nil:
		return ErrRendererMissing
	default:
		return nil
	}
}

func (s *Service) expired(sess *session, now time.Time) bool {
	return now.Sub(sess.updatedAt) > s.cfg.SessionTTL
}

func (s *Service) withSession(ctx context.Context, id string, fn func(*session) error) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	sess, ok := s.store.Get(id)
	if !ok {
		return ErrSessionNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	now := s.now()
	if s.expired(sess, now) {
		s.store.Delete(sess.id)
		s.logger.Info("session_expired", zap.String("session_id", sess.id))
		return ErrSessionNotFound
	}
	if err := fn(sess); err != nil {
		return err
	}
	sess.updatedAt = now
	return nil
}

// autoReply lets the random opponent move while it is not the human's turn.
func (s *Service) autoReply(sess *session) *corechess.Move {
	if !sess.autoReply || sess.ctrl.Turn() == sess.human || sess.ctrl.Status().IsOver() {
		return nil
	}
	m, ok := sess.ctrl.RandomMove()
	if !ok {
		return nil
	}
	s.logMove(sess, "auto_reply")
	return &m
}

func (s *Service) logMove(sess *session, source string) {
	hist := sess.ctrl.History()
	if len(hist) == 0 {
		return
	}
	last := hist[len(hist)-1]
	st := sess.ctrl.Status()
	s.logger.Info("move_applied",
		zap.String("session_id", sess.id),
		zap.String("source", source),
		zap.String("san", last.SAN),
		zap.String("uci", last.UCI()),
		zap.String("status", st.String()),
	)
	if st.IsOver() {
		s.logger.Info("game_over",
			zap.String("session_id", sess.id),
			zap.String("status", st.String()),
			zap.Int("plies", len(hist)),
		)
	}
}

func (s *Service) stateFrom(sess *session) *SessionState {
	return &SessionState{
		SessionID: sess.id,
		Label:     sess.label,
		AutoReply: sess.autoReply,
		PlayAs:    sess.human,
		Snapshot:  sess.ctrl.Snapshot(),
		StartedAt: sess.startedAt,
		UpdatedAt: sess.updatedAt,
	}
}
