// Package controller turns square taps into engine commands and keeps the
// selection, target and last-move markers a board view needs.
package controller

import (
	"go.uber.org/zap"

	"github.com/park285/chessboard/internal/chess"
)

type TapResult uint8

const (
	Ignored TapResult = iota
	Selected
	Deselected
	Reselected
	Moved
	Rejected
)

func (r TapResult) String() string {
	switch r {
	case Selected:
		return "selected"
	case Deselected:
		return "deselected"
	case Reselected:
		return "reselected"
	case Moved:
		return "moved"
	case Rejected:
		return "rejected"
	default:
		return "ignored"
	}
}

// Controller owns one game. Not safe for concurrent use; callers that
// share a Controller must serialise access.
type Controller struct {
	game     *chess.Game
	selector chess.MoveSelector
	logger   *zap.Logger

	selected  chess.Square
	targets   map[chess.Square]struct{}
	lastFrom  chess.Square
	lastTo    chess.Square
	flipped   bool
	promotion chess.PieceType
}

// New wraps game. A nil game starts from the initial position and a nil
// selector draws uniformly at random.
func New(game *chess.Game, selector chess.MoveSelector, logger *zap.Logger) *Controller {
	if game == nil {
		game = chess.NewGame()
	}
	if selector == nil {
		selector = chess.NewRandomSelector(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{game: game, selector: selector, logger: logger}
	c.clearDerived()
	return c
}

func (c *Controller) clearDerived() {
	c.clearSelection()
	c.lastFrom, c.lastTo = chess.NoSquare, chess.NoSquare
	c.flipped = false
	c.promotion = chess.Queen
}

func (c *Controller) clearSelection() {
	c.selected = chess.NoSquare
	c.targets = nil
}

func (c *Controller) selectSquare(sq chess.Square) {
	c.selected = sq
	c.targets = make(map[chess.Square]struct{})
	for _, m := range c.game.LegalMovesFrom(sq) {
		c.targets[m.To] = struct{}{}
	}
}

func (c *Controller) ownPiece(sq chess.Square) bool {
	pos := c.game.Position()
	pc := pos.Board.At(sq)
	return !pc.IsEmpty() && pc.Color == pos.Turn
}

// Tap feeds one square press into the selection state machine.
func (c *Controller) Tap(sq chess.Square) TapResult {
	if !sq.Valid() || c.game.Status().IsOver() {
		return Ignored
	}

	if c.selected == chess.NoSquare {
		if !c.ownPiece(sq) {
			return Ignored
		}
		c.selectSquare(sq)
		return Selected
	}

	if sq == c.selected {
		c.clearSelection()
		return Deselected
	}

	if _, ok := c.targets[sq]; ok {
		m, err := c.game.AttemptMove(c.selected, sq, c.promotion)
		if err != nil {
			c.logger.Debug("move_rejected",
				zap.String("from", c.selected.String()),
				zap.String("to", sq.String()),
				zap.Error(err),
			)
			return Rejected
		}
		c.afterMove(m)
		return Moved
	}

	if c.ownPiece(sq) {
		c.selectSquare(sq)
		return Reselected
	}

	c.clearSelection()
	return Deselected
}

func (c *Controller) afterMove(m chess.Move) {
	c.clearSelection()
	c.lastFrom, c.lastTo = m.From, m.To
	c.promotion = chess.Queen
	c.logger.Debug("move_applied",
		zap.String("san", m.SAN),
		zap.String("uci", m.UCI()),
		zap.String("fen", c.game.FEN()),
	)
}

// Flip toggles which side is drawn at the bottom.
func (c *Controller) Flip() { c.flipped = !c.flipped }

func (c *Controller) Flipped() bool { return c.flipped }

// Undo takes back one move. The last-move markers point at the squares of
// the move just taken back, or are cleared once the history is empty.
func (c *Controller) Undo() (chess.Move, bool) {
	c.clearSelection()
	m, ok := c.game.Undo()
	if !ok {
		return chess.Move{}, false
	}
	if len(c.game.History()) == 0 {
		c.lastFrom, c.lastTo = chess.NoSquare, chess.NoSquare
	} else {
		c.lastFrom, c.lastTo = m.From, m.To
	}
	c.logger.Debug("undo", zap.String("san", m.SAN))
	return m, true
}

func (c *Controller) Reset() {
	c.game.Reset()
	c.clearDerived()
	c.logger.Debug("reset")
}

// RandomMove plays a move chosen by the selector. It does nothing when
// the game is over.
func (c *Controller) RandomMove() (chess.Move, bool) {
	if c.game.Status().IsOver() {
		return chess.Move{}, false
	}
	moves := c.game.LegalMoves()
	if len(moves) == 0 {
		return chess.Move{}, false
	}
	pick, err := c.selector.Select(moves)
	if err != nil {
		c.logger.Warn("random move selection failed", zap.Error(err))
		return chess.Move{}, false
	}
	m, err := c.game.AttemptMove(pick.From, pick.To, pick.Promotion)
	if err != nil {
		c.logger.Warn("random move rejected", zap.String("uci", pick.UCI()), zap.Error(err))
		return chess.Move{}, false
	}
	c.afterMove(m)
	return m, true
}

// SetPromotion chooses the piece used by the next promoting tap.
func (c *Controller) SetPromotion(pt chess.PieceType) error {
	if !pt.IsPromotable() {
		return chess.ErrInvalidPromotion
	}
	c.promotion = pt
	return nil
}

func (c *Controller) Promotion() chess.PieceType { return c.promotion }

// Selection reports the selected square, if any.
func (c *Controller) Selection() (chess.Square, bool) {
	return c.selected, c.selected != chess.NoSquare
}

func (c *Controller) Status() chess.Status { return c.game.Status() }
func (c *Controller) Turn() chess.Color    { return c.game.Turn() }
func (c *Controller) FEN() string          { return c.game.FEN() }
func (c *Controller) History() []chess.Move {
	return c.game.History()
}
