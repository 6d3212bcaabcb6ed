package chess

import (
	"fmt"
	"maps"
)

type historyEntry struct {
	move   Move
	before Position
}

// Game owns the authoritative position, the move history and the
// repetition counts. It is not safe for concurrent use.
type Game struct {
	start       Position
	pos         Position
	history     []historyEntry
	repetitions map[string]int
}

func NewGame() *Game {
	g := &Game{}
	g.resetTo(InitialPosition())
	return g
}

// NewGameFromFEN starts a game from an arbitrary legal position. Reset
// returns to the standard initial position, not to this one.
func NewGameFromFEN(fen string) (*Game, error) {
	pos, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	g := &Game{}
	g.resetTo(pos)
	return g, nil
}

func (g *Game) resetTo(pos Position) {
	g.start = pos
	g.pos = pos
	g.history = nil
	g.repetitions = map[string]int{pos.Signature(): 1}
}

// Reset replaces the game with the standard initial position.
func (g *Game) Reset() { g.resetTo(InitialPosition()) }

func (g *Game) Position() Position { return g.pos }
func (g *Game) Turn() Color        { return g.pos.Turn }
func (g *Game) FEN() string        { return g.pos.FEN() }

// LegalMoves lists every legal move of the side to move.
func (g *Game) LegalMoves() []Move { return legalMoves(&g.pos, NoSquare) }

// LegalMovesFrom lists the legal moves of the piece on sq. It is empty for
// an empty square or a piece of the side not to move.
func (g *Game) LegalMovesFrom(sq Square) []Move {
	if !sq.Valid() {
		return nil
	}
	return legalMoves(&g.pos, sq)
}

func (g *Game) IsInCheck(c Color) bool { return inCheck(&g.pos, c) }

func (g *Game) Status() Status {
	return evaluateStatus(&g.pos, g.repetitions[g.pos.Signature()])
}

// AttemptMove plays from-to if it is legal. promotion may be NoPieceType,
// which promotes to a queen; it is ignored for non-promoting moves. On
// error the game is left untouched.
func (g *Game) AttemptMove(from, to Square, promotion PieceType) (Move, error) {
	if !from.Valid() || !to.Valid() {
		return Move{}, ErrInvalidSquare
	}
	if promotion != NoPieceType && !promotion.IsPromotable() {
		return Move{}, fmt.Errorf("%w: %s", ErrInvalidPromotion, promotion)
	}
	if st := g.Status(); st.IsOver() {
		return Move{}, fmt.Errorf("%w: %s", ErrGameOver, st)
	}
	if promotion == NoPieceType {
		promotion = Queen
	}

	var (
		chosen Move
		found  bool
	)
	for _, m := range legalMoves(&g.pos, from) {
		if m.To != to {
			continue
		}
		if m.Promotion != NoPieceType && m.Promotion != promotion {
			continue
		}
		chosen, found = m, true
		break
	}
	if !found {
		return Move{}, fmt.Errorf("%w: %s%s", ErrIllegalMove, from, to)
	}

	chosen.SAN = encodeSAN(&g.pos, chosen, legalMoves(&g.pos, NoSquare))
	g.history = append(g.history, historyEntry{move: chosen, before: g.pos})
	applyMove(&g.pos, chosen)
	g.repetitions[g.pos.Signature()]++
	return chosen, nil
}

// AttemptUCI plays a move written as e2e4 or e7e8q.
func (g *Game) AttemptUCI(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, err
	}
	promo := NoPieceType
	if len(s) == 5 {
		pt, ok := ParsePieceType(s[4:])
		if !ok {
			return Move{}, fmt.Errorf("%w: %q", ErrInvalidPromotion, s[4:])
		}
		promo = pt
	}
	return g.AttemptMove(from, to, promo)
}

// Undo takes back the last move and reports it.
func (g *Game) Undo() (Move, bool) {
	n := len(g.history)
	if n == 0 {
		return Move{}, false
	}
	last := g.history[n-1]
	sig := g.pos.Signature()
	if g.repetitions[sig] <= 1 {
		delete(g.repetitions, sig)
	} else {
		g.repetitions[sig]--
	}
	g.pos = last.before
	g.history = g.history[:n-1]
	return last.move, true
}

// History returns the applied moves, oldest first.
func (g *Game) History() []Move {
	out := make([]Move, len(g.history))
	for i, h := range g.history {
		out[i] = h.move
	}
	return out
}

func (g *Game) LastMove() (Move, bool) {
	if len(g.history) == 0 {
		return Move{}, false
	}
	return g.history[len(g.history)-1].move, true
}

// RepetitionCount is how often the current position has occurred.
func (g *Game) RepetitionCount() int { return g.repetitions[g.pos.Signature()] }

// Repetitions returns a copy of the signature counts.
func (g *Game) Repetitions() map[string]int { return maps.Clone(g.repetitions) }

// StartFEN is the position the game began from.
func (g *Game) StartFEN() string { return g.start.FEN() }
