package controller

import (
	"sort"

	"github.com/park285/chessboard/internal/chess"
)

type SquareView struct {
	Square   chess.Square
	Piece    chess.Piece
	Dark     bool
	Selected bool
	Target   bool
	Check    bool
	LastMove bool
}

type HistoryPair struct {
	Number int
	White  string
	// Black is empty when the game stopped after White's move.
	Black string
}

// Snapshot is a read-only copy of everything a renderer draws.
type Snapshot struct {
	// Squares are in display order: top-left first, row by row.
	Squares    []SquareView
	Flipped    bool
	Turn       chess.Color
	InCheck    bool
	Status     chess.Status
	StatusText string
	History    []HistoryPair
	Moves      []chess.Move
	Selected   chess.Square
	Targets    []chess.Square
	LastFrom   chess.Square
	LastTo     chess.Square
	Promotion  chess.PieceType
	FEN        string
	MoveCount  int
}

// DisplayOrder lists the squares top-left to bottom-right for the given
// orientation. Unflipped puts a8 top-left.
func DisplayOrder(flipped bool) []chess.Square {
	out := make([]chess.Square, 0, 64)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			rank, file := 7-row, col
			if flipped {
				rank, file = row, 7-col
			}
			out = append(out, chess.NewSquare(file, rank))
		}
	}
	return out
}

// Snapshot rebuilds the derived view from the engine.
func (c *Controller) Snapshot() Snapshot {
	pos := c.game.Position()
	status := c.game.Status()
	inCheck := c.game.IsInCheck(pos.Turn)
	checkSq := chess.NoSquare
	if inCheck {
		checkSq = pos.KingSquare(pos.Turn)
	}

	snap := Snapshot{
		Squares:    make([]SquareView, 0, 64),
		Flipped:    c.flipped,
		Turn:       pos.Turn,
		InCheck:    inCheck,
		Status:     status,
		StatusText: StatusText(status, pos.Turn, inCheck),
		Selected:   c.selected,
		LastFrom:   c.lastFrom,
		LastTo:     c.lastTo,
		Promotion:  c.promotion,
		FEN:        pos.FEN(),
	}
	history := c.game.History()
	snap.History = HistoryPairs(history)
	snap.Moves = history
	snap.MoveCount = len(history)

	for sq := range c.targets {
		snap.Targets = append(snap.Targets, sq)
	}
	sort.Slice(snap.Targets, func(i, j int) bool { return snap.Targets[i] < snap.Targets[j] })

	for _, sq := range DisplayOrder(c.flipped) {
		_, target := c.targets[sq]
		snap.Squares = append(snap.Squares, SquareView{
			Square:   sq,
			Piece:    pos.Board.At(sq),
			Dark:     sq.IsDark(),
			Selected: sq == c.selected,
			Target:   target,
			Check:    sq == checkSq,
			LastMove: sq != chess.NoSquare && (sq == c.lastFrom || sq == c.lastTo),
		})
	}
	return snap
}

// HistoryPairs groups moves into numbered White/Black pairs. A history
// that begins with a Black move gets "..." in the first White slot.
func HistoryPairs(moves []chess.Move) []HistoryPair {
	var out []HistoryPair
	for _, m := range moves {
		if m.Piece.Color == chess.White || len(out) == 0 {
			out = append(out, HistoryPair{Number: len(out) + 1})
			if m.Piece.Color == chess.Black {
				out[len(out)-1].White = "..."
			}
		}
		cur := &out[len(out)-1]
		if m.Piece.Color == chess.White {
			cur.White = m.String()
		} else {
			cur.Black = m.String()
		}
	}
	return out
}

// StatusText renders the one-line status shown above the board.
func StatusText(st chess.Status, turn chess.Color, inCheck bool) string {
	switch st.Kind {
	case chess.Checkmate:
		return "Checkmate • " + st.Winner.Title() + " wins"
	case chess.Stalemate:
		return "Draw • Stalemate"
	case chess.Draw:
		switch st.Reason {
		case chess.DrawInsufficientMaterial:
			return "Draw • Insufficient material"
		case chess.DrawThreefoldRepetition:
			return "Draw • Threefold repetition"
		default:
			return "Draw"
		}
	}
	if inCheck {
		return turn.Title() + " to move • Check"
	}
	return turn.Title() + " to move"
}
