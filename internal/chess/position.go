package chess

import (
	"fmt"
	"strings"
)

const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

type Board [64]Piece

func (b Board) At(sq Square) Piece {
	if !sq.Valid() {
		return NoPiece
	}
	return b[sq]
}

// Position is a value type; assigning it copies the board.
type Position struct {
	Board          Board
	Turn           Color
	Castling       CastlingRights
	EnPassant      Square
	HalfmoveClock  int
	FullmoveNumber int
}

// InitialPosition returns the standard starting position.
func InitialPosition() Position {
	var b Board
	back := [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for f := 0; f < 8; f++ {
		b[NewSquare(f, 0)] = Piece{White, back[f]}
		b[NewSquare(f, 1)] = Piece{White, Pawn}
		b[NewSquare(f, 6)] = Piece{Black, Pawn}
		b[NewSquare(f, 7)] = Piece{Black, back[f]}
	}
	return Position{
		Board:          b,
		Turn:           White,
		Castling:       AllCastling,
		EnPassant:      NoSquare,
		FullmoveNumber: 1,
	}
}

// KingSquare locates the king of color c.
func (p *Position) KingSquare(c Color) Square {
	want := Piece{c, King}
	for sq := Square(0); sq < 64; sq++ {
		if p.Board[sq] == want {
			return sq
		}
	}
	return NoSquare
}

// Signature identifies a position for repetition counting. Clocks are
// excluded.
func (p *Position) Signature() string {
	fen := p.FEN()
	fields := strings.Fields(fen)
	return strings.Join(fields[:4], " ")
}

func (p *Position) validate() error {
	for _, c := range []Color{White, Black} {
		n := 0
		for sq := Square(0); sq < 64; sq++ {
			if p.Board[sq] == (Piece{c, King}) {
				n++
			}
		}
		if n != 1 {
			return fmt.Errorf("%w: %s has %d kings", ErrInvalidPosition, c, n)
		}
	}
	for f := 0; f < 8; f++ {
		for _, r := range []int{0, 7} {
			if p.Board[NewSquare(f, r)].Type == Pawn {
				return fmt.Errorf("%w: pawn on %s", ErrInvalidPosition, NewSquare(f, r))
			}
		}
	}
	if isSquareAttacked(p, p.KingSquare(p.Turn.Opposite()), p.Turn) {
		return fmt.Errorf("%w: side not to move is in check", ErrInvalidPosition)
	}
	return nil
}

// Ascii draws the board from White's side, rank 8 first.
func (p *Position) Ascii() string {
	var b strings.Builder
	for r := 7; r >= 0; r-- {
		fmt.Fprintf(&b, "%d ", r+1)
		for f := 0; f < 8; f++ {
			pc := p.Board[NewSquare(f, r)]
			if pc.IsEmpty() {
				b.WriteString(". ")
				continue
			}
			b.WriteString(pc.FEN())
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	b.WriteString("  a b c d e f g h\n")
	return b.String()
}
