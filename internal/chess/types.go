package chess

import (
	"fmt"
	"strings"
)

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Title returns the capitalised color name used in status lines.
func (c Color) Title() string {
	if c == White {
		return "White"
	}
	return "Black"
}

type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceTypeNames = [...]string{"", "pawn", "knight", "bishop", "rook", "queen", "king"}

func (pt PieceType) String() string {
	if int(pt) < len(pieceTypeNames) {
		return pieceTypeNames[pt]
	}
	return fmt.Sprintf("piecetype(%d)", pt)
}

// Letter is the upper-case SAN/FEN letter; pawns have none.
func (pt PieceType) Letter() string {
	switch pt {
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return ""
	}
}

// IsPromotable reports whether a pawn may promote to pt.
func (pt PieceType) IsPromotable() bool {
	return pt == Knight || pt == Bishop || pt == Rook || pt == Queen
}

// ParsePieceType accepts a letter (q, r, b, n...) or a full name.
func ParsePieceType(s string) (PieceType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "p", "pawn":
		return Pawn, true
	case "n", "knight":
		return Knight, true
	case "b", "bishop":
		return Bishop, true
	case "r", "rook":
		return Rook, true
	case "q", "queen":
		return Queen, true
	case "k", "king":
		return King, true
	}
	return NoPieceType, false
}

type Piece struct {
	Color Color
	Type  PieceType
}

var NoPiece = Piece{}

func (p Piece) IsEmpty() bool { return p.Type == NoPieceType }

// FEN returns the FEN character for the piece, or "" when empty.
func (p Piece) FEN() string {
	if p.IsEmpty() {
		return ""
	}
	l := p.Type.Letter()
	if p.Type == Pawn {
		l = "P"
	}
	if p.Color == Black {
		return strings.ToLower(l)
	}
	return l
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "empty"
	}
	return p.Color.String() + " " + p.Type.String()
}

// Square indexes the board from a1 (0) to h8 (63).
type Square int8

const NoSquare Square = -1

func NewSquare(file, rank int) Square {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return Square(rank*8 + file)
}

// ParseSquare parses algebraic coordinates such as "e4".
func ParseSquare(s string) (Square, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}

func (sq Square) Valid() bool { return sq >= 0 && sq < 64 }
func (sq Square) File() int   { return int(sq) % 8 }
func (sq Square) Rank() int   { return int(sq) / 8 }

// IsDark reports the square colour; a1 is dark.
func (sq Square) IsDark() bool { return (sq.File()+sq.Rank())%2 == 0 }

func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// CastlingRights is a bit set of the four castling permissions.
type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

func (cr CastlingRights) Has(r CastlingRights) bool { return cr&r != 0 }

func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var b strings.Builder
	if cr.Has(WhiteKingside) {
		b.WriteByte('K')
	}
	if cr.Has(WhiteQueenside) {
		b.WriteByte('Q')
	}
	if cr.Has(BlackKingside) {
		b.WriteByte('k')
	}
	if cr.Has(BlackQueenside) {
		b.WriteByte('q')
	}
	return b.String()
}

type MoveTag uint8

const (
	TagNone MoveTag = iota
	TagCastleKingside
	TagCastleQueenside
	TagEnPassant
)

func (t MoveTag) String() string {
	switch t {
	case TagCastleKingside:
		return "castle-kingside"
	case TagCastleQueenside:
		return "castle-queenside"
	case TagEnPassant:
		return "en-passant"
	default:
		return ""
	}
}

type Move struct {
	From      Square
	To        Square
	Piece     Piece
	Captured  Piece
	Promotion PieceType
	Tag       MoveTag
	// SAN is filled in once the move has been applied to a game.
	SAN string
}

func (m Move) IsCapture() bool { return !m.Captured.IsEmpty() }

func (m Move) IsCastle() bool {
	return m.Tag == TagCastleKingside || m.Tag == TagCastleQueenside
}

// UCI renders the move in long algebraic form, e.g. e7e8q.
func (m Move) UCI() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoPieceType {
		s += strings.ToLower(m.Promotion.Letter())
	}
	return s
}

func (m Move) String() string {
	if m.SAN != "" {
		return m.SAN
	}
	return m.UCI()
}
