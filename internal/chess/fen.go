package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFEN decodes a Forsyth-Edwards string. The halfmove and fullmove
// fields may be omitted.
func ParseFEN(fen string) (Position, error) {
	fields := strings.Fields(fen)
	if len(fields) != 4 && len(fields) != 6 {
		return Position{}, fmt.Errorf("%w: expected 4 or 6 fields, got %d", ErrInvalidFEN, len(fields))
	}

	var pos Position
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return Position{}, fmt.Errorf("%w: expected 8 ranks", ErrInvalidFEN)
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range row {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pc, ok := pieceFromFEN(ch)
			if !ok {
				return Position{}, fmt.Errorf("%w: bad piece %q", ErrInvalidFEN, ch)
			}
			if file > 7 {
				return Position{}, fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, rank+1)
			}
			pos.Board[NewSquare(file, rank)] = pc
			file++
		}
		if file != 8 {
			return Position{}, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, rank+1, file)
		}
	}

	switch fields[1] {
	case "w":
		pos.Turn = White
	case "b":
		pos.Turn = Black
	default:
		return Position{}, fmt.Errorf("%w: bad side to move %q", ErrInvalidFEN, fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				pos.Castling |= WhiteKingside
			case 'Q':
				pos.Castling |= WhiteQueenside
			case 'k':
				pos.Castling |= BlackKingside
			case 'q':
				pos.Castling |= BlackQueenside
			default:
				return Position{}, fmt.Errorf("%w: bad castling %q", ErrInvalidFEN, fields[2])
			}
		}
	}
	pos.Castling = sanitizeCastling(&pos.Board, pos.Castling)

	pos.EnPassant = NoSquare
	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return Position{}, fmt.Errorf("%w: bad en passant %q", ErrInvalidFEN, fields[3])
		}
		if (pos.Turn == White && sq.Rank() != 5) || (pos.Turn == Black && sq.Rank() != 2) {
			return Position{}, fmt.Errorf("%w: en passant %s on wrong rank", ErrInvalidFEN, sq)
		}
		if enPassantCapturable(&pos, sq) {
			pos.EnPassant = sq
		}
	}

	pos.FullmoveNumber = 1
	if len(fields) == 6 {
		hm, err := strconv.Atoi(fields[4])
		if err != nil || hm < 0 {
			return Position{}, fmt.Errorf("%w: bad halfmove clock %q", ErrInvalidFEN, fields[4])
		}
		fm, err := strconv.Atoi(fields[5])
		if err != nil || fm < 1 {
			return Position{}, fmt.Errorf("%w: bad fullmove number %q", ErrInvalidFEN, fields[5])
		}
		pos.HalfmoveClock = hm
		pos.FullmoveNumber = fm
	}

	if err := pos.validate(); err != nil {
		return Position{}, err
	}
	return pos, nil
}

// FEN encodes the position.
func (p *Position) FEN() string {
	var b strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			pc := p.Board[NewSquare(f, r)]
			if pc.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			b.WriteString(pc.FEN())
		}
		if empty > 0 {
			b.WriteString(strconv.Itoa(empty))
		}
		if r > 0 {
			b.WriteByte('/')
		}
	}
	if p.Turn == White {
		b.WriteString(" w ")
	} else {
		b.WriteString(" b ")
	}
	b.WriteString(p.Castling.String())
	b.WriteByte(' ')
	b.WriteString(p.EnPassant.String())
	fmt.Fprintf(&b, " %d %d", p.HalfmoveClock, p.FullmoveNumber)
	return b.String()
}

func pieceFromFEN(ch rune) (Piece, bool) {
	color := White
	if ch >= 'a' && ch <= 'z' {
		color = Black
	}
	pt, ok := ParsePieceType(string(ch))
	if !ok {
		return NoPiece, false
	}
	return Piece{color, pt}, true
}

// sanitizeCastling drops rights whose king or rook is not on its home square.
func sanitizeCastling(b *Board, cr CastlingRights) CastlingRights {
	checks := []struct {
		right      CastlingRights
		king, rook Square
		color      Color
	}{
		{WhiteKingside, sqE1, sqH1, White},
		{WhiteQueenside, sqE1, sqA1, White},
		{BlackKingside, sqE8, sqH8, Black},
		{BlackQueenside, sqE8, sqA8, Black},
	}
	for _, c := range checks {
		if !cr.Has(c.right) {
			continue
		}
		if b[c.king] != (Piece{c.color, King}) || b[c.rook] != (Piece{c.color, Rook}) {
			cr &^= c.right
		}
	}
	return cr
}
