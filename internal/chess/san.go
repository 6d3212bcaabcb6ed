package chess

import "strings"

// encodeSAN renders m in standard algebraic notation. legal must be the
// legal move list of p, used for disambiguation.
func encodeSAN(p *Position, m Move, legal []Move) string {
	var b strings.Builder
	switch m.Tag {
	case TagCastleKingside:
		b.WriteString("O-O")
	case TagCastleQueenside:
		b.WriteString("O-O-O")
	default:
		if m.Piece.Type == Pawn {
			if m.IsCapture() {
				b.WriteByte(byte('a' + m.From.File()))
			}
		} else {
			b.WriteString(m.Piece.Type.Letter())
			b.WriteString(disambiguation(m, legal))
		}
		if m.IsCapture() {
			b.WriteByte('x')
		}
		b.WriteString(m.To.String())
		if m.Promotion != NoPieceType {
			b.WriteByte('=')
			b.WriteString(m.Promotion.Letter())
		}
	}

	after := *p
	applyMove(&after, m)
	if inCheck(&after, after.Turn) {
		if hasLegalMove(&after) {
			b.WriteByte('+')
		} else {
			b.WriteByte('#')
		}
	}
	return b.String()
}

func disambiguation(m Move, legal []Move) string {
	if m.Piece.Type == King {
		return ""
	}
	ambiguous, sameFile, sameRank := false, false, false
	for _, o := range legal {
		if o.Piece != m.Piece || o.To != m.To || o.From == m.From {
			continue
		}
		ambiguous = true
		if o.From.File() == m.From.File() {
			sameFile = true
		}
		if o.From.Rank() == m.From.Rank() {
			sameRank = true
		}
	}
	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return m.From.String()[:1]
	case !sameRank:
		return m.From.String()[1:]
	default:
		return m.From.String()
	}
}
