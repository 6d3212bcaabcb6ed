package chess

// applyMove plays m on p without any legality check. m must have been
// produced by the move generator for p.
func applyMove(p *Position, m Move) {
	b := &p.Board
	mover := m.Piece
	b[m.From] = NoPiece

	switch m.Tag {
	case TagEnPassant:
		b[NewSquare(m.To.File(), m.From.Rank())] = NoPiece
	case TagCastleKingside, TagCastleQueenside:
		if r := castleRuleFor(m); r != nil {
			b[r.rookTo] = b[r.rookFrom]
			b[r.rookFrom] = NoPiece
		}
	}

	if m.Promotion != NoPieceType {
		b[m.To] = Piece{mover.Color, m.Promotion}
	} else {
		b[m.To] = mover
	}

	p.Castling = updateCastlingRights(p.Castling, m)

	p.EnPassant = NoSquare
	epTarget := NoSquare
	if mover.Type == Pawn && abs(m.To.Rank()-m.From.Rank()) == 2 {
		epTarget = NewSquare(m.From.File(), (m.From.Rank()+m.To.Rank())/2)
	}

	if mover.Type == Pawn || m.IsCapture() {
		p.HalfmoveClock = 0
	} else {
		p.HalfmoveClock++
	}
	if mover.Color == Black {
		p.FullmoveNumber++
	}
	p.Turn = mover.Color.Opposite()
	if epTarget != NoSquare && enPassantCapturable(p, epTarget) {
		p.EnPassant = epTarget
	}
}

// updateCastlingRights clears rights when a king or rook leaves its home
// square or a rook is captured there.
func updateCastlingRights(cr CastlingRights, m Move) CastlingRights {
	for _, sq := range [2]Square{m.From, m.To} {
		switch sq {
		case sqE1:
			cr &^= WhiteKingside | WhiteQueenside
		case sqE8:
			cr &^= BlackKingside | BlackQueenside
		case sqH1:
			cr &^= WhiteKingside
		case sqA1:
			cr &^= WhiteQueenside
		case sqH8:
			cr &^= BlackKingside
		case sqA8:
			cr &^= BlackQueenside
		}
	}
	return cr
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
