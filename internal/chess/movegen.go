package chess

var promotionOrder = [4]PieceType{Queen, Rook, Bishop, Knight}

// legalMoves returns the fully legal moves of the side to move. When from
// is a valid square only that square's moves are produced.
func legalMoves(p *Position, from Square) []Move {
	pseudo := make([]Move, 0, 48)
	if from != NoSquare {
		pc := p.Board.At(from)
		if pc.IsEmpty() || pc.Color != p.Turn {
			return nil
		}
		pseudo = pieceMoves(p, from, pseudo)
	} else {
		for sq := Square(0); sq < 64; sq++ {
			if pc := p.Board[sq]; !pc.IsEmpty() && pc.Color == p.Turn {
				pseudo = pieceMoves(p, sq, pseudo)
			}
		}
	}

	legal := pseudo[:0]
	for _, m := range pseudo {
		scratch := *p
		applyMove(&scratch, m)
		if !inCheck(&scratch, p.Turn) {
			legal = append(legal, m)
		}
	}
	return legal
}

func hasLegalMove(p *Position) bool {
	for sq := Square(0); sq < 64; sq++ {
		pc := p.Board[sq]
		if pc.IsEmpty() || pc.Color != p.Turn {
			continue
		}
		for _, m := range pieceMoves(p, sq, nil) {
			scratch := *p
			applyMove(&scratch, m)
			if !inCheck(&scratch, p.Turn) {
				return true
			}
		}
	}
	return false
}

// pieceMoves appends the pseudo-legal moves of the piece on from.
func pieceMoves(p *Position, from Square, out []Move) []Move {
	pc := p.Board[from]
	switch pc.Type {
	case Pawn:
		return pawnMoves(p, from, pc, out)
	case Knight:
		return stepMoves(p, from, pc, knightOffsets[:], out)
	case Bishop:
		return slideMoves(p, from, pc, diagonalRays[:], out)
	case Rook:
		return slideMoves(p, from, pc, straightRays[:], out)
	case Queen:
		out = slideMoves(p, from, pc, diagonalRays[:], out)
		return slideMoves(p, from, pc, straightRays[:], out)
	case King:
		out = stepMoves(p, from, pc, kingOffsets[:], out)
		return castleMoves(p, from, pc, out)
	default:
		return out
	}
}

func stepMoves(p *Position, from Square, pc Piece, offsets []offset, out []Move) []Move {
	for _, o := range offsets {
		to := from.step(o)
		if to == NoSquare {
			continue
		}
		target := p.Board[to]
		if !target.IsEmpty() && target.Color == pc.Color {
			continue
		}
		if target.Type == King {
			continue
		}
		out = append(out, Move{From: from, To: to, Piece: pc, Captured: target})
	}
	return out
}

func slideMoves(p *Position, from Square, pc Piece, rays []offset, out []Move) []Move {
	for _, o := range rays {
		for to := from.step(o); to != NoSquare; to = to.step(o) {
			target := p.Board[to]
			if target.IsEmpty() {
				out = append(out, Move{From: from, To: to, Piece: pc})
				continue
			}
			if target.Color != pc.Color && target.Type != King {
				out = append(out, Move{From: from, To: to, Piece: pc, Captured: target})
			}
			break
		}
	}
	return out
}

func pawnMoves(p *Position, from Square, pc Piece, out []Move) []Move {
	dir := pawnDir(pc.Color)
	startRank, lastRank := 1, 7
	if pc.Color == Black {
		startRank, lastRank = 6, 0
	}

	add := func(m Move) {
		if m.To.Rank() == lastRank {
			for _, pt := range promotionOrder {
				m.Promotion = pt
				out = append(out, m)
			}
			return
		}
		out = append(out, m)
	}

	one := NewSquare(from.File(), from.Rank()+dir)
	if one != NoSquare && p.Board[one].IsEmpty() {
		add(Move{From: from, To: one, Piece: pc})
		if from.Rank() == startRank {
			two := NewSquare(from.File(), from.Rank()+2*dir)
			if p.Board[two].IsEmpty() {
				out = append(out, Move{From: from, To: two, Piece: pc})
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		to := NewSquare(from.File()+df, from.Rank()+dir)
		if to == NoSquare {
			continue
		}
		target := p.Board[to]
		if !target.IsEmpty() && target.Color != pc.Color && target.Type != King {
			add(Move{From: from, To: to, Piece: pc, Captured: target})
			continue
		}
		if to == p.EnPassant && target.IsEmpty() {
			out = append(out, Move{
				From:     from,
				To:       to,
				Piece:    pc,
				Captured: Piece{pc.Color.Opposite(), Pawn},
				Tag:      TagEnPassant,
			})
		}
	}
	return out
}

type castleRule struct {
	right     CastlingRights
	tag       MoveTag
	kingFrom  Square
	kingTo    Square
	rookFrom  Square
	rookTo    Square
	empty     []Square
	unchecked []Square
}

var castleRules = [...]castleRule{
	{WhiteKingside, TagCastleKingside, sqE1, sqG1, sqH1, sqF1, []Square{sqF1, sqG1}, []Square{sqF1, sqG1}},
	{WhiteQueenside, TagCastleQueenside, sqE1, sqC1, sqA1, sqD1, []Square{sqB1, sqC1, sqD1}, []Square{sqD1, sqC1}},
	{BlackKingside, TagCastleKingside, sqE8, sqG8, sqH8, sqF8, []Square{sqF8, sqG8}, []Square{sqF8, sqG8}},
	{BlackQueenside, TagCastleQueenside, sqE8, sqC8, sqA8, sqD8, []Square{sqB8, sqC8, sqD8}, []Square{sqD8, sqC8}},
}

func castleMoves(p *Position, from Square, pc Piece, out []Move) []Move {
	enemy := pc.Color.Opposite()
	for i := range castleRules {
		r := &castleRules[i]
		if r.kingFrom != from || !p.Castling.Has(r.right) {
			continue
		}
		if p.Board[r.rookFrom] != (Piece{pc.Color, Rook}) {
			continue
		}
		if !squaresEmpty(&p.Board, r.empty) {
			continue
		}
		if isSquareAttacked(p, from, enemy) {
			continue
		}
		attacked := false
		for _, sq := range r.unchecked {
			if isSquareAttacked(p, sq, enemy) {
				attacked = true
				break
			}
		}
		if attacked {
			continue
		}
		out = append(out, Move{From: from, To: r.kingTo, Piece: pc, Tag: r.tag})
	}
	return out
}

func squaresEmpty(b *Board, squares []Square) bool {
	for _, sq := range squares {
		if !b[sq].IsEmpty() {
			return false
		}
	}
	return true
}

func castleRuleFor(m Move) *castleRule {
	for i := range castleRules {
		r := &castleRules[i]
		if r.kingFrom == m.From && r.kingTo == m.To && r.tag == m.Tag {
			return r
		}
	}
	return nil
}
