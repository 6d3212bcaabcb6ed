package chess

const (
	sqA1 Square = 0
	sqB1 Square = 1
	sqC1 Square = 2
	sqD1 Square = 3
	sqE1 Square = 4
	sqF1 Square = 5
	sqG1 Square = 6
	sqH1 Square = 7
	sqA8 Square = 56
	sqB8 Square = 57
	sqC8 Square = 58
	sqD8 Square = 59
	sqE8 Square = 60
	sqF8 Square = 61
	sqG8 Square = 62
	sqH8 Square = 63
)

// offset is a (file, rank) step.
type offset struct{ df, dr int }

var (
	knightOffsets = [8]offset{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffsets   = [8]offset{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	diagonalRays  = [4]offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	straightRays  = [4]offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
)

func (sq Square) step(o offset) Square {
	return NewSquare(sq.File()+o.df, sq.Rank()+o.dr)
}

// pawnDir is the rank step of a pawn of color c.
func pawnDir(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

// isSquareAttacked reports whether any piece of color by attacks sq.
func isSquareAttacked(p *Position, sq Square, by Color) bool {
	if !sq.Valid() {
		return false
	}
	b := &p.Board

	// A pawn of color by attacks sq from one rank behind it, diagonally.
	for _, df := range [2]int{-1, 1} {
		from := NewSquare(sq.File()+df, sq.Rank()-pawnDir(by))
		if from != NoSquare && b[from] == (Piece{by, Pawn}) {
			return true
		}
	}
	for _, o := range knightOffsets {
		if from := sq.step(o); from != NoSquare && b[from] == (Piece{by, Knight}) {
			return true
		}
	}
	for _, o := range kingOffsets {
		if from := sq.step(o); from != NoSquare && b[from] == (Piece{by, King}) {
			return true
		}
	}
	if rayAttacked(b, sq, by, diagonalRays[:], Bishop) {
		return true
	}
	return rayAttacked(b, sq, by, straightRays[:], Rook)
}

// rayAttacked casts rays from sq and reports the first blocker when it is
// an enemy slider of the given kind or a queen.
func rayAttacked(b *Board, sq Square, by Color, rays []offset, slider PieceType) bool {
	for _, o := range rays {
		for cur := sq.step(o); cur != NoSquare; cur = cur.step(o) {
			pc := b[cur]
			if pc.IsEmpty() {
				continue
			}
			if pc.Color == by && (pc.Type == slider || pc.Type == Queen) {
				return true
			}
			break
		}
	}
	return false
}

func inCheck(p *Position, c Color) bool {
	k := p.KingSquare(c)
	if k == NoSquare {
		panic("chess: position without " + c.String() + " king")
	}
	return isSquareAttacked(p, k, c.Opposite())
}

// enPassantCapturable reports whether the side to move has a legal
// en-passant capture onto target. A pinned capturer does not count.
func enPassantCapturable(p *Position, target Square) bool {
	side := p.Turn
	// The double-stepped pawn sits one rank beyond target from side's view.
	victim := NewSquare(target.File(), target.Rank()-pawnDir(side))
	if victim == NoSquare || p.Board[victim] != (Piece{side.Opposite(), Pawn}) {
		return false
	}
	for _, df := range [2]int{-1, 1} {
		from := NewSquare(victim.File()+df, victim.Rank())
		if from == NoSquare || p.Board[from] != (Piece{side, Pawn}) {
			continue
		}
		// kingless boards are rejected later by validation
		if p.KingSquare(side) == NoSquare {
			return true
		}
		scratch := *p
		applyMove(&scratch, Move{
			From:     from,
			To:       target,
			Piece:    Piece{side, Pawn},
			Captured: Piece{side.Opposite(), Pawn},
			Tag:      TagEnPassant,
		})
		if !inCheck(&scratch, side) {
			return true
		}
	}
	return false
}
