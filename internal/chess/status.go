package chess

type StatusKind uint8

const (
	Ongoing StatusKind = iota
	Checkmate
	Stalemate
	Draw
)

func (k StatusKind) String() string {
	switch k {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Draw:
		return "draw"
	default:
		return "ongoing"
	}
}

type DrawReason uint8

const (
	NoDrawReason DrawReason = iota
	DrawStalemate
	DrawInsufficientMaterial
	DrawThreefoldRepetition
	DrawFiftyMove
)

func (r DrawReason) String() string {
	switch r {
	case DrawStalemate:
		return "stalemate"
	case DrawInsufficientMaterial:
		return "insufficient-material"
	case DrawThreefoldRepetition:
		return "threefold-repetition"
	case DrawFiftyMove:
		return "fifty-move"
	default:
		return ""
	}
}

// Status describes the outcome of the current position. Winner is only
// meaningful for Checkmate; Reason is set for Stalemate and Draw.
type Status struct {
	Kind   StatusKind
	Winner Color
	Reason DrawReason
}

func (s Status) IsOver() bool { return s.Kind != Ongoing }

// IsDraw reports a drawn result, stalemate included.
func (s Status) IsDraw() bool { return s.Kind == Stalemate || s.Kind == Draw }

func (s Status) String() string {
	switch s.Kind {
	case Checkmate:
		return "checkmate, " + s.Winner.String() + " wins"
	case Draw:
		return "draw (" + s.Reason.String() + ")"
	default:
		return s.Kind.String()
	}
}

const fiftyMoveHalfmoves = 100

func evaluateStatus(p *Position, repetitions int) Status {
	if !hasLegalMove(p) {
		if inCheck(p, p.Turn) {
			return Status{Kind: Checkmate, Winner: p.Turn.Opposite()}
		}
		return Status{Kind: Stalemate, Reason: DrawStalemate}
	}
	if insufficientMaterial(&p.Board) {
		return Status{Kind: Draw, Reason: DrawInsufficientMaterial}
	}
	if repetitions >= 3 {
		return Status{Kind: Draw, Reason: DrawThreefoldRepetition}
	}
	if p.HalfmoveClock >= fiftyMoveHalfmoves {
		return Status{Kind: Draw, Reason: DrawFiftyMove}
	}
	return Status{Kind: Ongoing}
}

// insufficientMaterial covers K v K, K+minor v K and kings with bishops
// that all stand on one square colour.
func insufficientMaterial(b *Board) bool {
	var minors, bishops int
	darkBishops, lightBishops := 0, 0
	for sq := Square(0); sq < 64; sq++ {
		switch b[sq].Type {
		case NoPieceType, King:
		case Knight:
			minors++
		case Bishop:
			minors++
			bishops++
			if sq.IsDark() {
				darkBishops++
			} else {
				lightBishops++
			}
		default:
			return false
		}
	}
	if minors <= 1 {
		return true
	}
	return bishops == minors && (darkBishops == 0 || lightBishops == 0)
}
