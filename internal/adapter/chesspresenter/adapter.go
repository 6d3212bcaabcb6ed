package chesspresenter

import (
	"errors"

	corechess "github.com/park285/chessboard/internal/chess"
	"github.com/park285/chessboard/internal/controller"
	svc "github.com/park285/chessboard/internal/service/chess"
	"github.com/park285/chessboard/pkg/chessdto"
)

var pieceValues = map[corechess.PieceType]int{
	corechess.Pawn:   1,
	corechess.Knight: 3,
	corechess.Bishop: 3,
	corechess.Rook:   5,
	corechess.Queen:  9,
}

func ToDTOState(s *svc.SessionState) *chessdto.SessionState {
	if s == nil {
		return nil
	}
	snap := s.Snapshot
	out := &chessdto.SessionState{
		SessionID: s.SessionID,
		Label:     s.Label,
		AutoReply: s.AutoReply,
		PlayAs:    s.PlayAs.String(),
		FEN:       snap.FEN,
		Flipped:   snap.Flipped,
		Squares:   toDTOSquares(snap.Squares),
		Status:    ToDTOStatus(snap),
		History:   ToDTOHistory(snap.History),
		MoveCount: snap.MoveCount,
		Material:  materialOf(snap),
		Captured:  capturedOf(snap.Moves),
		Selected:  squareName(snap.Selected),
		LastFrom:  squareName(snap.LastFrom),
		LastTo:    squareName(snap.LastTo),
		Promotion: snap.Promotion.String(),
		TapResult: s.TapResult,
		StartedAt: s.StartedAt,
		UpdatedAt: s.UpdatedAt,
	}
	out.MovesSAN = make([]string, 0, len(snap.Moves))
	out.MovesUCI = make([]string, 0, len(snap.Moves))
	for _, m := range snap.Moves {
		out.MovesSAN = append(out.MovesSAN, m.String())
		out.MovesUCI = append(out.MovesUCI, m.UCI())
	}
	for _, t := range snap.Targets {
		out.Targets = append(out.Targets, t.String())
	}
	if s.Reply != nil {
		out.Reply = s.Reply.String()
	}
	return out
}

func ToDTOStatus(snap controller.Snapshot) chessdto.Status {
	st := chessdto.Status{
		Kind:    snap.Status.Kind.String(),
		Text:    snap.StatusText,
		Turn:    snap.Turn.String(),
		InCheck: snap.InCheck,
	}
	if snap.Status.Kind == corechess.Checkmate {
		st.Winner = snap.Status.Winner.String()
	}
	if snap.Status.Reason != corechess.NoDrawReason {
		st.Reason = snap.Status.Reason.String()
	}
	return st
}

// ToDomainError maps service and engine errors to stable codes.
func ToDomainError(err error) chessdto.DomainError {
	code := chessdto.CodeInternal
	switch {
	case errors.Is(err, svc.ErrSessionNotFound):
		code = chessdto.CodeSessionNotFound
	case errors.Is(err, svc.ErrSessionLimit):
		return chessdto.DomainError{Code: chessdto.CodeSessionLimit, Message: err.Error(), Retryable: true}
	case errors.Is(err, svc.ErrInvalidSquare), errors.Is(err, corechess.ErrInvalidSquare):
		code = chessdto.CodeInvalidSquare
	case errors.Is(err, svc.ErrInvalidPromotion), errors.Is(err, corechess.ErrInvalidPromotion):
		code = chessdto.CodeInvalidPromotion
	case errors.Is(err, svc.ErrUndoNotAvailable):
		code = chessdto.CodeUndoNotAvailable
	case errors.Is(err, svc.ErrNoMoveAvailable), errors.Is(err, corechess.ErrGameOver):
		code = chessdto.CodeNoMoveAvailable
	case errors.Is(err, corechess.ErrInvalidFEN), errors.Is(err, corechess.ErrInvalidPosition):
		code = chessdto.CodeInvalidFEN
	}
	msg := "chess service error"
	if err != nil {
		msg = err.Error()
	}
	return chessdto.DomainError{Code: code, Message: msg}
}

func toDTOSquares(views []controller.SquareView) []chessdto.Square {
	out := make([]chessdto.Square, 0, len(views))
	for _, v := range views {
		sq := chessdto.Square{
			Name:     v.Square.String(),
			Dark:     v.Dark,
			Selected: v.Selected,
			Target:   v.Target,
			Check:    v.Check,
			LastMove: v.LastMove,
		}
		if !v.Piece.IsEmpty() {
			sq.Piece = v.Piece.FEN()
		}
		out = append(out, sq)
	}
	return out
}

func ToDTOHistory(pairs []controller.HistoryPair) []chessdto.HistoryPair {
	out := make([]chessdto.HistoryPair, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, chessdto.HistoryPair{Number: p.Number, White: p.White, Black: p.Black})
	}
	return out
}

// materialOf sums piece values still on the board for each side.
func materialOf(snap controller.Snapshot) chessdto.MaterialScore {
	var score chessdto.MaterialScore
	for _, v := range snap.Squares {
		val := pieceValues[v.Piece.Type]
		if v.Piece.IsEmpty() || val == 0 {
			continue
		}
		if v.Piece.Color == corechess.White {
			score.White += val
		} else {
			score.Black += val
		}
	}
	return score
}

// capturedOf lists, per capturing side, the piece types taken.
func capturedOf(moves []corechess.Move) chessdto.CapturedPieces {
	captured := chessdto.CapturedPieces{White: []string{}, Black: []string{}}
	for _, m := range moves {
		if !m.IsCapture() {
			continue
		}
		token := m.Captured.Type.String()
		if m.Piece.Color == corechess.White {
			captured.White = append(captured.White, token)
		} else {
			captured.Black = append(captured.Black, token)
		}
	}
	return captured
}

func squareName(sq corechess.Square) string {
	if sq == corechess.NoSquare {
		return ""
	}
	return sq.String()
}
