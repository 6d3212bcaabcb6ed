package chesspresenter

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	corechess "github.com/park285/chessboard/internal/chess"
	"github.com/park285/chessboard/internal/controller"
	"github.com/park285/chessboard/internal/msgcat"
	svc "github.com/park285/chessboard/internal/service/chess"
	"github.com/park285/chessboard/internal/testutil"
	"github.com/park285/chessboard/pkg/chessdto"
)

func stateFor(t *testing.T, fen string, moves ...string) *svc.SessionState {
	t.Helper()
	g, err := corechess.NewGameFromFEN(fen)
	if err != nil {
		t.Fatalf("NewGameFromFEN: %v", err)
	}
	for _, mv := range moves {
		if _, err := g.AttemptUCI(mv); err != nil {
			t.Fatalf("%s: %v", mv, err)
		}
	}
	ctrl := controller.New(g, corechess.FirstSelector, nil)
	return &svc.SessionState{SessionID: "id-1", Label: "calm-heron", Snapshot: ctrl.Snapshot()}
}

func TestToDTOStateMovesAndCaptures(t *testing.T) {
	st := stateFor(t, corechess.InitialFEN, "e2e4", "d7d5", "e4d5", "d8d5")
	dto := ToDTOState(st)

	testutil.AssertEqual(t, dto.MovesSAN, []string{"e4", "d5", "exd5", "Qxd5"})
	testutil.AssertEqual(t, dto.MovesUCI, []string{"e2e4", "d7d5", "e4d5", "d8d5"})
	testutil.AssertEqual(t, dto.Captured, chessdto.CapturedPieces{White: []string{"pawn"}, Black: []string{"pawn"}})
	testutil.AssertEqual(t, dto.Material, chessdto.MaterialScore{White: 38, Black: 38})
	testutil.AssertEqual(t, dto.History, []chessdto.HistoryPair{
		{Number: 1, White: "e4", Black: "d5"},
		{Number: 2, White: "exd5", Black: "Qxd5"},
	})
	if dto.LastFrom != "d8" || dto.LastTo != "d5" || dto.Selected != "" {
		t.Fatalf("markers: from=%q to=%q sel=%q", dto.LastFrom, dto.LastTo, dto.Selected)
	}
	if dto.Status.Kind != "ongoing" || dto.Status.Turn != "white" || dto.Promotion != "queen" {
		t.Fatalf("status: %+v promotion=%s", dto.Status, dto.Promotion)
	}
	if len(dto.Squares) != 64 || dto.Squares[0].Name != "a8" || dto.Squares[0].Piece != "r" {
		t.Fatalf("first square: %+v", dto.Squares[0])
	}
}

func TestToDTOStatusCheckmate(t *testing.T) {
	st := stateFor(t, corechess.InitialFEN, "f2f3", "e7e5", "g2g4", "d8h4")
	got := ToDTOStatus(st.Snapshot)
	testutil.AssertEqual(t, got, chessdto.Status{
		Kind:    "checkmate",
		Winner:  "black",
		Text:    "Checkmate • Black wins",
		Turn:    "white",
		InCheck: true,
	})
	if ToDTOState(nil) != nil {
		t.Fatalf("nil state should map to nil")
	}
}

func TestToDomainError(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{svc.ErrSessionNotFound, chessdto.CodeSessionNotFound},
		{fmt.Errorf("%w: \"z9\"", svc.ErrInvalidSquare), chessdto.CodeInvalidSquare},
		{svc.ErrInvalidPromotion, chessdto.CodeInvalidPromotion},
		{svc.ErrUndoNotAvailable, chessdto.CodeUndoNotAvailable},
		{svc.ErrNoMoveAvailable, chessdto.CodeNoMoveAvailable},
		{fmt.Errorf("%w: bad", corechess.ErrInvalidFEN), chessdto.CodeInvalidFEN},
		{errors.New("boom"), chessdto.CodeInternal},
	}
	for _, tc := range cases {
		if got := ToDomainError(tc.err); got.Code != tc.code {
			t.Fatalf("%v: got %s want %s", tc.err, got.Code, tc.code)
		}
	}
	if de := ToDomainError(svc.ErrSessionLimit); !de.Retryable {
		t.Fatalf("session limit should be retryable")
	}
}

func TestFormatterStatusUsesCatalog(t *testing.T) {
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat: %v", err)
	}
	f := NewFormatter(cat)
	cases := []struct {
		st   chessdto.Status
		want string
	}{
		{chessdto.Status{Kind: "ongoing", Turn: "white"}, "White to move"},
		{chessdto.Status{Kind: "ongoing", Turn: "black", InCheck: true}, "Black to move • Check"},
		{chessdto.Status{Kind: "checkmate", Winner: "white", Turn: "black"}, "Checkmate • White wins"},
		{chessdto.Status{Kind: "stalemate", Reason: "stalemate"}, "Draw • Stalemate"},
		{chessdto.Status{Kind: "draw", Reason: "threefold-repetition"}, "Draw • Threefold repetition"},
		{chessdto.Status{Kind: "draw", Reason: "fifty-move"}, "Draw"},
	}
	for _, tc := range cases {
		if got := f.Status(tc.st); got != tc.want {
			t.Fatalf("Status(%+v): got %q want %q", tc.st, got, tc.want)
		}
	}
}

func TestFormatterWithoutCatalog(t *testing.T) {
	f := NewFormatter(nil)
	if got := f.Status(chessdto.Status{Kind: "ongoing", Text: "White to move"}); got != "White to move" {
		t.Fatalf("fallback status: %q", got)
	}
	if got := f.Error(chessdto.DomainError{Code: "x", Message: "raw"}); got != "raw" {
		t.Fatalf("fallback error: %q", got)
	}
}

func TestFormatterHistoryAndMaterial(t *testing.T) {
	f := NewFormatter(nil)
	got := f.History([]chessdto.HistoryPair{{Number: 1, White: "e4", Black: "e5"}, {Number: 2, White: "Nf3"}})
	want := "  #  White     Black\n  1. e4        e5\n  2. Nf3       "
	if got != want {
		t.Fatalf("history:\n%q\nwant\n%q", got, want)
	}
	if got := f.Material(chessdto.MaterialScore{White: 39, Black: 36}); got != "Material White +3" {
		t.Fatalf("material: %q", got)
	}
	if got := f.Material(chessdto.MaterialScore{White: 30, Black: 30}); got != "Material even" {
		t.Fatalf("even material: %q", got)
	}
	got = f.Captured(chessdto.CapturedPieces{White: []string{"pawn", "knight"}, Black: []string{}})
	if got != "Captured White N P" {
		t.Fatalf("captured: %q", got)
	}
	if f.Captured(chessdto.CapturedPieces{}) != "" {
		t.Fatalf("empty captures should render nothing")
	}
}

func TestFormatterBoard(t *testing.T) {
	st := stateFor(t, corechess.InitialFEN, "e2e4")
	dto := ToDTOState(st)
	board := NewFormatter(nil).Board(dto)
	lines := strings.Split(board, "\n")
	if len(lines) != 9 {
		t.Fatalf("board lines: %d\n%s", len(lines), board)
	}
	if lines[0] != "8  r n b q k b n r" {
		t.Fatalf("rank 8: %q", lines[0])
	}
	if lines[4] != "4  . . . . P . . ." {
		t.Fatalf("rank 4: %q", lines[4])
	}
	if lines[8] != "   a b c d e f g h" {
		t.Fatalf("files: %q", lines[8])
	}
}

func TestFormatterText(t *testing.T) {
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat: %v", err)
	}
	f := NewFormatter(cat)
	st := stateFor(t, corechess.InitialFEN, "e2e4")
	dto := ToDTOState(st)
	dto.Reply = "e4"

	text := f.Text(dto)
	for _, want := range []string{
		"calm-heron • move 1 • Black to move",
		"Opponent played e4.",
		"4  . . . . P . . .",
		"Material even",
		"  1. e4",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("text view missing %q:\n%s", want, text)
		}
	}
	if f.Text(nil) != "" {
		t.Fatalf("nil state should render nothing")
	}
}

func TestFormatterMessages(t *testing.T) {
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat: %v", err)
	}
	f := NewFormatter(cat)
	if got := f.Opponent("Nc3"); got != "Opponent played Nc3." {
		t.Fatalf("opponent: %q", got)
	}
	if f.Opponent("") != "" {
		t.Fatalf("empty reply should render nothing")
	}
	if got := f.Promotion("rook"); got != "Promotion: Rook" {
		t.Fatalf("promotion: %q", got)
	}
	if got := f.Ended("calm-heron"); got != "Game calm-heron closed." {
		t.Fatalf("ended: %q", got)
	}
	if got := f.Undo(2); got != "Took back 2 move(s)." {
		t.Fatalf("undo: %q", got)
	}
	if got := f.Error(chessdto.DomainError{Code: chessdto.CodeUndoNotAvailable}); got != "There is nothing to take back." {
		t.Fatalf("error: %q", got)
	}
}
