package tui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/park285/chessboard/internal/adapter/chesspresenter"
	"github.com/park285/chessboard/internal/chess"
	"github.com/park285/chessboard/internal/controller"
)

func newTestApp(t *testing.T, opts Options) (*App, tcell.SimulationScreen, *controller.Controller) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	s.SetSize(100, 30)
	t.Cleanup(s.Fini)
	ctrl := controller.New(nil, chess.FirstSelector, nil)
	return New(s, ctrl, chesspresenter.NewFormatter(nil), opts), s, ctrl
}

// cellOf returns the middle column of the square drawn at display row/col.
func cellOf(row, col int) (int, int) {
	return leftMargin + 2 + col*squareWidth + 1, topMargin + row
}

func clickSquare(a *App, row, col int) {
	x, y := cellOf(row, col)
	click(a, x, y)
}

func click(a *App, x, y int) {
	a.HandleEvent(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
	a.HandleEvent(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
}

func key(a *App, r rune) bool {
	return a.HandleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
}

func rowText(s tcell.SimulationScreen, y, from, to int) string {
	var sb strings.Builder
	for x := from; x < to; x++ {
		r, _, _, _ := s.GetContent(x, y)
		sb.WriteRune(r)
	}
	return sb.String()
}

func TestClickMovesPiece(t *testing.T) {
	a, s, ctrl := newTestApp(t, Options{})
	a.Draw()

	clickSquare(a, 6, 4) // e2
	if sel, ok := ctrl.Selection(); !ok || sel.String() != "e2" {
		t.Fatalf("selection: %v %v", sel, ok)
	}
	clickSquare(a, 4, 4) // e4
	hist := ctrl.History()
	if len(hist) != 1 || hist[0].SAN != "e4" {
		t.Fatalf("history: %v", hist)
	}

	a.Draw()
	x, y := cellOf(4, 4)
	if r, _, _, _ := s.GetContent(x, y); r != '♟' {
		t.Fatalf("e4 glyph: %q", r)
	}
	if got := rowText(s, topMargin-2, leftMargin+3, leftMargin+16); got != "Black to move" {
		t.Fatalf("status label: %q", got)
	}
}

func TestHeldButtonTapsOnce(t *testing.T) {
	a, _, ctrl := newTestApp(t, Options{})
	x, y := cellOf(6, 4)
	a.HandleEvent(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
	a.HandleEvent(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
	if _, ok := ctrl.Selection(); !ok {
		t.Fatalf("drag should not deselect")
	}
}

func TestClickOutsideBoardIgnored(t *testing.T) {
	a, _, ctrl := newTestApp(t, Options{})
	click(a, 0, 0)
	click(a, leftMargin+2+8*squareWidth, topMargin)
	if _, ok := ctrl.Selection(); ok {
		t.Fatalf("click outside board selected a square")
	}
}

func TestKeys(t *testing.T) {
	a, s, ctrl := newTestApp(t, Options{})

	key(a, 'f')
	if !ctrl.Flipped() {
		t.Fatalf("flip key")
	}
	a.Draw()
	x, y := cellOf(0, 0)
	if r, _, _, _ := s.GetContent(x, y); r != '♜' {
		t.Fatalf("h1 rook expected top-left, got %q", r)
	}
	if sq, ok := a.squareAt(x, y); !ok || sq.String() != "h1" {
		t.Fatalf("squareAt flipped: %v", sq)
	}

	key(a, 'm')
	if len(ctrl.History()) != 1 {
		t.Fatalf("random move key")
	}
	key(a, 'u')
	if len(ctrl.History()) != 0 {
		t.Fatalf("undo key")
	}
	key(a, 'u')
	if a.msg == "" {
		t.Fatalf("expected message for empty undo")
	}
	key(a, '2')
	if ctrl.Promotion() != chess.Rook {
		t.Fatalf("promotion key: %s", ctrl.Promotion())
	}
	key(a, 'r')
	if ctrl.Flipped() || ctrl.Promotion() != chess.Queen {
		t.Fatalf("reset key")
	}
	if !key(a, 'q') {
		t.Fatalf("q should quit")
	}
	if !a.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatalf("escape should quit")
	}
}

func TestVsRandomReplies(t *testing.T) {
	a, _, ctrl := newTestApp(t, Options{VsRandom: true, Human: chess.White})
	clickSquare(a, 6, 3) // d2
	clickSquare(a, 4, 3) // d4
	if len(ctrl.History()) != 2 || ctrl.Turn() != chess.White {
		t.Fatalf("expected opponent reply, history=%d", len(ctrl.History()))
	}
	key(a, 'u')
	if len(ctrl.History()) != 0 {
		t.Fatalf("undo should remove both plies, history=%d", len(ctrl.History()))
	}
}

func TestVsRandomAsBlackOpens(t *testing.T) {
	_, _, ctrl := newTestApp(t, Options{VsRandom: true, Human: chess.Black})
	if len(ctrl.History()) != 1 || !ctrl.Flipped() {
		t.Fatalf("opponent should open on a flipped board")
	}
}

func TestVsRandomAsBlackKeepsOpening(t *testing.T) {
	a, _, ctrl := newTestApp(t, Options{VsRandom: true, Human: chess.Black})
	key(a, 'u')
	if len(ctrl.History()) != 1 || ctrl.Turn() != chess.Black {
		t.Fatalf("opening move was taken back: history=%d turn=%s", len(ctrl.History()), ctrl.Turn())
	}
	if a.msg != "nothing to take back" {
		t.Fatalf("message: %q", a.msg)
	}

	clickSquare(a, 1, 3) // e2 on the flipped board
	if _, ok := ctrl.Selection(); ok {
		t.Fatalf("black human selected a white piece")
	}

	clickSquare(a, 6, 3) // e7
	clickSquare(a, 4, 3) // e5
	if len(ctrl.History()) != 3 {
		t.Fatalf("expected e5 and a reply, history=%d", len(ctrl.History()))
	}
	key(a, 'u')
	if len(ctrl.History()) != 1 || ctrl.Turn() != chess.Black {
		t.Fatalf("undo should return to the opening, history=%d", len(ctrl.History()))
	}
	if a.msg != "Took back 2 move(s)." {
		t.Fatalf("undo message: %q", a.msg)
	}
}

func TestLastLines(t *testing.T) {
	got := lastLines("h\n1\n2\n3\n4", 3)
	if strings.Join(got, ",") != "h,3,4" {
		t.Fatalf("lastLines: %v", got)
	}
}
