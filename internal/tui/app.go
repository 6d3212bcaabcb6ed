package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/park285/chessboard/internal/adapter/chesspresenter"
	"github.com/park285/chessboard/internal/chess"
	"github.com/park285/chessboard/internal/controller"
	"github.com/park285/chessboard/pkg/chessdto"
)

const (
	leftMargin  = 4
	topMargin   = 3
	squareWidth = 3
	historyCol  = leftMargin + 2 + 8*squareWidth + 4
	historyRows = 12
)

var glyphs = map[chess.PieceType]rune{
	chess.King:   '♚',
	chess.Queen:  '♛',
	chess.Rook:   '♜',
	chess.Bishop: '♝',
	chess.Knight: '♞',
	chess.Pawn:   '♟',
}

type Options struct {
	Theme Theme
	// VsRandom makes the opponent of Human reply with random moves.
	VsRandom bool
	Human    chess.Color
	Logger   *zap.Logger
}

// App draws one Controller on a tcell screen and feeds it input.
type App struct {
	s      tcell.Screen
	ctrl   *controller.Controller
	fmt    *chesspresenter.Formatter
	opts   Options
	logger *zap.Logger

	msg       string
	mouseDown bool
}

func New(s tcell.Screen, ctrl *controller.Controller, f *chesspresenter.Formatter, opts Options) *App {
	if opts.Theme.Name == "" {
		opts.Theme = ThemeBasic
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{s: s, ctrl: ctrl, fmt: f, opts: opts, logger: logger}
	if opts.VsRandom && opts.Human == chess.Black {
		a.ctrl.Flip()
		a.reply()
	}
	return a
}

// Run polls events until the user quits.
func (a *App) Run() {
	a.Draw()
	for {
		ev := a.s.PollEvent()
		if ev == nil {
			return
		}
		if quit := a.HandleEvent(ev); quit {
			return
		}
		a.Draw()
	}
}

// HandleEvent applies one event and reports whether the app should quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.s.Sync()
	case *tcell.EventMouse:
		pressed := ev.Buttons()&tcell.Button1 != 0
		if pressed && !a.mouseDown {
			x, y := ev.Position()
			if sq, ok := a.squareAt(x, y); ok {
				a.tap(sq)
			}
		}
		a.mouseDown = pressed
	case *tcell.EventKey:
		return a.handleKey(ev)
	}
	return false
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return true
	}
	if ev.Key() != tcell.KeyRune {
		return false
	}
	a.msg = ""
	switch ev.Rune() {
	case 'q':
		return true
	case 'f':
		a.ctrl.Flip()
	case 'u':
		a.undo()
	case 'r':
		a.ctrl.Reset()
		if a.opts.VsRandom && a.opts.Human == chess.Black {
			a.ctrl.Flip()
			a.reply()
		}
	case 'm':
		if _, ok := a.ctrl.RandomMove(); !ok {
			a.msg = a.fmt.Error(chessdto.DomainError{Code: chessdto.CodeNoMoveAvailable, Message: "no legal move available"})
			return false
		}
		a.reply()
	case '1', '2', '3', '4':
		pt := []chess.PieceType{chess.Queen, chess.Rook, chess.Bishop, chess.Knight}[ev.Rune()-'1']
		if err := a.ctrl.SetPromotion(pt); err == nil {
			a.msg = a.fmt.Promotion(pt.String())
		}
	}
	return false
}

func (a *App) tap(sq chess.Square) {
	a.msg = ""
	res := a.ctrl.Tap(sq)
	a.logger.Debug("tap", zap.String("square", sq.String()), zap.String("result", res.String()))
	if res == controller.Moved {
		a.reply()
	}
}

// undo hands the move back to the human. Against the random opponent its
// opening move stays on the board.
func (a *App) undo() {
	before := len(a.ctrl.History())
	if a.opts.VsRandom && a.ctrl.Turn() == a.opts.Human && before < 2 {
		a.msg = a.nothingToUndo()
		return
	}
	if _, ok := a.ctrl.Undo(); !ok {
		a.msg = a.nothingToUndo()
		return
	}
	if a.opts.VsRandom && a.ctrl.Turn() != a.opts.Human && len(a.ctrl.History()) > 0 {
		a.ctrl.Undo()
	}
	a.msg = a.fmt.Undo(before - len(a.ctrl.History()))
}

func (a *App) nothingToUndo() string {
	return a.fmt.Error(chessdto.DomainError{Code: chessdto.CodeUndoNotAvailable, Message: "nothing to take back"})
}

// reply lets the random opponent move when it is its turn.
func (a *App) reply() {
	if !a.opts.VsRandom || a.ctrl.Turn() == a.opts.Human || a.ctrl.Status().IsOver() {
		return
	}
	if m, ok := a.ctrl.RandomMove(); ok {
		a.msg = a.fmt.Opponent(m.String())
	}
}

// squareAt maps a screen cell to the board square drawn there.
func (a *App) squareAt(x, y int) (chess.Square, bool) {
	col := (x - leftMargin - 2) / squareWidth
	row := y - topMargin
	if x < leftMargin+2 || col < 0 || col > 7 || row < 0 || row > 7 {
		return chess.NoSquare, false
	}
	return controller.DisplayOrder(a.ctrl.Flipped())[row*8+col], true
}

// Draw renders the whole screen from a fresh snapshot.
func (a *App) Draw() {
	a.s.Clear()
	snap := a.ctrl.Snapshot()
	t := a.opts.Theme

	status := a.fmt.Status(chesspresenter.ToDTOStatus(snap))
	drawText(a.s, leftMargin+2, topMargin-2, tcell.StyleDefault.Background(t.LabelBg).Foreground(t.Label), " "+status+" ")

	for i, v := range snap.Squares {
		row, col := i/8, i%8
		x := leftMargin + 2 + col*squareWidth
		y := topMargin + row
		a.drawSquare(x, y, v)
		if col == 0 {
			drawText(a.s, leftMargin, y, tcell.StyleDefault.Foreground(t.Coord), fmt.Sprint(v.Square.Rank()+1))
		}
		if row == 7 {
			drawText(a.s, x+1, y+1, tcell.StyleDefault.Foreground(t.Coord), string(rune('a'+v.Square.File())))
		}
	}

	hist := a.fmt.History(chesspresenter.ToDTOHistory(snap.History))
	for i, line := range lastLines(hist, historyRows) {
		drawText(a.s, historyCol, topMargin+i, tcell.StyleDefault, line)
	}

	drawText(a.s, leftMargin, topMargin+10, tcell.StyleDefault.Foreground(t.Help),
		fmt.Sprintf("promotion: %s", snap.Promotion))
	if a.msg != "" {
		drawText(a.s, leftMargin, topMargin+11, tcell.StyleDefault.Foreground(t.Msg), a.msg)
	}
	drawText(a.s, leftMargin, topMargin+13, tcell.StyleDefault.Foreground(t.Help), a.fmt.Help())
	a.s.Show()
}

func (a *App) drawSquare(x, y int, v controller.SquareView) {
	t := a.opts.Theme
	bg := t.SquareLight
	if v.Dark {
		bg = t.SquareDark
	}
	switch {
	case v.Check:
		bg = t.SquareCheck
	case v.Selected:
		bg = t.SquareSel
	case v.LastMove:
		bg = t.SquareLast
	}
	style := tcell.StyleDefault.Background(bg)

	mid := ' '
	fg := t.Target
	if !v.Piece.IsEmpty() {
		mid = glyphs[v.Piece.Type]
		fg = t.White
		if v.Piece.Color == chess.Black {
			fg = t.Black
		}
	} else if v.Target {
		mid = '•'
	}
	a.s.SetContent(x, y, ' ', nil, style)
	a.s.SetContent(x+1, y, mid, nil, style.Foreground(fg))
	// a capturable piece keeps its glyph; mark the target on its right edge
	right := ' '
	if v.Target && !v.Piece.IsEmpty() {
		right = '•'
	}
	a.s.SetContent(x+2, y, right, nil, style.Foreground(t.Target))
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func lastLines(text string, n int) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		// keep the header row
		lines = append(lines[:1], lines[len(lines)-n+1:]...)
	}
	return lines
}
