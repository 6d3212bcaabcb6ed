package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/park285/chessboard/internal/adapter/chesspresenter"
	"github.com/park285/chessboard/internal/chess"
	"github.com/park285/chessboard/internal/controller"
	"github.com/park285/chessboard/internal/msgcat"
	"github.com/park285/chessboard/internal/obslog"
	"github.com/park285/chessboard/internal/tui"
)

func main() {
	vsRandom := flag.Bool("vs-random", false, "play against a random-move opponent")
	side := flag.String("side", "white", "your side when playing against the random opponent")
	fen := flag.String("fen", "", "start from this position")
	seed := flag.Int64("seed", 0, "random seed, 0 uses the clock")
	theme := flag.String("theme", "basic", "color theme: basic or mono")
	messages := flag.String("messages", os.Getenv("CHESS_MESSAGES_DIR"), "message override directory")
	flag.Parse()

	// the screen owns stdout; logs only go to a file when asked
	if os.Getenv("LOG_TO_CONSOLE") == "" {
		os.Setenv("LOG_TO_CONSOLE", "false")
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	game := chess.NewGame()
	if *fen != "" {
		g, err := chess.NewGameFromFEN(*fen)
		if err != nil {
			log.Fatalf("bad -fen: %v", err)
		}
		game = g
	}
	human := chess.White
	if *side == "black" || *side == "b" {
		human = chess.Black
	}

	catalog, err := msgcat.New(*messages)
	if err != nil {
		log.Fatalf("messages: %v", err)
	}

	s, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("screen: %v", err)
	}
	if err := s.Init(); err != nil {
		log.Fatalf("screen init: %v", err)
	}
	s.EnableMouse()
	s.SetStyle(tcell.StyleDefault)

	ctrl := controller.New(game, chess.NewRandomSelector(*seed), obslog.L())
	app := tui.New(s, ctrl, chesspresenter.NewFormatter(catalog), tui.Options{
		Theme:    tui.ThemeByName(*theme),
		VsRandom: *vsRandom,
		Human:    human,
		Logger:   obslog.L(),
	})
	app.Run()
	s.Fini()

	snap := ctrl.Snapshot()
	fmt.Println(snap.StatusText)
	fmt.Println(snap.FEN)
}
