package chess_test

import (
	"strings"
	"testing"

	nchess "github.com/corentings/chess/v2"
	"github.com/dylhunn/dragontoothmg"
	notnil "github.com/notnil/chess"

	"github.com/park285/chessboard/internal/chess"
)

// Independent move generators cross-check ours along seeded random games.

func TestLegalMoveCountsMatchNotnil(t *testing.T) {
	sel := chess.NewRandomSelector(2024)
	for game := 0; game < 8; game++ {
		ours := chess.NewGame()
		ref := notnil.NewGame(notnil.UseNotation(notnil.UCINotation{}))
		for ply := 0; ply < 100 && !ours.Status().IsOver(); ply++ {
			moves := ours.LegalMoves()
			if got, want := len(moves), len(ref.ValidMoves()); got != want {
				t.Fatalf("game %d ply %d %s: legal moves got %d want %d", game, ply, ours.FEN(), got, want)
			}
			m, err := sel.Select(moves)
			if err != nil {
				t.Fatalf("select: %v", err)
			}
			if _, err := ours.AttemptMove(m.From, m.To, m.Promotion); err != nil {
				t.Fatalf("AttemptMove %s: %v", m.UCI(), err)
			}
			if err := ref.MoveStr(m.UCI()); err != nil {
				t.Fatalf("reference rejected %s: %v", m.UCI(), err)
			}
		}
	}
}

func TestBoardMatchesCorentings(t *testing.T) {
	sel := chess.NewRandomSelector(77)
	notation := nchess.UCINotation{}
	for game := 0; game < 5; game++ {
		ours := chess.NewGame()
		ref := nchess.NewGame()
		for ply := 0; ply < 80 && !ours.Status().IsOver(); ply++ {
			m, err := sel.Select(ours.LegalMoves())
			if err != nil {
				t.Fatalf("select: %v", err)
			}
			if _, err := ours.AttemptMove(m.From, m.To, m.Promotion); err != nil {
				t.Fatalf("AttemptMove %s: %v", m.UCI(), err)
			}
			move, err := notation.Decode(ref.Position(), m.UCI())
			if err != nil {
				t.Fatalf("decode %s: %v", m.UCI(), err)
			}
			if err := ref.Move(move, nil); err != nil {
				t.Fatalf("reference rejected %s: %v", m.UCI(), err)
			}
			got := strings.Fields(ours.FEN())[:3]
			want := strings.Fields(ref.FEN())[:3]
			if strings.Join(got, " ") != strings.Join(want, " ") {
				t.Fatalf("game %d ply %d: got %v want %v", game, ply, got, want)
			}
		}
	}
}

func dragontoothPerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		undo := b.Apply(m)
		nodes += dragontoothPerft(b, depth-1)
		undo()
	}
	return nodes
}

func TestPerftMatchesDragontooth(t *testing.T) {
	fens := []string{
		chess.InitialFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range fens {
		g, err := chess.NewGameFromFEN(fen)
		if err != nil {
			t.Fatalf("NewGameFromFEN(%q): %v", fen, err)
		}
		ref := dragontoothmg.ParseFen(fen)
		for depth := 1; depth <= 2; depth++ {
			if got, want := g.Perft(depth), dragontoothPerft(&ref, depth); got != want {
				t.Fatalf("%s depth %d: got %d want %d", fen, depth, got, want)
			}
		}
	}
}
