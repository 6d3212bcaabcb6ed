package chess

import (
	"strings"
	"testing"
)

func mustGame(t *testing.T, fen string) *Game {
	t.Helper()
	g, err := NewGameFromFEN(fen)
	if err != nil {
		t.Fatalf("NewGameFromFEN(%q): %v", fen, err)
	}
	return g
}

func play(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, mv := range moves {
		if _, err := g.AttemptUCI(mv); err != nil {
			t.Fatalf("play %s: %v", mv, err)
		}
	}
}

func sq(t *testing.T, s string) Square {
	t.Helper()
	v, err := ParseSquare(s)
	if err != nil {
		t.Fatalf("ParseSquare(%q): %v", s, err)
	}
	return v
}

func TestInitialMoveCountBothSides(t *testing.T) {
	g := NewGame()
	whites := g.LegalMoves()
	if len(whites) != 20 {
		t.Fatalf("white legal moves: got %d want 20", len(whites))
	}
	for _, m := range whites {
		if _, err := g.AttemptMove(m.From, m.To, NoPieceType); err != nil {
			t.Fatalf("AttemptMove %s: %v", m.UCI(), err)
		}
		if got := len(g.LegalMoves()); got != 20 {
			t.Fatalf("black legal moves after %s: got %d want 20", m.UCI(), got)
		}
		g.Undo()
	}
}

func TestPerft(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		depth int
		want  uint64
	}{
		{"start d1", InitialFEN, 1, 20},
		{"start d2", InitialFEN, 2, 400},
		{"start d3", InitialFEN, 3, 8902},
		{"start d4", InitialFEN, 4, 197281},
		{"kiwipete d1", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 1, 48},
		{"kiwipete d2", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2, 2039},
		{"kiwipete d3", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 3, 97862},
		{"rook endgame d3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3, 2812},
		{"promotions d3", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 3, 9467},
		{"mid game d3", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 3, 62379},
		{"en passant d1", "k7/8/8/3pP3/8/8/8/7K w - d6 0 2", 1, 5},
		{"en passant d2", "k7/8/8/3pP3/8/8/8/7K w - d6 0 2", 2, 19},
		{"promotion d1", "1n5k/P7/8/8/8/8/8/7K w - - 0 1", 1, 11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if testing.Short() && tc.want > 50000 {
				t.Skip("slow perft in short mode")
			}
			g := mustGame(t, tc.fen)
			if got := g.Perft(tc.depth); got != tc.want {
				t.Fatalf("perft(%d): got %d want %d", tc.depth, got, tc.want)
			}
		})
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	g := NewGame()
	entries := g.PerftDivide(2)
	if len(entries) != 20 {
		t.Fatalf("divide entries: got %d want 20", len(entries))
	}
	var total uint64
	for _, e := range entries {
		if e.Nodes != 20 {
			t.Fatalf("divide %s: got %d want 20", e.Move, e.Nodes)
		}
		total += e.Nodes
	}
	if total != 400 {
		t.Fatalf("divide total: got %d want 400", total)
	}
}

func TestLegalMovesNeverLeaveKingInCheck(t *testing.T) {
	sel := NewRandomSelector(7)
	for game := 0; game < 20; game++ {
		g := NewGame()
		for ply := 0; ply < 120 && !g.Status().IsOver(); ply++ {
			pos := g.Position()
			moves := g.LegalMoves()
			for _, m := range moves {
				scratch := pos
				applyMove(&scratch, m)
				if inCheck(&scratch, pos.Turn) {
					t.Fatalf("move %s leaves %s king in check in %s", m.UCI(), pos.Turn, pos.FEN())
				}
				if m.Captured.Type == King {
					t.Fatalf("move %s captures a king in %s", m.UCI(), pos.FEN())
				}
			}
			m, err := sel.Select(moves)
			if err != nil {
				t.Fatalf("select: %v", err)
			}
			if _, err := g.AttemptMove(m.From, m.To, m.Promotion); err != nil {
				t.Fatalf("AttemptMove %s: %v", m.UCI(), err)
			}
		}
	}
}

func TestLegalMovesFromFiltersSquare(t *testing.T) {
	g := NewGame()
	if got := len(g.LegalMovesFrom(sq(t, "e4"))); got != 0 {
		t.Fatalf("empty square: got %d moves", got)
	}
	if got := len(g.LegalMovesFrom(sq(t, "e7"))); got != 0 {
		t.Fatalf("opponent piece: got %d moves", got)
	}
	if got := len(g.LegalMovesFrom(sq(t, "g1"))); got != 2 {
		t.Fatalf("knight g1: got %d moves want 2", got)
	}
	if got := len(g.LegalMovesFrom(sq(t, "e1"))); got != 0 {
		t.Fatalf("king e1: got %d moves want 0", got)
	}
	if got := g.LegalMovesFrom(NoSquare); got != nil {
		t.Fatalf("NoSquare: got %v", got)
	}
}

func TestPinnedPieceCannotMove(t *testing.T) {
	// The knight on e2 is pinned by the rook on e8.
	g := mustGame(t, "4r2k/8/8/8/8/8/4N3/4K3 w - - 0 1")
	if got := len(g.LegalMovesFrom(sq(t, "e2"))); got != 0 {
		t.Fatalf("pinned knight: got %d moves", got)
	}
}

func hasCastle(moves []Move, tag MoveTag) bool {
	for _, m := range moves {
		if m.Tag == tag {
			return true
		}
	}
	return false
}

func TestCastlingConditions(t *testing.T) {
	cases := []struct {
		name      string
		fen       string
		kingside  bool
		queenside bool
	}{
		{"both available", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", true, true},
		{"piece between", "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1", true, false},
		{"king in check", "r3k2r/8/8/8/4r3/8/8/R3K2R w KQkq - 0 1", false, false},
		{"transit attacked", "r3kr2/8/8/8/8/8/8/R3K2R w KQq - 0 1", false, true},
		{"destination attacked", "r3k1r1/8/8/8/8/8/8/R3K2R w KQq - 0 1", false, true},
		{"b1 attacked is fine", "1r2k3/8/8/8/8/8/8/R3K3 w Q - 0 1", false, true},
		{"no rights", "r3k2r/8/8/8/8/8/8/R3K2R w kq - 0 1", false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := mustGame(t, tc.fen)
			moves := g.LegalMovesFrom(sq(t, "e1"))
			if got := hasCastle(moves, TagCastleKingside); got != tc.kingside {
				t.Fatalf("kingside: got %v want %v", got, tc.kingside)
			}
			if got := hasCastle(moves, TagCastleQueenside); got != tc.queenside {
				t.Fatalf("queenside: got %v want %v", got, tc.queenside)
			}
		})
	}
}

func TestCastlingMovesRookAndClearsRights(t *testing.T) {
	g := mustGame(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	m, err := g.AttemptMove(sq(t, "e1"), sq(t, "g1"), NoPieceType)
	if err != nil {
		t.Fatalf("castle: %v", err)
	}
	if m.SAN != "O-O" || m.Tag != TagCastleKingside {
		t.Fatalf("unexpected move %+v", m)
	}
	pos := g.Position()
	if pos.Board[sqF1] != (Piece{White, Rook}) || !pos.Board[sqH1].IsEmpty() {
		t.Fatalf("rook did not hop: %s", pos.FEN())
	}
	if pos.Castling != BlackKingside|BlackQueenside {
		t.Fatalf("castling rights: got %s want kq", pos.Castling)
	}

	m, err = g.AttemptMove(sq(t, "e8"), sq(t, "c8"), NoPieceType)
	if err != nil {
		t.Fatalf("black castle: %v", err)
	}
	if m.SAN != "O-O-O" {
		t.Fatalf("black castle SAN: got %q", m.SAN)
	}
	if got := g.Position().Board[sqD8]; got != (Piece{Black, Rook}) {
		t.Fatalf("d8: got %v", got)
	}
}

func TestCastlingRightsLostAfterKingWalk(t *testing.T) {
	g := mustGame(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	play(t, g, "e1e2", "e8e7", "e2e1", "e7e8")
	if got := g.Position().Castling; got != NoCastling {
		t.Fatalf("castling rights: got %s want -", got)
	}
	if hasCastle(g.LegalMovesFrom(sq(t, "e1")), TagCastleKingside) {
		t.Fatalf("castling should be gone")
	}
}

func TestRookCaptureClearsRight(t *testing.T) {
	g := mustGame(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	play(t, g, "a1a8")
	if got := g.Position().Castling; got != WhiteKingside|BlackKingside {
		t.Fatalf("castling rights: got %s want Kk", got)
	}
}

func TestEnPassantWindow(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4", "a7a6", "e4e5", "d7d5")
	if got := g.Position().EnPassant; got != sq(t, "d6") {
		t.Fatalf("en passant target: got %s want d6", got)
	}
	m, err := g.AttemptMove(sq(t, "e5"), sq(t, "d6"), NoPieceType)
	if err != nil {
		t.Fatalf("en passant: %v", err)
	}
	if m.Tag != TagEnPassant || m.SAN != "exd6" || m.Captured != (Piece{Black, Pawn}) {
		t.Fatalf("unexpected en passant move %+v", m)
	}
	if !g.Position().Board.At(sq(t, "d5")).IsEmpty() {
		t.Fatalf("captured pawn still on d5")
	}

	g.Undo()
	play(t, g, "h2h3", "a6a5")
	if _, err := g.AttemptMove(sq(t, "e5"), sq(t, "d6"), NoPieceType); err == nil {
		t.Fatalf("en passant should be closed after another move")
	}
}

func TestEnPassantTargetOnlyWhenCapturable(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4")
	if got := g.Position().EnPassant; got != NoSquare {
		t.Fatalf("en passant target: got %s want none", got)
	}
}

func TestEnPassantTargetIgnoresPinnedCapturer(t *testing.T) {
	g := mustGame(t, "4k3/2p5/8/KP5r/8/8/8/8 b - - 0 1")
	play(t, g, "c7c5")
	if got := g.Position().EnPassant; got != NoSquare {
		t.Fatalf("pinned capturer: got target %s want none", got)
	}
	if !strings.Contains(g.FEN(), " w - - ") {
		t.Fatalf("fen should not carry the target: %s", g.FEN())
	}

	g = mustGame(t, "4k3/2p5/8/KP6/8/8/8/8 b - - 0 1")
	play(t, g, "c7c5")
	if got := g.Position().EnPassant; got != sq(t, "c6") {
		t.Fatalf("free capturer: got target %s want c6", got)
	}

	pinned := mustGame(t, "4k3/8/8/KPp4r/8/8/8/8 w - c6 0 2")
	if got := pinned.Position().EnPassant; got != NoSquare {
		t.Fatalf("fen target with pinned capturer: got %s", got)
	}
}

func TestPromotionChoices(t *testing.T) {
	const fen = "1n5k/P7/8/8/8/8/8/7K w - - 0 1"

	g := mustGame(t, fen)
	m, err := g.AttemptMove(sq(t, "a7"), sq(t, "a8"), NoPieceType)
	if err != nil {
		t.Fatalf("default promotion: %v", err)
	}
	if m.Promotion != Queen || m.SAN != "a8=Q" {
		t.Fatalf("default promotion: got %+v", m)
	}

	g = mustGame(t, fen)
	m, err = g.AttemptMove(sq(t, "a7"), sq(t, "b8"), Knight)
	if err != nil {
		t.Fatalf("knight promotion: %v", err)
	}
	if g.Position().Board.At(sq(t, "b8")) != (Piece{White, Knight}) || m.SAN != "axb8=N" {
		t.Fatalf("knight promotion: got %+v", m)
	}

	g = mustGame(t, fen)
	m, err = g.AttemptMove(sq(t, "a7"), sq(t, "b8"), Queen)
	if err != nil {
		t.Fatalf("queen capture promotion: %v", err)
	}
	if m.SAN != "axb8=Q+" {
		t.Fatalf("queen capture promotion SAN: got %q", m.SAN)
	}
}
