package chess

import "sort"

// Perft counts leaf nodes of the legal move tree to depth plies.
func (g *Game) Perft(depth int) uint64 {
	pos := g.pos
	return perft(&pos, depth)
}

func perft(p *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := legalMoves(p, NoSquare)
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		child := *p
		applyMove(&child, m)
		nodes += perft(&child, depth-1)
	}
	return nodes
}

type DivideEntry struct {
	Move  string
	Nodes uint64
}

// PerftDivide reports the subtree size below each root move, sorted by
// move text.
func (g *Game) PerftDivide(depth int) []DivideEntry {
	if depth < 1 {
		return nil
	}
	pos := g.pos
	moves := legalMoves(&pos, NoSquare)
	out := make([]DivideEntry, 0, len(moves))
	for _, m := range moves {
		child := pos
		applyMove(&child, m)
		out = append(out, DivideEntry{Move: m.UCI(), Nodes: perft(&child, depth-1)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Move < out[j].Move })
	return out
}
