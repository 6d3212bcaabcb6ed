package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/park285/chessboard/internal/chess"
)

func main() {
	fen := flag.String("fen", chess.InitialFEN, "position to search")
	depth := flag.Int("depth", 4, "search depth in plies")
	divide := flag.Bool("divide", false, "print node counts per root move")
	flag.Parse()

	if *depth < 1 {
		color.Red("depth must be at least 1")
		os.Exit(2)
	}
	g, err := chess.NewGameFromFEN(*fen)
	if err != nil {
		color.Red("bad fen: %v", err)
		os.Exit(2)
	}

	head := color.New(color.FgCyan, color.Bold).SprintFunc()
	num := color.New(color.FgGreen).SprintFunc()

	fmt.Println(head("fen"), g.FEN())
	start := time.Now()
	var nodes uint64
	if *divide {
		for _, e := range g.PerftDivide(*depth) {
			fmt.Printf("%-6s %s\n", e.Move, num(e.Nodes))
			nodes += e.Nodes
		}
	} else {
		nodes = g.Perft(*depth)
	}
	elapsed := time.Since(start)

	nps := float64(nodes) / elapsed.Seconds()
	fmt.Printf("%s %d  %s %s  %s %s  %s %.0f\n",
		head("depth"), *depth,
		head("nodes"), num(nodes),
		head("time"), elapsed.Round(time.Millisecond),
		head("nps"), nps)
}
