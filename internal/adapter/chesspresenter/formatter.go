package chesspresenter

import (
	"fmt"
	"strings"

	"github.com/park285/chessboard/internal/msgcat"
	"github.com/park285/chessboard/pkg/chessdto"
)

const capturedRecentLimit = 5

// Formatter renders chess DTOs into plain text for terminals and logs.
type Formatter struct {
	catalog *msgcat.Catalog
}

// NewFormatter accepts a nil catalog; built-in fallbacks are used then.
func NewFormatter(catalog *msgcat.Catalog) *Formatter {
	return &Formatter{catalog: catalog}
}

func (f *Formatter) render(key string, data map[string]any, fallback string) string {
	if f == nil {
		return fallback
	}
	return f.catalog.RenderOr(key, data, fallback)
}

// Status renders the one-line status through the catalog so it can be
// reworded without touching the controller.
func (f *Formatter) Status(st chessdto.Status) string {
	turn := title(st.Turn)
	switch st.Kind {
	case "checkmate":
		return f.render("status.checkmate", map[string]any{"Winner": title(st.Winner)}, st.Text)
	case "stalemate":
		return f.render("status.stalemate", nil, st.Text)
	case "draw":
		key := map[string]string{
			"insufficient-material": "status.insufficient_material",
			"threefold-repetition":  "status.threefold_repetition",
			"fifty-move":            "status.fifty_move",
		}[st.Reason]
		if key == "" {
			return st.Text
		}
		return f.render(key, nil, st.Text)
	}
	if st.InCheck {
		return f.render("status.check", map[string]any{"Turn": turn}, st.Text)
	}
	return f.render("status.to_move", map[string]any{"Turn": turn}, st.Text)
}

func (f *Formatter) Start(state *chessdto.SessionState) string {
	if state == nil {
		return ""
	}
	side := "White"
	if state.Status.Turn != "" {
		side = title(state.Status.Turn)
	}
	return f.render("session.started", map[string]any{"Label": state.Label, "Side": side},
		fmt.Sprintf("New game %s started.", state.Label))
}

func (f *Formatter) Summary(state *chessdto.SessionState) string {
	if state == nil {
		return ""
	}
	status := f.Status(state.Status)
	return f.render("session.summary", map[string]any{
		"Label":     state.Label,
		"MoveCount": state.MoveCount,
		"Status":    status,
	}, state.Label+" • "+status)
}

// Reply is empty unless the opponent moved.
func (f *Formatter) Reply(state *chessdto.SessionState) string {
	if state == nil {
		return ""
	}
	return f.Opponent(state.Reply)
}

func (f *Formatter) Opponent(san string) string {
	if san == "" {
		return ""
	}
	return f.render("session.reply", map[string]any{"SAN": san}, "Opponent played "+san+".")
}

func (f *Formatter) Ended(label string) string {
	return f.render("session.ended", map[string]any{"Label": label}, "Game "+label+" closed.")
}

func (f *Formatter) Promotion(piece string) string {
	return f.render("session.promotion", map[string]any{"Piece": title(piece)}, "Promotion: "+title(piece))
}

// Text is the full plain-text view of a session: summary, board, material
// and the move table.
func (f *Formatter) Text(state *chessdto.SessionState) string {
	if state == nil {
		return ""
	}
	parts := []string{f.Summary(state)}
	if reply := f.Reply(state); reply != "" {
		parts = append(parts, reply)
	}
	parts = append(parts, f.Board(state), f.Material(state.Material))
	if captured := f.Captured(state.Captured); captured != "" {
		parts = append(parts, captured)
	}
	parts = append(parts, f.History(state.History))
	return strings.Join(parts, "\n\n") + "\n"
}

func (f *Formatter) Undo(plies int) string {
	return f.render("session.undo", map[string]any{"Plies": plies}, fmt.Sprintf("Took back %d move(s).", plies))
}

func (f *Formatter) Help() string {
	return f.render("help.keys", nil, "f flip, u undo, r reset, m random, q quit")
}

// Error renders a user-facing sentence for a domain error.
func (f *Formatter) Error(de chessdto.DomainError) string {
	return f.render("errors."+de.Code, nil, de.Error())
}

// History renders numbered move pairs as a fixed-width table.
func (f *Formatter) History(pairs []chessdto.HistoryPair) string {
	if len(pairs) == 0 {
		return f.render("history.empty", nil, "No moves yet.")
	}
	var sb strings.Builder
	sb.WriteString(f.render("history.header", nil, "  #  White     Black"))
	for _, p := range pairs {
		sb.WriteString(fmt.Sprintf("\n%3d. %-9s %s", p.Number, p.White, p.Black))
	}
	return sb.String()
}

func (f *Formatter) Material(score chessdto.MaterialScore) string {
	return f.render("material.line", map[string]any{"Balance": f.materialBalance(score)}, "Material "+f.materialBalance(score))
}

func (f *Formatter) materialBalance(score chessdto.MaterialScore) string {
	diff := score.White - score.Black
	switch {
	case diff > 0:
		return fmt.Sprintf("White +%d", diff)
	case diff < 0:
		return fmt.Sprintf("Black +%d", -diff)
	default:
		return f.render("material.even", nil, "even")
	}
}

// Captured shows the most recent captures for each side, newest first.
func (f *Formatter) Captured(captured chessdto.CapturedPieces) string {
	formatted := formatCaptured(captured)
	if formatted == "" {
		return ""
	}
	return f.render("material.captured", map[string]any{"Pieces": formatted}, "Captured "+formatted)
}

// Board draws the squares as text in the order they were supplied, so a
// flipped state prints from Black's side.
func (f *Formatter) Board(state *chessdto.SessionState) string {
	if state == nil || len(state.Squares) != 64 {
		return ""
	}
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		first := state.Squares[row*8]
		sb.WriteString(first.Name[1:])
		sb.WriteString(" ")
		for col := 0; col < 8; col++ {
			sq := state.Squares[row*8+col]
			sb.WriteString(" ")
			sb.WriteString(squareGlyph(sq))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("  ")
	for col := 0; col < 8; col++ {
		sb.WriteString(" ")
		sb.WriteString(state.Squares[56+col].Name[:1])
	}
	return sb.String()
}

func squareGlyph(sq chessdto.Square) string {
	switch {
	case sq.Piece != "":
		return sq.Piece
	case sq.Target:
		return "*"
	default:
		return "."
	}
}

func formatCaptured(captured chessdto.CapturedPieces) string {
	white := formatCapturedSequence(recentPieces(captured.White, capturedRecentLimit))
	black := formatCapturedSequence(recentPieces(captured.Black, capturedRecentLimit))
	if white == "" && black == "" {
		return ""
	}
	var parts []string
	if white != "" {
		parts = append(parts, "White "+white)
	}
	if black != "" {
		parts = append(parts, "Black "+black)
	}
	return strings.Join(parts, " / ")
}

func formatCapturedSequence(order []string) string {
	if len(order) == 0 {
		return ""
	}
	tokens := make([]string, 0, len(order))
	for _, token := range order {
		if symbol := capturedSymbol(token); symbol != "" {
			tokens = append(tokens, symbol)
		}
	}
	return strings.Join(tokens, " ")
}

func capturedSymbol(piece string) string {
	switch strings.ToLower(strings.TrimSpace(piece)) {
	case "queen", "q":
		return "Q"
	case "rook", "r":
		return "R"
	case "bishop", "b":
		return "B"
	case "knight", "n":
		return "N"
	case "pawn", "p":
		return "P"
	default:
		return ""
	}
}

func recentPieces(order []string, limit int) []string {
	if len(order) == 0 || limit <= 0 {
		return nil
	}
	if len(order) > limit {
		order = order[len(order)-limit:]
	}
	result := make([]string, len(order))
	for i := range order {
		result[i] = order[len(order)-1-i]
	}
	return result
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
