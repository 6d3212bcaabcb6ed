package tui

import "github.com/gdamore/tcell/v2"

// Theme colors the terminal board. Stick to the xterm 256 palette.
type Theme struct {
	Name        string
	SquareDark  tcell.Color
	SquareLight tcell.Color
	SquareSel   tcell.Color
	SquareLast  tcell.Color
	SquareCheck tcell.Color
	Target      tcell.Color
	White       tcell.Color
	Black       tcell.Color
	Label       tcell.Color
	LabelBg     tcell.Color
	Coord       tcell.Color
	Msg         tcell.Color
	Help        tcell.Color
}

var ThemeBasic = Theme{
	Name:        "basic",
	SquareDark:  tcell.Color137,
	SquareLight: tcell.Color180,
	SquareSel:   tcell.Color226,
	SquareLast:  tcell.Color143,
	SquareCheck: tcell.Color167,
	Target:      tcell.Color22,
	White:       tcell.Color231,
	Black:       tcell.Color232,
	Label:       tcell.ColorBlack,
	LabelBg:     tcell.Color252,
	Coord:       tcell.Color247,
	Msg:         tcell.Color160,
	Help:        tcell.Color244,
}

var ThemeMono = Theme{
	Name:        "mono",
	SquareDark:  tcell.Color240,
	SquareLight: tcell.Color250,
	SquareSel:   tcell.Color255,
	SquareLast:  tcell.Color245,
	SquareCheck: tcell.Color196,
	Target:      tcell.Color16,
	White:       tcell.Color231,
	Black:       tcell.Color16,
	Label:       tcell.ColorBlack,
	LabelBg:     tcell.Color252,
	Coord:       tcell.Color247,
	Msg:         tcell.Color196,
	Help:        tcell.Color244,
}

// ThemeByName falls back to ThemeBasic for unknown names.
func ThemeByName(name string) Theme {
	if name == ThemeMono.Name {
		return ThemeMono
	}
	return ThemeBasic
}
