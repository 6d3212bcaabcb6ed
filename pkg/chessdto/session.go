package chessdto

import "time"

type MaterialScore struct {
	White int `json:"white"`
	Black int `json:"black"`
}

// CapturedPieces lists pieces taken by each side, oldest first.
type CapturedPieces struct {
	White []string `json:"white"`
	Black []string `json:"black"`
}

type Square struct {
	Name     string `json:"square"`
	Piece    string `json:"piece,omitempty"`
	Dark     bool   `json:"dark,omitempty"`
	Selected bool   `json:"selected,omitempty"`
	Target   bool   `json:"target,omitempty"`
	Check    bool   `json:"check,omitempty"`
	LastMove bool   `json:"lastMove,omitempty"`
}

type HistoryPair struct {
	Number int    `json:"number"`
	White  string `json:"white"`
	Black  string `json:"black,omitempty"`
}

type Status struct {
	Kind    string `json:"kind"`
	Winner  string `json:"winner,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Text    string `json:"text"`
	Turn    string `json:"turn"`
	InCheck bool   `json:"inCheck"`
}

type SessionState struct {
	SessionID string `json:"sessionId"`
	Label     string `json:"label"`
	AutoReply bool   `json:"autoReply"`
	PlayAs    string `json:"playAs"`

	FEN       string         `json:"fen"`
	Flipped   bool           `json:"flipped"`
	Squares   []Square       `json:"squares"`
	Status    Status         `json:"status"`
	History   []HistoryPair  `json:"history"`
	MovesSAN  []string       `json:"movesSan"`
	MovesUCI  []string       `json:"movesUci"`
	MoveCount int            `json:"moveCount"`
	Material  MaterialScore  `json:"material"`
	Captured  CapturedPieces `json:"captured"`

	Selected  string   `json:"selected,omitempty"`
	Targets   []string `json:"targets,omitempty"`
	LastFrom  string   `json:"lastFrom,omitempty"`
	LastTo    string   `json:"lastTo,omitempty"`
	Promotion string   `json:"promotion"`

	TapResult string `json:"tapResult,omitempty"`
	Reply     string `json:"reply,omitempty"`

	StartedAt time.Time `json:"startedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
