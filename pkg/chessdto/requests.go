package chessdto

type StartSessionRequest struct {
	AutoReply *bool  `json:"autoReply,omitempty"`
	PlayAs    string `json:"playAs,omitempty"`
	FEN       string `json:"fen,omitempty"`
}

type TapRequest struct {
	Square string `json:"square"`
}

type PromotionRequest struct {
	Piece string `json:"piece"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}
