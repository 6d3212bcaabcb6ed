package chessdto

const (
	CodeSessionNotFound  = "session_not_found"
	CodeSessionLimit     = "session_limit"
	CodeInvalidSquare    = "invalid_square"
	CodeInvalidPromotion = "invalid_promotion"
	CodeUndoNotAvailable = "undo_not_available"
	CodeNoMoveAvailable  = "no_move_available"
	CodeInvalidFEN       = "invalid_fen"
	CodeBadRequest       = "bad_request"
	CodeInternal         = "internal"
)

type DomainError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "chess service error"
}
