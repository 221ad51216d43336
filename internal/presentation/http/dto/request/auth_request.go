package request

// PinLoginRequest exchanges an operator PIN for a role token
type PinLoginRequest struct {
	PIN        string `json:"pin" binding:"required,min=4,max=12"`
	TerminalID string `json:"terminal_id" binding:"omitempty,max=100"`
}
