package handlers

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Error string `json:"error" example:"camera not found: channel 5"`
}
