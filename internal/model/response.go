package model

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}
