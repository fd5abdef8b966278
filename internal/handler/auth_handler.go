package handler

import (
	"net/http"

	"craftopia-api/internal/model"
	"craftopia-api/internal/service"
)

type AuthHandler struct {
	tokens *service.TokenService
}

func NewAuthHandler(tokens *service.TokenService) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

// IssueToken signs a credential for the posted email. Whoever holds it is
// treated as that email until it expires.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var payload model.TokenRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	token, err := h.tokens.Issue(model.IdentityClaim{Email: payload.Email})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.TokenResponse{Token: token})
}
