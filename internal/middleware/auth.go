package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"craftopia-api/internal/model"
)

const (
	MessageUnauthorized = "Unauthorized Access"
	MessageForbidden    = "forbidden"
	MessageInternal     = "Internal Server Error"
)

type tokenVerifier interface {
	Verify(tokenString string) (model.IdentityClaim, error)
}

type userFinder interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type contextKey string

const identityClaimContextKey contextKey = "identity_claim"

type AuthMiddleware struct {
	verifier tokenVerifier
	users    userFinder
}

func NewAuthMiddleware(verifier tokenVerifier, users userFinder) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, users: users}
}

// Authenticate requires a verified token in the Authorization header. The
// token is the second whitespace-separated field; the scheme word is not
// checked.
func (m *AuthMiddleware) Authenticate(r *http.Request) Verdict {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return Reject(http.StatusUnauthorized, MessageUnauthorized)
	}

	var token string
	if fields := strings.Fields(header); len(fields) > 1 {
		token = fields[1]
	}

	claim, err := m.verifier.Verify(token)
	if err != nil {
		return Reject(http.StatusUnauthorized, MessageUnauthorized)
	}

	return Continue(r.WithContext(WithClaim(r.Context(), claim)))
}

// RequireRole looks the caller up on every request, so a role change applies
// to the next request. Must run after Authenticate.
func (m *AuthMiddleware) RequireRole(role model.Role) Gate {
	return func(r *http.Request) Verdict {
		claim, ok := ClaimFromContext(r.Context())
		if !ok {
			return Reject(http.StatusUnauthorized, MessageUnauthorized)
		}

		user, err := m.users.FindByEmail(r.Context(), claim.Email)
		if err != nil {
			slog.Error("role lookup failed", "email", claim.Email, "role", role, "error", err)
			return Reject(http.StatusInternalServerError, MessageInternal)
		}

		if user == nil || user.Role != role {
			return Reject(http.StatusForbidden, MessageForbidden)
		}

		return Continue(r)
	}
}

func WithClaim(ctx context.Context, claim model.IdentityClaim) context.Context {
	return context.WithValue(ctx, identityClaimContextKey, claim)
}

func ClaimFromContext(ctx context.Context) (model.IdentityClaim, bool) {
	claim, ok := ctx.Value(identityClaimContextKey).(model.IdentityClaim)
	return claim, ok
}
