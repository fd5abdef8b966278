package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"craftopia-api/internal/model"
)

func newTestTokenService(t *testing.T, now time.Time) *TokenService {
	t.Helper()

	svc, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)
	svc.now = func() time.Time { return now }
	return svc
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("round trips the email claim", func(t *testing.T) {
		svc := newTestTokenService(t, issuedAt)

		token, err := svc.Issue(model.IdentityClaim{Email: "a@x.com"})
		require.NoError(t, err)

		claim, err := svc.Verify(token)
		require.NoError(t, err)
		require.Equal(t, model.IdentityClaim{Email: "a@x.com"}, claim)
	})

	t.Run("expires exactly one hour after issuance", func(t *testing.T) {
		svc := newTestTokenService(t, issuedAt)

		token, err := svc.Issue(model.IdentityClaim{Email: "a@x.com"})
		require.NoError(t, err)

		claims := &tokenClaims{}
		_, _, err = jwt.NewParser().ParseUnverified(token, claims)
		require.NoError(t, err)
		require.Equal(t, "a@x.com", claims.Email)
		require.Equal(t, issuedAt, claims.IssuedAt.Time.UTC())
		require.Equal(t, issuedAt.Add(time.Hour), claims.ExpiresAt.Time.UTC())
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		svc := newTestTokenService(t, issuedAt)
		token, err := svc.Issue(model.IdentityClaim{Email: "a@x.com"})
		require.NoError(t, err)

		svc.now = func() time.Time { return issuedAt.Add(time.Hour + time.Second) }
		_, err = svc.Verify(token)
		require.ErrorIs(t, err, ErrVerification)
	})

	t.Run("accepts a token just before expiry", func(t *testing.T) {
		svc := newTestTokenService(t, issuedAt)
		token, err := svc.Issue(model.IdentityClaim{Email: "a@x.com"})
		require.NoError(t, err)

		svc.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
		_, err = svc.Verify(token)
		require.NoError(t, err)
	})

	t.Run("rejects a tampered token", func(t *testing.T) {
		svc := newTestTokenService(t, issuedAt)
		token, err := svc.Issue(model.IdentityClaim{Email: "a@x.com"})
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		forged, err := newTestTokenService(t, issuedAt).Issue(model.IdentityClaim{Email: "admin@x.com"})
		require.NoError(t, err)
		parts[1] = strings.Split(forged, ".")[1]

		_, err = svc.Verify(strings.Join(parts, "."))
		require.ErrorIs(t, err, ErrVerification)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		svc := newTestTokenService(t, issuedAt)
		other, err := NewTokenService("another-secret", time.Hour)
		require.NoError(t, err)
		other.now = svc.now

		token, err := other.Issue(model.IdentityClaim{Email: "a@x.com"})
		require.NoError(t, err)

		_, err = svc.Verify(token)
		require.ErrorIs(t, err, ErrVerification)
	})

	t.Run("rejects unsigned tokens", func(t *testing.T) {
		svc := newTestTokenService(t, issuedAt)
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"email": "a@x.com",
			"exp":   issuedAt.Add(time.Hour).Unix(),
		})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		require.ErrorIs(t, err, ErrVerification)
	})

	t.Run("rejects empty and malformed input", func(t *testing.T) {
		svc := newTestTokenService(t, issuedAt)

		_, err := svc.Verify("")
		require.ErrorIs(t, err, ErrVerification)

		_, err = svc.Verify("not-a-jwt")
		require.ErrorIs(t, err, ErrVerification)
	})

	t.Run("rejects tokens without an email", func(t *testing.T) {
		svc := newTestTokenService(t, issuedAt)
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": issuedAt.Add(time.Hour).Unix(),
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = svc.Verify(token)
		require.ErrorIs(t, err, ErrVerification)
	})

	t.Run("issue requires an email", func(t *testing.T) {
		svc := newTestTokenService(t, issuedAt)

		_, err := svc.Issue(model.IdentityClaim{Email: "  "})
		require.Error(t, err)
	})
}

func TestNewTokenService_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService("", time.Hour)
	require.Error(t, err)

	_, err = NewTokenService("secret", 0)
	require.Error(t, err)
}
