package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"craftopia-api/internal/model"
	"craftopia-api/pkg/apierror"
)

// ErrVerification covers every reason a presented token is not accepted:
// empty, malformed, wrong algorithm or secret, expired, or missing email.
var ErrVerification = errors.New("token verification failed")

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless HS256 access tokens. Validity
// depends only on the signature and the expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *TokenService) Issue(claim model.IdentityClaim) (string, error) {
	email := strings.TrimSpace(claim.Email)
	if email == "" {
		return "", apierror.New("BAD_REQUEST", "email is required", "email", http.StatusBadRequest)
	}

	now := s.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) Verify(tokenString string) (model.IdentityClaim, error) {
	if strings.TrimSpace(tokenString) == "" {
		return model.IdentityClaim{}, fmt.Errorf("%w: token is empty", ErrVerification)
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return model.IdentityClaim{}, fmt.Errorf("%w: %v", ErrVerification, err)
	}
	if !parsed.Valid {
		return model.IdentityClaim{}, fmt.Errorf("%w: token is not valid", ErrVerification)
	}
	if strings.TrimSpace(claims.Email) == "" {
		return model.IdentityClaim{}, fmt.Errorf("%w: token carries no email", ErrVerification)
	}

	return model.IdentityClaim{Email: claims.Email}, nil
}
