package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"

	"github.com/kinsust/kin-api/internal/logging"
)

// TokenClaims is the payload carried by every token flavor. Session tokens
// populate UID/UserRole, verification and reset tokens populate Email and,
// for the code variant, the bcrypt hash of the one-time code. The plaintext
// code is never embedded anywhere.
type TokenClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid,omitempty"`
	UserRole string `json:"role,omitempty"`
	Email    string `json:"email,omitempty"`
	CodeHash string `json:"code,omitempty"`
}

// TokenService signs and verifies one flavor of HS256 token. Secret and TTL
// are fixed at construction; callers needing a different flavor hold a
// different service.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	logger logging.Logger
}

// NewTokenService creates a TokenService for one secret/TTL pair.
func NewTokenService(secret []byte, ttl time.Duration, issuer string, logger logging.Logger) *TokenService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &TokenService{
		secret: secret,
		ttl:    ttl,
		issuer: issuer,
		logger: logger,
	}
}

// TTL exposes the configured token lifetime, used to align cookie max-age.
func (ts *TokenService) TTL() time.Duration {
	return ts.ttl
}

// Issue signs the claims, stamping issuer, issued-at and expiry.
func (ts *TokenService) Issue(claims *TokenClaims) (string, error) {
	if claims == nil {
		return "", goerrors.New("claims must not be nil", goerrors.CategoryInternal)
	}

	now := time.Now()
	claims.Issuer = ts.issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ts.ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.secret)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign token")
	}

	return signed, nil
}

// Verify parses and validates a token string. Expired tokens always surface
// as ErrTokenExpired; everything else that fails surfaces as ErrTokenInvalid.
func (ts *TokenService) Verify(raw string) (*TokenClaims, error) {
	parserOptions := []jwt.ParserOption{}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("unexpected token signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.secret, nil
	}, parserOptions...)

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, ErrTokenInvalid.Category, ErrTokenInvalid.Message).
			WithTextCode(ErrTokenInvalid.TextCode).
			WithCode(ErrTokenInvalid.Code)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		ts.logger.Error("could not decode token claims")
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
