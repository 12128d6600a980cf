package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// Claim names carried in issued tokens.
const (
	ClaimSubject = "nameid"
	ClaimName    = "name"
	ClaimEmail   = "email"
	ClaimRole    = "role"
)

// ErrMissingSecret is returned when a token issuer is built without a
// signing secret. It is a fatal configuration error.
var ErrMissingSecret = errors.New("token signing secret is required")

// ErrInvalidToken is returned when a token fails signature, algorithm,
// or expiry validation.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload of an issued token.
type Claims struct {
	UserID string   `json:"nameid"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Roles  []string `json:"role"`
	jwt.RegisteredClaims
}

// HasRole reports whether the role claim set contains role.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TokenIssuer signs and validates HS256 claims tokens.
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// TokenOption customizes a TokenIssuer.
type TokenOption func(*TokenIssuer)

// WithClock overrides the time source used for issue and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(t *TokenIssuer) {
		t.now = now
	}
}

// NewTokenIssuer builds an issuer. An expiry of zero issues tokens without
// an exp claim, which never expire.
func NewTokenIssuer(secret []byte, expiry time.Duration, opts ...TokenOption) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, oops.Code("TOKEN_MISSING_SECRET").Wrap(ErrMissingSecret)
	}
	if expiry < 0 {
		return nil, oops.Code("TOKEN_INVALID_EXPIRY").With("expiry", expiry.String()).Errorf("token expiry cannot be negative")
	}
	issuer := &TokenIssuer{
		secret: append([]byte(nil), secret...),
		expiry: expiry,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(issuer)
	}
	return issuer, nil
}

// Issue signs a token carrying the subject id, name, email and one role
// entry per role.
func (t *TokenIssuer) Issue(subjectID, name, email string, roles []string) (string, error) {
	if roles == nil {
		roles = []string{}
	}
	now := t.now()
	claims := Claims{
		UserID: subjectID,
		Name:   name,
		Email:  email,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subjectID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if t.expiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.expiry))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").With("subject", subjectID).Wrap(err)
	}
	return signed, nil
}

// Parse validates the signature, the algorithm and, when present, the
// expiry of tokenString and returns its claims.
func (t *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

// ExtractClaim returns the first value of claim from a token that has
// already been validated. The signature is not checked again.
func ExtractClaim(tokenString, claim string) (string, bool) {
	values := ExtractAllClaims(tokenString, claim)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// ExtractAllClaims returns every value of claim from an already validated
// token, in order. A token that cannot be decoded yields nil.
func ExtractAllClaims(tokenString, claim string) []string {
	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, mapClaims); err != nil {
		return nil
	}

	switch value := mapClaims[claim].(type) {
	case string:
		return []string{value}
	case []any:
		values := make([]string, 0, len(value))
		for _, item := range value {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
		return values
	default:
		return nil
	}
}
