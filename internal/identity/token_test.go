package identity

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer(nil, 0)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewTokenIssuer([]byte{}, time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestNewTokenIssuerRejectsNegativeExpiry(t *testing.T) {
	_, err := NewTokenIssuer(testSecret, -time.Second)
	assert.Error(t, err)
}

func TestIssueCarriesClaims(t *testing.T) {
	issuer, err := NewTokenIssuer(testSecret, 0)
	require.NoError(t, err)

	token, err := issuer.Issue("u-1", "alice", "a@x.io", []string{"user", "editor"})
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice", claims.Name)
	assert.Equal(t, "a@x.io", claims.Email)
	assert.Equal(t, []string{"user", "editor"}, claims.Roles)
	assert.True(t, claims.HasRole("editor"))
	assert.False(t, claims.HasRole("administrator"))
}

func TestIssueWithoutExpiryOmitsExp(t *testing.T) {
	issuer, err := NewTokenIssuer(testSecret, 0)
	require.NoError(t, err)

	token, err := issuer.Issue("u-1", "alice", "a@x.io", nil)
	require.NoError(t, err)

	mapClaims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, mapClaims)
	require.NoError(t, err)
	assert.NotContains(t, mapClaims, "exp")
	assert.Equal(t, []any{}, mapClaims[ClaimRole])
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := issuedAt
	issuer, err := NewTokenIssuer(testSecret, time.Minute, WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	token, err := issuer.Issue("u-1", "alice", "a@x.io", []string{"user"})
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	require.NoError(t, err)

	now = issuedAt.Add(2 * time.Minute)
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	issuer, err := NewTokenIssuer(testSecret, 0)
	require.NoError(t, err)
	other, err := NewTokenIssuer([]byte("another-secret"), 0)
	require.NoError(t, err)

	token, err := other.Issue("u-1", "alice", "a@x.io", []string{"administrator"})
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsNoneAlgorithm(t *testing.T) {
	issuer, err := NewTokenIssuer(testSecret, 0)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u-1", Roles: []string{"administrator"}}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsTamperedPayload(t *testing.T) {
	issuer, err := NewTokenIssuer(testSecret, 0)
	require.NoError(t, err)

	token, err := issuer.Issue("u-1", "alice", "a@x.io", []string{"user"})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged, err := issuer.Issue("u-2", "mallory", "m@x.io", []string{"administrator"})
	require.NoError(t, err)
	parts[1] = strings.Split(forged, ".")[1]

	_, err = issuer.Parse(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractClaims(t *testing.T) {
	issuer, err := NewTokenIssuer(testSecret, 0)
	require.NoError(t, err)

	token, err := issuer.Issue("u-1", "alice", "a@x.io", []string{"user", "editor"})
	require.NoError(t, err)

	subject, ok := ExtractClaim(token, ClaimSubject)
	assert.True(t, ok)
	assert.Equal(t, "u-1", subject)

	assert.Equal(t, []string{"user", "editor"}, ExtractAllClaims(token, ClaimRole))

	_, ok = ExtractClaim(token, "missing")
	assert.False(t, ok)
	assert.Nil(t, ExtractAllClaims("not-a-token", ClaimRole))
}
