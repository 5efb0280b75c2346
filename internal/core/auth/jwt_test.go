package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-api/internal/domain"
)

func sampleUser() *domain.User {
	return &domain.User{
		ID:    7,
		Name:  "Ana",
		Email: "ana@x.com",
		Roles: []domain.Role{{Name: "author"}, {Name: "admin"}},
	}
}

func TestNewJWTerRequiresSecret(t *testing.T) {
	_, err := NewJWTer("", "blog", time.Hour)
	require.ErrorIs(t, err, ErrMissingSecret)

	j, err := NewJWTer("s3cret", "blog", 0)
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, j.TTL)
}

func TestIssueAndParse(t *testing.T) {
	j, err := NewJWTer("s3cret", "blog", time.Hour)
	require.NoError(t, err)

	tok, err := j.Issue(sampleUser())
	require.NoError(t, err)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, 7, c.UID)
	assert.Equal(t, "Ana", c.Name)
	assert.Equal(t, "ana@x.com", c.Email)
	assert.Equal(t, []string{"author", "admin"}, c.Roles)
	assert.True(t, c.HasRole("admin"))
	assert.False(t, c.HasRole("editor"))
	assert.WithinDuration(t, c.IssuedAt.Add(time.Hour), c.ExpiresAt.Time, time.Second)
}

func TestParseRejectsExpired(t *testing.T) {
	j, err := NewJWTer("s3cret", "blog", time.Hour)
	require.NoError(t, err)
	issued := time.Now()
	j.now = func() time.Time { return issued }

	tok, err := j.Issue(sampleUser())
	require.NoError(t, err)

	j.now = func() time.Time { return issued.Add(59 * time.Minute) }
	_, err = j.Parse(tok)
	require.NoError(t, err)

	j.now = func() time.Time { return issued.Add(61 * time.Minute) }
	_, err = j.Parse(tok)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseRejectsWrongSecretAndAlg(t *testing.T) {
	j, _ := NewJWTer("s3cret", "blog", time.Hour)
	other, _ := NewJWTer("other", "blog", time.Hour)

	tok, err := other.Issue(sampleUser())
	require.NoError(t, err)
	_, err = j.Parse(tok)
	require.Error(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"uid": 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = j.Parse(none)
	require.Error(t, err)

	_, err = j.Parse("garbage")
	require.Error(t, err)
}

func TestParseIgnoresIssuer(t *testing.T) {
	issuerA, _ := NewJWTer("s3cret", "a", time.Hour)
	issuerB, _ := NewJWTer("s3cret", "b", time.Hour)
	tok, err := issuerA.Issue(sampleUser())
	require.NoError(t, err)
	_, err = issuerB.Parse(tok)
	require.NoError(t, err)
}
