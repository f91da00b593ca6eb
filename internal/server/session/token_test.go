package session_test

import (
	"strings"
	"testing"
	"time"

	"github.com/slsmu/slsmu/internal/model"
	"github.com/slsmu/slsmu/internal/server/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokens(t *testing.T, format string, ttl time.Duration) session.TokenService {
	t.Helper()

	s, err := session.NewTokenService(session.TokenConfig{
		Format: format,
		Secret: []byte("secret"),
		TTL:    ttl,
	})
	require.NoError(t, err)
	return s
}

func TestNewTokenService(t *testing.T) {
	_, err := session.NewTokenService(session.TokenConfig{Format: session.FormatJWT})
	assert.EqualError(t, err, "token secret not found")

	_, err = session.NewTokenService(session.TokenConfig{Format: "macaroon", Secret: []byte("secret")})
	assert.EqualError(t, err, `unsupported token format "macaroon"`)
}

func TestDeriveKey(t *testing.T) {
	k := session.DeriveKey(32, []byte("secret"))
	assert.Len(t, k, 32)
	assert.Equal(t, k, session.DeriveKey(32, []byte("secret")))
	assert.NotEqual(t, k, session.DeriveKey(32, []byte("secret2")))
}

func TestTokenService(t *testing.T) {
	for _, format := range []string{session.FormatJWT, session.FormatPASETO} {
		t.Run(format, func(t *testing.T) {
			s := tokens(t, format, time.Hour)

			//
			// Round trip.
			//

			for _, c := range []*model.Caller{
				{ID: "admin@example.com", Role: model.RoleAdmin, Site: "localhost"},
				{ID: "test@example.com", Role: model.RoleUser},
			} {
				token, err := s.Issue(c)
				require.NoError(t, err)

				got, ok := s.Validate(token)
				require.True(t, ok)
				assert.Equal(t, c, got)
			}

			//
			// Malformed.
			//

			for _, token := range []string{"", "not.a.token", "v2.local.garbage"} {
				got, ok := s.Validate(token)
				assert.False(t, ok, token)
				assert.Nil(t, got)
			}

			//
			// Tampered.
			//

			token, err := s.Issue(&model.Caller{ID: "test@example.com", Role: model.RoleUser})
			require.NoError(t, err)

			_, ok := s.Validate(tamper(token))
			assert.False(t, ok)

			//
			// Signed with another secret.
			//

			other, err := session.NewTokenService(session.TokenConfig{
				Format: format,
				Secret: []byte("another-secret"),
				TTL:    time.Hour,
			})
			require.NoError(t, err)
			_, ok = other.Validate(token)
			assert.False(t, ok)

			//
			// Another issuer.
			//

			other, err = session.NewTokenService(session.TokenConfig{
				Format: format,
				Secret: []byte("secret"),
				Issuer: "someone-else",
				TTL:    time.Hour,
			})
			require.NoError(t, err)
			_, ok = other.Validate(token)
			assert.False(t, ok)

			//
			// Unknown role.
			//

			token, err = s.Issue(&model.Caller{ID: "test@example.com", Role: model.Role("root")})
			require.NoError(t, err)
			_, ok = s.Validate(token)
			assert.False(t, ok)
		})
	}
}

func tamper(token string) string {
	i := len(token) / 2
	c := byte('a')
	if token[i] == c {
		c = 'b'
	}
	return token[:i] + string(c) + token[i+1:]
}

func TestTokenServiceExpired(t *testing.T) {
	for _, format := range []string{session.FormatJWT, session.FormatPASETO} {
		t.Run(format, func(t *testing.T) {
			s := tokens(t, format, -time.Minute)

			token, err := s.Issue(&model.Caller{ID: "test@example.com", Role: model.RoleUser})
			require.NoError(t, err)

			got, ok := s.Validate(token)
			assert.False(t, ok)
			assert.Nil(t, got)
		})
	}
}

func TestTokenFormats(t *testing.T) {
	c := &model.Caller{ID: "test@example.com", Role: model.RoleUser}

	token, err := tokens(t, session.FormatJWT, time.Hour).Issue(c)
	require.NoError(t, err)
	assert.Regexp(t, `.*\..*\..*`, token)

	token, err = tokens(t, session.FormatPASETO, time.Hour).Issue(c)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v2.local."))

	// Formats are not interchangeable.
	_, ok := tokens(t, session.FormatJWT, time.Hour).Validate(token)
	assert.False(t, ok)
}
