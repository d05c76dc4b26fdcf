package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/course-service/internal/domain"
)

func newTestManager() *TokenManager {
	return NewTokenManager("test-secret", 30*time.Minute, 24*time.Hour)
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()
	tm := newTestManager()

	for _, role := range []domain.Role{domain.RoleListener, domain.RoleSpecialist} {
		token, expiresAt, err := tm.GenerateToken(42, role, TokenKindAccess)
		require.NoError(t, err)
		assert.True(t, expiresAt.After(time.Now()))

		claims, err := tm.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, int64(42), claims.SubjectID)
		assert.Equal(t, role, claims.Role)
		assert.Equal(t, TokenKindAccess, claims.Kind)
	}
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()
	tm := NewTokenManager("test-secret", time.Nanosecond, 24*time.Hour)

	token, _, err := tm.GenerateToken(7, domain.RoleListener, TokenKindAccess)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond) // exp has whole-second resolution

	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenTamperEvidence(t *testing.T) {
	t.Parallel()
	tm := newTestManager()

	token, _, err := tm.GenerateToken(42, domain.RoleListener, TokenKindAccess)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	// The final base64url char carries unused padding bits, so a flip there
	// can decode to the same signature bytes; every other position must fail.
	for i := 0; i < len(sig)-1; i++ {
		tampered := make([]byte, len(sig))
		copy(tampered, sig)
		if tampered[i] == 'A' {
			tampered[i] = 'B'
		} else {
			tampered[i] = 'A'
		}
		if string(tampered) == parts[2] {
			continue
		}

		_, err := tm.ParseToken(parts[0] + "." + parts[1] + "." + string(tampered))
		assert.Error(t, err, "flipped signature byte %d accepted", i)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	t.Parallel()
	tm := newTestManager()
	other := NewTokenManager("other-secret", 30*time.Minute, 24*time.Hour)

	token, _, err := tm.GenerateToken(42, domain.RoleListener, TokenKindAccess)
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenBadSignature)
}

func TestTokenMalformed(t *testing.T) {
	t.Parallel()
	tm := newTestManager()

	for _, bad := range []string{"", "garbage", "a.b", "a.b.c.d", "!!!.???.###"} {
		_, err := tm.ParseToken(bad)
		assert.ErrorIs(t, err, ErrTokenMalformed, "input %q", bad)
	}
}

func TestGeneratePairKinds(t *testing.T) {
	t.Parallel()
	tm := newTestManager()

	pair, err := tm.GeneratePair(42, domain.RoleSpecialist)
	require.NoError(t, err)

	access, err := tm.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, TokenKindAccess, access.Kind)

	refresh, err := tm.ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenKindRefresh, refresh.Kind)

	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))
}
