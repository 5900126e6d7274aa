package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(ttl time.Duration) TokenCodec {
	return NewTokenCodec("task-dashboard-test", []byte("test-signing-key"), ttl)
}

func TestTokenCodec_IssueAndVerify(t *testing.T) {
	codec := newTestCodec(time.Hour)

	token, err := codec.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestTokenCodec_VerifyIsPure(t *testing.T) {
	codec := newTestCodec(time.Hour)

	token, err := codec.Issue("user-123")
	require.NoError(t, err)

	first, err := codec.Verify(token)
	require.NoError(t, err)
	second, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTokenCodec_VerifyExpired(t *testing.T) {
	expired := newTestCodec(-time.Minute)

	token, err := expired.Issue("user-123")
	require.NoError(t, err)

	// The signature is correct; only the expiry has elapsed.
	_, err = newTestCodec(time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_VerifyWrongKey(t *testing.T) {
	codec := newTestCodec(time.Hour)
	other := NewTokenCodec("task-dashboard-test", []byte("another-key"), time.Hour)

	token, err := other.Issue("user-123")
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_VerifyWrongIssuer(t *testing.T) {
	codec := newTestCodec(time.Hour)
	other := NewTokenCodec("someone-else", []byte("test-signing-key"), time.Hour)

	token, err := other.Issue("user-123")
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_VerifyMalformed(t *testing.T) {
	codec := newTestCodec(time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9"} {
		_, err := codec.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}
