package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("inst-1", "vouchers/inst-1.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	owner, key, err := signer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "inst-1", owner)
	require.Equal(t, "vouchers/inst-1.pdf", key)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	token, _, err := signer.Generate("inst-1", "vouchers/inst-1.pdf")
	require.NoError(t, err)

	signer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, _, err = signer.Parse(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestSignedURLSignerTampered(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("inst-1", "vouchers/inst-1.pdf")
	require.NoError(t, err)

	other := NewSignedURLSigner("other", time.Hour)
	_, _, err = other.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = signer.Parse("garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignedURLSignerRequiresSecret(t *testing.T) {
	signer := NewSignedURLSigner("", time.Hour)
	_, _, err := signer.Generate("inst-1", "key")
	require.Error(t, err)
}
