package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	signer, err := NewEphemeralSessionSigner("nimbuzyn", time.Hour)
	require.NoError(t, err)

	token, err := signer.Mint("01JABCDEF0000000000000USER")
	require.NoError(t, err)

	userID, err := signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "01JABCDEF0000000000000USER", userID)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	a, err := NewEphemeralSessionSigner("nimbuzyn", time.Hour)
	require.NoError(t, err)
	b, err := NewEphemeralSessionSigner("nimbuzyn", time.Hour)
	require.NoError(t, err)

	token, err := a.Mint("user")
	require.NoError(t, err)

	_, err = b.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	signer := NewSessionSigner([]byte("0123456789abcdef0123456789abcdef"), "nimbuzyn", time.Nanosecond)

	token, err := signer.Mint("user")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = signer.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	minted, err := NewSessionSigner(key, "someone-else", time.Hour).Mint("user")
	require.NoError(t, err)

	_, err = NewSessionSigner(key, "nimbuzyn", time.Hour).Verify(minted)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	signer, err := NewEphemeralSessionSigner("nimbuzyn", time.Hour)
	require.NoError(t, err)

	_, err = signer.Verify("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
