package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func TestDeriveKey_DeterministicAndSaltSensitive(t *testing.T) {
	secret := []byte("device-secret")

	k1 := DeriveKey(secret, []byte("salt-1"))
	k2 := DeriveKey(secret, []byte("salt-1"))
	k3 := DeriveKey(secret, []byte("salt-2"))

	assert.Len(t, k1, KeySize)
	assert.True(t, bytes.Equal(k1, k2))
	assert.False(t, bytes.Equal(k1, k3))
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("secret"), []byte("salt"))
	in := record{Email: "a@b.com", Password: "secret1"}

	blob, err := Seal(in, key)
	require.NoError(t, err)
	assert.NotContains(t, string(blob), "secret1")

	var out record
	require.NoError(t, Open(blob, key, &out))
	assert.Equal(t, in, out)
}

func TestOpen_WrongKeyFails(t *testing.T) {
	blob, err := Seal(record{Email: "x"}, DeriveKey([]byte("a"), []byte("salt")))
	require.NoError(t, err)

	var out record
	assert.Error(t, Open(blob, DeriveKey([]byte("b"), []byte("salt")), &out))
}

func TestOpen_ShortBlob(t *testing.T) {
	var out record
	err := Open([]byte{1, 2}, DeriveKey([]byte("a"), []byte("salt")), &out)
	assert.ErrorIs(t, err, ErrMalformedBlob)
}
