// Package cryptox seals small records kept in local storage.
//
// Keys are derived with argon2id from a per-install secret; payloads are JSON
// encoded and encrypted with AES-256-GCM. Sealed blobs carry their nonce as a
// prefix so they can be stored as a single value.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"

	"golang.org/x/crypto/argon2"
)

// KeySize is the length of keys returned by DeriveKey.
const KeySize = 32

// ErrMalformedBlob is returned by Open when the blob is too short to contain a nonce.
var ErrMalformedBlob = errors.New("malformed sealed blob")

// DeriveKey stretches secret with salt into a KeySize-byte AES key.
func DeriveKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, KeySize)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal serializes v to JSON and encrypts it with key. The returned blob is
// nonce || ciphertext.
func Seal(v any, key []byte) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal, decrypting blob with key and unmarshaling into v.
func Open(blob []byte, key []byte, v any) error {
	aesgcm, err := newGCM(key)
	if err != nil {
		return err
	}

	ns := aesgcm.NonceSize()
	if len(blob) < ns {
		return ErrMalformedBlob
	}

	plaintext, err := aesgcm.Open(nil, blob[:ns], blob[ns:], nil)
	if err != nil {
		return err
	}

	return json.Unmarshal(plaintext, v)
}
