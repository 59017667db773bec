// Package secrets encrypts sensitive fields before they reach the
// persistence store. The ciphertext format is AES-256-CBC with PKCS#7
// padding under a fixed key and IV, base64-encoded, which matches the
// at-rest format the store has always used.
package secrets

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
)

const (
	keyLength = 32
	ivLength  = aes.BlockSize
)

var (
	// ErrInvalidKeyLength indicates the provided key is not the required size.
	ErrInvalidKeyLength = errors.New("secrets: encryption key must be 32 bytes")
	// ErrInvalidIVLength indicates the provided IV is not one AES block.
	ErrInvalidIVLength = errors.New("secrets: initialization vector must be 16 bytes")
	// ErrInvalidPadding indicates the decrypted payload failed padding
	// verification, which is how a mismatched key or corrupted ciphertext
	// surfaces instead of silently returning garbage plaintext.
	ErrInvalidPadding = errors.New("secrets: invalid padding, wrong key or corrupted ciphertext")
	// ErrInvalidCiphertext indicates the payload is not a whole number of
	// AES blocks.
	ErrInvalidCiphertext = errors.New("secrets: ciphertext length is not a multiple of the block size")
)

// Cipher wraps AES-CBC helpers for encrypting sensitive values before
// storage.
type Cipher struct {
	key []byte
	iv  []byte
}

// NewCipher constructs a Cipher from the provided key and IV bytes.
func NewCipher(key, iv []byte) (*Cipher, error) {
	if len(key) != keyLength {
		return nil, ErrInvalidKeyLength
	}

	if len(iv) != ivLength {
		return nil, ErrInvalidIVLength
	}

	c := &Cipher{
		key: make([]byte, keyLength),
		iv:  make([]byte, ivLength),
	}
	copy(c.key, key)
	copy(c.iv, iv)

	return c, nil
}

// Encrypt serialises plaintext using AES-256-CBC and returns a base64
// payload.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("secrets: create cipher: %w", err)
	}

	padded := pad([]byte(plaintext))
	ciphertext := make([]byte, len(padded))

	cipher.NewCBCEncrypter(block, c.iv).CryptBlocks(ciphertext, padded)

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt and returns the original plaintext. A payload
// produced under a different key or IV fails with ErrInvalidPadding with
// overwhelming probability.
func (c *Cipher) Decrypt(encoded string) (string, error) {
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("secrets: decode ciphertext: %w", err)
	}

	if len(payload) == 0 || len(payload)%aes.BlockSize != 0 {
		return "", ErrInvalidCiphertext
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("secrets: create cipher: %w", err)
	}

	plaintext := make([]byte, len(payload))
	cipher.NewCBCDecrypter(block, c.iv).CryptBlocks(plaintext, payload)

	unpadded, err := unpad(plaintext)
	if err != nil {
		return "", err
	}

	return string(unpadded), nil
}

func pad(data []byte) []byte {
	n := aes.BlockSize - len(data)%aes.BlockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, ErrInvalidPadding
	}

	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidPadding
		}
	}

	return data[:len(data)-n], nil
}
