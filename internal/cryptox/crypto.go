// Package cryptox holds the symmetric primitives behind the Credential Store:
// AES-256-CBC with PKCS#7 padding and the colon-delimited hex record format.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// KeySize is the length of the store key in bytes (AES-256).
const KeySize = 32

// recordSeparator splits the IV from the ciphertext in a sealed record.
const recordSeparator = ":"

var (
	ErrInvalidPadding = errors.New("invalid padding")
	ErrInvalidRecord  = errors.New("invalid record format")
)

// NewKey returns KeySize random bytes suitable for EncryptCBC.
func NewKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}

// EncryptCBC encrypts plaintext with AES in CBC mode.
//
// A fresh random IV (one AES block, 16 bytes) is generated for every call,
// so encrypting the same plaintext twice yields different ciphertexts. The
// plaintext is padded with PKCS#7 before encryption.
//
// The key must be 16, 24 or 32 bytes long.
//
// Example:
//
//	key, _ := cryptox.NewKey()
//	iv, ct, err := cryptox.EncryptCBC([]byte("token"), key)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pt, _ := cryptox.DecryptCBC(iv, ct, key)
//	fmt.Println(string(pt)) // token
func EncryptCBC(plaintext, key []byte) (iv, ciphertext []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	iv = make([]byte, block.BlockSize())
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, err
	}

	padded := pkcs7Pad(plaintext, block.BlockSize())
	ciphertext = make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return iv, ciphertext, nil
}

// DecryptCBC reverses EncryptCBC. It fails when the IV or ciphertext length
// does not fit the block size or when the padding is malformed, which is
// what a wrong key or a corrupted record usually produces.
func DecryptCBC(iv, ciphertext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	bs := block.BlockSize()
	if len(iv) != bs {
		return nil, fmt.Errorf("iv length %d: %w", len(iv), ErrInvalidRecord)
	}
	if len(ciphertext) == 0 || len(ciphertext)%bs != 0 {
		return nil, fmt.Errorf("ciphertext length %d: %w", len(ciphertext), ErrInvalidRecord)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return pkcs7Unpad(plaintext, bs)
}

// SealString encrypts value and returns the record "ivHex:cipherHex".
func SealString(value string, key []byte) (string, error) {
	iv, ct, err := EncryptCBC([]byte(value), key)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(iv) + recordSeparator + hex.EncodeToString(ct), nil
}

// OpenString parses a record produced by SealString and decrypts it.
func OpenString(record string, key []byte) (string, error) {
	ivHex, ctHex, ok := strings.Cut(strings.TrimSpace(record), recordSeparator)
	if !ok {
		return "", ErrInvalidRecord
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return "", fmt.Errorf("decode iv: %w", ErrInvalidRecord)
	}
	ct, err := hex.DecodeString(ctHex)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", ErrInvalidRecord)
	}

	pt, err := DecryptCBC(iv, ct, key)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(bytes.Clone(b), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize {
		return nil, ErrInvalidPadding
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, ErrInvalidPadding
		}
	}
	return b[:len(b)-n], nil
}
