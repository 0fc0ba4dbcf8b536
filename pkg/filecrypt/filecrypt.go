package filecrypt

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

// AlgorithmAESCBC is the only cipher suite supported for file content.
// The identifier is persisted nowhere; it exists so callers state what
// they expect and get a typed error if the stored parameters disagree.
const AlgorithmAESCBC = "AES/CBC/PKCS7"

// IVSize is the initialization vector length required by AES-CBC.
const IVSize = aes.BlockSize

var (
	ErrUnsupportedAlgorithm = errors.New("filecrypt: unsupported algorithm")
	ErrInvalidKeySize       = errors.New("filecrypt: key must be 16, 24 or 32 bytes")
	ErrInvalidIVSize        = errors.New("filecrypt: iv must be 16 bytes")
	ErrNotBlockAligned      = errors.New("filecrypt: ciphertext is not block aligned")
	ErrInvalidPadding       = errors.New("filecrypt: invalid padding")
)

// GenerateKey returns a fresh random AES key of the requested size in bits.
// Each file gets its own key; keys are never derived or reused.
func GenerateKey(bits int) ([]byte, error) {
	switch bits {
	case 128, 192, 256:
	default:
		return nil, ErrInvalidKeySize
	}

	key := make([]byte, bits/8)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// GenerateIV returns a fresh random 16-byte initialization vector.
// Must be called once per encryption; reusing a (key, iv) pair across two
// plaintexts breaks CBC confidentiality.
func GenerateIV() ([]byte, error) {
	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

// Encrypt applies AES-CBC with PKCS#7 padding to plaintext.
func Encrypt(algorithm string, key, iv, plaintext []byte) ([]byte, error) {
	block, err := newBlock(algorithm, key, iv)
	if err != nil {
		return nil, err
	}

	padded := pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

// Decrypt is the inverse of Encrypt. Ciphertext that is not block aligned
// or does not unpad cleanly is rejected with a typed error.
func Decrypt(algorithm string, key, iv, ciphertext []byte) ([]byte, error) {
	block, err := newBlock(algorithm, key, iv)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrNotBlockAligned
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)
	return unpad(padded, aes.BlockSize)
}

func newBlock(algorithm string, key, iv []byte) (cipher.Block, error) {
	if algorithm != AlgorithmAESCBC {
		return nil, ErrUnsupportedAlgorithm
	}
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, ErrInvalidKeySize
	}
	if len(iv) != IVSize {
		return nil, ErrInvalidIVSize
	}
	return aes.NewCipher(key)
}

func pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	return append(append([]byte{}, data...), bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-padLen], nil
}
