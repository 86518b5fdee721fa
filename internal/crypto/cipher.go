package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
)

const (
	// NonceSize - размер nonce для AES-GCM (12 bytes стандартный размер)
	NonceSize = 12
	// KeySize - размер ключа AES-256
	KeySize = 32
	// TagSize - размер authentication tag GCM
	TagSize = 16
)

// ErrCiphertextTooShort is returned when the input cannot hold a nonce and a tag.
var ErrCiphertextTooShort = errors.New("encrypted data too short")

// Cipher шифрует payload очереди ключом AES-256-GCM.
// AEAD создается один раз и переиспользуется, Cipher безопасен для конкурентного использования.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher создает Cipher из 32-байтного ключа
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Seal шифрует plaintext.
// Формат результата: nonce (12 bytes) + ciphertext + auth_tag (16 bytes)
func (c *Cipher) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, NonceSize, NonceSize+len(plaintext)+TagSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal дописывает ciphertext и tag после nonce
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open расшифровывает данные, полученные из Seal, и проверяет authentication tag
func (c *Cipher) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < NonceSize+TagSize {
		return nil, ErrCiphertextTooShort
	}

	plaintext, err := c.aead.Open(nil, sealed[:NonceSize], sealed[NonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: authentication failed or corrupted data: %w", err)
	}

	return plaintext, nil
}
