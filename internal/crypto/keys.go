package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Параметры Argon2id для ключа шифрования payload
const (
	// Argon2Time - количество итераций (time cost)
	Argon2Time = 1
	// Argon2Memory - объем памяти в KB (64MB = 64*1024 KB)
	Argon2Memory = 64 * 1024
	// Argon2Threads - количество параллельных потоков
	Argon2Threads = 4
	// SaltSize - размер соли в байтах
	SaltSize = 32
)

// payloadContext отделяет ключ очереди от других ключей, производных от той же парольной фразы
var payloadContext = []byte("fieldsync/queue-payload")

// GenerateSalt генерирует криптографически случайную соль
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// DerivePayloadKey derives the 32-byte payload encryption key from the device
// passphrase and the per-database salt with Argon2id.
func DerivePayloadKey(passphrase string, salt []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase cannot be empty")
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(salt))
	}

	input := make([]byte, 0, len(passphrase)+len(payloadContext))
	input = append(input, passphrase...)
	input = append(input, payloadContext...)

	return argon2.IDKey(input, salt, Argon2Time, Argon2Memory, Argon2Threads, KeySize), nil
}
