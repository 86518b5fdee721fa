package codec

import (
	"github.com/iudanet/fieldsync/internal/crypto"
)

// Encrypt шифрует закодированный payload AES-256-GCM
type Encrypt struct {
	cipher *crypto.Cipher
}

// NewEncrypt создает стадию шифрования с 32-байтным ключом
func NewEncrypt(key []byte) (*Encrypt, error) {
	c, err := crypto.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &Encrypt{cipher: c}, nil
}

func (e *Encrypt) Name() string { return "aes-gcm" }

func (e *Encrypt) Apply(data []byte) ([]byte, error) {
	return e.cipher.Seal(data)
}

func (e *Encrypt) Reverse(data []byte) ([]byte, error) {
	return e.cipher.Open(data)
}
