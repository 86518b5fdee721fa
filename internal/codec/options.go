package codec

import "fmt"

// Options выбирает стадии кодека (enableCompression / enableEncryption)
type Options struct {
	EncryptionKey []byte
	Compression   bool
	Encryption    bool
}

// New собирает кодек: JSON, затем gzip, затем шифрование.
// Сжатие идет до шифрования, зашифрованные данные не сжимаются.
func New(opts Options) (Codec, error) {
	var transforms []Transform

	if opts.Compression {
		transforms = append(transforms, NewGzip(0))
	}

	if opts.Encryption {
		if len(opts.EncryptionKey) == 0 {
			return nil, fmt.Errorf("encryption enabled but no key provided")
		}
		enc, err := NewEncrypt(opts.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create encryption stage: %w", err)
		}
		transforms = append(transforms, enc)
	}

	return NewChain(JSON{}, transforms...), nil
}
