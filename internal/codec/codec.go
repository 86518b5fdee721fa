// Package codec кодирует payload мутаций для хранения в очереди.
// Базовый слой сериализует payload в JSON, поверх него можно включить сжатие и шифрование.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Codec превращает payload в байты и обратно
type Codec interface {
	Encode(payload map[string]any) ([]byte, error)
	Decode(data []byte) (map[string]any, error)
}

// Transform is a reversible byte-level stage layered on top of JSON.
type Transform interface {
	Name() string
	Apply(data []byte) ([]byte, error)
	Reverse(data []byte) ([]byte, error)
}

// JSON базовый кодек без преобразований.
// Числа декодируются как json.Number, чтобы версии и идентификаторы не теряли точность.
type JSON struct{}

// Encode сериализует payload в JSON
func (JSON) Encode(payload map[string]any) ([]byte, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return data, nil
}

// Decode разбирает JSON объект
func (JSON) Decode(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return payload, nil
}

// Chain applies transforms in order on Encode and in reverse order on Decode.
type Chain struct {
	base       Codec
	transforms []Transform
}

// NewChain создает кодек из базового кодека и набора преобразований
func NewChain(base Codec, transforms ...Transform) *Chain {
	return &Chain{base: base, transforms: transforms}
}

// Encode кодирует payload и последовательно применяет преобразования
func (c *Chain) Encode(payload map[string]any) ([]byte, error) {
	data, err := c.base.Encode(payload)
	if err != nil {
		return nil, err
	}
	for _, t := range c.transforms {
		data, err = t.Apply(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name(), err)
		}
	}
	return data, nil
}

// Decode снимает преобразования в обратном порядке и декодирует payload
func (c *Chain) Decode(data []byte) (map[string]any, error) {
	var err error
	for i := len(c.transforms) - 1; i >= 0; i-- {
		t := c.transforms[i]
		data, err = t.Reverse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name(), err)
		}
	}
	return c.base.Decode(data)
}

// EncodeString кодирует payload в строку для поля data записи очереди
func EncodeString(c Codec, payload map[string]any) (string, error) {
	data, err := c.Encode(payload)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeString is the inverse of EncodeString.
func DecodeString(c Codec, s string) (map[string]any, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 payload: %w", err)
	}
	return c.Decode(data)
}
