package codec

import (
	"crypto/rand"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func samplePayload() map[string]any {
	return map[string]any{
		"title":    "Replace pump seal",
		"assignee": "tech-7",
		"version":  3,
		"notes":    strings.Repeat("checked inlet pressure; ", 20),
	}
}

func TestNew_Variants(t *testing.T) {
	key := testKey(t)

	tests := []struct {
		name string
		opts Options
	}{
		{name: "plain json", opts: Options{}},
		{name: "compressed", opts: Options{Compression: true}},
		{name: "encrypted", opts: Options{Encryption: true, EncryptionKey: key}},
		{name: "compressed and encrypted", opts: Options{Compression: true, Encryption: true, EncryptionKey: key}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.opts)
			require.NoError(t, err)

			encoded, err := c.Encode(samplePayload())
			require.NoError(t, err)

			decoded, err := c.Decode(encoded)
			require.NoError(t, err)

			assert.Equal(t, "Replace pump seal", decoded["title"])
			assert.Equal(t, json.Number("3"), decoded["version"])
			assert.Len(t, decoded, 4)
		})
	}
}

func TestNew_EncryptionWithoutKey(t *testing.T) {
	_, err := New(Options{Encryption: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no key provided")
}

func TestNew_EncryptionBadKey(t *testing.T) {
	_, err := New(Options{Encryption: true, EncryptionKey: []byte("short")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encryption key must be 32 bytes")
}

func TestGzip_ShrinksRepetitivePayload(t *testing.T) {
	plain, err := JSON{}.Encode(samplePayload())
	require.NoError(t, err)

	compressed, err := NewGzip(0).Apply(plain)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(plain))
}

func TestEncrypt_HidesPlaintext(t *testing.T) {
	c, err := New(Options{Encryption: true, EncryptionKey: testKey(t)})
	require.NoError(t, err)

	encoded, err := c.Encode(map[string]any{"secret": "gate code 4411"})
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), "gate code")
}

func TestDecode_WrongKeyFails(t *testing.T) {
	writer, err := New(Options{Encryption: true, EncryptionKey: testKey(t)})
	require.NoError(t, err)
	reader, err := New(Options{Encryption: true, EncryptionKey: testKey(t)})
	require.NoError(t, err)

	encoded, err := writer.Encode(samplePayload())
	require.NoError(t, err)

	_, err = reader.Decode(encoded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aes-gcm")
}

func TestJSON_DecodeErrors(t *testing.T) {
	_, err := JSON{}.Decode([]byte("{not json"))
	require.Error(t, err)

	payload, err := JSON{}.Decode([]byte("null"))
	require.NoError(t, err)
	assert.Empty(t, payload)
}

func TestEncodeDecodeString(t *testing.T) {
	c, err := New(Options{Compression: true})
	require.NoError(t, err)

	s, err := EncodeString(c, map[string]any{"a": "b"})
	require.NoError(t, err)

	payload, err := DecodeString(c, s)
	require.NoError(t, err)
	assert.Equal(t, "b", payload["a"])

	_, err = DecodeString(c, "%%% not base64")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64")
}
