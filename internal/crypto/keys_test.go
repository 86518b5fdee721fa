package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSalt(t *testing.T) {
	a, err := GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, a, SaltSize)

	b, err := GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "две соли не должны совпадать")
}

func TestDerivePayloadKey(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	tests := []struct {
		name       string
		passphrase string
		errMsg     string
		salt       []byte
		wantErr    bool
	}{
		{name: "valid", passphrase: "field-device-passphrase", salt: salt},
		{name: "empty passphrase", passphrase: "", salt: salt, wantErr: true, errMsg: "passphrase cannot be empty"},
		{name: "short salt", passphrase: "field-device-passphrase", salt: make([]byte, 8), wantErr: true, errMsg: "salt must be 32 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := DerivePayloadKey(tt.passphrase, tt.salt)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, key)
				return
			}
			require.NoError(t, err)
			assert.Len(t, key, KeySize)
		})
	}
}

func TestDerivePayloadKey_Deterministic(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	k1, err := DerivePayloadKey("same passphrase", salt)
	require.NoError(t, err)
	k2, err := DerivePayloadKey("same passphrase", salt)
	require.NoError(t, err)
	k3, err := DerivePayloadKey("other passphrase", salt)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}
