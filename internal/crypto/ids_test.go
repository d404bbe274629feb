package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcAccountID(t *testing.T) {
	tests := []struct {
		name      string
		publicKey string
		accountID string
	}{
		{
			name:      "Secp256k1 public key",
			publicKey: "0330E7FC9D56BB25D6893BA3F317AE5BCF33B3291BD63DB32654A313222F7FD020",
			accountID: "b5f762798a53d543a014caf8b297cff8f2f937e8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pubKey, err := hex.DecodeString(tt.publicKey)
			require.NoError(t, err)

			accountID := CalcAccountID(pubKey)

			expectedID, err := hex.DecodeString(tt.accountID)
			require.NoError(t, err)
			assert.Equal(t, expectedID, accountID[:])
		})
	}
}

func TestCalcAccountID_Deterministic(t *testing.T) {
	publicKey, _ := hex.DecodeString("0330E7FC9D56BB25D6893BA3F317AE5BCF33B3291BD63DB32654A313222F7FD020")
	assert.Equal(t, CalcAccountID(publicKey), CalcAccountID(publicKey))
}

func TestKeyPairAccountIDMatchesPublicKey(t *testing.T) {
	kp, _, err := GenerateKeyPair()
	require.NoError(t, err)
	defer kp.Zero()
	assert.Equal(t, CalcAccountID(kp.PublicKey()), kp.AccountID())
}

func TestRandomBytes(t *testing.T) {
	b, err := RandomBytes(32)
	require.NoError(t, err)
	assert.Len(t, b, 32)

	b, err = RandomBytes(0)
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestSecureErase(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	SecureErase(b)
	assert.Equal(t, []byte{0, 0, 0, 0}, b)
	SecureErase(nil)
}
