package crypto

import (
	"crypto/sha256"

	"github.com/LeJamon/goDoomsday/internal/core/types"
	"github.com/decred/dcrd/crypto/ripemd160"
)

// CalcAccountID computes the account ID of a public key as
// RIPEMD160(SHA256(publicKey)).
func CalcAccountID(publicKey []byte) types.AccountID {
	sha256Hash := sha256.Sum256(publicKey)

	ripemd160Hasher := ripemd160.New()
	ripemd160Hasher.Write(sha256Hash[:])

	var result types.AccountID
	copy(result[:], ripemd160Hasher.Sum(nil))
	return result
}
