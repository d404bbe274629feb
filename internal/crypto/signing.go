package crypto

import (
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/types"
	common "github.com/LeJamon/goDoomsday/internal/crypto/common"
)

// OperationDigest returns Sha512Half of the operation signing data.
func OperationDigest(op tx.Operation) ([32]byte, error) {
	data, err := tx.SigningData(op)
	if err != nil {
		return [32]byte{}, err
	}
	return common.Sha512Half(data), nil
}

// SignOperation signs op and returns the public key and signature to pass
// to Engine.Submit.
func SignOperation(k *KeyPair, op tx.Operation) (pubKey, sig []byte, err error) {
	digest, err := OperationDigest(op)
	if err != nil {
		return nil, nil, err
	}
	return k.PublicKey(), k.Sign(digest), nil
}

// Verifier authenticates operation signatures for the engine.
type Verifier struct{}

// Verify checks sig over op and returns the signer's account ID.
func (Verifier) Verify(op tx.Operation, pubKey, sig []byte) (types.AccountID, error) {
	digest, err := OperationDigest(op)
	if err != nil {
		return types.AccountID{}, err
	}
	if err := Verify(pubKey, digest, sig); err != nil {
		return types.AccountID{}, err
	}
	return CalcAccountID(pubKey), nil
}

var _ tx.Verifier = Verifier{}
