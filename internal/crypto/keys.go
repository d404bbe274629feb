// Package crypto provides secp256k1 keys, account id derivation and
// operation signatures.
package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/LeJamon/goDoomsday/internal/core/types"
	common "github.com/LeJamon/goDoomsday/internal/crypto/common"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// Key sizes
const (
	SeedSize      = 16
	SecretKeySize = 32
	PublicKeySize = 33
)

var (
	ErrInvalidSeed       = errors.New("invalid seed")
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidPublicKey  = errors.New("invalid public key")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrNonCanonical      = errors.New("signature is not fully canonical")
)

// KeyPair is a secp256k1 signing key.
type KeyPair struct {
	priv *btcec.PrivateKey
	pub  *btcec.PublicKey
}

// GenerateKeyPair derives a key pair from a fresh random seed.
func GenerateKeyPair() (*KeyPair, []byte, error) {
	seed, err := RandomBytes(SeedSize)
	if err != nil {
		return nil, nil, err
	}
	kp, err := KeyPairFromSeed(seed)
	if err != nil {
		SecureErase(seed)
		return nil, nil, err
	}
	return kp, seed, nil
}

// KeyPairFromSeed derives the secret scalar as Sha512Half(seed).
func KeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	secret := common.Sha512Half(seed)
	defer SecureErase(secret[:])
	return keyPairFromSecret(secret[:])
}

// ParsePrivateKey parses a hex secret key, with or without the 00 prefix.
func ParsePrivateKey(s string) (*KeyPair, error) {
	s = strings.TrimSpace(s)
	if len(s) == 2*(SecretKeySize+1) && strings.HasPrefix(s, "00") {
		s = s[2:]
	}
	if len(s) != 2*SecretKeySize {
		return nil, ErrInvalidPrivateKey
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	defer SecureErase(b)
	return keyPairFromSecret(b)
}

func keyPairFromSecret(secret []byte) (*KeyPair, error) {
	priv, pub := btcec.PrivKeyFromBytes(secret)
	if priv.Key.IsZero() {
		return nil, ErrInvalidPrivateKey
	}
	return &KeyPair{priv: priv, pub: pub}, nil
}

// PublicKey returns the 33-byte compressed public key.
func (k *KeyPair) PublicKey() []byte {
	return k.pub.SerializeCompressed()
}

// AccountID returns the account ID of the public key.
func (k *KeyPair) AccountID() types.AccountID {
	return CalcAccountID(k.PublicKey())
}

// PrivateKeyHex returns the upper-case hex secret with the 00 prefix.
func (k *KeyPair) PrivateKeyHex() string {
	return "00" + strings.ToUpper(hex.EncodeToString(k.priv.Serialize()))
}

// Sign returns a DER signature over a 32-byte digest. The signature is
// deterministic (RFC 6979) and fully canonical.
func (k *KeyPair) Sign(digest [32]byte) []byte {
	return ecdsa.Sign(k.priv, digest[:]).Serialize()
}

// Zero clears the secret scalar.
func (k *KeyPair) Zero() {
	k.priv.Zero()
}

// Verify checks a DER signature over digest against a compressed public key.
// High-S signatures are rejected.
func Verify(publicKey []byte, digest [32]byte, sig []byte) error {
	if len(publicKey) != PublicKeySize || (publicKey[0] != 0x02 && publicKey[0] != 0x03) {
		return ErrInvalidPublicKey
	}
	pub, err := btcec.ParsePubKey(publicKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	switch ECDSACanonicality(sig) {
	case CanonicityNone:
		return ErrInvalidSignature
	case CanonicityCanonical:
		return ErrNonCanonical
	}
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if !parsed.Verify(digest[:], pub) {
		return ErrInvalidSignature
	}
	return nil
}
