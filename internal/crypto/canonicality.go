package crypto

import (
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Canonicality represents the canonicality status of an ECDSA signature.
type Canonicality int

const (
	// CanonicityNone indicates the signature is malformed or out of range.
	CanonicityNone Canonicality = iota
	// CanonicityCanonical indicates a well-formed signature with a high S.
	// Both (R, S) and (R, N-S) verify for the same message.
	CanonicityCanonical
	// CanonicityFullyCanonical indicates S <= N/2.
	CanonicityFullyCanonical
)

var (
	curveOrder     = secp256k1.S256().Params().N
	curveHalfOrder = new(big.Int).Rsh(curveOrder, 1)
)

// ECDSACanonicality checks a DER-encoded ECDSA signature.
//
// A signature is canonical if the DER encoding is strict and both R and S
// lie in [1, N-1]. It is fully canonical if additionally S <= N/2.
func ECDSACanonicality(sig []byte) Canonicality {
	// 0x30 <total-len> 0x02 <r-len> <r> 0x02 <s-len> <s>
	if len(sig) < 8 || len(sig) > 72 {
		return CanonicityNone
	}
	if sig[0] != 0x30 || int(sig[1]) != len(sig)-2 {
		return CanonicityNone
	}

	rSlice, remaining, ok := parseDERInteger(sig[2:])
	if !ok {
		return CanonicityNone
	}
	sSlice, remaining, ok := parseDERInteger(remaining)
	if !ok || len(remaining) != 0 {
		return CanonicityNone
	}

	r := new(big.Int).SetBytes(rSlice)
	s := new(big.Int).SetBytes(sSlice)
	if r.Sign() <= 0 || r.Cmp(curveOrder) >= 0 {
		return CanonicityNone
	}
	if s.Sign() <= 0 || s.Cmp(curveOrder) >= 0 {
		return CanonicityNone
	}
	if s.Cmp(curveHalfOrder) <= 0 {
		return CanonicityFullyCanonical
	}
	return CanonicityCanonical
}

// parseDERInteger parses 0x02 <length> <integer-bytes> and returns the
// integer bytes and the remaining data.
func parseDERInteger(data []byte) ([]byte, []byte, bool) {
	if len(data) < 2 || data[0] != 0x02 {
		return nil, nil, false
	}
	length := int(data[1])
	if length < 1 || length > 33 || len(data) < 2+length {
		return nil, nil, false
	}
	intBytes := data[2 : 2+length]

	// negative
	if intBytes[0]&0x80 != 0 {
		return nil, nil, false
	}
	// non-minimal
	if intBytes[0] == 0 && (length == 1 || intBytes[1]&0x80 == 0) {
		return nil, nil, false
	}
	return intBytes, data[2+length:], true
}
