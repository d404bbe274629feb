package tx

import (
	"encoding/binary"
	"fmt"

	"github.com/ugorji/go/codec"
)

// msgpackHandle encodes operations by their json field names. Canonical
// mode sorts map keys so that the digest of an operation is stable.
var msgpackHandle = func() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.Canonical = true
	h.WriteExt = true
	return h
}()

// EncodeOperation serializes op's fields as msgpack.
func EncodeOperation(op Operation) ([]byte, error) {
	var buf []byte
	if err := codec.NewEncoderBytes(&buf, msgpackHandle).Encode(op); err != nil {
		return nil, fmt.Errorf("encode %s: %w", op.OpType(), err)
	}
	return buf, nil
}

// DecodeOperation rebuilds an operation of type t from an EncodeOperation payload.
func DecodeOperation(t Type, payload []byte) (Operation, error) {
	op, err := NewFromType(t)
	if err != nil {
		return nil, err
	}
	if err := codec.NewDecoderBytes(payload, msgpackHandle).Decode(op); err != nil {
		return nil, fmt.Errorf("decode %s: %w", t, err)
	}
	return op, nil
}

// signingPrefix domain-separates operation digests.
var signingPrefix = []byte{'O', 'P', 'S', 0}

// SigningData returns the bytes an operation signature covers:
// "OPS\0" || type (u16 big-endian) || msgpack(op).
func SigningData(op Operation) ([]byte, error) {
	payload, err := EncodeOperation(op)
	if err != nil {
		return nil, err
	}
	data := make([]byte, 0, len(signingPrefix)+2+len(payload))
	data = append(data, signingPrefix...)
	data = binary.BigEndian.AppendUint16(data, uint16(op.OpType()))
	return append(data, payload...), nil
}
