package entry

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// ErrShortEntry is returned when a serialized entry ends before all fields are read.
var ErrShortEntry = errors.New("entry truncated")

// Encoder writes the fixed-shape big-endian layout shared by all entries.
type Encoder struct {
	buf []byte
}

// NewEncoder starts an entry of type t, writing its discriminator.
func NewEncoder(t Type, sizeHint int) *Encoder {
	d := t.Discriminator()
	buf := make([]byte, 0, sizeHint)
	return &Encoder{buf: append(buf, d[:]...)}
}

func (e *Encoder) Uint8(v uint8) *Encoder {
	e.buf = append(e.buf, v)
	return e
}

func (e *Encoder) Bool(v bool) *Encoder {
	if v {
		return e.Uint8(1)
	}
	return e.Uint8(0)
}

func (e *Encoder) Uint16(v uint16) *Encoder {
	e.buf = binary.BigEndian.AppendUint16(e.buf, v)
	return e
}

func (e *Encoder) Uint64(v uint64) *Encoder {
	e.buf = binary.BigEndian.AppendUint64(e.buf, v)
	return e
}

func (e *Encoder) Int64(v int64) *Encoder {
	return e.Uint64(uint64(v))
}

func (e *Encoder) Account(a types.AccountID) *Encoder {
	e.buf = append(e.buf, a[:]...)
	return e
}

// Slot32 writes a into a 32-byte identity slot, left-aligned and zero padded.
func (e *Encoder) Slot32(a types.AccountID) *Encoder {
	var slot [32]byte
	copy(slot[:], a[:])
	e.buf = append(e.buf, slot[:]...)
	return e
}

// String writes a u16 length prefix followed by the bytes of s.
func (e *Encoder) String(s string) *Encoder {
	e.Uint16(uint16(len(s)))
	e.buf = append(e.buf, s...)
	return e
}

func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Decoder reads fields written by Encoder. The first error is sticky and
// reported by Finish.
type Decoder struct {
	data []byte
	off  int
	err  error
}

// NewDecoder checks that data is an entry of type t and positions the
// decoder after the discriminator.
func NewDecoder(data []byte, t Type) (*Decoder, error) {
	if err := CheckDiscriminator(data, t); err != nil {
		return nil, err
	}
	return &Decoder{data: data, off: DiscriminatorSize}, nil
}

func (d *Decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if d.off+n > len(d.data) {
		d.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortEntry, n, d.off, len(d.data))
		return nil
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b
}

func (d *Decoder) Uint8() uint8 {
	if b := d.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (d *Decoder) Bool() bool {
	v := d.Uint8()
	if v > 1 && d.err == nil {
		d.err = fmt.Errorf("invalid bool byte %d at offset %d", v, d.off-1)
	}
	return v == 1
}

func (d *Decoder) Uint16() uint16 {
	if b := d.take(2); b != nil {
		return binary.BigEndian.Uint16(b)
	}
	return 0
}

func (d *Decoder) Uint64() uint64 {
	if b := d.take(8); b != nil {
		return binary.BigEndian.Uint64(b)
	}
	return 0
}

func (d *Decoder) Int64() int64 {
	return int64(d.Uint64())
}

func (d *Decoder) Account() types.AccountID {
	return types.AccountIDFromBytes(d.take(types.AccountIDSize))
}

// Slot32 reads a 32-byte identity slot and returns its first 20 bytes.
func (d *Decoder) Slot32() types.AccountID {
	b := d.take(32)
	if b == nil {
		return types.ZeroAccount
	}
	return types.AccountIDFromBytes(b[:types.AccountIDSize])
}

// String reads a u16-prefixed string of at most max bytes.
func (d *Decoder) String(max int) string {
	n := int(d.Uint16())
	if d.err == nil && n > max {
		d.err = fmt.Errorf("string length %d exceeds %d", n, max)
		return ""
	}
	return string(d.take(n))
}

// Fail records err unless an earlier error is already set.
func (d *Decoder) Fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// Finish reports the first decode error or trailing bytes.
func (d *Decoder) Finish() error {
	if d.err != nil {
		return d.err
	}
	if d.off != len(d.data) {
		return fmt.Errorf("%d trailing bytes after entry", len(d.data)-d.off)
	}
	return nil
}
