package compression

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4"
)

// ErrCorrupt is returned when a compressed frame cannot be decoded.
var ErrCorrupt = errors.New("corrupt compressed frame")

// Frame modes written as the first byte of an LZ4Compressor frame.
const (
	modeRaw   byte = 0
	modeBlock byte = 1
)

// NoCompressor implements a pass-through compressor that doesn't compress data.
type NoCompressor struct{}

func (c *NoCompressor) Name() string {
	return "none"
}

// Compress returns a copy of data.
func (c *NoCompressor) Compress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

// Decompress returns a copy of data.
func (c *NoCompressor) Decompress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

// LZ4Compressor implements LZ4 block compression.
//
// Frame: mode(1) | uvarint(original length) | payload. Incompressible input
// is stored raw so that Compress never fails on small records.
type LZ4Compressor struct{}

func (c *LZ4Compressor) Name() string {
	return "lz4"
}

func (c *LZ4Compressor) Compress(data []byte) ([]byte, error) {
	header := make([]byte, 1+binary.MaxVarintLen64)
	n := 1 + binary.PutUvarint(header[1:], uint64(len(data)))

	compressed := make([]byte, lz4.CompressBlockBound(len(data)))
	size, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}

	// A zero size means the block did not shrink.
	if size == 0 || size >= len(data) {
		header[0] = modeRaw
		return append(header[:n], data...), nil
	}

	header[0] = modeBlock
	return append(header[:n], compressed[:size]...), nil
}

func (c *LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorrupt, len(data))
	}
	original, n := binary.Uvarint(data[1:])
	if n <= 0 {
		return nil, fmt.Errorf("%w: bad length header", ErrCorrupt)
	}
	payload := data[1+n:]

	switch data[0] {
	case modeRaw:
		if uint64(len(payload)) != original {
			return nil, fmt.Errorf("%w: raw length %d, want %d", ErrCorrupt, len(payload), original)
		}
		return append([]byte(nil), payload...), nil
	case modeBlock:
		out := make([]byte, original)
		size, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		if uint64(size) != original {
			return nil, fmt.Errorf("%w: decoded %d bytes, want %d", ErrCorrupt, size, original)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown mode %d", ErrCorrupt, data[0])
	}
}
