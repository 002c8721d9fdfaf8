// Package compress wraps general-purpose block compressors (LZ4, zstd)
// behind a small byte-in/byte-out surface with rolling stats.
//
// Wire format: an 8-byte header (uncompressed size then compressed size,
// both little-endian uint32) followed by the payload. A compressed size of
// 0 marks a block that was stored raw because compression did not pay off.
package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

const blockHeaderSize = 8

// storeRawRatio is the compressed/uncompressed ratio above which a block is
// stored raw instead.
const storeRawRatio = 0.9

// Processor compresses and decompresses byte blocks, tracking counters and
// running averages across calls.
type Processor struct {
	mu       sync.Mutex
	counters counters

	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewProcessor creates a ready-to-use processor.
func NewProcessor() (*Processor, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &Processor{enc: enc, dec: dec}, nil
}

// CompressLZ4 compresses data as a single LZ4 block.
func (p *Processor) CompressLZ4(data []byte) ([]byte, error) {
	return p.compress(data, func(src []byte) ([]byte, error) {
		dst := make([]byte, lz4.CompressBlockBound(len(src)))
		n, err := lz4.CompressBlock(src, dst, nil)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, nil // incompressible
		}
		return dst[:n], nil
	})
}

// DecompressLZ4 reverses CompressLZ4.
func (p *Processor) DecompressLZ4(block []byte) ([]byte, error) {
	return p.decompress(block, func(src, dst []byte) ([]byte, error) {
		n, err := lz4.UncompressBlock(src, dst)
		if err != nil {
			return nil, err
		}
		return dst[:n], nil
	})
}

// CompressZstd compresses data as a single zstd block.
func (p *Processor) CompressZstd(data []byte) ([]byte, error) {
	return p.compress(data, func(src []byte) ([]byte, error) {
		return p.enc.EncodeAll(src, nil), nil
	})
}

// DecompressZstd reverses CompressZstd.
func (p *Processor) DecompressZstd(block []byte) ([]byte, error) {
	return p.decompress(block, func(src, dst []byte) ([]byte, error) {
		return p.dec.DecodeAll(src, dst[:0])
	})
}

func (p *Processor) compress(data []byte, fn func(src []byte) ([]byte, error)) ([]byte, error) {
	start := time.Now()

	compressed, err := fn(data)
	if err != nil {
		return nil, err
	}

	// Store raw when compression fails to pay for itself.
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*storeRawRatio {
		out := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(out[4:], 0)
		copy(out[blockHeaderSize:], data)
		p.recordCompression(len(data), len(out), start)
		return out, nil
	}

	out := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[blockHeaderSize:], compressed)
	p.recordCompression(len(data), len(out), start)
	return out, nil
}

func (p *Processor) decompress(block []byte, fn func(src, dst []byte) ([]byte, error)) ([]byte, error) {
	start := time.Now()

	if len(block) < blockHeaderSize {
		return nil, errors.New("block too small for header")
	}

	uncompressedSize := binary.LittleEndian.Uint32(block[0:])
	compressedSize := binary.LittleEndian.Uint32(block[4:])

	if compressedSize == 0 {
		// Bounds math in uint64 so a huge claimed size cannot wrap past
		// the check and panic the slice below.
		if uint64(len(block)) < uint64(blockHeaderSize)+uint64(uncompressedSize) {
			return nil, errors.New("raw block data too small")
		}
		out := make([]byte, uncompressedSize)
		copy(out, block[blockHeaderSize:blockHeaderSize+uncompressedSize])
		p.recordDecompression(len(out), start)
		return out, nil
	}

	if uint64(len(block)) < uint64(blockHeaderSize)+uint64(compressedSize) {
		return nil, errors.New("compressed block data too small")
	}

	src := block[blockHeaderSize : blockHeaderSize+compressedSize]
	out, err := fn(src, make([]byte, uncompressedSize))
	if err != nil {
		return nil, err
	}
	if uint32(len(out)) != uncompressedSize {
		return nil, errors.New("decompressed size mismatch")
	}

	p.recordDecompression(len(out), start)
	return out, nil
}

// Stats returns a snapshot of the processor's counters.
func (p *Processor) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.counters.snapshot()
}

// ClearStats resets every counter to zero.
func (p *Processor) ClearStats() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.counters = counters{}
}
