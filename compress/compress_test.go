package compress

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compressibleData() []byte {
	return bytes.Repeat([]byte("admission cutoff record "), 256)
}

func TestProcessorLZ4(t *testing.T) {
	p, err := NewProcessor()
	require.NoError(t, err)

	t.Run("Roundtrip", func(t *testing.T) {
		data := compressibleData()

		block, err := p.CompressLZ4(data)
		require.NoError(t, err)
		assert.Less(t, len(block), len(data))

		out, err := p.DecompressLZ4(block)
		require.NoError(t, err)
		assert.Equal(t, data, out)
	})

	t.Run("IncompressibleStoredRaw", func(t *testing.T) {
		// A short high-entropy payload does not compress; the block must
		// carry it raw with a zero compressed-size marker.
		data := []byte{0x01, 0xfe, 0x42, 0x99, 0x07, 0xa3, 0x5c, 0x11, 0xd8, 0x64}

		block, err := p.CompressLZ4(data)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(block), blockHeaderSize+len(data))
		assert.Equal(t, uint32(len(data)), binary.LittleEndian.Uint32(block[0:]))
		assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(block[4:]))

		out, err := p.DecompressLZ4(block)
		require.NoError(t, err)
		assert.Equal(t, data, out)
	})

	t.Run("EmptyInput", func(t *testing.T) {
		block, err := p.CompressLZ4(nil)
		require.NoError(t, err)

		out, err := p.DecompressLZ4(block)
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestProcessorZstd(t *testing.T) {
	p, err := NewProcessor()
	require.NoError(t, err)

	t.Run("Roundtrip", func(t *testing.T) {
		data := compressibleData()

		block, err := p.CompressZstd(data)
		require.NoError(t, err)
		assert.Less(t, len(block), len(data))

		out, err := p.DecompressZstd(block)
		require.NoError(t, err)
		assert.Equal(t, data, out)
	})

	t.Run("EmptyInput", func(t *testing.T) {
		block, err := p.CompressZstd(nil)
		require.NoError(t, err)

		out, err := p.DecompressZstd(block)
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestDecompressRejectsMalformedBlocks(t *testing.T) {
	p, err := NewProcessor()
	require.NoError(t, err)

	t.Run("TooShortForHeader", func(t *testing.T) {
		_, err := p.DecompressLZ4([]byte{1, 2, 3})
		require.Error(t, err)
	})

	t.Run("RawBlockTruncated", func(t *testing.T) {
		block := make([]byte, blockHeaderSize+2)
		binary.LittleEndian.PutUint32(block[0:], 100) // claims 100 raw bytes
		binary.LittleEndian.PutUint32(block[4:], 0)

		_, err := p.DecompressLZ4(block)
		require.Error(t, err)
	})

	t.Run("CompressedBlockTruncated", func(t *testing.T) {
		block := make([]byte, blockHeaderSize+2)
		binary.LittleEndian.PutUint32(block[0:], 100)
		binary.LittleEndian.PutUint32(block[4:], 50) // claims 50 payload bytes

		_, err := p.DecompressZstd(block)
		require.Error(t, err)
	})

	t.Run("CompressedSizeNearUint32Max", func(t *testing.T) {
		// A claimed size this large would wrap 32-bit bounds math; the
		// check must reject the block instead of slicing past the end.
		block := make([]byte, 16)
		binary.LittleEndian.PutUint32(block[0:], 1)
		binary.LittleEndian.PutUint32(block[4:], 0xFFFFFFF9)

		_, err := p.DecompressLZ4(block)
		require.Error(t, err)
		_, err = p.DecompressZstd(block)
		require.Error(t, err)
	})

	t.Run("RawSizeNearUint32Max", func(t *testing.T) {
		block := make([]byte, 16)
		binary.LittleEndian.PutUint32(block[0:], 0xFFFFFFF9)
		binary.LittleEndian.PutUint32(block[4:], 0)

		_, err := p.DecompressLZ4(block)
		require.Error(t, err)
	})

	t.Run("CorruptPayload", func(t *testing.T) {
		block, err := p.CompressZstd(compressibleData())
		require.NoError(t, err)
		for i := blockHeaderSize; i < len(block); i++ {
			block[i] ^= 0xff
		}

		_, err = p.DecompressZstd(block)
		require.Error(t, err)
	})
}

func TestProcessorStats(t *testing.T) {
	p, err := NewProcessor()
	require.NoError(t, err)

	data := compressibleData()

	block, err := p.CompressLZ4(data)
	require.NoError(t, err)
	_, err = p.DecompressLZ4(block)
	require.NoError(t, err)
	_, err = p.CompressZstd(data)
	require.NoError(t, err)

	stats := p.Stats()
	assert.Equal(t, uint64(2), stats.TotalCompressions)
	assert.Equal(t, uint64(1), stats.TotalDecompressions)
	assert.Equal(t, uint64(2*len(data)), stats.TotalBytesCompressed)
	assert.Equal(t, uint64(len(data)), stats.TotalBytesDecompressed)
	assert.Greater(t, stats.AverageCompressionRatio, 0.0)
	assert.GreaterOrEqual(t, stats.AverageCompressionTime, 0.0)
	assert.GreaterOrEqual(t, stats.AverageDecompressionTime, 0.0)

	p.ClearStats()
	assert.Equal(t, Stats{}, p.Stats())
}
