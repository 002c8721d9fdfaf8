package compress

import "time"

// Stats is a snapshot of the processor's rolling counters.
//
// AverageCompressionRatio is the mean space saving in percent
// ((in-out)/in * 100) over all compressions; a raw-stored block counts as a
// (slightly negative) saving like any other. Times are per-operation means
// in milliseconds.
type Stats struct {
	TotalCompressions        uint64  `json:"total_compressions"`
	TotalDecompressions      uint64  `json:"total_decompressions"`
	TotalBytesCompressed     uint64  `json:"total_bytes_compressed"`
	TotalBytesDecompressed   uint64  `json:"total_bytes_decompressed"`
	AverageCompressionRatio  float64 `json:"average_compression_ratio"`
	AverageCompressionTime   float64 `json:"average_compression_time"`
	AverageDecompressionTime float64 `json:"average_decompression_time"`
}

type counters struct {
	compressions      uint64
	decompressions    uint64
	bytesCompressed   uint64
	bytesDecompressed uint64

	ratioSum                float64
	compressionTotalNanos   int64
	decompressionTotalNanos int64
}

func (p *Processor) recordCompression(inLen, outLen int, start time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.counters.compressions++
	p.counters.bytesCompressed += uint64(inLen)
	p.counters.compressionTotalNanos += time.Since(start).Nanoseconds()
	if inLen > 0 {
		p.counters.ratioSum += float64(inLen-outLen) / float64(inLen) * 100
	}
}

func (p *Processor) recordDecompression(outLen int, start time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.counters.decompressions++
	p.counters.bytesDecompressed += uint64(outLen)
	p.counters.decompressionTotalNanos += time.Since(start).Nanoseconds()
}

func (c *counters) snapshot() Stats {
	s := Stats{
		TotalCompressions:      c.compressions,
		TotalDecompressions:    c.decompressions,
		TotalBytesCompressed:   c.bytesCompressed,
		TotalBytesDecompressed: c.bytesDecompressed,
	}
	if c.compressions > 0 {
		s.AverageCompressionRatio = c.ratioSum / float64(c.compressions)
		s.AverageCompressionTime = float64(c.compressionTotalNanos) / float64(c.compressions) / 1e6
	}
	if c.decompressions > 0 {
		s.AverageDecompressionTime = float64(c.decompressionTotalNanos) / float64(c.decompressions) / 1e6
	}
	return s
}
