package vector

// Stats is a snapshot of the index's rolling performance counters.
//
// Averages are per-operation means in milliseconds over all samples since
// the last Clear.
type Stats struct {
	TotalSearches            uint64  `json:"total_searches"`
	TotalEmbeddingsGenerated uint64  `json:"total_embeddings_generated"`
	AverageSearchTime        float64 `json:"average_search_time"`
	AverageEmbeddingTime     float64 `json:"average_embedding_time"`
	TotalVectorsIndexed      uint64  `json:"total_vectors_indexed"`
}

type counters struct {
	searches       uint64
	embeddings     uint64
	vectorsIndexed uint64

	searchTotalNanos    int64
	embeddingTotalNanos int64
}

func (c *counters) averageSearchMillis() float64 {
	if c.searches == 0 {
		return 0
	}
	return float64(c.searchTotalNanos) / float64(c.searches) / 1e6
}

func (c *counters) averageEmbeddingMillis() float64 {
	if c.embeddings == 0 {
		return 0
	}
	return float64(c.embeddingTotalNanos) / float64(c.embeddings) / 1e6
}

func (c *counters) reset() {
	*c = counters{}
}
