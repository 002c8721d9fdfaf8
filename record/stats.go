package record

// Stats is a snapshot of the store's rolling performance counters.
//
// Averages are per-operation means in milliseconds over all samples since
// the last Clear.
type Stats struct {
	TotalRecordsProcessed  uint64  `json:"total_records_processed"`
	TotalSearchesPerformed uint64  `json:"total_searches_performed"`
	AverageProcessingTime  float64 `json:"average_processing_time"`
	AverageSearchTime      float64 `json:"average_search_time"`
	TotalRecordsIndexed    uint64  `json:"total_records_indexed"`
}

// counters accumulates latency samples as totals; the mean over a running
// total is identical to the mean over a sample list without the unbounded
// growth.
type counters struct {
	recordsProcessed uint64
	searches         uint64

	ingestCalls      uint64
	ingestTotalNanos int64
	searchTotalNanos int64
}

func (c *counters) averageIngestMillis() float64 {
	if c.ingestCalls == 0 {
		return 0
	}
	return float64(c.ingestTotalNanos) / float64(c.ingestCalls) / 1e6
}

func (c *counters) averageSearchMillis() float64 {
	if c.searches == 0 {
		return 0
	}
	return float64(c.searchTotalNanos) / float64(c.searches) / 1e6
}

func (c *counters) reset() {
	*c = counters{}
}
