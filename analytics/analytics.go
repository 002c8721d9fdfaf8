// Package analytics produces distribution and summary-statistic reports
// over cutoff records. It holds no state; every report is computed from the
// records passed in.
package analytics

import (
	"sort"
	"strconv"

	"github.com/admitkit/cutoffgo/record"
)

// Result is an aggregation report over a set of cutoff records.
type Result struct {
	TotalRecords       uint64  `json:"total_records"`
	AverageOpeningRank float64 `json:"average_opening_rank"`
	AverageClosingRank float64 `json:"average_closing_rank"`
	MedianOpeningRank  float64 `json:"median_opening_rank"`
	MedianClosingRank  float64 `json:"median_closing_rank"`
	MinOpeningRank     uint32  `json:"min_opening_rank"`
	MaxClosingRank     uint32  `json:"max_closing_rank"`

	RankDistribution            map[string]uint64 `json:"rank_distribution"`
	StateDistribution           map[string]uint64 `json:"state_distribution"`
	CourseDistribution          map[string]uint64 `json:"course_distribution"`
	CollegeDistribution         map[string]uint64 `json:"college_distribution"`
	YearDistribution            map[string]uint64 `json:"year_distribution"`
	RoundDistribution           map[string]uint64 `json:"round_distribution"`
	CategoryDistribution        map[string]uint64 `json:"category_distribution"`
	CounsellingBodyDistribution map[string]uint64 `json:"counselling_body_distribution"`
	LevelDistribution           map[string]uint64 `json:"level_distribution"`
	StreamDistribution          map[string]uint64 `json:"stream_distribution"`
}

func emptyResult() Result {
	return Result{
		RankDistribution:            map[string]uint64{},
		StateDistribution:           map[string]uint64{},
		CourseDistribution:          map[string]uint64{},
		CollegeDistribution:         map[string]uint64{},
		YearDistribution:            map[string]uint64{},
		RoundDistribution:           map[string]uint64{},
		CategoryDistribution:        map[string]uint64{},
		CounsellingBodyDistribution: map[string]uint64{},
		LevelDistribution:           map[string]uint64{},
		StreamDistribution:          map[string]uint64{},
	}
}

// Calculate builds the report for records. An empty input yields a zero
// result with empty distributions, not an error.
func Calculate(records []record.CutoffRecord) Result {
	result := emptyResult()
	if len(records) == 0 {
		return result
	}

	total := uint64(len(records))
	result.TotalRecords = total

	openingRanks := make([]uint32, 0, total)
	closingRanks := make([]uint32, 0, total)

	var openingSum, closingSum uint64
	for i := range records {
		r := &records[i]

		openingRanks = append(openingRanks, r.OpeningRank)
		closingRanks = append(closingRanks, r.ClosingRank)
		openingSum += uint64(r.OpeningRank)
		closingSum += uint64(r.ClosingRank)

		result.RankDistribution[rankRange(r.OpeningRank)]++
		result.StateDistribution[r.State]++
		result.CourseDistribution[r.CourseName]++
		result.CollegeDistribution[r.CollegeName]++
		result.YearDistribution[formatUint(r.Year)]++
		result.RoundDistribution[formatUint(r.Round)]++
		result.CategoryDistribution[r.Category]++
		result.CounsellingBodyDistribution[r.CounsellingBody]++
		result.LevelDistribution[r.Level]++
		result.StreamDistribution[r.Stream]++
	}

	sort.Slice(openingRanks, func(i, j int) bool { return openingRanks[i] < openingRanks[j] })
	sort.Slice(closingRanks, func(i, j int) bool { return closingRanks[i] < closingRanks[j] })

	result.AverageOpeningRank = float64(openingSum) / float64(total)
	result.AverageClosingRank = float64(closingSum) / float64(total)
	result.MedianOpeningRank = median(openingRanks)
	result.MedianClosingRank = median(closingRanks)
	result.MinOpeningRank = openingRanks[0]
	result.MaxClosingRank = closingRanks[len(closingRanks)-1]

	return result
}

// median expects sorted input.
func median(sorted []uint32) float64 {
	n := len(sorted)
	if n%2 == 0 {
		return float64(sorted[n/2-1]+sorted[n/2]) / 2
	}
	return float64(sorted[n/2])
}

// rankRange buckets an opening rank into the report's fixed ranges.
func rankRange(rank uint32) string {
	switch {
	case rank <= 100:
		return "1-100"
	case rank <= 500:
		return "101-500"
	case rank <= 1000:
		return "501-1000"
	case rank <= 5000:
		return "1001-5000"
	case rank <= 10000:
		return "5001-10000"
	case rank <= 50000:
		return "10001-50000"
	case rank <= 100000:
		return "50001-100000"
	default:
		return "100000+"
	}
}

func formatUint(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}
