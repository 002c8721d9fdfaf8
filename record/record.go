// Package record implements the in-memory store for admission-cutoff
// records: bulk ingest with a per-record transform seam and multi-predicate
// search with rank-based ordering.
package record

import "strings"

// CutoffRecord is one historical admission-cutoff observation.
//
// Identifiers are caller-assigned; the store never enforces uniqueness.
// Nothing checks ClosingRank >= OpeningRank either: out-of-order ranks are
// valid data and are preserved as-is.
type CutoffRecord struct {
	ID              string `json:"id"`
	CollegeID       string `json:"college_id"`
	CollegeName     string `json:"college_name"`
	CourseID        string `json:"course_id"`
	CourseName      string `json:"course_name"`
	Year            uint32 `json:"year"`
	Round           uint32 `json:"round"`
	OpeningRank     uint32 `json:"opening_rank"`
	ClosingRank     uint32 `json:"closing_rank"`
	Category        string `json:"category"`
	State           string `json:"state"`
	CounsellingBody string `json:"counselling_body"`
	Level           string `json:"level"`
	Stream          string `json:"stream"`
}

// Filter is a set of independently optional predicates. Nil fields impose
// no constraint; present predicates combine with logical AND.
//
// MinRank is an inclusive lower bound on the opening rank while MaxRank is
// an inclusive upper bound on the closing rank. The asymmetry is documented
// behavior, not an oversight.
type Filter struct {
	Year            *uint32 `json:"year,omitempty"`
	Round           *uint32 `json:"round,omitempty"`
	State           *string `json:"state,omitempty"`
	Course          *string `json:"course,omitempty"`
	College         *string `json:"college,omitempty"`
	MinRank         *uint32 `json:"min_rank,omitempty"`
	MaxRank         *uint32 `json:"max_rank,omitempty"`
	Category        *string `json:"category,omitempty"`
	CounsellingBody *string `json:"counselling_body,omitempty"`
	Level           *string `json:"level,omitempty"`
	Stream          *string `json:"stream,omitempty"`
}

// Matches reports whether r satisfies every present predicate.
// Substring predicates lowercase both sides before comparison.
func (f Filter) Matches(r *CutoffRecord) bool {
	if f.Year != nil && r.Year != *f.Year {
		return false
	}

	if f.Round != nil && r.Round != *f.Round {
		return false
	}

	if f.State != nil && !containsFold(r.State, *f.State) {
		return false
	}

	if f.Course != nil && !containsFold(r.CourseName, *f.Course) {
		return false
	}

	if f.College != nil && !containsFold(r.CollegeName, *f.College) {
		return false
	}

	if f.MinRank != nil && r.OpeningRank < *f.MinRank {
		return false
	}

	if f.MaxRank != nil && r.ClosingRank > *f.MaxRank {
		return false
	}

	if f.Category != nil && !containsFold(r.Category, *f.Category) {
		return false
	}

	if f.CounsellingBody != nil && !containsFold(r.CounsellingBody, *f.CounsellingBody) {
		return false
	}

	if f.Level != nil && !containsFold(r.Level, *f.Level) {
		return false
	}

	if f.Stream != nil && !containsFold(r.Stream, *f.Stream) {
		return false
	}

	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
