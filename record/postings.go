package record

import "github.com/RoaringBitmap/roaring/v2"

// postings holds inverted posting lists for the two exact-match predicates
// (year, round). Positions are indexes into the store's record slice, which
// only ever grows between Clears, so bitmaps never need deletions.
//
// Containment predicates cannot use posting lists and always scan.
type postings struct {
	year  map[uint32]*roaring.Bitmap
	round map[uint32]*roaring.Bitmap
}

func newPostings() *postings {
	return &postings{
		year:  make(map[uint32]*roaring.Bitmap),
		round: make(map[uint32]*roaring.Bitmap),
	}
}

func (p *postings) add(pos uint32, r *CutoffRecord) {
	bm, ok := p.year[r.Year]
	if !ok {
		bm = roaring.New()
		p.year[r.Year] = bm
	}
	bm.Add(pos)

	bm, ok = p.round[r.Round]
	if !ok {
		bm = roaring.New()
		p.round[r.Round] = bm
	}
	bm.Add(pos)
}

// candidates returns the positions that satisfy the exact-match predicates
// of f, or ok=false when f carries none and the caller must scan everything.
// The returned bitmap is a private copy and may be mutated by the caller.
func (p *postings) candidates(f Filter) (*roaring.Bitmap, bool) {
	if f.Year == nil && f.Round == nil {
		return nil, false
	}

	var acc *roaring.Bitmap
	if f.Year != nil {
		bm, ok := p.year[*f.Year]
		if !ok {
			return roaring.New(), true
		}
		acc = bm.Clone()
	}

	if f.Round != nil {
		bm, ok := p.round[*f.Round]
		if !ok {
			return roaring.New(), true
		}
		if acc == nil {
			acc = bm.Clone()
		} else {
			acc.And(bm)
		}
	}

	return acc, true
}

func (p *postings) clear() {
	p.year = make(map[uint32]*roaring.Bitmap)
	p.round = make(map[uint32]*roaring.Bitmap)
}
