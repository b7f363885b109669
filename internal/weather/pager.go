package weather

import "math"

// Pager does the pagination arithmetic for the history view.
// Total is nil until the count request has answered.
type Pager struct {
	Skip  int
	Limit int
	Total *int
}

// Page is the 1-based page number.
func (p Pager) Page() int {
	if p.Limit <= 0 {
		return 1
	}
	return p.Skip/p.Limit + 1
}

func (p Pager) HasPrev() bool { return p.Skip > 0 }

func (p Pager) PrevSkip() int {
	return max(0, p.Skip-p.Limit)
}

// HasNext stays true while the total is unknown, unless another page
// would run past the largest representable skip.
func (p Pager) HasNext() bool {
	if p.atEnd() {
		return false
	}
	if p.Total == nil {
		return true
	}
	return p.Skip < *p.Total-p.Limit
}

// NextSkip saturates instead of wrapping around.
func (p Pager) NextSkip() int {
	if p.atEnd() {
		return p.Skip
	}
	return p.Skip + p.Limit
}

func (p Pager) atEnd() bool {
	return p.Limit > 0 && p.Skip > math.MaxInt-p.Limit
}
