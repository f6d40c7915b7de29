package pagination

import "math"

// Request carries the inputs of a page window computation.
type Request struct {
	Page       int
	PageSize   int
	TotalCount int
	// MaxItems caps how deep a listing may be paged regardless of TotalCount.
	MaxItems int
}

// Window is the derived view of a single page within a listing.
type Window struct {
	Page           int
	PageSize       int
	TotalCount     int
	LastPage       int
	FirstItemIndex int
	LastItemIndex  int
	IsFirstPage    bool
	IsLastPage     bool
	HasPrev        bool
	HasNext        bool
}

// Empty reports whether the window covers no items.
func (w Window) Empty() bool {
	return w.LastItemIndex < w.FirstItemIndex
}

// Offset returns the zero-based offset of the first item for store queries.
func (w Window) Offset() int {
	return w.FirstItemIndex - 1
}

// Limit returns the number of items the window covers.
func (w Window) Limit() int {
	if w.Empty() {
		return 0
	}
	return w.LastItemIndex - w.FirstItemIndex + 1
}

// ComputeWindow derives the inclusive item range and navigation flags for a page.
// A listing with nothing to show yields LastPage 0 with every navigation flag
// disabled. FirstItemIndex never exceeds LastItemIndex+1, so pages past the end
// produce an empty range rather than an inverted one.
func ComputeWindow(req Request) (Window, error) {
	if req.PageSize <= 0 {
		return Window{}, NewConfigurationError("pageSize", req.PageSize, "must be greater than zero")
	}
	if req.Page < 1 {
		return Window{}, NewValidationError("page", req.Page, "must be at least 1")
	}
	if req.TotalCount < 0 {
		return Window{}, NewValidationError("totalCount", req.TotalCount, "must not be negative")
	}
	if req.MaxItems < 0 {
		return Window{}, NewValidationError("maxItems", req.MaxItems, "must not be negative")
	}
	// (page+1)*pageSize must stay representable.
	if req.Page > math.MaxInt/req.PageSize-1 {
		return Window{}, NewValidationError("page", req.Page, "out of range")
	}

	page, size := req.Page, req.PageSize

	first := (page-1)*size + 1
	last := min(page*size, req.TotalCount, req.MaxItems)
	if first > last+1 {
		first = last + 1
	}

	capped := min(req.TotalCount, req.MaxItems)
	lastPage := capped / size
	if capped%size != 0 {
		lastPage++
	}

	return Window{
		Page:           page,
		PageSize:       size,
		TotalCount:     req.TotalCount,
		LastPage:       lastPage,
		FirstItemIndex: first,
		LastItemIndex:  last,
		// An empty listing (lastPage 0) disables every control whatever the page.
		IsFirstPage: page == 1 || lastPage == 0,
		IsLastPage:  page == lastPage || lastPage == 0,
		HasPrev:     page > 1 && lastPage > 0,
		HasNext:     page+1 <= lastPage && (page+1)*size <= req.MaxItems,
	}, nil
}
