package pagination

import (
	"net/url"
	"strconv"
)

// NavLink is one of the first/prev/next/last navigation controls.
type NavLink struct {
	Page     int
	Href     string
	Disabled bool
}

// NavLinks groups the four navigation controls rendered around a listing.
type NavLinks struct {
	First NavLink
	Prev  NavLink
	Next  NavLink
	Last  NavLink
}

// Links builds navigation hrefs for w, preserving every other query parameter of base.
func Links(base url.URL, w Window) NavLinks {
	lastPage := w.LastPage
	if lastPage < 1 {
		lastPage = 1
	}
	// Past the end, prev jumps back to the last page with content.
	prev := max(min(w.Page-1, lastPage), 1)
	return NavLinks{
		First: link(base, 1, w.IsFirstPage),
		Prev:  link(base, prev, !w.HasPrev),
		Next:  link(base, w.Page+1, !w.HasNext),
		Last:  link(base, lastPage, w.IsLastPage),
	}
}

func link(base url.URL, page int, disabled bool) NavLink {
	query := base.Query()
	if page <= 1 {
		query.Del(PageParam)
	} else {
		query.Set(PageParam, strconv.Itoa(page))
	}
	base.RawQuery = query.Encode()
	base.Fragment = ""
	return NavLink{Page: page, Href: base.String(), Disabled: disabled}
}
