package views

import (
	"github.com/ilibrarian/librarian/internal/format"
	"github.com/ilibrarian/librarian/internal/library"
	"github.com/ilibrarian/librarian/internal/platform/pagination"
)

// ItemsView renders a paged item listing.
type ItemsView struct {
	Layout       Layout
	Heading      string
	RangeLabel   string
	PageLabel    string
	Empty        bool
	EmptyMessage string
	Rows         []ItemRow
	Pager        Pager
	SortLabel    string
	Sorts        []SortOption
	Filters      []string
	ClearHref    string
	Window       pagination.Window
}

// Pager holds the first/prev/next/last controls.
type Pager struct {
	First PagerLink
	Prev  PagerLink
	Next  PagerLink
	Last  PagerLink
}

// PagerLink is a navigation control; disabled links render without an href.
type PagerLink struct {
	Label    string
	Href     string
	Disabled bool
}

// SortOption is one selectable listing order.
type SortOption struct {
	Key    string
	Label  string
	Href   string
	Active bool
}

// ItemsInput is the data a listing page is built from.
type ItemsInput struct {
	Params pagination.Params
	Window pagination.Window
	Items  []library.Item
	// AuthorLabel names the author filter, when one is active.
	AuthorLabel string
}

// BuildItemsView assembles the listing page for one window.
func BuildItemsView(env Env, in ItemsInput) ItemsView {
	w := in.Window
	heading := env.t("items.title")
	view := ItemsView{
		Layout:     NewLayout(env, heading),
		Heading:    heading,
		RangeLabel: env.tf("items.range", format.Range(env.Lang, w.FirstItemIndex, w.LastItemIndex, w.TotalCount)),
		Empty:      w.Empty() || len(in.Items) == 0,
		Rows:       buildRows(env, in.Items),
		Pager:      buildPager(env, w),
		SortLabel:  env.t("items.sort"),
		Sorts:      buildSorts(env, in.Params.Sort),
		Window:     w,
	}
	if w.LastPage > 0 {
		view.PageLabel = env.tf("pager.page", format.Integer(env.Lang, w.Page), format.Integer(env.Lang, w.LastPage))
	}
	if view.Empty {
		view.EmptyMessage = env.t("items.empty")
	}

	if in.Params.Tag != "" {
		view.Filters = append(view.Filters, env.tf("filter.tag", in.Params.Tag))
	}
	if in.Params.Author != "" {
		label := in.AuthorLabel
		if label == "" {
			label = in.Params.Author
		}
		view.Filters = append(view.Filters, env.tf("filter.author", label))
	}
	if len(view.Filters) > 0 {
		view.ClearHref = withQuery(env.URL, "tag", "", "author", pagination.PageParam)
	}
	return view
}

func buildPager(env Env, w pagination.Window) Pager {
	links := pagination.Links(env.URL, w)
	return Pager{
		First: pagerLink(env.t("pager.first"), links.First),
		Prev:  pagerLink(env.t("pager.prev"), links.Prev),
		Next:  pagerLink(env.t("pager.next"), links.Next),
		Last:  pagerLink(env.t("pager.last"), links.Last),
	}
}

func pagerLink(label string, l pagination.NavLink) PagerLink {
	if l.Disabled {
		return PagerLink{Label: label, Disabled: true}
	}
	return PagerLink{Label: label, Href: l.Href}
}

func buildSorts(env Env, active string) []SortOption {
	keys := library.Sorts()
	if active == "" {
		active = keys[0]
	}
	out := make([]SortOption, 0, len(keys))
	for i, key := range keys {
		value := key
		// The default order keeps the URL clean.
		if i == 0 {
			value = ""
		}
		out = append(out, SortOption{
			Key:    key,
			Label:  env.t("sort." + key),
			Href:   withQuery(env.URL, "sort", value, pagination.PageParam),
			Active: key == active,
		})
	}
	return out
}
