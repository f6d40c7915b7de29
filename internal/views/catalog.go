package views

import (
	"strconv"

	"github.com/ilibrarian/librarian/internal/catalog"
	"github.com/ilibrarian/librarian/internal/format"
	"github.com/ilibrarian/librarian/internal/library"
	"github.com/ilibrarian/librarian/internal/platform/pagination"
)

// CatalogView renders the id-range browser.
type CatalogView struct {
	Layout        Layout
	Heading       string
	Buckets       []BucketLink
	SelectedLabel string
	Rows          []ItemRow
	Empty         bool
	EmptyMessage  string
}

// BucketLink selects one id range.
type BucketLink struct {
	Label  string
	Href   string
	Active bool
}

// CatalogInput is the data a catalog page is built from.
type CatalogInput struct {
	Buckets  []catalog.Bucket
	Selected catalog.Bucket
	// Found is false when the library is empty and nothing is selected.
	Found bool
	Items []library.Item
}

// BuildCatalogView lists every bucket, newest first, with the selected one active.
func BuildCatalogView(env Env, in CatalogInput) CatalogView {
	heading := env.t("catalog.title")
	view := CatalogView{
		Layout:  NewLayout(env, heading),
		Heading: heading,
		Buckets: make([]BucketLink, 0, len(in.Buckets)),
		Rows:    buildRows(env, in.Items),
		Empty:   len(in.Items) == 0,
	}
	for _, b := range in.Buckets {
		view.Buckets = append(view.Buckets, BucketLink{
			Label:  bucketLabel(env.Lang, b),
			Href:   withQuery(env.URL, pagination.FromIDParam, strconv.Itoa(b.StartID)),
			Active: in.Found && b == in.Selected,
		})
	}
	if in.Found {
		view.SelectedLabel = env.tf("catalog.range", bucketLabel(env.Lang, in.Selected))
	}
	if view.Empty {
		view.EmptyMessage = env.t("catalog.empty")
	}
	return view
}

func bucketLabel(lang string, b catalog.Bucket) string {
	return format.Integer(lang, b.StartID) + "–" + format.Integer(lang, b.EndID)
}
