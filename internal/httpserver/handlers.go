package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ilibrarian/librarian/internal/catalog"
	"github.com/ilibrarian/librarian/internal/library"
	"github.com/ilibrarian/librarian/internal/platform/pagination"
	"github.com/ilibrarian/librarian/internal/views"
)

var listOptions = pagination.Options{
	AllowedSorts: library.Sorts(),
	DefaultSort:  string(library.SortID),
}

// listing is a computed page of items.
type listing struct {
	params      pagination.Params
	window      pagination.Window
	items       []library.Item
	authorLabel string
}

// loadListing parses list state, counts matches, computes the window and
// fetches only the rows inside it.
func (s *Server) loadListing(ctx context.Context, r *http.Request) (listing, error) {
	params, err := pagination.FromRequest(r, listOptions)
	if err != nil {
		return listing{}, err
	}
	filter := library.Filter{Tag: params.Tag}

	var out listing
	if params.Author != "" {
		id, err := strconv.Atoi(params.Author)
		if err != nil || id < 1 {
			return listing{}, &pagination.ValidationError{Field: "author", Value: params.Author, Reason: "must be a positive integer"}
		}
		filter.AuthorID = id
		author, err := s.store.Author(ctx, id)
		switch {
		case err == nil:
			out.authorLabel = author.Label()
		case !errors.Is(err, library.ErrNotFound):
			return listing{}, err
		}
	}

	total, err := s.store.CountItems(ctx, filter)
	if err != nil {
		return listing{}, err
	}
	window, err := pagination.ComputeWindow(pagination.Request{
		Page:       params.Page,
		PageSize:   s.library.PageSize,
		TotalCount: total,
		MaxItems:   s.library.MaxItems,
	})
	if err != nil {
		return listing{}, err
	}
	items, err := s.store.ListItems(ctx, filter, library.Sort(params.Sort), window.Offset(), window.Limit())
	if err != nil {
		return listing{}, err
	}

	out.params = params
	out.window = window
	out.items = items
	return out, nil
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	l, err := s.loadListing(r.Context(), r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view := views.BuildItemsView(s.env(r), views.ItemsInput{
		Params:      l.params,
		Window:      l.window,
		Items:       l.items,
		AuthorLabel: l.authorLabel,
	})
	s.render(w, r, "items", http.StatusOK, view)
}

func (s *Server) catalogPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params, err := pagination.FromRequest(r, listOptions)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	maxID, err := s.store.MaxItemID(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	buckets, err := catalog.Partition(maxID, s.library.CatalogRange)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	selected, found := catalog.Locate(buckets, params.FromID)
	var items []library.Item
	if found {
		items, err = s.store.ItemsInRange(ctx, selected.StartID, selected.EndID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
	}
	view := views.BuildCatalogView(s.env(r), views.CatalogInput{
		Buckets:  buckets,
		Selected: selected,
		Found:    found,
		Items:    items,
	})
	s.render(w, r, "catalog", http.StatusOK, view)
}

func (s *Server) itemPage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		s.renderError(w, r, http.StatusNotFound, "")
		return
	}
	item, err := s.store.Item(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := views.BuildItemView(s.env(r), item)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, "item", http.StatusOK, view)
}

func (s *Server) tagIndex(w http.ResponseWriter, r *http.Request) {
	tags, err := s.store.Tags(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view := views.BuildIndexView(s.env(r), "tags.title", "tags.empty", views.TagEntries(tags))
	s.render(w, r, "index", http.StatusOK, view)
}

func (s *Server) authorIndex(w http.ResponseWriter, r *http.Request) {
	authors, err := s.store.Authors(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view := views.BuildIndexView(s.env(r), "authors.title", "authors.empty", views.AuthorEntries(authors))
	s.render(w, r, "index", http.StatusOK, view)
}
