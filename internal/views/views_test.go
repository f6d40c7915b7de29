package views

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ilibrarian/librarian/internal/catalog"
	"github.com/ilibrarian/librarian/internal/i18n"
	"github.com/ilibrarian/librarian/internal/library"
	"github.com/ilibrarian/librarian/internal/platform/pagination"
)

func testEnv(t *testing.T, lang, rawURL string) Env {
	t.Helper()
	bundle, err := i18n.Default("en", []string{"en", "de"})
	require.NoError(t, err)
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return Env{Bundle: bundle, Lang: lang, Theme: "light", URL: *u}
}

func mustWindow(t *testing.T, page, size, total, maxItems int) pagination.Window {
	t.Helper()
	w, err := pagination.ComputeWindow(pagination.Request{Page: page, PageSize: size, TotalCount: total, MaxItems: maxItems})
	require.NoError(t, err)
	return w
}

func TestBuildItemsViewMiddlePage(t *testing.T) {
	env := testEnv(t, "en", "/items?tag=logic&page=2")
	items := []library.Item{{ID: 15, Title: "H<sub>2</sub>O <script>alert(1)</script>", FileSize: 1536}}

	view := BuildItemsView(env, ItemsInput{
		Params: pagination.Params{Page: 2, Tag: "logic"},
		Window: mustWindow(t, 2, 10, 25, 10000),
		Items:  items,
	})

	require.Equal(t, "Items", view.Heading)
	require.Equal(t, "Items 11–20 / 25", view.RangeLabel)
	require.Equal(t, "Page 2 of 3", view.PageLabel)
	require.False(t, view.Empty)

	require.Equal(t, PagerLink{Label: "First", Href: "/items?tag=logic"}, view.Pager.First)
	require.Equal(t, PagerLink{Label: "Previous", Href: "/items?tag=logic"}, view.Pager.Prev)
	require.Equal(t, PagerLink{Label: "Next", Href: "/items?page=3&tag=logic"}, view.Pager.Next)
	require.Equal(t, PagerLink{Label: "Last", Href: "/items?page=3&tag=logic"}, view.Pager.Last)

	require.Equal(t, []string{"Tag: logic"}, view.Filters)
	require.Equal(t, "/items", view.ClearHref)

	require.Len(t, view.Sorts, 3)
	require.True(t, view.Sorts[0].Active)
	require.Equal(t, "/items?tag=logic", view.Sorts[0].Href)
	require.Equal(t, "/items?sort=title&tag=logic", view.Sorts[1].Href)

	require.Len(t, view.Rows, 1)
	row := view.Rows[0]
	require.Equal(t, "/items/15", row.Href)
	require.Contains(t, string(row.Title), "H<sub>2</sub>O")
	require.NotContains(t, string(row.Title), "script")
	require.Equal(t, "1.5 kB", row.FileSize)
}

func TestBuildItemsViewEmptyDisablesNavigation(t *testing.T) {
	env := testEnv(t, "en", "/items")
	view := BuildItemsView(env, ItemsInput{Window: mustWindow(t, 1, 10, 0, 10000)})

	require.True(t, view.Empty)
	require.Equal(t, "No items found.", view.EmptyMessage)
	require.Equal(t, "Items 0 / 0", view.RangeLabel)
	require.Empty(t, view.PageLabel)
	for _, l := range []PagerLink{view.Pager.First, view.Pager.Prev, view.Pager.Next, view.Pager.Last} {
		require.True(t, l.Disabled, l.Label)
		require.Empty(t, l.Href, l.Label)
	}
	require.Empty(t, view.ClearHref)
}

func TestBuildItemsViewAuthorFilterGerman(t *testing.T) {
	env := testEnv(t, "de", "/items?author=4")
	view := BuildItemsView(env, ItemsInput{
		Params:      pagination.Params{Page: 1, Author: "4"},
		Window:      mustWindow(t, 1, 10, 1200, 10000),
		Items:       []library.Item{{ID: 1200, Title: "x"}},
		AuthorLabel: "Gödel, Kurt",
	})
	require.Equal(t, "Einträge 1–10 / 1.200", view.RangeLabel)
	require.Equal(t, "Seite 1 von 120", view.PageLabel)
	require.Equal(t, []string{"Autor: Gödel, Kurt"}, view.Filters)
	require.Equal(t, "1.200", view.Rows[0].IDLabel)
}

func TestLayout(t *testing.T) {
	env := testEnv(t, "en", "/items/catalog?from_id=101")
	env.BaseURL = "https://lib.example.org/"
	layout := NewLayout(env, "Catalog")

	require.Equal(t, "Catalog · I, Librarian", layout.Title)
	require.Equal(t, "https://lib.example.org/items/catalog?from_id=101", layout.Canonical)

	active := map[string]bool{}
	for _, m := range layout.Menu {
		active[m.Href] = m.Active
	}
	require.Equal(t, map[string]bool{"/items": false, "/items/catalog": true, "/tags": false, "/authors": false}, active)

	require.Len(t, layout.Languages, 2)
	require.Equal(t, LanguageLink{Code: "de", Href: "/items/catalog?from_id=101&lang=de"}, layout.Languages[0])
	require.True(t, layout.Languages[1].Active)
}

func TestBuildCatalogView(t *testing.T) {
	env := testEnv(t, "en", "/items/catalog?from_id=150")
	buckets, err := catalog.Partition(250, 100)
	require.NoError(t, err)
	selected, ok := catalog.Locate(buckets, 150)
	require.True(t, ok)

	view := BuildCatalogView(env, CatalogInput{
		Buckets:  buckets,
		Selected: selected,
		Found:    ok,
		Items:    []library.Item{{ID: 150, Title: "Middle"}},
	})

	require.Equal(t, []BucketLink{
		{Label: "201–250", Href: "/items/catalog?from_id=201"},
		{Label: "101–200", Href: "/items/catalog?from_id=101", Active: true},
		{Label: "1–100", Href: "/items/catalog?from_id=1"},
	}, view.Buckets)
	require.Equal(t, "IDs 101–200", view.SelectedLabel)
	require.False(t, view.Empty)
}

func TestBuildCatalogViewEmptyLibrary(t *testing.T) {
	env := testEnv(t, "en", "/items/catalog")
	buckets, err := catalog.Partition(0, 100)
	require.NoError(t, err)

	view := BuildCatalogView(env, CatalogInput{Buckets: buckets})
	require.Empty(t, view.Buckets)
	require.NotNil(t, view.Buckets)
	require.Empty(t, view.SelectedLabel)
	require.Equal(t, "The catalog is empty.", view.EmptyMessage)
}

func TestBuildIndexViewGroupsByLetter(t *testing.T) {
	env := testEnv(t, "en", "/authors")
	entries := AuthorEntries([]library.AuthorCount{
		{Author: library.Author{ID: 1, LastName: "Zuse", FirstName: "Konrad"}, Count: 2},
		{Author: library.Author{ID: 2, LastName: "Écalle", FirstName: "Jean"}, Count: 1},
		{Author: library.Author{ID: 3, LastName: "Euler", FirstName: "Leonhard"}, Count: 1500},
		{Author: library.Author{ID: 4, LastName: "Abel"}, Count: 1},
	})

	view := BuildIndexView(env, "authors.title", "authors.empty", entries)

	require.Equal(t, "Authors", view.Heading)
	require.Equal(t, []LetterLink{
		{Letter: "A", Href: "#group-1"},
		{Letter: "E", Href: "#group-2"},
		{Letter: "Z", Href: "#group-3"},
	}, view.Letters)
	require.Len(t, view.Groups, 3)
	require.Equal(t, []IndexLink{
		{Label: "Écalle, Jean", Href: "/items?author=2", Count: "1"},
		{Label: "Euler, Leonhard", Href: "/items?author=3", Count: "1,500"},
	}, view.Groups[1].Members)
}

func TestBuildIndexViewFoldsStrokedLetters(t *testing.T) {
	env := testEnv(t, "en", "/tags")
	tags := make([]library.Tag, 0)
	for i, name := range []string{"Oak", "Ørsted", "Oz", "Lars", "Łukasz", "Lz"} {
		tags = append(tags, library.Tag{ID: i + 1, Name: name, Count: 1})
	}

	view := BuildIndexView(env, "tags.title", "tags.empty", TagEntries(tags))

	require.Equal(t, []LetterLink{
		{Letter: "L", Href: "#group-1"},
		{Letter: "O", Href: "#group-2"},
	}, view.Letters)
	require.Len(t, view.Groups, 2)
	require.Len(t, view.Groups[0].Members, 3)
	require.Len(t, view.Groups[1].Members, 3)
}

func TestBuildIndexViewTagsAndEmpty(t *testing.T) {
	env := testEnv(t, "en", "/tags")

	empty := BuildIndexView(env, "tags.title", "tags.empty", TagEntries(nil))
	require.True(t, empty.Empty)
	require.Equal(t, "No tags yet.", empty.EmptyMessage)
	require.NotNil(t, empty.Groups)

	view := BuildIndexView(env, "tags.title", "tags.empty", TagEntries([]library.Tag{
		{ID: 1, Name: "logic", Count: 2},
		{ID: 2, Name: "", Count: 1},
	}))
	require.Len(t, view.Groups, 2)
	require.Equal(t, "#", view.Groups[0].Letter)
	require.Equal(t, []LetterLink{{Letter: "L", Href: "#group-2"}}, view.Letters)
	require.Equal(t, "/items?tag=logic", view.Groups[1].Members[0].Href)
}

func TestBuildItemView(t *testing.T) {
	env := testEnv(t, "de", "/items/1")
	item := library.Item{
		ID:       1,
		Title:    "AT&T <i>Bell</i> Labs",
		Authors:  []library.Author{{ID: 9, LastName: "Shannon", FirstName: "Claude"}},
		Tags:     []string{"information theory"},
		Notes:    "Introduces the *a-machine*.\n\nVolume 1 <script>alert(1)</script>",
		FileSize: 82854982,
		AddedAt:  time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC),
	}

	view, err := BuildItemView(env, item)
	require.NoError(t, err)

	require.Equal(t, "AT&T Bell Labs · I, Librarian", view.Layout.Title)
	require.Contains(t, string(view.Title), "<i>Bell</i>")
	require.Equal(t, "08.01.2024", view.Added)
	require.Equal(t, "2024-01-08T10:00:00Z", view.AddedISO)
	require.Equal(t, "83 MB", view.FileSize)
	require.Equal(t, []Link{{Label: "Shannon, Claude", Href: "/items?author=9"}}, view.Authors)
	require.Equal(t, []Link{{Label: "information theory", Href: "/items?tag=information+theory"}}, view.Tags)

	notes := string(view.Notes)
	require.Contains(t, notes, "<em>a-machine</em>")
	require.Contains(t, notes, "Volume 1")
	require.False(t, strings.Contains(notes, "script"), notes)
}

func TestBuildItemViewWithoutNotes(t *testing.T) {
	env := testEnv(t, "en", "/items/2")
	view, err := BuildItemView(env, library.Item{ID: 2, Title: "Plain"})
	require.NoError(t, err)
	require.Empty(t, view.Notes)
	require.False(t, view.HasFile)
	require.Empty(t, view.Added)
}

func TestBuildErrorView(t *testing.T) {
	env := testEnv(t, "en", "/items/99")

	require.Equal(t, "Not found", BuildErrorView(env, http.StatusNotFound, "").Heading)
	require.Equal(t, "Bad request", BuildErrorView(env, http.StatusBadRequest, "page must be at least 1").Heading)
	internal := BuildErrorView(env, http.StatusInternalServerError, "")
	require.Equal(t, "Something went wrong", internal.Heading)
	require.Equal(t, "Something went wrong · I, Librarian", internal.Layout.Title)
}
