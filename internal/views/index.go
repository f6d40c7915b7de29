package views

import (
	"strconv"

	"github.com/ilibrarian/librarian/internal/format"
	"github.com/ilibrarian/librarian/internal/grouping"
	"github.com/ilibrarian/librarian/internal/library"
)

// IndexView renders tags or authors in lettered sections.
type IndexView struct {
	Layout       Layout
	Heading      string
	Letters      []LetterLink
	Groups       []IndexGroup
	Empty        bool
	EmptyMessage string
}

// LetterLink jumps to a section.
type LetterLink struct {
	Letter string
	Href   string
}

// IndexGroup is one lettered section.
type IndexGroup struct {
	Letter  string
	Anchor  string
	Members []IndexLink
}

// IndexLink is a tag or author with its item count.
type IndexLink struct {
	Label string
	Href  string
	Count string
}

// IndexEntry is an index member before grouping.
type IndexEntry struct {
	ID    string
	Label string
	Href  string
	Count int
}

// TagEntries adapts store tags for BuildIndexView.
func TagEntries(tags []library.Tag) []IndexEntry {
	out := make([]IndexEntry, 0, len(tags))
	for _, tag := range tags {
		out = append(out, IndexEntry{
			ID:    strconv.Itoa(tag.ID),
			Label: tag.Name,
			Href:  tagHref(tag.Name),
			Count: tag.Count,
		})
	}
	return out
}

// AuthorEntries adapts store authors for BuildIndexView.
func AuthorEntries(authors []library.AuthorCount) []IndexEntry {
	out := make([]IndexEntry, 0, len(authors))
	for _, a := range authors {
		out = append(out, IndexEntry{
			ID:    strconv.Itoa(a.ID),
			Label: a.Label(),
			Href:  authorHref(a.ID),
			Count: a.Count,
		})
	}
	return out
}

// BuildIndexView sorts entries for the request language and groups them by initial letter.
// titleKey and emptyKey are translation keys.
func BuildIndexView(env Env, titleKey, emptyKey string, entries []IndexEntry) IndexView {
	heading := env.t(titleKey)
	view := IndexView{
		Layout:  NewLayout(env, heading),
		Heading: heading,
		Letters: make([]LetterLink, 0),
		Groups:  make([]IndexGroup, 0),
		Empty:   len(entries) == 0,
	}
	if view.Empty {
		view.EmptyMessage = env.t(emptyKey)
		return view
	}

	byID := make(map[string]IndexEntry, len(entries))
	plain := make([]grouping.Entry, 0, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
		plain = append(plain, grouping.Entry{ID: e.ID, Label: e.Label})
	}
	grouping.SortEntries(env.Lang, plain)

	for i, g := range grouping.Group(plain) {
		anchor := "group-" + strconv.Itoa(i+1)
		letter := g.Letter
		if letter == "" {
			letter = "#"
		} else {
			view.Letters = append(view.Letters, LetterLink{Letter: letter, Href: "#" + anchor})
		}
		group := IndexGroup{Letter: letter, Anchor: anchor, Members: make([]IndexLink, 0, len(g.Members))}
		for _, m := range g.Members {
			e := byID[m.ID]
			group.Members = append(group.Members, IndexLink{
				Label: e.Label,
				Href:  e.Href,
				Count: format.Integer(env.Lang, e.Count),
			})
		}
		view.Groups = append(view.Groups, group)
	}
	return view
}
