package views

import (
	"html"
	"html/template"
	"net/url"
	"strconv"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ilibrarian/librarian/internal/format"
	"github.com/ilibrarian/librarian/internal/library"
)

// Titles may carry light inline markup such as chemical formulas.
var titlePolicy = newTitlePolicy()

var plainPolicy = bluemonday.StrictPolicy()

func newTitlePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "em", "strong", "sub", "sup", "u")
	return p
}

// ItemRow is one line of an item listing.
type ItemRow struct {
	ID       int
	IDLabel  string
	Href     string
	Title    template.HTML
	Authors  []Link
	Tags     []Link
	Added    string
	AddedISO string
	FileSize string
}

// Link is a labelled href.
type Link struct {
	Label string
	Href  string
}

func buildRows(env Env, items []library.Item) []ItemRow {
	rows := make([]ItemRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, buildRow(env, item))
	}
	return rows
}

func buildRow(env Env, item library.Item) ItemRow {
	row := ItemRow{
		ID:       item.ID,
		IDLabel:  format.Integer(env.Lang, item.ID),
		Href:     itemHref(item.ID),
		Title:    sanitizeTitle(item.Title),
		Authors:  authorLinks(item.Authors),
		Tags:     tagLinks(item.Tags),
		Added:    formatDate(env.Lang, item.AddedAt),
		AddedISO: isoDate(item.AddedAt),
	}
	if item.HasFile() {
		row.FileSize = format.Bytes(item.FileSize)
	}
	return row
}

func sanitizeTitle(title string) template.HTML {
	return template.HTML(titlePolicy.Sanitize(title))
}

// plainTitle strips all markup for contexts such as <title>.
func plainTitle(title string) string {
	return html.UnescapeString(plainPolicy.Sanitize(title))
}

func itemHref(id int) string {
	return "/items/" + strconv.Itoa(id)
}

func tagHref(name string) string {
	return "/items?" + url.Values{"tag": {name}}.Encode()
}

func authorHref(id int) string {
	return "/items?" + url.Values{"author": {strconv.Itoa(id)}}.Encode()
}

func authorLinks(authors []library.Author) []Link {
	out := make([]Link, 0, len(authors))
	for _, a := range authors {
		out = append(out, Link{Label: a.Label(), Href: authorHref(a.ID)})
	}
	return out
}

func tagLinks(tags []string) []Link {
	out := make([]Link, 0, len(tags))
	for _, name := range tags {
		out = append(out, Link{Label: name, Href: tagHref(name)})
	}
	return out
}

var dateLayouts = map[string]string{
	"en": "Jan 2, 2006",
	"de": "02.01.2006",
}

func formatDate(lang string, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	layout, ok := dateLayouts[lang]
	if !ok {
		layout = "2006-01-02"
	}
	return t.Format(layout)
}

func isoDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
