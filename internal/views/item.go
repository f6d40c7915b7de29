package views

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ilibrarian/librarian/internal/format"
	"github.com/ilibrarian/librarian/internal/library"
)

// Raw HTML in notes is passed through by goldmark and cleaned by notesPolicy.
var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithUnsafe()),
	)
	notesPolicy = bluemonday.UGCPolicy()
)

// ItemView renders a single item.
type ItemView struct {
	Layout   Layout
	ID       int
	IDLabel  string
	Title    template.HTML
	Authors  []Link
	Tags     []Link
	Added    string
	AddedISO string
	FileSize string
	HasFile  bool
	Notes    template.HTML
	BackHref string
}

// BuildItemView assembles the detail page. Notes are markdown.
func BuildItemView(env Env, item library.Item) (ItemView, error) {
	notes, err := renderNotes(item.Notes)
	if err != nil {
		return ItemView{}, fmt.Errorf("render notes for item %d: %w", item.ID, err)
	}
	view := ItemView{
		Layout:   NewLayout(env, plainTitle(item.Title)),
		ID:       item.ID,
		IDLabel:  format.Integer(env.Lang, item.ID),
		Title:    sanitizeTitle(item.Title),
		Authors:  authorLinks(item.Authors),
		Tags:     tagLinks(item.Tags),
		Added:    formatDate(env.Lang, item.AddedAt),
		AddedISO: isoDate(item.AddedAt),
		HasFile:  item.HasFile(),
		Notes:    notes,
		BackHref: "/items",
	}
	if view.HasFile {
		view.FileSize = format.Bytes(item.FileSize)
	}
	return view, nil
}

func renderNotes(src string) (template.HTML, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(strings.TrimSpace(notesPolicy.Sanitize(buf.String()))), nil
}
