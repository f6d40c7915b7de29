// Package library stores the reference items browsed by the views.
package library

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when an item id does not exist.
var ErrNotFound = errors.New("library: not found")

// Item is a single reference in the library.
type Item struct {
	ID       int
	Title    string
	Authors  []Author
	Tags     []string
	Notes    string
	FileSize int64
	AddedAt  time.Time
}

// HasFile reports whether a full-text file is attached.
func (i Item) HasFile() bool { return i.FileSize > 0 }

// Author is a person credited on an item.
type Author struct {
	ID        int
	LastName  string
	FirstName string
}

// Label renders the author as "Last, First".
func (a Author) Label() string {
	if a.FirstName == "" {
		return a.LastName
	}
	return a.LastName + ", " + a.FirstName
}

// ParseAuthor splits "Last, First" into its parts. A name without a comma is a last name.
func ParseAuthor(raw string) Author {
	last, first, _ := strings.Cut(raw, ",")
	return Author{LastName: strings.TrimSpace(last), FirstName: strings.TrimSpace(first)}
}

// Tag is a label with the number of items carrying it.
type Tag struct {
	ID    int
	Name  string
	Count int
}

// AuthorCount is an author with the number of credited items.
type AuthorCount struct {
	Author
	Count int
}

// Filter narrows item listings.
type Filter struct {
	Tag      string
	AuthorID int
}

// Active reports whether any narrowing applies.
func (f Filter) Active() bool { return f.Tag != "" || f.AuthorID > 0 }

// Sort is an allow-listed listing order.
type Sort string

const (
	SortID    Sort = "id"
	SortTitle Sort = "title"
	SortAdded Sort = "added"
)

// Sorts lists the accepted sort keys, default first.
func Sorts() []string {
	return []string{string(SortID), string(SortTitle), string(SortAdded)}
}

func (s Sort) orderBy() string {
	switch s {
	case SortTitle:
		return "i.title COLLATE NOCASE ASC, i.id ASC"
	case SortAdded:
		return "i.added_at DESC, i.id DESC"
	default:
		return "i.id DESC"
	}
}
