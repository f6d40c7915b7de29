// Package grouping builds lettered sections for pre-sorted tag and author lists.
package grouping

import "github.com/ilibrarian/librarian/internal/platform/textutil"

// Entry is a single labelled list member.
type Entry struct {
	ID    string
	Label string
}

// AlphaGroup is a run of consecutive entries sharing a leading letter.
type AlphaGroup struct {
	Letter  string
	Members []Entry
}

// Group splits entries into runs by initial letter. Entries are expected to be
// sorted by the caller; a letter seen again after a different one starts a new
// group. Flattening the result reproduces entries in order.
func Group(entries []Entry) []AlphaGroup {
	groups := make([]AlphaGroup, 0)
	for i, entry := range entries {
		letter := textutil.InitialLetter(entry.Label)
		if i == 0 || groups[len(groups)-1].Letter != letter {
			groups = append(groups, AlphaGroup{Letter: letter})
		}
		current := &groups[len(groups)-1]
		current.Members = append(current.Members, entry)
	}
	return groups
}

// Letters lists the group letters in order, skipping the unlabelled group.
func Letters(groups []AlphaGroup) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		if g.Letter == "" {
			continue
		}
		out = append(out, g.Letter)
	}
	return out
}
