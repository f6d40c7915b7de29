package grouping

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ilibrarian/librarian/internal/platform/textutil"
)

// SortEntries orders entries by initial letter, then by label for lang
// ignoring case and diacritics. Group therefore sees every label with the
// same initial letter in one run. Ties keep their input order.
func SortEntries(lang string, entries []Entry) {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}
	// A Collator is not safe for concurrent use.
	c := collate.New(tag, collate.Loose)

	type keyed struct {
		letter string
		entry  Entry
	}
	keys := make([]keyed, len(entries))
	for i, e := range entries {
		keys[i] = keyed{letter: textutil.InitialLetter(e.Label), entry: e}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.letter != b.letter {
			if cmp := c.CompareString(a.letter, b.letter); cmp != 0 {
				return cmp < 0
			}
			return a.letter < b.letter
		}
		return c.CompareString(a.entry.Label, b.entry.Label) < 0
	})
	for i, k := range keys {
		entries[i] = k.entry
	}
}
