package textutil

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccentPool hands out NFD → strip combining marks → NFC chains; transformers are stateful.
var deaccentPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		)
	},
}

// baseLetters folds Latin letters that carry their mark in the glyph itself and
// so have no canonical decomposition. "ß" is kept.
var baseLetters = strings.NewReplacer(
	"Ø", "O", "ø", "o",
	"Ł", "L", "ł", "l",
	"Đ", "D", "đ", "d",
	"Ħ", "H", "ħ", "h",
	"Ŧ", "T", "ŧ", "t",
	"ı", "i",
	"Æ", "AE", "æ", "ae",
	"Œ", "OE", "œ", "oe",
	"Þ", "TH", "þ", "th",
)

// Deaccent strips diacritics, including strokes on letters like "ø" and "ł",
// and spells out ligatures ("æ" becomes "ae").
func Deaccent(s string) string {
	if isASCII(s) {
		return s
	}
	t := deaccentPool.Get().(transform.Transformer)
	defer func() {
		t.Reset()
		deaccentPool.Put(t)
	}()

	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return baseLetters.Replace(out)
}

// InitialLetter returns the upper-cased, deaccented first character of label, or "" for an empty label.
func InitialLetter(label string) string {
	if label == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(label)
	if r == utf8.RuneError && size <= 1 {
		return ""
	}
	first := label[:size]
	// Keep combining marks that follow the first rune so NFD sees the full cluster.
	for rest := label[size:]; rest != ""; {
		next, n := utf8.DecodeRuneInString(rest)
		if !unicode.Is(unicode.Mn, next) {
			break
		}
		first = label[:len(first)+n]
		rest = rest[n:]
	}
	folded := Deaccent(first)
	_, n := utf8.DecodeRuneInString(folded)
	return strings.ToUpper(folded[:n])
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
