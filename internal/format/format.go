// Package format renders numbers for display.
package format

import (
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printers sync.Map // map[string]*message.Printer

// Integer formats n with the digit grouping of lang, e.g. 12,345 (en) or 12.345 (de).
// Unknown languages fall back to comma grouping.
func Integer(lang string, n int) string {
	p := printer(lang)
	if p == nil {
		return humanize.Comma(int64(n))
	}
	return p.Sprintf("%d", n)
}

// Bytes renders a file size such as "1.5 kB". Negative sizes render as "0 B".
func Bytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

func printer(lang string) *message.Printer {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return nil
	}
	if p, ok := printers.Load(lang); ok {
		return p.(*message.Printer)
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return nil
	}
	p, _ := printers.LoadOrStore(lang, message.NewPrinter(tag))
	return p.(*message.Printer)
}

// Range renders an inclusive item range with its total, e.g. "21–25 / 25".
// An empty range (last < first) renders as "0 / total".
func Range(lang string, first, last, total int) string {
	if last < first {
		return Integer(lang, 0) + " / " + Integer(lang, total)
	}
	return Integer(lang, first) + "–" + Integer(lang, last) + " / " + Integer(lang, total)
}
