package pagination

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"
)

const (
	// DefaultPageSize is used when the library settings omit a page size.
	DefaultPageSize = 10
	// DefaultMaxItems caps listings when no explicit cap is configured.
	DefaultMaxItems = 10000

	// PageParam is the query parameter carrying the 1-based page number.
	PageParam = "page"
	// FromIDParam selects the catalog bucket containing the given item id.
	FromIDParam = "from_id"

	maxFilterValueLength = 512
)

// Params bundles the list state read from a request.
type Params struct {
	Page   int
	FromID int
	Sort   string
	Tag    string
	Author string
}

// Options control how Parse validates list state.
type Options struct {
	AllowedSorts []string
	DefaultSort  string
}

// FromRequest parses the supported query parameters from the supplied request.
func FromRequest(r *http.Request, opts Options) (Params, error) {
	if r == nil {
		return Params{}, errors.New("pagination: nil request")
	}
	return Parse(r.URL.Query(), opts)
}

// Parse consumes the provided query values and returns the normalised Params.
// Non-numeric page or from_id values are rejected rather than coerced.
func Parse(values url.Values, opts Options) (Params, error) {
	if values == nil {
		values = url.Values{}
	}

	page, err := parsePositive(values.Get(PageParam), PageParam, 1)
	if err != nil {
		return Params{}, err
	}

	fromID, err := parsePositive(values.Get(FromIDParam), FromIDParam, 0)
	if err != nil {
		return Params{}, err
	}

	sort, err := parseSort(values.Get("sort"), opts)
	if err != nil {
		return Params{}, err
	}

	return Params{
		Page:   page,
		FromID: fromID,
		Sort:   sort,
		Tag:    sanitizeFilterValue(values.Get("tag")),
		Author: sanitizeFilterValue(values.Get("author")),
	}, nil
}

func parsePositive(raw, field string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: field, Value: raw, Reason: "must be an integer"}
	}
	if value < 1 {
		return 0, &ValidationError{Field: field, Value: raw, Reason: "must be at least 1"}
	}
	return value, nil
}

func parseSort(raw string, opts Options) (string, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return opts.DefaultSort, nil
	}
	for _, allowed := range opts.AllowedSorts {
		if raw == allowed {
			return raw, nil
		}
	}
	return "", &ValidationError{Field: "sort", Value: raw, Reason: "unsupported sort order"}
}

func sanitizeFilterValue(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	value = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, value)
	value = strings.TrimSpace(value)
	if len(value) > maxFilterValueLength {
		value = strings.ToValidUTF8(value[:maxFilterValueLength], "")
	}
	return value
}
