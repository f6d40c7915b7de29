// Package views turns store results and computed windows into template-ready models.
package views

import (
	"net/url"
	"strings"

	"github.com/ilibrarian/librarian/internal/i18n"
)

// Env carries the per-request inputs shared by every view.
type Env struct {
	Bundle  *i18n.Bundle
	Lang    string
	Theme   string
	BaseURL string
	// URL is the request URL; links preserve its query parameters.
	URL url.URL
}

func (e Env) t(key string) string {
	if e.Bundle == nil {
		return key
	}
	return e.Bundle.T(e.Lang, key)
}

func (e Env) tf(key string, args ...any) string {
	if e.Bundle == nil {
		return key
	}
	return e.Bundle.Tf(e.Lang, key, args...)
}

// Layout is the frame shared by all pages.
type Layout struct {
	Lang      string
	Title     string
	AppTitle  string
	Theme     string
	Canonical string
	Menu      []MenuItem
	Languages []LanguageLink

	env Env
}

// T translates key for templates rendering static labels.
func (l Layout) T(key string) string {
	return l.env.t(key)
}

// MenuItem is a top-level navigation entry.
type MenuItem struct {
	Href   string
	Label  string
	Active bool
}

// LanguageLink switches the interface language while staying on the page.
type LanguageLink struct {
	Code   string
	Href   string
	Active bool
}

type section struct {
	path     string
	labelKey string
}

var menu = []section{
	{path: "/items", labelKey: "nav.items"},
	{path: "/items/catalog", labelKey: "nav.catalog"},
	{path: "/tags", labelKey: "nav.tags"},
	{path: "/authors", labelKey: "nav.authors"},
}

// NewLayout builds the page frame. title is already translated.
func NewLayout(env Env, title string) Layout {
	appTitle := env.t("app.title")
	full := appTitle
	if title != "" {
		full = title + " · " + appTitle
	}
	return Layout{
		Lang:      env.Lang,
		Title:     full,
		AppTitle:  appTitle,
		Theme:     env.Theme,
		Canonical: canonical(env),
		Menu:      buildMenu(env),
		Languages: buildLanguages(env),
		env:       env,
	}
}

func buildMenu(env Env) []MenuItem {
	active := activeSection(env.URL.Path)
	items := make([]MenuItem, 0, len(menu))
	for _, s := range menu {
		items = append(items, MenuItem{Href: s.path, Label: env.t(s.labelKey), Active: s.path == active})
	}
	return items
}

// activeSection picks the longest menu path matching current on a segment boundary,
// so /items/catalog highlights the catalog rather than items.
func activeSection(current string) string {
	best := ""
	for _, s := range menu {
		if current == s.path || strings.HasPrefix(current, s.path+"/") {
			if len(s.path) > len(best) {
				best = s.path
			}
		}
	}
	return best
}

func buildLanguages(env Env) []LanguageLink {
	if env.Bundle == nil {
		return nil
	}
	supported := env.Bundle.Supported()
	if len(supported) < 2 {
		return nil
	}
	out := make([]LanguageLink, 0, len(supported))
	for _, code := range supported {
		out = append(out, LanguageLink{
			Code:   code,
			Href:   withQuery(env.URL, "lang", code),
			Active: code == env.Lang,
		})
	}
	return out
}

func canonical(env Env) string {
	if env.BaseURL == "" {
		return ""
	}
	base, err := url.Parse(env.BaseURL)
	if err != nil {
		return ""
	}
	ref := url.URL{Path: env.URL.Path, RawQuery: env.URL.RawQuery}
	return base.ResolveReference(&ref).String()
}

// withQuery returns u with key set to value; an empty value removes the key.
func withQuery(u url.URL, key, value string, drop ...string) string {
	q := u.Query()
	for _, k := range drop {
		q.Del(k)
	}
	if value == "" {
		q.Del(key)
	} else {
		q.Set(key, value)
	}
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u.String()
}
