package httpserver

import (
	"net/http"
	"strings"

	"github.com/ilibrarian/librarian/internal/i18n"
	"github.com/ilibrarian/librarian/internal/platform/requestctx"
)

// LangParam overrides content negotiation for a single request.
const LangParam = "lang"

// localeMiddleware negotiates the display language from ?lang= or Accept-Language
// and stores it on the request context.
func localeMiddleware(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(LangParam)))
			if !bundle.IsSupported(lang) {
				lang = bundle.Resolve(r.Header.Get("Accept-Language"))
			}
			w.Header().Add("Vary", "Accept-Language")
			w.Header().Set("Content-Language", lang)
			next.ServeHTTP(w, r.WithContext(requestctx.WithLang(r.Context(), lang)))
		})
	}
}
