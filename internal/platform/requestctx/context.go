// Package requestctx carries per-request values (logger, display language)
// through context.
package requestctx

import (
	"context"

	"go.uber.org/zap"
)

type key int

const (
	loggerKey key = iota
	langKey
)

var nop = zap.NewNop()

func with(ctx context.Context, k key, v any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, k, v)
}

// WithLogger attaches logger to ctx. A nil logger is stored as the no-op logger.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if logger == nil {
		logger = nop
	}
	return with(ctx, loggerKey, logger)
}

// Logger returns the request logger, or the no-op logger when none is attached.
func Logger(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return nop
}

// NoopLogger is the logger Logger falls back to.
func NoopLogger() *zap.Logger { return nop }

// WithLang attaches the negotiated display language.
func WithLang(ctx context.Context, lang string) context.Context {
	return with(ctx, langKey, lang)
}

// Lang returns the negotiated language, or fallback.
func Lang(ctx context.Context, fallback string) string {
	if ctx != nil {
		if lang, ok := ctx.Value(langKey).(string); ok && lang != "" {
			return lang
		}
	}
	return fallback
}
