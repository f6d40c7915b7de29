package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	err := NewError("invalid_request", "page must be\nan integer", http.StatusBadRequest).WithField("page")

	WriteError(ctx, rr, err)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "invalid_request", body["error"])
	require.Equal(t, "page must be an integer", body["message"])
	require.Equal(t, "req-1", body["request_id"])
	require.Equal(t, "page", body["field"])
	require.EqualValues(t, http.StatusBadRequest, body["status"])
	require.NotContains(t, body, "trace_id")
}

func TestWriteErrorIncludesTraceID(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	rr := httptest.NewRecorder()
	WriteError(ctx, rr, NewError("internal_error", "boom", 0).WithRequestID("fixed"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", body["trace_id"])
	require.Equal(t, "fixed", body["request_id"])
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestErrorIsAnError(t *testing.T) {
	var err error = NewError("not_found", "no item 9", http.StatusNotFound)
	var envelope Error
	require.True(t, errors.As(err, &envelope))
	require.Equal(t, "not_found: no item 9", err.Error())
}

func TestCleanTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("ä", maxMessageLength)
	got := NewError("x", long, http.StatusBadRequest).Message
	require.LessOrEqual(t, len(got), maxMessageLength)
	require.True(t, strings.HasPrefix(long, got))
}
