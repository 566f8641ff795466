//go:build otel && !gopls

package ctxmeta

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// Сборка с тегом `otel`: trace_id/span_id берутся из активного спана.

// TraceIDFromContext — trace_id активного спана в строковом виде.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String(), true
	}
	return "", false
}

// SpanIDFromContext — span_id активного спана в строковом виде.
func SpanIDFromContext(ctx context.Context) (string, bool) {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.SpanID().String(), true
	}
	return "", false
}
