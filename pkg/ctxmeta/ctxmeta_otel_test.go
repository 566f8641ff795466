//go:build otel
// +build otel

package ctxmeta_test

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Gunvolt24/medialist/pkg/ctxmeta"
)

func TestTraceAndSpanIDs_ActiveSpan(t *testing.T) {
	// Локальный провайдер, глобальную конфигурацию не трогаем.
	tr := sdktrace.NewTracerProvider().Tracer("ctxmeta-test")

	ctx, span := tr.Start(context.Background(), "op")
	defer span.End()

	sc := span.SpanContext()

	traceID, ok := ctxmeta.TraceIDFromContext(ctx)
	if !ok || traceID != sc.TraceID().String() {
		t.Fatalf("traceID=%q ok=%v, want %q/true", traceID, ok, sc.TraceID().String())
	}
	spanID, ok := ctxmeta.SpanIDFromContext(ctx)
	if !ok || spanID != sc.SpanID().String() {
		t.Fatalf("spanID=%q ok=%v, want %q/true", spanID, ok, sc.SpanID().String())
	}
}

func TestTraceAndSpanIDs_NoSpan(t *testing.T) {
	if id, ok := ctxmeta.TraceIDFromContext(context.Background()); ok || id != "" {
		t.Fatalf("без спана trace id должен отсутствовать: %q/%v", id, ok)
	}
	if id, ok := ctxmeta.SpanIDFromContext(context.Background()); ok || id != "" {
		t.Fatalf("без спана span id должен отсутствовать: %q/%v", id, ok)
	}
}
