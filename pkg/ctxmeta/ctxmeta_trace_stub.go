//go:build !otel || gopls

package ctxmeta

import "context"

// Сборка без тега `otel`: трейсинга нет, идентификаторы не извлекаются.

func TraceIDFromContext(context.Context) (string, bool) { return "", false }

func SpanIDFromContext(context.Context) (string, bool) { return "", false }
