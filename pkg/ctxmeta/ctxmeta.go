// Пакет ctxmeta — метаданные запроса, переносимые через context.Context
// (request_id, trace_id/span_id). HTTP-middleware и логгер разделяют этот
// маленький пакет вместо прямой зависимости друг от друга.
package ctxmeta

import "context"

type ctxKey string

// KeyRequestID — ключ request_id; тип ключа неэкспортируемый,
// коллизии с чужими значениями контекста исключены.
const KeyRequestID ctxKey = "request_id"

// WithRequestID — кладёт request_id в контекст. Пустой id не сохраняется.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext — достаёт request_id; false, если id не задан.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(KeyRequestID).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
