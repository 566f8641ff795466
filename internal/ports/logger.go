package ports

import "context"

// Logger — узкий printf-контракт логгера; контекст нужен для метаданных
// запроса (request_id, trace_id).
type Logger interface {
	Debugf(ctx context.Context, format string, args ...any) // отладочная трассировка загрузок и отмен
	Infof(ctx context.Context, format string, args ...any)
	Warnf(ctx context.Context, format string, args ...any)
	Errorf(ctx context.Context, format string, args ...any)
}
