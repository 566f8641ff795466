package httpx

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/medialist/internal/ports"
	"github.com/Gunvolt24/medialist/pkg/ctxmeta"
)

// RequestLogger — итоговая строка лога по каждому запросу.
// Служебные маршруты /metrics и /ping не логируются.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "/metrics" || path == "/ping" {
			return
		}
		// Немаршрутизированный запрос (404) — берём сырой путь.
		if path == "" {
			path = c.Request.URL.Path
		}

		ctx := c.Request.Context()
		requestID, _ := ctxmeta.RequestIDFromContext(ctx)
		traceID, _ := ctxmeta.TraceIDFromContext(ctx)
		spanID, _ := ctxmeta.SpanIDFromContext(ctx)

		log.Infof(ctx,
			"request id=%s trace=%s span=%s method=%s path=%s status=%d ip=%s duration=%s size=%d",
			requestID, traceID, spanID,
			c.Request.Method, path, c.Writer.Status(),
			c.ClientIP(), time.Since(start), c.Writer.Size(),
		)
	}
}
