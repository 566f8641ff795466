package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Gunvolt24/medialist/pkg/ctxmeta"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware — сквозной идентификатор запроса.
// Принимает X-Request-ID клиента (или генерирует UUID), кладёт его
// в контекст запроса и дублирует в ответном заголовке.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		c.Request = c.Request.WithContext(
			ctxmeta.WithRequestID(c.Request.Context(), id),
		)
		c.Next()
	}
}
