package httpx

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ClampInt — зажимает значение в диапазон [lo, hi].
func ClampInt(v, lo, hi int) int {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

// ParseLimitOffset — разбирает окно выборки из query-строки.
// Разобранный limit (включая дефолт при отсутствии параметра) зажимается
// в [1, maxLimit]; нечисловой limit оставляет defaultLimit как есть.
// offset принимается только числовой и неотрицательный, иначе 0.
func ParseLimitOffset(c *gin.Context, defaultLimit, maxLimit int) (limit, offset int) {
	limit = defaultLimit

	raw, ok := c.GetQuery("limit")
	if !ok {
		raw = strconv.Itoa(defaultLimit)
	}
	if n, err := strconv.Atoi(raw); err == nil {
		limit = ClampInt(n, 1, maxLimit)
	}

	if raw, ok := c.GetQuery("offset"); ok {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
