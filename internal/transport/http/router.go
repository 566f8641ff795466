package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Gunvolt24/medialist/internal/domain"
	"github.com/Gunvolt24/medialist/internal/ports"
	"github.com/Gunvolt24/medialist/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Handler — HTTP-обработчики поверх порта чтения оконного списка.
type Handler struct {
	list    ports.ListReader
	log     ports.Logger
	timeout time.Duration
}

// NewHandler — конструктор. timeout <= 0 отключает пер-запросный дедлайн.
func NewHandler(list ports.ListReader, log ports.Logger, timeout time.Duration) *Handler {
	return &Handler{list: list, log: log, timeout: timeout}
}

// NewRouter — собирает gin-роутер: recovery, request-id, логирование,
// трейсинг (при заданном имени сервиса) и маршруты каталога.
func NewRouter(h *Handler, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	catalog := r.Group("/catalog")
	{
		catalog.GET("/count", h.getCount)
		catalog.GET("/state", h.getState)
		catalog.GET("/items", h.listItems)
		catalog.GET("/items/:id", h.getItemByID)
		catalog.POST("/refresh", h.refresh)
	}

	return r
}

// requestContext — контекст запроса с опциональным таймаутом обработчика.
func (h *Handler) requestContext(c *gin.Context) (ctx context.Context, cancel func()) {
	ctx = c.Request.Context()
	if h.timeout > 0 {
		return context.WithTimeout(ctx, h.timeout)
	}
	return ctx, func() {}
}

func (h *Handler) getCount(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	total, maximum, err := h.list.Counts(ctx)
	if err != nil {
		h.log.Errorf(ctx, "counts failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": total, "maximum_count": maximum})
}

func (h *Handler) getState(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	state, err := h.list.State(ctx)
	if err != nil {
		h.log.Errorf(ctx, "state failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": state})
}

// listItems — окно [offset, offset+limit). Недогруженные строки отдаются
// как null: повторный запрос через короткое время вернёт их заполненными.
func (h *Handler) listItems(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	limit, offset := httpx.ParseLimitOffset(c, 20, 100)

	items, total, err := h.list.Rows(ctx, offset, limit)
	if err != nil {
		h.log.Errorf(ctx, "rows failed offset=%d limit=%d err=%v", offset, limit, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  total,
		"offset": offset,
		"items":  items,
	})
}

func (h *Handler) getItemByID(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	parent := int64(0)
	if raw := c.Query("parent_id"); raw != "" {
		parent, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || parent < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parent_id"})
			return
		}
	}

	item, err := h.list.ItemByID(ctx, domain.ItemID{ID: id, ParentID: parent})
	if err != nil {
		h.log.Errorf(ctx, "item by id failed id=%d err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *Handler) refresh(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.list.Refresh(ctx); err != nil {
		h.log.Errorf(ctx, "refresh failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "refreshing"})
}
