package http

import (
	"context"
	nethttp "net/http"
	"strconv"

	"PixelBattle/internal/battle/catalog"
	"PixelBattle/internal/battle/interfaces/handler"
	"PixelBattle/internal/battle/interfaces/handler/dto"
	"PixelBattle/internal/shared/transport"

	"github.com/gin-gonic/gin"
)

const maxReportLimit = 200

type HttpHandler struct {
	battle *handler.Battle
}

func NewHttpHandler(b *handler.Battle) *HttpHandler {
	return &HttpHandler{battle: b}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/health", h.Health)

	api := group.Group("/api")
	api.GET("/catalog", h.Catalog)
	api.GET("/state", h.State)
	api.GET("/reports", h.Reports)
}

// Health 保持与前端约定的返回体 {"ok":true}。
func (h *HttpHandler) Health(c *gin.Context) {
	c.JSON(nethttp.StatusOK, gin.H{"ok": true})
}

func (h *HttpHandler) Catalog(c *gin.Context) {
	h.ok(c, gin.H{
		"kinds": catalog.Kinds(),
		"unit":  catalog.All(),
	})
}

func (h *HttpHandler) State(c *gin.Context) {
	ctx := c.Request.Context()
	state, stats, err := h.battle.Service.Snapshot(ctx)
	if err != nil {
		h.handleErr(ctx, c, err)
		return
	}
	h.ok(c, gin.H{"state": state, "stats": stats})
}

func (h *HttpHandler) Reports(c *gin.Context) {
	ctx := c.Request.Context()
	limit := h.battle.ListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.fail(c, transport.InvalidParam, "参数有误")
			return
		}
		limit = n
	}
	if limit <= 0 || limit > maxReportLimit {
		limit = maxReportLimit
	}
	if h.battle.Reports == nil {
		h.fail(c, transport.SystemError, "战报服务未启用")
		return
	}

	reports, err := h.battle.Reports.List(ctx, limit)
	if err != nil {
		h.handleErr(ctx, c, err)
		return
	}
	h.ok(c, reports)
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, dto.Success(transport.OK, data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, dto.Error(code, msg))
}

func (h *HttpHandler) handleErr(ctx context.Context, c *gin.Context, err error) {
	code, msg := handler.HandleError(ctx, err)
	h.fail(c, code, msg)
}
