package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/dto"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/model"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/service"
	"github.com/QuadricIT2018/az-conference-app-mvp/pkg/response"
)

// EventHandler 活动管理 HTTP 处理器
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler 创建 EventHandler
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// ListEvents 活动列表，可按 status=draft|published 过滤
// GET /api/v1/admin/events
func (h *EventHandler) ListEvents(c *gin.Context) {
	var req dto.EventListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, total, err := h.eventSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetEvent 活动详情（含场次 / 通知 / 活动日数量）
// GET /api/v1/admin/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// CreateEvent 创建活动
// POST /api/v1/admin/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleEventError(c, err)
		return
	}

	response.Created(c, event)
}

// UpdateEvent 部分更新活动（乐观锁）
// PUT /api/v1/admin/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req dto.UpdateEventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.eventSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// DeleteEvent 删除活动
// DELETE /api/v1/admin/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.eventSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleEventError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListDays 活动日
// GET /api/v1/admin/events/:id/days
func (h *EventHandler) ListDays(c *gin.Context) {
	days, err := h.eventSvc.ListDays(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleEventError(c, err)
		return
	}

	response.OK(c, gin.H{"list": days})
}

// ListSessions 活动下全部场次（不做可见性过滤）
// GET /api/v1/admin/events/:id/sessions?date=
func (h *EventHandler) ListSessions(c *gin.Context) {
	var req dto.EventSessionsRequest
	if !bindQuery(c, &req) {
		return
	}

	list, err := h.eventSvc.ListSessions(c.Request.Context(), c.Param("id"), req.Date)
	if err != nil {
		handleEventError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ── 信息块分区更新 ──

// UpdateWifi PUT /api/v1/admin/events/:id/wifi
func (h *EventHandler) UpdateWifi(c *gin.Context) {
	updateSection(c, h.eventSvc.UpdateWifi)
}

// UpdateHelpdesk PUT /api/v1/admin/events/:id/helpdesk
func (h *EventHandler) UpdateHelpdesk(c *gin.Context) {
	updateSection(c, h.eventSvc.UpdateHelpdesk)
}

// UpdateVenueMaps PUT /api/v1/admin/events/:id/venue-maps
func (h *EventHandler) UpdateVenueMaps(c *gin.Context) {
	updateSection(c, h.eventSvc.UpdateVenueMaps)
}

// UpdateBanners PUT /api/v1/admin/events/:id/banners
func (h *EventHandler) UpdateBanners(c *gin.Context) {
	updateSection(c, h.eventSvc.UpdateBanners)
}

// UpdateQuickLinks PUT /api/v1/admin/events/:id/quick-links
func (h *EventHandler) UpdateQuickLinks(c *gin.Context) {
	updateSection(c, h.eventSvc.UpdateQuickLinks)
}

// UpdateLogo PUT /api/v1/admin/events/:id/logo
func (h *EventHandler) UpdateLogo(c *gin.Context) {
	updateSection(c, h.eventSvc.UpdateLogo)
}

// updateSection 绑定分区请求体并调用对应的更新方法
func updateSection[T any](c *gin.Context, fn func(context.Context, string, *T) (*model.Event, error)) {
	var req T
	if !bindJSON(c, &req) {
		return
	}

	event, err := fn(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

func handleEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 14001, "活动不存在")
	case errors.Is(err, service.ErrSlugExists):
		response.Conflict(c, 14002, "活动标识已被使用")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 14003, "结束日期不能早于开始日期")
	case errors.Is(err, service.ErrEventConflict):
		response.Conflict(c, 14004, "活动已被他人修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
