package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/dto"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/service"
	"github.com/QuadricIT2018/az-conference-app-mvp/pkg/response"
)

// UpdateHandler 重要通知 HTTP 处理器
type UpdateHandler struct {
	updateSvc service.UpdateService
}

// NewUpdateHandler 创建 UpdateHandler
func NewUpdateHandler(updateSvc service.UpdateService) *UpdateHandler {
	return &UpdateHandler{updateSvc: updateSvc}
}

// ListUpdates GET /api/v1/admin/events/:id/updates
func (h *UpdateHandler) ListUpdates(c *gin.Context) {
	list, err := h.updateSvc.ListByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleUpdateError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// CreateUpdate POST /api/v1/admin/events/:id/updates
func (h *UpdateHandler) CreateUpdate(c *gin.Context) {
	var req dto.CreateUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.updateSvc.Create(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleUpdateError(c, err)
		return
	}

	response.Created(c, u)
}

// GetUpdate GET /api/v1/admin/updates/:id
func (h *UpdateHandler) GetUpdate(c *gin.Context) {
	u, err := h.updateSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleUpdateError(c, err)
		return
	}

	response.OK(c, u)
}

// EditUpdate PUT /api/v1/admin/updates/:id
func (h *UpdateHandler) EditUpdate(c *gin.Context) {
	var req dto.EditUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.updateSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleUpdateError(c, err)
		return
	}

	response.OK(c, u)
}

// DeleteUpdate DELETE /api/v1/admin/updates/:id
func (h *UpdateHandler) DeleteUpdate(c *gin.Context) {
	if err := h.updateSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleUpdateError(c, err)
		return
	}

	response.OK(c, nil)
}

func handleUpdateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 14001, "活动不存在")
	case errors.Is(err, service.ErrUpdateNotFound):
		response.NotFound(c, 18001, "通知不存在")
	case errors.Is(err, service.ErrInvalidUpdateTime):
		response.BadRequest(c, 18002, "发布时间格式错误，应为 RFC3339")
	default:
		response.InternalError(c)
	}
}
