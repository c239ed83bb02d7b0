package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/dto"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/service"
	"github.com/QuadricIT2018/az-conference-app-mvp/pkg/response"
)

// TaxonomyHandler 场次标签与议题类型 HTTP 处理器
type TaxonomyHandler struct {
	taxSvc service.TaxonomyService
}

// NewTaxonomyHandler 创建 TaxonomyHandler
func NewTaxonomyHandler(taxSvc service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{taxSvc: taxSvc}
}

// ────────────────────── 场次标签 ──────────────────────

// ListTags GET /api/v1/admin/session-tags
func (h *TaxonomyHandler) ListTags(c *gin.Context) {
	list, err := h.taxSvc.ListTags(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetTag GET /api/v1/admin/session-tags/:id
func (h *TaxonomyHandler) GetTag(c *gin.Context) {
	tag, err := h.taxSvc.GetTag(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleTaxonomyError(c, err)
		return
	}
	response.OK(c, tag)
}

// CreateTag POST /api/v1/admin/session-tags
func (h *TaxonomyHandler) CreateTag(c *gin.Context) {
	var req dto.NameRequest
	if !bindJSON(c, &req) {
		return
	}
	tag, err := h.taxSvc.CreateTag(c.Request.Context(), req.Name)
	if err != nil {
		handleTaxonomyError(c, err)
		return
	}
	response.Created(c, tag)
}

// RenameTag PUT /api/v1/admin/session-tags/:id
func (h *TaxonomyHandler) RenameTag(c *gin.Context) {
	var req dto.NameRequest
	if !bindJSON(c, &req) {
		return
	}
	tag, err := h.taxSvc.RenameTag(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		handleTaxonomyError(c, err)
		return
	}
	response.OK(c, tag)
}

// DeleteTag DELETE /api/v1/admin/session-tags/:id
func (h *TaxonomyHandler) DeleteTag(c *gin.Context) {
	if err := h.taxSvc.DeleteTag(c.Request.Context(), c.Param("id")); err != nil {
		handleTaxonomyError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 议题类型 ──────────────────────

// ListTypes GET /api/v1/admin/session-types
func (h *TaxonomyHandler) ListTypes(c *gin.Context) {
	list, err := h.taxSvc.ListTypes(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetType GET /api/v1/admin/session-types/:id
func (h *TaxonomyHandler) GetType(c *gin.Context) {
	typ, err := h.taxSvc.GetType(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleTaxonomyError(c, err)
		return
	}
	response.OK(c, typ)
}

// CreateType POST /api/v1/admin/session-types
func (h *TaxonomyHandler) CreateType(c *gin.Context) {
	var req dto.NameRequest
	if !bindJSON(c, &req) {
		return
	}
	typ, err := h.taxSvc.CreateType(c.Request.Context(), req.Name)
	if err != nil {
		handleTaxonomyError(c, err)
		return
	}
	response.Created(c, typ)
}

// RenameType PUT /api/v1/admin/session-types/:id
func (h *TaxonomyHandler) RenameType(c *gin.Context) {
	var req dto.NameRequest
	if !bindJSON(c, &req) {
		return
	}
	typ, err := h.taxSvc.RenameType(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		handleTaxonomyError(c, err)
		return
	}
	response.OK(c, typ)
}

// DeleteType DELETE /api/v1/admin/session-types/:id
func (h *TaxonomyHandler) DeleteType(c *gin.Context) {
	if err := h.taxSvc.DeleteType(c.Request.Context(), c.Param("id")); err != nil {
		handleTaxonomyError(c, err)
		return
	}
	response.OK(c, nil)
}

func handleTaxonomyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTagNotFound):
		response.NotFound(c, 17001, "场次标签不存在")
	case errors.Is(err, service.ErrTagExists):
		response.Conflict(c, 17002, "场次标签已存在")
	case errors.Is(err, service.ErrTypeNotFound):
		response.NotFound(c, 17003, "议题类型不存在")
	case errors.Is(err, service.ErrTypeExists):
		response.Conflict(c, 17004, "议题类型已存在")
	default:
		response.InternalError(c)
	}
}
