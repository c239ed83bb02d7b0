package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/dto"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/service"
	"github.com/QuadricIT2018/az-conference-app-mvp/pkg/response"
)

// UserHandler 参会者与管理员账号 HTTP 处理器
type UserHandler struct {
	attendeeSvc service.AttendeeService
	adminSvc    service.AdminService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(attendeeSvc service.AttendeeService, adminSvc service.AdminService) *UserHandler {
	return &UserHandler{attendeeSvc: attendeeSvc, adminSvc: adminSvc}
}

// ────────────────────── 参会者 ──────────────────────

// ListAttendees 参会者列表（分页，按邮箱搜索、按部门过滤）
// GET /api/v1/admin/attendees
func (h *UserHandler) ListAttendees(c *gin.Context) {
	var req dto.AttendeeListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, total, err := h.attendeeSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// AttendeeStats 参会者统计
// GET /api/v1/admin/attendees/stats
func (h *UserHandler) AttendeeStats(c *gin.Context) {
	stats, err := h.attendeeSvc.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, stats)
}

// GetAttendee 参会者详情
// GET /api/v1/admin/attendees/:id
func (h *UserHandler) GetAttendee(c *gin.Context) {
	a, err := h.attendeeSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, a)
}

// CreateAttendee 创建参会者
// POST /api/v1/admin/attendees
func (h *UserHandler) CreateAttendee(c *gin.Context) {
	var req dto.CreateAttendeeRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.attendeeSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.Created(c, a)
}

// UpdateAttendee 更新参会者
// PUT /api/v1/admin/attendees/:id
func (h *UserHandler) UpdateAttendee(c *gin.Context) {
	var req dto.UpdateAttendeeRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.attendeeSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, a)
}

// DeleteAttendee 删除参会者
// DELETE /api/v1/admin/attendees/:id
func (h *UserHandler) DeleteAttendee(c *gin.Context) {
	if err := h.attendeeSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, nil)
}

// ResetPassword 重置参会者密码，返回一次性临时密码
// POST /api/v1/admin/attendees/:id/reset-password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	result, err := h.attendeeSvc.ResetPassword(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, result)
}

// ImportAttendees Excel 批量导入参会者
// POST /api/v1/admin/attendees/import  multipart/form-data, field="file"
func (h *UserHandler) ImportAttendees(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 12005, "请上传 Excel 文件")
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".xlsx" {
		response.BadRequest(c, 12005, "仅支持 .xlsx 文件")
		return
	}

	rows, err := h.attendeeSvc.ParseImportFile(file)
	if err != nil {
		handleUserError(c, err)
		return
	}

	result, err := h.attendeeSvc.Import(c.Request.Context(), rows)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, result)
}

// ────────────────────── 管理员 ──────────────────────

// ListAdmins 管理员列表
// GET /api/v1/admin/admins
func (h *UserHandler) ListAdmins(c *gin.Context) {
	list, err := h.adminSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetAdmin 管理员详情
// GET /api/v1/admin/admins/:id
func (h *UserHandler) GetAdmin(c *gin.Context) {
	a, err := h.adminSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, a)
}

// CreateAdmin 创建管理员
// POST /api/v1/admin/admins
func (h *UserHandler) CreateAdmin(c *gin.Context) {
	var req dto.CreateAdminRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.adminSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.Created(c, a)
}

// UpdateAdmin 更新管理员
// PUT /api/v1/admin/admins/:id
func (h *UserHandler) UpdateAdmin(c *gin.Context) {
	var req dto.UpdateAdminRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.adminSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, a)
}

// DeleteAdmin 删除管理员（不能删除自己）
// DELETE /api/v1/admin/admins/:id
func (h *UserHandler) DeleteAdmin(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.adminSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, nil)
}

func handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAttendeeNotFound):
		response.NotFound(c, 12001, "参会者不存在")
	case errors.Is(err, service.ErrAdminNotFound):
		response.NotFound(c, 12002, "管理员不存在")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 12003, "邮箱已被使用")
	case errors.Is(err, service.ErrAdminSelfDelete):
		response.BadRequest(c, 12004, "不能删除自己")
	case errors.Is(err, service.ErrImportNoData),
		errors.Is(err, service.ErrImportTooManyRows),
		errors.Is(err, service.ErrImportBadHeader):
		response.BadRequest(c, 12005, err.Error())
	case errors.Is(err, service.ErrImportBadFile):
		response.ErrorWithDetails(c, http.StatusBadRequest, 12005, "文件不是有效的 Excel", err.Error())
	default:
		response.InternalError(c)
	}
}
