package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/dto"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/service"
	"github.com/QuadricIT2018/az-conference-app-mvp/pkg/response"
)

// DepartmentHandler 部门 / 小组 HTTP 处理器
type DepartmentHandler struct {
	deptSvc service.DepartmentService
}

// NewDepartmentHandler 创建 DepartmentHandler
func NewDepartmentHandler(deptSvc service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptSvc: deptSvc}
}

// ListDepartments 获取部门列表（含小组）
// GET /api/v1/admin/departments
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	depts, err := h.deptSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": depts})
}

// GetDepartment 获取部门详情
// GET /api/v1/admin/departments/:id
func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	dept, err := h.deptSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleDepartmentError(c, err)
		return
	}

	response.OK(c, dept)
}

// CreateDepartment 创建部门
// POST /api/v1/admin/departments
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req dto.CreateDepartmentRequest
	if !bindJSON(c, &req) {
		return
	}

	dept, err := h.deptSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleDepartmentError(c, err)
		return
	}

	response.Created(c, dept)
}

// UpdateDepartment 更新部门
// PUT /api/v1/admin/departments/:id
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	var req dto.UpdateDepartmentRequest
	if !bindJSON(c, &req) {
		return
	}

	dept, err := h.deptSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleDepartmentError(c, err)
		return
	}

	response.OK(c, dept)
}

// DeleteDepartment 删除部门
// DELETE /api/v1/admin/departments/:id
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	if err := h.deptSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleDepartmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 小组 ──

// ListTeams 小组列表，可按部门过滤
// GET /api/v1/admin/teams?department_id=
func (h *DepartmentHandler) ListTeams(c *gin.Context) {
	var req dto.TeamListRequest
	if !bindQuery(c, &req) {
		return
	}

	teams, err := h.deptSvc.ListTeams(c.Request.Context(), &req)
	if err != nil {
		handleDepartmentError(c, err)
		return
	}

	response.OK(c, gin.H{"list": teams})
}

// GetTeam 小组详情
// GET /api/v1/admin/teams/:id
func (h *DepartmentHandler) GetTeam(c *gin.Context) {
	team, err := h.deptSvc.GetTeam(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleDepartmentError(c, err)
		return
	}

	response.OK(c, team)
}

// CreateTeam 创建小组
// POST /api/v1/admin/teams
func (h *DepartmentHandler) CreateTeam(c *gin.Context) {
	var req dto.CreateTeamRequest
	if !bindJSON(c, &req) {
		return
	}

	team, err := h.deptSvc.CreateTeam(c.Request.Context(), &req)
	if err != nil {
		handleDepartmentError(c, err)
		return
	}

	response.Created(c, team)
}

// UpdateTeam 更新小组
// PUT /api/v1/admin/teams/:id
func (h *DepartmentHandler) UpdateTeam(c *gin.Context) {
	var req dto.UpdateTeamRequest
	if !bindJSON(c, &req) {
		return
	}

	team, err := h.deptSvc.UpdateTeam(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleDepartmentError(c, err)
		return
	}

	response.OK(c, team)
}

// DeleteTeam 删除小组
// DELETE /api/v1/admin/teams/:id
func (h *DepartmentHandler) DeleteTeam(c *gin.Context) {
	if err := h.deptSvc.DeleteTeam(c.Request.Context(), c.Param("id")); err != nil {
		handleDepartmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleDepartmentError 统一处理部门模块业务错误
func handleDepartmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 13001, "部门不存在")
	case errors.Is(err, service.ErrDepartmentNameExists):
		response.Conflict(c, 13002, "部门名称已存在")
	case errors.Is(err, service.ErrTeamNotFound):
		response.NotFound(c, 13003, "小组不存在")
	case errors.Is(err, service.ErrTeamNameExists):
		response.Conflict(c, 13004, "该部门下已存在同名小组")
	default:
		response.InternalError(c)
	}
}
