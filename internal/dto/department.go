package dto

// ── 部门模块 DTO ──

// CreateDepartmentRequest 创建部门请求，可同时创建初始小组
type CreateDepartmentRequest struct {
	Name  string   `json:"name"  binding:"required,min=1,max=100"`
	Teams []string `json:"teams" binding:"omitempty,dive,required,max=100"`
}

// UpdateDepartmentRequest 更新部门请求
type UpdateDepartmentRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=100"`
}

// DepartmentResponse 部门信息（含小组）
type DepartmentResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Teams     []TeamResponse `json:"teams"`
	CreatedAt string         `json:"created_at,omitempty"`
	UpdatedAt string         `json:"updated_at,omitempty"`
}

// ── 小组 ──

// TeamListRequest 小组列表查询参数
type TeamListRequest struct {
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
}

// CreateTeamRequest 创建小组请求
type CreateTeamRequest struct {
	DepartmentID string `json:"department_id" binding:"required,uuid"`
	Name         string `json:"name"          binding:"required,min=1,max=100"`
}

// UpdateTeamRequest 更新小组请求
type UpdateTeamRequest struct {
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	Name         *string `json:"name"          binding:"omitempty,min=1,max=100"`
}

// TeamResponse 小组信息
type TeamResponse struct {
	ID             string `json:"id"`
	DepartmentID   string `json:"department_id"`
	DepartmentName string `json:"department_name,omitempty"`
	Name           string `json:"name"`
}
