package dto

// ── 参会者 DTO ──

// AttendeeListRequest 参会者列表查询参数
type AttendeeListRequest struct {
	PaginationRequest
	Search     string `form:"search"     binding:"omitempty,max=100"`
	Department string `form:"department" binding:"omitempty,max=255"`
}

// CreateAttendeeRequest 创建参会者请求
//
// department 为逗号分隔的部门列表或 "ALL"。
type CreateAttendeeRequest struct {
	Email      string  `json:"email"      binding:"required,email,max=255"`
	Password   string  `json:"password"   binding:"required,min=6,max=72"`
	Department *string `json:"department" binding:"omitempty,max=1000"`
	Team       *string `json:"team"       binding:"omitempty,max=255"`
}

// UpdateAttendeeRequest 更新参会者请求；字段缺省表示不修改，空串表示清空
type UpdateAttendeeRequest struct {
	Email      *string `json:"email"      binding:"omitempty,email,max=255"`
	Department *string `json:"department" binding:"omitempty,max=1000"`
	Team       *string `json:"team"       binding:"omitempty,max=255"`
}

// AttendeeResponse 参会者信息
type AttendeeResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Department *string `json:"department"`
	Team       *string `json:"team"`
	LastLogin  *string `json:"last_login"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

// DepartmentCountResponse 单个部门字段取值下的人数
type DepartmentCountResponse struct {
	Department *string `json:"department"`
	Count      int64   `json:"count"`
}

// AttendeeStatsResponse 参会者统计
type AttendeeStatsResponse struct {
	Total        int64                     `json:"total"`
	ActiveRecent int64                     `json:"active_last_7_days"`
	ByDepartment []DepartmentCountResponse `json:"by_department"`
}

// ── 管理员 DTO ──

// CreateAdminRequest 创建管理员请求
type CreateAdminRequest struct {
	Email      string  `json:"email"      binding:"required,email,max=255"`
	Password   string  `json:"password"   binding:"required,min=6,max=72"`
	Department *string `json:"department" binding:"omitempty,max=1000"`
}

// UpdateAdminRequest 更新管理员请求
type UpdateAdminRequest struct {
	Email      *string `json:"email"      binding:"omitempty,email,max=255"`
	Department *string `json:"department" binding:"omitempty,max=1000"`
}

// AdminResponse 管理员信息
type AdminResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Department *string `json:"department"`
	CreatedAt  string  `json:"created_at"`
}

// ── 个人资料（/app/profile） ──

// UpdateProfileRequest 参会者修改自己的部门 / 小组
type UpdateProfileRequest struct {
	Department *string `json:"department" binding:"omitempty,max=1000"`
	Team       *string `json:"team"       binding:"omitempty,max=255"`
}

// TeamMemberResponse 同组成员
type TeamMemberResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Department *string `json:"department"`
	Team       *string `json:"team"`
}

// ── 批量导入 ──

// ImportAttendeeResponse Excel 批量导入结果
type ImportAttendeeResponse struct {
	Total       int                `json:"total"`
	Success     int                `json:"success"`
	Failed      int                `json:"failed"`
	Errors      []ImportRowError   `json:"errors,omitempty"`
	Credentials []ImportCredential `json:"credentials,omitempty"` // 未提供密码的行生成的临时密码
}

// ImportRowError 导入错误详情
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportCredential 导入时生成的临时密码
type ImportCredential struct {
	Row          int    `json:"row"`
	Email        string `json:"email"`
	TempPassword string `json:"temp_password"`
}

// ResetPasswordResponse 重置密码响应
type ResetPasswordResponse struct {
	TempPassword string `json:"temp_password"`
}
