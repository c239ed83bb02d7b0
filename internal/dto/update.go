package dto

// ── 重要通知 DTO ──

// CreateUpdateRequest 发布通知请求；update_date_time 为 RFC3339 时间
type CreateUpdateRequest struct {
	Title          string   `json:"title"            binding:"required,min=1,max=255"`
	Description    *string  `json:"description"`
	Links          []string `json:"links"            binding:"omitempty,dive,max=2000"`
	UpdateDateTime string   `json:"update_date_time" binding:"required"`
}

// EditUpdateRequest 部分更新通知
type EditUpdateRequest struct {
	Title          *string   `json:"title"            binding:"omitempty,min=1,max=255"`
	Description    *string   `json:"description"`
	Links          *[]string `json:"links"`
	UpdateDateTime *string   `json:"update_date_time"`
}
