package dto

// ── 场次标签 / 议题类型 DTO ──

// NameRequest 仅含名称的创建 / 重命名请求
type NameRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}
