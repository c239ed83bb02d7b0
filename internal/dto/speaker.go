package dto

// ── 讲者模块 DTO ──

// SpeakerListRequest 讲者列表查询参数
type SpeakerListRequest struct {
	Search string `form:"search" binding:"omitempty,max=100"`
}

// CreateSpeakerRequest 创建讲者请求
type CreateSpeakerRequest struct {
	SpeakerName        string  `json:"speaker_name"        binding:"required,min=1,max=255"`
	SpeakerDesignation *string `json:"speaker_designation" binding:"omitempty,max=255"`
	SpeakerAbout       *string `json:"speaker_about"`
	SpeakerImageURL    *string `json:"speaker_image_url"`
	SpeakerOccupation  *string `json:"speaker_occupation"  binding:"omitempty,max=255"`
	Department         *string `json:"department"          binding:"omitempty,max=255"`
	Teams              *string `json:"teams"`
}

// UpdateSpeakerRequest 部分更新讲者
type UpdateSpeakerRequest struct {
	SpeakerName        *string `json:"speaker_name"        binding:"omitempty,min=1,max=255"`
	SpeakerDesignation *string `json:"speaker_designation" binding:"omitempty,max=255"`
	SpeakerAbout       *string `json:"speaker_about"`
	SpeakerImageURL    *string `json:"speaker_image_url"`
	SpeakerOccupation  *string `json:"speaker_occupation"  binding:"omitempty,max=255"`
	Department         *string `json:"department"          binding:"omitempty,max=255"`
	Teams              *string `json:"teams"`
}
