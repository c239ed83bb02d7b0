package dto

import "github.com/QuadricIT2018/az-conference-app-mvp/internal/model"

// ── 场次模块 DTO ──

// CreateSessionRequest 创建场次请求
//
// is_generic / is_dept_generic 缺省为 true。
type CreateSessionRequest struct {
	EventID               string   `json:"event_id"                 binding:"required,uuid"`
	SessionName           string   `json:"session_name"             binding:"required,min=1,max=255"`
	SessionDescription    *string  `json:"session_description"`
	SessionDate           string   `json:"session_date"             binding:"required,date10"`
	SessionStartTime      string   `json:"session_start_time"       binding:"required,max=10"`
	SessionEndTime        *string  `json:"session_end_time"         binding:"omitempty,max=10"`
	SessionTag            *string  `json:"session_tag"              binding:"omitempty,max=100"`
	SessionLocation       *string  `json:"session_location"         binding:"omitempty,max=255"`
	SessionLocationMapURL *string  `json:"session_location_map_url"`
	SessionVenueMapURL    *string  `json:"session_venue_map_url"`
	Timezone              *string  `json:"timezone"                 binding:"omitempty,max=64"`
	IsGeneric             *bool    `json:"is_generic"`
	Department            *string  `json:"department"               binding:"omitempty,max=100"`
	IsDeptGeneric         *bool    `json:"is_dept_generic"`
	Team                  *string  `json:"team"                     binding:"omitempty,max=100"`
	SpeakerIDs            []string `json:"speaker_ids"              binding:"omitempty,dive,uuid"`
}

// UpdateSessionRequest 部分更新场次
type UpdateSessionRequest struct {
	SessionName           *string `json:"session_name"             binding:"omitempty,min=1,max=255"`
	SessionDescription    *string `json:"session_description"`
	SessionDate           *string `json:"session_date"             binding:"omitempty,date10"`
	SessionStartTime      *string `json:"session_start_time"       binding:"omitempty,max=10"`
	SessionEndTime        *string `json:"session_end_time"         binding:"omitempty,max=10"`
	SessionTag            *string `json:"session_tag"              binding:"omitempty,max=100"`
	SessionLocation       *string `json:"session_location"         binding:"omitempty,max=255"`
	SessionLocationMapURL *string `json:"session_location_map_url"`
	SessionVenueMapURL    *string `json:"session_venue_map_url"`
	Timezone              *string `json:"timezone"                 binding:"omitempty,max=64"`
	IsGeneric             *bool   `json:"is_generic"`
	Department            *string `json:"department"               binding:"omitempty,max=100"`
	IsDeptGeneric         *bool   `json:"is_dept_generic"`
	Team                  *string `json:"team"                     binding:"omitempty,max=100"`
}

// SessionResponse 场次详情；warnings 为可见性配置提示，仅管理端返回
type SessionResponse struct {
	model.Session
	Warnings []string `json:"warnings,omitempty"`
}

// ── 议题 ──

// CreateTopicRequest 创建议题请求
type CreateTopicRequest struct {
	Name        string  `json:"name"         binding:"required,min=1,max=255"`
	Location    *string `json:"location"     binding:"omitempty,max=255"`
	SessionType *string `json:"session_type" binding:"omitempty,max=100"`
}

// UpdateTopicRequest 更新议题请求
type UpdateTopicRequest struct {
	Name        *string `json:"name"         binding:"omitempty,min=1,max=255"`
	Location    *string `json:"location"     binding:"omitempty,max=255"`
	SessionType *string `json:"session_type" binding:"omitempty,max=100"`
}

// ── 讲者分配 ──

// AssignSpeakersRequest 为场次分配讲者
type AssignSpeakersRequest struct {
	SpeakerIDs []string `json:"speaker_ids" binding:"required,min=1,dive,uuid"`
}
