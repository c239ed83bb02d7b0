package dto

import "github.com/QuadricIT2018/az-conference-app-mvp/internal/model"

// ── 参会端（/app）DTO ──

// AppSessionsRequest 可见场次查询参数
type AppSessionsRequest struct {
	Date       string `form:"date"       binding:"omitempty,date10"`
	Favourites bool   `form:"favourites"`
}

// AppSessionDetailResponse 场次详情：含讲者、议题与收藏标记
type AppSessionDetailResponse struct {
	model.Session
	IsFavourite bool `json:"is_favourite"`
}

// FavouriteResponse 收藏操作结果
type FavouriteResponse struct {
	SessionID   string `json:"session_id"`
	IsFavourite bool   `json:"is_favourite"`
}

// AppSpeakerResponse 讲者详情及其公开场次
type AppSpeakerResponse struct {
	model.Speaker
	Sessions []model.Session `json:"sessions"`
}

// AppDepartmentResponse 公开的部门列表项
type AppDepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
