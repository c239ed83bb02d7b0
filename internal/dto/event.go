package dto

import "github.com/QuadricIT2018/az-conference-app-mvp/internal/model"

// ── 活动模块 DTO ──

// EventListRequest 活动列表查询参数
type EventListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=draft published"`
}

// CreateEventRequest 创建活动请求
type CreateEventRequest struct {
	EventSlug           *string              `json:"event_slug"             binding:"omitempty,max=120"`
	PWAName             string               `json:"pwa_name"               binding:"required,min=1,max=120"`
	PWALogoURL          *string              `json:"pwa_logo_url"`
	EventName           string               `json:"event_name"             binding:"required,min=1,max=255"`
	EventDescription    *string              `json:"event_description"`
	Department          *string              `json:"department"             binding:"omitempty,max=1000"`
	EventLocation       *string              `json:"event_location"         binding:"omitempty,max=255"`
	EventLocationMapURL *string              `json:"event_location_map_url"`
	EventStartDate      string               `json:"event_start_date"       binding:"required,date10"`
	EventEndDate        string               `json:"event_end_date"         binding:"required,date10"`
	EventAppURL         *string              `json:"event_app_url"`
	Wifi                []model.WifiInfo     `json:"wifi"                   binding:"omitempty,dive"`
	Helpdesk            []model.HelpdeskInfo `json:"helpdesk"               binding:"omitempty,dive"`
	VenueMaps           []model.VenueMapInfo `json:"venue_maps"             binding:"omitempty,dive"`
	QuickLinks          []model.QuickLink    `json:"quick_links"            binding:"omitempty,dive"`
	EventBanners        *model.EventBanners  `json:"event_banners"`
	IsDraft             *bool                `json:"is_draft"`
}

// UpdateEventRequest 部分更新活动；version 为客户端读到的版本号
type UpdateEventRequest struct {
	Version             int     `json:"version"                binding:"required,min=1"`
	EventSlug           *string `json:"event_slug"             binding:"omitempty,max=120"`
	PWAName             *string `json:"pwa_name"               binding:"omitempty,min=1,max=120"`
	PWALogoURL          *string `json:"pwa_logo_url"`
	EventName           *string `json:"event_name"             binding:"omitempty,min=1,max=255"`
	EventDescription    *string `json:"event_description"`
	Department          *string `json:"department"             binding:"omitempty,max=1000"`
	EventLocation       *string `json:"event_location"         binding:"omitempty,max=255"`
	EventLocationMapURL *string `json:"event_location_map_url"`
	EventStartDate      *string `json:"event_start_date"       binding:"omitempty,date10"`
	EventEndDate        *string `json:"event_end_date"         binding:"omitempty,date10"`
	EventAppURL         *string `json:"event_app_url"`
	IsDraft             *bool   `json:"is_draft"`
}

// EventDetailResponse 活动详情（含统计）
type EventDetailResponse struct {
	model.Event
	SessionCount int64 `json:"session_count"`
	UpdateCount  int64 `json:"update_count"`
	DayCount     int64 `json:"day_count"`
}

// EventSessionsRequest 活动下场次查询参数
type EventSessionsRequest struct {
	Date string `form:"date" binding:"omitempty,date10"`
}

// ── 分区更新 ──

// UpdateWifiRequest 更新 WiFi 信息
type UpdateWifiRequest struct {
	Wifi []model.WifiInfo `json:"wifi" binding:"omitempty,dive"`
}

// UpdateHelpdeskRequest 更新服务台信息
type UpdateHelpdeskRequest struct {
	Helpdesk []model.HelpdeskInfo `json:"helpdesk" binding:"omitempty,dive"`
}

// UpdateVenueMapsRequest 更新场馆地图
type UpdateVenueMapsRequest struct {
	VenueMaps []model.VenueMapInfo `json:"venue_maps" binding:"omitempty,dive"`
}

// UpdateBannersRequest 更新横幅
type UpdateBannersRequest struct {
	EventBanners model.EventBanners `json:"event_banners"`
}

// UpdateQuickLinksRequest 更新快捷链接
type UpdateQuickLinksRequest struct {
	QuickLinks []model.QuickLink `json:"quick_links" binding:"omitempty,dive"`
}

// UpdateLogoRequest 更新 PWA 图标
type UpdateLogoRequest struct {
	PWALogoURL *string `json:"pwa_logo_url"`
}
