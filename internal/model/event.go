package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/eventday"
)

// ── 活动信息块（JSONB） ──

// WifiInfo WiFi 信息
type WifiInfo struct {
	Title        string `json:"title"`
	Desc         string `json:"desc"`
	WifiName     string `json:"wifi_name"`
	WifiPassword string `json:"wifi_password"`
}

// HelpdeskInfo 服务台信息
type HelpdeskInfo struct {
	Title          string   `json:"title"`
	Desc           string   `json:"desc"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
	ContactNumbers []string `json:"contact_numbers"`
	ContactEmails  []string `json:"contact_emails"`
}

// VenueMapInfo 场馆地图
type VenueMapInfo struct {
	Title   string `json:"title"`
	FileURL string `json:"file_url"`
}

// QuickLink 快捷链接
type QuickLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// BannerEntry 单个尺寸的横幅
type BannerEntry struct {
	FileURL      string `json:"file_url"`
	OriginalName string `json:"original_name"`
}

// EventBanners 按终端尺寸区分的横幅
type EventBanners struct {
	Mobile  *BannerEntry `json:"mobile,omitempty"`
	Tablet  *BannerEntry `json:"tablet,omitempty"`
	Desktop *BannerEntry `json:"desktop,omitempty"`
}

// Event 活动表 — 对应 events
//
// 起止日期按 YYYY-MM-DD 文本读写，避免驱动按时区换算。
type Event struct {
	EventID             string                            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	EventSlug           *string                           `gorm:"type:varchar(120);uniqueIndex"                  json:"event_slug"`
	PWAName             string                            `gorm:"column:pwa_name;type:varchar(120);not null"     json:"pwa_name"`
	PWALogoURL          *string                           `gorm:"column:pwa_logo_url;type:text"                  json:"pwa_logo_url"`
	EventName           string                            `gorm:"type:varchar(255);not null"                     json:"event_name"`
	EventDescription    *string                           `gorm:"type:text"                                      json:"event_description"`
	Department          *string                           `gorm:"type:varchar(255)"                              json:"department"`
	EventLocation       *string                           `gorm:"type:varchar(255)"                              json:"event_location"`
	EventLocationMapURL *string                           `gorm:"column:event_location_map_url;type:text"        json:"event_location_map_url"`
	EventStartDate      string                            `gorm:"type:date;not null"                             json:"event_start_date"`
	EventEndDate        string                            `gorm:"type:date;not null"                             json:"event_end_date"`
	EventAppURL         *string                           `gorm:"column:event_app_url;type:text"                 json:"event_app_url"`
	Wifi                datatypes.JSONSlice[WifiInfo]     `gorm:"type:jsonb;not null;default:'[]'"               json:"wifi"`
	Helpdesk            datatypes.JSONSlice[HelpdeskInfo] `gorm:"type:jsonb;not null;default:'[]'"               json:"helpdesk"`
	VenueMaps           datatypes.JSONSlice[VenueMapInfo] `gorm:"type:jsonb;not null;default:'[]'"               json:"venue_maps"`
	QuickLinks          datatypes.JSONSlice[QuickLink]    `gorm:"type:jsonb;not null;default:'[]'"               json:"quick_links"`
	EventBanners        datatypes.JSONType[EventBanners]  `gorm:"type:jsonb;not null;default:'{}'"               json:"event_banners"`
	IsDraft             bool                              `gorm:"not null"                                       json:"is_draft"`
	CreatedBy           *string                           `gorm:"type:uuid"                                      json:"created_by,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (Event) TableName() string { return "events" }

// AfterFind 驱动可能把 date 列读成完整时间戳，统一截为 YYYY-MM-DD
func (e *Event) AfterFind(tx *gorm.DB) error {
	e.EventStartDate = eventday.NormalizeDate(e.EventStartDate)
	e.EventEndDate = eventday.NormalizeDate(e.EventEndDate)
	return nil
}

// EventDay 活动日表 — 对应 event_days，由起止日期生成
type EventDay struct {
	EventDayID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_day_id"`
	EventID    string `gorm:"type:uuid;not null;uniqueIndex:uq_event_day"    json:"event_id"`
	DayNumber  int    `gorm:"not null"                                       json:"day_number"`
	DayDate    string `gorm:"type:date;not null;uniqueIndex:uq_event_day"    json:"day_date"`
}

// TableName 指定表名
func (EventDay) TableName() string { return "event_days" }

// AfterFind 截取日期
func (d *EventDay) AfterFind(tx *gorm.DB) error {
	d.DayDate = eventday.NormalizeDate(d.DayDate)
	return nil
}
