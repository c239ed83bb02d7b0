package model

import "time"

// UserFavouriteSession 收藏记录表 — 对应 user_favourite_sessions
//
// (user_id, session_id) 唯一；记录存在即表示已收藏。
type UserFavouriteSession struct {
	FavouriteID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"favourite_id"`
	UserID      string    `gorm:"type:uuid;not null;uniqueIndex:uq_user_session" json:"user_id"`
	SessionID   string    `gorm:"type:uuid;not null;uniqueIndex:uq_user_session" json:"session_id"`
	EventID     string    `gorm:"type:uuid;not null"                             json:"event_id"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (UserFavouriteSession) TableName() string { return "user_favourite_sessions" }
