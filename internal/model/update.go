package model

import "time"

// ImportantUpdate 重要通知表 — 对应 important_updates
type ImportantUpdate struct {
	UpdateID       string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"update_id"`
	EventID        *string     `gorm:"type:uuid;index"                                json:"event_id"`
	Title          string      `gorm:"type:varchar(255);not null"                     json:"title"`
	Description    *string     `gorm:"type:text"                                      json:"description"`
	Links          StringArray `gorm:"type:text[]"                                    json:"links"`
	UpdateDateTime time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"update_date_time"`
	CreatedAt      time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (ImportantUpdate) TableName() string { return "important_updates" }
