package model

// SessionTag 场次标签 — 对应 session_tags
type SessionTag struct {
	TagID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"tag_id"`
	Name  string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
}

// TableName 指定表名
func (SessionTag) TableName() string { return "session_tags" }

// SessionType 议题类型 — 对应 session_types
type SessionType struct {
	TypeID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"type_id"`
	Name   string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
}

// TableName 指定表名
func (SessionType) TableName() string { return "session_types" }
