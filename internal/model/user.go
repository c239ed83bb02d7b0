package model

import "time"

// Attendee 参会者表 — 对应 attendees
//
// Department 为部门范围原文（NULL / "ALL" / "A,B"），读取后经 visibility.NewViewer 解析。
type Attendee struct {
	AttendeeID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendee_id"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null"                     json:"-"`
	Department   *string    `gorm:"type:varchar(255)"                              json:"department"`
	Team         *string    `gorm:"type:varchar(100)"                              json:"team"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Attendee) TableName() string { return "attendees" }

// Admin 管理员表 — 对应 admins
type Admin struct {
	AdminID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"admin_id"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Department   *string `gorm:"type:varchar(255)"                              json:"department"`
	BaseModel
}

// TableName 指定表名
func (Admin) TableName() string { return "admins" }
