package model

// Department 部门表 — 对应 departments
type Department struct {
	DepartmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	Name         string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	BaseModel

	// 关联
	Teams []Team `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"teams,omitempty"`
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }

// Team 小组表 — 对应 teams，隶属于某个部门
type Team struct {
	TeamID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"team_id"`
	DepartmentID string `gorm:"type:uuid;not null;index"                       json:"department_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	BaseModel

	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName 指定表名
func (Team) TableName() string { return "teams" }
