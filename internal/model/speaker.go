package model

// Speaker 讲者表 — 对应 speakers
type Speaker struct {
	SpeakerID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"speaker_id"`
	SpeakerName        string  `gorm:"type:varchar(255);not null"                     json:"speaker_name"`
	SpeakerDesignation *string `gorm:"type:varchar(255)"                              json:"speaker_designation"`
	SpeakerAbout       *string `gorm:"type:text"                                      json:"speaker_about"`
	SpeakerImageURL    *string `gorm:"column:speaker_image_url;type:text"             json:"speaker_image_url"`
	SpeakerOccupation  *string `gorm:"type:varchar(255)"                              json:"speaker_occupation"`
	Department         *string `gorm:"type:varchar(100)"                              json:"department"`
	Teams              *string `gorm:"type:varchar(255)"                              json:"teams"`
	BaseModel
}

// TableName 指定表名
func (Speaker) TableName() string { return "speakers" }
