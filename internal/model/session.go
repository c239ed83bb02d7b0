package model

import (
	"gorm.io/gorm"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/eventday"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/visibility"
)

// Session 场次表 — 对应 sessions
//
// 可见性由 IsGeneric / Department / IsDeptGeneric / Team 四个字段决定，
// 判定规则见 visibility.Viewer.CanSee。
type Session struct {
	SessionID             string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	EventID               *string `gorm:"type:uuid;index"                                json:"event_id"`
	SessionName           string  `gorm:"type:varchar(255);not null"                     json:"session_name"`
	SessionDescription    *string `gorm:"type:text"                                      json:"session_description"`
	SessionDate           string  `gorm:"type:date;not null;index"                       json:"session_date"`
	SessionStartTime      string  `gorm:"type:varchar(10);not null"                      json:"session_start_time"`
	SessionEndTime        *string `gorm:"type:varchar(10)"                               json:"session_end_time"`
	SessionTag            *string `gorm:"type:varchar(100)"                              json:"session_tag"`
	SessionLocation       *string `gorm:"type:varchar(255)"                              json:"session_location"`
	SessionLocationMapURL *string `gorm:"column:session_location_map_url;type:text"      json:"session_location_map_url"`
	SessionVenueMapURL    *string `gorm:"column:session_venue_map_url;type:text"         json:"session_venue_map_url"`
	Timezone              *string `gorm:"type:varchar(64)"                               json:"timezone"`
	IsGeneric             bool    `gorm:"not null"                                       json:"is_generic"`
	Department            *string `gorm:"type:varchar(100)"                              json:"department"`
	IsDeptGeneric         bool    `gorm:"not null"                                       json:"is_dept_generic"`
	Team                  *string `gorm:"type:varchar(100)"                              json:"team"`
	HasTopics             bool    `gorm:"not null;default:false"                         json:"has_topics"`
	BaseModel

	// 关联
	Event    *Event         `gorm:"foreignKey:EventID;references:EventID"                                  json:"event,omitempty"`
	Speakers []Speaker      `gorm:"many2many:session_speakers;joinForeignKey:SessionID;joinReferences:SpeakerID" json:"speakers,omitempty"`
	Topics   []SessionTopic `gorm:"foreignKey:SessionID;references:SessionID"                              json:"topics,omitempty"`
}

// TableName 指定表名
func (Session) TableName() string { return "sessions" }

// AfterFind 截取日期
func (s *Session) AfterFind(tx *gorm.DB) error {
	s.SessionDate = eventday.NormalizeDate(s.SessionDate)
	return nil
}

// Descriptor 提取可见性判定所需字段
func (s *Session) Descriptor() visibility.Descriptor {
	return visibility.Descriptor{
		IsGeneric:     s.IsGeneric,
		Department:    s.Department,
		IsDeptGeneric: s.IsDeptGeneric,
		Team:          s.Team,
	}
}

// SessionTopic 场次议题表 — 对应 session_topics
type SessionTopic struct {
	TopicID     string  `gorm:"column:topic_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"topic_id"`
	SessionID   string  `gorm:"type:uuid;not null;index"                                       json:"session_id"`
	Name        string  `gorm:"type:varchar(255);not null"                                     json:"name"`
	Location    *string `gorm:"type:varchar(255)"                                              json:"location"`
	SessionType *string `gorm:"type:varchar(100)"                                              json:"session_type"`
}

// TableName 指定表名
func (SessionTopic) TableName() string { return "session_topics" }

// SessionSpeaker 场次-讲者关联表 — 对应 session_speakers
type SessionSpeaker struct {
	SessionID string `gorm:"type:uuid;primaryKey" json:"session_id"`
	SpeakerID string `gorm:"type:uuid;primaryKey" json:"speaker_id"`
}

// TableName 指定表名
func (SessionSpeaker) TableName() string { return "session_speakers" }
