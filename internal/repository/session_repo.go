package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/model"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/visibility"
)

// VisibleSession 面向参会者的场次行：附带所属活动与收藏标记
type VisibleSession struct {
	model.Session
	EventSlug   *string `gorm:"column:event_slug"   json:"event_slug"`
	EventName   string  `gorm:"column:event_name"   json:"event_name"`
	IsFavourite bool    `gorm:"column:is_favourite" json:"is_favourite"`
}

// SessionQuery 可见场次查询条件
type SessionQuery struct {
	EventID        string
	Date           string // YYYY-MM-DD，空表示全部日期
	UserID         string // 用于计算 is_favourite
	Viewer         visibility.Viewer
	FavouritesOnly bool
}

// SessionRepository 场次数据访问接口
type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	// GetByID 预加载讲者、议题与所属活动
	GetByID(ctx context.Context, id string) (*model.Session, error)
	Update(ctx context.Context, s *model.Session) error
	Delete(ctx context.Context, id string) error
	// ListByEvent 管理端列表，不做可见性过滤；date 为空表示全部
	ListByEvent(ctx context.Context, eventID, date string) ([]model.Session, error)
	// ListVisible 按可见性条件过滤，并以 EXISTS 子查询标记收藏
	ListVisible(ctx context.Context, q SessionQuery) ([]VisibleSession, error)
	// ListDatedDescriptors 活动下全部场次的日期与可见性字段
	ListDatedDescriptors(ctx context.Context, eventID string) ([]visibility.DatedDescriptor, error)
	// ListBySpeaker 讲者在已发布活动中参与的场次
	ListBySpeaker(ctx context.Context, speakerID string) ([]model.Session, error)

	// ── 议题 ──
	ListTopics(ctx context.Context, sessionID string) ([]model.SessionTopic, error)
	GetTopic(ctx context.Context, sessionID, topicID string) (*model.SessionTopic, error)
	// CreateTopic 写入议题并置 has_topics = true
	CreateTopic(ctx context.Context, t *model.SessionTopic) error
	UpdateTopic(ctx context.Context, t *model.SessionTopic) error
	// DeleteTopic 删除议题并按剩余数量刷新 has_topics
	DeleteTopic(ctx context.Context, sessionID, topicID string) error

	// ── 讲者关联 ──
	AddSpeakers(ctx context.Context, sessionID string, speakerIDs []string) error
	RemoveSpeaker(ctx context.Context, sessionID, speakerID string) error
}

// sessionRepo SessionRepository 的 GORM 实现
type sessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo 创建 SessionRepository 实例
func NewSessionRepo(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, s *model.Session) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Speakers", func(db *gorm.DB) *gorm.DB { return db.Order("speaker_name ASC") }).
		Preload("Topics", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Where("session_id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) Update(ctx context.Context, s *model.Session) error {
	result := r.db.WithContext(ctx).
		Model(&model.Session{}).
		Where("session_id = ?", s.SessionID).
		Updates(map[string]interface{}{
			"event_id":                 s.EventID,
			"session_name":             s.SessionName,
			"session_description":      s.SessionDescription,
			"session_date":             s.SessionDate,
			"session_start_time":       s.SessionStartTime,
			"session_end_time":         s.SessionEndTime,
			"session_tag":              s.SessionTag,
			"session_location":         s.SessionLocation,
			"session_location_map_url": s.SessionLocationMapURL,
			"session_venue_map_url":    s.SessionVenueMapURL,
			"timezone":                 s.Timezone,
			"is_generic":               s.IsGeneric,
			"department":               s.Department,
			"is_dept_generic":          s.IsDeptGeneric,
			"team":                     s.Team,
			"updated_at":               gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("session_id = ?", id).
		Delete(&model.Session{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *sessionRepo) ListByEvent(ctx context.Context, eventID, date string) ([]model.Session, error) {
	var sessions []model.Session
	db := r.db.WithContext(ctx).
		Preload("Speakers").
		Where("event_id = ?", eventID)
	if date != "" {
		db = db.Where("session_date = ?", date)
	}
	err := db.Order("session_date ASC, session_start_time ASC").Find(&sessions).Error
	return sessions, err
}

const favouriteExists = "EXISTS (SELECT 1 FROM user_favourite_sessions f WHERE f.session_id = s.session_id AND f.user_id = ?)"

func (r *sessionRepo) ListVisible(ctx context.Context, q SessionQuery) ([]VisibleSession, error) {
	var rows []VisibleSession
	db := r.db.WithContext(ctx).
		Table("sessions AS s").
		Select("s.*, e.event_slug, e.event_name, "+favouriteExists+" AS is_favourite", q.UserID).
		Joins("JOIN events e ON e.event_id = s.event_id").
		Where("e.is_draft = ?", false).
		Where("s.event_id = ?", q.EventID).
		Scopes(q.Viewer.Condition("s").Apply)
	if q.Date != "" {
		db = db.Where("s.session_date = ?", q.Date)
	}
	if q.FavouritesOnly {
		db = db.Where(favouriteExists, q.UserID)
	}
	err := db.Order("s.session_date ASC, s.session_start_time ASC").Find(&rows).Error
	return rows, err
}

func (r *sessionRepo) ListDatedDescriptors(ctx context.Context, eventID string) ([]visibility.DatedDescriptor, error) {
	var sessions []model.Session
	err := r.db.WithContext(ctx).
		Select("session_id", "session_date", "is_generic", "department", "is_dept_generic", "team").
		Where("event_id = ?", eventID).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	items := make([]visibility.DatedDescriptor, len(sessions))
	for i := range sessions {
		items[i] = visibility.DatedDescriptor{
			Date:       sessions[i].SessionDate,
			Descriptor: sessions[i].Descriptor(),
		}
	}
	return items, nil
}

func (r *sessionRepo) ListBySpeaker(ctx context.Context, speakerID string) ([]model.Session, error) {
	var sessions []model.Session
	err := r.db.WithContext(ctx).
		Joins("JOIN session_speakers ss ON ss.session_id = sessions.session_id").
		Joins("JOIN events e ON e.event_id = sessions.event_id").
		Where("ss.speaker_id = ? AND e.is_draft = ?", speakerID, false).
		Order("sessions.session_date ASC, sessions.session_start_time ASC").
		Find(&sessions).Error
	return sessions, err
}

// ── 议题 ──

func (r *sessionRepo) ListTopics(ctx context.Context, sessionID string) ([]model.SessionTopic, error) {
	var topics []model.SessionTopic
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("name ASC").
		Find(&topics).Error
	return topics, err
}

func (r *sessionRepo) GetTopic(ctx context.Context, sessionID, topicID string) (*model.SessionTopic, error) {
	var t model.SessionTopic
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND topic_id = ?", sessionID, topicID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *sessionRepo) CreateTopic(ctx context.Context, t *model.SessionTopic) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		return tx.Model(&model.Session{}).
			Where("session_id = ?", t.SessionID).
			Update("has_topics", true).Error
	})
}

func (r *sessionRepo) UpdateTopic(ctx context.Context, t *model.SessionTopic) error {
	return r.db.WithContext(ctx).
		Model(&model.SessionTopic{}).
		Where("session_id = ? AND topic_id = ?", t.SessionID, t.TopicID).
		Updates(map[string]interface{}{
			"name":         t.Name,
			"location":     t.Location,
			"session_type": t.SessionType,
		}).Error
}

func (r *sessionRepo) DeleteTopic(ctx context.Context, sessionID, topicID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("session_id = ? AND topic_id = ?", sessionID, topicID).
			Delete(&model.SessionTopic{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		var remaining int64
		if err := tx.Model(&model.SessionTopic{}).
			Where("session_id = ?", sessionID).
			Count(&remaining).Error; err != nil {
			return err
		}
		return tx.Model(&model.Session{}).
			Where("session_id = ?", sessionID).
			Update("has_topics", remaining > 0).Error
	})
}

// ── 讲者关联 ──

func (r *sessionRepo) AddSpeakers(ctx context.Context, sessionID string, speakerIDs []string) error {
	if len(speakerIDs) == 0 {
		return nil
	}
	links := make([]model.SessionSpeaker, len(speakerIDs))
	for i, id := range speakerIDs {
		links[i] = model.SessionSpeaker{SessionID: sessionID, SpeakerID: id}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&links).Error
}

func (r *sessionRepo) RemoveSpeaker(ctx context.Context, sessionID, speakerID string) error {
	result := r.db.WithContext(ctx).
		Where("session_id = ? AND speaker_id = ?", sessionID, speakerID).
		Delete(&model.SessionSpeaker{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
