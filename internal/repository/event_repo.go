package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/eventday"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/model"
	pkgerrors "github.com/QuadricIT2018/az-conference-app-mvp/pkg/errors"
)

// 活动状态筛选
const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
)

// EventFilter 活动列表筛选条件
type EventFilter struct {
	Status string // draft | published | 空表示全部
	Page
}

// EventCounts 活动下属数据计数
type EventCounts struct {
	Sessions int64 `json:"session_count"`
	Updates  int64 `json:"update_count"`
	Days     int64 `json:"day_count"`
}

// EventRepository 活动数据访问接口
type EventRepository interface {
	Create(ctx context.Context, e *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	// GetPublishedBySlug 只返回已发布的活动
	GetPublishedBySlug(ctx context.Context, slug string) (*model.Event, error)
	List(ctx context.Context, f EventFilter) ([]model.Event, int64, error)
	// Update 带乐观锁的整行更新，version 不匹配返回 ErrOptimisticLock
	Update(ctx context.Context, e *model.Event) error
	// UpdateColumns 信息块等局部字段更新，不参与乐观锁
	UpdateColumns(ctx context.Context, id string, cols map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	Counts(ctx context.Context, id string) (*EventCounts, error)

	// ── 活动日 ──
	ListDays(ctx context.Context, eventID string) ([]model.EventDay, error)
	// ReplaceDays 在一个事务内删除旧活动日并写入新序列
	ReplaceDays(ctx context.Context, eventID string, days []eventday.Day) error
}

// eventRepo EventRepository 的 GORM 实现
type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo 创建 EventRepository 实例
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, e *model.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	err := r.db.WithContext(ctx).
		Where("event_id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepo) GetPublishedBySlug(ctx context.Context, slug string) (*model.Event, error) {
	var e model.Event
	err := r.db.WithContext(ctx).
		Where("event_slug = ? AND is_draft = ?", slug, false).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepo) List(ctx context.Context, f EventFilter) ([]model.Event, int64, error) {
	var events []model.Event
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Event{})
	switch f.Status {
	case EventStatusDraft:
		db = db.Where("is_draft = ?", true)
	case EventStatusPublished:
		db = db.Where("is_draft = ?", false)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.Order("event_start_date DESC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepo) Update(ctx context.Context, e *model.Event) error {
	oldVersion := e.Version
	result := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("event_id = ? AND version = ?", e.EventID, oldVersion).
		Updates(map[string]interface{}{
			"event_slug":             e.EventSlug,
			"pwa_name":               e.PWAName,
			"pwa_logo_url":           e.PWALogoURL,
			"event_name":             e.EventName,
			"event_description":      e.EventDescription,
			"department":             e.Department,
			"event_location":         e.EventLocation,
			"event_location_map_url": e.EventLocationMapURL,
			"event_start_date":       e.EventStartDate,
			"event_end_date":         e.EventEndDate,
			"event_app_url":          e.EventAppURL,
			"is_draft":               e.IsDraft,
			"version":                oldVersion + 1,
			"updated_at":             gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	e.Version = oldVersion + 1
	return nil
}

func (r *eventRepo) UpdateColumns(ctx context.Context, id string, cols map[string]interface{}) error {
	cols["updated_at"] = gorm.Expr("NOW()")
	result := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("event_id = ?", id).
		Updates(cols)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 硬删除，活动日/场次/通知/收藏随外键级联删除
func (r *eventRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("event_id = ?", id).
		Delete(&model.Event{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *eventRepo) Counts(ctx context.Context, id string) (*EventCounts, error) {
	var c EventCounts
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Session{}).Where("event_id = ?", id).Count(&c.Sessions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.ImportantUpdate{}).Where("event_id = ?", id).Count(&c.Updates).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.EventDay{}).Where("event_id = ?", id).Count(&c.Days).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *eventRepo) ListDays(ctx context.Context, eventID string) ([]model.EventDay, error) {
	var days []model.EventDay
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("day_number ASC").
		Find(&days).Error
	return days, err
}

func (r *eventRepo) ReplaceDays(ctx context.Context, eventID string, days []eventday.Day) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&model.EventDay{}).Error; err != nil {
			return err
		}
		if len(days) == 0 {
			return nil
		}
		rows := make([]model.EventDay, len(days))
		for i, d := range days {
			rows[i] = model.EventDay{EventID: eventID, DayNumber: d.Number, DayDate: d.Date}
		}
		return tx.Create(&rows).Error
	})
}
