package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/model"
)

// FavouriteSession 收藏列表行：场次 + 所属活动
type FavouriteSession struct {
	model.Session
	EventSlug *string `gorm:"column:event_slug" json:"event_slug"`
	EventName string  `gorm:"column:event_name" json:"event_name"`
}

// FavouriteRepository 收藏记录数据访问接口
//
// (user, session) 至多一条记录；重复添加、删除不存在的记录均不报错。
type FavouriteRepository interface {
	// Add 插入收藏，已存在时不做任何事
	Add(ctx context.Context, userID, sessionID, eventID string) error
	// Remove 删除收藏，不存在时不报错
	Remove(ctx context.Context, userID, sessionID string) error
	Exists(ctx context.Context, userID, sessionID string) (bool, error)
	// ListByUser 用户收藏的场次，按日期与开始时间排序
	ListByUser(ctx context.Context, userID string) ([]FavouriteSession, error)
}

type favouriteRepo struct {
	db *gorm.DB
}

// NewFavouriteRepo 创建 FavouriteRepository 实例
func NewFavouriteRepo(db *gorm.DB) FavouriteRepository {
	return &favouriteRepo{db: db}
}

func (r *favouriteRepo) Add(ctx context.Context, userID, sessionID, eventID string) error {
	fav := &model.UserFavouriteSession{
		UserID:    userID,
		SessionID: sessionID,
		EventID:   eventID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "session_id"}},
			DoNothing: true,
		}).
		Create(fav).Error
}

func (r *favouriteRepo) Remove(ctx context.Context, userID, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		Delete(&model.UserFavouriteSession{}).Error
}

func (r *favouriteRepo) Exists(ctx context.Context, userID, sessionID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.UserFavouriteSession{}).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		Limit(1).
		Count(&n).Error
	return n > 0, err
}

func (r *favouriteRepo) ListByUser(ctx context.Context, userID string) ([]FavouriteSession, error) {
	var rows []FavouriteSession
	err := r.db.WithContext(ctx).
		Table("user_favourite_sessions AS f").
		Select("s.*, e.event_slug, e.event_name").
		Joins("JOIN sessions s ON s.session_id = f.session_id").
		Joins("JOIN events e ON e.event_id = f.event_id").
		Where("f.user_id = ?", userID).
		Order("s.session_date ASC, s.session_start_time ASC").
		Find(&rows).Error
	return rows, err
}
