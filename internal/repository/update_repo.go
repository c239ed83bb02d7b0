package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/model"
)

// UpdateRepository 重要通知数据访问接口
type UpdateRepository interface {
	Create(ctx context.Context, u *model.ImportantUpdate) error
	GetByID(ctx context.Context, id string) (*model.ImportantUpdate, error)
	// ListByEvent 按发布时间倒序
	ListByEvent(ctx context.Context, eventID string) ([]model.ImportantUpdate, error)
	Update(ctx context.Context, u *model.ImportantUpdate) error
	Delete(ctx context.Context, id string) error
}

type updateRepo struct {
	db *gorm.DB
}

// NewUpdateRepo 创建 UpdateRepository 实例
func NewUpdateRepo(db *gorm.DB) UpdateRepository {
	return &updateRepo{db: db}
}

func (r *updateRepo) Create(ctx context.Context, u *model.ImportantUpdate) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *updateRepo) GetByID(ctx context.Context, id string) (*model.ImportantUpdate, error) {
	var u model.ImportantUpdate
	err := r.db.WithContext(ctx).
		Where("update_id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *updateRepo) ListByEvent(ctx context.Context, eventID string) ([]model.ImportantUpdate, error) {
	var list []model.ImportantUpdate
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("update_date_time DESC").
		Find(&list).Error
	return list, err
}

func (r *updateRepo) Update(ctx context.Context, u *model.ImportantUpdate) error {
	return affectOne(r.db.WithContext(ctx).
		Model(&model.ImportantUpdate{}).
		Where("update_id = ?", u.UpdateID).
		Updates(map[string]interface{}{
			"title":            u.Title,
			"description":      u.Description,
			"links":            u.Links,
			"update_date_time": u.UpdateDateTime,
		}))
}

func (r *updateRepo) Delete(ctx context.Context, id string) error {
	return affectOne(r.db.WithContext(ctx).
		Where("update_id = ?", id).
		Delete(&model.ImportantUpdate{}))
}
