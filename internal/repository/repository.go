package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Department DepartmentRepository
	Team       TeamRepository
	Attendee   AttendeeRepository
	Admin      AdminRepository
	Event      EventRepository
	Session    SessionRepository
	Speaker    SpeakerRepository
	Taxonomy   TaxonomyRepository
	Update     UpdateRepository
	Favourite  FavouriteRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		Department: NewDepartmentRepo(db),
		Team:       NewTeamRepo(db),
		Attendee:   NewAttendeeRepo(db),
		Admin:      NewAdminRepo(db),
		Event:      NewEventRepo(db),
		Session:    NewSessionRepo(db),
		Speaker:    NewSpeakerRepo(db),
		Taxonomy:   NewTaxonomyRepo(db),
		Update:     NewUpdateRepo(db),
		Favourite:  NewFavouriteRepo(db),
	}
}

// WithTx 返回绑定到事务连接的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在单个事务中执行 fn，fn 返回错误时回滚。
// 未绑定数据库（单元测试注入的 mock 聚合）时直接以自身执行。
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// Page 分页参数
type Page struct {
	Offset int
	Limit  int
}
