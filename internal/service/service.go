package service

import (
	"go.uber.org/zap"

	"github.com/QuadricIT2018/az-conference-app-mvp/config"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/repository"
	"github.com/QuadricIT2018/az-conference-app-mvp/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Attendee   AttendeeService
	Admin      AdminService
	Department DepartmentService
	Event      EventService
	Session    SessionService
	Speaker    SpeakerService
	Taxonomy   TaxonomyService
	Update     UpdateService
	App        AppService
	Export     ExportService
	Calendar   CalendarService
}

// NewService 创建 Service 聚合
//
// blacklist 为 nil 时登出只让客户端丢弃 Token。
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		Attendee:   NewAttendeeService(repo, logger),
		Admin:      NewAdminService(repo, logger),
		Department: NewDepartmentService(repo, logger),
		Event:      NewEventService(repo, logger),
		Session:    NewSessionService(repo, logger),
		Speaker:    NewSpeakerService(repo, logger),
		Taxonomy:   NewTaxonomyService(repo, logger),
		Update:     NewUpdateService(repo, logger),
		App:        NewAppService(repo, logger),
		Export:     NewExportService(repo, logger),
		Calendar:   NewCalendarService(cfg, repo, logger),
	}
}
