package handler

import "github.com/QuadricIT2018/az-conference-app-mvp/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Department *DepartmentHandler
	Event      *EventHandler
	Session    *SessionHandler
	Speaker    *SpeakerHandler
	Taxonomy   *TaxonomyHandler
	Update     *UpdateHandler
	Export     *ExportHandler
	App        *AppHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.Attendee, svc.Admin),
		Department: NewDepartmentHandler(svc.Department),
		Event:      NewEventHandler(svc.Event),
		Session:    NewSessionHandler(svc.Session),
		Speaker:    NewSpeakerHandler(svc.Speaker),
		Taxonomy:   NewTaxonomyHandler(svc.Taxonomy),
		Update:     NewUpdateHandler(svc.Update),
		Export:     NewExportHandler(svc.Export),
		App:        NewAppHandler(svc.App, svc.Calendar),
	}
}
