package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/dto"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/eventday"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/model"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/repository"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/visibility"
)

// ── 场次模块业务错误 ──

var (
	ErrSessionNotFound       = errors.New("场次不存在")
	ErrTopicNotFound         = errors.New("议题不存在")
	ErrSpeakerNotAssigned    = errors.New("该讲者未分配到此场次")
	ErrSessionDateOutOfRange = errors.New("场次日期不在活动日期范围内")
)

// SessionService 场次业务接口（管理端）
type SessionService interface {
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	// GetByID 含讲者、议题及可见性配置提示
	GetByID(ctx context.Context, id string) (*dto.SessionResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	Delete(ctx context.Context, id string) error

	ListTopics(ctx context.Context, sessionID string) ([]model.SessionTopic, error)
	CreateTopic(ctx context.Context, sessionID string, req *dto.CreateTopicRequest) (*model.SessionTopic, error)
	UpdateTopic(ctx context.Context, sessionID, topicID string, req *dto.UpdateTopicRequest) (*model.SessionTopic, error)
	DeleteTopic(ctx context.Context, sessionID, topicID string) error

	AssignSpeakers(ctx context.Context, sessionID string, req *dto.AssignSpeakersRequest) (*dto.SessionResponse, error)
	RemoveSpeaker(ctx context.Context, sessionID, speakerID string) error
}

type sessionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSessionService 创建 SessionService 实例
func NewSessionService(repo *repository.Repository, logger *zap.Logger) SessionService {
	return &sessionService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *sessionService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.String("id", req.EventID), zap.Error(err))
		return nil, err
	}

	date := eventday.NormalizeDate(req.SessionDate)
	if date < event.EventStartDate || date > event.EventEndDate {
		return nil, ErrSessionDateOutOfRange
	}

	speakerIDs := uniqueIDs(req.SpeakerIDs)
	if err := s.ensureSpeakersExist(ctx, speakerIDs); err != nil {
		return nil, err
	}

	session := &model.Session{
		EventID:               &event.EventID,
		SessionName:           strings.TrimSpace(req.SessionName),
		SessionDescription:    req.SessionDescription,
		SessionDate:           date,
		SessionStartTime:      strings.TrimSpace(req.SessionStartTime),
		SessionEndTime:        optString(req.SessionEndTime),
		SessionTag:            optString(req.SessionTag),
		SessionLocation:       optString(req.SessionLocation),
		SessionLocationMapURL: optString(req.SessionLocationMapURL),
		SessionVenueMapURL:    optString(req.SessionVenueMapURL),
		Timezone:              optString(req.Timezone),
		IsGeneric:             true,
		Department:            optString(req.Department),
		IsDeptGeneric:         true,
		Team:                  optString(req.Team),
	}
	if req.IsGeneric != nil {
		session.IsGeneric = *req.IsGeneric
	}
	if req.IsDeptGeneric != nil {
		session.IsDeptGeneric = *req.IsDeptGeneric
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Session.Create(ctx, session); err != nil {
			return err
		}
		return txRepo.Session.AddSpeakers(ctx, session.SessionID, speakerIDs)
	})
	if err != nil {
		s.logger.Error("创建场次失败", zap.String("event_id", event.EventID), zap.Error(err))
		return nil, err
	}

	s.warnVisibility(session)
	return s.GetByID(ctx, session.SessionID)
}

// ────────────────────── GetByID ──────────────────────

func (s *sessionService) GetByID(ctx context.Context, id string) (*dto.SessionResponse, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.SessionResponse{
		Session:  *session,
		Warnings: visibility.Describe(session.Descriptor()),
	}, nil
}

// ────────────────────── Update ──────────────────────

func (s *sessionService) Update(ctx context.Context, id string, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.SessionName != nil {
		session.SessionName = strings.TrimSpace(*req.SessionName)
	}
	if req.SessionDescription != nil {
		session.SessionDescription = req.SessionDescription
	}
	if req.SessionDate != nil {
		date := eventday.NormalizeDate(*req.SessionDate)
		if session.Event != nil && (date < session.Event.EventStartDate || date > session.Event.EventEndDate) {
			return nil, ErrSessionDateOutOfRange
		}
		session.SessionDate = date
	}
	if req.SessionStartTime != nil {
		session.SessionStartTime = strings.TrimSpace(*req.SessionStartTime)
	}
	patchString(&session.SessionEndTime, req.SessionEndTime)
	patchString(&session.SessionTag, req.SessionTag)
	patchString(&session.SessionLocation, req.SessionLocation)
	patchString(&session.SessionLocationMapURL, req.SessionLocationMapURL)
	patchString(&session.SessionVenueMapURL, req.SessionVenueMapURL)
	patchString(&session.Timezone, req.Timezone)
	if req.IsGeneric != nil {
		session.IsGeneric = *req.IsGeneric
	}
	patchString(&session.Department, req.Department)
	if req.IsDeptGeneric != nil {
		session.IsDeptGeneric = *req.IsDeptGeneric
	}
	patchString(&session.Team, req.Team)

	if err := s.repo.Session.Update(ctx, session); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("更新场次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.warnVisibility(session)
	return &dto.SessionResponse{
		Session:  *session,
		Warnings: visibility.Describe(session.Descriptor()),
	}, nil
}

// ────────────────────── Delete ──────────────────────

func (s *sessionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Session.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		s.logger.Error("删除场次失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 议题 ──────────────────────

func (s *sessionService) ListTopics(ctx context.Context, sessionID string) ([]model.SessionTopic, error) {
	if _, err := s.get(ctx, sessionID); err != nil {
		return nil, err
	}
	topics, err := s.repo.Session.ListTopics(ctx, sessionID)
	if err != nil {
		s.logger.Error("列出议题失败", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	return topics, nil
}

func (s *sessionService) CreateTopic(ctx context.Context, sessionID string, req *dto.CreateTopicRequest) (*model.SessionTopic, error) {
	if _, err := s.get(ctx, sessionID); err != nil {
		return nil, err
	}

	topic := &model.SessionTopic{
		SessionID:   sessionID,
		Name:        strings.TrimSpace(req.Name),
		Location:    optString(req.Location),
		SessionType: optString(req.SessionType),
	}
	if err := s.repo.Session.CreateTopic(ctx, topic); err != nil {
		s.logger.Error("创建议题失败", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	return topic, nil
}

func (s *sessionService) UpdateTopic(ctx context.Context, sessionID, topicID string, req *dto.UpdateTopicRequest) (*model.SessionTopic, error) {
	topic, err := s.repo.Session.GetTopic(ctx, sessionID, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		s.logger.Error("查询议题失败", zap.String("topic_id", topicID), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		topic.Name = strings.TrimSpace(*req.Name)
	}
	patchString(&topic.Location, req.Location)
	patchString(&topic.SessionType, req.SessionType)

	if err := s.repo.Session.UpdateTopic(ctx, topic); err != nil {
		s.logger.Error("更新议题失败", zap.String("topic_id", topicID), zap.Error(err))
		return nil, err
	}
	return topic, nil
}

func (s *sessionService) DeleteTopic(ctx context.Context, sessionID, topicID string) error {
	if err := s.repo.Session.DeleteTopic(ctx, sessionID, topicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopicNotFound
		}
		s.logger.Error("删除议题失败", zap.String("topic_id", topicID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 讲者 ──────────────────────

func (s *sessionService) AssignSpeakers(ctx context.Context, sessionID string, req *dto.AssignSpeakersRequest) (*dto.SessionResponse, error) {
	if _, err := s.get(ctx, sessionID); err != nil {
		return nil, err
	}

	ids := uniqueIDs(req.SpeakerIDs)
	if err := s.ensureSpeakersExist(ctx, ids); err != nil {
		return nil, err
	}
	if err := s.repo.Session.AddSpeakers(ctx, sessionID, ids); err != nil {
		s.logger.Error("分配讲者失败", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	return s.GetByID(ctx, sessionID)
}

func (s *sessionService) RemoveSpeaker(ctx context.Context, sessionID, speakerID string) error {
	if err := s.repo.Session.RemoveSpeaker(ctx, sessionID, speakerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSpeakerNotAssigned
		}
		s.logger.Error("移除讲者失败",
			zap.String("session_id", sessionID),
			zap.String("speaker_id", speakerID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *sessionService) get(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.repo.Session.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询场次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return session, nil
}

func (s *sessionService) ensureSpeakersExist(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := s.repo.Speaker.CountExisting(ctx, ids)
	if err != nil {
		s.logger.Error("校验讲者失败", zap.Error(err))
		return err
	}
	if n != int64(len(ids)) {
		return ErrSpeakerNotFound
	}
	return nil
}

// warnVisibility 记录可能导致场次对多数用户不可见的配置
func (s *sessionService) warnVisibility(session *model.Session) {
	for _, w := range visibility.Describe(session.Descriptor()) {
		s.logger.Warn("场次可见性配置提示",
			zap.String("session_id", session.SessionID),
			zap.String("warning", w),
		)
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
