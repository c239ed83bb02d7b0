package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/dto"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/model"
)

func setupTestSessionService() (SessionService, *mockRepos, *model.Event) {
	mocks := newMockRepos()
	event := seedEvent(mocks, "summit", "2025-03-01", "2025-03-03", false)
	return NewSessionService(mocks.repository(), zap.NewNop()), mocks, event
}

// seedEvent 直接写入一个活动
func seedEvent(mocks *mockRepos, slug, start, end string, draft bool) *model.Event {
	e := &model.Event{
		EventSlug:      strPtr(slug),
		PWAName:        slug,
		EventName:      "Event " + slug,
		EventStartDate: start,
		EventEndDate:   end,
		IsDraft:        draft,
	}
	_ = mocks.event.Create(context.Background(), e)
	return e
}

func seedSpeaker(mocks *mockRepos, name string) *model.Speaker {
	sp := &model.Speaker{SpeakerName: name}
	_ = mocks.speaker.Create(context.Background(), sp)
	return sp
}

// ── Create ──

func TestSessionCreate_Defaults(t *testing.T) {
	svc, mocks, event := setupTestSessionService()
	sp := seedSpeaker(mocks, "Ada")

	resp, err := svc.Create(context.Background(), &dto.CreateSessionRequest{
		EventID:          event.EventID,
		SessionName:      " Keynote ",
		SessionDate:      "2025-03-01",
		SessionStartTime: "09:00",
		SpeakerIDs:       []string{sp.SpeakerID, sp.SpeakerID},
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.SessionName != "Keynote" {
		t.Errorf("名称应去空白，实际=%q", resp.SessionName)
	}
	if !resp.IsGeneric || !resp.IsDeptGeneric {
		t.Error("is_generic / is_dept_generic 缺省应为 true")
	}
	if len(resp.Speakers) != 1 {
		t.Errorf("重复讲者应去重，实际=%d", len(resp.Speakers))
	}
	if len(resp.Warnings) != 0 {
		t.Errorf("通用场次不应有告警，实际=%v", resp.Warnings)
	}
}

func TestSessionCreate_TeamSessionWithoutTeamWarns(t *testing.T) {
	svc, _, event := setupTestSessionService()
	no := false

	resp, err := svc.Create(context.Background(), &dto.CreateSessionRequest{
		EventID:          event.EventID,
		SessionName:      "Team sync",
		SessionDate:      "2025-03-02",
		SessionStartTime: "10:00",
		IsGeneric:        &no,
		Department:       strPtr("Sales"),
		IsDeptGeneric:    &no,
		Team:             strPtr("  "),
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.Team != nil {
		t.Error("空白小组应存为 NULL")
	}
	if len(resp.Warnings) != 1 {
		t.Errorf("小组场次未指定小组应有 1 条告警，实际=%v", resp.Warnings)
	}
}

func TestSessionCreate_Validation(t *testing.T) {
	svc, _, event := setupTestSessionService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  *dto.CreateSessionRequest
		want error
	}{
		{
			name: "活动不存在",
			req:  &dto.CreateSessionRequest{EventID: "missing", SessionName: "x", SessionDate: "2025-03-01", SessionStartTime: "09:00"},
			want: ErrEventNotFound,
		},
		{
			name: "日期早于活动",
			req:  &dto.CreateSessionRequest{EventID: event.EventID, SessionName: "x", SessionDate: "2025-02-28", SessionStartTime: "09:00"},
			want: ErrSessionDateOutOfRange,
		},
		{
			name: "日期晚于活动",
			req:  &dto.CreateSessionRequest{EventID: event.EventID, SessionName: "x", SessionDate: "2025-03-04", SessionStartTime: "09:00"},
			want: ErrSessionDateOutOfRange,
		},
		{
			name: "讲者不存在",
			req:  &dto.CreateSessionRequest{EventID: event.EventID, SessionName: "x", SessionDate: "2025-03-01", SessionStartTime: "09:00", SpeakerIDs: []string{"ghost"}},
			want: ErrSpeakerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际: %v", tt.want, err)
			}
		})
	}
}

// ── Update ──

func TestSessionUpdate_PatchAndRange(t *testing.T) {
	svc, _, event := setupTestSessionService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, &dto.CreateSessionRequest{
		EventID:          event.EventID,
		SessionName:      "Keynote",
		SessionDate:      "2025-03-01",
		SessionStartTime: "09:00",
		SessionLocation:  strPtr("Hall A"),
	})

	resp, err := svc.Update(ctx, created.SessionID, &dto.UpdateSessionRequest{
		SessionDate:     strPtr("2025-03-03"),
		SessionLocation: strPtr(""),
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.SessionDate != "2025-03-03" {
		t.Errorf("日期应更新，实际=%s", resp.SessionDate)
	}
	if resp.SessionLocation != nil {
		t.Error("空串应清空地点")
	}
	if resp.SessionName != "Keynote" {
		t.Error("未提供的字段不应变化")
	}

	_, err = svc.Update(ctx, created.SessionID, &dto.UpdateSessionRequest{SessionDate: strPtr("2025-05-01")})
	if !errors.Is(err, ErrSessionDateOutOfRange) {
		t.Errorf("期望 ErrSessionDateOutOfRange，实际: %v", err)
	}
}

func TestSessionDelete_NotFound(t *testing.T) {
	svc, _, _ := setupTestSessionService()

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("期望 ErrSessionNotFound，实际: %v", err)
	}
}

// ── 议题 ──

func TestSessionTopics_HasTopicsFlag(t *testing.T) {
	svc, mocks, event := setupTestSessionService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, &dto.CreateSessionRequest{
		EventID:          event.EventID,
		SessionName:      "Breakouts",
		SessionDate:      "2025-03-01",
		SessionStartTime: "13:00",
	})

	topic, err := svc.CreateTopic(ctx, created.SessionID, &dto.CreateTopicRequest{Name: "AI", SessionType: strPtr("Workshop")})
	if err != nil {
		t.Fatalf("CreateTopic 应成功: %v", err)
	}
	if !mocks.session.sessions[created.SessionID].HasTopics {
		t.Error("添加议题后 has_topics 应为 true")
	}

	renamed, err := svc.UpdateTopic(ctx, created.SessionID, topic.TopicID, &dto.UpdateTopicRequest{Name: strPtr("GenAI")})
	if err != nil || renamed.Name != "GenAI" {
		t.Fatalf("UpdateTopic 失败: %v %+v", err, renamed)
	}

	if err := svc.DeleteTopic(ctx, created.SessionID, topic.TopicID); err != nil {
		t.Fatalf("DeleteTopic 应成功: %v", err)
	}
	if mocks.session.sessions[created.SessionID].HasTopics {
		t.Error("删除最后一个议题后 has_topics 应为 false")
	}
	if err := svc.DeleteTopic(ctx, created.SessionID, topic.TopicID); !errors.Is(err, ErrTopicNotFound) {
		t.Errorf("期望 ErrTopicNotFound，实际: %v", err)
	}
}

func TestSessionTopics_WrongSession(t *testing.T) {
	svc, _, event := setupTestSessionService()
	ctx := context.Background()
	a, _ := svc.Create(ctx, &dto.CreateSessionRequest{EventID: event.EventID, SessionName: "A", SessionDate: "2025-03-01", SessionStartTime: "09:00"})
	b, _ := svc.Create(ctx, &dto.CreateSessionRequest{EventID: event.EventID, SessionName: "B", SessionDate: "2025-03-01", SessionStartTime: "10:00"})
	topic, _ := svc.CreateTopic(ctx, a.SessionID, &dto.CreateTopicRequest{Name: "AI"})

	_, err := svc.UpdateTopic(ctx, b.SessionID, topic.TopicID, &dto.UpdateTopicRequest{Name: strPtr("x")})
	if !errors.Is(err, ErrTopicNotFound) {
		t.Errorf("议题不属于该场次时期望 ErrTopicNotFound，实际: %v", err)
	}
}

// ── 讲者 ──

func TestSessionSpeakers(t *testing.T) {
	svc, mocks, event := setupTestSessionService()
	ctx := context.Background()
	ada := seedSpeaker(mocks, "Ada")
	bob := seedSpeaker(mocks, "Bob")
	created, _ := svc.Create(ctx, &dto.CreateSessionRequest{
		EventID: event.EventID, SessionName: "Panel", SessionDate: "2025-03-01", SessionStartTime: "09:00",
		SpeakerIDs: []string{ada.SpeakerID},
	})

	resp, err := svc.AssignSpeakers(ctx, created.SessionID, &dto.AssignSpeakersRequest{
		SpeakerIDs: []string{ada.SpeakerID, bob.SpeakerID},
	})
	if err != nil {
		t.Fatalf("AssignSpeakers 应成功: %v", err)
	}
	if len(resp.Speakers) != 2 {
		t.Errorf("期望 2 位讲者，实际=%d", len(resp.Speakers))
	}

	if err := svc.RemoveSpeaker(ctx, created.SessionID, ada.SpeakerID); err != nil {
		t.Fatalf("RemoveSpeaker 应成功: %v", err)
	}
	if err := svc.RemoveSpeaker(ctx, created.SessionID, ada.SpeakerID); !errors.Is(err, ErrSpeakerNotAssigned) {
		t.Errorf("期望 ErrSpeakerNotAssigned，实际: %v", err)
	}
	if _, err := svc.AssignSpeakers(ctx, created.SessionID, &dto.AssignSpeakersRequest{SpeakerIDs: []string{"ghost"}}); !errors.Is(err, ErrSpeakerNotFound) {
		t.Errorf("期望 ErrSpeakerNotFound，实际: %v", err)
	}
}
