//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/eventday"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/model"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/repository"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/visibility"
	"github.com/QuadricIT2018/az-conference-app-mvp/pkg/database"
	pkgerrors "github.com/QuadricIT2018/az-conference-app-mvp/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=postgres password=postgres dbname=conference_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "执行迁移失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func strPtr(s string) *string { return &s }

// setupEvent 创建一个已发布活动与一名参会者，返回清理函数
func setupEvent(t *testing.T) (event *model.Event, attendee *model.Attendee, cleanup func()) {
	t.Helper()
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	event = &model.Event{
		EventSlug:      strPtr(fmt.Sprintf("evt-%d", suffix)),
		PWAName:        "Test PWA",
		EventName:      "集成测试活动",
		EventStartDate: "2026-02-16",
		EventEndDate:   "2026-02-19",
		IsDraft:        false,
	}
	if err := testDB.WithContext(ctx).Create(event).Error; err != nil {
		t.Fatalf("创建活动失败: %v", err)
	}

	attendee = &model.Attendee{
		Email:        fmt.Sprintf("a-%d@example.com", suffix),
		PasswordHash: "x",
		Department:   strPtr("LUNG"),
		Team:         strPtr("T1"),
	}
	if err := testDB.WithContext(ctx).Create(attendee).Error; err != nil {
		t.Fatalf("创建参会者失败: %v", err)
	}

	cleanup = func() {
		testDB.Where("event_id = ?", event.EventID).Delete(&model.Event{})
		testDB.Where("attendee_id = ?", attendee.AttendeeID).Delete(&model.Attendee{})
	}
	return event, attendee, cleanup
}

func createSession(t *testing.T, repo *repository.Repository, eventID string, s model.Session) *model.Session {
	t.Helper()
	s.EventID = &eventID
	if s.SessionName == "" {
		s.SessionName = "场次"
	}
	if s.SessionStartTime == "" {
		s.SessionStartTime = "09:00"
	}
	if err := repo.Session.Create(context.Background(), &s); err != nil {
		t.Fatalf("创建场次失败: %v", err)
	}
	return &s
}

// ═══════════════════════════════════════════════════════════
// Test: Event days
// ═══════════════════════════════════════════════════════════

func TestEvent_ReplaceDays(t *testing.T) {
	event, _, cleanup := setupEvent(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	if err := repo.Event.ReplaceDays(ctx, event.EventID, eventday.Generate("2026-02-16", "2026-02-19")); err != nil {
		t.Fatalf("ReplaceDays 失败: %v", err)
	}
	days, err := repo.Event.ListDays(ctx, event.EventID)
	if err != nil {
		t.Fatalf("ListDays 失败: %v", err)
	}
	if len(days) != 4 || days[0].DayDate != "2026-02-16" || days[3].DayNumber != 4 {
		t.Fatalf("活动日不符合预期: %+v", days)
	}

	// 重新生成后旧行全部被替换
	if err := repo.Event.ReplaceDays(ctx, event.EventID, eventday.Generate("2026-03-01", "2026-03-02")); err != nil {
		t.Fatalf("第二次 ReplaceDays 失败: %v", err)
	}
	days, _ = repo.Event.ListDays(ctx, event.EventID)
	if len(days) != 2 || days[0].DayDate != "2026-03-01" {
		t.Fatalf("重新生成后期望 2 天，实际 %+v", days)
	}
}

func TestTransaction_RollbackKeepsOldDays(t *testing.T) {
	event, _, cleanup := setupEvent(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	_ = repo.Event.ReplaceDays(ctx, event.EventID, eventday.Generate("2026-02-16", "2026-02-17"))

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Event.ReplaceDays(ctx, event.EventID, eventday.Generate("2026-05-01", "2026-05-09")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("期望返回 boom，实际: %v", err)
	}

	days, _ := repo.Event.ListDays(ctx, event.EventID)
	if len(days) != 2 {
		t.Errorf("回滚后应保留原 2 天，实际 %d", len(days))
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Optimistic Lock
// ═══════════════════════════════════════════════════════════

func TestOptimisticLock_Event_ConflictDetected(t *testing.T) {
	event, _, cleanup := setupEvent(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	copy1, _ := repo.Event.GetByID(ctx, event.EventID)
	copy2, _ := repo.Event.GetByID(ctx, event.EventID)

	copy1.EventName = "第一次修改"
	if err := repo.Event.Update(ctx, copy1); err != nil {
		t.Fatalf("第一次更新应成功: %v", err)
	}
	if copy1.Version != 2 {
		t.Errorf("期望 version=2，得到: %d", copy1.Version)
	}

	copy2.EventName = "第二次修改"
	if err := repo.Event.Update(ctx, copy2); err != pkgerrors.ErrOptimisticLock {
		t.Errorf("期望 ErrOptimisticLock，得到: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Favourites
// ═══════════════════════════════════════════════════════════

func TestFavourite_AddIsIdempotent(t *testing.T) {
	event, attendee, cleanup := setupEvent(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	s := createSession(t, repo, event.EventID, model.Session{IsGeneric: true, SessionDate: "2026-02-16"})

	for i := 0; i < 3; i++ {
		if err := repo.Favourite.Add(ctx, attendee.AttendeeID, s.SessionID, event.EventID); err != nil {
			t.Fatalf("第 %d 次 Add 失败: %v", i+1, err)
		}
	}

	var n int64
	testDB.Model(&model.UserFavouriteSession{}).
		Where("user_id = ? AND session_id = ?", attendee.AttendeeID, s.SessionID).
		Count(&n)
	if n != 1 {
		t.Errorf("重复收藏后应只有 1 条记录，实际 %d", n)
	}

	ok, err := repo.Favourite.Exists(ctx, attendee.AttendeeID, s.SessionID)
	if err != nil || !ok {
		t.Errorf("Exists 期望 true，实际 %v (%v)", ok, err)
	}

	list, err := repo.Favourite.ListByUser(ctx, attendee.AttendeeID)
	if err != nil || len(list) != 1 || list[0].EventName != event.EventName {
		t.Errorf("ListByUser 结果不符合预期: %+v (%v)", list, err)
	}

	if err := repo.Favourite.Remove(ctx, attendee.AttendeeID, s.SessionID); err != nil {
		t.Fatalf("Remove 失败: %v", err)
	}
	if err := repo.Favourite.Remove(ctx, attendee.AttendeeID, s.SessionID); err != nil {
		t.Errorf("重复 Remove 不应报错: %v", err)
	}
	ok, _ = repo.Favourite.Exists(ctx, attendee.AttendeeID, s.SessionID)
	if ok {
		t.Error("Remove 后 Exists 应为 false")
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Visible sessions
// ═══════════════════════════════════════════════════════════

func TestSession_ListVisibleMatchesCanSee(t *testing.T) {
	event, attendee, cleanup := setupEvent(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	fixtures := []model.Session{
		{SessionName: "通用", IsGeneric: true, SessionDate: "2026-02-16"},
		{SessionName: "LUNG 部门通用", Department: strPtr("LUNG"), IsDeptGeneric: true, SessionDate: "2026-02-16"},
		{SessionName: "BREAST 部门通用", Department: strPtr("BREAST"), IsDeptGeneric: true, SessionDate: "2026-02-17"},
		{SessionName: "LUNG/T1", Department: strPtr("LUNG"), Team: strPtr("T1"), SessionDate: "2026-02-18"},
		{SessionName: "LUNG/T2", Department: strPtr("LUNG"), Team: strPtr("T2"), SessionDate: "2026-02-18"},
		{SessionName: "无部门", IsDeptGeneric: true, SessionDate: "2026-02-19"},
	}
	byID := map[string]model.Session{}
	for _, f := range fixtures {
		s := createSession(t, repo, event.EventID, f)
		byID[s.SessionID] = *s
	}

	_ = repo.Favourite.Add(ctx, attendee.AttendeeID, sessionIDByName(byID, "LUNG/T1"), event.EventID)

	viewers := []visibility.Viewer{
		visibility.NewViewer(nil, nil),
		visibility.NewViewer(strPtr("ALL"), nil),
		visibility.NewViewer(strPtr("LUNG"), strPtr("T1")),
		visibility.NewViewer(strPtr("LUNG"), nil),
		visibility.NewViewer(strPtr("BREAST, LUNG"), strPtr("T2")),
	}
	for _, v := range viewers {
		rows, err := repo.Session.ListVisible(ctx, repository.SessionQuery{
			EventID: event.EventID,
			UserID:  attendee.AttendeeID,
			Viewer:  v,
		})
		if err != nil {
			t.Fatalf("ListVisible 失败: %v", err)
		}
		got := map[string]bool{}
		for _, r := range rows {
			got[r.SessionID] = true
			if r.IsFavourite != (r.SessionName == "LUNG/T1") {
				t.Errorf("%s 的 is_favourite 标记错误: %v", r.SessionName, r.IsFavourite)
			}
		}
		for id, s := range byID {
			if want := v.CanSee(s.Descriptor()); want != got[id] {
				t.Errorf("scope=%q 场次 %s: CanSee=%v 查询=%v", v.Scope.String(), s.SessionName, want, got[id])
			}
		}
	}

	favOnly, err := repo.Session.ListVisible(ctx, repository.SessionQuery{
		EventID:        event.EventID,
		UserID:         attendee.AttendeeID,
		Viewer:         visibility.NewViewer(strPtr("LUNG"), strPtr("T1")),
		FavouritesOnly: true,
	})
	if err != nil || len(favOnly) != 1 {
		t.Errorf("仅收藏过滤期望 1 条，实际 %d (%v)", len(favOnly), err)
	}

	items, err := repo.Session.ListDatedDescriptors(ctx, event.EventID)
	if err != nil || len(items) != len(fixtures) {
		t.Fatalf("ListDatedDescriptors 期望 %d 条，实际 %d (%v)", len(fixtures), len(items), err)
	}
	dates := visibility.VisibleDates(visibility.NewViewer(strPtr("LUNG"), strPtr("T1")), items)
	if len(dates) != 2 || dates[0] != "2026-02-16" || dates[1] != "2026-02-18" {
		t.Errorf("可见日期不符合预期: %v", dates)
	}
}

func sessionIDByName(byID map[string]model.Session, name string) string {
	for id, s := range byID {
		if s.SessionName == name {
			return id
		}
	}
	return ""
}

// ═══════════════════════════════════════════════════════════
// Test: Topics maintain has_topics
// ═══════════════════════════════════════════════════════════

func TestSession_TopicsMaintainHasTopics(t *testing.T) {
	event, _, cleanup := setupEvent(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	s := createSession(t, repo, event.EventID, model.Session{IsGeneric: true, SessionDate: "2026-02-16"})

	topic := &model.SessionTopic{SessionID: s.SessionID, Name: "议题一"}
	if err := repo.Session.CreateTopic(ctx, topic); err != nil {
		t.Fatalf("CreateTopic 失败: %v", err)
	}
	got, _ := repo.Session.GetByID(ctx, s.SessionID)
	if !got.HasTopics || len(got.Topics) != 1 {
		t.Fatalf("添加议题后 has_topics 应为 true: %+v", got)
	}

	if err := repo.Session.DeleteTopic(ctx, s.SessionID, topic.TopicID); err != nil {
		t.Fatalf("DeleteTopic 失败: %v", err)
	}
	got, _ = repo.Session.GetByID(ctx, s.SessionID)
	if got.HasTopics {
		t.Error("删除最后一个议题后 has_topics 应为 false")
	}
}

func TestDepartment_DuplicateName(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	name := fmt.Sprintf("DEPT-%d", time.Now().UnixNano())

	d1 := &model.Department{Name: name, Teams: []model.Team{{Name: "T1"}, {Name: "T2"}}}
	if err := repo.Department.Create(ctx, d1); err != nil {
		t.Fatalf("创建部门失败: %v", err)
	}
	defer repo.Department.Delete(ctx, d1.DepartmentID)

	got, err := repo.Department.GetByID(ctx, d1.DepartmentID)
	if err != nil || len(got.Teams) != 2 {
		t.Fatalf("部门应带 2 个小组: %+v (%v)", got, err)
	}

	err = repo.Department.Create(ctx, &model.Department{Name: name})
	if !pkgerrors.IsDuplicate(err) {
		t.Errorf("重名部门应返回唯一约束错误，实际: %v", err)
	}
}
