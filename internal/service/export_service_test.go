package service

import (
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ── 测试辅助 ──

func setupTestExportService() (ExportService, *mockRepos) {
	mocks := newMockRepos()
	return NewExportService(mocks.repository(), zap.NewNop()), mocks
}

// ── ExportProgramme 测试 ──

func TestExportService_ExportProgramme_NoEvent(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportProgramme(context.Background(), "nonexistent")
	if !errors.Is(err, ErrEventNotFound) {
		t.Errorf("期望 ErrEventNotFound，实际: %v", err)
	}
}

func TestExportService_ExportProgramme_NoSessions(t *testing.T) {
	svc, mocks := setupTestExportService()
	event := seedEvent(mocks, "summit", "2025-03-01", "2025-03-02", true)

	_, _, err := svc.ExportProgramme(context.Background(), event.EventID)
	if !errors.Is(err, ErrExportNoSessions) {
		t.Errorf("期望 ErrExportNoSessions，实际: %v", err)
	}
}

func TestExportService_ExportProgramme_Success(t *testing.T) {
	svc, mocks := setupTestExportService()
	ctx := context.Background()
	event := seedEvent(mocks, "summit", "2025-03-01", "2025-03-02", false)
	_ = mocks.event.ReplaceDays(ctx, event.EventID, nil)

	keynote := seedSession(mocks, event.EventID, "Keynote", "2025-03-01", "09:00", true, nil, true, nil)
	seedSession(mocks, event.EventID, "Welcome", "2025-03-01", "08:30", true, nil, true, nil)
	seedSession(mocks, event.EventID, "Alpha standup", "2025-03-02", "08:00", false, strPtr("Sales"), false, strPtr("Alpha"))
	ada := seedSpeaker(mocks, "Ada")
	bob := seedSpeaker(mocks, "Bob")
	mocks.session.link(keynote.SessionID, ada.SpeakerID, bob.SpeakerID)

	buf, filename, err := svc.ExportProgramme(ctx, event.EventID)
	if err != nil {
		t.Fatalf("ExportProgramme 应成功: %v", err)
	}
	if filename != "日程_summit.xlsx" {
		t.Errorf("文件名错误: %s", filename)
	}
	// Excel .xlsx 文件以 PK (0x504B) 开头
	if buf.Len() < 2 || buf.Bytes()[0] != 0x50 || buf.Bytes()[1] != 0x4B {
		t.Fatal("输出内容不是有效的 xlsx 文件格式（应以 PK 开头）")
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("无法读取导出的 Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Day 1 2025-03-01" || sheets[1] != "Day 2 2025-03-02" {
		t.Fatalf("工作表应按活动日命名，实际=%v", sheets)
	}

	rows, err := f.GetRows("Day 1 2025-03-01")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("期望标题 + 表头 + 2 行数据，实际=%d 行", len(rows))
	}
	if rows[1][0] != "开始" || rows[1][6] != "讲者" {
		t.Errorf("表头错误: %v", rows[1])
	}
	if rows[2][2] != "Welcome" || rows[3][2] != "Keynote" {
		t.Errorf("数据行应按开始时间排序: %v / %v", rows[2], rows[3])
	}
	if rows[3][5] != "全员" || rows[3][6] != "Ada, Bob" {
		t.Errorf("可见范围 / 讲者列错误: %v", rows[3])
	}

	day2, _ := f.GetRows("Day 2 2025-03-02")
	if len(day2) < 3 || day2[2][5] != "Sales / Alpha" {
		t.Errorf("小组场次的可见范围应为 Sales / Alpha，实际=%v", day2)
	}
}
