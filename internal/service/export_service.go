package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/model"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoSessions   = errors.New("该活动暂无场次")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
type ExportService interface {
	// ExportProgramme 导出活动日程为 Excel，每个活动日一个 Sheet
	ExportProgramme(ctx context.Context, eventID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var programmeHeader = []string{"开始", "结束", "场次", "标签", "地点", "可见范围", "讲者", "时区"}

// ═══════════════════════════════════════════════════════════
// ExportProgramme — 导出活动日程为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "Day 1 2025-03-01" / "Day 2 2025-03-02"（按活动日分）
//   - 第 1 行：活动名称 + 日期（合并单元格）
//   - 第 2 行：表头
//   - 数据行按开始时间排序
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportProgramme(ctx context.Context, eventID string) (*bytes.Buffer, string, error) {
	// 1. 查询活动
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.String("id", eventID), zap.Error(err))
		return nil, "", err
	}

	// 2. 查询场次（含讲者）
	sessions, err := s.repo.Session.ListByEvent(ctx, eventID, "")
	if err != nil {
		s.logger.Error("查询活动场次失败", zap.String("id", eventID), zap.Error(err))
		return nil, "", err
	}
	if len(sessions) == 0 {
		return nil, "", ErrExportNoSessions
	}

	// 3. 活动日编号：date → day_number
	days, err := loadDays(ctx, s.repo, s.logger, event)
	if err != nil {
		return nil, "", err
	}
	dayNumber := make(map[string]int, len(days))
	for _, d := range days {
		dayNumber[d.Date] = d.Number
	}

	// 4. 按日期分组
	byDate := make(map[string][]model.Session)
	var dates []string
	for _, sess := range sessions {
		if _, ok := byDate[sess.SessionDate]; !ok {
			dates = append(dates, sess.SessionDate)
		}
		byDate[sess.SessionDate] = append(byDate[sess.SessionDate], sess)
	}
	sort.Strings(dates)

	// 5. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, date := range dates {
		sheetName := fmt.Sprintf("Day %d %s", dayNumber[date], date)
		if dayNumber[date] == 0 {
			sheetName = date
		}
		idx, err := f.NewSheet(sheetName)
		if err != nil {
			s.logger.Error("创建工作表失败", zap.String("sheet", sheetName), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		s.writeDaySheet(f, sheetName, event.EventName+" "+date, byDate[date], headerStyle)
	}
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	name := event.EventName
	if event.EventSlug != nil {
		name = *event.EventSlug
	}
	filename := fmt.Sprintf("日程_%s.xlsx", name)
	return buf, filename, nil
}

func (s *exportService) writeDaySheet(f *excelize.File, sheetName, title string, sessions []model.Session, headerStyle int) {
	// 列宽
	widths := []float64{8, 8, 36, 14, 20, 24, 30, 16}
	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, w)
	}

	// 标题行
	f.SetCellValue(sheetName, "A1", title)
	f.MergeCell(sheetName, "A1", cell(colName(len(programmeHeader)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	for i, h := range programmeHeader {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].SessionStartTime < sessions[j].SessionStartTime
	})

	// 数据行
	row := 3
	for _, sess := range sessions {
		values := []string{
			sess.SessionStartTime,
			strValue(sess.SessionEndTime),
			sess.SessionName,
			strValue(sess.SessionTag),
			strValue(sess.SessionLocation),
			audienceLabel(&sess),
			speakerNames(sess.Speakers),
			strValue(sess.Timezone),
		}
		for i, v := range values {
			f.SetCellValue(sheetName, cell(colName(i), row), v)
		}
		row++
	}
}

// audienceLabel 可见范围的可读描述
func audienceLabel(sess *model.Session) string {
	if sess.IsGeneric {
		return "全员"
	}
	label := strValue(sess.Department)
	if label == "" {
		label = "（未指定部门）"
	}
	if !sess.IsDeptGeneric {
		label += " / " + strValue(sess.Team)
	}
	return label
}

func speakerNames(speakers []model.Speaker) string {
	names := make([]string, 0, len(speakers))
	for _, sp := range speakers {
		names = append(names, sp.SpeakerName)
	}
	return strings.Join(names, ", ")
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
