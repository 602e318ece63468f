package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"classroom-booking/backend/internal/engine"
	"classroom-booking/backend/internal/model"
	"classroom-booking/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoEvents     = errors.New("该课程暂无课次")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 课程课次导出接口
//
//   - ExportTimeline 以 Excel (.xlsx) 列出全部课次，含已取消与调课来源
//   - Calendar 以 iCalendar 订阅源输出未取消课次
//
// 导出内容由 Handler 层设置响应头后写入 Response
type ExportService interface {
	ExportTimeline(ctx context.Context, courseID string) (*bytes.Buffer, string, error)
	Calendar(ctx context.Context, courseID string) ([]byte, string, error)
}

type exportService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例，loc 为课表所在时区
func NewExportService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &exportService{repo: repo, loc: loc, logger: logger}
}

var weekdayNames = map[time.Weekday]string{
	time.Monday: "周一", time.Tuesday: "周二", time.Wednesday: "周三", time.Thursday: "周四",
	time.Friday: "周五", time.Saturday: "周六", time.Sunday: "周日",
}

// ═══════════════════════════════════════════════════════════
// ExportTimeline
// ═══════════════════════════════════════════════════════════
//
// 表头: | 日期 | 星期 | 节次 | 时间 | 教室 | 状态 | 调课 |
// 行按 (日期, 节次) 升序

func (s *exportService) ExportTimeline(ctx context.Context, courseID string) (*bytes.Buffer, string, error) {
	course, events, grid, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "课次"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "C", 8)
	f.SetColWidth(sheetName, "D", "D", 14)
	f.SetColWidth(sheetName, "E", "E", 16)
	f.SetColWidth(sheetName, "F", "G", 10)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s 课次表", course.Name))
	f.MergeCell(sheetName, "A1", "G1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	headers := []string{"日期", "星期", "节次", "时间", "教室", "状态", "调课"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", "G2", headerStyle)

	row := 3
	for _, e := range events {
		hours := "-"
		if sl, ok := grid.Lookup(e.TimeSlotID); ok {
			hours = fmt.Sprintf("%s-%s", sl.Start, sl.End)
		}
		status := "正常"
		if e.Canceled {
			status = "已取消"
		}
		moved := ""
		if e.WasRescheduled {
			moved = "是"
		}

		f.SetCellValue(sheetName, cell("A", row), engine.FormatDay(e.Day))
		f.SetCellValue(sheetName, cell("B", row), weekdayNames[e.Day.Weekday()])
		f.SetCellValue(sheetName, cell("C", row), e.TimeSlotID)
		f.SetCellValue(sheetName, cell("D", row), hours)
		f.SetCellValue(sheetName, cell("E", row), roomName(&e))
		f.SetCellValue(sheetName, cell("F", row), status)
		f.SetCellValue(sheetName, cell("G", row), moved)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, fmt.Sprintf("课次表_%s.xlsx", course.Name), nil
}

// loadCourse 读取课程及其按时间排序的课次
func (s *exportService) loadCourse(ctx context.Context, courseID string) (*model.Course, []model.CourseEvent, engine.Grid, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		return nil, nil, engine.Grid{}, notFoundAs(err, ErrCourseNotFound)
	}

	events, err := s.repo.CourseEvent.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询课次失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, nil, engine.Grid{}, err
	}
	if len(events) == 0 {
		return nil, nil, engine.Grid{}, ErrExportNoEvents
	}
	sort.SliceStable(events, func(i, j int) bool {
		return engine.Key(events[i].Day, events[i].TimeSlotID).Before(engine.Key(events[j].Day, events[j].TimeSlotID))
	})

	grid, err := loadGrid(ctx, s.repo)
	if err != nil {
		return nil, nil, engine.Grid{}, err
	}
	return course, events, grid, nil
}

func roomName(e *model.CourseEvent) string {
	if e.Room != nil {
		return e.Room.Name
	}
	return "-"
}

// ── Excel 辅助 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
