package engine

import (
	"fmt"
	"sort"
	"time"
)

// DayLayout 日期的文本格式
const DayLayout = "2006-01-02"

// Slot 一个节次
type Slot struct {
	ID    int
	Start string // HH:MM
	End   string // HH:MM
}

// Grid 有序节次表
type Grid struct {
	slots []Slot
	index map[int]int
}

// NewGrid 按 ID 升序构建节次表
func NewGrid(slots []Slot) Grid {
	sorted := make([]Slot, len(slots))
	copy(sorted, slots)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	index := make(map[int]int, len(sorted))
	for i, s := range sorted {
		index[s.ID] = i
	}
	return Grid{slots: sorted, index: index}
}

// DefaultGrid 默认的 7 个节次，与迁移脚本预置数据一致
func DefaultGrid() Grid {
	return NewGrid([]Slot{
		{ID: 1, Start: "08:00", End: "09:30"},
		{ID: 2, Start: "09:45", End: "11:15"},
		{ID: 3, Start: "11:30", End: "13:00"},
		{ID: 4, Start: "13:15", End: "14:45"},
		{ID: 5, Start: "15:00", End: "16:30"},
		{ID: 6, Start: "16:45", End: "18:15"},
		{ID: 7, Start: "18:30", End: "20:00"},
	})
}

// Slots 返回全部节次（副本）
func (g Grid) Slots() []Slot {
	out := make([]Slot, len(g.slots))
	copy(out, g.slots)
	return out
}

// Len 节次数量
func (g Grid) Len() int { return len(g.slots) }

// Lookup 按 ID 查找节次
func (g Grid) Lookup(id int) (Slot, bool) {
	i, ok := g.index[id]
	if !ok {
		return Slot{}, false
	}
	return g.slots[i], true
}

// IsTerminal 是否属于当天最后 n 个节次
func (g Grid) IsTerminal(id, n int) bool {
	i, ok := g.index[id]
	if !ok || n <= 0 {
		return false
	}
	return i >= len(g.slots)-n
}

// Adjacent 两个节次是否在表中相邻
func (g Grid) Adjacent(a, b int) bool {
	i, ok1 := g.index[a]
	j, ok2 := g.index[b]
	if !ok1 || !ok2 {
		return false
	}
	return i-j == 1 || j-i == 1
}

// SlotTimes 返回节次在指定日期与时区下的起止时间
func (g Grid) SlotTimes(id int, day time.Time, loc *time.Location) (time.Time, time.Time, error) {
	s, ok := g.Lookup(id)
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("未知节次 %d", id)
	}
	start, err := clockOn(day, s.Start, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := clockOn(day, s.End, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func clockOn(day time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("无效时间 %q: %w", hhmm, err)
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc), nil
}

// ── 日期工具 ──

// Day 截断为 UTC 零点，所有日期比较都基于此
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay 解析 YYYY-MM-DD
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// FormatDay 输出 YYYY-MM-DD
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// DaysBetween to - from 的自然日差
func DaysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}
