package engine

import (
	"sort"
	"time"
)

// Occurrence 课次的最小视图
type Occurrence struct {
	ID       string
	Day      time.Time
	SlotID   int
	RoomID   *string
	Canceled bool
}

// SelectSeries 从同一课程的课次中选出 anchor 所在循环系列的剩余部分：
// 同星期、同节次、未取消、日期不早于 anchor，until 非空时不晚于 until
func SelectSeries(anchor Occurrence, events []Occurrence, until *time.Time) []Occurrence {
	start := Day(anchor.Day)
	weekday := start.Weekday()

	var out []Occurrence
	for _, e := range events {
		d := Day(e.Day)
		if e.Canceled || e.SlotID != anchor.SlotID || d.Weekday() != weekday {
			continue
		}
		if d.Before(start) {
			continue
		}
		if until != nil && d.After(Day(*until)) {
			continue
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// Shift 一个课次的平移计划
type Shift struct {
	From   Occurrence
	NewDay time.Time
}

// PlanShift 系列中每个课次平移与 anchor→target 相同的天数，周间隔保持不变。
// 平移量是锚点到推荐日期的固定差值：推荐落在之后的某周时，整个系列同样后移相应的整周数
func PlanShift(anchor Occurrence, series []Occurrence, target time.Time) []Shift {
	delta := DaysBetween(anchor.Day, target)
	shifts := make([]Shift, 0, len(series))
	for _, o := range series {
		shifts = append(shifts, Shift{From: o, NewDay: Day(o.Day).AddDate(0, 0, delta)})
	}
	return shifts
}

// ConflictKind 冲突类型
type ConflictKind int

const (
	ConflictNone ConflictKind = iota
	ConflictRoom
	ConflictGroup
)

func (k ConflictKind) String() string {
	switch k {
	case ConflictRoom:
		return "room"
	case ConflictGroup:
		return "group"
	case ConflictNone:
		return "none"
	default:
		return "none"
	}
}

// Conflict 第一个发生冲突的平移
type Conflict struct {
	Kind  ConflictKind
	Shift Shift
}

// ValidateShifts 逐个检查平移后的 (教室, 日期, 节次)：教室不可用为 ConflictRoom，
// 班级已有安排为 ConflictGroup。全部通过返回 nil
func ValidateShifts(shifts []Shift, roomID string, slotID int, occ *Occupancy) *Conflict {
	for _, s := range shifts {
		if !occ.IsFree(roomID, s.NewDay, slotID) {
			return &Conflict{Kind: ConflictRoom, Shift: s}
		}
		if occ.PartyBusy(s.NewDay, slotID) {
			return &Conflict{Kind: ConflictGroup, Shift: s}
		}
	}
	return nil
}
