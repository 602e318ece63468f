package engine

import "time"

// SlotKey 某天的某个节次
type SlotKey struct {
	Day    time.Time
	SlotID int
}

// Key 构造 SlotKey，日期统一截断
func Key(day time.Time, slotID int) SlotKey {
	return SlotKey{Day: Day(day), SlotID: slotID}
}

// Before 按 (日期, 节次) 排序
func (k SlotKey) Before(o SlotKey) bool {
	if !k.Day.Equal(o.Day) {
		return k.Day.Before(o.Day)
	}
	return k.SlotID < o.SlotID
}

type roomSlot struct {
	roomID string
	key    SlotKey
}

type dateRange struct {
	from, to time.Time
}

// Occupancy 占用快照：教室停用窗口、教室已排课次、当事人（教师/班级）已有安排
type Occupancy struct {
	blocked map[string][]dateRange
	booked  map[roomSlot]struct{}
	busy    map[SlotKey]struct{}
}

// NewOccupancy 创建空快照
func NewOccupancy() *Occupancy {
	return &Occupancy{
		blocked: make(map[string][]dateRange),
		booked:  make(map[roomSlot]struct{}),
		busy:    make(map[SlotKey]struct{}),
	}
}

// Block 登记教室停用窗口（闭区间）
func (o *Occupancy) Block(roomID string, from, to time.Time) {
	o.blocked[roomID] = append(o.blocked[roomID], dateRange{from: Day(from), to: Day(to)})
}

// Book 登记教室在某节次已有未取消课次
func (o *Occupancy) Book(roomID string, day time.Time, slotID int) {
	o.booked[roomSlot{roomID: roomID, key: Key(day, slotID)}] = struct{}{}
}

// MarkBusy 登记当事人在某节次已有安排
func (o *Occupancy) MarkBusy(day time.Time, slotID int) {
	o.busy[Key(day, slotID)] = struct{}{}
}

// IsBlocked 教室当天是否处于停用窗口
func (o *Occupancy) IsBlocked(roomID string, day time.Time) bool {
	d := Day(day)
	for _, r := range o.blocked[roomID] {
		if !d.Before(r.from) && !d.After(r.to) {
			return true
		}
	}
	return false
}

// IsBooked 教室该节次是否已有课次
func (o *Occupancy) IsBooked(roomID string, day time.Time, slotID int) bool {
	_, ok := o.booked[roomSlot{roomID: roomID, key: Key(day, slotID)}]
	return ok
}

// IsFree 教室在该天该节次可用：不在停用窗口内，且无未取消课次
func (o *Occupancy) IsFree(roomID string, day time.Time, slotID int) bool {
	return !o.IsBlocked(roomID, day) && !o.IsBooked(roomID, day, slotID)
}

// PartyBusy 当事人该节次是否已有其他安排
func (o *Occupancy) PartyBusy(day time.Time, slotID int) bool {
	_, ok := o.busy[Key(day, slotID)]
	return ok
}
