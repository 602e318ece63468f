package service

import (
	"context"
	"time"

	"classroom-booking/backend/internal/engine"
	"classroom-booking/backend/internal/model"
	"classroom-booking/backend/internal/repository"
)

// RoomAvailabilityOracle 教室可用性查询
// 教室在 (日期, 节次) 可用：不处于停用窗口，且没有未取消的课次
type RoomAvailabilityOracle interface {
	IsFree(ctx context.Context, roomID string, day time.Time, slotID int) (bool, error)
	// Snapshot 一次性加载若干天的占用情况，excludeEventIDs 中的课次视为不存在
	Snapshot(ctx context.Context, days []time.Time, excludeEventIDs ...string) (*OccupancySnapshot, error)
}

type roomAvailabilityOracle struct {
	repo *repository.Repository
}

// NewRoomAvailabilityOracle 基于给定 Repository（可为事务内聚合）创建
func NewRoomAvailabilityOracle(repo *repository.Repository) RoomAvailabilityOracle {
	return &roomAvailabilityOracle{repo: repo}
}

func (o *roomAvailabilityOracle) IsFree(ctx context.Context, roomID string, day time.Time, slotID int) (bool, error) {
	d := engine.Day(day)
	windows, err := o.repo.RoomUnavailability.ListOverlapping(ctx, []string{roomID}, d, d)
	if err != nil {
		return false, err
	}
	if len(windows) > 0 {
		return false, nil
	}
	n, err := o.repo.CourseEvent.CountActiveAt(ctx, roomID, d, slotID)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (o *roomAvailabilityOracle) Snapshot(ctx context.Context, days []time.Time, excludeEventIDs ...string) (*OccupancySnapshot, error) {
	snap := &OccupancySnapshot{Occupancy: engine.NewOccupancy()}
	if len(days) == 0 {
		return snap, nil
	}

	normalized := make([]time.Time, 0, len(days))
	from, to := engine.Day(days[0]), engine.Day(days[0])
	for _, d := range days {
		d = engine.Day(d)
		normalized = append(normalized, d)
		if d.Before(from) {
			from = d
		}
		if d.After(to) {
			to = d
		}
	}

	windows, err := o.repo.RoomUnavailability.ListOverlapping(ctx, nil, from, to)
	if err != nil {
		return nil, err
	}
	for _, w := range windows {
		snap.Occupancy.Block(w.RoomID, w.StartDate, w.EndDate)
	}

	events, err := o.repo.CourseEvent.ListActiveOnDays(ctx, normalized)
	if err != nil {
		return nil, err
	}
	skip := toSet(excludeEventIDs)
	for _, e := range events {
		if _, ok := skip[e.CourseEventID]; ok {
			continue
		}
		snap.events = append(snap.events, e)
		if e.RoomID != nil {
			snap.Occupancy.Book(*e.RoomID, e.Day, e.TimeSlotID)
		}
	}
	return snap, nil
}

// OccupancySnapshot 快照及其来源课次
type OccupancySnapshot struct {
	Occupancy *engine.Occupancy
	events    []model.CourseEvent
}

// MarkBusyFor 把教师或班级的其他课次登记为当事人已有安排
// teacherID / groupID 为空时跳过对应维度
func (s *OccupancySnapshot) MarkBusyFor(teacherID, groupID string, excludeEventIDs ...string) {
	skip := toSet(excludeEventIDs)
	for _, e := range s.events {
		if _, ok := skip[e.CourseEventID]; ok || e.Course == nil {
			continue
		}
		if (teacherID != "" && e.Course.TeacherID == teacherID) || (groupID != "" && e.Course.GroupID == groupID) {
			s.Occupancy.MarkBusy(e.Day, e.TimeSlotID)
		}
	}
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
