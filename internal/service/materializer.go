package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"classroom-booking/backend/internal/engine"
	"classroom-booking/backend/internal/model"
	"classroom-booking/backend/internal/repository"
	pkgerrors "classroom-booking/backend/pkg/errors"
)

// ── 落地业务错误 ──

var (
	ErrRoomNotFound  = errors.New("教室不存在")
	ErrRoomConflict  = errors.New("目标教室在该时间段已被占用")
	ErrGroupConflict = errors.New("班级在该时间段已有其他课程")
)

// EventMaterializer 双方同意后把推荐落地为新课次
// 必须在调用方的事务内执行，任何一步失败都整体回滚
type EventMaterializer interface {
	Finalize(ctx context.Context, tx *repository.Repository, n *Negotiation, rec *model.ChangeRecommendation) error
}

type eventMaterializer struct {
	logger *zap.Logger
}

// NewEventMaterializer 创建 EventMaterializer 实例
func NewEventMaterializer(logger *zap.Logger) EventMaterializer {
	return &eventMaterializer{logger: logger}
}

func (m *eventMaterializer) Finalize(ctx context.Context, tx *repository.Repository, n *Negotiation, rec *model.ChangeRecommendation) error {
	// 原课次可能已被同课次的另一申请移走，系列调课同样以其为锚点
	if n.Event.Canceled {
		return ErrCourseEventCanceled
	}
	if _, err := tx.Room.GetByID(ctx, rec.RoomID); err != nil {
		return notFoundAs(err, ErrRoomNotFound)
	}

	var (
		moved int
		err   error
	)
	if n.Request.Cyclical {
		moved, err = m.moveSeries(ctx, tx, n, rec)
	} else {
		moved, err = m.moveSingle(ctx, tx, n, rec)
	}
	if err != nil {
		return err
	}

	if err := closeRequest(ctx, tx, n.Request, model.StatusAccepted); err != nil {
		m.logger.Error("更新调课申请状态失败", zap.String("change_request_id", n.Request.ChangeRequestID), zap.Error(err))
		return err
	}

	m.logger.Info("调课已落地",
		zap.String("change_request_id", n.Request.ChangeRequestID),
		zap.String("recommendation_id", rec.RecommendationID),
		zap.Bool("cyclical", n.Request.Cyclical),
		zap.Int("moved", moved),
	)
	return nil
}

// moveSingle 取消原课次并在推荐的 (日期, 节次, 教室) 创建新课次
func (m *eventMaterializer) moveSingle(ctx context.Context, tx *repository.Repository, n *Negotiation, rec *model.ChangeRecommendation) (int, error) {

	free, err := NewRoomAvailabilityOracle(tx).IsFree(ctx, rec.RoomID, rec.Day, rec.TimeSlotID)
	if err != nil {
		return 0, err
	}
	if !free {
		return 0, ErrRoomConflict
	}

	if err := tx.CourseEvent.MarkCanceled(ctx, []string{n.Event.CourseEventID}); err != nil {
		return 0, err
	}
	next := rescheduled(n.Event, rec.Day, rec.TimeSlotID, rec.RoomID)
	if err := tx.CourseEvent.BatchCreate(ctx, []model.CourseEvent{next}); err != nil {
		return 0, mapEventInsertError(err)
	}
	return 1, nil
}

// moveSeries 整个循环系列按相同天数平移，任一课次冲突则全部不落地
func (m *eventMaterializer) moveSeries(ctx context.Context, tx *repository.Repository, n *Negotiation, rec *model.ChangeRecommendation) (int, error) {
	anchor := toOccurrence(n.Event)
	events, err := tx.CourseEvent.ListSeriesForUpdate(ctx, n.Course.CourseID, n.Event.TimeSlotID, n.Event.Day, n.Request.SeriesEndDate)
	if err != nil {
		return 0, err
	}

	occs := make([]engine.Occurrence, 0, len(events))
	byID := make(map[string]*model.CourseEvent, len(events))
	for i := range events {
		occs = append(occs, toOccurrence(&events[i]))
		byID[events[i].CourseEventID] = &events[i]
	}
	series := engine.SelectSeries(anchor, occs, n.Request.SeriesEndDate)
	if len(series) == 0 {
		return 0, ErrCourseEventCanceled
	}

	shifts := engine.PlanShift(anchor, series, rec.Day)
	ids := make([]string, 0, len(series))
	days := make([]time.Time, 0, len(shifts))
	for _, sh := range shifts {
		ids = append(ids, sh.From.ID)
		days = append(days, sh.NewDay)
	}

	// 系列自身的课次会被取消，不计入占用
	snap, err := NewRoomAvailabilityOracle(tx).Snapshot(ctx, days, ids...)
	if err != nil {
		return 0, err
	}
	snap.MarkBusyFor("", n.GroupID)

	if c := engine.ValidateShifts(shifts, rec.RoomID, rec.TimeSlotID, snap.Occupancy); c != nil {
		m.logger.Warn("循环调课存在冲突",
			zap.String("change_request_id", n.Request.ChangeRequestID),
			zap.String("kind", c.Kind.String()),
			zap.String("day", engine.FormatDay(c.Shift.NewDay)),
		)
		if c.Kind == engine.ConflictGroup {
			return 0, ErrGroupConflict
		}
		return 0, ErrRoomConflict
	}

	if err := tx.CourseEvent.MarkCanceled(ctx, ids); err != nil {
		return 0, err
	}
	next := make([]model.CourseEvent, 0, len(shifts))
	for _, sh := range shifts {
		next = append(next, rescheduled(byID[sh.From.ID], sh.NewDay, rec.TimeSlotID, rec.RoomID))
	}
	if err := tx.CourseEvent.BatchCreate(ctx, next); err != nil {
		return 0, mapEventInsertError(err)
	}
	return len(next), nil
}

func rescheduled(from *model.CourseEvent, day time.Time, slotID int, roomID string) model.CourseEvent {
	fromID := from.CourseEventID
	room := roomID
	return model.CourseEvent{
		CourseID:          from.CourseID,
		RoomID:            &room,
		TimeSlotID:        slotID,
		Day:               engine.Day(day),
		WasRescheduled:    true,
		RescheduledFromID: &fromID,
	}
}

func toOccurrence(e *model.CourseEvent) engine.Occurrence {
	return engine.Occurrence{
		ID:       e.CourseEventID,
		Day:      e.Day,
		SlotID:   e.TimeSlotID,
		RoomID:   e.RoomID,
		Canceled: e.Canceled,
	}
}

// mapEventInsertError 并发下由部分唯一索引兜底的教室冲突
func mapEventInsertError(err error) error {
	if pkgerrors.IsConstraint(err, repository.ConstraintEventRoomSlot) {
		return ErrRoomConflict
	}
	return err
}
