package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"classroom-booking/backend/internal/model"
	pkgerrors "classroom-booking/backend/pkg/errors"
)

// CourseRepository 课程只读访问接口
type CourseRepository interface {
	GetByID(ctx context.Context, id string) (*model.Course, error)
}

// CourseEventRepository 课次数据访问接口
type CourseEventRepository interface {
	GetByID(ctx context.Context, id string) (*model.CourseEvent, error)
	ListByCourse(ctx context.Context, courseID string) ([]model.CourseEvent, error)
	// ListSeriesForUpdate 锁定同课程同节次、日期不早于 from 的未取消课次
	ListSeriesForUpdate(ctx context.Context, courseID string, slotID int, from time.Time, until *time.Time) ([]model.CourseEvent, error)
	// ListActiveOnDays 指定日期内的全部未取消课次（预加载课程）
	ListActiveOnDays(ctx context.Context, days []time.Time) ([]model.CourseEvent, error)
	CountActiveAt(ctx context.Context, roomID string, day time.Time, slotID int) (int64, error)
	BatchCreate(ctx context.Context, events []model.CourseEvent) error
	// MarkCanceled 取消课次；任一课次已是取消状态时返回 ErrOptimisticLock
	MarkCanceled(ctx context.Context, ids []string) error
}

// ── Course Repository 实现 ──

type courseRepo struct {
	db *gorm.DB
}

func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// ── CourseEvent Repository 实现 ──

type courseEventRepo struct {
	db *gorm.DB
}

func NewCourseEventRepo(db *gorm.DB) CourseEventRepository {
	return &courseEventRepo{db: db}
}

func (r *courseEventRepo) GetByID(ctx context.Context, id string) (*model.CourseEvent, error) {
	var event model.CourseEvent
	err := r.db.WithContext(ctx).
		Where("course_event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *courseEventRepo) ListByCourse(ctx context.Context, courseID string) ([]model.CourseEvent, error) {
	var events []model.CourseEvent
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("course_id = ?", courseID).
		Order("day ASC, time_slot_id ASC").
		Find(&events).Error
	return events, err
}

func (r *courseEventRepo) ListSeriesForUpdate(ctx context.Context, courseID string, slotID int, from time.Time, until *time.Time) ([]model.CourseEvent, error) {
	q := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("course_id = ? AND time_slot_id = ? AND canceled = ? AND day >= ?", courseID, slotID, false, from)
	if until != nil {
		q = q.Where("day <= ?", *until)
	}

	var events []model.CourseEvent
	err := q.Order("day ASC").Find(&events).Error
	return events, err
}

func (r *courseEventRepo) ListActiveOnDays(ctx context.Context, days []time.Time) ([]model.CourseEvent, error) {
	if len(days) == 0 {
		return nil, nil
	}
	var events []model.CourseEvent
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("canceled = ? AND day IN ?", false, days).
		Find(&events).Error
	return events, err
}

func (r *courseEventRepo) CountActiveAt(ctx context.Context, roomID string, day time.Time, slotID int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.CourseEvent{}).
		Where("room_id = ? AND day = ? AND time_slot_id = ? AND canceled = ?", roomID, day, slotID, false).
		Count(&n).Error
	return n, err
}

func (r *courseEventRepo) BatchCreate(ctx context.Context, events []model.CourseEvent) error {
	if len(events) == 0 {
		return nil
	}
	return translateError(r.db.WithContext(ctx).Create(&events).Error)
}

func (r *courseEventRepo) MarkCanceled(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&model.CourseEvent{}).
		Where("course_event_id IN ? AND canceled = ?", ids, false).
		Updates(map[string]interface{}{
			"canceled":   true,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	// 其中有课次已被并发取消
	if result.RowsAffected != int64(len(ids)) {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}
