package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"classroom-booking/backend/internal/model"
)

// RoomRepository 教室只读访问接口
type RoomRepository interface {
	GetByID(ctx context.Context, id string) (*model.Room, error)
	// ListMatching 容量不小于 minCapacity 且设备全包含 equipmentIDs 的教室（预加载设备）
	ListMatching(ctx context.Context, minCapacity int, equipmentIDs []string) ([]model.Room, error)
}

// RoomUnavailabilityRepository 教室停用窗口只读访问接口
type RoomUnavailabilityRepository interface {
	// ListOverlapping 与 [from, to] 有交集的停用窗口，roomIDs 为空表示全部教室
	ListOverlapping(ctx context.Context, roomIDs []string, from, to time.Time) ([]model.RoomUnavailability, error)
}

// EquipmentRepository 设备只读访问接口
type EquipmentRepository interface {
	ListByIDs(ctx context.Context, ids []string) ([]model.Equipment, error)
	ListByNames(ctx context.Context, names []string) ([]model.Equipment, error)
}

// ── Room Repository 实现 ──

type roomRepo struct {
	db *gorm.DB
}

func NewRoomRepo(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) GetByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Preload("Equipment").
		Where("room_id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) ListMatching(ctx context.Context, minCapacity int, equipmentIDs []string) ([]model.Room, error) {
	q := r.db.WithContext(ctx).Preload("Equipment")
	if minCapacity > 0 {
		q = q.Where("capacity >= ?", minCapacity)
	}
	if len(equipmentIDs) > 0 {
		// room_equipment 按教室分组，匹配数达到要求数即为全包含
		matched := r.db.Table("room_equipment").
			Select("room_id").
			Where("equipment_id IN ?", equipmentIDs).
			Group("room_id").
			Having("COUNT(DISTINCT equipment_id) >= ?", len(equipmentIDs))
		q = q.Where("room_id IN (?)", matched)
	}

	var rooms []model.Room
	err := q.Order("capacity ASC, name ASC").Find(&rooms).Error
	return rooms, err
}

// ── RoomUnavailability Repository 实现 ──

type roomUnavailabilityRepo struct {
	db *gorm.DB
}

func NewRoomUnavailabilityRepo(db *gorm.DB) RoomUnavailabilityRepository {
	return &roomUnavailabilityRepo{db: db}
}

func (r *roomUnavailabilityRepo) ListOverlapping(ctx context.Context, roomIDs []string, from, to time.Time) ([]model.RoomUnavailability, error) {
	q := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", to, from)
	if len(roomIDs) > 0 {
		q = q.Where("room_id IN ?", roomIDs)
	}

	var windows []model.RoomUnavailability
	err := q.Find(&windows).Error
	return windows, err
}

// ── Equipment Repository 实现 ──

type equipmentRepo struct {
	db *gorm.DB
}

func NewEquipmentRepo(db *gorm.DB) EquipmentRepository {
	return &equipmentRepo{db: db}
}

func (r *equipmentRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Equipment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []model.Equipment
	err := r.db.WithContext(ctx).
		Where("equipment_id IN ?", ids).
		Find(&items).Error
	return items, err
}

func (r *equipmentRepo) ListByNames(ctx context.Context, names []string) ([]model.Equipment, error) {
	if len(names) == 0 {
		return nil, nil
	}
	lowered := make([]string, 0, len(names))
	for _, n := range names {
		lowered = append(lowered, strings.ToLower(n))
	}
	var items []model.Equipment
	err := r.db.WithContext(ctx).
		Where("LOWER(name) IN ?", lowered).
		Find(&items).Error
	return items, err
}
