package repository

import (
	"context"

	"gorm.io/gorm"

	"classroom-booking/backend/internal/model"
)

// TimeSlotRepository 节次只读访问接口
type TimeSlotRepository interface {
	GetByID(ctx context.Context, id int) (*model.TimeSlot, error)
	List(ctx context.Context) ([]model.TimeSlot, error)
}

type timeSlotRepo struct {
	db *gorm.DB
}

func NewTimeSlotRepo(db *gorm.DB) TimeSlotRepository {
	return &timeSlotRepo{db: db}
}

func (r *timeSlotRepo) GetByID(ctx context.Context, id int) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	err := r.db.WithContext(ctx).
		Where("time_slot_id = ?", id).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *timeSlotRepo) List(ctx context.Context) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	err := r.db.WithContext(ctx).
		Order("time_slot_id ASC").
		Find(&slots).Error
	return slots, err
}
