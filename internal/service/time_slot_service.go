package service

import (
	"context"

	"go.uber.org/zap"

	"classroom-booking/backend/internal/dto"
	"classroom-booking/backend/internal/engine"
	"classroom-booking/backend/internal/repository"
)

// TimeSlotService 节次目录接口
type TimeSlotService interface {
	List(ctx context.Context) ([]dto.TimeSlotResponse, error)
}

type timeSlotService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimeSlotService 创建 TimeSlotService 实例
func NewTimeSlotService(repo *repository.Repository, logger *zap.Logger) TimeSlotService {
	return &timeSlotService{repo: repo, logger: logger}
}

func (s *timeSlotService) List(ctx context.Context) ([]dto.TimeSlotResponse, error) {
	grid, err := loadGrid(ctx, s.repo)
	if err != nil {
		s.logger.Error("列出节次失败", zap.Error(err))
		return nil, err
	}

	slots := grid.Slots()
	result := make([]dto.TimeSlotResponse, 0, len(slots))
	for _, sl := range slots {
		result = append(result, dto.TimeSlotResponse{ID: sl.ID, StartTime: sl.Start, EndTime: sl.End})
	}
	return result, nil
}

// loadGrid 从 time_slots 构建节次表，表为空时使用默认节次
func loadGrid(ctx context.Context, repo *repository.Repository) (engine.Grid, error) {
	rows, err := repo.TimeSlot.List(ctx)
	if err != nil {
		return engine.Grid{}, err
	}
	if len(rows) == 0 {
		return engine.DefaultGrid(), nil
	}
	slots := make([]engine.Slot, 0, len(rows))
	for _, r := range rows {
		slots = append(slots, engine.Slot{ID: r.TimeSlotID, Start: r.StartTime, End: r.EndTime})
	}
	return engine.NewGrid(slots), nil
}
