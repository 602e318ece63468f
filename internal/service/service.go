package service

import (
	"go.uber.org/zap"

	"classroom-booking/backend/config"
	"classroom-booking/backend/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	ChangeRequest  ChangeRequestService
	Proposal       ProposalService
	Recommendation RecommendationService
	Acceptance     AcceptanceService
	TimeSlot       TimeSlotService
	Export         ExportService
	Auth           AuthService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	materializer := NewEventMaterializer(logger)
	return &Service{
		ChangeRequest:  NewChangeRequestService(repo, logger),
		Proposal:       NewProposalService(repo, logger),
		Recommendation: NewRecommendationService(repo, cfg.Engine, logger),
		Acceptance:     NewAcceptanceService(repo, materializer, cfg.Engine, logger),
		TimeSlot:       NewTimeSlotService(repo, logger),
		Export:         NewExportService(repo, cfg.Engine.Location(), logger),
		Auth:           NewAuthService(blacklist, logger),
	}
}
