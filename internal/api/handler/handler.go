package handler

import "classroom-booking/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	ChangeRequest  *ChangeRequestHandler
	Proposal       *ProposalHandler
	Recommendation *RecommendationHandler
	TimeSlot       *TimeSlotHandler
	Export         *ExportHandler
	Auth           *AuthHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		ChangeRequest:  NewChangeRequestHandler(svc.ChangeRequest),
		Proposal:       NewProposalHandler(svc.Proposal),
		Recommendation: NewRecommendationHandler(svc.Recommendation, svc.Acceptance),
		TimeSlot:       NewTimeSlotHandler(svc.TimeSlot),
		Export:         NewExportHandler(svc.Export),
		Auth:           NewAuthHandler(svc.Auth),
	}
}
