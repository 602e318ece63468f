package handler

import (
	"github.com/gin-gonic/gin"

	"classroom-booking/backend/internal/service"
	"classroom-booking/backend/pkg/response"
)

// RecommendationHandler 调课推荐与双方确认 HTTP 处理器
type RecommendationHandler struct {
	recSvc        service.RecommendationService
	acceptanceSvc service.AcceptanceService
}

// NewRecommendationHandler 创建 RecommendationHandler
func NewRecommendationHandler(recSvc service.RecommendationService, acceptanceSvc service.AcceptanceService) *RecommendationHandler {
	return &RecommendationHandler{recSvc: recSvc, acceptanceSvc: acceptanceSvc}
}

// Generate 根据双方共同可用时间生成推荐
// POST /api/v1/recommendations/:id  (id 为调课申请 ID)
func (h *RecommendationHandler) Generate(c *gin.Context) {
	callerID, role, ok := mustGetCaller(c)
	if !ok {
		return
	}

	recs, err := h.recSvc.Generate(c.Request.Context(), c.Param("id"), callerID, role)
	if err != nil {
		handleNegotiationError(c, err)
		return
	}

	response.OK(c, gin.H{"list": recs})
}

// List 已生成的推荐
// GET /api/v1/recommendations/:id  (id 为调课申请 ID)
func (h *RecommendationHandler) List(c *gin.Context) {
	callerID, role, ok := mustGetCaller(c)
	if !ok {
		return
	}

	recs, err := h.recSvc.List(c.Request.Context(), c.Param("id"), callerID, role)
	if err != nil {
		handleNegotiationError(c, err)
		return
	}

	response.OK(c, gin.H{"list": recs})
}

// Accept 同意推荐，双方都同意后落地课次
// POST /api/v1/recommendations/:id/accept
func (h *RecommendationHandler) Accept(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	cr, err := h.acceptanceSvc.Accept(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		handleNegotiationError(c, err)
		return
	}

	response.OK(c, cr)
}

// Reject 拒绝推荐
// POST /api/v1/recommendations/:id/reject
func (h *RecommendationHandler) Reject(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if _, err := h.acceptanceSvc.Reject(c.Request.Context(), c.Param("id"), callerID); err != nil {
		handleNegotiationError(c, err)
		return
	}

	response.NoContent(c)
}

// AcceptanceStatus 推荐的双方同意状态
// GET /api/v1/recommendations/:id/acceptance-status
func (h *RecommendationHandler) AcceptanceStatus(c *gin.Context) {
	st, err := h.acceptanceSvc.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleNegotiationError(c, err)
		return
	}

	response.OK(c, st)
}
