package handler

import (
	"github.com/gin-gonic/gin"

	"classroom-booking/backend/internal/dto"
	"classroom-booking/backend/internal/service"
	"classroom-booking/backend/pkg/response"
)

// ChangeRequestHandler 调课申请 HTTP 处理器
type ChangeRequestHandler struct {
	crSvc service.ChangeRequestService
}

// NewChangeRequestHandler 创建 ChangeRequestHandler
func NewChangeRequestHandler(crSvc service.ChangeRequestService) *ChangeRequestHandler {
	return &ChangeRequestHandler{crSvc: crSvc}
}

// Create 发起调课申请
// POST /api/v1/change-requests
func (h *ChangeRequestHandler) Create(c *gin.Context) {
	var req dto.CreateChangeRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, role, ok := mustGetCaller(c)
	if !ok {
		return
	}

	cr, err := h.crSvc.Create(c.Request.Context(), &req, callerID, role)
	if err != nil {
		handleNegotiationError(c, err)
		return
	}

	response.Created(c, cr)
}

// Get 获取调课申请详情
// GET /api/v1/change-requests/:id
func (h *ChangeRequestHandler) Get(c *gin.Context) {
	callerID, role, ok := mustGetCaller(c)
	if !ok {
		return
	}

	cr, err := h.crSvc.GetByID(c.Request.Context(), c.Param("id"), callerID, role)
	if err != nil {
		handleNegotiationError(c, err)
		return
	}

	response.OK(c, cr)
}

// ListRelated 当前用户作为教师或班长相关的申请
// GET /api/v1/change-requests/related?status=PENDING
func (h *ChangeRequestHandler) ListRelated(c *gin.Context) {
	var req dto.ChangeRequestListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.crSvc.ListRelated(c.Request.Context(), &req, callerID)
	if err != nil {
		handleNegotiationError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ProposalStatus 双方是否已提交可用时间
// GET /api/v1/change-requests/:id/proposal-status
func (h *ChangeRequestHandler) ProposalStatus(c *gin.Context) {
	callerID, role, ok := mustGetCaller(c)
	if !ok {
		return
	}

	st, err := h.crSvc.ProposalStatus(c.Request.Context(), c.Param("id"), callerID, role)
	if err != nil {
		handleNegotiationError(c, err)
		return
	}

	response.OK(c, st)
}

// Reject 否决整个申请
// POST /api/v1/change-requests/:id/reject
func (h *ChangeRequestHandler) Reject(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.crSvc.Reject(c.Request.Context(), c.Param("id"), callerID); err != nil {
		handleNegotiationError(c, err)
		return
	}

	response.NoContent(c)
}

// Cancel 撤销申请（发起人或教务）
// POST /api/v1/change-requests/:id/cancel
func (h *ChangeRequestHandler) Cancel(c *gin.Context) {
	callerID, role, ok := mustGetCaller(c)
	if !ok {
		return
	}

	if err := h.crSvc.Cancel(c.Request.Context(), c.Param("id"), callerID, role); err != nil {
		handleNegotiationError(c, err)
		return
	}

	response.NoContent(c)
}
