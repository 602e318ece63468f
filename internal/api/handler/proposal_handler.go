package handler

import (
	"github.com/gin-gonic/gin"

	"classroom-booking/backend/internal/dto"
	"classroom-booking/backend/internal/service"
	"classroom-booking/backend/pkg/response"
)

// ProposalHandler 可用时间提议 HTTP 处理器
type ProposalHandler struct {
	proposalSvc service.ProposalService
}

// NewProposalHandler 创建 ProposalHandler
func NewProposalHandler(proposalSvc service.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposalSvc: proposalSvc}
}

// Submit 提交可用时间
// POST /api/v1/proposals
func (h *ProposalHandler) Submit(c *gin.Context) {
	var req dto.CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	p, err := h.proposalSvc.Submit(c.Request.Context(), &req, callerID)
	if err != nil {
		handleNegotiationError(c, err)
		return
	}

	response.Created(c, p)
}

// ListMine 当前用户在某申请下的提议
// GET /api/v1/proposals?change_request_id=xxx
func (h *ProposalHandler) ListMine(c *gin.Context) {
	var req dto.ProposalListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "change_request_id 不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.proposalSvc.ListMine(c.Request.Context(), &req, callerID)
	if err != nil {
		handleNegotiationError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// Withdraw 撤回自己的提议
// DELETE /api/v1/proposals/:id
func (h *ProposalHandler) Withdraw(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.proposalSvc.Withdraw(c.Request.Context(), c.Param("id"), callerID); err != nil {
		handleNegotiationError(c, err)
		return
	}

	response.NoContent(c)
}
