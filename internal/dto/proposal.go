package dto

// ── 可用时间提议 DTO ──

// CreateProposalRequest 提交可用时间
type CreateProposalRequest struct {
	ChangeRequestID string `json:"change_request_id" binding:"required"`
	Day             string `json:"day"               binding:"required,datetime=2006-01-02"`
	TimeSlotID      int    `json:"time_slot_id"      binding:"required,min=1"`
}

// ProposalListRequest 查询当前用户的提议
type ProposalListRequest struct {
	ChangeRequestID string `form:"change_request_id" binding:"required"`
}

// ProposalResponse 可用时间提议响应
type ProposalResponse struct {
	ID              string `json:"id"`
	ChangeRequestID string `json:"change_request_id"`
	UserID          string `json:"user_id"`
	Day             string `json:"day"`
	TimeSlotID      int    `json:"time_slot_id"`
	CreatedAt       string `json:"created_at"`
}
