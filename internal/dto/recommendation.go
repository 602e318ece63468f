package dto

// ── 调课推荐 DTO ──

// RecommendationResponse 调课推荐响应
type RecommendationResponse struct {
	ID                string  `json:"id"`
	ChangeRequestID   string  `json:"change_request_id"`
	Day               string  `json:"day"`
	TimeSlotID        int     `json:"time_slot_id"`
	RoomID            string  `json:"room_id"`
	RoomName          string  `json:"room_name,omitempty"`
	RoomCapacity      int     `json:"room_capacity,omitempty"`
	SourceProposalID  *string `json:"source_proposal_id,omitempty"`
	AcceptedByTeacher bool    `json:"accepted_by_teacher"`
	AcceptedByLeader  bool    `json:"accepted_by_leader"`
	RejectedByTeacher bool    `json:"rejected_by_teacher"`
	RejectedByLeader  bool    `json:"rejected_by_leader"`
}

// AcceptanceStatusResponse 推荐的双方同意状态
type AcceptanceStatusResponse struct {
	AcceptedByTeacher bool `json:"accepted_by_teacher"`
	AcceptedByLeader  bool `json:"accepted_by_leader"`
}
