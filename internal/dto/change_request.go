package dto

// ── 调课申请 DTO ──

// CreateChangeRequestRequest 发起调课申请
// 设备要求优先使用 equipment_ids；room_requirements 为逗号分隔的设备名，
// 仅在未提供 equipment_ids 时于创建时解析，之后只作展示
type CreateChangeRequestRequest struct {
	CourseEventID    string   `json:"course_event_id"   binding:"required"`
	Reason           string   `json:"reason"            binding:"required,max=2000"`
	MinimumCapacity  int      `json:"minimum_capacity"  binding:"min=0"`
	EquipmentIDs     []string `json:"equipment_ids"     binding:"omitempty,dive,required"`
	RoomRequirements string   `json:"room_requirements" binding:"omitempty,max=500"`
	Cyclical         bool     `json:"cyclical"`
	SeriesEndDate    *string  `json:"series_end_date"   binding:"omitempty,datetime=2006-01-02"`
}

// ChangeRequestListRequest 相关申请查询参数
type ChangeRequestListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=PENDING ACCEPTED REJECTED CANCELLED"`
}

// ChangeRequestResponse 调课申请响应
type ChangeRequestResponse struct {
	ID               string   `json:"id"`
	CourseEventID    string   `json:"course_event_id"`
	InitiatorID      string   `json:"initiator_id"`
	Reason           string   `json:"reason"`
	RoomRequirements string   `json:"room_requirements,omitempty"`
	EquipmentIDs     []string `json:"equipment_ids"`
	MinimumCapacity  int      `json:"minimum_capacity"`
	Cyclical         bool     `json:"cyclical"`
	SeriesEndDate    *string  `json:"series_end_date,omitempty"`
	Status           string   `json:"status"`
	TeacherID        string   `json:"teacher_id,omitempty"`
	LeaderID         string   `json:"leader_id,omitempty"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
}

// ProposalStatusResponse 双方是否已提交可用时间
type ProposalStatusResponse struct {
	TeacherHasProposed bool `json:"teacher_has_proposed"`
	LeaderHasProposed  bool `json:"leader_has_proposed"`
}
