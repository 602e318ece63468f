package model

import "time"

// ChangeRequest 调课申请表 — 对应 change_requests
// 终态后其下的可用时间与推荐全部清除
type ChangeRequest struct {
	ChangeRequestID  string              `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"change_request_id"`
	CourseEventID    string              `gorm:"type:uuid;not null;index"                       json:"course_event_id"`
	InitiatorID      string              `gorm:"type:uuid;not null"                             json:"initiator_id"`
	Reason           string              `gorm:"type:text;not null"                             json:"reason"`
	RoomRequirements string              `gorm:"type:varchar(500)"                              json:"room_requirements,omitempty"` // 仅用于展示
	MinimumCapacity  int                 `gorm:"not null;default:0"                             json:"minimum_capacity"`
	Cyclical         bool                `gorm:"not null;default:false"                         json:"cyclical"`
	SeriesEndDate    *time.Time          `gorm:"type:date"                                      json:"series_end_date,omitempty"`
	Status           ChangeRequestStatus `gorm:"type:varchar(20);not null;default:PENDING"      json:"status"`
	VersionedModel

	CourseEvent *CourseEvent `gorm:"foreignKey:CourseEventID;references:CourseEventID" json:"course_event,omitempty"`
	Equipment   []Equipment  `gorm:"many2many:change_request_equipment;foreignKey:ChangeRequestID;joinForeignKey:ChangeRequestID;references:EquipmentID;joinReferences:EquipmentID" json:"equipment,omitempty"`
}

// TableName 指定表名
func (ChangeRequest) TableName() string { return "change_requests" }

// EquipmentIDs 返回匹配所需的设备 ID
func (cr *ChangeRequest) EquipmentIDs() []string {
	ids := make([]string, 0, len(cr.Equipment))
	for _, e := range cr.Equipment {
		ids = append(ids, e.EquipmentID)
	}
	return ids
}

// AvailabilityProposal 可用时间提议表 — 对应 availability_proposals
// (change_request_id, user_id, day, time_slot_id) 唯一
type AvailabilityProposal struct {
	ProposalID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"proposal_id"`
	ChangeRequestID string    `gorm:"type:uuid;not null"                             json:"change_request_id"`
	UserID          string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Day             time.Time `gorm:"type:date;not null"                             json:"day"`
	TimeSlotID      int       `gorm:"not null"                                       json:"time_slot_id"`
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (AvailabilityProposal) TableName() string { return "availability_proposals" }

// ChangeRecommendation 调课推荐表 — 对应 change_recommendations
// (change_request_id, day, time_slot_id, room_id) 唯一
type ChangeRecommendation struct {
	RecommendationID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"recommendation_id"`
	ChangeRequestID   string    `gorm:"type:uuid;not null"                             json:"change_request_id"`
	Day               time.Time `gorm:"type:date;not null"                             json:"day"`
	TimeSlotID        int       `gorm:"not null"                                       json:"time_slot_id"`
	RoomID            string    `gorm:"type:uuid;not null"                             json:"room_id"`
	SourceProposalID  *string   `gorm:"type:uuid"                                      json:"source_proposal_id,omitempty"`
	AcceptedByTeacher bool      `gorm:"not null;default:false"                         json:"accepted_by_teacher"`
	AcceptedByLeader  bool      `gorm:"not null;default:false"                         json:"accepted_by_leader"`
	RejectedByTeacher bool      `gorm:"not null;default:false"                         json:"rejected_by_teacher"`
	RejectedByLeader  bool      `gorm:"not null;default:false"                         json:"rejected_by_leader"`
	CreatedAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	Room *Room `gorm:"foreignKey:RoomID;references:RoomID" json:"room,omitempty"`
}

// TableName 指定表名
func (ChangeRecommendation) TableName() string { return "change_recommendations" }
