package model

import "time"

// Course 课程表 — 对应 courses
type Course struct {
	CourseID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Name      string `gorm:"type:varchar(200);not null"                     json:"name"`
	TeacherID string `gorm:"type:uuid;not null"                             json:"teacher_id"`
	GroupID   string `gorm:"type:uuid;not null"                             json:"group_id"`
	BaseModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// CourseEvent 课次表 — 对应 course_events
// 未取消的课次独占 (room_id, day, time_slot_id)，由部分唯一索引保证
type CourseEvent struct {
	CourseEventID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_event_id"`
	CourseID          string    `gorm:"type:uuid;not null"                             json:"course_id"`
	RoomID            *string   `gorm:"type:uuid"                                      json:"room_id,omitempty"`
	TimeSlotID        int       `gorm:"not null"                                       json:"time_slot_id"`
	Day               time.Time `gorm:"type:date;not null"                             json:"day"`
	Canceled          bool      `gorm:"not null;default:false"                         json:"canceled"`
	WasRescheduled    bool      `gorm:"not null;default:false"                         json:"was_rescheduled"`
	RescheduledFromID *string   `gorm:"type:uuid"                                      json:"rescheduled_from_id,omitempty"`
	BaseModel

	Course   *Course   `gorm:"foreignKey:CourseID;references:CourseID"     json:"course,omitempty"`
	Room     *Room     `gorm:"foreignKey:RoomID;references:RoomID"         json:"room,omitempty"`
	TimeSlot *TimeSlot `gorm:"foreignKey:TimeSlotID;references:TimeSlotID" json:"time_slot,omitempty"`
}

// TableName 指定表名
func (CourseEvent) TableName() string { return "course_events" }
