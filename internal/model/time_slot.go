package model

// TimeSlot 节次表 — 对应 time_slots（迁移脚本预置 1~7 节）
type TimeSlot struct {
	TimeSlotID int    `gorm:"primaryKey;autoIncrement:false" json:"time_slot_id"`
	StartTime  string `gorm:"type:varchar(5);not null"       json:"start_time"` // HH:MM
	EndTime    string `gorm:"type:varchar(5);not null"       json:"end_time"`   // HH:MM
}

// TableName 指定表名
func (TimeSlot) TableName() string { return "time_slots" }
