package model

import "time"

// Equipment 设备表 — 对应 equipment
type Equipment struct {
	EquipmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"equipment_id"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
}

// TableName 指定表名
func (Equipment) TableName() string { return "equipment" }

// Room 教室表 — 对应 rooms
type Room struct {
	RoomID   string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	Name     string   `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	Capacity int      `gorm:"not null"                                       json:"capacity"`
	Type     RoomType `gorm:"type:varchar(20);not null"                      json:"type"`
	BaseModel

	Equipment []Equipment `gorm:"many2many:room_equipment;foreignKey:RoomID;joinForeignKey:RoomID;references:EquipmentID;joinReferences:EquipmentID" json:"equipment,omitempty"`
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }

// EquipmentIDs 返回教室设备 ID 列表
func (r *Room) EquipmentIDs() []string {
	ids := make([]string, 0, len(r.Equipment))
	for _, e := range r.Equipment {
		ids = append(ids, e.EquipmentID)
	}
	return ids
}

// RoomUnavailability 教室停用窗口 — 对应 room_unavailabilities
// [StartDate, EndDate] 为闭区间
type RoomUnavailability struct {
	RoomUnavailabilityID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_unavailability_id"`
	RoomID               string    `gorm:"type:uuid;not null;index"                       json:"room_id"`
	StartDate            time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate              time.Time `gorm:"type:date;not null"                             json:"end_date"`
	Reason               string    `gorm:"type:varchar(200)"                              json:"reason,omitempty"`
}

// TableName 指定表名
func (RoomUnavailability) TableName() string { return "room_unavailabilities" }
