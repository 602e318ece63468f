package model

// User 用户表 — 对应 users（外部维护，引擎只读）
type User struct {
	UserID  string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name    string   `gorm:"type:varchar(100);not null"                     json:"name"`
	Email   string   `gorm:"type:varchar(200);not null;uniqueIndex"         json:"email"`
	Role    UserRole `gorm:"type:varchar(20);not null"                      json:"role"`
	GroupID *string  `gorm:"type:uuid"                                      json:"group_id,omitempty"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// Group 学生班级表 — 对应 student_groups
type Group struct {
	GroupID  string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"group_id"`
	Name     string  `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	Year     int     `gorm:"not null;default:1"                             json:"year"`
	LeaderID *string `gorm:"type:uuid"                                      json:"leader_id,omitempty"`
	BaseModel

	Leader *User `gorm:"foreignKey:LeaderID;references:UserID" json:"leader,omitempty"`
}

// TableName 指定表名
func (Group) TableName() string { return "student_groups" }
