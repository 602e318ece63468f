package model

// ── 用户角色 ──

// UserRole 用户角色
type UserRole string

const (
	RoleAdmin       UserRole = "ADMIN"
	RoleCoordinator UserRole = "COORDINATOR"
	RoleTeacher     UserRole = "TEACHER"
	RoleLeader      UserRole = "LEADER"
)

// Valid 是否为已知角色
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleCoordinator, RoleTeacher, RoleLeader:
		return true
	default:
		return false
	}
}

// IsStaff 管理员与教务协调员可代为操作任意申请
func (r UserRole) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleCoordinator:
		return true
	case RoleTeacher, RoleLeader:
		return false
	default:
		return false
	}
}

// ── 调课申请状态 ──

// ChangeRequestStatus 调课申请状态
// PENDING → ACCEPTED | REJECTED | CANCELLED，三个终态不可再迁移
type ChangeRequestStatus string

const (
	StatusPending   ChangeRequestStatus = "PENDING"
	StatusAccepted  ChangeRequestStatus = "ACCEPTED"
	StatusRejected  ChangeRequestStatus = "REJECTED"
	StatusCancelled ChangeRequestStatus = "CANCELLED"
)

// Valid 是否为已知状态
func (s ChangeRequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal 是否为终态
func (s ChangeRequestStatus) IsTerminal() bool {
	switch s {
	case StatusPending:
		return false
	case StatusAccepted, StatusRejected, StatusCancelled:
		return true
	default:
		return true
	}
}

// CanTransitionTo 状态迁移只允许从 PENDING 进入某个终态
func (s ChangeRequestStatus) CanTransitionTo(next ChangeRequestStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusAccepted || next == StatusRejected || next == StatusCancelled
	case StatusAccepted, StatusRejected, StatusCancelled:
		return false
	default:
		return false
	}
}

// ── 教室类型 ──

// RoomType 教室类型
type RoomType string

const (
	RoomLectureHall    RoomType = "LECTURE_HALL"
	RoomLaboratory     RoomType = "LABORATORY"
	RoomSeminarRoom    RoomType = "SEMINAR_ROOM"
	RoomConferenceRoom RoomType = "CONFERENCE_ROOM"
	RoomOther          RoomType = "OTHER"
)

// Valid 是否为已知教室类型
func (t RoomType) Valid() bool {
	switch t {
	case RoomLectureHall, RoomLaboratory, RoomSeminarRoom, RoomConferenceRoom, RoomOther:
		return true
	default:
		return false
	}
}
