package engine

// Party 协商当事方
type Party int

const (
	PartyNone Party = iota
	PartyTeacher
	PartyLeader
	// PartyBoth 同一用户既是课程教师又是班长，一次操作代表双方
	PartyBoth
)

func (p Party) String() string {
	switch p {
	case PartyTeacher:
		return "teacher"
	case PartyLeader:
		return "leader"
	case PartyBoth:
		return "both"
	case PartyNone:
		return "none"
	default:
		return "none"
	}
}

// ResolveParty 判断用户在该申请中的身份
func ResolveParty(userID, teacherID, leaderID string) Party {
	switch {
	case userID == "":
		return PartyNone
	case userID == teacherID && userID == leaderID:
		return PartyBoth
	case userID == teacherID:
		return PartyTeacher
	case userID == leaderID:
		return PartyLeader
	default:
		return PartyNone
	}
}

// Flags 推荐上的双方确认标志
type Flags struct {
	AcceptedByTeacher bool
	AcceptedByLeader  bool
	RejectedByTeacher bool
	RejectedByLeader  bool
}

// Accept 记录一方同意，同一方此前的拒绝被覆盖；重复同意不改变状态
func (f Flags) Accept(p Party) Flags {
	switch p {
	case PartyTeacher:
		f.AcceptedByTeacher = true
		f.RejectedByTeacher = false
	case PartyLeader:
		f.AcceptedByLeader = true
		f.RejectedByLeader = false
	case PartyBoth:
		f = f.Accept(PartyTeacher).Accept(PartyLeader)
	case PartyNone:
	}
	return f
}

// Reject 记录一方拒绝，同一方此前的同意被撤回
func (f Flags) Reject(p Party) Flags {
	switch p {
	case PartyTeacher:
		f.RejectedByTeacher = true
		f.AcceptedByTeacher = false
	case PartyLeader:
		f.RejectedByLeader = true
		f.AcceptedByLeader = false
	case PartyBoth:
		f = f.Reject(PartyTeacher).Reject(PartyLeader)
	case PartyNone:
	}
	return f
}

// BothAccepted 双方均已同意，应触发落地
func (f Flags) BothAccepted() bool {
	return f.AcceptedByTeacher && f.AcceptedByLeader
}
