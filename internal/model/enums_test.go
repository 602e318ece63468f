package model

import "testing"

func TestChangeRequestStatus_Transitions(t *testing.T) {
	if StatusPending.IsTerminal() {
		t.Error("PENDING 不应为终态")
	}
	for _, s := range []ChangeRequestStatus{StatusAccepted, StatusRejected, StatusCancelled} {
		if !s.IsTerminal() {
			t.Errorf("%s 应为终态", s)
		}
		if !StatusPending.CanTransitionTo(s) {
			t.Errorf("期望 PENDING → %s 合法", s)
		}
		if s.CanTransitionTo(StatusPending) {
			t.Errorf("期望 %s → PENDING 非法", s)
		}
	}
	if ChangeRequestStatus("UNKNOWN").Valid() {
		t.Error("未知状态不应通过 Valid")
	}
	if !ChangeRequestStatus("UNKNOWN").IsTerminal() {
		t.Error("未知状态应按终态处理")
	}
}

func TestUserRole_IsStaff(t *testing.T) {
	if !RoleAdmin.IsStaff() || !RoleCoordinator.IsStaff() {
		t.Error("ADMIN/COORDINATOR 应视为教务人员")
	}
	if RoleTeacher.IsStaff() || RoleLeader.IsStaff() {
		t.Error("TEACHER/LEADER 不应视为教务人员")
	}
}

func TestRoomType_Valid(t *testing.T) {
	if !RoomLaboratory.Valid() {
		t.Error("LABORATORY 应合法")
	}
	if RoomType("GARAGE").Valid() {
		t.Error("GARAGE 不应合法")
	}
}
