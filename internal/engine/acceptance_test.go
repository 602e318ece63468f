package engine

import "testing"

func TestResolveParty(t *testing.T) {
	if ResolveParty("t", "t", "l") != PartyTeacher {
		t.Error("期望识别为教师")
	}
	if ResolveParty("l", "t", "l") != PartyLeader {
		t.Error("期望识别为班长")
	}
	if ResolveParty("x", "t", "l") != PartyNone {
		t.Error("期望无关用户为 PartyNone")
	}
	if ResolveParty("", "t", "") != PartyNone {
		t.Error("空用户不应匹配空班长")
	}
	if ResolveParty("t", "t", "t") != PartyBoth {
		t.Error("期望兼任教师与班长的用户识别为双方")
	}
}

func TestFlags_BothPartySingleAccept(t *testing.T) {
	f := Flags{}.Accept(PartyBoth)
	if !f.BothAccepted() {
		t.Errorf("兼任双方的用户同意一次即应触发落地，实际 %+v", f)
	}
	f = f.Reject(PartyBoth)
	if f.AcceptedByTeacher || f.AcceptedByLeader || !f.RejectedByTeacher || !f.RejectedByLeader {
		t.Errorf("兼任双方的用户拒绝应同时记录两方，实际 %+v", f)
	}
}

func TestFlags_AcceptTwiceIsNoop(t *testing.T) {
	f := Flags{}.Accept(PartyTeacher)
	again := f.Accept(PartyTeacher)
	if f != again {
		t.Errorf("重复同意不应改变状态: %+v vs %+v", f, again)
	}
	if again.BothAccepted() {
		t.Error("仅教师同意时不应触发落地")
	}
}

func TestFlags_BothAccepted(t *testing.T) {
	f := Flags{}.Accept(PartyTeacher).Accept(PartyLeader)
	if !f.BothAccepted() {
		t.Error("双方同意后应触发落地")
	}
}

func TestFlags_RejectWithdrawsAccept(t *testing.T) {
	f := Flags{}.Accept(PartyLeader).Reject(PartyLeader)
	if f.AcceptedByLeader || !f.RejectedByLeader {
		t.Errorf("拒绝应撤回同意，实际 %+v", f)
	}
	f = f.Accept(PartyLeader)
	if !f.AcceptedByLeader || f.RejectedByLeader {
		t.Errorf("再次同意应覆盖拒绝，实际 %+v", f)
	}
}
