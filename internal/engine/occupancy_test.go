package engine

import "testing"

func TestOccupancy_IsFree(t *testing.T) {
	occ := NewOccupancy()
	occ.Block("r1", mustDay(t, "2024-06-01"), mustDay(t, "2024-06-05"))
	occ.Book("r2", mustDay(t, "2024-06-10"), 2)

	if occ.IsFree("r1", mustDay(t, "2024-06-01"), 1) {
		t.Error("停用窗口起始日应不可用")
	}
	if occ.IsFree("r1", mustDay(t, "2024-06-05"), 1) {
		t.Error("停用窗口结束日应不可用（闭区间）")
	}
	if !occ.IsFree("r1", mustDay(t, "2024-06-06"), 1) {
		t.Error("窗口之后应可用")
	}
	if occ.IsFree("r2", mustDay(t, "2024-06-10"), 2) {
		t.Error("已排课节次应不可用")
	}
	if !occ.IsFree("r2", mustDay(t, "2024-06-10"), 3) {
		t.Error("其他节次应可用")
	}
}

func TestOccupancy_PartyBusy(t *testing.T) {
	occ := NewOccupancy()
	occ.MarkBusy(mustDay(t, "2024-06-10"), 4)
	if !occ.PartyBusy(mustDay(t, "2024-06-10"), 4) {
		t.Error("期望该节次当事人忙碌")
	}
	if occ.PartyBusy(mustDay(t, "2024-06-10"), 5) {
		t.Error("其他节次不应忙碌")
	}
}
