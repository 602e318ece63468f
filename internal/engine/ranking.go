package engine

// SecondaryRanking 二次排序：
//
//	(a) 优先非晚间节次（当天最后 TerminalSlots 个节次）
//	(b) 优先与同教室同日已有课次相邻的节次
//
// 每一步只在不会清空结果时生效，保留容量排序的相对次序
type SecondaryRanking struct {
	Grid          Grid
	TerminalSlots int
}

// Rank 实现 Ranker
func (s SecondaryRanking) Rank(cands []Candidate, occ *Occupancy) []Candidate {
	out := narrow(cands, func(c Candidate) bool {
		return !s.Grid.IsTerminal(c.SlotID, s.TerminalSlots)
	})
	out = narrow(out, func(c Candidate) bool {
		return s.adjacentToBooking(c, occ)
	})
	return out
}

func (s SecondaryRanking) adjacentToBooking(c Candidate, occ *Occupancy) bool {
	if occ == nil {
		return false
	}
	for _, slot := range s.Grid.slots {
		if s.Grid.Adjacent(slot.ID, c.SlotID) && occ.IsBooked(c.RoomID, c.Day, slot.ID) {
			return true
		}
	}
	return false
}

func narrow(cands []Candidate, keep func(Candidate) bool) []Candidate {
	var kept []Candidate
	for _, c := range cands {
		if keep(c) {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return cands
	}
	return kept
}
