package engine

import "sort"

// CandidateKey 推荐的唯一键
type CandidateKey struct {
	SlotKey
	RoomID string
}

// Candidate 一条候选推荐
type Candidate struct {
	SlotKey
	RoomID           string
	RoomName         string
	RoomCapacity     int
	SourceProposalID string
}

// Key 返回唯一键
func (c Candidate) Key() CandidateKey {
	return CandidateKey{SlotKey: c.SlotKey, RoomID: c.RoomID}
}

// Ranker 可选的二次排序阶段
type Ranker interface {
	Rank(cands []Candidate, occ *Occupancy) []Candidate
}

// GenerateInput 推荐计算的全部输入
type GenerateInput struct {
	TeacherProposals []Proposal
	LeaderProposals  []Proposal
	Rooms            []Room
	Requirements     Requirements
	Occupancy        *Occupancy
	Existing         []CandidateKey
	Ranking          Ranker // nil 表示关闭
}

// GenerateResult All 为本次计算的完整候选集，New 为尚未持久化的部分
type GenerateResult struct {
	Common []CommonSlot
	All    []Candidate
	New    []Candidate
}

// Generate 计算推荐
//
//  1. 双方提议按 (日期, 节次) 求交，为空则无推荐
//  2. 当事人在该节次已有其他安排的跳过
//  3. 每个共同节次内筛选可用、容量与设备满足的教室，容量升序
//  4. 可选二次排序（不会把结果筛空）
//  5. 与已持久化推荐按 (日期, 节次, 教室) 去重
func Generate(in GenerateInput) GenerateResult {
	occ := in.Occupancy
	if occ == nil {
		occ = NewOccupancy()
	}

	res := GenerateResult{Common: CommonSlots(in.TeacherProposals, in.LeaderProposals)}
	if len(res.Common) == 0 {
		return res
	}

	for _, cs := range res.Common {
		if occ.PartyBusy(cs.Day, cs.SlotID) {
			continue
		}
		rooms := FilterRooms(in.Rooms, in.Requirements, func(roomID string) bool {
			return occ.IsFree(roomID, cs.Day, cs.SlotID)
		})
		RankByCapacity(rooms)
		for _, r := range rooms {
			res.All = append(res.All, Candidate{
				SlotKey:          cs.SlotKey,
				RoomID:           r.ID,
				RoomName:         r.Name,
				RoomCapacity:     r.Capacity,
				SourceProposalID: cs.SourceProposalID,
			})
		}
	}

	if in.Ranking != nil && len(res.All) > 0 {
		res.All = in.Ranking.Rank(res.All, occ)
	}

	existing := make(map[CandidateKey]struct{}, len(in.Existing))
	for _, k := range in.Existing {
		existing[CandidateKey{SlotKey: Key(k.Day, k.SlotID), RoomID: k.RoomID}] = struct{}{}
	}
	for _, c := range res.All {
		k := c.Key()
		if _, ok := existing[k]; ok {
			continue
		}
		existing[k] = struct{}{}
		res.New = append(res.New, c)
	}

	return res
}

// SortCandidates (日期, 节次, 容量, 名称, 教室 ID) 升序
func SortCandidates(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if !a.Day.Equal(b.Day) {
			return a.Day.Before(b.Day)
		}
		if a.SlotID != b.SlotID {
			return a.SlotID < b.SlotID
		}
		if a.RoomCapacity != b.RoomCapacity {
			return a.RoomCapacity < b.RoomCapacity
		}
		if a.RoomName != b.RoomName {
			return a.RoomName < b.RoomName
		}
		return a.RoomID < b.RoomID
	})
}
