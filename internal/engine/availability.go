package engine

import (
	"sort"
	"time"
)

// Proposal 当事人提交的一条可用时间
type Proposal struct {
	ID     string
	Day    time.Time
	SlotID int
}

// CommonSlot 双方都可用的节次，SourceProposalID 指向教师一方的提议
type CommonSlot struct {
	SlotKey
	SourceProposalID string
}

// CommonSlots 按 (日期, 节次) 精确求交，结果按时间升序
func CommonSlots(teacher, leader []Proposal) []CommonSlot {
	leaderKeys := make(map[SlotKey]struct{}, len(leader))
	for _, p := range leader {
		leaderKeys[Key(p.Day, p.SlotID)] = struct{}{}
	}

	seen := make(map[SlotKey]struct{}, len(teacher))
	var out []CommonSlot
	for _, p := range teacher {
		k := Key(p.Day, p.SlotID)
		if _, ok := leaderKeys[k]; !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, CommonSlot{SlotKey: k, SourceProposalID: p.ID})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].SlotKey.Before(out[j].SlotKey) })
	return out
}

// Days 返回去重后的日期列表
func Days(slots []CommonSlot) []time.Time {
	seen := make(map[time.Time]struct{}, len(slots))
	var days []time.Time
	for _, s := range slots {
		if _, ok := seen[s.Day]; ok {
			continue
		}
		seen[s.Day] = struct{}{}
		days = append(days, s.Day)
	}
	return days
}
