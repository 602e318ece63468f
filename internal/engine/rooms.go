package engine

import "sort"

// Room 参与筛选的教室
type Room struct {
	ID           string
	Name         string
	Capacity     int
	EquipmentIDs []string
}

// Requirements 调课申请对教室的要求
type Requirements struct {
	MinCapacity  int
	EquipmentIDs []string
}

// Satisfies 容量与设备是否满足要求
// MinCapacity <= 0 表示不限容量；设备要求为全包含
func (r Room) Satisfies(req Requirements) bool {
	if req.MinCapacity > 0 && r.Capacity < req.MinCapacity {
		return false
	}
	if len(req.EquipmentIDs) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(r.EquipmentIDs))
	for _, id := range r.EquipmentIDs {
		have[id] = struct{}{}
	}
	for _, id := range req.EquipmentIDs {
		if _, ok := have[id]; !ok {
			return false
		}
	}
	return true
}

// FilterRooms 过滤出可用且满足要求的教室
func FilterRooms(rooms []Room, req Requirements, isFree func(roomID string) bool) []Room {
	var out []Room
	for _, r := range rooms {
		if !isFree(r.ID) {
			continue
		}
		if !r.Satisfies(req) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// RankByCapacity 容量升序（最小满足优先），同容量按名称、ID 稳定排序
func RankByCapacity(rooms []Room) {
	sort.SliceStable(rooms, func(i, j int) bool {
		if rooms[i].Capacity != rooms[j].Capacity {
			return rooms[i].Capacity < rooms[j].Capacity
		}
		if rooms[i].Name != rooms[j].Name {
			return rooms[i].Name < rooms[j].Name
		}
		return rooms[i].ID < rooms[j].ID
	})
}
