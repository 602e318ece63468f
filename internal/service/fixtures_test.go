package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"classroom-booking/backend/config"
	"classroom-booking/backend/internal/dto"
	"classroom-booking/backend/internal/engine"
	"classroom-booking/backend/internal/model"
	"classroom-booking/backend/internal/repository"
)

// ── 测试数据 ──

const (
	teacherID   = "u-teacher"
	leaderID    = "u-leader"
	outsiderID  = "u-outsider"
	adminID     = "u-admin"
	groupID     = "g-1"
	courseID    = "c-1"
	origEventID = "ev-orig"

	roomA = "r-a" // A101 容量 30，投影仪
	roomB = "r-b" // B201 容量 20
	roomC = "r-c" // C301 容量 80，投影仪

	projectorID = "eq-projector"
)

type fixture struct {
	store *memStore
	repo  *repository.Repository
	tx    *mockTxManager
	svc   *Service
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := engine.ParseDay(s)
	if err != nil {
		t.Fatalf("解析日期 %s 失败: %v", s, err)
	}
	return d
}

func strPtr(s string) *string { return &s }

// newFixture 一门课程、一个班级、三间教室、默认 7 个节次，
// 原课次 2024-06-03 第 1 节在 A101
func newFixture(t *testing.T, engineCfg config.EngineConfig) *fixture {
	t.Helper()
	if engineCfg.RejectPolicy == "" {
		engineCfg.RejectPolicy = config.RejectPolicyRecommendation
	}
	if engineCfg.Timezone == "" {
		engineCfg.Timezone = "UTC"
	}

	store := newMemStore()
	store.users[teacherID] = model.User{UserID: teacherID, Name: "Kowalski", Role: model.RoleTeacher}
	store.users[leaderID] = model.User{UserID: leaderID, Name: "Nowak", Role: model.RoleLeader, GroupID: strPtr(groupID)}
	store.users[outsiderID] = model.User{UserID: outsiderID, Name: "Outsider", Role: model.RoleTeacher}
	store.users[adminID] = model.User{UserID: adminID, Name: "Admin", Role: model.RoleAdmin}
	store.groups[groupID] = model.Group{GroupID: groupID, Name: "INF-1", Year: 1, LeaderID: strPtr(leaderID)}
	store.courses[courseID] = model.Course{CourseID: courseID, Name: "Algorytmy", TeacherID: teacherID, GroupID: groupID}

	projector := model.Equipment{EquipmentID: projectorID, Name: "Projector"}
	store.equipment[projectorID] = projector
	store.equipment["eq-board"] = model.Equipment{EquipmentID: "eq-board", Name: "Whiteboard"}
	store.rooms[roomA] = model.Room{RoomID: roomA, Name: "A101", Capacity: 30, Type: model.RoomLectureHall, Equipment: []model.Equipment{projector}}
	store.rooms[roomB] = model.Room{RoomID: roomB, Name: "B201", Capacity: 20, Type: model.RoomSeminarRoom}
	store.rooms[roomC] = model.Room{RoomID: roomC, Name: "C301", Capacity: 80, Type: model.RoomLectureHall, Equipment: []model.Equipment{projector}}

	for _, sl := range engine.DefaultGrid().Slots() {
		store.slots[sl.ID] = model.TimeSlot{TimeSlotID: sl.ID, StartTime: sl.Start, EndTime: sl.End}
	}

	f := &fixture{store: store}
	f.addEvent(t, origEventID, courseID, roomA, "2024-06-03", 1)

	f.repo, f.tx = newMockRepository(store)
	f.svc = NewService(&config.Config{Engine: engineCfg}, f.repo, nil, zap.NewNop())
	return f
}

func (f *fixture) addEvent(t *testing.T, id, course, room, day string, slot int) {
	t.Helper()
	e := model.CourseEvent{CourseEventID: id, CourseID: course, TimeSlotID: slot, Day: mustDay(t, day)}
	if room != "" {
		e.RoomID = strPtr(room)
	}
	f.store.events[id] = e
}

// addOtherCourse 另一门课程；sameGroup 为 true 时与 courseID 属于同一班级
func (f *fixture) addOtherCourse(id string, sameGroup bool) {
	c := model.Course{CourseID: id, Name: "Other " + id, TeacherID: "u-other-teacher", GroupID: "g-other"}
	if sameGroup {
		c.GroupID = groupID
	}
	f.store.courses[id] = c
}

func (f *fixture) blockRoom(t *testing.T, room, from, to string) {
	t.Helper()
	f.store.windows = append(f.store.windows, model.RoomUnavailability{
		RoomUnavailabilityID: f.store.nextID("win"),
		RoomID:               room,
		StartDate:            mustDay(t, from),
		EndDate:              mustDay(t, to),
	})
}

// open 由教师发起针对 eventID 的申请
func (f *fixture) open(t *testing.T, req dto.CreateChangeRequestRequest) *dto.ChangeRequestResponse {
	t.Helper()
	if req.CourseEventID == "" {
		req.CourseEventID = origEventID
	}
	if req.Reason == "" {
		req.Reason = "教师出差"
	}
	cr, err := f.svc.ChangeRequest.Create(context.Background(), &req, teacherID, model.RoleTeacher)
	if err != nil {
		t.Fatalf("创建调课申请失败: %v", err)
	}
	return cr
}

func (f *fixture) propose(t *testing.T, crID, userID, day string, slot int) *dto.ProposalResponse {
	t.Helper()
	p, err := f.svc.Proposal.Submit(context.Background(), &dto.CreateProposalRequest{
		ChangeRequestID: crID, Day: day, TimeSlotID: slot,
	}, userID)
	if err != nil {
		t.Fatalf("提交可用时间失败: %v", err)
	}
	return p
}

func (f *fixture) generate(t *testing.T, crID string) []dto.RecommendationResponse {
	t.Helper()
	recs, err := f.svc.Recommendation.Generate(context.Background(), crID, teacherID, model.RoleTeacher)
	if err != nil {
		t.Fatalf("生成推荐失败: %v", err)
	}
	return recs
}

// activeEvents 课程下未取消课次
func (f *fixture) activeEvents(course string) []model.CourseEvent {
	var out []model.CourseEvent
	for _, e := range f.store.events {
		if e.CourseID == course && !e.Canceled {
			out = append(out, e)
		}
	}
	sortEvents(out)
	return out
}

func (f *fixture) countRequestRows(crID string) (proposals, recs int) {
	for _, p := range f.store.proposals {
		if p.ChangeRequestID == crID {
			proposals++
		}
	}
	for _, r := range f.store.recs {
		if r.ChangeRequestID == crID {
			recs++
		}
	}
	return proposals, recs
}
