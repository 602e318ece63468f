package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"classroom-booking/backend/internal/engine"
	"classroom-booking/backend/internal/model"
	"classroom-booking/backend/internal/repository"
	pkgerrors "classroom-booking/backend/pkg/errors"
)

// ── 共享内存存储 ──
//
// 按值保存记录，读取时返回副本：调用方修改后必须显式写回，与数据库语义一致。
// mockTxManager 在事务开始时快照，fn 返回错误时整体恢复。

type memStore struct {
	users     map[string]model.User
	groups    map[string]model.Group
	courses   map[string]model.Course
	events    map[string]model.CourseEvent
	rooms     map[string]model.Room
	windows   []model.RoomUnavailability
	equipment map[string]model.Equipment
	slots     map[int]model.TimeSlot
	requests  map[string]model.ChangeRequest
	proposals map[string]model.AvailabilityProposal
	recs      map[string]model.ChangeRecommendation
	seq       int
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[string]model.User),
		groups:    make(map[string]model.Group),
		courses:   make(map[string]model.Course),
		events:    make(map[string]model.CourseEvent),
		rooms:     make(map[string]model.Room),
		equipment: make(map[string]model.Equipment),
		slots:     make(map[int]model.TimeSlot),
		requests:  make(map[string]model.ChangeRequest),
		proposals: make(map[string]model.AvailabilityProposal),
		recs:      make(map[string]model.ChangeRecommendation),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *memStore) clone() *memStore {
	return &memStore{
		users:     cloneMap(s.users),
		groups:    cloneMap(s.groups),
		courses:   cloneMap(s.courses),
		events:    cloneMap(s.events),
		rooms:     cloneMap(s.rooms),
		windows:   append([]model.RoomUnavailability(nil), s.windows...),
		equipment: cloneMap(s.equipment),
		slots:     cloneMap(s.slots),
		requests:  cloneMap(s.requests),
		proposals: cloneMap(s.proposals),
		recs:      cloneMap(s.recs),
		seq:       s.seq,
	}
}

func (s *memStore) restore(snap *memStore) {
	*s = *snap
}

// ── Mock TxManager ──

type mockTxManager struct {
	store     *memStore
	repo      *repository.Repository
	rollbacks int
}

func (m *mockTxManager) WithTx(_ context.Context, fn func(tx *repository.Repository) error) error {
	snap := m.store.clone()
	if err := fn(m.repo); err != nil {
		m.store.restore(snap)
		m.rollbacks++
		return err
	}
	return nil
}

// newMockRepository 组装基于同一 memStore 的 Repository 聚合
func newMockRepository(store *memStore) (*repository.Repository, *mockTxManager) {
	tx := &mockTxManager{store: store}
	repo := &repository.Repository{
		Tx:                 tx,
		User:               &mockUserRepo{store},
		Group:              &mockGroupRepo{store},
		Course:             &mockCourseRepo{store},
		CourseEvent:        &mockCourseEventRepo{store},
		Room:               &mockRoomRepo{store},
		RoomUnavailability: &mockRoomUnavailabilityRepo{store},
		Equipment:          &mockEquipmentRepo{store},
		TimeSlot:           &mockTimeSlotRepo{store},
		ChangeRequest:      &mockChangeRequestRepo{store},
		Proposal:           &mockProposalRepo{store},
		Recommendation:     &mockRecommendationRepo{store},
	}
	tx.repo = repo
	return repo, tx
}

// ── Mock UserRepository / GroupRepository ──

type mockUserRepo struct{ s *memStore }

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.s.users[id]; ok {
		return &u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockGroupRepo struct{ s *memStore }

func (m *mockGroupRepo) GetByID(_ context.Context, id string) (*model.Group, error) {
	if g, ok := m.s.groups[id]; ok {
		return &g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock CourseRepository ──

type mockCourseRepo struct{ s *memStore }

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.s.courses[id]; ok {
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock CourseEventRepository ──

type mockCourseEventRepo struct{ s *memStore }

func (m *mockCourseEventRepo) GetByID(_ context.Context, id string) (*model.CourseEvent, error) {
	if e, ok := m.s.events[id]; ok {
		return &e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseEventRepo) ListByCourse(_ context.Context, courseID string) ([]model.CourseEvent, error) {
	var out []model.CourseEvent
	for _, e := range m.s.events {
		if e.CourseID != courseID {
			continue
		}
		if e.RoomID != nil {
			if r, ok := m.s.rooms[*e.RoomID]; ok {
				e.Room = &r
			}
		}
		out = append(out, e)
	}
	sortEvents(out)
	return out, nil
}

func (m *mockCourseEventRepo) ListSeriesForUpdate(_ context.Context, courseID string, slotID int, from time.Time, until *time.Time) ([]model.CourseEvent, error) {
	var out []model.CourseEvent
	for _, e := range m.s.events {
		if e.CourseID != courseID || e.TimeSlotID != slotID || e.Canceled || e.Day.Before(engine.Day(from)) {
			continue
		}
		if until != nil && e.Day.After(engine.Day(*until)) {
			continue
		}
		out = append(out, e)
	}
	sortEvents(out)
	return out, nil
}

func (m *mockCourseEventRepo) ListActiveOnDays(_ context.Context, days []time.Time) ([]model.CourseEvent, error) {
	want := make(map[time.Time]struct{}, len(days))
	for _, d := range days {
		want[engine.Day(d)] = struct{}{}
	}
	var out []model.CourseEvent
	for _, e := range m.s.events {
		if e.Canceled {
			continue
		}
		if _, ok := want[engine.Day(e.Day)]; !ok {
			continue
		}
		if c, ok := m.s.courses[e.CourseID]; ok {
			e.Course = &c
		}
		out = append(out, e)
	}
	sortEvents(out)
	return out, nil
}

func (m *mockCourseEventRepo) CountActiveAt(_ context.Context, roomID string, day time.Time, slotID int) (int64, error) {
	var n int64
	for _, e := range m.s.events {
		if occupies(e, roomID, day, slotID) {
			n++
		}
	}
	return n, nil
}

// BatchCreate 模拟部分唯一索引 (room_id, day, time_slot_id) WHERE NOT canceled
func (m *mockCourseEventRepo) BatchCreate(_ context.Context, events []model.CourseEvent) error {
	for i := range events {
		e := events[i]
		if e.RoomID != nil && !e.Canceled {
			for _, other := range m.s.events {
				if occupies(other, *e.RoomID, e.Day, e.TimeSlotID) {
					return &pkgerrors.UniqueViolationError{Constraint: repository.ConstraintEventRoomSlot}
				}
			}
		}
		if e.CourseEventID == "" {
			e.CourseEventID = m.s.nextID("ev")
		}
		e.Day = engine.Day(e.Day)
		m.s.events[e.CourseEventID] = e
		events[i].CourseEventID = e.CourseEventID
	}
	return nil
}

func (m *mockCourseEventRepo) MarkCanceled(_ context.Context, ids []string) error {
	for _, id := range ids {
		e, ok := m.s.events[id]
		if !ok || e.Canceled {
			return pkgerrors.ErrOptimisticLock
		}
		e.Canceled = true
		m.s.events[id] = e
	}
	return nil
}

func occupies(e model.CourseEvent, roomID string, day time.Time, slotID int) bool {
	return !e.Canceled && e.RoomID != nil && *e.RoomID == roomID &&
		engine.Day(e.Day).Equal(engine.Day(day)) && e.TimeSlotID == slotID
}

func sortEvents(events []model.CourseEvent) {
	sort.Slice(events, func(i, j int) bool {
		ki, kj := engine.Key(events[i].Day, events[i].TimeSlotID), engine.Key(events[j].Day, events[j].TimeSlotID)
		if ki == kj {
			return events[i].CourseEventID < events[j].CourseEventID
		}
		return ki.Before(kj)
	})
}

// ── Mock RoomRepository ──

type mockRoomRepo struct{ s *memStore }

func (m *mockRoomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	if r, ok := m.s.rooms[id]; ok {
		return &r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) ListMatching(_ context.Context, minCapacity int, equipmentIDs []string) ([]model.Room, error) {
	req := engine.Requirements{MinCapacity: minCapacity, EquipmentIDs: equipmentIDs}
	var out []model.Room
	for _, r := range m.s.rooms {
		if (engine.Room{Capacity: r.Capacity, EquipmentIDs: r.EquipmentIDs()}).Satisfies(req) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Capacity != out[j].Capacity {
			return out[i].Capacity < out[j].Capacity
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// ── Mock RoomUnavailabilityRepository ──

type mockRoomUnavailabilityRepo struct{ s *memStore }

func (m *mockRoomUnavailabilityRepo) ListOverlapping(_ context.Context, roomIDs []string, from, to time.Time) ([]model.RoomUnavailability, error) {
	rooms := toSet(roomIDs)
	var out []model.RoomUnavailability
	for _, w := range m.s.windows {
		if len(roomIDs) > 0 {
			if _, ok := rooms[w.RoomID]; !ok {
				continue
			}
		}
		if w.StartDate.After(to) || w.EndDate.Before(from) {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

// ── Mock EquipmentRepository ──

type mockEquipmentRepo struct{ s *memStore }

func (m *mockEquipmentRepo) ListByIDs(_ context.Context, ids []string) ([]model.Equipment, error) {
	var out []model.Equipment
	for _, id := range ids {
		if e, ok := m.s.equipment[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEquipmentRepo) ListByNames(_ context.Context, names []string) ([]model.Equipment, error) {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[strings.ToLower(n)] = struct{}{}
	}
	var out []model.Equipment
	for _, e := range m.s.equipment {
		if _, ok := want[strings.ToLower(e.Name)]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// ── Mock TimeSlotRepository ──

type mockTimeSlotRepo struct{ s *memStore }

func (m *mockTimeSlotRepo) GetByID(_ context.Context, id int) (*model.TimeSlot, error) {
	if ts, ok := m.s.slots[id]; ok {
		return &ts, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeSlotRepo) List(_ context.Context) ([]model.TimeSlot, error) {
	out := make([]model.TimeSlot, 0, len(m.s.slots))
	for _, ts := range m.s.slots {
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TimeSlotID < out[j].TimeSlotID })
	return out, nil
}

// ── Mock ChangeRequestRepository ──

type mockChangeRequestRepo struct{ s *memStore }

func (m *mockChangeRequestRepo) Create(_ context.Context, cr *model.ChangeRequest) error {
	if cr.ChangeRequestID == "" {
		cr.ChangeRequestID = m.s.nextID("cr")
	}
	now := time.Now().UTC()
	cr.CreatedAt, cr.UpdatedAt = now, now
	cr.Version = 1
	m.s.requests[cr.ChangeRequestID] = *cr
	return nil
}

func (m *mockChangeRequestRepo) GetByID(_ context.Context, id string) (*model.ChangeRequest, error) {
	if cr, ok := m.s.requests[id]; ok {
		return &cr, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockChangeRequestRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.ChangeRequest, error) {
	return m.GetByID(ctx, id)
}

func (m *mockChangeRequestRepo) ListRelated(_ context.Context, userID string, status *model.ChangeRequestStatus) ([]model.ChangeRequest, error) {
	var out []model.ChangeRequest
	for _, cr := range m.s.requests {
		if status != nil && cr.Status != *status {
			continue
		}
		related := cr.InitiatorID == userID
		if e, ok := m.s.events[cr.CourseEventID]; ok {
			if c, ok := m.s.courses[e.CourseID]; ok {
				if c.TeacherID == userID {
					related = true
				}
				if g, ok := m.s.groups[c.GroupID]; ok && g.LeaderID != nil && *g.LeaderID == userID {
					related = true
				}
			}
		}
		if related {
			out = append(out, cr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChangeRequestID > out[j].ChangeRequestID })
	return out, nil
}

func (m *mockChangeRequestRepo) UpdateStatus(_ context.Context, cr *model.ChangeRequest) error {
	stored, ok := m.s.requests[cr.ChangeRequestID]
	if !ok || stored.Version != cr.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Status = cr.Status
	stored.Version++
	stored.UpdatedAt = time.Now().UTC()
	m.s.requests[cr.ChangeRequestID] = stored
	cr.Version = stored.Version
	cr.UpdatedAt = stored.UpdatedAt
	return nil
}

// ── Mock ProposalRepository ──

type mockProposalRepo struct{ s *memStore }

// Create 模拟 (change_request_id, user_id, day, time_slot_id) 唯一约束
func (m *mockProposalRepo) Create(_ context.Context, p *model.AvailabilityProposal) error {
	for _, other := range m.s.proposals {
		if other.ChangeRequestID == p.ChangeRequestID && other.UserID == p.UserID &&
			engine.Day(other.Day).Equal(engine.Day(p.Day)) && other.TimeSlotID == p.TimeSlotID {
			return &pkgerrors.UniqueViolationError{Constraint: repository.ConstraintProposalUnique}
		}
	}
	if p.ProposalID == "" {
		p.ProposalID = m.s.nextID("prop")
	}
	p.Day = engine.Day(p.Day)
	p.CreatedAt = time.Now().UTC()
	m.s.proposals[p.ProposalID] = *p
	return nil
}

func (m *mockProposalRepo) GetByID(_ context.Context, id string) (*model.AvailabilityProposal, error) {
	if p, ok := m.s.proposals[id]; ok {
		return &p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProposalRepo) ListByRequestAndUser(_ context.Context, changeRequestID, userID string) ([]model.AvailabilityProposal, error) {
	var out []model.AvailabilityProposal
	for _, p := range m.s.proposals {
		if p.ChangeRequestID == changeRequestID && p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return engine.Key(out[i].Day, out[i].TimeSlotID).Before(engine.Key(out[j].Day, out[j].TimeSlotID))
	})
	return out, nil
}

func (m *mockProposalRepo) Delete(_ context.Context, id string) error {
	delete(m.s.proposals, id)
	return nil
}

func (m *mockProposalRepo) DeleteByRequest(_ context.Context, changeRequestID string) error {
	for id, p := range m.s.proposals {
		if p.ChangeRequestID == changeRequestID {
			delete(m.s.proposals, id)
		}
	}
	return nil
}

// ── Mock RecommendationRepository ──

type mockRecommendationRepo struct{ s *memStore }

// BatchCreate 与 ON CONFLICT DO NOTHING 一致：重复的键静默跳过
func (m *mockRecommendationRepo) BatchCreate(_ context.Context, recs []model.ChangeRecommendation) error {
	for i := range recs {
		r := recs[i]
		if m.exists(r) {
			continue
		}
		if r.RecommendationID == "" {
			r.RecommendationID = m.s.nextID("rec")
		}
		r.Day = engine.Day(r.Day)
		r.CreatedAt = time.Now().UTC()
		r.Room = nil
		m.s.recs[r.RecommendationID] = r
		recs[i].RecommendationID = r.RecommendationID
	}
	return nil
}

func (m *mockRecommendationRepo) exists(r model.ChangeRecommendation) bool {
	for _, other := range m.s.recs {
		if other.ChangeRequestID == r.ChangeRequestID && other.RoomID == r.RoomID &&
			engine.Day(other.Day).Equal(engine.Day(r.Day)) && other.TimeSlotID == r.TimeSlotID {
			return true
		}
	}
	return false
}

func (m *mockRecommendationRepo) withRoom(r model.ChangeRecommendation) model.ChangeRecommendation {
	if room, ok := m.s.rooms[r.RoomID]; ok {
		r.Room = &room
	}
	return r
}

func (m *mockRecommendationRepo) GetByID(_ context.Context, id string) (*model.ChangeRecommendation, error) {
	if r, ok := m.s.recs[id]; ok {
		r = m.withRoom(r)
		return &r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRecommendationRepo) ListByRequest(_ context.Context, changeRequestID string) ([]model.ChangeRecommendation, error) {
	var out []model.ChangeRecommendation
	for _, r := range m.s.recs {
		if r.ChangeRequestID == changeRequestID {
			out = append(out, m.withRoom(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecommendationID < out[j].RecommendationID })
	return out, nil
}

func (m *mockRecommendationRepo) UpdateDecision(_ context.Context, rec *model.ChangeRecommendation) error {
	stored, ok := m.s.recs[rec.RecommendationID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.AcceptedByTeacher = rec.AcceptedByTeacher
	stored.AcceptedByLeader = rec.AcceptedByLeader
	stored.RejectedByTeacher = rec.RejectedByTeacher
	stored.RejectedByLeader = rec.RejectedByLeader
	stored.SourceProposalID = rec.SourceProposalID
	m.s.recs[rec.RecommendationID] = stored
	return nil
}

func (m *mockRecommendationRepo) DetachProposal(_ context.Context, proposalID string) error {
	for id, r := range m.s.recs {
		if r.SourceProposalID != nil && *r.SourceProposalID == proposalID {
			r.SourceProposalID = nil
			m.s.recs[id] = r
		}
	}
	return nil
}

func (m *mockRecommendationRepo) DeleteByRequest(_ context.Context, changeRequestID string) error {
	for id, r := range m.s.recs {
		if r.ChangeRequestID == changeRequestID {
			delete(m.s.recs, id)
		}
	}
	return nil
}
