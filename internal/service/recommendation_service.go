package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"classroom-booking/backend/config"
	"classroom-booking/backend/internal/dto"
	"classroom-booking/backend/internal/engine"
	"classroom-booking/backend/internal/model"
	"classroom-booking/backend/internal/repository"
)

// ErrRecommendationNotFound 推荐不存在
var ErrRecommendationNotFound = errors.New("调课推荐不存在")

// RecommendationService 调课推荐生成与查询接口
type RecommendationService interface {
	// Generate 按双方可用时间重新计算推荐，已存在的保留原有确认标志
	Generate(ctx context.Context, changeRequestID, callerID string, callerRole model.UserRole) ([]dto.RecommendationResponse, error)
	List(ctx context.Context, changeRequestID, callerID string, callerRole model.UserRole) ([]dto.RecommendationResponse, error)
}

type recommendationService struct {
	repo   *repository.Repository
	engine config.EngineConfig
	logger *zap.Logger
}

// NewRecommendationService 创建 RecommendationService 实例
func NewRecommendationService(repo *repository.Repository, engineCfg config.EngineConfig, logger *zap.Logger) RecommendationService {
	return &recommendationService{repo: repo, engine: engineCfg, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// Generate
// ═══════════════════════════════════════════════════════════
//
//  1. 行锁申请，要求 PENDING
//  2. 读取教师与班长的可用时间
//  3. 加载共同日期的教室停用窗口与全部未取消课次
//  4. engine.Generate 计算候选并与已存在推荐去重
//  5. 插入新增部分（唯一约束兜底并发重复），返回完整列表

func (s *recommendationService) Generate(ctx context.Context, changeRequestID, callerID string, callerRole model.UserRole) ([]dto.RecommendationResponse, error) {
	var result []dto.RecommendationResponse

	err := s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		cr, n, err := lockPending(ctx, tx, changeRequestID)
		if err != nil {
			return err
		}
		if !n.CanView(callerID, callerRole) {
			return ErrNotAuthorized
		}

		teacherProps, err := tx.Proposal.ListByRequestAndUser(ctx, changeRequestID, n.TeacherID)
		if err != nil {
			return err
		}
		var leaderProps []model.AvailabilityProposal
		if n.LeaderID != "" {
			if leaderProps, err = tx.Proposal.ListByRequestAndUser(ctx, changeRequestID, n.LeaderID); err != nil {
				return err
			}
		}

		existing, err := tx.Recommendation.ListByRequest(ctx, changeRequestID)
		if err != nil {
			return err
		}

		in := engine.GenerateInput{
			TeacherProposals: toEngineProposals(teacherProps),
			LeaderProposals:  toEngineProposals(leaderProps),
			Requirements: engine.Requirements{
				MinCapacity:  cr.MinimumCapacity,
				EquipmentIDs: cr.EquipmentIDs(),
			},
			Existing: toCandidateKeys(existing),
		}

		days := engine.Days(engine.CommonSlots(in.TeacherProposals, in.LeaderProposals))
		if len(days) > 0 {
			rooms, err := tx.Room.ListMatching(ctx, cr.MinimumCapacity, in.Requirements.EquipmentIDs)
			if err != nil {
				return err
			}
			in.Rooms = toEngineRooms(rooms)

			snap, err := NewRoomAvailabilityOracle(tx).Snapshot(ctx, days)
			if err != nil {
				return err
			}
			// 原课次仍占用其教室；但不应阻止当事人选择与原课次相同的时间
			snap.MarkBusyFor(n.TeacherID, n.GroupID, n.Event.CourseEventID)
			in.Occupancy = snap.Occupancy

			if s.engine.SecondaryRanking {
				grid, err := loadGrid(ctx, tx)
				if err != nil {
					return err
				}
				in.Ranking = engine.SecondaryRanking{Grid: grid, TerminalSlots: s.engine.TerminalSlots}
			}
		}

		res := engine.Generate(in)
		if len(res.New) > 0 {
			if err := tx.Recommendation.BatchCreate(ctx, toRecommendations(changeRequestID, res.New)); err != nil {
				s.logger.Error("保存调课推荐失败", zap.String("change_request_id", changeRequestID), zap.Error(err))
				return err
			}
		}

		all, err := tx.Recommendation.ListByRequest(ctx, changeRequestID)
		if err != nil {
			return err
		}
		result = toRecommendationResponses(all)

		s.logger.Info("调课推荐已生成",
			zap.String("change_request_id", changeRequestID),
			zap.Int("common_slots", len(res.Common)),
			zap.Int("new", len(res.New)),
			zap.Int("total", len(all)),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ────────────────────── List ──────────────────────

func (s *recommendationService) List(ctx context.Context, changeRequestID, callerID string, callerRole model.UserRole) ([]dto.RecommendationResponse, error) {
	cr, err := s.repo.ChangeRequest.GetByID(ctx, changeRequestID)
	if err != nil {
		return nil, notFoundAs(err, ErrChangeRequestNotFound)
	}
	n, err := loadNegotiation(ctx, s.repo, cr)
	if err != nil {
		return nil, err
	}
	if !n.CanView(callerID, callerRole) {
		return nil, ErrNotAuthorized
	}

	list, err := s.repo.Recommendation.ListByRequest(ctx, changeRequestID)
	if err != nil {
		s.logger.Error("查询调课推荐失败", zap.String("change_request_id", changeRequestID), zap.Error(err))
		return nil, err
	}
	return toRecommendationResponses(list), nil
}

// ── 转换 ──

func toEngineProposals(list []model.AvailabilityProposal) []engine.Proposal {
	out := make([]engine.Proposal, 0, len(list))
	for _, p := range list {
		out = append(out, engine.Proposal{ID: p.ProposalID, Day: p.Day, SlotID: p.TimeSlotID})
	}
	return out
}

func toEngineRooms(rooms []model.Room) []engine.Room {
	out := make([]engine.Room, 0, len(rooms))
	for i := range rooms {
		r := &rooms[i]
		out = append(out, engine.Room{ID: r.RoomID, Name: r.Name, Capacity: r.Capacity, EquipmentIDs: r.EquipmentIDs()})
	}
	return out
}

func toCandidateKeys(recs []model.ChangeRecommendation) []engine.CandidateKey {
	out := make([]engine.CandidateKey, 0, len(recs))
	for _, r := range recs {
		out = append(out, engine.CandidateKey{SlotKey: engine.Key(r.Day, r.TimeSlotID), RoomID: r.RoomID})
	}
	return out
}

func toRecommendations(changeRequestID string, cands []engine.Candidate) []model.ChangeRecommendation {
	out := make([]model.ChangeRecommendation, 0, len(cands))
	for _, c := range cands {
		rec := model.ChangeRecommendation{
			ChangeRequestID: changeRequestID,
			Day:             c.Day,
			TimeSlotID:      c.SlotID,
			RoomID:          c.RoomID,
		}
		if c.SourceProposalID != "" {
			src := c.SourceProposalID
			rec.SourceProposalID = &src
		}
		out = append(out, rec)
	}
	return out
}

// toRecommendationResponses 按 (日期, 节次, 容量, 教室名) 排序输出
func toRecommendationResponses(recs []model.ChangeRecommendation) []dto.RecommendationResponse {
	cands := make([]engine.Candidate, 0, len(recs))
	byKey := make(map[engine.CandidateKey]*model.ChangeRecommendation, len(recs))
	for i := range recs {
		r := &recs[i]
		c := engine.Candidate{SlotKey: engine.Key(r.Day, r.TimeSlotID), RoomID: r.RoomID}
		if r.Room != nil {
			c.RoomName = r.Room.Name
			c.RoomCapacity = r.Room.Capacity
		}
		cands = append(cands, c)
		byKey[c.Key()] = r
	}
	engine.SortCandidates(cands)

	out := make([]dto.RecommendationResponse, 0, len(recs))
	for _, c := range cands {
		out = append(out, toRecommendationResponse(byKey[c.Key()]))
	}
	return out
}

func toRecommendationResponse(r *model.ChangeRecommendation) dto.RecommendationResponse {
	resp := dto.RecommendationResponse{
		ID:                r.RecommendationID,
		ChangeRequestID:   r.ChangeRequestID,
		Day:               engine.FormatDay(r.Day),
		TimeSlotID:        r.TimeSlotID,
		RoomID:            r.RoomID,
		SourceProposalID:  r.SourceProposalID,
		AcceptedByTeacher: r.AcceptedByTeacher,
		AcceptedByLeader:  r.AcceptedByLeader,
		RejectedByTeacher: r.RejectedByTeacher,
		RejectedByLeader:  r.RejectedByLeader,
	}
	if r.Room != nil {
		resp.RoomName = r.Room.Name
		resp.RoomCapacity = r.Room.Capacity
	}
	return resp
}
