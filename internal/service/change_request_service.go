package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"classroom-booking/backend/internal/dto"
	"classroom-booking/backend/internal/engine"
	"classroom-booking/backend/internal/model"
	"classroom-booking/backend/internal/repository"
)

// ── 调课申请业务错误 ──

var (
	ErrChangeRequestNotFound = errors.New("调课申请不存在")
	ErrCourseEventNotFound   = errors.New("课次不存在")
	ErrCourseNotFound        = errors.New("课程不存在")
	ErrGroupNotFound         = errors.New("班级不存在")
	ErrEquipmentNotFound     = errors.New("设备不存在")
	ErrAlreadyProcessed      = errors.New("调课申请已处理")
	ErrNotAuthorized         = errors.New("仅课程教师或班长可执行此操作")
	ErrCourseEventCanceled   = errors.New("课次已取消")
	ErrInvalidDay            = errors.New("日期格式无效，应为 YYYY-MM-DD")
	ErrInvalidSeriesRange    = errors.New("系列截止日期无效")
	ErrInvalidReason         = errors.New("申请理由不能为空")
	ErrInvalidStatus         = errors.New("无效的申请状态")
)

// ChangeRequestService 调课申请生命周期接口
type ChangeRequestService interface {
	Create(ctx context.Context, req *dto.CreateChangeRequestRequest, callerID string, callerRole model.UserRole) (*dto.ChangeRequestResponse, error)
	GetByID(ctx context.Context, id, callerID string, callerRole model.UserRole) (*dto.ChangeRequestResponse, error)
	ListRelated(ctx context.Context, req *dto.ChangeRequestListRequest, callerID string) ([]dto.ChangeRequestResponse, error)
	ProposalStatus(ctx context.Context, id, callerID string, callerRole model.UserRole) (*dto.ProposalStatusResponse, error)
	// Reject 教师或班长否决整个申请
	Reject(ctx context.Context, id, callerID string) error
	// Cancel 发起人或教务人员撤销申请
	Cancel(ctx context.Context, id, callerID string, callerRole model.UserRole) error
}

type changeRequestService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewChangeRequestService 创建 ChangeRequestService 实例
func NewChangeRequestService(repo *repository.Repository, logger *zap.Logger) ChangeRequestService {
	return &changeRequestService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *changeRequestService) Create(ctx context.Context, req *dto.CreateChangeRequestRequest, callerID string, callerRole model.UserRole) (*dto.ChangeRequestResponse, error) {
	var result *dto.ChangeRequestResponse

	err := s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		cr := &model.ChangeRequest{
			CourseEventID:    req.CourseEventID,
			InitiatorID:      callerID,
			Reason:           strings.TrimSpace(req.Reason),
			RoomRequirements: strings.TrimSpace(req.RoomRequirements),
			MinimumCapacity:  req.MinimumCapacity,
			Cyclical:         req.Cyclical,
			Status:           model.StatusPending,
		}
		if cr.Reason == "" {
			return ErrInvalidReason
		}

		n, err := loadNegotiation(ctx, tx, cr)
		if err != nil {
			return err
		}
		if n.Event.Canceled {
			return ErrCourseEventCanceled
		}
		if n.Party(callerID) == engine.PartyNone && !callerRole.IsStaff() {
			return ErrNotAuthorized
		}

		if req.SeriesEndDate != nil {
			if !req.Cyclical {
				return ErrInvalidSeriesRange
			}
			end, err := engine.ParseDay(*req.SeriesEndDate)
			if err != nil {
				return ErrInvalidDay
			}
			if end.Before(engine.Day(n.Event.Day)) {
				return ErrInvalidSeriesRange
			}
			cr.SeriesEndDate = &end
		}

		equipment, err := s.resolveEquipment(ctx, tx, req)
		if err != nil {
			return err
		}
		cr.Equipment = equipment
		if cr.RoomRequirements == "" {
			cr.RoomRequirements = equipmentNames(equipment)
		}

		if err := tx.ChangeRequest.Create(ctx, cr); err != nil {
			s.logger.Error("创建调课申请失败", zap.Error(err))
			return err
		}

		s.logger.Info("调课申请已创建",
			zap.String("change_request_id", cr.ChangeRequestID),
			zap.String("course_event_id", cr.CourseEventID),
			zap.Bool("cyclical", cr.Cyclical),
		)
		result = toChangeRequestResponse(cr, n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveEquipment 优先使用结构化设备 ID；否则在创建时把旧式逗号分隔设备名解析为 ID
func (s *changeRequestService) resolveEquipment(ctx context.Context, tx *repository.Repository, req *dto.CreateChangeRequestRequest) ([]model.Equipment, error) {
	if len(req.EquipmentIDs) > 0 {
		ids := uniqueStrings(req.EquipmentIDs)
		items, err := tx.Equipment.ListByIDs(ctx, ids)
		if err != nil {
			s.logger.Error("查询设备失败", zap.Error(err))
			return nil, err
		}
		if len(items) != len(ids) {
			return nil, ErrEquipmentNotFound
		}
		return items, nil
	}

	names := splitRequirementNames(req.RoomRequirements)
	if len(names) == 0 {
		return nil, nil
	}
	items, err := tx.Equipment.ListByNames(ctx, names)
	if err != nil {
		s.logger.Error("按名称查询设备失败", zap.Error(err))
		return nil, err
	}
	if len(items) != len(names) {
		return nil, ErrEquipmentNotFound
	}
	return items, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *changeRequestService) GetByID(ctx context.Context, id, callerID string, callerRole model.UserRole) (*dto.ChangeRequestResponse, error) {
	cr, err := s.repo.ChangeRequest.GetByID(ctx, id)
	if err != nil {
		err = notFoundAs(err, ErrChangeRequestNotFound)
		if !errors.Is(err, ErrChangeRequestNotFound) {
			s.logger.Error("查询调课申请失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	n, err := loadNegotiation(ctx, s.repo, cr)
	if err != nil {
		return nil, err
	}
	if !n.CanView(callerID, callerRole) {
		return nil, ErrNotAuthorized
	}
	return toChangeRequestResponse(cr, n), nil
}

// ────────────────────── ListRelated ──────────────────────

func (s *changeRequestService) ListRelated(ctx context.Context, req *dto.ChangeRequestListRequest, callerID string) ([]dto.ChangeRequestResponse, error) {
	var status *model.ChangeRequestStatus
	if req.Status != "" {
		st := model.ChangeRequestStatus(req.Status)
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
		status = &st
	}

	list, err := s.repo.ChangeRequest.ListRelated(ctx, callerID, status)
	if err != nil {
		s.logger.Error("列出相关调课申请失败", zap.String("user_id", callerID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.ChangeRequestResponse, 0, len(list))
	for i := range list {
		result = append(result, *toChangeRequestResponse(&list[i], nil))
	}
	return result, nil
}

// ────────────────────── ProposalStatus ──────────────────────

func (s *changeRequestService) ProposalStatus(ctx context.Context, id, callerID string, callerRole model.UserRole) (*dto.ProposalStatusResponse, error) {
	cr, err := s.repo.ChangeRequest.GetByID(ctx, id)
	if err != nil {
		err = notFoundAs(err, ErrChangeRequestNotFound)
		if !errors.Is(err, ErrChangeRequestNotFound) {
			s.logger.Error("查询调课申请失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	n, err := loadNegotiation(ctx, s.repo, cr)
	if err != nil {
		return nil, err
	}
	if !n.CanView(callerID, callerRole) {
		return nil, ErrNotAuthorized
	}

	teacherProps, err := s.repo.Proposal.ListByRequestAndUser(ctx, id, n.TeacherID)
	if err != nil {
		s.logger.Error("查询教师提议失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := &dto.ProposalStatusResponse{TeacherHasProposed: len(teacherProps) > 0}
	if n.LeaderID != "" {
		leaderProps, err := s.repo.Proposal.ListByRequestAndUser(ctx, id, n.LeaderID)
		if err != nil {
			s.logger.Error("查询班长提议失败", zap.String("id", id), zap.Error(err))
			return nil, err
		}
		resp.LeaderHasProposed = len(leaderProps) > 0
	}
	return resp, nil
}

// ────────────────────── Reject / Cancel ──────────────────────

func (s *changeRequestService) Reject(ctx context.Context, id, callerID string) error {
	return s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		cr, n, err := lockPending(ctx, tx, id)
		if err != nil {
			return err
		}
		if n.Party(callerID) == engine.PartyNone {
			return ErrNotAuthorized
		}
		if err := closeRequest(ctx, tx, cr, model.StatusRejected); err != nil {
			s.logger.Error("否决调课申请失败", zap.String("id", id), zap.Error(err))
			return err
		}
		s.logger.Info("调课申请已否决", zap.String("change_request_id", id), zap.String("by", callerID))
		return nil
	})
}

func (s *changeRequestService) Cancel(ctx context.Context, id, callerID string, callerRole model.UserRole) error {
	return s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		cr, _, err := lockPending(ctx, tx, id)
		if err != nil {
			return err
		}
		if cr.InitiatorID != callerID && !callerRole.IsStaff() {
			return ErrNotAuthorized
		}
		if err := closeRequest(ctx, tx, cr, model.StatusCancelled); err != nil {
			s.logger.Error("撤销调课申请失败", zap.String("id", id), zap.Error(err))
			return err
		}
		s.logger.Info("调课申请已撤销", zap.String("change_request_id", id), zap.String("by", callerID))
		return nil
	})
}

// ── 生命周期辅助 ──

// lockPending 行锁读取申请并要求其处于 PENDING
func lockPending(ctx context.Context, tx *repository.Repository, id string) (*model.ChangeRequest, *Negotiation, error) {
	cr, err := tx.ChangeRequest.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, nil, notFoundAs(err, ErrChangeRequestNotFound)
	}
	if cr.Status.IsTerminal() {
		return nil, nil, ErrAlreadyProcessed
	}
	n, err := loadNegotiation(ctx, tx, cr)
	if err != nil {
		return nil, nil, err
	}
	return cr, n, nil
}

// closeRequest 迁移到终态，并在同一事务内清除全部提议与推荐
func closeRequest(ctx context.Context, tx *repository.Repository, cr *model.ChangeRequest, next model.ChangeRequestStatus) error {
	if !cr.Status.CanTransitionTo(next) {
		return ErrAlreadyProcessed
	}
	cr.Status = next
	if err := tx.ChangeRequest.UpdateStatus(ctx, cr); err != nil {
		return err
	}
	return purgeNegotiation(ctx, tx, cr.ChangeRequestID)
}

func purgeNegotiation(ctx context.Context, tx *repository.Repository, changeRequestID string) error {
	if err := tx.Recommendation.DeleteByRequest(ctx, changeRequestID); err != nil {
		return err
	}
	return tx.Proposal.DeleteByRequest(ctx, changeRequestID)
}

// ── DTO 转换 ──

func toChangeRequestResponse(cr *model.ChangeRequest, n *Negotiation) *dto.ChangeRequestResponse {
	resp := &dto.ChangeRequestResponse{
		ID:               cr.ChangeRequestID,
		CourseEventID:    cr.CourseEventID,
		InitiatorID:      cr.InitiatorID,
		Reason:           cr.Reason,
		RoomRequirements: cr.RoomRequirements,
		EquipmentIDs:     cr.EquipmentIDs(),
		MinimumCapacity:  cr.MinimumCapacity,
		Cyclical:         cr.Cyclical,
		Status:           string(cr.Status),
		CreatedAt:        cr.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        cr.UpdatedAt.Format(time.RFC3339),
	}
	if cr.SeriesEndDate != nil {
		d := engine.FormatDay(*cr.SeriesEndDate)
		resp.SeriesEndDate = &d
	}
	if n != nil {
		resp.TeacherID = n.TeacherID
		resp.LeaderID = n.LeaderID
	}
	return resp
}

func splitRequirementNames(raw string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	return names
}

func equipmentNames(items []model.Equipment) string {
	names := make([]string, 0, len(items))
	for _, e := range items {
		names = append(names, e.Name)
	}
	return strings.Join(names, ", ")
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
