package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"classroom-booking/backend/internal/model"
	pkgerrors "classroom-booking/backend/pkg/errors"
)

// ChangeRequestRepository 调课申请数据访问接口
type ChangeRequestRepository interface {
	Create(ctx context.Context, cr *model.ChangeRequest) error
	GetByID(ctx context.Context, id string) (*model.ChangeRequest, error)
	// GetByIDForUpdate 行锁读取，串行化同一申请上的并发决策
	GetByIDForUpdate(ctx context.Context, id string) (*model.ChangeRequest, error)
	ListRelated(ctx context.Context, userID string, status *model.ChangeRequestStatus) ([]model.ChangeRequest, error)
	UpdateStatus(ctx context.Context, cr *model.ChangeRequest) error
}

// ProposalRepository 可用时间提议数据访问接口
type ProposalRepository interface {
	Create(ctx context.Context, p *model.AvailabilityProposal) error
	GetByID(ctx context.Context, id string) (*model.AvailabilityProposal, error)
	ListByRequestAndUser(ctx context.Context, changeRequestID, userID string) ([]model.AvailabilityProposal, error)
	Delete(ctx context.Context, id string) error
	DeleteByRequest(ctx context.Context, changeRequestID string) error
}

// RecommendationRepository 调课推荐数据访问接口
type RecommendationRepository interface {
	// BatchCreate 已存在的 (申请, 日期, 节次, 教室) 静默跳过
	BatchCreate(ctx context.Context, recs []model.ChangeRecommendation) error
	GetByID(ctx context.Context, id string) (*model.ChangeRecommendation, error)
	ListByRequest(ctx context.Context, changeRequestID string) ([]model.ChangeRecommendation, error)
	UpdateDecision(ctx context.Context, rec *model.ChangeRecommendation) error
	DetachProposal(ctx context.Context, proposalID string) error
	DeleteByRequest(ctx context.Context, changeRequestID string) error
}

// ── ChangeRequest Repository 实现 ──

type changeRequestRepo struct {
	db *gorm.DB
}

func NewChangeRequestRepo(db *gorm.DB) ChangeRequestRepository {
	return &changeRequestRepo{db: db}
}

func (r *changeRequestRepo) Create(ctx context.Context, cr *model.ChangeRequest) error {
	// 设备为既有数据，只写关联表
	return translateError(r.db.WithContext(ctx).Omit("Equipment.*").Create(cr).Error)
}

func (r *changeRequestRepo) GetByID(ctx context.Context, id string) (*model.ChangeRequest, error) {
	var cr model.ChangeRequest
	err := r.db.WithContext(ctx).
		Preload("Equipment").
		Where("change_request_id = ?", id).
		First(&cr).Error
	if err != nil {
		return nil, err
	}
	return &cr, nil
}

func (r *changeRequestRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.ChangeRequest, error) {
	var cr model.ChangeRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Equipment").
		Where("change_request_id = ?", id).
		First(&cr).Error
	if err != nil {
		return nil, err
	}
	return &cr, nil
}

func (r *changeRequestRepo) ListRelated(ctx context.Context, userID string, status *model.ChangeRequestStatus) ([]model.ChangeRequest, error) {
	q := r.db.WithContext(ctx).
		Preload("Equipment").
		Joins("JOIN course_events ce ON ce.course_event_id = change_requests.course_event_id").
		Joins("JOIN courses c ON c.course_id = ce.course_id").
		Joins("LEFT JOIN student_groups g ON g.group_id = c.group_id").
		Where("c.teacher_id = ? OR g.leader_id = ? OR change_requests.initiator_id = ?", userID, userID, userID)
	if status != nil {
		q = q.Where("change_requests.status = ?", *status)
	}

	var list []model.ChangeRequest
	err := q.Order("change_requests.created_at DESC").Find(&list).Error
	return list, err
}

func (r *changeRequestRepo) UpdateStatus(ctx context.Context, cr *model.ChangeRequest) error {
	oldVersion := cr.Version
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&model.ChangeRequest{}).
		Where("change_request_id = ? AND version = ?", cr.ChangeRequestID, oldVersion).
		Updates(map[string]interface{}{
			"status":     cr.Status,
			"version":    oldVersion + 1,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	cr.Version = oldVersion + 1
	cr.UpdatedAt = now
	return nil
}

// ── Proposal Repository 实现 ──

type proposalRepo struct {
	db *gorm.DB
}

func NewProposalRepo(db *gorm.DB) ProposalRepository {
	return &proposalRepo{db: db}
}

func (r *proposalRepo) Create(ctx context.Context, p *model.AvailabilityProposal) error {
	return translateError(r.db.WithContext(ctx).Create(p).Error)
}

func (r *proposalRepo) GetByID(ctx context.Context, id string) (*model.AvailabilityProposal, error) {
	var p model.AvailabilityProposal
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proposalRepo) ListByRequestAndUser(ctx context.Context, changeRequestID, userID string) ([]model.AvailabilityProposal, error) {
	var list []model.AvailabilityProposal
	err := r.db.WithContext(ctx).
		Where("change_request_id = ? AND user_id = ?", changeRequestID, userID).
		Order("day ASC, time_slot_id ASC").
		Find(&list).Error
	return list, err
}

func (r *proposalRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("proposal_id = ?", id).
		Delete(&model.AvailabilityProposal{}).Error
}

func (r *proposalRepo) DeleteByRequest(ctx context.Context, changeRequestID string) error {
	return r.db.WithContext(ctx).
		Where("change_request_id = ?", changeRequestID).
		Delete(&model.AvailabilityProposal{}).Error
}

// ── Recommendation Repository 实现 ──

type recommendationRepo struct {
	db *gorm.DB
}

func NewRecommendationRepo(db *gorm.DB) RecommendationRepository {
	return &recommendationRepo{db: db}
}

func (r *recommendationRepo) BatchCreate(ctx context.Context, recs []model.ChangeRecommendation) error {
	if len(recs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit("Room").
		Create(&recs).Error
}

func (r *recommendationRepo) GetByID(ctx context.Context, id string) (*model.ChangeRecommendation, error) {
	var rec model.ChangeRecommendation
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("recommendation_id = ?", id).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recommendationRepo) ListByRequest(ctx context.Context, changeRequestID string) ([]model.ChangeRecommendation, error) {
	var list []model.ChangeRecommendation
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("change_request_id = ?", changeRequestID).
		Order("day ASC, time_slot_id ASC").
		Find(&list).Error
	return list, err
}

func (r *recommendationRepo) UpdateDecision(ctx context.Context, rec *model.ChangeRecommendation) error {
	return r.db.WithContext(ctx).
		Model(&model.ChangeRecommendation{}).
		Where("recommendation_id = ?", rec.RecommendationID).
		Updates(map[string]interface{}{
			"accepted_by_teacher": rec.AcceptedByTeacher,
			"accepted_by_leader":  rec.AcceptedByLeader,
			"rejected_by_teacher": rec.RejectedByTeacher,
			"rejected_by_leader":  rec.RejectedByLeader,
			"source_proposal_id":  rec.SourceProposalID,
		}).Error
}

func (r *recommendationRepo) DetachProposal(ctx context.Context, proposalID string) error {
	return r.db.WithContext(ctx).
		Model(&model.ChangeRecommendation{}).
		Where("source_proposal_id = ?", proposalID).
		Update("source_proposal_id", nil).Error
}

func (r *recommendationRepo) DeleteByRequest(ctx context.Context, changeRequestID string) error {
	return r.db.WithContext(ctx).
		Where("change_request_id = ?", changeRequestID).
		Delete(&model.ChangeRecommendation{}).Error
}
