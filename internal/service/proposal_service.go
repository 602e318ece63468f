package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"classroom-booking/backend/internal/dto"
	"classroom-booking/backend/internal/engine"
	"classroom-booking/backend/internal/model"
	"classroom-booking/backend/internal/repository"
	pkgerrors "classroom-booking/backend/pkg/errors"
)

// ── 可用时间业务错误 ──

var (
	ErrProposalNotFound  = errors.New("可用时间不存在")
	ErrDuplicateProposal = errors.New("该时间段已提交过")
	ErrTimeSlotNotFound  = errors.New("节次不存在")
)

// ProposalService 可用时间台账接口
type ProposalService interface {
	Submit(ctx context.Context, req *dto.CreateProposalRequest, callerID string) (*dto.ProposalResponse, error)
	ListMine(ctx context.Context, req *dto.ProposalListRequest, callerID string) ([]dto.ProposalResponse, error)
	Withdraw(ctx context.Context, id, callerID string) error
}

type proposalService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProposalService 创建 ProposalService 实例
func NewProposalService(repo *repository.Repository, logger *zap.Logger) ProposalService {
	return &proposalService{repo: repo, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *proposalService) Submit(ctx context.Context, req *dto.CreateProposalRequest, callerID string) (*dto.ProposalResponse, error) {
	day, err := engine.ParseDay(req.Day)
	if err != nil {
		return nil, ErrInvalidDay
	}

	var result *dto.ProposalResponse
	err = s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		if _, err := tx.TimeSlot.GetByID(ctx, req.TimeSlotID); err != nil {
			return notFoundAs(err, ErrTimeSlotNotFound)
		}

		_, n, err := lockPending(ctx, tx, req.ChangeRequestID)
		if err != nil {
			return err
		}
		if n.Party(callerID) == engine.PartyNone {
			return ErrNotAuthorized
		}

		p := &model.AvailabilityProposal{
			ChangeRequestID: req.ChangeRequestID,
			UserID:          callerID,
			Day:             day,
			TimeSlotID:      req.TimeSlotID,
		}
		if err := tx.Proposal.Create(ctx, p); err != nil {
			if pkgerrors.IsConstraint(err, repository.ConstraintProposalUnique) {
				return ErrDuplicateProposal
			}
			s.logger.Error("保存可用时间失败", zap.Error(err))
			return err
		}

		result = toProposalResponse(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ────────────────────── ListMine ──────────────────────

func (s *proposalService) ListMine(ctx context.Context, req *dto.ProposalListRequest, callerID string) ([]dto.ProposalResponse, error) {
	if _, err := s.repo.ChangeRequest.GetByID(ctx, req.ChangeRequestID); err != nil {
		return nil, notFoundAs(err, ErrChangeRequestNotFound)
	}

	list, err := s.repo.Proposal.ListByRequestAndUser(ctx, req.ChangeRequestID, callerID)
	if err != nil {
		s.logger.Error("查询可用时间失败", zap.String("change_request_id", req.ChangeRequestID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.ProposalResponse, 0, len(list))
	for i := range list {
		result = append(result, *toProposalResponse(&list[i]))
	}
	return result, nil
}

// ────────────────────── Withdraw ──────────────────────

func (s *proposalService) Withdraw(ctx context.Context, id, callerID string) error {
	return s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		p, err := tx.Proposal.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrProposalNotFound)
		}
		if p.UserID != callerID {
			return ErrNotAuthorized
		}
		if _, _, err := lockPending(ctx, tx, p.ChangeRequestID); err != nil {
			return err
		}

		// 已生成的推荐保留，只断开来源关联
		if err := tx.Recommendation.DetachProposal(ctx, id); err != nil {
			s.logger.Error("解除推荐来源失败", zap.String("proposal_id", id), zap.Error(err))
			return err
		}
		if err := tx.Proposal.Delete(ctx, id); err != nil {
			s.logger.Error("撤回可用时间失败", zap.String("proposal_id", id), zap.Error(err))
			return err
		}
		return nil
	})
}

func toProposalResponse(p *model.AvailabilityProposal) *dto.ProposalResponse {
	return &dto.ProposalResponse{
		ID:              p.ProposalID,
		ChangeRequestID: p.ChangeRequestID,
		UserID:          p.UserID,
		Day:             engine.FormatDay(p.Day),
		TimeSlotID:      p.TimeSlotID,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}
}
