package service

import (
	"context"

	"go.uber.org/zap"

	"classroom-booking/backend/config"
	"classroom-booking/backend/internal/dto"
	"classroom-booking/backend/internal/engine"
	"classroom-booking/backend/internal/model"
	"classroom-booking/backend/internal/repository"
)

// AcceptanceService 推荐的双方确认状态机接口
type AcceptanceService interface {
	// Accept 记录调用方同意；双方都同意时在同一事务内落地
	Accept(ctx context.Context, recommendationID, callerID string) (*dto.ChangeRequestResponse, error)
	Reject(ctx context.Context, recommendationID, callerID string) (*dto.ChangeRequestResponse, error)
	Status(ctx context.Context, recommendationID string) (*dto.AcceptanceStatusResponse, error)
}

type acceptanceService struct {
	repo         *repository.Repository
	materializer EventMaterializer
	rejectPolicy string
	logger       *zap.Logger
}

// NewAcceptanceService 创建 AcceptanceService 实例
func NewAcceptanceService(repo *repository.Repository, materializer EventMaterializer, engineCfg config.EngineConfig, logger *zap.Logger) AcceptanceService {
	policy := engineCfg.RejectPolicy
	if policy == "" {
		policy = config.RejectPolicyRecommendation
	}
	return &acceptanceService{repo: repo, materializer: materializer, rejectPolicy: policy, logger: logger}
}

// ────────────────────── Accept ──────────────────────

func (s *acceptanceService) Accept(ctx context.Context, recommendationID, callerID string) (*dto.ChangeRequestResponse, error) {
	var result *dto.ChangeRequestResponse

	err := s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		rec, n, party, err := s.lockDecision(ctx, tx, recommendationID, callerID)
		if err != nil {
			return err
		}

		flags := flagsOf(rec).Accept(party)
		if flags != flagsOf(rec) {
			applyFlags(rec, flags)
			if err := tx.Recommendation.UpdateDecision(ctx, rec); err != nil {
				s.logger.Error("更新推荐确认状态失败", zap.String("recommendation_id", recommendationID), zap.Error(err))
				return err
			}
		}

		if flags.BothAccepted() {
			if err := s.materializer.Finalize(ctx, tx, n, rec); err != nil {
				return err
			}
		}

		result = toChangeRequestResponse(n.Request, n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ────────────────────── Reject ──────────────────────

func (s *acceptanceService) Reject(ctx context.Context, recommendationID, callerID string) (*dto.ChangeRequestResponse, error) {
	var result *dto.ChangeRequestResponse

	err := s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		rec, n, party, err := s.lockDecision(ctx, tx, recommendationID, callerID)
		if err != nil {
			return err
		}

		applyFlags(rec, flagsOf(rec).Reject(party))

		if s.rejectPolicy == config.RejectPolicyRequest {
			if err := closeRequest(ctx, tx, n.Request, model.StatusRejected); err != nil {
				s.logger.Error("否决调课申请失败", zap.String("change_request_id", n.Request.ChangeRequestID), zap.Error(err))
				return err
			}
			s.logger.Info("推荐被拒绝，调课申请已终止",
				zap.String("change_request_id", n.Request.ChangeRequestID),
				zap.String("party", party.String()),
			)
		} else {
			// 被拒推荐不再指向来源提议，申请继续协商
			rec.SourceProposalID = nil
			if err := tx.Recommendation.UpdateDecision(ctx, rec); err != nil {
				s.logger.Error("更新推荐确认状态失败", zap.String("recommendation_id", recommendationID), zap.Error(err))
				return err
			}
		}

		result = toChangeRequestResponse(n.Request, n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ────────────────────── Status ──────────────────────

func (s *acceptanceService) Status(ctx context.Context, recommendationID string) (*dto.AcceptanceStatusResponse, error) {
	rec, err := s.repo.Recommendation.GetByID(ctx, recommendationID)
	if err != nil {
		return nil, notFoundAs(err, ErrRecommendationNotFound)
	}
	return &dto.AcceptanceStatusResponse{
		AcceptedByTeacher: rec.AcceptedByTeacher,
		AcceptedByLeader:  rec.AcceptedByLeader,
	}, nil
}

// ── 内部辅助方法 ──

// lockDecision 读取推荐，行锁其申请后重读推荐，确保与并发的另一方串行
func (s *acceptanceService) lockDecision(ctx context.Context, tx *repository.Repository, recommendationID, callerID string) (*model.ChangeRecommendation, *Negotiation, engine.Party, error) {
	rec, err := tx.Recommendation.GetByID(ctx, recommendationID)
	if err != nil {
		return nil, nil, engine.PartyNone, notFoundAs(err, ErrRecommendationNotFound)
	}

	_, n, err := lockPending(ctx, tx, rec.ChangeRequestID)
	if err != nil {
		return nil, nil, engine.PartyNone, err
	}

	party := n.Party(callerID)
	if party == engine.PartyNone {
		return nil, nil, engine.PartyNone, ErrNotAuthorized
	}

	rec, err = tx.Recommendation.GetByID(ctx, recommendationID)
	if err != nil {
		return nil, nil, engine.PartyNone, notFoundAs(err, ErrRecommendationNotFound)
	}
	return rec, n, party, nil
}

func flagsOf(rec *model.ChangeRecommendation) engine.Flags {
	return engine.Flags{
		AcceptedByTeacher: rec.AcceptedByTeacher,
		AcceptedByLeader:  rec.AcceptedByLeader,
		RejectedByTeacher: rec.RejectedByTeacher,
		RejectedByLeader:  rec.RejectedByLeader,
	}
}

func applyFlags(rec *model.ChangeRecommendation, f engine.Flags) {
	rec.AcceptedByTeacher = f.AcceptedByTeacher
	rec.AcceptedByLeader = f.AcceptedByLeader
	rec.RejectedByTeacher = f.RejectedByTeacher
	rec.RejectedByLeader = f.RejectedByLeader
}
