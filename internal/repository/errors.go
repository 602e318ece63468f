package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	pkgerrors "classroom-booking/backend/pkg/errors"
)

// 数据库约束名，与迁移脚本保持一致
const (
	ConstraintEventRoomSlot        = "uq_course_events_room_day_slot_active"
	ConstraintProposalUnique       = "uq_proposals_request_user_day_slot"
	ConstraintRecommendationUnique = "uq_recommendations_request_day_slot_room"
)

const pgUniqueViolation = "23505"

// translateError 将 PostgreSQL 唯一约束错误转换为带约束名的领域错误
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &pkgerrors.UniqueViolationError{Constraint: pgErr.ConstraintName}
	}
	return err
}
