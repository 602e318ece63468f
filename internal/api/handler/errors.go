package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"classroom-booking/backend/internal/service"
	pkgerrors "classroom-booking/backend/pkg/errors"
	"classroom-booking/backend/pkg/response"
)

// handleNegotiationError 统一处理调课协商相关业务错误
// 申请、提议、推荐共用同一组哨兵错误，因此集中映射
func handleNegotiationError(c *gin.Context, err error) {
	switch {
	// ── 不存在 ──
	case errors.Is(err, service.ErrChangeRequestNotFound):
		response.NotFound(c, 20001, "调课申请不存在")
	case errors.Is(err, service.ErrCourseEventNotFound):
		response.NotFound(c, 20002, "课次不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 20003, "课程不存在")
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, 20004, "班级不存在")
	case errors.Is(err, service.ErrEquipmentNotFound):
		response.NotFound(c, 20005, "设备不存在")
	case errors.Is(err, service.ErrProposalNotFound):
		response.NotFound(c, 21001, "可用时间不存在")
	case errors.Is(err, service.ErrTimeSlotNotFound):
		response.NotFound(c, 21003, "节次不存在")
	case errors.Is(err, service.ErrRecommendationNotFound):
		response.NotFound(c, 22001, "调课推荐不存在")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 22002, "教室不存在")

	// ── 状态与权限 ──
	case errors.Is(err, service.ErrAlreadyProcessed):
		response.BadRequest(c, 20006, "调课申请已处理")
	case errors.Is(err, service.ErrCourseEventCanceled):
		response.BadRequest(c, 20007, "课次已取消")
	case errors.Is(err, service.ErrNotAuthorized):
		response.Forbidden(c, 20009, "仅课程教师或班长可执行此操作")

	// ── 参数 ──
	case errors.Is(err, service.ErrInvalidDay),
		errors.Is(err, service.ErrInvalidSeriesRange),
		errors.Is(err, service.ErrInvalidReason),
		errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, 20008, err.Error())

	// ── 冲突 ──
	case errors.Is(err, service.ErrDuplicateProposal):
		response.BadRequest(c, 21002, "该时间段已提交过")
	case errors.Is(err, service.ErrRoomConflict):
		response.Conflict(c, 22003, "目标教室在该时间段已被占用")
	case errors.Is(err, service.ErrGroupConflict):
		response.Conflict(c, 22004, "班级在该时间段已有其他课程")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 22005, "数据已被其他操作修改，请刷新后重试")

	default:
		response.InternalError(c)
	}
}
