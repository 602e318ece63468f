package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"classroom-booking/backend/internal/engine"
	"classroom-booking/backend/internal/model"
	"classroom-booking/backend/internal/repository"
)

// Negotiation 一个调课申请的已解析上下文
// 通过外键逐级查询得到，调用方不再遍历对象图
type Negotiation struct {
	Request   *model.ChangeRequest
	Event     *model.CourseEvent
	Course    *model.Course
	TeacherID string
	LeaderID  string
	GroupID   string
}

// loadNegotiation 申请 → 课次 → 课程 → 班级（班长）
func loadNegotiation(ctx context.Context, repo *repository.Repository, cr *model.ChangeRequest) (*Negotiation, error) {
	event, err := repo.CourseEvent.GetByID(ctx, cr.CourseEventID)
	if err != nil {
		return nil, notFoundAs(err, ErrCourseEventNotFound)
	}
	course, err := repo.Course.GetByID(ctx, event.CourseID)
	if err != nil {
		return nil, notFoundAs(err, ErrCourseNotFound)
	}
	group, err := repo.Group.GetByID(ctx, course.GroupID)
	if err != nil {
		return nil, notFoundAs(err, ErrGroupNotFound)
	}

	n := &Negotiation{
		Request:   cr,
		Event:     event,
		Course:    course,
		TeacherID: course.TeacherID,
		GroupID:   group.GroupID,
	}
	if group.LeaderID != nil {
		n.LeaderID = *group.LeaderID
	}
	return n, nil
}

// Party 用户在协商中的身份
func (n *Negotiation) Party(userID string) engine.Party {
	return engine.ResolveParty(userID, n.TeacherID, n.LeaderID)
}

// CanView 当事人、发起人与教务人员可查看
func (n *Negotiation) CanView(userID string, role model.UserRole) bool {
	return n.Party(userID) != engine.PartyNone || n.Request.InitiatorID == userID || role.IsStaff()
}

// notFoundAs 将 gorm.ErrRecordNotFound 转换为对应的业务错误
func notFoundAs(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
