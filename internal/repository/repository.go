package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
// 事务内通过 Tx.WithTx 拿到绑定同一 *gorm.DB 事务的新聚合
type Repository struct {
	Tx                 TxManager
	User               UserRepository
	Group              GroupRepository
	Course             CourseRepository
	CourseEvent        CourseEventRepository
	Room               RoomRepository
	RoomUnavailability RoomUnavailabilityRepository
	Equipment          EquipmentRepository
	TimeSlot           TimeSlotRepository
	ChangeRequest      ChangeRequestRepository
	Proposal           ProposalRepository
	Recommendation     RecommendationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Tx:                 &gormTxManager{db: db},
		User:               NewUserRepo(db),
		Group:              NewGroupRepo(db),
		Course:             NewCourseRepo(db),
		CourseEvent:        NewCourseEventRepo(db),
		Room:               NewRoomRepo(db),
		RoomUnavailability: NewRoomUnavailabilityRepo(db),
		Equipment:          NewEquipmentRepo(db),
		TimeSlot:           NewTimeSlotRepo(db),
		ChangeRequest:      NewChangeRequestRepo(db),
		Proposal:           NewProposalRepo(db),
		Recommendation:     NewRecommendationRepo(db),
	}
}

// TxManager 显式的工作单元
// fn 返回错误时整个事务回滚，任何写入都不会部分提交
type TxManager interface {
	WithTx(ctx context.Context, fn func(tx *Repository) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

func (m *gormTxManager) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
