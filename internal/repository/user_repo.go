package repository

import (
	"context"

	"gorm.io/gorm"

	"classroom-booking/backend/internal/model"
)

// UserRepository 用户只读访问接口
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// GroupRepository 班级只读访问接口
type GroupRepository interface {
	GetByID(ctx context.Context, id string) (*model.Group, error)
}

// ── User Repository 实现 ──

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ── Group Repository 实现 ──

type groupRepo struct {
	db *gorm.DB
}

func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) GetByID(ctx context.Context, id string) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).
		Where("group_id = ?", id).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}
