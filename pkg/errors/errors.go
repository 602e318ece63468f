package errors

import (
	"errors"
	"fmt"
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrUniqueViolation 违反唯一约束（由数据库层兜底）
var ErrUniqueViolation = errors.New("违反唯一约束")

// UniqueViolationError 携带约束名的唯一约束错误
// errors.Is(err, ErrUniqueViolation) 对其成立
type UniqueViolationError struct {
	Constraint string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUniqueViolation.Error(), e.Constraint)
}

// Is 支持 errors.Is 比较
func (e *UniqueViolationError) Is(target error) bool {
	return target == ErrUniqueViolation
}

// IsConstraint 判断 err 是否为指定约束名的唯一约束错误
func IsConstraint(err error, constraint string) bool {
	var uv *UniqueViolationError
	return errors.As(err, &uv) && uv.Constraint == constraint
}
