package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestUniqueViolationError_Is(t *testing.T) {
	err := fmt.Errorf("插入失败: %w", &UniqueViolationError{Constraint: "uq_x"})

	if !errors.Is(err, ErrUniqueViolation) {
		t.Error("期望 errors.Is(err, ErrUniqueViolation) 成立")
	}
	if !IsConstraint(err, "uq_x") {
		t.Error("期望约束名匹配 uq_x")
	}
	if IsConstraint(err, "uq_y") {
		t.Error("约束名 uq_y 不应匹配")
	}
	if IsConstraint(ErrOptimisticLock, "uq_x") {
		t.Error("乐观锁错误不应被识别为唯一约束错误")
	}
}
