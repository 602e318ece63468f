package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// TokenBlacklist Token 吊销存储（Redis 实现见 pkg/redis）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService 认证业务接口
// 登录由外部身份服务负责，这里只处理注销
type AuthService interface {
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

type authService struct {
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例，blacklist 可为 nil
func NewAuthService(blacklist TokenBlacklist, logger *zap.Logger) AuthService {
	return &authService{blacklist: blacklist, logger: logger}
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil {
		s.logger.Warn("Redis 不可用，跳过 Token 吊销", zap.String("jti", jti))
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 || jti == "" {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, ttl); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.String("jti", jti), zap.Error(err))
		return err
	}
	return nil
}
