package handler

import (
	"github.com/gin-gonic/gin"

	"classroom-booking/backend/internal/service"
	"classroom-booking/backend/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
// 登录与签发在外部身份服务，这里只负责注销当前 Token
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Logout 注销当前 Token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := MustGetUserID(c); !ok {
		return
	}

	jti, exp := getToken(c)
	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
