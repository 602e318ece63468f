package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"classroom-booking/backend/internal/model"
	"classroom-booking/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (model.UserRole, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return model.UserRole(s), true
}

// mustGetCaller 同时提取 user_id 与 role
func mustGetCaller(c *gin.Context) (string, model.UserRole, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return "", "", false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return "", "", false
	}
	return userID, role, true
}

// getToken 提取当前 Token 的 jti 与过期时间，缺失时返回零值
func getToken(c *gin.Context) (string, time.Time) {
	jti := c.GetString("token_jti")
	exp := c.GetTime("token_exp")
	return jti, exp
}
