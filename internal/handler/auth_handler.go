// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"shinchoku-go/internal/model"
	"shinchoku-go/internal/service"
	"shinchoku-go/pkg/log"
)

// AuthHandler 负责处理登录认证相关的 API 请求。
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler 创建一个新的 AuthHandler 实例。
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest 定义了登录 API 的请求体结构。
type LoginRequest struct {
	Role     string `json:"role" binding:"required"`
	OrgID    string `json:"orgId"`
	Password string `json:"password" binding:"required"`
}

// Login 处理登录请求：校验角色与口令，成功后返回会话 token。
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Login: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的请求负载", "data": nil})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), model.Role(req.Role), req.OrgID, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warnf("Login: Authentication failed for role '%s', org '%s'", req.Role, req.OrgID)
			c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "认证信息不正确", "data": nil})
			return
		}
		log.Error("Login: Failed to issue session token", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "登录失败", "data": nil})
		return
	}

	log.Infof("Role '%s' logged in, org '%s'", result.Role, result.OrgID)
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": result})
}
