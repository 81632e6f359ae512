// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"shinchoku-go/pkg/token"
)

// AuthMiddleware 创建一个 Gin 中间件，用于 JWT 认证。
// 它会从请求头中提取 token，验证其有效性，并将会话 claims 存入 Gin 的上下文中。
// 会话不绑定用户表：登录靠角色加共享口令，claims 本身就是全部身份信息。
func AuthMiddleware(jwtManager *token.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从 Authorization 请求头中获取 token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			// 如果请求头为空，则中止请求，返回未授权状态
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "请求未包含授权头"})
			return
		}

		// Token 通常以 "Bearer <token>" 的形式提供，我们需要提取出 token 本身
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			// 如果 token 格式不正确，则返回错误
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "无效的授权头格式"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)

		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "无效或已过期的 token"})
			return
		}

		// 将会话 claims 存储在 context 中，供后续处理函数使用
		c.Set("claims", claims)

		// 继续处理请求链中的下一个处理器
		c.Next()
	}
}

// SessionClaims 从 Gin 上下文中取出 AuthMiddleware 存入的会话信息。
// 此函数必须在 AuthMiddleware 之后的处理链中调用。
func SessionClaims(c *gin.Context) (*token.SessionClaims, bool) {
	claimsValue, exists := c.Get("claims")
	if !exists {
		return nil, false
	}
	claims, ok := claimsValue.(*token.SessionClaims)
	return claims, ok
}
