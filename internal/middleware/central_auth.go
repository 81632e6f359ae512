// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"shinchoku-go/internal/model"
)

// CentralOnly 检查当前会话是否具有中央角色。
// 此中间件必须在 AuthMiddleware 之后使用。
func CentralOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := SessionClaims(c)
		if !ok {
			// 如果 claims 不存在，说明 AuthMiddleware 未能成功解析，这是一个服务器内部错误
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "无法获取会话信息"})
			return
		}

		// 检查会话角色是否为中央
		if model.Role(claims.Role) != model.RoleCentral {
			// 如果不是中央，则返回 Forbidden 状态
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "权限不足，需要中央权限"})
			return
		}

		// 继续处理请求
		c.Next()
	}
}
