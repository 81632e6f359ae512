// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"shinchoku-go/internal/model"
	"shinchoku-go/internal/service"
	"shinchoku-go/pkg/log"
)

// OrganizationHandler 负责处理组织相关的 API 请求。
type OrganizationHandler struct {
	orgService     service.OrganizationService
	summaryService service.SummaryService
}

// NewOrganizationHandler 创建一个新的 OrganizationHandler 实例。
func NewOrganizationHandler(orgService service.OrganizationService, summaryService service.SummaryService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService:     orgService,
		summaryService: summaryService,
	}
}

// List 处理获取组织列表的请求，支持按 ?role= 过滤。
func (h *OrganizationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if roleStr := c.Query("role"); roleStr != "" {
		role := model.Role(roleStr)
		if !role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的组织级别", "data": nil})
			return
		}
		orgs, err := h.orgService.ListByRole(ctx, role)
		if err != nil {
			log.Error("List: Failed to list organizations by role", err)
			c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "获取组织列表失败", "data": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": orgs})
		return
	}

	orgs, err := h.orgService.List(ctx)
	if err != nil {
		log.Error("List: Failed to list organizations", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "获取组织列表失败", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": orgs})
}

// Summaries 处理获取全组织进度汇总的请求，按完成率降序返回。
func (h *OrganizationHandler) Summaries(c *gin.Context) {
	summaries, err := h.summaryService.Summaries(c.Request.Context())
	if err != nil {
		log.Error("Summaries: Failed to compute progress summaries", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "获取进度汇总失败", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": summaries})
}
