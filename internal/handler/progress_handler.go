// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"shinchoku-go/internal/middleware"
	"shinchoku-go/internal/model"
	"shinchoku-go/internal/service"
	"shinchoku-go/pkg/log"
)

// ProgressHandler 负责处理进度上报相关的 API 请求。
type ProgressHandler struct {
	progressService service.ProgressService
}

// NewProgressHandler 创建一个新的 ProgressHandler 实例。
func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// ReportProgressRequest 定义了进度上报 API 的请求体结构。
// memo 字段缺省时不触碰备注，显式传空串表示清空备注。
type ReportProgressRequest struct {
	TaskID string  `json:"taskId" binding:"required"`
	Status string  `json:"status" binding:"required"`
	Memo   *string `json:"memo" binding:"omitempty,max=200"`
}

// List 处理获取进度列表的请求。
// 中央可以查看全部记录并按 ?orgId= / ?taskId= 过滤；
// 其余角色无论传什么都只能看到自己组织的记录。
func (h *ProgressHandler) List(c *gin.Context) {
	claims, ok := middleware.SessionClaims(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "无法获取会话信息", "data": nil})
		return
	}
	ctx := c.Request.Context()

	if model.Role(claims.Role) != model.RoleCentral {
		progress, err := h.progressService.ListByOrganization(ctx, claims.OrgID)
		if err != nil {
			log.Error("List: Failed to list progress", err)
			c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "获取进度列表失败", "data": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": progress})
		return
	}

	var (
		progress []model.Progress
		err      error
	)
	switch {
	case c.Query("orgId") != "":
		progress, err = h.progressService.ListByOrganization(ctx, c.Query("orgId"))
	case c.Query("taskId") != "":
		progress, err = h.progressService.ListByTask(ctx, c.Query("taskId"))
	default:
		progress, err = h.progressService.List(ctx)
	}
	if err != nil {
		log.Error("List: Failed to list progress", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "获取进度列表失败", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": progress})
}

// Report 处理进度上报请求（create-or-update 语义）。
// 中央只读不写；记录归属的组织强制取自会话，不信任请求体。
func (h *ProgressHandler) Report(c *gin.Context) {
	var req ReportProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Report: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的请求负载", "data": nil})
		return
	}

	claims, ok := middleware.SessionClaims(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "无法获取会话信息", "data": nil})
		return
	}
	if !service.CanUpdateProgress(model.Role(claims.Role), claims.OrgID, claims.OrgID) {
		c.JSON(http.StatusForbidden, gin.H{"code": http.StatusForbidden, "message": "权限不足，进度仅组织自身可上报", "data": nil})
		return
	}

	status := model.TaskStatus(req.Status)
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的进度状态", "data": nil})
		return
	}

	progress, err := h.progressService.Report(c.Request.Context(), req.TaskID, claims.OrgID, status, req.Memo)
	if err != nil {
		log.Error("Report: Failed to save progress", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "进度保存失败", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": progress})
}
