// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"shinchoku-go/internal/middleware"
	"shinchoku-go/internal/model"
	"shinchoku-go/internal/repository"
	"shinchoku-go/internal/service"
	"shinchoku-go/pkg/log"
	"shinchoku-go/pkg/token"
)

// TaskHandler 负责处理任务相关的 API 请求。
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler 创建一个新的 TaskHandler 实例。
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTaskRequest 定义了创建任务 API 的请求体结构。
type CreateTaskRequest struct {
	Title    string `json:"title" binding:"required,max=100"`
	Category string `json:"category" binding:"required"`
	Kind     string `json:"kind" binding:"required"`
	Memo     string `json:"memo" binding:"max=200"`
}

// UpdateTaskRequest 定义了编辑任务 API 的请求体结构，缺省字段不修改。
type UpdateTaskRequest struct {
	Title  *string `json:"title" binding:"omitempty,max=100"`
	Memo   *string `json:"memo" binding:"omitempty,max=200"`
	Active *bool   `json:"active"`
}

// ReorderTasksRequest 定义了任务重排 API 的请求体结构。
type ReorderTasksRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// List 处理获取任务列表的请求。
// ?category= 返回指定级别的有效共通任务，?orgId= 返回某组织的有效本地任务，
// 两者都缺省时返回全部任务。
func (h *TaskHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if categoryStr := c.Query("category"); categoryStr != "" {
		category := model.TaskCategory(categoryStr)
		if !category.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的任务类别", "data": nil})
			return
		}
		tasks, err := h.taskService.ListCommonByCategory(ctx, category)
		if err != nil {
			log.Error("List: Failed to list common tasks", err)
			c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "获取任务列表失败", "data": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": tasks})
		return
	}

	if orgID := c.Query("orgId"); orgID != "" {
		tasks, err := h.taskService.ListLocalByOrganization(ctx, orgID)
		if err != nil {
			log.Error("List: Failed to list local tasks", err)
			c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "获取任务列表失败", "data": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": tasks})
		return
	}

	tasks, err := h.taskService.ListAll(ctx)
	if err != nil {
		log.Error("List: Failed to list tasks", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "获取任务列表失败", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": tasks})
}

// Create 处理创建任务的请求。
// 共通任务只有中央可以创建；本地任务的创建者组织强制取自会话，不信任请求体。
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Create: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的请求负载", "data": nil})
		return
	}

	claims, ok := middleware.SessionClaims(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "无法获取会话信息", "data": nil})
		return
	}

	kind := model.TaskKind(req.Kind)
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的任务种类", "data": nil})
		return
	}

	input := service.CreateTaskInput{
		Title:    req.Title,
		Category: model.TaskCategory(req.Category),
		Kind:     kind,
		Memo:     req.Memo,
	}
	role := model.Role(claims.Role)
	if kind == model.KindCommon {
		if !service.CanManageCommonTasks(role) {
			c.JSON(http.StatusForbidden, gin.H{"code": http.StatusForbidden, "message": "权限不足，共通任务仅中央可管理", "data": nil})
			return
		}
	} else {
		if role == model.RoleCentral || claims.OrgID == "" {
			c.JSON(http.StatusForbidden, gin.H{"code": http.StatusForbidden, "message": "权限不足，本地任务仅组织自身可管理", "data": nil})
			return
		}
		input.CreatedByOrgID = claims.OrgID
	}

	task, err := h.taskService.Create(c.Request.Context(), input)
	if err != nil {
		log.Error("Create: Failed to create task", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "创建任务失败", "data": nil})
		return
	}

	log.Infof("Task '%s' created by role '%s', org '%s'", task.ID, claims.Role, claims.OrgID)
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": task})
}

// Update 处理编辑任务的请求，权限规则与创建一致。
func (h *TaskHandler) Update(c *gin.Context) {
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Update: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的请求负载", "data": nil})
		return
	}

	claims, ok := middleware.SessionClaims(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "无法获取会话信息", "data": nil})
		return
	}

	id := c.Param("id")
	task, err := h.taskService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "任务不存在", "data": nil})
			return
		}
		log.Error("Update: Failed to load task", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "更新任务失败", "data": nil})
		return
	}
	if !canManageTask(claims, task) {
		c.JSON(http.StatusForbidden, gin.H{"code": http.StatusForbidden, "message": "权限不足", "data": nil})
		return
	}

	updated, err := h.taskService.Update(c.Request.Context(), id, service.UpdateTaskInput{
		Title:  req.Title,
		Memo:   req.Memo,
		Active: req.Active,
	})
	if err != nil {
		log.Error("Update: Failed to update task", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "更新任务失败", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": updated})
}

// Delete 处理删除任务的请求，任务与其全部进度记录一并删除。
func (h *TaskHandler) Delete(c *gin.Context) {
	claims, ok := middleware.SessionClaims(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "无法获取会话信息", "data": nil})
		return
	}

	id := c.Param("id")
	task, err := h.taskService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "任务不存在", "data": nil})
			return
		}
		log.Error("Delete: Failed to load task", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "删除任务失败", "data": nil})
		return
	}
	if !canManageTask(claims, task) {
		c.JSON(http.StatusForbidden, gin.H{"code": http.StatusForbidden, "message": "权限不足", "data": nil})
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), id); err != nil {
		log.Error("Delete: Failed to delete task", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "删除任务失败", "data": nil})
		return
	}

	log.Infof("Task '%s' deleted by role '%s', org '%s'", id, claims.Role, claims.OrgID)
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": nil})
}

// Reorder 处理任务重排的请求，要求对列表中的每个任务都有管理权限。
func (h *TaskHandler) Reorder(c *gin.Context) {
	var req ReorderTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Reorder: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的请求负载", "data": nil})
		return
	}

	claims, ok := middleware.SessionClaims(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "无法获取会话信息", "data": nil})
		return
	}

	for _, id := range req.IDs {
		task, err := h.taskService.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "任务不存在", "data": nil})
				return
			}
			log.Error("Reorder: Failed to load task", err)
			c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "任务重排失败", "data": nil})
			return
		}
		if !canManageTask(claims, task) {
			c.JSON(http.StatusForbidden, gin.H{"code": http.StatusForbidden, "message": "权限不足", "data": nil})
			return
		}
	}

	if err := h.taskService.Reorder(c.Request.Context(), req.IDs); err != nil {
		log.Error("Reorder: Failed to reorder tasks", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "任务重排失败", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": nil})
}

// canManageTask 按任务种类判定管理权限：共通任务看角色，本地任务看创建者。
func canManageTask(claims *token.SessionClaims, task *model.Task) bool {
	role := model.Role(claims.Role)
	if task.Kind == model.KindCommon {
		return service.CanManageCommonTasks(role)
	}
	return service.CanManageLocalTask(role, claims.OrgID, task.CreatedByOrgID)
}
