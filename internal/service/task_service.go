package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"shinchoku-go/internal/cache"
	"shinchoku-go/internal/model"
	"shinchoku-go/internal/repository"
	"shinchoku-go/pkg/clock"
)

// CreateTaskInput 定义了创建任务所需的字段。
type CreateTaskInput struct {
	Title          string
	Category       model.TaskCategory
	Kind           model.TaskKind
	CreatedByOrgID string
	Memo           string
}

// UpdateTaskInput 定义了任务编辑操作，nil 字段表示不修改。
type UpdateTaskInput struct {
	Title  *string
	Memo   *string
	Active *bool
}

// TaskService 接口定义了任务相关的业务操作。
type TaskService interface {
	ListAll(ctx context.Context) ([]model.Task, error)
	// ListCommonByCategory 返回指定级别的有效共通任务。
	ListCommonByCategory(ctx context.Context, category model.TaskCategory) ([]model.Task, error)
	// ListLocalByOrganization 返回某组织自建的有效本地任务。
	ListLocalByOrganization(ctx context.Context, orgID string) ([]model.Task, error)
	GetByID(ctx context.Context, id string) (*model.Task, error)
	Create(ctx context.Context, input CreateTaskInput) (*model.Task, error)
	Update(ctx context.Context, id string, input UpdateTaskInput) (*model.Task, error)
	// Delete 删除任务并级联删除其全部进度记录。
	Delete(ctx context.Context, id string) error
	// Reorder 按给定的 ID 顺序批量重排展示顺序（displayOrder = 位置+1）。
	Reorder(ctx context.Context, ids []string) error
}

// taskService 是 TaskService 接口的实现。
type taskService struct {
	taskRepo repository.TaskRepository
	cache    cache.SnapshotCache
	clock    clock.Clock
}

// NewTaskService 创建一个新的 TaskService 实例。
func NewTaskService(taskRepo repository.TaskRepository, snapshotCache cache.SnapshotCache, clk clock.Clock) TaskService {
	return &taskService{taskRepo: taskRepo, cache: snapshotCache, clock: clk}
}

// ListAll 返回按 displayOrder 升序排列的全部任务。
func (s *taskService) ListAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if !s.cache.Get(ctx, cache.CollectionTasks, &tasks) {
		var err error
		tasks, err = s.taskRepo.FindAll()
		if err != nil {
			return nil, err
		}
		s.cache.Put(ctx, cache.CollectionTasks, tasks)
	}
	sortTasks(tasks)
	return tasks, nil
}

// ListCommonByCategory 在全量任务上过滤出指定级别的有效共通任务。
func (s *taskService) ListCommonByCategory(ctx context.Context, category model.TaskCategory) ([]model.Task, error) {
	tasks, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Kind == model.KindCommon && t.Category == category && t.Active {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// ListLocalByOrganization 在全量任务上过滤出某组织自建的有效本地任务。
func (s *taskService) ListLocalByOrganization(ctx context.Context, orgID string) ([]model.Task, error) {
	tasks, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Kind == model.KindLocal && t.CreatedByOrgID == orgID && t.Active {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// GetByID 根据 ID 查找一个任务，不经过缓存。
func (s *taskService) GetByID(ctx context.Context, id string) (*model.Task, error) {
	return s.taskRepo.FindByID(id)
}

// Create 创建一个新任务。展示顺序取同 (category, kind) 内现有最大值加一。
func (s *taskService) Create(ctx context.Context, input CreateTaskInput) (*model.Task, error) {
	if !input.Category.Valid() {
		return nil, errors.New("无效的任务类别")
	}
	if !input.Kind.Valid() {
		return nil, errors.New("无效的任务种类")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New("任务标题不能为空")
	}

	tasks, err := s.taskRepo.FindAll()
	if err != nil {
		return nil, err
	}
	maxOrder := 0
	for _, t := range tasks {
		if t.Category == input.Category && t.Kind == input.Kind && t.DisplayOrder > maxOrder {
			maxOrder = t.DisplayOrder
		}
	}

	now := s.clock.Now()
	today := model.DateStamp(now)
	task := &model.Task{
		ID:             fmt.Sprintf("task_%d", now.UnixNano()),
		Title:          title,
		Category:       input.Category,
		Kind:           input.Kind,
		CreatedByOrgID: input.CreatedByOrgID,
		Active:         true,
		Memo:           strings.TrimSpace(input.Memo),
		DisplayOrder:   maxOrder + 1,
		CreatedAt:      today,
		UpdatedAt:      today,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.CollectionTasks)
	return task, nil
}

// Update 编辑任务的标题、说明或有效标记，并刷新 updatedAt。
func (s *taskService) Update(ctx context.Context, id string, input UpdateTaskInput) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, errors.New("任务标题不能为空")
		}
		task.Title = title
	}
	if input.Memo != nil {
		task.Memo = strings.TrimSpace(*input.Memo)
	}
	if input.Active != nil {
		task.Active = *input.Active
	}
	task.UpdatedAt = model.DateStamp(s.clock.Now())

	if err := s.taskRepo.Update(task); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.CollectionTasks)
	return task, nil
}

// Delete 删除任务并级联删除其全部进度记录，随后让两个集合的缓存失效。
func (s *taskService) Delete(ctx context.Context, id string) error {
	if err := s.taskRepo.DeleteWithProgress(id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.CollectionTasks, cache.CollectionProgress)
	return nil
}

// Reorder 按给定的 ID 顺序批量更新展示顺序，整组更新一次性提交。
func (s *taskService) Reorder(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	updates := make([]repository.TaskOrderUpdate, 0, len(ids))
	for i, id := range ids {
		updates = append(updates, repository.TaskOrderUpdate{ID: id, DisplayOrder: i + 1})
	}
	if err := s.taskRepo.UpdateDisplayOrders(updates, model.DateStamp(s.clock.Now())); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.CollectionTasks)
	return nil
}

// sortTasks 按 displayOrder 升序排序，相同时按 ID 保证确定性。
func sortTasks(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].DisplayOrder != tasks[j].DisplayOrder {
			return tasks[i].DisplayOrder < tasks[j].DisplayOrder
		}
		return tasks[i].ID < tasks[j].ID
	})
}
