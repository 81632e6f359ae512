package repository

import (
	"shinchoku-go/internal/model"
	"shinchoku-go/pkg/log"
)

// 读写策略（全仓库统一）：
// 读取失败时记录日志并降级到内存数据集，绝不把后端错误抛给调用方；
// 写入只走实时后端，失败原样上抛，绝不静默改写内存数据集——
// 否则调用方以为中央已收到上报，实际却写进了一份随进程丢弃的数据。

// fallbackOrganizationRepository 是 OrganizationRepository 的降级装饰器。
type fallbackOrganizationRepository struct {
	primary  OrganizationRepository
	fallback OrganizationRepository
}

// NewFallbackOrganizationRepository 将实时后端仓库包装为带内存降级的读路径。
func NewFallbackOrganizationRepository(primary, fallback OrganizationRepository) OrganizationRepository {
	return &fallbackOrganizationRepository{primary: primary, fallback: fallback}
}

func (r *fallbackOrganizationRepository) FindAll() ([]model.Organization, error) {
	orgs, err := r.primary.FindAll()
	if err != nil {
		log.Warnf("组织列表读取失败，降级到内存数据集: %v", err)
		return r.fallback.FindAll()
	}
	return orgs, nil
}

func (r *fallbackOrganizationRepository) FindByID(id string) (*model.Organization, error) {
	org, err := r.primary.FindByID(id)
	if err != nil && err != ErrNotFound {
		log.Warnf("组织读取失败，降级到内存数据集: %v", err)
		return r.fallback.FindByID(id)
	}
	return org, err
}

func (r *fallbackOrganizationRepository) Count() (int64, error) {
	return r.primary.Count()
}

func (r *fallbackOrganizationRepository) CreateBatch(orgs []model.Organization) error {
	return r.primary.CreateBatch(orgs)
}

// fallbackTaskRepository 是 TaskRepository 的降级装饰器。
type fallbackTaskRepository struct {
	primary  TaskRepository
	fallback TaskRepository
}

// NewFallbackTaskRepository 将实时后端仓库包装为带内存降级的读路径。
func NewFallbackTaskRepository(primary, fallback TaskRepository) TaskRepository {
	return &fallbackTaskRepository{primary: primary, fallback: fallback}
}

func (r *fallbackTaskRepository) FindAll() ([]model.Task, error) {
	tasks, err := r.primary.FindAll()
	if err != nil {
		log.Warnf("任务列表读取失败，降级到内存数据集: %v", err)
		return r.fallback.FindAll()
	}
	return tasks, nil
}

func (r *fallbackTaskRepository) FindByID(id string) (*model.Task, error) {
	task, err := r.primary.FindByID(id)
	if err != nil && err != ErrNotFound {
		log.Warnf("任务读取失败，降级到内存数据集: %v", err)
		return r.fallback.FindByID(id)
	}
	return task, err
}

func (r *fallbackTaskRepository) Create(task *model.Task) error {
	return r.primary.Create(task)
}

func (r *fallbackTaskRepository) Update(task *model.Task) error {
	return r.primary.Update(task)
}

func (r *fallbackTaskRepository) DeleteWithProgress(id string) error {
	return r.primary.DeleteWithProgress(id)
}

func (r *fallbackTaskRepository) UpdateDisplayOrders(updates []TaskOrderUpdate, updatedAt string) error {
	return r.primary.UpdateDisplayOrders(updates, updatedAt)
}

// fallbackProgressRepository 是 ProgressRepository 的降级装饰器。
type fallbackProgressRepository struct {
	primary  ProgressRepository
	fallback ProgressRepository
}

// NewFallbackProgressRepository 将实时后端仓库包装为带内存降级的读路径。
func NewFallbackProgressRepository(primary, fallback ProgressRepository) ProgressRepository {
	return &fallbackProgressRepository{primary: primary, fallback: fallback}
}

func (r *fallbackProgressRepository) FindAll() ([]model.Progress, error) {
	progress, err := r.primary.FindAll()
	if err != nil {
		log.Warnf("进度列表读取失败，降级到内存数据集: %v", err)
		return r.fallback.FindAll()
	}
	return progress, nil
}

func (r *fallbackProgressRepository) FindByTaskAndOrg(taskID, orgID string) (*model.Progress, error) {
	progress, err := r.primary.FindByTaskAndOrg(taskID, orgID)
	if err != nil && err != ErrNotFound {
		log.Warnf("进度读取失败，降级到内存数据集: %v", err)
		return r.fallback.FindByTaskAndOrg(taskID, orgID)
	}
	return progress, err
}

func (r *fallbackProgressRepository) Create(progress *model.Progress) error {
	return r.primary.Create(progress)
}

func (r *fallbackProgressRepository) Update(id string, upd ProgressUpdate) error {
	return r.primary.Update(id, upd)
}
