// Package repository 包含了所有与数据存储交互的逻辑。
// 每个接口都有两个实现：基于 GORM 的实时后端实现和确定性的内存数据集实现，
// 由启动时的配置一次性决定使用哪一个。
package repository

import (
	"errors"

	"shinchoku-go/internal/model"
)

// ErrNotFound 表示请求的记录不存在。
var ErrNotFound = errors.New("record not found")

// OrganizationRepository 接口定义了组织的数据操作方法。
type OrganizationRepository interface {
	FindAll() ([]model.Organization, error)
	FindByID(id string) (*model.Organization, error)
	Count() (int64, error)
	CreateBatch(orgs []model.Organization) error
}

// TaskOrderUpdate 是批量排序操作中单个任务的新展示顺序。
type TaskOrderUpdate struct {
	ID           string
	DisplayOrder int
}

// TaskRepository 接口定义了任务的数据操作方法。
type TaskRepository interface {
	FindAll() ([]model.Task, error)
	FindByID(id string) (*model.Task, error)
	Create(task *model.Task) error
	Update(task *model.Task) error
	// DeleteWithProgress 删除任务并在同一事务中级联删除其全部进度记录。
	DeleteWithProgress(id string) error
	// UpdateDisplayOrders 在同一事务中批量更新展示顺序并刷新 updatedAt。
	UpdateDisplayOrders(updates []TaskOrderUpdate, updatedAt string) error
}

// ProgressUpdate 描述一次进度记录更新。
// CompletedAt 的变更以显式标记表达：SetCompletedAt 非 nil 表示写入该日期，
// ClearCompletedAt 为 true 表示从记录中移除该字段（而不是写入空值），
// 两者都未设置则保持原状。Memo 与 MemoHistory 为 nil 时不触碰对应字段。
type ProgressUpdate struct {
	Status           model.TaskStatus
	UpdatedAt        string
	Memo             *string
	MemoHistory      []model.MemoHistory
	SetCompletedAt   *string
	ClearCompletedAt bool
}

// ProgressRepository 接口定义了进度记录的数据操作方法。
type ProgressRepository interface {
	FindAll() ([]model.Progress, error)
	// FindByTaskAndOrg 按自然键 (taskID, orgID) 查找，不存在时返回 ErrNotFound。
	FindByTaskAndOrg(taskID, orgID string) (*model.Progress, error)
	Create(progress *model.Progress) error
	Update(id string, upd ProgressUpdate) error
}
