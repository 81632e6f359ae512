package repository

import (
	"errors"

	"gorm.io/gorm"
	"shinchoku-go/internal/model"
)

// taskRepository 是 TaskRepository 接口的 GORM 实现。
type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository 创建一个新的 TaskRepository 实例。
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// FindAll 从数据库中检索所有的任务记录。
// 过滤与排序统一在内存中进行，这里只做全量读取。
func (r *taskRepository) FindAll() ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.Find(&tasks).Error
	return tasks, err
}

// FindByID 根据给定的 ID 从数据库中查找一个任务。
func (r *taskRepository) FindByID(id string) (*model.Task, error) {
	var task model.Task
	err := r.db.Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Create 在数据库中插入一个新的任务记录。
func (r *taskRepository) Create(task *model.Task) error {
	return r.db.Create(task).Error
}

// Update 更新数据库中一个已存在的任务记录。
func (r *taskRepository) Update(task *model.Task) error {
	return r.db.Save(task).Error
}

// DeleteWithProgress 在同一事务中删除任务及其全部进度记录。
// 任一步失败则整体回滚，不会出现任务已删而进度残留的半级联状态。
func (r *taskRepository) DeleteWithProgress(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.Progress{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Task{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// UpdateDisplayOrders 在同一事务中批量更新任务的展示顺序。
func (r *taskRepository) UpdateDisplayOrders(updates []TaskOrderUpdate, updatedAt string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			err := tx.Model(&model.Task{}).Where("id = ?", u.ID).
				Updates(map[string]interface{}{
					"display_order": u.DisplayOrder,
					"updated_at":    updatedAt,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
