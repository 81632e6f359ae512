package repository

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"shinchoku-go/internal/model"
)

// progressRepository 是 ProgressRepository 接口的 GORM 实现。
type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository 创建一个新的 ProgressRepository 实例。
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

// FindAll 从数据库中检索所有的进度记录。
func (r *progressRepository) FindAll() ([]model.Progress, error) {
	var progress []model.Progress
	err := r.db.Find(&progress).Error
	return progress, err
}

// FindByTaskAndOrg 按自然键 (taskID, orgID) 查找进度记录。
func (r *progressRepository) FindByTaskAndOrg(taskID, orgID string) (*model.Progress, error) {
	var progress model.Progress
	err := r.db.Where("task_id = ? AND org_id = ?", taskID, orgID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// Create 在数据库中插入一个新的进度记录。
// (task_id, org_id) 上的唯一索引保证自然键不会出现重复行。
func (r *progressRepository) Create(progress *model.Progress) error {
	return r.db.Create(progress).Error
}

// Update 按 ProgressUpdate 的显式标记更新进度记录。
// 使用字段映射而不是整体 Save，未标记的字段不会被触碰；
// ClearCompletedAt 写入 NULL，对应"字段不存在"语义。
func (r *progressRepository) Update(id string, upd ProgressUpdate) error {
	values := map[string]interface{}{
		"status":     upd.Status,
		"updated_at": upd.UpdatedAt,
	}
	if upd.Memo != nil {
		values["memo"] = *upd.Memo
	}
	if upd.MemoHistory != nil {
		// 映射更新不经过 serializer，这里手动序列化历史记录
		data, err := json.Marshal(upd.MemoHistory)
		if err != nil {
			return err
		}
		values["memo_history"] = string(data)
	}
	if upd.ClearCompletedAt {
		values["completed_at"] = nil
	} else if upd.SetCompletedAt != nil {
		values["completed_at"] = *upd.SetCompletedAt
	}

	// 不检查 RowsAffected：重复上报时各字段值可能与现值完全相同，
	// MySQL 对无变化的 UPDATE 返回 0 行，不能据此判定记录不存在。
	return r.db.Model(&model.Progress{}).Where("id = ?", id).Updates(values).Error
}
