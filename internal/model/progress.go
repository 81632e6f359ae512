package model

// TaskStatus 表示一个组织对某个任务的进度状态。
// 取值沿用业务侧的日文表记。
type TaskStatus string

const (
	// StatusNotStarted 未着手
	StatusNotStarted TaskStatus = "未着手"
	// StatusInProgress 進行中
	StatusInProgress TaskStatus = "進行中"
	// StatusDone 完了
	StatusDone TaskStatus = "完了"
)

// Valid 判断进度状态取值是否合法。
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// MemoHistory 是一条发给中央的备注历史记录。
// Timestamp 为完整的 RFC3339 时间戳，粒度比 Progress.UpdatedAt 更细，
// 用于展示排序和去重判断。
type MemoHistory struct {
	Memo      string `json:"memo"`
	OrgID     string `json:"orgId"`
	Timestamp string `json:"timestamp"`
}

// Progress 对应于数据库中的 'progress' 表。
// (TaskID, OrgID) 是自然键，唯一索引保证每对至多一条记录；
// 代理主键 ID 仅用于存储寻址。
type Progress struct {
	ID     string `gorm:"type:varchar(64);primaryKey" json:"id"`
	TaskID string `gorm:"type:varchar(64);not null;uniqueIndex:idx_progress_task_org" json:"taskId"`
	OrgID  string `gorm:"type:varchar(64);not null;uniqueIndex:idx_progress_task_org" json:"orgId"`
	// Status 为当前进度状态。
	Status TaskStatus `gorm:"type:varchar(16);not null" json:"status"`
	// Memo 是当前备注文本，约定不超过 200 字符，可为空。
	Memo string `gorm:"type:text" json:"memo"`
	// MemoHistory 是只追加的备注历史，插入顺序有意义，正常操作不会改写或截断。
	MemoHistory []MemoHistory `gorm:"serializer:json;type:text" json:"memoHistory"`
	// CompletedAt 当且仅当 Status 为 完了 时存在（NULL 表示字段不存在）。
	CompletedAt *string `gorm:"type:varchar(10)" json:"completedAt,omitempty"`
	// UpdatedAt 在每次变更时刷新，日历天粒度。
	UpdatedAt string `gorm:"type:varchar(10)" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Progress) TableName() string {
	return "progress"
}
