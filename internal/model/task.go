package model

// TaskCategory 表示任务面向的组织级别。
type TaskCategory string

const (
	CategoryBlock  TaskCategory = "block"
	CategoryBranch TaskCategory = "branch"
	CategorySub    TaskCategory = "sub"
)

// Valid 判断任务类别取值是否合法。
func (c TaskCategory) Valid() bool {
	switch c {
	case CategoryBlock, CategoryBranch, CategorySub:
		return true
	}
	return false
}

// TaskKind 区分中央下发的共通任务与组织自建的本地任务。
type TaskKind string

const (
	// KindCommon 共通任务：由中央创建，适用于 Category 对应级别的所有组织。
	KindCommon TaskKind = "common"
	// KindLocal 本地任务：由某个组织自建，只适用于创建者自身。
	KindLocal TaskKind = "local"
)

// Valid 判断任务种类取值是否合法。
func (k TaskKind) Valid() bool {
	return k == KindCommon || k == KindLocal
}

// Task 对应于数据库中的 'tasks' 表。
type Task struct {
	// ID 是任务的唯一标识符，作为主键。
	ID string `gorm:"type:varchar(64);primaryKey" json:"id"`
	// Title 是任务标题。
	Title string `gorm:"type:varchar(255);not null" json:"title"`
	// Category 表示任务面向的组织级别：block、branch、sub 之一。
	Category TaskCategory `gorm:"type:varchar(16);not null" json:"category"`
	// Kind 表示任务种类：common 或 local。
	Kind TaskKind `gorm:"type:varchar(16);not null" json:"kind"`
	// CreatedByOrgID 记录了创建此任务的组织 ID。
	CreatedByOrgID string `gorm:"type:varchar(64);not null;column:created_by_org_id" json:"createdByOrgId"`
	// Active 标记任务是否有效。
	Active bool `json:"active"`
	// Memo 是任务的静态说明，区别于进度上报中的备注。
	Memo string `gorm:"type:text" json:"memo,omitempty"`
	// DisplayOrder 控制同一类别内的展示顺序，由排序操作批量更新。
	DisplayOrder int `gorm:"not null" json:"displayOrder"`
	// CreatedAt / UpdatedAt 为日历天粒度的日期字符串，如 "2024-01-15"。
	CreatedAt string `gorm:"type:varchar(10)" json:"createdAt"`
	UpdatedAt string `gorm:"type:varchar(10)" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Task) TableName() string {
	return "tasks"
}
