// Package model 定义了与数据库表对应的 Go 结构体。
package model

// Role 表示组织在层级结构中的级别。
type Role string

const (
	// RoleCentral 中央本部
	RoleCentral Role = "central"
	// RoleBlock ブロック（地区块）
	RoleBlock Role = "block"
	// RoleBranch 支部
	RoleBranch Role = "branch"
	// RoleSub 分会
	RoleSub Role = "sub"
)

// Valid 判断角色取值是否合法。
func (r Role) Valid() bool {
	switch r {
	case RoleCentral, RoleBlock, RoleBranch, RoleSub:
		return true
	}
	return false
}

// Organization 对应于数据库中的 'organizations' 表。
// 组织在启动时一次性播种，核心范围内不再变更。
type Organization struct {
	// ID 是组织的唯一标识符，作为主键。
	ID string `gorm:"type:varchar(64);primaryKey" json:"id"`
	// Name 是组织的显示名称。
	Name string `gorm:"type:varchar(100);not null" json:"name"`
	// Role 表示组织级别：central、block、branch、sub 之一。
	Role Role `gorm:"type:varchar(16);not null" json:"role"`
	// Active 标记组织是否有效。
	Active bool `json:"active"`
	// DisplayOrder 定义了稳定的展示排序。
	DisplayOrder int `gorm:"not null" json:"displayOrder"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Organization) TableName() string {
	return "organizations"
}

// ProgressSummary 是按组织聚合出的完成情况汇总，用于报表视图。
type ProgressSummary struct {
	OrgID          string  `json:"orgId"`
	OrgName        string  `json:"orgName"`
	TotalTasks     int     `json:"totalTasks"`
	CompletedTasks int     `json:"completedTasks"`
	ProgressRate   float64 `json:"progressRate"`
}
