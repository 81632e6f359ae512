// Package service 包含了应用的业务逻辑层。
// 读路径统一走"全量读取（带快照缓存）→ 内存过滤排序"的方式，
// 不依赖后端特有的查询能力。
package service

import (
	"context"
	"sort"

	"shinchoku-go/internal/cache"
	"shinchoku-go/internal/model"
	"shinchoku-go/internal/repository"
)

// OrganizationService 接口定义了组织相关的业务操作。
type OrganizationService interface {
	List(ctx context.Context) ([]model.Organization, error)
	GetByID(ctx context.Context, id string) (*model.Organization, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.Organization, error)
}

// organizationService 是 OrganizationService 接口的实现。
type organizationService struct {
	orgRepo repository.OrganizationRepository
	cache   cache.SnapshotCache
}

// NewOrganizationService 创建一个新的 OrganizationService 实例。
func NewOrganizationService(orgRepo repository.OrganizationRepository, snapshotCache cache.SnapshotCache) OrganizationService {
	return &organizationService{orgRepo: orgRepo, cache: snapshotCache}
}

// List 返回按 displayOrder 升序排列的全部组织。
func (s *organizationService) List(ctx context.Context) ([]model.Organization, error) {
	var orgs []model.Organization
	if !s.cache.Get(ctx, cache.CollectionOrganizations, &orgs) {
		var err error
		orgs, err = s.orgRepo.FindAll()
		if err != nil {
			return nil, err
		}
		s.cache.Put(ctx, cache.CollectionOrganizations, orgs)
	}
	sortOrganizations(orgs)
	return orgs, nil
}

// GetByID 根据 ID 查找一个组织，不经过缓存。
func (s *organizationService) GetByID(ctx context.Context, id string) (*model.Organization, error) {
	return s.orgRepo.FindByID(id)
}

// ListByRole 返回指定级别的组织，按 displayOrder 升序排列。
func (s *organizationService) ListByRole(ctx context.Context, role model.Role) ([]model.Organization, error) {
	orgs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]model.Organization, 0, len(orgs))
	for _, org := range orgs {
		if org.Role == role {
			filtered = append(filtered, org)
		}
	}
	return filtered, nil
}

// sortOrganizations 按 displayOrder 升序排序，相同时按 ID 保证确定性。
func sortOrganizations(orgs []model.Organization) {
	sort.SliceStable(orgs, func(i, j int) bool {
		if orgs[i].DisplayOrder != orgs[j].DisplayOrder {
			return orgs[i].DisplayOrder < orgs[j].DisplayOrder
		}
		return orgs[i].ID < orgs[j].ID
	})
}
