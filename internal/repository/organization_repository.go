package repository

import (
	"errors"

	"gorm.io/gorm"
	"shinchoku-go/internal/model"
)

// organizationRepository 是 OrganizationRepository 接口的 GORM 实现。
type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository 创建一个新的 OrganizationRepository 实例。
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

// FindAll 从数据库中检索所有的组织记录。
func (r *organizationRepository) FindAll() ([]model.Organization, error) {
	var orgs []model.Organization
	err := r.db.Find(&orgs).Error
	return orgs, err
}

// FindByID 根据给定的 ID 从数据库中查找一个组织。
func (r *organizationRepository) FindByID(id string) (*model.Organization, error) {
	var org model.Organization
	err := r.db.Where("id = ?", id).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// Count 返回组织记录总数，用于启动时判断是否需要播种。
func (r *organizationRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Organization{}).Count(&count).Error
	return count, err
}

// CreateBatch 批量插入组织记录。
func (r *organizationRepository) CreateBatch(orgs []model.Organization) error {
	if len(orgs) == 0 {
		return nil
	}
	return r.db.Create(&orgs).Error
}
