package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shinchoku-go/internal/model"
)

var errBackendDown = errors.New("connection refused")

// failingOrgRepository 模拟实时后端全面不可用的情况。
type failingOrgRepository struct{}

func (r *failingOrgRepository) FindAll() ([]model.Organization, error)      { return nil, errBackendDown }
func (r *failingOrgRepository) FindByID(string) (*model.Organization, error) { return nil, errBackendDown }
func (r *failingOrgRepository) Count() (int64, error)                       { return 0, errBackendDown }
func (r *failingOrgRepository) CreateBatch([]model.Organization) error      { return errBackendDown }

type failingProgressRepository struct{}

func (r *failingProgressRepository) FindAll() ([]model.Progress, error) { return nil, errBackendDown }
func (r *failingProgressRepository) FindByTaskAndOrg(string, string) (*model.Progress, error) {
	return nil, errBackendDown
}
func (r *failingProgressRepository) Create(*model.Progress) error       { return errBackendDown }
func (r *failingProgressRepository) Update(string, ProgressUpdate) error { return errBackendDown }

func TestFallbackReadsDegradeToMemory(t *testing.T) {
	store := NewMemoryStore()
	repo := NewFallbackOrganizationRepository(&failingOrgRepository{}, store)

	orgs, err := repo.FindAll()
	require.NoError(t, err)
	assert.Len(t, orgs, 65)

	org, err := repo.FindByID("org_000")
	require.NoError(t, err)
	assert.Equal(t, "中央", org.Name)
}

func TestFallbackNotFoundIsNotDegraded(t *testing.T) {
	store := NewMemoryStore()
	primary := NewMemoryStore()
	repo := NewFallbackOrganizationRepository(primary, store)

	// 主存储正常响应 ErrNotFound 时不触发降级
	_, err := repo.FindByID("org_999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFallbackWritesNeverDegrade(t *testing.T) {
	store := NewMemoryStore()
	repo := NewFallbackProgressRepository(&failingProgressRepository{}, store.Progress())

	err := repo.Create(&model.Progress{ID: "p1", TaskID: "task_1", OrgID: "org_010"})
	assert.ErrorIs(t, err, errBackendDown)

	err = repo.Update("p1", ProgressUpdate{Status: model.StatusDone, UpdatedAt: "2025-04-01"})
	assert.ErrorIs(t, err, errBackendDown)

	// 降级数据源没有被写入
	progress, err := store.Progress().FindAll()
	require.NoError(t, err)
	assert.Empty(t, progress)
}

func TestFallbackProgressReadDegrades(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Progress().Create(&model.Progress{ID: "p1", TaskID: "task_1", OrgID: "org_010"}))
	repo := NewFallbackProgressRepository(&failingProgressRepository{}, store.Progress())

	progress, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, "p1", progress[0].ID)

	found, err := repo.FindByTaskAndOrg("task_1", "org_010")
	require.NoError(t, err)
	assert.Equal(t, "p1", found.ID)
}
