package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shinchoku-go/internal/cache"
	"shinchoku-go/internal/model"
	"shinchoku-go/internal/repository"
)

func TestApplicableTasks(t *testing.T) {
	org := model.Organization{ID: "org_010", Role: model.RoleSub}
	tasks := []model.Task{
		{ID: "t1", Kind: model.KindCommon, Category: model.CategorySub, Active: true},
		{ID: "t2", Kind: model.KindCommon, Category: model.CategoryBlock, Active: true},
		{ID: "t3", Kind: model.KindLocal, CreatedByOrgID: "org_010", Active: true},
		{ID: "t4", Kind: model.KindLocal, CreatedByOrgID: "org_011", Active: true},
		{ID: "t5", Kind: model.KindCommon, Category: model.CategorySub, Active: false},
	}

	applicable := ApplicableTasks(org, tasks)
	require.Len(t, applicable, 2)
	assert.Equal(t, "t1", applicable[0].ID)
	assert.Equal(t, "t3", applicable[1].ID)
}

func TestSummarizeRounding(t *testing.T) {
	org := model.Organization{ID: "org_010", Name: "北海道", Role: model.RoleSub}
	tasks := []model.Task{
		{ID: "t1", Kind: model.KindCommon, Category: model.CategorySub, Active: true},
		{ID: "t2", Kind: model.KindCommon, Category: model.CategorySub, Active: true},
		{ID: "t3", Kind: model.KindCommon, Category: model.CategorySub, Active: true},
	}
	progress := []model.Progress{
		{TaskID: "t1", OrgID: "org_010", Status: model.StatusDone},
		{TaskID: "t2", OrgID: "org_010", Status: model.StatusInProgress},
		// 他组织的完成不计入
		{TaskID: "t3", OrgID: "org_011", Status: model.StatusDone},
	}

	summary := Summarize(org, tasks, progress)
	assert.Equal(t, 3, summary.TotalTasks)
	assert.Equal(t, 1, summary.CompletedTasks)
	// 1/3 → 33.3（四舍五入到小数点后一位）
	assert.Equal(t, 33.3, summary.ProgressRate)
}

func TestSummarizeZeroTasks(t *testing.T) {
	org := model.Organization{ID: "org_010", Role: model.RoleSub}

	summary := Summarize(org, nil, nil)
	assert.Equal(t, 0, summary.TotalTasks)
	assert.Equal(t, 0.0, summary.ProgressRate)
}

func TestSummarizeAllSkipsCentralAndSortsDesc(t *testing.T) {
	orgs := []model.Organization{
		{ID: "org_000", Name: "中央", Role: model.RoleCentral},
		{ID: "org_010", Name: "北海道", Role: model.RoleSub},
		{ID: "org_011", Name: "青森", Role: model.RoleSub},
	}
	tasks := []model.Task{
		{ID: "t1", Kind: model.KindCommon, Category: model.CategorySub, Active: true},
		{ID: "t2", Kind: model.KindCommon, Category: model.CategorySub, Active: true},
	}
	progress := []model.Progress{
		{TaskID: "t1", OrgID: "org_011", Status: model.StatusDone},
		{TaskID: "t2", OrgID: "org_011", Status: model.StatusDone},
		{TaskID: "t1", OrgID: "org_010", Status: model.StatusDone},
	}

	summaries := SummarizeAll(orgs, tasks, progress)
	require.Len(t, summaries, 2)
	assert.Equal(t, "org_011", summaries[0].OrgID)
	assert.Equal(t, 100.0, summaries[0].ProgressRate)
	assert.Equal(t, "org_010", summaries[1].OrgID)
	assert.Equal(t, 50.0, summaries[1].ProgressRate)
}

func TestSummaryServiceComposesSnapshots(t *testing.T) {
	store := repository.NewMemoryStore()
	clk := &fakeClock{now: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)}
	snapshotCache := cache.NewMemorySnapshotCache(60*time.Second, clk)
	orgService := NewOrganizationService(store, snapshotCache)
	taskService := NewTaskService(store.Tasks(), snapshotCache, clk)
	progressService := NewProgressService(store.Progress(), snapshotCache, clk)
	svc := NewSummaryService(orgService, taskService, progressService)
	ctx := context.Background()

	_, err := taskService.Create(ctx, CreateTaskInput{
		Title:    "共通タスク",
		Category: model.CategorySub,
		Kind:     model.KindCommon,
	})
	require.NoError(t, err)

	summaries, err := svc.Summaries(ctx)
	require.NoError(t, err)
	// 64 个非中央组织全部出现在汇总里
	require.Len(t, summaries, 64)
	for _, s := range summaries {
		assert.NotEqual(t, "org_000", s.OrgID)
	}
}
