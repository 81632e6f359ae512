package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shinchoku-go/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func TestMemoryCacheHitAndExpiry(t *testing.T) {
	clk := &fakeClock{now: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)}
	c := NewMemorySnapshotCache(60*time.Second, clk)
	ctx := context.Background()

	tasks := []model.Task{{ID: "task_1", Title: "一件目"}}
	c.Put(ctx, CollectionTasks, tasks)

	var got []model.Task
	require.True(t, c.Get(ctx, CollectionTasks, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "一件目", got[0].Title)

	// TTL 到期后视为未命中
	clk.now = clk.now.Add(60 * time.Second)
	got = nil
	assert.False(t, c.Get(ctx, CollectionTasks, &got))
}

func TestMemoryCacheMissOnUnknownCollection(t *testing.T) {
	clk := &fakeClock{now: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)}
	c := NewMemorySnapshotCache(60*time.Second, clk)

	var got []model.Task
	assert.False(t, c.Get(context.Background(), CollectionTasks, &got))
}

func TestMemoryCacheInvalidate(t *testing.T) {
	clk := &fakeClock{now: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)}
	c := NewMemorySnapshotCache(60*time.Second, clk)
	ctx := context.Background()

	c.Put(ctx, CollectionTasks, []model.Task{{ID: "task_1"}})
	c.Put(ctx, CollectionProgress, []model.Progress{{ID: "p1"}})

	c.Invalidate(ctx, CollectionTasks, CollectionProgress)

	var tasks []model.Task
	var progress []model.Progress
	assert.False(t, c.Get(ctx, CollectionTasks, &tasks))
	assert.False(t, c.Get(ctx, CollectionProgress, &progress))
}

func TestMemoryCacheReturnsCopies(t *testing.T) {
	clk := &fakeClock{now: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)}
	c := NewMemorySnapshotCache(60*time.Second, clk)
	ctx := context.Background()

	c.Put(ctx, CollectionTasks, []model.Task{{ID: "task_1", Title: "元"}})

	var first []model.Task
	require.True(t, c.Get(ctx, CollectionTasks, &first))
	first[0].Title = "改ざん"

	var second []model.Task
	require.True(t, c.Get(ctx, CollectionTasks, &second))
	assert.Equal(t, "元", second[0].Title)
}
