package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"shinchoku-go/internal/cache"
	"shinchoku-go/internal/model"
	"shinchoku-go/internal/repository"
	"shinchoku-go/pkg/clock"
	"shinchoku-go/pkg/log"
)

// ProgressService 接口定义了进度上报相关的业务操作。
type ProgressService interface {
	List(ctx context.Context) ([]model.Progress, error)
	ListByOrganization(ctx context.Context, orgID string) ([]model.Progress, error)
	ListByTask(ctx context.Context, taskID string) ([]model.Progress, error)
	// GetByTaskAndOrg 按自然键查找，不存在时返回 nil。
	GetByTaskAndOrg(ctx context.Context, taskID, orgID string) (*model.Progress, error)
	// Report 创建或更新一条进度记录（create-or-update 语义）。
	// memo 为 nil 表示本次调用不触碰备注；非 nil（包括空串）表示希望更新备注。
	Report(ctx context.Context, taskID, orgID string, status model.TaskStatus, memo *string) (*model.Progress, error)
}

// progressService 是 ProgressService 接口的实现。
// 同一 (taskID, orgID) 的写入通过键级互斥锁串行化，
// 避免读-改-写竞争导致备注历史丢失。
type progressService struct {
	progressRepo repository.ProgressRepository
	cache        cache.SnapshotCache
	clock        clock.Clock

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewProgressService 创建一个新的 ProgressService 实例。
func NewProgressService(progressRepo repository.ProgressRepository, snapshotCache cache.SnapshotCache, clk clock.Clock) ProgressService {
	return &progressService{
		progressRepo: progressRepo,
		cache:        snapshotCache,
		clock:        clk,
		locks:        make(map[string]*sync.Mutex),
	}
}

// List 返回按 updatedAt 降序排列的全部进度记录。
func (s *progressService) List(ctx context.Context) ([]model.Progress, error) {
	var progress []model.Progress
	if !s.cache.Get(ctx, cache.CollectionProgress, &progress) {
		var err error
		progress, err = s.progressRepo.FindAll()
		if err != nil {
			return nil, err
		}
		s.cache.Put(ctx, cache.CollectionProgress, progress)
	}
	sortProgress(progress)
	return progress, nil
}

// ListByOrganization 在全量进度上过滤出某组织的记录。
func (s *progressService) ListByOrganization(ctx context.Context, orgID string) ([]model.Progress, error) {
	progress, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]model.Progress, 0, len(progress))
	for _, p := range progress {
		if p.OrgID == orgID {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// ListByTask 在全量进度上过滤出某任务的记录。
func (s *progressService) ListByTask(ctx context.Context, taskID string) ([]model.Progress, error) {
	progress, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]model.Progress, 0, len(progress))
	for _, p := range progress {
		if p.TaskID == taskID {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// GetByTaskAndOrg 按自然键直接查询，不经过缓存，不存在时返回 nil。
func (s *progressService) GetByTaskAndOrg(ctx context.Context, taskID, orgID string) (*model.Progress, error) {
	progress, err := s.progressRepo.FindByTaskAndOrg(taskID, orgID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return progress, err
}

// Report 实现进度上报的核心算法：
//  1. 按自然键查找现有记录，today/now 在本次操作内只取一次；
//  2. 备注变更判定：memo 非 nil 时先 trim，与现有备注（trim 后）不同才算真实变更，
//     无现有记录时则要求 trim 后非空；
//  3. 无现有记录时创建新记录，真实变更时以一条历史记录作为初始历史；
//  4. 有现有记录时总是刷新 status 与 updatedAt；真实变更时更新备注，
//     且仅当新备注非空并与最近一条历史不同（trim 比较）时才追加历史，
//     防止重复保存产生连续重复的历史条目；
//  5. completedAt 只在进入 完了 时写入当天日期，离开 完了 时整字段移除。
//
// 写入失败原样上抛，成功后使进度集合的缓存失效。
func (s *progressService) Report(ctx context.Context, taskID, orgID string, status model.TaskStatus, memo *string) (*model.Progress, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("无效的进度状态: %s", status)
	}

	// 同一自然键的写入串行化
	lock := s.lockFor(taskID + "/" + orgID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.progressRepo.FindByTaskAndOrg(taskID, orgID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	nowIso := model.Timestamp(now)
	today := model.DateStamp(now)

	var sanitized *string
	if memo != nil {
		trimmed := strings.TrimSpace(*memo)
		sanitized = &trimmed
	}

	if existing == nil {
		memoText := ""
		if sanitized != nil {
			memoText = *sanitized
		}
		history := []model.MemoHistory{}
		if memoText != "" {
			history = append(history, model.MemoHistory{Memo: memoText, OrgID: orgID, Timestamp: nowIso})
		}
		progress := &model.Progress{
			ID:          fmt.Sprintf("progress_%d", now.UnixNano()),
			TaskID:      taskID,
			OrgID:       orgID,
			Status:      status,
			Memo:        memoText,
			MemoHistory: history,
			UpdatedAt:   today,
		}
		if status == model.StatusDone {
			progress.CompletedAt = &today
		}
		if err := s.progressRepo.Create(progress); err != nil {
			return nil, err
		}
		s.cache.Invalidate(ctx, cache.CollectionProgress)
		log.Infof("组织 %s 首次上报任务 %s 的进度: %s", orgID, taskID, status)
		return progress, nil
	}

	memoChanged := sanitized != nil && *sanitized != strings.TrimSpace(existing.Memo)

	upd := repository.ProgressUpdate{
		Status:    status,
		UpdatedAt: today,
	}
	result := *existing
	result.Status = status
	result.UpdatedAt = today

	if memoChanged {
		upd.Memo = sanitized
		result.Memo = *sanitized
		history := make([]model.MemoHistory, 0, len(existing.MemoHistory)+1)
		history = append(history, existing.MemoHistory...)
		lastMemo := ""
		if len(history) > 0 {
			lastMemo = strings.TrimSpace(history[len(history)-1].Memo)
		}
		if *sanitized != "" && *sanitized != lastMemo {
			history = append(history, model.MemoHistory{Memo: *sanitized, OrgID: orgID, Timestamp: nowIso})
		}
		upd.MemoHistory = history
		result.MemoHistory = history
	}

	if status == model.StatusDone && existing.CompletedAt == nil {
		upd.SetCompletedAt = &today
		result.CompletedAt = &today
	} else if status != model.StatusDone && existing.CompletedAt != nil {
		upd.ClearCompletedAt = true
		result.CompletedAt = nil
	}

	if err := s.progressRepo.Update(existing.ID, upd); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.CollectionProgress)
	return &result, nil
}

// lockFor 返回指定自然键对应的互斥锁，锁按需创建后常驻。
func (s *progressService) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// sortProgress 按 updatedAt 降序排序，相同时按 ID 保证确定性。
func sortProgress(progress []model.Progress) {
	sort.SliceStable(progress, func(i, j int) bool {
		if progress[i].UpdatedAt != progress[j].UpdatedAt {
			return progress[i].UpdatedAt > progress[j].UpdatedAt
		}
		return progress[i].ID < progress[j].ID
	})
}
