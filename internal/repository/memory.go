package repository

import (
	"sync"

	"shinchoku-go/internal/model"
)

// MemoryStore 是三个仓库接口的内存数据集实现。
// 实时后端未配置时它就是主存储；配置了实时后端时它作为读路径的降级数据源。
// 无写入时两次读取返回的数据完全一致（确定性），所有方法返回副本，
// 调用方修改返回值不会影响内部状态。
type MemoryStore struct {
	mu            sync.RWMutex
	organizations []model.Organization
	tasks         []model.Task
	progress      []model.Progress
}

// NewMemoryStore 创建一个以组织种子数据初始化的内存数据集。
// 任务与进度初始为空，对应生产环境的初始状态。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		organizations: model.SeedOrganizations(),
	}
}

// FindAll 返回所有组织的副本。
func (s *MemoryStore) FindAll() ([]model.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orgs := make([]model.Organization, len(s.organizations))
	copy(orgs, s.organizations)
	return orgs, nil
}

// FindByID 根据 ID 查找组织。
func (s *MemoryStore) FindByID(id string) (*model.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, org := range s.organizations {
		if org.ID == id {
			o := org
			return &o, nil
		}
	}
	return nil, ErrNotFound
}

// Count 返回组织数量。
func (s *MemoryStore) Count() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.organizations)), nil
}

// CreateBatch 批量插入组织记录。
func (s *MemoryStore) CreateBatch(orgs []model.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.organizations = append(s.organizations, orgs...)
	return nil
}

// Tasks 返回以任务接口视角访问本数据集的句柄。
func (s *MemoryStore) Tasks() TaskRepository {
	return (*memoryTaskRepository)(s)
}

// Progress 返回以进度接口视角访问本数据集的句柄。
func (s *MemoryStore) Progress() ProgressRepository {
	return (*memoryProgressRepository)(s)
}

// memoryTaskRepository 让 MemoryStore 以独立类型实现 TaskRepository，
// 避免 FindAll/FindByID 等方法名在组织接口与任务接口之间冲突。
type memoryTaskRepository MemoryStore

func (s *memoryTaskRepository) FindAll() ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := make([]model.Task, len(s.tasks))
	copy(tasks, s.tasks)
	return tasks, nil
}

func (s *memoryTaskRepository) FindByID(id string) (*model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, task := range s.tasks {
		if task.ID == id {
			t := task
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryTaskRepository) Create(task *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, *task)
	return nil
}

func (s *memoryTaskRepository) Update(task *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			s.tasks[i] = *task
			return nil
		}
	}
	return ErrNotFound
}

func (s *memoryTaskRepository) DeleteWithProgress(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	tasks := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID == id {
			found = true
			continue
		}
		tasks = append(tasks, t)
	}
	if !found {
		return ErrNotFound
	}
	s.tasks = tasks
	// 级联删除该任务的全部进度记录
	progress := s.progress[:0]
	for _, p := range s.progress {
		if p.TaskID == id {
			continue
		}
		progress = append(progress, p)
	}
	s.progress = progress
	return nil
}

func (s *memoryTaskRepository) UpdateDisplayOrders(updates []TaskOrderUpdate, updatedAt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range updates {
		for i := range s.tasks {
			if s.tasks[i].ID == u.ID {
				s.tasks[i].DisplayOrder = u.DisplayOrder
				s.tasks[i].UpdatedAt = updatedAt
				break
			}
		}
	}
	return nil
}

// memoryProgressRepository 让 MemoryStore 以独立类型实现 ProgressRepository。
type memoryProgressRepository MemoryStore

func (s *memoryProgressRepository) FindAll() ([]model.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	progress := make([]model.Progress, len(s.progress))
	copy(progress, s.progress)
	for i := range progress {
		progress[i].MemoHistory = copyHistory(progress[i].MemoHistory)
	}
	return progress, nil
}

func (s *memoryProgressRepository) FindByTaskAndOrg(taskID, orgID string) (*model.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.progress {
		if p.TaskID == taskID && p.OrgID == orgID {
			found := p
			found.MemoHistory = copyHistory(p.MemoHistory)
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryProgressRepository) Create(progress *model.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *progress
	p.MemoHistory = copyHistory(progress.MemoHistory)
	s.progress = append(s.progress, p)
	return nil
}

func (s *memoryProgressRepository) Update(id string, upd ProgressUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.progress {
		if s.progress[i].ID != id {
			continue
		}
		p := &s.progress[i]
		p.Status = upd.Status
		p.UpdatedAt = upd.UpdatedAt
		if upd.Memo != nil {
			p.Memo = *upd.Memo
		}
		if upd.MemoHistory != nil {
			p.MemoHistory = copyHistory(upd.MemoHistory)
		}
		if upd.ClearCompletedAt {
			p.CompletedAt = nil
		} else if upd.SetCompletedAt != nil {
			date := *upd.SetCompletedAt
			p.CompletedAt = &date
		}
		return nil
	}
	return ErrNotFound
}

func copyHistory(history []model.MemoHistory) []model.MemoHistory {
	if history == nil {
		return nil
	}
	out := make([]model.MemoHistory, len(history))
	copy(out, history)
	return out
}
