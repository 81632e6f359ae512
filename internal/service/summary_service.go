package service

import (
	"context"
	"math"
	"sort"

	"shinchoku-go/internal/model"
)

// ApplicableTasks 返回适用于某组织的有效任务：
// 共通任务要求 category 与组织级别一致，本地任务要求创建者是该组织自身。
func ApplicableTasks(org model.Organization, tasks []model.Task) []model.Task {
	applicable := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Active {
			continue
		}
		if (t.Kind == model.KindCommon && t.Category == model.TaskCategory(org.Role)) ||
			(t.Kind == model.KindLocal && t.CreatedByOrgID == org.ID) {
			applicable = append(applicable, t)
		}
	}
	return applicable
}

// Summarize 基于一份 (任务, 进度) 快照计算某组织的完成情况汇总。
// 完成率 = round(完成数/适用数*100, 小数点后一位)，适用数为 0 时定义为 0。
func Summarize(org model.Organization, tasks []model.Task, progress []model.Progress) model.ProgressSummary {
	applicable := ApplicableTasks(org, tasks)
	applicableIDs := make(map[string]struct{}, len(applicable))
	for _, t := range applicable {
		applicableIDs[t.ID] = struct{}{}
	}

	completed := 0
	for _, p := range progress {
		if p.OrgID != org.ID || p.Status != model.StatusDone {
			continue
		}
		if _, ok := applicableIDs[p.TaskID]; ok {
			completed++
		}
	}

	rate := 0.0
	if len(applicable) > 0 {
		rate = math.Round(float64(completed)/float64(len(applicable))*100*10) / 10
	}

	return model.ProgressSummary{
		OrgID:          org.ID,
		OrgName:        org.Name,
		TotalTasks:     len(applicable),
		CompletedTasks: completed,
		ProgressRate:   rate,
	}
}

// SummarizeAll 为除中央外的全部组织计算汇总，按完成率降序排列，
// 并列时保持组织原有的相对顺序。
func SummarizeAll(orgs []model.Organization, tasks []model.Task, progress []model.Progress) []model.ProgressSummary {
	summaries := make([]model.ProgressSummary, 0, len(orgs))
	for _, org := range orgs {
		if org.Role == model.RoleCentral {
			continue
		}
		summaries = append(summaries, Summarize(org, tasks, progress))
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].ProgressRate > summaries[j].ProgressRate
	})
	return summaries
}

// SummaryService 接口定义了报表视图的聚合查询。
type SummaryService interface {
	Summaries(ctx context.Context) ([]model.ProgressSummary, error)
}

// summaryService 组合三个读取服务，按需从最新快照重算汇总。
type summaryService struct {
	orgService      OrganizationService
	taskService     TaskService
	progressService ProgressService
}

// NewSummaryService 创建一个新的 SummaryService 实例。
func NewSummaryService(orgService OrganizationService, taskService TaskService, progressService ProgressService) SummaryService {
	return &summaryService{
		orgService:      orgService,
		taskService:     taskService,
		progressService: progressService,
	}
}

// Summaries 读取组织、任务、进度三份快照并计算全部汇总。
func (s *summaryService) Summaries(ctx context.Context) ([]model.ProgressSummary, error) {
	orgs, err := s.orgService.List(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskService.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := s.progressService.List(ctx)
	if err != nil {
		return nil, err
	}
	return SummarizeAll(orgs, tasks, progress), nil
}
