package application

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/karilint/bones/internal/domain"
)

// SurveyService wraps the repository with limit clamps, degradation for
// dashboard reads, and audit writes.
type SurveyService struct {
	repo   domain.SurveyRepository
	logger *zap.Logger
}

func NewSurveyService(repo domain.SurveyRepository, logger *zap.Logger) *SurveyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SurveyService{repo: repo, logger: logger}
}

// PageSize is the fixed list-page length.
const PageSize = 25

const (
	recentLimit  = 5
	historyLimit = 25
	pickerLimit  = 20
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return 200
	}
	if limit > 2000 {
		return 2000
	}
	return limit
}

func pageOffset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}

func (s *SurveyService) ListTransects(ctx context.Context, filter domain.TransectFilter, page int) ([]domain.CompletedTransect, int64, error) {
	items, err := s.repo.ListTransects(ctx, filter, PageSize, pageOffset(page))
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountTransects(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *SurveyService) GetTransect(ctx context.Context, uid uint) (domain.CompletedTransect, error) {
	return s.repo.GetTransect(ctx, uid)
}

func (s *SurveyService) SaveTransect(ctx context.Context, value domain.CompletedTransect, identity domain.Identity) (domain.CompletedTransect, error) {
	if value.Name == "" {
		return domain.CompletedTransect{}, errors.New("name is required")
	}
	saved, err := s.repo.SaveTransect(ctx, value, identity.User.Email)
	if err != nil {
		return domain.CompletedTransect{}, err
	}
	s.WriteAudit(ctx, identity, "transect.save", domain.EntityTransect, saved.Name)
	return saved, nil
}

func (s *SurveyService) ListTransectDetails(ctx context.Context, uid uint) ([]domain.TransectDetail, error) {
	return s.repo.ListTransectDetails(ctx, uid)
}

func (s *SurveyService) ListTrackPoints(ctx context.Context, uid uint) ([]domain.TransectTrackPoint, error) {
	return s.repo.ListTrackPoints(ctx, uid)
}

func (s *SurveyService) ListTransectOccurrences(ctx context.Context, uid uint) ([]domain.CompletedOccurrence, error) {
	return s.repo.ListTransectOccurrences(ctx, uid)
}

func (s *SurveyService) TransectStates(ctx context.Context) ([]string, error) {
	return s.repo.TransectStates(ctx)
}

func (s *SurveyService) ListOccurrences(ctx context.Context, filter domain.OccurrenceFilter, page int) ([]domain.CompletedOccurrence, int64, error) {
	items, err := s.repo.ListOccurrences(ctx, filter, PageSize, pageOffset(page))
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountOccurrences(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *SurveyService) GetOccurrence(ctx context.Context, id uint) (domain.CompletedOccurrence, error) {
	return s.repo.GetOccurrence(ctx, id)
}

func (s *SurveyService) SaveOccurrence(ctx context.Context, value domain.CompletedOccurrence, identity domain.Identity) (domain.CompletedOccurrence, error) {
	saved, err := s.repo.SaveOccurrence(ctx, value, identity.User.Email)
	if err != nil {
		return domain.CompletedOccurrence{}, err
	}
	s.WriteAudit(ctx, identity, "occurrence.save", domain.EntityOccurrence, "")
	return saved, nil
}

func (s *SurveyService) ListOccurrenceDetails(ctx context.Context, id uint) ([]domain.OccurrenceDetail, error) {
	return s.repo.ListOccurrenceDetails(ctx, id)
}

func (s *SurveyService) ListOccurrenceResponses(ctx context.Context, id uint) ([]domain.CompletedResponse, error) {
	return s.repo.ListOccurrenceResponses(ctx, id)
}

func (s *SurveyService) ListOccurrenceWorkflows(ctx context.Context, id uint) ([]domain.CompletedWorkflow, error) {
	return s.repo.ListOccurrenceWorkflows(ctx, id)
}

func (s *SurveyService) OccurrenceStates(ctx context.Context) ([]string, error) {
	return s.repo.OccurrenceStates(ctx)
}

func (s *SurveyService) ListWorkflows(ctx context.Context, filter domain.WorkflowFilter, page int) ([]domain.CompletedWorkflow, int64, error) {
	items, err := s.repo.ListWorkflows(ctx, filter, PageSize, pageOffset(page))
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountWorkflows(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *SurveyService) GetWorkflow(ctx context.Context, uid string) (domain.CompletedWorkflow, error) {
	return s.repo.GetWorkflow(ctx, uid)
}

func (s *SurveyService) ListTemplateTransects(ctx context.Context, filter domain.TemplateTransectFilter, page int) ([]domain.TemplateTransect, int64, error) {
	items, err := s.repo.ListTemplateTransects(ctx, filter, PageSize, pageOffset(page))
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountTemplateTransects(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *SurveyService) GetTemplateTransect(ctx context.Context, id string) (domain.TemplateTransect, error) {
	return s.repo.GetTemplateTransect(ctx, id)
}

func (s *SurveyService) ListQuestions(ctx context.Context, filter domain.QuestionFilter, page int) ([]domain.Question, int64, error) {
	items, err := s.repo.ListQuestions(ctx, filter, PageSize, pageOffset(page))
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountQuestions(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *SurveyService) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	return s.repo.GetQuestion(ctx, id)
}

func (s *SurveyService) SaveQuestion(ctx context.Context, value domain.Question, identity domain.Identity) (domain.Question, error) {
	if value.Prompt == "" {
		return domain.Question{}, errors.New("prompt is required")
	}
	saved, err := s.repo.SaveQuestion(ctx, value, identity.User.Email)
	if err != nil {
		return domain.Question{}, err
	}
	s.WriteAudit(ctx, identity, "question.save", domain.EntityQuestion, saved.ID)
	return saved, nil
}

func (s *SurveyService) ListDataTypes(ctx context.Context, filter domain.DataTypeFilter, page int) ([]domain.DataType, int64, error) {
	items, err := s.repo.ListDataTypes(ctx, filter, PageSize, pageOffset(page))
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountDataTypes(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *SurveyService) GetDataType(ctx context.Context, id string) (domain.DataType, error) {
	return s.repo.GetDataType(ctx, id)
}

func (s *SurveyService) SaveDataType(ctx context.Context, value domain.DataType, identity domain.Identity) (domain.DataType, error) {
	if value.Name == "" {
		return domain.DataType{}, errors.New("name is required")
	}
	saved, err := s.repo.SaveDataType(ctx, value, identity.User.Email)
	if err != nil {
		return domain.DataType{}, err
	}
	s.WriteAudit(ctx, identity, "data_type.save", domain.EntityDataType, saved.ID)
	return saved, nil
}

func (s *SurveyService) ListDataTypeOptions(ctx context.Context, filter domain.DataTypeOptionFilter, page int) ([]domain.DataTypeOption, int64, error) {
	items, err := s.repo.ListDataTypeOptions(ctx, filter, PageSize, pageOffset(page))
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountDataTypeOptions(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *SurveyService) GetDataTypeOption(ctx context.Context, id uint) (domain.DataTypeOption, error) {
	return s.repo.GetDataTypeOption(ctx, id)
}

func (s *SurveyService) DataTypeOptionsFor(ctx context.Context, dataTypeID string) ([]domain.DataTypeOption, error) {
	return s.repo.ListDataTypeOptions(ctx, domain.DataTypeOptionFilter{DataTypeID: dataTypeID}, clampLimit(0), 0)
}

func (s *SurveyService) ListProjectConfigs(ctx context.Context, filter domain.ProjectConfigFilter, page int) ([]domain.ProjectConfig, int64, error) {
	items, err := s.repo.ListProjectConfigs(ctx, filter, PageSize, pageOffset(page))
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountProjectConfigs(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *SurveyService) GetProjectConfig(ctx context.Context, id uint) (domain.ProjectConfig, error) {
	return s.repo.GetProjectConfig(ctx, id)
}

func (s *SurveyService) SaveProjectConfig(ctx context.Context, value domain.ProjectConfig, identity domain.Identity) (domain.ProjectConfig, error) {
	saved, err := s.repo.SaveProjectConfig(ctx, value, identity.User.Email)
	if err != nil {
		return domain.ProjectConfig{}, err
	}
	s.WriteAudit(ctx, identity, "project_config.save", domain.EntityProjectConfig, "")
	return saved, nil
}

func (s *SurveyService) ListDataLogFiles(ctx context.Context, filter domain.DataLogFileFilter, page int) ([]domain.DataLogFile, int64, error) {
	items, err := s.repo.ListDataLogFiles(ctx, filter, PageSize, pageOffset(page))
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountDataLogFiles(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *SurveyService) GetDataLogFile(ctx context.Context, id uint) (domain.DataLogFile, error) {
	return s.repo.GetDataLogFile(ctx, id)
}

func (s *SurveyService) SaveDataLogFile(ctx context.Context, value domain.DataLogFile, identity domain.Identity) (domain.DataLogFile, error) {
	saved, err := s.repo.SaveDataLogFile(ctx, value, identity.User.Email)
	if err != nil {
		return domain.DataLogFile{}, err
	}
	s.WriteAudit(ctx, identity, "data_log.save", domain.EntityDataLog, "")
	return saved, nil
}

func (s *SurveyService) ListTransectDataLogs(ctx context.Context, dataLogFileID uint) ([]domain.TransectDataLog, error) {
	return s.repo.ListTransectDataLogs(ctx, dataLogFileID)
}

func (s *SurveyService) SearchTransects(ctx context.Context, query string) ([]domain.CompletedTransect, error) {
	return s.repo.SearchTransects(ctx, query, pickerLimit)
}

func (s *SurveyService) SearchOccurrences(ctx context.Context, query string) ([]domain.CompletedOccurrence, error) {
	return s.repo.SearchOccurrences(ctx, query, pickerLimit)
}

func (s *SurveyService) SearchTemplateTransects(ctx context.Context, query string) ([]domain.TemplateTransect, error) {
	return s.repo.SearchTemplateTransects(ctx, query, pickerLimit)
}

func (s *SurveyService) SearchTemplateWorkflows(ctx context.Context, query string) ([]domain.TemplateWorkflow, error) {
	return s.repo.SearchTemplateWorkflows(ctx, query, pickerLimit)
}

func (s *SurveyService) SearchDataTypes(ctx context.Context, query string) ([]domain.DataType, error) {
	return s.repo.SearchDataTypes(ctx, query, pickerLimit)
}

func (s *SurveyService) SearchDataLogFiles(ctx context.Context, query string) ([]domain.DataLogFile, error) {
	return s.repo.SearchDataLogFiles(ctx, query, pickerLimit)
}

func (s *SurveyService) EntityHistory(ctx context.Context, entity string, page int) ([]domain.HistoryEntry, int64, error) {
	items, err := s.repo.ListHistory(ctx, entity, PageSize, pageOffset(page))
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountHistory(ctx, entity)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *SurveyService) RecordHistory(ctx context.Context, entity, recordID string) ([]domain.HistoryEntry, error) {
	return s.repo.ListRecordHistory(ctx, entity, recordID, historyLimit)
}

// DashboardCounts fetches each metric safely: a failed count logs a
// warning and leaves its card blank instead of failing the page.
func (s *SurveyService) DashboardCounts(ctx context.Context) domain.DashboardCounts {
	counts := domain.DashboardCounts{
		Transects:   s.safeCount("transects", func() (int64, error) { return s.repo.CountTransects(ctx, domain.TransectFilter{}) }),
		Occurrences: s.safeCount("occurrences", func() (int64, error) { return s.repo.CountOccurrences(ctx, domain.OccurrenceFilter{}) }),
		Workflows:   s.safeCount("workflows", func() (int64, error) { return s.repo.CountWorkflows(ctx, domain.WorkflowFilter{}) }),
	}

	openWorkflows := s.safeCount("open workflows", func() (int64, error) { return s.repo.CountOpenWorkflows(ctx) })
	openOccurrences := s.safeCount("open occurrences", func() (int64, error) { return s.repo.CountOpenOccurrences(ctx) })
	if openWorkflows != nil || openOccurrences != nil {
		var outstanding int64
		if openWorkflows != nil {
			outstanding += *openWorkflows
		}
		if openOccurrences != nil {
			outstanding += *openOccurrences
		}
		counts.OutstandingTasks = &outstanding
	}

	counts.PendingAudits = s.safeCount("pending audits", func() (int64, error) { return s.repo.CountPendingAudits(ctx) })
	counts.HistoryEntries = s.safeCount("history entries", func() (int64, error) { return s.repo.CountHistory(ctx, "") })
	return counts
}

func (s *SurveyService) safeCount(name string, count func() (int64, error)) *int64 {
	value, err := count()
	if err != nil {
		s.logger.Warn("dashboard count failed", zap.String("metric", name), zap.Error(err))
		return nil
	}
	return &value
}

func (s *SurveyService) RecentTransects(ctx context.Context) []domain.CompletedTransect {
	items, err := s.repo.ListTransects(ctx, domain.TransectFilter{}, recentLimit, 0)
	if err != nil {
		s.logger.Warn("recent transects failed", zap.Error(err))
		return nil
	}
	return items
}

func (s *SurveyService) RecentOccurrences(ctx context.Context) []domain.CompletedOccurrence {
	items, err := s.repo.ListOccurrences(ctx, domain.OccurrenceFilter{}, recentLimit, 0)
	if err != nil {
		s.logger.Warn("recent occurrences failed", zap.Error(err))
		return nil
	}
	return items
}

func (s *SurveyService) RecentUploads(ctx context.Context) []domain.DataLogFile {
	items, err := s.repo.ListDataLogFiles(ctx, domain.DataLogFileFilter{}, recentLimit, 0)
	if err != nil {
		s.logger.Warn("recent uploads failed", zap.Error(err))
		return nil
	}
	return items
}

// MergedRecentHistory merges the audit feeds of the historised entities
// newest-first. The feed is all-or-nothing: when any single source fails
// the whole feed is dropped rather than shown silently partial, matching
// the upstream behaviour.
func (s *SurveyService) MergedRecentHistory(ctx context.Context, limit int) []domain.HistoryEntry {
	if limit <= 0 {
		limit = recentLimit
	}

	merged := make([]domain.HistoryEntry, 0, limit*4)
	for _, entity := range []string{domain.EntityTransect, domain.EntityOccurrence, domain.EntityWorkflow, domain.EntityQuestion} {
		entries, err := s.repo.ListHistory(ctx, entity, limit, 0)
		if err != nil {
			s.logger.Warn("history feed failed, dropping merged timeline", zap.String("entity", entity), zap.Error(err))
			return []domain.HistoryEntry{}
		}
		merged = append(merged, entries...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].ChangedAt.After(merged[j].ChangedAt)
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// WriteAudit never fails the caller; a lost audit row is logged and
// swallowed.
func (s *SurveyService) WriteAudit(ctx context.Context, identity domain.Identity, action, targetType, targetID string) {
	var actorID *uint
	if identity.User.ID != 0 {
		id := identity.User.ID
		actorID = &id
	}
	err := s.repo.CreateAuditLog(ctx, domain.AuditLog{
		ActorUserID: actorID,
		Action:      action,
		TargetType:  targetType,
		TargetID:    targetID,
	})
	if err != nil {
		s.logger.Warn("audit write failed", zap.String("action", action), zap.Error(err))
	}
}

func (s *SurveyService) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	return s.repo.ListAuditLogs(ctx, clampLimit(limit))
}
