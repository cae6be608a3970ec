package domain

import "context"

type SurveyRepository interface {
	ListTransects(ctx context.Context, filter TransectFilter, limit, offset int) ([]CompletedTransect, error)
	CountTransects(ctx context.Context, filter TransectFilter) (int64, error)
	GetTransect(ctx context.Context, uid uint) (CompletedTransect, error)
	SaveTransect(ctx context.Context, value CompletedTransect, actor string) (CompletedTransect, error)
	ListTransectDetails(ctx context.Context, uid uint) ([]TransectDetail, error)
	ListTrackPoints(ctx context.Context, uid uint) ([]TransectTrackPoint, error)
	ListTransectOccurrences(ctx context.Context, uid uint) ([]CompletedOccurrence, error)
	TransectStates(ctx context.Context) ([]string, error)
	SearchTransects(ctx context.Context, query string, limit int) ([]CompletedTransect, error)
	CountPendingAudits(ctx context.Context) (int64, error)

	ListOccurrences(ctx context.Context, filter OccurrenceFilter, limit, offset int) ([]CompletedOccurrence, error)
	CountOccurrences(ctx context.Context, filter OccurrenceFilter) (int64, error)
	GetOccurrence(ctx context.Context, id uint) (CompletedOccurrence, error)
	SaveOccurrence(ctx context.Context, value CompletedOccurrence, actor string) (CompletedOccurrence, error)
	ListOccurrenceDetails(ctx context.Context, id uint) ([]OccurrenceDetail, error)
	ListOccurrenceResponses(ctx context.Context, id uint) ([]CompletedResponse, error)
	ListOccurrenceWorkflows(ctx context.Context, id uint) ([]CompletedWorkflow, error)
	OccurrenceStates(ctx context.Context) ([]string, error)
	SearchOccurrences(ctx context.Context, query string, limit int) ([]CompletedOccurrence, error)
	CountOpenOccurrences(ctx context.Context) (int64, error)

	ListWorkflows(ctx context.Context, filter WorkflowFilter, limit, offset int) ([]CompletedWorkflow, error)
	CountWorkflows(ctx context.Context, filter WorkflowFilter) (int64, error)
	GetWorkflow(ctx context.Context, uid string) (CompletedWorkflow, error)
	CountOpenWorkflows(ctx context.Context) (int64, error)

	ListTemplateTransects(ctx context.Context, filter TemplateTransectFilter, limit, offset int) ([]TemplateTransect, error)
	CountTemplateTransects(ctx context.Context, filter TemplateTransectFilter) (int64, error)
	GetTemplateTransect(ctx context.Context, id string) (TemplateTransect, error)
	SearchTemplateTransects(ctx context.Context, query string, limit int) ([]TemplateTransect, error)
	SearchTemplateWorkflows(ctx context.Context, query string, limit int) ([]TemplateWorkflow, error)

	ListQuestions(ctx context.Context, filter QuestionFilter, limit, offset int) ([]Question, error)
	CountQuestions(ctx context.Context, filter QuestionFilter) (int64, error)
	GetQuestion(ctx context.Context, id string) (Question, error)
	SaveQuestion(ctx context.Context, value Question, actor string) (Question, error)

	ListDataTypes(ctx context.Context, filter DataTypeFilter, limit, offset int) ([]DataType, error)
	CountDataTypes(ctx context.Context, filter DataTypeFilter) (int64, error)
	GetDataType(ctx context.Context, id string) (DataType, error)
	SaveDataType(ctx context.Context, value DataType, actor string) (DataType, error)
	SearchDataTypes(ctx context.Context, query string, limit int) ([]DataType, error)

	ListDataTypeOptions(ctx context.Context, filter DataTypeOptionFilter, limit, offset int) ([]DataTypeOption, error)
	CountDataTypeOptions(ctx context.Context, filter DataTypeOptionFilter) (int64, error)
	GetDataTypeOption(ctx context.Context, id uint) (DataTypeOption, error)

	ListProjectConfigs(ctx context.Context, filter ProjectConfigFilter, limit, offset int) ([]ProjectConfig, error)
	CountProjectConfigs(ctx context.Context, filter ProjectConfigFilter) (int64, error)
	GetProjectConfig(ctx context.Context, id uint) (ProjectConfig, error)
	SaveProjectConfig(ctx context.Context, value ProjectConfig, actor string) (ProjectConfig, error)

	ListDataLogFiles(ctx context.Context, filter DataLogFileFilter, limit, offset int) ([]DataLogFile, error)
	CountDataLogFiles(ctx context.Context, filter DataLogFileFilter) (int64, error)
	GetDataLogFile(ctx context.Context, id uint) (DataLogFile, error)
	SaveDataLogFile(ctx context.Context, value DataLogFile, actor string) (DataLogFile, error)
	ListTransectDataLogs(ctx context.Context, dataLogFileID uint) ([]TransectDataLog, error)
	SearchDataLogFiles(ctx context.Context, query string, limit int) ([]DataLogFile, error)

	ListHistory(ctx context.Context, entity string, limit, offset int) ([]HistoryEntry, error)
	CountHistory(ctx context.Context, entity string) (int64, error)
	ListRecordHistory(ctx context.Context, entity, recordID string, limit int) ([]HistoryEntry, error)
	WriteHistory(ctx context.Context, value HistoryEntry) error

	CreateUser(ctx context.Context, value User) (User, error)
	CountUsers(ctx context.Context) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id uint) (User, error)
	CreateSession(ctx context.Context, value AuthSession) (AuthSession, error)
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (AuthSession, error)
	DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error
	CreateAPIToken(ctx context.Context, value APIToken) (APIToken, error)
	GetAPITokenByTokenHash(ctx context.Context, tokenHash string) (APIToken, error)
	CreateAuditLog(ctx context.Context, value AuditLog) error
	ListAuditLogs(ctx context.Context, limit int) ([]AuditLog, error)
}
