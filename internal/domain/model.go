package domain

import "time"

// CompletedTransect is one finished field-survey walk. TemplateName and
// OccurrenceCount are filled by list queries joining the template and
// occurrence tables.
type CompletedTransect struct {
	UID              uint
	Name             string
	StartTime        *time.Time
	TurnTime         *time.Time
	EndTime          *time.Time
	LatFrom          *float64
	LongFrom         *float64
	LatTurn          *float64
	LongTurn         *float64
	LatTo            *float64
	LongTo           *float64
	DistanceKM       *float64
	AngleDegrees     *float64
	State            string
	TemplateID       *string
	PausedForMinutes *int
	TemplateName     string
	OccurrenceCount  int
}

// TransectDetail is one pre/post-survey question row attached to a transect.
type TransectDetail struct {
	ID           uint
	TransectUID  uint
	PreOrPost    string
	QuestionText string
	Response     string
}

// TransectTrackPoint is one GPS sample recorded while walking a transect.
type TransectTrackPoint struct {
	ID           uint
	TransectUID  uint
	Time         *time.Time
	Lat          *float64
	Long         *float64
	IsStart      bool
	IsCheckpoint bool
	IsOccurrence bool
	IsTurnPoint  bool
	IsEnd        bool
}

// CompletedOccurrence is a single animal observation made during a transect.
type CompletedOccurrence struct {
	ID                 uint
	TransectUID        *uint
	OccurrenceNumber   *int
	RecordingStartTime *time.Time
	RecordingEndTime   *time.Time
	Lat                *float64
	Long               *float64
	Note               string
	State              string
	TransectName       string
	TemplateName       string
	ResponseCount      int
	WorkflowCount      int
}

// OccurrenceDetail is one follow-up question row attached to an occurrence.
type OccurrenceDetail struct {
	ID           uint
	OccurrenceID uint
	PreOrPost    string
	QuestionText string
	Response     string
}

// CompletedWorkflow records one run of a template workflow during an
// occurrence.
type CompletedWorkflow struct {
	UID                  string
	OccurrenceID         *uint
	TemplateWorkflowID   *string
	InstanceNumber       *int
	CompletedBy          string
	TemplateWorkflowName string
	OccurrenceNumber     *int
	TransectName         string
}

// CompletedResponse is one answered (or skipped) question within a workflow.
type CompletedResponse struct {
	ID             uint
	OccurrenceID   *uint
	WorkflowUID    *string
	QuestionNumber *int
	QuestionText   string
	ResponseCode   string
	Response       string
	Skipped        bool
	QuestionID     *string
}

// TemplateTransect is a planned transect definition.
type TemplateTransect struct {
	ID                 string
	Name               string
	ScheduledTime      *time.Time
	Coordinates        string
	OpenEnded          *bool
	DistanceKM         *float64
	AngleDegrees       *float64
	Note               string
	CreatedDynamically *bool
}

// TemplateWorkflow is a reusable question-flow definition.
type TemplateWorkflow struct {
	ID        string
	Name      string
	DateAdded *time.Time
	AddedBy   string
}

// Question belongs to a template workflow and maps to a data type.
// DataTypeLabel and WorkflowName come from list joins.
type Question struct {
	ID            string
	Prompt        string
	DataTypeID    *string
	DataTypeName  string
	WorkflowID    *string
	DataTypeLabel string
	WorkflowName  string
}

type DataType struct {
	ID             string
	Name           string
	IsUserDataType *bool
	CSharpType     string
	OptionCount    int
	QuestionCount  int
}

type DataTypeOption struct {
	ID           uint
	DataTypeID   *string
	Code         string
	Text         string
	DataTypeName string
}

type ProjectConfig struct {
	ID            uint
	PublishDate   *time.Time
	Project       string
	ConfigFolder  string
	ConfigFile    string
	Image         string
	TransectsFile string
}

type DataLogFile struct {
	ID         uint
	UploadDate *time.Time
	UploadedBy string
	Contents   string
}

// TransectDataLog links an uploaded log file to the transect it covers.
type TransectDataLog struct {
	ID            uint
	DataLogFileID *uint
	TransectUID   *uint
	IsPrimary     *bool
	Username      string
}

// History entity keys, shared by storage, routes and the merged feed.
const (
	EntityTransect       = "transect"
	EntityOccurrence     = "occurrence"
	EntityWorkflow       = "workflow"
	EntityQuestion       = "question"
	EntityDataType       = "data_type"
	EntityDataTypeOption = "data_type_option"
	EntityTemplate       = "template"
	EntityProjectConfig  = "project_config"
	EntityDataLog        = "data_log"
)

// History change kinds, matching the +/~/- convention of the upstream
// capture pipeline's audit rows.
const (
	HistoryCreated = "+"
	HistoryChanged = "~"
	HistoryDeleted = "-"
)

// HistoryEntry is one audited change to a survey record.
type HistoryEntry struct {
	ID         uint
	Entity     string
	RecordID   string
	Label      string
	ChangeType string
	ChangedBy  string
	ChangedAt  time.Time
}

type User struct {
	ID           uint
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type AuthSession struct {
	ID        uint
	UserID    uint
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type APIToken struct {
	ID        uint
	UserID    uint
	Name      string
	TokenHash string
	ExpiresAt *time.Time
	CreatedAt time.Time
}

type AuditLog struct {
	ID          uint
	ActorUserID *uint
	Action      string
	TargetType  string
	TargetID    string
	Metadata    string
	CreatedAt   time.Time
}

// Identity is the authenticated caller attached to request contexts.
type Identity struct {
	User User
}

// DashboardCounts carries the safe metric-card counts. A nil pointer means
// the underlying count query failed and the card shows a placeholder.
type DashboardCounts struct {
	Transects        *int64
	Occurrences      *int64
	Workflows        *int64
	OutstandingTasks *int64
	PendingAudits    *int64
	HistoryEntries   *int64
}
