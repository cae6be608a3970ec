package sqlite

import "time"

type TransectModel struct {
	UID              uint   `gorm:"primaryKey;column:uid"`
	Name             string `gorm:"not null;index"`
	StartTime        *time.Time
	TurnTime         *time.Time
	EndTime          *time.Time
	LatFrom          *float64
	LongFrom         *float64
	LatTurn          *float64
	LongTurn         *float64
	LatTo            *float64
	LongTo           *float64
	DistanceKM       *float64 `gorm:"column:distance_km"`
	AngleDegrees     *float64
	State            string  `gorm:"not null;default:'';index"`
	TemplateID       *string `gorm:"size:36;index"`
	PausedForMinutes *int
}

func (TransectModel) TableName() string { return "completed_transects" }

type TransectDetailModel struct {
	ID           uint   `gorm:"primaryKey"`
	TransectUID  uint   `gorm:"not null;index;column:transect_uid"`
	PreOrPost    string `gorm:"not null;default:''"`
	QuestionText string
	Response     string
}

func (TransectDetailModel) TableName() string { return "completed_transect_details" }

type TrackPointModel struct {
	ID           uint `gorm:"primaryKey"`
	TransectUID  uint `gorm:"not null;index;column:transect_uid"`
	Time         *time.Time
	Lat          *float64
	Long         *float64
	IsStart      bool `gorm:"not null;default:false"`
	IsCheckpoint bool `gorm:"not null;default:false"`
	IsOccurrence bool `gorm:"not null;default:false"`
	IsTurnPoint  bool `gorm:"not null;default:false"`
	IsEnd        bool `gorm:"not null;default:false"`
}

func (TrackPointModel) TableName() string { return "completed_transect_track_points" }

type OccurrenceModel struct {
	ID                 uint  `gorm:"primaryKey"`
	TransectUID        *uint `gorm:"index;column:transect_uid"`
	OccurrenceNumber   *int
	RecordingStartTime *time.Time
	RecordingEndTime   *time.Time
	Lat                *float64
	Long               *float64
	Note               string
	State              string `gorm:"not null;default:'';index"`
}

func (OccurrenceModel) TableName() string { return "completed_occurrences" }

type OccurrenceDetailModel struct {
	ID           uint   `gorm:"primaryKey"`
	OccurrenceID uint   `gorm:"not null;index"`
	PreOrPost    string `gorm:"not null;default:''"`
	QuestionText string
	Response     string
}

func (OccurrenceDetailModel) TableName() string { return "completed_occurrence_details" }

type WorkflowModel struct {
	UID                string  `gorm:"primaryKey;size:36;column:uid"`
	OccurrenceID       *uint   `gorm:"index"`
	TemplateWorkflowID *string `gorm:"size:36;index"`
	InstanceNumber     *int
	CompletedBy        string
}

func (WorkflowModel) TableName() string { return "completed_workflows" }

type ResponseModel struct {
	ID             uint    `gorm:"primaryKey"`
	OccurrenceID   *uint   `gorm:"index"`
	WorkflowUID    *string `gorm:"size:36;index;column:workflow_uid"`
	QuestionNumber *int
	QuestionText   string
	ResponseCode   string
	Response       string
	Skipped        bool    `gorm:"not null;default:false"`
	QuestionID     *string `gorm:"size:36"`
}

func (ResponseModel) TableName() string { return "completed_responses" }

type TemplateTransectModel struct {
	ID                 string `gorm:"primaryKey;size:36"`
	Name               string `gorm:"not null;index"`
	ScheduledTime      *time.Time
	Coordinates        string
	OpenEnded          *bool
	DistanceKM         *float64 `gorm:"column:distance_km"`
	AngleDegrees       *float64
	Note               string
	CreatedDynamically *bool
}

func (TemplateTransectModel) TableName() string { return "template_transects" }

type TemplateWorkflowModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"not null;index"`
	DateAdded *time.Time
	AddedBy   string
}

func (TemplateWorkflowModel) TableName() string { return "template_workflows" }

type QuestionModel struct {
	ID           string  `gorm:"primaryKey;size:36"`
	Prompt       string  `gorm:"not null"`
	DataTypeID   *string `gorm:"size:36;index"`
	DataTypeName string
	WorkflowID   *string `gorm:"size:36;index"`
}

func (QuestionModel) TableName() string { return "questions" }

type DataTypeModel struct {
	ID             string `gorm:"primaryKey;size:36"`
	Name           string `gorm:"not null;index"`
	IsUserDataType *bool
	CSharpType     string `gorm:"column:csharp_type"`
}

func (DataTypeModel) TableName() string { return "data_types" }

type DataTypeOptionModel struct {
	ID         uint    `gorm:"primaryKey"`
	DataTypeID *string `gorm:"size:36;index"`
	Code       string  `gorm:"not null"`
	Text       string
}

func (DataTypeOptionModel) TableName() string { return "data_type_options" }

type ProjectConfigModel struct {
	ID            uint `gorm:"primaryKey"`
	PublishDate   *time.Time
	Project       string `gorm:"index"`
	ConfigFolder  string
	ConfigFile    string
	Image         string
	TransectsFile string
}

func (ProjectConfigModel) TableName() string { return "project_configs" }

type DataLogFileModel struct {
	ID         uint `gorm:"primaryKey"`
	UploadDate *time.Time
	UploadedBy string `gorm:"index"`
	Contents   string
}

func (DataLogFileModel) TableName() string { return "data_log_files" }

type TransectDataLogModel struct {
	ID            uint  `gorm:"primaryKey"`
	DataLogFileID *uint `gorm:"index"`
	TransectUID   *uint `gorm:"index;column:transect_uid"`
	IsPrimary     *bool
	Username      string
}

func (TransectDataLogModel) TableName() string { return "transect_data_logs" }

// HistoryModel is the audit shadow row written alongside every survey write.
type HistoryModel struct {
	ID         uint   `gorm:"primaryKey"`
	Entity     string `gorm:"not null;index:idx_history_entity_record"`
	RecordID   string `gorm:"not null;index:idx_history_entity_record"`
	Label      string
	ChangeType string `gorm:"not null;size:1"`
	ChangedBy  string
	ChangedAt  time.Time `gorm:"not null;index"`
}

func (HistoryModel) TableName() string { return "record_history" }

type UserModel struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserModel) TableName() string { return "users" }

type SessionModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	TokenHash string `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (SessionModel) TableName() string { return "sessions" }

type APITokenModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	Name      string `gorm:"not null"`
	TokenHash string `gorm:"not null;uniqueIndex"`
	ExpiresAt *time.Time
	CreatedAt time.Time
}

func (APITokenModel) TableName() string { return "api_tokens" }

type AuditLogModel struct {
	ID          uint `gorm:"primaryKey"`
	ActorUserID *uint
	Action      string `gorm:"not null;index"`
	TargetType  string `gorm:"not null;index"`
	TargetID    string
	Metadata    string
	CreatedAt   time.Time
}

func (AuditLogModel) TableName() string { return "audit_logs" }
