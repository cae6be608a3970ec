package domain

import "time"

// Filter structs hold only the predicates that parsed successfully; zero
// values mean "no constraint".

type TransectFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	State      string
	TemplateID string
}

type OccurrenceFilter struct {
	StartDate        *time.Time
	EndDate          *time.Time
	State            string
	TransectUID      *uint
	OccurrenceNumber *int
}

type WorkflowFilter struct {
	OccurrenceID       *uint
	TemplateWorkflowID string
	CompletedBy        string
	InstanceNumber     *int
}

type TemplateTransectFilter struct {
	ScheduledAfter  *time.Time
	ScheduledBefore *time.Time
	Name            string
}

type QuestionFilter struct {
	WorkflowID   string
	DataTypeID   string
	Prompt       string
	DataTypeName string
}

type DataTypeFilter struct {
	Name           string
	IsUserDataType *bool
}

type DataTypeOptionFilter struct {
	DataTypeID string
	Code       string
	Text       string
}

type ProjectConfigFilter struct {
	PublishedAfter  *time.Time
	PublishedBefore *time.Time
	Project         string
}

type DataLogFileFilter struct {
	UploadedAfter  *time.Time
	UploadedBefore *time.Time
	UploadedBy     string
}
