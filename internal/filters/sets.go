package filters

import (
	"net/url"

	"github.com/karilint/bones/internal/domain"
)

func init() {
	register(Set{Entity: "transects", Fields: []Field{
		{Name: "start_date", Label: "Started on or after", Kind: "date"},
		{Name: "end_date", Label: "Ended on or before", Kind: "date"},
		{Name: "state", Label: "State", Kind: "choice"},
		{Name: "transect_template", Label: "Template transect", Kind: "picker", Placeholder: "Search template transects"},
	}})
	register(Set{Entity: "occurrences", Fields: []Field{
		{Name: "start_date", Label: "Recording started on or after", Kind: "date"},
		{Name: "end_date", Label: "Recording ended on or before", Kind: "date"},
		{Name: "state", Label: "State", Kind: "choice"},
		{Name: "transect", Label: "Transect", Kind: "picker", Placeholder: "Search completed transects"},
		{Name: "occurrence_number", Label: "Occurrence number", Kind: "number"},
	}})
	register(Set{Entity: "workflows", Fields: []Field{
		{Name: "occurrence", Label: "Occurrence", Kind: "picker", Placeholder: "Search occurrences"},
		{Name: "template_workflow", Label: "Template workflow", Kind: "picker", Placeholder: "Search template workflows"},
		{Name: "completed_by", Label: "Completed by", Kind: "text"},
		{Name: "instance_number", Label: "Instance number", Kind: "number"},
	}})
	register(Set{Entity: "templates", Fields: []Field{
		{Name: "scheduled_after", Label: "Scheduled on or after", Kind: "date"},
		{Name: "scheduled_before", Label: "Scheduled on or before", Kind: "date"},
		{Name: "name", Label: "Name contains", Kind: "text"},
	}})
	register(Set{Entity: "questions", Fields: []Field{
		{Name: "workflow", Label: "Workflow", Kind: "picker", Placeholder: "Search template workflows"},
		{Name: "data_type", Label: "Data type", Kind: "picker", Placeholder: "Search data types"},
		{Name: "prompt", Label: "Prompt contains", Kind: "text"},
		{Name: "data_type_name", Label: "Data type name contains", Kind: "text"},
	}})
	register(Set{Entity: "data_types", Fields: []Field{
		{Name: "name", Label: "Name contains", Kind: "text"},
		{Name: "is_user_data_type", Label: "User data type", Kind: "choice", Choices: []Choice{
			{Value: "", Label: "All"},
			{Value: "true", Label: "Yes"},
			{Value: "false", Label: "No"},
		}},
	}})
	register(Set{Entity: "data_type_options", Fields: []Field{
		{Name: "data_type", Label: "Data type", Kind: "picker", Placeholder: "Search data types"},
		{Name: "code", Label: "Code contains", Kind: "text"},
		{Name: "text", Label: "Text contains", Kind: "text"},
	}})
	register(Set{Entity: "project_configs", Fields: []Field{
		{Name: "published_after", Label: "Published on or after", Kind: "date"},
		{Name: "published_before", Label: "Published on or before", Kind: "date"},
		{Name: "project", Label: "Project contains", Kind: "text"},
	}})
	register(Set{Entity: "data_logs", Fields: []Field{
		{Name: "uploaded_after", Label: "Uploaded on or after", Kind: "date"},
		{Name: "uploaded_before", Label: "Uploaded on or before", Kind: "date"},
		{Name: "uploaded_by", Label: "Uploaded by contains", Kind: "text"},
	}})
}

// ParseTransectFilter validates the state value against the available
// choices; everything unparsable is dropped.
func ParseTransectFilter(params url.Values, states []Choice) domain.TransectFilter {
	filter := domain.TransectFilter{
		State:      matchChoice(params.Get("state"), states),
		TemplateID: params.Get("transect_template"),
	}
	if raw := params.Get("start_date"); raw != "" {
		filter.StartDate = parseDate(raw)
	}
	if raw := params.Get("end_date"); raw != "" {
		filter.EndDate = parseDate(raw)
	}
	return filter
}

func ParseOccurrenceFilter(params url.Values, states []Choice) domain.OccurrenceFilter {
	filter := domain.OccurrenceFilter{
		State: matchChoice(params.Get("state"), states),
	}
	if raw := params.Get("start_date"); raw != "" {
		filter.StartDate = parseDate(raw)
	}
	if raw := params.Get("end_date"); raw != "" {
		filter.EndDate = parseDate(raw)
	}
	if raw := params.Get("transect"); raw != "" {
		filter.TransectUID = parseUint(raw)
	}
	if raw := params.Get("occurrence_number"); raw != "" {
		filter.OccurrenceNumber = parseInt(raw)
	}
	return filter
}

func ParseWorkflowFilter(params url.Values) domain.WorkflowFilter {
	filter := domain.WorkflowFilter{
		TemplateWorkflowID: params.Get("template_workflow"),
		CompletedBy:        params.Get("completed_by"),
	}
	if raw := params.Get("occurrence"); raw != "" {
		filter.OccurrenceID = parseUint(raw)
	}
	if raw := params.Get("instance_number"); raw != "" {
		filter.InstanceNumber = parseInt(raw)
	}
	return filter
}

func ParseTemplateTransectFilter(params url.Values) domain.TemplateTransectFilter {
	filter := domain.TemplateTransectFilter{
		Name: params.Get("name"),
	}
	if raw := params.Get("scheduled_after"); raw != "" {
		filter.ScheduledAfter = parseDate(raw)
	}
	if raw := params.Get("scheduled_before"); raw != "" {
		filter.ScheduledBefore = parseDate(raw)
	}
	return filter
}

func ParseQuestionFilter(params url.Values) domain.QuestionFilter {
	return domain.QuestionFilter{
		WorkflowID:   params.Get("workflow"),
		DataTypeID:   params.Get("data_type"),
		Prompt:       params.Get("prompt"),
		DataTypeName: params.Get("data_type_name"),
	}
}

func ParseDataTypeFilter(params url.Values) domain.DataTypeFilter {
	filter := domain.DataTypeFilter{
		Name: params.Get("name"),
	}
	if raw := params.Get("is_user_data_type"); raw != "" {
		filter.IsUserDataType = parseBool(raw)
	}
	return filter
}

func ParseDataTypeOptionFilter(params url.Values) domain.DataTypeOptionFilter {
	return domain.DataTypeOptionFilter{
		DataTypeID: params.Get("data_type"),
		Code:       params.Get("code"),
		Text:       params.Get("text"),
	}
}

func ParseProjectConfigFilter(params url.Values) domain.ProjectConfigFilter {
	filter := domain.ProjectConfigFilter{
		Project: params.Get("project"),
	}
	if raw := params.Get("published_after"); raw != "" {
		filter.PublishedAfter = parseDate(raw)
	}
	if raw := params.Get("published_before"); raw != "" {
		filter.PublishedBefore = parseDate(raw)
	}
	return filter
}

func ParseDataLogFileFilter(params url.Values) domain.DataLogFileFilter {
	filter := domain.DataLogFileFilter{
		UploadedBy: params.Get("uploaded_by"),
	}
	if raw := params.Get("uploaded_after"); raw != "" {
		filter.UploadedAfter = parseDate(raw)
	}
	if raw := params.Get("uploaded_before"); raw != "" {
		filter.UploadedBefore = parseDate(raw)
	}
	return filter
}
