package readmodel

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/karilint/bones/internal/domain"
	"github.com/karilint/bones/internal/routes"
)

// PageSize is the fixed row count per list page.
const PageSize = 25

// WindowLength is the compact paginator width.
const WindowLength = 3

// ListPage is the view model shared by every list template.
type ListPage struct {
	Title        string
	Icon         string
	Intro        string
	Table        Table
	Total        int64
	Page         int
	TotalPages   int
	WindowStart  int
	WindowEnd    int
	FilterActive bool
	FilterQuery  string
	FilterError  bool
}

func newListPage(title, icon, intro string, table Table, total int64, page int, params url.Values) ListPage {
	totalPages := int((total + PageSize - 1) / PageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	start, end := Window(totalPages, page, WindowLength)

	return ListPage{
		Title:        title,
		Icon:         icon,
		Intro:        intro,
		Table:        table,
		Total:        total,
		Page:         page,
		TotalPages:   totalPages,
		WindowStart:  start,
		WindowEnd:    end,
		FilterActive: FilterActive(params),
		FilterQuery:  FilterQuerystring(params),
	}
}

func uintKey(v uint) map[string]string {
	return map[string]string{"pk": strconv.FormatUint(uint64(v), 10)}
}

func stringKey(v string) map[string]string {
	return map[string]string{"pk": v}
}

func occurrenceTitle(number *int) string {
	if number == nil {
		return "Occurrence"
	}
	return fmt.Sprintf("Occurrence %d", *number)
}

func BuildTransectList(items []domain.CompletedTransect, total int64, page int, params url.Values) ListPage {
	historyURL := routes.Resolve("bones:history:transects", nil)
	rows := make([][]Cell, 0, len(items))
	for _, item := range items {
		rows = append(rows, []Cell{
			linkCell(FormatText(item.Name), routes.Resolve("bones:transects:detail", uintKey(item.UID))),
			textCell(FormatText(item.TemplateName)),
			textCell(FormatDateTime(item.StartTime)),
			textCell(FormatDateTime(item.EndTime)),
			textCell(FormatText(item.State)),
			centerCell(strconv.Itoa(item.OccurrenceCount)),
			actionCell(routes.Resolve("bones:transects:detail", uintKey(item.UID)), historyURL),
		})
	}

	table := Table{
		Headers: []string{"Transect", "Template", "Started", "Ended", "State", "Occurrences", "Actions"},
		Rows:    rows,
	}
	return newListPage(
		"Completed transects",
		"fa-solid fa-route",
		"Transects walked in the field, with their template, timing and audit state.",
		table, total, page, params,
	)
}

func BuildOccurrenceList(items []domain.CompletedOccurrence, total int64, page int, params url.Values) ListPage {
	historyURL := routes.Resolve("bones:history:occurrences", nil)
	rows := make([][]Cell, 0, len(items))
	for _, item := range items {
		transect := item.TransectName
		if transect != "" && item.TemplateName != "" {
			transect = fmt.Sprintf("%s (%s)", item.TransectName, item.TemplateName)
		}
		detailURL := routes.Resolve("bones:occurrences:detail", uintKey(item.ID))
		rows = append(rows, []Cell{
			linkCell(occurrenceTitle(item.OccurrenceNumber), detailURL),
			textCell(FormatText(transect)),
			textCell(FormatDateTime(item.RecordingStartTime)),
			textCell(FormatDateTime(item.RecordingEndTime)),
			textCell(FormatText(item.State)),
			centerCell(strconv.Itoa(item.ResponseCount)),
			actionCell(detailURL, historyURL),
		})
	}

	table := Table{
		Headers: []string{"Occurrence", "Transect", "Started", "Ended", "State", "Responses", "Actions"},
		Rows:    rows,
	}
	return newListPage(
		"Completed occurrences",
		"fa-solid fa-frog",
		"Animal observations recorded during transects, with their response counts.",
		table, total, page, params,
	)
}

func BuildWorkflowList(items []domain.CompletedWorkflow, total int64, page int, params url.Values) ListPage {
	historyURL := routes.Resolve("bones:history:workflows", nil)
	rows := make([][]Cell, 0, len(items))
	for _, item := range items {
		occurrence := EmDash
		if item.OccurrenceNumber != nil {
			if item.TransectName != "" {
				occurrence = fmt.Sprintf("Occurrence %d – %s", *item.OccurrenceNumber, item.TransectName)
			} else {
				occurrence = fmt.Sprintf("Occurrence %d", *item.OccurrenceNumber)
			}
		}
		detailURL := routes.Resolve("bones:workflows:detail", stringKey(item.UID))
		rows = append(rows, []Cell{
			linkCell(FormatText(item.TemplateWorkflowName), detailURL),
			textCell(occurrence),
			textCell(FormatText(item.CompletedBy)),
			textCell(FormatInt(item.InstanceNumber)),
			actionCell(detailURL, historyURL),
		})
	}

	table := Table{
		Headers: []string{"Template workflow", "Occurrence", "Completed by", "Instance", "Actions"},
		Rows:    rows,
	}
	return newListPage(
		"Completed workflows",
		"fa-solid fa-diagram-project",
		"Question workflows completed against occurrences, grouped by instance.",
		table, total, page, params,
	)
}

func BuildTemplateTransectList(items []domain.TemplateTransect, total int64, page int, params url.Values) ListPage {
	historyURL := routes.Resolve("bones:history:templates", nil)
	rows := make([][]Cell, 0, len(items))
	for _, item := range items {
		detailURL := routes.Resolve("bones:templates:detail", stringKey(item.ID))
		rows = append(rows, []Cell{
			linkCell(FormatText(item.Name), detailURL),
			textCell(FormatDateTime(item.ScheduledTime)),
			textCell(FormatFloat(item.DistanceKM)),
			textCell(FormatBool(item.OpenEnded)),
			textCell(FormatBool(item.CreatedDynamically)),
			actionCell(detailURL, historyURL),
		})
	}

	table := Table{
		Headers: []string{"Template", "Scheduled time", "Distance (km)", "Open ended", "Dynamic", "Actions"},
		Rows:    rows,
	}
	return newListPage(
		"Template transects",
		"fa-solid fa-layer-group",
		"Planned transect definitions handed to the field capture application.",
		table, total, page, params,
	)
}

func BuildQuestionList(items []domain.Question, total int64, page int, params url.Values) ListPage {
	historyURL := routes.Resolve("bones:history:questions", nil)
	rows := make([][]Cell, 0, len(items))
	for _, item := range items {
		detailURL := routes.Resolve("bones:templates:question_detail", stringKey(item.ID))
		rows = append(rows, []Cell{
			linkCell(FormatText(item.Prompt), detailURL),
			textCell(FormatText(item.WorkflowName)),
			textCell(FormatText(item.DataTypeLabel)),
			textCell(FormatText(item.DataTypeName)),
			actionCell(detailURL, historyURL),
		})
	}

	table := Table{
		Headers: []string{"Prompt", "Workflow", "Data type", "Data type name", "Actions"},
		Rows:    rows,
	}
	return newListPage(
		"Questions",
		"fa-solid fa-circle-question",
		"Questions asked by template workflows and the data types they expect.",
		table, total, page, params,
	)
}

func BuildDataTypeList(items []domain.DataType, total int64, page int, params url.Values) ListPage {
	historyURL := routes.Resolve("bones:history:data_types", nil)
	rows := make([][]Cell, 0, len(items))
	for _, item := range items {
		detailURL := routes.Resolve("bones:reference:data_type_detail", stringKey(item.ID))
		rows = append(rows, []Cell{
			linkCell(FormatText(item.Name), detailURL),
			textCell(FormatText(item.ID)),
			textCell(FormatBool(item.IsUserDataType)),
			centerCell(strconv.Itoa(item.OptionCount)),
			actionCell(detailURL, historyURL),
		})
	}

	table := Table{
		Headers: []string{"Data type", "Identifier", "User data type", "Options", "Actions"},
		Rows:    rows,
	}
	return newListPage(
		"Data types",
		"fa-solid fa-database",
		"Reference data types backing question responses.",
		table, total, page, params,
	)
}

func BuildDataTypeOptionList(items []domain.DataTypeOption, total int64, page int, params url.Values) ListPage {
	historyURL := routes.Resolve("bones:history:data_type_options", nil)
	rows := make([][]Cell, 0, len(items))
	for _, item := range items {
		detailURL := routes.Resolve("bones:reference:data_type_option_detail", uintKey(item.ID))
		rows = append(rows, []Cell{
			textCell(FormatText(item.DataTypeName)),
			linkCell(FormatText(item.Code), detailURL),
			textCell(FormatText(item.Text)),
			actionCell(detailURL, historyURL),
		})
	}

	table := Table{
		Headers: []string{"Data type", "Code", "Text", "Actions"},
		Rows:    rows,
	}
	return newListPage(
		"Data type options",
		"fa-solid fa-list-check",
		"Selectable options for choice-based data types.",
		table, total, page, params,
	)
}

func BuildProjectConfigList(items []domain.ProjectConfig, total int64, page int, params url.Values) ListPage {
	historyURL := routes.Resolve("bones:history:project_configs", nil)
	rows := make([][]Cell, 0, len(items))
	for _, item := range items {
		detailURL := routes.Resolve("bones:reference:project_config_detail", uintKey(item.ID))
		rows = append(rows, []Cell{
			linkCell(FormatText(item.Project), detailURL),
			textCell(FormatDateTime(item.PublishDate)),
			textCell(FormatText(item.ConfigFolder)),
			actionCell(detailURL, historyURL),
		})
	}

	table := Table{
		Headers: []string{"Project", "Publish date", "Config folder", "Actions"},
		Rows:    rows,
	}
	return newListPage(
		"Project configuration",
		"fa-solid fa-gear",
		"Published configuration bundles consumed by the capture application.",
		table, total, page, params,
	)
}

func BuildDataLogFileList(items []domain.DataLogFile, total int64, page int, params url.Values) ListPage {
	historyURL := routes.Resolve("bones:history:data_logs", nil)
	rows := make([][]Cell, 0, len(items))
	for _, item := range items {
		detailURL := routes.Resolve("bones:logs:detail", uintKey(item.ID))
		rows = append(rows, []Cell{
			linkCell(fmt.Sprintf("Log file %d", item.ID), detailURL),
			textCell(FormatDateTime(item.UploadDate)),
			textCell(FormatText(item.UploadedBy)),
			actionCell(detailURL, historyURL),
		})
	}

	table := Table{
		Headers: []string{"Log file", "Uploaded", "Uploaded by", "Actions"},
		Rows:    rows,
	}
	return newListPage(
		"Data log files",
		"fa-solid fa-file-arrow-down",
		"Raw device logs uploaded from the field.",
		table, total, page, params,
	)
}
