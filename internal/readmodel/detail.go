package readmodel

import (
	"fmt"

	"github.com/karilint/bones/internal/domain"
	"github.com/karilint/bones/internal/routes"
)

type Breadcrumb struct {
	Label string
	URL   string
}

type Item struct {
	Label string
	Value string
	Pre   bool
}

type Section struct {
	Title string
	Icon  string
	Items []Item
}

type Tab struct {
	Key    string
	Label  string
	Active bool
}

// RelatedTable is a titled table shown on the related tab.
type RelatedTable struct {
	Title string
	Table Table
}

// DetailPage is the view model shared by detail and master-detail
// templates.
type DetailPage struct {
	Title        string
	Breadcrumbs  []Breadcrumb
	Sections     []Section
	Tabs         []Tab
	Actions      []Link
	Related      []RelatedTable
	Instances    []InstanceSummary
	History      Table
	HistoryError bool
}

// breadcrumbs builds the fixed Dashboard / list / title trail. The final
// crumb never links anywhere.
func breadcrumbs(listLabel, listRoute, title string) []Breadcrumb {
	return []Breadcrumb{
		{Label: "Dashboard", URL: routes.Resolve("bones:dashboard", nil)},
		{Label: listLabel, URL: routes.Resolve(listRoute, nil)},
		{Label: title},
	}
}

// detailTabs returns the fixed tab strip with only the first tab active.
func detailTabs() []Tab {
	return []Tab{
		{Key: "overview", Label: "Overview", Active: true},
		{Key: "related", Label: "Related"},
		{Key: "history", Label: "History"},
	}
}

func changeTypeLabel(changeType string) string {
	switch changeType {
	case domain.HistoryCreated:
		return "Created"
	case domain.HistoryChanged:
		return "Changed"
	case domain.HistoryDeleted:
		return "Deleted"
	}
	return FormatText(changeType)
}

// BuildHistoryTable shapes audit rows into the shared history table.
func BuildHistoryTable(entries []domain.HistoryEntry) Table {
	rows := make([][]Cell, 0, len(entries))
	for _, entry := range entries {
		when := entry.ChangedAt
		rows = append(rows, []Cell{
			textCell(FormatDateTime(&when)),
			textCell(changeTypeLabel(entry.ChangeType)),
			textCell(FormatText(entry.Label)),
			textCell(FormatText(entry.ChangedBy)),
		})
	}
	return Table{
		Headers: []string{"Changed", "Change", "Record", "Changed by"},
		Rows:    rows,
	}
}

func BuildDataLogFileDetail(file domain.DataLogFile, logs []domain.TransectDataLog, history []domain.HistoryEntry, historyErr bool) DetailPage {
	title := fmt.Sprintf("Log file %d", file.ID)

	logRows := make([][]Cell, 0, len(logs))
	for _, log := range logs {
		transect := EmDash
		transectURL := ""
		if log.TransectUID != nil {
			transect = fmt.Sprintf("Transect %d", *log.TransectUID)
			transectURL = routes.Resolve("bones:transects:detail", uintKey(*log.TransectUID))
		}
		logRows = append(logRows, []Cell{
			linkCell(transect, transectURL),
			textCell(FormatBool(log.IsPrimary)),
			textCell(FormatText(log.Username)),
		})
	}

	return DetailPage{
		Title:       title,
		Breadcrumbs: breadcrumbs("Data logs", "bones:logs:list", title),
		Sections: []Section{
			{
				Title: "File metadata",
				Icon:  "fa-solid fa-file-arrow-down",
				Items: []Item{
					{Label: "Identifier", Value: fmt.Sprintf("%d", file.ID)},
					{Label: "Uploaded", Value: FormatDateTime(file.UploadDate)},
					{Label: "Uploaded by", Value: FormatText(file.UploadedBy)},
				},
			},
			{
				Title: "Contents",
				Icon:  "fa-solid fa-file-lines",
				Items: []Item{
					{Label: "Payload", Value: FormatText(file.Contents), Pre: true},
				},
			},
		},
		Tabs: detailTabs(),
		Related: []RelatedTable{
			{
				Title: "Covered transects",
				Table: Table{Headers: []string{"Transect", "Primary", "Username"}, Rows: logRows},
			},
		},
		History:      BuildHistoryTable(history),
		HistoryError: historyErr,
	}
}

func BuildDataTypeDetail(dataType domain.DataType, options []domain.DataTypeOption, history []domain.HistoryEntry, historyErr bool) DetailPage {
	title := fmt.Sprintf("Data type %s", dataType.Name)

	optionRows := make([][]Cell, 0, len(options))
	for _, option := range options {
		optionRows = append(optionRows, []Cell{
			linkCell(FormatText(option.Code), routes.Resolve("bones:reference:data_type_option_detail", uintKey(option.ID))),
			textCell(FormatText(option.Text)),
		})
	}

	return DetailPage{
		Title:       title,
		Breadcrumbs: breadcrumbs("Data types", "bones:reference:data_types", title),
		Sections: []Section{
			{
				Title: "Attributes",
				Icon:  "fa-solid fa-database",
				Items: []Item{
					{Label: "Identifier", Value: FormatText(dataType.ID)},
					{Label: "Name", Value: FormatText(dataType.Name)},
					{Label: "User data type", Value: FormatBool(dataType.IsUserDataType)},
					{Label: "C# type", Value: FormatText(dataType.CSharpType)},
				},
			},
			{
				Title: "Usage",
				Icon:  "fa-solid fa-circle-question",
				Items: []Item{
					{Label: "Questions using this type", Value: fmt.Sprintf("%d", dataType.QuestionCount)},
				},
			},
		},
		Tabs: detailTabs(),
		Related: []RelatedTable{
			{
				Title: "Options",
				Table: Table{Headers: []string{"Code", "Text"}, Rows: optionRows},
			},
		},
		History:      BuildHistoryTable(history),
		HistoryError: historyErr,
	}
}

func BuildProjectConfigDetail(config domain.ProjectConfig, history []domain.HistoryEntry, historyErr bool) DetailPage {
	title := fmt.Sprintf("Project config %d", config.ID)

	return DetailPage{
		Title:       title,
		Breadcrumbs: breadcrumbs("Project configs", "bones:reference:project_config", title),
		Sections: []Section{
			{
				Title: "Metadata",
				Icon:  "fa-solid fa-gear",
				Items: []Item{
					{Label: "Identifier", Value: fmt.Sprintf("%d", config.ID)},
					{Label: "Publish date", Value: FormatDateTime(config.PublishDate)},
					{Label: "Project", Value: FormatText(config.Project)},
				},
			},
			{
				Title: "Configuration payloads",
				Icon:  "fa-solid fa-file-code",
				Items: []Item{
					{Label: "Config folder", Value: FormatText(config.ConfigFolder)},
					{Label: "Config file", Value: FormatText(config.ConfigFile), Pre: true},
					{Label: "Image", Value: FormatText(config.Image), Pre: true},
					{Label: "Transects file", Value: FormatText(config.TransectsFile), Pre: true},
				},
			},
		},
		Tabs:         detailTabs(),
		History:      BuildHistoryTable(history),
		HistoryError: historyErr,
	}
}

func BuildQuestionDetail(question domain.Question, history []domain.HistoryEntry, historyErr bool) DetailPage {
	title := fmt.Sprintf("Question %s", question.ID)

	actions := make([]Link, 0, 1)
	if question.DataTypeID != nil {
		if url := routes.Resolve("bones:reference:data_type_detail", stringKey(*question.DataTypeID)); url != "" {
			actions = append(actions, Link{Label: "View data type", URL: url, Icon: "fa-solid fa-database"})
		}
	}

	return DetailPage{
		Title:       title,
		Breadcrumbs: breadcrumbs("Questions", "bones:templates:questions", title),
		Sections: []Section{
			{
				Title: "Question metadata",
				Icon:  "fa-solid fa-circle-question",
				Items: []Item{
					{Label: "Identifier", Value: FormatText(question.ID)},
					{Label: "Prompt", Value: FormatText(question.Prompt), Pre: true},
					{Label: "Data type", Value: FormatText(question.DataTypeLabel)},
					{Label: "Workflow", Value: FormatText(question.WorkflowName)},
				},
			},
			{
				Title: "Data type mapping",
				Icon:  "fa-solid fa-database",
				Items: []Item{
					{Label: "Data type name", Value: FormatText(question.DataTypeName)},
				},
			},
		},
		Tabs:         detailTabs(),
		Actions:      actions,
		History:      BuildHistoryTable(history),
		HistoryError: historyErr,
	}
}

func BuildWorkflowDetail(workflow domain.CompletedWorkflow, responses []domain.CompletedResponse, history []domain.HistoryEntry, historyErr bool) DetailPage {
	title := fmt.Sprintf("Workflow %s", workflow.UID)

	actions := make([]Link, 0, 1)
	if workflow.OccurrenceID != nil {
		if url := routes.Resolve("bones:occurrences:detail", uintKey(*workflow.OccurrenceID)); url != "" {
			actions = append(actions, Link{Label: "View occurrence", URL: url, Icon: "fa-solid fa-frog"})
		}
	}

	responseRows := make([][]Cell, 0, len(responses))
	for _, response := range responses {
		if response.WorkflowUID == nil || *response.WorkflowUID != workflow.UID {
			continue
		}
		responseRows = append(responseRows, []Cell{
			centerCell(FormatInt(response.QuestionNumber)),
			textCell(FormatText(response.QuestionText)),
			textCell(FormatText(response.Response)),
			textCell(yesBlank(response.Skipped)),
		})
	}

	return DetailPage{
		Title:       title,
		Breadcrumbs: breadcrumbs("Completed workflows", "bones:workflows:list", title),
		Sections: []Section{
			{
				Title: "Run metadata",
				Icon:  "fa-solid fa-diagram-project",
				Items: []Item{
					{Label: "Identifier", Value: FormatText(workflow.UID)},
					{Label: "Template workflow", Value: FormatText(workflow.TemplateWorkflowName)},
					{Label: "Occurrence", Value: FormatInt(workflow.OccurrenceNumber)},
					{Label: "Transect", Value: FormatText(workflow.TransectName)},
					{Label: "Instance", Value: FormatInt(workflow.InstanceNumber)},
					{Label: "Completed by", Value: FormatText(workflow.CompletedBy)},
				},
			},
		},
		Tabs:    detailTabs(),
		Actions: actions,
		Related: []RelatedTable{
			{
				Title: "Responses",
				Table: Table{Headers: []string{"#", "Question", "Response", "Skipped"}, Rows: responseRows},
			},
		},
		History:      BuildHistoryTable(history),
		HistoryError: historyErr,
	}
}

func BuildDataTypeOptionDetail(option domain.DataTypeOption, history []domain.HistoryEntry, historyErr bool) DetailPage {
	title := fmt.Sprintf("Option %s", option.Code)

	actions := make([]Link, 0, 1)
	if option.DataTypeID != nil {
		if url := routes.Resolve("bones:reference:data_type_detail", stringKey(*option.DataTypeID)); url != "" {
			actions = append(actions, Link{Label: "View data type", URL: url, Icon: "fa-solid fa-database"})
		}
	}

	return DetailPage{
		Title:       title,
		Breadcrumbs: breadcrumbs("Data type options", "bones:reference:data_type_options", title),
		Sections: []Section{
			{
				Title: "Attributes",
				Icon:  "fa-solid fa-list",
				Items: []Item{
					{Label: "Identifier", Value: fmt.Sprintf("%d", option.ID)},
					{Label: "Data type", Value: FormatText(option.DataTypeName)},
					{Label: "Code", Value: FormatText(option.Code)},
					{Label: "Text", Value: FormatText(option.Text)},
				},
			},
		},
		Tabs:         detailTabs(),
		Actions:      actions,
		History:      BuildHistoryTable(history),
		HistoryError: historyErr,
	}
}

func BuildTemplateTransectDetail(template domain.TemplateTransect, history []domain.HistoryEntry, historyErr bool) DetailPage {
	title := fmt.Sprintf("Template %s", template.Name)

	return DetailPage{
		Title:       title,
		Breadcrumbs: breadcrumbs("Template transects", "bones:templates:list", title),
		Sections: []Section{
			{
				Title: "Definition",
				Icon:  "fa-solid fa-layer-group",
				Items: []Item{
					{Label: "Identifier", Value: FormatText(template.ID)},
					{Label: "Name", Value: FormatText(template.Name)},
					{Label: "Scheduled time", Value: FormatDateTime(template.ScheduledTime)},
					{Label: "Distance (km)", Value: FormatFloat(template.DistanceKM)},
					{Label: "Angle (degrees)", Value: FormatFloat(template.AngleDegrees)},
					{Label: "Open ended", Value: FormatBool(template.OpenEnded)},
					{Label: "Created dynamically", Value: FormatBool(template.CreatedDynamically)},
				},
			},
			{
				Title: "Notes",
				Icon:  "fa-solid fa-note-sticky",
				Items: []Item{
					{Label: "Coordinates", Value: FormatText(template.Coordinates), Pre: true},
					{Label: "Note", Value: FormatText(template.Note), Pre: true},
				},
			},
		},
		Tabs:         detailTabs(),
		History:      BuildHistoryTable(history),
		HistoryError: historyErr,
	}
}
