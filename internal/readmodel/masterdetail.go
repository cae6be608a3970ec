package readmodel

import (
	"fmt"
	"strconv"

	"github.com/karilint/bones/internal/domain"
	"github.com/karilint/bones/internal/routes"
)

// TransectDetailInput bundles the rows a transect master-detail page
// renders. History fetch failures only flag the history tab.
type TransectDetailInput struct {
	Transect     domain.CompletedTransect
	Details      []domain.TransectDetail
	Occurrences  []domain.CompletedOccurrence
	TrackPoints  []domain.TransectTrackPoint
	History      []domain.HistoryEntry
	HistoryError bool
}

func BuildTransectMasterDetail(input TransectDetailInput) DetailPage {
	transect := input.Transect
	title := fmt.Sprintf("Transect %s", transect.Name)
	key := uintKey(transect.UID)

	actions := make([]Link, 0, 2)
	if url := routes.Resolve("bones:transects:export_responses", key); url != "" {
		actions = append(actions, Link{Label: "Export responses", URL: url, Icon: "fa-solid fa-file-export"})
	}
	if url := routes.Resolve("bones:transects:download_track", key); url != "" {
		actions = append(actions, Link{Label: "Download GPS track", URL: url, Icon: "fa-solid fa-location-dot"})
	}

	detailRows := make([][]Cell, 0, len(input.Details))
	for _, detail := range input.Details {
		detailRows = append(detailRows, []Cell{
			textCell(FormatText(detail.PreOrPost)),
			textCell(FormatText(detail.QuestionText)),
			textCell(FormatText(detail.Response)),
		})
	}

	occurrenceRows := make([][]Cell, 0, len(input.Occurrences))
	for _, occurrence := range input.Occurrences {
		occurrenceRows = append(occurrenceRows, []Cell{
			linkCell(occurrenceTitle(occurrence.OccurrenceNumber), routes.Resolve("bones:occurrences:detail", uintKey(occurrence.ID))),
			textCell(FormatText(occurrence.State)),
			textCell(FormatDateTime(occurrence.RecordingStartTime)),
			textCell(FormatDateTime(occurrence.RecordingEndTime)),
			centerCell(strconv.Itoa(occurrence.ResponseCount)),
			centerCell(strconv.Itoa(occurrence.WorkflowCount)),
		})
	}

	trackRows := make([][]Cell, 0, len(input.TrackPoints))
	for _, point := range input.TrackPoints {
		trackRows = append(trackRows, []Cell{
			textCell(FormatDateTime(point.Time)),
			textCell(FormatFloat(point.Lat)),
			textCell(FormatFloat(point.Long)),
			textCell(yesBlank(point.IsStart)),
			textCell(yesBlank(point.IsCheckpoint)),
			textCell(yesBlank(point.IsOccurrence)),
			textCell(yesBlank(point.IsTurnPoint)),
			textCell(yesBlank(point.IsEnd)),
		})
	}

	return DetailPage{
		Title:       title,
		Breadcrumbs: breadcrumbs("Completed transects", "bones:transects:list", title),
		Sections: []Section{
			{
				Title: "Summary",
				Icon:  "fa-solid fa-route",
				Items: []Item{
					{Label: "Identifier", Value: strconv.FormatUint(uint64(transect.UID), 10)},
					{Label: "Template", Value: FormatText(transect.TemplateName)},
					{Label: "State", Value: FormatText(transect.State)},
					{Label: "Started", Value: FormatDateTime(transect.StartTime)},
					{Label: "Ended", Value: FormatDateTime(transect.EndTime)},
					{Label: "Turn time", Value: FormatDateTime(transect.TurnTime)},
					{Label: "Distance (km)", Value: FormatFloat(transect.DistanceKM)},
					{Label: "Paused (minutes)", Value: FormatInt(transect.PausedForMinutes)},
				},
			},
			{
				Title: "Coordinates",
				Icon:  "fa-solid fa-location-dot",
				Items: []Item{
					{Label: "Start", Value: FormatLatLong(transect.LatFrom, transect.LongFrom)},
					{Label: "Turn", Value: FormatLatLong(transect.LatTurn, transect.LongTurn)},
					{Label: "End", Value: FormatLatLong(transect.LatTo, transect.LongTo)},
				},
			},
		},
		Tabs:    detailTabs(),
		Actions: actions,
		Related: []RelatedTable{
			{
				Title: "Survey questions",
				Table: Table{Headers: []string{"Phase", "Question", "Response"}, Rows: detailRows},
			},
			{
				Title: "Occurrences",
				Table: Table{Headers: []string{"Occurrence", "State", "Started", "Ended", "Responses", "Workflows"}, Rows: occurrenceRows},
			},
			{
				Title: "Track points",
				Table: Table{Headers: []string{"Timestamp", "Latitude", "Longitude", "Start", "Checkpoint", "Occurrence", "Turn point", "End"}, Rows: trackRows},
			},
		},
		History:      BuildHistoryTable(input.History),
		HistoryError: input.HistoryError,
	}
}

// OccurrenceDetailInput bundles the rows an occurrence master-detail page
// renders.
type OccurrenceDetailInput struct {
	Occurrence   domain.CompletedOccurrence
	Details      []domain.OccurrenceDetail
	Responses    []domain.CompletedResponse
	Workflows    []domain.CompletedWorkflow
	History      []domain.HistoryEntry
	HistoryError bool
}

func BuildOccurrenceMasterDetail(input OccurrenceDetailInput) DetailPage {
	occurrence := input.Occurrence
	title := occurrenceTitle(occurrence.OccurrenceNumber)
	key := uintKey(occurrence.ID)

	actions := make([]Link, 0, 2)
	if url := routes.Resolve("bones:occurrences:export_responses", key); url != "" {
		actions = append(actions, Link{Label: "Export responses", URL: url, Icon: "fa-solid fa-file-export"})
	}
	if occurrence.TransectUID != nil {
		if url := routes.Resolve("bones:transects:detail", uintKey(*occurrence.TransectUID)); url != "" {
			actions = append(actions, Link{Label: "View parent transect", URL: url, Icon: "fa-solid fa-route"})
		}
	}

	detailRows := make([][]Cell, 0, len(input.Details))
	for _, detail := range input.Details {
		detailRows = append(detailRows, []Cell{
			textCell(FormatText(detail.PreOrPost)),
			textCell(FormatText(detail.QuestionText)),
			textCell(FormatText(detail.Response)),
		})
	}

	workflowByUID := make(map[string]domain.CompletedWorkflow, len(input.Workflows))
	for _, workflow := range input.Workflows {
		workflowByUID[workflow.UID] = workflow
	}

	responseRows := make([][]Cell, 0, len(input.Responses))
	for _, response := range input.Responses {
		workflowCell := textCell(EmDash)
		if response.WorkflowUID != nil {
			if workflow, ok := workflowByUID[*response.WorkflowUID]; ok {
				workflowCell = linkCell(FormatText(workflow.TemplateWorkflowName), routes.Resolve("bones:workflows:detail", stringKey(workflow.UID)))
			}
		}
		responseRows = append(responseRows, []Cell{
			textCell(FormatText(response.QuestionText)),
			textCell(FormatText(response.Response)),
			textCell(FormatText(response.ResponseCode)),
			textCell(yesBlank(response.Skipped)),
			workflowCell,
		})
	}

	workflowRows := make([][]Cell, 0, len(input.Workflows))
	for _, workflow := range input.Workflows {
		workflowRows = append(workflowRows, []Cell{
			linkCell(FormatText(workflow.TemplateWorkflowName), routes.Resolve("bones:workflows:detail", stringKey(workflow.UID))),
			textCell(FormatInt(workflow.InstanceNumber)),
			textCell(FormatText(workflow.CompletedBy)),
		})
	}

	return DetailPage{
		Title:       title,
		Breadcrumbs: breadcrumbs("Completed occurrences", "bones:occurrences:list", title),
		Sections: []Section{
			{
				Title: "Summary",
				Icon:  "fa-solid fa-frog",
				Items: []Item{
					{Label: "Identifier", Value: strconv.FormatUint(uint64(occurrence.ID), 10)},
					{Label: "Transect", Value: FormatText(occurrence.TransectName)},
					{Label: "State", Value: FormatText(occurrence.State)},
					{Label: "Recording started", Value: FormatDateTime(occurrence.RecordingStartTime)},
					{Label: "Recording ended", Value: FormatDateTime(occurrence.RecordingEndTime)},
					{Label: "Latitude", Value: FormatFloat(occurrence.Lat)},
					{Label: "Longitude", Value: FormatFloat(occurrence.Long)},
				},
			},
			{
				Title: "Notes",
				Icon:  "fa-solid fa-note-sticky",
				Items: []Item{
					{Label: "Note", Value: FormatText(occurrence.Note), Pre: true},
				},
			},
		},
		Tabs:    detailTabs(),
		Actions: actions,
		Related: []RelatedTable{
			{
				Title: "Follow-up questions",
				Table: Table{Headers: []string{"Phase", "Question", "Response"}, Rows: detailRows},
			},
			{
				Title: "Responses",
				Table: Table{Headers: []string{"Question", "Response", "Response code", "Skipped", "Workflow"}, Rows: responseRows},
			},
			{
				Title: "Workflows",
				Table: Table{Headers: []string{"Template workflow", "Instance", "Completed by"}, Rows: workflowRows},
			},
		},
		Instances:    GroupInstances(occurrence.ID, input.Workflows, input.Responses),
		History:      BuildHistoryTable(input.History),
		HistoryError: input.HistoryError,
	}
}

func yesBlank(value bool) string {
	if value {
		return "Yes"
	}
	return EmDash
}
