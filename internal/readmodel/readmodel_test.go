package readmodel

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karilint/bones/internal/domain"
)

func TestWindowExamples(t *testing.T) {
	cases := []struct {
		total, current, max int
		wantStart, wantEnd  int
	}{
		{50, 5, 3, 4, 6},
		{50, 1, 3, 1, 3},
		{50, 10, 3, 8, 10},
		{5, 1, 3, 1, 5},
		{50, 5, 4, 3, 6},
		{3, 2, 10, 1, 3},
	}
	for _, tc := range cases {
		start, end := Window(tc.total, tc.current, tc.max)
		assert.Equal(t, tc.wantStart, start, "total=%d current=%d max=%d", tc.total, tc.current, tc.max)
		assert.Equal(t, tc.wantEnd, end, "total=%d current=%d max=%d", tc.total, tc.current, tc.max)
	}
}

func TestFilterQuerystringDropsPage(t *testing.T) {
	params := url.Values{"state": {"active"}, "page": {"3"}}
	assert.Equal(t, "&state=active", FilterQuerystring(params))
	assert.True(t, FilterActive(params))

	assert.Equal(t, "", FilterQuerystring(url.Values{"page": {"2"}}))
	assert.False(t, FilterActive(url.Values{"page": {"2"}, "state": {""}}))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, EmDash, FormatText(""))
	assert.Equal(t, "frog", FormatText("frog"))
	assert.Equal(t, EmDash, FormatBool(nil))
	yes := true
	assert.Equal(t, "Yes", FormatBool(&yes))
	assert.Equal(t, EmDash, FormatDateTime(nil))

	lat, long := 61.5, 23.75
	assert.Equal(t, "Lat 61.5, Long 23.75", FormatLatLong(&lat, &long))
	assert.Equal(t, EmDash, FormatLatLong(&lat, nil))
}

func TestGroupInstances(t *testing.T) {
	one, two := 1, 2
	wfA := "wf-a"
	wfB := "wf-b"
	q1, q2, q3 := 1, 2, 3

	workflows := []domain.CompletedWorkflow{
		{UID: wfB, InstanceNumber: &two},
		{UID: wfA, InstanceNumber: &one},
	}
	responses := []domain.CompletedResponse{
		{WorkflowUID: &wfB, QuestionNumber: &q3},
		{WorkflowUID: &wfA, QuestionNumber: &q2},
		{WorkflowUID: &wfA, QuestionNumber: &q1},
		{WorkflowUID: &wfA, QuestionNumber: &q1, Skipped: true},
		{QuestionNumber: &q1},
	}

	groups := GroupInstances(9, workflows, responses)
	require.Len(t, groups, 2)

	assert.Equal(t, 1, groups[0].InstanceNumber)
	require.Len(t, groups[0].Responses, 2)
	assert.Equal(t, &q1, groups[0].Responses[0].QuestionNumber)
	assert.Equal(t, &q2, groups[0].Responses[1].QuestionNumber)
	assert.Equal(t, "/workflows/?occurrence=9&instance_number=1", groups[0].URL)

	assert.Equal(t, 2, groups[1].InstanceNumber)
	require.Len(t, groups[1].Responses, 1)
	assert.Equal(t, "/workflows/?occurrence=9&instance_number=2", groups[1].URL)
}

func TestBuildTransectListRowsMatchHeaders(t *testing.T) {
	started := time.Date(2026, 5, 2, 7, 0, 0, 0, time.UTC)
	items := []domain.CompletedTransect{
		{UID: 1, Name: "T-001", StartTime: &started, State: "complete", TemplateName: "North ridge", OccurrenceCount: 3},
		{UID: 2, Name: "T-002"},
	}

	page := BuildTransectList(items, 60, 2, url.Values{"state": {"complete"}})
	require.Len(t, page.Table.Rows, 2)
	for _, row := range page.Table.Rows {
		assert.Len(t, row, len(page.Table.Headers))
	}

	assert.Equal(t, "/transects/1/", page.Table.Rows[0][0].URL)
	assert.True(t, page.Table.Rows[0][5].Center)
	assert.Equal(t, EmDash, page.Table.Rows[1][1].Text)

	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.WindowStart)
	assert.Equal(t, 3, page.WindowEnd)
	assert.True(t, page.FilterActive)
	assert.Equal(t, "&state=complete", page.FilterQuery)
}

func TestActionCellDisablesUnresolvedTargets(t *testing.T) {
	cell := actionCell("", "/history/transects/")
	require.Len(t, cell.Buttons, 2)
	assert.True(t, cell.Buttons[0].Disabled)
	assert.Empty(t, cell.Buttons[0].URL)
	assert.False(t, cell.Buttons[1].Disabled)
}

func TestDetailTabsOnlyFirstActive(t *testing.T) {
	tabs := detailTabs()
	require.NotEmpty(t, tabs)
	assert.True(t, tabs[0].Active)
	for _, tab := range tabs[1:] {
		assert.False(t, tab.Active, tab.Key)
	}
}

func TestBuildTransectMasterDetailCoordinates(t *testing.T) {
	lat, long := 61.0, 23.0
	page := BuildTransectMasterDetail(TransectDetailInput{
		Transect: domain.CompletedTransect{
			UID:     7,
			Name:    "T-007",
			LatFrom: &lat, LongFrom: &long,
			LatTo: &lat,
		},
		HistoryError: true,
	})

	assert.Equal(t, "Transect T-007", page.Title)
	require.Len(t, page.Breadcrumbs, 3)
	assert.Equal(t, "Dashboard", page.Breadcrumbs[0].Label)
	assert.Empty(t, page.Breadcrumbs[2].URL)

	coords := page.Sections[1]
	assert.Equal(t, "Lat 61, Long 23", coords.Items[0].Value)
	assert.Equal(t, EmDash, coords.Items[2].Value)

	assert.True(t, page.HistoryError)
	assert.Empty(t, page.History.Rows)
	require.Len(t, page.Actions, 2)
	assert.Equal(t, "/transects/7/export-responses/", page.Actions[0].URL)
}

func TestBuildDashboardSafeCounts(t *testing.T) {
	var transects int64 = 12
	page := BuildDashboard(DashboardInput{
		Counts: domain.DashboardCounts{Transects: &transects},
	})

	require.Len(t, page.Cards, 4)
	assert.Equal(t, &transects, page.Cards[0].Count)
	assert.Nil(t, page.Cards[3].Count)
	assert.Equal(t, "/transects/", page.Cards[0].URL)
	require.Len(t, page.QuickLinks, 2)
	assert.Equal(t, "/history/", page.QuickLinks[1].URL)
}
