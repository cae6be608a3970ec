package readmodel

import (
	"github.com/karilint/bones/internal/domain"
	"github.com/karilint/bones/internal/routes"
)

// MetricCard shows one safe count. A nil count renders the placeholder
// instead of a number.
type MetricCard struct {
	Label string
	Icon  string
	URL   string
	Count *int64
}

// RecentItem is one row in a dashboard recent-activity feed.
type RecentItem struct {
	Label    string
	Subtitle string
	URL      string
}

type QuickLink struct {
	Label       string
	Icon        string
	URL         string
	Count       *int64
	Description string
}

// DashboardPage is the landing-page view model.
type DashboardPage struct {
	Cards             []MetricCard
	RecentTransects   []RecentItem
	RecentOccurrences []RecentItem
	RecentUploads     []RecentItem
	History           Table
	QuickLinks        []QuickLink
}

// DashboardInput carries the safely fetched dashboard data. Each field
// degrades independently; a nil count or empty feed only blanks its own
// card.
type DashboardInput struct {
	Counts            domain.DashboardCounts
	RecentTransects   []domain.CompletedTransect
	RecentOccurrences []domain.CompletedOccurrence
	RecentUploads     []domain.DataLogFile
	History           []domain.HistoryEntry
}

func BuildDashboard(input DashboardInput) DashboardPage {
	counts := input.Counts

	cards := []MetricCard{
		{Label: "Completed Transects", Icon: "fa-solid fa-route", URL: routes.Resolve("bones:transects:list", nil), Count: counts.Transects},
		{Label: "Completed Occurrences", Icon: "fa-solid fa-frog", URL: routes.Resolve("bones:occurrences:list", nil), Count: counts.Occurrences},
		{Label: "Completed Workflows", Icon: "fa-solid fa-diagram-project", URL: routes.Resolve("bones:workflows:list", nil), Count: counts.Workflows},
		{Label: "Outstanding Tasks", Icon: "fa-solid fa-clipboard-list", URL: routes.Resolve("bones:workflows:list", nil), Count: counts.OutstandingTasks},
	}

	transects := make([]RecentItem, 0, len(input.RecentTransects))
	for _, item := range input.RecentTransects {
		transects = append(transects, RecentItem{
			Label:    FormatText(item.Name),
			Subtitle: FormatDateTime(item.StartTime) + " · " + FormatText(item.State),
			URL:      routes.Resolve("bones:transects:detail", uintKey(item.UID)),
		})
	}

	occurrences := make([]RecentItem, 0, len(input.RecentOccurrences))
	for _, item := range input.RecentOccurrences {
		occurrences = append(occurrences, RecentItem{
			Label:    occurrenceTitle(item.OccurrenceNumber),
			Subtitle: FormatText(item.TransectName) + " · " + FormatText(item.State),
			URL:      routes.Resolve("bones:occurrences:detail", uintKey(item.ID)),
		})
	}

	uploads := make([]RecentItem, 0, len(input.RecentUploads))
	for _, item := range input.RecentUploads {
		uploads = append(uploads, RecentItem{
			Label:    "Log file " + FormatText(uintKey(item.ID)["pk"]),
			Subtitle: FormatDateTime(item.UploadDate) + " · " + FormatText(item.UploadedBy),
			URL:      routes.Resolve("bones:logs:detail", uintKey(item.ID)),
		})
	}

	return DashboardPage{
		Cards:             cards,
		RecentTransects:   transects,
		RecentOccurrences: occurrences,
		RecentUploads:     uploads,
		History:           BuildHistoryTable(input.History),
		QuickLinks: []QuickLink{
			{
				Label:       "Review Pending Audits",
				Icon:        "fa-solid fa-clipboard-check",
				URL:         routes.Resolve("bones:transects:list", nil),
				Count:       counts.PendingAudits,
				Description: "Transects awaiting post-survey audit.",
			},
			{
				Label:       "Browse History Timeline",
				Icon:        "fa-solid fa-clock-rotate-left",
				URL:         routes.Resolve("bones:history:index", nil),
				Count:       counts.HistoryEntries,
				Description: "Inspect recent changes across survey data.",
			},
		},
	}
}
