package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/karilint/bones/internal/domain"
	"github.com/karilint/bones/internal/readmodel"
	"github.com/karilint/bones/internal/routes"
)

// historySection ties a URL slug to its audit entity and display label.
type historySection struct {
	entity string
	label  string
	route  string
}

var historySections = []historySection{
	{domain.EntityTransect, "Transects", "bones:history:transects"},
	{domain.EntityOccurrence, "Occurrences", "bones:history:occurrences"},
	{domain.EntityWorkflow, "Workflows", "bones:history:workflows"},
	{domain.EntityQuestion, "Questions", "bones:history:questions"},
	{domain.EntityDataType, "Data types", "bones:history:data_types"},
	{domain.EntityDataTypeOption, "Data type options", "bones:history:data_type_options"},
	{domain.EntityTemplate, "Template transects", "bones:history:templates"},
	{domain.EntityProjectConfig, "Project configs", "bones:history:project_configs"},
	{domain.EntityDataLog, "Data logs", "bones:history:data_logs"},
}

var historySlugs = map[string]historySection{
	"transects":         historySections[0],
	"occurrences":       historySections[1],
	"workflows":         historySections[2],
	"questions":         historySections[3],
	"data-types":        historySections[4],
	"data-type-options": historySections[5],
	"templates":         historySections[6],
	"project-configs":   historySections[7],
	"data-logs":         historySections[8],
}

func historyLinks() []routes.NavLink {
	links := make([]routes.NavLink, 0, len(historySections))
	for _, section := range historySections {
		links = append(links, routes.NavLink{Label: section.label, URL: routes.Resolve(section.route, nil)})
	}
	return links
}

func (h *Handler) handleHistoryIndex(w http.ResponseWriter, r *http.Request) {
	entries := h.service.MergedRecentHistory(r.Context(), readmodel.PageSize)

	view := historyView{
		Title: "History",
		Intro: "Recent changes across all record types. Pick a section for the full per-type feed.",
		Links: historyLinks(),
		Table: readmodel.BuildHistoryTable(entries),
		Total: int64(len(entries)),
		Page:  1, TotalPages: 1, WindowStart: 1, WindowEnd: 1,
	}
	h.render(w, r, "history.html", view.Title, view)
}

func (h *Handler) handleHistoryDashboard(w http.ResponseWriter, r *http.Request) {
	entries := h.service.MergedRecentHistory(r.Context(), 50)

	view := historyView{
		Title: "Recent Activity",
		Intro: "The fifty most recent changes, merged across all record types.",
		Links: historyLinks(),
		Table: readmodel.BuildHistoryTable(entries),
		Total: int64(len(entries)),
		Page:  1, TotalPages: 1, WindowStart: 1, WindowEnd: 1,
	}
	h.render(w, r, "history.html", view.Title, view)
}

func (h *Handler) handleHistoryEntity(w http.ResponseWriter, r *http.Request) {
	section, ok := historySlugs[chi.URLParam(r, "slug")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	page := parsePage(r.URL.Query())

	entries, total, err := h.service.EntityHistory(r.Context(), section.entity, page)
	if err != nil {
		h.logger.Warn("entity history failed", zap.String("entity", section.entity), zap.Error(err))
	}

	totalPages := int((total + readmodel.PageSize - 1) / readmodel.PageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start, end := readmodel.Window(totalPages, page, readmodel.WindowLength)

	view := historyView{
		Title:       section.label + " history",
		Intro:       "Every recorded change to " + section.label + ", newest first.",
		Links:       historyLinks(),
		Table:       readmodel.BuildHistoryTable(entries),
		Total:       total,
		Page:        page,
		TotalPages:  totalPages,
		WindowStart: start,
		WindowEnd:   end,
	}
	h.render(w, r, "history.html", view.Title, view)
}

func (h *Handler) handleHistoryRecord(w http.ResponseWriter, r *http.Request) {
	section, ok := historySlugs[chi.URLParam(r, "slug")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	recordID := chi.URLParam(r, "pk")

	entries, err := h.service.RecordHistory(r.Context(), section.entity, recordID)
	if err != nil {
		h.logger.Warn("record history failed", zap.String("entity", section.entity), zap.Error(err))
	}

	view := historyView{
		Title: section.label + " record " + recordID,
		Intro: "Changes recorded for this single record.",
		Links: historyLinks(),
		Table: readmodel.BuildHistoryTable(entries),
		Total: int64(len(entries)),
		Page:  1, TotalPages: 1, WindowStart: 1, WindowEnd: 1,
	}
	h.render(w, r, "history.html", view.Title, view)
}
