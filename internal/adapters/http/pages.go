package http

import (
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/karilint/bones/internal/filters"
	"github.com/karilint/bones/internal/readmodel"
	"github.com/karilint/bones/internal/routes"
)

func parsePage(params url.Values) int {
	page, err := strconv.Atoi(params.Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// withStateChoices fills the choices of the "state" field from live data.
func withStateChoices(set filters.Set, choices []filters.Choice) filters.Set {
	fields := make([]filters.Field, len(set.Fields))
	copy(fields, set.Fields)
	for i := range fields {
		if fields[i].Name == "state" {
			fields[i].Choices = choices
		}
	}
	set.Fields = fields
	return set
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := readmodel.BuildDashboard(readmodel.DashboardInput{
		Counts:            h.service.DashboardCounts(ctx),
		RecentTransects:   h.service.RecentTransects(ctx),
		RecentOccurrences: h.service.RecentOccurrences(ctx),
		RecentUploads:     h.service.RecentUploads(ctx),
		History:           h.service.MergedRecentHistory(ctx, 8),
	})
	h.render(w, r, "dashboard.html", "Dashboard", page)
}

func (h *Handler) handleReferenceIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, routes.Resolve("bones:reference:data_types", nil), http.StatusSeeOther)
}

func (h *Handler) handleTransectList(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	page := parsePage(params)

	set := filters.ForEntity("transects")
	states, statesErr := h.service.TransectStates(r.Context())
	choices := filters.StateChoices(states)

	view := listView{
		Filters:    withStateChoices(set, choices),
		Params:     params,
		FormAction: routes.Resolve("bones:transects:list", nil),
	}
	if statesErr != nil {
		// The filter cannot be constructed without its state choices:
		// flag the error and show nothing rather than an unfiltered list.
		h.logger.Warn("transect filter construction failed", zap.Error(statesErr))
		view.ListPage = readmodel.BuildTransectList(nil, 0, page, params)
		view.FilterError = true
		h.render(w, r, "list.html", view.Title, view)
		return
	}

	filter := filters.ParseTransectFilter(params, choices)
	items, total, err := h.service.ListTransects(r.Context(), filter, page)
	if err != nil {
		h.logger.Warn("transect list failed", zap.Error(err))
	}

	view.ListPage = readmodel.BuildTransectList(items, total, page, params)
	h.render(w, r, "list.html", view.Title, view)
}

func (h *Handler) handleOccurrenceList(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	page := parsePage(params)

	set := filters.ForEntity("occurrences")
	states, statesErr := h.service.OccurrenceStates(r.Context())
	choices := filters.StateChoices(states)

	view := listView{
		Filters:    withStateChoices(set, choices),
		Params:     params,
		FormAction: routes.Resolve("bones:occurrences:list", nil),
	}
	if statesErr != nil {
		h.logger.Warn("occurrence filter construction failed", zap.Error(statesErr))
		view.ListPage = readmodel.BuildOccurrenceList(nil, 0, page, params)
		view.FilterError = true
		h.render(w, r, "list.html", view.Title, view)
		return
	}

	filter := filters.ParseOccurrenceFilter(params, choices)
	items, total, err := h.service.ListOccurrences(r.Context(), filter, page)
	if err != nil {
		h.logger.Warn("occurrence list failed", zap.Error(err))
	}

	view.ListPage = readmodel.BuildOccurrenceList(items, total, page, params)
	h.render(w, r, "list.html", view.Title, view)
}

func (h *Handler) handleWorkflowList(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	page := parsePage(params)

	filter := filters.ParseWorkflowFilter(params)
	items, total, err := h.service.ListWorkflows(r.Context(), filter, page)
	if err != nil {
		h.logger.Warn("workflow list failed", zap.Error(err))
	}

	view := listView{
		ListPage:   readmodel.BuildWorkflowList(items, total, page, params),
		Filters:    filters.ForEntity("workflows"),
		Params:     params,
		FormAction: routes.Resolve("bones:workflows:list", nil),
	}
	h.render(w, r, "list.html", view.Title, view)
}

func (h *Handler) handleTemplateTransectList(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	page := parsePage(params)

	filter := filters.ParseTemplateTransectFilter(params)
	items, total, err := h.service.ListTemplateTransects(r.Context(), filter, page)
	if err != nil {
		h.logger.Warn("template transect list failed", zap.Error(err))
	}

	view := listView{
		ListPage:   readmodel.BuildTemplateTransectList(items, total, page, params),
		Filters:    filters.ForEntity("templates"),
		Params:     params,
		FormAction: routes.Resolve("bones:templates:list", nil),
	}
	h.render(w, r, "list.html", view.Title, view)
}

func (h *Handler) handleQuestionList(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	page := parsePage(params)

	filter := filters.ParseQuestionFilter(params)
	items, total, err := h.service.ListQuestions(r.Context(), filter, page)
	if err != nil {
		h.logger.Warn("question list failed", zap.Error(err))
	}

	view := listView{
		ListPage:   readmodel.BuildQuestionList(items, total, page, params),
		Filters:    filters.ForEntity("questions"),
		Params:     params,
		FormAction: routes.Resolve("bones:templates:questions", nil),
	}
	h.render(w, r, "list.html", view.Title, view)
}

func (h *Handler) handleDataTypeList(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	page := parsePage(params)

	filter := filters.ParseDataTypeFilter(params)
	items, total, err := h.service.ListDataTypes(r.Context(), filter, page)
	if err != nil {
		h.logger.Warn("data type list failed", zap.Error(err))
	}

	view := listView{
		ListPage:   readmodel.BuildDataTypeList(items, total, page, params),
		Filters:    filters.ForEntity("data_types"),
		Params:     params,
		FormAction: routes.Resolve("bones:reference:data_types", nil),
	}
	h.render(w, r, "list.html", view.Title, view)
}

func (h *Handler) handleDataTypeOptionList(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	page := parsePage(params)

	filter := filters.ParseDataTypeOptionFilter(params)
	items, total, err := h.service.ListDataTypeOptions(r.Context(), filter, page)
	if err != nil {
		h.logger.Warn("data type option list failed", zap.Error(err))
	}

	view := listView{
		ListPage:   readmodel.BuildDataTypeOptionList(items, total, page, params),
		Filters:    filters.ForEntity("data_type_options"),
		Params:     params,
		FormAction: routes.Resolve("bones:reference:data_type_options", nil),
	}
	h.render(w, r, "list.html", view.Title, view)
}

func (h *Handler) handleProjectConfigList(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	page := parsePage(params)

	filter := filters.ParseProjectConfigFilter(params)
	items, total, err := h.service.ListProjectConfigs(r.Context(), filter, page)
	if err != nil {
		h.logger.Warn("project config list failed", zap.Error(err))
	}

	view := listView{
		ListPage:   readmodel.BuildProjectConfigList(items, total, page, params),
		Filters:    filters.ForEntity("project_configs"),
		Params:     params,
		FormAction: routes.Resolve("bones:reference:project_config", nil),
	}
	h.render(w, r, "list.html", view.Title, view)
}

func (h *Handler) handleDataLogFileList(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	page := parsePage(params)

	filter := filters.ParseDataLogFileFilter(params)
	items, total, err := h.service.ListDataLogFiles(r.Context(), filter, page)
	if err != nil {
		h.logger.Warn("data log list failed", zap.Error(err))
	}

	view := listView{
		ListPage:   readmodel.BuildDataLogFileList(items, total, page, params),
		Filters:    filters.ForEntity("data_logs"),
		Params:     params,
		FormAction: routes.Resolve("bones:logs:list", nil),
	}
	h.render(w, r, "list.html", view.Title, view)
}
