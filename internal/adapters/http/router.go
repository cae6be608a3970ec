// Package http serves the server-rendered survey GUI and the JSON API.
package http

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/karilint/bones/internal/application"
)

//go:embed static/*
var staticFS embed.FS

type Handler struct {
	service   *application.SurveyService
	logger    *zap.Logger
	templates *template.Template
}

func NewRouter(service *application.SurveyService, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{service: service, logger: logger, templates: parseTemplates()}
	r := chi.NewRouter()
	r.Use(metricsMiddleware)

	r.Handle("/metrics", promhttp.Handler())
	staticRoot, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))))

	r.Get("/login", h.handleLoginPage)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/login", h.handleAPILogin)
		api.With(h.requireAuthAPI).Get("/auth/whoami", h.handleAPIWhoAmI)
		api.With(h.requireAuthAPI).Post("/auth/logout", h.handleAPILogout)
		api.With(h.requireAuthAPI).Get("/stats/dashboard", h.handleAPIDashboard)
		api.With(h.requireAuthAPI).Get("/transects", h.handleAPIListTransects)
		api.With(h.requireAuthAPI).Get("/transects/{pk}", h.handleAPIGetTransect)
		api.With(h.requireAuthAPI).Get("/occurrences", h.handleAPIListOccurrences)
		api.With(h.requireAuthAPI).Get("/workflows", h.handleAPIListWorkflows)
		api.With(h.requireAuthAPI).Get("/logs", h.handleAPIListDataLogFiles)
		api.With(h.requireAuthAPI).Get("/history/recent", h.handleAPIRecentHistory)
		api.With(h.requireAuthAPI).Get("/audit/logs", h.handleAPIListAuditLogs)
	})

	r.Group(func(gui chi.Router) {
		gui.Use(h.requireAuthGUI)

		gui.Get("/", h.handleDashboard)

		gui.Get("/transects/", h.handleTransectList)
		gui.Get("/transects/{pk}/", h.handleTransectDetail)
		gui.Post("/transects/{pk}/", h.handleTransectSave)
		gui.Get("/transects/{pk}/export-responses/", h.handleTransectExportResponses)
		gui.Get("/transects/{pk}/download-track/", h.handleTransectDownloadTrack)

		gui.Get("/occurrences/", h.handleOccurrenceList)
		gui.Get("/occurrences/{pk}/", h.handleOccurrenceDetail)
		gui.Post("/occurrences/{pk}/", h.handleOccurrenceSave)
		gui.Get("/occurrences/{pk}/export-responses/", h.handleOccurrenceExportResponses)

		gui.Get("/workflows/", h.handleWorkflowList)
		gui.Get("/workflows/{pk}/", h.handleWorkflowDetail)

		gui.Get("/templates/", h.handleTemplateTransectList)
		gui.Get("/templates/questions/", h.handleQuestionList)
		gui.Get("/templates/questions/{pk}/", h.handleQuestionDetail)
		gui.Post("/templates/questions/{pk}/", h.handleQuestionSave)
		gui.Get("/templates/{pk}/", h.handleTemplateTransectDetail)

		gui.Get("/reference/", h.handleReferenceIndex)
		gui.Get("/reference/data-types/", h.handleDataTypeList)
		gui.Get("/reference/data-types/{pk}/", h.handleDataTypeDetail)
		gui.Post("/reference/data-types/{pk}/", h.handleDataTypeSave)
		gui.Get("/reference/data-type-options/", h.handleDataTypeOptionList)
		gui.Get("/reference/data-type-options/{pk}/", h.handleDataTypeOptionDetail)
		gui.Get("/reference/project-configs/", h.handleProjectConfigList)
		gui.Get("/reference/project-configs/{pk}/", h.handleProjectConfigDetail)
		gui.Post("/reference/project-configs/{pk}/", h.handleProjectConfigSave)

		gui.Get("/logs/", h.handleDataLogFileList)
		gui.Get("/logs/{pk}/", h.handleDataLogFileDetail)
		gui.Post("/logs/{pk}/", h.handleDataLogFileSave)

		gui.Get("/history/", h.handleHistoryIndex)
		gui.Get("/history/dashboard/", h.handleHistoryDashboard)
		gui.Get("/history/{slug}/", h.handleHistoryEntity)
		gui.Get("/history/{slug}/{pk}/", h.handleHistoryRecord)

		gui.Post("/pickers/transect_template", h.handlePickerTemplateTransects)
		gui.Post("/pickers/transect", h.handlePickerTransects)
		gui.Post("/pickers/occurrence", h.handlePickerOccurrences)
		gui.Post("/pickers/template_workflow", h.handlePickerTemplateWorkflows)
		gui.Post("/pickers/data_type", h.handlePickerDataTypes)
		gui.Post("/pickers/data_log_file", h.handlePickerDataLogFiles)
	})

	return r
}
