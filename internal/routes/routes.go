// Package routes maps stable route names to URL paths. Handlers and
// read-model builders resolve links by name so a renamed path changes in
// one place, and a missing route degrades to a disabled link instead of a
// broken one.
package routes

import "strings"

// DefaultNamespace is prepended when a bare route name does not resolve.
const DefaultNamespace = "bones:"

// patterns use {param} placeholders, matching the chi route definitions.
var patterns = map[string]string{
	"bones:dashboard": "/",
	"bones:login":     "/login",
	"bones:logout":    "/logout",

	"bones:transects:list":             "/transects/",
	"bones:transects:detail":           "/transects/{pk}/",
	"bones:transects:export_responses": "/transects/{pk}/export-responses/",
	"bones:transects:download_track":   "/transects/{pk}/download-track/",

	"bones:occurrences:list":             "/occurrences/",
	"bones:occurrences:detail":           "/occurrences/{pk}/",
	"bones:occurrences:export_responses": "/occurrences/{pk}/export-responses/",

	"bones:workflows:list":   "/workflows/",
	"bones:workflows:detail": "/workflows/{pk}/",

	"bones:templates:list":            "/templates/",
	"bones:templates:detail":          "/templates/{pk}/",
	"bones:templates:questions":       "/templates/questions/",
	"bones:templates:question_detail": "/templates/questions/{pk}/",

	"bones:reference:list":                    "/reference/",
	"bones:reference:data_types":              "/reference/data-types/",
	"bones:reference:data_type_detail":        "/reference/data-types/{pk}/",
	"bones:reference:data_type_options":       "/reference/data-type-options/",
	"bones:reference:data_type_option_detail": "/reference/data-type-options/{pk}/",
	"bones:reference:project_config":          "/reference/project-configs/",
	"bones:reference:project_config_detail":   "/reference/project-configs/{pk}/",

	"bones:logs:list":   "/logs/",
	"bones:logs:detail": "/logs/{pk}/",

	"bones:history:index":     "/history/",
	"bones:history:dashboard": "/history/dashboard/",

	"bones:history:transects":         "/history/transects/",
	"bones:history:occurrences":       "/history/occurrences/",
	"bones:history:workflows":         "/history/workflows/",
	"bones:history:questions":         "/history/questions/",
	"bones:history:data_types":        "/history/data-types/",
	"bones:history:data_type_options": "/history/data-type-options/",
	"bones:history:templates":         "/history/templates/",
	"bones:history:project_configs":   "/history/project-configs/",
	"bones:history:data_logs":         "/history/data-logs/",

	"bones:history:transect_record":   "/history/transects/{pk}/",
	"bones:history:occurrence_record": "/history/occurrences/{pk}/",
	"bones:history:workflow_record":   "/history/workflows/{pk}/",
	"bones:history:question_record":   "/history/questions/{pk}/",
}

// Resolve returns the URL for a named route, or "" when the name is
// unknown or a required parameter is missing. A bare name that fails is
// retried with the default namespace. Resolve never panics.
func Resolve(name string, kwargs map[string]string) string {
	if url, ok := resolve(name, kwargs); ok {
		return url
	}
	if !strings.Contains(name, ":") {
		if url, ok := resolve(DefaultNamespace+name, kwargs); ok {
			return url
		}
	}
	return ""
}

func resolve(name string, kwargs map[string]string) (string, bool) {
	pattern, ok := patterns[name]
	if !ok {
		return "", false
	}

	url := pattern
	for {
		open := strings.Index(url, "{")
		if open < 0 {
			break
		}
		end := strings.Index(url[open:], "}")
		if end < 0 {
			return "", false
		}
		param := url[open+1 : open+end]
		value, ok := kwargs[param]
		if !ok || value == "" {
			return "", false
		}
		url = url[:open] + value + url[open+end+1:]
	}
	return url, true
}

// Known reports whether a route name exists in the table, with the same
// namespace retry as Resolve.
func Known(name string) bool {
	if _, ok := patterns[name]; ok {
		return true
	}
	if !strings.Contains(name, ":") {
		_, ok := patterns[DefaultNamespace+name]
		return ok
	}
	return false
}
