package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSubstitutesParams(t *testing.T) {
	assert.Equal(t, "/transects/42/", Resolve("bones:transects:detail", map[string]string{"pk": "42"}))
	assert.Equal(t, "/", Resolve("bones:dashboard", nil))
}

func TestResolveRetriesDefaultNamespace(t *testing.T) {
	assert.Equal(t, "/", Resolve("dashboard", nil))
	assert.Equal(t, "/login", Resolve("login", nil))
}

func TestResolveUnknownNameReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", Resolve("bones:nope:list", nil))
	assert.Equal(t, "", Resolve("nope", nil))
}

func TestResolveMissingParamReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", Resolve("bones:transects:detail", nil))
	assert.Equal(t, "", Resolve("bones:transects:detail", map[string]string{"pk": ""}))
}

func TestHistoryRouteNamesResolve(t *testing.T) {
	// Both the per-entity list targets used by list-view buttons and the
	// per-record targets used by detail pages must exist.
	for _, name := range []string{
		"bones:history:transects",
		"bones:history:occurrences",
		"bones:history:workflows",
		"bones:history:questions",
		"bones:history:data_types",
		"bones:history:data_type_options",
		"bones:history:templates",
		"bones:history:project_configs",
		"bones:history:data_logs",
	} {
		assert.NotEmpty(t, Resolve(name, nil), name)
	}
	for _, name := range []string{
		"bones:history:transect_record",
		"bones:history:occurrence_record",
		"bones:history:workflow_record",
		"bones:history:question_record",
	} {
		assert.NotEmpty(t, Resolve(name, map[string]string{"pk": "7"}), name)
	}
}

func TestBuildNavigationNeverYieldsEmptyURLs(t *testing.T) {
	var check func(t *testing.T, links []NavLink)
	check = func(t *testing.T, links []NavLink) {
		for _, link := range links {
			assert.NotEmpty(t, link.URL, link.Label)
			assert.NotEqual(t, "#", link.URL, link.Label)
			check(t, link.Children)
		}
	}

	links := BuildNavigation()
	assert.NotEmpty(t, links)
	check(t, links)
}

func TestMaterialiseLinkFallbackChain(t *testing.T) {
	// A dead primary route falls back through URL, route, first child, "/".
	link := materialiseLink(navItem{
		label:     "Broken",
		routeName: "bones:missing",
		children: []navItem{
			{label: "Child", routeName: "bones:transects:list"},
		},
	})
	assert.Equal(t, "/transects/", link.URL)

	leaf := materialiseLink(navItem{label: "Orphan", routeName: "bones:missing"})
	assert.Equal(t, "/", leaf.URL)

	explicit := materialiseLink(navItem{label: "Docs", url: "/docs/"})
	assert.Equal(t, "/docs/", explicit.URL)
}
