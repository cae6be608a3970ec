package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/karilint/bones/internal/filters"
	"github.com/karilint/bones/internal/forms"
	"github.com/karilint/bones/internal/readmodel"
	"github.com/karilint/bones/internal/routes"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"dec": func(i int) int { return i - 1 },
	"pages": func(start, end int) []int {
		if end < start {
			return nil
		}
		out := make([]int, 0, end-start+1)
		for i := start; i <= end; i++ {
			out = append(out, i)
		}
		return out
	},
	"count": func(v *int64) string {
		if v == nil {
			return readmodel.EmDash
		}
		return strconv.FormatInt(*v, 10)
	},
}

func parseTemplates() *template.Template {
	return template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))
}

// pageData is the envelope every full page renders with.
type pageData struct {
	Title     string
	Nav       []routes.NavLink
	UserEmail string
	Flash     string
	FlashKind string
	Page      any
}

// listView wraps a list read model with its filter form.
type listView struct {
	readmodel.ListPage
	Filters    filters.Set
	Params     url.Values
	FormAction string
}

// detailView wraps a detail read model with an optional edit form.
type detailView struct {
	readmodel.DetailPage
	EditForm   *forms.Form
	FormValues map[string]string
	FormAction string
}

// historyView drives both the history index and the per-entity pages.
// Its pagination fields mirror ListPage so the shared partial applies.
type historyView struct {
	Title       string
	Intro       string
	Links       []routes.NavLink
	Table       readmodel.Table
	Total       int64
	Page        int
	TotalPages  int
	WindowStart int
	WindowEnd   int
	FilterQuery string
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name, title string, page any) {
	flashKind := r.URL.Query().Get("kind")
	if flashKind == "" {
		flashKind = "info"
	}
	data := pageData{
		Title:     title,
		Nav:       routes.BuildNavigation(),
		UserEmail: currentUserEmail(r.Context()),
		Flash:     r.URL.Query().Get("flash"),
		FlashKind: flashKind,
		Page:      page,
	}

	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("template render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
