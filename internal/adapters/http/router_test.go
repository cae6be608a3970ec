package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/karilint/bones/internal/adapters/db/sqlite"
	"github.com/karilint/bones/internal/application"
	"github.com/karilint/bones/internal/domain"
)

func TestTemplatesDefineEveryPage(t *testing.T) {
	set := parseTemplates()
	for _, name := range []string{"list.html", "detail.html", "dashboard.html", "history.html", "login.html", "picker_select.html"} {
		if set.Lookup(name) == nil {
			t.Errorf("template %q not defined", name)
		}
	}
	for _, partial := range []string{"header", "footer", "table", "pagination"} {
		if set.Lookup(partial) == nil {
			t.Errorf("partial %q not defined", partial)
		}
	}
}

func TestLoginPageRenders(t *testing.T) {
	router := NewRouter(nil, zap.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /login = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Sign in") {
		t.Fatalf("login page missing sign-in form: %q", rec.Body.String())
	}
}

func TestAnonymousGUIRequestRedirectsToLogin(t *testing.T) {
	router := NewRouter(nil, zap.NewNop())

	for _, path := range []string{"/", "/transects/", "/history/", "/reference/data-types/"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		if rec.Code != http.StatusSeeOther {
			t.Errorf("GET %s = %d, want %d", path, rec.Code, http.StatusSeeOther)
			continue
		}
		if loc := rec.Header().Get("Location"); loc != "/login" {
			t.Errorf("GET %s redirects to %q, want /login", path, loc)
		}
	}
}

// stateLookupFailingRepo works except for the state-choice query that
// feeds the transect filter form.
type stateLookupFailingRepo struct {
	domain.SurveyRepository
}

func (stateLookupFailingRepo) TransectStates(ctx context.Context) ([]string, error) {
	return nil, errors.New("storage offline")
}

func TestTransectListShowsNoResultsWhenFilterStatesFail(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "bones_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := sqlite.RunMigrations(ctx, db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	repo := sqlite.NewSurveyRepository(db)

	service := application.NewSurveyService(stateLookupFailingRepo{SurveyRepository: repo}, nil)
	if err := service.BootstrapAdmin(ctx, "admin@bones.local", "secret"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	token, identity, err := service.LoginWithSession(ctx, "admin@bones.local", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := service.SaveTransect(ctx, domain.CompletedTransect{Name: "Ridge walk"}, identity); err != nil {
		t.Fatalf("save transect: %v", err)
	}

	router := NewRouter(service, zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/transects/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /transects/ = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "no results are shown") {
		t.Fatalf("expected filter error banner, got: %s", body)
	}
	if strings.Contains(body, "Ridge walk") {
		t.Fatalf("expected zero rows when the filter cannot be constructed, got: %s", body)
	}
}

func TestAnonymousAPIRequestGetsJSONUnauthorized(t *testing.T) {
	router := NewRouter(nil, zap.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transects", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("GET /api/transects = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", ct)
	}
}
