package application

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/karilint/bones/internal/adapters/db/sqlite"
	"github.com/karilint/bones/internal/domain"
)

func newTestService(t *testing.T) (*SurveyService, domain.SurveyRepository) {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "bones_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := sqlite.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	repo := sqlite.NewSurveyRepository(db)
	return NewSurveyService(repo, nil), repo
}

// failingRepo wraps a working repository but fails selected reads.
type failingRepo struct {
	domain.SurveyRepository
	failTransectCount bool
	failHistory       bool
}

func (f failingRepo) CountTransects(ctx context.Context, filter domain.TransectFilter) (int64, error) {
	if f.failTransectCount {
		return 0, errors.New("storage offline")
	}
	return f.SurveyRepository.CountTransects(ctx, filter)
}

func (f failingRepo) ListHistory(ctx context.Context, entity string, limit, offset int) ([]domain.HistoryEntry, error) {
	if f.failHistory && entity == domain.EntityWorkflow {
		return nil, errors.New("storage offline")
	}
	return f.SurveyRepository.ListHistory(ctx, entity, limit, offset)
}

func TestBootstrapAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	service, repo := newTestService(t)

	if err := service.BootstrapAdmin(ctx, "Admin@Bones.local", "secret"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if err := service.BootstrapAdmin(ctx, "other@bones.local", "other"); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}

	count, err := repo.CountUsers(ctx)
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 user, got %d", count)
	}
	if _, err := repo.GetUserByEmail(ctx, "admin@bones.local"); err != nil {
		t.Fatalf("expected lowercased email lookup to succeed: %v", err)
	}
}

func TestSessionLoginAndLogout(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	if err := service.BootstrapAdmin(ctx, "admin@bones.local", "secret"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	if _, _, err := service.LoginWithSession(ctx, "admin@bones.local", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	token, identity, err := service.LoginWithSession(ctx, "  ADMIN@bones.local ", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if identity.User.Email != "admin@bones.local" {
		t.Fatalf("unexpected identity email: %q", identity.User.Email)
	}

	authed, err := service.AuthenticateSession(ctx, token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.User.ID != identity.User.ID {
		t.Fatalf("expected same user, got %d vs %d", authed.User.ID, identity.User.ID)
	}

	if err := service.LogoutSession(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := service.AuthenticateSession(ctx, token); err == nil {
		t.Fatalf("expected authentication to fail after logout")
	}
}

func TestDashboardCountsDegradePerMetric(t *testing.T) {
	ctx := context.Background()
	_, repo := newTestService(t)

	identity := domain.Identity{User: domain.User{Email: "tester@bones.local"}}
	service := NewSurveyService(failingRepo{SurveyRepository: repo, failTransectCount: true}, nil)
	if _, err := service.SaveOccurrence(ctx, domain.CompletedOccurrence{}, identity); err != nil {
		t.Fatalf("save occurrence: %v", err)
	}

	counts := service.DashboardCounts(ctx)
	if counts.Transects != nil {
		t.Fatalf("expected transect count to degrade to nil")
	}
	if counts.Occurrences == nil || *counts.Occurrences != 1 {
		t.Fatalf("expected occurrence count 1, got %v", counts.Occurrences)
	}
	if counts.OutstandingTasks == nil || *counts.OutstandingTasks != 1 {
		t.Fatalf("expected outstanding tasks 1 (open occurrence), got %v", counts.OutstandingTasks)
	}
}

func TestMergedRecentHistoryIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	_, repo := newTestService(t)
	identity := domain.Identity{User: domain.User{Email: "tester@bones.local"}}

	healthy := NewSurveyService(repo, nil)
	if _, err := healthy.SaveTransect(ctx, domain.CompletedTransect{Name: "T-1"}, identity); err != nil {
		t.Fatalf("save transect: %v", err)
	}
	if _, err := healthy.SaveOccurrence(ctx, domain.CompletedOccurrence{}, identity); err != nil {
		t.Fatalf("save occurrence: %v", err)
	}

	merged := healthy.MergedRecentHistory(ctx, 10)
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged entries, got %d", len(merged))
	}

	broken := NewSurveyService(failingRepo{SurveyRepository: repo, failHistory: true}, nil)
	merged = broken.MergedRecentHistory(ctx, 10)
	if len(merged) != 0 {
		t.Fatalf("expected empty feed when one source fails, got %d", len(merged))
	}
}
