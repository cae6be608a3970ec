package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/karilint/bones/internal/domain"
)

func openTestRepository(t *testing.T) *SurveyRepository {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "bones_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return NewSurveyRepository(db)
}

func TestListTransectsAppliesFiltersAndJoins(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepository(t)

	if err := repo.db.Create(&TemplateTransectModel{ID: "tpl-1", Name: "North ridge"}).Error; err != nil {
		t.Fatalf("seed template: %v", err)
	}

	templateID := "tpl-1"
	started := time.Date(2026, 3, 14, 6, 30, 0, 0, time.UTC)
	first, err := repo.SaveTransect(ctx, domain.CompletedTransect{
		Name:       "T-001",
		StartTime:  &started,
		State:      "complete",
		TemplateID: &templateID,
	}, "tester@example.com")
	if err != nil {
		t.Fatalf("save transect: %v", err)
	}
	if _, err := repo.SaveTransect(ctx, domain.CompletedTransect{Name: "T-002", State: "pending audit"}, "tester@example.com"); err != nil {
		t.Fatalf("save second transect: %v", err)
	}

	if _, err := repo.SaveOccurrence(ctx, domain.CompletedOccurrence{TransectUID: &first.UID, State: "complete"}, "tester@example.com"); err != nil {
		t.Fatalf("save occurrence: %v", err)
	}

	filtered, err := repo.ListTransects(ctx, domain.TransectFilter{State: "complete"}, 25, 0)
	if err != nil {
		t.Fatalf("list transects: %v", err)
	}
	if len(filtered) != 1 {
		t.Fatalf("expected 1 filtered transect, got %d", len(filtered))
	}
	if filtered[0].TemplateName != "North ridge" {
		t.Fatalf("expected joined template name, got %q", filtered[0].TemplateName)
	}
	if filtered[0].OccurrenceCount != 1 {
		t.Fatalf("expected occurrence count 1, got %d", filtered[0].OccurrenceCount)
	}

	total, err := repo.CountTransects(ctx, domain.TransectFilter{})
	if err != nil {
		t.Fatalf("count transects: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 transects, got %d", total)
	}

	pending, err := repo.CountPendingAudits(ctx)
	if err != nil {
		t.Fatalf("count pending audits: %v", err)
	}
	if pending != 1 {
		t.Fatalf("expected 1 pending audit, got %d", pending)
	}
}

func TestDistinctStatesSkipBlanksAndSort(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepository(t)

	for _, state := range []string{"b", "a", "", "b"} {
		if _, err := repo.SaveTransect(ctx, domain.CompletedTransect{Name: "T", State: state}, "tester"); err != nil {
			t.Fatalf("save transect: %v", err)
		}
	}

	states, err := repo.TransectStates(ctx)
	if err != nil {
		t.Fatalf("transect states: %v", err)
	}
	if len(states) != 2 || states[0] != "a" || states[1] != "b" {
		t.Fatalf("unexpected states: %v", states)
	}
}

func TestSaveTransectWritesHistory(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepository(t)

	created, err := repo.SaveTransect(ctx, domain.CompletedTransect{Name: "T-100"}, "surveyor@example.com")
	if err != nil {
		t.Fatalf("save transect: %v", err)
	}
	created.State = "audited"
	if _, err := repo.SaveTransect(ctx, created, "auditor@example.com"); err != nil {
		t.Fatalf("update transect: %v", err)
	}

	entries, err := repo.ListHistory(ctx, domain.EntityTransect, 25, 0)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(entries))
	}
	if entries[0].ChangeType != domain.HistoryChanged {
		t.Fatalf("expected newest entry to be a change, got %q", entries[0].ChangeType)
	}
	if entries[1].ChangeType != domain.HistoryCreated {
		t.Fatalf("expected oldest entry to be a create, got %q", entries[1].ChangeType)
	}

	record, err := repo.ListRecordHistory(ctx, domain.EntityTransect, "1", 25)
	if err != nil {
		t.Fatalf("record history: %v", err)
	}
	if len(record) != 2 {
		t.Fatalf("expected 2 record history rows, got %d", len(record))
	}
	if record[0].ChangedBy != "auditor@example.com" {
		t.Fatalf("unexpected actor: %q", record[0].ChangedBy)
	}
}

func TestWorkflowJoinsResolveOccurrenceAndTemplate(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepository(t)

	transect, err := repo.SaveTransect(ctx, domain.CompletedTransect{Name: "Ridge walk"}, "tester")
	if err != nil {
		t.Fatalf("save transect: %v", err)
	}
	number := 4
	occ, err := repo.SaveOccurrence(ctx, domain.CompletedOccurrence{TransectUID: &transect.UID, OccurrenceNumber: &number}, "tester")
	if err != nil {
		t.Fatalf("save occurrence: %v", err)
	}
	if err := repo.db.Create(&TemplateWorkflowModel{ID: "wf-1", Name: "Frog call survey"}).Error; err != nil {
		t.Fatalf("seed template workflow: %v", err)
	}

	templateID := "wf-1"
	instance := 2
	if err := repo.db.Create(&WorkflowModel{
		UID:                newGUID(),
		OccurrenceID:       &occ.ID,
		TemplateWorkflowID: &templateID,
		InstanceNumber:     &instance,
		CompletedBy:        "km",
	}).Error; err != nil {
		t.Fatalf("seed workflow: %v", err)
	}

	rows, err := repo.ListWorkflows(ctx, domain.WorkflowFilter{}, 25, 0)
	if err != nil {
		t.Fatalf("list workflows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 workflow, got %d", len(rows))
	}
	if rows[0].TemplateWorkflowName != "Frog call survey" {
		t.Fatalf("expected joined template workflow name, got %q", rows[0].TemplateWorkflowName)
	}
	if rows[0].OccurrenceNumber == nil || *rows[0].OccurrenceNumber != 4 {
		t.Fatalf("expected joined occurrence number 4, got %v", rows[0].OccurrenceNumber)
	}
	if rows[0].TransectName != "Ridge walk" {
		t.Fatalf("expected joined transect name, got %q", rows[0].TransectName)
	}

	open, err := repo.CountOpenWorkflows(ctx)
	if err != nil {
		t.Fatalf("count open workflows: %v", err)
	}
	if open != 0 {
		t.Fatalf("expected no open workflows, got %d", open)
	}
}
