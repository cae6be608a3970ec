package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/karilint/bones/internal/domain"
)

func printJSON(v any) error {
	b, err := jsonMarshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printKV(rows [][2]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("no results")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatMaybeTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatTime(*t)
}

func formatMaybeInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func formatMaybeCount(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}

func printDashboardCounts(counts domain.DashboardCounts) {
	printKV([][2]string{
		{"transects", formatMaybeCount(counts.Transects)},
		{"occurrences", formatMaybeCount(counts.Occurrences)},
		{"workflows", formatMaybeCount(counts.Workflows)},
		{"outstanding_tasks", formatMaybeCount(counts.OutstandingTasks)},
		{"pending_audits", formatMaybeCount(counts.PendingAudits)},
		{"history_entries", formatMaybeCount(counts.HistoryEntries)},
	})
}

func printTransects(items []domain.CompletedTransect) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(item.UID), 10),
			item.Name,
			item.TemplateName,
			item.State,
			formatMaybeTime(item.StartTime),
			strconv.Itoa(item.OccurrenceCount),
		})
	}
	printTable([]string{"UID", "NAME", "TEMPLATE", "STATE", "START", "OCCURRENCES"}, rows)
}

func printTransect(item domain.CompletedTransect) {
	printKV([][2]string{
		{"uid", strconv.FormatUint(uint64(item.UID), 10)},
		{"name", item.Name},
		{"template", item.TemplateName},
		{"state", item.State},
		{"start_time", formatMaybeTime(item.StartTime)},
		{"end_time", formatMaybeTime(item.EndTime)},
		{"paused_for_minutes", formatMaybeInt(item.PausedForMinutes)},
	})
}

func printOccurrences(items []domain.CompletedOccurrence) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(item.ID), 10),
			formatMaybeInt(item.OccurrenceNumber),
			item.TransectName,
			item.State,
			formatMaybeTime(item.RecordingStartTime),
			strconv.Itoa(item.ResponseCount),
		})
	}
	printTable([]string{"ID", "NUMBER", "TRANSECT", "STATE", "RECORDED", "RESPONSES"}, rows)
}

func printWorkflows(items []domain.CompletedWorkflow) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.UID,
			item.TemplateWorkflowName,
			formatMaybeInt(item.InstanceNumber),
			formatMaybeInt(item.OccurrenceNumber),
			item.TransectName,
			item.CompletedBy,
		})
	}
	printTable([]string{"UID", "WORKFLOW", "INSTANCE", "OCCURRENCE", "TRANSECT", "COMPLETED_BY"}, rows)
}

func printDataLogFiles(items []domain.DataLogFile) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(item.ID), 10),
			formatMaybeTime(item.UploadDate),
			item.UploadedBy,
		})
	}
	printTable([]string{"ID", "UPLOADED_AT", "UPLOADED_BY"}, rows)
}

func printHistory(items []domain.HistoryEntry) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			formatTime(item.ChangedAt),
			item.ChangeType,
			item.Entity,
			item.RecordID,
			item.Label,
			item.ChangedBy,
		})
	}
	printTable([]string{"AT", "CHANGE", "ENTITY", "RECORD", "LABEL", "BY"}, rows)
}
