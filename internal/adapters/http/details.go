package http

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/karilint/bones/internal/domain"
	"github.com/karilint/bones/internal/forms"
	"github.com/karilint/bones/internal/readmodel"
)

func uintURLParam(r *http.Request, name string) (uint, bool) {
	parsed, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(parsed), true
}

func (h *Handler) handleTransectDetail(w http.ResponseWriter, r *http.Request) {
	uid, ok := uintURLParam(r, "pk")
	if !ok {
		http.NotFound(w, r)
		return
	}
	transect, err := h.service.GetTransect(r.Context(), uid)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	details, _ := h.service.ListTransectDetails(r.Context(), uid)
	occurrences, _ := h.service.ListTransectOccurrences(r.Context(), uid)
	trackPoints, _ := h.service.ListTrackPoints(r.Context(), uid)
	history, histErr := h.service.RecordHistory(r.Context(), domain.EntityTransect, strconv.FormatUint(uint64(uid), 10))

	view := detailView{
		DetailPage: readmodel.BuildTransectMasterDetail(readmodel.TransectDetailInput{
			Transect:     transect,
			Details:      details,
			Occurrences:  occurrences,
			TrackPoints:  trackPoints,
			History:      history,
			HistoryError: histErr != nil,
		}),
		EditForm:   &forms.TransectForm,
		FormValues: transectFormValues(transect),
		FormAction: r.URL.Path,
	}
	h.render(w, r, "detail.html", view.Title, view)
}

func (h *Handler) handleTransectSave(w http.ResponseWriter, r *http.Request) {
	uid, ok := uintURLParam(r, "pk")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, r.URL.Path, "Invalid form submission.")
		return
	}

	value := domain.CompletedTransect{
		UID:              uid,
		Name:             strings.TrimSpace(r.Form.Get("name")),
		StartTime:        formTime(r, "start_time"),
		TurnTime:         formTime(r, "turn_time"),
		EndTime:          formTime(r, "end_time"),
		LatFrom:          formFloat(r, "lat_from"),
		LongFrom:         formFloat(r, "long_from"),
		LatTurn:          formFloat(r, "lat_turn"),
		LongTurn:         formFloat(r, "long_turn"),
		LatTo:            formFloat(r, "lat_to"),
		LongTo:           formFloat(r, "long_to"),
		DistanceKM:       formFloat(r, "distance_km"),
		AngleDegrees:     formFloat(r, "angle_degrees"),
		State:            strings.TrimSpace(r.Form.Get("state")),
		TemplateID:       formString(r, "transect_template"),
		PausedForMinutes: formInt(r, "paused_for_minutes"),
	}
	if _, err := h.service.SaveTransect(r.Context(), value, currentIdentity(r.Context())); err != nil {
		redirectWithError(w, r, r.URL.Path, err.Error())
		return
	}
	redirectWithFlash(w, r, r.URL.Path, "Transect saved.")
}

func (h *Handler) handleTransectExportResponses(w http.ResponseWriter, r *http.Request) {
	uid, ok := uintURLParam(r, "pk")
	if !ok {
		http.NotFound(w, r)
		return
	}
	details, err := h.service.ListTransectDetails(r.Context(), uid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeCSV(w, fmt.Sprintf("transect_%d_responses.csv", uid), [][]string{{"pre_or_post", "question", "response"}}, func(out *csv.Writer) {
		for _, d := range details {
			_ = out.Write([]string{d.PreOrPost, d.QuestionText, d.Response})
		}
	})
}

func (h *Handler) handleTransectDownloadTrack(w http.ResponseWriter, r *http.Request) {
	uid, ok := uintURLParam(r, "pk")
	if !ok {
		http.NotFound(w, r)
		return
	}
	points, err := h.service.ListTrackPoints(r.Context(), uid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	header := [][]string{{"time", "lat", "long", "is_start", "is_checkpoint", "is_occurrence", "is_turn_point", "is_end"}}
	writeCSV(w, fmt.Sprintf("transect_%d_track.csv", uid), header, func(out *csv.Writer) {
		for _, p := range points {
			_ = out.Write([]string{
				csvTime(p.Time),
				csvFloat(p.Lat),
				csvFloat(p.Long),
				strconv.FormatBool(p.IsStart),
				strconv.FormatBool(p.IsCheckpoint),
				strconv.FormatBool(p.IsOccurrence),
				strconv.FormatBool(p.IsTurnPoint),
				strconv.FormatBool(p.IsEnd),
			})
		}
	})
}

func (h *Handler) handleOccurrenceDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := uintURLParam(r, "pk")
	if !ok {
		http.NotFound(w, r)
		return
	}
	occurrence, err := h.service.GetOccurrence(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	details, _ := h.service.ListOccurrenceDetails(r.Context(), id)
	responses, _ := h.service.ListOccurrenceResponses(r.Context(), id)
	workflows, _ := h.service.ListOccurrenceWorkflows(r.Context(), id)
	history, histErr := h.service.RecordHistory(r.Context(), domain.EntityOccurrence, strconv.FormatUint(uint64(id), 10))

	view := detailView{
		DetailPage: readmodel.BuildOccurrenceMasterDetail(readmodel.OccurrenceDetailInput{
			Occurrence:   occurrence,
			Details:      details,
			Responses:    responses,
			Workflows:    workflows,
			History:      history,
			HistoryError: histErr != nil,
		}),
		EditForm:   &forms.OccurrenceForm,
		FormValues: occurrenceFormValues(occurrence),
		FormAction: r.URL.Path,
	}
	h.render(w, r, "detail.html", view.Title, view)
}

func (h *Handler) handleOccurrenceSave(w http.ResponseWriter, r *http.Request) {
	id, ok := uintURLParam(r, "pk")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, r.URL.Path, "Invalid form submission.")
		return
	}

	value := domain.CompletedOccurrence{
		ID:                 id,
		TransectUID:        formUint(r, "transect"),
		OccurrenceNumber:   formInt(r, "occurrence_number"),
		RecordingStartTime: formTime(r, "recording_start_time"),
		RecordingEndTime:   formTime(r, "recording_end_time"),
		Lat:                formFloat(r, "lat"),
		Long:               formFloat(r, "long"),
		Note:               r.Form.Get("note"),
		State:              strings.TrimSpace(r.Form.Get("state")),
	}
	if _, err := h.service.SaveOccurrence(r.Context(), value, currentIdentity(r.Context())); err != nil {
		redirectWithError(w, r, r.URL.Path, err.Error())
		return
	}
	redirectWithFlash(w, r, r.URL.Path, "Occurrence saved.")
}

func (h *Handler) handleOccurrenceExportResponses(w http.ResponseWriter, r *http.Request) {
	id, ok := uintURLParam(r, "pk")
	if !ok {
		http.NotFound(w, r)
		return
	}
	responses, err := h.service.ListOccurrenceResponses(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	header := [][]string{{"question_number", "question", "response_code", "response", "skipped"}}
	writeCSV(w, fmt.Sprintf("occurrence_%d_responses.csv", id), header, func(out *csv.Writer) {
		for _, resp := range responses {
			_ = out.Write([]string{
				csvInt(resp.QuestionNumber),
				resp.QuestionText,
				resp.ResponseCode,
				resp.Response,
				strconv.FormatBool(resp.Skipped),
			})
		}
	})
}

func (h *Handler) handleWorkflowDetail(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "pk")
	workflow, err := h.service.GetWorkflow(r.Context(), uid)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var responses []domain.CompletedResponse
	if workflow.OccurrenceID != nil {
		responses, _ = h.service.ListOccurrenceResponses(r.Context(), *workflow.OccurrenceID)
	}
	history, histErr := h.service.RecordHistory(r.Context(), domain.EntityWorkflow, uid)

	view := detailView{
		DetailPage: readmodel.BuildWorkflowDetail(workflow, responses, history, histErr != nil),
	}
	h.render(w, r, "detail.html", view.Title, view)
}

func (h *Handler) handleTemplateTransectDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pk")
	template, err := h.service.GetTemplateTransect(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	history, histErr := h.service.RecordHistory(r.Context(), domain.EntityTemplate, id)

	view := detailView{
		DetailPage: readmodel.BuildTemplateTransectDetail(template, history, histErr != nil),
	}
	h.render(w, r, "detail.html", view.Title, view)
}

func (h *Handler) handleQuestionDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pk")
	question, err := h.service.GetQuestion(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	history, histErr := h.service.RecordHistory(r.Context(), domain.EntityQuestion, id)

	view := detailView{
		DetailPage: readmodel.BuildQuestionDetail(question, history, histErr != nil),
		EditForm:   &forms.QuestionForm,
		FormValues: questionFormValues(question),
		FormAction: r.URL.Path,
	}
	h.render(w, r, "detail.html", view.Title, view)
}

func (h *Handler) handleQuestionSave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pk")
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, r.URL.Path, "Invalid form submission.")
		return
	}

	value := domain.Question{
		ID:           id,
		Prompt:       strings.TrimSpace(r.Form.Get("prompt")),
		DataTypeID:   formString(r, "data_type"),
		DataTypeName: strings.TrimSpace(r.Form.Get("data_type_name")),
		WorkflowID:   formString(r, "workflow"),
	}
	if _, err := h.service.SaveQuestion(r.Context(), value, currentIdentity(r.Context())); err != nil {
		redirectWithError(w, r, r.URL.Path, err.Error())
		return
	}
	redirectWithFlash(w, r, r.URL.Path, "Question saved.")
}

func (h *Handler) handleDataTypeDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pk")
	dataType, err := h.service.GetDataType(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	options, _ := h.service.DataTypeOptionsFor(r.Context(), id)
	history, histErr := h.service.RecordHistory(r.Context(), domain.EntityDataType, id)

	view := detailView{
		DetailPage: readmodel.BuildDataTypeDetail(dataType, options, history, histErr != nil),
		EditForm:   &forms.DataTypeForm,
		FormValues: dataTypeFormValues(dataType),
		FormAction: r.URL.Path,
	}
	h.render(w, r, "detail.html", view.Title, view)
}

func (h *Handler) handleDataTypeSave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pk")
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, r.URL.Path, "Invalid form submission.")
		return
	}

	value := domain.DataType{
		ID:             id,
		Name:           strings.TrimSpace(r.Form.Get("name")),
		IsUserDataType: formBool(r, "is_user_data_type"),
		CSharpType:     strings.TrimSpace(r.Form.Get("csharp_type")),
	}
	if _, err := h.service.SaveDataType(r.Context(), value, currentIdentity(r.Context())); err != nil {
		redirectWithError(w, r, r.URL.Path, err.Error())
		return
	}
	redirectWithFlash(w, r, r.URL.Path, "Data type saved.")
}

func (h *Handler) handleDataTypeOptionDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := uintURLParam(r, "pk")
	if !ok {
		http.NotFound(w, r)
		return
	}
	option, err := h.service.GetDataTypeOption(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	history, histErr := h.service.RecordHistory(r.Context(), domain.EntityDataTypeOption, strconv.FormatUint(uint64(id), 10))

	view := detailView{
		DetailPage: readmodel.BuildDataTypeOptionDetail(option, history, histErr != nil),
	}
	h.render(w, r, "detail.html", view.Title, view)
}

func (h *Handler) handleProjectConfigDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := uintURLParam(r, "pk")
	if !ok {
		http.NotFound(w, r)
		return
	}
	config, err := h.service.GetProjectConfig(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	history, histErr := h.service.RecordHistory(r.Context(), domain.EntityProjectConfig, strconv.FormatUint(uint64(id), 10))

	view := detailView{
		DetailPage: readmodel.BuildProjectConfigDetail(config, history, histErr != nil),
		EditForm:   &forms.ProjectConfigForm,
		FormValues: projectConfigFormValues(config),
		FormAction: r.URL.Path,
	}
	h.render(w, r, "detail.html", view.Title, view)
}

func (h *Handler) handleProjectConfigSave(w http.ResponseWriter, r *http.Request) {
	id, ok := uintURLParam(r, "pk")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, r.URL.Path, "Invalid form submission.")
		return
	}

	value := domain.ProjectConfig{
		ID:            id,
		PublishDate:   formTime(r, "publish_date"),
		Project:       strings.TrimSpace(r.Form.Get("project")),
		ConfigFolder:  strings.TrimSpace(r.Form.Get("config_folder")),
		ConfigFile:    r.Form.Get("config_file"),
		Image:         r.Form.Get("image"),
		TransectsFile: r.Form.Get("transects_file"),
	}
	if _, err := h.service.SaveProjectConfig(r.Context(), value, currentIdentity(r.Context())); err != nil {
		redirectWithError(w, r, r.URL.Path, err.Error())
		return
	}
	redirectWithFlash(w, r, r.URL.Path, "Project config saved.")
}

func (h *Handler) handleDataLogFileDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := uintURLParam(r, "pk")
	if !ok {
		http.NotFound(w, r)
		return
	}
	file, err := h.service.GetDataLogFile(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	logs, _ := h.service.ListTransectDataLogs(r.Context(), id)
	history, histErr := h.service.RecordHistory(r.Context(), domain.EntityDataLog, strconv.FormatUint(uint64(id), 10))

	view := detailView{
		DetailPage: readmodel.BuildDataLogFileDetail(file, logs, history, histErr != nil),
		EditForm:   &forms.DataLogFileForm,
		FormValues: dataLogFileFormValues(file),
		FormAction: r.URL.Path,
	}
	h.render(w, r, "detail.html", view.Title, view)
}

func (h *Handler) handleDataLogFileSave(w http.ResponseWriter, r *http.Request) {
	id, ok := uintURLParam(r, "pk")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, r.URL.Path, "Invalid form submission.")
		return
	}

	value := domain.DataLogFile{
		ID:         id,
		UploadDate: formTime(r, "upload_date"),
		UploadedBy: strings.TrimSpace(r.Form.Get("uploaded_by")),
		Contents:   r.Form.Get("contents"),
	}
	if _, err := h.service.SaveDataLogFile(r.Context(), value, currentIdentity(r.Context())); err != nil {
		redirectWithError(w, r, r.URL.Path, err.Error())
		return
	}
	redirectWithFlash(w, r, r.URL.Path, "Data log saved.")
}

// form parsing helpers: blank or malformed inputs become nil.

func formString(r *http.Request, name string) *string {
	trimmed := strings.TrimSpace(r.Form.Get(name))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func formFloat(r *http.Request, name string) *float64 {
	trimmed := strings.TrimSpace(r.Form.Get(name))
	if trimmed == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func formInt(r *http.Request, name string) *int {
	trimmed := strings.TrimSpace(r.Form.Get(name))
	if trimmed == "" {
		return nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}
	return &parsed
}

func formUint(r *http.Request, name string) *uint {
	trimmed := strings.TrimSpace(r.Form.Get(name))
	if trimmed == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return nil
	}
	value := uint(parsed)
	return &value
}

func formTime(r *http.Request, name string) *time.Time {
	trimmed := strings.TrimSpace(r.Form.Get(name))
	if trimmed == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"} {
		if parsed, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return &parsed
		}
	}
	return nil
}

func formBool(r *http.Request, name string) *bool {
	value := r.Form.Get(name) == "true"
	return &value
}

// form value helpers: shape domain values back into input strings.

func valueString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func valueFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func valueInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func valueUint(v *uint) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*v), 10)
}

func valueTime(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Local().Format("2006-01-02T15:04")
}

func valueBool(v *bool) string {
	if v != nil && *v {
		return "true"
	}
	return ""
}

func transectFormValues(t domain.CompletedTransect) map[string]string {
	return map[string]string{
		"name":               t.Name,
		"transect_template":  valueString(t.TemplateID),
		"start_time":         valueTime(t.StartTime),
		"turn_time":          valueTime(t.TurnTime),
		"end_time":           valueTime(t.EndTime),
		"lat_from":           valueFloat(t.LatFrom),
		"long_from":          valueFloat(t.LongFrom),
		"lat_turn":           valueFloat(t.LatTurn),
		"long_turn":          valueFloat(t.LongTurn),
		"lat_to":             valueFloat(t.LatTo),
		"long_to":            valueFloat(t.LongTo),
		"distance_km":        valueFloat(t.DistanceKM),
		"angle_degrees":      valueFloat(t.AngleDegrees),
		"state":              t.State,
		"paused_for_minutes": valueInt(t.PausedForMinutes),
	}
}

func occurrenceFormValues(o domain.CompletedOccurrence) map[string]string {
	return map[string]string{
		"transect":             valueUint(o.TransectUID),
		"occurrence_number":    valueInt(o.OccurrenceNumber),
		"recording_start_time": valueTime(o.RecordingStartTime),
		"recording_end_time":   valueTime(o.RecordingEndTime),
		"lat":                  valueFloat(o.Lat),
		"long":                 valueFloat(o.Long),
		"note":                 o.Note,
		"state":                o.State,
	}
}

func questionFormValues(q domain.Question) map[string]string {
	return map[string]string{
		"prompt":         q.Prompt,
		"data_type":      valueString(q.DataTypeID),
		"data_type_name": q.DataTypeName,
		"workflow":       valueString(q.WorkflowID),
	}
}

func dataTypeFormValues(d domain.DataType) map[string]string {
	return map[string]string{
		"name":              d.Name,
		"is_user_data_type": valueBool(d.IsUserDataType),
		"csharp_type":       d.CSharpType,
	}
}

func projectConfigFormValues(c domain.ProjectConfig) map[string]string {
	return map[string]string{
		"publish_date":   valueTime(c.PublishDate),
		"project":        c.Project,
		"config_folder":  c.ConfigFolder,
		"config_file":    c.ConfigFile,
		"image":          c.Image,
		"transects_file": c.TransectsFile,
	}
}

func dataLogFileFormValues(f domain.DataLogFile) map[string]string {
	return map[string]string{
		"upload_date": valueTime(f.UploadDate),
		"uploaded_by": f.UploadedBy,
		"contents":    f.Contents,
	}
}

func writeCSV(w http.ResponseWriter, filename string, header [][]string, body func(out *csv.Writer)) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	out := csv.NewWriter(w)
	for _, row := range header {
		_ = out.Write(row)
	}
	body(out)
	out.Flush()
}

func csvTime(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func csvFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func csvInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
