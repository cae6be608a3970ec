package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/karilint/bones/internal/readmodel"
)

type pickerSignals struct {
	Query string `json:"query"`
}

type pickerOption struct {
	Value string
	Label string
}

// pickerData feeds the picker_select fragment. Name is the form input
// name, Field the picker key the <select> id is derived from.
type pickerData struct {
	Name    string
	Field   string
	Options []pickerOption
}

func (h *Handler) renderPicker(w http.ResponseWriter, data pickerData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "picker_select.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func readPickerQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	var sig pickerSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		http.Error(w, "invalid picker query", http.StatusBadRequest)
		return "", false
	}
	return sig.Query, true
}

func (h *Handler) handlePickerTemplateTransects(w http.ResponseWriter, r *http.Request) {
	query, ok := readPickerQuery(w, r)
	if !ok {
		return
	}
	templates, err := h.service.SearchTemplateTransects(r.Context(), query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	options := make([]pickerOption, 0, len(templates))
	for _, t := range templates {
		options = append(options, pickerOption{Value: t.ID, Label: t.Name})
	}
	h.renderPicker(w, pickerData{Name: "transect_template", Field: "transect_template", Options: options})
}

func (h *Handler) handlePickerTransects(w http.ResponseWriter, r *http.Request) {
	query, ok := readPickerQuery(w, r)
	if !ok {
		return
	}
	transects, err := h.service.SearchTransects(r.Context(), query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	options := make([]pickerOption, 0, len(transects))
	for _, t := range transects {
		options = append(options, pickerOption{
			Value: strconv.FormatUint(uint64(t.UID), 10),
			Label: fmt.Sprintf("%s (#%d)", t.Name, t.UID),
		})
	}
	h.renderPicker(w, pickerData{Name: "transect", Field: "transect", Options: options})
}

func (h *Handler) handlePickerOccurrences(w http.ResponseWriter, r *http.Request) {
	query, ok := readPickerQuery(w, r)
	if !ok {
		return
	}
	occurrences, err := h.service.SearchOccurrences(r.Context(), query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	options := make([]pickerOption, 0, len(occurrences))
	for _, o := range occurrences {
		number := readmodel.EmDash
		if o.OccurrenceNumber != nil {
			number = strconv.Itoa(*o.OccurrenceNumber)
		}
		label := fmt.Sprintf("Occurrence %s", number)
		if o.TransectName != "" {
			label = fmt.Sprintf("%s (%s)", label, o.TransectName)
		}
		options = append(options, pickerOption{Value: strconv.FormatUint(uint64(o.ID), 10), Label: label})
	}
	h.renderPicker(w, pickerData{Name: "occurrence", Field: "occurrence", Options: options})
}

func (h *Handler) handlePickerTemplateWorkflows(w http.ResponseWriter, r *http.Request) {
	query, ok := readPickerQuery(w, r)
	if !ok {
		return
	}
	workflows, err := h.service.SearchTemplateWorkflows(r.Context(), query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	options := make([]pickerOption, 0, len(workflows))
	for _, wf := range workflows {
		options = append(options, pickerOption{Value: wf.ID, Label: wf.Name})
	}
	h.renderPicker(w, pickerData{Name: "workflow", Field: "template_workflow", Options: options})
}

func (h *Handler) handlePickerDataTypes(w http.ResponseWriter, r *http.Request) {
	query, ok := readPickerQuery(w, r)
	if !ok {
		return
	}
	dataTypes, err := h.service.SearchDataTypes(r.Context(), query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	options := make([]pickerOption, 0, len(dataTypes))
	for _, d := range dataTypes {
		options = append(options, pickerOption{Value: d.ID, Label: d.Name})
	}
	h.renderPicker(w, pickerData{Name: "data_type", Field: "data_type", Options: options})
}

func (h *Handler) handlePickerDataLogFiles(w http.ResponseWriter, r *http.Request) {
	query, ok := readPickerQuery(w, r)
	if !ok {
		return
	}
	files, err := h.service.SearchDataLogFiles(r.Context(), query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	options := make([]pickerOption, 0, len(files))
	for _, f := range files {
		label := fmt.Sprintf("Upload #%d", f.ID)
		if f.UploadedBy != "" {
			label = fmt.Sprintf("%s by %s", label, f.UploadedBy)
		}
		options = append(options, pickerOption{Value: strconv.FormatUint(uint64(f.ID), 10), Label: label})
	}
	h.renderPicker(w, pickerData{Name: "data_log_file", Field: "data_log_file", Options: options})
}
