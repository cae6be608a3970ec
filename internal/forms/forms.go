// Package forms describes the edit forms rendered on detail pages.
// Searchable relation fields are declared as SelectFieldConfig values and
// served by the picker endpoints.
package forms

// SelectFieldConfig declares a searchable dropdown: which form field it
// backs, its placeholder, and the record fields the picker searches.
type SelectFieldConfig struct {
	FieldName    string
	Placeholder  string
	SearchFields []string
}

var (
	TemplateTransectPicker = SelectFieldConfig{
		FieldName:    "transect_template",
		Placeholder:  "Search template transects",
		SearchFields: []string{"name", "id"},
	}
	CompletedTransectPicker = SelectFieldConfig{
		FieldName:    "transect",
		Placeholder:  "Search completed transects",
		SearchFields: []string{"name", "uid"},
	}
	CompletedOccurrencePicker = SelectFieldConfig{
		FieldName:    "occurrence",
		Placeholder:  "Search occurrences",
		SearchFields: []string{"transect.name", "transect.uid", "occurrence_number"},
	}
	TemplateWorkflowPicker = SelectFieldConfig{
		FieldName:    "template_workflow",
		Placeholder:  "Search template workflows",
		SearchFields: []string{"name", "id"},
	}
	DataTypePicker = SelectFieldConfig{
		FieldName:    "data_type",
		Placeholder:  "Search data types",
		SearchFields: []string{"name", "id"},
	}
	DataLogFilePicker = SelectFieldConfig{
		FieldName:    "data_log_file",
		Placeholder:  "Search data log files",
		SearchFields: []string{"id", "uploaded_by"},
	}
)

// Field is one form input.
type Field struct {
	Name   string
	Label  string
	Kind   string // "text", "number", "datetime-local", "checkbox", "textarea", "picker"
	Picker *SelectFieldConfig
}

// Form is the edit form for one entity's detail page.
type Form struct {
	Entity string
	Fields []Field
}

var TransectForm = Form{Entity: "transect", Fields: []Field{
	{Name: "name", Label: "Name", Kind: "text"},
	{Name: "transect_template", Label: "Template transect", Kind: "picker", Picker: &TemplateTransectPicker},
	{Name: "start_time", Label: "Start time", Kind: "datetime-local"},
	{Name: "turn_time", Label: "Turn time", Kind: "datetime-local"},
	{Name: "end_time", Label: "End time", Kind: "datetime-local"},
	{Name: "lat_from", Label: "Latitude (start)", Kind: "number"},
	{Name: "long_from", Label: "Longitude (start)", Kind: "number"},
	{Name: "lat_turn", Label: "Latitude (turn)", Kind: "number"},
	{Name: "long_turn", Label: "Longitude (turn)", Kind: "number"},
	{Name: "lat_to", Label: "Latitude (end)", Kind: "number"},
	{Name: "long_to", Label: "Longitude (end)", Kind: "number"},
	{Name: "distance_km", Label: "Distance (km)", Kind: "number"},
	{Name: "angle_degrees", Label: "Angle (degrees)", Kind: "number"},
	{Name: "state", Label: "State", Kind: "text"},
	{Name: "paused_for_minutes", Label: "Paused (minutes)", Kind: "number"},
}}

var OccurrenceForm = Form{Entity: "occurrence", Fields: []Field{
	{Name: "transect", Label: "Transect", Kind: "picker", Picker: &CompletedTransectPicker},
	{Name: "occurrence_number", Label: "Occurrence number", Kind: "number"},
	{Name: "recording_start_time", Label: "Recording start", Kind: "datetime-local"},
	{Name: "recording_end_time", Label: "Recording end", Kind: "datetime-local"},
	{Name: "lat", Label: "Latitude", Kind: "number"},
	{Name: "long", Label: "Longitude", Kind: "number"},
	{Name: "note", Label: "Note", Kind: "textarea"},
	{Name: "state", Label: "State", Kind: "text"},
}}

var QuestionForm = Form{Entity: "question", Fields: []Field{
	{Name: "prompt", Label: "Prompt", Kind: "textarea"},
	{Name: "data_type", Label: "Data type", Kind: "picker", Picker: &DataTypePicker},
	{Name: "data_type_name", Label: "Data type name", Kind: "text"},
	{Name: "workflow", Label: "Workflow", Kind: "picker", Picker: &TemplateWorkflowPicker},
}}

var DataTypeForm = Form{Entity: "data_type", Fields: []Field{
	{Name: "name", Label: "Name", Kind: "text"},
	{Name: "is_user_data_type", Label: "User data type", Kind: "checkbox"},
	{Name: "csharp_type", Label: "C# type", Kind: "text"},
}}

var ProjectConfigForm = Form{Entity: "project_config", Fields: []Field{
	{Name: "publish_date", Label: "Publish date", Kind: "datetime-local"},
	{Name: "project", Label: "Project", Kind: "text"},
	{Name: "config_folder", Label: "Config folder", Kind: "text"},
	{Name: "config_file", Label: "Config file", Kind: "textarea"},
	{Name: "image", Label: "Image", Kind: "textarea"},
	{Name: "transects_file", Label: "Transects file", Kind: "textarea"},
}}

var DataLogFileForm = Form{Entity: "data_log", Fields: []Field{
	{Name: "upload_date", Label: "Upload date", Kind: "datetime-local"},
	{Name: "uploaded_by", Label: "Uploaded by", Kind: "text"},
	{Name: "contents", Label: "Contents", Kind: "textarea"},
}}
