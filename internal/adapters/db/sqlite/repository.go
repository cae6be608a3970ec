package sqlite

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/karilint/bones/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

type SurveyRepository struct {
	db *gorm.DB
}

func Open(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{})
}

func NewSurveyRepository(db *gorm.DB) *SurveyRepository {
	return &SurveyRepository{db: db}
}

func (r *SurveyRepository) transectQuery(ctx context.Context, filter domain.TransectFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&TransectModel{})
	if filter.StartDate != nil {
		q = q.Where("completed_transects.start_time >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("completed_transects.end_time <= ?", *filter.EndDate)
	}
	if filter.State != "" {
		q = q.Where("completed_transects.state = ?", filter.State)
	}
	if filter.TemplateID != "" {
		q = q.Where("completed_transects.template_id = ?", filter.TemplateID)
	}
	return q
}

func (r *SurveyRepository) ListTransects(ctx context.Context, filter domain.TransectFilter, limit, offset int) ([]domain.CompletedTransect, error) {
	type row struct {
		TransectModel
		TemplateName    string
		OccurrenceCount int
	}
	rows := make([]row, 0)
	q := r.transectQuery(ctx, filter).
		Select("completed_transects.*, COALESCE(template_transects.name, '') AS template_name, (SELECT COUNT(*) FROM completed_occurrences o WHERE o.transect_uid = completed_transects.uid) AS occurrence_count").
		Joins("LEFT JOIN template_transects ON template_transects.id = completed_transects.template_id").
		Order("completed_transects.start_time DESC, completed_transects.uid DESC").
		Limit(limit).Offset(offset)
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]domain.CompletedTransect, 0, len(rows))
	for _, m := range rows {
		t := transectToDomain(m.TransectModel)
		t.TemplateName = m.TemplateName
		t.OccurrenceCount = m.OccurrenceCount
		result = append(result, t)
	}
	return result, nil
}

func (r *SurveyRepository) CountTransects(ctx context.Context, filter domain.TransectFilter) (int64, error) {
	var count int64
	if err := r.transectQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SurveyRepository) GetTransect(ctx context.Context, uid uint) (domain.CompletedTransect, error) {
	type row struct {
		TransectModel
		TemplateName    string
		OccurrenceCount int
	}
	var m row
	err := r.db.WithContext(ctx).Model(&TransectModel{}).
		Select("completed_transects.*, COALESCE(template_transects.name, '') AS template_name, (SELECT COUNT(*) FROM completed_occurrences o WHERE o.transect_uid = completed_transects.uid) AS occurrence_count").
		Joins("LEFT JOIN template_transects ON template_transects.id = completed_transects.template_id").
		Where("completed_transects.uid = ?", uid).
		Scan(&m).Error
	if err != nil {
		return domain.CompletedTransect{}, err
	}
	if m.UID == 0 {
		return domain.CompletedTransect{}, gorm.ErrRecordNotFound
	}

	t := transectToDomain(m.TransectModel)
	t.TemplateName = m.TemplateName
	t.OccurrenceCount = m.OccurrenceCount
	return t, nil
}

func (r *SurveyRepository) SaveTransect(ctx context.Context, value domain.CompletedTransect, actor string) (domain.CompletedTransect, error) {
	m := TransectModel{
		UID:              value.UID,
		Name:             value.Name,
		StartTime:        value.StartTime,
		TurnTime:         value.TurnTime,
		EndTime:          value.EndTime,
		LatFrom:          value.LatFrom,
		LongFrom:         value.LongFrom,
		LatTurn:          value.LatTurn,
		LongTurn:         value.LongTurn,
		LatTo:            value.LatTo,
		LongTo:           value.LongTo,
		DistanceKM:       value.DistanceKM,
		AngleDegrees:     value.AngleDegrees,
		State:            value.State,
		TemplateID:       value.TemplateID,
		PausedForMinutes: value.PausedForMinutes,
	}
	changeType := domain.HistoryChanged
	if m.UID == 0 {
		changeType = domain.HistoryCreated
	}
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return domain.CompletedTransect{}, err
	}
	r.writeHistory(ctx, domain.EntityTransect, strconv.FormatUint(uint64(m.UID), 10), m.Name, changeType, actor)
	return transectToDomain(m), nil
}

func (r *SurveyRepository) ListTransectDetails(ctx context.Context, uid uint) ([]domain.TransectDetail, error) {
	rows := make([]TransectDetailModel, 0)
	if err := r.db.WithContext(ctx).Where("transect_uid = ?", uid).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.TransectDetail, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.TransectDetail{ID: m.ID, TransectUID: m.TransectUID, PreOrPost: m.PreOrPost, QuestionText: m.QuestionText, Response: m.Response})
	}
	return result, nil
}

func (r *SurveyRepository) ListTrackPoints(ctx context.Context, uid uint) ([]domain.TransectTrackPoint, error) {
	rows := make([]TrackPointModel, 0)
	if err := r.db.WithContext(ctx).Where("transect_uid = ?", uid).Order("time ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.TransectTrackPoint, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.TransectTrackPoint{
			ID:           m.ID,
			TransectUID:  m.TransectUID,
			Time:         m.Time,
			Lat:          m.Lat,
			Long:         m.Long,
			IsStart:      m.IsStart,
			IsCheckpoint: m.IsCheckpoint,
			IsOccurrence: m.IsOccurrence,
			IsTurnPoint:  m.IsTurnPoint,
			IsEnd:        m.IsEnd,
		})
	}
	return result, nil
}

func (r *SurveyRepository) ListTransectOccurrences(ctx context.Context, uid uint) ([]domain.CompletedOccurrence, error) {
	return r.ListOccurrences(ctx, domain.OccurrenceFilter{TransectUID: &uid}, 500, 0)
}

func (r *SurveyRepository) TransectStates(ctx context.Context) ([]string, error) {
	return r.distinctStates(ctx, "completed_transects")
}

func (r *SurveyRepository) CountPendingAudits(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&TransectModel{}).
		Where("LOWER(state) LIKE ?", "%audit%").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SurveyRepository) distinctStates(ctx context.Context, table string) ([]string, error) {
	values := make([]string, 0)
	err := r.db.WithContext(ctx).
		Table(table).
		Distinct("state").
		Where("state IS NOT NULL AND state <> ''").
		Order("state ASC").
		Pluck("state", &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (r *SurveyRepository) occurrenceQuery(ctx context.Context, filter domain.OccurrenceFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&OccurrenceModel{})
	if filter.StartDate != nil {
		q = q.Where("completed_occurrences.recording_start_time >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("completed_occurrences.recording_end_time <= ?", *filter.EndDate)
	}
	if filter.State != "" {
		q = q.Where("completed_occurrences.state = ?", filter.State)
	}
	if filter.TransectUID != nil {
		q = q.Where("completed_occurrences.transect_uid = ?", *filter.TransectUID)
	}
	if filter.OccurrenceNumber != nil {
		q = q.Where("completed_occurrences.occurrence_number = ?", *filter.OccurrenceNumber)
	}
	return q
}

func (r *SurveyRepository) ListOccurrences(ctx context.Context, filter domain.OccurrenceFilter, limit, offset int) ([]domain.CompletedOccurrence, error) {
	type row struct {
		OccurrenceModel
		TransectName  string
		TemplateName  string
		ResponseCount int
		WorkflowCount int
	}
	rows := make([]row, 0)
	q := r.occurrenceQuery(ctx, filter).
		Select(`completed_occurrences.*,
			COALESCE(completed_transects.name, '') AS transect_name,
			COALESCE(template_transects.name, '') AS template_name,
			(SELECT COUNT(*) FROM completed_responses cr WHERE cr.occurrence_id = completed_occurrences.id) AS response_count,
			(SELECT COUNT(*) FROM completed_workflows cw WHERE cw.occurrence_id = completed_occurrences.id) AS workflow_count`).
		Joins("LEFT JOIN completed_transects ON completed_transects.uid = completed_occurrences.transect_uid").
		Joins("LEFT JOIN template_transects ON template_transects.id = completed_transects.template_id").
		Order("completed_occurrences.recording_start_time DESC, completed_occurrences.id DESC").
		Limit(limit).Offset(offset)
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]domain.CompletedOccurrence, 0, len(rows))
	for _, m := range rows {
		o := occurrenceToDomain(m.OccurrenceModel)
		o.TransectName = m.TransectName
		o.TemplateName = m.TemplateName
		o.ResponseCount = m.ResponseCount
		o.WorkflowCount = m.WorkflowCount
		result = append(result, o)
	}
	return result, nil
}

func (r *SurveyRepository) CountOccurrences(ctx context.Context, filter domain.OccurrenceFilter) (int64, error) {
	var count int64
	if err := r.occurrenceQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SurveyRepository) GetOccurrence(ctx context.Context, id uint) (domain.CompletedOccurrence, error) {
	type row struct {
		OccurrenceModel
		TransectName string
		TemplateName string
	}
	var m row
	err := r.db.WithContext(ctx).Model(&OccurrenceModel{}).
		Select("completed_occurrences.*, COALESCE(completed_transects.name, '') AS transect_name, COALESCE(template_transects.name, '') AS template_name").
		Joins("LEFT JOIN completed_transects ON completed_transects.uid = completed_occurrences.transect_uid").
		Joins("LEFT JOIN template_transects ON template_transects.id = completed_transects.template_id").
		Where("completed_occurrences.id = ?", id).
		Scan(&m).Error
	if err != nil {
		return domain.CompletedOccurrence{}, err
	}
	if m.ID == 0 {
		return domain.CompletedOccurrence{}, gorm.ErrRecordNotFound
	}

	o := occurrenceToDomain(m.OccurrenceModel)
	o.TransectName = m.TransectName
	o.TemplateName = m.TemplateName
	return o, nil
}

func (r *SurveyRepository) SaveOccurrence(ctx context.Context, value domain.CompletedOccurrence, actor string) (domain.CompletedOccurrence, error) {
	m := OccurrenceModel{
		ID:                 value.ID,
		TransectUID:        value.TransectUID,
		OccurrenceNumber:   value.OccurrenceNumber,
		RecordingStartTime: value.RecordingStartTime,
		RecordingEndTime:   value.RecordingEndTime,
		Lat:                value.Lat,
		Long:               value.Long,
		Note:               value.Note,
		State:              value.State,
	}
	changeType := domain.HistoryChanged
	if m.ID == 0 {
		changeType = domain.HistoryCreated
	}
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return domain.CompletedOccurrence{}, err
	}
	label := "Occurrence"
	if m.OccurrenceNumber != nil {
		label = "Occurrence " + strconv.Itoa(*m.OccurrenceNumber)
	}
	r.writeHistory(ctx, domain.EntityOccurrence, strconv.FormatUint(uint64(m.ID), 10), label, changeType, actor)
	return occurrenceToDomain(m), nil
}

func (r *SurveyRepository) ListOccurrenceDetails(ctx context.Context, id uint) ([]domain.OccurrenceDetail, error) {
	rows := make([]OccurrenceDetailModel, 0)
	if err := r.db.WithContext(ctx).Where("occurrence_id = ?", id).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.OccurrenceDetail, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.OccurrenceDetail{ID: m.ID, OccurrenceID: m.OccurrenceID, PreOrPost: m.PreOrPost, QuestionText: m.QuestionText, Response: m.Response})
	}
	return result, nil
}

func (r *SurveyRepository) ListOccurrenceResponses(ctx context.Context, id uint) ([]domain.CompletedResponse, error) {
	rows := make([]ResponseModel, 0)
	if err := r.db.WithContext(ctx).Where("occurrence_id = ?", id).Order("question_number ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.CompletedResponse, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.CompletedResponse{
			ID:             m.ID,
			OccurrenceID:   m.OccurrenceID,
			WorkflowUID:    m.WorkflowUID,
			QuestionNumber: m.QuestionNumber,
			QuestionText:   m.QuestionText,
			ResponseCode:   m.ResponseCode,
			Response:       m.Response,
			Skipped:        m.Skipped,
			QuestionID:     m.QuestionID,
		})
	}
	return result, nil
}

func (r *SurveyRepository) ListOccurrenceWorkflows(ctx context.Context, id uint) ([]domain.CompletedWorkflow, error) {
	return r.ListWorkflows(ctx, domain.WorkflowFilter{OccurrenceID: &id}, 500, 0)
}

func (r *SurveyRepository) OccurrenceStates(ctx context.Context) ([]string, error) {
	return r.distinctStates(ctx, "completed_occurrences")
}

func (r *SurveyRepository) CountOpenOccurrences(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&OccurrenceModel{}).
		Where("recording_end_time IS NULL").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SurveyRepository) workflowQuery(ctx context.Context, filter domain.WorkflowFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&WorkflowModel{})
	if filter.OccurrenceID != nil {
		q = q.Where("completed_workflows.occurrence_id = ?", *filter.OccurrenceID)
	}
	if filter.TemplateWorkflowID != "" {
		q = q.Where("completed_workflows.template_workflow_id = ?", filter.TemplateWorkflowID)
	}
	if filter.CompletedBy != "" {
		q = q.Where("completed_workflows.completed_by LIKE ?", "%"+filter.CompletedBy+"%")
	}
	if filter.InstanceNumber != nil {
		q = q.Where("completed_workflows.instance_number = ?", *filter.InstanceNumber)
	}
	return q
}

func (r *SurveyRepository) ListWorkflows(ctx context.Context, filter domain.WorkflowFilter, limit, offset int) ([]domain.CompletedWorkflow, error) {
	type row struct {
		WorkflowModel
		TemplateWorkflowName string
		OccurrenceNumber2    *int `gorm:"column:occ_number"`
		TransectName         string
	}
	rows := make([]row, 0)
	q := r.workflowQuery(ctx, filter).
		Select(`completed_workflows.*,
			COALESCE(template_workflows.name, '') AS template_workflow_name,
			completed_occurrences.occurrence_number AS occ_number,
			COALESCE(completed_transects.name, '') AS transect_name`).
		Joins("LEFT JOIN template_workflows ON template_workflows.id = completed_workflows.template_workflow_id").
		Joins("LEFT JOIN completed_occurrences ON completed_occurrences.id = completed_workflows.occurrence_id").
		Joins("LEFT JOIN completed_transects ON completed_transects.uid = completed_occurrences.transect_uid").
		Order("completed_workflows.instance_number DESC, completed_workflows.uid DESC").
		Limit(limit).Offset(offset)
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]domain.CompletedWorkflow, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.CompletedWorkflow{
			UID:                  m.UID,
			OccurrenceID:         m.OccurrenceID,
			TemplateWorkflowID:   m.TemplateWorkflowID,
			InstanceNumber:       m.InstanceNumber,
			CompletedBy:          m.CompletedBy,
			TemplateWorkflowName: m.TemplateWorkflowName,
			OccurrenceNumber:     m.OccurrenceNumber2,
			TransectName:         m.TransectName,
		})
	}
	return result, nil
}

func (r *SurveyRepository) CountWorkflows(ctx context.Context, filter domain.WorkflowFilter) (int64, error) {
	var count int64
	if err := r.workflowQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SurveyRepository) GetWorkflow(ctx context.Context, uid string) (domain.CompletedWorkflow, error) {
	type row struct {
		WorkflowModel
		TemplateWorkflowName string
		OccurrenceNumber2    *int `gorm:"column:occ_number"`
		TransectName         string
	}
	var m row
	err := r.db.WithContext(ctx).Model(&WorkflowModel{}).
		Select(`completed_workflows.*,
			COALESCE(template_workflows.name, '') AS template_workflow_name,
			completed_occurrences.occurrence_number AS occ_number,
			COALESCE(completed_transects.name, '') AS transect_name`).
		Joins("LEFT JOIN template_workflows ON template_workflows.id = completed_workflows.template_workflow_id").
		Joins("LEFT JOIN completed_occurrences ON completed_occurrences.id = completed_workflows.occurrence_id").
		Joins("LEFT JOIN completed_transects ON completed_transects.uid = completed_occurrences.transect_uid").
		Where("completed_workflows.uid = ?", uid).
		Scan(&m).Error
	if err != nil {
		return domain.CompletedWorkflow{}, err
	}
	if m.UID == "" {
		return domain.CompletedWorkflow{}, gorm.ErrRecordNotFound
	}

	return domain.CompletedWorkflow{
		UID:                  m.UID,
		OccurrenceID:         m.OccurrenceID,
		TemplateWorkflowID:   m.TemplateWorkflowID,
		InstanceNumber:       m.InstanceNumber,
		CompletedBy:          m.CompletedBy,
		TemplateWorkflowName: m.TemplateWorkflowName,
		OccurrenceNumber:     m.OccurrenceNumber2,
		TransectName:         m.TransectName,
	}, nil
}

func (r *SurveyRepository) CountOpenWorkflows(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&WorkflowModel{}).
		Where("completed_by IS NULL OR completed_by = ''").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SurveyRepository) templateTransectQuery(ctx context.Context, filter domain.TemplateTransectFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&TemplateTransectModel{})
	if filter.ScheduledAfter != nil {
		q = q.Where("scheduled_time >= ?", *filter.ScheduledAfter)
	}
	if filter.ScheduledBefore != nil {
		q = q.Where("scheduled_time <= ?", *filter.ScheduledBefore)
	}
	if filter.Name != "" {
		q = q.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	return q
}

func (r *SurveyRepository) ListTemplateTransects(ctx context.Context, filter domain.TemplateTransectFilter, limit, offset int) ([]domain.TemplateTransect, error) {
	rows := make([]TemplateTransectModel, 0)
	q := r.templateTransectQuery(ctx, filter).
		Order("scheduled_time DESC, id DESC").
		Limit(limit).Offset(offset)
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.TemplateTransect, 0, len(rows))
	for _, m := range rows {
		result = append(result, templateTransectToDomain(m))
	}
	return result, nil
}

func (r *SurveyRepository) CountTemplateTransects(ctx context.Context, filter domain.TemplateTransectFilter) (int64, error) {
	var count int64
	if err := r.templateTransectQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SurveyRepository) GetTemplateTransect(ctx context.Context, id string) (domain.TemplateTransect, error) {
	var m TemplateTransectModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return domain.TemplateTransect{}, err
	}
	return templateTransectToDomain(m), nil
}

func (r *SurveyRepository) SearchTemplateTransects(ctx context.Context, query string, limit int) ([]domain.TemplateTransect, error) {
	q := r.db.WithContext(ctx).Model(&TemplateTransectModel{})
	if strings.TrimSpace(query) != "" {
		like := "%" + strings.TrimSpace(query) + "%"
		q = q.Where("name LIKE ? OR id LIKE ?", like, like)
	}
	rows := make([]TemplateTransectModel, 0)
	if err := q.Order("name ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.TemplateTransect, 0, len(rows))
	for _, m := range rows {
		result = append(result, templateTransectToDomain(m))
	}
	return result, nil
}

func (r *SurveyRepository) SearchTemplateWorkflows(ctx context.Context, query string, limit int) ([]domain.TemplateWorkflow, error) {
	q := r.db.WithContext(ctx).Model(&TemplateWorkflowModel{})
	if strings.TrimSpace(query) != "" {
		like := "%" + strings.TrimSpace(query) + "%"
		q = q.Where("name LIKE ? OR id LIKE ?", like, like)
	}
	rows := make([]TemplateWorkflowModel, 0)
	if err := q.Order("name ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.TemplateWorkflow, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.TemplateWorkflow{ID: m.ID, Name: m.Name, DateAdded: m.DateAdded, AddedBy: m.AddedBy})
	}
	return result, nil
}

func (r *SurveyRepository) SearchTransects(ctx context.Context, query string, limit int) ([]domain.CompletedTransect, error) {
	q := r.db.WithContext(ctx).Model(&TransectModel{})
	if strings.TrimSpace(query) != "" {
		like := "%" + strings.TrimSpace(query) + "%"
		q = q.Where("name LIKE ? OR CAST(uid AS TEXT) LIKE ?", like, like)
	}
	rows := make([]TransectModel, 0)
	if err := q.Order("name ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.CompletedTransect, 0, len(rows))
	for _, m := range rows {
		result = append(result, transectToDomain(m))
	}
	return result, nil
}

func (r *SurveyRepository) SearchOccurrences(ctx context.Context, query string, limit int) ([]domain.CompletedOccurrence, error) {
	type row struct {
		OccurrenceModel
		TransectName string
	}
	q := r.db.WithContext(ctx).Model(&OccurrenceModel{}).
		Select("completed_occurrences.*, COALESCE(completed_transects.name, '') AS transect_name").
		Joins("LEFT JOIN completed_transects ON completed_transects.uid = completed_occurrences.transect_uid")
	if strings.TrimSpace(query) != "" {
		like := "%" + strings.TrimSpace(query) + "%"
		q = q.Where("completed_transects.name LIKE ? OR CAST(completed_occurrences.transect_uid AS TEXT) LIKE ? OR CAST(completed_occurrences.occurrence_number AS TEXT) LIKE ?", like, like, like)
	}
	rows := make([]row, 0)
	if err := q.Order("completed_occurrences.id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.CompletedOccurrence, 0, len(rows))
	for _, m := range rows {
		o := occurrenceToDomain(m.OccurrenceModel)
		o.TransectName = m.TransectName
		result = append(result, o)
	}
	return result, nil
}

func (r *SurveyRepository) questionQuery(ctx context.Context, filter domain.QuestionFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&QuestionModel{})
	if filter.WorkflowID != "" {
		q = q.Where("questions.workflow_id = ?", filter.WorkflowID)
	}
	if filter.DataTypeID != "" {
		q = q.Where("questions.data_type_id = ?", filter.DataTypeID)
	}
	if filter.Prompt != "" {
		q = q.Where("questions.prompt LIKE ?", "%"+filter.Prompt+"%")
	}
	if filter.DataTypeName != "" {
		q = q.Where("questions.data_type_name LIKE ?", "%"+filter.DataTypeName+"%")
	}
	return q
}

func (r *SurveyRepository) ListQuestions(ctx context.Context, filter domain.QuestionFilter, limit, offset int) ([]domain.Question, error) {
	type row struct {
		QuestionModel
		DataTypeLabel string
		WorkflowName  string
	}
	rows := make([]row, 0)
	q := r.questionQuery(ctx, filter).
		Select("questions.*, COALESCE(data_types.name, '') AS data_type_label, COALESCE(template_workflows.name, '') AS workflow_name").
		Joins("LEFT JOIN data_types ON data_types.id = questions.data_type_id").
		Joins("LEFT JOIN template_workflows ON template_workflows.id = questions.workflow_id").
		Order("questions.prompt ASC").
		Limit(limit).Offset(offset)
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]domain.Question, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.Question{
			ID:            m.ID,
			Prompt:        m.Prompt,
			DataTypeID:    m.DataTypeID,
			DataTypeName:  m.DataTypeName,
			WorkflowID:    m.WorkflowID,
			DataTypeLabel: m.DataTypeLabel,
			WorkflowName:  m.WorkflowName,
		})
	}
	return result, nil
}

func (r *SurveyRepository) CountQuestions(ctx context.Context, filter domain.QuestionFilter) (int64, error) {
	var count int64
	if err := r.questionQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SurveyRepository) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	type row struct {
		QuestionModel
		DataTypeLabel string
		WorkflowName  string
	}
	var m row
	err := r.db.WithContext(ctx).Model(&QuestionModel{}).
		Select("questions.*, COALESCE(data_types.name, '') AS data_type_label, COALESCE(template_workflows.name, '') AS workflow_name").
		Joins("LEFT JOIN data_types ON data_types.id = questions.data_type_id").
		Joins("LEFT JOIN template_workflows ON template_workflows.id = questions.workflow_id").
		Where("questions.id = ?", id).
		Scan(&m).Error
	if err != nil {
		return domain.Question{}, err
	}
	if m.ID == "" {
		return domain.Question{}, gorm.ErrRecordNotFound
	}

	return domain.Question{
		ID:            m.ID,
		Prompt:        m.Prompt,
		DataTypeID:    m.DataTypeID,
		DataTypeName:  m.DataTypeName,
		WorkflowID:    m.WorkflowID,
		DataTypeLabel: m.DataTypeLabel,
		WorkflowName:  m.WorkflowName,
	}, nil
}

func (r *SurveyRepository) SaveQuestion(ctx context.Context, value domain.Question, actor string) (domain.Question, error) {
	m := QuestionModel{
		ID:           value.ID,
		Prompt:       value.Prompt,
		DataTypeID:   value.DataTypeID,
		DataTypeName: value.DataTypeName,
		WorkflowID:   value.WorkflowID,
	}
	changeType := domain.HistoryChanged
	if m.ID == "" {
		m.ID = newGUID()
		changeType = domain.HistoryCreated
	}
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return domain.Question{}, err
	}
	r.writeHistory(ctx, domain.EntityQuestion, m.ID, m.Prompt, changeType, actor)
	return domain.Question{ID: m.ID, Prompt: m.Prompt, DataTypeID: m.DataTypeID, DataTypeName: m.DataTypeName, WorkflowID: m.WorkflowID}, nil
}

func (r *SurveyRepository) dataTypeQuery(ctx context.Context, filter domain.DataTypeFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&DataTypeModel{})
	if filter.Name != "" {
		q = q.Where("data_types.name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.IsUserDataType != nil {
		q = q.Where("data_types.is_user_data_type = ?", *filter.IsUserDataType)
	}
	return q
}

func (r *SurveyRepository) ListDataTypes(ctx context.Context, filter domain.DataTypeFilter, limit, offset int) ([]domain.DataType, error) {
	type row struct {
		DataTypeModel
		OptionCount   int
		QuestionCount int
	}
	rows := make([]row, 0)
	q := r.dataTypeQuery(ctx, filter).
		Select(`data_types.*,
			(SELECT COUNT(*) FROM data_type_options o WHERE o.data_type_id = data_types.id) AS option_count,
			(SELECT COUNT(*) FROM questions qu WHERE qu.data_type_id = data_types.id) AS question_count`).
		Order("data_types.name ASC").
		Limit(limit).Offset(offset)
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]domain.DataType, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.DataType{
			ID:             m.ID,
			Name:           m.Name,
			IsUserDataType: m.IsUserDataType,
			CSharpType:     m.CSharpType,
			OptionCount:    m.OptionCount,
			QuestionCount:  m.QuestionCount,
		})
	}
	return result, nil
}

func (r *SurveyRepository) CountDataTypes(ctx context.Context, filter domain.DataTypeFilter) (int64, error) {
	var count int64
	if err := r.dataTypeQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SurveyRepository) GetDataType(ctx context.Context, id string) (domain.DataType, error) {
	type row struct {
		DataTypeModel
		OptionCount   int
		QuestionCount int
	}
	var m row
	err := r.db.WithContext(ctx).Model(&DataTypeModel{}).
		Select(`data_types.*,
			(SELECT COUNT(*) FROM data_type_options o WHERE o.data_type_id = data_types.id) AS option_count,
			(SELECT COUNT(*) FROM questions qu WHERE qu.data_type_id = data_types.id) AS question_count`).
		Where("data_types.id = ?", id).
		Scan(&m).Error
	if err != nil {
		return domain.DataType{}, err
	}
	if m.ID == "" {
		return domain.DataType{}, gorm.ErrRecordNotFound
	}

	return domain.DataType{
		ID:             m.ID,
		Name:           m.Name,
		IsUserDataType: m.IsUserDataType,
		CSharpType:     m.CSharpType,
		OptionCount:    m.OptionCount,
		QuestionCount:  m.QuestionCount,
	}, nil
}

func (r *SurveyRepository) SaveDataType(ctx context.Context, value domain.DataType, actor string) (domain.DataType, error) {
	m := DataTypeModel{ID: value.ID, Name: value.Name, IsUserDataType: value.IsUserDataType, CSharpType: value.CSharpType}
	if m.ID == "" {
		m.ID = newGUID()
	}
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return domain.DataType{}, err
	}
	return domain.DataType{ID: m.ID, Name: m.Name, IsUserDataType: m.IsUserDataType, CSharpType: m.CSharpType}, nil
}

func (r *SurveyRepository) dataTypeOptionQuery(ctx context.Context, filter domain.DataTypeOptionFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&DataTypeOptionModel{})
	if filter.DataTypeID != "" {
		q = q.Where("data_type_options.data_type_id = ?", filter.DataTypeID)
	}
	if filter.Code != "" {
		q = q.Where("data_type_options.code LIKE ?", "%"+filter.Code+"%")
	}
	if filter.Text != "" {
		q = q.Where("data_type_options.text LIKE ?", "%"+filter.Text+"%")
	}
	return q
}

func (r *SurveyRepository) ListDataTypeOptions(ctx context.Context, filter domain.DataTypeOptionFilter, limit, offset int) ([]domain.DataTypeOption, error) {
	type row struct {
		DataTypeOptionModel
		DataTypeName string
	}
	rows := make([]row, 0)
	q := r.dataTypeOptionQuery(ctx, filter).
		Select("data_type_options.*, COALESCE(data_types.name, '') AS data_type_name").
		Joins("LEFT JOIN data_types ON data_types.id = data_type_options.data_type_id").
		Order("data_type_name ASC, data_type_options.code ASC").
		Limit(limit).Offset(offset)
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]domain.DataTypeOption, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.DataTypeOption{
			ID:           m.ID,
			DataTypeID:   m.DataTypeID,
			Code:         m.Code,
			Text:         m.Text,
			DataTypeName: m.DataTypeName,
		})
	}
	return result, nil
}

func (r *SurveyRepository) CountDataTypeOptions(ctx context.Context, filter domain.DataTypeOptionFilter) (int64, error) {
	var count int64
	if err := r.dataTypeOptionQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SurveyRepository) GetDataTypeOption(ctx context.Context, id uint) (domain.DataTypeOption, error) {
	type row struct {
		DataTypeOptionModel
		DataTypeName string
	}
	var m row
	err := r.db.WithContext(ctx).Model(&DataTypeOptionModel{}).
		Select("data_type_options.*, COALESCE(data_types.name, '') AS data_type_name").
		Joins("LEFT JOIN data_types ON data_types.id = data_type_options.data_type_id").
		Where("data_type_options.id = ?", id).
		Scan(&m).Error
	if err != nil {
		return domain.DataTypeOption{}, err
	}
	if m.ID == 0 {
		return domain.DataTypeOption{}, gorm.ErrRecordNotFound
	}

	return domain.DataTypeOption{ID: m.ID, DataTypeID: m.DataTypeID, Code: m.Code, Text: m.Text, DataTypeName: m.DataTypeName}, nil
}

func (r *SurveyRepository) SearchDataTypes(ctx context.Context, query string, limit int) ([]domain.DataType, error) {
	q := r.db.WithContext(ctx).Model(&DataTypeModel{})
	if strings.TrimSpace(query) != "" {
		like := "%" + strings.TrimSpace(query) + "%"
		q = q.Where("name LIKE ? OR id LIKE ?", like, like)
	}
	rows := make([]DataTypeModel, 0)
	if err := q.Order("name ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.DataType, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.DataType{ID: m.ID, Name: m.Name, IsUserDataType: m.IsUserDataType, CSharpType: m.CSharpType})
	}
	return result, nil
}

func (r *SurveyRepository) projectConfigQuery(ctx context.Context, filter domain.ProjectConfigFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&ProjectConfigModel{})
	if filter.PublishedAfter != nil {
		q = q.Where("publish_date >= ?", *filter.PublishedAfter)
	}
	if filter.PublishedBefore != nil {
		q = q.Where("publish_date <= ?", *filter.PublishedBefore)
	}
	if filter.Project != "" {
		q = q.Where("project LIKE ?", "%"+filter.Project+"%")
	}
	return q
}

func (r *SurveyRepository) ListProjectConfigs(ctx context.Context, filter domain.ProjectConfigFilter, limit, offset int) ([]domain.ProjectConfig, error) {
	rows := make([]ProjectConfigModel, 0)
	q := r.projectConfigQuery(ctx, filter).
		Order("publish_date DESC, id DESC").
		Limit(limit).Offset(offset)
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.ProjectConfig, 0, len(rows))
	for _, m := range rows {
		result = append(result, projectConfigToDomain(m))
	}
	return result, nil
}

func (r *SurveyRepository) CountProjectConfigs(ctx context.Context, filter domain.ProjectConfigFilter) (int64, error) {
	var count int64
	if err := r.projectConfigQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SurveyRepository) GetProjectConfig(ctx context.Context, id uint) (domain.ProjectConfig, error) {
	var m ProjectConfigModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.ProjectConfig{}, err
	}
	return projectConfigToDomain(m), nil
}

func (r *SurveyRepository) SaveProjectConfig(ctx context.Context, value domain.ProjectConfig, actor string) (domain.ProjectConfig, error) {
	m := ProjectConfigModel{
		ID:            value.ID,
		PublishDate:   value.PublishDate,
		Project:       value.Project,
		ConfigFolder:  value.ConfigFolder,
		ConfigFile:    value.ConfigFile,
		Image:         value.Image,
		TransectsFile: value.TransectsFile,
	}
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return domain.ProjectConfig{}, err
	}
	return projectConfigToDomain(m), nil
}

func (r *SurveyRepository) dataLogFileQuery(ctx context.Context, filter domain.DataLogFileFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&DataLogFileModel{})
	if filter.UploadedAfter != nil {
		q = q.Where("upload_date >= ?", *filter.UploadedAfter)
	}
	if filter.UploadedBefore != nil {
		q = q.Where("upload_date <= ?", *filter.UploadedBefore)
	}
	if filter.UploadedBy != "" {
		q = q.Where("uploaded_by LIKE ?", "%"+filter.UploadedBy+"%")
	}
	return q
}

func (r *SurveyRepository) ListDataLogFiles(ctx context.Context, filter domain.DataLogFileFilter, limit, offset int) ([]domain.DataLogFile, error) {
	rows := make([]DataLogFileModel, 0)
	q := r.dataLogFileQuery(ctx, filter).
		Order("upload_date DESC, id DESC").
		Limit(limit).Offset(offset)
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.DataLogFile, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.DataLogFile{ID: m.ID, UploadDate: m.UploadDate, UploadedBy: m.UploadedBy, Contents: m.Contents})
	}
	return result, nil
}

func (r *SurveyRepository) CountDataLogFiles(ctx context.Context, filter domain.DataLogFileFilter) (int64, error) {
	var count int64
	if err := r.dataLogFileQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SurveyRepository) GetDataLogFile(ctx context.Context, id uint) (domain.DataLogFile, error) {
	var m DataLogFileModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.DataLogFile{}, err
	}
	return domain.DataLogFile{ID: m.ID, UploadDate: m.UploadDate, UploadedBy: m.UploadedBy, Contents: m.Contents}, nil
}

func (r *SurveyRepository) SaveDataLogFile(ctx context.Context, value domain.DataLogFile, actor string) (domain.DataLogFile, error) {
	m := DataLogFileModel{ID: value.ID, UploadDate: value.UploadDate, UploadedBy: value.UploadedBy, Contents: value.Contents}
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return domain.DataLogFile{}, err
	}
	return domain.DataLogFile{ID: m.ID, UploadDate: m.UploadDate, UploadedBy: m.UploadedBy, Contents: m.Contents}, nil
}

func (r *SurveyRepository) ListTransectDataLogs(ctx context.Context, dataLogFileID uint) ([]domain.TransectDataLog, error) {
	rows := make([]TransectDataLogModel, 0)
	if err := r.db.WithContext(ctx).Where("data_log_file_id = ?", dataLogFileID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.TransectDataLog, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.TransectDataLog{
			ID:            m.ID,
			DataLogFileID: m.DataLogFileID,
			TransectUID:   m.TransectUID,
			IsPrimary:     m.IsPrimary,
			Username:      m.Username,
		})
	}
	return result, nil
}

func (r *SurveyRepository) SearchDataLogFiles(ctx context.Context, query string, limit int) ([]domain.DataLogFile, error) {
	q := r.db.WithContext(ctx).Model(&DataLogFileModel{})
	if strings.TrimSpace(query) != "" {
		like := "%" + strings.TrimSpace(query) + "%"
		q = q.Where("CAST(id AS TEXT) LIKE ? OR uploaded_by LIKE ?", like, like)
	}
	rows := make([]DataLogFileModel, 0)
	if err := q.Order("upload_date DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.DataLogFile, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.DataLogFile{ID: m.ID, UploadDate: m.UploadDate, UploadedBy: m.UploadedBy, Contents: m.Contents})
	}
	return result, nil
}

func (r *SurveyRepository) ListHistory(ctx context.Context, entity string, limit, offset int) ([]domain.HistoryEntry, error) {
	q := r.db.WithContext(ctx).Model(&HistoryModel{})
	if entity != "" {
		q = q.Where("entity = ?", entity)
	}
	rows := make([]HistoryModel, 0)
	if err := q.Order("changed_at DESC, id DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}
	return historyToDomain(rows), nil
}

func (r *SurveyRepository) CountHistory(ctx context.Context, entity string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&HistoryModel{})
	if entity != "" {
		q = q.Where("entity = ?", entity)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SurveyRepository) ListRecordHistory(ctx context.Context, entity, recordID string, limit int) ([]domain.HistoryEntry, error) {
	rows := make([]HistoryModel, 0)
	err := r.db.WithContext(ctx).
		Where("entity = ? AND record_id = ?", entity, recordID).
		Order("changed_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return historyToDomain(rows), nil
}

func (r *SurveyRepository) WriteHistory(ctx context.Context, value domain.HistoryEntry) error {
	m := HistoryModel{
		Entity:     value.Entity,
		RecordID:   value.RecordID,
		Label:      value.Label,
		ChangeType: value.ChangeType,
		ChangedBy:  value.ChangedBy,
		ChangedAt:  value.ChangedAt,
	}
	if m.ChangedAt.IsZero() {
		m.ChangedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

// writeHistory records a shadow row for a survey write. Failures are
// swallowed so a missing history row never fails the write itself.
func (r *SurveyRepository) writeHistory(ctx context.Context, entity, recordID, label, changeType, actor string) {
	_ = r.WriteHistory(ctx, domain.HistoryEntry{
		Entity:     entity,
		RecordID:   recordID,
		Label:      label,
		ChangeType: changeType,
		ChangedBy:  actor,
		ChangedAt:  time.Now(),
	})
}

func transectToDomain(m TransectModel) domain.CompletedTransect {
	return domain.CompletedTransect{
		UID:              m.UID,
		Name:             m.Name,
		StartTime:        m.StartTime,
		TurnTime:         m.TurnTime,
		EndTime:          m.EndTime,
		LatFrom:          m.LatFrom,
		LongFrom:         m.LongFrom,
		LatTurn:          m.LatTurn,
		LongTurn:         m.LongTurn,
		LatTo:            m.LatTo,
		LongTo:           m.LongTo,
		DistanceKM:       m.DistanceKM,
		AngleDegrees:     m.AngleDegrees,
		State:            m.State,
		TemplateID:       m.TemplateID,
		PausedForMinutes: m.PausedForMinutes,
	}
}

func occurrenceToDomain(m OccurrenceModel) domain.CompletedOccurrence {
	return domain.CompletedOccurrence{
		ID:                 m.ID,
		TransectUID:        m.TransectUID,
		OccurrenceNumber:   m.OccurrenceNumber,
		RecordingStartTime: m.RecordingStartTime,
		RecordingEndTime:   m.RecordingEndTime,
		Lat:                m.Lat,
		Long:               m.Long,
		Note:               m.Note,
		State:              m.State,
	}
}

func templateTransectToDomain(m TemplateTransectModel) domain.TemplateTransect {
	return domain.TemplateTransect{
		ID:                 m.ID,
		Name:               m.Name,
		ScheduledTime:      m.ScheduledTime,
		Coordinates:        m.Coordinates,
		OpenEnded:          m.OpenEnded,
		DistanceKM:         m.DistanceKM,
		AngleDegrees:       m.AngleDegrees,
		Note:               m.Note,
		CreatedDynamically: m.CreatedDynamically,
	}
}

func projectConfigToDomain(m ProjectConfigModel) domain.ProjectConfig {
	return domain.ProjectConfig{
		ID:            m.ID,
		PublishDate:   m.PublishDate,
		Project:       m.Project,
		ConfigFolder:  m.ConfigFolder,
		ConfigFile:    m.ConfigFile,
		Image:         m.Image,
		TransectsFile: m.TransectsFile,
	}
}

func historyToDomain(rows []HistoryModel) []domain.HistoryEntry {
	result := make([]domain.HistoryEntry, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.HistoryEntry{
			ID:         m.ID,
			Entity:     m.Entity,
			RecordID:   m.RecordID,
			Label:      m.Label,
			ChangeType: m.ChangeType,
			ChangedBy:  m.ChangedBy,
			ChangedAt:  m.ChangedAt,
		})
	}
	return result
}
