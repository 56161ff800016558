package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"corpsite/internal/api/middleware"
	"corpsite/internal/database"
	"corpsite/internal/resource"
	"corpsite/internal/tasks"
	"corpsite/internal/upload"
)

var allowedJobTypes = []string{"Full-time", "Part-time", "Contract", "Internship"}

// CareersHandler 负责职位 CRUD 与求职申请。
type CareersHandler struct {
	jobs         *resource.Repository[database.JobListing]
	applications *resource.Repository[database.JobApplication]
	uploads      *upload.Saver
	asynqClient  *asynq.Client
}

// NewCareersHandler 构造 CareersHandler。asynqClient 可为 nil（不发通知）。
func NewCareersHandler(db *gorm.DB, uploads *upload.Saver, asynqClient *asynq.Client) *CareersHandler {
	return &CareersHandler{
		jobs:         resource.NewRepository[database.JobListing](db, newsOrdering),
		applications: resource.NewRepository[database.JobApplication](db, "applied_at DESC"),
		uploads:      uploads,
		asynqClient:  asynqClient,
	}
}

type jobDTO struct {
	ID               string       `json:"id"`
	Title            singleLocale `json:"title"`
	Location         singleLocale `json:"location"`
	Type             string       `json:"type"`
	Description      singleLocale `json:"description"`
	Responsibilities singleLocale `json:"responsibilities"`
	Qualifications   singleLocale `json:"qualifications"`
	Date             *string      `json:"date"`
}

func mapJobRow(row database.JobListing) jobDTO {
	return jobDTO{
		ID:               row.ID,
		Title:            singleLocale{ID: row.TitleID},
		Location:         singleLocale{ID: row.LocationID},
		Type:             row.JobType,
		Description:      singleLocale{ID: row.DescriptionID},
		Responsibilities: singleLocale{ID: row.ResponsibilitiesID},
		Qualifications:   singleLocale{ID: row.QualificationsID},
		Date:             publishDate(row.PublishedAt, row.CreatedAt),
	}
}

type applicationDTO struct {
	ID             string  `json:"id"`
	JobID          string  `json:"jobId"`
	ApplicantName  *string `json:"applicantName"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Resume         string  `json:"resume"`
	ResumeFileName string  `json:"resumeFileName"`
	CoverLetter    string  `json:"coverLetter"`
	Date           string  `json:"date"`
}

func mapApplicationRow(row database.JobApplication) applicationDTO {
	coverLetter := ""
	if row.CoverLetter != nil {
		coverLetter = *row.CoverLetter
	}
	return applicationDTO{
		ID:             row.ID,
		JobID:          row.JobID,
		ApplicantName:  row.ApplicantName,
		Name:           row.Name,
		Email:          row.Email,
		Phone:          row.Phone,
		Resume:         row.ResumeURL,
		ResumeFileName: row.ResumeFilename,
		CoverLetter:    coverLetter,
		Date:           isoString(row.AppliedAt),
	}
}

type jobRequest struct {
	Title            *singleLocale `json:"title"`
	Location         *singleLocale `json:"location"`
	Type             string        `json:"type"`
	Description      *singleLocale `json:"description"`
	Responsibilities *singleLocale `json:"responsibilities"`
	Qualifications   *singleLocale `json:"qualifications"`
	Date             string        `json:"date"`
}

func (r *jobRequest) validate() (publishedAt *time.Time, errMsg string) {
	if r.Title == nil || blank(r.Title.ID) {
		return nil, "title.id is required"
	}
	if r.Location == nil || blank(r.Location.ID) {
		return nil, "location.id is required"
	}
	if !allowedJobType(r.Type) {
		return nil, "invalid job type"
	}
	if r.Description == nil || blank(r.Description.ID) {
		return nil, "description.id is required"
	}
	if r.Responsibilities == nil || blank(r.Responsibilities.ID) {
		return nil, "responsibilities.id is required"
	}
	if r.Qualifications == nil || blank(r.Qualifications.ID) {
		return nil, "qualifications.id is required"
	}

	publishedAt, ok := parseDate(r.Date)
	if !ok {
		return nil, "invalid date"
	}
	return publishedAt, ""
}

func allowedJobType(jobType string) bool {
	for _, t := range allowedJobTypes {
		if jobType == t {
			return true
		}
	}
	return false
}

// ListJobs 返回全部职位（按发布时间倒序，无分页）。
func (h *CareersHandler) ListJobs(c *gin.Context) {
	rows, err := h.jobs.List(c.Request.Context())
	if err != nil {
		logError(c, "list jobs", err)
		Internal(c, "failed to list jobs")
		return
	}

	data := make([]jobDTO, 0, len(rows))
	for _, row := range rows {
		data = append(data, mapJobRow(row))
	}
	Data(c, http.StatusOK, data)
}

// GetJob 返回单个职位。
func (h *CareersHandler) GetJob(c *gin.Context) {
	row, err := h.jobs.Get(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		Data(c, http.StatusOK, mapJobRow(*row))
	case errors.Is(err, resource.ErrNotFound):
		NotFound(c, "Job not found")
	default:
		logError(c, "get job", err)
		Internal(c, "failed to get job")
	}
}

// CreateJob 校验后插入职位并重读返回。
func (h *CareersHandler) CreateJob(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	publishedAt, errMsg := req.validate()
	if errMsg != "" {
		BadRequest(c, errMsg)
		return
	}
	if publishedAt == nil {
		now := time.Now()
		publishedAt = &now
	}

	ctx := c.Request.Context()
	row := database.JobListing{
		ID:                 newID(),
		TitleID:            req.Title.ID,
		LocationID:         req.Location.ID,
		JobType:            req.Type,
		DescriptionID:      req.Description.ID,
		ResponsibilitiesID: req.Responsibilities.ID,
		QualificationsID:   req.Qualifications.ID,
		PublishedAt:        publishedAt,
	}

	if err := h.jobs.Create(ctx, &row); err != nil {
		logError(c, "create job", err)
		Internal(c, "failed to create job")
		return
	}

	created, err := h.jobs.Get(ctx, row.ID)
	if err != nil {
		logError(c, "reread job", err)
		Internal(c, "failed to read job after insert")
		return
	}
	Data(c, http.StatusCreated, mapJobRow(*created))
}

// UpdateJob 全字段更新；published_at 仅在请求带 date 时覆盖。
func (h *CareersHandler) UpdateJob(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	publishedAt, errMsg := req.validate()
	if errMsg != "" {
		BadRequest(c, errMsg)
		return
	}

	values := map[string]any{
		"title_id":            req.Title.ID,
		"location_id":         req.Location.ID,
		"job_type":            req.Type,
		"description_id":      req.Description.ID,
		"responsibilities_id": req.Responsibilities.ID,
		"qualifications_id":   req.Qualifications.ID,
	}
	if publishedAt != nil {
		values["published_at"] = *publishedAt
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.jobs.Update(ctx, id, values); err != nil {
		logError(c, "update job", err)
		Internal(c, "failed to update job")
		return
	}

	row, err := h.jobs.Get(ctx, id)
	switch {
	case err == nil:
		Data(c, http.StatusOK, mapJobRow(*row))
	case errors.Is(err, resource.ErrNotFound):
		NotFound(c, "Job not found")
	default:
		logError(c, "reread job", err)
		Internal(c, "failed to read job after update")
	}
}

// DeleteJob 删除职位。已有申请不级联删除（job_id 为软引用）。
func (h *CareersHandler) DeleteJob(c *gin.Context) {
	err := h.jobs.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		Deleted(c)
	case errors.Is(err, resource.ErrDeleteFailed):
		Internal(c, "Failed to delete job")
	default:
		logError(c, "delete job", err)
		Internal(c, "failed to delete job")
	}
}

// ListApplications 返回全部求职申请（按申请时间倒序）。
func (h *CareersHandler) ListApplications(c *gin.Context) {
	rows, err := h.applications.List(c.Request.Context())
	if err != nil {
		logError(c, "list applications", err)
		Internal(c, "failed to list applications")
		return
	}

	data := make([]applicationDTO, 0, len(rows))
	for _, row := range rows {
		data = append(data, mapApplicationRow(row))
	}
	Data(c, http.StatusOK, data)
}

// CreateApplication 处理 multipart 求职表单：字段先校验，简历文件落盘后
// 插入记录并重读返回。简历保存失败不会留下数据库行，插入失败时回收文件。
func (h *CareersHandler) CreateApplication(c *gin.Context) {
	jobID := c.PostForm("jobId")
	name := c.PostForm("name")
	email := c.PostForm("email")
	phone := c.PostForm("phone")
	coverLetter := c.PostForm("coverLetter")

	switch {
	case blank(jobID):
		BadRequest(c, "jobId is required")
		return
	case blank(name):
		BadRequest(c, "name is required")
		return
	case blank(email):
		BadRequest(c, "email is required")
		return
	case blank(phone):
		BadRequest(c, "phone is required")
		return
	}

	fh, err := c.FormFile("resume")
	if err != nil {
		BadRequest(c, "resume file (field: resume) is required")
		return
	}

	ctx := c.Request.Context()
	resumeURL, err := h.uploads.Save(ctx, fh, upload.Resumes)
	if err != nil {
		uploadError(c, "store resume", err)
		return
	}

	var coverLetterCol *string
	if coverLetter != "" {
		coverLetterCol = &coverLetter
	}

	applicantName := name
	row := database.JobApplication{
		ID:             newID(),
		JobID:          jobID,
		ApplicantName:  &applicantName,
		Name:           name,
		Email:          email,
		Phone:          phone,
		ResumeURL:      resumeURL,
		ResumeFilename: fh.Filename,
		CoverLetter:    coverLetterCol,
		AppliedAt:      time.Now(),
	}

	if err := h.applications.Create(ctx, &row); err != nil {
		h.uploads.Remove(resumeURL)
		logError(c, "create application", err)
		Internal(c, "failed to create application")
		return
	}

	created, err := h.applications.Get(ctx, row.ID)
	if err != nil {
		logError(c, "reread application", err)
		Internal(c, "failed to read application after insert")
		return
	}

	h.notifyApplication(c, created.ID)
	Data(c, http.StatusCreated, mapApplicationRow(*created))
}

// notifyApplication 发出后台通知任务；失败只记日志，不影响请求结果。
func (h *CareersHandler) notifyApplication(c *gin.Context, id string) {
	if h.asynqClient == nil {
		return
	}
	task, err := tasks.NewJobApplicationNotifyTask(id, middleware.GetCorrelationID(c))
	if err != nil {
		logError(c, "build application notify task", err)
		return
	}
	if _, err := h.asynqClient.EnqueueContext(c.Request.Context(), task); err != nil {
		logError(c, "enqueue application notify task", err)
		return
	}
	middleware.LoggerFromContext(c).Info("application notify task enqueued",
		slog.String("application_id", id),
	)
}
