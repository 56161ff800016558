package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"corpsite/internal/api/middleware"
	"corpsite/internal/database"
	"corpsite/internal/resource"
	"corpsite/internal/upload"
)

// newsOrdering keeps drafts without a publish date sorted by creation time.
const newsOrdering = "COALESCE(published_at, created_at) DESC"

var allowedCategories = []string{"company", "division", "industry", "press"}

const (
	newsDefaultLimit = 10
	newsMaxLimit     = 50
)

// NewsHandler 负责新闻的 CRUD 与配图上传。
type NewsHandler struct {
	repo    *resource.Repository[database.NewsArticle]
	uploads *upload.Saver
}

// NewNewsHandler 构造 NewsHandler。
func NewNewsHandler(db *gorm.DB, uploads *upload.Saver) *NewsHandler {
	return &NewsHandler{
		repo:    resource.NewRepository[database.NewsArticle](db, newsOrdering),
		uploads: uploads,
	}
}

type newsDTO struct {
	ID        string    `json:"id"`
	Date      *string   `json:"date"`
	Category  string    `json:"category"`
	Title     localized `json:"title"`
	Content   localized `json:"content"`
	ImageURLs []string  `json:"imageUrls"`
}

func mapNewsRow(row database.NewsArticle) newsDTO {
	return newsDTO{
		ID:       row.ID,
		Date:     publishDate(row.PublishedAt, row.CreatedAt),
		Category: row.Category,
		Title: localized{
			ID: row.TitleID,
			EN: row.TitleEN,
			CN: row.TitleCN,
		},
		Content: localized{
			ID: row.ContentID,
			EN: row.ContentEN,
			CN: row.ContentCN,
		},
		ImageURLs: parseImageURLs(string(row.ImageURLs)),
	}
}

type newsRequest struct {
	Title     *localized `json:"title"`
	Content   *localized `json:"content"`
	Category  string     `json:"category"`
	ImageURLs []any      `json:"imageUrls"`
	Date      string     `json:"date"`
}

// validate reports the first request problem, or the parsed optional
// publish date.
func (r *newsRequest) validate() (publishedAt *time.Time, errMsg string) {
	if r.Title == nil || blank(r.Title.ID) {
		return nil, "title.id is required"
	}
	if r.Content == nil || blank(r.Content.ID) {
		return nil, "content.id is required"
	}
	if blank(r.Category) {
		return nil, "category is required"
	}
	if !allowedCategory(r.Category) {
		return nil, "invalid category"
	}

	publishedAt, ok := parseDate(r.Date)
	if !ok {
		return nil, "invalid date"
	}
	return publishedAt, ""
}

// imageList keeps only string elements, silently dropping anything else.
func (r *newsRequest) imageList() []string {
	urls := make([]string, 0, len(r.ImageURLs))
	for _, item := range r.ImageURLs {
		if s, ok := item.(string); ok {
			urls = append(urls, s)
		}
	}
	return urls
}

func allowedCategory(category string) bool {
	for _, c := range allowedCategories {
		if category == c {
			return true
		}
	}
	return false
}

// List 返回分页新闻列表。page/limit 非法时回退默认值而不是报错。
func (h *NewsHandler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(newsDefaultLimit)))
	if err != nil || limit < 1 {
		limit = newsDefaultLimit
	}
	if limit > newsMaxLimit {
		limit = newsMaxLimit
	}

	rows, total, err := h.repo.Page(c.Request.Context(), page, limit)
	if err != nil {
		logError(c, "list news", err)
		Internal(c, "failed to list news")
		return
	}

	totalPages := int64(1)
	if total > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}

	data := make([]newsDTO, 0, len(rows))
	for _, row := range rows {
		data = append(data, mapNewsRow(row))
	}

	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
		"data": data,
	})
}

// Get 返回单条新闻。
func (h *NewsHandler) Get(c *gin.Context) {
	row, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		Data(c, http.StatusOK, mapNewsRow(*row))
	case errors.Is(err, resource.ErrNotFound):
		NotFound(c, "News not found")
	default:
		logError(c, "get news", err)
		Internal(c, "failed to get news")
	}
}

// Create 校验后插入新闻，并重读该行返回与后续 GET 一致的数据。
func (h *NewsHandler) Create(c *gin.Context) {
	var req newsRequest
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
	row := database.NewsArticle{
		ID:          newID(),
		TitleID:     req.Title.ID,
		TitleEN:     req.Title.EN,
		TitleCN:     req.Title.CN,
		ContentID:   req.Content.ID,
		ContentEN:   req.Content.EN,
		ContentCN:   req.Content.CN,
		Category:    req.Category,
		ImageURLs:   datatypes.JSON(encodeImageURLs(req.imageList())),
		PublishedAt: publishedAt,
	}

	if err := h.repo.Create(ctx, &row); err != nil {
		logError(c, "create news", err)
		Internal(c, "failed to create news")
		return
	}

	created, err := h.repo.Get(ctx, row.ID)
	if err != nil {
		logError(c, "reread news", err)
		Internal(c, "failed to read news after insert")
		return
	}

	Data(c, http.StatusCreated, mapNewsRow(*created))
}

// Update 全字段更新；publish 日期仅在请求显式给出时才覆盖。
func (h *NewsHandler) Update(c *gin.Context) {
	var req newsRequest
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
		"title_id":   req.Title.ID,
		"title_en":   req.Title.EN,
		"title_cn":   req.Title.CN,
		"content_id": req.Content.ID,
		"content_en": req.Content.EN,
		"content_cn": req.Content.CN,
		"category":   req.Category,
		"image_urls": encodeImageURLs(req.imageList()),
	}
	if publishedAt != nil {
		values["published_at"] = *publishedAt
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.repo.Update(ctx, id, values); err != nil {
		logError(c, "update news", err)
		Internal(c, "failed to update news")
		return
	}

	row, err := h.repo.Get(ctx, id)
	switch {
	case err == nil:
		Data(c, http.StatusOK, mapNewsRow(*row))
	case errors.Is(err, resource.ErrNotFound):
		NotFound(c, "News not found")
	default:
		logError(c, "reread news", err)
		Internal(c, "failed to read news after update")
	}
}

// Delete 删除新闻并确认该行确实消失。
func (h *NewsHandler) Delete(c *gin.Context) {
	err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		Deleted(c)
	case errors.Is(err, resource.ErrDeleteFailed):
		Internal(c, "Failed to delete news")
	default:
		logError(c, "delete news", err)
		Internal(c, "failed to delete news")
	}
}

// UploadImage 接收单张新闻配图并返回完整 URL。
func (h *NewsHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "image file (field: file) is required")
		return
	}

	path, err := h.uploads.Save(c.Request.Context(), fh, upload.NewsImages)
	if err != nil {
		uploadError(c, "upload news image", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": absoluteURL(c, path)})
}

// UploadImages 接收多张配图（field: files），按接收顺序返回 URL。
func (h *NewsHandler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		BadRequest(c, "at least one image file (field: files) is required")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		BadRequest(c, "at least one image file (field: files) is required")
		return
	}

	paths, err := h.uploads.SaveAll(c.Request.Context(), files, upload.NewsImages)
	if err != nil {
		uploadError(c, "upload news images", err)
		return
	}

	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		urls = append(urls, absoluteURL(c, p))
	}
	c.JSON(http.StatusCreated, gin.H{"urls": urls})
}

// uploadError maps upload failures: rejections are the client's fault,
// anything else is an I/O problem.
func uploadError(c *gin.Context, op string, err error) {
	var rejected *upload.RejectedError
	if errors.As(err, &rejected) {
		BadRequest(c, rejected.Reason)
		return
	}
	logError(c, op, err)
	Internal(c, "failed to store uploaded file")
}

// logError 通过请求级 slog 记录失败原因。
func logError(c *gin.Context, op string, err error) {
	middleware.LoggerFromContext(c).Error(op, slog.String("error", err.Error()))
}
