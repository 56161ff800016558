package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"corpsite/internal/database"
	"corpsite/internal/resource"
	"corpsite/internal/upload"
)

// TeamHandler 负责团队成员 CRUD 与头像上传。
type TeamHandler struct {
	repo    *resource.Repository[database.TeamMember]
	uploads *upload.Saver
}

// NewTeamHandler 构造 TeamHandler。
func NewTeamHandler(db *gorm.DB, uploads *upload.Saver) *TeamHandler {
	return &TeamHandler{
		repo:    resource.NewRepository[database.TeamMember](db, "created_at DESC"),
		uploads: uploads,
	}
}

type teamMemberDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Title       localized `json:"title"`
	Bio         localized `json:"bio"`
	ImageURL    string    `json:"imageUrl"`
	LinkedinURL string    `json:"linkedinUrl"`
}

// mapTeamRow：库里只存 id 语种，en/cn 固定留空；linkedin_url 为 NULL 时
// 输出空字符串。
func mapTeamRow(row database.TeamMember) teamMemberDTO {
	linkedin := ""
	if row.LinkedinURL != nil {
		linkedin = *row.LinkedinURL
	}
	return teamMemberDTO{
		ID:          row.ID,
		Name:        row.Name,
		Title:       localized{ID: row.TitleID},
		Bio:         localized{ID: row.BioID},
		ImageURL:    row.ImageURL,
		LinkedinURL: linkedin,
	}
}

type teamMemberRequest struct {
	Name        string     `json:"name"`
	Title       *localized `json:"title"`
	Bio         *localized `json:"bio"`
	ImageURL    string     `json:"imageUrl"`
	LinkedinURL string     `json:"linkedinUrl"`
}

func (r *teamMemberRequest) validate() string {
	switch {
	case blank(r.Name):
		return "name is required"
	case r.Title == nil || blank(r.Title.ID):
		return "title.id is required"
	case r.Bio == nil || blank(r.Bio.ID):
		return "bio.id is required"
	case blank(r.ImageURL):
		return "imageUrl is required"
	}
	return ""
}

func (r *teamMemberRequest) linkedinColumn() *string {
	if r.LinkedinURL == "" {
		return nil
	}
	v := r.LinkedinURL
	return &v
}

// List 返回全部团队成员（按创建时间倒序）。
func (h *TeamHandler) List(c *gin.Context) {
	rows, err := h.repo.List(c.Request.Context())
	if err != nil {
		logError(c, "list team members", err)
		Internal(c, "failed to list team members")
		return
	}

	data := make([]teamMemberDTO, 0, len(rows))
	for _, row := range rows {
		data = append(data, mapTeamRow(row))
	}
	Data(c, http.StatusOK, data)
}

// Get 返回单个团队成员。
func (h *TeamHandler) Get(c *gin.Context) {
	row, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		Data(c, http.StatusOK, mapTeamRow(*row))
	case errors.Is(err, resource.ErrNotFound):
		NotFound(c, "Team member not found")
	default:
		logError(c, "get team member", err)
		Internal(c, "failed to get team member")
	}
}

// Create 插入团队成员并重读返回。
func (h *TeamHandler) Create(c *gin.Context) {
	var req teamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		BadRequest(c, msg)
		return
	}

	ctx := c.Request.Context()
	row := database.TeamMember{
		ID:          newID(),
		Name:        strings.TrimSpace(req.Name),
		TitleID:     strings.TrimSpace(req.Title.ID),
		BioID:       strings.TrimSpace(req.Bio.ID),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		LinkedinURL: req.linkedinColumn(),
	}

	if err := h.repo.Create(ctx, &row); err != nil {
		logError(c, "create team member", err)
		Internal(c, "failed to create team member")
		return
	}

	created, err := h.repo.Get(ctx, row.ID)
	if err != nil {
		logError(c, "reread team member", err)
		Internal(c, "failed to read team member after insert")
		return
	}
	Data(c, http.StatusCreated, mapTeamRow(*created))
}

// Update 全字段更新团队成员。
func (h *TeamHandler) Update(c *gin.Context) {
	var req teamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		BadRequest(c, msg)
		return
	}

	values := map[string]any{
		"name":         strings.TrimSpace(req.Name),
		"title_id":     strings.TrimSpace(req.Title.ID),
		"bio_id":       strings.TrimSpace(req.Bio.ID),
		"image_url":    strings.TrimSpace(req.ImageURL),
		"linkedin_url": req.linkedinColumn(),
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.repo.Update(ctx, id, values); err != nil {
		logError(c, "update team member", err)
		Internal(c, "failed to update team member")
		return
	}

	row, err := h.repo.Get(ctx, id)
	switch {
	case err == nil:
		Data(c, http.StatusOK, mapTeamRow(*row))
	case errors.Is(err, resource.ErrNotFound):
		NotFound(c, "Team member not found")
	default:
		logError(c, "reread team member", err)
		Internal(c, "failed to read team member after update")
	}
}

// Delete 删除团队成员。
func (h *TeamHandler) Delete(c *gin.Context) {
	err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		Deleted(c)
	case errors.Is(err, resource.ErrDeleteFailed):
		Internal(c, "Failed to delete team member")
	default:
		logError(c, "delete team member", err)
		Internal(c, "failed to delete team member")
	}
}

// UploadImage 接收成员头像，返回完整 URL 与站内路径。
func (h *TeamHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "image file (field: file) is required")
		return
	}

	path, err := h.uploads.Save(c.Request.Context(), fh, upload.TeamPhotos)
	if err != nil {
		uploadError(c, "upload team photo", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":  absoluteURL(c, path),
		"path": path,
	})
}
