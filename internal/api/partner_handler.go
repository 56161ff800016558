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

// PartnerHandler 负责合作伙伴 CRUD 与 Logo 上传。
type PartnerHandler struct {
	repo    *resource.Repository[database.Partner]
	uploads *upload.Saver
}

// NewPartnerHandler 构造 PartnerHandler。
func NewPartnerHandler(db *gorm.DB, uploads *upload.Saver) *PartnerHandler {
	return &PartnerHandler{
		repo:    resource.NewRepository[database.Partner](db, "created_at DESC"),
		uploads: uploads,
	}
}

type partnerDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl"`
}

func mapPartnerRow(row database.Partner) partnerDTO {
	return partnerDTO{
		ID:      row.ID,
		Name:    row.Name,
		LogoURL: row.LogoURL,
	}
}

type partnerRequest struct {
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl"`
}

func (r *partnerRequest) validate() string {
	switch {
	case blank(r.Name):
		return "name is required"
	case blank(r.LogoURL):
		return "logoUrl is required"
	}
	return ""
}

// List 返回全部合作伙伴（按创建时间倒序）。
func (h *PartnerHandler) List(c *gin.Context) {
	rows, err := h.repo.List(c.Request.Context())
	if err != nil {
		logError(c, "list partners", err)
		Internal(c, "failed to list partners")
		return
	}

	data := make([]partnerDTO, 0, len(rows))
	for _, row := range rows {
		data = append(data, mapPartnerRow(row))
	}
	Data(c, http.StatusOK, data)
}

// Get 返回单个合作伙伴。
func (h *PartnerHandler) Get(c *gin.Context) {
	row, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		Data(c, http.StatusOK, mapPartnerRow(*row))
	case errors.Is(err, resource.ErrNotFound):
		NotFound(c, "Partner not found")
	default:
		logError(c, "get partner", err)
		Internal(c, "failed to get partner")
	}
}

// Create 插入合作伙伴并重读返回。
func (h *PartnerHandler) Create(c *gin.Context) {
	var req partnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		BadRequest(c, msg)
		return
	}

	ctx := c.Request.Context()
	row := database.Partner{
		ID:      newID(),
		Name:    strings.TrimSpace(req.Name),
		LogoURL: strings.TrimSpace(req.LogoURL),
	}

	if err := h.repo.Create(ctx, &row); err != nil {
		logError(c, "create partner", err)
		Internal(c, "failed to create partner")
		return
	}

	created, err := h.repo.Get(ctx, row.ID)
	if err != nil {
		logError(c, "reread partner", err)
		Internal(c, "failed to read partner after insert")
		return
	}
	Data(c, http.StatusCreated, mapPartnerRow(*created))
}

// Update 全字段更新合作伙伴。
func (h *PartnerHandler) Update(c *gin.Context) {
	var req partnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		BadRequest(c, msg)
		return
	}

	values := map[string]any{
		"name":     strings.TrimSpace(req.Name),
		"logo_url": strings.TrimSpace(req.LogoURL),
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.repo.Update(ctx, id, values); err != nil {
		logError(c, "update partner", err)
		Internal(c, "failed to update partner")
		return
	}

	row, err := h.repo.Get(ctx, id)
	switch {
	case err == nil:
		Data(c, http.StatusOK, mapPartnerRow(*row))
	case errors.Is(err, resource.ErrNotFound):
		NotFound(c, "Partner not found")
	default:
		logError(c, "reread partner", err)
		Internal(c, "failed to read partner after update")
	}
}

// Delete 删除合作伙伴。
func (h *PartnerHandler) Delete(c *gin.Context) {
	err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		Deleted(c)
	case errors.Is(err, resource.ErrDeleteFailed):
		Internal(c, "Failed to delete partner")
	default:
		logError(c, "delete partner", err)
		Internal(c, "failed to delete partner")
	}
}

// UploadLogo 接收 Logo 图片，返回完整 URL 与站内路径。
func (h *PartnerHandler) UploadLogo(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "logo file (field: file) is required")
		return
	}

	path, err := h.uploads.Save(c.Request.Context(), fh, upload.PartnerLogos)
	if err != nil {
		uploadError(c, "upload partner logo", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":  absoluteURL(c, path),
		"path": path,
	})
}
