package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/civicresolve/backend/internal/application"
	"github.com/civicresolve/backend/internal/domain/entity"
	"github.com/civicresolve/backend/pkg/response"
	"github.com/civicresolve/backend/pkg/validation"
)

// IssueHandler serves the issue feed and its mutations.
type IssueHandler struct {
	Svc    *app.IssueService
	Logger *logrus.Logger
}

func NewIssueHandler(svc *app.IssueService, logger *logrus.Logger) *IssueHandler {
	return &IssueHandler{Svc: svc, Logger: logger}
}

type createIssueRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Tags        []string `json:"tags"`
	ImageURL    string   `json:"image_url" binding:"required,url"`
	Lat         float64  `json:"lat" binding:"omitempty,latitude"`
	Lng         float64  `json:"lng" binding:"omitempty,longitude"`
	Status      string   `json:"status" binding:"omitempty,oneof=Pending 'In Progress' Resolved"`
}

type statusUpdateRequest struct {
	Status           string `json:"status" binding:"required"`
	Comment          string `json:"comment" binding:"required"`
	ResolvedImageURL string `json:"resolved_image_url" binding:"omitempty,url"`
}

func issueDTO(i *entity.Issue) gin.H {
	updates := make([]entity.IssueUpdate, len(i.Updates))
	copy(updates, i.Updates)
	h := gin.H{
		"id":              i.ID,
		"title":           i.Title,
		"description":     i.Description,
		"tags":            i.Tags,
		"image_url":       i.ImageURL,
		"location":        i.Location,
		"status":          i.Status,
		"author_id":       i.AuthorID,
		"author_username": i.AuthorUsername,
		"author_avatar":   i.AuthorAvatar,
		"created_at":      i.CreatedAt,
		"upvotes":         i.Upvotes,
		"reposts":         i.Reposts,
		"updates":         updates,
	}
	if i.ResolvedImageURL != "" {
		h["resolved_image_url"] = i.ResolvedImageURL
	}
	return h
}

func issueList(issues []*entity.Issue) []gin.H {
	out := make([]gin.H, 0, len(issues))
	for _, i := range issues {
		out = append(out, issueDTO(i))
	}
	return out
}

// List returns the whole feed, newest first.
func (h *IssueHandler) List(c *gin.Context) {
	issues, err := h.Svc.ListIssues(c.Request.Context())
	if err != nil {
		response.Error[any](c, statusFor(err), "failed to list issues", nil)
		return
	}
	response.Success(c, http.StatusOK, issueList(issues), "issues", map[string]any{"count": len(issues)})
}

func (h *IssueHandler) Get(c *gin.Context) {
	issue, err := h.Svc.GetIssue(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, statusFor(err), "issue not found", nil)
		return
	}
	response.Success(c, http.StatusOK, issueDTO(issue), "issue", nil)
}

// Search filters by free-text term (q) and/or exact status.
func (h *IssueHandler) Search(c *gin.Context) {
	issues, err := h.Svc.SearchIssues(c.Request.Context(), c.Query("q"), entity.IssueStatus(c.Query("status")))
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, issueList(issues), "issues", map[string]any{"count": len(issues)})
}

// Create files a new report under the authenticated user.
func (h *IssueHandler) Create(c *gin.Context) {
	var req createIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	issue, err := h.Svc.CreateIssue(c.Request.Context(), app.CreateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		ImageURL:    req.ImageURL,
		Location:    entity.Coordinate{Lat: req.Lat, Lng: req.Lng},
		Status:      entity.IssueStatus(req.Status),
		AuthorID:    c.GetString("userID"),
	})
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusCreated, issueDTO(issue), "issue created", nil)
}

// UpdateStatus moves an issue through its lifecycle. Authority accounts only.
func (h *IssueHandler) UpdateStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	issue, err := h.Svc.UpdateIssueStatus(c.Request.Context(), c.Param("id"), app.StatusUpdateInput{
		Status:           entity.IssueStatus(req.Status),
		Comment:          req.Comment,
		AuthorityID:      c.GetString("userID"),
		ResolvedImageURL: req.ResolvedImageURL,
	})
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, issueDTO(issue), "status updated", nil)
}

func (h *IssueHandler) Upvote(c *gin.Context) {
	n, err := h.Svc.Upvote(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, statusFor(err), "issue not found", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"upvotes": n}, "upvoted", nil)
}

func (h *IssueHandler) Repost(c *gin.Context) {
	n, err := h.Svc.Repost(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, statusFor(err), "issue not found", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reposts": n}, "reposted", nil)
}

// UploadImage stores a photo for later attachment to a create or resolve.
func (h *IssueHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "image file is required", nil)
		return
	}
	defer func() { _ = file.Close() }()

	url, err := h.Svc.UploadImage(c.Request.Context(), c.GetString("userID"), file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		response.Error[any](c, statusFor(err), "failed to upload image", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"image_url": url}, "image uploaded", nil)
}
