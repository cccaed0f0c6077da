package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/civicresolve/backend/internal/application"
	"github.com/civicresolve/backend/internal/domain/entity"
	"github.com/civicresolve/backend/pkg/helpers"
	"github.com/civicresolve/backend/pkg/response"
	"github.com/civicresolve/backend/pkg/validation"
)

// UserHandler serves sessions, profiles and public user lookups.
type UserHandler struct {
	Svc     *app.UserService
	Issues  *app.IssueService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *app.UserService, issues *app.IssueService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Issues: issues, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type updateProfileRequest struct {
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url"`
	Mobile    string `json:"mobile"`
}

func publicUser(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"type":       u.Type,
		"verified":   u.Verified,
		"avatar_url": u.AvatarURL,
		"bio":        u.Bio,
		"joined_at":  u.JoinedAt,
	}
}

func ownUser(u *entity.User) gin.H {
	h := publicUser(u)
	h["email"] = u.Email
	h["mobile"] = u.Mobile
	return h
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, res, "login successful", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Logout(c *gin.Context) {
	if uid := c.GetString("userID"); uid != "" {
		h.Svc.Logout(c.Request.Context(), uid)
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.GetProfile(uid)
	if err != nil {
		response.Error[any](c, statusFor(err), "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, ownUser(u), "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString("userID")
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, app.UpdateProfileInput{Bio: req.Bio, AvatarURL: req.AvatarURL, Mobile: req.Mobile})
	if err != nil {
		response.Error[any](c, statusFor(err), "failed to update profile", err.Error())
		return
	}
	response.Success(c, http.StatusOK, ownUser(u), "profile updated", nil)
}

func (h *UserHandler) UploadAvatar(c *gin.Context) {
	uid := c.GetString("userID")
	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	defer func() { _ = file.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), uid, file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		response.Error[any](c, statusFor(err), "failed to upload avatar", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar uploaded", nil)
}

// GetUser is the public profile lookup, stripped of contact details.
func (h *UserHandler) GetUser(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Param("id"))
	if err != nil {
		response.Error[any](c, statusFor(err), "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, publicUser(u), "user", nil)
}

// ListUserIssues returns the issues reported by one user, newest first.
func (h *UserHandler) ListUserIssues(c *gin.Context) {
	issues, err := h.Issues.ListByAuthor(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, statusFor(err), "failed to list issues", nil)
		return
	}
	response.Success(c, http.StatusOK, issueList(issues), "issues", map[string]any{"count": len(issues)})
}

// ListAuthorityIssues returns the issues an authority has posted updates on.
func (h *UserHandler) ListAuthorityIssues(c *gin.Context) {
	issues, err := h.Issues.ListByAuthority(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, statusFor(err), "failed to list issues", nil)
		return
	}
	response.Success(c, http.StatusOK, issueList(issues), "issues", map[string]any{"count": len(issues)})
}

// Availability answers the pre-submit uniqueness probe for signup forms.
// Either query parameter may be supplied; both are answered in one call.
func (h *UserHandler) Availability(c *gin.Context) {
	username := c.Query("username")
	email := c.Query("email")
	if username == "" && email == "" {
		response.Error[any](c, http.StatusBadRequest, "username or email query parameter is required", nil)
		return
	}

	out := gin.H{}
	if username != "" {
		free, err := h.Svc.CheckUsernameUnique(username)
		if err != nil {
			response.Error[any](c, http.StatusInternalServerError, "availability check failed", nil)
			return
		}
		out["username_available"] = free
	}
	if email != "" {
		free, err := h.Svc.CheckEmailUnique(email)
		if err != nil {
			response.Error[any](c, http.StatusInternalServerError, "availability check failed", nil)
			return
		}
		out["email_available"] = free
	}
	response.Success(c, http.StatusOK, out, "availability", nil)
}
