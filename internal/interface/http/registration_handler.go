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

// RegistrationHandler exposes the stepwise signup workflow.
type RegistrationHandler struct {
	Svc    *app.RegistrationService
	Logger *logrus.Logger
}

func NewRegistrationHandler(svc *app.RegistrationService, logger *logrus.Logger) *RegistrationHandler {
	return &RegistrationHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Mobile   string `json:"mobile" binding:"required,numeric,min=10,max=15"`
	Password string `json:"password" binding:"required,pwd"`
	Type     string `json:"type" binding:"omitempty,oneof=citizen authority"`
}

type verifyOTPRequest struct {
	Channel string `json:"channel" binding:"required,oneof=email mobile"`
	Code    string `json:"code" binding:"required,otp"`
}

type verifyAadhaarRequest struct {
	AadhaarID string `json:"aadhaar_id" binding:"required,aadhaar"`
}

// Register opens a new registration workflow. The account exists from this
// point but stays unverified until the Aadhaar step completes.
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	st, err := h.Svc.Start(c.Request.Context(), app.StartRegistrationInput{
		Username: req.Username,
		Email:    req.Email,
		Mobile:   req.Mobile,
		Password: req.Password,
		Type:     entity.UserType(req.Type),
	})
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusCreated, st, "registration started", nil)
}

// VerifyOTP confirms one verification channel. Email must be confirmed
// before mobile; a wrong code counts against the channel's attempt budget.
func (h *RegistrationHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	st, err := h.Svc.VerifyOTP(c.Request.Context(), c.Param("id"), req.Channel, req.Code)
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, st, "otp verified", nil)
}

// VerifyAadhaar is the final step; success flips the account to verified.
func (h *RegistrationHandler) VerifyAadhaar(c *gin.Context) {
	var req verifyAadhaarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	st, err := h.Svc.VerifyAadhaar(c.Request.Context(), c.Param("id"), req.AadhaarID)
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, st, "registration complete", nil)
}

// Status reports the workflow stage for a pending registration.
func (h *RegistrationHandler) Status(c *gin.Context) {
	st, err := h.Svc.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, statusFor(err), "registration not found", nil)
		return
	}
	response.Success(c, http.StatusOK, st, "registration status", nil)
}
