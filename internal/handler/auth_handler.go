package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stcolombus/campus-portal/internal/middleware"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/repository"
	"github.com/stcolombus/campus-portal/internal/response"
	"github.com/stcolombus/campus-portal/internal/service"
	"github.com/stcolombus/campus-portal/internal/validator"
)

// Authenticator is the part of service.AuthService served over HTTP.
type Authenticator interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Logout(ctx context.Context, session *model.Session) error
	Profile(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	auth Authenticator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register godoc
// POST /api/v1/auth/register
// Creates a student account and returns a signed-in session.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Fail(c, http.StatusConflict, response.ErrEmailTaken)
			return
		}
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

// Login godoc
// POST /api/v1/auth/login
// Validates email + password and opens a new session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// Logout godoc
// POST /api/v1/auth/logout
// Ends the current session. Listeners on the auth event stream get SIGNED_OUT.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), session); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Session godoc
// GET /api/v1/auth/session
// Returns the session behind the bearer token.
func (h *AuthHandler) Session(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// Me godoc
// GET /api/v1/auth/me
// Returns exactly one profile for the signed-in user.
func (h *AuthHandler) Me(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	profile, err := h.auth.Profile(c.Request.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrProfileMissing)
			return
		}
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}
