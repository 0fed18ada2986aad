package handler

import (
	"net/http"
	"time"

	"github.com/mcoot/partygames/internal/api/middleware"
	"github.com/mcoot/partygames/internal/api/request"
	"github.com/mcoot/partygames/internal/api/response"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/auth"
)

// UserHandler handles account endpoints
type UserHandler struct {
	authService  *auth.Service
	secureCookie bool
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *auth.Service, secureCookie bool) *UserHandler {
	return &UserHandler{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

// Register handles POST /api/v1/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	user, session, err := h.authService.Register(r.Context(), auth.Registration{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Bio:      req.Bio,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	h.setSessionCookie(w, session)
	response.JSON(w, http.StatusCreated, response.AuthResponse{
		User:  response.UserFromModel(user),
		Token: session.Token,
	})
}

// Login handles POST /api/v1/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	user, session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.setSessionCookie(w, session)
	response.JSON(w, http.StatusOK, response.AuthResponse{
		User:  response.UserFromModel(user),
		Token: session.Token,
	})
}

// Logout handles POST /api/v1/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.ExtractToken(r); token != "" {
		h.authService.Logout(token)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	response.NoContent(w)
}

// Me handles GET /api/v1/user
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// Update handles PATCH /api/v1/user
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateUserRequest
	if err := request.DecodeOptional(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	user := middleware.MustGetUser(r.Context())
	updated, err := h.authService.UpdateProfile(r.Context(), user.ID, model.UserUpdate{
		Email:        req.Email,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(updated))
}

func (h *UserHandler) setSessionCookie(w http.ResponseWriter, session *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt.In(time.UTC),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
