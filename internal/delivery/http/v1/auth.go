package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Saadsid007/task-dashboard/internal/models"
	"github.com/Saadsid007/task-dashboard/internal/services"
)

type authUserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newAuthUserResponse(user *models.User) authUserResponse {
	return authUserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=60"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// Passwords are taken verbatim; leading or trailing spaces are part of them.
func (r *registerRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var req registerRequest
	err := bindJSON(c, &req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newValidationError(err))
		return
	}

	user, err := h.users.Register(c, services.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to register user")
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			abort(c, newConflictError(services.ErrEmailTaken.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to issue session token")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}
	h.setSessionCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{"user": newAuthUserResponse(user)})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

func (r *loginRequest) normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	err := bindJSON(c, &req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newValidationError(err))
		return
	}

	user, err := h.users.Login(c, services.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to login")
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			abort(c, newAPIError(http.StatusUnauthorized, services.ErrInvalidCredentials.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to issue session token")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}
	h.setSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{"user": newAuthUserResponse(user)})
}

// HandleLogout only clears the client's cookie. The token itself stays valid
// until expiry; there is no server-side session to revoke.
func (h *handlerImpl) HandleLogout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
