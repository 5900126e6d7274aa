package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Saadsid007/task-dashboard/internal/models"
	"github.com/Saadsid007/task-dashboard/internal/services"
)

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func (h *handlerImpl) HandleGetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError())
		return
	}

	user, err := h.users.GetByID(c, userID)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("user_id", userID).
			Msg("failed to get user")
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			abort(c, newNotFoundError(services.ErrUserNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

type updateMeRequest struct {
	Name *string `json:"name" binding:"omitempty,min=2,max=60"`
}

func (r *updateMeRequest) normalize() {
	trimPtr(r.Name)
}

func (h *handlerImpl) HandleUpdateMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError())
		return
	}

	var req updateMeRequest
	err := bindJSON(c, &req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newValidationError(err))
		return
	}

	var user *models.User
	if req.Name == nil {
		// Nothing to change; echo the current profile.
		user, err = h.users.GetByID(c, userID)
	} else {
		user, err = h.users.UpdateName(c, userID, *req.Name)
	}
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("user_id", userID).
			Msg("failed to update user")
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			abort(c, newNotFoundError(services.ErrUserNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}
