package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackhellowin/portfolio-api/internal/services"
	"github.com/jackhellowin/portfolio-api/pkg/logger"
	"github.com/jackhellowin/portfolio-api/pkg/response"
)

var notFoundMessages = []struct {
	err error
	msg string
}{
	{services.ErrUserNotFound, "User not found"},
	{services.ErrWorkNotFound, "Work not found"},
	{services.ErrSkillNotFound, "Skill not found"},
	{services.ErrSocialMediaNotFound, "Social media link not found"},
	{services.ErrSelfContentNotFound, "Self content not found"},
}

// toAppError maps service errors onto API error codes. Unknown errors
// become a generic 500.
func toAppError(err error) *response.AppError {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return response.NewBadRequest(response.CodeInvalidInput, verr.Error())
	case errors.Is(err, services.ErrInvalidInput):
		return response.NewBadRequest(response.CodeInvalidInput, "Invalid input")
	case errors.Is(err, services.ErrInvalidCredentials):
		return response.NewUnauthorized(response.CodeInvalidCredentials, "Invalid username or password")
	case errors.Is(err, services.ErrInvalidToken):
		return response.NewUnauthorized(response.CodeInvalidToken, "Invalid or expired refresh token")
	case errors.Is(err, services.ErrTokenRevoked):
		return response.NewUnauthorized(response.CodeTokenRevoked, "Refresh token has been revoked")
	case errors.Is(err, services.ErrUnauthorized):
		return response.NewUnauthorized(response.CodeUnauthorized, "Authentication required")
	case errors.Is(err, services.ErrForbidden):
		return response.NewForbidden("Admin access required")
	case errors.Is(err, services.ErrDuplicateUsername):
		return response.NewConflict(response.CodeUsernameExists, "Username already exists")
	case errors.Is(err, services.ErrCannotDelete):
		return response.NewBadRequest(response.CodeCannotDelete, "Cannot delete environment variable admin")
	case errors.Is(err, services.ErrNotFound):
		for _, nf := range notFoundMessages {
			if errors.Is(err, nf.err) {
				return response.NewNotFound(nf.msg)
			}
		}
		return response.NewNotFound("Resource not found")
	}
	return nil
}

// respondError writes the error envelope for err. Unexpected errors are
// logged with the request id and answered with a generic message.
func respondError(c *gin.Context, err error) {
	if appErr := toAppError(err); appErr != nil {
		response.Abort(c, appErr)
		return
	}
	logger.Error().Err(err).
		Str("request_id", logger.GetRequestID(c)).
		Str("path", c.Request.URL.Path).
		Msg("Unhandled error")
	response.ServerError(c)
}

// invalidInput answers a request whose body or query could not be bound.
func invalidInput(c *gin.Context, err error) {
	response.BadRequest(c, response.CodeInvalidInput, "Invalid input: "+err.Error())
}

// parseID reads the :id path parameter. It writes INVALID_ID and returns
// false when the parameter is not an unsigned integer.
func parseID(c *gin.Context, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, response.CodeInvalidID, "Invalid "+what+" ID")
		return 0, false
	}
	return uint(id), true
}
