package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"threadchat/internal/auth"
	apperrors "threadchat/internal/errors"
	"threadchat/internal/logger"
)

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

func badRequestBody() error {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error: "invalid request body",
		Code:  "INVALID_INPUT",
	})
}

// respondError converts a domain error into the JSON error body. Server-side
// failures are logged with the request id.
func respondError(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		logger.ErrorWithFields("request failed", logger.Fields{
			"method":     c.Request().Method,
			"uri":        c.Request().RequestURI,
			"status":     httpErr.StatusCode,
			"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			"error":      err.Error(),
		})
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func currentUserID(c echo.Context) (string, error) {
	id, ok := auth.UserID(c)
	if !ok {
		return "", apperrors.ErrUnauthorized
	}
	return id, nil
}
