package auth

import (
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "threadchat/internal/errors"
	"threadchat/internal/logger"
)

const claimsContextKey = "auth.claims"

// Middleware is the auth gate for protected routes. It requires
// "Authorization: Bearer <token>" and rejects every failure with the same 401
// body; the concrete reason is only logged.
func Middleware(tokens *TokenService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  claimsContextKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return tokens.Verify(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logger.WarnWithFields("request rejected by auth gate", logger.Fields{
				"reason":     rejectReason(err),
				"method":     c.Request().Method,
				"uri":        c.Request().RequestURI,
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			})
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: apperrors.ErrUnauthorized.Error(),
				Code:  "UNAUTHORIZED",
			})
		},
	})
}

func rejectReason(err error) string {
	var extractErr *echojwt.TokenExtractionError
	switch {
	case errors.As(err, &extractErr), errors.Is(err, ErrTokenMissing):
		return "missing"
	case errors.Is(err, ErrExpiredToken):
		return "expired"
	default:
		return "invalid"
	}
}

// UserID returns the authenticated user id placed on the context by Middleware.
func UserID(c echo.Context) (string, bool) {
	claims, ok := c.Get(claimsContextKey).(*Claims)
	if !ok || claims.UserID == "" {
		return "", false
	}
	return claims.UserID, true
}
