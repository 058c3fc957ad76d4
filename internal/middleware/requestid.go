package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"billing-service/pkg/logger"
)

// RequestIDMiddleware tags each request with an ID and a request-scoped logger.
// An X-Request-ID sent by the client is kept.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
			c.Request().Header.Set(echo.HeaderXRequestID, requestID)
		}
		c.Response().Header().Set(echo.HeaderXRequestID, requestID)
		c.Set("request_id", requestID)

		log := logger.GetLogger().With(zap.String("request_id", requestID))
		setLogger(c, log)

		return next(c)
	}
}

// setLogger makes log the logger of both the echo context and the request context
func setLogger(c echo.Context, log *zap.Logger) {
	c.Set("logger", log)
	req := c.Request()
	c.SetRequest(req.WithContext(logger.WithContext(req.Context(), log)))
}
