package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"billing-service/internal/auth"
	"billing-service/internal/middleware"
	"billing-service/pkg/logger"
	"billing-service/prometheus"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      auth.User `json:"user"`
}

// Login exchanges a username and password for a session token
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.AuthAttemptsCounter.Inc()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		prometheus.AuthErrorsCounter.Inc()
		return badRequest(c, "could not parse request body")
	}
	if req.Username == "" || req.Password == "" {
		prometheus.AuthErrorsCounter.Inc()
		return badRequest(c, "username and password are required")
	}

	user, err := h.credentials.Authenticate(req.Username, req.Password)
	if err != nil {
		prometheus.AuthErrorsCounter.Inc()
		log.Warn("Login failed", zap.String("username", req.Username))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
	}

	token, claims, err := h.jwt.GenerateToken(user.Username, user.Name, user.Role)
	if err != nil {
		prometheus.AuthErrorsCounter.Inc()
		log.Error("Failed to sign token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create session"})
	}

	prometheus.AuthSuccessCounter.Inc()
	log.Info("User logged in",
		zap.String("username", user.Username),
		zap.String("role", user.Role),
		zap.String("session_id", claims.SessionID()))

	return c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
	})
}

// Logout ends the caller's session for stock alert purposes. Tokens stay
// valid until they expire.
func (h *Handler) Logout(c echo.Context) error {
	if session, ok := middleware.SessionIDFromContext(c); ok {
		h.alerts.Forget(session)
	}
	return c.NoContent(http.StatusNoContent)
}
