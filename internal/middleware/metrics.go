package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"billing-service/prometheus"
)

// MetricsMiddleware records request count, latency and status category
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			// let echo write the response now so the recorded status is final
			c.Error(err)
		}

		service := prometheus.ServiceName()
		method := c.Request().Method
		path := c.Path()
		status := c.Response().Status
		statusStr := strconv.Itoa(status)

		prometheus.HttpRequestsTotal.WithLabelValues(service, method, path, statusStr).Inc()
		prometheus.HttpRequestDuration.WithLabelValues(service, method, path, statusStr).Observe(time.Since(start).Seconds())
		if category := statusCategory(status); category != "" {
			prometheus.StatusCodeCategoryCounter.WithLabelValues(service, category, method, path).Inc()
		}

		return nil
	}
}

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	default:
		return ""
	}
}
