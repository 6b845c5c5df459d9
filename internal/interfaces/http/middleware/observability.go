package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/masgolf/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func skipTelemetry(path string) bool {
	return path == "/health" || path == "/metrics" || strings.HasPrefix(path, "/swagger/")
}

// Tracing starts a server span per request and tags it with the request id
func Tracing(serviceName string) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		otelgin.Middleware(serviceName, otelgin.WithGinFilter(func(c *gin.Context) bool {
			return !skipTelemetry(c.Request.URL.Path)
		})),
		func(c *gin.Context) {
			span := trace.SpanFromContext(c.Request.Context())
			if span.SpanContext().IsValid() {
				span.SetAttributes(attribute.String("request.id", GetRequestID(c)))
			}
			c.Next()
			if s := GetSession(c); s != nil && span.SpanContext().IsValid() {
				span.SetAttributes(attribute.String("admin.id", s.AdminID.String()))
			}
		},
	}
}

// HTTPMetrics records request counts and latency by route pattern
func HTTPMetrics(m *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipTelemetry(c.Request.URL.Path) {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		m.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
