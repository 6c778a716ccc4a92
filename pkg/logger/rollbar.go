package logger

import (
	"github.com/gin-gonic/gin"
	"github.com/rollbar/rollbar-go"
	"go.uber.org/zap"

	"github.com/noah-isme/academia-api/pkg/config"
	"github.com/noah-isme/academia-api/pkg/middleware/requestid"
)

// ErrorReporter forwards server failures to an external tracker.
type ErrorReporter interface {
	Report(err error, extras map[string]interface{})
}

// RollbarReporter ships errors to Rollbar. It is a no-op without a token.
type RollbarReporter struct {
	enabled bool
}

// NewRollbarReporter configures the global rollbar client.
func NewRollbarReporter(cfg *config.Config) *RollbarReporter {
	enabled := cfg.Rollbar.Token != ""
	rollbar.SetToken(cfg.Rollbar.Token)
	rollbar.SetEnvironment(cfg.Env)
	rollbar.SetCodeVersion(cfg.Rollbar.CodeVersion)
	rollbar.SetEnabled(enabled)
	return &RollbarReporter{enabled: enabled}
}

// Report sends the error with extra request context.
func (r *RollbarReporter) Report(err error, extras map[string]interface{}) {
	if r == nil || !r.enabled || err == nil {
		return
	}
	rollbar.Error(err, extras)
}

// Close flushes queued reports.
func (r *RollbarReporter) Close() {
	if r == nil || !r.enabled {
		return
	}
	rollbar.Wait()
}

// ErrorMiddleware logs and reports errors attached to 5xx responses.
func ErrorMiddleware(l *zap.Logger, reporter ErrorReporter) gin.HandlerFunc {
	if l == nil {
		l = zap.NewNop()
	}
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 500 || len(c.Errors) == 0 {
			return
		}
		extras := map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"request_id": requestid.Value(c),
		}
		for _, ginErr := range c.Errors {
			l.Error("request failed",
				zap.Error(ginErr.Err),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Value(c)),
			)
			if reporter != nil {
				reporter.Report(ginErr.Err, extras)
			}
		}
	}
}
