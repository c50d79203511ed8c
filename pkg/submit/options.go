package submit

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/teamjoin/go-teamjoin/pkg/toast"
)

// Doer issues HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithHTTPClient overrides the transport used for submissions.
func WithHTTPClient(client Doer) Option {
	return func(c *Controller) {
		if client != nil {
			c.client = client
		}
	}
}

// WithBaseURL resolves relative endpoints such as "/api/auth/login" against
// base. Absolute endpoints are used as-is.
func WithBaseURL(base string) Option {
	return func(c *Controller) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
	}
}

// WithNotifier sets the shared toast slot error and success messages go to.
func WithNotifier(n toast.Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracer overrides the tracer used for submit spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Controller) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithMetrics records outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithRequestIDs overrides the X-Request-ID generator. Returning an empty
// string omits the header.
func WithRequestIDs(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.requestID = fn
		}
	}
}

// WithMaxResponseBytes caps how much of a response body is read.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

func newRequestID() string {
	return uuid.NewString()
}
