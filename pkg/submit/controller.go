package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/teamjoin/go-teamjoin/pkg/form"
	"github.com/teamjoin/go-teamjoin/pkg/toast"
)

const (
	// MessageUnexpected is shown when the server rejects a submission without
	// saying why.
	MessageUnexpected = "An unexpected error occurred. Please try again."
	// MessageNetwork is shown when the request never completed.
	MessageNetwork = "A network error occurred. Please check your internet connection and try again."

	tracerName      = "github.com/teamjoin/go-teamjoin/pkg/submit"
	defaultMaxBytes = 1 << 20
)

// ErrSubmissionInFlight is returned by Submit while an earlier submission of
// the same binding has not completed.
var ErrSubmissionInFlight = errors.New("submit: submission already in flight")

// Outcome classifies how a submit attempt ended.
type Outcome string

const (
	// OutcomeSkipped: the binding is nil because its form was absent.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeInvalid: at least one required field was blank; nothing was sent.
	OutcomeInvalid Outcome = "invalid"
	// OutcomeSucceeded: the server replied success=true and OnSuccess ran.
	OutcomeSucceeded Outcome = "succeeded"
	// OutcomeRejected: the server replied with success falsy or absent.
	OutcomeRejected Outcome = "rejected"
	// OutcomeUnreachable: the request never completed.
	OutcomeUnreachable Outcome = "unreachable"
	// OutcomeMalformed: a response arrived but its body was not the envelope.
	OutcomeMalformed Outcome = "malformed"
	// OutcomeDiscarded: the form was detached before the response arrived.
	OutcomeDiscarded Outcome = "discarded"
)

// SuccessFunc receives the parsed response and exactly the fields that were
// submitted. It owns whatever happens next (navigation, revealing forms).
type SuccessFunc func(ctx context.Context, resp Response, fields map[string]string)

// Config registers one form with one endpoint.
type Config struct {
	Form      *form.Form
	Endpoint  string
	OnSuccess SuccessFunc
}

// Controller owns the shared collaborators (transport, toast slot, logging)
// and hands out one Binding per form.
type Controller struct {
	client    Doer
	baseURL   string
	notifier  toast.Notifier
	logger    *zap.Logger
	tracer    trace.Tracer
	metrics   *Metrics
	requestID func() string
	maxBody   int64
}

// New constructs a Controller. Without options it posts through
// http.DefaultClient and discards notifications.
func New(options ...Option) *Controller {
	c := &Controller{
		client:    http.DefaultClient,
		notifier:  toast.Nop,
		logger:    zap.NewNop(),
		tracer:    otel.Tracer(tracerName),
		requestID: newRequestID,
		maxBody:   defaultMaxBytes,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Bind registers cfg and returns its Binding. A nil form is not an error: the
// surrounding page may not render that form in every state, so Bind returns
// nil and Submit on the nil Binding does nothing.
func (c *Controller) Bind(cfg Config) *Binding {
	if cfg.Form == nil {
		c.logger.Debug("submit: bind skipped, form absent", zap.String("endpoint", cfg.Endpoint))
		return nil
	}
	return &Binding{
		ctrl:   c,
		cfg:    cfg,
		logger: c.logger.With(zap.String("form", cfg.Form.ID()), zap.String("endpoint", cfg.Endpoint)),
	}
}

// Binding is one registered form.
type Binding struct {
	ctrl   *Controller
	cfg    Config
	logger *zap.Logger

	mu         sync.Mutex
	submitting bool
}

// Form returns the bound form.
func (b *Binding) Form() *form.Form {
	if b == nil {
		return nil
	}
	return b.cfg.Form
}

// Submitting reports whether a submission is in flight.
func (b *Binding) Submitting() bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.submitting
}

// Submit handles one submit intent: validate, post, and dispatch to the
// success callback or the toast slot. User-facing failures are reported via
// the Outcome and the notifier, not the error; the error is reserved for
// ErrSubmissionInFlight.
func (b *Binding) Submit(ctx context.Context) (Outcome, error) {
	if b == nil {
		return OutcomeSkipped, nil
	}
	if !b.begin() {
		return "", ErrSubmissionInFlight
	}
	defer b.end()

	ctx, span := b.ctrl.tracer.Start(ctx, "teamjoin.submit", trace.WithAttributes(
		attribute.String("teamjoin.form", b.cfg.Form.ID()),
		attribute.String("teamjoin.endpoint", b.cfg.Endpoint),
	))
	defer span.End()

	start := time.Now()
	outcome, sent := b.run(ctx)

	span.SetAttributes(attribute.String("teamjoin.outcome", string(outcome)))
	switch outcome {
	case OutcomeUnreachable, OutcomeMalformed:
		span.SetStatus(codes.Error, string(outcome))
	}
	b.ctrl.metrics.observe(b.cfg.Form.ID(), outcome, time.Since(start), sent)
	return outcome, nil
}

func (b *Binding) begin() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.submitting {
		return false
	}
	b.submitting = true
	return true
}

func (b *Binding) end() {
	b.mu.Lock()
	b.submitting = false
	b.mu.Unlock()
}

func (b *Binding) run(ctx context.Context) (Outcome, bool) {
	f := b.cfg.Form

	if result := f.Validate(); !result.Valid() {
		b.logger.Debug("submit: validation failed", zap.Int("errors", len(result.Errors)))
		return OutcomeInvalid, false
	}

	f.SetLoading(true)
	restored := false
	restore := func() {
		if !restored {
			f.SetLoading(false)
			restored = true
		}
	}
	defer restore()

	fields := f.Values()
	resp, err := b.ctrl.post(ctx, b.cfg.Endpoint, fields)
	restore()

	if f.Detached() {
		b.logger.Debug("submit: response discarded, form detached")
		return OutcomeDiscarded, true
	}

	switch {
	case IsMalformed(err):
		b.logger.Warn("submit: malformed response", zap.Error(err))
		b.ctrl.notifier.Show(MessageNetwork, toast.KindError)
		return OutcomeMalformed, true
	case err != nil:
		b.logger.Warn("submit: request failed", zap.Error(err))
		b.ctrl.notifier.Show(MessageNetwork, toast.KindError)
		return OutcomeUnreachable, true
	case resp.Success:
		b.logger.Info("submit: succeeded", zap.Int("status", resp.Status))
		if b.cfg.OnSuccess != nil {
			b.cfg.OnSuccess(ctx, resp, fields)
		}
		return OutcomeSucceeded, true
	default:
		if byName := resp.fieldErrors(); len(byName) > 0 {
			f.SetFieldErrors(byName)
		}
		text := resp.errorText(MessageUnexpected)
		b.logger.Info("submit: rejected", zap.Int("status", resp.Status), zap.String("message", text))
		b.ctrl.notifier.Show(text, toast.KindError)
		return OutcomeRejected, true
	}
}

func (c *Controller) post(ctx context.Context, endpoint string, fields map[string]string) (Response, error) {
	target, err := c.resolve(endpoint)
	if err != nil {
		return Response{}, err
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return Response{}, fmt.Errorf("submit: encode fields: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("submit: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := c.requestID(); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("submit: post %s: %w", target, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, c.maxBody))
	if err != nil {
		return Response{}, fmt.Errorf("submit: read response: %w", err)
	}

	return decodeResponse(raw, res.StatusCode)
}

func (c *Controller) resolve(endpoint string) (string, error) {
	if c.baseURL == "" {
		return endpoint, nil
	}
	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("submit: parse endpoint %q: %w", endpoint, err)
	}
	if ref.IsAbs() {
		return endpoint, nil
	}
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", fmt.Errorf("submit: parse base url %q: %w", c.baseURL, err)
	}
	return base.ResolveReference(ref).String(), nil
}
