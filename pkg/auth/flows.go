package auth

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/teamjoin/go-teamjoin/pkg/session"
	"github.com/teamjoin/go-teamjoin/pkg/submit"
	"github.com/teamjoin/go-teamjoin/pkg/toast"
)

// Endpoints each auth form posts to.
const (
	LoginEndpoint     = "/api/auth/login"
	SignupEndpoint    = "/api/auth/signup"
	VerifyOTPEndpoint = "/api/auth/verify-otp"
	ForgotEndpoint    = "/api/auth/forgot-password"

	// HomePath is where a fresh session lands.
	HomePath = "/"
)

// Navigator moves the user to another page.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// Navigate calls fn.
func (fn NavigatorFunc) Navigate(path string) {
	fn(path)
}

// Bindings are the submit handles for a wired page. Entries for absent forms
// are nil and submit as no-ops.
type Bindings struct {
	Login     *submit.Binding
	Signup    *submit.Binding
	VerifyOTP *submit.Binding
	Forgot    *submit.Binding
}

// Flows wires auth forms to their endpoints and success callbacks.
type Flows struct {
	ctrl     *submit.Controller
	notifier toast.Notifier
	store    session.Store
	nav      Navigator
	logger   *zap.Logger
}

// Option configures Flows.
type Option func(*Flows)

// WithNotifier sets the toast slot success messages go to. It should be the
// same slot the controller reports errors on.
func WithNotifier(n toast.Notifier) Option {
	return func(f *Flows) {
		if n != nil {
			f.notifier = n
		}
	}
}

// WithStore sets where access tokens are persisted.
func WithStore(store session.Store) Option {
	return func(f *Flows) {
		if store != nil {
			f.store = store
		}
	}
}

// WithNavigator sets the navigation target for completed logins.
func WithNavigator(nav Navigator) Option {
	return func(f *Flows) {
		if nav != nil {
			f.nav = nav
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Flows) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New constructs Flows around ctrl.
func New(ctrl *submit.Controller, options ...Option) *Flows {
	f := &Flows{
		ctrl:     ctrl,
		notifier: toast.Nop,
		store:    session.NewMemory(),
		nav:      NavigatorFunc(func(string) {}),
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Bind registers every form present on page.
func (f *Flows) Bind(page *Page) Bindings {
	if page == nil {
		page = &Page{}
	}
	return Bindings{
		Login: f.ctrl.Bind(submit.Config{
			Form:      page.Login,
			Endpoint:  LoginEndpoint,
			OnSuccess: f.onLogin,
		}),
		Signup: f.ctrl.Bind(submit.Config{
			Form:      page.Signup,
			Endpoint:  SignupEndpoint,
			OnSuccess: f.onSignup(page),
		}),
		VerifyOTP: f.ctrl.Bind(submit.Config{
			Form:      page.VerifyOTP,
			Endpoint:  VerifyOTPEndpoint,
			OnSuccess: f.onVerified,
		}),
		Forgot: f.ctrl.Bind(submit.Config{
			Form:      page.Forgot,
			Endpoint:  ForgotEndpoint,
			OnSuccess: f.onResetRequested,
		}),
	}
}

type sessionData struct {
	Session *struct {
		AccessToken string `json:"access_token"`
	} `json:"session"`
}

func (f *Flows) onLogin(_ context.Context, resp submit.Response, _ map[string]string) {
	f.notifier.Show(resp.Message, toast.KindSuccess)
	f.persistToken(resp)
	f.nav.Navigate(HomePath)
}

func (f *Flows) onSignup(page *Page) submit.SuccessFunc {
	return func(_ context.Context, _ submit.Response, fields map[string]string) {
		email := fields["email"]
		f.notifier.Show(fmt.Sprintf("A verification OTP has been sent to %s.", email), toast.KindSuccess)
		if page.Signup != nil {
			page.Signup.Hide()
		}
		if page.VerifyOTP == nil {
			return
		}
		page.VerifyOTP.Show()
		if err := page.VerifyOTP.SetValue(OTPEmailFieldID, email); err != nil {
			f.logger.Warn("auth: prefill otp email", zap.Error(err))
		}
	}
}

func (f *Flows) onVerified(_ context.Context, resp submit.Response, _ map[string]string) {
	f.notifier.Show("Your email has been verified successfully! You are now logged in.", toast.KindSuccess)
	f.persistToken(resp)
	f.nav.Navigate(HomePath)
}

func (f *Flows) onResetRequested(_ context.Context, _ submit.Response, fields map[string]string) {
	f.notifier.Show(fmt.Sprintf("A password reset link has been sent to %s.", fields["email"]), toast.KindSuccess)
}

// persistToken stores data.session.access_token when the response carries
// one. Navigation proceeds either way.
func (f *Flows) persistToken(resp submit.Response) {
	var data sessionData
	if err := resp.DecodeData(&data); err != nil {
		f.logger.Warn("auth: decode session", zap.Error(err))
		return
	}
	if data.Session == nil || data.Session.AccessToken == "" {
		return
	}
	if err := f.store.Set(session.AccessTokenKey, data.Session.AccessToken); err != nil {
		f.logger.Error("auth: persist access token", zap.Error(err))
	}
}
