package auth

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/teamjoin/go-teamjoin/internal/openapi/parser"
	"github.com/teamjoin/go-teamjoin/pkg/form"
	pkgopenapi "github.com/teamjoin/go-teamjoin/pkg/openapi"
)

//go:embed openapi.yaml
var definitions []byte

// Form element handles on the auth page.
const (
	LoginFormID     = "login-form"
	SignupFormID    = "signup-form"
	VerifyOTPFormID = "verify-otp-form"
	ForgotFormID    = "forgot-form"

	// OTPEmailFieldID is pre-filled with the signup email once the OTP form
	// is revealed.
	OTPEmailFieldID = "otp-email"
)

// Operation IDs in the embedded definitions.
const (
	opLogin     = "login"
	opSignup    = "signup"
	opVerifyOTP = "verifyOtp"
	opForgot    = "forgotPassword"
)

// Page holds the auth forms a screen renders. Any of them may be nil: the
// login screen has no signup form and vice versa.
type Page struct {
	Login     *form.Form
	Signup    *form.Form
	VerifyOTP *form.Form
	Forgot    *form.Form
}

// Definitions returns the embedded OpenAPI document the auth forms are built
// from.
func Definitions() (pkgopenapi.Document, error) {
	return pkgopenapi.NewDocument(pkgopenapi.SourceFromFS("auth/openapi.yaml"), definitions)
}

// NewPage builds a page with all four auth forms from the embedded
// definitions. The OTP form starts hidden.
func NewPage(ctx context.Context) (*Page, error) {
	doc, err := Definitions()
	if err != nil {
		return nil, err
	}
	return PageFromDocument(ctx, doc)
}

// PageFromDocument builds the page from an alternative definitions document.
// Every auth operation must be present.
func PageFromDocument(ctx context.Context, doc pkgopenapi.Document) (*Page, error) {
	ops, err := parser.New(pkgopenapi.NewParserOptions()).Operations(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	build := func(id string) (*form.Form, error) {
		op, ok := ops[id]
		if !ok {
			return nil, fmt.Errorf("auth: operation %q missing from %s", id, doc.Location())
		}
		return pkgopenapi.BuildForm(op)
	}

	page := &Page{}
	for _, target := range []struct {
		id  string
		dst **form.Form
	}{
		{opLogin, &page.Login},
		{opSignup, &page.Signup},
		{opVerifyOTP, &page.VerifyOTP},
		{opForgot, &page.Forgot},
	} {
		f, err := build(target.id)
		if err != nil {
			return nil, err
		}
		*target.dst = f
	}
	return page, nil
}
