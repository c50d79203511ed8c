package form

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func loginForm(t *testing.T) *Form {
	t.Helper()
	f, err := New("login-form", []Field{
		{ID: "login-email", Name: "email", Type: FieldTypeEmail, Placeholder: "Email", Required: true},
		{ID: "login-password", Name: "password", Type: FieldTypePassword, Placeholder: "Password", Required: true},
		{ID: "login-remember", Name: "remember"},
	}, WithSubmitLabel("Log In"))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return f
}

func TestValidate_FlagsEveryBlankRequiredField(t *testing.T) {
	f := loginForm(t)
	if err := f.SetValue("login-email", "   "); err != nil {
		t.Fatalf("set value: %v", err)
	}

	result := f.Validate()

	want := []FieldError{
		{FieldID: "login-email", Message: "Email is required"},
		{FieldID: "login-password", Message: "Password is required"},
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("validation errors mismatch (-want +got):\n%s", diff)
	}
	if result.Valid() {
		t.Fatalf("expected invalid result")
	}
	for _, id := range []string{"login-email", "login-password"} {
		field, _ := f.Field(id)
		if !field.Invalid || field.Error == "" {
			t.Fatalf("field %s not flagged: %+v", id, field)
		}
	}
	if remember, _ := f.Field("login-remember"); remember.Invalid {
		t.Fatalf("optional field should never be flagged")
	}
}

func TestValidate_ClearsStaleErrorsForFixedFields(t *testing.T) {
	f := loginForm(t)
	f.Validate()

	_ = f.SetValue("login-email", "a@b.com")
	result := f.Validate()

	if _, ok := result.Message("login-email"); ok {
		t.Fatalf("email should be valid after fix")
	}
	email, _ := f.Field("login-email")
	if email.Invalid || email.Error != "" {
		t.Fatalf("stale error left on email: %+v", email)
	}
	password, _ := f.Field("login-password")
	if password.Error != "Password is required" {
		t.Fatalf("password error = %q", password.Error)
	}
}

func TestValidate_LabelFallbacks(t *testing.T) {
	f := MustNew("f", []Field{
		{ID: "a", Name: "full_name", Label: "Your name", Required: true},
		{ID: "b", Name: "otpToken", Required: true},
		{ID: "otp-email", Required: true},
	})
	result := f.Validate()
	want := []FieldError{
		{FieldID: "a", Message: "Your name is required"},
		{FieldID: "b", Message: "Otp Token is required"},
		{FieldID: "otp-email", Message: "Otp Email is required"},
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestValues_LastValueWinsAndUnnamedSkipped(t *testing.T) {
	f := MustNew("f", []Field{
		{ID: "one", Name: "email", Value: "first@x.io"},
		{ID: "two", Name: "email", Value: "second@x.io"},
		{ID: "three", Value: "ignored"},
		{ID: "four", Name: "token", Value: "123456"},
	})
	want := map[string]string{"email": "second@x.io", "token": "123456"}
	if diff := cmp.Diff(want, f.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestSetLoading_IsIdempotentAndRestores(t *testing.T) {
	f := loginForm(t)

	f.SetLoading(true)
	f.SetLoading(true)
	if got := f.Control(); !got.Disabled || !got.Loading || got.Label != LoadingIndicator {
		t.Fatalf("loading control = %+v", got)
	}

	f.SetLoading(false)
	want := Control{Label: "Log In"}
	if diff := cmp.Diff(want, f.Control()); diff != "" {
		t.Fatalf("restored control mismatch (-want +got):\n%s", diff)
	}

	f.SetLoading(false)
	if diff := cmp.Diff(want, f.Control()); diff != "" {
		t.Fatalf("second exit changed control (-want +got):\n%s", diff)
	}
}

func TestSetFieldErrors_ReturnsUnknownNames(t *testing.T) {
	f := loginForm(t)
	unknown := f.SetFieldErrors(map[string]string{
		"email":   "value is not a valid email address",
		"captcha": "missing",
	})
	if diff := cmp.Diff([]string{"captcha"}, unknown); diff != "" {
		t.Fatalf("unknown mismatch (-want +got):\n%s", diff)
	}
	email, _ := f.Field("login-email")
	if !email.Invalid || email.Error != "value is not a valid email address" {
		t.Fatalf("email not flagged: %+v", email)
	}
}

func TestNew_RejectsDuplicateIDs(t *testing.T) {
	_, err := New("f", []Field{{ID: "x"}, {ID: "x"}})
	if !errors.Is(err, ErrDuplicateFieldID) {
		t.Fatalf("expected ErrDuplicateFieldID, got %v", err)
	}
	if err := loginForm(t).SetValue("missing", "v"); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestVisibilityAndDetach(t *testing.T) {
	f := MustNew("verify-otp-form", nil, WithHidden(true))
	if f.Visible() {
		t.Fatalf("expected hidden form")
	}
	f.Show()
	if !f.Visible() {
		t.Fatalf("expected visible form")
	}
	f.Detach()
	if !f.Detached() {
		t.Fatalf("expected detached form")
	}
}
