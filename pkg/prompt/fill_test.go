package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/teamjoin/go-teamjoin/pkg/form"
)

type stubDriver struct {
	inputs    []string
	passwords []string
	infos     []string
	asked     []InputConfig
	inputPos  int
	passPos   int
	failWith  error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.asked = append(s.asked, cfg)
	if s.failWith != nil {
		return "", s.failWith
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	s.asked = append(s.asked, cfg)
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(context.Context, ConfirmConfig) (bool, error) {
	return false, errors.New("no confirm scripted")
}

func (s *stubDriver) TextArea(context.Context, TextAreaConfig) (string, error) {
	return "", errors.New("no text scripted")
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func otpForm(t *testing.T) *form.Form {
	t.Helper()
	f, err := form.New("verify-otp-form", []form.Field{
		{ID: "otp-email", Name: "email", Type: form.FieldTypeEmail, Placeholder: "Email", Required: true, Value: "a@b.com"},
		{ID: "otp-csrf", Name: "csrf", Type: form.FieldTypeHidden, Value: "k"},
		{ID: "otp-secret", Name: "password", Type: form.FieldTypePassword, Placeholder: "Password", Required: true},
		{ID: "otp-token", Name: "token", Placeholder: "Enter OTP"},
	})
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return f
}

func TestFill_PromptsVisibleFieldsInOrder(t *testing.T) {
	f := otpForm(t)
	d := &stubDriver{inputs: []string{"c@d.com", "123456"}, passwords: []string{"pw"}}

	if err := Fill(context.Background(), d, f); err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]string{"email": "c@d.com", "csrf": "k", "password": "pw", "token": "123456"}
	if diff := cmp.Diff(want, f.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	var messages, defaults []string
	for _, cfg := range d.asked {
		messages = append(messages, cfg.Message)
		defaults = append(defaults, cfg.Default)
	}
	if diff := cmp.Diff([]string{"Email:", "Password:", "Enter OTP:"}, messages); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a@b.com", "", ""}, defaults); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestFill_RequiredValidatorMatchesFormMessage(t *testing.T) {
	f := otpForm(t)
	d := &stubDriver{inputs: []string{"c@d.com", ""}, passwords: []string{"pw"}}
	if err := Fill(context.Background(), d, f); err != nil {
		t.Fatalf("fill: %v", err)
	}

	required := d.asked[0].Validator
	if required == nil {
		t.Fatalf("required field should carry a validator")
	}
	if err := required("   "); err == nil || err.Error() != "Email is required" {
		t.Fatalf("validator(blank) = %v", err)
	}
	if err := required("x"); err != nil {
		t.Fatalf("validator(x) = %v", err)
	}
	if d.asked[2].Validator != nil {
		t.Fatalf("optional field should not carry a validator")
	}
}

func TestFill_PropagatesAbort(t *testing.T) {
	f := otpForm(t)
	d := &stubDriver{failWith: ErrAborted}

	err := Fill(context.Background(), d, f)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("err = %v, want ErrAborted", err)
	}
	if got, _ := f.Field("otp-email"); got.Value != "a@b.com" {
		t.Fatalf("aborted fill changed value to %q", got.Value)
	}
}

func TestFill_RequiresDriver(t *testing.T) {
	if err := Fill(context.Background(), nil, otpForm(t)); !errors.Is(err, ErrNoDriver) {
		t.Fatalf("err = %v", err)
	}
}

func TestReportErrors_ListsInvalidFields(t *testing.T) {
	f := otpForm(t)
	if err := f.SetValue("otp-email", ""); err != nil {
		t.Fatalf("set: %v", err)
	}
	f.Validate()

	d := &stubDriver{}
	n, err := ReportErrors(context.Background(), d, f)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	want := []string{"  Email: Email is required", "  Password: Password is required"}
	if n != len(want) {
		t.Fatalf("n = %d", n)
	}
	if diff := cmp.Diff(want, d.infos); diff != "" {
		t.Fatalf("infos mismatch (-want +got):\n%s", diff)
	}
}
