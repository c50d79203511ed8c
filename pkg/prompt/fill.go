// Package prompt collects form values on a terminal.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/teamjoin/go-teamjoin/pkg/form"
)

// Fill prompts for every visible field of f in order and stores the answers.
// Hidden fields are skipped, password fields are read without echo and any
// value already on a field is offered as the default. Required fields are
// re-asked until non-blank, using the same message Validate would show.
func Fill(ctx context.Context, d Driver, f *form.Form) error {
	if d == nil {
		return ErrNoDriver
	}
	if f == nil {
		return errors.New("prompt: form is required")
	}

	for _, field := range f.Fields() {
		if field.Type == form.FieldTypeHidden {
			continue
		}
		cfg := InputConfig{
			Message: field.DisplayName() + ":",
			Default: field.Value,
		}
		if field.Required {
			msg := field.DisplayName() + " is required"
			cfg.Validator = func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New(msg)
				}
				return nil
			}
		}

		var (
			answer string
			err    error
		)
		if field.Type == form.FieldTypePassword {
			answer, err = d.Password(ctx, cfg)
		} else {
			answer, err = d.Input(ctx, cfg)
		}
		if err != nil {
			return fmt.Errorf("prompt: %s: %w", field.ID, err)
		}
		if err := f.SetValue(field.ID, answer); err != nil {
			return err
		}
	}
	return nil
}

// ReportErrors prints each field error currently shown on f. It returns the
// number of lines written.
func ReportErrors(ctx context.Context, d Driver, f *form.Form) (int, error) {
	if d == nil {
		return 0, ErrNoDriver
	}
	if f == nil {
		return 0, nil
	}
	n := 0
	for _, field := range f.Fields() {
		if !field.Invalid || field.Error == "" {
			continue
		}
		if err := d.Info(ctx, "  "+field.DisplayName()+": "+field.Error); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
