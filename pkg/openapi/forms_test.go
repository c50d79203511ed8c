package openapi

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/teamjoin/go-teamjoin/pkg/form"
)

func TestBuildForm_AppliesHints(t *testing.T) {
	op := Operation{
		ID:      "verifyOtp",
		Summary: "Verify",
		Extensions: map[string]any{ExtensionKey: map[string]any{
			"form":   "verify-otp-form",
			"hidden": true,
			"fields": []any{"email", "token"},
		}},
		RequestBody: Schema{
			Type:     "object",
			Required: []string{"email", "token"},
			Properties: map[string]Schema{
				"email": {Type: "string", Format: "email", Title: "Email", Extensions: map[string]any{ExtensionKey: map[string]any{"id": "otp-email"}}},
				"token": {Type: "string", Title: "OTP", Extensions: map[string]any{ExtensionKey: map[string]any{"placeholder": "Enter OTP"}}},
				"note":  {Type: "string", Extensions: map[string]any{ExtensionKey: map[string]any{"widget": "hidden"}}},
			},
		},
	}

	f, err := BuildForm(op)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := []form.Field{
		{ID: "otp-email", Name: "email", Type: form.FieldTypeEmail, Label: "Email", Placeholder: "Email", Required: true},
		{ID: "verify-otp-form-token", Name: "token", Type: form.FieldTypeText, Label: "OTP", Placeholder: "Enter OTP", Required: true},
		{ID: "verify-otp-form-note", Name: "note", Type: form.FieldTypeHidden, Label: "Note", Placeholder: "Note"},
	}
	if diff := cmp.Diff(want, f.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if f.ID() != "verify-otp-form" || f.Visible() {
		t.Fatalf("id=%s visible=%v", f.ID(), f.Visible())
	}
	if got := f.Control().Label; got != "Verify" {
		t.Fatalf("submit label = %q", got)
	}
}

func TestBuildForm_DefaultOrderAndIDs(t *testing.T) {
	f, err := BuildForm(Operation{
		ID: "createIdea",
		RequestBody: Schema{
			Required: []string{"title"},
			Properties: map[string]Schema{
				"sub_title":           {Type: "string"},
				"title":               {Type: "string"},
				"full_explained_idea": {Type: "string"},
			},
		},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var ids []string
	for _, field := range f.Fields() {
		ids = append(ids, field.ID)
	}
	want := []string{"createIdea-title", "createIdea-full_explained_idea", "createIdea-sub_title"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if got := f.Control().Label; got != "Submit" {
		t.Fatalf("default submit label = %q", got)
	}
}

func TestBuildForm_Errors(t *testing.T) {
	if _, err := BuildForm(Operation{}); err == nil {
		t.Fatalf("expected error for missing id")
	}
	if _, err := BuildForm(Operation{ID: "x", RequestBody: Schema{Type: "array"}}); err == nil {
		t.Fatalf("expected error for non-object body")
	}
}
