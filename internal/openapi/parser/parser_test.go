package parser

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/teamjoin/go-teamjoin/pkg/openapi"
)

const doc = `openapi: 3.0.3
info:
  title: test
  version: 1.0.0
paths:
  /api/auth/forgot-password:
    post:
      operationId: forgotPassword
      summary: Send Reset Link
      x-formgen:
        form: forgot-form
      x-internal: true
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [email]
              properties:
                email:
                  type: string
                  format: email
                  x-formgen:
                    id: forgot-email
                profile:
                  type: object
                  properties:
                    city:
                      type: string
      responses:
        "200":
          description: ok
  /health:
    get:
      responses:
        "200":
          description: ok
`

func parse(t *testing.T, raw string, options ...pkgopenapi.ParserOption) (map[string]pkgopenapi.Operation, error) {
	t.Helper()
	d, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile("test.yaml"), []byte(raw))
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	return New(pkgopenapi.NewParserOptions(options...)).Operations(context.Background(), d)
}

func TestOperations_ConvertsRequestBodies(t *testing.T) {
	ops, err := parse(t, doc)
	if err != nil {
		t.Fatalf("operations: %v", err)
	}

	forgot, ok := ops["forgotPassword"]
	if !ok {
		t.Fatalf("forgotPassword missing: %v", ops)
	}
	want := pkgopenapi.Operation{
		ID:      "forgotPassword",
		Method:  "POST",
		Path:    "/api/auth/forgot-password",
		Summary: "Send Reset Link",
		Extensions: map[string]any{
			"x-formgen": map[string]any{"form": "forgot-form"},
		},
		RequestBody: pkgopenapi.Schema{
			Type:     "object",
			Required: []string{"email"},
			Properties: map[string]pkgopenapi.Schema{
				"email": {
					Type:       "string",
					Format:     "email",
					Extensions: map[string]any{"x-formgen": map[string]any{"id": "forgot-email"}},
				},
				"profile": {Type: "object"},
			},
		},
	}
	if diff := cmp.Diff(want, forgot); diff != "" {
		t.Fatalf("operation mismatch (-want +got):\n%s", diff)
	}

	health, ok := ops["get:/health"]
	if !ok {
		t.Fatalf("operation without id should be keyed by method and path")
	}
	if len(health.RequestBody.Properties) != 0 {
		t.Fatalf("health should have no body")
	}
}

func TestOperations_Errors(t *testing.T) {
	if _, err := parse(t, "not: [openapi"); err == nil {
		t.Fatalf("expected load error")
	}
	noPaths := "openapi: 3.0.3\ninfo:\n  title: t\n  version: 1.0.0\npaths: {}\n"
	if _, err := parse(t, noPaths); err == nil {
		t.Fatalf("expected error for empty paths")
	}
	invalid := "openapi: 3.0.3\ninfo:\n  title: t\n  version: 1.0.0\npaths:\n  /x:\n    get:\n      responses:\n        \"200\": {}\n"
	if _, err := parse(t, invalid); err == nil {
		t.Fatalf("expected validation error for response without description")
	}
	if _, err := parse(t, invalid, pkgopenapi.WithValidation(false)); err != nil {
		t.Fatalf("validation disabled: %v", err)
	}
}
