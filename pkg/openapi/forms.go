package openapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/teamjoin/go-teamjoin/pkg/form"
)

// ExtensionKey is the vendor extension carrying form hints.
const ExtensionKey = "x-formgen"

// BuildForm converts an operation's request body into a form. Fields follow
// the operation's x-formgen.fields order when given, then required order,
// then the remaining properties alphabetically.
func BuildForm(op Operation) (*form.Form, error) {
	if op.ID == "" {
		return nil, fmt.Errorf("openapi: operation id is required")
	}
	body := op.RequestBody
	if body.Type != "" && body.Type != "object" {
		return nil, fmt.Errorf("openapi: operation %s: request body must be an object, got %q", op.ID, body.Type)
	}

	hints := extension(op.Extensions)
	formID := stringHint(hints, "form")
	if formID == "" {
		formID = op.ID
	}

	names := fieldOrder(body, stringList(hints["fields"]))
	fields := make([]form.Field, 0, len(names))
	for _, name := range names {
		prop := body.Properties[name]
		propHints := extension(prop.Extensions)

		id := stringHint(propHints, "id")
		if id == "" {
			id = formID + "-" + name
		}
		label := strings.TrimSpace(prop.Title)
		if label == "" {
			label = form.Humanize(name)
		}
		placeholder := stringHint(propHints, "placeholder")
		if placeholder == "" {
			placeholder = label
		}

		fields = append(fields, form.Field{
			ID:          id,
			Name:        name,
			Type:        fieldType(prop, propHints),
			Label:       label,
			Placeholder: placeholder,
			Required:    body.IsRequired(name),
		})
	}

	submitLabel := stringHint(hints, "submit")
	if submitLabel == "" {
		submitLabel = strings.TrimSpace(op.Summary)
	}
	options := []form.Option{form.WithHidden(boolHint(hints, "hidden"))}
	if submitLabel != "" {
		options = append(options, form.WithSubmitLabel(submitLabel))
	}

	f, err := form.New(formID, fields, options...)
	if err != nil {
		return nil, fmt.Errorf("openapi: operation %s: %w", op.ID, err)
	}
	return f, nil
}

func fieldOrder(body Schema, explicit []string) []string {
	seen := make(map[string]bool, len(body.Properties))
	out := make([]string, 0, len(body.Properties))
	add := func(name string) {
		if _, ok := body.Properties[name]; !ok || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	for _, name := range explicit {
		add(name)
	}
	for _, name := range body.Required {
		add(name)
	}
	rest := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		add(name)
	}
	return out
}

func fieldType(prop Schema, hints map[string]any) form.FieldType {
	switch widget := stringHint(hints, "widget"); widget {
	case "password":
		return form.FieldTypePassword
	case "hidden":
		return form.FieldTypeHidden
	case "email":
		return form.FieldTypeEmail
	}
	switch prop.Format {
	case "password":
		return form.FieldTypePassword
	case "email":
		return form.FieldTypeEmail
	}
	return form.FieldTypeText
}

func extension(ext map[string]any) map[string]any {
	if ext == nil {
		return nil
	}
	hints, _ := ext[ExtensionKey].(map[string]any)
	return hints
}

func stringHint(hints map[string]any, key string) string {
	v, _ := hints[key].(string)
	return strings.TrimSpace(v)
}

func boolHint(hints map[string]any, key string) bool {
	v, _ := hints[key].(bool)
	return v
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
