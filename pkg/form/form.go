package form

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrFieldNotFound is returned when a lookup targets an unknown field ID.
	ErrFieldNotFound = errors.New("form: field not found")
	// ErrDuplicateFieldID is returned by New when two fields share an ID.
	ErrDuplicateFieldID = errors.New("form: duplicate field id")
)

// Form is a headless form: an ordered set of fields plus one submit control.
// All methods are safe for concurrent use; callers receive copies, never
// pointers into the form's state.
type Form struct {
	id string

	mu       sync.RWMutex
	fields   []Field
	index    map[string]int
	control  Control
	saved    string
	hasSaved bool
	hidden   bool
	detached bool
}

// Option configures a Form during construction.
type Option func(*Form)

// WithSubmitLabel sets the submit control's resting content.
func WithSubmitLabel(label string) Option {
	return func(f *Form) {
		f.control.Label = label
	}
}

// WithHidden starts the form hidden.
func WithHidden(hidden bool) Option {
	return func(f *Form) {
		f.hidden = hidden
	}
}

// New builds a form. Field IDs must be unique and non-empty.
func New(id string, fields []Field, options ...Option) (*Form, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("form: id is required")
	}
	f := &Form{
		id:      id,
		fields:  make([]Field, 0, len(fields)),
		index:   make(map[string]int, len(fields)),
		control: Control{Label: "Submit"},
	}
	for _, field := range fields {
		fid := strings.TrimSpace(field.ID)
		if fid == "" {
			return nil, fmt.Errorf("form %s: field id is required", id)
		}
		if _, exists := f.index[fid]; exists {
			return nil, fmt.Errorf("form %s: %w: %s", id, ErrDuplicateFieldID, fid)
		}
		field.ID = fid
		if field.Type == "" {
			field.Type = FieldTypeText
		}
		f.index[fid] = len(f.fields)
		f.fields = append(f.fields, field)
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

// MustNew panics when New fails. Useful for fixtures and tests.
func MustNew(id string, fields []Field, options ...Option) *Form {
	f, err := New(id, fields, options...)
	if err != nil {
		panic(err)
	}
	return f
}

// ID returns the form's element handle.
func (f *Form) ID() string {
	return f.id
}

// Fields returns a copy of the fields in declaration order.
func (f *Form) Fields() []Field {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]Field(nil), f.fields...)
}

// Field returns a copy of the field with the given ID.
func (f *Form) Field(id string) (Field, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	idx, ok := f.index[id]
	if !ok {
		return Field{}, false
	}
	return f.fields[idx], true
}

// SetValue updates a field's current value.
func (f *Form) SetValue(id, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx, ok := f.index[id]
	if !ok {
		return fmt.Errorf("form %s: %w: %s", f.id, ErrFieldNotFound, id)
	}
	f.fields[idx].Value = value
	return nil
}

// Values collects every named field into a flat name → value mapping. When a
// name repeats, the last field in form order wins.
func (f *Form) Values() map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		if field.Name == "" {
			continue
		}
		out[field.Name] = field.Value
	}
	return out
}

// Validate clears all per-field error state and then flags every required
// field whose trimmed value is empty. It never stops at the first failure.
func (f *Form) Validate() ValidationResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result ValidationResult
	for i := range f.fields {
		field := &f.fields[i]
		field.Error = ""
		field.Invalid = false

		if !field.Required || strings.TrimSpace(field.Value) != "" {
			continue
		}
		msg := displayName(*field) + " is required"
		field.Error = msg
		field.Invalid = true
		result.Errors = append(result.Errors, FieldError{FieldID: field.ID, Message: msg})
	}
	return result
}

// SetFieldErrors marks fields errored by submitted name. Unknown names are
// returned so callers can surface them elsewhere.
func (f *Form) SetFieldErrors(byName map[string]string) []string {
	if len(byName) == 0 {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := make(map[string]bool, len(byName))
	for i := range f.fields {
		field := &f.fields[i]
		msg, ok := byName[field.Name]
		if !ok || field.Name == "" {
			continue
		}
		field.Error = msg
		field.Invalid = true
		matched[field.Name] = true
	}
	var unknown []string
	for name := range byName {
		if !matched[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// Control returns a snapshot of the submit control.
func (f *Form) Control() Control {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.control
}

// SetLoading toggles the submit control's loading state. Entering it disables
// the control and swaps its content for LoadingIndicator, remembering the prior
// content only once so repeated calls do not capture the indicator itself.
// Leaving it restores the remembered content and re-enables the control.
func (f *Form) SetLoading(loading bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if loading {
		f.control.Disabled = true
		f.control.Loading = true
		if !f.hasSaved {
			f.saved = f.control.Label
			f.hasSaved = true
		}
		f.control.Label = LoadingIndicator
		return
	}
	f.control.Disabled = false
	f.control.Loading = false
	if f.hasSaved {
		f.control.Label = f.saved
		f.saved = ""
		f.hasSaved = false
	}
}

// Show makes the form visible.
func (f *Form) Show() {
	f.mu.Lock()
	f.hidden = false
	f.mu.Unlock()
}

// Hide hides the form without detaching it.
func (f *Form) Hide() {
	f.mu.Lock()
	f.hidden = true
	f.mu.Unlock()
}

// Visible reports whether the form is currently shown.
func (f *Form) Visible() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return !f.hidden
}

// Detach marks the form as removed from the page, for example after the user
// navigated away. Responses for submissions that were in flight are dropped.
func (f *Form) Detach() {
	f.mu.Lock()
	f.detached = true
	f.mu.Unlock()
}

// Detached reports whether Detach was called.
func (f *Form) Detached() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.detached
}
