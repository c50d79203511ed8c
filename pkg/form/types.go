package form

// FieldType is the input kind of a form field. It drives how prompt drivers
// collect the value and has no effect on submission.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypePassword FieldType = "password"
	FieldTypeHidden   FieldType = "hidden"
)

// LoadingIndicator replaces the submit control's content while a request is
// in flight.
const LoadingIndicator = "..."

// Field models a single input of a form. ID is the stable element handle used
// for error display and lookups; Name is the key the value is submitted under.
// Fields without a Name are never serialised.
type Field struct {
	ID          string    `json:"id"`
	Name        string    `json:"name,omitempty"`
	Type        FieldType `json:"type,omitempty"`
	Label       string    `json:"label,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Required    bool      `json:"required,omitempty"`
	Value       string    `json:"value,omitempty"`

	// Error holds the per-field message currently displayed; Invalid toggles
	// the error styling. Both are reset at the start of every validation pass.
	Error   string `json:"error,omitempty"`
	Invalid bool   `json:"invalid,omitempty"`
}

// Control is a snapshot of a form's submit control.
type Control struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
	Loading  bool   `json:"loading"`
}

// FieldError pairs a field ID with the message rendered next to it.
type FieldError struct {
	FieldID string `json:"fieldId"`
	Message string `json:"message"`
}

// ValidationResult is computed per submit attempt and lists every required
// field left empty, in form order.
type ValidationResult struct {
	Errors []FieldError `json:"errors,omitempty"`
}

// Valid reports whether the pass found no errors.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Message returns the error recorded for the field ID, if any.
func (r ValidationResult) Message(fieldID string) (string, bool) {
	for _, fe := range r.Errors {
		if fe.FieldID == fieldID {
			return fe.Message, true
		}
	}
	return "", false
}
