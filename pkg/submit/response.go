package submit

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Response is the JSON envelope every bound endpoint replies with.
type Response struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`

	// Detail is the error field FastAPI emits on HTTPException (a string) and
	// on request validation failures (a list of {loc, msg}).
	Detail json.RawMessage `json:"detail,omitempty"`

	// Status is the HTTP status the envelope arrived with.
	Status int `json:"-"`
}

// envelope is the loose shape of a reply body. Fields keep their raw JSON so a
// body with unexpected types still yields a Response.
type envelope struct {
	Success json.RawMessage `json:"success"`
	Message json.RawMessage `json:"message"`
	Data    json.RawMessage `json:"data"`
	Detail  json.RawMessage `json:"detail"`
}

// decodeResponse turns a reply body into a Response. Only a body that is not
// JSON at all is malformed. Any other JSON value is read leniently: success
// follows JSON truthiness and message is kept only when it is a string, so
// a non-object body becomes a rejection without a message.
func decodeResponse(raw []byte, status int) (Response, error) {
	out := Response{Status: status}
	if !json.Valid(raw) {
		return out, &MalformedResponseError{Status: status, Err: errors.New("body is not valid JSON")}
	}
	var env envelope
	if json.Unmarshal(raw, &env) != nil {
		return out, nil
	}
	out.Success = truthy(env.Success)
	var msg string
	if json.Unmarshal(env.Message, &msg) == nil {
		out.Message = msg
	}
	out.Data = nonNull(env.Data)
	out.Detail = nonNull(env.Detail)
	return out, nil
}

// truthy reports whether a raw JSON value counts as true: true, a non-zero
// number, a non-empty string, or any object or array.
func truthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var v any
	if json.Unmarshal(raw, &v) != nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case nil:
		return false
	default:
		return true
	}
}

func nonNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}

// DecodeData unmarshals the opaque data payload into v. A missing payload
// leaves v untouched.
func (r Response) DecodeData(v any) error {
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("submit: decode data: %w", err)
	}
	return nil
}

// errorText picks the user-facing text for a rejection: the server message,
// then a string detail, then fallback.
func (r Response) errorText(fallback string) string {
	if msg := strings.TrimSpace(r.Message); msg != "" {
		return msg
	}
	var detail string
	if len(r.Detail) > 0 && json.Unmarshal(r.Detail, &detail) == nil {
		if detail = strings.TrimSpace(detail); detail != "" {
			return detail
		}
	}
	return fallback
}

type detailIssue struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// fieldErrors maps a validation detail list onto submitted field names using
// the last string segment of each location ("body", "email" -> "email").
func (r Response) fieldErrors() map[string]string {
	if len(r.Detail) == 0 {
		return nil
	}
	var issues []detailIssue
	if json.Unmarshal(r.Detail, &issues) != nil {
		return nil
	}
	out := make(map[string]string)
	for _, issue := range issues {
		msg := strings.TrimSpace(issue.Msg)
		if msg == "" {
			continue
		}
		for i := len(issue.Loc) - 1; i >= 0; i-- {
			name, ok := issue.Loc[i].(string)
			if !ok || name == "" || name == "body" {
				continue
			}
			if _, seen := out[name]; !seen {
				out[name] = msg
			}
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// MalformedResponseError reports a response whose body is not JSON.
type MalformedResponseError struct {
	Status int
	Err    error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("submit: malformed response (status %d): %v", e.Status, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IsMalformed reports whether err is a MalformedResponseError.
func IsMalformed(err error) bool {
	var target *MalformedResponseError
	return errors.As(err, &target)
}
