// Package openapi exposes the loader and parser contracts used to derive form
// definitions from an OpenAPI document describing the backend's endpoints.
// Implementations live under internal/openapi so kin-openapi stays out of the
// public API; BuildForm turns a parsed Operation into a form.Form.
//
// Form-specific hints are read from the x-formgen extension on operations
// (form, submit, hidden, fields) and on request body properties (id, widget,
// placeholder).
package openapi
