// Package form holds the headless form model the submission pipeline operates
// on: ordered fields with per-field error state, a single submit control with a
// loading state, and visibility flags the success callbacks toggle.
package form
