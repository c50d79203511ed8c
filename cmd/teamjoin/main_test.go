package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/teamjoin/go-teamjoin/internal/config"
	"github.com/teamjoin/go-teamjoin/pkg/auth"
	"github.com/teamjoin/go-teamjoin/pkg/prompt"
	"github.com/teamjoin/go-teamjoin/pkg/session"
)

type scriptedDriver struct {
	inputs    []string
	passwords []string
	confirm   bool
}

func (d *scriptedDriver) Input(context.Context, prompt.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *scriptedDriver) Password(context.Context, prompt.InputConfig) (string, error) {
	if len(d.passwords) == 0 {
		return "", errors.New("no password scripted")
	}
	v := d.passwords[0]
	d.passwords = d.passwords[1:]
	return v, nil
}

func (d *scriptedDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	return d.confirm, nil
}

func (d *scriptedDriver) TextArea(context.Context, prompt.TextAreaConfig) (string, error) {
	return "", errors.New("no text scripted")
}

func (d *scriptedDriver) Info(context.Context, string) error { return nil }

type run struct {
	stdout, stderr bytes.Buffer
	sessionPath    string
}

func execute(t *testing.T, base string, driver prompt.Driver, args ...string) (*run, error) {
	t.Helper()
	dir := t.TempDir()
	r := &run{sessionPath: filepath.Join(dir, "session.yaml")}
	t.Setenv(config.EnvSessionPath, r.sessionPath)
	t.Setenv(config.EnvAPIBaseURL, "")
	t.Setenv(config.EnvLogLevel, "")

	a := newApp(&r.stdout, &r.stderr)
	a.newDriver = func(io.Writer) prompt.Driver { return driver }
	root := newRootCmd(a)
	root.SetArgs(append([]string{"--config", filepath.Join(dir, "absent.yaml"), "--api", base}, args...))
	err := root.ExecuteContext(context.Background())
	a.teardown()
	return r, err
}

func TestLogin_SavesSession(t *testing.T) {
	var payload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != auth.LoginEndpoint {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		_, _ = io.WriteString(w, `{"success":true,"message":"Welcome","data":{"session":{"access_token":"T"}}}`)
	}))
	defer srv.Close()

	r, err := execute(t, srv.URL, &scriptedDriver{inputs: []string{"a@b.com"}, passwords: []string{"x"}}, "login")
	if err != nil {
		t.Fatalf("login: %v (stderr=%s)", err, r.stderr.String())
	}

	if diff := cmp.Diff(map[string]string{"email": "a@b.com", "password": "x"}, payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(r.stdout.String(), "Welcome") {
		t.Fatalf("stdout = %q", r.stdout.String())
	}
	store, err := session.OpenFile(r.sessionPath)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	if token, _ := store.Get(session.AccessTokenKey); token != "T" {
		t.Fatalf("token = %q", token)
	}
}

func TestLogin_RejectionFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"message":"Invalid login credentials"}`)
	}))
	defer srv.Close()

	r, err := execute(t, srv.URL, &scriptedDriver{inputs: []string{"a@b.com"}, passwords: []string{"bad"}}, "login")
	if !errors.Is(err, errSilent) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(r.stderr.String(), "Invalid login credentials") {
		t.Fatalf("stderr = %q", r.stderr.String())
	}
}

func TestLogin_RejectionPrintsMarkupButNotEscapes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"message":"Invalid value <none> for \u001b[2Jemail"}`)
	}))
	defer srv.Close()

	r, err := execute(t, srv.URL, &scriptedDriver{inputs: []string{"a@b.com"}, passwords: []string{"bad"}}, "login")
	if !errors.Is(err, errSilent) {
		t.Fatalf("err = %v", err)
	}
	stderr := r.stderr.String()
	if !strings.Contains(stderr, "Invalid value <none> for email") {
		t.Fatalf("stderr = %q", stderr)
	}
	if strings.Contains(stderr, "\x1b[2J") {
		t.Fatalf("escape sequence reached the terminal: %q", stderr)
	}
}

func TestMetricsFlag_DumpsSubmissionCounters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"message":"Welcome","data":{"session":{"access_token":"T"}}}`)
	}))
	defer srv.Close()

	r, err := execute(t, srv.URL, &scriptedDriver{inputs: []string{"a@b.com"}, passwords: []string{"x"}}, "--metrics", "login")
	if err != nil {
		t.Fatalf("login: %v (stderr=%s)", err, r.stderr.String())
	}
	stderr := r.stderr.String()
	for _, want := range []string{
		"# TYPE teamjoin_form_submissions_total counter",
		`teamjoin_form_submissions_total{form="login-form",outcome="succeeded"} 1`,
		"teamjoin_form_round_trip_seconds_count",
	} {
		if !strings.Contains(stderr, want) {
			t.Fatalf("metrics output missing %q:\n%s", want, stderr)
		}
	}

	r, err = execute(t, srv.URL, &scriptedDriver{inputs: []string{"a@b.com"}, passwords: []string{"x"}}, "login")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if strings.Contains(r.stderr.String(), "teamjoin_form_submissions_total") {
		t.Fatalf("metrics printed without --metrics:\n%s", r.stderr.String())
	}
}

func TestFeed_PrintsIdeas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/feed/" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `[{"id":"i1","title":"Rover","sub_title":"Mars robots","full_explained_idea":"x","user_id":"u1"}]`)
	}))
	defer srv.Close()

	r, err := execute(t, srv.URL, &scriptedDriver{}, "feed")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	out := r.stdout.String()
	for _, want := range []string{"TITLE", "i1", "Rover", "Mars robots"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJoin_WithoutSessionReportsMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	r, err := execute(t, srv.URL, &scriptedDriver{}, "idea", "join", "i1")
	if !errors.Is(err, errSilent) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(r.stderr.String(), "No authentication token found") {
		t.Fatalf("stderr = %q", r.stderr.String())
	}
}

func TestParsePairs(t *testing.T) {
	got, err := parsePairs([]string{"go=5", "remote=true", "city=Lisbon", "note= spaced "})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[string]any{"go": float64(5), "remote": true, "city": "Lisbon", "note": " spaced "}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("pairs mismatch (-want +got):\n%s", diff)
	}
	if _, err := parsePairs([]string{"novalue"}); err == nil {
		t.Fatalf("expected error for missing '='")
	}
}
