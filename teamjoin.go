// Package teamjoin exposes the construction helpers for the TeamJoin client:
// OpenAPI loading and parsing, form building and the auth page.
package teamjoin

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	internalLoader "github.com/teamjoin/go-teamjoin/internal/openapi/loader"
	internalParser "github.com/teamjoin/go-teamjoin/internal/openapi/parser"
	"github.com/teamjoin/go-teamjoin/pkg/auth"
	"github.com/teamjoin/go-teamjoin/pkg/form"
	pkgopenapi "github.com/teamjoin/go-teamjoin/pkg/openapi"
)

// DefaultFetchTimeout bounds remote definition downloads made through
// LoadAuthPage.
const DefaultFetchTimeout = 10 * time.Second

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	return internalLoader.New(pkgopenapi.NewLoaderOptions(options...))
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	return internalParser.New(pkgopenapi.NewParserOptions(options...))
}

// SourceFor treats http(s) locations as URLs and anything else as a file path.
func SourceFor(location string) (pkgopenapi.Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("teamjoin: empty definitions location")
	}
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return pkgopenapi.SourceFromURL(location)
	}
	return pkgopenapi.SourceFromFile(location), nil
}

// BuildForms converts every operation of doc that declares a request body
// into a form keyed by form ID.
func BuildForms(ctx context.Context, doc pkgopenapi.Document, options ...pkgopenapi.ParserOption) (map[string]*form.Form, error) {
	ops, err := NewParser(options...).Operations(ctx, doc)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(ops))
	for id := range ops {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	forms := make(map[string]*form.Form, len(ids))
	for _, id := range ids {
		op := ops[id]
		if len(op.RequestBody.Properties) == 0 {
			continue
		}
		f, err := pkgopenapi.BuildForm(op)
		if err != nil {
			return nil, err
		}
		if _, dup := forms[f.ID()]; dup {
			return nil, fmt.Errorf("teamjoin: form %q declared by more than one operation", f.ID())
		}
		forms[f.ID()] = f
	}
	return forms, nil
}

// LoadAuthPage builds the auth page from the definitions at location, or from
// the embedded definitions when location is empty.
func LoadAuthPage(ctx context.Context, location string, options ...pkgopenapi.LoaderOption) (*auth.Page, error) {
	if strings.TrimSpace(location) == "" {
		return auth.NewPage(ctx)
	}
	src, err := SourceFor(location)
	if err != nil {
		return nil, err
	}
	loaderOptions := append([]pkgopenapi.LoaderOption{pkgopenapi.WithHTTPFallback(DefaultFetchTimeout)}, options...)
	doc, err := NewLoader(loaderOptions...).Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return auth.PageFromDocument(ctx, doc)
}
