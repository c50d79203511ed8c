package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	pkgopenapi "github.com/teamjoin/go-teamjoin/pkg/openapi"
)

var (
	// ErrRemoteDisabled is returned for URL sources when no HTTP client was
	// configured or allowed.
	ErrRemoteDisabled = errors.New("loader: remote definitions are disabled")
	// ErrNoFileSystem is returned for fs sources when no fs.FS was injected.
	ErrNoFileSystem = errors.New("loader: no filesystem configured")
)

// maxDefinitionSize caps how much of a definitions file is read.
const maxDefinitionSize = 4 << 20

type reader func(ctx context.Context, location string) ([]byte, error)

// Loader reads auth form definitions from disk, an embedded filesystem or a
// URL.
type Loader struct {
	files   fs.FS
	client  *http.Client
	timeout time.Duration
	readers map[pkgopenapi.SourceKind]reader
}

var _ pkgopenapi.Loader = (*Loader)(nil)

// New builds a Loader. A URL source only works when options carry an HTTP
// client or allow the fallback one.
func New(options pkgopenapi.LoaderOptions) *Loader {
	l := &Loader{
		files:   options.FileSystem,
		client:  remoteClient(options),
		timeout: options.RequestTimeout,
	}
	l.readers = map[pkgopenapi.SourceKind]reader{
		pkgopenapi.SourceKindFile: l.readDisk,
		pkgopenapi.SourceKindFS:   l.readEmbedded,
		pkgopenapi.SourceKindURL:  l.readRemote,
	}
	return l
}

// remoteClient returns the client URL sources use, or nil when remote reads
// are off. A supplied client is copied so the request timeout can be applied
// without touching the caller's value.
func remoteClient(options pkgopenapi.LoaderOptions) *http.Client {
	if options.HTTPClient == nil {
		if !options.AllowHTTPFallback {
			return nil
		}
		return &http.Client{Timeout: options.RequestTimeout}
	}
	c := *options.HTTPClient
	if c.Timeout == 0 {
		c.Timeout = options.RequestTimeout
	}
	return &c
}

// Load reads src and wraps its bytes in a Document.
func (l *Loader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	if src == nil {
		return pkgopenapi.Document{}, errors.New("loader: nil source")
	}
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Document{}, err
	}
	read, ok := l.readers[src.Kind()]
	if !ok {
		return pkgopenapi.Document{}, fmt.Errorf("loader: cannot read %q sources", src.Kind())
	}
	if src.Location() == "" {
		return pkgopenapi.Document{}, fmt.Errorf("loader: %s source has no location", src.Kind())
	}
	raw, err := read(ctx, src.Location())
	if err != nil {
		return pkgopenapi.Document{}, err
	}
	return pkgopenapi.NewDocument(src, raw)
}
