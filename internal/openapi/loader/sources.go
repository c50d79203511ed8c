package loader

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
)

func (l *Loader) readDisk(_ context.Context, path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read definitions: %w", err)
	}
	return raw, nil
}

func (l *Loader) readEmbedded(_ context.Context, name string) ([]byte, error) {
	if l.files == nil {
		return nil, ErrNoFileSystem
	}
	raw, err := fs.ReadFile(l.files, name)
	if err != nil {
		return nil, fmt.Errorf("loader: read embedded definitions: %w", err)
	}
	return raw, nil
}

func (l *Loader) readRemote(ctx context.Context, target string) ([]byte, error) {
	if l.client == nil {
		return nil, ErrRemoteDisabled
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("loader: build request for %s: %w", target, err)
	}
	req.Header.Set("Accept", "application/yaml, application/json")

	res, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("loader: fetch %s: %w", target, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("loader: fetch %s: status %d", target, res.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(res.Body, maxDefinitionSize))
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", target, err)
	}
	return raw, nil
}
