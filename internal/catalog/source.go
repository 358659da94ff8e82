package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
)

// ErrBadStatus is returned when the remote catalog answers with a non-2xx status
var ErrBadStatus = errors.New("unexpected catalog response status")

//go:embed data/videos.json
var bundledCatalog []byte

// Source yields a raw catalog payload
type Source interface {
	// Name is a short label used in logs and metrics
	Name() string
	// Location describes where the payload is read from
	Location() string
	Fetch(ctx context.Context) ([]byte, error)
}

// HTTPSource downloads the catalog with a single GET
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates a remote source. A nil client uses http.DefaultClient.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{url: url, client: client}
}

func (s *HTTPSource) Name() string     { return "remote" }
func (s *HTTPSource) Location() string { return s.url }

// Fetch fails on transport errors and on any non-2xx response
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}
	return data, nil
}

// FileSource reads the catalog from disk, or from the copy compiled into the
// binary when no path is configured.
type FileSource struct {
	path string
}

// NewFileSource creates a local source. An empty path selects the bundled catalog.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "local" }

func (s *FileSource) Location() string {
	if s.path == "" {
		return "bundled:data/videos.json"
	}
	return s.path
}

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if s.path == "" {
		return bundledCatalog, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read local catalog: %w", err)
	}
	return data, nil
}

// ObjectReader is the slice of object storage the catalog needs
type ObjectReader interface {
	ReadObject(ctx context.Context, objectName string) ([]byte, error)
	Bucket() string
}

// ObjectSource reads a published catalog from object storage
type ObjectSource struct {
	store ObjectReader
	key   string
}

// NewObjectSource creates a source for key in store
func NewObjectSource(store ObjectReader, key string) *ObjectSource {
	return &ObjectSource{store: store, key: key}
}

func (s *ObjectSource) Name() string     { return "object" }
func (s *ObjectSource) Location() string { return s.store.Bucket() + "/" + s.key }

func (s *ObjectSource) Fetch(ctx context.Context) ([]byte, error) {
	return s.store.ReadObject(ctx, s.key)
}
