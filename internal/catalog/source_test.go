package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`[{"id":"1"}]`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, srv.Client())
	data, err := src.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, `[{"id":"1"}]`, string(data))
	assert.Equal(t, "remote", src.Name())
	assert.Equal(t, srv.URL, src.Location())
}

func TestHTTPSourceBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, nil).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrBadStatus)
}

func TestHTTPSourceTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPSource(url, nil).Fetch(context.Background())
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrBadStatus))
}

func TestFileSourceBundled(t *testing.T) {
	src := NewFileSource("")

	data, err := src.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, bundledCatalog, data)
	assert.Equal(t, "local", src.Name())
	assert.Contains(t, src.Location(), "bundled")
}

func TestFileSourcePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,timestamp,label\n1,0:00,Start\n"), 0o644))

	src := NewFileSource(path)
	data, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Start")
	assert.Equal(t, path, src.Location())

	_, err = NewFileSource(filepath.Join(t.TempDir(), "missing.json")).Fetch(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

type fakeObjects struct {
	objects map[string][]byte
}

func (f *fakeObjects) Bucket() string { return "catalogs" }

func (f *fakeObjects) ReadObject(ctx context.Context, name string) ([]byte, error) {
	data, ok := f.objects[name]
	if !ok {
		return nil, errors.New("The specified key does not exist.")
	}
	return data, nil
}

func TestObjectSource(t *testing.T) {
	store := &fakeObjects{objects: map[string][]byte{"videos.json": []byte("[]")}}

	src := NewObjectSource(store, "videos.json")
	data, err := src.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "[]", string(data))
	assert.Equal(t, "object", src.Name())
	assert.Equal(t, "catalogs/videos.json", src.Location())

	_, err = NewObjectSource(store, "missing.json").Fetch(context.Background())
	assert.Error(t, err)
}
