package storage

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIPFS serves the MFS subset of the IPFS HTTP API used by IPFSBackend.
type fakeIPFS struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newFakeIPFS() *fakeIPFS {
	return &fakeIPFS{files: make(map[string][]byte)}
}

func (f *fakeIPFS) notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte(`{"Message":"file does not exist","Code":0,"Type":"error"}`))
}

func (f *fakeIPFS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	filePath := r.URL.Query().Get("arg")
	switch strings.TrimPrefix(r.URL.Path, "/api/v0/") {
	case "id":
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"ID": "12D3KooWfake"})
	case "version":
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"Version": "0.24.0", "Commit": "fake"})
	case "files/read":
		data, ok := f.files[filePath]
		if !ok {
			f.notFound(w)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write(data)
	case "files/stat":
		data, ok := f.files[filePath]
		if !ok {
			f.notFound(w)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"Hash": "QmFake", "Size": len(data), "CumulativeSize": len(data), "Blocks": 0, "Type": "file",
		})
	case "files/write":
		reader, err := r.MultipartReader()
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		part, err := reader.NextPart()
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(part)
		f.files[filePath] = data
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestIPFSBackend(t *testing.T) {
	fake := newFakeIPFS()
	server := httptest.NewServer(fake)
	defer server.Close()

	host, port, err := net.SplitHostPort(strings.TrimPrefix(server.URL, "http://"))
	require.NoError(t, err)

	store, err := NewIPFSBackend(host, port, "registry/", 5*time.Second, testLogger())
	require.NoError(t, err)
	require.True(t, store.Available(context.Background()))

	testStoreContract(t, store)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Len(t, fake.files, 2)
	for p := range fake.files {
		assert.True(t, strings.HasPrefix(p, "/registry/"), p)
	}
	assert.Equal(t, "ipfs-"+host+"-"+port, store.Name())
}

func TestIPFSBackend_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	host, port, err := net.SplitHostPort(strings.TrimPrefix(server.URL, "http://"))
	require.NoError(t, err)
	server.Close()

	store, err := NewIPFSBackend(host, port, "", time.Second, testLogger())
	require.NoError(t, err)
	assert.False(t, store.Available(context.Background()))
	assert.Contains(t, store.LocationURI(), "root=/interfaces")
}
