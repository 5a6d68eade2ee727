package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVault serves the KV v2 read/write and health endpoints used by VaultBackend.
type fakeVault struct {
	mu      sync.Mutex
	token   string
	secrets map[string]map[string]interface{}
}

func newFakeVault(token string) *fakeVault {
	return &fakeVault{token: token, secrets: make(map[string]map[string]interface{})}
}

func (f *fakeVault) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == "/v1/sys/health" {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"initialized": true,
			"sealed":      false,
			"standby":     false,
		})
		return
	}

	if r.Header.Get("X-Vault-Token") != f.token {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errors":["permission denied"]}`))
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/v1/")
	switch r.Method {
	case http.MethodPut, http.MethodPost:
		var body struct {
			Data map[string]interface{} `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.secrets[path] = body.Data
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"version": 1},
		})
	case http.MethodGet:
		data, ok := f.secrets[path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"errors":[]}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"data":     data,
				"metadata": map[string]interface{}{"version": 1},
			},
		})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestVaultBackend(t *testing.T) {
	fake := newFakeVault("test-token")
	server := httptest.NewServer(fake)
	defer server.Close()

	store, err := NewVaultBackend(VaultConfig{
		Address:   server.URL,
		MountPath: "secret/",
		DataPath:  "/registry/",
		Token:     "test-token",
	}, testLogger())
	require.NoError(t, err)

	testStoreContract(t, store)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Len(t, fake.secrets, 2)
	for path := range fake.secrets {
		assert.True(t, strings.HasPrefix(path, "secret/data/registry/"), path)
	}
	assert.Equal(t, "vault-secret", store.Name())
}

func TestVaultBackend_PermissionDenied(t *testing.T) {
	server := httptest.NewServer(newFakeVault("test-token"))
	defer server.Close()

	store, err := NewVaultBackend(VaultConfig{
		Address:   server.URL,
		MountPath: "secret",
		Token:     "wrong-token",
	}, testLogger())
	require.NoError(t, err)

	_, _, err = store.Get(context.Background(), [4]byte{1, 2, 3, 4})
	assert.Error(t, err)

	err = store.Set(context.Background(), [4]byte{1, 2, 3, 4}, true)
	assert.Error(t, err)
}
