package interfacehandler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ruteri/interface-registry/api"
	"github.com/ruteri/interface-registry/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RoundTrip(t *testing.T) {
	mux, _ := setupHandler(t)
	server := httptest.NewServer(mux)
	defer server.Close()

	ctx := context.Background()
	client := NewClient(server.URL + "/")

	supported, err := client.SupportsInterface(ctx, interfaces.SupportsInterfaceID)
	require.NoError(t, err)
	assert.True(t, supported)

	sampleID := interfaces.ComputeInterfaceIDString("sample_function()")
	supported, err = client.SupportsInterface(ctx, sampleID)
	require.NoError(t, err)
	assert.False(t, supported)

	require.NoError(t, client.Register(ctx, sampleID))

	supported, err = client.SupportsInterface(ctx, sampleID)
	require.NoError(t, err)
	assert.True(t, supported)

	err = client.Register(ctx, sampleID)
	assert.ErrorIs(t, err, interfaces.ErrAlreadyRegistered)
	var alreadyRegistered *interfaces.AlreadyRegisteredError
	require.True(t, errors.As(err, &alreadyRegistered))
	assert.Equal(t, sampleID, alreadyRegistered.ID)
}

func TestClient_Signatures(t *testing.T) {
	mux, _ := setupHandler(t)
	server := httptest.NewServer(mux)
	defer server.Close()

	ctx := context.Background()
	client := NewClient(server.URL)

	derived, err := client.Derive(ctx, "balanceOf(address)")
	require.NoError(t, err)
	assert.Equal(t, "0x70a08231", derived.String())

	id, err := client.RegisterSignature(ctx, "balanceOf(address)")
	require.NoError(t, err)
	assert.Equal(t, derived, id)

	id, err = client.RegisterSignature(ctx, "balanceOf(address)")
	assert.ErrorIs(t, err, interfaces.ErrAlreadyRegistered)
	assert.Equal(t, derived, id)
}

func TestClient_ErrorMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/interfaces/0x00000001":
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"storage backend unavailable"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream down"))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.Register(context.Background(), interfaces.InterfaceID{0, 0, 0, 1})
	assert.ErrorIs(t, err, interfaces.ErrBackendUnavailable)

	_, err = client.SupportsInterface(context.Background(), interfaces.InterfaceID{0, 0, 0, 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
	assert.NotErrorIs(t, err, interfaces.ErrAlreadyRegistered)
}

func TestClient_BadRequestKinds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		if r.URL.Path == "/api/public/derive" {
			w.Write([]byte(`{"error":"invalid request: unexpected EOF","code":"invalid_request"}`))
			return
		}
		w.Write([]byte(`{"error":"invalid interface ID","code":"invalid_interface_id"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	_, err := client.Derive(context.Background(), "balanceOf(address)")
	assert.ErrorIs(t, err, api.ErrInvalidRequest)
	assert.NotErrorIs(t, err, interfaces.ErrInvalidInterfaceID)

	_, err = client.SupportsInterface(context.Background(), interfaces.InterfaceID{0, 0, 0, 1})
	assert.ErrorIs(t, err, interfaces.ErrInvalidInterfaceID)
	assert.NotErrorIs(t, err, api.ErrInvalidRequest)
}
