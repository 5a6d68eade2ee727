package interfacehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ruteri/interface-registry/api"
	"github.com/ruteri/interface-registry/interfaces"
)

// Client talks to a remote registry served by Handler. It implements
// api.InterfaceRegistryProvider, so a remote registry can stand in for a
// local one. A 409 response is returned as *interfaces.AlreadyRegisteredError.
type Client struct {
	ServerAddr string
	HTTPClient *http.Client
}

var _ api.InterfaceRegistryProvider = (*Client)(nil)

// NewClient creates a client for the server at serverAddr, e.g. "http://127.0.0.1:8080".
func NewClient(serverAddr string) *Client {
	return &Client{
		ServerAddr: strings.TrimRight(serverAddr, "/"),
		HTTPClient: http.DefaultClient,
	}
}

// SupportsInterface queries GET /api/public/interfaces/{interface_id}.
func (c *Client) SupportsInterface(ctx context.Context, id interfaces.InterfaceID) (bool, error) {
	var resp api.SupportsInterfaceResponse
	if err := c.do(ctx, http.MethodGet, "/api/public/interfaces/"+id.String(), nil, id, &resp); err != nil {
		return false, err
	}
	return resp.Supported, nil
}

// Register calls POST /api/interfaces/{interface_id}.
func (c *Client) Register(ctx context.Context, id interfaces.InterfaceID) error {
	var resp api.InterfaceResponse
	return c.do(ctx, http.MethodPost, "/api/interfaces/"+id.String(), nil, id, &resp)
}

// RegisterSignature calls POST /api/interfaces/signatures. The derived ID is
// returned alongside an AlreadyRegistered error.
func (c *Client) RegisterSignature(ctx context.Context, signature string) (interfaces.InterfaceID, error) {
	id := interfaces.ComputeInterfaceIDString(signature)

	var resp api.InterfaceResponse
	err := c.do(ctx, http.MethodPost, "/api/interfaces/signatures", &api.SignatureRequest{Signature: signature}, id, &resp)
	if err != nil {
		return id, err
	}
	return resp.InterfaceID, nil
}

// Derive calls POST /api/public/derive.
func (c *Client) Derive(ctx context.Context, signature string) (interfaces.InterfaceID, error) {
	var resp api.InterfaceResponse
	if err := c.do(ctx, http.MethodPost, "/api/public/derive", &api.SignatureRequest{Signature: signature}, interfaces.InterfaceID{}, &resp); err != nil {
		return interfaces.InterfaceID{}, err
	}
	return resp.InterfaceID, nil
}

func (c *Client) do(ctx context.Context, method, path string, reqBody any, id interfaces.InterfaceID, out any) error {
	var body io.Reader
	if reqBody != nil {
		encoded, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("could not encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.ServerAddr+path, body)
	if err != nil {
		return fmt.Errorf("could not initialize request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not request %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return responseError(resp.StatusCode, respBody, id)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("could not parse response: %w", err)
	}
	return nil
}

// responseError turns an error response back into the registry's error values.
func responseError(status int, body []byte, id interfaces.InterfaceID) error {
	var errResp api.ErrorResponse
	message := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		message = errResp.Error
		if parsed, err := interfaces.NewInterfaceIDFromHex(errResp.InterfaceID); err == nil {
			id = parsed
		}
	}

	switch status {
	case http.StatusConflict:
		return &interfaces.AlreadyRegisteredError{ID: id}
	case http.StatusBadRequest:
		if errResp.Code == api.ErrorCodeInvalidRequest {
			return fmt.Errorf("%w: %s", api.ErrInvalidRequest, message)
		}
		return fmt.Errorf("%w: %s", interfaces.ErrInvalidInterfaceID, message)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", interfaces.ErrBackendUnavailable, message)
	default:
		return fmt.Errorf("registry responded %d: %s", status, message)
	}
}
