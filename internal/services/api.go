// API service for talking to a remote recon server
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/desertthunder/recon/internal/models"
	"github.com/desertthunder/recon/internal/shared"
)

const defaultBaseURL = "http://127.0.0.1:3000"

// APIService implements [Reconciler] over the server's HTTP API.
type APIService struct {
	baseURL    string
	httpClient *http.Client
}

var _ Reconciler = (*APIService)(nil)

// NewAPIService creates a new API service instance for the server at baseURL.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the status code is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return a.do(req)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req)
}

func (a *APIService) do(req *http.Request) (*APIResponse, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrAPIRequest, err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// identifyBody is the POST /identify payload. Absent identifiers are sent as null.
type identifyBody struct {
	Email       models.Optional `json:"email"`
	PhoneNumber models.Optional `json:"phoneNumber"`
}

// Reconcile posts identity to /identify and decodes the returned cluster view.
func (a *APIService) Reconcile(ctx context.Context, identity models.Identity) (*models.ClusterView, error) {
	identity = identity.Compact()
	if identity.Empty() {
		return nil, fmt.Errorf("%w: email or phone number required", shared.ErrInvalidInput)
	}

	data, err := json.Marshal(identifyBody{Email: identity.Email, PhoneNumber: identity.PhoneNumber})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := a.Post(ctx, "/identify", data)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, statusError(resp)
	}

	var out models.IdentifyResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", shared.ErrAPIRequest, err)
	}
	return &out.Contact, nil
}

// Cluster fetches the cluster containing contact id.
func (a *APIService) Cluster(ctx context.Context, id int64) (*models.Cluster, error) {
	resp, err := a.Get(ctx, "/clusters/"+strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, statusError(resp)
	}

	var out models.Cluster
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", shared.ErrAPIRequest, err)
	}
	return &out, nil
}

// Health checks /healthz.
func (a *APIService) Health(ctx context.Context) error {
	resp, err := a.Get(ctx, "/healthz")
	if err != nil {
		return err
	}
	if !resp.OK() {
		return statusError(resp)
	}
	return nil
}

// statusError maps a non-2xx response onto a sentinel error, keeping the server's message.
func statusError(resp *APIResponse) error {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(resp.Body, &body)

	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", shared.ErrInvalidInput, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrContactNotFound, msg)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", shared.ErrServiceUnavailable, msg)
	default:
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, msg)
	}
}
