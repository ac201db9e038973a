package muxclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const uploadsPath = "/video/v1/uploads"

type Client struct {
	baseURL     string
	tokenID     string
	tokenSecret string
	httpClient  *http.Client
}

func NewClient(baseURL, tokenID, tokenSecret string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		tokenID:     tokenID,
		tokenSecret: tokenSecret,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

type UploadRequest struct {
	Passthrough    string
	PlaybackPolicy string
	CorsOrigin     string
}

type Upload struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

type newAssetSettings struct {
	PlaybackPolicy []string `json:"playback_policy"`
	Passthrough    string   `json:"passthrough"`
}

type createUploadBody struct {
	CorsOrigin       string           `json:"cors_origin"`
	NewAssetSettings newAssetSettings `json:"new_asset_settings"`
}

// APIError is a non-2xx answer from the Mux API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mux api: status %d: %s", e.StatusCode, e.Body)
}

// CreateUpload opens a direct upload. The returned URL accepts the video
// bytes from the client; the passthrough comes back on every asset webhook.
func (c *Client) CreateUpload(ctx context.Context, req UploadRequest) (*Upload, error) {
	if c.tokenID == "" || c.tokenSecret == "" {
		return nil, fmt.Errorf("mux api: credentials not configured")
	}

	payload, err := json.Marshal(createUploadBody{
		CorsOrigin: req.CorsOrigin,
		NewAssetSettings: newAssetSettings{
			PlaybackPolicy: []string{req.PlaybackPolicy},
			Passthrough:    req.Passthrough,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mux api: encode upload request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadsPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("mux api: build request: %w", err)
	}
	httpReq.SetBasicAuth(c.tokenID, c.tokenSecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("mux api: create upload: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("mux api: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out struct {
		Data Upload `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("mux api: decode upload: %w", err)
	}
	if out.Data.ID == "" || out.Data.URL == "" {
		return nil, fmt.Errorf("mux api: upload response missing id or url")
	}

	return &out.Data, nil
}
