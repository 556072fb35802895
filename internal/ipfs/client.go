package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"artmint/internal/infra"
)

// Options controls how the pinning client is configured.
type Options struct {
	BaseURL    string
	APIKey     string
	Gateway    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client uploads content to an IPFS pinning service and resolves the
// returned CID through a public gateway.
type Client struct {
	baseURL    string
	apiKey     string
	gateway    string
	httpClient *http.Client
	logger     *infra.Logger
}

type uploadResponse struct {
	OK    bool `json:"ok"`
	Value struct {
		CID string `json:"cid"`
	} `json:"value"`
	Error struct {
		Name    string `json:"name,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// NewClient constructs a pinning client with sane defaults.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("ipfs: api key is required")
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.nft.storage"
	}

	gateway := strings.TrimSpace(opts.Gateway)
	if gateway == "" {
		gateway = "ipfs.nftstorage.link"
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(opts.APIKey),
		gateway:    gateway,
		httpClient: client,
		logger:     logger,
	}, nil
}

// Upload pins the given bytes under filename and returns the gateway URL.
func (c *Client) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("ipfs: no content to upload")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename=%q`, filename)}
	header["Content-Type"] = []string{contentType}
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("ipfs: create form part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("ipfs: write form part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("ipfs: finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return "", fmt.Errorf("ipfs: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ipfs: upload: %w", err)
	}
	defer resp.Body.Close()

	var decoded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("ipfs: decode response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest || !decoded.OK {
		if decoded.Error.Message != "" {
			return "", fmt.Errorf("ipfs: upload status %d: %s", resp.StatusCode, decoded.Error.Message)
		}
		return "", fmt.Errorf("ipfs: upload status %d", resp.StatusCode)
	}
	if decoded.Value.CID == "" {
		return "", fmt.Errorf("ipfs: response missing cid")
	}

	locator := fmt.Sprintf("https://%s.%s/%s", decoded.Value.CID, c.gateway, filename)
	c.logger.Debug().
		Str("cid", decoded.Value.CID).
		Str("filename", filename).
		Int("bytes", len(data)).
		Msg("ipfs: pinned content")

	return locator, nil
}

// UploadJSON marshals v and pins it as an application/json document.
func (c *Client) UploadJSON(ctx context.Context, filename string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("ipfs: marshal json: %w", err)
	}
	return c.Upload(ctx, filename, "application/json", data)
}
