package synth

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"artmint/internal/infra"
)

// Options controls how the synthesizer client is configured.
type Options struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *infra.Logger

	// Refiner enables a second img2img pass with a reduced step budget
	// and a blend strength, mirroring base+refiner generation.
	Refiner         bool
	RefinerSteps    int
	RefinerStrength float64
}

// Client talks to a Stable-Diffusion inference server over its HTTP API.
// When no base URL is configured it produces deterministic synthetic images
// so the pipeline stays fully operational in local and CI environments.
type Client struct {
	baseURL         string
	model           string
	httpClient      *http.Client
	logger          *infra.Logger
	refiner         bool
	refinerSteps    int
	refinerStrength float64
}

type txt2imgRequest struct {
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt,omitempty"`
	Steps          int     `json:"steps"`
	CfgScale       float64 `json:"cfg_scale"`
	Width          int     `json:"width,omitempty"`
	Height         int     `json:"height,omitempty"`
}

type img2imgRequest struct {
	InitImages        []string `json:"init_images"`
	Prompt            string   `json:"prompt"`
	NegativePrompt    string   `json:"negative_prompt,omitempty"`
	Steps             int      `json:"steps"`
	CfgScale          float64  `json:"cfg_scale"`
	DenoisingStrength float64  `json:"denoising_strength"`
}

type generateResponse struct {
	Images []string `json:"images"`
}

type apiError struct {
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// NewClient constructs a synthesizer client with sane defaults. Callers may
// provide a nil HTTP client; one without a client-side timeout is created so
// that slow generations are bounded only by the request context.
func NewClient(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	model := opts.Model
	if model == "" {
		model = "stabilityai/stable-diffusion-2-1"
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	steps := opts.RefinerSteps
	if steps <= 0 {
		steps = 20
	}
	strength := opts.RefinerStrength
	if strength <= 0 {
		strength = 0.3
	}

	return &Client{
		baseURL:         strings.TrimRight(opts.BaseURL, "/"),
		model:           model,
		httpClient:      client,
		logger:          logger,
		refiner:         opts.Refiner,
		refinerSteps:    steps,
		refinerStrength: strength,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Generate produces a single PNG image for the prompt. With a refiner
// configured the base image is passed through a second pass before return.
func (c *Client) Generate(ctx context.Context, req Request) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	if c.baseURL == "" {
		return c.syntheticImage(req), nil
	}

	data, err := c.invoke(ctx, "/sdapi/v1/txt2img", txt2imgRequest{
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		Steps:          req.Steps,
		CfgScale:       req.GuidanceScale,
		Width:          req.Width,
		Height:         req.Height,
	})
	if err != nil {
		return nil, fmt.Errorf("base pass: %w", err)
	}

	if c.refiner {
		refined, err := c.invoke(ctx, "/sdapi/v1/img2img", img2imgRequest{
			InitImages:        []string{base64.StdEncoding.EncodeToString(data)},
			Prompt:            req.Prompt,
			NegativePrompt:    req.NegativePrompt,
			Steps:             c.refinerSteps,
			CfgScale:          req.GuidanceScale,
			DenoisingStrength: c.refinerStrength,
		})
		if err != nil {
			return nil, fmt.Errorf("refiner pass: %w", err)
		}
		data = refined
	}

	c.logger.Debug().
		Str("request_id", req.RequestID).
		Str("model", c.model).
		Int("bytes", len(data)).
		Msg("synth: generated image")

	return &Image{
		Data:      data,
		Format:    "image/png",
		Width:     req.Width,
		Height:    req.Height,
		ModelUsed: c.model,
	}, nil
}

func (c *Client) invoke(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("invoke synthesizer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var e apiError
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil {
			if msg := firstNonEmpty(e.Error, e.Detail); msg != "" {
				return nil, fmt.Errorf("synthesizer status %d: %s", resp.StatusCode, msg)
			}
		}
		return nil, fmt.Errorf("synthesizer status %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode synthesizer response: %w", err)
	}
	if len(decoded.Images) == 0 {
		return nil, fmt.Errorf("synthesizer returned no images")
	}
	data, err := base64.StdEncoding.DecodeString(decoded.Images[0])
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("synthesizer returned an empty image")
	}

	c.logger.Debug().
		Str("path", path).
		Dur("elapsed", time.Since(start)).
		Msg("synth: inference call completed")

	return data, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

var _ Generator = (*Client)(nil)
