package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"artmint/internal/domain"
	"artmint/internal/infra"
	"artmint/internal/ledger"
	"artmint/internal/storage"
	"artmint/internal/synth"
)

// MetadataPinner stores an NFT metadata document and returns its locator.
type MetadataPinner interface {
	UploadJSON(ctx context.Context, filename string, v any) (string, error)
}

// Minter submits a mint transaction and waits for its confirmation.
type Minter interface {
	Mint(ctx context.Context, recipient, tokenURI string) (string, error)
}

// Config carries the fixed generation parameters in effect for the process
// lifetime.
type Config struct {
	ModelUsed      string
	Steps          int
	GuidanceScale  float64
	NegativePrompt string
	Width          int
	Height         int

	// MintEnabled switches the mint path on; it requires a Minter and a
	// MetadataPinner to be present.
	MintEnabled bool

	// TempDir holds scratch files during upload. Defaults to the system
	// temp directory.
	TempDir string
}

// Request is one fulfillment attempt: generate, store, optionally mint.
type Request struct {
	PromptID      string
	PromptText    string
	WalletAddress string
}

// Fulfiller performs transitions generate -> persist -> mint for a single
// request. It is shared by the polling worker and the synchronous HTTP
// variant; it never touches the prompt queue itself.
type Fulfiller struct {
	synth  synth.Generator
	store  storage.Store
	pins   MetadataPinner
	minter Minter
	cfg    Config
	logger infra.Logger
}

// NewFulfiller wires the external collaborators into a Fulfiller. pins and
// minter may be nil when cfg.MintEnabled is false.
func NewFulfiller(gen synth.Generator, store storage.Store, pins MetadataPinner, minter Minter, cfg Config, logger infra.Logger) *Fulfiller {
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	return &Fulfiller{synth: gen, store: store, pins: pins, minter: minter, cfg: cfg, logger: logger}
}

// MintEnabled reports whether this fulfiller runs the mint path.
func (f *Fulfiller) MintEnabled() bool {
	return f.cfg.MintEnabled
}

// Fulfill runs generate, persist and the optional mint for one request and
// reports the outcome as a value. Uploads and mints that already happened are not undone when a later
// step fails; the caller only sees the failure.
func (f *Fulfiller) Fulfill(ctx context.Context, req Request) (*Result, *Error) {
	if strings.TrimSpace(req.PromptText) == "" {
		return nil, failure(KindValidation, "prompt text is required")
	}
	if req.WalletAddress != "" && !ledger.ValidAddress(req.WalletAddress) {
		return nil, failure(KindValidation, fmt.Sprintf("invalid wallet address %q", req.WalletAddress))
	}
	mint := f.cfg.MintEnabled && req.WalletAddress != ""

	img, err := f.synth.Generate(ctx, synth.Request{
		Prompt:         req.PromptText,
		NegativePrompt: f.cfg.NegativePrompt,
		Steps:          f.cfg.Steps,
		GuidanceScale:  f.cfg.GuidanceScale,
		Width:          f.cfg.Width,
		Height:         f.cfg.Height,
		RequestID:      req.PromptID,
	})
	if err != nil {
		return nil, failure(KindGenerate, err.Error())
	}

	imageURL, err := f.persistImage(ctx, req.PromptID, img.Data)
	if err != nil {
		return nil, failure(KindStore, err.Error())
	}

	result := &Result{ImageURL: imageURL, ModelUsed: f.modelUsed(img)}

	if mint {
		metadata := domain.NewMetadata(req.PromptID, req.PromptText, imageURL, result.ModelUsed)
		metadataURL, err := f.pins.UploadJSON(ctx, req.PromptID+".json", metadata)
		if err != nil {
			return nil, failure(KindMint, fmt.Sprintf("pin metadata: %s", err))
		}
		txHash, err := f.minter.Mint(ctx, req.WalletAddress, metadataURL)
		if err != nil {
			return nil, failure(KindMint, err.Error())
		}
		result.MetadataURL = metadataURL
		result.TxHash = txHash
	}

	return result, nil
}

// persistImage stages the image bytes in a scoped temporary file, uploads
// them, and removes the file on every exit path.
func (f *Fulfiller) persistImage(ctx context.Context, promptID string, data []byte) (string, error) {
	tempPath := filepath.Join(f.cfg.TempDir, fmt.Sprintf("temp_%s.png", uuid.New().String()))
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return "", fmt.Errorf("stage image: %w", err)
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil {
			f.logger.Warn().Err(err).Str("path", tempPath).Msg("pipeline: temp file cleanup failed")
		}
	}()

	staged, err := os.ReadFile(tempPath)
	if err != nil {
		return "", fmt.Errorf("read staged image: %w", err)
	}

	url, err := f.store.Upload(ctx, promptID+".png", "image/png", staged)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return url, nil
}

func (f *Fulfiller) modelUsed(img *synth.Image) string {
	if img.ModelUsed != "" {
		return img.ModelUsed
	}
	return f.cfg.ModelUsed
}
