package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv         string
	Port           string
	DatabaseURL    string
	StoragePath    string
	StorageBaseURL string

	// Image synthesizer endpoint. An empty SynthBaseURL switches the
	// client into deterministic synthetic output.
	SynthBaseURL    string
	SynthModel      string
	SynthSteps      int
	SynthGuidance   float64
	SynthNegative   string
	SynthWidth      int
	SynthHeight     int
	RefinerEnabled  bool
	RefinerSteps    int
	RefinerStrength float64

	// IPFS pinning service.
	PinBaseURL string
	PinAPIKey  string
	PinGateway string

	// Ledger / minting.
	MintEnabled     bool
	LedgerRPCURLs   []string
	LedgerChainID   int64
	LedgerPrivKey   string
	LedgerContract  string
	MintWaitTimeout time.Duration

	PollInterval     time.Duration
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		StoragePath:    getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL: os.Getenv("STORAGE_BASE_URL"),

		SynthBaseURL:    os.Getenv("SYNTH_BASE_URL"),
		SynthModel:      getEnv("SYNTH_MODEL", "stabilityai/stable-diffusion-2-1"),
		SynthSteps:      getEnvInt("SYNTH_STEPS", 50),
		SynthGuidance:   getEnvFloat("SYNTH_GUIDANCE_SCALE", 7.5),
		SynthNegative:   os.Getenv("SYNTH_NEGATIVE_PROMPT"),
		SynthWidth:      getEnvInt("SYNTH_WIDTH", 768),
		SynthHeight:     getEnvInt("SYNTH_HEIGHT", 768),
		RefinerEnabled:  getEnvBool("SYNTH_REFINER_ENABLED", false),
		RefinerSteps:    getEnvInt("SYNTH_REFINER_STEPS", 20),
		RefinerStrength: getEnvFloat("SYNTH_REFINER_STRENGTH", 0.3),

		PinBaseURL: getEnv("PIN_BASE_URL", "https://api.nft.storage"),
		PinAPIKey:  os.Getenv("PIN_API_KEY"),
		PinGateway: getEnv("PIN_GATEWAY", "ipfs.nftstorage.link"),

		MintEnabled:     getEnvBool("MINT_ENABLED", false),
		LedgerRPCURLs:   splitList(os.Getenv("LEDGER_RPC_URLS")),
		LedgerChainID:   int64(getEnvInt("LEDGER_CHAIN_ID", 11155111)),
		LedgerPrivKey:   os.Getenv("LEDGER_PRIVATE_KEY"),
		LedgerContract:  os.Getenv("LEDGER_CONTRACT_ADDRESS"),
		MintWaitTimeout: time.Second * time.Duration(getEnvInt("MINT_WAIT_TIMEOUT_SECONDS", 60)),

		PollInterval:     time.Second * time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 10)),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.StorageBaseURL == "" {
		cfg.StorageBaseURL = fmt.Sprintf("http://localhost:%s/static", cfg.Port)
	}

	return cfg, nil
}

// MintConfigured reports whether the ledger side carries enough
// configuration to submit transactions.
func (c *Config) MintConfigured() bool {
	return len(c.LedgerRPCURLs) > 0 && c.LedgerPrivKey != "" && c.LedgerContract != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
