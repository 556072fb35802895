package infra

import (
	"testing"
	"time"
)

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_BASE_URL", "")
	t.Setenv("POLL_INTERVAL_SECONDS", "")
	t.Setenv("MINT_WAIT_TIMEOUT_SECONDS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StorageBaseURL != "http://localhost:8080/static" {
		t.Fatalf("StorageBaseURL mismatch: %q", cfg.StorageBaseURL)
	}
	if cfg.SynthSteps != 50 {
		t.Fatalf("SynthSteps = %d, want 50", cfg.SynthSteps)
	}
	if cfg.SynthGuidance != 7.5 {
		t.Fatalf("SynthGuidance = %v, want 7.5", cfg.SynthGuidance)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Fatalf("PollInterval = %v, want 10s", cfg.PollInterval)
	}
	if cfg.MintWaitTimeout != 60*time.Second {
		t.Fatalf("MintWaitTimeout = %v, want 60s", cfg.MintWaitTimeout)
	}
	if cfg.MintEnabled {
		t.Fatal("MintEnabled should default to false")
	}
}

func TestLoadConfigInheritsPortInStorageBaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("PORT", "1919")
	t.Setenv("STORAGE_BASE_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StorageBaseURL != "http://localhost:1919/static" {
		t.Fatalf("StorageBaseURL mismatch: %q", cfg.StorageBaseURL)
	}
}

func TestMintConfigured(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("LEDGER_RPC_URLS", "https://rpc-one.example, https://rpc-two.example")
	t.Setenv("LEDGER_PRIVATE_KEY", "4c0883a69102937d6231471b5dbb6204fe512961708279f8d2ae0d28b6c8f30d")
	t.Setenv("LEDGER_CONTRACT_ADDRESS", "0x0000000000000000000000000000000000000001")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if !cfg.MintConfigured() {
		t.Fatal("expected MintConfigured to be true")
	}
	if len(cfg.LedgerRPCURLs) != 2 {
		t.Fatalf("LedgerRPCURLs = %#v, want 2 entries", cfg.LedgerRPCURLs)
	}
	if cfg.LedgerRPCURLs[1] != "https://rpc-two.example" {
		t.Fatalf("LedgerRPCURLs[1] = %q", cfg.LedgerRPCURLs[1])
	}
}
