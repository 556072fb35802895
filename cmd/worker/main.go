package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"artmint/internal/db"
	"artmint/internal/infra"
	"artmint/internal/ipfs"
	"artmint/internal/ledger"
	"artmint/internal/pipeline"
	"artmint/internal/storage"
	"artmint/internal/synth"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL, logger); err != nil {
		logger.Fatal().Err(err).Msg("worker: migrations failed")
	}

	runner := infra.NewSQLRunner(pool, logger)

	storagePath := cfg.StoragePath
	if !filepath.IsAbs(storagePath) {
		if abs, err := filepath.Abs(storagePath); err == nil {
			storagePath = abs
		}
	}
	fileStore, err := storage.NewFileStore(storagePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}

	// Inference can run for minutes; the synthesizer client is bounded by
	// the request context, not a client-side timeout.
	generator := synth.NewClient(synth.Options{
		BaseURL:         cfg.SynthBaseURL,
		Model:           cfg.SynthModel,
		HTTPClient:      &http.Client{},
		Logger:          &logger,
		Refiner:         cfg.RefinerEnabled,
		RefinerSteps:    cfg.RefinerSteps,
		RefinerStrength: cfg.RefinerStrength,
	})
	if cfg.SynthBaseURL == "" {
		logger.Warn().Str("model", cfg.SynthModel).Msg("worker: no synthesizer endpoint, using synthetic image generation")
	}

	var pinner pipeline.MetadataPinner
	var minter pipeline.Minter
	var ledgerClient *ledger.Minter
	if cfg.MintEnabled {
		if !cfg.MintConfigured() {
			logger.Fatal().Msg("worker: MINT_ENABLED is set but ledger credentials are incomplete")
		}
		pinClient, err := ipfs.NewClient(ipfs.Options{
			BaseURL:    cfg.PinBaseURL,
			APIKey:     cfg.PinAPIKey,
			Gateway:    cfg.PinGateway,
			HTTPClient: &http.Client{Timeout: 120 * time.Second},
			Logger:     &logger,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: failed to configure metadata pinning")
		}
		pinner = pinClient

		ledgerClient, err = ledger.NewMinter(ctx, ledger.Options{
			RPCURLs:         cfg.LedgerRPCURLs,
			PrivateKeyHex:   cfg.LedgerPrivKey,
			ContractAddress: cfg.LedgerContract,
			ChainID:         cfg.LedgerChainID,
			WaitTimeout:     cfg.MintWaitTimeout,
			Logger:          &logger,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: failed to connect ledger")
		}
		defer ledgerClient.Close()
		minter = ledgerClient
	}

	fulfiller := pipeline.NewFulfiller(generator, fileStore, pinner, minter, pipeline.Config{
		ModelUsed:      cfg.SynthModel,
		Steps:          cfg.SynthSteps,
		GuidanceScale:  cfg.SynthGuidance,
		NegativePrompt: cfg.SynthNegative,
		Width:          cfg.SynthWidth,
		Height:         cfg.SynthHeight,
		MintEnabled:    cfg.MintEnabled,
	}, logger)

	worker := pipeline.NewWorker(runner, fulfiller, cfg.PollInterval, logger)

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}
