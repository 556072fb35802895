package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"artmint/internal/db"
	"artmint/internal/http/handlers"
	httpapi "artmint/internal/http/httpapi"
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

	ctx := context.Background()
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: db connection failed")
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL, logger); err != nil {
		logger.Fatal().Err(err).Msg("api: migrations failed")
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
		logger.Fatal().Err(err).Msg("api: failed to configure storage")
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

	// Minting stays optional for the API. A missing or unreachable ledger
	// degrades wallet requests to 503 instead of keeping the API down.
	var pinner pipeline.MetadataPinner
	var minter pipeline.Minter
	var ledgerStatus handlers.LedgerStatus
	mintEnabled := false
	if cfg.MintEnabled && cfg.MintConfigured() {
		pinClient, err := ipfs.NewClient(ipfs.Options{
			BaseURL:    cfg.PinBaseURL,
			APIKey:     cfg.PinAPIKey,
			Gateway:    cfg.PinGateway,
			HTTPClient: &http.Client{Timeout: 120 * time.Second},
			Logger:     &logger,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("api: metadata pinning unavailable, minting disabled")
		} else {
			ledgerClient, err := ledger.NewMinter(ctx, ledger.Options{
				RPCURLs:         cfg.LedgerRPCURLs,
				PrivateKeyHex:   cfg.LedgerPrivKey,
				ContractAddress: cfg.LedgerContract,
				ChainID:         cfg.LedgerChainID,
				WaitTimeout:     cfg.MintWaitTimeout,
				Logger:          &logger,
			})
			if err != nil {
				logger.Warn().Err(err).Msg("api: ledger unreachable, minting disabled")
			} else {
				defer ledgerClient.Close()
				pinner = pinClient
				minter = ledgerClient
				ledgerStatus = ledgerClient
				mintEnabled = true
			}
		}
	} else if cfg.MintEnabled {
		logger.Warn().Msg("api: MINT_ENABLED is set but ledger credentials are incomplete, minting disabled")
	}

	fulfiller := pipeline.NewFulfiller(generator, fileStore, pinner, minter, pipeline.Config{
		ModelUsed:      cfg.SynthModel,
		Steps:          cfg.SynthSteps,
		GuidanceScale:  cfg.SynthGuidance,
		NegativePrompt: cfg.SynthNegative,
		Width:          cfg.SynthWidth,
		Height:         cfg.SynthHeight,
		MintEnabled:    mintEnabled,
	}, logger)

	app := handlers.NewApp(cfg, logger, runner, fulfiller, ledgerStatus, fileStore)

	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
