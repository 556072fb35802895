package ledger

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"

	"artmint/internal/infra"
)

// mintABI is the minimal fragment of the art contract the service calls.
const mintABI = `[{"inputs":[{"internalType":"address","name":"recipient","type":"address"},{"internalType":"string","name":"tokenURI","type":"string"}],"name":"mintNFT","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"nonpayable","type":"function"}]`

// Options controls how the minter is configured.
type Options struct {
	// RPCURLs is tried in order; the first endpoint that answers wins.
	RPCURLs         []string
	PrivateKeyHex   string
	ContractAddress string
	ChainID         int64
	WaitTimeout     time.Duration
	Logger          *infra.Logger
}

// Minter submits mint transactions against the art contract and waits for
// their confirmation.
type Minter struct {
	client      *ethclient.Client
	contract    *bind.BoundContract
	opts        *bind.TransactOpts
	waitTimeout time.Duration
	logger      *infra.Logger
}

// ValidAddress reports whether s is a well-formed chain address.
func ValidAddress(s string) bool {
	return common.IsHexAddress(s)
}

// NewMinter dials the first responsive RPC endpoint and prepares the bound
// contract. It fails when no endpoint answers or the signing key is invalid.
func NewMinter(ctx context.Context, opts Options) (*Minter, error) {
	if len(opts.RPCURLs) == 0 {
		return nil, fmt.Errorf("ledger: at least one rpc url is required")
	}
	if !common.IsHexAddress(opts.ContractAddress) {
		return nil, fmt.Errorf("ledger: invalid contract address %q", opts.ContractAddress)
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(opts.PrivateKeyHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("ledger: parse private key: %w", err)
	}

	client, err := dialFirst(ctx, opts.RPCURLs, logger)
	if err != nil {
		return nil, err
	}

	auth, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(opts.ChainID))
	if err != nil {
		return nil, fmt.Errorf("ledger: build transactor: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(mintABI))
	if err != nil {
		return nil, fmt.Errorf("ledger: parse abi: %w", err)
	}

	waitTimeout := opts.WaitTimeout
	if waitTimeout <= 0 {
		waitTimeout = 60 * time.Second
	}

	return &Minter{
		client:      client,
		contract:    bind.NewBoundContract(common.HexToAddress(opts.ContractAddress), parsed, client, client, client),
		opts:        auth,
		waitTimeout: waitTimeout,
		logger:      logger,
	}, nil
}

func dialFirst(ctx context.Context, urls []string, logger *infra.Logger) (*ethclient.Client, error) {
	var lastErr error
	for _, url := range urls {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			logger.Warn().Err(err).Str("rpc_url", url).Msg("ledger: dial failed, trying next endpoint")
			lastErr = err
			continue
		}
		probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		_, err = client.BlockNumber(probeCtx)
		cancel()
		if err != nil {
			logger.Warn().Err(err).Str("rpc_url", url).Msg("ledger: endpoint unresponsive, trying next")
			client.Close()
			lastErr = err
			continue
		}
		logger.Info().Str("rpc_url", url).Msg("ledger: connected")
		return client, nil
	}
	return nil, fmt.Errorf("ledger: no responsive rpc endpoint: %w", lastErr)
}

// Mint submits a mint transaction for recipient pointing at tokenURI and
// waits for the receipt up to the configured timeout. It returns the
// transaction hash.
func (m *Minter) Mint(ctx context.Context, recipient, tokenURI string) (string, error) {
	if !common.IsHexAddress(recipient) {
		return "", fmt.Errorf("ledger: invalid recipient address %q", recipient)
	}

	tx, err := m.contract.Transact(m.opts, "mintNFT", common.HexToAddress(recipient), tokenURI)
	if err != nil {
		return "", fmt.Errorf("ledger: submit mint: %w", err)
	}

	m.logger.Info().
		Str("tx_hash", tx.Hash().Hex()).
		Str("recipient", recipient).
		Msg("ledger: mint submitted, waiting for receipt")

	waitCtx, cancel := context.WithTimeout(ctx, m.waitTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(waitCtx, m.client, tx)
	if err != nil {
		return "", fmt.Errorf("ledger: wait for receipt of %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("ledger: mint transaction %s reverted", tx.Hash().Hex())
	}

	return tx.Hash().Hex(), nil
}

// Connected reports whether the RPC endpoint still answers.
func (m *Minter) Connected(ctx context.Context) bool {
	if m == nil || m.client == nil {
		return false
	}
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := m.client.BlockNumber(probeCtx)
	return err == nil
}

// Close releases the underlying RPC connection.
func (m *Minter) Close() {
	if m != nil && m.client != nil {
		m.client.Close()
	}
}
