package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidPrompt   = errors.New("invalid prompt")
	ErrInvalidWallet   = errors.New("invalid wallet address")
	ErrMintUnavailable = errors.New("minting not configured")
	ErrProviderFailure = errors.New("provider failure")
)
