package domain

import (
	"time"
	"unicode/utf8"
)

// PromptStatus enumerates prompt lifecycle states. Transitions are
// forward-only: pending -> processing -> completed|failed.
type PromptStatus string

const (
	PromptStatusPending    PromptStatus = "pending"
	PromptStatusProcessing PromptStatus = "processing"
	PromptStatusCompleted  PromptStatus = "completed"
	PromptStatusFailed     PromptStatus = "failed"
)

// ErrorMaxLen bounds the persisted error message on failed prompts.
const ErrorMaxLen = 500

// Prompt is a unit of generation work queued by an external producer.
type Prompt struct {
	ID            string
	PromptText    string
	Status        PromptStatus
	WalletAddress string
	Error         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Terminal reports whether the prompt has reached a final state.
func (s PromptStatus) Terminal() bool {
	return s == PromptStatusCompleted || s == PromptStatusFailed
}

// TruncateError bounds a failure message before persistence. The cut
// lands on a rune boundary so the stored text stays valid UTF-8.
func TruncateError(msg string) string {
	if len(msg) <= ErrorMaxLen {
		return msg
	}
	cut := ErrorMaxLen
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut]
}
