package domain

import "time"

// GeneratedImage records a stored artifact produced from a prompt. A row
// exists only for prompts that reached the completed status.
type GeneratedImage struct {
	ID          string
	PromptID    string
	ImageURL    string
	MetadataURL string
	ModelUsed   string
	MintTxHash  string
	CreatedAt   time.Time
}
