package synth

import "context"

// Request describes a single generation invocation. The synthesizer is
// expected to return exactly one image or fail.
type Request struct {
	Prompt         string
	NegativePrompt string
	Steps          int
	GuidanceScale  float64
	Width          int
	Height         int
	RequestID      string
}

// Image is the normalized synthesizer output.
type Image struct {
	Data      []byte
	Format    string
	Width     int
	Height    int
	ModelUsed string
}

// Generator is the contract implemented by image synthesizers.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Image, error)
}
