package domain

import "fmt"

// MetadataAttribute is a single trait entry on an NFT metadata document.
type MetadataAttribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Metadata is the JSON document pinned alongside a minted artifact. The
// shape follows the common ERC-721 metadata convention.
type Metadata struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Image       string              `json:"image"`
	Attributes  []MetadataAttribute `json:"attributes"`
}

// NewMetadata builds the metadata document for a generated image.
func NewMetadata(promptID, promptText, imageURL, modelUsed string) Metadata {
	return Metadata{
		Name:        fmt.Sprintf("AI Art #%s", promptID),
		Description: promptText,
		Image:       imageURL,
		Attributes: []MetadataAttribute{
			{TraitType: "prompt", Value: promptText},
			{TraitType: "model", Value: modelUsed},
		},
	}
}
