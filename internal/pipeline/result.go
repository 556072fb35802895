package pipeline

// ErrorKind classifies a fulfillment failure.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindGenerate   ErrorKind = "generate"
	KindStore      ErrorKind = "store"
	KindMint       ErrorKind = "mint"
)

// Error is the failure half of a fulfillment outcome. The worker loop and
// the HTTP handler decide the terminal status from it instead of catching
// panics or unwinding through layers.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func failure(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Result is the success half of a fulfillment outcome.
type Result struct {
	ImageURL    string
	MetadataURL string
	TxHash      string
	ModelUsed   string
}
