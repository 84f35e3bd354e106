package moderation

import "context"

// Verdict is a classifier's opinion of one piece of user content.
type Verdict struct {
	Allowed bool               `json:"allowed"` // Whether the content may be published as-is
	Scores  map[string]float64 `json:"scores"`  // Per-category confidence scores
}

// Classifier produces moderation verdicts for user content. It is an
// injected capability: the ledger core only ever sees this interface, so
// implementations can be swapped in tests without touching the pipeline.
type Classifier interface {
	Classify(ctx context.Context, text, mediaURL string) (Verdict, error)
}
