package moderation

import (
	"context" // Context for the classifier contract
	"strings" // Case-insensitive term matching
)

// MockClassifier is the stand-in classifier used until a real moderation
// backend is wired up. It approves everything except text containing one of
// its blocked terms and reports fixed low scores otherwise.
type MockClassifier struct {
	BlockedTerms []string // Terms that force a flagged verdict
}

// NewMockClassifier returns a mock with a small default blocklist
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{BlockedTerms: []string{"spamcoin", "free tokens", "click here"}}
}

// Classify scans the text for blocked terms and returns a verdict
func (m *MockClassifier) Classify(_ context.Context, text, _ string) (Verdict, error) {
	scores := map[string]float64{
		"hate":     0.01,
		"violence": 0.01,
		"sexual":   0.01,
		"spam":     0.02,
	}
	lower := strings.ToLower(text) // Blocklist matching is case-insensitive
	for _, term := range m.BlockedTerms {
		if strings.Contains(lower, term) {
			scores["spam"] = 0.97 // The mock only ever flags as spam
			return Verdict{Allowed: false, Scores: scores}, nil
		}
	}
	return Verdict{Allowed: true, Scores: scores}, nil
}
