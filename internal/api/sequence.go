package api

import (
	"context"
	"strings"
	"sync"

	"vocabapp/internal/config"
	contextutils "vocabapp/internal/utils"
)

// Suggester serializes autocomplete queries so that only the newest request's
// result is ever delivered. Responses for a prefix that has since been
// superseded by a later keystroke are dropped regardless of arrival order.
type Suggester struct {
	client *Client

	mu   sync.Mutex
	next uint64
}

// NewSuggester wraps a client with last-request-wins autocomplete ordering.
func NewSuggester(client *Client) *Suggester {
	return &Suggester{client: client}
}

// Query fetches suggestions for the prefix. Prefixes shorter than the minimum
// return an empty result without a network call. If a newer Query begins
// before this one's response lands, the stale result is discarded and the
// call returns a superseded error.
func (s *Suggester) Query(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if len(prefix) < config.AutocompleteMinPrefix {
		return nil, nil
	}

	s.mu.Lock()
	s.next++
	token := s.next
	s.mu.Unlock()

	suggestions, err := s.client.autocomplete(ctx, prefix)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token < s.next {
		return nil, contextutils.ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	return suggestions, nil
}
