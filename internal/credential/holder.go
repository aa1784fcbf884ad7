// Package credential keeps the user's provider key for the lifetime of the
// process and gates every provider call behind it.
package credential

import (
	"errors"
	"strings"

	"docchat/internal/domain"
)

// ErrMissingKey is returned when an empty key is supplied.
var ErrMissingKey = errors.New("please enter your OpenAI API key to continue")

// Factory builds a provider client for a key. It must not contact the provider.
type Factory func(apiKey string) (domain.Provider, error)

// Holder owns the provider client built from the user's key.
// The key lives only inside that client; it is never persisted.
type Holder struct {
	factory  Factory
	provider domain.Provider
}

// NewHolder creates an empty holder; no provider is available until Set succeeds.
func NewHolder(factory Factory) *Holder {
	return &Holder{factory: factory}
}

// Set replaces the current key. An empty key disables all provider features.
func (h *Holder) Set(apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		h.provider = nil
		return ErrMissingKey
	}
	p, err := h.factory(apiKey)
	if err != nil {
		h.provider = nil
		return err
	}
	h.provider = p
	return nil
}

// Provider returns the client, if a key has been entered.
func (h *Holder) Provider() (domain.Provider, bool) {
	return h.provider, h.provider != nil
}

// Ready reports whether a provider client is available.
func (h *Holder) Ready() bool { return h.provider != nil }
