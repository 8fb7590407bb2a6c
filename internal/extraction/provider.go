// Package extraction wraps the natural-language extraction service behind
// a provider interface. The service is opaque: it receives a product title
// and returns structured attributes plus ordered ingredient mentions,
// optionally requesting local ingredient lookups mid-conversation.
package extraction

import (
	"context"
	"errors"
	"fmt"

	"github.com/adurasov/nutricode/internal/model"
)

// Provider is the extraction-service contract.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Extract runs one extraction conversation for a record title. The
	// response is schema-validated before being returned.
	Extract(ctx context.Context, req Request) (*model.Extraction, error)

	// IsAvailable checks that the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// Request carries the product fields handed to the extraction service.
type Request struct {
	Title       string
	Brand       string
	RawCategory string
}

// IngredientLookup is the local tool the extraction service may call
// mid-conversation. It is a pure read against the reference store.
type IngredientLookup interface {
	Resolve(title string, mention model.IngredientMention) model.ResolvedIngredient
}

// Error is an extraction failure with a retryability classification.
// Rate limits, timeouts and schema-invalid responses are transient;
// authentication and malformed-request failures are not.
type Error struct {
	Op        string
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extraction %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a transient extraction failure worth
// retrying with backoff.
func IsRetryable(err error) bool {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Retryable
	}
	return false
}

func retryable(op string, err error) *Error {
	return &Error{Op: op, Retryable: true, Err: err}
}

func permanent(op string, err error) *Error {
	return &Error{Op: op, Retryable: false, Err: err}
}
