package domain

import (
	"context"
	"fmt"
)

//go:generate mockgen -destination mocks/mock_provider_client.go -package mocks github.com/postwind/postwind/internal/domain ProviderClient

// FailureKind classifies a provider failure so callers can decide
// between retrying on a later tick and surfacing the error.
type FailureKind string

const (
	FailureKindTransport   FailureKind = "transport"
	FailureKindRateLimited FailureKind = "rate_limited"
	FailureKindClientError FailureKind = "client_error"
	FailureKindServerError FailureKind = "server_error"
	FailureKindParseError  FailureKind = "parse_error"
)

// ProviderError is the structured failure returned by the provider
// client after its own retry budget is exhausted.
type ProviderError struct {
	Kind       FailureKind
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %s: %s", e.Kind, e.Message)
}

// Retryable reports whether a later attempt could succeed.
func (e *ProviderError) Retryable() bool {
	switch e.Kind {
	case FailureKindTransport, FailureKindRateLimited, FailureKindServerError:
		return true
	}
	return false
}

// EmailMessage is one transactional email.
type EmailMessage struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// ProviderContact is the result of an ensureContact call. Existed is
// true when the provider already knew the address; ContactID may be
// empty in that case, which callers must tolerate.
type ProviderContact struct {
	ContactID string
	Existed   bool
}

// BatchSendMax is the provider's per-request batch ceiling; larger
// inputs are chunked by the client.
const BatchSendMax = 100

// ProviderClient wraps the external email provider. Implementations own
// retry, backoff and rate-limit discipline; every error returned after
// exhaustion is a *ProviderError.
type ProviderClient interface {
	// Send delivers one transactional email and returns the provider
	// message id.
	Send(ctx context.Context, msg EmailMessage) (string, error)

	// SendBatch delivers up to BatchSendMax messages per request, chunking
	// larger inputs, and returns one provider message id per input message
	// in request order.
	SendBatch(ctx context.Context, msgs []EmailMessage) ([]string, error)

	// EnsureContact creates or fetches the provider-side contact inside
	// the given segment's audience.
	EnsureContact(ctx context.Context, segmentID, email, name string) (*ProviderContact, error)

	// CreateSegment creates a named audience segment and returns its id.
	CreateSegment(ctx context.Context, name string) (string, error)

	// AddContactToSegment adds one contact; the provider has no batch add,
	// so callers loop and the client paces requests.
	AddContactToSegment(ctx context.Context, segmentID, contactID string) error

	DeleteSegment(ctx context.Context, segmentID string) error

	// CreateBroadcast creates a draft broadcast bound to a segment and
	// returns the broadcast id.
	CreateBroadcast(ctx context.Context, segmentID, fromName, fromEmail, replyTo, subject, html string) (string, error)

	// SendBroadcast sends a previously created draft broadcast.
	SendBroadcast(ctx context.Context, broadcastID string) error

	// UnsubscribeContact marks the provider-side contact unsubscribed.
	// Best-effort from the caller's perspective.
	UnsubscribeContact(ctx context.Context, segmentID, email string) error
}
