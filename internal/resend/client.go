// Package resend is an HTTP client for the Resend email API covering
// transactional sends, batch sends, audiences, contacts and broadcasts.
// It owns the retry, backoff and pacing discipline so callers only see
// a *domain.ProviderError once the budget is exhausted.
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/pkg/logger"
)

const (
	// DefaultBaseURL is the production Resend API endpoint.
	DefaultBaseURL = "https://api.resend.com"

	// minRequestInterval paces consecutive requests under the provider's
	// 2 requests/second ceiling with headroom.
	minRequestInterval = 550 * time.Millisecond

	// maxAttempts bounds retries for transport failures and 5xx.
	maxAttempts = 3

	// maxRateLimitAttempts grants two extra backoff doublings for 429s.
	maxRateLimitAttempts = 5

	initialBackoff = 1 * time.Second

	// bodyPreviewLen caps how much of an unparseable response lands in
	// the error message.
	bodyPreviewLen = 100
)

// Client implements domain.ProviderClient against the Resend HTTP API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger

	mu          sync.Mutex
	lastRequest time.Time
}

// NewClient creates a Resend client. An empty baseURL selects the
// production endpoint.
func NewClient(apiKey, baseURL string, log logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log,
	}
}

// pace blocks until minRequestInterval has elapsed since the previous
// request, or the context is done.
func (c *Client) pace(ctx context.Context) error {
	c.mu.Lock()
	wait := minRequestInterval - time.Since(c.lastRequest)
	c.lastRequest = time.Now().Add(wait)
	c.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	return sleepCtx(ctx, wait)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type apiResponse struct {
	body       []byte
	status     int
	retryAfter string
}

// do performs one API call with pacing, retry and backoff. On success it
// returns the response body; on failure a *domain.ProviderError. A
// client-error failure still returns the body so callers can inspect
// conflict responses.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, &domain.ProviderError{
				Kind:    domain.FailureKindClientError,
				Message: fmt.Sprintf("failed to encode request: %v", err),
			}
		}
	}

	backoff := initialBackoff
	attempts := 0
	var lastErr *domain.ProviderError

	for {
		attempts++
		if err := c.pace(ctx); err != nil {
			return nil, &domain.ProviderError{Kind: domain.FailureKindTransport, Message: err.Error()}
		}

		resp, err := c.roundTrip(ctx, method, path, body)
		if err != nil {
			lastErr = &domain.ProviderError{Kind: domain.FailureKindTransport, Message: err.Error()}
			if attempts >= maxAttempts {
				return nil, lastErr
			}
			c.logger.WithFields(map[string]interface{}{
				"path":    path,
				"attempt": attempts,
				"error":   err.Error(),
			}).Warn("Provider request failed, retrying")
			if err := sleepCtx(ctx, backoff); err != nil {
				return nil, lastErr
			}
			backoff *= 2
			continue
		}

		switch {
		case resp.status >= 200 && resp.status < 300:
			return resp.body, nil

		case resp.status == http.StatusTooManyRequests:
			lastErr = &domain.ProviderError{
				Kind:       domain.FailureKindRateLimited,
				StatusCode: resp.status,
				Message:    apiErrorMessage(resp.body),
			}
			if attempts >= maxRateLimitAttempts {
				return nil, lastErr
			}
			wait := backoff
			if d, ok := parseRetryAfter(resp.retryAfter); ok {
				wait = d
			}
			c.logger.WithFields(map[string]interface{}{
				"path": path,
				"wait": wait.String(),
			}).Warn("Provider rate limited, backing off")
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, lastErr
			}
			backoff *= 2

		case resp.status >= 500:
			lastErr = &domain.ProviderError{
				Kind:       domain.FailureKindServerError,
				StatusCode: resp.status,
				Message:    apiErrorMessage(resp.body),
			}
			if attempts >= maxAttempts {
				return nil, lastErr
			}
			if err := sleepCtx(ctx, backoff); err != nil {
				return nil, lastErr
			}
			backoff *= 2

		default:
			return resp.body, &domain.ProviderError{
				Kind:       domain.FailureKindClientError,
				StatusCode: resp.status,
				Message:    apiErrorMessage(resp.body),
			}
		}
	}
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body []byte) (*apiResponse, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &apiResponse{
		body:       respBody,
		status:     resp.StatusCode,
		retryAfter: resp.Header.Get("Retry-After"),
	}, nil
}

// parseRetryAfter parses a Retry-After header value in seconds.
func parseRetryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// apiErrorMessage extracts the provider's error message, falling back to
// a bounded preview of the raw body. The body is treated as text first
// so a non-JSON error page cannot trip the parser.
func apiErrorMessage(body []byte) string {
	text := string(body)
	if gjson.Valid(text) {
		if msg := gjson.Get(text, "message"); msg.Exists() {
			return msg.String()
		}
		if msg := gjson.Get(text, "error"); msg.Exists() {
			return msg.String()
		}
	}
	if len(text) > bodyPreviewLen {
		text = text[:bodyPreviewLen]
	}
	return text
}

// parseID pulls a required string field out of a response body.
func parseID(body []byte, field string) (string, error) {
	text := string(body)
	if !gjson.Valid(text) {
		preview := text
		if len(preview) > bodyPreviewLen {
			preview = preview[:bodyPreviewLen]
		}
		return "", &domain.ProviderError{
			Kind:    domain.FailureKindParseError,
			Message: fmt.Sprintf("response is not JSON: %q", preview),
		}
	}
	value := gjson.Get(text, field)
	if !value.Exists() || value.String() == "" {
		return "", &domain.ProviderError{
			Kind:    domain.FailureKindParseError,
			Message: fmt.Sprintf("response missing %q field", field),
		}
	}
	return value.String(), nil
}

func formatFrom(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Send delivers one transactional email.
func (c *Client) Send(ctx context.Context, msg domain.EmailMessage) (string, error) {
	payload := map[string]interface{}{
		"from":    msg.From,
		"to":      []string{msg.To},
		"subject": msg.Subject,
		"html":    msg.HTML,
	}
	if msg.ReplyTo != "" {
		payload["reply_to"] = msg.ReplyTo
	}

	body, err := c.do(ctx, http.MethodPost, "/emails", payload)
	if err != nil {
		return "", err
	}
	return parseID(body, "id")
}

// SendBatch delivers messages in chunks of domain.BatchSendMax and
// returns one provider id per message in request order.
func (c *Client) SendBatch(ctx context.Context, msgs []domain.EmailMessage) ([]string, error) {
	ids := make([]string, 0, len(msgs))
	for start := 0; start < len(msgs); start += domain.BatchSendMax {
		end := start + domain.BatchSendMax
		if end > len(msgs) {
			end = len(msgs)
		}
		chunk := msgs[start:end]

		payload := make([]map[string]interface{}, 0, len(chunk))
		for _, msg := range chunk {
			entry := map[string]interface{}{
				"from":    msg.From,
				"to":      []string{msg.To},
				"subject": msg.Subject,
				"html":    msg.HTML,
			}
			if msg.ReplyTo != "" {
				entry["reply_to"] = msg.ReplyTo
			}
			payload = append(payload, entry)
		}

		body, err := c.do(ctx, http.MethodPost, "/emails/batch", payload)
		if err != nil {
			return nil, err
		}

		text := string(body)
		if !gjson.Valid(text) {
			return nil, &domain.ProviderError{
				Kind:    domain.FailureKindParseError,
				Message: "batch response is not JSON",
			}
		}
		data := gjson.Get(text, "data")
		if !data.IsArray() {
			return nil, &domain.ProviderError{
				Kind:    domain.FailureKindParseError,
				Message: "batch response missing data array",
			}
		}
		entries := data.Array()
		if len(entries) != len(chunk) {
			// An id per recipient is the correlation contract; a short
			// response would misattribute webhooks downstream.
			return nil, &domain.ProviderError{
				Kind:    domain.FailureKindParseError,
				Message: fmt.Sprintf("batch response has %d ids for %d messages", len(entries), len(chunk)),
			}
		}
		for _, entry := range entries {
			id := entry.Get("id").String()
			if id == "" {
				return nil, &domain.ProviderError{
					Kind:    domain.FailureKindParseError,
					Message: "batch response entry missing id",
				}
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// EnsureContact creates the contact in the segment's audience, treating
// an already-exists conflict as success.
func (c *Client) EnsureContact(ctx context.Context, segmentID, email, name string) (*domain.ProviderContact, error) {
	first, last := domain.SplitName(name)
	payload := map[string]interface{}{
		"email":        email,
		"first_name":   first,
		"last_name":    last,
		"unsubscribed": false,
	}

	body, err := c.do(ctx, http.MethodPost, "/audiences/"+url.PathEscape(segmentID)+"/contacts", payload)
	if err != nil {
		var provErr *domain.ProviderError
		if errors.As(err, &provErr) && provErr.StatusCode == http.StatusConflict {
			// The provider may or may not include the existing contact's id.
			contact := &domain.ProviderContact{Existed: true}
			if id, idErr := parseID(body, "id"); idErr == nil {
				contact.ContactID = id
			}
			return contact, nil
		}
		return nil, err
	}

	id, err := parseID(body, "id")
	if err != nil {
		return nil, err
	}
	return &domain.ProviderContact{ContactID: id}, nil
}

// CreateSegment creates an audience and returns its id.
func (c *Client) CreateSegment(ctx context.Context, name string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/audiences", map[string]interface{}{"name": name})
	if err != nil {
		return "", err
	}
	return parseID(body, "id")
}

// AddContactToSegment adds one existing contact to a segment.
func (c *Client) AddContactToSegment(ctx context.Context, segmentID, contactID string) error {
	_, err := c.do(ctx, http.MethodPost,
		"/audiences/"+url.PathEscape(segmentID)+"/contacts",
		map[string]interface{}{"id": contactID})
	return err
}

// DeleteSegment removes an audience.
func (c *Client) DeleteSegment(ctx context.Context, segmentID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/audiences/"+url.PathEscape(segmentID), nil)
	return err
}

// CreateBroadcast creates a draft broadcast bound to a segment.
func (c *Client) CreateBroadcast(ctx context.Context, segmentID, fromName, fromEmail, replyTo, subject, html string) (string, error) {
	payload := map[string]interface{}{
		"audience_id": segmentID,
		"from":        formatFrom(fromName, fromEmail),
		"subject":     subject,
		"html":        html,
	}
	if replyTo != "" {
		payload["reply_to"] = replyTo
	}

	body, err := c.do(ctx, http.MethodPost, "/broadcasts", payload)
	if err != nil {
		return "", err
	}
	return parseID(body, "id")
}

// SendBroadcast sends a previously created draft broadcast.
func (c *Client) SendBroadcast(ctx context.Context, broadcastID string) error {
	_, err := c.do(ctx, http.MethodPost, "/broadcasts/"+url.PathEscape(broadcastID)+"/send", struct{}{})
	return err
}

// UnsubscribeContact flags the provider-side contact as unsubscribed.
func (c *Client) UnsubscribeContact(ctx context.Context, segmentID, email string) error {
	_, err := c.do(ctx, http.MethodPatch,
		"/audiences/"+url.PathEscape(segmentID)+"/contacts/"+url.PathEscape(email),
		map[string]interface{}{"unsubscribed": true})
	return err
}

var _ domain.ProviderClient = (*Client)(nil)
