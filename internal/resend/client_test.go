package resend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("re_test_key", server.URL, logger.NewTestLogger(t)), server
}

func TestClientSend(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/emails", r.URL.Path)
		fmt.Fprint(w, `{"id":"msg_123"}`)
	}))

	id, err := client.Send(context.Background(), domain.EmailMessage{
		From:    "News <news@example.com>",
		To:      "taro@example.com",
		Subject: "Hello",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg_123", id)
	assert.Equal(t, "Bearer re_test_key", gotAuth)
}

func TestClientSend_RetriesServerError(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"message":"internal"}`)
			return
		}
		fmt.Fprint(w, `{"id":"msg_retry"}`)
	}))

	id, err := client.Send(context.Background(), domain.EmailMessage{To: "a@b.com"})
	require.NoError(t, err)
	assert.Equal(t, "msg_retry", id)
	assert.Equal(t, 2, calls)
}

func TestClientSend_ClientErrorDoesNotRetry(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message":"invalid from address"}`)
	}))

	_, err := client.Send(context.Background(), domain.EmailMessage{To: "a@b.com"})
	require.Error(t, err)

	var provErr *domain.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, domain.FailureKindClientError, provErr.Kind)
	assert.Equal(t, http.StatusUnprocessableEntity, provErr.StatusCode)
	assert.Equal(t, "invalid from address", provErr.Message)
	assert.False(t, provErr.Retryable())
	assert.Equal(t, 1, calls)
}

func TestClientSend_RateLimitHonorsRetryAfter(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"id":"msg_after_wait"}`)
	}))

	start := time.Now()
	id, err := client.Send(context.Background(), domain.EmailMessage{To: "a@b.com"})
	require.NoError(t, err)
	assert.Equal(t, "msg_after_wait", id)
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
}

func TestClientSend_NonJSONResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>maintenance page that is definitely not json "+strings.Repeat("x", 200))
	}))

	_, err := client.Send(context.Background(), domain.EmailMessage{To: "a@b.com"})
	require.Error(t, err)

	var provErr *domain.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, domain.FailureKindParseError, provErr.Kind)
	// The raw body lands in the message only as a bounded preview.
	assert.LessOrEqual(t, len(provErr.Message), bodyPreviewLen+30)
}

func TestClientSendBatch(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails/batch", r.URL.Path)
		fmt.Fprint(w, `{"data":[{"id":"m1"},{"id":"m2"},{"id":"m3"}]}`)
	}))

	msgs := []domain.EmailMessage{
		{To: "a@example.com"}, {To: "b@example.com"}, {To: "c@example.com"},
	}
	ids, err := client.SendBatch(context.Background(), msgs)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2", "m3"}, ids)
}

func TestClientSendBatch_IDCountMismatch(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"id":"m1"}]}`)
	}))

	msgs := []domain.EmailMessage{{To: "a@example.com"}, {To: "b@example.com"}}
	_, err := client.SendBatch(context.Background(), msgs)
	require.Error(t, err)

	var provErr *domain.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, domain.FailureKindParseError, provErr.Kind)
}

func TestClientEnsureContact(t *testing.T) {
	t.Run("new contact", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/audiences/seg1/contacts", r.URL.Path)
			fmt.Fprint(w, `{"id":"contact_1"}`)
		}))

		contact, err := client.EnsureContact(context.Background(), "seg1", "taro@example.com", "Taro Yamada")
		require.NoError(t, err)
		assert.Equal(t, "contact_1", contact.ContactID)
		assert.False(t, contact.Existed)
	})

	t.Run("conflict without id", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			fmt.Fprint(w, `{"message":"contact already exists"}`)
		}))

		contact, err := client.EnsureContact(context.Background(), "seg1", "taro@example.com", "")
		require.NoError(t, err)
		assert.True(t, contact.Existed)
		assert.Empty(t, contact.ContactID)
	})
}

func TestClientPacing(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"id":"seg_x"}`)
	}))

	start := time.Now()
	_, err := client.CreateSegment(context.Background(), "one")
	require.NoError(t, err)
	_, err = client.CreateSegment(context.Background(), "two")
	require.NoError(t, err)

	// The second request waits out the minimum interval.
	assert.GreaterOrEqual(t, time.Since(start), minRequestInterval)
	assert.Equal(t, 2, calls)
}

func TestClientContextCancellation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := client.Send(ctx, domain.EmailMessage{To: "a@b.com"})
	require.Error(t, err)
	var provErr *domain.ProviderError
	assert.True(t, errors.As(err, &provErr))
}

func TestParseRetryAfter(t *testing.T) {
	d, ok := parseRetryAfter("3")
	assert.True(t, ok)
	assert.Equal(t, 3*time.Second, d)

	_, ok = parseRetryAfter("")
	assert.False(t, ok)
	_, ok = parseRetryAfter("soon")
	assert.False(t, ok)
	_, ok = parseRetryAfter("-1")
	assert.False(t, ok)
}

func TestFormatFrom(t *testing.T) {
	assert.Equal(t, "News <n@example.com>", formatFrom("News", "n@example.com"))
	assert.Equal(t, "n@example.com", formatFrom("", "n@example.com"))
}
