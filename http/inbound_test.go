package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psagers/sat-browse/internal/queue"
	"github.com/psagers/sat-browse/mock"
)

type serverFixture struct {
	server   *Server
	requests *mock.RequestService
	senders  *mock.SenderService
	queue    *queue.MockQueue
}

func newTestServer(t *testing.T, inboundKey string, senders ...string) *serverFixture {
	t.Helper()

	f := &serverFixture{
		requests: mock.NewRequestService(),
		senders:  mock.NewSenderService(senders...),
		queue:    queue.NewMockQueue(),
	}
	f.server = NewServer(Config{
		Addr:           "127.0.0.1:0",
		InboundKey:     inboundKey,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		SenderService:  f.senders,
		RequestService: f.requests,
		Queue:          f.queue,
	})
	return f
}

func (f *serverFixture) postInbound(t *testing.T, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(nethttp.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.server.echo.ServeHTTP(rec, req)
	return rec
}

func inboundPayload(from, plain string) map[string]any {
	return map[string]any{
		"envelope": map[string]any{"from": from},
		"plain":    plain,
	}
}

func TestInbound_WrongKeyForbidden(t *testing.T) {
	f := newTestServer(t, "s3cret", "user@example.com")

	rec := f.postInbound(t, "/hooks/inbound?key=wrong",
		inboundPayload("user@example.com", "https://example.com/\r\n"))

	assert.Equal(t, nethttp.StatusForbidden, rec.Code)
	assert.Empty(t, f.requests.Requests())
	assert.Empty(t, f.queue.Jobs())
}

func TestInbound_MissingKeyForbidden(t *testing.T) {
	f := newTestServer(t, "s3cret", "user@example.com")

	rec := f.postInbound(t, "/hooks/inbound",
		inboundPayload("user@example.com", "https://example.com/\r\n"))

	assert.Equal(t, nethttp.StatusForbidden, rec.Code)
	assert.Empty(t, f.requests.Requests())
}

func TestInbound_EmptyKeyDisablesCheck(t *testing.T) {
	f := newTestServer(t, "", "user@example.com")

	rec := f.postInbound(t, "/hooks/inbound",
		inboundPayload("user@example.com", "https://example.com/\r\n"))

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Len(t, f.requests.Requests(), 1)
}

func TestInbound_UnknownSenderDroppedSilently(t *testing.T) {
	f := newTestServer(t, "s3cret", "user@example.com")

	rec := f.postInbound(t, "/hooks/inbound?key=s3cret",
		inboundPayload("stranger@example.net", "https://example.com/\r\n"))

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Empty(t, f.requests.Requests())
	assert.Empty(t, f.queue.Jobs())
}

func TestInbound_AuthorizedSenderCreatesRequests(t *testing.T) {
	f := newTestServer(t, "s3cret", "user@example.com")

	body := "Check these out:\r\nhttps://example.com/a\r\nhttps://example.com/b\r\nthanks\r\n"
	rec := f.postInbound(t, "/hooks/inbound?key=s3cret",
		inboundPayload("user@example.com", body))

	assert.Equal(t, nethttp.StatusOK, rec.Code)

	created := f.requests.Requests()
	require.Len(t, created, 2)
	assert.Equal(t, "https://example.com/a", created[0].URL)
	assert.Equal(t, "https://example.com/b", created[1].URL)
	for _, req := range created {
		assert.Equal(t, "user@example.com", req.Email)
		assert.False(t, req.Received.IsZero())
		assert.Nil(t, req.Completed)
	}

	jobs := f.queue.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, queue.JobTypeProcessRequest, jobs[0].Type)
	assert.Equal(t, created[0].ID, jobs[0].RequestID)
	assert.Equal(t, created[1].ID, jobs[1].RequestID)
}

func TestInbound_CaseInsensitiveSenderMatch(t *testing.T) {
	f := newTestServer(t, "", "user@example.com")

	rec := f.postInbound(t, "/hooks/inbound",
		inboundPayload("User@Example.COM", "https://example.com/\r\n"))

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	created := f.requests.Requests()
	require.Len(t, created, 1)
	assert.Equal(t, "user@example.com", created[0].Email)
}

func TestInbound_NoURLsIsAccepted(t *testing.T) {
	f := newTestServer(t, "", "user@example.com")

	rec := f.postInbound(t, "/hooks/inbound",
		inboundPayload("user@example.com", "just saying hi\r\nno links here\r\n"))

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Empty(t, f.requests.Requests())
	assert.Empty(t, f.queue.Jobs())
}

func TestInbound_MalformedPayloadAccepted(t *testing.T) {
	f := newTestServer(t, "", "user@example.com")

	req := httptest.NewRequest(nethttp.MethodPost, "/hooks/inbound", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.server.echo.ServeHTTP(rec, req)

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Empty(t, f.requests.Requests())
}

func TestHealthEndpoints(t *testing.T) {
	f := newTestServer(t, "")

	for _, path := range []string{"/health", "/health/live"} {
		req := httptest.NewRequest(nethttp.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		f.server.echo.ServeHTTP(rec, req)
		assert.Equal(t, nethttp.StatusOK, rec.Code, path)
	}
}
