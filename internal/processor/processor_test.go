package processor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	satbrowse "github.com/psagers/sat-browse"
	"github.com/psagers/sat-browse/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	requests  *mock.RequestService
	fetcher   *mock.Fetcher
	converter *mock.Converter
	mailer    *mock.Mailer
	archive   *mock.Archive
	processor *Processor
}

func newFixture(cfg Config) *fixture {
	f := &fixture{
		requests:  mock.NewRequestService(),
		fetcher:   &mock.Fetcher{},
		converter: &mock.Converter{},
		mailer:    &mock.Mailer{},
		archive:   &mock.Archive{},
	}
	f.processor = New(f.requests, f.fetcher, f.converter, f.mailer, f.archive, testLogger(), cfg)
	return f
}

func seedRequest(f *fixture, url string) *satbrowse.Request {
	req := &satbrowse.Request{
		URL:      url,
		Email:    "reader@example.com",
		Received: time.Now(),
	}
	f.requests.Seed(req)
	return req
}

func TestProcessor_Success(t *testing.T) {
	f := newFixture(Config{})
	req := seedRequest(f, "https://x.example/article")

	f.fetcher.FetchFn = func(ctx context.Context, url string) (*satbrowse.Page, error) {
		assert.Equal(t, "https://x.example/article", url)
		return &satbrowse.Page{
			URL:  "https://x.example/article/",
			HTML: "<title>Hello</title><p>words</p>",
		}, nil
	}
	f.converter.TitleFn = func(html string) string { return "Hello" }
	f.converter.TextFn = func(html string) string { return "words" }

	require.NoError(t, f.processor.Process(context.Background(), req.ID))

	stored, err := f.requests.FindRequestByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.True(t, stored.Success)
	assert.Equal(t, "Hello", stored.Title)
	assert.Empty(t, stored.Error)
	require.NotNil(t, stored.Completed)

	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "reader@example.com", sent[0].To)
	assert.Equal(t, "Hello", sent[0].Subject)
	assert.Equal(t, "https://x.example/article/\r\n\r\n\r\nwords", sent[0].Text)

	// Raw page archived under the request ID.
	assert.NotNil(t, f.archive.Saved("pages/"+req.ID.String()+".html"))
}

func TestProcessor_NoTitleFallsBackToURL(t *testing.T) {
	f := newFixture(Config{})
	req := seedRequest(f, "https://x.example")

	f.fetcher.FetchFn = func(ctx context.Context, url string) (*satbrowse.Page, error) {
		return &satbrowse.Page{URL: "https://x.example/", HTML: "<p>words</p>"}, nil
	}
	f.converter.TextFn = func(html string) string { return "words" }

	require.NoError(t, f.processor.Process(context.Background(), req.ID))

	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "https://x.example/", sent[0].Subject)

	stored, _ := f.requests.FindRequestByID(context.Background(), req.ID)
	assert.True(t, stored.Success)
	assert.Equal(t, "https://x.example/", stored.Title)
}

func TestProcessor_FetchFailure(t *testing.T) {
	f := newFixture(Config{OperatorBCC: "ops@example.com"})
	req := seedRequest(f, "https://down.example")

	f.fetcher.FetchFn = func(ctx context.Context, url string) (*satbrowse.Page, error) {
		return nil, errors.New("connection refused")
	}

	require.NoError(t, f.processor.Process(context.Background(), req.ID))

	stored, err := f.requests.FindRequestByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.False(t, stored.Success)
	assert.Contains(t, stored.Error, "connection refused")
	require.NotNil(t, stored.Completed, "failed record must not stay pending")
	assert.Empty(t, stored.Title)

	// A failure notice went to the requester with the operator copied.
	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "reader@example.com", sent[0].To)
	assert.Equal(t, "ops@example.com", sent[0].Bcc)
	assert.Equal(t, "Oops...", sent[0].Subject)
	assert.Contains(t, sent[0].Text, req.ID.String())
	assert.Contains(t, sent[0].Text, "https://down.example")
	assert.Contains(t, sent[0].Text, "connection refused")
}

func TestProcessor_EmptyContentIsFailure(t *testing.T) {
	f := newFixture(Config{})
	req := seedRequest(f, "https://blank.example")

	f.fetcher.FetchFn = func(ctx context.Context, url string) (*satbrowse.Page, error) {
		return &satbrowse.Page{URL: "https://blank.example/", HTML: "<html></html>"}, nil
	}
	f.converter.TextFn = func(html string) string { return "" }

	require.NoError(t, f.processor.Process(context.Background(), req.ID))

	stored, _ := f.requests.FindRequestByID(context.Background(), req.ID)
	assert.False(t, stored.Success)
	assert.Contains(t, stored.Error, "nothing renderable")
	assert.NotNil(t, stored.Completed)
}

func TestProcessor_SendFailure(t *testing.T) {
	f := newFixture(Config{})
	req := seedRequest(f, "https://x.example")

	f.fetcher.FetchFn = func(ctx context.Context, url string) (*satbrowse.Page, error) {
		return &satbrowse.Page{URL: "https://x.example/", HTML: "<p>words</p>"}, nil
	}
	f.converter.TextFn = func(html string) string { return "words" }

	calls := 0
	f.mailer.SendFn = func(ctx context.Context, msg satbrowse.Message) error {
		calls++
		if calls == 1 {
			return errors.New("smtp unavailable")
		}
		return nil
	}

	require.NoError(t, f.processor.Process(context.Background(), req.ID))

	stored, _ := f.requests.FindRequestByID(context.Background(), req.ID)
	assert.False(t, stored.Success)
	assert.Contains(t, stored.Error, "smtp unavailable")
	assert.NotNil(t, stored.Completed)

	// Digest attempt then failure notice.
	sent := f.mailer.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "Oops...", sent[1].Subject)
}

func TestProcessor_DoubleFailureStillFinalizes(t *testing.T) {
	f := newFixture(Config{})
	req := seedRequest(f, "https://down.example")

	f.fetcher.FetchFn = func(ctx context.Context, url string) (*satbrowse.Page, error) {
		return nil, errors.New("no route to host")
	}
	f.mailer.SendFn = func(ctx context.Context, msg satbrowse.Message) error {
		return errors.New("mail relay down")
	}

	require.NoError(t, f.processor.Process(context.Background(), req.ID))

	stored, _ := f.requests.FindRequestByID(context.Background(), req.ID)
	assert.False(t, stored.Success)
	assert.Contains(t, stored.Error, "no route to host")
	assert.NotNil(t, stored.Completed, "double failure must still finalize")
}

func TestProcessor_AlreadyCompletedIsNoOp(t *testing.T) {
	f := newFixture(Config{})
	completed := time.Now()
	req := &satbrowse.Request{
		URL:       "https://x.example",
		Email:     "reader@example.com",
		Received:  completed.Add(-time.Minute),
		Completed: &completed,
		Success:   true,
		Title:     "Hello",
	}
	f.requests.Seed(req)

	f.fetcher.FetchFn = func(ctx context.Context, url string) (*satbrowse.Page, error) {
		t.Fatal("fetch must not run for a completed record")
		return nil, nil
	}

	require.NoError(t, f.processor.Process(context.Background(), req.ID))

	assert.Empty(t, f.mailer.Sent(), "no second email on redelivery")

	stored, _ := f.requests.FindRequestByID(context.Background(), req.ID)
	assert.Equal(t, "Hello", stored.Title)
	assert.Equal(t, completed.Unix(), stored.Completed.Unix())
}

func TestProcessor_MissingURLStaysPending(t *testing.T) {
	f := newFixture(Config{})
	req := seedRequest(f, "")

	require.NoError(t, f.processor.Process(context.Background(), req.ID))

	stored, _ := f.requests.FindRequestByID(context.Background(), req.ID)
	assert.Nil(t, stored.Completed)
	assert.Empty(t, f.mailer.Sent())
}

func TestProcessor_MissingRecordIsNoError(t *testing.T) {
	f := newFixture(Config{})

	err := f.processor.Process(context.Background(), uuid.New())
	require.NoError(t, err)
}
