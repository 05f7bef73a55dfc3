package http

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	satbrowse "github.com/psagers/sat-browse"
	"github.com/psagers/sat-browse/internal/queue"
)

// InboundMessage is the CloudMailin-style JSON payload posted to the webhook.
// Only the envelope sender and the plain-text body matter; everything else in
// the payload is ignored.
type InboundMessage struct {
	Envelope struct {
		From string `json:"from"`
	} `json:"envelope"`
	Plain string `json:"plain"`
}

// handleInbound accepts an inbound email, records one request per URL found
// in the body, and enqueues a processing job for each. The webhook always
// answers 200 to the mail provider unless the shared key does not match;
// unwanted mail is dropped silently so senders learn nothing from probing.
func (s *Server) handleInbound(c echo.Context) error {
	if !s.authorizeHook(c) {
		return c.NoContent(http.StatusForbidden)
	}

	logger := s.log(c)

	var msg InboundMessage
	if err := c.Bind(&msg); err != nil {
		// A malformed payload is the provider's problem, not ours. Log it
		// and accept so the provider does not retry forever.
		logger.Warn("malformed inbound payload", slog.String("error", err.Error()))
		return c.NoContent(http.StatusOK)
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	email, err := s.senderService.Authorize(ctx, msg.Envelope.From)
	if err != nil {
		// Fail closed: if the registry is unreachable we treat the sender
		// as unknown rather than guessing.
		logger.Error("sender lookup failed",
			slog.String("from", msg.Envelope.From),
			slog.String("error", err.Error()),
		)
		email = ""
	}
	if email == "" {
		logger.Info("dropping mail from unknown sender", slog.String("from", msg.Envelope.From))
		return c.NoContent(http.StatusOK)
	}

	urls := satbrowse.FindURLs(msg.Plain)
	if len(urls) == 0 {
		logger.Info("no URLs in message", slog.String("email", email))
		return c.NoContent(http.StatusOK)
	}

	requests := make([]*satbrowse.Request, 0, len(urls))
	for _, u := range urls {
		requests = append(requests, &satbrowse.Request{
			URL:   u,
			Email: email,
		})
	}

	if err := s.requestService.CreateRequests(ctx, requests); err != nil {
		return satbrowse.Internal("record requests", err)
	}

	for _, req := range requests {
		if _, err := s.queue.Enqueue(ctx, queue.JobTypeProcessRequest, req.ID); err != nil {
			// The record exists; a stuck request is recoverable by hand.
			logger.Error("failed to enqueue request",
				slog.String("request_id", req.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		logger.Info("request accepted",
			slog.String("request_id", req.ID.String()),
			slog.String("url", req.URL),
			slog.String("email", email),
		)
	}

	return c.NoContent(http.StatusOK)
}

// authorizeHook checks the shared key on the webhook URL. An empty configured
// key disables the check.
func (s *Server) authorizeHook(c echo.Context) bool {
	if s.InboundKey == "" {
		return true
	}
	key := c.QueryParam("key")
	return subtle.ConstantTimeCompare([]byte(key), []byte(s.InboundKey)) == 1
}
