// Package processor runs the fetch → convert → deliver pipeline for one
// request record and finalizes its outcome.
package processor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	satbrowse "github.com/psagers/sat-browse"
)

// Config holds processor configuration.
type Config struct {
	// OperatorBCC receives a blind copy of every failure notice when set.
	OperatorBCC string
}

// Processor orchestrates the processing of a single request record. All
// page and mail failures are captured on the record; the only errors
// returned are infrastructure failures, which the trigger mechanism may
// redeliver.
type Processor struct {
	requests  satbrowse.RequestService
	fetcher   satbrowse.Fetcher
	converter satbrowse.Converter
	mailer    satbrowse.Mailer
	archive   satbrowse.Archive
	logger    *slog.Logger
	cfg       Config
}

// New creates a Processor.
func New(
	requests satbrowse.RequestService,
	fetcher satbrowse.Fetcher,
	converter satbrowse.Converter,
	mailer satbrowse.Mailer,
	archive satbrowse.Archive,
	logger *slog.Logger,
	cfg Config,
) *Processor {
	return &Processor{
		requests:  requests,
		fetcher:   fetcher,
		converter: converter,
		mailer:    mailer,
		archive:   archive,
		logger:    logger,
		cfg:       cfg,
	}
}

// Process handles one request record end to end. Triggering is
// at-least-once, so Process tolerates duplicate invocations: records that
// are already finalized are skipped without any network or mail work.
func (p *Processor) Process(ctx context.Context, id uuid.UUID) error {
	req, err := p.requests.FindRequestByID(ctx, id)
	if err != nil {
		if satbrowse.IsErrorCode(err, satbrowse.ENOTFOUND) {
			p.logger.Warn("request record missing, nothing to process",
				slog.String("request_id", id.String()))
			return nil
		}
		return fmt.Errorf("loading request %s: %w", id, err)
	}

	if !req.Pending() {
		p.logger.Info("request already completed, skipping",
			slog.String("request_id", id.String()))
		return nil
	}

	// A record without a URL is malformed input. It is left untouched
	// rather than finalized, matching the intake contract.
	if req.URL == "" {
		p.logger.Warn("request has no url, ignoring",
			slog.String("request_id", id.String()))
		return nil
	}

	outcome := p.execute(ctx, req)

	if !outcome.Success {
		p.logger.Warn("request processing failed",
			slog.String("request_id", req.ID.String()),
			slog.String("url", req.URL),
			slog.String("error", outcome.Error),
		)
		p.notifyFailure(ctx, req, outcome.Error)
	}

	finalized, err := p.requests.FinalizeRequest(ctx, req.ID, outcome)
	if err != nil {
		return fmt.Errorf("finalizing request %s: %w", req.ID, err)
	}
	if !finalized {
		p.logger.Warn("request was finalized concurrently",
			slog.String("request_id", req.ID.String()))
	}

	return nil
}

// execute runs fetch → convert → deliver and returns the outcome to record.
func (p *Processor) execute(ctx context.Context, req *satbrowse.Request) satbrowse.RequestOutcome {
	page, err := p.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return satbrowse.RequestOutcome{Error: err.Error()}
	}

	p.archivePage(ctx, req, page)

	title := p.converter.Title(page.HTML)
	text := p.converter.Text(page.HTML)
	if text == "" {
		return satbrowse.RequestOutcome{
			Error: fmt.Sprintf("nothing renderable at %s", page.URL),
		}
	}

	if err := p.mailer.Send(ctx, composeDigest(req, page, title, text)); err != nil {
		return satbrowse.RequestOutcome{Error: err.Error()}
	}

	p.logger.Info("page delivered",
		slog.String("request_id", req.ID.String()),
		slog.String("to", req.Email),
		slog.String("url", page.URL),
	)

	// Pages without a <title> record the resolved URL instead, so a
	// successful record always carries a title.
	if title == "" {
		title = page.URL
	}

	return satbrowse.RequestOutcome{Success: true, Title: title}
}

// composeDigest builds the success message. The subject is the page title,
// falling back to the resolved URL; the body is the resolved URL followed
// by the converted text.
func composeDigest(req *satbrowse.Request, page *satbrowse.Page, title, text string) satbrowse.Message {
	subject := title
	if subject == "" {
		subject = page.URL
	}

	return satbrowse.Message{
		To:      req.Email,
		Subject: subject,
		Text:    page.URL + "\r\n\r\n\r\n" + text,
	}
}

// notifyFailure sends a best-effort failure notice to the requester, with
// an optional operator BCC. Its own failure is logged and swallowed so a
// double failure still finalizes the record.
func (p *Processor) notifyFailure(ctx context.Context, req *satbrowse.Request, errMsg string) {
	body := fmt.Sprintf(
		"Something went wrong processing your request. We'll have a look.\r\n"+
			"\r\n"+
			"Request ID: %s\r\n"+
			"URL: %s\r\n"+
			"\r\n"+
			"%s\r\n",
		req.ID, req.URL, errMsg)

	msg := satbrowse.Message{
		To:      req.Email,
		Bcc:     p.cfg.OperatorBCC,
		Subject: "Oops...",
		Text:    body,
	}

	if err := p.mailer.Send(ctx, msg); err != nil {
		p.logger.Error("failed to send failure notice",
			slog.String("request_id", req.ID.String()),
			slog.String("to", req.Email),
			slog.String("error", err.Error()),
		)
	}
}

// archivePage stores the raw page keyed by request ID. Best-effort.
func (p *Processor) archivePage(ctx context.Context, req *satbrowse.Request, page *satbrowse.Page) {
	key := fmt.Sprintf("pages/%s.html", req.ID)
	if err := p.archive.Save(ctx, key, []byte(page.HTML)); err != nil {
		p.logger.Warn("failed to archive page",
			slog.String("request_id", req.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}
