// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mailbox

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jrhoades1/job-application-system/internal/emailtext"
	"github.com/jrhoades1/job-application-system/internal/staging"
	"github.com/jrhoades1/job-application-system/pkg/types"
)

const defaultFetchWindow = 90 * 24 * time.Hour

// BatchResult holds the outcome of a batch fetch run.
type BatchResult struct {
	Fetched    int
	Saved      int
	Duplicates int
	Skipped    int
	Failed     int
}

// HasFailures reports whether any messages failed to stage.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Fetcher runs the fetch stage: IMAP messages in, raw JSON artifacts out.
type Fetcher struct {
	Mailbox      Mailbox
	Raw          staging.Store
	Fingerprints *FingerprintIndex
	Config       types.EmailConfig

	// Limit bounds one batch; zero means the default of 50.
	Limit int

	// DryRun reports intended actions without staging, labeling, or
	// touching the fingerprint index.
	DryRun bool

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

// FetchBatch pulls unprocessed messages and stages each one. Per-message
// failures are counted and logged to w, never fatal.
func (f *Fetcher) FetchBatch(ctx context.Context, w io.Writer) (BatchResult, error) {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	window := f.Config.FetchWindow
	if window == 0 {
		window = defaultFetchWindow
	}

	msgs, err := f.Mailbox.Unprocessed(ctx, now().Add(-window), f.Limit)
	if err != nil {
		return BatchResult{}, fmt.Errorf("fetching messages: %w", err)
	}

	var result BatchResult
	for _, msg := range msgs {
		result.Fetched++

		if f.Fingerprints.SeenUID(msg.UID) || f.Raw.Exists(msg.UID) {
			result.Skipped++
			continue
		}

		e := buildRawEmail(msg)
		fp := Fingerprint(e)

		if f.Fingerprints.Seen(fp) {
			result.Duplicates++
			fmt.Fprintf(w, "  duplicate: %s (%s)\n", msg.UID, emailtext.SenderDomain(e.From))
			if !f.DryRun {
				f.labelProcessed(msg.UID, w)
			}
			continue
		}

		if f.DryRun {
			fmt.Fprintf(w, "  [dry run] would save: %s %.60s\n", msg.UID, e.Subject)
			result.Saved++
			continue
		}

		created, err := staging.WriteJSONOnce(f.Raw, msg.UID, e)
		if err != nil {
			result.Failed++
			fmt.Fprintf(w, "  failed: %s: %v\n", msg.UID, err)
			continue
		}
		if !created {
			result.Skipped++
			continue
		}

		result.Saved++
		f.Fingerprints.Add(fp, msg.UID)
		f.labelProcessed(msg.UID, w)
		fmt.Fprintf(w, "  saved: %s %.60s\n", msg.UID, e.Subject)
	}

	if !f.DryRun {
		if err := f.Fingerprints.Save(); err != nil {
			return result, fmt.Errorf("saving fingerprint index: %w", err)
		}
	}
	return result, nil
}

func (f *Fetcher) labelProcessed(uid string, w io.Writer) {
	label := f.Config.ProcessedLabel
	if label == "" {
		return
	}
	if err := f.Mailbox.Label(uid, label); err != nil {
		fmt.Fprintf(w, "  warning: could not label %s: %v\n", uid, err)
	}
}

// buildRawEmail converts an IMAP message into the staged representation:
// decoded bodies, sender headers, and forwarded-content annotations.
func buildRawEmail(msg Message) types.RawEmail {
	messageID, bodyText, bodyHTML, subject := emailtext.ParseRFC822(msg.Raw, msg.Subject)

	e := types.RawEmail{
		UID:       msg.UID,
		From:      msg.From,
		To:        msg.To,
		Subject:   subject,
		Date:      msg.Date.Format(time.RFC3339),
		MessageID: messageID,
		BodyText:  bodyText,
		BodyHTML:  bodyHTML,
		FetchedAt: time.Now().UTC(),
	}
	if msg.Date.IsZero() {
		e.Date = ""
	}

	info := emailtext.DetectForward(e.From, e.Subject, emailtext.BodyText(bodyText, bodyHTML))
	if info.IsForwarded {
		e.ForwardInfo = &info
	}
	return e
}
