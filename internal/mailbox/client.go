// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mailbox implements the fetch stage: it pulls job-alert emails
// over IMAP, recovers forwarded content, deduplicates by content
// fingerprint, and stages each message as a raw JSON artifact keyed by
// UID. The IMAP client sits behind the Mailbox interface so the batch
// logic is testable without a live server.
package mailbox

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// Message is one fetched email with its full RFC822 bytes. Bodies are
// fetched with BODY.PEEK[] so the message keeps its unread state.
type Message struct {
	UID     string
	From    string
	To      string
	Subject string
	Date    time.Time
	Raw     []byte
}

// Mailbox is the IMAP operations the fetch stage needs.
type Mailbox interface {
	// Unprocessed returns messages received since the cutoff, newest
	// first, at most limit.
	Unprocessed(ctx context.Context, since time.Time, limit int) ([]Message, error)

	// Label copies a message into a label folder, creating it if needed.
	Label(uid, label string) error

	Close() error
}

// IMAPMailbox is the production Mailbox over go-imap.
type IMAPMailbox struct {
	client  *imapclient.Client
	mailbox string
}

// Dial connects over TLS, logs in and selects the mailbox.
func Dial(ctx context.Context, host string, port int, mailboxName, username, password string) (*IMAPMailbox, error) {
	if host == "" || username == "" || password == "" {
		return nil, errors.New("imap host, username and password are required")
	}
	if port == 0 {
		port = 993
	}
	if mailboxName == "" {
		mailboxName = "INBOX"
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	c, err := imapclient.DialTLS(addr, &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host},
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial %s: %w", addr, err)
	}

	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	if err := c.Login(username, password).Wait(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("imap login: %w", err)
	}
	if _, err := c.Select(mailboxName, &imap.SelectOptions{ReadOnly: false}).Wait(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("imap select %s: %w", mailboxName, err)
	}
	return &IMAPMailbox{client: c, mailbox: mailboxName}, nil
}

func (m *IMAPMailbox) Unprocessed(ctx context.Context, since time.Time, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 50
	}

	criteria := &imap.SearchCriteria{Since: since}
	searchData, err := m.client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap uid search: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	// Newest first.
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	if len(uids) > limit {
		uids = uids[:limit]
	}

	bodyAll := &imap.FetchItemBodySection{
		Specifier: imap.PartSpecifierNone,
		Peek:      true,
	}
	fetchCmd := m.client.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:          true,
		Envelope:     true,
		InternalDate: true,
		BodySection:  []*imap.FetchItemBodySection{bodyAll},
	})
	defer fetchCmd.Close()

	var out []Message
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return nil, fmt.Errorf("imap fetch collect: %w", err)
		}

		msg := Message{UID: fmt.Sprintf("%d", uint32(buf.UID))}
		if buf.Envelope != nil {
			msg.Subject = buf.Envelope.Subject
			msg.Date = buf.Envelope.Date
			msg.From = joinAddrs(buf.Envelope.From)
			msg.To = joinAddrs(buf.Envelope.To)
		}
		if b := buf.FindBodySection(bodyAll); b != nil {
			msg.Raw = append([]byte(nil), b...)
		}
		out = append(out, msg)
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("imap fetch close: %w", err)
	}
	return out, nil
}

// Label copies the message into the label folder. Gmail exposes labels as
// IMAP folders; the create is idempotent and its error intentionally
// ignored since an existing label fails the command.
func (m *IMAPMailbox) Label(uid, label string) error {
	var parsed imap.UID
	if _, err := fmt.Sscanf(uid, "%d", &parsed); err != nil {
		return fmt.Errorf("bad uid %q: %w", uid, err)
	}

	_ = m.client.Create(label, nil).Wait()

	set := imap.UIDSetNum(parsed)
	if _, err := m.client.Copy(set, label).Wait(); err != nil {
		return fmt.Errorf("imap copy %s to %s: %w", uid, label, err)
	}
	return nil
}

func (m *IMAPMailbox) Close() error {
	if err := m.client.Logout().Wait(); err != nil {
		_ = m.client.Close()
		return fmt.Errorf("imap logout: %w", err)
	}
	return m.client.Close()
}

func joinAddrs(addrs []imap.Address) string {
	var parts []string
	for i := range addrs {
		a := &addrs[i]
		addr := a.Addr()
		if a.Name != "" {
			addr = fmt.Sprintf("%s <%s>", a.Name, addr)
		}
		if addr != "" {
			parts = append(parts, addr)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}
