package inbox

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"

	"github.com/dealflow-crm/dealflow/internal/classify"
	"github.com/dealflow-crm/dealflow/internal/config"
)

// Source supplies batches of raw emails for classification. The IMAP
// Mailbox implements it; tests substitute their own. Implementations
// must return emails in mailbox order and own their failure modes -
// the classification layer passes errors through untouched.
type Source interface {
	Fetch(ctx context.Context, limit int) ([]classify.RawEmail, error)
}

// Mailbox is an IMAP-backed Source.
type Mailbox struct {
	config config.InboxConfig
	client *client.Client
}

// NewMailbox creates a mailbox for the configured IMAP account.
func NewMailbox(cfg config.InboxConfig) *Mailbox {
	return &Mailbox{config: cfg}
}

// Connect establishes the IMAP connection and logs in.
func (m *Mailbox) Connect(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", m.config.Server, m.config.Port)

	log.Printf("Connecting to IMAP server %s...", addr)

	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to IMAP server: %w", err)
	}

	if err := c.Login(m.config.Email, m.config.Password); err != nil {
		c.Logout()
		return fmt.Errorf("failed to login: %w", err)
	}

	m.client = c
	log.Printf("Logged in as %s", m.config.Email)
	return nil
}

// Disconnect closes the IMAP connection.
func (m *Mailbox) Disconnect() error {
	if m.client != nil {
		return m.client.Logout()
	}
	return nil
}

// Fetch returns up to limit of the most recent messages in the
// configured folder, oldest first, preserving server order.
func (m *Mailbox) Fetch(ctx context.Context, limit int) ([]classify.RawEmail, error) {
	if m.client == nil {
		return nil, fmt.Errorf("not connected to IMAP server")
	}

	mbox, err := m.client.Select(m.config.Folder, true)
	if err != nil {
		return nil, fmt.Errorf("failed to select mailbox %s: %w", m.config.Folder, err)
	}

	if mbox.Messages == 0 {
		return nil, nil
	}

	from := uint32(1)
	if limit > 0 && mbox.Messages > uint32(limit) {
		from = mbox.Messages - uint32(limit) + 1
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddRange(from, mbox.Messages)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchFlags, imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, mbox.Messages-from+1)
	done := make(chan error, 1)
	go func() {
		done <- m.client.Fetch(seqSet, items, messages)
	}()

	var emails []classify.RawEmail
	for msg := range messages {
		email, err := parseMessage(msg, section)
		if err != nil {
			log.Printf("Warning: failed to parse message: %v", err)
			continue
		}
		if email != nil {
			emails = append(emails, *email)
		}
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	return emails, nil
}

// parseMessage converts an IMAP message to the core RawEmail contract.
func parseMessage(msg *imap.Message, section *imap.BodySectionName) (*classify.RawEmail, error) {
	if msg == nil || msg.Envelope == nil {
		return nil, nil
	}

	email := &classify.RawEmail{
		ID:         msg.Envelope.MessageId,
		Subject:    msg.Envelope.Subject,
		ReceivedAt: msg.Envelope.Date,
	}

	if len(msg.Envelope.From) > 0 {
		from := msg.Envelope.From[0]
		email.From = classify.Address{
			Name:    from.PersonalName,
			Address: from.Address(),
		}
	}

	for _, flag := range msg.Flags {
		if flag == imap.SeenFlag {
			email.IsRead = true
		}
	}

	r := msg.GetBody(section)
	if r == nil {
		email.Body.ContentType = "text/plain"
		return email, nil
	}

	mr, err := mail.CreateReader(r)
	if err != nil {
		// Envelope data is still usable without a body
		email.Body.ContentType = "text/plain"
		return email, nil
	}

	var plain, html string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			ct, _, _ := h.ContentType()
			body, _ := io.ReadAll(p.Body)

			if strings.HasPrefix(ct, "text/plain") && plain == "" {
				plain = string(body)
			} else if strings.HasPrefix(ct, "text/html") && html == "" {
				html = string(body)
			}
		case *mail.AttachmentHeader:
			email.HasAttachments = true
		}
	}

	// Prefer the plain part; fall back to HTML with its real content
	// type so the engine knows to strip it.
	if plain != "" {
		email.Body = classify.Body{Content: plain, ContentType: "text/plain"}
	} else if html != "" {
		email.Body = classify.Body{Content: html, ContentType: "text/html"}
	} else {
		email.Body.ContentType = "text/plain"
	}

	return email, nil
}
