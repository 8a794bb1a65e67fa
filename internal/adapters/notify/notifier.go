// Package notify emails the shop when a trade, sell or contact form is
// stored and records the delivery outcome on the document.
package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/phenrril/galeria/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Notifier struct {
	Docs   domain.DocumentStore
	Sender Sender
	From   string
	To     string

	tmpl  *template.Template
	clock func() time.Time
}

var subjects = map[string]string{
	domain.CollectionTrades:   "New trade request",
	domain.CollectionSells:    "New sell offer",
	domain.CollectionContacts: "New contact message",
}

func New(docs domain.DocumentStore, sender Sender, from, to string) (*Notifier, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &Notifier{Docs: docs, Sender: sender, From: from, To: to, tmpl: t, clock: time.Now}, nil
}

// NewSMTP builds a notifier sending through an authenticated SMTP relay.
func NewSMTP(docs domain.DocumentStore, host string, port int, user, pass, to string) (*Notifier, error) {
	return New(docs, gomail.NewDialer(host, port, user, pass), user, to)
}

// Handle sends the email for ev. Collections without a template are
// ignored. The returned error is the send error, already recorded on the
// document.
func (n *Notifier) Handle(ctx context.Context, ev domain.DocumentCreated) error {
	subject, ok := subjects[ev.Collection]
	if !ok {
		return nil
	}
	if n.Sender == nil {
		log.Warn().Str("collection", ev.Collection).Str("id", ev.ID).Msg("smtp not configured, skipping email")
		return nil
	}
	doc, err := n.Docs.FetchByID(ctx, ev.Collection, ev.ID)
	if err != nil {
		return fmt.Errorf("load %s/%s: %w", ev.Collection, ev.ID, err)
	}
	data := doc.Raw()

	var html bytes.Buffer
	if err := n.tmpl.ExecuteTemplate(&html, ev.Collection+".html", data); err != nil {
		return fmt.Errorf("render %s: %w", ev.Collection, err)
	}
	text, err := plainText(html.String())
	if err != nil {
		return fmt.Errorf("text alternative: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.From)
	m.SetHeader("To", n.To)
	if email, _ := data["email"].(string); email != "" {
		m.SetHeader("Reply-To", email)
	}
	if name, _ := data["name"].(string); name != "" {
		subject += " from " + name
	}
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", html.String())

	sendErr := n.Sender.DialAndSend(m)
	delivery := map[string]any{
		"state": domain.DeliverySuccess,
		"time":  n.clock().UTC().Format(time.RFC3339),
	}
	if sendErr != nil {
		delivery["state"] = domain.DeliveryError
		delivery["error"] = sendErr.Error()
		log.Error().Err(sendErr).Str("collection", ev.Collection).Str("id", ev.ID).Msg("email send")
	}
	if err := n.Docs.Update(ctx, ev.Collection, ev.ID, map[string]any{"delivery": delivery}); err != nil {
		log.Error().Err(err).Str("collection", ev.Collection).Str("id", ev.ID).Msg("record delivery")
	}
	return sendErr
}

// plainText renders one line per heading, paragraph and list item.
func plainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	var lines []string
	doc.Find("h1, h2, p, li").Each(func(_ int, s *goquery.Selection) {
		line := strings.Join(strings.Fields(s.Text()), " ")
		if line != "" {
			lines = append(lines, line)
		}
	})
	return strings.Join(lines, "\n") + "\n", nil
}
