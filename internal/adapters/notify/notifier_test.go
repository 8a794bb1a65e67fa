package notify

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/phenrril/galeria/internal/adapters/repo/memory"
	"github.com/phenrril/galeria/internal/domain"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m...)
	return f.err
}

func newTestNotifier(t *testing.T, sender Sender) (*Notifier, *memory.DocumentRepo) {
	t.Helper()
	docs := memory.NewDocumentRepo()
	n, err := New(docs, sender, "shop@galeria.example", "sales@galeria.example")
	require.NoError(t, err)
	n.clock = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return n, docs
}

func TestNotifier_Success(t *testing.T) {
	sender := &fakeSender{}
	n, docs := newTestNotifier(t, sender)
	ctx := context.Background()

	doc, err := docs.Create(ctx, domain.CollectionSells, map[string]any{
		"name": "Ana", "email": "ana@example.com", "brand": "Rolex", "model": "GMT-Master II",
		"image": []any{"/uploads/sells/1/front.jpg"},
	})
	require.NoError(t, err)

	require.NoError(t, n.Handle(ctx, domain.DocumentCreated{Collection: domain.CollectionSells, ID: doc.ID}))
	require.Len(t, sender.sent, 1)

	m := sender.sent[0]
	require.Equal(t, []string{"New sell offer from Ana"}, m.GetHeader("Subject"))
	require.Equal(t, []string{"sales@galeria.example"}, m.GetHeader("To"))
	require.Equal(t, []string{"ana@example.com"}, m.GetHeader("Reply-To"))

	var raw bytes.Buffer
	_, err = m.WriteTo(&raw)
	require.NoError(t, err)
	require.Contains(t, raw.String(), "Watch: Rolex GMT-Master II")

	stored, err := docs.FetchByID(ctx, domain.CollectionSells, doc.ID)
	require.NoError(t, err)
	delivery := stored.Data["delivery"].(map[string]any)
	require.Equal(t, domain.DeliverySuccess, delivery["state"])
	require.Equal(t, "2026-03-01T10:00:00Z", delivery["time"])
	require.NotContains(t, delivery, "error")
}

func TestNotifier_SendFailureRecorded(t *testing.T) {
	sender := &fakeSender{err: errors.New("535 auth failed")}
	n, docs := newTestNotifier(t, sender)
	ctx := context.Background()

	doc, err := docs.Create(ctx, domain.CollectionContacts, map[string]any{"name": "Bo", "email": "bo@example.com", "message": "Hello"})
	require.NoError(t, err)

	err = n.Handle(ctx, domain.DocumentCreated{Collection: domain.CollectionContacts, ID: doc.ID})
	require.ErrorContains(t, err, "535")

	stored, err := docs.FetchByID(ctx, domain.CollectionContacts, doc.ID)
	require.NoError(t, err)
	delivery := stored.Data["delivery"].(map[string]any)
	require.Equal(t, domain.DeliveryError, delivery["state"])
	require.Equal(t, "535 auth failed", delivery["error"])
}

func TestNotifier_IgnoresOtherCollections(t *testing.T) {
	sender := &fakeSender{}
	n, _ := newTestNotifier(t, sender)
	require.NoError(t, n.Handle(context.Background(), domain.DocumentCreated{Collection: domain.CollectionWatches, ID: "x"}))
	require.Empty(t, sender.sent)
}

func TestNotifier_NoSender(t *testing.T) {
	n, docs := newTestNotifier(t, nil)
	ctx := context.Background()
	doc, err := docs.Create(ctx, domain.CollectionContacts, map[string]any{"name": "Bo"})
	require.NoError(t, err)

	require.NoError(t, n.Handle(ctx, domain.DocumentCreated{Collection: domain.CollectionContacts, ID: doc.ID}))
	stored, err := docs.FetchByID(ctx, domain.CollectionContacts, doc.ID)
	require.NoError(t, err)
	require.NotContains(t, stored.Data, "delivery")
}

func TestPlainText(t *testing.T) {
	got, err := plainText("<html><body><h1>Title</h1><p>  two\n  words </p><ul><li>a</li><li></li></ul></body></html>")
	require.NoError(t, err)
	require.Equal(t, "Title\ntwo words\na\n", got)
}

func TestInline(t *testing.T) {
	sender := &fakeSender{}
	n, docs := newTestNotifier(t, sender)
	ctx, cancel := context.WithCancel(context.Background())

	doc, err := docs.Create(ctx, domain.CollectionTrades, map[string]any{"name": "Cy", "email": "cy@example.com", "watchId": "w1"})
	require.NoError(t, err)

	d := NewInline(n)
	require.NoError(t, d.Dispatch(ctx, domain.DocumentCreated{Collection: domain.CollectionTrades, ID: doc.ID}))
	cancel()
	d.Wait()

	require.Len(t, sender.sent, 1)
}
