package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/phenrril/galeria/internal/domain"
)

const storageScope = "https://www.googleapis.com/auth/devstorage.read_write"

// Bucket uploads objects with the Cloud Storage JSON media upload. The HTTP
// client carries the OAuth2 credentials.
type Bucket struct {
	Name       string
	APIBase    string // https://storage.googleapis.com
	PublicBase string // https://storage.googleapis.com
	client     *http.Client
}

func NewBucket(name string, client *http.Client) *Bucket {
	return &Bucket{
		Name:       name,
		APIBase:    "https://storage.googleapis.com",
		PublicBase: "https://storage.googleapis.com",
		client:     client,
	}
}

// NewDefaultBucket authenticates with the application default credentials.
func NewDefaultBucket(ctx context.Context, name string) (*Bucket, error) {
	client, err := google.DefaultClient(ctx, storageScope)
	if err != nil {
		return nil, fmt.Errorf("storage credentials: %w", err)
	}
	client.Timeout = 2 * time.Minute
	return NewBucket(name, client), nil
}

// NewTokenBucket is used with a fixed token source (service tokens, tests).
func NewTokenBucket(ctx context.Context, name string, ts oauth2.TokenSource) *Bucket {
	return NewBucket(name, oauth2.NewClient(ctx, ts))
}

type objectResp struct {
	Name   string `json:"name"`
	Bucket string `json:"bucket"`
}

func (b *Bucket) Upload(ctx context.Context, p string, r io.Reader, size int64, progress domain.ProgressFunc) (string, error) {
	key, err := cleanPath(p)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("uploadType", "media")
	q.Set("name", key)
	endpoint := fmt.Sprintf("%s/upload/storage/v1/b/%s/o?%s", strings.TrimRight(b.APIBase, "/"), url.PathEscape(b.Name), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, withProgress(r, size, progress))
	if err != nil {
		return "", err
	}
	if size > 0 {
		req.ContentLength = size
	}
	ct := mime.TypeByExtension(path.Ext(key))
	if ct == "" {
		ct = "application/octet-stream"
	}
	req.Header.Set("Content-Type", ct)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("storage upload status %d: %s", resp.StatusCode, string(body))
	}
	var obj objectResp
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		return "", fmt.Errorf("storage upload response: %w", err)
	}
	if obj.Name == "" {
		obj.Name = key
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(b.PublicBase, "/"), b.Name, obj.Name), nil
}
