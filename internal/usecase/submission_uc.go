package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/galeria/internal/domain"
)

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// Photo is one sell-form attachment still to be uploaded.
type Photo struct {
	Name string
	Size int64
	Body io.Reader
}

// UploadProgress reports bytes sent for the photo at index.
type UploadProgress func(index int, sent, total int64)

type SubmissionUC struct {
	Docs    domain.DocumentStore
	Storage domain.FileStorage
	Events  domain.EventDispatcher
}

func (uc *SubmissionUC) SubmitTrade(ctx context.Context, req domain.TradeRequest) (*domain.Document, error) {
	if err := validContact(req.Name, req.Email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.WatchID) == "" {
		return nil, &domain.ValidationError{Field: "watchId", Message: "required"}
	}
	if strings.TrimSpace(req.OfferedBrand) == "" {
		return nil, &domain.ValidationError{Field: "offeredBrand", Message: "required"}
	}
	return uc.create(ctx, domain.CollectionTrades, req)
}

func (uc *SubmissionUC) SubmitContact(ctx context.Context, msg domain.ContactMessage) (*domain.Document, error) {
	if err := validContact(msg.Name, msg.Email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(msg.Message) == "" {
		return nil, &domain.ValidationError{Field: "message", Message: "required"}
	}
	return uc.create(ctx, domain.CollectionContacts, msg)
}

// SubmitSell uploads the photos first and stores their URLs with the
// request. A failed upload aborts the submission; files already uploaded
// stay where they are.
func (uc *SubmissionUC) SubmitSell(ctx context.Context, req domain.SellRequest, photos []Photo, progress UploadProgress) (*domain.Document, error) {
	if err := validContact(req.Name, req.Email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Brand) == "" {
		return nil, &domain.ValidationError{Field: "brand", Message: "required"}
	}
	if strings.TrimSpace(req.Model) == "" {
		return nil, &domain.ValidationError{Field: "model", Message: "required"}
	}
	if req.AskingPrice < 0 {
		return nil, &domain.ValidationError{Field: "askingPrice", Message: "must not be negative"}
	}
	if len(photos) > 0 && uc.Storage == nil {
		return nil, fmt.Errorf("photo upload: no file storage configured")
	}

	folder := "sells/" + uuid.NewString()
	for i, p := range photos {
		name := path.Base(strings.ReplaceAll(p.Name, "\\", "/"))
		if name == "" || name == "." || name == "/" {
			name = fmt.Sprintf("photo-%d", i+1)
		}
		var fn domain.ProgressFunc
		if progress != nil {
			idx := i
			fn = func(sent, total int64) { progress(idx, sent, total) }
		}
		u, err := uc.Storage.Upload(ctx, folder+"/"+name, p.Body, p.Size, fn)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", name, err)
		}
		req.Images = append(req.Images, u)
	}
	if req.Images == nil {
		req.Images = []string{}
	}
	return uc.create(ctx, domain.CollectionSells, req)
}

func (uc *SubmissionUC) create(ctx context.Context, collection string, v any) (*domain.Document, error) {
	data, err := toData(v)
	if err != nil {
		return nil, err
	}
	doc, err := uc.Docs.Create(ctx, collection, data)
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", collection, err)
	}
	if uc.Events != nil {
		ev := domain.DocumentCreated{Collection: collection, ID: doc.ID}
		if err := uc.Events.Dispatch(ctx, ev); err != nil {
			log.Error().Err(err).Str("collection", collection).Str("id", doc.ID).Msg("dispatch document created")
		}
	}
	return doc, nil
}

func validContact(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return &domain.ValidationError{Field: "name", Message: "required"}
	}
	if !emailRe.MatchString(strings.TrimSpace(email)) {
		return &domain.ValidationError{Field: "email", Message: "invalid address"}
	}
	return nil
}

func toData(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
