package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/phenrril/galeria/internal/domain"
)

type DocumentRepo struct{ db *gorm.DB }

func NewDocumentRepo(db *gorm.DB) *DocumentRepo { return &DocumentRepo{db: db} }

// Migrate creates the documents table and its indexes.
func (r *DocumentRepo) Migrate() error {
	if err := r.db.AutoMigrate(&domain.Document{}); err != nil {
		return err
	}
	return r.createIndexes()
}

func (r *DocumentRepo) createIndexes() error {
	for _, stmt := range []string{
		"CREATE INDEX IF NOT EXISTS idx_documents_collection_created ON documents (collection, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_documents_data_gin ON documents USING gin (data)",
	} {
		if err := r.db.Exec(stmt).Error; err != nil {
			log.Error().Err(err).Str("stmt", stmt).Msg("create index")
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// isUniqueViolation matches both gorm's translated error and the raw
// Postgres code, so callers need not enable TranslateError.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *DocumentRepo) FetchAll(ctx context.Context, collection string) ([]domain.Document, error) {
	var list []domain.Document
	if err := r.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("created_at asc").Order("id asc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *DocumentRepo) FetchByID(ctx context.Context, collection, id string) (*domain.Document, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	var d domain.Document
	if err := r.db.WithContext(ctx).First(&d, "collection = ? AND id = ?", collection, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DocumentRepo) Create(ctx context.Context, collection string, data map[string]any) (*domain.Document, error) {
	cp := make(map[string]any, len(data))
	for k, v := range data {
		cp[k] = v
	}
	id, _ := cp["id"].(string)
	if strings.TrimSpace(id) == "" {
		id = uuid.New().String()
	}
	delete(cp, "id")
	now := time.Now()
	d := &domain.Document{Collection: collection, ID: id, Data: cp, CreatedAt: now, UpdatedAt: now}
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, domain.ErrConflict)
		}
		return nil, err
	}
	return d, nil
}

// Update merges fields into the stored data under a row lock.
func (r *DocumentRepo) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d domain.Document
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&d, "collection = ? AND id = ?", collection, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		} else if err != nil {
			return err
		}
		if d.Data == nil {
			d.Data = map[string]any{}
		}
		for k, v := range fields {
			d.Data[k] = v
		}
		d.UpdatedAt = time.Now()
		return tx.Save(&d).Error
	})
}

// Count is used by the seeder to leave populated collections alone.
func (r *DocumentRepo) Count(ctx context.Context, collection string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Document{}).Where("collection = ?", collection).Count(&n).Error
	return n, err
}
