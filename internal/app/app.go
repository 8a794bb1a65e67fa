package app

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/phenrril/galeria/internal/adapters/httpserver"
	"github.com/phenrril/galeria/internal/adapters/notify"
	"github.com/phenrril/galeria/internal/adapters/notify/redisqueue"
	"github.com/phenrril/galeria/internal/adapters/repo/memory"
	pgrepo "github.com/phenrril/galeria/internal/adapters/repo/postgres"
	"github.com/phenrril/galeria/internal/adapters/search/algolia"
	"github.com/phenrril/galeria/internal/adapters/search/local"
	"github.com/phenrril/galeria/internal/adapters/storage"
	"github.com/phenrril/galeria/internal/config"
	"github.com/phenrril/galeria/internal/domain"
	"github.com/phenrril/galeria/internal/session"
	"github.com/phenrril/galeria/internal/usecase"
)

// store is a DocumentStore that can also count a collection.
type store interface {
	domain.DocumentStore
	Count(ctx context.Context, collection string) (int64, error)
}

type App struct {
	Config       *config.Config
	DB           *gorm.DB
	Docs         domain.DocumentStore
	Storage      domain.FileStorage
	Index        domain.SearchIndex
	Sessions     *session.Registry
	CatalogUC    *usecase.CatalogUC
	SearchUC     *usecase.SearchUC
	SubmissionUC *usecase.SubmissionUC
	Notifier     *notify.Notifier
	Queue        *redisqueue.Queue
	Inline       *notify.Inline

	store store
	pg    *pgrepo.DocumentRepo
}

// NewApp wires adapters from cfg: Postgres when a DSN is set, otherwise
// the in-memory store; a bucket when one is named, otherwise the local
// uploads directory; the hosted index when credentials exist, otherwise a
// store scan; a Redis queue for notifications when REDIS_URL is set.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, Sessions: session.NewRegistry()}

	if cfg.DSN != "" {
		db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{TranslateError: true})
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.DB = db
		a.pg = pgrepo.NewDocumentRepo(db)
		a.store = a.pg
	} else {
		log.Warn().Msg("no database configured, using in-memory store")
		a.store = memory.NewDocumentRepo()
	}
	a.Docs = a.store

	if cfg.StorageBucket != "" {
		b, err := storage.NewDefaultBucket(ctx, cfg.StorageBucket)
		if err != nil {
			return nil, fmt.Errorf("bucket storage: %w", err)
		}
		a.Storage = b
	} else {
		_ = os.MkdirAll(cfg.StorageDir, 0755)
		a.Storage = storage.NewLocalFS(cfg.StorageDir)
	}

	if cfg.SearchAppID != "" {
		a.Index = algolia.NewClient(cfg.SearchAppID, cfg.SearchAPIKey, cfg.SearchIndex, cfg.SearchPerPg)
	} else {
		a.Index = local.NewIndex(a.Docs, domain.CollectionWatches, cfg.SearchPerPg)
	}

	var err error
	if cfg.SMTPConfigured() {
		a.Notifier, err = notify.NewSMTP(a.Docs, cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.NotifyEmail)
	} else {
		a.Notifier, err = notify.New(a.Docs, nil, "", cfg.NotifyEmail)
	}
	if err != nil {
		return nil, err
	}

	var events domain.EventDispatcher
	if cfg.RedisURL != "" {
		q, err := redisqueue.NewFromURL(ctx, cfg.RedisURL, "")
		if err != nil {
			return nil, err
		}
		a.Queue = q
		events = q
	} else {
		a.Inline = notify.NewInline(a.Notifier)
		events = a.Inline
	}

	a.CatalogUC = &usecase.CatalogUC{Docs: a.Docs, BrandPriority: cfg.BrandPriority}
	a.SearchUC = usecase.NewSearchUC(a.Index)
	a.SubmissionUC = &usecase.SubmissionUC{Docs: a.Docs, Storage: a.Storage, Events: events}
	return a, nil
}

func (a *App) HTTPHandler() http.Handler {
	uploads := ""
	if a.Config.StorageBucket == "" {
		uploads = a.Config.StorageDir
	}
	return httpserver.New(a.CatalogUC, a.SearchUC, a.SubmissionUC, a.Sessions, httpserver.Options{
		SessionKey:    a.Config.SessionKey,
		AdminAPIKey:   a.Config.AdminAPIKey,
		RatePerSecond: a.Config.RatePerSecond,
		RateBurst:     a.Config.RateBurst,
		UploadsDir:    uploads,
		SecureCookies: !a.Config.IsDev(),
		TrustProxy:    a.Config.TrustProxy,
	})
}

// RunNotifyWorker drains the Redis queue until ctx is done. Without a
// queue, events are handled inline and this returns at once.
func (a *App) RunNotifyWorker(ctx context.Context) error {
	if a.Queue == nil {
		return nil
	}
	return a.Queue.Run(ctx, 0, a.Notifier.Handle)
}

// MigrateAndSeed prepares the schema and fills empty catalog collections
// with the sample data.
func (a *App) MigrateAndSeed(ctx context.Context, seed bool) error {
	if a.pg != nil {
		if err := a.pg.Migrate(); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	if !seed {
		return nil
	}
	return seedCatalog(ctx, a.store)
}

func (a *App) Close() error {
	if a.Inline != nil {
		a.Inline.Wait()
	}
	if a.Queue != nil {
		_ = a.Queue.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}
