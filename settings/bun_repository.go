package settings

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/goliatone/go-tracklog/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RecordName identifies the singleton tracking-policy record.
const RecordName = "tracking_policy"

// RepositoryConfig wires dependencies for the Bun-backed settings store.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Record]
	Clock      types.Clock
	IDGen      types.IDGenerator
	Defaults   *types.Settings
}

type settingsStore interface {
	repository.Repository[*Record]
}

// Repository implements types.SettingsRepository on top of a single named
// record. Reads return the persisted payload merged over the defaults.
type Repository struct {
	settingsStore
	db       *bun.DB
	clock    types.Clock
	idGen    types.IDGenerator
	defaults types.Settings
}

// NewRepository constructs the default settings repository. The cache option
// wraps the record store with go-repository-cache so the per-event policy
// reads stay cheap.
func NewRepository(cfg RepositoryConfig, options ...RepositoryOption) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("settings: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = newBaseRepository(cfg.DB)
	}

	resolved := applyRepositoryOptions(options)
	if resolved.CacheEnabled {
		if _, already := repo.(*repositorycache.CachedRepository[*Record]); !already {
			cacheConfig := cache.DefaultConfig()
			if resolved.CacheConfig != nil {
				cacheConfig = *resolved.CacheConfig
			}
			cacheService, err := cache.NewCacheService(cacheConfig)
			if err != nil {
				return nil, err
			}
			repo = repositorycache.New(repo, cacheService, cache.NewDefaultKeySerializer())
		}
	}

	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	defaults := types.DefaultSettings()
	if cfg.Defaults != nil {
		defaults = *cfg.Defaults
	}

	return &Repository{
		settingsStore: repo,
		db:            cfg.DB,
		clock:         clock,
		idGen:         idGen,
		defaults:      defaults,
	}, nil
}

// EnsureSchema creates the settings and meta tables when absent.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return errors.New("settings: schema management requires bun DB")
	}
	if _, err := r.db.NewCreateTable().Model((*Record)(nil)).IfNotExists().Exec(ctx); err != nil {
		return storageError(err, "create settings table")
	}
	if _, err := r.db.NewCreateIndex().
		Model((*Record)(nil)).
		Index("uq_tracklog_settings_name").
		Column("name").
		Unique().
		IfNotExists().
		Exec(ctx); err != nil {
		return storageError(err, "create settings index")
	}
	return nil
}

// DropSchema removes the settings table. Used by the uninstall flow.
func (r *Repository) DropSchema(ctx context.Context) error {
	if r.db == nil {
		return errors.New("settings: schema management requires bun DB")
	}
	if _, err := r.db.NewDropTable().Model((*Record)(nil)).IfExists().Exec(ctx); err != nil {
		return storageError(err, "drop settings table")
	}
	return nil
}

// Repository narrows the embedded record store: Get serves the effective
// policy, not a record, so only types.SettingsRepository is asserted here.
var _ types.SettingsRepository = (*Repository)(nil)

// Get returns the effective tracking policy. When no record has been saved
// yet the defaults apply as-is.
func (r *Repository) Get(ctx context.Context) (types.Settings, error) {
	record, err := r.findRecord(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return r.defaults, nil
		}
		return types.Settings{}, storageError(err, "load settings record")
	}
	return Resolve(r.defaults, record.Value)
}

// Save validates and persists the policy, returning the effective settings.
func (r *Repository) Save(ctx context.Context, s types.Settings) (types.Settings, error) {
	normalized, err := Normalize(s)
	if err != nil {
		return types.Settings{}, err
	}
	now := r.clock.Now()
	payload := settingsToMap(normalized)

	existing, err := r.findRecord(ctx)
	switch {
	case err == nil && existing != nil:
		existing.Value = payload
		existing.UpdatedAt = now
		if _, err := r.Update(ctx, existing); err != nil {
			return types.Settings{}, storageError(err, "update settings record")
		}
	case repository.IsRecordNotFound(err):
		record := &Record{
			ID:        r.idGen.UUID(),
			Name:      RecordName,
			Value:     payload,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := r.Create(ctx, record); err != nil {
			return types.Settings{}, storageError(err, "create settings record")
		}
	default:
		return types.Settings{}, storageError(err, "load settings record")
	}
	return normalized, nil
}

// Normalize validates and canonicalizes a policy before persistence:
// retention days must be non-negative and list entries are trimmed and
// deduplicated.
func Normalize(s types.Settings) (types.Settings, error) {
	if s.CleanupDays < 0 {
		return types.Settings{}, goerrors.New("cleanup days must be non-negative", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
	s.SkipRoles = coerceStringList(s.SkipRoles)
	s.ExcludePages = coerceStringList(s.ExcludePages)
	s.ExcludeIPs = coerceStringList(s.ExcludeIPs)
	return s, nil
}

func (r *Repository) findRecord(ctx context.Context) (*Record, error) {
	criteria := []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("name = ?", RecordName).Limit(1)
		},
	}
	rows, _, err := r.List(ctx, criteria...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.NewRecordNotFound()
	}
	return rows[0], nil
}

func newBaseRepository(db *bun.DB) repository.Repository[*Record] {
	return repository.NewRepository(db, repository.ModelHandlers[*Record]{
		NewRecord: func() *Record { return &Record{} },
		GetID: func(rec *Record) uuid.UUID {
			if rec == nil {
				return uuid.Nil
			}
			return rec.ID
		},
		SetID: func(rec *Record, id uuid.UUID) {
			if rec != nil {
				rec.ID = id
			}
		},
	})
}

func storageError(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, msg).WithCode(goerrors.CodeInternal)
}
