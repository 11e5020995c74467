// Package service assembles the tracking engine: storage, settings, identity,
// classification, retention, and the command/query facades live behind one
// Config so host applications wire a single entry point.
package service

import (
	"context"

	"github.com/goliatone/go-masker"
	"github.com/goliatone/go-tracklog/command"
	"github.com/goliatone/go-tracklog/identity"
	"github.com/goliatone/go-tracklog/pkg/types"
	"github.com/goliatone/go-tracklog/query"
	"github.com/goliatone/go-tracklog/scheduler"
	"github.com/goliatone/go-tracklog/store"
)

// Service is the entry point for go-tracklog. It wires the log store,
// settings repository, identity resolver, and scheduler supplied by the host
// application into command/query facades.
type Service struct {
	cfg       Config
	commands  Commands
	queries   Queries
	scheduler types.Scheduler
}

// Commands exposes the service command handlers.
type Commands struct {
	Track        *command.TrackCommand
	DeleteLog    *command.DeleteLogCommand
	PurgeStream  *command.PurgeStreamCommand
	Cleanup      *command.CleanupCommand
	SaveSettings *command.SaveSettingsCommand
}

// Queries exposes read-model helpers.
type Queries struct {
	LogPage           *query.LogPageQuery
	DashboardStats    *query.DashboardStatsQuery
	AdminSummary      *query.AdminSummaryQuery
	UserSummary       *query.UserSummaryQuery
	UserAdminActivity *query.UserAdminActivityQuery
	VisitorOverview   *query.VisitorOverviewQuery
	VisitorDetail     *query.VisitorDetailQuery
	RecentVisitors    *query.RecentVisitorsQuery
}

// SchemaManager is implemented by repositories that own DDL for their tables.
type SchemaManager interface {
	EnsureSchema(ctx context.Context) error
}

// Config captures all required dependencies so callers can provide their own
// instances (bun.DB-backed stores, cached settings, hooks, etc.).
type Config struct {
	Store    types.LogStore
	Settings types.SettingsRepository
	Identity command.IdentityResolver
	Enricher store.VisitorEnricher
	// Scheduler overrides the built-in daily trigger.
	Scheduler   types.Scheduler
	Hooks       types.Hooks
	Clock       types.Clock
	IDGenerator types.IDGenerator
	Logger      types.Logger
	Masker      *masker.Masker
}

// New constructs a Service from the supplied configuration.
func New(cfg Config) *Service {
	norm := normalizeConfig(cfg)

	s := &Service{cfg: norm}
	s.commands.Cleanup = command.NewCleanupCommand(command.CleanupConfig{
		Store:    norm.Store,
		Settings: norm.Settings,
		Hooks:    norm.Hooks,
		Logger:   norm.Logger,
	})
	s.scheduler = norm.Scheduler
	if s.scheduler == nil {
		s.scheduler = scheduler.NewDaily(scheduler.DailyConfig{
			Runner: func(ctx context.Context, days int) error {
				return s.commands.Cleanup.Execute(ctx, command.CleanupInput{Days: days})
			},
			Logger: norm.Logger,
		})
	}
	s.commands = s.buildCommands(s.commands.Cleanup)
	s.queries = s.buildQueries()
	return s
}

func normalizeConfig(cfg Config) Config {
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = types.UUIDGenerator{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	if cfg.Identity == nil {
		cfg.Identity = identity.NewResolver(identity.ResolverConfig{
			Clock: cfg.Clock,
			IDGen: cfg.IDGenerator,
		})
	}
	return cfg
}

// Commands returns the command facade.
func (s *Service) Commands() Commands {
	return s.commands
}

// Queries returns the query facade.
func (s *Service) Queries() Queries {
	return s.queries
}

// Scheduler returns the retention trigger so hosts can drive manual ticks.
func (s *Service) Scheduler() types.Scheduler {
	if s == nil {
		return nil
	}
	return s.scheduler
}

// Ready reports whether the service has the required dependencies wired in.
func (s *Service) Ready() bool {
	return s != nil &&
		s.cfg.Store != nil &&
		s.cfg.Settings != nil
}

// HealthCheck surfaces missing configuration to upstream transports.
func (s *Service) HealthCheck(ctx context.Context) error {
	if !s.Ready() {
		return types.ErrServiceNotReady
	}
	if s.cfg.Store == nil {
		return types.ErrMissingLogStore
	}
	if s.cfg.Settings == nil {
		return types.ErrMissingSettings
	}
	if _, err := s.cfg.Settings.Get(ctx); err != nil {
		return err
	}
	return nil
}

// EnsureSchema creates every table the engine owns. It is idempotent and safe
// to call on every startup.
func (s *Service) EnsureSchema(ctx context.Context) error {
	if s.cfg.Store == nil {
		return types.ErrMissingLogStore
	}
	if err := s.cfg.Store.EnsureSchema(ctx); err != nil {
		return err
	}
	if manager, ok := s.cfg.Settings.(SchemaManager); ok {
		return manager.EnsureSchema(ctx)
	}
	return nil
}

// Start arms the retention schedule from the persisted policy. A zero
// retention window leaves the schedule disarmed.
func (s *Service) Start(ctx context.Context) error {
	if s.cfg.Settings == nil {
		return types.ErrMissingSettings
	}
	policy, err := s.cfg.Settings.Get(ctx)
	if err != nil {
		return err
	}
	if policy.CleanupDays > 0 {
		s.scheduler.Arm(policy.CleanupDays)
	} else {
		s.scheduler.Disarm()
	}
	return nil
}

// Stop disarms the retention schedule.
func (s *Service) Stop() {
	if s == nil || s.scheduler == nil {
		return
	}
	s.scheduler.Disarm()
}

func (s *Service) buildCommands(cleanup *command.CleanupCommand) Commands {
	return Commands{
		Track: command.NewTrackCommand(command.TrackConfig{
			Store:    s.cfg.Store,
			Settings: s.cfg.Settings,
			Identity: s.cfg.Identity,
			Enricher: s.cfg.Enricher,
			Hooks:    s.cfg.Hooks,
			Clock:    s.cfg.Clock,
			Logger:   s.cfg.Logger,
		}),
		DeleteLog: command.NewDeleteLogCommand(command.DeleteLogConfig{
			Store:  s.cfg.Store,
			Logger: s.cfg.Logger,
		}),
		PurgeStream: command.NewPurgeStreamCommand(command.PurgeStreamConfig{
			Store:  s.cfg.Store,
			Logger: s.cfg.Logger,
		}),
		Cleanup: cleanup,
		SaveSettings: command.NewSaveSettingsCommand(command.SaveSettingsConfig{
			Settings:  s.cfg.Settings,
			Scheduler: s.scheduler,
			Hooks:     s.cfg.Hooks,
			Logger:    s.cfg.Logger,
		}),
	}
}

func (s *Service) buildQueries() Queries {
	return Queries{
		LogPage:           query.NewLogPageQuery(s.cfg.Store, store.SanitizerConfig{Masker: s.cfg.Masker}),
		DashboardStats:    query.NewDashboardStatsQuery(s.cfg.Store),
		AdminSummary:      query.NewAdminSummaryQuery(s.cfg.Store),
		UserSummary:       query.NewUserSummaryQuery(s.cfg.Store),
		UserAdminActivity: query.NewUserAdminActivityQuery(s.cfg.Store),
		VisitorOverview:   query.NewVisitorOverviewQuery(s.cfg.Store),
		VisitorDetail:     query.NewVisitorDetailQuery(s.cfg.Store),
		RecentVisitors:    query.NewRecentVisitorsQuery(s.cfg.Store),
	}
}
