package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tracklog/pkg/types"
)

// CleanupInput carries the retention window. Days zero defers to the
// persisted policy.
type CleanupInput struct {
	Days int
}

// Type implements gocommand.Message.
func (CleanupInput) Type() string {
	return "command.tracklog.cleanup"
}

// Validate implements gocommand.Message.
func (input CleanupInput) Validate() error {
	if input.Days < 0 {
		return ErrNegativeRetention
	}
	return nil
}

// CleanupConfig wires dependencies for the retention command.
type CleanupConfig struct {
	Store    types.LogStore
	Settings types.SettingsProvider
	Hooks    types.Hooks
	Logger   types.Logger
}

// CleanupCommand deletes records older than the retention window across all
// three streams.
type CleanupCommand struct {
	store    types.LogStore
	settings types.SettingsProvider
	hooks    types.Hooks
	logger   types.Logger
}

// NewCleanupCommand constructs the retention handler.
func NewCleanupCommand(cfg CleanupConfig) *CleanupCommand {
	return &CleanupCommand{
		store:    cfg.Store,
		settings: cfg.Settings,
		hooks:    cfg.Hooks,
		logger:   safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[CleanupInput] = (*CleanupCommand)(nil)

// Execute runs the cleanup. With retention disabled it is a no-op.
func (c *CleanupCommand) Execute(ctx context.Context, input CleanupInput) error {
	if c.store == nil {
		return types.ErrMissingLogStore
	}
	if err := input.Validate(); err != nil {
		return err
	}
	days := input.Days
	if days == 0 && c.settings != nil {
		policy, err := c.settings.Get(ctx)
		if err != nil {
			return err
		}
		days = policy.CleanupDays
	}
	if days <= 0 {
		return nil
	}
	removed, err := c.store.Cleanup(ctx, days)
	if err != nil {
		return err
	}
	if removed > 0 {
		c.logger.Info("retention cleanup removed records", "days", days, "removed", removed)
	}
	emitCleanupHook(ctx, c.hooks, removed)
	return nil
}
