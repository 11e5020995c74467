package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tracklog/pkg/types"
)

// SaveSettingsInput carries the policy to persist.
type SaveSettingsInput struct {
	Settings types.Settings
}

// Type implements gocommand.Message.
func (SaveSettingsInput) Type() string {
	return "command.tracklog.save_settings"
}

// Validate implements gocommand.Message.
func (input SaveSettingsInput) Validate() error {
	if input.Settings.CleanupDays < 0 {
		return ErrNegativeRetention
	}
	return nil
}

// SaveSettingsConfig wires dependencies for the settings command.
type SaveSettingsConfig struct {
	Settings  types.SettingsRepository
	Scheduler types.Scheduler
	Hooks     types.Hooks
	Logger    types.Logger
}

// SaveSettingsCommand persists the tracking policy and re-arms the cleanup
// scheduler when the retention window changes.
type SaveSettingsCommand struct {
	settings  types.SettingsRepository
	scheduler types.Scheduler
	hooks     types.Hooks
	logger    types.Logger
}

// NewSaveSettingsCommand constructs the settings handler.
func NewSaveSettingsCommand(cfg SaveSettingsConfig) *SaveSettingsCommand {
	return &SaveSettingsCommand{
		settings:  cfg.Settings,
		scheduler: cfg.Scheduler,
		hooks:     cfg.Hooks,
		logger:    safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[SaveSettingsInput] = (*SaveSettingsCommand)(nil)

// Execute validates, persists, and reschedules cleanup when needed.
func (c *SaveSettingsCommand) Execute(ctx context.Context, input SaveSettingsInput) error {
	_, err := c.Save(ctx, input.Settings)
	return err
}

// Save persists the policy and returns the effective settings.
func (c *SaveSettingsCommand) Save(ctx context.Context, settings types.Settings) (types.Settings, error) {
	if c.settings == nil {
		return types.Settings{}, types.ErrMissingSettings
	}
	if err := (SaveSettingsInput{Settings: settings}).Validate(); err != nil {
		return types.Settings{}, err
	}

	previous, err := c.settings.Get(ctx)
	if err != nil {
		return types.Settings{}, err
	}
	saved, err := c.settings.Save(ctx, settings)
	if err != nil {
		return types.Settings{}, err
	}

	if c.scheduler != nil && previous.CleanupDays != saved.CleanupDays {
		if saved.CleanupDays > 0 {
			c.scheduler.Arm(saved.CleanupDays)
			c.logger.Info("cleanup schedule re-armed", "days", saved.CleanupDays)
		} else {
			c.scheduler.Disarm()
			c.logger.Info("cleanup schedule disarmed")
		}
	}
	emitSettingsHook(ctx, c.hooks, saved)
	return saved, nil
}
