package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tracklog/pkg/types"
)

// PurgeStreamInput names the stream to clear.
type PurgeStreamInput struct {
	Stream types.Stream
}

// Type implements gocommand.Message.
func (PurgeStreamInput) Type() string {
	return "command.tracklog.purge_stream"
}

// Validate implements gocommand.Message.
func (input PurgeStreamInput) Validate() error {
	if !input.Stream.Valid() {
		return ErrUnknownStream
	}
	return nil
}

// PurgeStreamConfig wires dependencies for the purge command.
type PurgeStreamConfig struct {
	Store  types.LogStore
	Logger types.Logger
}

// PurgeStreamCommand irreversibly clears one stream.
type PurgeStreamCommand struct {
	store  types.LogStore
	logger types.Logger
}

// NewPurgeStreamCommand constructs the purge handler.
func NewPurgeStreamCommand(cfg PurgeStreamConfig) *PurgeStreamCommand {
	return &PurgeStreamCommand{
		store:  cfg.Store,
		logger: safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[PurgeStreamInput] = (*PurgeStreamCommand)(nil)

// Execute removes every record in the stream.
func (c *PurgeStreamCommand) Execute(ctx context.Context, input PurgeStreamInput) error {
	if c.store == nil {
		return types.ErrMissingLogStore
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if err := c.store.DeleteAll(ctx, input.Stream); err != nil {
		return err
	}
	c.logger.Info("log stream purged", "stream", string(input.Stream))
	return nil
}
