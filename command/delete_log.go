package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tracklog/pkg/types"
)

// DeleteLogInput identifies one record to remove.
type DeleteLogInput struct {
	Stream types.Stream
	ID     int64
}

// Type implements gocommand.Message.
func (DeleteLogInput) Type() string {
	return "command.tracklog.delete_log"
}

// Validate implements gocommand.Message.
func (input DeleteLogInput) Validate() error {
	if !input.Stream.Valid() {
		return ErrUnknownStream
	}
	if input.ID <= 0 {
		return ErrLogIDRequired
	}
	return nil
}

// DeleteLogConfig wires dependencies for the delete command.
type DeleteLogConfig struct {
	Store  types.LogStore
	Logger types.Logger
}

// DeleteLogCommand removes a single record. Deleting an id that no longer
// exists is a no-op, so the command is idempotent.
type DeleteLogCommand struct {
	store  types.LogStore
	logger types.Logger
}

// NewDeleteLogCommand constructs the delete handler.
func NewDeleteLogCommand(cfg DeleteLogConfig) *DeleteLogCommand {
	return &DeleteLogCommand{
		store:  cfg.Store,
		logger: safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[DeleteLogInput] = (*DeleteLogCommand)(nil)

// Execute removes the record when present.
func (c *DeleteLogCommand) Execute(ctx context.Context, input DeleteLogInput) error {
	_, err := c.Delete(ctx, input)
	return err
}

// Delete removes the record and reports whether a row was removed.
func (c *DeleteLogCommand) Delete(ctx context.Context, input DeleteLogInput) (bool, error) {
	if c.store == nil {
		return false, types.ErrMissingLogStore
	}
	if err := input.Validate(); err != nil {
		return false, err
	}
	removed, err := c.store.DeleteOne(ctx, input.Stream, input.ID)
	if err != nil {
		return false, err
	}
	if removed {
		c.logger.Info("log record deleted", "stream", string(input.Stream), "id", input.ID)
	}
	return removed, nil
}
