package command

import (
	"context"
	"time"

	"github.com/goliatone/go-tracklog/pkg/types"
)

func safeClock(clock types.Clock) types.Clock {
	if clock != nil {
		return clock
	}
	return types.SystemClock{}
}

func safeLogger(logger types.Logger) types.Logger {
	if logger != nil {
		return logger
	}
	return types.NopLogger{}
}

func now(clock types.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now()
}

func emitTrackHook(ctx context.Context, hooks types.Hooks, event types.TrackedEvent) {
	if hooks.AfterTrack == nil {
		return
	}
	hooks.AfterTrack(ctx, event)
}

func emitSettingsHook(ctx context.Context, hooks types.Hooks, settings types.Settings) {
	if hooks.AfterSettingsChange == nil {
		return
	}
	hooks.AfterSettingsChange(ctx, settings)
}

func emitCleanupHook(ctx context.Context, hooks types.Hooks, removed int64) {
	if hooks.AfterCleanup == nil {
		return
	}
	hooks.AfterCleanup(ctx, removed)
}
