package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tracklog/classifier"
	"github.com/goliatone/go-tracklog/pkg/types"
	"github.com/goliatone/go-tracklog/store"
)

// IdentityResolver supplies visitor hashes and session identifiers for
// signals that arrive without them.
type IdentityResolver interface {
	VisitorHash(ctx context.Context, ip, userAgent string) (string, error)
	SessionID(ctx context.Context) string
}

// TrackInput wraps one captured signal.
type TrackInput struct {
	Signal types.Signal
}

// Type implements gocommand.Message.
func (TrackInput) Type() string {
	return "command.tracklog.track"
}

// Validate implements gocommand.Message.
func (input TrackInput) Validate() error {
	if strings.TrimSpace(input.Signal.ActionType) == "" {
		return ErrActionTypeRequired
	}
	return nil
}

// TrackResult reports what happened to a signal.
type TrackResult struct {
	Tracked bool
	Stream  types.Stream
	ID      int64
	Reason  classifier.DropReason
}

// TrackConfig wires dependencies for the track command.
type TrackConfig struct {
	Store    types.LogStore
	Settings types.SettingsProvider
	Identity IdentityResolver
	Enricher store.VisitorEnricher
	Hooks    types.Hooks
	Clock    types.Clock
	Logger   types.Logger
}

// TrackCommand is the single entry point for event capture: it reads the
// current policy, classifies the signal, resolves identity, enriches, and
// appends to exactly one stream.
type TrackCommand struct {
	store    types.LogStore
	settings types.SettingsProvider
	identity IdentityResolver
	enricher store.VisitorEnricher
	hooks    types.Hooks
	clock    types.Clock
	logger   types.Logger
}

// NewTrackCommand constructs the capture handler.
func NewTrackCommand(cfg TrackConfig) *TrackCommand {
	enricher := cfg.Enricher
	if enricher == nil {
		enricher = store.DefaultVisitorEnricher()
	}
	return &TrackCommand{
		store:    cfg.Store,
		settings: cfg.Settings,
		identity: cfg.Identity,
		enricher: enricher,
		hooks:    cfg.Hooks,
		clock:    safeClock(cfg.Clock),
		logger:   safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[TrackInput] = (*TrackCommand)(nil)

// Execute captures the signal; policy drops are not errors.
func (c *TrackCommand) Execute(ctx context.Context, input TrackInput) error {
	_, err := c.Track(ctx, input.Signal)
	return err
}

// Track captures the signal and reports the outcome, including the drop
// reason when the policy filtered it out.
func (c *TrackCommand) Track(ctx context.Context, signal types.Signal) (TrackResult, error) {
	if c.store == nil {
		return TrackResult{}, types.ErrMissingLogStore
	}
	if c.settings == nil {
		return TrackResult{}, types.ErrMissingSettings
	}
	if err := (TrackInput{Signal: signal}).Validate(); err != nil {
		return TrackResult{}, err
	}

	policy, err := c.settings.Get(ctx)
	if err != nil {
		return TrackResult{}, err
	}
	decision := classifier.Evaluate(policy, signal)
	if !decision.Track {
		c.logger.Debug("signal dropped",
			"stream", string(decision.Stream),
			"action_type", signal.ActionType,
			"reason", string(decision.Reason))
		return TrackResult{Stream: decision.Stream, Reason: decision.Reason}, nil
	}

	var id int64
	switch decision.Stream {
	case types.StreamUser:
		id, err = c.insertUserLog(ctx, signal)
	case types.StreamVisitor:
		id, err = c.insertVisitorLog(ctx, signal)
	case types.StreamAdmin:
		id, err = c.insertAdminLog(ctx, signal)
	default:
		return TrackResult{}, ErrUnknownStream
	}
	if err != nil {
		return TrackResult{Stream: decision.Stream}, err
	}

	event := types.TrackedEvent{
		Stream:     decision.Stream,
		ID:         id,
		ActionType: signal.ActionType,
		OccurredAt: now(c.clock),
	}
	emitTrackHook(ctx, c.hooks, event)
	return TrackResult{Tracked: true, Stream: decision.Stream, ID: id}, nil
}

func (c *TrackCommand) insertUserLog(ctx context.Context, signal types.Signal) (int64, error) {
	record := &types.UserLog{
		UserID:      signal.Actor.ID,
		UserLogin:   signal.Actor.Login,
		UserEmail:   signal.Actor.Email,
		ActionType:  signal.ActionType,
		Details:     signal.Details.Clone(),
		IP:          signal.IP,
		UserAgent:   signal.UserAgent,
		PageURL:     signal.PageURL,
		HTTPMethod:  signal.HTTPMethod,
		ReferrerURL: signal.ReferrerURL,
		SessionID:   c.sessionID(ctx, signal),
	}
	return c.store.InsertUserLog(ctx, record)
}

func (c *TrackCommand) insertVisitorLog(ctx context.Context, signal types.Signal) (int64, error) {
	hash := strings.TrimSpace(signal.VisitorHash)
	if hash == "" && c.identity != nil {
		resolved, err := c.identity.VisitorHash(ctx, signal.IP, signal.UserAgent)
		if err != nil {
			return 0, err
		}
		hash = resolved
	}
	record := types.VisitorLog{
		VisitorHash: hash,
		ActionType:  signal.ActionType,
		Details:     signal.Details.Clone(),
		IP:          signal.IP,
		UserAgent:   signal.UserAgent,
		PageURL:     signal.PageURL,
		HTTPMethod:  signal.HTTPMethod,
		ReferrerURL: signal.ReferrerURL,
		SessionID:   c.sessionID(ctx, signal),
	}
	if c.enricher != nil {
		enriched, err := c.enricher.Enrich(ctx, record)
		if err != nil {
			c.logger.Error("visitor enrichment failed", err, "action_type", signal.ActionType)
		} else {
			record = enriched
		}
	}
	return c.store.InsertVisitorLog(ctx, &record)
}

func (c *TrackCommand) insertAdminLog(ctx context.Context, signal types.Signal) (int64, error) {
	if strings.TrimSpace(signal.DetailsText) == "" {
		return 0, ErrAdminDetailsRequired
	}
	record := &types.AdminLog{
		UserID:     signal.Actor.ID,
		UserLogin:  signal.Actor.Login,
		UserRole:   signal.Actor.Role,
		ActionType: signal.ActionType,
		Details:    signal.DetailsText,
		ObjectType: signal.ObjectType,
		ObjectID:   signal.ObjectID,
		ObjectName: signal.ObjectName,
		IP:         signal.IP,
		AdminPage:  signal.AdminPage,
		HTTPMethod: signal.HTTPMethod,
	}
	return c.store.InsertAdminLog(ctx, record)
}

func (c *TrackCommand) sessionID(ctx context.Context, signal types.Signal) string {
	if strings.TrimSpace(signal.SessionID) != "" {
		return signal.SessionID
	}
	if c.identity == nil {
		return ""
	}
	return c.identity.SessionID(ctx)
}
