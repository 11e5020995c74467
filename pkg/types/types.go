package types

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Stream identifies one of the three append-mostly logs.
type Stream string

const (
	StreamUser    Stream = "user"
	StreamVisitor Stream = "visitor"
	StreamAdmin   Stream = "admin"
)

// Valid reports whether the stream names one of the three known logs.
func (s Stream) Valid() bool {
	switch s {
	case StreamUser, StreamVisitor, StreamAdmin:
		return true
	}
	return false
}

// ParseStream normalizes user-supplied stream names.
func ParseStream(raw string) (Stream, error) {
	s := Stream(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", ErrUnknownStream
	}
	return s, nil
}

// Details carries the structured action payload for the user and visitor
// streams. It is serialized as JSON at rest.
type Details map[string]any

// Clone returns a detached copy so callers can mutate safely.
func (d Details) Clone() Details {
	if len(d) == 0 {
		return Details{}
	}
	out := make(Details, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// UserLog models one authenticated-user event.
type UserLog struct {
	ID          int64
	UserID      int64
	UserLogin   string
	UserEmail   string
	ActionType  string
	Details     Details
	IP          string
	UserAgent   string
	PageURL     string
	HTTPMethod  string
	ReferrerURL string
	SessionID   string
	CreatedAt   time.Time
}

// VisitorLog models one anonymous-visitor event keyed by a pseudonymous hash.
type VisitorLog struct {
	ID          int64
	VisitorHash string
	ActionType  string
	Details     Details
	IP          string
	UserAgent   string
	PageURL     string
	HTTPMethod  string
	ReferrerURL string
	CountryCode string
	City        string
	DeviceType  string
	Browser     string
	SessionID   string
	CreatedAt   time.Time
}

// AdminLog models one administrative action. Details is human readable and,
// unlike the other streams, mandatory.
type AdminLog struct {
	ID         int64
	UserID     int64
	UserLogin  string
	UserRole   string
	ActionType string
	Details    string
	ObjectType string
	ObjectID   int64
	ObjectName string
	IP         string
	AdminPage  string
	HTTPMethod string
	CreatedAt  time.Time
}

// Pagination supports offset-based paging across admin panels. A zero Limit
// falls back to the store's default page size.
type Pagination struct {
	Limit  int
	Offset int
}

// LogFilter narrows log page queries.
type LogFilter struct {
	Pagination Pagination
	// Keyword performs a case-insensitive substring match over actor
	// identity columns and action_type.
	Keyword string
}

// Page represents one page of log rows plus the unfiltered stream total.
type Page[T any] struct {
	Rows  []T
	Total int
}

// DashboardStats powers the activity-overview widget.
type DashboardStats struct {
	UserTotal    int
	UserToday    int
	VisitorTotal int
	VisitorToday int
	AdminTotal   int
	AdminToday   int
}

// TypeCount is one action_type bucket in an aggregate, highest count first.
type TypeCount struct {
	ActionType string
	Count      int
}

// UserCount is one per-user bucket in the admin summary. Buckets key on
// UserID; UserLogin is a representative login recorded for that id.
type UserCount struct {
	UserID    int64
	UserLogin string
	Count     int
}

// PageCount is one page bucket in the visitor overview.
type PageCount struct {
	PageURL string
	Count   int
}

// CountryCount is one country bucket in the visitor overview.
type CountryCount struct {
	CountryCode string
	Count       int
}

// AdminSummary aggregates admin-stream activity over a day window.
type AdminSummary struct {
	TotalActions int
	ByUser       []UserCount
	ByType       []TypeCount
	Recent       []AdminLog
}

// UserSummary aggregates one user's activity over a day window.
type UserSummary struct {
	TotalActions int
	ByType       []TypeCount
	Recent       []UserLog
}

// VisitorOverview aggregates the whole visitor stream.
type VisitorOverview struct {
	UniqueVisitors int
	TotalVisits    int
	VisitsToday    int
	TopPages       []PageCount
	TopCountries   []CountryCount
}

// VisitorDetail aggregates one visitor hash.
type VisitorDetail struct {
	TotalVisits int
	FirstVisit  time.Time
	LastVisit   time.Time
	ByType      []TypeCount
}

// VisitorPresence is one row in the recent-visitors listing.
type VisitorPresence struct {
	VisitorHash string
	FirstVisit  time.Time
	LastVisit   time.Time
	TotalVisits int
	IP          string
	CountryCode string
	DeviceType  string
}

// Settings holds the process-wide tracking policy. A single named record is
// persisted; defaults fill any field the record does not carry.
type Settings struct {
	CleanupDays   int
	SkipRoles     []string
	TrackLoggedIn bool
	TrackVisitors bool
	TrackAdmin    bool
	ExcludePages  []string
	ExcludeIPs    []string
}

// DefaultSettings returns the hard-coded policy used until an admin saves one.
func DefaultSettings() Settings {
	return Settings{
		CleanupDays:   30,
		SkipRoles:     []string{"administrator"},
		TrackLoggedIn: true,
		TrackVisitors: true,
		TrackAdmin:    true,
		ExcludePages:  []string{"/admin/", "/login", "/cron"},
		ExcludeIPs:    []string{"127.0.0.1", "::1"},
	}
}

// ActorRef describes the actor behind a signal. Roles is a plain capability
// set so the classifier stays decoupled from any identity subsystem.
type ActorRef struct {
	ID            int64
	Login         string
	Email         string
	Role          string
	Roles         []string
	Authenticated bool
}

// Signal is one raw captured event before classification.
type Signal struct {
	Actor        ActorRef
	AdminContext bool
	ActionType   string
	Details      Details
	DetailsText  string
	ObjectType   string
	ObjectID     int64
	ObjectName   string
	IP           string
	UserAgent    string
	PageURL      string
	HTTPMethod   string
	ReferrerURL  string
	SessionID    string
	VisitorHash  string
	AdminPage    string
}

// TrackedEvent notifies hooks after a record lands in a stream.
type TrackedEvent struct {
	Stream     Stream
	ID         int64
	ActionType string
	OccurredAt time.Time
}

// Hooks groups optional callbacks invoked after key workflows complete.
type Hooks struct {
	AfterTrack          func(context.Context, TrackedEvent)
	AfterSettingsChange func(context.Context, Settings)
	AfterCleanup        func(context.Context, int64)
}

// LogStore is the storage contract for the three streams. Implementations own
// schema creation, retention cleanup, and the aggregate queries.
type LogStore interface {
	EnsureSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	InsertUserLog(ctx context.Context, entry *UserLog) (int64, error)
	InsertVisitorLog(ctx context.Context, entry *VisitorLog) (int64, error)
	InsertAdminLog(ctx context.Context, entry *AdminLog) (int64, error)

	UserLogs(ctx context.Context, filter LogFilter) (Page[UserLog], error)
	VisitorLogs(ctx context.Context, filter LogFilter) (Page[VisitorLog], error)
	AdminLogs(ctx context.Context, filter LogFilter) (Page[AdminLog], error)

	DeleteOne(ctx context.Context, stream Stream, id int64) (bool, error)
	DeleteAll(ctx context.Context, stream Stream) error
	Cleanup(ctx context.Context, days int) (int64, error)

	DashboardStats(ctx context.Context) (DashboardStats, error)
	AdminSummary(ctx context.Context, days, recent int) (AdminSummary, error)
	UserSummary(ctx context.Context, userID int64, days, recent int) (UserSummary, error)
	VisitorOverview(ctx context.Context, topN int) (VisitorOverview, error)
	VisitorDetail(ctx context.Context, visitorHash string) (VisitorDetail, error)
	RecentVisitors(ctx context.Context, limit int) ([]VisitorPresence, error)
	UserAdminActivity(ctx context.Context, userID int64, days int) ([]AdminLog, error)
}

// SettingsProvider exposes the effective settings (persisted merged over
// defaults). Reads happen on every tracking decision and must be cheap and
// safe for concurrent use.
type SettingsProvider interface {
	Get(ctx context.Context) (Settings, error)
}

// SettingsRepository extends the provider with the persistence side.
type SettingsRepository interface {
	SettingsProvider
	Save(ctx context.Context, settings Settings) (Settings, error)
}

// Scheduler is the retention-cleanup trigger. Arm replaces any existing
// schedule; Disarm cancels it; Tick fires a manual run which is a no-op while
// disarmed.
type Scheduler interface {
	Arm(days int)
	Disarm()
	Tick(ctx context.Context) error
}

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID creation.
type IDGenerator interface {
	UUID() uuid.UUID
}

// Logger captures basic logging hooks used by the service.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Error(msg string, err error, fields ...any)
}

// SystemClock defers to time.Now for production usage.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator produces UUIDv4 identifiers.
type UUIDGenerator struct{}

// UUID returns a randomly generated UUID.
func (UUIDGenerator) UUID() uuid.UUID { return uuid.New() }

// NopLogger discards all log lines.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, error, ...any) {}

var (
	// ErrUnknownStream indicates a stream name outside user/visitor/admin.
	ErrUnknownStream = errors.New("go-tracklog: unknown stream")
	// ErrActionTypeRequired indicates a record with an empty action_type.
	ErrActionTypeRequired = errors.New("go-tracklog: action type required")
	// ErrAdminDetailsRequired indicates an admin record with empty details.
	ErrAdminDetailsRequired = errors.New("go-tracklog: admin action details required")
	// ErrVisitorHashRequired indicates a visitor record with no visitor hash.
	ErrVisitorHashRequired = errors.New("go-tracklog: visitor hash required")
	// ErrMissingLogStore occurs when no log store was supplied.
	ErrMissingLogStore = errors.New("go-tracklog: missing log store")
	// ErrMissingSettings occurs when no settings repository was supplied.
	ErrMissingSettings = errors.New("go-tracklog: missing settings repository")
	// ErrMissingScheduler occurs when scheduler wiring is required but absent.
	ErrMissingScheduler = errors.New("go-tracklog: missing scheduler")
	// ErrServiceNotReady indicates the service has not been fully configured.
	ErrServiceNotReady = errors.New("go-tracklog: service not ready")
)
