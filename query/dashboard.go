package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tracklog/pkg/types"
)

const (
	defaultSummaryDays   = 7
	defaultSummaryRecent = 10
)

// DashboardStatsInput requests the activity-overview counters.
type DashboardStatsInput struct{}

// Type implements gocommand.Message.
func (DashboardStatsInput) Type() string {
	return "query.tracklog.dashboard_stats"
}

// Validate implements gocommand.Message.
func (DashboardStatsInput) Validate() error { return nil }

// DashboardStatsQuery powers the overview widget with per-stream totals and
// today counts.
type DashboardStatsQuery struct {
	store types.LogStore
}

// NewDashboardStatsQuery constructs the overview helper.
func NewDashboardStatsQuery(logStore types.LogStore) *DashboardStatsQuery {
	return &DashboardStatsQuery{store: logStore}
}

var _ gocommand.Querier[DashboardStatsInput, types.DashboardStats] = (*DashboardStatsQuery)(nil)

// Query returns the six dashboard counters.
func (q *DashboardStatsQuery) Query(ctx context.Context, _ DashboardStatsInput) (types.DashboardStats, error) {
	if q.store == nil {
		return types.DashboardStats{}, types.ErrMissingLogStore
	}
	return q.store.DashboardStats(ctx)
}

// AdminSummaryInput requests the admin-stream aggregate. Zero values fall
// back to a seven day window and ten recent rows.
type AdminSummaryInput struct {
	Days   int
	Recent int
}

// Type implements gocommand.Message.
func (AdminSummaryInput) Type() string {
	return "query.tracklog.admin_summary"
}

// Validate implements gocommand.Message.
func (input AdminSummaryInput) Validate() error {
	if input.Days < 0 || input.Recent < 0 {
		return ErrInvalidPagination
	}
	return nil
}

// AdminSummaryQuery aggregates administrative activity over a day window.
type AdminSummaryQuery struct {
	store types.LogStore
}

// NewAdminSummaryQuery constructs the admin aggregate helper.
func NewAdminSummaryQuery(logStore types.LogStore) *AdminSummaryQuery {
	return &AdminSummaryQuery{store: logStore}
}

var _ gocommand.Querier[AdminSummaryInput, types.AdminSummary] = (*AdminSummaryQuery)(nil)

// Query returns totals, per-user and per-type buckets, and recent rows.
func (q *AdminSummaryQuery) Query(ctx context.Context, input AdminSummaryInput) (types.AdminSummary, error) {
	if q.store == nil {
		return types.AdminSummary{}, types.ErrMissingLogStore
	}
	if err := input.Validate(); err != nil {
		return types.AdminSummary{}, err
	}
	days := input.Days
	if days == 0 {
		days = defaultSummaryDays
	}
	recent := input.Recent
	if recent == 0 {
		recent = defaultSummaryRecent
	}
	return q.store.AdminSummary(ctx, days, recent)
}

// UserSummaryInput requests one user's aggregate over a day window.
type UserSummaryInput struct {
	UserID int64
	Days   int
	Recent int
}

// Type implements gocommand.Message.
func (UserSummaryInput) Type() string {
	return "query.tracklog.user_summary"
}

// Validate implements gocommand.Message.
func (input UserSummaryInput) Validate() error {
	if input.UserID <= 0 {
		return ErrUserIDRequired
	}
	if input.Days < 0 || input.Recent < 0 {
		return ErrInvalidPagination
	}
	return nil
}

// UserSummaryQuery aggregates one user's tracked activity.
type UserSummaryQuery struct {
	store types.LogStore
}

// NewUserSummaryQuery constructs the per-user aggregate helper.
func NewUserSummaryQuery(logStore types.LogStore) *UserSummaryQuery {
	return &UserSummaryQuery{store: logStore}
}

var _ gocommand.Querier[UserSummaryInput, types.UserSummary] = (*UserSummaryQuery)(nil)

// Query returns the user's totals, type buckets, and recent rows.
func (q *UserSummaryQuery) Query(ctx context.Context, input UserSummaryInput) (types.UserSummary, error) {
	if q.store == nil {
		return types.UserSummary{}, types.ErrMissingLogStore
	}
	if err := input.Validate(); err != nil {
		return types.UserSummary{}, err
	}
	days := input.Days
	if days == 0 {
		days = defaultSummaryDays
	}
	recent := input.Recent
	if recent == 0 {
		recent = defaultSummaryRecent
	}
	return q.store.UserSummary(ctx, input.UserID, days, recent)
}

// UserAdminActivityInput requests one user's admin-stream rows.
type UserAdminActivityInput struct {
	UserID int64
	Days   int
}

// Type implements gocommand.Message.
func (UserAdminActivityInput) Type() string {
	return "query.tracklog.user_admin_activity"
}

// Validate implements gocommand.Message.
func (input UserAdminActivityInput) Validate() error {
	if input.UserID <= 0 {
		return ErrUserIDRequired
	}
	if input.Days < 0 {
		return ErrInvalidPagination
	}
	return nil
}

// UserAdminActivityQuery lists one user's administrative actions.
type UserAdminActivityQuery struct {
	store types.LogStore
}

// NewUserAdminActivityQuery constructs the helper.
func NewUserAdminActivityQuery(logStore types.LogStore) *UserAdminActivityQuery {
	return &UserAdminActivityQuery{store: logStore}
}

var _ gocommand.Querier[UserAdminActivityInput, []types.AdminLog] = (*UserAdminActivityQuery)(nil)

// Query returns the user's admin rows for the window, newest first.
func (q *UserAdminActivityQuery) Query(ctx context.Context, input UserAdminActivityInput) ([]types.AdminLog, error) {
	if q.store == nil {
		return nil, types.ErrMissingLogStore
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	days := input.Days
	if days == 0 {
		days = defaultSummaryDays
	}
	return q.store.UserAdminActivity(ctx, input.UserID, days)
}
