package query

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tracklog/pkg/types"
)

const defaultTopN = 10

// VisitorOverviewInput requests the visitor-stream aggregate. TopN bounds the
// page and country leaderboards; zero falls back to ten.
type VisitorOverviewInput struct {
	TopN int
}

// Type implements gocommand.Message.
func (VisitorOverviewInput) Type() string {
	return "query.tracklog.visitor_overview"
}

// Validate implements gocommand.Message.
func (input VisitorOverviewInput) Validate() error {
	if input.TopN < 0 {
		return ErrInvalidPagination
	}
	return nil
}

// VisitorOverviewQuery aggregates the whole visitor stream for the dashboard.
type VisitorOverviewQuery struct {
	store types.LogStore
}

// NewVisitorOverviewQuery constructs the overview helper.
func NewVisitorOverviewQuery(logStore types.LogStore) *VisitorOverviewQuery {
	return &VisitorOverviewQuery{store: logStore}
}

var _ gocommand.Querier[VisitorOverviewInput, types.VisitorOverview] = (*VisitorOverviewQuery)(nil)

// Query returns unique-visitor counts, totals, and the leaderboards.
func (q *VisitorOverviewQuery) Query(ctx context.Context, input VisitorOverviewInput) (types.VisitorOverview, error) {
	if q.store == nil {
		return types.VisitorOverview{}, types.ErrMissingLogStore
	}
	if err := input.Validate(); err != nil {
		return types.VisitorOverview{}, err
	}
	topN := input.TopN
	if topN == 0 {
		topN = defaultTopN
	}
	return q.store.VisitorOverview(ctx, topN)
}

// VisitorDetailInput identifies one visitor hash.
type VisitorDetailInput struct {
	VisitorHash string
}

// Type implements gocommand.Message.
func (VisitorDetailInput) Type() string {
	return "query.tracklog.visitor_detail"
}

// Validate implements gocommand.Message.
func (input VisitorDetailInput) Validate() error {
	if strings.TrimSpace(input.VisitorHash) == "" {
		return ErrVisitorHashRequired
	}
	return nil
}

// VisitorDetailQuery aggregates one visitor's history.
type VisitorDetailQuery struct {
	store types.LogStore
}

// NewVisitorDetailQuery constructs the per-visitor helper.
func NewVisitorDetailQuery(logStore types.LogStore) *VisitorDetailQuery {
	return &VisitorDetailQuery{store: logStore}
}

var _ gocommand.Querier[VisitorDetailInput, types.VisitorDetail] = (*VisitorDetailQuery)(nil)

// Query returns visit counts, first and last seen, and type buckets.
func (q *VisitorDetailQuery) Query(ctx context.Context, input VisitorDetailInput) (types.VisitorDetail, error) {
	if q.store == nil {
		return types.VisitorDetail{}, types.ErrMissingLogStore
	}
	if err := input.Validate(); err != nil {
		return types.VisitorDetail{}, err
	}
	return q.store.VisitorDetail(ctx, strings.TrimSpace(input.VisitorHash))
}

// RecentVisitorsInput bounds the recent-visitors listing.
type RecentVisitorsInput struct {
	Limit int
}

// Type implements gocommand.Message.
func (RecentVisitorsInput) Type() string {
	return "query.tracklog.recent_visitors"
}

// Validate implements gocommand.Message.
func (input RecentVisitorsInput) Validate() error {
	if input.Limit < 0 {
		return ErrInvalidPagination
	}
	return nil
}

// RecentVisitorsQuery lists distinct visitors ordered by last activity.
type RecentVisitorsQuery struct {
	store types.LogStore
}

// NewRecentVisitorsQuery constructs the listing helper.
func NewRecentVisitorsQuery(logStore types.LogStore) *RecentVisitorsQuery {
	return &RecentVisitorsQuery{store: logStore}
}

var _ gocommand.Querier[RecentVisitorsInput, []types.VisitorPresence] = (*RecentVisitorsQuery)(nil)

// Query returns one presence row per visitor hash, most recent first.
func (q *RecentVisitorsQuery) Query(ctx context.Context, input RecentVisitorsInput) ([]types.VisitorPresence, error) {
	if q.store == nil {
		return nil, types.ErrMissingLogStore
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return q.store.RecentVisitors(ctx, input.Limit)
}
