package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-masker"
	"github.com/goliatone/go-tracklog/pkg/types"
	"github.com/goliatone/go-tracklog/store"
)

const (
	defaultPerPage = 50
	maxPerPage     = 200
)

// LogPageInput selects one page of a log stream. Page starts at one; zero
// values fall back to the first page and the default page size.
type LogPageInput struct {
	Stream  types.Stream
	Page    int
	PerPage int
	// Search matches a case-insensitive substring over actor identity
	// columns and action_type.
	Search string
}

// Type implements gocommand.Message.
func (LogPageInput) Type() string {
	return "query.tracklog.log_page"
}

// Validate implements gocommand.Message.
func (input LogPageInput) Validate() error {
	if !input.Stream.Valid() {
		return types.ErrUnknownStream
	}
	if input.Page < 0 || input.PerPage < 0 {
		return ErrInvalidPagination
	}
	return nil
}

// LogPageResult carries one page of rows from a single stream. Only the slice
// matching the requested stream is populated.
type LogPageResult struct {
	Stream    types.Stream
	Users     []types.UserLog
	Visitors  []types.VisitorLog
	Admins    []types.AdminLog
	Total     int
	Page      int
	PerPage   int
	PageCount int
}

// LogPageQuery serves the paginated log listings behind the admin panels.
// Detail payloads are masked before they leave the query.
type LogPageQuery struct {
	store  types.LogStore
	masker *masker.Masker
}

// NewLogPageQuery constructs the listing helper.
func NewLogPageQuery(logStore types.LogStore, cfg store.SanitizerConfig) *LogPageQuery {
	mask := cfg.Masker
	if mask == nil {
		mask = store.DefaultMasker()
	}
	return &LogPageQuery{
		store:  logStore,
		masker: mask,
	}
}

var _ gocommand.Querier[LogPageInput, LogPageResult] = (*LogPageQuery)(nil)

// Query fetches one page ordered newest first.
func (q *LogPageQuery) Query(ctx context.Context, input LogPageInput) (LogPageResult, error) {
	if q.store == nil {
		return LogPageResult{}, types.ErrMissingLogStore
	}
	if err := input.Validate(); err != nil {
		return LogPageResult{}, err
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	perPage := input.PerPage
	if perPage == 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	filter := types.LogFilter{
		Pagination: types.Pagination{
			Limit:  perPage,
			Offset: (page - 1) * perPage,
		},
		Keyword: input.Search,
	}

	result := LogPageResult{
		Stream:  input.Stream,
		Page:    page,
		PerPage: perPage,
	}
	switch input.Stream {
	case types.StreamUser:
		fetched, err := q.store.UserLogs(ctx, filter)
		if err != nil {
			return LogPageResult{}, err
		}
		result.Users = store.SanitizeUserLogs(q.masker, fetched.Rows)
		result.Total = fetched.Total
	case types.StreamVisitor:
		fetched, err := q.store.VisitorLogs(ctx, filter)
		if err != nil {
			return LogPageResult{}, err
		}
		result.Visitors = store.SanitizeVisitorLogs(q.masker, fetched.Rows)
		result.Total = fetched.Total
	case types.StreamAdmin:
		fetched, err := q.store.AdminLogs(ctx, filter)
		if err != nil {
			return LogPageResult{}, err
		}
		result.Admins = fetched.Rows
		result.Total = fetched.Total
	}
	result.PageCount = pageCount(result.Total, perPage)
	return result, nil
}

func pageCount(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
