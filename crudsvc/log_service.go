package crudsvc

import (
	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-tracklog/command"
	"github.com/goliatone/go-tracklog/pkg/types"
	"github.com/goliatone/go-tracklog/query"
)

// LogServiceConfig wires the read and delete paths behind a log-stream
// CRUD controller. Records are appended through the track command, so the
// write operations are disabled here.
type LogServiceConfig struct {
	Pages   gocommand.Querier[query.LogPageInput, query.LogPageResult]
	Deleter *command.DeleteLogCommand
}

// LogService adapts one log stream to a go-crud controller. Listing supports
// `page`, `per_page`, and `q` query parameters; deletes are hard and
// idempotent.
type LogService[T any] struct {
	stream  types.Stream
	pages   gocommand.Querier[query.LogPageInput, query.LogPageResult]
	deleter *command.DeleteLogCommand
	logger  types.Logger
	rows    func(query.LogPageResult) []T
	id      func(*T) int64
}

// NewUserLogService constructs the controller for the user stream.
func NewUserLogService(cfg LogServiceConfig, opts ...ServiceOption) *LogService[types.UserLog] {
	return newLogService(cfg, types.StreamUser,
		func(result query.LogPageResult) []types.UserLog { return result.Users },
		func(record *types.UserLog) int64 { return record.ID },
		opts)
}

// NewVisitorLogService constructs the controller for the visitor stream.
func NewVisitorLogService(cfg LogServiceConfig, opts ...ServiceOption) *LogService[types.VisitorLog] {
	return newLogService(cfg, types.StreamVisitor,
		func(result query.LogPageResult) []types.VisitorLog { return result.Visitors },
		func(record *types.VisitorLog) int64 { return record.ID },
		opts)
}

// NewAdminLogService constructs the controller for the admin stream.
func NewAdminLogService(cfg LogServiceConfig, opts ...ServiceOption) *LogService[types.AdminLog] {
	return newLogService(cfg, types.StreamAdmin,
		func(result query.LogPageResult) []types.AdminLog { return result.Admins },
		func(record *types.AdminLog) int64 { return record.ID },
		opts)
}

func newLogService[T any](
	cfg LogServiceConfig,
	stream types.Stream,
	rows func(query.LogPageResult) []T,
	id func(*T) int64,
	opts []ServiceOption,
) *LogService[T] {
	options := applyOptions(opts)
	return &LogService[T]{
		stream:  stream,
		pages:   cfg.Pages,
		deleter: cfg.Deleter,
		logger:  options.logger,
		rows:    rows,
		id:      id,
	}
}

func (s *LogService[T]) Create(crud.Context, *T) (*T, error) {
	return nil, notSupported(crud.OpCreate)
}

func (s *LogService[T]) CreateBatch(crud.Context, []*T) ([]*T, error) {
	return nil, notSupported(crud.OpCreateBatch)
}

func (s *LogService[T]) Update(crud.Context, *T) (*T, error) {
	return nil, notSupported(crud.OpUpdate)
}

func (s *LogService[T]) UpdateBatch(crud.Context, []*T) ([]*T, error) {
	return nil, notSupported(crud.OpUpdateBatch)
}

func (s *LogService[T]) Delete(ctx crud.Context, record *T) error {
	if s.deleter == nil {
		return goerrors.New("log deletion unavailable", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal)
	}
	removed, err := s.deleter.Delete(ctx.UserContext(), command.DeleteLogInput{
		Stream: s.stream,
		ID:     s.id(record),
	})
	if err != nil {
		return err
	}
	if !removed {
		s.logger.Debug("delete targeted a missing record",
			"stream", string(s.stream), "id", s.id(record))
	}
	return nil
}

func (s *LogService[T]) DeleteBatch(ctx crud.Context, records []*T) error {
	for _, record := range records {
		if err := s.Delete(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (s *LogService[T]) Index(ctx crud.Context, _ []repository.SelectCriteria) ([]*T, int, error) {
	if s.pages == nil {
		return nil, 0, goerrors.New("log listing unavailable", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal)
	}
	result, err := s.pages.Query(ctx.UserContext(), query.LogPageInput{
		Stream:  s.stream,
		Page:    queryInt(ctx, "page", 1),
		PerPage: queryInt(ctx, "per_page", 0),
		Search:  queryKeyword(ctx),
	})
	if err != nil {
		return nil, 0, err
	}
	rows := s.rows(result)
	records := make([]*T, 0, len(rows))
	for i := range rows {
		record := rows[i]
		records = append(records, &record)
	}
	return records, result.Total, nil
}

func (s *LogService[T]) Show(crud.Context, string, []repository.SelectCriteria) (*T, error) {
	return nil, notSupported(crud.OpRead)
}
