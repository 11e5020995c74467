package crudsvc

import (
	"context"
	"testing"

	"github.com/goliatone/go-crud"
	"github.com/goliatone/go-tracklog/command"
	"github.com/goliatone/go-tracklog/pkg/types"
	"github.com/goliatone/go-tracklog/query"
	"github.com/stretchr/testify/require"
)

type stubPageQuery struct {
	lastInput query.LogPageInput
	result    query.LogPageResult
	err       error
}

func (s *stubPageQuery) Query(_ context.Context, input query.LogPageInput) (query.LogPageResult, error) {
	s.lastInput = input
	return s.result, s.err
}

type stubDeleteStore struct {
	types.LogStore

	deleted []int64
	streams []types.Stream
	removed bool
}

func (s *stubDeleteStore) DeleteOne(_ context.Context, stream types.Stream, id int64) (bool, error) {
	s.streams = append(s.streams, stream)
	s.deleted = append(s.deleted, id)
	return s.removed, nil
}

type testCrudContext struct {
	ctx     context.Context
	queries map[string]string
}

func newTestCrudContext(ctx context.Context) *testCrudContext {
	return &testCrudContext{
		ctx:     ctx,
		queries: map[string]string{},
	}
}

func (t *testCrudContext) UserContext() context.Context {
	return t.ctx
}

func (t *testCrudContext) Params(string, ...string) string {
	return ""
}

func (t *testCrudContext) BodyParser(any) error {
	return nil
}

func (t *testCrudContext) Query(key string, defaultValue ...string) string {
	if v, ok := t.queries[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (t *testCrudContext) QueryInt(string, ...int) int {
	return 0
}

func (t *testCrudContext) QueryValues(key string) []string {
	if v, ok := t.queries[key]; ok {
		return []string{v}
	}
	return nil
}

func (t *testCrudContext) Queries() map[string]string {
	return t.queries
}

func (t *testCrudContext) Body() []byte {
	return nil
}

func (t *testCrudContext) Status(int) crud.Response {
	return t
}

func (t *testCrudContext) JSON(any, ...string) error {
	return nil
}

func (t *testCrudContext) SendStatus(int) error {
	return nil
}

func TestLogService_IndexMapsQueryParams(t *testing.T) {
	pages := &stubPageQuery{result: query.LogPageResult{
		Stream: types.StreamUser,
		Users: []types.UserLog{
			{ID: 2, ActionType: "user_login"},
			{ID: 1, ActionType: "user_logout"},
		},
		Total: 12,
	}}
	svc := NewUserLogService(LogServiceConfig{Pages: pages})

	ctx := newTestCrudContext(context.Background())
	ctx.queries["page"] = "2"
	ctx.queries["per_page"] = "5"
	ctx.queries["q"] = "login"

	records, total, err := svc.Index(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 12, total)
	require.Len(t, records, 2)
	require.EqualValues(t, 2, records[0].ID)

	require.Equal(t, types.StreamUser, pages.lastInput.Stream)
	require.Equal(t, 2, pages.lastInput.Page)
	require.Equal(t, 5, pages.lastInput.PerPage)
	require.Equal(t, "login", pages.lastInput.Search)
}

func TestLogService_IndexDefaultsToFirstPage(t *testing.T) {
	pages := &stubPageQuery{}
	svc := NewVisitorLogService(LogServiceConfig{Pages: pages})

	_, _, err := svc.Index(newTestCrudContext(context.Background()), nil)
	require.NoError(t, err)
	require.Equal(t, types.StreamVisitor, pages.lastInput.Stream)
	require.Equal(t, 1, pages.lastInput.Page)
	require.Zero(t, pages.lastInput.PerPage)
}

func TestLogService_DeleteRoutesToStream(t *testing.T) {
	sink := &stubDeleteStore{removed: true}
	deleter := command.NewDeleteLogCommand(command.DeleteLogConfig{Store: sink})
	svc := NewAdminLogService(LogServiceConfig{Deleter: deleter})

	err := svc.Delete(newTestCrudContext(context.Background()), &types.AdminLog{ID: 9})
	require.NoError(t, err)
	require.Equal(t, []types.Stream{types.StreamAdmin}, sink.streams)
	require.Equal(t, []int64{9}, sink.deleted)

	// Deleting an already-removed record stays a no-op.
	sink.removed = false
	require.NoError(t, svc.Delete(newTestCrudContext(context.Background()), &types.AdminLog{ID: 9}))
}

func TestLogService_DeleteBatch(t *testing.T) {
	sink := &stubDeleteStore{removed: true}
	deleter := command.NewDeleteLogCommand(command.DeleteLogConfig{Store: sink})
	svc := NewUserLogService(LogServiceConfig{Deleter: deleter})

	err := svc.DeleteBatch(newTestCrudContext(context.Background()), []*types.UserLog{{ID: 1}, {ID: 2}})
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, sink.deleted)
}

func TestLogService_WriteOperationsDisabled(t *testing.T) {
	svc := NewUserLogService(LogServiceConfig{})
	ctx := newTestCrudContext(context.Background())

	_, err := svc.Create(ctx, &types.UserLog{})
	require.Error(t, err)
	_, err = svc.Update(ctx, &types.UserLog{})
	require.Error(t, err)
	_, err = svc.Show(ctx, "1", nil)
	require.Error(t, err)
}
