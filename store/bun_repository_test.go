package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/goliatone/go-tracklog/pkg/types"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open("sqlite3", ":memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
		_ = sqldb.Close()
	})
	return db
}

func newTestRepository(t *testing.T) (*Repository, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)}
	repo, err := NewRepository(RepositoryConfig{DB: newTestDB(t), Clock: clock})
	require.NoError(t, err)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo, clock
}

func TestRepository_EnsureSchemaIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx))

	id, err := repo.InsertUserLog(ctx, &types.UserLog{UserID: 1, ActionType: "user_login"})
	require.NoError(t, err)
	require.Positive(t, id)
}

func TestRepository_InsertAssignsIDAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo, clock := newTestRepository(t)

	record := &types.UserLog{UserID: 7, UserLogin: "amara", ActionType: "user_login"}
	id, err := repo.InsertUserLog(ctx, record)
	require.NoError(t, err)
	require.Equal(t, id, record.ID)
	require.Equal(t, clock.Now(), record.CreatedAt.UTC())

	second, err := repo.InsertUserLog(ctx, &types.UserLog{UserID: 7, ActionType: "page_view"})
	require.NoError(t, err)
	require.Greater(t, second, id)
}

func TestRepository_InsertValidation(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	_, err := repo.InsertUserLog(ctx, &types.UserLog{UserID: 1})
	require.ErrorIs(t, err, types.ErrActionTypeRequired)

	_, err = repo.InsertVisitorLog(ctx, &types.VisitorLog{ActionType: "page_view"})
	require.ErrorIs(t, err, types.ErrVisitorHashRequired)

	_, err = repo.InsertAdminLog(ctx, &types.AdminLog{UserID: 1, ActionType: "settings_updated"})
	require.ErrorIs(t, err, types.ErrAdminDetailsRequired)
}

func TestRepository_PageOrderingNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo, clock := newTestRepository(t)

	// Same timestamp for every row so ordering falls back to id DESC.
	for i := 0; i < 5; i++ {
		_, err := repo.InsertUserLog(ctx, &types.UserLog{
			UserID:     1,
			ActionType: "page_view",
			CreatedAt:  clock.Now(),
		})
		require.NoError(t, err)
	}

	page, err := repo.UserLogs(ctx, types.LogFilter{Pagination: types.Pagination{Limit: 10}})
	require.NoError(t, err)
	require.Equal(t, 5, page.Total)
	require.Len(t, page.Rows, 5)
	for i := 1; i < len(page.Rows); i++ {
		require.Greater(t, page.Rows[i-1].ID, page.Rows[i].ID)
	}
}

func TestRepository_PaginationWindowing(t *testing.T) {
	ctx := context.Background()
	repo, clock := newTestRepository(t)

	for i := 0; i < 7; i++ {
		_, err := repo.InsertUserLog(ctx, &types.UserLog{UserID: 1, ActionType: "page_view"})
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}

	page, err := repo.UserLogs(ctx, types.LogFilter{Pagination: types.Pagination{Limit: 3}})
	require.NoError(t, err)
	require.Equal(t, 7, page.Total)
	require.Len(t, page.Rows, 3)

	next, err := repo.UserLogs(ctx, types.LogFilter{Pagination: types.Pagination{Limit: 3, Offset: 3}})
	require.NoError(t, err)
	require.Len(t, next.Rows, 3)
	require.Greater(t, page.Rows[2].ID, next.Rows[0].ID)

	// Offset past the end yields an empty page, not an error.
	empty, err := repo.UserLogs(ctx, types.LogFilter{Pagination: types.Pagination{Limit: 3, Offset: 100}})
	require.NoError(t, err)
	require.Empty(t, empty.Rows)
	require.Equal(t, 7, empty.Total)

	_, err = repo.UserLogs(ctx, types.LogFilter{Pagination: types.Pagination{Limit: -1}})
	require.Error(t, err)
	_, err = repo.UserLogs(ctx, types.LogFilter{Pagination: types.Pagination{Offset: -1}})
	require.Error(t, err)
}

func TestRepository_PaginationTailPage(t *testing.T) {
	ctx := context.Background()
	repo, clock := newTestRepository(t)

	ids := make([]int64, 0, 120)
	for i := 0; i < 120; i++ {
		id, err := repo.InsertAdminLog(ctx, &types.AdminLog{
			UserID:     1,
			UserLogin:  "amara",
			ActionType: "post_updated",
			Details:    "Updated post",
		})
		require.NoError(t, err)
		ids = append(ids, id)
		clock.Advance(time.Second)
	}

	// Zero limit falls back to the default page size.
	first, err := repo.AdminLogs(ctx, types.LogFilter{})
	require.NoError(t, err)
	require.Equal(t, 120, first.Total)
	require.Len(t, first.Rows, 50)
	require.Equal(t, ids[119], first.Rows[0].ID)

	// The final window holds exactly the 20 oldest rows, still newest first.
	tail, err := repo.AdminLogs(ctx, types.LogFilter{Pagination: types.Pagination{Limit: 50, Offset: 100}})
	require.NoError(t, err)
	require.Equal(t, 120, tail.Total)
	require.Len(t, tail.Rows, 20)
	require.Equal(t, ids[19], tail.Rows[0].ID)
	require.Equal(t, ids[0], tail.Rows[19].ID)
	for i := 1; i < len(tail.Rows); i++ {
		require.Greater(t, tail.Rows[i-1].ID, tail.Rows[i].ID)
		require.False(t, tail.Rows[i].CreatedAt.After(tail.Rows[i-1].CreatedAt))
	}
}

func TestRepository_KeywordSearch(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	_, err := repo.InsertUserLog(ctx, &types.UserLog{UserID: 1, UserLogin: "amara", ActionType: "user_login"})
	require.NoError(t, err)
	_, err = repo.InsertUserLog(ctx, &types.UserLog{UserID: 2, UserLogin: "bashir", ActionType: "page_view"})
	require.NoError(t, err)

	page, err := repo.UserLogs(ctx, types.LogFilter{Keyword: "AMARA"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Len(t, page.Rows, 1)
	require.Equal(t, "amara", page.Rows[0].UserLogin)

	page, err = repo.UserLogs(ctx, types.LogFilter{Keyword: "login"})
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	require.Equal(t, "user_login", page.Rows[0].ActionType)
}

func TestRepository_DeleteOneIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	id, err := repo.InsertAdminLog(ctx, &types.AdminLog{
		UserID:     3,
		ActionType: "post_deleted",
		Details:    "Deleted post Hello World",
	})
	require.NoError(t, err)

	removed, err := repo.DeleteOne(ctx, types.StreamAdmin, id)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = repo.DeleteOne(ctx, types.StreamAdmin, id)
	require.NoError(t, err)
	require.False(t, removed)

	_, err = repo.DeleteOne(ctx, types.Stream("bogus"), id)
	require.ErrorIs(t, err, types.ErrUnknownStream)
}

func TestRepository_DeleteAllDoesNotReuseIDs(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	var lastID int64
	for i := 0; i < 3; i++ {
		id, err := repo.InsertVisitorLog(ctx, &types.VisitorLog{
			VisitorHash: "abc123",
			ActionType:  "page_view",
		})
		require.NoError(t, err)
		lastID = id
	}

	require.NoError(t, repo.DeleteAll(ctx, types.StreamVisitor))

	page, err := repo.VisitorLogs(ctx, types.LogFilter{})
	require.NoError(t, err)
	require.Zero(t, page.Total)

	id, err := repo.InsertVisitorLog(ctx, &types.VisitorLog{
		VisitorHash: "abc123",
		ActionType:  "page_view",
	})
	require.NoError(t, err)
	require.Greater(t, id, lastID)
}

func TestRepository_CleanupRetention(t *testing.T) {
	ctx := context.Background()
	repo, clock := newTestRepository(t)

	old := clock.Now().AddDate(0, 0, -40)
	fresh := clock.Now().Add(-time.Hour)

	_, err := repo.InsertUserLog(ctx, &types.UserLog{UserID: 1, ActionType: "user_login", CreatedAt: old})
	require.NoError(t, err)
	_, err = repo.InsertVisitorLog(ctx, &types.VisitorLog{VisitorHash: "v1", ActionType: "page_view", CreatedAt: old})
	require.NoError(t, err)
	_, err = repo.InsertAdminLog(ctx, &types.AdminLog{UserID: 1, ActionType: "settings_updated", Details: "changed retention", CreatedAt: fresh})
	require.NoError(t, err)

	removed, err := repo.Cleanup(ctx, 30)
	require.NoError(t, err)
	require.EqualValues(t, 2, removed)

	// Retention disabled is a no-op.
	removed, err = repo.Cleanup(ctx, 0)
	require.NoError(t, err)
	require.Zero(t, removed)

	page, err := repo.AdminLogs(ctx, types.LogFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
}

func TestRepository_DashboardStats(t *testing.T) {
	ctx := context.Background()
	repo, clock := newTestRepository(t)

	yesterday := clock.Now().AddDate(0, 0, -1)
	_, err := repo.InsertUserLog(ctx, &types.UserLog{UserID: 1, ActionType: "user_login", CreatedAt: yesterday})
	require.NoError(t, err)
	_, err = repo.InsertUserLog(ctx, &types.UserLog{UserID: 1, ActionType: "page_view"})
	require.NoError(t, err)
	_, err = repo.InsertVisitorLog(ctx, &types.VisitorLog{VisitorHash: "v1", ActionType: "page_view"})
	require.NoError(t, err)

	stats, err := repo.DashboardStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.UserTotal)
	require.Equal(t, 1, stats.UserToday)
	require.Equal(t, 1, stats.VisitorTotal)
	require.Equal(t, 1, stats.VisitorToday)
	require.Zero(t, stats.AdminTotal)
}

func TestRepository_AdminSummary(t *testing.T) {
	ctx := context.Background()
	repo, clock := newTestRepository(t)

	for i := 0; i < 3; i++ {
		_, err := repo.InsertAdminLog(ctx, &types.AdminLog{
			UserID:     1,
			UserLogin:  "amara",
			ActionType: "post_updated",
			Details:    "Updated post",
		})
		require.NoError(t, err)
	}
	_, err := repo.InsertAdminLog(ctx, &types.AdminLog{
		UserID:     2,
		UserLogin:  "bashir",
		ActionType: "settings_updated",
		Details:    "Changed settings",
	})
	require.NoError(t, err)
	// Outside the window.
	_, err = repo.InsertAdminLog(ctx, &types.AdminLog{
		UserID:     2,
		UserLogin:  "bashir",
		ActionType: "plugin_activated",
		Details:    "Activated plugin",
		CreatedAt:  clock.Now().AddDate(0, 0, -10),
	})
	require.NoError(t, err)

	summary, err := repo.AdminSummary(ctx, 7, 10)
	require.NoError(t, err)
	require.Equal(t, 4, summary.TotalActions)
	require.Len(t, summary.ByUser, 2)
	require.EqualValues(t, 1, summary.ByUser[0].UserID)
	require.Equal(t, "amara", summary.ByUser[0].UserLogin)
	require.Equal(t, 3, summary.ByUser[0].Count)
	require.Len(t, summary.ByType, 2)
	require.Equal(t, "post_updated", summary.ByType[0].ActionType)
	require.Len(t, summary.Recent, 4)
	require.Equal(t, "settings_updated", summary.Recent[0].ActionType)
}

func TestRepository_UserSummaryAndAdminActivity(t *testing.T) {
	ctx := context.Background()
	repo, clock := newTestRepository(t)

	for i := 0; i < 2; i++ {
		_, err := repo.InsertUserLog(ctx, &types.UserLog{UserID: 9, UserLogin: "amara", ActionType: "page_view"})
		require.NoError(t, err)
	}
	_, err := repo.InsertUserLog(ctx, &types.UserLog{UserID: 9, ActionType: "user_login"})
	require.NoError(t, err)
	_, err = repo.InsertUserLog(ctx, &types.UserLog{UserID: 4, ActionType: "page_view"})
	require.NoError(t, err)

	summary, err := repo.UserSummary(ctx, 9, 7, 10)
	require.NoError(t, err)
	require.Equal(t, 3, summary.TotalActions)
	require.Equal(t, "page_view", summary.ByType[0].ActionType)
	require.Equal(t, 2, summary.ByType[0].Count)
	require.Len(t, summary.Recent, 3)

	_, err = repo.InsertAdminLog(ctx, &types.AdminLog{UserID: 9, ActionType: "post_created", Details: "Created post"})
	require.NoError(t, err)
	_, err = repo.InsertAdminLog(ctx, &types.AdminLog{UserID: 9, ActionType: "post_deleted", Details: "Deleted post", CreatedAt: clock.Now().AddDate(0, 0, -30)})
	require.NoError(t, err)

	activity, err := repo.UserAdminActivity(ctx, 9, 7)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	require.Equal(t, "post_created", activity[0].ActionType)
}

func TestRepository_VisitorAggregates(t *testing.T) {
	ctx := context.Background()
	repo, clock := newTestRepository(t)

	firstSeen := clock.Now()
	for i := 0; i < 3; i++ {
		_, err := repo.InsertVisitorLog(ctx, &types.VisitorLog{
			VisitorHash: "hash-a",
			ActionType:  "page_view",
			PageURL:     "/blog",
			CountryCode: "UN",
			DeviceType:  "desktop",
			IP:          "203.0.113.9",
		})
		require.NoError(t, err)
		clock.Advance(time.Hour)
	}
	_, err := repo.InsertVisitorLog(ctx, &types.VisitorLog{
		VisitorHash: "hash-b",
		ActionType:  "page_view",
		PageURL:     "/about",
		CountryCode: "LOCAL",
		DeviceType:  "mobile",
	})
	require.NoError(t, err)
	_, err = repo.InsertVisitorLog(ctx, &types.VisitorLog{
		VisitorHash: "hash-b",
		ActionType:  "search_query",
		PageURL:     "/search",
	})
	require.NoError(t, err)

	overview, err := repo.VisitorOverview(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 2, overview.UniqueVisitors)
	require.Equal(t, 5, overview.TotalVisits)
	require.Equal(t, 5, overview.VisitsToday)
	require.Equal(t, "/blog", overview.TopPages[0].PageURL)
	require.Equal(t, 3, overview.TopPages[0].Count)
	require.Equal(t, "UN", overview.TopCountries[0].CountryCode)

	detail, err := repo.VisitorDetail(ctx, "hash-a")
	require.NoError(t, err)
	require.Equal(t, 3, detail.TotalVisits)
	require.Equal(t, firstSeen, detail.FirstVisit.UTC())
	require.True(t, detail.LastVisit.After(detail.FirstVisit))
	require.Equal(t, "page_view", detail.ByType[0].ActionType)

	missing, err := repo.VisitorDetail(ctx, "nope")
	require.NoError(t, err)
	require.Zero(t, missing.TotalVisits)

	recent, err := repo.RecentVisitors(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "hash-b", recent[0].VisitorHash)
	require.Equal(t, 2, recent[0].TotalVisits)
	require.Equal(t, "hash-a", recent[1].VisitorHash)
	require.Equal(t, "203.0.113.9", recent[1].IP)
	require.Equal(t, "desktop", recent[1].DeviceType)
}

func TestRepository_DropSchema(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	_, err := repo.InsertUserLog(ctx, &types.UserLog{UserID: 1, ActionType: "user_login"})
	require.NoError(t, err)

	require.NoError(t, repo.DropSchema(ctx))

	_, err = repo.UserLogs(ctx, types.LogFilter{})
	require.Error(t, err)

	// Recreate from scratch after a drop.
	require.NoError(t, repo.EnsureSchema(ctx))
	page, err := repo.UserLogs(ctx, types.LogFilter{})
	require.NoError(t, err)
	require.Zero(t, page.Total)
}
