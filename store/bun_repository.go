package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-tracklog/pkg/types"
	"github.com/uptrace/bun"
)

const (
	tableUserLogs    = "tracklog_users_logs"
	tableVisitorLogs = "tracklog_visitors_logs"
	tableAdminLogs   = "tracklog_admin_logs"

	schemaVersion        = "1.0.0"
	metaKeySchemaVersion = "schema_version"

	defaultPageSize = 50
	maxPageSize     = 200
)

var userKeywordColumns = []string{"user_login", "user_email", "action_type"}
var visitorKeywordColumns = []string{"visitor_hash", "action_type"}
var adminKeywordColumns = []string{"user_login", "user_role", "action_type"}

// RepositoryConfig wires the Bun-backed log repository.
type RepositoryConfig struct {
	DB     *bun.DB
	Clock  types.Clock
	Logger types.Logger
}

// Repository persists the three log streams and exposes the paginated and
// aggregate read paths.
type Repository struct {
	db     *bun.DB
	clock  types.Clock
	logger types.Logger
}

// NewRepository constructs the repository backing types.LogStore.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.DB == nil {
		return nil, errors.New("store: bun DB required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Repository{db: cfg.DB, clock: clock, logger: logger}, nil
}

var _ types.LogStore = (*Repository)(nil)

// EnsureSchema creates the log tables, indexes, and the version marker. It is
// safe to call on every startup: when the stored schema version matches the
// current one the table creation is skipped entirely.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.NewCreateTable().Model((*MetaEntry)(nil)).IfNotExists().Exec(ctx); err != nil {
		return storageError(err, "create meta table")
	}

	var meta MetaEntry
	err := r.db.NewSelect().Model(&meta).Where("name = ?", metaKeySchemaVersion).Scan(ctx)
	if err == nil && meta.Value == schemaVersion {
		return nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return storageError(err, "read schema version")
	}

	models := []any{
		(*UserLogEntry)(nil),
		(*VisitorLogEntry)(nil),
		(*AdminLogEntry)(nil),
	}
	for _, model := range models {
		if _, err := r.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return storageError(err, "create log table")
		}
	}

	indexes := []struct {
		model   any
		name    string
		columns []string
	}{
		{(*UserLogEntry)(nil), "idx_tracklog_users_logs_user_id", []string{"user_id"}},
		{(*UserLogEntry)(nil), "idx_tracklog_users_logs_action_type", []string{"action_type"}},
		{(*UserLogEntry)(nil), "idx_tracklog_users_logs_created_at", []string{"created_at"}},
		{(*VisitorLogEntry)(nil), "idx_tracklog_visitors_logs_visitor_hash", []string{"visitor_hash"}},
		{(*VisitorLogEntry)(nil), "idx_tracklog_visitors_logs_action_type", []string{"action_type"}},
		{(*VisitorLogEntry)(nil), "idx_tracklog_visitors_logs_created_at", []string{"created_at"}},
		{(*VisitorLogEntry)(nil), "idx_tracklog_visitors_logs_ip_address", []string{"ip_address"}},
		{(*VisitorLogEntry)(nil), "idx_tracklog_visitors_logs_country_code", []string{"country_code"}},
		{(*AdminLogEntry)(nil), "idx_tracklog_admin_logs_user_id", []string{"user_id"}},
		{(*AdminLogEntry)(nil), "idx_tracklog_admin_logs_action_type", []string{"action_type"}},
		{(*AdminLogEntry)(nil), "idx_tracklog_admin_logs_created_at", []string{"created_at"}},
		{(*AdminLogEntry)(nil), "idx_tracklog_admin_logs_object_type", []string{"object_type"}},
		{(*AdminLogEntry)(nil), "idx_tracklog_admin_logs_user_role", []string{"user_role"}},
	}
	for _, idx := range indexes {
		if _, err := r.db.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column(idx.columns...).
			IfNotExists().
			Exec(ctx); err != nil {
			return storageError(err, "create log index")
		}
	}

	marker := &MetaEntry{Name: metaKeySchemaVersion, Value: schemaVersion}
	if _, err := r.db.NewInsert().
		Model(marker).
		On("CONFLICT (name) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx); err != nil {
		return storageError(err, "write schema version")
	}
	return nil
}

// DropSchema removes the log tables and the version marker. Used by the
// uninstall flow.
func (r *Repository) DropSchema(ctx context.Context) error {
	models := []any{
		(*AdminLogEntry)(nil),
		(*VisitorLogEntry)(nil),
		(*UserLogEntry)(nil),
		(*MetaEntry)(nil),
	}
	for _, model := range models {
		if _, err := r.db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
			return storageError(err, "drop log table")
		}
	}
	return nil
}

// InsertUserLog appends one user-stream record and returns its assigned id.
func (r *Repository) InsertUserLog(ctx context.Context, record *types.UserLog) (int64, error) {
	if record == nil || strings.TrimSpace(record.ActionType) == "" {
		return 0, validationError(types.ErrActionTypeRequired, "user log requires action type")
	}
	entry := toUserLogEntry(record)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.clock.Now()
	}
	if _, err := r.db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return 0, storageError(err, "insert user log")
	}
	record.ID = entry.ID
	record.CreatedAt = entry.CreatedAt
	return entry.ID, nil
}

// InsertVisitorLog appends one visitor-stream record and returns its assigned id.
func (r *Repository) InsertVisitorLog(ctx context.Context, record *types.VisitorLog) (int64, error) {
	if record == nil || strings.TrimSpace(record.ActionType) == "" {
		return 0, validationError(types.ErrActionTypeRequired, "visitor log requires action type")
	}
	if strings.TrimSpace(record.VisitorHash) == "" {
		return 0, validationError(types.ErrVisitorHashRequired, "visitor log requires visitor hash")
	}
	entry := toVisitorLogEntry(record)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.clock.Now()
	}
	if _, err := r.db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return 0, storageError(err, "insert visitor log")
	}
	record.ID = entry.ID
	record.CreatedAt = entry.CreatedAt
	return entry.ID, nil
}

// InsertAdminLog appends one admin-stream record and returns its assigned id.
// Admin records require a human readable details text.
func (r *Repository) InsertAdminLog(ctx context.Context, record *types.AdminLog) (int64, error) {
	if record == nil || strings.TrimSpace(record.ActionType) == "" {
		return 0, validationError(types.ErrActionTypeRequired, "admin log requires action type")
	}
	if strings.TrimSpace(record.Details) == "" {
		return 0, validationError(types.ErrAdminDetailsRequired, "admin log requires details")
	}
	entry := toAdminLogEntry(record)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.clock.Now()
	}
	if _, err := r.db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return 0, storageError(err, "insert admin log")
	}
	record.ID = entry.ID
	record.CreatedAt = entry.CreatedAt
	return entry.ID, nil
}

// UserLogs returns one page of the user stream, newest first. A zero limit
// applies the default page size (50); limits above 200 are clamped.
func (r *Repository) UserLogs(ctx context.Context, filter types.LogFilter) (types.Page[types.UserLog], error) {
	rows, total, err := fetchPage[UserLogEntry](ctx, r.db, filter, userKeywordColumns)
	if err != nil {
		return types.Page[types.UserLog]{}, err
	}
	out := make([]types.UserLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, toUserLog(row))
	}
	return types.Page[types.UserLog]{Rows: out, Total: total}, nil
}

// VisitorLogs returns one page of the visitor stream, newest first. Limit
// semantics match UserLogs.
func (r *Repository) VisitorLogs(ctx context.Context, filter types.LogFilter) (types.Page[types.VisitorLog], error) {
	rows, total, err := fetchPage[VisitorLogEntry](ctx, r.db, filter, visitorKeywordColumns)
	if err != nil {
		return types.Page[types.VisitorLog]{}, err
	}
	out := make([]types.VisitorLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, toVisitorLog(row))
	}
	return types.Page[types.VisitorLog]{Rows: out, Total: total}, nil
}

// AdminLogs returns one page of the admin stream, newest first. Limit
// semantics match UserLogs.
func (r *Repository) AdminLogs(ctx context.Context, filter types.LogFilter) (types.Page[types.AdminLog], error) {
	rows, total, err := fetchPage[AdminLogEntry](ctx, r.db, filter, adminKeywordColumns)
	if err != nil {
		return types.Page[types.AdminLog]{}, err
	}
	out := make([]types.AdminLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, toAdminLog(row))
	}
	return types.Page[types.AdminLog]{Rows: out, Total: total}, nil
}

// DeleteOne removes a single record by id. A missing id is not an error; the
// bool reports whether a row was removed.
func (r *Repository) DeleteOne(ctx context.Context, stream types.Stream, id int64) (bool, error) {
	model, err := streamModel(stream)
	if err != nil {
		return false, err
	}
	res, err := r.db.NewDelete().Model(model).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return false, storageError(err, "delete log record")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, storageError(err, "delete log record")
	}
	return affected > 0, nil
}

// DeleteAll clears one stream. Assigned ids are never reused afterwards.
func (r *Repository) DeleteAll(ctx context.Context, stream types.Stream) error {
	model, err := streamModel(stream)
	if err != nil {
		return err
	}
	if _, err := r.db.NewDelete().Model(model).Where("1 = 1").Exec(ctx); err != nil {
		return storageError(err, "clear log stream")
	}
	return nil
}

// Cleanup deletes records older than the retention window across all three
// streams and returns how many rows were removed. days <= 0 disables
// retention and is a no-op.
func (r *Repository) Cleanup(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, nil
	}
	cutoff := r.clock.Now().AddDate(0, 0, -days)
	models := []any{
		(*UserLogEntry)(nil),
		(*VisitorLogEntry)(nil),
		(*AdminLogEntry)(nil),
	}
	var removed int64
	for _, model := range models {
		res, err := r.db.NewDelete().Model(model).Where("created_at < ?", cutoff).Exec(ctx)
		if err != nil {
			return removed, storageError(err, "cleanup log stream")
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return removed, storageError(err, "cleanup log stream")
		}
		removed += affected
	}
	return removed, nil
}

// DashboardStats returns today/total counters for each stream.
func (r *Repository) DashboardStats(ctx context.Context) (types.DashboardStats, error) {
	today := startOfDay(r.clock.Now())
	stats := types.DashboardStats{}

	counters := []struct {
		table string
		total *int
		daily *int
	}{
		{tableUserLogs, &stats.UserTotal, &stats.UserToday},
		{tableVisitorLogs, &stats.VisitorTotal, &stats.VisitorToday},
		{tableAdminLogs, &stats.AdminTotal, &stats.AdminToday},
	}
	for _, counter := range counters {
		total, err := r.db.NewSelect().Table(counter.table).Count(ctx)
		if err != nil {
			return types.DashboardStats{}, storageError(err, "count log stream")
		}
		daily, err := r.db.NewSelect().Table(counter.table).Where("created_at >= ?", today).Count(ctx)
		if err != nil {
			return types.DashboardStats{}, storageError(err, "count log stream")
		}
		*counter.total = total
		*counter.daily = daily
	}
	return stats, nil
}

// AdminSummary aggregates the admin stream over the trailing day window:
// total actions, per-user buckets, per-type buckets, and the most recent
// records. days defaults to 7 and recent to 10.
func (r *Repository) AdminSummary(ctx context.Context, days, recent int) (types.AdminSummary, error) {
	if days <= 0 {
		days = 7
	}
	if recent <= 0 {
		recent = 10
	}
	since := r.clock.Now().AddDate(0, 0, -days)
	summary := types.AdminSummary{}

	total, err := r.db.NewSelect().Table(tableAdminLogs).Where("created_at >= ?", since).Count(ctx)
	if err != nil {
		return summary, storageError(err, "admin summary total")
	}
	summary.TotalActions = total

	type userRow struct {
		UserID    int64  `bun:"user_id"`
		UserLogin string `bun:"user_login"`
		Total     int    `bun:"total"`
	}
	var userRows []userRow
	if err := r.db.NewSelect().
		Table(tableAdminLogs).
		ColumnExpr("user_id").
		ColumnExpr("MAX(user_login) AS user_login").
		ColumnExpr("COUNT(*) AS total").
		Where("created_at >= ?", since).
		Group("user_id").
		OrderExpr("total DESC, user_id ASC").
		Scan(ctx, &userRows); err != nil {
		return summary, storageError(err, "admin summary by user")
	}
	for _, row := range userRows {
		summary.ByUser = append(summary.ByUser, types.UserCount{
			UserID:    row.UserID,
			UserLogin: row.UserLogin,
			Count:     row.Total,
		})
	}

	byType, err := r.typeCounts(ctx, tableAdminLogs, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("created_at >= ?", since)
	})
	if err != nil {
		return summary, err
	}
	summary.ByType = byType

	var recentRows []AdminLogEntry
	if err := r.db.NewSelect().
		Model(&recentRows).
		Where("created_at >= ?", since).
		OrderExpr("created_at DESC, id DESC").
		Limit(recent).
		Scan(ctx); err != nil {
		return summary, storageError(err, "admin summary recent")
	}
	for _, row := range recentRows {
		summary.Recent = append(summary.Recent, toAdminLog(row))
	}
	return summary, nil
}

// UserSummary aggregates one user's activity over the trailing day window.
func (r *Repository) UserSummary(ctx context.Context, userID int64, days, recent int) (types.UserSummary, error) {
	if days <= 0 {
		days = 7
	}
	if recent <= 0 {
		recent = 10
	}
	since := r.clock.Now().AddDate(0, 0, -days)
	summary := types.UserSummary{}

	total, err := r.db.NewSelect().
		Table(tableUserLogs).
		Where("user_id = ?", userID).
		Where("created_at >= ?", since).
		Count(ctx)
	if err != nil {
		return summary, storageError(err, "user summary total")
	}
	summary.TotalActions = total

	byType, err := r.typeCounts(ctx, tableUserLogs, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("user_id = ?", userID).Where("created_at >= ?", since)
	})
	if err != nil {
		return summary, err
	}
	summary.ByType = byType

	var recentRows []UserLogEntry
	if err := r.db.NewSelect().
		Model(&recentRows).
		Where("user_id = ?", userID).
		Where("created_at >= ?", since).
		OrderExpr("created_at DESC, id DESC").
		Limit(recent).
		Scan(ctx); err != nil {
		return summary, storageError(err, "user summary recent")
	}
	for _, row := range recentRows {
		summary.Recent = append(summary.Recent, toUserLog(row))
	}
	return summary, nil
}

// VisitorOverview aggregates the whole visitor stream: distinct visitors,
// visit totals, and top pages/countries. topN defaults to 10.
func (r *Repository) VisitorOverview(ctx context.Context, topN int) (types.VisitorOverview, error) {
	if topN <= 0 {
		topN = 10
	}
	overview := types.VisitorOverview{}

	var unique int
	if err := r.db.NewSelect().
		Table(tableVisitorLogs).
		ColumnExpr("COUNT(DISTINCT visitor_hash)").
		Scan(ctx, &unique); err != nil {
		return overview, storageError(err, "visitor overview unique")
	}
	overview.UniqueVisitors = unique

	total, err := r.db.NewSelect().Table(tableVisitorLogs).Count(ctx)
	if err != nil {
		return overview, storageError(err, "visitor overview total")
	}
	overview.TotalVisits = total

	today, err := r.db.NewSelect().
		Table(tableVisitorLogs).
		Where("created_at >= ?", startOfDay(r.clock.Now())).
		Count(ctx)
	if err != nil {
		return overview, storageError(err, "visitor overview today")
	}
	overview.VisitsToday = today

	type pageRow struct {
		PageURL string `bun:"page_url"`
		Total   int    `bun:"total"`
	}
	var pageRows []pageRow
	if err := r.db.NewSelect().
		Table(tableVisitorLogs).
		ColumnExpr("page_url").
		ColumnExpr("COUNT(*) AS total").
		Where("action_type = ?", "page_view").
		Group("page_url").
		OrderExpr("total DESC, page_url ASC").
		Limit(topN).
		Scan(ctx, &pageRows); err != nil {
		return overview, storageError(err, "visitor overview pages")
	}
	for _, row := range pageRows {
		overview.TopPages = append(overview.TopPages, types.PageCount{PageURL: row.PageURL, Count: row.Total})
	}

	type countryRow struct {
		CountryCode string `bun:"country_code"`
		Total       int    `bun:"total"`
	}
	var countryRows []countryRow
	if err := r.db.NewSelect().
		Table(tableVisitorLogs).
		ColumnExpr("country_code").
		ColumnExpr("COUNT(*) AS total").
		Where("country_code IS NOT NULL AND country_code <> ''").
		Group("country_code").
		OrderExpr("total DESC, country_code ASC").
		Limit(topN).
		Scan(ctx, &countryRows); err != nil {
		return overview, storageError(err, "visitor overview countries")
	}
	for _, row := range countryRows {
		overview.TopCountries = append(overview.TopCountries, types.CountryCount{CountryCode: row.CountryCode, Count: row.Total})
	}
	return overview, nil
}

// VisitorDetail aggregates one visitor hash. An unknown hash returns a zero
// detail, not an error.
func (r *Repository) VisitorDetail(ctx context.Context, visitorHash string) (types.VisitorDetail, error) {
	detail := types.VisitorDetail{}
	total, err := r.db.NewSelect().
		Table(tableVisitorLogs).
		Where("visitor_hash = ?", visitorHash).
		Count(ctx)
	if err != nil {
		return detail, storageError(err, "visitor detail total")
	}
	if total == 0 {
		return detail, nil
	}
	detail.TotalVisits = total

	var first VisitorLogEntry
	if err := r.db.NewSelect().
		Model(&first).
		Where("visitor_hash = ?", visitorHash).
		OrderExpr("created_at ASC, id ASC").
		Limit(1).
		Scan(ctx); err != nil {
		return detail, storageError(err, "visitor detail first visit")
	}
	detail.FirstVisit = first.CreatedAt

	var last VisitorLogEntry
	if err := r.db.NewSelect().
		Model(&last).
		Where("visitor_hash = ?", visitorHash).
		OrderExpr("created_at DESC, id DESC").
		Limit(1).
		Scan(ctx); err != nil {
		return detail, storageError(err, "visitor detail last visit")
	}
	detail.LastVisit = last.CreatedAt

	byType, err := r.typeCounts(ctx, tableVisitorLogs, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("visitor_hash = ?", visitorHash)
	})
	if err != nil {
		return detail, err
	}
	detail.ByType = byType
	return detail, nil
}

// RecentVisitors lists distinct visitors ordered by most recent activity.
// limit defaults to 10 and caps at 100.
func (r *Repository) RecentVisitors(ctx context.Context, limit int) ([]types.VisitorPresence, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	type hashRow struct {
		VisitorHash string `bun:"visitor_hash"`
		Total       int    `bun:"total"`
	}
	var hashRows []hashRow
	if err := r.db.NewSelect().
		Table(tableVisitorLogs).
		ColumnExpr("visitor_hash").
		ColumnExpr("COUNT(*) AS total").
		Group("visitor_hash").
		OrderExpr("MAX(created_at) DESC").
		Limit(limit).
		Scan(ctx, &hashRows); err != nil {
		return nil, storageError(err, "recent visitors")
	}

	out := make([]types.VisitorPresence, 0, len(hashRows))
	for _, row := range hashRows {
		var first VisitorLogEntry
		if err := r.db.NewSelect().
			Model(&first).
			Where("visitor_hash = ?", row.VisitorHash).
			OrderExpr("created_at ASC, id ASC").
			Limit(1).
			Scan(ctx); err != nil {
			return nil, storageError(err, "recent visitors first seen")
		}
		var last VisitorLogEntry
		if err := r.db.NewSelect().
			Model(&last).
			Where("visitor_hash = ?", row.VisitorHash).
			OrderExpr("created_at DESC, id DESC").
			Limit(1).
			Scan(ctx); err != nil {
			return nil, storageError(err, "recent visitors last seen")
		}
		out = append(out, types.VisitorPresence{
			VisitorHash: row.VisitorHash,
			FirstVisit:  first.CreatedAt,
			LastVisit:   last.CreatedAt,
			TotalVisits: row.Total,
			IP:          last.IP,
			CountryCode: last.CountryCode,
			DeviceType:  last.DeviceType,
		})
	}
	return out, nil
}

// UserAdminActivity lists one user's admin-stream records over the trailing
// day window, newest first.
func (r *Repository) UserAdminActivity(ctx context.Context, userID int64, days int) ([]types.AdminLog, error) {
	if days <= 0 {
		days = 7
	}
	since := r.clock.Now().AddDate(0, 0, -days)
	var rows []AdminLogEntry
	if err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Where("created_at >= ?", since).
		OrderExpr("created_at DESC, id DESC").
		Scan(ctx); err != nil {
		return nil, storageError(err, "user admin activity")
	}
	out := make([]types.AdminLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, toAdminLog(row))
	}
	return out, nil
}

func (r *Repository) typeCounts(ctx context.Context, table string, apply func(*bun.SelectQuery) *bun.SelectQuery) ([]types.TypeCount, error) {
	type row struct {
		ActionType string `bun:"action_type"`
		Total      int    `bun:"total"`
	}
	q := r.db.NewSelect().
		Table(table).
		ColumnExpr("action_type").
		ColumnExpr("COUNT(*) AS total").
		Group("action_type").
		OrderExpr("total DESC, action_type ASC")
	if apply != nil {
		q = apply(q)
	}
	var rows []row
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, storageError(err, "aggregate by action type")
	}
	out := make([]types.TypeCount, 0, len(rows))
	for _, rec := range rows {
		out = append(out, types.TypeCount{ActionType: rec.ActionType, Count: rec.Total})
	}
	return out, nil
}

func fetchPage[T any](ctx context.Context, db *bun.DB, filter types.LogFilter, keywordColumns []string) ([]T, int, error) {
	pagination, err := normalizePagination(filter.Pagination)
	if err != nil {
		return nil, 0, err
	}

	var rows []T
	q := db.NewSelect().
		Model(&rows).
		OrderExpr("created_at DESC, id DESC").
		Limit(pagination.Limit).
		Offset(pagination.Offset)
	q = applyKeyword(q, filter.Keyword, keywordColumns)
	if err := q.Scan(ctx); err != nil {
		return nil, 0, storageError(err, "list log stream")
	}

	countQuery := applyKeyword(db.NewSelect().Model((*T)(nil)), filter.Keyword, keywordColumns)
	total, err := countQuery.Count(ctx)
	if err != nil {
		return nil, 0, storageError(err, "count log stream")
	}
	return rows, total, nil
}

func applyKeyword(q *bun.SelectQuery, keyword string, columns []string) *bun.SelectQuery {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || len(columns) == 0 {
		return q
	}
	pattern := "%" + strings.ToLower(keyword) + "%"
	conditions := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, column := range columns {
		conditions = append(conditions, "LOWER("+column+") LIKE ?")
		args = append(args, pattern)
	}
	return q.Where("("+strings.Join(conditions, " OR ")+")", args...)
}

// normalizePagination rejects negative coordinates, maps a zero limit to the
// default page size, and clamps oversized limits.
func normalizePagination(p types.Pagination) (types.Pagination, error) {
	if p.Limit < 0 || p.Offset < 0 {
		return p, goerrors.New("pagination limit and offset must be non-negative", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
	if p.Limit == 0 {
		p.Limit = defaultPageSize
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
	return p, nil
}

func streamModel(stream types.Stream) (any, error) {
	switch stream {
	case types.StreamUser:
		return (*UserLogEntry)(nil), nil
	case types.StreamVisitor:
		return (*VisitorLogEntry)(nil), nil
	case types.StreamAdmin:
		return (*AdminLogEntry)(nil), nil
	default:
		return nil, validationError(types.ErrUnknownStream, "unknown log stream")
	}
}

func startOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func validationError(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, msg).WithCode(goerrors.CodeBadRequest)
}

func storageError(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, msg).WithCode(goerrors.CodeInternal)
}
