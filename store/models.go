package store

import (
	"time"

	"github.com/goliatone/go-tracklog/pkg/types"
	"github.com/uptrace/bun"
)

// UserLogEntry models the persisted row in tracklog_users_logs.
type UserLogEntry struct {
	bun.BaseModel `bun:"table:tracklog_users_logs"`

	ID          int64          `bun:"id,pk,autoincrement"`
	UserID      int64          `bun:"user_id"`
	UserLogin   string         `bun:"user_login"`
	UserEmail   string         `bun:"user_email"`
	ActionType  string         `bun:"action_type"`
	Details     map[string]any `bun:"action_details,type:jsonb"`
	IP          string         `bun:"ip_address"`
	UserAgent   string         `bun:"user_agent"`
	PageURL     string         `bun:"page_url"`
	HTTPMethod  string         `bun:"http_method"`
	ReferrerURL string         `bun:"referrer_url"`
	SessionID   string         `bun:"session_id"`
	CreatedAt   time.Time      `bun:"created_at"`
}

// VisitorLogEntry models the persisted row in tracklog_visitors_logs.
type VisitorLogEntry struct {
	bun.BaseModel `bun:"table:tracklog_visitors_logs"`

	ID          int64          `bun:"id,pk,autoincrement"`
	VisitorHash string         `bun:"visitor_hash"`
	ActionType  string         `bun:"action_type"`
	Details     map[string]any `bun:"action_details,type:jsonb"`
	IP          string         `bun:"ip_address"`
	UserAgent   string         `bun:"user_agent"`
	PageURL     string         `bun:"page_url"`
	HTTPMethod  string         `bun:"http_method"`
	ReferrerURL string         `bun:"referrer_url"`
	CountryCode string         `bun:"country_code"`
	City        string         `bun:"city"`
	DeviceType  string         `bun:"device_type"`
	Browser     string         `bun:"browser"`
	SessionID   string         `bun:"session_id"`
	CreatedAt   time.Time      `bun:"created_at"`
}

// AdminLogEntry models the persisted row in tracklog_admin_logs.
type AdminLogEntry struct {
	bun.BaseModel `bun:"table:tracklog_admin_logs"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     int64     `bun:"user_id"`
	UserLogin  string    `bun:"user_login"`
	UserRole   string    `bun:"user_role"`
	ActionType string    `bun:"action_type"`
	Details    string    `bun:"action_details"`
	ObjectType string    `bun:"object_type"`
	ObjectID   int64     `bun:"object_id"`
	ObjectName string    `bun:"object_name"`
	IP         string    `bun:"ip_address"`
	AdminPage  string    `bun:"admin_page"`
	HTTPMethod string    `bun:"http_method"`
	CreatedAt  time.Time `bun:"created_at"`
}

// MetaEntry models the persisted row in tracklog_meta. The schema version
// marker lives here.
type MetaEntry struct {
	bun.BaseModel `bun:"table:tracklog_meta"`

	Name  string `bun:"name,pk"`
	Value string `bun:"value"`
}

func toUserLogEntry(record *types.UserLog) *UserLogEntry {
	return &UserLogEntry{
		ID:          record.ID,
		UserID:      record.UserID,
		UserLogin:   record.UserLogin,
		UserEmail:   record.UserEmail,
		ActionType:  record.ActionType,
		Details:     record.Details.Clone(),
		IP:          record.IP,
		UserAgent:   record.UserAgent,
		PageURL:     record.PageURL,
		HTTPMethod:  record.HTTPMethod,
		ReferrerURL: record.ReferrerURL,
		SessionID:   record.SessionID,
		CreatedAt:   record.CreatedAt,
	}
}

func toUserLog(entry UserLogEntry) types.UserLog {
	return types.UserLog{
		ID:          entry.ID,
		UserID:      entry.UserID,
		UserLogin:   entry.UserLogin,
		UserEmail:   entry.UserEmail,
		ActionType:  entry.ActionType,
		Details:     types.Details(entry.Details).Clone(),
		IP:          entry.IP,
		UserAgent:   entry.UserAgent,
		PageURL:     entry.PageURL,
		HTTPMethod:  entry.HTTPMethod,
		ReferrerURL: entry.ReferrerURL,
		SessionID:   entry.SessionID,
		CreatedAt:   entry.CreatedAt,
	}
}

func toVisitorLogEntry(record *types.VisitorLog) *VisitorLogEntry {
	return &VisitorLogEntry{
		ID:          record.ID,
		VisitorHash: record.VisitorHash,
		ActionType:  record.ActionType,
		Details:     record.Details.Clone(),
		IP:          record.IP,
		UserAgent:   record.UserAgent,
		PageURL:     record.PageURL,
		HTTPMethod:  record.HTTPMethod,
		ReferrerURL: record.ReferrerURL,
		CountryCode: record.CountryCode,
		City:        record.City,
		DeviceType:  record.DeviceType,
		Browser:     record.Browser,
		SessionID:   record.SessionID,
		CreatedAt:   record.CreatedAt,
	}
}

func toVisitorLog(entry VisitorLogEntry) types.VisitorLog {
	return types.VisitorLog{
		ID:          entry.ID,
		VisitorHash: entry.VisitorHash,
		ActionType:  entry.ActionType,
		Details:     types.Details(entry.Details).Clone(),
		IP:          entry.IP,
		UserAgent:   entry.UserAgent,
		PageURL:     entry.PageURL,
		HTTPMethod:  entry.HTTPMethod,
		ReferrerURL: entry.ReferrerURL,
		CountryCode: entry.CountryCode,
		City:        entry.City,
		DeviceType:  entry.DeviceType,
		Browser:     entry.Browser,
		SessionID:   entry.SessionID,
		CreatedAt:   entry.CreatedAt,
	}
}

func toAdminLogEntry(record *types.AdminLog) *AdminLogEntry {
	return &AdminLogEntry{
		ID:         record.ID,
		UserID:     record.UserID,
		UserLogin:  record.UserLogin,
		UserRole:   record.UserRole,
		ActionType: record.ActionType,
		Details:    record.Details,
		ObjectType: record.ObjectType,
		ObjectID:   record.ObjectID,
		ObjectName: record.ObjectName,
		IP:         record.IP,
		AdminPage:  record.AdminPage,
		HTTPMethod: record.HTTPMethod,
		CreatedAt:  record.CreatedAt,
	}
}

func toAdminLog(entry AdminLogEntry) types.AdminLog {
	return types.AdminLog{
		ID:         entry.ID,
		UserID:     entry.UserID,
		UserLogin:  entry.UserLogin,
		UserRole:   entry.UserRole,
		ActionType: entry.ActionType,
		Details:    entry.Details,
		ObjectType: entry.ObjectType,
		ObjectID:   entry.ObjectID,
		ObjectName: entry.ObjectName,
		IP:         entry.IP,
		AdminPage:  entry.AdminPage,
		HTTPMethod: entry.HTTPMethod,
		CreatedAt:  entry.CreatedAt,
	}
}
