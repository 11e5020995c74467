package settings

import (
	"testing"

	"github.com/goliatone/go-tracklog/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestResolve_EmptyPayloadKeepsDefaults(t *testing.T) {
	defaults := types.DefaultSettings()
	got, err := Resolve(defaults, nil)
	require.NoError(t, err)
	require.Equal(t, defaults, got)
}

func TestResolve_PersistedOverridesDefaults(t *testing.T) {
	defaults := types.DefaultSettings()
	got, err := Resolve(defaults, map[string]any{
		"cleanup_days":   90,
		"track_visitors": false,
	})
	require.NoError(t, err)
	require.Equal(t, 90, got.CleanupDays)
	require.False(t, got.TrackVisitors)
	// Untouched fields keep their defaults.
	require.True(t, got.TrackLoggedIn)
	require.Equal(t, defaults.SkipRoles, got.SkipRoles)
}

func TestResolve_CoercesJSONAndFormEncodings(t *testing.T) {
	got, err := Resolve(types.DefaultSettings(), map[string]any{
		// JSON round-trips turn numbers into float64.
		"cleanup_days": float64(45),
		// Checkbox-style booleans arrive as strings.
		"track_logged_in": "0",
		"track_admin":     "on",
		// Textarea blobs arrive newline separated with blanks and dupes.
		"exclude_pages": "/admin/\r\n/login\n\n/login\n  /cron  ",
		"exclude_ips":   []any{"127.0.0.1", "::1", "127.0.0.1"},
	})
	require.NoError(t, err)
	require.Equal(t, 45, got.CleanupDays)
	require.False(t, got.TrackLoggedIn)
	require.True(t, got.TrackAdmin)
	require.Equal(t, []string{"/admin/", "/login", "/cron"}, got.ExcludePages)
	require.Equal(t, []string{"127.0.0.1", "::1"}, got.ExcludeIPs)
}

func TestResolve_InvalidValuesFallBack(t *testing.T) {
	defaults := types.DefaultSettings()
	got, err := Resolve(defaults, map[string]any{
		"cleanup_days":   "not a number",
		"track_visitors": "maybe",
	})
	require.NoError(t, err)
	require.Equal(t, defaults.CleanupDays, got.CleanupDays)
	require.Equal(t, defaults.TrackVisitors, got.TrackVisitors)
}
