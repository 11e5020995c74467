package settings

import (
	"strconv"
	"strings"

	opts "github.com/goliatone/go-options"
	"github.com/goliatone/go-tracklog/pkg/types"
)

const (
	keyCleanupDays   = "cleanup_days"
	keySkipRoles     = "skip_roles"
	keyTrackLoggedIn = "track_logged_in"
	keyTrackVisitors = "track_visitors"
	keyTrackAdmin    = "track_admin"
	keyExcludePages  = "exclude_pages"
	keyExcludeIPs    = "exclude_ips"
)

// Resolve merges a persisted settings payload over the hard defaults and
// returns the effective policy. Values survive JSON round-trips and the loose
// form-style encodings admins submit (stringly numbers, checkbox booleans,
// newline-separated lists).
func Resolve(defaults types.Settings, persisted map[string]any) (types.Settings, error) {
	base := opts.NewScope("defaults", opts.ScopePrioritySystem,
		opts.WithScopeLabel("Defaults"))
	baseLayer := opts.NewLayer(base, settingsToMap(defaults),
		opts.WithSnapshotID[map[string]any](base.Name))

	stored := opts.NewScope("stored", opts.ScopePriorityUser,
		opts.WithScopeLabel("Stored Policy"))
	storedLayer := opts.NewLayer(stored, clonePayload(persisted),
		opts.WithSnapshotID[map[string]any](stored.Name))

	stack, err := opts.NewStack(baseLayer, storedLayer)
	if err != nil {
		return types.Settings{}, err
	}
	merged, err := stack.Merge()
	if err != nil {
		return types.Settings{}, err
	}
	return settingsFromMap(merged.Value, defaults), nil
}

func settingsToMap(s types.Settings) map[string]any {
	return map[string]any{
		keyCleanupDays:   s.CleanupDays,
		keySkipRoles:     append([]string(nil), s.SkipRoles...),
		keyTrackLoggedIn: s.TrackLoggedIn,
		keyTrackVisitors: s.TrackVisitors,
		keyTrackAdmin:    s.TrackAdmin,
		keyExcludePages:  append([]string(nil), s.ExcludePages...),
		keyExcludeIPs:    append([]string(nil), s.ExcludeIPs...),
	}
}

func settingsFromMap(payload map[string]any, fallback types.Settings) types.Settings {
	out := fallback
	if v, ok := payload[keyCleanupDays]; ok {
		if days, ok := coerceInt(v); ok {
			out.CleanupDays = days
		}
	}
	if v, ok := payload[keySkipRoles]; ok {
		out.SkipRoles = coerceStringList(v)
	}
	if v, ok := payload[keyTrackLoggedIn]; ok {
		out.TrackLoggedIn = coerceBool(v, fallback.TrackLoggedIn)
	}
	if v, ok := payload[keyTrackVisitors]; ok {
		out.TrackVisitors = coerceBool(v, fallback.TrackVisitors)
	}
	if v, ok := payload[keyTrackAdmin]; ok {
		out.TrackAdmin = coerceBool(v, fallback.TrackAdmin)
	}
	if v, ok := payload[keyExcludePages]; ok {
		out.ExcludePages = coerceStringList(v)
	}
	if v, ok := payload[keyExcludeIPs]; ok {
		out.ExcludeIPs = coerceStringList(v)
	}
	return out
}

func coerceInt(v any) (int, bool) {
	switch value := v.(type) {
	case int:
		return value, true
	case int32:
		return int(value), true
	case int64:
		return int(value), true
	case float64:
		return int(value), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func coerceBool(v any, fallback bool) bool {
	switch value := v.(type) {
	case bool:
		return value
	case string:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off", "":
			return false
		}
	case int:
		return value != 0
	case float64:
		return value != 0
	}
	return fallback
}

// coerceStringList accepts a []string, a JSON []any, or a newline separated
// textarea blob. Entries are trimmed and empties dropped.
func coerceStringList(v any) []string {
	var raw []string
	switch value := v.(type) {
	case []string:
		raw = value
	case []any:
		for _, item := range value {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case string:
		raw = strings.Split(strings.ReplaceAll(value, "\r\n", "\n"), "\n")
	default:
		return nil
	}
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func clonePayload(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
