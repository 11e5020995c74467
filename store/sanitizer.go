package store

import (
	"sync"

	"github.com/goliatone/go-masker"
	"github.com/goliatone/go-tracklog/pkg/types"
)

// SanitizerConfig controls the masker used when log details are exposed to
// read surfaces.
type SanitizerConfig struct {
	Masker *masker.Masker
}

var defaultMaskerOnce sync.Once

// DefaultMasker returns a configured masker instance with the default
// denylist of sensitive detail keys.
func DefaultMasker() *masker.Masker {
	defaultMaskerOnce.Do(func() {
		if masker.Default == nil {
			return
		}
		registerDefaultMaskFields(masker.Default)
	})
	return masker.Default
}

// SanitizeDetails masks sensitive values in a structured detail payload.
func SanitizeDetails(mask *masker.Masker, details types.Details) types.Details {
	if len(details) == 0 {
		return details
	}
	if mask == nil {
		mask = DefaultMasker()
	}
	if mask == nil {
		return types.Details{}
	}

	cloned := details.Clone()
	masked, err := mask.Mask(map[string]any(cloned))
	if err != nil {
		return types.Details{}
	}
	switch masked := masked.(type) {
	case map[string]any:
		return types.Details(masked)
	default:
		return types.Details{}
	}
}

// SanitizeUserLogs masks detail payloads for every user record in the slice.
func SanitizeUserLogs(mask *masker.Masker, records []types.UserLog) []types.UserLog {
	if len(records) == 0 {
		return records
	}
	out := make([]types.UserLog, 0, len(records))
	for _, record := range records {
		record.Details = SanitizeDetails(mask, record.Details)
		out = append(out, record)
	}
	return out
}

// SanitizeVisitorLogs masks detail payloads for every visitor record in the
// slice.
func SanitizeVisitorLogs(mask *masker.Masker, records []types.VisitorLog) []types.VisitorLog {
	if len(records) == 0 {
		return records
	}
	out := make([]types.VisitorLog, 0, len(records))
	for _, record := range records {
		record.Details = SanitizeDetails(mask, record.Details)
		out = append(out, record)
	}
	return out
}

func registerDefaultMaskFields(mask *masker.Masker) {
	if mask == nil {
		return
	}
	for _, field := range []string{"password", "Password", "secret", "Secret", "token", "Token", "api_key", "authorization"} {
		mask.RegisterMaskField(field, "filled4")
	}
}
