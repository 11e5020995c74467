package store

import (
	"context"
	"net"
	"strings"

	"github.com/goliatone/go-tracklog/pkg/types"
)

// VisitorEnricher mutates or returns an enriched visitor record before it is
// persisted.
type VisitorEnricher interface {
	Enrich(ctx context.Context, record types.VisitorLog) (types.VisitorLog, error)
}

// VisitorEnricherFunc adapts a function into a VisitorEnricher.
type VisitorEnricherFunc func(ctx context.Context, record types.VisitorLog) (types.VisitorLog, error)

// Enrich executes the function and satisfies VisitorEnricher.
func (f VisitorEnricherFunc) Enrich(ctx context.Context, record types.VisitorLog) (types.VisitorLog, error) {
	return f(ctx, record)
}

// VisitorEnricherChain composes multiple enrichers in order, stopping on the
// first error.
type VisitorEnricherChain []VisitorEnricher

// Enrich applies the chain sequentially.
func (c VisitorEnricherChain) Enrich(ctx context.Context, record types.VisitorLog) (types.VisitorLog, error) {
	current := record
	for _, enricher := range c {
		if enricher == nil {
			continue
		}
		next, err := enricher.Enrich(ctx, current)
		if err != nil {
			return record, err
		}
		current = next
	}
	return current, nil
}

// DefaultVisitorEnricher fills country, device type, and browser from the
// request attributes already on the record. Geo resolution is a placeholder:
// private and loopback addresses map to LOCAL, everything else to UN, until
// a real lookup is wired in.
func DefaultVisitorEnricher() VisitorEnricher {
	return VisitorEnricherFunc(func(_ context.Context, record types.VisitorLog) (types.VisitorLog, error) {
		if record.CountryCode == "" {
			record.CountryCode = countryForIP(record.IP)
		}
		if record.DeviceType == "" {
			record.DeviceType = DeviceType(record.UserAgent)
		}
		if record.Browser == "" {
			record.Browser = BrowserName(record.UserAgent)
		}
		return record, nil
	})
}

func countryForIP(ip string) string {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return "UN"
	}
	if parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast() {
		return "LOCAL"
	}
	return "UN"
}

// DeviceType buckets a user agent into mobile, tablet, or desktop.
func DeviceType(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet"):
		return "tablet"
	case strings.Contains(ua, "mobile") || strings.Contains(ua, "android") || strings.Contains(ua, "iphone"):
		return "mobile"
	default:
		return "desktop"
	}
}

// BrowserName extracts a coarse browser family from a user agent. Order
// matters: Chrome's token appears inside Edge agents and Safari's inside
// Chrome agents.
func BrowserName(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "firefox"):
		return "Firefox"
	case strings.Contains(ua, "edg"):
		return "Edge"
	case strings.Contains(ua, "chrome"):
		return "Chrome"
	case strings.Contains(ua, "safari"):
		return "Safari"
	case strings.Contains(ua, "msie") || strings.Contains(ua, "trident"):
		return "IE"
	default:
		return "Unknown"
	}
}
