// Package classifier decides, per captured signal, whether an event is
// recorded at all and into which log stream it belongs. Evaluation is pure:
// the same settings and signal always produce the same decision.
package classifier

import (
	"strings"

	"github.com/goliatone/go-tracklog/pkg/types"
)

// DropReason explains why a signal was not recorded.
type DropReason string

const (
	DropNone             DropReason = ""
	DropTrackingDisabled DropReason = "tracking_disabled"
	DropRoleSkipped      DropReason = "role_skipped"
	DropIPExcluded       DropReason = "ip_excluded"
	DropPageExcluded     DropReason = "page_excluded"
	DropBotDetected      DropReason = "bot_detected"
)

// Decision is the classification outcome for one signal.
type Decision struct {
	Track  bool
	Stream types.Stream
	Reason DropReason
}

// botSignatures is the fixed, case-insensitive substring list used for
// crawler detection.
var botSignatures = []string{
	"bot", "spider", "crawler", "scanner", "curl", "wget",
	"googlebot", "bingbot", "slurp", "duckduckbot", "baiduspider",
	"yandexbot", "sogou", "exabot", "facebookexternalhit", "facebot",
	"ia_archiver", "linkedinbot", "twitterbot", "pinterestbot",
	"whatsapp", "slackbot", "discordbot", "telegrambot", "applebot",
	"semrushbot", "ahrefsbot", "mj12bot", "dotbot", "moz.com",
	"seokicks", "python-requests", "go-http-client", "java/", "libwww",
}

// Evaluate applies the tracking policy to one signal.
//
// Administrative-context signals answer only to the admin track flag; role,
// IP, page, and bot exclusions apply to the user and visitor streams.
func Evaluate(settings types.Settings, signal types.Signal) Decision {
	if signal.AdminContext {
		if !settings.TrackAdmin {
			return Decision{Stream: types.StreamAdmin, Reason: DropTrackingDisabled}
		}
		return Decision{Track: true, Stream: types.StreamAdmin}
	}

	stream := types.StreamVisitor
	if signal.Actor.Authenticated {
		stream = types.StreamUser
	}

	if stream == types.StreamUser && !settings.TrackLoggedIn {
		return Decision{Stream: stream, Reason: DropTrackingDisabled}
	}
	if stream == types.StreamVisitor && !settings.TrackVisitors {
		return Decision{Stream: stream, Reason: DropTrackingDisabled}
	}

	if signal.Actor.Authenticated && roleSkipped(settings.SkipRoles, signal.Actor) {
		return Decision{Stream: stream, Reason: DropRoleSkipped}
	}
	if ipExcluded(settings.ExcludeIPs, signal.IP) {
		return Decision{Stream: stream, Reason: DropIPExcluded}
	}
	if pageExcluded(settings.ExcludePages, signal.PageURL) {
		return Decision{Stream: stream, Reason: DropPageExcluded}
	}
	if IsBot(signal.UserAgent) {
		return Decision{Stream: stream, Reason: DropBotDetected}
	}
	if stream == types.StreamVisitor && strings.TrimSpace(signal.UserAgent) == "" {
		// Headless clients without a user agent are treated as crawlers.
		return Decision{Stream: stream, Reason: DropBotDetected}
	}

	return Decision{Track: true, Stream: stream}
}

// IsBot reports whether the user agent matches a known crawler signature.
func IsBot(userAgent string) bool {
	ua := strings.ToLower(strings.TrimSpace(userAgent))
	if ua == "" {
		return false
	}
	for _, signature := range botSignatures {
		if strings.Contains(ua, signature) {
			return true
		}
	}
	return false
}

func roleSkipped(skipRoles []string, actor types.ActorRef) bool {
	if len(skipRoles) == 0 {
		return false
	}
	roles := actor.Roles
	if len(roles) == 0 && actor.Role != "" {
		roles = []string{actor.Role}
	}
	for _, skip := range skipRoles {
		skip = strings.ToLower(strings.TrimSpace(skip))
		if skip == "" {
			continue
		}
		for _, role := range roles {
			if strings.ToLower(strings.TrimSpace(role)) == skip {
				return true
			}
		}
	}
	return false
}

func ipExcluded(excludeIPs []string, ip string) bool {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return false
	}
	for _, excluded := range excludeIPs {
		if strings.TrimSpace(excluded) == ip {
			return true
		}
	}
	return false
}

func pageExcluded(excludePages []string, pageURL string) bool {
	if pageURL == "" {
		return false
	}
	for _, fragment := range excludePages {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		if strings.Contains(pageURL, fragment) {
			return true
		}
	}
	return false
}
