package tracklog

import (
	"github.com/goliatone/go-tracklog/pkg/types"
)

// Action types recorded by the built-in capture points. Hosts are free to
// track their own action types; these cover the common platform events.
const (
	ActionUserLogin        = "user_login"
	ActionUserLogout       = "user_logout"
	ActionPageView         = "page_view"
	ActionCommentSubmitted = "comment_submitted"
	ActionFormSubmission   = "form_submission"
	ActionSearchQuery      = "search_query"
	ActionNotFound         = "404_error"
	ActionFileDownload     = "file_download"

	ActionPostCreated     = "post_created"
	ActionPostUpdated     = "post_updated"
	ActionPostDeleted     = "post_deleted"
	ActionSettingsChanged = "settings_changed"
	ActionUserCreated     = "user_created"
	ActionUserUpdated     = "user_updated"
	ActionUserDeleted     = "user_deleted"
)

// RequestInfo carries the transport attributes shared by every signal
// constructor.
type RequestInfo struct {
	IP          string
	UserAgent   string
	PageURL     string
	HTTPMethod  string
	ReferrerURL string
	SessionID   string
}

func (r RequestInfo) apply(signal types.Signal) types.Signal {
	signal.IP = r.IP
	signal.UserAgent = r.UserAgent
	signal.PageURL = r.PageURL
	signal.HTTPMethod = r.HTTPMethod
	signal.ReferrerURL = r.ReferrerURL
	signal.SessionID = r.SessionID
	return signal
}

// LoginSignal describes a successful authentication.
func LoginSignal(actor types.ActorRef, req RequestInfo) types.Signal {
	actor.Authenticated = true
	return req.apply(types.Signal{
		Actor:      actor,
		ActionType: ActionUserLogin,
	})
}

// LogoutSignal describes the end of a session.
func LogoutSignal(actor types.ActorRef, req RequestInfo) types.Signal {
	actor.Authenticated = true
	return req.apply(types.Signal{
		Actor:      actor,
		ActionType: ActionUserLogout,
	})
}

// PageViewSignal describes one page render. The actor may be zero for
// anonymous traffic.
func PageViewSignal(actor types.ActorRef, req RequestInfo) types.Signal {
	return req.apply(types.Signal{
		Actor:      actor,
		ActionType: ActionPageView,
	})
}

// SearchSignal describes an on-site search.
func SearchSignal(actor types.ActorRef, query string, req RequestInfo) types.Signal {
	return req.apply(types.Signal{
		Actor:      actor,
		ActionType: ActionSearchQuery,
		Details:    types.Details{"query": query},
	})
}

// NotFoundSignal describes a request that resolved to no content.
func NotFoundSignal(actor types.ActorRef, req RequestInfo) types.Signal {
	return req.apply(types.Signal{
		Actor:      actor,
		ActionType: ActionNotFound,
	})
}

// DownloadSignal describes a file download.
func DownloadSignal(actor types.ActorRef, filePath string, req RequestInfo) types.Signal {
	return req.apply(types.Signal{
		Actor:      actor,
		ActionType: ActionFileDownload,
		Details:    types.Details{"file": filePath},
	})
}

// CommentSignal describes a submitted comment.
func CommentSignal(actor types.ActorRef, objectID int64, req RequestInfo) types.Signal {
	return req.apply(types.Signal{
		Actor:      actor,
		ActionType: ActionCommentSubmitted,
		Details:    types.Details{"object_id": objectID},
	})
}

// FormSignal describes a form submission. Sensitive fields are masked before
// the payload reaches any read surface.
func FormSignal(actor types.ActorRef, formID string, fields types.Details, req RequestInfo) types.Signal {
	details := fields.Clone()
	details["form_id"] = formID
	return req.apply(types.Signal{
		Actor:      actor,
		ActionType: ActionFormSubmission,
		Details:    details,
	})
}

// AdminSignal describes an administrative action on a named object. Details
// is the human-readable description shown in the audit trail.
func AdminSignal(actor types.ActorRef, actionType, details string, objectType string, objectID int64, objectName string, req RequestInfo) types.Signal {
	actor.Authenticated = true
	signal := req.apply(types.Signal{
		Actor:        actor,
		AdminContext: true,
		ActionType:   actionType,
		DetailsText:  details,
		ObjectType:   objectType,
		ObjectID:     objectID,
		ObjectName:   objectName,
	})
	signal.AdminPage = req.PageURL
	return signal
}
