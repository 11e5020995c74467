package query

import "errors"

var (
	// ErrInvalidPagination occurs when a listing request carries negative
	// page coordinates.
	ErrInvalidPagination = errors.New("go-tracklog: invalid pagination")
	// ErrVisitorHashRequired occurs when a visitor lookup omits the hash.
	ErrVisitorHashRequired = errors.New("go-tracklog: visitor hash required")
	// ErrUserIDRequired occurs when a per-user aggregate omits the user id.
	ErrUserIDRequired = errors.New("go-tracklog: user id required")
)
