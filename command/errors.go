package command

import (
	"errors"

	"github.com/goliatone/go-tracklog/pkg/types"
)

var (
	// ErrActionTypeRequired indicates a signal without an action type.
	ErrActionTypeRequired = types.ErrActionTypeRequired
	// ErrAdminDetailsRequired indicates an admin signal without details text.
	ErrAdminDetailsRequired = types.ErrAdminDetailsRequired
	// ErrUnknownStream indicates a stream outside user/visitor/admin.
	ErrUnknownStream = types.ErrUnknownStream
	// ErrLogIDRequired occurs when a delete command omits the record id.
	ErrLogIDRequired = errors.New("go-tracklog: log id required")
	// ErrNegativeRetention occurs when a cleanup command carries negative days.
	ErrNegativeRetention = errors.New("go-tracklog: retention days must be non-negative")
)
