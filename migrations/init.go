package migrations

import (
	tracklog "github.com/goliatone/go-tracklog"
)

func init() {
	Register(tracklog.GetMigrationsFS())
}
