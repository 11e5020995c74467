package crudsvc

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-crud"
)

func queryInt(ctx crud.Context, key string, def int) int {
	if value := ctx.Query(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return def
}

func queryKeyword(ctx crud.Context) string {
	return strings.TrimSpace(ctx.Query("q"))
}
