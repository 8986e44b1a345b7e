package shared

import (
	"net/http"
	"strconv"
)

type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads ?limit and ?offset. Missing or unusable values fall
// back to defaultLimit and 0; limit is capped at maxLimit when positive.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	p := Pagination{
		Limit:  queryInt(r, "limit", defaultLimit, 1),
		Offset: queryInt(r, "offset", 0, 0),
	}
	if maxLimit > 0 {
		p.Limit = min(p.Limit, maxLimit)
	}
	return p
}

func queryInt(r *http.Request, name string, fallback, floor int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < floor {
		return fallback
	}
	return v
}
