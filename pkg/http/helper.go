package http

import (
	"net/http"
	"strconv"

	"tripmarket/pkg/config"
	apperrors "tripmarket/pkg/errors"
)

// ExtractPageLimit reads page/limit query parameters for paginated endpoints.
// Page numbering starts at 1.
func ExtractPageLimit(r *http.Request) (int, int, error) {
	query := r.URL.Query()

	page := 1
	if s := query.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid page parameter: " + s)
		}
		page = v
	}
	if page < 1 {
		page = 1
	}

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}
	limit = config.NormalizePaginationLimit(limit)

	return page, limit, nil
}
