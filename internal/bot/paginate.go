package bot

import (
	"fmt"

	"tgdrive/internal/domain"
)

// PageCount returns how many pages of size limit n entries fill
func PageCount(n, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (n + limit - 1) / limit
}

// Paginate returns entries [page*limit, min((page+1)*limit, len)).
// A page outside [0, PageCount) is a validation error, so an empty list has no valid page.
func Paginate[T any](entries []T, page, limit int) ([]T, error) {
	if limit <= 0 {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("page size %d must be positive", limit)}
	}
	pages := PageCount(len(entries), limit)
	if page < 0 || page >= pages {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("Page %d is out of range", page+1)}
	}

	start := page * limit
	end := min(start+limit, len(entries))
	return entries[start:end], nil
}
