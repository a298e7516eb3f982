package catalog

import "fmt"

// SortOrder selects how catalog listings are ordered.
type SortOrder string

const (
	SortNewest       SortOrder = "newest"
	SortAlphabetical SortOrder = "alphabetical"
	SortYearDesc     SortOrder = "year_desc"
)

// orderClause maps a sort order to its SQL ORDER BY expression.
// Unknown orders fall back to newest-first.
func (o SortOrder) orderClause() string {
	switch o {
	case SortAlphabetical:
		return "title COLLATE NOCASE ASC, id ASC"
	case SortYearDesc:
		return "year DESC, id DESC"
	default:
		return "created_at DESC, id DESC"
	}
}

// MovieFilter specifies criteria for listing movies.
type MovieFilter struct {
	Category *string
	Sort     SortOrder
	Limit    int // 0 = no limit
	Offset   int
}

// SeriesFilter specifies criteria for listing series.
type SeriesFilter struct {
	Category *string
	Sort     SortOrder
	Limit    int
	Offset   int
}

// Categories returns the distinct non-empty categories in use for the
// given content type, sorted case-insensitively.
func (s *Store) Categories(ct OwnerType) ([]string, error) {
	table := "movies"
	if ct == OwnerSeries {
		table = "series"
	}

	rows, err := s.db.Query("SELECT DISTINCT category FROM " + table +
		" WHERE category IS NOT NULL AND category != '' ORDER BY category COLLATE NOCASE")
	if err != nil {
		return nil, fmt.Errorf("list %s categories: %w", ct, err)
	}
	defer func() { _ = rows.Close() }()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}
