package catalog

import (
	"fmt"
	"sort"

	"github.com/hbollon/go-edlib"
)

// SearchResult is one catalog hit: either a movie or a series.
type SearchResult struct {
	Type   OwnerType // OwnerMovie or OwnerSeries
	Movie  *Movie    // set when Type == OwnerMovie
	Series *Series   // set when Type == OwnerSeries
	Score  float64   // title similarity to the query, 0.0-1.0
}

// Title returns the hit's display title.
func (r *SearchResult) Title() string {
	if r.Type == OwnerMovie {
		return r.Movie.Title
	}
	return r.Series.Title
}

// ID returns the hit's entity ID.
func (r *SearchResult) ID() int64 {
	if r.Type == OwnerMovie {
		return r.Movie.ID
	}
	return r.Series.ID
}

// Search finds movies and series whose title, description, tags or
// alternative names contain the query substring. Results are ranked by
// Jaro-Winkler similarity between the normalized query and title, so an
// exact-title hit sorts above a tag hit. Matching is parameterized LIKE;
// the query string is never spliced into SQL.
func (s *Store) Search(query string, limit int) ([]*SearchResult, error) {
	pattern := "%" + query + "%"

	var results []*SearchResult
	seen := make(map[string]bool)

	add := func(r *SearchResult) {
		key := fmt.Sprintf("%s:%d", r.Type, r.ID())
		if seen[key] {
			return
		}
		seen[key] = true
		results = append(results, r)
	}

	movies, err := s.searchMovies(pattern)
	if err != nil {
		return nil, err
	}
	for _, m := range movies {
		add(&SearchResult{Type: OwnerMovie, Movie: m})
	}

	series, err := s.searchSeries(pattern)
	if err != nil {
		return nil, err
	}
	for _, sr := range series {
		add(&SearchResult{Type: OwnerSeries, Series: sr})
	}

	normQuery := normalizeTitle(query)
	for _, r := range results {
		r.Score = float64(edlib.JaroWinklerSimilarity(normQuery, normalizeTitle(r.Title())))
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *Store) searchMovies(pattern string) ([]*Movie, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT m.id, m.title, m.year, m.description, m.tags, m.category, m.poster_ref, m.views, m.downloads, m.created_at
		FROM movies m
		LEFT JOIN alternative_names a ON a.owner_type = 'movie' AND a.owner_id = m.id
		WHERE m.title LIKE ? OR m.description LIKE ? OR m.tags LIKE ? OR a.name LIKE ?`,
		pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Movie
	for rows.Next() {
		m := &Movie{}
		if err := rows.Scan(&m.ID, &m.Title, &m.Year, &m.Description, &m.Tags, &m.Category, &m.PosterRef, &m.Views, &m.Downloads, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return results, nil
}

func (s *Store) searchSeries(pattern string) ([]*Series, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT s.id, s.title, s.description, s.tags, s.category, s.poster_ref, s.views, s.created_at
		FROM series s
		LEFT JOIN alternative_names a ON a.owner_type = 'series' AND a.owner_id = s.id
		WHERE s.title LIKE ? OR s.description LIKE ? OR s.tags LIKE ? OR a.name LIKE ?`,
		pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Series
	for rows.Next() {
		sr := &Series{}
		if err := rows.Scan(&sr.ID, &sr.Title, &sr.Description, &sr.Tags, &sr.Category, &sr.PosterRef, &sr.Views, &sr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		results = append(results, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series: %w", err)
	}
	return results, nil
}
