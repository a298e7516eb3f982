package catalog

import (
	"fmt"
	"strings"
	"time"
)

func addSeries(q querier, sr *Series) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO series (title, description, tags, category, poster_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sr.Title, sr.Description, sr.Tags, sr.Category, sr.PosterRef, now,
	)
	if err != nil {
		return fmt.Errorf("insert series: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	sr.ID = id
	sr.CreatedAt = now
	return nil
}

// AddSeries inserts a new series into the database.
// Sets ID and CreatedAt on the struct.
func (s *Store) AddSeries(sr *Series) error { return addSeries(s.db, sr) }

// AddSeries inserts a new series within a transaction.
func (t *Tx) AddSeries(sr *Series) error { return addSeries(t.tx, sr) }

func getSeries(q querier, id int64) (*Series, error) {
	sr := &Series{}
	err := q.QueryRow(`
		SELECT id, title, description, tags, category, poster_ref, views, created_at
		FROM series WHERE id = ?`, id,
	).Scan(&sr.ID, &sr.Title, &sr.Description, &sr.Tags, &sr.Category, &sr.PosterRef, &sr.Views, &sr.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get series %d: %w", id, mapSQLiteError(err))
	}
	return sr, nil
}

// GetSeries retrieves a series by ID.
// Returns ErrNotFound if the series does not exist.
func (s *Store) GetSeries(id int64) (*Series, error) { return getSeries(s.db, id) }

// GetSeries retrieves a series by ID within a transaction.
func (t *Tx) GetSeries(id int64) (*Series, error) { return getSeries(t.tx, id) }

func findSeriesByTitle(q querier, title string) (*Series, error) {
	sr := &Series{}
	err := q.QueryRow(`
		SELECT id, title, description, tags, category, poster_ref, views, created_at
		FROM series WHERE title = ? COLLATE NOCASE
		ORDER BY id LIMIT 1`, title,
	).Scan(&sr.ID, &sr.Title, &sr.Description, &sr.Tags, &sr.Category, &sr.PosterRef, &sr.Views, &sr.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("find series %q: %w", title, mapSQLiteError(err))
	}
	return sr, nil
}

// FindSeriesByTitle resolves a series by exact title, case insensitively.
// Returns ErrNotFound if no series carries that title.
func (s *Store) FindSeriesByTitle(title string) (*Series, error) { return findSeriesByTitle(s.db, title) }

// FindSeriesByTitle resolves a series by title within a transaction.
func (t *Tx) FindSeriesByTitle(title string) (*Series, error) { return findSeriesByTitle(t.tx, title) }

func listSeries(q querier, f SeriesFilter) ([]*Series, int, error) {
	var conditions []string
	var args []any

	if f.Category != nil {
		conditions = append(conditions, "category = ?")
		args = append(args, *f.Category)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := q.QueryRow("SELECT COUNT(*) FROM series "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count series: %w", err)
	}

	// Series rows carry no year, so year ordering degrades to newest.
	order := f.Sort
	if order == SortYearDesc {
		order = SortNewest
	}
	query := "SELECT id, title, description, tags, category, poster_ref, views, created_at FROM series " +
		whereClause + " ORDER BY " + order.orderClause()
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Series
	for rows.Next() {
		sr := &Series{}
		if err := rows.Scan(&sr.ID, &sr.Title, &sr.Description, &sr.Tags, &sr.Category, &sr.PosterRef, &sr.Views, &sr.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan series: %w", err)
		}
		results = append(results, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate series: %w", err)
	}

	return results, total, nil
}

// ListSeries returns series matching the filter with pagination.
// Returns (results, totalCount, error).
func (s *Store) ListSeries(f SeriesFilter) ([]*Series, int, error) { return listSeries(s.db, f) }

// ListSeries returns series matching the filter within a transaction.
func (t *Tx) ListSeries(f SeriesFilter) ([]*Series, int, error) { return listSeries(t.tx, f) }

func updateSeries(q querier, sr *Series) error {
	result, err := q.Exec(`
		UPDATE series SET title = ?, description = ?, tags = ?, category = ?, poster_ref = ?
		WHERE id = ?`,
		sr.Title, sr.Description, sr.Tags, sr.Category, sr.PosterRef, sr.ID,
	)
	if err != nil {
		return fmt.Errorf("update series %d: %w", sr.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update series %d: %w", sr.ID, ErrNotFound)
	}
	return nil
}

// UpdateSeries updates an existing series' metadata fields.
// Returns ErrNotFound if the series does not exist.
func (s *Store) UpdateSeries(sr *Series) error { return updateSeries(s.db, sr) }

// UpdateSeries updates an existing series within a transaction.
func (t *Tx) UpdateSeries(sr *Series) error { return updateSeries(t.tx, sr) }

func deleteSeries(q querier, id int64) error {
	// Episode variants have no FK to follow the cascade, so clear them first.
	if _, err := q.Exec(`
		DELETE FROM quality_variants WHERE owner_type = 'episode' AND owner_id IN (
			SELECT e.id FROM episodes e
			JOIN seasons se ON e.season_id = se.id
			WHERE se.series_id = ?)`, id); err != nil {
		return fmt.Errorf("delete series %d episode variants: %w", id, mapSQLiteError(err))
	}
	if _, err := q.Exec("DELETE FROM alternative_names WHERE owner_type = 'series' AND owner_id = ?", id); err != nil {
		return fmt.Errorf("delete series %d aliases: %w", id, mapSQLiteError(err))
	}
	// Seasons and episodes cascade.
	if _, err := q.Exec("DELETE FROM series WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete series %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteSeries removes a series with all seasons, episodes, variants and
// aliases in one transaction. Idempotent.
func (s *Store) DeleteSeries(id int64) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := deleteSeries(tx.tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteSeries removes a series and its children within a transaction.
func (t *Tx) DeleteSeries(id int64) error { return deleteSeries(t.tx, id) }

// IncrementSeriesViews bumps the view counter.
func (s *Store) IncrementSeriesViews(id int64) error {
	if _, err := s.db.Exec("UPDATE series SET views = views + 1 WHERE id = ?", id); err != nil {
		return fmt.Errorf("increment series %d views: %w", id, mapSQLiteError(err))
	}
	return nil
}
