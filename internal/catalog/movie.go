package catalog

import (
	"fmt"
	"strings"
	"time"
)

func addMovie(q querier, m *Movie) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO movies (title, year, description, tags, category, poster_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.Title, m.Year, m.Description, m.Tags, m.Category, m.PosterRef, now,
	)
	if err != nil {
		return fmt.Errorf("insert movie: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	m.ID = id
	m.CreatedAt = now
	return nil
}

// AddMovie inserts a new movie into the database.
// Sets ID and CreatedAt on the struct.
func (s *Store) AddMovie(m *Movie) error { return addMovie(s.db, m) }

// AddMovie inserts a new movie within a transaction.
func (t *Tx) AddMovie(m *Movie) error { return addMovie(t.tx, m) }

func getMovie(q querier, id int64) (*Movie, error) {
	m := &Movie{}
	err := q.QueryRow(`
		SELECT id, title, year, description, tags, category, poster_ref, views, downloads, created_at
		FROM movies WHERE id = ?`, id,
	).Scan(&m.ID, &m.Title, &m.Year, &m.Description, &m.Tags, &m.Category, &m.PosterRef, &m.Views, &m.Downloads, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get movie %d: %w", id, mapSQLiteError(err))
	}
	return m, nil
}

// GetMovie retrieves a movie by ID.
// Returns ErrNotFound if the movie does not exist.
func (s *Store) GetMovie(id int64) (*Movie, error) { return getMovie(s.db, id) }

// GetMovie retrieves a movie by ID within a transaction.
func (t *Tx) GetMovie(id int64) (*Movie, error) { return getMovie(t.tx, id) }

func listMovies(q querier, f MovieFilter) ([]*Movie, int, error) {
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
	if err := q.QueryRow("SELECT COUNT(*) FROM movies "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movies: %w", err)
	}

	query := "SELECT id, title, year, description, tags, category, poster_ref, views, downloads, created_at FROM movies " +
		whereClause + " ORDER BY " + f.Sort.orderClause()
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Movie
	for rows.Next() {
		m := &Movie{}
		if err := rows.Scan(&m.ID, &m.Title, &m.Year, &m.Description, &m.Tags, &m.Category, &m.PosterRef, &m.Views, &m.Downloads, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan movie: %w", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate movies: %w", err)
	}

	return results, total, nil
}

// ListMovies returns movies matching the filter with pagination.
// Returns (results, totalCount, error) so callers can render exact
// prev/next controls instead of guessing from a full page.
func (s *Store) ListMovies(f MovieFilter) ([]*Movie, int, error) { return listMovies(s.db, f) }

// ListMovies returns movies matching the filter within a transaction.
func (t *Tx) ListMovies(f MovieFilter) ([]*Movie, int, error) { return listMovies(t.tx, f) }

func updateMovie(q querier, m *Movie) error {
	result, err := q.Exec(`
		UPDATE movies SET title = ?, year = ?, description = ?, tags = ?, category = ?, poster_ref = ?
		WHERE id = ?`,
		m.Title, m.Year, m.Description, m.Tags, m.Category, m.PosterRef, m.ID,
	)
	if err != nil {
		return fmt.Errorf("update movie %d: %w", m.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update movie %d: %w", m.ID, ErrNotFound)
	}
	return nil
}

// UpdateMovie updates an existing movie's metadata fields.
// Returns ErrNotFound if the movie does not exist.
func (s *Store) UpdateMovie(m *Movie) error { return updateMovie(s.db, m) }

// UpdateMovie updates an existing movie within a transaction.
func (t *Tx) UpdateMovie(m *Movie) error { return updateMovie(t.tx, m) }

func deleteMovie(q querier, id int64) error {
	if _, err := q.Exec("DELETE FROM quality_variants WHERE owner_type = 'movie' AND owner_id = ?", id); err != nil {
		return fmt.Errorf("delete movie %d variants: %w", id, mapSQLiteError(err))
	}
	if _, err := q.Exec("DELETE FROM alternative_names WHERE owner_type = 'movie' AND owner_id = ?", id); err != nil {
		return fmt.Errorf("delete movie %d aliases: %w", id, mapSQLiteError(err))
	}
	if _, err := q.Exec("DELETE FROM movies WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete movie %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteMovie removes a movie and its variants and aliases in one
// transaction. Idempotent - no error if the movie does not exist.
func (s *Store) DeleteMovie(id int64) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := deleteMovie(tx.tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteMovie removes a movie and its children within a transaction.
func (t *Tx) DeleteMovie(id int64) error { return deleteMovie(t.tx, id) }

// IncrementMovieViews bumps the view counter.
func (s *Store) IncrementMovieViews(id int64) error {
	if _, err := s.db.Exec("UPDATE movies SET views = views + 1 WHERE id = ?", id); err != nil {
		return fmt.Errorf("increment movie %d views: %w", id, mapSQLiteError(err))
	}
	return nil
}

// IncrementMovieDownloads bumps the download counter.
func (s *Store) IncrementMovieDownloads(id int64) error {
	if _, err := s.db.Exec("UPDATE movies SET downloads = downloads + 1 WHERE id = ?", id); err != nil {
		return fmt.Errorf("increment movie %d downloads: %w", id, mapSQLiteError(err))
	}
	return nil
}
