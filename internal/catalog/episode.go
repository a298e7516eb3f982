package catalog

import (
	"database/sql"
	"errors"
	"fmt"
)

func addSeason(q querier, se *Season) error {
	result, err := q.Exec(`
		INSERT INTO seasons (series_id, season_number)
		VALUES (?, ?)`,
		se.SeriesID, se.Number,
	)
	if err != nil {
		return fmt.Errorf("insert season: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	se.ID = id
	return nil
}

// AddSeason inserts a new season. Sets ID on the struct.
// Returns ErrDuplicate if the series already has that season number.
func (s *Store) AddSeason(se *Season) error { return addSeason(s.db, se) }

// AddSeason inserts a new season within a transaction.
func (t *Tx) AddSeason(se *Season) error { return addSeason(t.tx, se) }

func getSeason(q querier, id int64) (*Season, error) {
	se := &Season{}
	err := q.QueryRow(`
		SELECT id, series_id, season_number FROM seasons WHERE id = ?`, id,
	).Scan(&se.ID, &se.SeriesID, &se.Number)
	if err != nil {
		return nil, fmt.Errorf("get season %d: %w", id, mapSQLiteError(err))
	}
	return se, nil
}

// GetSeason retrieves a season by ID.
// Returns ErrNotFound if the season does not exist.
func (s *Store) GetSeason(id int64) (*Season, error) { return getSeason(s.db, id) }

// GetSeason retrieves a season by ID within a transaction.
func (t *Tx) GetSeason(id int64) (*Season, error) { return getSeason(t.tx, id) }

func listSeasons(q querier, seriesID int64) ([]*Season, error) {
	rows, err := q.Query(`
		SELECT id, series_id, season_number FROM seasons
		WHERE series_id = ? ORDER BY season_number`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Season
	for rows.Next() {
		se := &Season{}
		if err := rows.Scan(&se.ID, &se.SeriesID, &se.Number); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		results = append(results, se)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seasons: %w", err)
	}
	return results, nil
}

// ListSeasons returns a series' seasons ordered by number.
func (s *Store) ListSeasons(seriesID int64) ([]*Season, error) { return listSeasons(s.db, seriesID) }

// ListSeasons returns a series' seasons within a transaction.
func (t *Tx) ListSeasons(seriesID int64) ([]*Season, error) { return listSeasons(t.tx, seriesID) }

func findOrCreateSeason(q querier, seriesID int64, number int) (*Season, bool, error) {
	se := &Season{}
	err := q.QueryRow(`
		SELECT id, series_id, season_number FROM seasons
		WHERE series_id = ? AND season_number = ?`, seriesID, number,
	).Scan(&se.ID, &se.SeriesID, &se.Number)
	if err == nil {
		return se, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("find season: %w", err)
	}
	se = &Season{SeriesID: seriesID, Number: number}
	if err := addSeason(q, se); err != nil {
		return nil, false, err
	}
	return se, true, nil
}

// FindOrCreateSeason finds an existing season by number or creates it.
// Returns (season, created, error).
func (s *Store) FindOrCreateSeason(seriesID int64, number int) (*Season, bool, error) {
	return findOrCreateSeason(s.db, seriesID, number)
}

// FindOrCreateSeason finds or creates a season within a transaction.
func (t *Tx) FindOrCreateSeason(seriesID int64, number int) (*Season, bool, error) {
	return findOrCreateSeason(t.tx, seriesID, number)
}

// DeleteSeason removes a season, its episodes and their variants in one
// transaction. Idempotent.
func (s *Store) DeleteSeason(id int64) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.tx.Exec(`
		DELETE FROM quality_variants WHERE owner_type = 'episode' AND owner_id IN (
			SELECT id FROM episodes WHERE season_id = ?)`, id); err != nil {
		return fmt.Errorf("delete season %d episode variants: %w", id, mapSQLiteError(err))
	}
	if _, err := tx.tx.Exec("DELETE FROM seasons WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete season %d: %w", id, mapSQLiteError(err))
	}
	return tx.Commit()
}

func addEpisode(q querier, e *Episode) error {
	result, err := q.Exec(`
		INSERT INTO episodes (season_id, episode_number, title)
		VALUES (?, ?, ?)`,
		e.SeasonID, e.Number, e.Title,
	)
	if err != nil {
		return fmt.Errorf("insert episode: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	e.ID = id
	return nil
}

// AddEpisode inserts a new episode. Sets ID on the struct.
// Returns ErrDuplicate if the season already has that episode number.
func (s *Store) AddEpisode(e *Episode) error { return addEpisode(s.db, e) }

// AddEpisode inserts a new episode within a transaction.
func (t *Tx) AddEpisode(e *Episode) error { return addEpisode(t.tx, e) }

func getEpisode(q querier, id int64) (*Episode, error) {
	e := &Episode{}
	err := q.QueryRow(`
		SELECT id, season_id, episode_number, title, downloads
		FROM episodes WHERE id = ?`, id,
	).Scan(&e.ID, &e.SeasonID, &e.Number, &e.Title, &e.Downloads)
	if err != nil {
		return nil, fmt.Errorf("get episode %d: %w", id, mapSQLiteError(err))
	}
	return e, nil
}

// GetEpisode retrieves an episode by ID.
// Returns ErrNotFound if the episode does not exist.
func (s *Store) GetEpisode(id int64) (*Episode, error) { return getEpisode(s.db, id) }

// GetEpisode retrieves an episode by ID within a transaction.
func (t *Tx) GetEpisode(id int64) (*Episode, error) { return getEpisode(t.tx, id) }

func listEpisodes(q querier, seasonID int64) ([]*Episode, error) {
	rows, err := q.Query(`
		SELECT id, season_id, episode_number, title, downloads FROM episodes
		WHERE season_id = ? ORDER BY episode_number`, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Episode
	for rows.Next() {
		e := &Episode{}
		if err := rows.Scan(&e.ID, &e.SeasonID, &e.Number, &e.Title, &e.Downloads); err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episodes: %w", err)
	}
	return results, nil
}

// ListEpisodes returns a season's episodes ordered by number.
func (s *Store) ListEpisodes(seasonID int64) ([]*Episode, error) { return listEpisodes(s.db, seasonID) }

// ListEpisodes returns a season's episodes within a transaction.
func (t *Tx) ListEpisodes(seasonID int64) ([]*Episode, error) { return listEpisodes(t.tx, seasonID) }

func updateEpisode(q querier, e *Episode) error {
	result, err := q.Exec(`
		UPDATE episodes SET season_id = ?, episode_number = ?, title = ?
		WHERE id = ?`,
		e.SeasonID, e.Number, e.Title, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update episode %d: %w", e.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update episode %d: %w", e.ID, ErrNotFound)
	}
	return nil
}

// UpdateEpisode updates an existing episode.
// Returns ErrNotFound if the episode does not exist.
func (s *Store) UpdateEpisode(e *Episode) error { return updateEpisode(s.db, e) }

// UpdateEpisode updates an existing episode within a transaction.
func (t *Tx) UpdateEpisode(e *Episode) error { return updateEpisode(t.tx, e) }

// DeleteEpisode removes an episode and its variants in one transaction.
// Idempotent.
func (s *Store) DeleteEpisode(id int64) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.tx.Exec("DELETE FROM quality_variants WHERE owner_type = 'episode' AND owner_id = ?", id); err != nil {
		return fmt.Errorf("delete episode %d variants: %w", id, mapSQLiteError(err))
	}
	if _, err := tx.tx.Exec("DELETE FROM episodes WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete episode %d: %w", id, mapSQLiteError(err))
	}
	return tx.Commit()
}

// IncrementEpisodeDownloads bumps the download counter.
func (s *Store) IncrementEpisodeDownloads(id int64) error {
	if _, err := s.db.Exec("UPDATE episodes SET downloads = downloads + 1 WHERE id = ?", id); err != nil {
		return fmt.Errorf("increment episode %d downloads: %w", id, mapSQLiteError(err))
	}
	return nil
}

// SeriesStats contains aggregate counts for one series.
type SeriesStats struct {
	SeasonCount  int
	EpisodeCount int
}

// GetSeriesStats returns season and episode counts for a series.
func (s *Store) GetSeriesStats(seriesID int64) (*SeriesStats, error) {
	stats := &SeriesStats{}
	err := s.db.QueryRow(`
		SELECT COUNT(DISTINCT se.id), COUNT(e.id)
		FROM seasons se
		LEFT JOIN episodes e ON e.season_id = se.id
		WHERE se.series_id = ?`, seriesID,
	).Scan(&stats.SeasonCount, &stats.EpisodeCount)
	if err != nil {
		return nil, fmt.Errorf("get series stats: %w", err)
	}
	return stats, nil
}
