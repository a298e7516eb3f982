package catalog

import (
	"fmt"
	"time"
)

func addVariant(q querier, v *QualityVariant) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO quality_variants (owner_type, owner_id, quality, file_ref, size_bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		v.OwnerType, v.OwnerID, v.Quality, v.FileRef, v.SizeBytes, now,
	)
	if err != nil {
		return fmt.Errorf("insert variant: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	v.ID = id
	v.CreatedAt = now
	return nil
}

// AddVariant inserts a quality variant for a movie or episode.
// Sets ID and CreatedAt on the struct.
func (s *Store) AddVariant(v *QualityVariant) error { return addVariant(s.db, v) }

// AddVariant inserts a quality variant within a transaction.
func (t *Tx) AddVariant(v *QualityVariant) error { return addVariant(t.tx, v) }

func getVariant(q querier, id int64) (*QualityVariant, error) {
	v := &QualityVariant{}
	err := q.QueryRow(`
		SELECT id, owner_type, owner_id, quality, file_ref, size_bytes, created_at
		FROM quality_variants WHERE id = ?`, id,
	).Scan(&v.ID, &v.OwnerType, &v.OwnerID, &v.Quality, &v.FileRef, &v.SizeBytes, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get variant %d: %w", id, mapSQLiteError(err))
	}
	return v, nil
}

// GetVariant retrieves a quality variant by ID.
// Returns ErrNotFound if the variant does not exist.
func (s *Store) GetVariant(id int64) (*QualityVariant, error) { return getVariant(s.db, id) }

// GetVariant retrieves a quality variant within a transaction.
func (t *Tx) GetVariant(id int64) (*QualityVariant, error) { return getVariant(t.tx, id) }

func listVariants(q querier, owner OwnerType, ownerID int64) ([]*QualityVariant, error) {
	rows, err := q.Query(`
		SELECT id, owner_type, owner_id, quality, file_ref, size_bytes, created_at
		FROM quality_variants WHERE owner_type = ? AND owner_id = ?
		ORDER BY id`, owner, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*QualityVariant
	for rows.Next() {
		v := &QualityVariant{}
		if err := rows.Scan(&v.ID, &v.OwnerType, &v.OwnerID, &v.Quality, &v.FileRef, &v.SizeBytes, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		results = append(results, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variants: %w", err)
	}
	return results, nil
}

// ListVariants returns the quality variants of one movie or episode.
func (s *Store) ListVariants(owner OwnerType, ownerID int64) ([]*QualityVariant, error) {
	return listVariants(s.db, owner, ownerID)
}

// ListVariants returns quality variants within a transaction.
func (t *Tx) ListVariants(owner OwnerType, ownerID int64) ([]*QualityVariant, error) {
	return listVariants(t.tx, owner, ownerID)
}

// DeleteVariant removes a quality variant by ID. Idempotent.
func (s *Store) DeleteVariant(id int64) error {
	if _, err := s.db.Exec("DELETE FROM quality_variants WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete variant %d: %w", id, mapSQLiteError(err))
	}
	return nil
}
