package catalog

import (
	"fmt"
)

func addAlternativeName(q querier, a *AlternativeName) error {
	result, err := q.Exec(`
		INSERT INTO alternative_names (owner_type, owner_id, name)
		VALUES (?, ?, ?)`,
		a.OwnerType, a.OwnerID, a.Name,
	)
	if err != nil {
		return fmt.Errorf("insert alternative name: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	a.ID = id
	return nil
}

// AddAlternativeName inserts a search alias for a movie or series.
// Sets ID on the struct.
func (s *Store) AddAlternativeName(a *AlternativeName) error { return addAlternativeName(s.db, a) }

// AddAlternativeName inserts a search alias within a transaction.
func (t *Tx) AddAlternativeName(a *AlternativeName) error { return addAlternativeName(t.tx, a) }

func listAlternativeNames(q querier, owner OwnerType, ownerID int64) ([]*AlternativeName, error) {
	rows, err := q.Query(`
		SELECT id, owner_type, owner_id, name FROM alternative_names
		WHERE owner_type = ? AND owner_id = ? ORDER BY id`, owner, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list alternative names: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*AlternativeName
	for rows.Next() {
		a := &AlternativeName{}
		if err := rows.Scan(&a.ID, &a.OwnerType, &a.OwnerID, &a.Name); err != nil {
			return nil, fmt.Errorf("scan alternative name: %w", err)
		}
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alternative names: %w", err)
	}
	return results, nil
}

// ListAlternativeNames returns the aliases of one movie or series.
func (s *Store) ListAlternativeNames(owner OwnerType, ownerID int64) ([]*AlternativeName, error) {
	return listAlternativeNames(s.db, owner, ownerID)
}

// ListAlternativeNames returns aliases within a transaction.
func (t *Tx) ListAlternativeNames(owner OwnerType, ownerID int64) ([]*AlternativeName, error) {
	return listAlternativeNames(t.tx, owner, ownerID)
}

// DeleteAlternativeName removes an alias by ID. Idempotent.
func (s *Store) DeleteAlternativeName(id int64) error {
	if _, err := s.db.Exec("DELETE FROM alternative_names WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete alternative name %d: %w", id, mapSQLiteError(err))
	}
	return nil
}
