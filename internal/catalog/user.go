package catalog

import (
	"fmt"
	"time"
)

// UpsertUser inserts a user row on first contact and refreshes display
// fields and last-seen on subsequent ones. The membership verdict is
// left untouched; SetMembership owns that.
func (s *Store) UpsertUser(u *User) error {
	now := time.Now()
	_, err := s.db.Exec(`
		INSERT INTO users (id, username, first_name, last_name, created_at, last_seen_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			last_seen_at = excluded.last_seen_at`,
		u.ID, u.Username, u.FirstName, u.LastName, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", u.ID, mapSQLiteError(err))
	}
	u.LastSeenAt = &now
	return nil
}

// GetUser retrieves a user by Telegram ID.
// Returns ErrNotFound if the user has never been seen.
func (s *Store) GetUser(id int64) (*User, error) {
	u := &User{}
	err := s.db.QueryRow(`
		SELECT id, username, first_name, last_name, joined_channels, checked_at, created_at, last_seen_at
		FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Joined, &u.CheckedAt, &u.CreatedAt, &u.LastSeenAt)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, mapSQLiteError(err))
	}
	return u, nil
}

// SetMembership records the membership verdict and when it was checked.
func (s *Store) SetMembership(id int64, joined bool, checkedAt time.Time) error {
	_, err := s.db.Exec(
		"UPDATE users SET joined_channels = ?, checked_at = ? WHERE id = ?",
		joined, checkedAt, id,
	)
	if err != nil {
		return fmt.Errorf("set membership for user %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// ListUsers returns all known users, newest first.
func (s *Store) ListUsers() ([]*User, error) {
	rows, err := s.db.Query(`
		SELECT id, username, first_name, last_name, joined_channels, checked_at, created_at, last_seen_at
		FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*User
	for rows.Next() {
		u := &User{}
		if err := rows.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Joined, &u.CheckedAt, &u.CreatedAt, &u.LastSeenAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		results = append(results, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return results, nil
}

// Stats contains aggregate catalog counts.
type Stats struct {
	Movies   int
	Series   int
	Episodes int
	Users    int
}

// GetStats returns aggregate counts across the catalog.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{}
	err := s.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM movies),
			(SELECT COUNT(*) FROM series),
			(SELECT COUNT(*) FROM episodes),
			(SELECT COUNT(*) FROM users)`,
	).Scan(&stats.Movies, &stats.Series, &stats.Episodes, &stats.Users)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return stats, nil
}
