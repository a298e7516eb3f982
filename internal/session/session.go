// Package session holds per-admin upload conversation state in memory.
// Sessions are keyed by (chat, user), expire after a configurable idle
// TTL, and are lost on restart by design.
package session

import (
	"context"
	"sync"
	"time"
)

// State identifies the current step of an upload conversation.
type State string

const (
	StateIdle             State = "idle"
	StateAwaitingType     State = "awaiting_type"
	StateAwaitingTitle    State = "awaiting_title"
	StateAwaitingYear     State = "awaiting_year"
	StateAwaitingDesc     State = "awaiting_description"
	StateAwaitingTags     State = "awaiting_tags"
	StateAwaitingCategory State = "awaiting_category"
	StateAwaitingPoster   State = "awaiting_poster"
	StateAwaitingSeason   State = "awaiting_season_number"
	StateAwaitingEpisode  State = "awaiting_episode"
	StateAwaitingMedia    State = "awaiting_media_file"
	StateAwaitingQuality  State = "awaiting_quality_label"
	StateAwaitingAltNames State = "awaiting_alternative_names"

	// StateAwaitingBroadcast is not part of the upload chain: it marks an
	// admin who ran /broadcast and owes the bot the message to fan out.
	StateAwaitingBroadcast State = "awaiting_broadcast"
)

// Kind is the content type being uploaded.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

// PendingFile is a media attachment waiting for its quality label.
type PendingFile struct {
	FileRef   string
	SizeBytes *int64
}

// Variant is a labeled file accumulated during the conversation.
type Variant struct {
	Quality   string
	FileRef   string
	SizeBytes *int64
}

// Draft accumulates everything collected step by step. Nothing touches
// the catalog until finalize.
type Draft struct {
	Kind        Kind
	Title       string
	Year        *int
	Description string
	Tags        string
	Category    *string
	PosterRef   *string

	SeasonNumber  int
	EpisodeNumber int
	EpisodeTitle  string
	AltNames      []string

	Pending  *PendingFile
	Variants []Variant
}

// Session is one admin's upload conversation.
type Session struct {
	ChatID   int64
	UserID   int64
	State    State
	Draft    Draft
	LastSeen time.Time
}

// Key identifies a session.
type Key struct {
	ChatID int64
	UserID int64
}

// Store keeps sessions in memory with TTL eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[Key]*Session
	ttl      time.Duration
}

// NewStore creates a session store. Sessions idle longer than ttl are
// dropped; ttl <= 0 disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[Key]*Session),
		ttl:      ttl,
	}
}

// Get returns the session for (chat, user), or nil if none exists or it
// has expired.
func (s *Store) Get(chatID, userID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key{ChatID: chatID, UserID: userID}
	sess, ok := s.sessions[key]
	if !ok {
		return nil
	}
	if s.expired(sess, time.Now()) {
		delete(s.sessions, key)
		return nil
	}
	sess.LastSeen = time.Now()
	return sess
}

// Put stores a session, stamping its last-seen time.
func (s *Store) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.LastSeen = time.Now()
	s.sessions[Key{ChatID: sess.ChatID, UserID: sess.UserID}] = sess
}

// Delete removes the session for (chat, user). Used by explicit cancel
// and by finalize.
func (s *Store) Delete(chatID, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, Key{ChatID: chatID, UserID: userID})
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run evicts expired sessions on the given interval until the context
// is canceled.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.evict(time.Now())
		}
	}
}

func (s *Store) evict(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, key)
		}
	}
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.LastSeen) > s.ttl
}
