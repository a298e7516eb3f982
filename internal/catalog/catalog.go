// Package catalog manages the media catalog (movies, series, seasons,
// episodes, quality variants, users).
package catalog

import (
	"time"
)

// OwnerType identifies which entity owns a quality variant or
// alternative name.
type OwnerType string

const (
	OwnerMovie   OwnerType = "movie"
	OwnerSeries  OwnerType = "series"
	OwnerEpisode OwnerType = "episode"
)

// Movie is a standalone catalog entry with its own quality variants.
type Movie struct {
	ID          int64
	Title       string
	Year        *int // nil when unknown
	Description string
	Tags        string // comma-separated free text
	Category    *string
	PosterRef   *string // opaque file handle, nil when no poster
	Views       int64
	Downloads   int64
	CreatedAt   time.Time
}

// Series owns ordered seasons.
type Series struct {
	ID          int64
	Title       string
	Description string
	Tags        string
	Category    *string
	PosterRef   *string
	Views       int64
	CreatedAt   time.Time
}

// Season belongs to a series. Number is unique within the series.
type Season struct {
	ID       int64
	SeriesID int64
	Number   int
}

// Episode belongs to a season. Number is unique within the season.
type Episode struct {
	ID        int64
	SeasonID  int64
	Number    int
	Title     string // optional, "" when absent
	Downloads int64
}

// QualityVariant binds one uploaded file to a movie or episode under a
// quality label such as "1080p".
type QualityVariant struct {
	ID        int64
	OwnerType OwnerType
	OwnerID   int64
	Quality   string
	FileRef   string
	SizeBytes *int64
	CreatedAt time.Time
}

// AlternativeName is an extra search alias for a movie or series.
type AlternativeName struct {
	ID        int64
	OwnerType OwnerType
	OwnerID   int64
	Name      string
}

// User mirrors a Telegram identity plus the cached membership verdict.
type User struct {
	ID         int64
	Username   string
	FirstName  string
	LastName   string
	Joined     bool
	CheckedAt  *time.Time // when the membership verdict was last refreshed
	CreatedAt  time.Time
	LastSeenAt *time.Time
}
