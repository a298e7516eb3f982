// internal/bot/parse.go
package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	errBadSegmentCount = errors.New("wrong number of segments")
	errBadYear         = errors.New("year must be a four digit number")
	errBadNumber       = errors.New("expected a positive number")
)

// movieMeta is the parsed "title|year|description|tags" form.
type movieMeta struct {
	Title       string
	Year        *int
	Description string
	Tags        string
}

// seriesMeta is the parsed "title|description|tags" form.
type seriesMeta struct {
	Title       string
	Description string
	Tags        string
}

// episodeMeta is the parsed "number|title" form. Title may be empty.
type episodeMeta struct {
	Number int
	Title  string
}

// splitPipes splits on '|' and trims each segment. It never drops empty
// segments so the caller sees the real segment count.
func splitPipes(s string) []string {
	parts := strings.Split(s, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseMovieMeta parses the one-shot movie form. At least four segments
// are required; anything past the fourth is folded back into tags so a
// stray pipe inside the tag list does not reject the input.
func parseMovieMeta(s string) (movieMeta, error) {
	parts := splitPipes(s)
	if len(parts) < 4 {
		return movieMeta{}, fmt.Errorf("%w: need title|year|description|tags", errBadSegmentCount)
	}

	year, err := parseYear(parts[1])
	if err != nil {
		return movieMeta{}, err
	}

	return movieMeta{
		Title:       parts[0],
		Year:        year,
		Description: parts[2],
		Tags:        strings.Join(parts[3:], "|"),
	}, nil
}

// parseSeriesMeta parses the one-shot series form, minimum three segments.
func parseSeriesMeta(s string) (seriesMeta, error) {
	parts := splitPipes(s)
	if len(parts) < 3 {
		return seriesMeta{}, fmt.Errorf("%w: need title|description|tags", errBadSegmentCount)
	}

	return seriesMeta{
		Title:       parts[0],
		Description: parts[1],
		Tags:        strings.Join(parts[2:], "|"),
	}, nil
}

// parseEpisodeMeta parses "number|title". A bare number is accepted with
// an empty title.
func parseEpisodeMeta(s string) (episodeMeta, error) {
	parts := splitPipes(s)

	n, err := strconv.Atoi(parts[0])
	if err != nil || n < 1 {
		return episodeMeta{}, errBadNumber
	}

	meta := episodeMeta{Number: n}
	if len(parts) > 1 {
		meta.Title = strings.Join(parts[1:], "|")
	}
	return meta, nil
}

// parseYear accepts a four digit year or the literal "-" for unknown.
func parseYear(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil, nil
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 1888 || y > time.Now().Year()+5 {
		return nil, errBadYear
	}
	return &y, nil
}

// parseSeasonNumber accepts a positive integer.
func parseSeasonNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, errBadNumber
	}
	return n, nil
}

// splitAltNames breaks a comma separated alias list, dropping empties.
func splitAltNames(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			names = append(names, p)
		}
	}
	return names
}
