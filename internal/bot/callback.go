// internal/bot/callback.go
package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cinegram/cinegram/internal/catalog"
)

// Action identifies what a button tap asks for.
type Action string

const (
	ActionMenu       Action = "menu" // top-level menu for a content type
	ActionList       Action = "ls"   // one page of a listing
	ActionCategories Action = "cats" // category picker for a content type
	ActionDetail     Action = "show"
	ActionSeasons    Action = "sns"
	ActionEpisodes   Action = "eps"
	ActionDownload   Action = "dl"
	ActionKind       Action = "kind" // movie/series choice during upload
	ActionSkip       Action = "skip" // skip an optional upload step
	ActionDone       Action = "done" // finish the media/quality loop
	ActionCancel     Action = "cancel"
	ActionJoined     Action = "joined" // user claims channel membership
	ActionShare      Action = "share"
)

// Callback is the decoded form of an inline button payload. Every button
// the bot emits goes through Encode, and every tap comes back through
// Decode; handlers never pick payload strings apart themselves.
type Callback struct {
	Action   Action
	Type     catalog.OwnerType // movie or series listings
	ID       int64
	Page     int
	Sort     catalog.SortOrder
	Category string
}

// Encode renders the callback as "action;type;id;page;sort;category".
// Telegram caps callback data at 64 bytes, so fields stay positional and
// empty trailing fields are kept (the fixed frame is well under the cap
// for any real category label).
func (c Callback) Encode() string {
	return strings.Join([]string{
		string(c.Action),
		string(c.Type),
		strconv.FormatInt(c.ID, 10),
		strconv.Itoa(c.Page),
		string(c.Sort),
		c.Category,
	}, ";")
}

// DecodeCallback parses a payload produced by Encode.
func DecodeCallback(data string) (Callback, error) {
	// Category is last so SplitN lets it carry separator characters.
	parts := strings.SplitN(data, ";", 6)
	if len(parts) != 6 {
		return Callback{}, fmt.Errorf("callback: malformed payload %q", data)
	}

	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Callback{}, fmt.Errorf("callback: bad id in %q: %w", data, err)
	}
	page, err := strconv.Atoi(parts[3])
	if err != nil {
		return Callback{}, fmt.Errorf("callback: bad page in %q: %w", data, err)
	}

	cb := Callback{
		Action:   Action(parts[0]),
		Type:     catalog.OwnerType(parts[1]),
		ID:       id,
		Page:     page,
		Sort:     catalog.SortOrder(parts[4]),
		Category: parts[5],
	}
	if cb.Action == "" {
		return Callback{}, fmt.Errorf("callback: missing action in %q", data)
	}
	return cb, nil
}
