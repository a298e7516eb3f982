package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinegram/cinegram/internal/catalog"
)

func TestCallback_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cb   Callback
	}{
		{"detail", Callback{Action: ActionDetail, Type: catalog.OwnerMovie, ID: 42}},
		{"listing page", Callback{Action: ActionList, Type: catalog.OwnerSeries, Page: 3, Sort: catalog.SortAlphabetical}},
		{"category filter", Callback{Action: ActionList, Type: catalog.OwnerMovie, Page: 1, Sort: catalog.SortYearDesc, Category: "Action"}},
		{"bare action", Callback{Action: ActionJoined}},
		{"download", Callback{Action: ActionDownload, Type: catalog.OwnerEpisode, ID: 9001}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := DecodeCallback(tt.cb.Encode())
			require.NoError(t, err)
			assert.Equal(t, tt.cb, decoded)
		})
	}
}

// Telegram rejects callback data over 64 bytes.
func TestCallback_FitsTelegramLimit(t *testing.T) {
	cb := Callback{
		Action:   ActionList,
		Type:     catalog.OwnerSeries,
		ID:       1<<62 + 1,
		Page:     99999,
		Sort:     catalog.SortAlphabetical,
		Category: "Documentary",
	}
	assert.LessOrEqual(t, len(cb.Encode()), 64)
}

func TestCallback_CategoryWithSeparator(t *testing.T) {
	cb := Callback{Action: ActionList, Type: catalog.OwnerMovie, Category: "odd;name"}
	decoded, err := DecodeCallback(cb.Encode())
	require.NoError(t, err)
	assert.Equal(t, "odd;name", decoded.Category)
}

func TestDecodeCallback_Malformed(t *testing.T) {
	for _, data := range []string{
		"",
		"show",
		"show;movie;42",
		"show;movie;notanumber;0;;",
		"show;movie;42;notapage;;",
		";movie;42;0;;",
	} {
		_, err := DecodeCallback(data)
		assert.Error(t, err, "payload %q should not decode", data)
	}
}
