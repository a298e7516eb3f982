package bot

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinegram/cinegram/internal/catalog"
)

func addMovie(t *testing.T, store *catalog.Store, title string, year int) *catalog.Movie {
	t.Helper()
	m := &catalog.Movie{Title: title, Year: &year, Description: "desc", Tags: "tag"}
	require.NoError(t, store.AddMovie(m))
	return m
}

func TestStart_WelcomeMenu(t *testing.T) {
	h := newHarness(t, harnessConfig{})

	h.handle(textUpdate(testChat, userID, "/start"))

	msg := h.lastSent(t)
	assert.Contains(t, msg.Text, "Hi Test")
	require.NotEmpty(t, msg.Buttons)
}

func TestStart_DeepLinkResolvesDetail(t *testing.T) {
	h := newHarness(t, harnessConfig{})
	m := addMovie(t, h.store, "Interstellar", 2014)

	h.handle(textUpdate(testChat, userID, fmt.Sprintf("/start movie_%d", m.ID)))

	msg := h.lastSent(t)
	assert.Contains(t, msg.Text, "Interstellar")
	assert.Contains(t, msg.Text, "2014")
}

func TestStart_ShareDeepLink(t *testing.T) {
	h := newHarness(t, harnessConfig{})
	m := addMovie(t, h.store, "Alien", 1979)

	h.handle(textUpdate(testChat, userID, fmt.Sprintf("/start share_movie_%d", m.ID)))
	assert.Contains(t, h.lastSent(t).Text, "Alien")
}

func TestStart_MissingID(t *testing.T) {
	h := newHarness(t, harnessConfig{})

	h.handle(textUpdate(testChat, userID, "/start movie_42"))
	assert.Contains(t, h.lastSent(t).Text, "no longer in the library")
}

func TestStart_GarbagePayload(t *testing.T) {
	h := newHarness(t, harnessConfig{})

	h.handle(textUpdate(testChat, userID, "/start blorp"))
	assert.Contains(t, h.lastSent(t).Text, "doesn't point anywhere")
}

func TestSearch_TooShort(t *testing.T) {
	h := newHarness(t, harnessConfig{})

	h.handle(textUpdate(testChat, userID, "a"))
	assert.Contains(t, h.lastSent(t).Text, "at least 2 characters")
}

func TestSearch_NoResults(t *testing.T) {
	h := newHarness(t, harnessConfig{})

	h.handle(textUpdate(testChat, userID, "zz"))
	assert.Contains(t, h.lastSent(t).Text, "Nothing found")
}

func TestSearch_RendersHits(t *testing.T) {
	h := newHarness(t, harnessConfig{})
	addMovie(t, h.store, "Interstellar", 2014)

	h.handle(textUpdate(testChat, userID, "interstellar"))

	msg := h.lastSent(t)
	assert.Contains(t, msg.Text, "result")
	require.Len(t, msg.Buttons, 1)
	assert.Contains(t, msg.Buttons[0][0].Text, "Interstellar")
}

func TestListing_ViaCallback(t *testing.T) {
	h := newHarness(t, harnessConfig{opts: Options{Admins: []int64{adminID}, PageSize: 2}})
	for i := 0; i < 3; i++ {
		addMovie(t, h.store, fmt.Sprintf("Movie %d", i), 2000+i)
	}

	h.handle(callbackUpdate(testChat, userID, Callback{Action: ActionList, Type: catalog.OwnerMovie, Sort: catalog.SortAlphabetical}))

	require.NotEmpty(t, h.edits)
	assert.Contains(t, h.edits[len(h.edits)-1], "Page 1 of 2 (3 total)")
}

func TestListing_Empty(t *testing.T) {
	h := newHarness(t, harnessConfig{})

	h.handle(callbackUpdate(testChat, userID, Callback{Action: ActionList, Type: catalog.OwnerMovie}))

	require.NotEmpty(t, h.edits)
	assert.Contains(t, h.edits[len(h.edits)-1], "Nothing here yet")
}

// The sort menu leads to a category picker, and picking one filters the
// listing to that category.
func TestListing_CategoryDrilldown(t *testing.T) {
	h := newHarness(t, harnessConfig{})
	action := addMovie(t, h.store, "Die Hard", 1988)
	cat := "Action"
	action.Category = &cat
	require.NoError(t, h.store.UpdateMovie(action))
	addMovie(t, h.store, "Uncategorized Movie", 2001)

	h.handle(callbackUpdate(testChat, userID, Callback{Action: ActionMenu, Type: catalog.OwnerMovie}))
	_, buttons := h.lastEdit(t)
	require.Len(t, buttons, 2)
	assert.Contains(t, buttons[1][0].Text, "category")

	h.handle(callbackUpdate(testChat, userID, Callback{Action: ActionCategories, Type: catalog.OwnerMovie}))
	text, buttons := h.lastEdit(t)
	assert.Contains(t, text, "Pick a category")
	require.Len(t, buttons, 1)
	assert.Equal(t, "Action", buttons[0][0].Text)

	picked, err := DecodeCallback(buttons[0][0].Data)
	require.NoError(t, err)
	h.handle(callbackUpdate(testChat, userID, picked))

	text, buttons = h.lastEdit(t)
	assert.Contains(t, text, "(1 total)")
	assert.Contains(t, buttons[0][0].Text, "Die Hard")
}

func TestListing_NoCategories(t *testing.T) {
	h := newHarness(t, harnessConfig{})
	addMovie(t, h.store, "Die Hard", 1988)

	h.handle(callbackUpdate(testChat, userID, Callback{Action: ActionCategories, Type: catalog.OwnerMovie}))
	text, _ := h.lastEdit(t)
	assert.Contains(t, text, "No categories yet")
}

// The next control must vanish exactly when the last row is shown, even
// when the total is an exact multiple of the page size.
func TestNavRow_ExactMultipleBoundary(t *testing.T) {
	// 20 rows, pages of 10: page 0 has next, page 1 does not.
	nav := navRow(catalog.OwnerMovie, 0, 10, 20, catalog.SortNewest, "")
	require.Len(t, nav, 1)
	assert.Equal(t, "Next »", nav[0].Text)

	nav = navRow(catalog.OwnerMovie, 1, 10, 20, catalog.SortNewest, "")
	require.Len(t, nav, 1)
	assert.Equal(t, "« Prev", nav[0].Text)
}

func TestDownload_SendsFileAndCounts(t *testing.T) {
	h := newHarness(t, harnessConfig{})
	m := addMovie(t, h.store, "Interstellar", 2014)
	require.NoError(t, h.store.AddVariant(&catalog.QualityVariant{
		OwnerType: catalog.OwnerMovie, OwnerID: m.ID, Quality: "1080p", FileRef: "file-xyz",
	}))

	variants, err := h.store.ListVariants(catalog.OwnerMovie, m.ID)
	require.NoError(t, err)

	h.handle(callbackUpdate(testChat, userID, Callback{Action: ActionDownload, Type: catalog.OwnerMovie, ID: variants[0].ID}))

	msg := h.lastSent(t)
	assert.Equal(t, "file-xyz", msg.VideoRef)

	got, err := h.store.GetMovie(m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Downloads)
}

func TestDetail_BumpsViews(t *testing.T) {
	h := newHarness(t, harnessConfig{})
	m := addMovie(t, h.store, "Gravity", 2013)

	h.handle(callbackUpdate(testChat, userID, Callback{Action: ActionDetail, Type: catalog.OwnerMovie, ID: m.ID}))
	h.handle(callbackUpdate(testChat, userID, Callback{Action: ActionDetail, Type: catalog.OwnerMovie, ID: m.ID}))

	got, err := h.store.GetMovie(m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)
}

func TestSeriesDrilldown(t *testing.T) {
	h := newHarness(t, harnessConfig{})

	sr := &catalog.Series{Title: "Dark", Description: "Time travel", Tags: "scifi"}
	require.NoError(t, h.store.AddSeries(sr))
	season := &catalog.Season{SeriesID: sr.ID, Number: 1}
	require.NoError(t, h.store.AddSeason(season))
	ep := &catalog.Episode{SeasonID: season.ID, Number: 1, Title: "Secrets"}
	require.NoError(t, h.store.AddEpisode(ep))
	require.NoError(t, h.store.AddVariant(&catalog.QualityVariant{
		OwnerType: catalog.OwnerEpisode, OwnerID: ep.ID, Quality: "720p", FileRef: "dark-s01e01",
	}))

	h.handle(callbackUpdate(testChat, userID, Callback{Action: ActionSeasons, Type: catalog.OwnerSeries, ID: sr.ID}))
	assert.Contains(t, h.lastSent(t).Buttons[0][0].Text, "Season 1")

	h.handle(callbackUpdate(testChat, userID, Callback{Action: ActionEpisodes, Type: catalog.OwnerSeries, ID: season.ID}))
	assert.Contains(t, h.lastSent(t).Buttons[0][0].Text, "Secrets")

	h.handle(callbackUpdate(testChat, userID, Callback{Action: ActionDetail, Type: catalog.OwnerEpisode, ID: ep.ID}))
	msg := h.lastSent(t)
	assert.Contains(t, msg.Text, "Episode 1")
	require.NotEmpty(t, msg.Buttons)
	assert.Contains(t, msg.Buttons[0][0].Text, "720p")
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t, harnessConfig{})

	h.handle(textUpdate(testChat, userID, "/frobnicate"))
	assert.Contains(t, h.lastSent(t).Text, "Unknown command")
}
