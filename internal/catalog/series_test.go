package catalog

import (
	"errors"
	"testing"
)

func addTestSeries(t *testing.T, store *Store) *Series {
	t.Helper()
	sr := &Series{Title: "Breaking Bad", Description: "A chemistry teacher", Tags: "drama,crime"}
	if err := store.AddSeries(sr); err != nil {
		t.Fatalf("AddSeries: %v", err)
	}
	return sr
}

func TestStore_AddSeason_DuplicateNumber(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	sr := addTestSeries(t, store)

	if err := store.AddSeason(&Season{SeriesID: sr.ID, Number: 1}); err != nil {
		t.Fatalf("AddSeason: %v", err)
	}
	err := store.AddSeason(&Season{SeriesID: sr.ID, Number: 1})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("re-inserting season 1: err = %v, want ErrDuplicate", err)
	}
	// Same number under a different series is fine.
	other := addTestSeries(t, store)
	if err := store.AddSeason(&Season{SeriesID: other.ID, Number: 1}); err != nil {
		t.Errorf("season 1 for other series: %v", err)
	}
}

func TestStore_AddEpisode_DuplicateNumber(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	sr := addTestSeries(t, store)

	se := &Season{SeriesID: sr.ID, Number: 1}
	if err := store.AddSeason(se); err != nil {
		t.Fatalf("AddSeason: %v", err)
	}
	if err := store.AddEpisode(&Episode{SeasonID: se.ID, Number: 1, Title: "Pilot"}); err != nil {
		t.Fatalf("AddEpisode: %v", err)
	}
	err := store.AddEpisode(&Episode{SeasonID: se.ID, Number: 1})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("re-inserting episode 1: err = %v, want ErrDuplicate", err)
	}
}

func TestStore_FindSeriesByTitle(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	sr := addTestSeries(t, store)

	got, err := store.FindSeriesByTitle("breaking bad")
	if err != nil {
		t.Fatalf("FindSeriesByTitle: %v", err)
	}
	if got.ID != sr.ID {
		t.Errorf("ID = %d, want %d", got.ID, sr.ID)
	}

	if _, err := store.FindSeriesByTitle("The Wire"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing title: err = %v, want ErrNotFound", err)
	}
}

func TestStore_FindOrCreateSeason(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	sr := addTestSeries(t, store)

	first, created, err := store.FindOrCreateSeason(sr.ID, 2)
	if err != nil {
		t.Fatalf("FindOrCreateSeason: %v", err)
	}
	if !created {
		t.Error("first call should create")
	}

	second, created, err := store.FindOrCreateSeason(sr.ID, 2)
	if err != nil {
		t.Fatalf("FindOrCreateSeason: %v", err)
	}
	if created {
		t.Error("second call should find")
	}
	if second.ID != first.ID {
		t.Errorf("IDs differ: %d vs %d", second.ID, first.ID)
	}
}

// Guards the DSN: without foreign_keys(1) SQLite accepts the orphan
// insert and the delete cascades below never fire.
func TestStore_ForeignKeysEnforced(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	err := store.AddEpisode(&Episode{SeasonID: 9999, Number: 1})
	if !errors.Is(err, ErrConstraint) {
		t.Fatalf("episode under missing season: err = %v, want ErrConstraint", err)
	}
	err = store.AddSeason(&Season{SeriesID: 9999, Number: 1})
	if !errors.Is(err, ErrConstraint) {
		t.Fatalf("season under missing series: err = %v, want ErrConstraint", err)
	}
}

func TestStore_DeleteSeries_Cascades(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	sr := addTestSeries(t, store)

	se := &Season{SeriesID: sr.ID, Number: 1}
	if err := store.AddSeason(se); err != nil {
		t.Fatalf("AddSeason: %v", err)
	}
	ep := &Episode{SeasonID: se.ID, Number: 1, Title: "Pilot"}
	if err := store.AddEpisode(ep); err != nil {
		t.Fatalf("AddEpisode: %v", err)
	}
	if err := store.AddVariant(&QualityVariant{OwnerType: OwnerEpisode, OwnerID: ep.ID, Quality: "720p", FileRef: "f1"}); err != nil {
		t.Fatalf("AddVariant: %v", err)
	}

	if err := store.DeleteSeries(sr.ID); err != nil {
		t.Fatalf("DeleteSeries: %v", err)
	}

	if _, err := store.GetSeason(se.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("season survived: err = %v", err)
	}
	if _, err := store.GetEpisode(ep.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("episode survived: err = %v", err)
	}
	variants, err := store.ListVariants(OwnerEpisode, ep.ID)
	if err != nil {
		t.Fatalf("ListVariants: %v", err)
	}
	if len(variants) != 0 {
		t.Errorf("episode variants survived: %d", len(variants))
	}
}

func TestStore_ListEpisodes_Ordered(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	sr := addTestSeries(t, store)

	se := &Season{SeriesID: sr.ID, Number: 1}
	if err := store.AddSeason(se); err != nil {
		t.Fatalf("AddSeason: %v", err)
	}
	for _, n := range []int{3, 1, 2} {
		if err := store.AddEpisode(&Episode{SeasonID: se.ID, Number: n}); err != nil {
			t.Fatalf("AddEpisode %d: %v", n, err)
		}
	}

	eps, err := store.ListEpisodes(se.ID)
	if err != nil {
		t.Fatalf("ListEpisodes: %v", err)
	}
	if len(eps) != 3 {
		t.Fatalf("len = %d, want 3", len(eps))
	}
	for i, ep := range eps {
		if ep.Number != i+1 {
			t.Errorf("episode[%d].Number = %d, want %d", i, ep.Number, i+1)
		}
	}
}

func TestStore_GetSeriesStats(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	sr := addTestSeries(t, store)

	for s := 1; s <= 2; s++ {
		se := &Season{SeriesID: sr.ID, Number: s}
		if err := store.AddSeason(se); err != nil {
			t.Fatalf("AddSeason: %v", err)
		}
		for e := 1; e <= 3; e++ {
			if err := store.AddEpisode(&Episode{SeasonID: se.ID, Number: e}); err != nil {
				t.Fatalf("AddEpisode: %v", err)
			}
		}
	}

	stats, err := store.GetSeriesStats(sr.ID)
	if err != nil {
		t.Fatalf("GetSeriesStats: %v", err)
	}
	if stats.SeasonCount != 2 {
		t.Errorf("SeasonCount = %d, want 2", stats.SeasonCount)
	}
	if stats.EpisodeCount != 6 {
		t.Errorf("EpisodeCount = %d, want 6", stats.EpisodeCount)
	}
}
