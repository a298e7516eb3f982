package catalog

import (
	"errors"
	"testing"
	"time"
)

func TestStore_AddMovie(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	m := &Movie{
		Title:       "Interstellar",
		Year:        ptr(2014),
		Description: "A space survival film",
		Tags:        "scifi,space",
	}

	before := time.Now()
	if err := store.AddMovie(m); err != nil {
		t.Fatalf("AddMovie: %v", err)
	}
	after := time.Now()

	if m.ID == 0 {
		t.Error("ID should be set after AddMovie")
	}
	if m.CreatedAt.Before(before) || m.CreatedAt.After(after) {
		t.Errorf("CreatedAt %v not in expected range [%v, %v]", m.CreatedAt, before, after)
	}
}

func TestStore_GetMovie_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	original := &Movie{
		Title:       "Interstellar",
		Year:        ptr(2014),
		Description: "A space survival film",
		Tags:        "scifi,space",
		Category:    ptr("scifi"),
		PosterRef:   ptr("poster-file-1"),
	}
	if err := store.AddMovie(original); err != nil {
		t.Fatalf("AddMovie: %v", err)
	}

	retrieved, err := store.GetMovie(original.ID)
	if err != nil {
		t.Fatalf("GetMovie: %v", err)
	}

	if retrieved.Title != original.Title {
		t.Errorf("Title = %q, want %q", retrieved.Title, original.Title)
	}
	if retrieved.Year == nil || *retrieved.Year != *original.Year {
		t.Errorf("Year = %v, want %v", retrieved.Year, original.Year)
	}
	if retrieved.Description != original.Description {
		t.Errorf("Description = %q, want %q", retrieved.Description, original.Description)
	}
	if retrieved.Tags != original.Tags {
		t.Errorf("Tags = %q, want %q", retrieved.Tags, original.Tags)
	}
	if retrieved.PosterRef == nil || *retrieved.PosterRef != *original.PosterRef {
		t.Errorf("PosterRef = %v, want %v", retrieved.PosterRef, original.PosterRef)
	}
}

func TestStore_GetMovie_NotFound(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	_, err := store.GetMovie(9999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStore_ListMovies_Pagination(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	// Exactly two full pages of size 5: page 1 must report no overflow.
	for i := 0; i < 10; i++ {
		m := &Movie{Title: "Movie " + string(rune('A'+i))}
		if err := store.AddMovie(m); err != nil {
			t.Fatalf("AddMovie: %v", err)
		}
	}

	page, total, err := store.ListMovies(MovieFilter{Sort: SortAlphabetical, Limit: 5, Offset: 5})
	if err != nil {
		t.Fatalf("ListMovies: %v", err)
	}
	if len(page) != 5 {
		t.Errorf("len(page) = %d, want 5", len(page))
	}
	if total != 10 {
		t.Errorf("total = %d, want 10", total)
	}
	// With an exact count there is no phantom third page: offset 10 is empty.
	page, total, err = store.ListMovies(MovieFilter{Sort: SortAlphabetical, Limit: 5, Offset: 10})
	if err != nil {
		t.Fatalf("ListMovies: %v", err)
	}
	if len(page) != 0 {
		t.Errorf("len(page) = %d, want 0", len(page))
	}
	if total != 10 {
		t.Errorf("total = %d, want 10", total)
	}
}

func TestStore_ListMovies_CategoryFilter(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	if err := store.AddMovie(&Movie{Title: "Alien", Category: ptr("scifi")}); err != nil {
		t.Fatalf("AddMovie: %v", err)
	}
	if err := store.AddMovie(&Movie{Title: "Heat", Category: ptr("crime")}); err != nil {
		t.Fatalf("AddMovie: %v", err)
	}

	movies, total, err := store.ListMovies(MovieFilter{Category: ptr("scifi")})
	if err != nil {
		t.Fatalf("ListMovies: %v", err)
	}
	if total != 1 || len(movies) != 1 || movies[0].Title != "Alien" {
		t.Errorf("got %d movies (total %d), want just Alien", len(movies), total)
	}
}

func TestStore_Categories(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	for _, m := range []*Movie{
		{Title: "Alien", Category: ptr("scifi")},
		{Title: "Sunshine", Category: ptr("scifi")},
		{Title: "Heat", Category: ptr("crime")},
		{Title: "Uncategorized"},
	} {
		if err := store.AddMovie(m); err != nil {
			t.Fatalf("AddMovie: %v", err)
		}
	}

	cats, err := store.Categories(OwnerMovie)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != 2 || cats[0] != "crime" || cats[1] != "scifi" {
		t.Errorf("Categories = %v, want [crime scifi]", cats)
	}

	cats, err = store.Categories(OwnerSeries)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != 0 {
		t.Errorf("series Categories = %v, want none", cats)
	}
}

func TestStore_UpdateMovie(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	m := &Movie{Title: "Allien", Year: ptr(1978), Tags: "scifi"}
	if err := store.AddMovie(m); err != nil {
		t.Fatalf("AddMovie: %v", err)
	}

	m.Title = "Alien"
	m.Year = ptr(1979)
	m.Category = ptr("horror")
	if err := store.UpdateMovie(m); err != nil {
		t.Fatalf("UpdateMovie: %v", err)
	}

	got, err := store.GetMovie(m.ID)
	if err != nil {
		t.Fatalf("GetMovie: %v", err)
	}
	if got.Title != "Alien" || *got.Year != 1979 || got.Category == nil || *got.Category != "horror" {
		t.Errorf("update not persisted: %+v", got)
	}

	err = store.UpdateMovie(&Movie{ID: 9999, Title: "Ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("updating missing movie: err = %v, want ErrNotFound", err)
	}
}

func TestStore_ListMovies_SortYearDesc(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	if err := store.AddMovie(&Movie{Title: "Old", Year: ptr(1980)}); err != nil {
		t.Fatalf("AddMovie: %v", err)
	}
	if err := store.AddMovie(&Movie{Title: "New", Year: ptr(2020)}); err != nil {
		t.Fatalf("AddMovie: %v", err)
	}

	movies, _, err := store.ListMovies(MovieFilter{Sort: SortYearDesc})
	if err != nil {
		t.Fatalf("ListMovies: %v", err)
	}
	if len(movies) != 2 || movies[0].Title != "New" {
		t.Errorf("year-desc order wrong: got %+v", movies)
	}
}

func TestStore_DeleteMovie_RemovesChildren(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	m := &Movie{Title: "Heat"}
	if err := store.AddMovie(m); err != nil {
		t.Fatalf("AddMovie: %v", err)
	}
	v := &QualityVariant{OwnerType: OwnerMovie, OwnerID: m.ID, Quality: "1080p", FileRef: "file-1"}
	if err := store.AddVariant(v); err != nil {
		t.Fatalf("AddVariant: %v", err)
	}
	a := &AlternativeName{OwnerType: OwnerMovie, OwnerID: m.ID, Name: "Heat 1995"}
	if err := store.AddAlternativeName(a); err != nil {
		t.Fatalf("AddAlternativeName: %v", err)
	}

	if err := store.DeleteMovie(m.ID); err != nil {
		t.Fatalf("DeleteMovie: %v", err)
	}

	if _, err := store.GetMovie(m.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetMovie after delete: err = %v, want ErrNotFound", err)
	}
	variants, err := store.ListVariants(OwnerMovie, m.ID)
	if err != nil {
		t.Fatalf("ListVariants: %v", err)
	}
	if len(variants) != 0 {
		t.Errorf("variants survived delete: %d", len(variants))
	}
	names, err := store.ListAlternativeNames(OwnerMovie, m.ID)
	if err != nil {
		t.Fatalf("ListAlternativeNames: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("aliases survived delete: %d", len(names))
	}
}

func TestStore_IncrementCounters(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	m := &Movie{Title: "Heat"}
	if err := store.AddMovie(m); err != nil {
		t.Fatalf("AddMovie: %v", err)
	}

	if err := store.IncrementMovieViews(m.ID); err != nil {
		t.Fatalf("IncrementMovieViews: %v", err)
	}
	if err := store.IncrementMovieDownloads(m.ID); err != nil {
		t.Fatalf("IncrementMovieDownloads: %v", err)
	}
	if err := store.IncrementMovieDownloads(m.ID); err != nil {
		t.Fatalf("IncrementMovieDownloads: %v", err)
	}

	got, err := store.GetMovie(m.ID)
	if err != nil {
		t.Fatalf("GetMovie: %v", err)
	}
	if got.Views != 1 {
		t.Errorf("Views = %d, want 1", got.Views)
	}
	if got.Downloads != 2 {
		t.Errorf("Downloads = %d, want 2", got.Downloads)
	}
}

func TestTx_FinalizeAtomically(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	tx, err := store.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	m := &Movie{Title: "Heat"}
	if err := tx.AddMovie(m); err != nil {
		t.Fatalf("AddMovie in tx: %v", err)
	}
	if err := tx.AddVariant(&QualityVariant{OwnerType: OwnerMovie, OwnerID: m.ID, Quality: "720p", FileRef: "f"}); err != nil {
		t.Fatalf("AddVariant in tx: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	// Nothing from the aborted finalize may be visible.
	if _, err := store.GetMovie(m.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("movie visible after rollback: err = %v", err)
	}
	variants, err := store.ListVariants(OwnerMovie, m.ID)
	if err != nil {
		t.Fatalf("ListVariants: %v", err)
	}
	if len(variants) != 0 {
		t.Errorf("variants visible after rollback: %d", len(variants))
	}
}
