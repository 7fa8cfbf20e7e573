package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustCreateProfile(t *testing.T, store *SQLiteStore, name string) *Profile {
	t.Helper()
	p, err := store.CreateProfile(context.Background(), &Profile{Name: name})
	if err != nil {
		t.Fatalf("CreateProfile(%q): %v", name, err)
	}
	return p
}

func TestProfileCRUD(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateProfile(ctx, &Profile{
		Name: "Alan Turing",
		Bio:  "Mathematician",
		Tags: []string{"computing", "cryptography"},
	})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created profile has no id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}

	got, err := store.GetProfileByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetProfileByID: %v", err)
	}
	if got.Name != "Alan Turing" || len(got.Tags) != 2 {
		t.Errorf("got = %+v", got)
	}

	got.Title = "Father of computing"
	updated, err := store.UpdateProfile(ctx, got)
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Title != "Father of computing" {
		t.Errorf("Title = %q", updated.Title)
	}

	if err := store.DeleteProfile(ctx, created.ID); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	if _, err := store.GetProfileByID(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
}

func TestProfileValidation(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateProfile(ctx, &Profile{}); err == nil {
		t.Error("CreateProfile without a name should fail")
	}
	if _, err := store.UpdateProfile(ctx, &Profile{ID: 999, Name: "ghost"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateProfile(missing) = %v, want ErrNotFound", err)
	}
	if err := store.DeleteProfile(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteProfile(missing) = %v, want ErrNotFound", err)
	}
}

func TestSearchProfiles(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	mustCreateProfile(t, store, "Marie Curie")
	mustCreateProfile(t, store, "Pierre Curie")
	mustCreateProfile(t, store, "Niels Bohr")

	results, err := store.SearchProfiles(ctx, "curie")
	if err != nil {
		t.Fatalf("SearchProfiles: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestDeleteProfileCascades(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	profile := mustCreateProfile(t, store, "Ada")
	quote, err := store.CreateQuote(ctx, &Quote{ProfileID: profile.ID, Content: "q"})
	if err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}
	if _, err := store.CreateExperience(ctx, &Experience{
		ProfileID: profile.ID, Title: "e", StartDate: time.Now(),
	}); err != nil {
		t.Fatalf("CreateExperience: %v", err)
	}

	if err := store.DeleteProfile(ctx, profile.ID); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	if _, err := store.GetQuoteByID(ctx, quote.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("quote should cascade on profile delete, got %v", err)
	}
	experiences, err := store.GetExperiences(ctx)
	if err != nil {
		t.Fatalf("GetExperiences: %v", err)
	}
	if len(experiences) != 0 {
		t.Errorf("experiences left after cascade: %d", len(experiences))
	}
}

func TestGetRandomQuote(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetRandomQuote(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRandomQuote on empty DB = %v, want ErrNotFound", err)
	}

	profile := mustCreateProfile(t, store, "Ada")
	if _, err := store.CreateQuote(ctx, &Quote{ProfileID: profile.ID, Content: "only one"}); err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}
	quote, err := store.GetRandomQuote(ctx)
	if err != nil {
		t.Fatalf("GetRandomQuote: %v", err)
	}
	if quote.Content != "only one" {
		t.Errorf("quote = %+v", quote)
	}
}

func TestExperienceTimelineOrder(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	profile := mustCreateProfile(t, store, "Ada")
	dates := []time.Time{
		time.Date(2010, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2018, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		if _, err := store.CreateExperience(ctx, &Experience{
			ProfileID: profile.ID,
			Title:     []string{"mid", "first", "last"}[i],
			StartDate: d,
		}); err != nil {
			t.Fatalf("CreateExperience: %v", err)
		}
	}

	timeline, err := store.GetExperienceTimeline(ctx, profile.ID)
	if err != nil {
		t.Fatalf("GetExperienceTimeline: %v", err)
	}
	if len(timeline) != 3 {
		t.Fatalf("got %d entries, want 3", len(timeline))
	}
	if timeline[0].Title != "first" || timeline[2].Title != "last" {
		t.Errorf("order = [%s %s %s]", timeline[0].Title, timeline[1].Title, timeline[2].Title)
	}
}

func TestFindExperiencesByTag(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	profile := mustCreateProfile(t, store, "Ada")
	if _, err := store.CreateExperience(ctx, &Experience{
		ProfileID: profile.ID, Title: "tagged", StartDate: time.Now(),
		Tags: []string{"travel", "work"},
	}); err != nil {
		t.Fatalf("CreateExperience: %v", err)
	}
	if _, err := store.CreateExperience(ctx, &Experience{
		ProfileID: profile.ID, Title: "untagged", StartDate: time.Now(),
	}); err != nil {
		t.Fatalf("CreateExperience: %v", err)
	}

	found, err := store.FindExperiencesByTag(ctx, "travel")
	if err != nil {
		t.Fatalf("FindExperiencesByTag: %v", err)
	}
	if len(found) != 1 || found[0].Title != "tagged" {
		t.Errorf("found = %v", found)
	}

	none, err := store.FindExperiencesByTag(ctx, "trav")
	if err != nil {
		t.Fatalf("FindExperiencesByTag: %v", err)
	}
	if len(none) != 0 {
		t.Error("partial tag match should find nothing")
	}
}

func TestFindExperiencesByTagSpecialCharacters(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	profile := mustCreateProfile(t, store, "Ada")
	if _, err := store.CreateExperience(ctx, &Experience{
		ProfileID: profile.ID, Title: "percent", StartDate: time.Now(),
		Tags: []string{"100% remote"},
	}); err != nil {
		t.Fatalf("CreateExperience: %v", err)
	}
	if _, err := store.CreateExperience(ctx, &Experience{
		ProfileID: profile.ID, Title: "underscore", StartDate: time.Now(),
		Tags: []string{"side_project"},
	}); err != nil {
		t.Fatalf("CreateExperience: %v", err)
	}
	if _, err := store.CreateExperience(ctx, &Experience{
		ProfileID: profile.ID, Title: "quoted", StartDate: time.Now(),
		Tags: []string{`the "big" move`},
	}); err != nil {
		t.Fatalf("CreateExperience: %v", err)
	}

	for _, tc := range []struct {
		tag  string
		want string
	}{
		{"100% remote", "percent"},
		{"side_project", "underscore"},
		{`the "big" move`, "quoted"},
	} {
		found, err := store.FindExperiencesByTag(ctx, tc.tag)
		if err != nil {
			t.Fatalf("FindExperiencesByTag(%q): %v", tc.tag, err)
		}
		if len(found) != 1 || found[0].Title != tc.want {
			t.Errorf("FindExperiencesByTag(%q) = %v, want %s", tc.tag, found, tc.want)
		}
	}

	// Wildcards must match literally, not as LIKE metacharacters.
	if found, err := store.FindExperiencesByTag(ctx, "100_ remote"); err != nil {
		t.Fatalf("FindExperiencesByTag: %v", err)
	} else if len(found) != 0 {
		t.Errorf("underscore wildcard matched %v", found)
	}
	if found, err := store.FindExperiencesByTag(ctx, "%"); err != nil {
		t.Fatalf("FindExperiencesByTag: %v", err)
	} else if len(found) != 0 {
		t.Errorf("percent wildcard matched %v", found)
	}
}

func TestExperienceEndDateRoundTrip(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	profile := mustCreateProfile(t, store, "Ada")
	end := time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)
	created, err := store.CreateExperience(ctx, &Experience{
		ProfileID: profile.ID, Title: "bounded",
		StartDate: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   &end,
	})
	if err != nil {
		t.Fatalf("CreateExperience: %v", err)
	}

	got, err := store.GetExperienceByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetExperienceByID: %v", err)
	}
	if got.EndDate == nil || !got.EndDate.Equal(end) {
		t.Errorf("EndDate = %v, want %v", got.EndDate, end)
	}

	// Ongoing experience: no end date.
	ongoing, err := store.CreateExperience(ctx, &Experience{
		ProfileID: profile.ID, Title: "ongoing", StartDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateExperience: %v", err)
	}
	got, _ = store.GetExperienceByID(ctx, ongoing.ID)
	if got.EndDate != nil {
		t.Errorf("EndDate = %v, want nil", got.EndDate)
	}
}

func TestHexagonAndAnalysis(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	profile := mustCreateProfile(t, store, "Ada")
	hexagon, err := store.CreateHexagon(ctx, &HexagonModel{
		ProfileID: profile.ID,
		Security:  70, Achievement: 90, Freedom: 60,
		Belonging: 50, Novelty: 80, Control: 65,
		Notes: "driven",
	})
	if err != nil {
		t.Fatalf("CreateHexagon: %v", err)
	}

	analysis, err := store.CreateAnalysis(ctx, &Analysis{
		ID:        "a-1",
		ProfileID: profile.ID,
		HexagonID: hexagon.ID,
		Provider:  "openai",
		Model:     "gpt-4o",
		Content:   "{}",
	})
	if err != nil {
		t.Fatalf("CreateAnalysis: %v", err)
	}

	got, err := store.GetAnalysisByID(ctx, analysis.ID)
	if err != nil {
		t.Fatalf("GetAnalysisByID: %v", err)
	}
	if got.Provider != "openai" || got.HexagonID != hexagon.ID {
		t.Errorf("analysis = %+v", got)
	}

	byProfile, err := store.GetAnalysesByProfile(ctx, profile.ID)
	if err != nil {
		t.Fatalf("GetAnalysesByProfile: %v", err)
	}
	if len(byProfile) != 1 {
		t.Errorf("got %d analyses, want 1", len(byProfile))
	}

	hexagons, err := store.GetHexagonsByProfile(ctx, profile.ID)
	if err != nil {
		t.Fatalf("GetHexagonsByProfile: %v", err)
	}
	if len(hexagons) != 1 || hexagons[0].Achievement != 90 {
		t.Errorf("hexagons = %v", hexagons)
	}
}

func TestExecuteQueryGuards(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.ExecuteQuery(ctx, "DROP TABLE profiles"); err == nil {
		t.Error("non-SELECT should be rejected")
	}
	if _, err := store.ExecuteQuery(ctx, "SELECT 1; SELECT 2"); err == nil {
		t.Error("multi-statement query should be rejected")
	}

	rows, err := store.ExecuteQuery(ctx, "SELECT COUNT(*) AS n FROM profiles")
	if err != nil {
		t.Fatalf("ExecuteQuery: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if _, ok := rows[0]["n"]; !ok {
		t.Errorf("row = %v, want column n", rows[0])
	}
}

func TestBackupAndPrune(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()
	mustCreateProfile(t, store, "Ada")

	dir := t.TempDir()
	path, err := store.Backup(ctx, dir)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("backup file missing: %v", err)
	}

	// The backup is a valid database with the data in it.
	restored, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("open backup: %v", err)
	}
	defer restored.Close()
	profiles, err := restored.GetProfiles(ctx)
	if err != nil {
		t.Fatalf("GetProfiles from backup: %v", err)
	}
	if len(profiles) != 1 {
		t.Errorf("backup has %d profiles, want 1", len(profiles))
	}

	// Fake extra backups, then prune down to 2.
	for _, name := range []string{
		"personahub-20240101-000000.sqlite",
		"personahub-20240102-000000.sqlite",
		"personahub-20240103-000000.sqlite",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	removed, err := PruneBackups(dir, 2)
	if err != nil {
		t.Fatalf("PruneBackups: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("%d files left, want 2", len(entries))
	}
}
