package favorites

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

var fixedNow = time.Date(2024, 3, 9, 14, 30, 5, 0, time.Local)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "favorites.csv")
	s, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	s.now = func() time.Time { return fixedNow }
	return s
}

func mustCount(t *testing.T, s *Store) int {
	t.Helper()
	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	return n
}

func TestNewStore_CreatesHeaderOnlyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "favorites.csv")

	if _, err := NewStore(path, nil); err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}
	if string(data) != "id,title,genre,added_date\n" {
		t.Errorf("unexpected file contents: %q", data)
	}
}

func TestNewStore_Idempotent(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AddFavoriteMovie("Alien", "Horror"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	again, err := NewStore(s.Path(), nil)
	if err != nil {
		t.Fatalf("second NewStore failed: %v", err)
	}
	if n := mustCount(t, again); n != 1 {
		t.Errorf("reopening must not reset the file, got %d entries", n)
	}
}

func TestNewStore_DefaultPath(t *testing.T) {
	dir := t.TempDir()
	testChdir(t, dir)

	s, err := NewStore("", nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if s.Path() != DefaultPath {
		t.Errorf("Path() = %q, want %q", s.Path(), DefaultPath)
	}
	if _, err := os.Stat(filepath.Join(dir, DefaultPath)); err != nil {
		t.Errorf("default file not created: %v", err)
	}
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	if err := os.Remove(s.Path()); err != nil {
		t.Fatalf("remove: %v", err)
	}

	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load on missing file should not fail: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}

	msg, err := s.GetAllFavorites()
	if err != nil {
		t.Fatalf("GetAllFavorites failed: %v", err)
	}
	if msg != "No movies in favorites list yet." {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestLoad_UnreadableIsError(t *testing.T) {
	s := newTestStore(t)
	if err := os.Remove(s.Path()); err != nil {
		t.Fatalf("remove: %v", err)
	}
	// A directory where the file should be cannot be read as a file.
	if err := os.Mkdir(s.Path(), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if _, err := s.Load(); !errors.Is(err, ErrStoreIO) {
		t.Fatalf("expected ErrStoreIO, got %v", err)
	}
	if _, err := s.AddFavoriteMovie("Alien", ""); !errors.Is(err, ErrStoreIO) {
		t.Fatalf("mutation after failed read must fail, got %v", err)
	}
}

func TestAddFavoriteMovie_AssignsSequentialIDs(t *testing.T) {
	s := newTestStore(t)
	titles := []string{"Alien", "Aliens", "Alien 3", "Prometheus"}

	for i, title := range titles {
		msg, err := s.AddFavoriteMovie(title, "Sci-Fi")
		if err != nil {
			t.Fatalf("add %q failed: %v", title, err)
		}
		want := fmt.Sprintf("Added '%s' to favorites! Total: %d movies", title, i+1)
		if msg != want {
			t.Errorf("message = %q, want %q", msg, want)
		}
	}

	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for i, e := range entries {
		if e.ID != i+1 {
			t.Errorf("entry %d has id %d, want %d", i, e.ID, i+1)
		}
		if e.Title != titles[i] {
			t.Errorf("entry %d title %q, want %q", i, e.Title, titles[i])
		}
		if !e.AddedAt.Equal(fixedNow) {
			t.Errorf("entry %d AddedAt = %v, want %v", i, e.AddedAt, fixedNow)
		}
	}
}

func TestAddFavoriteMovie_DuplicateIsNoop(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AddFavoriteMovie("The Matrix", "Sci-Fi"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	before, _ := os.ReadFile(s.Path())

	msg, err := s.AddFavoriteMovie("the MATRIX", "Action")
	if err != nil {
		t.Fatalf("duplicate add should not error: %v", err)
	}
	if msg != "Movie 'the MATRIX' is already in favorites!" {
		t.Errorf("unexpected message: %q", msg)
	}

	after, _ := os.ReadFile(s.Path())
	if string(before) != string(after) {
		t.Error("duplicate add modified the file")
	}
	if n := mustCount(t, s); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestAddFavoriteMovie_EmptyTitle(t *testing.T) {
	s := newTestStore(t)
	for _, title := range []string{"", "   "} {
		if _, err := s.AddFavoriteMovie(title, "Drama"); !errors.Is(err, ErrEmptyTitle) {
			t.Errorf("title %q: expected ErrEmptyTitle, got %v", title, err)
		}
	}
}

func TestAddFavoriteMovie_NextIDIsMaxPlusOne(t *testing.T) {
	s := newTestStore(t)
	s.AddFavoriteMovie("A", "")
	s.AddFavoriteMovie("B", "")
	s.AddFavoriteMovie("C", "")

	if _, err := s.DeleteFavoriteMovie("2"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := s.AddFavoriteMovie("D", ""); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	e, ok, err := s.Find("D")
	if err != nil || !ok {
		t.Fatalf("Find D: ok=%v err=%v", ok, err)
	}
	if e.ID != 4 {
		t.Errorf("D got id %d, want 4", e.ID)
	}

	// The next id is max+1 over what is on disk, so removing the top entry frees its id.
	s.DeleteFavoriteMovie("4")
	s.AddFavoriteMovie("E", "")
	e, _, _ = s.Find("E")
	if e.ID != 4 {
		t.Errorf("E got id %d, want 4", e.ID)
	}
}

func TestAddFavoriteMovie_SkipsMalformedIDs(t *testing.T) {
	s := newTestStore(t)
	content := "id,title,genre,added_date\n" +
		"7,Heat,Crime,2024-01-01 10:00:00\n" +
		"abc,Ronin,Action,2024-01-02 10:00:00\n" +
		",Collateral,Thriller,2024-01-03 10:00:00\n"
	if err := os.WriteFile(s.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("malformed ids must not drop rows, got %d entries", len(entries))
	}

	if _, err := s.AddFavoriteMovie("Thief", "Crime"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	e, ok, _ := s.Find("Thief")
	if !ok || e.ID != 8 {
		t.Errorf("Thief got id %d (found=%v), want 8", e.ID, ok)
	}

	data, _ := os.ReadFile(s.Path())
	if !strings.Contains(string(data), "abc,Ronin,Action") {
		t.Errorf("malformed id should be written back verbatim:\n%s", data)
	}
}

func TestLoad_RejectsRowsWithoutTitle(t *testing.T) {
	s := newTestStore(t)
	content := "id,title,genre,added_date\n" +
		"1,Heat,Crime,2024-01-01 10:00:00\n" +
		"2,,Action,2024-01-02 10:00:00\n" +
		"3\n"
	os.WriteFile(s.Path(), []byte(content), 0o644)

	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Heat" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestLoad_HeaderOrderIndependent(t *testing.T) {
	s := newTestStore(t)
	content := "title,added_date,id,genre,rating\n" +
		"Heat,2024-01-01 10:00:00,4,Crime,5\n"
	os.WriteFile(s.Path(), []byte(content), 0o644)

	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.ID != 4 || e.Title != "Heat" || e.Genre != "Crime" || e.AddedString() != "2024-01-01 10:00:00" {
		t.Errorf("unexpected entry: %+v", e)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	s := newTestStore(t)
	os.WriteFile(s.Path(), nil, 0o644)

	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	s.AddFavoriteMovie("Inception", "Sci-Fi")
	s.AddFavoriteMovie(`Crouching Tiger, Hidden Dragon`, "Action, Drama")
	s.AddFavoriteMovie(`The "Burbs"`, "")

	before, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if entries[1].Title != "Crouching Tiger, Hidden Dragon" || entries[2].Title != `The "Burbs"` {
		t.Errorf("quoted fields not decoded: %+v", entries)
	}
	if err := s.Save(entries); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	after, _ := os.ReadFile(s.Path())
	if string(before) != string(after) {
		t.Errorf("save(load()) changed the file:\nbefore:\n%s\nafter:\n%s", before, after)
	}
}

func TestSave_EmptyWritesHeader(t *testing.T) {
	s := newTestStore(t)
	s.AddFavoriteMovie("Heat", "Crime")

	if err := s.Save(nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, _ := os.ReadFile(s.Path())
	if string(data) != "id,title,genre,added_date\n" {
		t.Errorf("unexpected contents: %q", data)
	}
}

func TestSave_FailureKeepsCommittedFile(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "favorites.csv"), nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	s.AddFavoriteMovie("Heat", "Crime")
	before, _ := os.ReadFile(s.Path())

	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	_, err = s.AddFavoriteMovie("Ronin", "Action")
	if !errors.Is(err, ErrStoreIO) {
		t.Fatalf("expected ErrStoreIO, got %v", err)
	}

	after, _ := os.ReadFile(s.Path())
	if string(before) != string(after) {
		t.Error("failed write altered the committed file")
	}
}

func TestGetAllFavorites_Format(t *testing.T) {
	s := newTestStore(t)
	s.AddFavoriteMovie("Inception", "Sci-Fi")
	s.AddFavoriteMovie("Amélie", "")

	got, err := s.GetAllFavorites()
	if err != nil {
		t.Fatalf("GetAllFavorites failed: %v", err)
	}

	want := "FAVORITE MOVIES LIST (2 movies):\n\n" +
		"ID: 1 - Inception | Genre: Sci-Fi\n" +
		"   Added: 2024-03-09 14:30:05\n\n" +
		"ID: 2 - Amélie\n" +
		"   Added: 2024-03-09 14:30:05\n\n"
	if got != want {
		t.Errorf("unexpected listing:\n%s\nwant:\n%s", got, want)
	}
}

func TestGetFavoritesByGenre(t *testing.T) {
	s := newTestStore(t)

	msg, _ := s.GetFavoritesByGenre("drama")
	if msg != "No movies in favorites list yet." {
		t.Errorf("empty store message = %q", msg)
	}

	s.AddFavoriteMovie("Heat", "Crime Drama")
	s.AddFavoriteMovie("Alien", "Horror")
	s.AddFavoriteMovie("Moonlight", "drama")
	s.AddFavoriteMovie("Untitled", "")

	tests := []struct {
		genre string
		want  []string
	}{
		{"DRAMA", []string{"Heat", "Moonlight"}},
		{"hor", []string{"Alien"}},
		{"", []string{"Heat", "Alien", "Moonlight", "Untitled"}},
		{"western", nil},
	}

	for _, tt := range tests {
		entries, err := s.FilterByGenre(tt.genre)
		if err != nil {
			t.Fatalf("FilterByGenre(%q) failed: %v", tt.genre, err)
		}
		var got []string
		for _, e := range entries {
			got = append(got, e.Title)
		}
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("FilterByGenre(%q) = %v, want %v", tt.genre, got, tt.want)
		}
	}

	msg, _ = s.GetFavoritesByGenre("western")
	if msg != "No 'western' movies found in favorites." {
		t.Errorf("no-match message = %q", msg)
	}

	msg, _ = s.GetFavoritesByGenre("drama")
	if !strings.HasPrefix(msg, "FAVORITE DRAMA MOVIES (2 movies):") {
		t.Errorf("unexpected header: %q", msg)
	}
	if !strings.Contains(msg, "ID: 1 - Heat\n") || !strings.Contains(msg, "ID: 3 - Moonlight\n") {
		t.Errorf("listing missing entries: %q", msg)
	}
}

func TestDeleteFavoriteMovie_ByID(t *testing.T) {
	s := newTestStore(t)
	s.AddFavoriteMovie("Heat", "Crime")
	s.AddFavoriteMovie("Ronin", "Action")
	s.AddFavoriteMovie("Thief", "Crime")

	msg, err := s.DeleteFavoriteMovie("2")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if msg != "Deleted movie 'Ronin' (ID: 2) from favorites! Remaining: 2 movies" {
		t.Errorf("unexpected message: %q", msg)
	}

	entries, _ := s.Load()
	if len(entries) != 2 || entries[0].ID != 1 || entries[1].ID != 3 {
		t.Errorf("remaining entries must keep their ids and order: %+v", entries)
	}
}

func TestDeleteFavoriteMovie_ByTitle(t *testing.T) {
	s := newTestStore(t)
	s.AddFavoriteMovie("Heat", "Crime")
	s.AddFavoriteMovie("Ronin", "Action")

	msg, err := s.DeleteFavoriteMovie("rOnIn")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if msg != "Deleted movie 'Ronin' (ID: 2) from favorites! Remaining: 1 movies" {
		t.Errorf("unexpected message: %q", msg)
	}

	// Title match is exact, not substring.
	msg, _ = s.DeleteFavoriteMovie("Hea")
	if msg != "Movie with identifier 'Hea' not found in favorites." {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestDeleteFavoriteMovie_NumericTitleResolvesAsID(t *testing.T) {
	s := newTestStore(t)
	s.AddFavoriteMovie("Heat", "")
	s.AddFavoriteMovie("1917", "War")

	msg, _ := s.DeleteFavoriteMovie("1917")
	if !strings.Contains(msg, "not found") {
		t.Errorf("numeric identifier must resolve as an id only, got %q", msg)
	}
	if n := mustCount(t, s); n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestDeleteFavoriteMovie_NotFound(t *testing.T) {
	s := newTestStore(t)

	msg, _ := s.DeleteFavoriteMovie("1")
	if msg != "No movies in favorites list to delete." {
		t.Errorf("empty store message = %q", msg)
	}

	s.AddFavoriteMovie("Heat", "Crime")
	before, _ := os.ReadFile(s.Path())

	msg, err := s.DeleteFavoriteMovie("42")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if msg != "Movie with identifier '42' not found in favorites." {
		t.Errorf("unexpected message: %q", msg)
	}

	after, _ := os.ReadFile(s.Path())
	if string(before) != string(after) {
		t.Error("not-found delete modified the file")
	}
}

func TestScenario(t *testing.T) {
	s := newTestStore(t)

	s.AddFavoriteMovie("Inception", "Sci-Fi")
	e, ok, _ := s.Find("Inception")
	if !ok || e.ID != 1 || mustCount(t, s) != 1 {
		t.Fatalf("after first add: %+v found=%v", e, ok)
	}

	msg, _ := s.AddFavoriteMovie("Inception", "")
	if !strings.Contains(msg, "already in favorites") || mustCount(t, s) != 1 {
		t.Fatalf("duplicate add: %q", msg)
	}

	s.AddFavoriteMovie("The Matrix", "Sci-Fi")
	e, _, _ = s.Find("the matrix")
	if e.ID != 2 || mustCount(t, s) != 2 {
		t.Fatalf("after second add: %+v", e)
	}

	scifi, _ := s.FilterByGenre("sci-fi")
	if len(scifi) != 2 {
		t.Fatalf("genre filter returned %d entries", len(scifi))
	}

	msg, _ = s.DeleteFavoriteMovie("1")
	if !strings.Contains(msg, "'Inception'") || mustCount(t, s) != 1 {
		t.Fatalf("delete by id: %q", msg)
	}

	msg, _ = s.DeleteFavoriteMovie("The Matrix")
	if !strings.Contains(msg, "Remaining: 0 movies") {
		t.Fatalf("delete by title: %q", msg)
	}

	msg, _ = s.GetAllFavorites()
	if msg != "No movies in favorites list yet." {
		t.Errorf("final listing: %q", msg)
	}
}

func TestConcurrentAdds(t *testing.T) {
	s := newTestStore(t)
	const n = 25

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.AddFavoriteMovie(fmt.Sprintf("Movie %d", i), ""); err != nil {
				t.Errorf("add %d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(entries) != n {
		t.Fatalf("expected %d entries, got %d", n, len(entries))
	}
	seen := make(map[int]bool)
	for _, e := range entries {
		if seen[e.ID] {
			t.Errorf("duplicate id %d", e.ID)
		}
		seen[e.ID] = true
	}
	for id := 1; id <= n; id++ {
		if !seen[id] {
			t.Errorf("missing id %d", id)
		}
	}
}

func TestAddFavoriteMovie_CRLFTitleStaysUnique(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.AddFavoriteMovie("Kill Bill\r\nVol. 1", "Action\r\nCrime"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	msg, err := s.AddFavoriteMovie("Kill Bill\r\nVol. 1", "Action")
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if !strings.Contains(msg, "is already in favorites!") {
		t.Errorf("expected duplicate notice, got %q", msg)
	}
	if n := mustCount(t, s); n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}

	before, _ := os.ReadFile(s.Path())
	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if entries[0].Title != "Kill Bill\nVol. 1" || entries[0].Genre != "Action\nCrime" {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
	if err := s.Save(entries); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	after, _ := os.ReadFile(s.Path())
	if string(before) != string(after) {
		t.Errorf("saving what was loaded changed the file:\n%q\n%q", before, after)
	}

	msg, _ = s.DeleteFavoriteMovie("kill bill\r\nvol. 1")
	if !strings.HasPrefix(msg, "Deleted movie") {
		t.Errorf("delete by CRLF title failed: %q", msg)
	}
}

func TestDeleteFavoriteMovie_NonPositiveRawIDs(t *testing.T) {
	s := newTestStore(t)
	content := "id,title,genre,added_date\n" +
		"0,Ronin,Action,2024-01-02 10:00:00\n" +
		"-2,Thief,Crime,2024-01-03 10:00:00\n" +
		"abc,Heat,Crime,2024-01-04 10:00:00\n"
	if err := os.WriteFile(s.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	msg, err := s.DeleteFavoriteMovie("0")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if msg != "Deleted movie 'Ronin' (ID: 0) from favorites! Remaining: 2 movies" {
		t.Errorf("delete 0 = %q", msg)
	}

	msg, _ = s.DeleteFavoriteMovie("-2")
	if msg != "Deleted movie 'Thief' (ID: -2) from favorites! Remaining: 1 movies" {
		t.Errorf("delete -2 = %q", msg)
	}

	data, _ := os.ReadFile(s.Path())
	if !strings.Contains(string(data), "abc,Heat,Crime") {
		t.Errorf("remaining row should be untouched:\n%s", data)
	}
}

func TestSave_PreservesFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions only")
	}
	s := newTestStore(t)
	if err := os.Chmod(s.Path(), 0o600); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	if _, err := s.AddFavoriteMovie("Heat", "Crime"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want -rw-------", info.Mode().Perm())
	}
}

// testChdir changes the working directory for the duration of the test
// and restores it on cleanup (equivalent to testing.T.Chdir, Go 1.24+).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
