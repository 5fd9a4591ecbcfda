package favorites

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Yates-Labs/reelmate/internal/logging"
	"go.uber.org/zap"
)

// Store owns the backing CSV file.
type Store struct {
	path   string
	logger *zap.SugaredLogger

	mu  sync.Mutex
	now func() time.Time
}

// NewStore opens the favorites file at path, creating a header-only file if
// it does not exist yet. An empty path selects DefaultPath.
func NewStore(path string, logger *zap.SugaredLogger) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}

	s := &Store{
		path:   path,
		logger: logging.OrNop(logger).Named("favorites"),
		now:    time.Now,
	}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		return s, nil
	case errors.Is(err, fs.ErrNotExist):
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("%w: creating %s: %v", ErrStoreIO, dir, err)
			}
		}
		if err := s.write(nil); err != nil {
			return nil, err
		}
		s.logger.Infow("created favorites file", logging.FieldPath, path)
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrStoreIO, err)
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads every entry in file order. A missing file is an empty list.
func (s *Store) Load() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Save replaces the backing file with the given entries.
func (s *Store) Save(entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(entries)
}

// List is Load under a name that reads better at call sites that only query.
func (s *Store) List() ([]Entry, error) {
	return s.Load()
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	entries, err := s.Load()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// FilterByGenre returns the entries whose genre contains genre,
// case-insensitively. An empty genre matches everything.
func (s *Store) FilterByGenre(genre string) ([]Entry, error) {
	entries, err := s.Load()
	if err != nil {
		return nil, err
	}
	return filterByGenre(entries, genre), nil
}

// Find resolves identifier to an entry: first as a numeric id, otherwise as
// a case-insensitive exact title.
func (s *Store) Find(identifier string) (Entry, bool, error) {
	entries, err := s.Load()
	if err != nil {
		return Entry{}, false, err
	}
	i := resolve(entries, identifier)
	if i < 0 {
		return Entry{}, false, nil
	}
	return entries[i], true, nil
}

// AddFavoriteMovie appends a new entry unless a title already matches
// case-insensitively, in which case nothing changes. CRLF line breaks are
// stored as LF, which is how they read back from the file.
func (s *Store) AddFavoriteMovie(title, genre string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", ErrEmptyTitle
	}
	title, genre = normalizeNewlines(title), normalizeNewlines(genre)

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return "", err
	}

	if indexOfTitle(entries, title) >= 0 {
		s.logger.Debugw("duplicate favorite", logging.FieldTitle, title)
		return duplicateMessage(title), nil
	}

	entry := Entry{
		ID:      nextID(entries),
		Title:   title,
		Genre:   genre,
		AddedAt: s.now().Truncate(time.Second),
	}
	entries = append(entries, entry)

	if err := s.write(entries); err != nil {
		return "", err
	}

	s.logger.Infow("added favorite",
		logging.FieldTitle, title,
		logging.FieldGenre, genre,
		"id", entry.ID,
		logging.FieldCount, len(entries),
	)
	return addedMessage(title, len(entries)), nil
}

// GetAllFavorites renders every entry, or a notice when there are none.
func (s *Store) GetAllFavorites() (string, error) {
	entries, err := s.Load()
	if err != nil {
		return "", err
	}
	return formatAll(entries), nil
}

// GetFavoritesByGenre renders the entries matching genre.
func (s *Store) GetFavoritesByGenre(genre string) (string, error) {
	entries, err := s.Load()
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return emptyMessage, nil
	}
	return formatGenre(genre, filterByGenre(entries, genre)), nil
}

// DeleteFavoriteMovie removes the entry identified by a numeric id or,
// failing that, by exact case-insensitive title.
func (s *Store) DeleteFavoriteMovie(identifier string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return emptyDeleteMessage, nil
	}

	i := resolve(entries, identifier)
	if i < 0 {
		s.logger.Debugw("favorite not found", logging.FieldIdentifier, identifier)
		return notFoundMessage(identifier), nil
	}

	removed := entries[i]
	entries = append(entries[:i:i], entries[i+1:]...)

	if err := s.write(entries); err != nil {
		return "", err
	}

	s.logger.Infow("deleted favorite",
		logging.FieldTitle, removed.Title,
		"id", removed.IDString(),
		logging.FieldCount, len(entries),
	)
	return deletedMessage(removed, len(entries)), nil
}

func (s *Store) read() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreIO, err)
	}

	entries, err := decodeEntries(bytes.NewReader(data), func(line int, rowErr error) {
		s.logger.Warnw("skipping malformed row",
			logging.FieldPath, s.path,
			logging.FieldRow, line,
			"reason", rowErr.Error(),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrStoreIO, s.path, err)
	}
	return entries, nil
}

// write replaces the file via a temp file in the same directory so a failed
// write leaves the previous contents in place.
func (s *Store) write(entries []Entry) error {
	var buf bytes.Buffer
	if err := encodeEntries(&buf, entries); err != nil {
		return fmt.Errorf("%w: encoding: %v", ErrStoreIO, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreIO, err)
	}
	tmpPath := tmp.Name()

	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: writing %s: %v", ErrStoreIO, s.path, err)
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(s.fileMode()); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: writing %s: %v", ErrStoreIO, s.path, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: replacing %s: %v", ErrStoreIO, s.path, err)
	}
	return nil
}

// fileMode returns the permissions of the existing file, or 0644 for a new one.
func (s *Store) fileMode() fs.FileMode {
	if info, err := os.Stat(s.path); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}

func normalizeNewlines(v string) string {
	return strings.ReplaceAll(v, "\r\n", "\n")
}

func filterByGenre(entries []Entry, genre string) []Entry {
	needle := strings.ToLower(genre)
	matched := []Entry{}
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Genre), needle) {
			matched = append(matched, e)
		}
	}
	return matched
}

func indexOfTitle(entries []Entry, title string) int {
	for i, e := range entries {
		if strings.EqualFold(e.Title, title) {
			return i
		}
	}
	return -1
}

// resolve returns the index of the entry named by identifier, or -1.
// A numeric identifier only ever matches ids, including zero or negative
// ids kept as raw text.
func resolve(entries []Entry, identifier string) int {
	identifier = normalizeNewlines(identifier)
	if id, err := strconv.Atoi(strings.TrimSpace(identifier)); err == nil {
		for i, e := range entries {
			if e.ID > 0 && e.ID == id {
				return i
			}
			if e.ID == 0 {
				if raw, err := strconv.Atoi(strings.TrimSpace(e.rawID)); err == nil && raw == id {
					return i
				}
			}
		}
		return -1
	}
	return indexOfTitle(entries, identifier)
}
