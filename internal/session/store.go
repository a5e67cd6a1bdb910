package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"

	"github.com/PatrikHajek/time-tracker/internal/datetime"
)

const fileExt = ".md"

// SessionStore locates and persists session documents.
type SessionStore interface {
	// PathFor returns the file path of a session starting at start.
	PathFor(start time.Time) string
	// Paths lists session files oldest first.
	Paths() ([]string, error)
	Load(path string) (*Session, error)
	// Last decodes the newest session; returns ErrNoSession if none exists.
	Last() (*Session, error)
	// LoadAll decodes every session, oldest first.
	LoadAll() ([]*Session, error)
	Save(s *Session) error
	Dir() string
}

// diskStore keeps one markdown file per session in a single directory.
type diskStore struct {
	dir string
}

// NewStore returns a SessionStore rooted at dir, creating it if needed.
func NewStore(dir string) (SessionStore, error) {
	if dir == "" {
		return nil, errors.New("sessions directory is not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating sessions directory: %w", err)
	}
	return &diskStore{dir: dir}, nil
}

func (d *diskStore) Dir() string { return d.dir }

func (d *diskStore) PathFor(start time.Time) string {
	return filepath.Join(d.dir, datetime.Format(start)+fileExt)
}

// Paths relies on file names being formatted start dates, which sort
// chronologically as long as they share an offset.
func (d *diskStore) Paths() ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Sort(natural.StringSlice(names))

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(d.dir, n)
	}
	return paths, nil
}

func (d *diskStore) Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	return Decode(path, data)
}

func (d *diskStore) Last() (*Session, error) {
	paths, err := d.Paths()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoSession
	}
	return d.Load(paths[len(paths)-1])
}

func (d *diskStore) LoadAll() ([]*Session, error) {
	paths, err := d.Paths()
	if err != nil {
		return nil, err
	}
	sessions := make([]*Session, 0, len(paths))
	for _, p := range paths {
		s, err := d.Load(p)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// Save encodes s and writes it atomically via a temp file + os.Rename.
func (d *diskStore) Save(s *Session) (err error) {
	data, err := Encode(s)
	if err != nil {
		return err
	}

	path := s.Path()
	if path == "" {
		path = d.PathFor(s.Start())
	}

	// Write to a temp file in the same directory so os.Rename is atomic.
	tmp, err := os.CreateTemp(filepath.Dir(path), "session-*.md.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist session: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	s.path = path
	return nil
}
