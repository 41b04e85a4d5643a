package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/graft/pkg/core"
)

// Store implements core.SnapshotStore on a directory of snapshot files. The
// snapshot ID is the file path relative to the store directory; the extension
// selects the serializer.
type Store struct {
	Dir         string
	serializers map[string]Serializer
	config      Config

	mu            sync.RWMutex
	loads         int
	saves         int
	watcherActive bool
}

// Config holds the configuration for the filesystem snapshot store.
type Config struct {
	Dir        string
	Logger     *slog.Logger
	DefaultExt string // applied when a snapshot ID carries no extension, defaults to ".json"
	// ErrorHandler receives asynchronous watcher errors. When nil they are
	// logged and dropped.
	ErrorHandler func(error)
	// Serializers overrides the extension -> format table. When nil the
	// default JSON/YAML set is used.
	Serializers map[string]Serializer
}

// NewStore creates a filesystem snapshot store rooted at config.Dir.
func NewStore(config Config) *Store {
	serializers := config.Serializers
	if serializers == nil {
		serializers = DefaultSerializers()
	}
	if config.DefaultExt == "" {
		config.DefaultExt = ".json"
	}
	return &Store{
		Dir:         config.Dir,
		serializers: serializers,
		config:      config,
	}
}

// resolve maps a snapshot ID to an absolute path and its serializer.
func (s *Store) resolve(id string) (string, Serializer, error) {
	if id == "" {
		return "", nil, fmt.Errorf("snapshot ID is empty")
	}
	if strings.Contains(id, "..") {
		return "", nil, fmt.Errorf("snapshot ID %q escapes the store directory", id)
	}

	ext := filepath.Ext(id)
	if ext == "" {
		ext = s.config.DefaultExt
		id += ext
	}

	serializer, ok := s.serializers[strings.ToLower(ext)]
	if !ok {
		return "", nil, fmt.Errorf("no serializer registered for %q", ext)
	}
	return filepath.Join(s.Dir, id), serializer, nil
}

// Load implements core.SnapshotStore.
func (s *Store) Load(ctx context.Context, id string) (*core.Node, error) {
	path, serializer, err := s.resolve(id)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %q: %w", id, err)
	}
	defer f.Close()

	n, err := serializer.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %q: %w", id, err)
	}

	s.mu.Lock()
	s.loads++
	s.mu.Unlock()

	if s.config.Logger != nil {
		s.config.Logger.Debug("loaded snapshot", "id", id, "path", path)
	}
	return n, nil
}

// Save implements core.SnapshotStore. The write is atomic: the snapshot lands
// fully written or not at all.
func (s *Store) Save(ctx context.Context, id string, n *core.Node) error {
	path, serializer, err := s.resolve(id)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	data, err := serializer.Serialize(n)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot %q: %w", id, err)
	}

	if err := writeFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot %q: %w", id, err)
	}

	s.mu.Lock()
	s.saves++
	s.mu.Unlock()

	if s.config.Logger != nil {
		s.config.Logger.Debug("saved snapshot", "id", id, "path", path)
	}
	return nil
}

// Watch implements core.Watchable. It observes the store directory and emits
// an event per changed snapshot, debounced, until ctx is cancelled. The
// pattern is a doublestar glob matched against snapshot IDs; empty matches
// everything.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	events := make(chan core.Event, 16)
	w := newWatchWorker(s, pattern, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

// recursiveAdd registers the store directory and every subdirectory with the
// fsnotify watcher. fsnotify does not watch recursively on its own.
func (s *Store) recursiveAdd(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(s.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

// shouldIgnore filters watcher noise: temp files from atomic writes,
// directories, unknown extensions, and IDs outside the requested pattern.
func (s *Store) shouldIgnore(event fsnotify.Event, pattern string) bool {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, TempFilePrefix) || strings.HasPrefix(base, ".") {
		return true
	}

	ext := strings.ToLower(filepath.Ext(event.Name))
	if _, ok := s.serializers[ext]; !ok {
		return true
	}

	if pattern == "" {
		return false
	}
	id, err := s.resolveID(event.Name)
	if err != nil {
		return true
	}
	match, err := doublestar.Match(pattern, id)
	if err != nil {
		// Invalid pattern: watch everything rather than nothing.
		return false
	}
	return !match
}

// mapEventType translates an fsnotify op into a store event type. Ops that
// carry no snapshot change (chmod) map to the empty string.
func (s *Store) mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return ""
	}
}

// resolveID maps an absolute file path back to a snapshot ID.
func (s *Store) resolveID(path string) (string, error) {
	rel, err := filepath.Rel(s.Dir, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

func (s *Store) handleError(err error) {
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
		return
	}
	if s.config.Logger != nil {
		s.config.Logger.Error("store error", "error", err)
	}
}

var _ core.SnapshotStore = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)
