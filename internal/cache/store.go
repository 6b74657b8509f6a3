// Package cache persists parsed spawn logs keyed by source path and
// modification time, so unchanged logs are not parsed twice.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lawnchairsociety/roguestats/internal/logger"
	"github.com/lawnchairsociety/roguestats/internal/monster"
	"github.com/lawnchairsociety/roguestats/internal/spawnlog"
)

// Config locates the cache on disk.
type Config struct {
	// Dir is the per-user cache root, e.g. $XDG_CACHE_HOME.
	Dir string

	// AppName namespaces entries: files live in Dir/AppName/AppName_<key>.json.
	AppName string

	// MemoryEntries sizes the in-process LRU in front of the files. 0 disables it.
	MemoryEntries int
}

// Entry is the on-disk layout of one cached spawn log.
type Entry struct {
	Header       spawnlog.Header     `json:"header"`
	LevelSpawns  map[int][]int       `json:"lmonsters"`
	WanderSpawns map[int][]int       `json:"wmonsters"`
	Monsters     map[string][]string `json:"monsters"`
}

// EntryInfo describes a cache file found on disk.
type EntryInfo struct {
	Path    string
	Header  spawnlog.Header
	ModTime time.Time
}

// Store reads and writes cache entries. A nil *Store caches nothing.
type Store struct {
	dir string
	app string
	mem *lru.Cache[string, *spawnlog.Log]
}

// New creates a store. The directory is created lazily on the first write.
func New(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	app := strings.TrimSpace(cfg.AppName)
	if app == "" {
		return nil, fmt.Errorf("cache application name is required")
	}

	s := &Store{
		dir: filepath.Join(cfg.Dir, app),
		app: app,
	}
	if cfg.MemoryEntries > 0 {
		mem, err := lru.New[string, *spawnlog.Log](cfg.MemoryEntries)
		if err != nil {
			return nil, fmt.Errorf("failed to create memory cache: %w", err)
		}
		s.mem = mem
	}
	return s, nil
}

// Dir returns the directory holding the cache files.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the cache file for fp.
func (s *Store) Path(fp Fingerprint) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", s.app, fp.Key()))
}

// Lookup returns the cached log for fp. Every failure is a miss.
func (s *Store) Lookup(fp Fingerprint) (*spawnlog.Log, bool) {
	if s == nil || !fp.Valid() {
		return nil, false
	}
	key := fp.Key()
	if s.mem != nil {
		if log, ok := s.mem.Get(key); ok {
			logger.Debug("Cache hit (memory)", "source", fp.Path)
			return log, true
		}
	}

	path := s.Path(fp)
	entry, err := readEntry(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Cache miss", "source", fp.Path, "path", path)
		} else {
			logger.Warning("Could not read cache", "path", path, "error", err)
		}
		return nil, false
	}

	log, err := entry.toLog()
	if err != nil {
		logger.Warning("Discarding corrupt cache entry", "path", path, "error", err)
		return nil, false
	}

	logger.Debug("Reading from cache file", "path", path)
	if s.mem != nil {
		s.mem.Add(key, log)
	}
	return log, true
}

// Store writes log as the entry for fp. Failures are logged, never returned.
func (s *Store) Store(fp Fingerprint, log *spawnlog.Log) {
	if s == nil || !fp.Valid() || log == nil {
		return
	}
	if s.mem != nil {
		s.mem.Add(fp.Key(), log)
	}

	path := s.Path(fp)
	logger.Debug("Saving data to cache file", "path", path)
	if err := writeEntry(path, newEntry(log)); err != nil {
		logger.Warning("Could not write cache", "path", path, "error", err)
	}
}

// Entries lists the cache files currently on disk, newest first.
func (s *Store) Entries() ([]EntryInfo, error) {
	if s == nil {
		return nil, nil
	}
	files, err := s.files()
	if err != nil {
		return nil, err
	}

	infos := make([]EntryInfo, 0, len(files))
	for _, path := range files {
		entry, err := readEntry(path)
		if err != nil {
			logger.Warning("Skipping unreadable cache file", "path", path, "error", err)
			continue
		}
		info := EntryInfo{Path: path, Header: entry.Header}
		if st, err := os.Stat(path); err == nil {
			info.ModTime = st.ModTime()
		}
		infos = append(infos, info)
	}
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].ModTime.After(infos[j].ModTime)
	})
	return infos, nil
}

// Clear removes every cache file and returns how many were removed.
func (s *Store) Clear() (int, error) {
	if s == nil {
		return 0, nil
	}
	if s.mem != nil {
		s.mem.Purge()
	}
	files, err := s.files()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, path := range files {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed++
	}
	return removed, nil
}

func (s *Store) files() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, s.app+"_*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list cache: %w", err)
	}
	return files, nil
}

func newEntry(log *spawnlog.Log) *Entry {
	entry := &Entry{
		Header:       log.Header,
		LevelSpawns:  make(map[int][]int, len(log.Table.LevelSpawns)),
		WanderSpawns: make(map[int][]int, len(log.Table.WanderSpawns)),
		Monsters:     map[string][]string{"": monster.Symbols()},
	}
	for level, counts := range log.Table.LevelSpawns {
		entry.LevelSpawns[level] = append([]int(nil), counts[:]...)
	}
	for level, counts := range log.Table.WanderSpawns {
		entry.WanderSpawns[level] = append([]int(nil), counts[:]...)
	}
	return entry
}

func (e *Entry) toLog() (*spawnlog.Log, error) {
	if symbols := e.Monsters[""]; strings.Join(symbols, "") != monster.Alphabet {
		return nil, fmt.Errorf("monster alphabet mismatch: %v", symbols)
	}

	table := spawnlog.NewTable()
	if err := fillCounts(table.LevelSpawns, e.LevelSpawns); err != nil {
		return nil, fmt.Errorf("lmonsters: %w", err)
	}
	if err := fillCounts(table.WanderSpawns, e.WanderSpawns); err != nil {
		return nil, fmt.Errorf("wmonsters: %w", err)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if table.NumLevels() == 0 {
		return nil, fmt.Errorf("entry has no levels")
	}
	if n := table.NumLevels(); e.Header.Levels != n || e.Header.Lines != 2*n {
		return nil, fmt.Errorf("header says %d levels in %d lines, table has %d levels",
			e.Header.Levels, e.Header.Lines, n)
	}
	return &spawnlog.Log{Header: e.Header, Table: table}, nil
}

func fillCounts(dst map[int]monster.Counts, src map[int][]int) error {
	for level, values := range src {
		if len(values) != monster.Count {
			return fmt.Errorf("level %d has %d counts, want %d", level, len(values), monster.Count)
		}
		var counts monster.Counts
		for i, n := range values {
			if n < 0 {
				return fmt.Errorf("level %d has a negative count", level)
			}
			counts[i] = n
		}
		dst[level] = counts
	}
	return nil
}

func readEntry(path string) (*Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entry Entry
	if err := json.NewDecoder(f).Decode(&entry); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return &entry, nil
}

func writeEntry(path string, entry *Entry) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
