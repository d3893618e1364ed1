package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
)

// noiseDirs are directory names excluded from structure fingerprinting.
// They hold dependency or tool output whose churn does not reflect a
// source change.
var noiseDirs = map[string]bool{
	".git":          true,
	".build-cache":  true,
	"node_modules":  true,
	"__pycache__":   true,
	".pytest_cache": true,
	"dist":          true,
	"build":         true,
	".next":         true,
	"venv":          true,
	".venv":         true,
	"coverage":      true,
}

// FingerprintCache decides whether a build target's inputs have changed
// since its last successful build.
type FingerprintCache interface {
	// ComputeFingerprint hashes the target's checksum inputs and source
	// tree structure into a stable digest.
	ComputeFingerprint(target models.BuildTarget) (string, error)

	// IsCacheValid reports whether the persisted entry for the target
	// matches the fresh fingerprint and is not stale.
	IsCacheValid(target models.BuildTarget) bool

	// Commit durably records a fingerprint after a successful build.
	Commit(target models.BuildTarget, hash string, buildDuration time.Duration) error

	// Load returns the persisted entry for a target.
	Load(target models.BuildTarget) (*models.CacheEntry, error)
}

// Cache implements FingerprintCache with one JSON document per target.
type Cache struct {
	maxAge time.Duration
	logger *slog.Logger
}

// Option is a functional option for configuring Cache.
type Option func(*Cache)

// WithMaxAge sets the maximum age before an entry is treated as stale.
func WithMaxAge(maxAge time.Duration) Option {
	return func(c *Cache) {
		c.maxAge = maxAge
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// NewCache creates a Cache with a 24 hour maximum entry age.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		maxAge: 24 * time.Hour,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// treeEntry is one element of the canonical source-tree serialization.
type treeEntry struct {
	Path    string `json:"path"`
	Size    int64  `json:"size"`
	ModTime int64  `json:"mod_time"`
}

// ComputeFingerprint hashes (a) the contents of each checksum input file
// that exists and (b) a canonical serialization of the source directory
// structure. Entries are sorted by path before hashing so traversal
// order never affects the digest. Missing input files are skipped.
func (c *Cache) ComputeFingerprint(target models.BuildTarget) (string, error) {
	h := sha256.New()

	inputs := append([]string(nil), target.ChecksumInputs...)
	sort.Strings(inputs)

	for _, rel := range inputs {
		path := filepath.Join(target.SourceDirectory, rel)
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("reading checksum input %s: %w", path, err)
		}
		if _, err := io.Copy(h, f); err != nil {
			f.Close()
			return "", fmt.Errorf("hashing checksum input %s: %w", path, err)
		}
		f.Close()
	}

	entries, err := c.collectTree(target.SourceDirectory)
	if err != nil {
		return "", fmt.Errorf("walking source directory %s: %w", target.SourceDirectory, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	structure, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("serializing tree structure: %w", err)
	}
	h.Write(structure)

	return hex.EncodeToString(h.Sum(nil)), nil
}

// collectTree gathers {path, size, mtime} for every regular file under
// root, excluding noise directories.
func (c *Cache) collectTree(root string) ([]treeEntry, error) {
	var entries []treeEntry

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Files disappearing mid-walk are treated like missing inputs.
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if noiseDirs[d.Name()] && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entries = append(entries, treeEntry{
			Path:    filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime().UnixNano(),
		})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	return entries, nil
}

// IsCacheValid recomputes the fingerprint and compares it against the
// persisted entry. Any read or parse failure is treated as a cache miss:
// correctness favors rebuilding over silently skipping a required build.
func (c *Cache) IsCacheValid(target models.BuildTarget) bool {
	fresh, err := c.ComputeFingerprint(target)
	if err != nil {
		c.logger.Warn("fingerprint computation failed, treating as cache miss",
			"target_id", target.ID, "error", err)
		return false
	}

	entry, err := c.Load(target)
	if err != nil {
		if !errors.Is(err, ErrEntryNotFound) {
			c.logger.Warn("cache entry unusable, treating as cache miss",
				"target_id", target.ID, "error", err)
		}
		return false
	}

	if entry.Hash != fresh {
		return false
	}
	if time.Since(entry.Timestamp) >= c.maxAge {
		return false
	}
	return true
}

// Load reads the persisted cache entry for a target.
func (c *Cache) Load(target models.BuildTarget) (*models.CacheEntry, error) {
	data, err := os.ReadFile(c.entryPath(target))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("reading cache entry for %s: %w", target.ID, err)
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntryCorrupt, err)
	}
	if entry.Hash == "" {
		return nil, ErrEntryCorrupt
	}

	return &entry, nil
}

// Commit writes the cache entry durably (temp file plus rename) so a
// later invocation can report a cache hit only if the entry survived.
func (c *Cache) Commit(target models.BuildTarget, hash string, buildDuration time.Duration) error {
	entry := models.CacheEntry{
		TargetID:            target.ID,
		Hash:                hash,
		Timestamp:           time.Now().UTC(),
		LastBuildDurationMs: buildDuration.Milliseconds(),
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing cache entry for %s: %w", target.ID, err)
	}

	dir := c.cacheDir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, target.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing cache entry for %s: %w", target.ID, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing cache entry for %s: %w", target.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing cache entry for %s: %w", target.ID, err)
	}

	if err := os.Rename(tmpName, c.entryPath(target)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("committing cache entry for %s: %w", target.ID, err)
	}

	return nil
}

func (c *Cache) cacheDir(target models.BuildTarget) string {
	if target.CacheDirectory != "" {
		return target.CacheDirectory
	}
	return ".build-cache"
}

func (c *Cache) entryPath(target models.BuildTarget) string {
	return filepath.Join(c.cacheDir(target), target.ID+".json")
}
