package producer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"cstyle/internal/project"
	"cstyle/internal/syntax"
)

// Current schema version - increment when DiskPayload or the wire form changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит деревья producer'а по ключу содержимого на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached producer result.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	// Path the producer was run on; a key collision with another path is a miss.
	Path string

	// msgpack-encoded syntax.WireForest
	Tree []byte
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key project.Digest) string {
	// подкаталог "trees", чтобы DropAll не задевал чужое
	return filepath.Join(c.dir, "trees", key.String()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Атомарная замена
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	trees := filepath.Join(c.dir, "trees")
	old := trees + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(trees, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// CachedSource serves trees from a DiskCache and falls back to an inner
// source on a miss. Entries are keyed by file content, path and producer
// identity, so an edited file or a different producer never hits.
type CachedSource struct {
	inner    Source
	cache    *DiskCache
	identity project.Digest

	hits, misses atomic.Int64
}

// NewCachedSource wraps inner. identity should change whenever the producer
// could emit different trees for the same input.
func NewCachedSource(inner Source, cache *DiskCache, identity string) *CachedSource {
	return &CachedSource{
		inner:    inner,
		cache:    cache,
		identity: project.SumStrings(identity),
	}
}

// Stats returns the number of cache hits and misses so far.
func (s *CachedSource) Stats() (hits, misses int64) {
	return s.hits.Load(), s.misses.Load()
}

func (s *CachedSource) key(path string, content []byte) project.Digest {
	return project.Combine(project.Sum(content), s.identity, project.SumStrings(path))
}

func (s *CachedSource) Produce(ctx context.Context, path string, content []byte) (Tree, error) {
	key := s.key(path, content)
	if tree, ok := s.lookup(key, path); ok {
		s.hits.Add(1)
		return tree, nil
	}
	s.misses.Add(1)

	tree, err := s.inner.Produce(ctx, path, content)
	if err != nil {
		return Tree{}, err
	}
	if data, err := syntax.EncodeMsgpack(tree.Wire); err == nil {
		// cache write failures are not fatal
		_ = s.cache.Put(key, &DiskPayload{Schema: diskCacheSchemaVersion, Path: path, Tree: data})
	}
	return tree, nil
}

// lookup treats unreadable or stale entries as misses.
func (s *CachedSource) lookup(key project.Digest, path string) (Tree, bool) {
	var payload DiskPayload
	ok, err := s.cache.Get(key, &payload)
	if err != nil || !ok || payload.Schema != diskCacheSchemaVersion || payload.Path != path {
		return Tree{}, false
	}
	wf, err := syntax.DecodeMsgpack(payload.Tree)
	if err != nil {
		return Tree{}, false
	}
	forest, err := wf.Build()
	if err != nil {
		return Tree{}, false
	}
	return Tree{Forest: forest, Wire: wf}, true
}
